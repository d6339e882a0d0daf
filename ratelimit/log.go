package ratelimit

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// init configures the package Logger the same way disgo's wrapper/log.go
// does: nanosecond timestamps, disabled by default so embedding
// applications opt in explicitly.
func init() { //nolint:gochecknoinits
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

// Logger is the package-wide logger used for the debug log points
// named in spec §6: driver start, pre-admission, pre-reply-wait,
// receiver timeout, bucket update, global lock acquisition, and driver
// retirement.
var Logger = zerolog.New(os.Stdout) //nolint:gochecknoglobals

// Log context field keys, mirroring disgo's LogCtx* naming in
// wrapper/log.go.
const (
	// LogCtxRoute is the log key for a Route.
	LogCtxRoute = "route"

	// LogCtxTicket is the log key for a Ticket correlation ID.
	LogCtxTicket = "ticket"
)

func logDriver(route Route) *zerolog.Event {
	return Logger.Debug().Timestamp().Str(LogCtxRoute, string(route))
}

func logTicket(route Route, ticket *Ticket) *zerolog.Event {
	return logDriver(route).Str(LogCtxTicket, ticket.ID.String())
}
