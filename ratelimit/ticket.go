package ratelimit

import "github.com/rs/xid"

// ReplyChan is the one-shot channel a driver hands to an admitted
// producer. The producer sends the parsed HeaderSummary on it once
// the HTTP round-trip completes, or closes it / lets it be garbage
// collected unsent to signal abort.
type ReplyChan chan<- HeaderSummary

// Ticket is the one-shot carrier a producer holds until the bucket
// driver admits it. Admission delivers a ReplyChan on admitted; the
// producer then performs its HTTP round-trip and sends the resulting
// HeaderSummary back on that channel (or never sends, to abort).
//
// ID is a correlation ID (domain stack: github.com/rs/xid, grounded on
// disgo's LogCtxCorrelation field in wrapper/log.go) threaded through
// the driver's debug log lines for this ticket's admission-to-reply
// cycle.
type Ticket struct {
	ID       xid.ID
	admitted chan ReplyChan
}

// NewTicket allocates a Ticket and returns it alongside the producer's
// receive end of the admission channel. The producer awaits admitted
// per spec §6 step 2.
func NewTicket() (*Ticket, <-chan ReplyChan) {
	admitted := make(chan ReplyChan, 1)

	return &Ticket{ID: xid.New(), admitted: admitted}, admitted
}

// admit delivers reply to the ticket's producer. Called by a bucket
// driver exactly once per ticket, after queue admission.
func (t *Ticket) admit(reply ReplyChan) {
	t.admitted <- reply
	close(t.admitted)
}
