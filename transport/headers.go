package transport

import (
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/switchupcb/ratelimit/ratelimit"
	"github.com/valyala/fasthttp"
)

// HTTP Header names, byte-form for fasthttp.Header.PeekBytes, mirroring
// disgo's wrapper/ratelimit.go header* variables.
var (
	headerRateLimitLimit      = []byte("X-RateLimit-Limit")
	headerRateLimitRemaining  = []byte("X-RateLimit-Remaining")
	headerRateLimitResetAfter = []byte("X-RateLimit-Reset-After")
	headerRateLimitGlobal     = []byte("X-RateLimit-Global")
)

// msPerSecond converts the fractional-seconds X-RateLimit-Reset-After
// header into the milliseconds ratelimit.HeaderSummary expects.
const msPerSecond = 1000

// RetryAfterBody is the JSON body Discord-shaped APIs return alongside
// a 429 status, decoded with goccy/go-json in HeaderSummaryFrom429.
// Grounded on disgo's RateLimitResponse (disgo.go, since deleted; see
// DESIGN.md).
type RetryAfterBody struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"`
	Global     bool    `json:"global"`
}

// HeaderSummaryFromResponse builds a ratelimit.HeaderSummary from a
// successful (non-429) fasthttp.Response. It returns
// ratelimit.NoHeaders() when the rate limit headers are absent,
// matching spec §4.B's None variant.
//
// Grounded on disgo's wrapper/request.go peekHeaderRateLimit.
func HeaderSummaryFromResponse(r *fasthttp.Response) ratelimit.HeaderSummary {
	limitRaw := r.Header.PeekBytes(headerRateLimitLimit)
	if len(limitRaw) == 0 {
		return ratelimit.NoHeaders()
	}

	limit, err := strconv.ParseUint(string(limitRaw), 10, 64)
	if err != nil {
		return ratelimit.NoHeaders()
	}

	remaining, err := strconv.ParseUint(string(r.Header.PeekBytes(headerRateLimitRemaining)), 10, 64)
	if err != nil {
		return ratelimit.NoHeaders()
	}

	resetAfterSeconds, err := strconv.ParseFloat(string(r.Header.PeekBytes(headerRateLimitResetAfter)), 64)
	if err != nil {
		return ratelimit.NoHeaders()
	}

	global, _ := strconv.ParseBool(string(r.Header.PeekBytes(headerRateLimitGlobal)))

	return ratelimit.PresentHeaders(global, limit, remaining, uint64(resetAfterSeconds*msPerSecond))
}

// HeaderSummaryFrom429 builds the ratelimit.HeaderSummary for a 429
// response, decoding its JSON body for retry_after with
// github.com/goccy/go-json.
//
// Grounded on disgo's wrapper/request.go StatusTooManyRequests branch.
func HeaderSummaryFrom429(body []byte) (ratelimit.HeaderSummary, error) {
	var data RetryAfterBody
	if err := json.Unmarshal(body, &data); err != nil {
		return ratelimit.HeaderSummary{}, err //nolint:exhaustruct
	}

	resetAfterMs := uint64(data.RetryAfter * msPerSecond)

	if data.Global {
		return ratelimit.GlobalLimitedHeaders(resetAfterMs), nil
	}

	return ratelimit.PresentHeaders(false, 0, 0, resetAfterMs), nil
}
