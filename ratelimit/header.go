package ratelimit

// HeaderKind discriminates the variants of HeaderSummary.
type HeaderKind uint8

const (
	// HeaderNone indicates the response carried no rate limit headers;
	// bucket state must not be touched.
	HeaderNone HeaderKind = iota

	// HeaderPresent indicates the response carried the full set of
	// per-route rate limit headers.
	HeaderPresent

	// HeaderGlobalLimited indicates the response was a global rate
	// limit rejection carrying only a reset-after value.
	HeaderGlobalLimited
)

// HeaderSummary is the tagged value a transport produces from an HTTP
// response's rate limit headers. The core never parses raw headers;
// it only consumes this summary (see spec §4.B).
type HeaderSummary struct {
	Kind HeaderKind

	// Global indicates this specific response tripped the
	// account-wide limit. Only meaningful when Kind == HeaderPresent.
	Global bool

	// Limit, Remaining are the per-route quota counters. Only
	// meaningful when Kind == HeaderPresent.
	Limit, Remaining uint64

	// ResetAfter is the duration, in milliseconds, until the bucket's
	// current window resets. Meaningful when Kind == HeaderPresent or
	// Kind == HeaderGlobalLimited.
	ResetAfter uint64
}

// NoHeaders is the HeaderSummary a producer sends when the response
// carried no rate limit headers at all.
func NoHeaders() HeaderSummary {
	return HeaderSummary{Kind: HeaderNone} //nolint:exhaustruct
}

// PresentHeaders builds the HeaderSummary for a response carrying the
// full per-route rate limit header set.
func PresentHeaders(global bool, limit, remaining, resetAfter uint64) HeaderSummary {
	return HeaderSummary{
		Kind:       HeaderPresent,
		Global:     global,
		Limit:      limit,
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}
}

// GlobalLimitedHeaders builds the HeaderSummary for a response that was
// itself a global rate limit rejection.
func GlobalLimitedHeaders(resetAfter uint64) HeaderSummary {
	return HeaderSummary{Kind: HeaderGlobalLimited, ResetAfter: resetAfter} //nolint:exhaustruct
}
