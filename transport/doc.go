// Package transport is a worked example of the collaborator the
// ratelimit core treats as out-of-scope: it produces a
// ratelimit.HeaderSummary from a raw HTTP response.
//
// Grounded on github.com/switchupcb/disgo's wrapper/ratelimit.go and
// wrapper/request.go (peekHeaderRateLimit, peekHeader429), adapted to
// return a value instead of mutating a RateLimiter in place.
package transport
