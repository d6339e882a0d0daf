package ratelimit

import "fmt"

// Route is an opaque, hashable, comparable identifier naming one rate
// limit bucket. Two tickets with equal Routes share a bucket.
//
// Out of scope: the collapsing of concrete endpoints (e.g.
// "POST /channels/123/messages") into a shared Route is the
// responsibility of the caller's route taxonomy; the core never
// inspects a Route's contents.
type Route string

// RouteFromMethodAndBucket builds a Route from an HTTP method and a
// rate limit bucket discriminator (e.g. the value Discord returns in
// "X-RateLimit-Bucket", or a major-parameter-stripped path template).
// It is a convenience for callers that have not defined their own
// Route taxonomy; it is not used by the core itself.
func RouteFromMethodAndBucket(method, bucket string) Route {
	return Route(fmt.Sprintf("%s:%s", method, bucket))
}
