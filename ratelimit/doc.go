// Package ratelimit implements the per-route rate-limiting core of an
// HTTP client for a chat-platform API: a population of per-route
// buckets, each drained by its own long-running driver, coordinated by
// a single global gate that preempts every bucket when the remote
// service signals an account-wide rate limit.
//
// The package treats routes as opaque, hashable identifiers and
// response headers as an already-parsed summary; it does not perform
// HTTP transport, request building, or header parsing itself. See the
// sibling transport package for a worked adapter.
package ratelimit
