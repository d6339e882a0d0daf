package ratelimit

import "errors"

// Internal sentinel errors, in disgo's wrapper/errors.go style of
// naming error conditions with an Err-prefixed identifier. None of
// these cross the producer-protocol boundary (spec §7): the protocol
// itself has no error return. No function in the package returns
// them.
var (
	// ErrBucketRetired indicates an operation was attempted against a
	// bucket whose driver has already exited and been removed from
	// the registry.
	ErrBucketRetired = errors.New("ratelimit: bucket retired")
)
