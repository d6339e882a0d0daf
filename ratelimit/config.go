package ratelimit

import "time"

// defaultWait is the liveness timeout spec §4.E names WAIT: applied
// to both queue-pop and reply-receive. A stalled producer must not tie
// up a bucket forever; a bucket with no traffic must retire to free
// memory.
const defaultWait = 10 * time.Second

// Config holds the one load-bearing knob spec §6 names (WAIT),
// exposed as two independently overridable fields the way disgo's
// DefaultRequest exposes Timeout/Retries as struct fields rather than
// package constants, so tests can shrink timeouts without touching
// production defaults.
type Config struct {
	// WaitQueue bounds how long a driver waits for a ticket before
	// retiring its bucket.
	WaitQueue time.Duration

	// WaitReply bounds how long a driver waits for an admitted
	// producer to send back a HeaderSummary.
	WaitReply time.Duration
}

// DefaultConfig returns the default Config: both timeouts at WAIT
// (10s), mirroring disgo's DefaultConfig/DefaultRequest pattern in
// disgo.go.
func DefaultConfig() *Config {
	return &Config{
		WaitQueue: defaultWait,
		WaitReply: defaultWait,
	}
}
