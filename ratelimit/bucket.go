package ratelimit

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Unbounded is the sentinel value for an uninitialised Bucket counter:
// "unknown, effectively unbounded" until the first header arrives.
const Unbounded = math.MaxUint64

// TimeRemainingKind discriminates the outcome of Bucket.TimeRemaining.
type TimeRemainingKind uint8

const (
	// TimeNotStarted indicates the bucket's window has not begun.
	TimeNotStarted TimeRemainingKind = iota

	// TimeFinished indicates the window has elapsed.
	TimeFinished

	// TimeSome indicates the window is in progress; Delta holds the
	// remaining duration.
	TimeSome
)

// TimeRemaining is the result of Bucket.TimeRemaining.
type TimeRemaining struct {
	Kind  TimeRemainingKind
	Delta time.Duration
}

// Ratelimits is the (limit, remaining, resetAfter) triple carried by a
// Present HeaderSummary, passed to Bucket.Update.
type Ratelimits struct {
	Limit, Remaining, ResetAfter uint64
}

// Bucket is the mutable per-route rate limit accounting unit: quota
// counters plus a request queue (see Queue). Counters are atomic;
// startedAt is guarded by startedAtMu. Update stores the first
// header's resetAfter and limit as two atomic writes, outside that
// mutex.
//
// Grounded on original_source/http/src/ratelimiting/bucket.rs, adapted
// from Rust AtomicU64 + futures::lock::Mutex to Go sync/atomic + sync.Mutex.
type Bucket struct {
	Route Route

	limit      uint64 // atomic
	remaining  uint64 // atomic
	resetAfter uint64 // atomic

	startedAtMu sync.Mutex
	startedAt   *time.Time

	queue *Queue
}

// NewBucket returns a Bucket for route with all counters at the
// Unbounded sentinel and an empty queue.
func NewBucket(route Route) *Bucket {
	return &Bucket{
		Route:      route,
		limit:      Unbounded,
		remaining:  Unbounded,
		resetAfter: Unbounded,
		queue:      NewQueue(),
	}
}

// Limit returns the bucket's current capacity-per-window counter.
func (b *Bucket) Limit() uint64 { return atomic.LoadUint64(&b.limit) }

// Remaining returns the bucket's current remaining-in-window counter.
func (b *Bucket) Remaining() uint64 { return atomic.LoadUint64(&b.remaining) }

// ResetAfter returns the bucket's current window duration, in
// milliseconds.
func (b *Bucket) ResetAfter() uint64 { return atomic.LoadUint64(&b.resetAfter) }

// TimeRemaining reports how far the bucket is into its current window.
func (b *Bucket) TimeRemaining() TimeRemaining {
	resetAfter := b.ResetAfter()

	b.startedAtMu.Lock()
	startedAt := b.startedAt
	b.startedAtMu.Unlock()

	if startedAt == nil {
		return TimeRemaining{Kind: TimeNotStarted} //nolint:exhaustruct
	}

	elapsed := time.Since(*startedAt)
	window := time.Duration(resetAfter) * time.Millisecond

	if elapsed > window {
		return TimeRemaining{Kind: TimeFinished} //nolint:exhaustruct
	}

	return TimeRemaining{Kind: TimeSome, Delta: window - elapsed}
}

// TryReset resets the bucket to a fresh window (remaining <- limit,
// startedAt cleared) if the current window has finished. It reports
// whether a reset occurred.
func (b *Bucket) TryReset() bool {
	b.startedAtMu.Lock()
	started := b.startedAt != nil
	b.startedAtMu.Unlock()

	if !started {
		return false
	}

	if b.TimeRemaining().Kind != TimeFinished {
		return false
	}

	atomic.StoreUint64(&b.remaining, b.Limit())

	b.startedAtMu.Lock()
	b.startedAt = nil
	b.startedAtMu.Unlock()

	return true
}

// Update applies the outcome of one admitted request's response to
// the bucket. ratelimits is nil for the no-headers outcome.
//
// The first observed Present header fixes limit and resetAfter
// together (sequentially consistent); later responses only update
// remaining. This prevents two concurrent in-flight requests from
// racing to initialise the window to different values.
func (b *Bucket) Update(ratelimits *Ratelimits) {
	b.startedAtMu.Lock()
	if b.startedAt == nil {
		now := time.Now()
		b.startedAt = &now
	}
	b.startedAtMu.Unlock()

	if ratelimits == nil {
		b.decrementRemaining()

		return
	}

	bucketLimit := b.Limit()
	if bucketLimit != ratelimits.Limit {
		if bucketLimit == Unbounded {
			atomic.StoreUint64(&b.resetAfter, ratelimits.ResetAfter)
			atomic.StoreUint64(&b.limit, ratelimits.Limit)
		}
	}

	atomic.StoreUint64(&b.remaining, ratelimits.Remaining)
}

// decrementRemaining saturates at zero instead of wrapping, resolving
// the open question in spec §9 about fetch_sub underflow. handleHeaders
// reaches this only via the GlobalLimited variant (Update(nil)); the
// None variant returns before calling Update at all.
func (b *Bucket) decrementRemaining() {
	for {
		current := b.Remaining()
		if current == 0 {
			return
		}

		if atomic.CompareAndSwapUint64(&b.remaining, current, current-1) {
			return
		}
	}
}
