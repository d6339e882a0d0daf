package ratelimit

import (
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// testConfig shrinks WAIT so idle-retirement and abort scenarios don't
// take the production 10s.
func testConfig() *Config {
	return &Config{WaitQueue: 150 * time.Millisecond, WaitReply: 150 * time.Millisecond}
}

// enqueueAndAwait enqueues a ticket on route and blocks until the
// driver admits it, returning the reply channel the test uses to
// respond (or not, to abort).
func enqueueAndAwait(t *testing.T, r *Registry, route Route) (*Ticket, ReplyChan) {
	t.Helper()

	ticket, admitted := NewTicket()
	r.Enqueue(route, ticket)

	select {
	case reply := <-admitted:
		return ticket, reply
	case <-time.After(2 * time.Second):
		t.Fatalf("ticket on route %q was never admitted", route)

		return nil, nil
	}
}

// TestSingleRequestHeadersPresent is spec §8 end-to-end scenario 1.
func TestSingleRequestHeadersPresent(t *testing.T) {
	r := NewRegistry(testConfig())
	route := Route("R")

	_, reply := enqueueAndAwait(t, r, route)
	reply <- PresentHeaders(false, 5, 4, 1000)

	time.Sleep(20 * time.Millisecond)

	bucket := r.bucketFor(route)

	if got := bucket.Limit(); got != 5 {
		t.Fatalf("Limit() = %d, want 5", got)
	}

	if got := bucket.Remaining(); got != 4 {
		t.Fatalf("Remaining() = %d, want 4", got)
	}

	if got := bucket.ResetAfter(); got != 1000 {
		t.Fatalf("ResetAfter() = %d, want 1000", got)
	}

	if bucket.TimeRemaining().Kind == TimeNotStarted {
		t.Fatal("startedAt not set after first admitted response")
	}
}

// TestQuotaExhaustionPaces is spec §8 end-to-end scenario 2: five
// requests against limit=5 exhaust the window; a sixth ticket is
// admitted only once the window (reset_after) elapses.
func TestQuotaExhaustionPaces(t *testing.T) {
	r := NewRegistry(testConfig())
	route := Route("R")

	const (
		limit      = 5
		resetAfter = 300 // ms
	)

	for i := uint64(1); i <= limit; i++ {
		_, reply := enqueueAndAwait(t, r, route)
		reply <- PresentHeaders(false, limit, limit-i, resetAfter)
	}

	start := time.Now()

	ticket, admitted := NewTicket()
	r.Enqueue(route, ticket)

	select {
	case <-admitted:
	case <-time.After(2 * time.Second):
		t.Fatal("sixth ticket was never admitted")
	}

	elapsed := time.Since(start)

	if elapsed < (resetAfter-50)*time.Millisecond {
		t.Fatalf("sixth ticket admitted after only %v, expected to wait out the window", elapsed)
	}
}

// TestGlobalLimitAcrossRoutes is spec §8 end-to-end scenario 3: a
// GlobalLimited response on one route defers admission on a different
// route by at least reset_after.
func TestGlobalLimitAcrossRoutes(t *testing.T) {
	r := NewRegistry(testConfig())

	const resetAfter = 500 // ms

	r1, r2 := Route("R1"), Route("R2")

	_, reply1 := enqueueAndAwait(t, r, r1)

	reply1 <- GlobalLimitedHeaders(resetAfter)

	// give driver1 time to observe the reply and acquire the global
	// gate's region before R2's ticket exists, so the measurement below
	// is not racing driver1's own goroutine scheduling.
	time.Sleep(20 * time.Millisecond)
	replyReceivedAt := time.Now()

	ticket2, admitted2 := NewTicket()
	r.Enqueue(r2, ticket2)

	select {
	case <-admitted2:
	case <-time.After(2 * time.Second):
		t.Fatal("R2 ticket was never admitted")
	}

	elapsed := time.Since(replyReceivedAt)

	if elapsed < (resetAfter-100)*time.Millisecond {
		t.Fatalf("R2 admitted after only %v since global limit reply, want >= %dms", elapsed, resetAfter-100)
	}
}

// TestAbortDoesNotPaceOrRefund is spec §8 end-to-end scenario 4: a
// dropped reply channel leaves the bucket untouched, and the next
// ticket on the same route is admitted immediately.
func TestAbortDoesNotPaceOrRefund(t *testing.T) {
	r := NewRegistry(testConfig())
	route := Route("R")

	ticket, admitted := NewTicket()
	r.Enqueue(route, ticket)

	select {
	case reply := <-admitted:
		close(reply) // abort: close without sending
	case <-time.After(2 * time.Second):
		t.Fatal("first ticket was never admitted")
	}

	start := time.Now()
	_, _ = enqueueAndAwait(t, r, route)
	elapsed := time.Since(start)

	if elapsed > 200*time.Millisecond {
		t.Fatalf("second ticket admitted after %v, want near-immediate admission", elapsed)
	}

	bucket := r.bucketFor(route)
	if bucket.TimeRemaining().Kind != TimeNotStarted {
		t.Fatal("bucket state touched by an aborted request")
	}
}

// TestIdleRetirement is spec §8 end-to-end scenario 5.
func TestIdleRetirement(t *testing.T) {
	r := NewRegistry(testConfig())
	route := Route("R")

	_, reply := enqueueAndAwait(t, r, route)
	reply <- PresentHeaders(false, 1, 1, 1000)

	if !r.Contains(route) {
		t.Fatal("registry does not contain route immediately after reply")
	}

	time.Sleep(r.config.WaitQueue + 100*time.Millisecond)

	if r.Contains(route) {
		t.Fatal("registry still contains route after WaitQueue idle period")
	}
}

// TestFIFOAdmission is spec §8 end-to-end scenario 6: tickets enqueued
// in order t1, t2, t3 on one route are admitted in that order.
func TestFIFOAdmission(t *testing.T) {
	r := NewRegistry(testConfig())
	route := Route("R")

	const n = 3

	tickets := make([]*Ticket, n)
	admittedChs := make([]<-chan ReplyChan, n)

	for i := range tickets {
		tickets[i], admittedChs[i] = NewTicket()
		r.Enqueue(route, tickets[i])
	}

	order := make([]int, 0, n)

	for i := 0; i < n; i++ {
		idx := i

		select {
		case reply := <-admittedChs[idx]:
			order = append(order, idx)
			reply <- NoHeaders()
		case <-time.After(2 * time.Second):
			t.Fatalf("ticket %d was never admitted", idx)
		}
	}

	for i, got := range order {
		if got != i {
			t.Fatalf("admission order = %v, want [0 1 2]", order)
		}
	}
}

// TestConcurrentProducersAcrossRoutes exercises many producers
// enqueuing concurrently across several routes, mirroring disgo's
// wrapper/ratelimit_test.go TestGlobalRateLimit's errgroup-of-goroutines
// shape.
func TestConcurrentProducersAcrossRoutes(t *testing.T) {
	r := NewRegistry(testConfig())

	const (
		routes          = 4
		ticketsPerRoute = 10
		totalProducers  = routes * ticketsPerRoute
	)

	eg := new(errgroup.Group)

	for i := 0; i < totalProducers; i++ {
		route := Route(string(rune('A' + i%routes)))

		eg.Go(func() error {
			_, reply := enqueueAndAwait(t, r, route)
			reply <- PresentHeaders(false, 50, 49, 1000)

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		t.Fatalf("concurrent producers failed: %v", err)
	}
}
