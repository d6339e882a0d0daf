package ratelimit

import "time"

// driver is the long-running task bound to one bucket. It admits one
// ticket at a time, suspends until the caller returns a HeaderSummary
// (or times out), updates the bucket, paces the next admission, and
// retires the bucket when its queue drains.
//
// Grounded line-for-line on original_source/http/src/ratelimiting/bucket.rs's
// BucketQueueTask (run/next/wait_if_needed/handle_headers/lock_global),
// translated from Rust futures/channels to Go goroutines/channels/
// time.Timer, with debug log points per spec §6 in disgo's
// wrapper/log.go style.
type driver struct {
	route    Route
	bucket   *Bucket
	registry *Registry
	global   *GlobalGate
	config   *Config
}

// run drains the bucket's queue until it idles past WaitQueue, then
// retires it (spec §4.E state machine: Waiting-for-ticket -> Draining
// -> Waiting-for-ticket, or Waiting-for-ticket -> Retired).
func (d *driver) run() {
	logDriver(d.route).Msg("starting bucket driver")

	ticket := d.next()

	for {
		if ticket == nil {
			next, retired := d.registry.tryRetire(d.route, d.bucket)
			if retired {
				break
			}

			ticket = next

			continue
		}

		d.admitAndProcess(ticket)
		ticket = d.next()
	}

	logDriver(d.route).Msg("bucket retired")
}

// next paces admission of the following ticket and pops it from the
// queue, bounded by WaitQueue.
func (d *driver) next() *Ticket {
	d.waitIfNeeded()

	logDriver(d.route).Msg("waiting for next ticket")

	return d.bucket.queue.Pop(d.config.WaitQueue)
}

// waitIfNeeded paces the bucket per spec §4.E: if tokens remain,
// return immediately; otherwise sleep out the remainder of the
// current window (if any) before trying a reset.
func (d *driver) waitIfNeeded() {
	if d.bucket.Remaining() > 0 {
		return
	}

	remaining := d.bucket.TimeRemaining()

	switch remaining.Kind {
	case TimeNotStarted:
		return
	case TimeFinished:
		d.bucket.TryReset()

		return
	case TimeSome:
		logDriver(d.route).Dur("wait", remaining.Delta).Msg("waiting for rate limit window to pass")
		time.Sleep(remaining.Delta)
		d.bucket.TryReset()
	}
}

// admitAndProcess admits ticket, waits for its HeaderSummary (or
// times out), and applies the result to the bucket.
func (d *driver) admitAndProcess(ticket *Ticket) {
	if d.global.IsLocked() {
		logTicket(d.route, ticket).Msg("global rate limit in effect, waiting for region")
		d.global.Region().Lock()
		d.global.Region().Unlock()
	}

	reply := make(chan HeaderSummary, 1)

	logTicket(d.route, ticket).Msg("admitting ticket")
	ticket.admit(reply)

	logTicket(d.route, ticket).Msg("waiting for header summary")

	timer := time.NewTimer(d.config.WaitReply)
	defer timer.Stop()

	select {
	case headers, ok := <-reply:
		if !ok {
			logTicket(d.route, ticket).Msg("reply channel closed, treating as abort")

			return
		}

		d.handleHeaders(headers)
	case <-timer.C:
		logTicket(d.route, ticket).Msg("receiver timed out")
	}
}

// handleHeaders dispatches on the HeaderSummary variant per spec §4.E.
func (d *driver) handleHeaders(h HeaderSummary) {
	switch h.Kind {
	case HeaderNone:
		return
	case HeaderGlobalLimited:
		d.assertGlobal(time.Duration(h.ResetAfter) * time.Millisecond)
		d.bucket.Update(nil)
	case HeaderPresent:
		if h.Global {
			d.assertGlobal(time.Duration(h.ResetAfter) * time.Millisecond)
		}

		ratelimits := Ratelimits{Limit: h.Limit, Remaining: h.Remaining, ResetAfter: h.ResetAfter}
		d.bucket.Update(&ratelimits)
	}

	logDriver(d.route).Uint64("remaining", d.bucket.Remaining()).Msg("bucket updated")
}

// assertGlobal holds the global gate's region for wait, during which
// every other driver that enters the region blocks.
func (d *driver) assertGlobal(wait time.Duration) {
	logDriver(d.route).Dur("wait", wait).Msg("acquiring global lock")

	d.global.Lock()
	d.global.Region().Lock()

	time.Sleep(wait)

	d.global.Unlock()
	d.global.Region().Unlock()
}
