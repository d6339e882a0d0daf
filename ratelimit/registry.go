package ratelimit

import "sync"

// Registry maps Route identifiers to Buckets, creating buckets and
// spawning their drivers on demand, and removing them once a driver's
// queue has drained. A bucket exists in the registry iff its driver is
// running (spec §3 invariant 4).
//
// Grounded on original_source/bucket.rs's BucketQueueTask, which holds
// a shared Arc<Mutex<HashMap<Path, Arc<Bucket>>>>; this repo instead
// gives the Registry ownership of spawning and of the retirement race
// check spec §4.F requires (option (a): re-check the queue under the
// registry lock before removing).
type Registry struct {
	global *GlobalGate
	config *Config

	mu      sync.Mutex
	buckets map[Route]*Bucket
}

// NewRegistry returns an empty Registry using config (or
// DefaultConfig if nil).
func NewRegistry(config *Config) *Registry {
	if config == nil {
		config = DefaultConfig()
	}

	return &Registry{
		global:  NewGlobalGate(),
		config:  config,
		buckets: make(map[Route]*Bucket),
	}
}

// Enqueue looks up or creates the bucket for route (spawning its
// driver on creation) and pushes ticket onto its queue, all under a
// single hold of r.mu. This is the core's sole upward-facing operation
// (spec §6).
//
// The lookup-or-create and the push must share the registry's lock
// with tryRetire's re-check (spec §4.F option (a)): if the push ran
// after releasing the lock, a driver could observe an empty queue,
// delete the route under the lock, and exit before the push lands,
// orphaning the ticket on a channel nothing drains anymore.
func (r *Registry) Enqueue(route Route, ticket *Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.buckets[route]
	if !ok {
		bucket = NewBucket(route)
		r.buckets[route] = bucket

		d := &driver{route: route, bucket: bucket, registry: r, global: r.global, config: r.config}
		go d.run()
	}

	bucket.queue.Push(ticket)
}

// bucketFor returns the existing bucket for route, or creates one and
// spawns its driver, under the registry-wide exclusion spec §4.F
// names. Exposed for tests and observability that need a bucket
// handle without enqueuing a ticket.
func (r *Registry) bucketFor(route Route) *Bucket {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, ok := r.buckets[route]; ok {
		return bucket
	}

	bucket := NewBucket(route)
	r.buckets[route] = bucket

	d := &driver{route: route, bucket: bucket, registry: r, global: r.global, config: r.config}
	go d.run()

	return bucket
}

// tryRetire is the driver-exit hook (spec §4.F): it re-checks the
// bucket's queue under the registry lock before removing the route's
// entry, so a ticket enqueued in the window between the driver
// observing an idle queue and acquiring this lock is not orphaned.
//
// It returns (ticket, false) if a ticket was found (the driver must
// keep draining, skipping retirement this round), or (nil, true) once
// the route's entry has been removed.
func (r *Registry) tryRetire(route Route, bucket *Bucket) (*Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ticket, ok := bucket.queue.TryPop(); ok {
		return ticket, false
	}

	delete(r.buckets, route)

	return nil, true
}

// Len reports the number of live buckets. Exposed for tests and
// observability; not part of the producer-facing protocol.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.buckets)
}

// Contains reports whether route currently has a live bucket.
func (r *Registry) Contains(route Route) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.buckets[route]

	return ok
}
