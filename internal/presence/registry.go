package presence

import (
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/keygate/keygate/internal/metrics"
)

// Scheduler is the deferred-job facility the registry arms evictions on.
// Satisfied by *schedule.Scheduler; tests drive a manual implementation.
type Scheduler interface {
	Schedule(id string, fireAt time.Time, fn func()) error
	Reschedule(id string, fireAt time.Time) error
	Cancel(id string)
}

// shardCount spreads products over independent locks so heartbeats for
// unrelated products never contend. Must be a power of two.
const shardCount = 16

// shard holds the online sets for the products hashed onto it. An identity
// maps to the deadline its eviction job is armed for; the deadline lets a
// stale eviction (one racing a fresh heartbeat) recognise itself and back
// off.
type shard struct {
	mu       sync.RWMutex
	products map[string]map[string]time.Time
}

// Registry is the concurrent online-identity registry. An identity is
// online iff an eviction job is armed for it; Touch and the firing eviction
// serialise on the product's shard, so the entry and its job cannot drift
// apart.
type Registry struct {
	window time.Duration
	sched  Scheduler
	now    func() time.Time // injectable for deterministic tests

	shards [shardCount]shard
}

// New creates a Registry whose identities stay online for window past their
// last heartbeat.
func New(window time.Duration, sched Scheduler) *Registry {
	r := &Registry{
		window: window,
		sched:  sched,
		now:    time.Now,
	}
	for i := range r.shards {
		r.shards[i].products = make(map[string]map[string]time.Time)
	}
	return r
}

// Touch marks the identity online for the product and arms (or slides) its
// eviction job to now + window. Safe for concurrent use; repeated rapid
// calls for the same identity never duplicate jobs or counts.
func (r *Registry) Touch(productID, identity string) {
	sh := r.shard(productID)
	key := jobKey(productID, identity)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	deadline := r.now().Add(r.window)

	set, ok := sh.products[productID]
	if !ok {
		set = make(map[string]time.Time)
		sh.products[productID] = set
	}

	if _, online := set[identity]; online {
		set[identity] = deadline
		if err := r.sched.Reschedule(key, deadline); err == nil {
			return
		}
		// The job fired between the heartbeat arriving and this lock being
		// taken; the eviction is stalled on our shard lock and will see the
		// fresh deadline. Arm a new job.
		slog.Debug("presence: rearming after eviction race",
			"product_id", productID)
		r.armEviction(key, deadline, productID, identity)
		return
	}

	set[identity] = deadline
	metrics.Online.Inc()
	r.armEviction(key, deadline, productID, identity)
}

// armEviction schedules the eviction job for an entry the caller has just
// written under the shard lock.
func (r *Registry) armEviction(key string, deadline time.Time, productID, identity string) {
	err := r.sched.Schedule(key, deadline, func() { r.evict(productID, identity) })
	if err != nil {
		// An armed job with no entry should be impossible; fold the stray
		// job into this heartbeat's timing rather than dropping the touch.
		slog.Warn("presence: eviction job already armed for new entry",
			"product_id", productID, "err", err)
		_ = r.sched.Reschedule(key, deadline)
	}
}

// CountOnline returns the number of identities currently online for the
// product. It only takes the product's shard read lock, so it never blocks
// heartbeats for unrelated products.
func (r *Registry) CountOnline(productID string) int {
	sh := r.shard(productID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return len(sh.products[productID])
}

// Snapshot returns the online count per product for every product with at
// least one identity online.
func (r *Registry) Snapshot() map[string]int {
	out := make(map[string]int)
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.RLock()
		for id, set := range sh.products {
			if len(set) > 0 {
				out[id] = len(set)
			}
		}
		sh.mu.RUnlock()
	}
	return out
}

// evict runs when an eviction job fires. It removes the entry unless a
// heartbeat re-armed it while the fire was in flight, in which case the
// entry's deadline is in the future and the fire is stale.
func (r *Registry) evict(productID, identity string) {
	sh := r.shard(productID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	set, ok := sh.products[productID]
	if !ok {
		return
	}
	deadline, ok := set[identity]
	if !ok {
		return
	}
	if deadline.After(r.now()) {
		return
	}

	delete(set, identity)
	if len(set) == 0 {
		delete(sh.products, productID)
	}
	metrics.Online.Dec()
	metrics.Evictions.Inc()
}

func (r *Registry) shard(productID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(productID)) //nolint:errcheck
	return &r.shards[h.Sum32()&(shardCount-1)]
}

// jobKey scopes the scheduler identifier by product so identical identity
// strings under different products cannot reschedule each other's
// evictions.
func jobKey(productID, identity string) string {
	return productID + "\x00" + identity
}
