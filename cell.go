package atomcell

import (
	"runtime"
	"sync/atomic"
)

// Component D: AtomicCell[T], the public multi-word atomic container.
//
// current is a *pointer to* an atomic.Pointer[T] rather than an embedded
// atomic.Pointer[T] field. That indirection is what lets Close/the
// runtime.AddCleanup registered in NewCell release the cell's last slot
// back to its Pool without keeping the AtomicCell itself reachable: a
// cleanup argument that points *into* the cell (an embedded field) would
// keep the whole cell alive forever, since Go's GC treats any interior
// pointer as keeping the containing allocation reachable. Pointing instead
// at a small, independently-allocated box lets the cell become garbage
// while the box — and the cleanup tied to it — survive just long enough
// to return the final slot to the pool.
type AtomicCell[T any] struct {
	current *atomic.Pointer[T]
	pool    *Pool[T]
	cleanup runtime.Cleanup
}

// Option configures a new AtomicCell.
type Option[T any] struct {
	apply func(*cellConfig[T])
}

type cellConfig[T any] struct {
	capacity int
	initial  T
	pool     *Pool[T]
}

// WithCapacity sets the recycling queue capacity N used when no explicit
// pool is supplied. N must be a power of two, at least 1. Default: 16.
func WithCapacity[T any](n int) Option[T] {
	return Option[T]{apply: func(c *cellConfig[T]) { c.capacity = n }}
}

// WithInitial sets the cell's initial value. Default: the zero value of T.
func WithInitial[T any](v T) Option[T] {
	return Option[T]{apply: func(c *cellConfig[T]) { c.initial = v }}
}

// WithPool supplies an explicit, possibly isolated, recycling queue
// instead of the default per-(T,N) process-wide singleton.
func WithPool[T any](p *Pool[T]) Option[T] {
	return Option[T]{apply: func(c *cellConfig[T]) { c.pool = p }}
}

const defaultCapacity = 16

// NewCell constructs a cell holding an initial value (zero value by
// default). Construction is not itself lock-free or safe to race with
// concurrent use of the same cell: it is defined only for
// initialization-time use.
func NewCell[T any](opts ...Option[T]) *AtomicCell[T] {
	cfg := cellConfig[T]{capacity: defaultCapacity}
	for _, o := range opts {
		o.apply(&cfg)
	}
	pool := cfg.pool
	if pool == nil {
		pool = poolFor[T](cfg.capacity, 1)
	}

	slot, ok := pool.tryAllocate()
	for !ok {
		runtime.Gosched()
		slot, ok = pool.tryAllocate()
	}
	*slot = cfg.initial

	box := new(atomic.Pointer[T])
	box.Store(slot)
	c := &AtomicCell[T]{current: box, pool: pool}

	// Incremental, GC-integrated draining, rather than leaking the pool at
	// process exit (see DESIGN.md). When the cell becomes unreachable, its
	// last published slot is returned to the pool so the fixed-capacity
	// ring does not monotonically shrink as cells (in particular, deleted
	// list nodes) are churned.
	c.cleanup = runtime.AddCleanup(c, func(b *atomic.Pointer[T]) {
		pool.release(b.Load())
	}, box)

	return c
}

// Close deterministically returns the cell's current slot to its pool,
// ahead of garbage collection. The caller must ensure no other goroutine
// is reading or updating the cell; calling Close concurrently with
// Read/Update/UpdateWeak on the same cell is undefined, exactly as
// constructing or destroying a cell concurrently with its use is
// undefined.
//
// Close cancels the cleanup registered in NewCell before releasing the
// slot itself: left armed, that cleanup would run again whenever the GC
// later collects c, releasing the same slot to the pool a second time.
func (c *AtomicCell[T]) Close() {
	c.cleanup.Stop()
	c.pool.release(c.current.Load())
}

// Read registers as a reader, invokes f with the cell's currently
// published value, and returns f's result. Read is wait-free: it takes a
// bounded number of steps regardless of what other goroutines are doing,
// and f observes either the value published at or before the moment of
// the load, or a value published after — never a torn or partially
// constructed value.
func Read[T, R any](c *AtomicCell[T], f func(*T) R) R {
	ticket := c.pool.usage.enter(c.pool.right.load())
	defer c.pool.usage.leave(ticket)
	return f(c.current.Load())
}

// Peek is Read without a return value, for side-effecting inspection.
func (c *AtomicCell[T]) Peek(f func(*T)) {
	ticket := c.pool.usage.enter(c.pool.right.load())
	defer c.pool.usage.leave(ticket)
	f(c.current.Load())
}

// UpdateWeak attempts a single update: allocate a free slot, copy the
// current value into it, run f against the copy, and publish it with one
// compare-and-swap. It returns false, with no mutation visible, if the
// pool has no free slot, the pool is mid-barrier, the publish CAS loses a
// race, or f itself returns false (vetoed). The four failure reasons are
// indistinguishable to the caller by design: all are handled by retrying.
//
// UpdateWeak is lock-free (bounded steps, always returns) and reentrant:
// calling UpdateWeak again on the same or a different cell from within f
// is safe, because each call allocates its own slot from the pool and
// does not hold any lock across the call.
//
// If f panics, the slot allocated for this attempt and the usage-counter
// registration are still released before the panic continues to unwind,
// via the deferred cleanup below — the pool never loses a slot to an
// exception in user code.
func (c *AtomicCell[T]) UpdateWeak(f func(*T) bool) (committed bool) {
	slot, ok := c.pool.tryAllocate()
	if !ok {
		return false
	}
	ticket := c.pool.usage.enter(c.pool.right.load())

	defer func() {
		if !committed {
			c.pool.release(slot)
			c.pool.usage.leave(ticket)
		}
	}()

	old := c.current.Load()
	*slot = *old

	if !f(slot) {
		return false // UserVetoed
	}
	if !c.current.CompareAndSwap(old, slot) {
		return false // CasLost on the publish CAS
	}

	c.pool.release(old)
	c.pool.usage.leave(ticket)
	committed = true
	return true
}

// Update retries UpdateWeak until it commits. Update is not wait-free and
// not reentrant: if f itself calls Update on the same cell, the outer
// call's allocated slot is never returned until the outer call succeeds,
// so the inner call can spin forever waiting for a slot the outer call is
// holding. UpdateWeak does not have this restriction.
func Update[T any](c *AtomicCell[T], f func(*T) bool) {
	for !c.UpdateWeak(f) {
		runtime.Gosched()
	}
}

// Update is the method form of the package-level Update function, for the
// common case where f never needs to be generic over a return type.
func (c *AtomicCell[T]) Update(f func(*T) bool) {
	Update(c, f)
}
