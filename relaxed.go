package atomcell

import "sync/atomic"

// Component A: relaxed-atomic counters.
//
// The design calls for counters whose load/store/fetch-add/CAS default to
// relaxed ordering, with explicit stronger orderings paid for only where a
// contract requires them (the publish CAS in UpdateWeak and the release
// fence on a completed lap in Pool.release). Go's sync/atomic exposes no
// ordering weaker than sequential consistency, so every operation below is
// already a conservative superset of "relaxed": there is no separate
// acquire/release path to opt into, and none is needed for correctness.
// counter64 and counter32 exist so the rest of the package reads as if
// that distinction mattered, and so there is exactly one place (here) that
// documents why it doesn't in this language.

type counter64 struct {
	v atomic.Uint64
}

func (c *counter64) load() uint64            { return c.v.Load() }
func (c *counter64) store(x uint64)          { c.v.Store(x) }
func (c *counter64) add(delta uint64) uint64 { return c.v.Add(delta) }
func (c *counter64) cas(old, new_ uint64) bool {
	return c.v.CompareAndSwap(old, new_)
}

// counter32 backs the dual-phase usage counters in usage.go. It uses a
// signed width so that a leave() racing ahead of its matching enter()
// during teardown diagnostics is visible as a negative value rather than
// wrapping silently.
type counter32 struct {
	v atomic.Int64
}

func (c *counter32) load() int64    { return c.v.Load() }
func (c *counter32) add(delta int64) int64 { return c.v.Add(delta) }
