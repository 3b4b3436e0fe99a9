package atomcell

import "sync"

// Component G: MutexCell[T], a single-mutex reference implementation of
// the same public surface as AtomicCell[T]. It exists solely as a
// correctness and performance baseline in tests — there is no lock-free
// machinery here at all, deliberately, so property tests can compare
// AtomicCell's observed behavior against a trivially-correct
// implementation of the same contract.
type MutexCell[T any] struct {
	mu      sync.Mutex
	current T
}

// NewMutexCell constructs a mutex-backed cell holding the given initial
// value.
func NewMutexCell[T any](initial T) *MutexCell[T] {
	return &MutexCell[T]{current: initial}
}

// ReadMutex invokes f with the cell's current value and returns its
// result, holding the cell's mutex for the duration.
func ReadMutex[T, R any](c *MutexCell[T], f func(*T) R) R {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f(&c.current)
}

// Peek is ReadMutex without a return value.
func (c *MutexCell[T]) Peek(f func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f(&c.current)
}

// UpdateWeak runs f against a copy of the current value while holding the
// mutex, committing the copy back unconditionally unless f vetoes by
// returning false. Unlike AtomicCell.UpdateWeak, this can never lose a
// race at the publish step — the mutex rules that out — so the only
// failure mode is UserVetoed.
func (c *MutexCell[T]) UpdateWeak(f func(*T) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.current
	if !f(&v) {
		return false
	}
	c.current = v
	return true
}

// Update retries UpdateWeak until it commits (i.e. until f stops vetoing).
func (c *MutexCell[T]) Update(f func(*T) bool) {
	for !c.UpdateWeak(f) {
	}
}
