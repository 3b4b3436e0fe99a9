// Package atomcell implements a lock-free multi-word atomic container.
//
// AtomicCell[T] wraps a value of arbitrary type T and lets many concurrent
// readers and writers observe and update it atomically, even when T is
// larger than any hardware-supported atomic word. Writers supply a pure
// function that produces a new value from the current one; the cell
// publishes the result by swapping a pointer with a compare-and-swap,
// retrying on contention. Readers obtain a snapshot pointer guaranteed to
// stay valid for the duration of their access.
//
// Reads are wait-free. Writes via UpdateWeak are lock-free (bounded steps,
// may report failure under contention). Update loops UpdateWeak until it
// commits and is therefore not wait-free for the writer, though it never
// blocks on a mutex: contention is resolved entirely through CAS retries
// and a cooperative synchronization barrier (see Pool).
//
// List[V] builds a singly linked list on top of AtomicCell[Node[V]],
// demonstrating the two-step lock-then-unlink delete a lock-free singly
// linked list needs to avoid resurrecting a node a concurrent writer is
// still updating.
//
// MutexCell[T] offers the same surface as AtomicCell[T] but is backed by a
// plain sync.Mutex; it exists only as a correctness/performance baseline.
package atomcell
