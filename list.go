package atomcell

// Component E: List[V], a singly linked list built on AtomicCell[Node[V]].
//
// Every node — including the head sentinel — is itself an AtomicCell, so
// locking and unlinking a node is just running UpdateWeak against its
// cell. The non-obvious part is EraseAfterWeak's two-step delete: a naive
// unlink loses races, because a concurrent writer updating the victim node
// (e.g. relinking its Next after its own insert) would keep it reachable
// through its refreshed link, resurrecting a node the deleter thought it
// had removed. Locking the victim first, under its own UpdateWeak, closes
// that window.
//
// Node lifetime in Go needs no reference counting: keeping a node alive
// for as long as either its predecessor's Next field or an outstanding
// Iterator points to it is exactly what Go's garbage collector already
// guarantees for any reachable *AtomicCell[Node[V]]. Deleted is kept as a
// logical tombstone, so an iterator that still holds a cell after it's
// unlinked can observe that fact.
type Node[V any] struct {
	Locked  bool
	Deleted bool
	Data    V
	Next    *AtomicCell[Node[V]]
}

// List is a lock-free singly linked list of values of type V.
type List[V any] struct {
	head *AtomicCell[Node[V]]
	pool *Pool[Node[V]]
}

// minListCapacity is N's floor for a list's node pool: EraseAfterWeak
// holds two nested UpdateWeak calls open at once (predecessor and victim),
// so at least two free slots must be available in that window.
const minListCapacity = 2

// NewList constructs an empty list. capacity sets N for the process-wide
// Node[V] pool (shared with every other default-configured List[V] of the
// same V); pass 0 to use the package default.
func NewList[V any](capacity int) *List[V] {
	if capacity == 0 {
		capacity = defaultCapacity
	}
	pool := poolFor[Node[V]](capacity, minListCapacity)
	head := NewCell[Node[V]](WithPool(pool))
	return &List[V]{head: head, pool: pool}
}

// Iterator references a single node's cell. It remains valid after the
// node it points to is deleted: IsDeleted reports that, and any attempted
// Update against it fails.
type Iterator[V any] struct {
	cell *AtomicCell[Node[V]]
}

// Begin returns an iterator positioned at the head sentinel. The
// sentinel never holds user data; iteration proper starts at its
// successor (Next()).
func (l *List[V]) Begin() Iterator[V] {
	return Iterator[V]{cell: l.head}
}

// Valid reports whether it references a node at all (a zero Iterator, as
// returned on a failed InsertAfterWeak/EraseAfterWeak, is not valid).
func (it Iterator[V]) Valid() bool {
	return it.cell != nil
}

// Next advances to the successor node, if any.
func (it Iterator[V]) Next() (Iterator[V], bool) {
	var next *AtomicCell[Node[V]]
	it.cell.Peek(func(n *Node[V]) { next = n.Next })
	if next == nil {
		return Iterator[V]{}, false
	}
	return Iterator[V]{cell: next}, true
}

// Value returns the data stored at this iterator's node. Calling Value on
// the head sentinel returns V's zero value.
func (it Iterator[V]) Value() V {
	var v V
	it.cell.Peek(func(n *Node[V]) { v = n.Data })
	return v
}

// IsLocked reports whether the node is currently reserved by a would-be
// deleter.
func (it Iterator[V]) IsLocked() bool {
	var locked bool
	it.cell.Peek(func(n *Node[V]) { locked = n.Locked })
	return locked
}

// IsDeleted reports whether the node has been logically unlinked from the
// list. Deleted implies Locked and is sticky: once true it never reverts.
func (it Iterator[V]) IsDeleted() bool {
	var deleted bool
	it.cell.Peek(func(n *Node[V]) { deleted = n.Deleted })
	return deleted
}

// UpdateWeak attempts to mutate the node's data in place. It fails (no
// mutation visible) if the node has been deleted or if the underlying
// cell's UpdateWeak loses the race.
func (it Iterator[V]) UpdateWeak(f func(*V) bool) bool {
	return it.cell.UpdateWeak(func(n *Node[V]) bool {
		if n.Deleted {
			return false
		}
		return f(&n.Data)
	})
}

// Update retries UpdateWeak until it commits or the node is found deleted,
// in which case it returns false instead of spinning forever against a
// node that can never again accept an update.
func (it Iterator[V]) Update(f func(*V) bool) bool {
	for {
		if it.IsDeleted() {
			return false
		}
		if it.UpdateWeak(f) {
			return true
		}
	}
}

// PushFront inserts v at the front of the list, returning an iterator to
// the new node. It is a single InsertAfterWeak attempt against the head
// sentinel: it fails (empty iterator, false) whenever the head's
// UpdateWeak does not commit (a lost publish CAS, or an empty or
// barriered pool). It never fails for a locked head in ordinary use,
// since the sentinel is never the target of erase.
func (l *List[V]) PushFront(v V) (Iterator[V], bool) {
	return l.InsertAfterWeak(l.Begin(), v)
}

// InsertAfterWeak inserts v immediately after pred, returning an iterator
// to the new node on success. It fails if pred is locked (a concurrent
// deleter has reserved it) — the caller should retry with a fresh
// iterator to pred, or re-traverse if pred itself turns out deleted.
func (l *List[V]) InsertAfterWeak(pred Iterator[V], v V) (Iterator[V], bool) {
	var newCell *AtomicCell[Node[V]]
	ok := pred.cell.UpdateWeak(func(p *Node[V]) bool {
		if p.Locked {
			return false
		}
		newCell = NewCell[Node[V]](WithPool(l.pool), WithInitial(Node[V]{
			Data: v,
			Next: p.Next,
		}))
		p.Next = newCell
		return true
	})
	if !ok {
		return Iterator[V]{}, false
	}
	return Iterator[V]{cell: newCell}, true
}

// EraseAfterWeak removes pred's successor from the list using a two-step
// lock-then-unlink protocol:
//
//  1. Under pred's UpdateWeak, read the victim and, under the victim's own
//     nested UpdateWeak, lock it and read its Next. Only then unlink it
//     by setting pred.Next = victim.Next, committing both changes in a
//     single outer UpdateWeak.
//  2. If the outer UpdateWeak fails after the victim was locked, the lock
//     must be undone with a (non-weak) Update, since the victim is still
//     reachable and must not be left permanently locked.
//  3. If the outer UpdateWeak succeeds, the victim is marked Deleted with
//     a (non-weak) Update — it is unreachable from the list at this
//     point, so this cannot race with a new EraseAfterWeak targeting it,
//     only with iterators that already hold a reference and will observe
//     Deleted on their next inspection.
//
// EraseAfterWeak returns false (no unlink performed) if pred is locked,
// pred has no successor, or the victim is already locked by a concurrent
// deleter.
func (l *List[V]) EraseAfterWeak(pred Iterator[V]) bool {
	var victim *AtomicCell[Node[V]]
	var victimNext *AtomicCell[Node[V]]
	lockedVictim := false

	ok := pred.cell.UpdateWeak(func(p *Node[V]) bool {
		if p.Locked {
			return false
		}
		if p.Next == nil {
			return false
		}
		victim = p.Next

		inner := victim.UpdateWeak(func(vn *Node[V]) bool {
			if vn.Locked {
				return false
			}
			vn.Locked = true
			victimNext = vn.Next
			return true
		})
		if !inner {
			victim = nil
			return false
		}
		lockedVictim = true

		p.Next = victimNext
		return true
	})

	if !ok {
		if lockedVictim && victim != nil {
			victim.Update(func(vn *Node[V]) bool {
				vn.Locked = false
				return true
			})
		}
		return false
	}

	victim.Update(func(vn *Node[V]) bool {
		vn.Deleted = true
		return true
	})
	return true
}

// PopFront removes the first element, retrying EraseAfterWeak until it
// either succeeds or the list is observed empty. It returns false only
// when the list was empty.
func (l *List[V]) PopFront() bool {
	for {
		if l.Empty() {
			return false
		}
		if l.EraseAfterWeak(l.Begin()) {
			return true
		}
	}
}

// Empty reports whether the head sentinel has no successor.
func (l *List[V]) Empty() bool {
	var next *AtomicCell[Node[V]]
	l.head.Peek(func(n *Node[V]) { next = n.Next })
	return next == nil
}

// Size walks the list and counts its elements. It is best-effort and
// snapshot-inaccurate under concurrent mutation: no attempt is made to
// make it linearizable, since doing so would require exactly the kind of
// whole-list lock the rest of this package avoids.
func (l *List[V]) Size() int {
	n := 0
	it, ok := l.Begin().Next()
	for ok {
		n++
		it, ok = it.Next()
	}
	return n
}

// Clear repeatedly pops the front element until the list is empty.
func (l *List[V]) Clear() {
	for l.PopFront() {
	}
}
