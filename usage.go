package atomcell

// Component B: the dual-phase usage counter.
//
// A reader entering a cell's Read reads the queue's current `right`
// position and atomically bumps the counter for whichever half of the
// doubled ring that position falls in. The barrier (pool.go) waits for the
// *other* half's counter to reach zero before reclaiming slots from the
// lap that half represents: every enter ticketed before a lap boundary
// used the half that lap drains, so once that half reads zero no reader
// holding a pointer from the retiring lap can still exist.
type usageCounter struct {
	n int // ring capacity N; array size is 2N, phases split it in half
	c [2]counter32
}

func newUsageCounter(n int) *usageCounter {
	return &usageCounter{n: n}
}

// phase maps a ring position to the half of the doubled ring ([0, 2N)) it
// falls in: 0 for the first N positions, 1 for the second N.
func (u *usageCounter) phase(r uint64) int {
	return int((r % uint64(2*u.n)) / uint64(u.n))
}

// enter registers a reader and returns a ticket identifying the phase it
// entered under. The ticket must be passed to leave exactly once.
func (u *usageCounter) enter(right uint64) (ticket uint64) {
	u.c[u.phase(right)].add(1)
	return right
}

// leave unregisters a reader previously registered with enter.
func (u *usageCounter) leave(ticket uint64) {
	u.c[u.phase(ticket)].add(-1)
}

// otherPhaseEmpty reports whether the phase opposite the one `right`
// currently falls in has drained to zero readers.
func (u *usageCounter) otherPhaseEmpty(right uint64) bool {
	other := 1 - u.phase(right)
	return u.c[other].load() == 0
}
