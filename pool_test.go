package atomcell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolValidatesCapacity(t *testing.T) {
	require.Panics(t, func() { NewPool[int](0) })
	require.Panics(t, func() { NewPool[int](3) }) // not a power of two
	require.NotPanics(t, func() { NewPool[int](1) })
	require.NotPanics(t, func() { NewPool[int](16) })
}

func TestPoolAllocateReleaseRoundTrip(t *testing.T) {
	p := NewPool[int](2)

	s1, ok := p.tryAllocate()
	require.True(t, ok)
	s2, ok := p.tryAllocate()
	require.True(t, ok)
	require.NotSame(t, s1, s2)

	_, ok = p.tryAllocate()
	require.False(t, ok, "pool of capacity 2 should be exhausted after 2 allocations")

	// The next allocation starts a new lap, so the barrier holds it back
	// until both slots of the previous lap are back in the ring.
	p.release(s1)
	p.release(s2)
	s3, ok := p.tryAllocate()
	require.True(t, ok)
	require.Same(t, s1, s3, "first released slot should be the next one handed out")

	p.release(s3)
}

// TestPoolNoSlotDuplication checks that at every observable moment the
// multiset {current} ∪ free-slot-positions has cardinality array_size with
// no pointer repeated. We approximate this by
// allocating the entire pool, checking all slots are distinct pointers,
// then releasing them all and checking the same.
func TestPoolNoSlotDuplication(t *testing.T) {
	const n = 8
	p := NewPool[int](n)

	seen := make(map[*int]bool)
	var slots []*int
	for i := 0; i < n; i++ {
		s, ok := p.tryAllocate()
		require.True(t, ok)
		require.False(t, seen[s], "slot handed out twice")
		seen[s] = true
		slots = append(slots, s)
	}
	_, ok := p.tryAllocate()
	require.False(t, ok)

	for _, s := range slots {
		p.release(s)
	}

	seen2 := make(map[*int]bool)
	for i := 0; i < n; i++ {
		s, ok := p.tryAllocate()
		require.True(t, ok)
		require.False(t, seen2[s], "slot handed out twice on second lap")
		seen2[s] = true
	}
}

func TestUsageCounterPhaseSplit(t *testing.T) {
	u := newUsageCounter(4) // array size 8, phases split at position 4

	t1 := u.enter(0)
	require.Equal(t, 0, u.phase(0))

	// otherPhaseEmpty(0) asks whether phase 1 (the *other* phase) is
	// empty; it is, since only phase 0 has an entrant so far.
	require.True(t, u.otherPhaseEmpty(0))

	t2 := u.enter(4) // phase 1
	require.False(t, u.otherPhaseEmpty(0))
	require.False(t, u.otherPhaseEmpty(4))

	u.leave(t2)
	require.True(t, u.otherPhaseEmpty(0))

	u.leave(t1)
	require.True(t, u.otherPhaseEmpty(4))
}
