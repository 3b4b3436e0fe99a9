package atomcell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	goleakMain(m)
}

func TestCellReadsInitialValue(t *testing.T) {
	c := NewCell[int](WithInitial(42))
	got := Read(c, func(v *int) int { return *v })
	require.Equal(t, 42, got)
}

func TestCellUpdateCommitsNewValue(t *testing.T) {
	c := NewCell[int](WithInitial(0))
	c.Update(func(v *int) bool {
		*v = *v + 1
		return true
	})
	require.Equal(t, 1, Read(c, func(v *int) int { return *v }))
}

func TestCellUpdateWeakVetoLeavesValueUnchanged(t *testing.T) {
	c := NewCell[int](WithInitial(7))
	ok := c.UpdateWeak(func(v *int) bool {
		*v = 999
		return false
	})
	require.False(t, ok)
	require.Equal(t, 7, Read(c, func(v *int) int { return *v }))
}

func TestCellUpdateWeakPanicReturnsSlot(t *testing.T) {
	c := NewCell[int](WithInitial(1), WithPool(NewPool[int](2)))

	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
		}()
		c.UpdateWeak(func(v *int) bool {
			panic("boom")
		})
	}()

	// The panic must not have leaked the slot or left the usage counter
	// unbalanced: further updates must still be possible.
	ok := c.UpdateWeak(func(v *int) bool {
		*v = 2
		return true
	})
	require.True(t, ok)
	require.Equal(t, 2, Read(c, func(v *int) int { return *v }))
}

func TestCellStructValueFullCopy(t *testing.T) {
	type pair struct{ A, B int }
	c := NewCell[pair](WithInitial(pair{A: 1, B: 2}))
	c.Update(func(p *pair) bool {
		p.A = 10
		p.B = 20
		return true
	})
	got := Read(c, func(p *pair) pair { return *p })
	require.Equal(t, pair{A: 10, B: 20}, got)
}

func TestCompareEqualLess(t *testing.T) {
	a := NewCell[int](WithInitial(1))
	b := NewCell[int](WithInitial(2))
	require.True(t, Less(a, b, func(x, y int) bool { return x < y }))
	require.False(t, Equal(a, b, func(x, y int) bool { return x == y }))
	require.Negative(t, Compare(a, b, func(x, y int) int { return x - y }))
}

func TestMutexCellBaseline(t *testing.T) {
	c := NewMutexCell(0)
	c.Update(func(v *int) bool {
		*v++
		return true
	})
	require.Equal(t, 1, ReadMutex(c, func(v *int) int { return *v }))

	ok := c.UpdateWeak(func(v *int) bool { return false })
	require.False(t, ok)
	require.Equal(t, 1, ReadMutex(c, func(v *int) int { return *v }))
}
