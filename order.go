package atomcell

// Component F: forward comparison/ordering operators on cell contents, for
// use by callers that need to put cells inside an ordered container, e.g.
// sorting a slice of cells and expecting non-decreasing order afterward.
// T itself need not implement any interface; the caller supplies the
// comparison the way it supplies the mutation function to UpdateWeak.

// Compare reads both cells' current values under their respective usage
// counters and returns cmp(a's value, b's value). cmp should follow the
// usual convention: negative if a < b, zero if equal, positive if a > b.
func Compare[T any](a, b *AtomicCell[T], cmp func(x, y T) int) int {
	var result int
	a.Peek(func(av *T) {
		b.Peek(func(bv *T) {
			result = cmp(*av, *bv)
		})
	})
	return result
}

// Equal reports whether a and b currently hold values considered equal by
// eq.
func Equal[T any](a, b *AtomicCell[T], eq func(x, y T) bool) bool {
	var result bool
	a.Peek(func(av *T) {
		b.Peek(func(bv *T) {
			result = eq(*av, *bv)
		})
	})
	return result
}

// Less reports whether a's current value sorts strictly before b's,
// according to less.
func Less[T any](a, b *AtomicCell[T], less func(x, y T) bool) bool {
	var result bool
	a.Peek(func(av *T) {
		b.Peek(func(bv *T) {
			result = less(*av, *bv)
		})
	})
	return result
}
