package pvector

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/pvector/trie"
)

// TestRoundTripConjNElements: building a TransientVector, conjoining
// x_0..x_n-1, and freezing yields a PersistentVector whose elements in
// order are exactly those.
func TestRoundTripConjNElements(t *testing.T) {
	for _, n := range []int{0, 1, 31, 32, 33, 63, 64, 65, 1024, 1025, 4097} {
		n := n
		t.Run("", func(t *testing.T) {
			requireT := require.New(t)

			want := lo.Range(n)
			tv := Empty[int]().AsTransient()
			for _, x := range want {
				_, err := tv.Conj(x)
				requireT.NoError(err)
			}
			pv := tv.Persistent()

			requireT.EqualValues(n, pv.Count())
			got := make([]int, 0, n)
			for cs := pv.Seq(); cs != nil; cs = cs.Next() {
				got = append(got, cs.First())
			}
			if n == 0 {
				requireT.Nil(pv.Seq())
				requireT.Empty(got)
				return
			}
			requireT.Equal(want, got)
		})
	}
}

// TestAssocNInvariantAcrossSizes: AssocN touches only the target index,
// leaving every other element unchanged, regardless of vector size.
func TestAssocNInvariantAcrossSizes(t *testing.T) {
	for _, n := range []int{1, 32, 33, 100, 1024, 1025} {
		n := n
		t.Run("", func(t *testing.T) {
			requireT := require.New(t)

			v := FromSlice(lo.Range(n))
			for _, i := range []int{0, n / 2, n - 1} {
				updated, err := v.AssocN(uint(i), -1)
				requireT.NoError(err)

				got, err := updated.Nth(uint(i))
				requireT.NoError(err)
				requireT.Equal(-1, got)

				for j := 0; j < n; j++ {
					if j == i {
						continue
					}
					orig, err := v.Nth(uint(j))
					requireT.NoError(err)
					other, err := updated.Nth(uint(j))
					requireT.NoError(err)
					requireT.Equal(orig, other)
				}
			}
		})
	}
}

// TestConsPopRoundTrip: popping the last element off and cons-ing it
// back reproduces the original vector's elements.
func TestConsPopRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 32, 33, 64, 1024, 1025} {
		n := n
		t.Run("", func(t *testing.T) {
			requireT := require.New(t)

			v := FromSlice(lo.Range(n))
			last, err := v.Nth(uint(n - 1))
			requireT.NoError(err)

			popped, err := v.Pop()
			requireT.NoError(err)
			requireT.EqualValues(n-1, popped.Count())

			restored := popped.Cons(last)
			requireT.EqualValues(n, restored.Count())
			for i := 0; i < n; i++ {
				a, err := v.Nth(uint(i))
				requireT.NoError(err)
				b, err := restored.Nth(uint(i))
				requireT.NoError(err)
				requireT.Equal(a, b)
			}
		})
	}
}

// TestShiftStaysMultipleOfBitsAndZeroOnlyWhenRootEmpty: shift is always
// a multiple of bits, and it is zero exactly when the trie is still the
// shared empty sentinel (every element resident in the tail).
func TestShiftStaysMultipleOfBitsAndZeroOnlyWhenRootEmpty(t *testing.T) {
	requireT := require.New(t)

	v := Empty[int]()
	for n := 1; n <= 2000; n++ {
		v = v.Cons(n)

		requireT.Zero(v.shift%bits, "count=%d shift=%d", n, v.shift)
		if v.shift == 0 {
			requireT.Same(trie.Empty[int](), v.root, "count=%d", n)
		}
	}
}
