package pvector

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestSeqMaterializesInOrder(t *testing.T) {
	requireT := require.New(t)

	v := FromSlice(lo.Range(70))
	var got []int
	for cs := v.Seq(); cs != nil; cs = cs.Next() {
		got = append(got, cs.First())
	}
	requireT.Equal(lo.Range(70), got)
}

func TestSeqOnEmptyIsNil(t *testing.T) {
	require.Nil(t, Empty[int]().Seq())
}

func TestDropMaterializesSuffix(t *testing.T) {
	requireT := require.New(t)

	v := FromSlice(lo.Range(70))
	for n := 0; n <= 70; n++ {
		cs := v.Drop(n)
		if n >= 70 {
			requireT.Nil(cs)
			continue
		}
		requireT.NotNil(cs)
		requireT.Equal(lo.RangeFrom(n, 70-n), cs.Values())
	}
}

func TestDropNonPositiveReturnsFullSeq(t *testing.T) {
	requireT := require.New(t)

	v := FromSlice(lo.Range(5))
	requireT.Equal(v.Drop(0).Values(), v.Drop(-3).Values())
	requireT.Equal(lo.Range(5), v.Drop(0).Values())
}

func TestChunkedFirstReturnsWholeRemainingChunk(t *testing.T) {
	requireT := require.New(t)

	v := FromSlice(lo.Range(40))
	cs := v.Seq()
	requireT.Equal(lo.Range(32), cs.ChunkedFirst())

	next := cs.ChunkedNext()
	requireT.NotNil(next)
	requireT.Equal(lo.RangeFrom(32, 8), next.ChunkedFirst())
	requireT.Nil(next.ChunkedNext())
}

func TestChunkedSeqDropRelativeToCurrentPosition(t *testing.T) {
	requireT := require.New(t)

	v := FromSlice(lo.Range(70))
	cs := v.Drop(10)
	requireT.NotNil(cs)

	further := cs.Drop(20)
	requireT.NotNil(further)
	requireT.Equal(lo.RangeFrom(30, 40), further.Values())

	requireT.Nil(cs.Drop(1000))
	requireT.Equal(cs.Values(), cs.Drop(0).Values())
}

func TestChunkedSeqCountTracksRemaining(t *testing.T) {
	requireT := require.New(t)

	v := FromSlice(lo.Range(50))
	cs := v.Drop(45)
	requireT.NotNil(cs)
	requireT.EqualValues(5, cs.Count())

	cs = cs.Next()
	requireT.EqualValues(4, cs.Count())
}

func TestChunkedSeqReduceFromMidChunk(t *testing.T) {
	requireT := require.New(t)

	v := FromSlice(lo.Range(40))
	cs := v.Drop(35)
	requireT.NotNil(cs)

	sum := cs.Reduce(func(acc, elem int) any { return acc + elem }, 0)
	var want int
	for i := 35; i < 40; i++ {
		want += i
	}
	requireT.Equal(want, sum)
}

func TestChunkedSeqReduceHonoursReduced(t *testing.T) {
	requireT := require.New(t)

	v := FromSlice(lo.Range(40))
	cs := v.Seq()
	result := cs.Reduce(func(acc, elem int) any {
		if elem == 3 {
			return Reduced[int]{Val: acc}
		}
		return acc + elem
	}, 0)
	requireT.Equal(0+1+2, result)
}
