package world

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockStatePacking(t *testing.T) {
	s := NewBlockState(35, 14)
	require.EqualValues(t, 35, s.ID())
	require.EqualValues(t, 14, s.Metadata())
	require.False(t, s.IsAir())
	require.True(t, AirState.IsAir())
}

func TestChunkSetGetBlock(t *testing.T) {
	c := NewChunk(0, 0)
	require.True(t, c.GetBlock(3, 64, 7).IsAir())
	c.SetBlock(3, 64, 7, NewBlockState(1, 0))
	got := c.GetBlock(3, 64, 7)
	require.EqualValues(t, 1, got.ID())
}

func TestChunkDataBitmaskAndSize(t *testing.T) {
	c := NewChunk(0, 0)
	// Place blocks in sections 0 and 2 (y=0 and y=40), leaving section 1 empty.
	c.SetBlock(0, 0, 0, NewBlockState(7, 0))
	c.SetBlock(0, 40, 0, NewBlockState(1, 0))

	data, mask := c.ChunkData(true)
	require.EqualValues(t, 0b101, mask)

	popcount := 0
	for m := mask; m != 0; m >>= 1 {
		popcount += int(m & 1)
	}
	require.Equal(t, 2, popcount)
	expectedLen := 12288*popcount + 256
	require.Len(t, data, expectedLen)
}

func TestChunkDataCacheInvalidatesOnDirty(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(0, 0, 0, NewBlockState(1, 0))
	data1, _ := c.ChunkData(false)
	c.SetBlock(1, 0, 0, NewBlockState(1, 0))
	data2, _ := c.ChunkData(false)
	require.NotEqual(t, data1, data2)
}

func TestChunkGridOutOfRange(t *testing.T) {
	g := NewChunkGrid(4)
	require.Nil(t, g.Chunk(1000, 1000))
	ok := g.SetBlock(1000*16, 64, 1000*16, NewBlockState(1, 0), nil)
	require.False(t, ok)
}

func TestChunkGridSetBlockEmitsChange(t *testing.T) {
	g := NewChunkGrid(4)
	var gotChunk *Chunk
	ok := g.SetBlock(3, 64, 7, NewBlockState(1, 0), func(c *Chunk, lx, y, lz int, state BlockState) {
		gotChunk = c
		require.Equal(t, 3, lx)
		require.Equal(t, 64, y)
		require.Equal(t, 7, lz)
	})
	require.True(t, ok)
	require.NotNil(t, gotChunk)
	require.EqualValues(t, 1, g.GetBlock(3, 64, 7).ID())
}

func TestForEachInViewCount(t *testing.T) {
	seen := map[ChunkPos]bool{}
	ForEachInView(ChunkPos{}, 2, func(p ChunkPos) { seen[p] = true })
	require.Len(t, seen, 25) // (2*2+1)^2
}

func TestForEachDiffIsSymmetricDifference(t *testing.T) {
	a := ChunkPos{X: 0, Z: 0}
	b := ChunkPos{X: 1, Z: 0}
	const v = 6

	inA := map[ChunkPos]bool{}
	ForEachInView(a, v, func(p ChunkPos) { inA[p] = true })
	inB := map[ChunkPos]bool{}
	ForEachInView(b, v, func(p ChunkPos) { inB[p] = true })

	var newCount, oldCount int
	seen := map[ChunkPos]DiffTag{}
	ForEachDiff(b, a, v, func(p ChunkPos, tag DiffTag) {
		_, dup := seen[p]
		require.False(t, dup, "chunk %v enumerated twice", p)
		seen[p] = tag
		if tag == TagNew {
			newCount++
			require.True(t, inB[p])
			require.False(t, inA[p])
		} else {
			oldCount++
			require.True(t, inA[p])
			require.False(t, inB[p])
		}
	})

	for p := range inB {
		if !inA[p] {
			require.Equal(t, TagNew, seen[p])
		}
	}
	for p := range inA {
		if !inB[p] {
			require.Equal(t, TagOld, seen[p])
		}
	}
}

func TestEntityRegistrySwapRemove(t *testing.T) {
	r := NewEntityRegistry()
	e1 := &Entity{ID: 1}
	e2 := &Entity{ID: 2}
	e3 := &Entity{ID: 3}
	r.Add(e1)
	r.Add(e2)
	r.Add(e3)

	removed, ok := r.Remove(1)
	require.True(t, ok)
	require.Equal(t, e1, removed)
	require.Equal(t, 2, r.Len())

	_, ok = r.Get(1)
	require.False(t, ok)
	got2, ok := r.Get(2)
	require.True(t, ok)
	require.Equal(t, e2, got2)
	got3, ok := r.Get(3)
	require.True(t, ok)
	require.Equal(t, e3, got3)
}

func TestAllocateEntityIDMonotonic(t *testing.T) {
	a := AllocateEntityID()
	b := AllocateEntityID()
	require.Less(t, a, b)
}
