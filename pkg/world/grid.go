package world

// ChunkGrid is a bounded size x size row-major array of chunks, with
// integer offsets translating world chunk coordinates into grid indices.
// Out-of-range coordinates are reported via the ok return; writes to them
// are silently dropped by callers.
type ChunkGrid struct {
	size          int32
	offsetX       int32
	offsetZ       int32
	chunks        []*Chunk
}

// NewChunkGrid allocates a size x size grid centered so that world chunk
// coordinates in [-size/2, size/2) map into range.
func NewChunkGrid(size int32) *ChunkGrid {
	g := &ChunkGrid{
		size:    size,
		offsetX: size / 2,
		offsetZ: size / 2,
		chunks:  make([]*Chunk, size*size),
	}
	for cz := int32(0); cz < size; cz++ {
		for cx := int32(0); cx < size; cx++ {
			wx, wz := cx-g.offsetX, cz-g.offsetZ
			g.chunks[cz*size+cx] = NewChunk(wx, wz)
		}
	}
	return g
}

func (g *ChunkGrid) index(cx, cz int32) (int, bool) {
	gx := cx + g.offsetX
	gz := cz + g.offsetZ
	if gx < 0 || gx >= g.size || gz < 0 || gz >= g.size {
		return 0, false
	}
	return int(gz*g.size + gx), true
}

// Chunk returns the chunk at world chunk coordinates (cx, cz), or nil if
// out of range.
func (g *ChunkGrid) Chunk(cx, cz int32) *Chunk {
	idx, ok := g.index(cx, cz)
	if !ok {
		return nil
	}
	return g.chunks[idx]
}

// Size returns the grid's edge length in chunks.
func (g *ChunkGrid) Size() int32 {
	return g.size
}

// GetBlock returns the block state at world coordinates, or AirState if the
// coordinates fall outside the grid or the y range.
func (g *ChunkGrid) GetBlock(x, y, z int32) BlockState {
	cx, cz := x>>4, z>>4
	c := g.Chunk(cx, cz)
	if c == nil {
		return AirState
	}
	lx, lz := int(x&15), int(z&15)
	return c.GetBlock(lx, int(y), lz)
}

// SetBlock writes a block state at world coordinates. Writes outside
// y in [0,256) or outside the grid are silently dropped.
// On success it calls emitBlockChange, which the caller supplies to write
// a BlockChange packet into the chunk's scratch buffer (contentpkg passes
// one that calls WriteBlockChange); a nil emitBlockChange writes nothing.
func (g *ChunkGrid) SetBlock(x, y, z int32, state BlockState, emitBlockChange func(c *Chunk, lx, y, lz int, state BlockState)) bool {
	if y < 0 || y >= ChunkHeight {
		return false
	}
	cx, cz := x>>4, z>>4
	c := g.Chunk(cx, cz)
	if c == nil {
		return false
	}
	lx, lz := int(x&15), int(z&15)
	c.SetBlock(lx, int(y), lz, state)
	if emitBlockChange != nil {
		emitBlockChange(c, lx, int(y), lz, state)
	}
	return true
}
