package contentpkg

import (
	"github.com/underkeep/underkeep/pkg/world"
)

// roomCellChunks is the edge length, in chunks, of one room-placement
// cell; each cell independently rolls whether it holds a dungeon room.
const roomCellChunks = 3

// floorY is the world Y the dungeon floor sits at; roomHeight is how tall
// a room's interior is before the ceiling slab.
const (
	floorY     int32 = 60
	roomHeight int32 = 5
)

// RoomCenter is a carved room's floor-level center, in world coordinates —
// recorded during Populate so later systems (mob spawning) can place
// things inside real rooms without re-deriving the layout's hash.
type RoomCenter struct {
	X, Z float64
}

// Layout carves a sparse grid of rectangular dungeon rooms connected by a
// plain stone floor, using a deterministic splitmix64-style per-cell hash
// to decide room placement.
type Layout struct {
	seed  int64
	rooms []RoomCenter
	noise *Perlin
}

// Rooms returns the center of every room carved by the last Populate call.
func (l *Layout) Rooms() []RoomCenter {
	return l.rooms
}

// NewLayout returns a room layout for the given seed.
func NewLayout(seed int64) *Layout {
	return &Layout{seed: seed, noise: NewPerlin(seed ^ 0x5EED)}
}

// cellHash returns a deterministic non-negative value in [0, mod) for grid
// cell (cx, cz).
func (l *Layout) cellHash(cx, cz, mod int64) int64 {
	const k1 int64 = -7046029254386353131
	const k2 int64 = -4265267296055464877
	h := l.seed ^ (cx * k1) ^ (cz * 7823434773480878946)
	h ^= h >> 33
	h *= k1
	h ^= h >> 27
	h *= k2
	h ^= h >> 31
	if h < 0 {
		h = -h
	}
	return h % mod
}

// Populate implements the generation half of world.ContentLayer: it lays a
// stone floor across the whole grid at floorY, then carves a room into
// roughly one cell in three, with stone-brick walls and a ceiling.
func (l *Layout) Populate(grid *world.ChunkGrid) {
	half := grid.Size() / 2
	for cz := -half; cz < half; cz++ {
		for cx := -half; cx < half; cx++ {
			c := grid.Chunk(cx, cz)
			if c == nil {
				continue
			}
			l.paveFloor(c)
		}
	}

	for cellZ := -half / roomCellChunks; cellZ <= half/roomCellChunks; cellZ++ {
		for cellX := -half / roomCellChunks; cellX <= half/roomCellChunks; cellX++ {
			if l.cellHash(int64(cellX), int64(cellZ), 3) != 0 {
				continue
			}
			l.carveRoom(grid, cellX, cellZ)
		}
	}
}

// paveFloor writes a bedrock base and a single-layer stone floor across an
// entire chunk column.
func (l *Layout) paveFloor(c *world.Chunk) {
	for lx := 0; lx < 16; lx++ {
		for lz := 0; lz < 16; lz++ {
			c.SetBlock(lx, 0, lz, world.NewBlockState(bedrockBlock, 0))
			c.SetBlock(lx, int(floorY), lz, world.NewBlockState(roomFloorBlock, 0))
		}
	}
}

// carveRoom hollows out a room within the chunk at the center of room cell
// (cellX, cellZ): stone-brick walls, air interior, stone-brick ceiling.
func (l *Layout) carveRoom(grid *world.ChunkGrid, cellX, cellZ int32) {
	centerCX := cellX*roomCellChunks + roomCellChunks/2
	centerCZ := cellZ*roomCellChunks + roomCellChunks/2
	c := grid.Chunk(centerCX, centerCZ)
	if c == nil {
		return
	}

	sizeRoll := l.cellHash(int64(cellX)^0x51, int64(cellZ)^0x52, 5)
	size := 6 + int(sizeRoll) // 6..10
	if size > 14 {
		size = 14
	}
	start := (16 - size) / 2
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > 16 {
		end = 16
	}

	l.rooms = append(l.rooms, RoomCenter{
		X: float64(centerCX*16 + 8),
		Z: float64(centerCZ*16 + 8),
	})

	for lx := start; lx < end; lx++ {
		for lz := start; lz < end; lz++ {
			onWall := lx == start || lx == end-1 || lz == start || lz == end-1
			for dy := int32(1); dy <= roomHeight; dy++ {
				y := floorY + dy
				switch {
				case dy == roomHeight || onWall:
					c.SetBlock(lx, int(y), lz, world.NewBlockState(roomWallBlock, 0))
				case dy == 1 && l.rubbleAt(centerCX, centerCZ, lx, lz):
					c.SetBlock(lx, int(y), lz, world.NewBlockState(rubbleBlock, 0))
				default:
					c.SetBlock(lx, int(y), lz, world.AirState)
				}
			}
		}
	}
}

// rubbleAt samples the room's noise field to decide whether the floor tile
// at world column (cx*16+lx, cz*16+lz) gets a knee-high rubble block
// instead of bare floor — sparse decoration, not an obstacle course.
func (l *Layout) rubbleAt(cx, cz int32, lx, lz int) bool {
	wx := float64(cx*16 + int32(lx))
	wz := float64(cz*16 + int32(lz))
	return l.noise.Noise2D(wx*0.35, wz*0.35) > 0.55
}
