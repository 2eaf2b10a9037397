package world

// ChunkPos identifies a chunk column by its chunk-grid coordinates.
type ChunkPos struct {
	X, Z int32
}

// DiffTag marks which side of a view-distance transition a chunk position
// belongs to.
type DiffTag int

const (
	// TagNew means the chunk entered view and was not in the old square.
	TagNew DiffTag = iota
	// TagOld means the chunk left view and is not in the new square.
	TagOld
)

// ForEachInView calls fn once for every chunk position in the square of
// side (2*viewDistance+1) centered on center.
func ForEachInView(center ChunkPos, viewDistance int32, fn func(ChunkPos)) {
	for dz := -viewDistance; dz <= viewDistance; dz++ {
		for dx := -viewDistance; dx <= viewDistance; dx++ {
			fn(ChunkPos{X: center.X + dx, Z: center.Z + dz})
		}
	}
}

func inSquare(center, p ChunkPos, viewDistance int32) bool {
	dx := p.X - center.X
	dz := p.Z - center.Z
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}
	return dx <= viewDistance && dz <= viewDistance
}

// ForEachDiff enumerates, exactly once each, every chunk position in
// square(newCenter, viewDistance) that is not in square(oldCenter,
// viewDistance) tagged TagNew, and the converse tagged TagOld. Used
// exclusively at chunk-boundary crossings.
func ForEachDiff(newCenter, oldCenter ChunkPos, viewDistance int32, fn func(ChunkPos, DiffTag)) {
	ForEachInView(newCenter, viewDistance, func(p ChunkPos) {
		if !inSquare(oldCenter, p, viewDistance) {
			fn(p, TagNew)
		}
	})
	ForEachInView(oldCenter, viewDistance, func(p ChunkPos) {
		if !inSquare(newCenter, p, viewDistance) {
			fn(p, TagOld)
		}
	})
}
