// Package world owns the chunk grid, entity registry, players, and the
// 20 Hz tick runtime that drives them. Nothing outside the tick goroutine
// mutates a World; all inbound changes arrive as messages (see runtime.go).
package world

// BlockState packs a block type and its metadata into the 16-bit value the
// wire format (and chunk sections) both use: high 12 bits identify the
// block, low 4 bits hold metadata. Packing/unpacking the type<->id mapping
// itself belongs to the external content layer; this is purely the bit
// layout.
type BlockState uint16

// AirState is the zero value: block id 0, metadata 0.
const AirState BlockState = 0

// NewBlockState packs a block id and metadata nibble into a BlockState.
func NewBlockState(id uint16, metadata byte) BlockState {
	return BlockState((id << 4) | uint16(metadata&0xF))
}

// ID returns the 12-bit block type.
func (b BlockState) ID() uint16 {
	return uint16(b) >> 4
}

// Metadata returns the 4-bit metadata nibble.
func (b BlockState) Metadata() byte {
	return byte(b) & 0xF
}

// IsAir reports whether this state is the all-zero air block.
func (b BlockState) IsAir() bool {
	return b == AirState
}
