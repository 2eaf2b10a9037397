package contentpkg

// IsInstantBreak reports whether a block (by id) has zero hardness and so
// breaks on the client's first "start digging" packet rather than waiting
// for "finished digging", in survival mode.
func IsInstantBreak(blockID uint16) bool {
	switch blockID {
	case 6, 27, 28, 31, 32, 37, 38, 39, 40, 50, 51, 55, 59, 63, 68, 65, 66, 69,
		70, 72, 75, 76, 77, 78, 83, 90, 93, 94, 106, 111, 115, 119, 120, 131, 132,
		141, 142, 143, 144, 147, 148, 149, 150, 151, 154, 157, 175, 176, 177:
		return true
	}
	return false
}

// BlockDrop returns the item that should be dropped when the given block
// state is broken. A -1 itemID means nothing drops.
func BlockDrop(blockID uint16, metadata byte) (itemID int16, meta int16, count byte) {
	m := int16(metadata)
	switch blockID {
	case 0, 7, 8, 9, 10, 11, 20, 95, 102, 160:
		return -1, 0, 0
	case 2: // grass -> dirt
		return 3, 0, 1
	case 1: // stone
		if metadata == 0 {
			return 4, 0, 1
		}
		return 1, m, 1
	case 17, 162: // logs
		return int16(blockID), m & 0x03, 1
	case 18, 161: // leaves
		return -1, 0, 0
	case 50: // torch
		return 50, 0, 1
	case 16:
		return 263, 0, 1
	case 56:
		return 264, 0, 1
	case 3: // dirt
		return 3, m & 1, 1
	case 4:
		return 4, 0, 1
	case 5:
		return 5, m, 1
	case 35: // wool
		return 35, m, 1
	case 54: // chest
		return 54, 0, 1
	default:
		return int16(blockID), 0, 1
	}
}

// roomFloorBlock and roomWallBlock are the stone-family block ids used by
// the dungeon room carver, free to pick any palette; plain stone and
// stone-brick walls fit a dungeon.
const (
	roomFloorBlock uint16 = 1   // stone
	roomWallBlock  uint16 = 98  // stone bricks
	bedrockBlock   uint16 = 7
	rubbleBlock    uint16 = 13  // gravel, scattered across room floors by Layout's noise field
)
