package world

import (
	"github.com/underkeep/underkeep/pkg/protocol"
)

// DragState tracks an in-progress Click Window drag/paint operation across
// the several packets that make it up; content-layer inventory handling
// owns its semantics, the core only carries the storage.
type DragState struct {
	Active bool
	Button int32
	Slots  []int32
}

// Player is the in-world representation of a Play-state client.
type Player struct {
	// ClientID is a weak reference to the owning network.Client; the core
	// never dereferences it itself, only uses it to route outbound bytes.
	ClientID int32
	EntityID int32

	Username string
	UUID     [16]byte

	X, Y, Z    float64
	Yaw, Pitch float32
	Sneaking   bool
	OnGround   bool
	GameMode   byte

	HeldSlot     int32
	Inventory    [45]protocol.ItemStack
	Cursor       protocol.ItemStack
	OpenWindowID byte
	OpenWindow   interface{} // content-layer window descriptor, opaque to the core
	Drag         DragState

	Health float32
	IsDead bool

	ChunkPos ChunkPos

	// Buf is this player's personal outbound packet buffer, concatenated
	// with its in-view chunks' scratch buffers at flush time (step 4.d).
	Buf protocol.PacketBuffer

	// Extra is content-layer extension state (e.g. command cooldowns,
	// scoreboard objectives) the core never reads.
	Extra interface{}

	// world is a non-owning back-reference established at construction:
	// it is a parameter, never captured by a closure that would create a
	// real cycle through ownership.
	world *World
}

// World returns the player's owning world. Valid for the player's entire
// lifetime.
func (p *Player) World() *World {
	return p.world
}

// ChunkX and ChunkZ are the chunk coordinates containing the player's
// current position.
func (p *Player) ChunkX() int32 { return int32(p.X) >> 4 }
func (p *Player) ChunkZ() int32 { return int32(p.Z) >> 4 }
