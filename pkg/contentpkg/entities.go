package contentpkg

import (
	"bytes"
	"math"

	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

// item drop physics constants.
const (
	gravity     = 0.04
	groundDrag  = 0.58
	airDrag     = 0.98
	pickupRange = 1.5
)

// itemExtra is attached to an Entity's world.Entity (there is no per-entity
// Extra field on the core type, so item identity is captured by closure
// over these values when Appearance/Behavior are built).
type itemExtra struct {
	itemID int16
	meta   int16
	count  byte
}

// SpawnItem drops an item entity at the given position/velocity. Appearance
// writes a SpawnObject-style packet (type 2, "dropped item") with the
// slot's contents baked into the packet as metadata; Behavior applies
// simple gravity + ground friction each tick.
func SpawnItem(w *world.World, x, y, z, vx, vy, vz float64, itemID, meta int16, count byte) {
	e := &world.Entity{
		ID: world.AllocateEntityID(),
		Kind: world.EntityKindItem,
		X: x, Y: y, Z: z,
		VX: vx, VY: vy, VZ: vz,
	}
	extra := itemExtra{itemID: itemID, meta: meta, count: count}

	e.Appearance = func(en *world.Entity, buf *protocol.PacketBuffer) {
		writeItemSpawn(buf, en, extra)
	}
	e.Behavior = func(en *world.Entity, w *world.World) {
		tickItemPhysics(en, w)
	}
	w.SpawnEntity(e)
}

func writeItemSpawn(buf *protocol.PacketBuffer, e *world.Entity, extra itemExtra) {
	var b bytes.Buffer
	_, _ = protocol.WriteVarInt(&b, e.ID)
	_ = protocol.WriteUUID(&b, [16]byte{})
	_ = protocol.WriteByte(&b, 2) // object type: item stack
	_ = protocol.WriteInt32(&b, protocol.ScalePosition(e.X))
	_ = protocol.WriteInt32(&b, protocol.ScalePosition(e.Y))
	_ = protocol.WriteInt32(&b, protocol.ScalePosition(e.Z))
	_ = protocol.WriteByte(&b, protocol.ScaleAngle(e.Pitch))
	_ = protocol.WriteByte(&b, protocol.ScaleAngle(e.Yaw))
	_ = protocol.WriteInt32(&b, 1) // has velocity data
	_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(e.VX))
	_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(e.VY))
	_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(e.VZ))
	_ = buf.WritePacket(0x0E, b.Bytes()) // Spawn Object

	stack := protocol.ItemStack{ID: extra.itemID, Count: int8(extra.count), Metadata: extra.meta}
	var meta bytes.Buffer
	_ = protocol.WriteByte(&meta, (5<<5)|10) // index 10 (item stack), type 5 (slot), per 1.8 metadata format
	_ = protocol.WriteItemStack(&meta, stack)
	_ = protocol.WriteByte(&meta, 0x7F) // metadata terminator
	var wrap bytes.Buffer
	_, _ = protocol.WriteVarInt(&wrap, e.ID)
	wrap.Write(meta.Bytes())
	_ = buf.WritePacket(0x1C, wrap.Bytes()) // Entity Metadata
}

// tickItemPhysics applies gravity, integrates position, and, once the item
// rests at floor level, zeroes vertical velocity and damps horizontal
// velocity by groundDrag each tick (airDrag while airborne). No block AABB
// collision is attempted — items simply stop falling at the dungeon floor
// height.
func tickItemPhysics(e *world.Entity, w *world.World) {
	const floorStop = float64(floorY) + 1
	e.VY -= gravity
	e.X += e.VX
	e.Y += e.VY
	e.Z += e.VZ

	if e.Y <= floorStop {
		e.Y = floorStop
		e.VY = 0
		e.VX *= groundDrag
		e.VZ *= groundDrag
		e.OnGround = true
	} else {
		e.VX *= airDrag
		e.VZ *= airDrag
		e.OnGround = false
	}
}

// tryPickup scans resident entities of p's chunk for an item entity within
// pickupRange and removes it on contact. Scoped to a same-chunk scan,
// consistent with the scratch-buffer broadcast model, which only makes
// chunk-resident entities cheaply reachable from PlayerTick.
func tryPickup(w *world.World, p *world.Player) {
	c := w.Grid().Chunk(p.ChunkPos.X, p.ChunkPos.Z)
	if c == nil {
		return
	}
	for id := range c.Entities {
		e, ok := w.Entities().Get(id)
		if !ok || e.Kind != world.EntityKindItem {
			continue
		}
		dx, dy, dz := e.X-p.X, e.Y-p.Y, e.Z-p.Z
		if math.Sqrt(dx*dx+dy*dy+dz*dz) > pickupRange {
			continue
		}
		w.RequestRemoveEntity(e.ID)
	}
}
