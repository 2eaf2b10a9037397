package contentpkg

import (
	"bytes"
	"math"
	"math/rand"

	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

// mobType is the vanilla entity-type byte used by Spawn Mob (0x0F); a
// zombie is the only wandering mob this dungeon spawns.
const mobType byte = 54

const (
	mobMaxHealth  float32 = 20
	mobSpeed              = 0.05
	mobTurnTicks          = 40 // average ticks between a wander-direction reroll
)

// mobState is per-mob combat/AI bookkeeping that has no home on the core
// world.Entity type; captured by the mob's Behavior closure and also kept
// in Layer.mobs so packet handlers (attacks) can reach it by entity id.
type mobState struct {
	health      float32
	dead        bool
	ticksToTurn int
}

// spawnWanderingMob drops a single mob at (x, y, z) with a wander
// Behavior: it picks a random heading, walks it for a few seconds, then
// rerolls — the "single wandering mob behaviour" every room gets one of.
func (l *Layer) spawnWanderingMob(w *world.World, x, y, z float64) {
	e := &world.Entity{
		ID:   world.AllocateEntityID(),
		Kind: world.EntityKindMob,
		X:    x, Y: y, Z: z,
		Yaw: float32(rand.Intn(360)),
	}
	state := &mobState{health: mobMaxHealth}
	l.mobs[e.ID] = state

	e.Appearance = func(en *world.Entity, buf *protocol.PacketBuffer) {
		writeMobSpawn(buf, en)
	}
	e.Behavior = func(en *world.Entity, w *world.World) {
		tickMobWander(en, w, state)
	}
	w.SpawnEntity(e)
}

func writeMobSpawn(buf *protocol.PacketBuffer, e *world.Entity) {
	var b bytes.Buffer
	_, _ = protocol.WriteVarInt(&b, e.ID)
	_ = protocol.WriteByte(&b, mobType)
	_ = protocol.WriteInt32(&b, protocol.ScalePosition(e.X))
	_ = protocol.WriteInt32(&b, protocol.ScalePosition(e.Y))
	_ = protocol.WriteInt32(&b, protocol.ScalePosition(e.Z))
	_ = protocol.WriteByte(&b, protocol.ScaleAngle(e.Yaw))
	_ = protocol.WriteByte(&b, protocol.ScaleAngle(e.Pitch))
	_ = protocol.WriteByte(&b, protocol.ScaleAngle(e.Yaw)) // head pitch, no independent head tracking
	_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(e.VX))
	_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(e.VY))
	_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(e.VZ))
	_ = protocol.WriteByte(&b, 0x7F) // empty metadata list, terminator only
	_ = buf.WritePacket(0x0F, b.Bytes())
}

// tickMobWander walks the mob toward its current heading, gravity-stuck to
// the dungeon floor the same way item physics is, and rerolls direction on
// a random timer so movement doesn't look perfectly periodic.
func tickMobWander(e *world.Entity, w *world.World, state *mobState) {
	if state.dead {
		return
	}
	const floorStop = float64(floorY) + 1

	if state.ticksToTurn <= 0 {
		e.Yaw = float32(rand.Intn(360))
		state.ticksToTurn = mobTurnTicks/2 + rand.Intn(mobTurnTicks)
	}
	state.ticksToTurn--

	rad := float64(e.Yaw) * math.Pi / 180
	e.X += -math.Sin(rad) * mobSpeed
	e.Z += math.Cos(rad) * mobSpeed
	e.Y = floorStop
	e.OnGround = true
}
