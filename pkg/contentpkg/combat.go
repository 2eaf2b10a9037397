package contentpkg

import (
	"bytes"
	"math"

	"github.com/underkeep/underkeep/pkg/chat"
	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

const meleeDamage float32 = 2 // one heart, the only attack this dungeon has

// handleUseEntity processes Use Entity (0x02): only useType 1 ("attack")
// does anything here — interact (0) and interact-at (2) have no content
// bound to them yet.
func (l *Layer) handleUseEntity(w *world.World, p *world.Player, r *bytes.Reader) {
	targetID, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return
	}
	useType, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return
	}
	if useType != 1 {
		return
	}
	l.handleAttack(w, p, targetID)
}

func (l *Layer) handleAttack(w *world.World, attacker *world.Player, targetID int32) {
	if attacker.GameMode == GameModeSpectator {
		return
	}

	if state, ok := l.mobs[targetID]; ok {
		l.attackMob(w, attacker, targetID, state)
		return
	}

	for _, target := range w.Players() {
		if target.EntityID != targetID {
			continue
		}
		l.attackPlayer(w, attacker, target)
		return
	}
}

func (l *Layer) attackMob(w *world.World, attacker *world.Player, targetID int32, state *mobState) {
	if state.dead {
		return
	}
	e, ok := w.Entities().Get(targetID)
	if !ok {
		return
	}

	state.health -= meleeDamage
	dead := state.health <= 0
	if dead {
		state.health = 0
		state.dead = true
	}

	l.broadcastEntityStatus(w, targetID, 2)
	if dead {
		l.broadcastEntityStatus(w, targetID, 3)
		w.RequestRemoveEntity(targetID)
		delete(l.mobs, targetID)
		return
	}

	l.knockback(w, targetID, attacker.X, attacker.Z, e.X, e.Z)
}

func (l *Layer) attackPlayer(w *world.World, attacker, target *world.Player) {
	if target.IsDead || target.GameMode == GameModeCreative || target.GameMode == GameModeSpectator {
		return
	}

	targetX, targetZ := target.X, target.Z

	target.Health -= meleeDamage
	dead := target.Health <= 0
	if dead {
		target.Health = 0
		target.IsDead = true
	}

	l.broadcastEntityStatus(w, target.EntityID, 2)
	l.sendHealth(target)

	if dead {
		l.broadcastEntityStatus(w, target.EntityID, 3)
		l.broadcastChat(w, chat.Colored(target.Username+" was slain by "+attacker.Username, "red").String())
		return
	}

	l.knockback(w, target.EntityID, attacker.X, attacker.Z, targetX, targetZ)
}

// knockback pushes the entity at entityID away from (fromX, fromZ): a
// normalized horizontal vector scaled to 0.4 blocks/tick plus a fixed 0.4
// upward pop, matching vanilla's basic melee knockback.
func (l *Layer) knockback(w *world.World, entityID int32, fromX, fromZ, targetX, targetZ float64) {
	dx, dz := targetX-fromX, targetZ-fromZ
	dist := math.Sqrt(dx*dx + dz*dz)
	if dist == 0 {
		return
	}
	l.sendEntityVelocity(w, entityID, (dx/dist)*0.4, 0.4, (dz/dist)*0.4)
}

// broadcastEntityStatus sends Entity Status (0x1A: 2 = hurt animation, 3 =
// dead animation) to every connected player; this codebase has no
// per-viewer entity visibility tracking yet, so combat feedback fans out
// the same unscoped way chat does.
func (l *Layer) broadcastEntityStatus(w *world.World, entityID int32, status byte) {
	for _, p := range w.Players() {
		var b bytes.Buffer
		_ = protocol.WriteInt32(&b, entityID)
		_ = protocol.WriteByte(&b, status)
		_ = p.Buf.WritePacket(outEntityStatus, b.Bytes())
	}
}

// sendEntityVelocity broadcasts Entity Velocity (0x12); vx/vy/vz are in
// blocks/tick and get scaled to the wire's 1/8000ths via
// protocol.ScaleVelocity.
func (l *Layer) sendEntityVelocity(w *world.World, entityID int32, vx, vy, vz float64) {
	for _, p := range w.Players() {
		var b bytes.Buffer
		_, _ = protocol.WriteVarInt(&b, entityID)
		_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(vx))
		_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(vy))
		_ = protocol.WriteInt16(&b, protocol.ScaleVelocity(vz))
		_ = p.Buf.WritePacket(outEntityVelocity, b.Bytes())
	}
}

// sendHealth sends Update Health (0x06) to player alone: food/saturation
// are fixed at full since hunger isn't simulated by this content layer.
func (l *Layer) sendHealth(player *world.Player) {
	var b bytes.Buffer
	_ = protocol.WriteFloat32(&b, player.Health)
	_, _ = protocol.WriteVarInt(&b, 20)
	_ = protocol.WriteFloat32(&b, 5.0)
	_ = player.Buf.WritePacket(outUpdateHealth, b.Bytes())
}

// handleClientStatus processes Client Status (0x16): action 0 is
// "respawn", the only action this dungeon needs (action 1, opening the
// stats screen, has no server-side effect).
func (l *Layer) handleClientStatus(w *world.World, p *world.Player, r *bytes.Reader) {
	action, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return
	}
	if action == 0 {
		l.handleRespawn(w, p)
	}
}

func (l *Layer) handleRespawn(w *world.World, p *world.Player) {
	if !p.IsDead {
		return
	}
	p.Health = 20
	p.IsDead = false
	p.X, p.Y, p.Z = l.cfg.SpawnX, l.cfg.SpawnY, l.cfg.SpawnZ

	var b bytes.Buffer
	_ = protocol.WriteInt32(&b, 0) // dimension: overworld
	_ = protocol.WriteByte(&b, 0)  // difficulty: peaceful
	_ = protocol.WriteByte(&b, p.GameMode)
	_ = protocol.WriteString(&b, "default")
	_ = p.Buf.WritePacket(outRespawn, b.Bytes())

	world.WritePlayerPositionAndLook(&p.Buf, p.X, p.Y, p.Z, p.Yaw, p.Pitch, 0)
	l.sendHealth(p)
}
