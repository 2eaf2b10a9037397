package world

import (
	"bytes"

	"github.com/underkeep/underkeep/pkg/protocol"
)

// JoinGameInfo carries the fields JoinGame needs that the core has no
// opinion on beyond plumbing them through (game mode, max players, and
// level type are content-layer/config decisions).
type JoinGameInfo struct {
	EntityID         int32
	GameMode         byte
	Dimension        byte
	Difficulty       byte
	MaxPlayers       byte
	LevelType        string
	ReducedDebugInfo bool
}

// WriteJoinGame appends a JoinGame (0x01) packet into buf.
func WriteJoinGame(buf *protocol.PacketBuffer, info JoinGameInfo) {
	var w bytes.Buffer
	_ = protocol.WriteInt32(&w, info.EntityID)
	_ = protocol.WriteByte(&w, info.GameMode)
	_ = protocol.WriteByte(&w, info.Dimension)
	_ = protocol.WriteByte(&w, info.Difficulty)
	_ = protocol.WriteByte(&w, info.MaxPlayers)
	_ = protocol.WriteString(&w, info.LevelType)
	_ = protocol.WriteBool(&w, info.ReducedDebugInfo)
	_ = buf.WritePacket(PacketJoinGame, w.Bytes())
}

// WriteSpawnPosition appends a SpawnPosition (0x05) packet into buf.
func WriteSpawnPosition(buf *protocol.PacketBuffer, pos protocol.Position) {
	var w bytes.Buffer
	_ = protocol.WritePosition(&w, pos)
	_ = buf.WritePacket(PacketSpawnPosition, w.Bytes())
}

// WritePlayerPositionAndLook appends an absolute teleport (0x08) packet.
func WritePlayerPositionAndLook(buf *protocol.PacketBuffer, x, y, z float64, yaw, pitch float32, flags byte) {
	var w bytes.Buffer
	_ = protocol.WriteFloat64(&w, x)
	_ = protocol.WriteFloat64(&w, y)
	_ = protocol.WriteFloat64(&w, z)
	_ = protocol.WriteFloat32(&w, yaw)
	_ = protocol.WriteFloat32(&w, pitch)
	_ = protocol.WriteByte(&w, flags)
	_ = buf.WritePacket(PacketPlayerPositionAndLook, w.Bytes())
}

// WriteDestroyEntities appends a single batched DestroyEntities (0x13)
// packet naming every entity id in ids. Mid-tick removals are deferred and
// always emitted as one such packet per tick.
func WriteDestroyEntities(buf *protocol.PacketBuffer, ids []int32) {
	var w bytes.Buffer
	_, _ = protocol.WriteVarInt(&w, int32(len(ids)))
	for _, id := range ids {
		_, _ = protocol.WriteVarInt(&w, id)
	}
	_ = buf.WritePacket(PacketDestroyEntities, w.Bytes())
}

// WriteChunkData appends a ChunkData (0x21) packet for chunk c, either as
// a fresh "new chunk" transfer (isNew true, ground-up-continuous) or a
// re-send of an already-known chunk's block changes.
func WriteChunkData(buf *protocol.PacketBuffer, c *Chunk, isNew bool) {
	data, mask := c.ChunkData(isNew)
	var w bytes.Buffer
	_ = protocol.WriteInt32(&w, c.X)
	_ = protocol.WriteInt32(&w, c.Z)
	_ = protocol.WriteBool(&w, isNew)
	_ = protocol.WriteUint16(&w, mask)
	_, _ = protocol.WriteVarInt(&w, int32(len(data)))
	w.Write(data)
	_ = buf.WritePacket(PacketChunkData, w.Bytes())
}

// WriteUnloadChunk appends the "empty chunk-data" packet that serves as
// this protocol's chunk-unload signal: protocol 47 has no dedicated unload
// packet id, so an empty ground-up-continuous ChunkData with a zero
// bitmask is sent instead.
func WriteUnloadChunk(buf *protocol.PacketBuffer, cx, cz int32) {
	var w bytes.Buffer
	_ = protocol.WriteInt32(&w, cx)
	_ = protocol.WriteInt32(&w, cz)
	_ = protocol.WriteBool(&w, true)
	_ = protocol.WriteUint16(&w, 0)
	_, _ = protocol.WriteVarInt(&w, 0)
	_ = buf.WritePacket(PacketChunkData, w.Bytes())
}

// WritePlayerListItemAdd appends a PlayerListItem "add player" (action 0)
// packet for a single profile into buf.
func WritePlayerListItemAdd(buf *protocol.PacketBuffer, profile GameProfile, gameMode int32, ping int32) {
	var w bytes.Buffer
	_, _ = protocol.WriteVarInt(&w, 0) // action: add player
	_, _ = protocol.WriteVarInt(&w, 1) // one entry
	_ = protocol.WriteUUID(&w, profile.UUID)
	_ = protocol.WriteString(&w, profile.Username)
	_, _ = protocol.WriteVarInt(&w, int32(len(profile.Properties)))
	for _, p := range profile.Properties {
		_ = protocol.WriteString(&w, p.Name)
		_ = protocol.WriteString(&w, p.Value)
		signed := p.Signature != ""
		_ = protocol.WriteBool(&w, signed)
		if signed {
			_ = protocol.WriteString(&w, p.Signature)
		}
	}
	_, _ = protocol.WriteVarInt(&w, gameMode)
	_, _ = protocol.WriteVarInt(&w, ping)
	_ = protocol.WriteBool(&w, false) // no custom display name
	_ = buf.WritePacket(PacketPlayerListItem, w.Bytes())
}

// WriteEntityTeleport appends an absolute EntityTeleport (0x18) packet for
// e into buf; used by the per-entity tick to broadcast movement generically
// without needing to know the entity's specific appearance.
func WriteEntityTeleport(buf *protocol.PacketBuffer, e *Entity) {
	var w bytes.Buffer
	_, _ = protocol.WriteVarInt(&w, e.ID)
	_ = protocol.WriteInt32(&w, protocol.ScalePosition(e.X))
	_ = protocol.WriteInt32(&w, protocol.ScalePosition(e.Y))
	_ = protocol.WriteInt32(&w, protocol.ScalePosition(e.Z))
	_ = protocol.WriteByte(&w, protocol.ScaleAngle(e.Yaw))
	_ = protocol.WriteByte(&w, protocol.ScaleAngle(e.Pitch))
	_ = protocol.WriteBool(&w, e.OnGround)
	_ = buf.WritePacket(PacketEntityTeleport, w.Bytes())
}

// WriteBlockChange appends a BlockChange (0x23) packet into buf.
func WriteBlockChange(buf *protocol.PacketBuffer, x, y, z int32, state BlockState) {
	var w bytes.Buffer
	_ = protocol.WritePosition(&w, protocol.Position{X: x, Y: y, Z: z})
	_, _ = protocol.WriteVarInt(&w, int32(state))
	_ = buf.WritePacket(PacketBlockChange, w.Bytes())
}
