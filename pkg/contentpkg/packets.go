package contentpkg

import (
	"bytes"
	"strings"

	"github.com/underkeep/underkeep/pkg/chat"
	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

// Serverbound Play packet ids this content layer understands, protocol 47.
const (
	packetKeepAlive         int32 = 0x00
	packetChatMessage       int32 = 0x01
	packetUseEntity         int32 = 0x02
	packetPlayerOnGround    int32 = 0x03
	packetPlayerPosition    int32 = 0x04
	packetPlayerLook        int32 = 0x05
	packetPlayerPosLook     int32 = 0x06
	packetPlayerDigging     int32 = 0x07
	packetHeldItemChange    int32 = 0x09
	packetAnimation         int32 = 0x0A
	packetCloseWindow       int32 = 0x0D
	packetClickWindow       int32 = 0x0E
	packetCreativeInventory int32 = 0x10
	packetClientStatus      int32 = 0x16
)

// Clientbound packet ids this content layer emits on its own behalf.
const (
	outChatMessage        int32 = 0x02
	outUpdateHealth       int32 = 0x06
	outRespawn            int32 = 0x07
	outAnimation          int32 = 0x0B
	outEntityVelocity     int32 = 0x12
	outEntityStatus       int32 = 0x1A
	outSetSlot            int32 = 0x2F
	outWindowItems        int32 = 0x30
	outConfirmTransaction int32 = 0x32
)

// HandlePacket implements world.ContentLayer.
func (l *Layer) HandlePacket(w *world.World, p *world.Player, pkt *protocol.Packet) {
	r := bytes.NewReader(pkt.Data)

	switch pkt.ID {
	case packetKeepAlive:
		// no response required by the core's keep-alive model

	case packetChatMessage:
		msg, err := protocol.ReadString(r)
		if err != nil {
			return
		}
		if len(msg) > 256 {
			msg = msg[:256]
		}
		if strings.HasPrefix(msg, "/") {
			l.handleCommand(w, p, msg)
			return
		}
		l.broadcastChat(w, chat.Translatef("", chat.Colored("<"+p.Username+"> ", "yellow"), chat.Text(msg)).String())

	case packetPlayerOnGround:
		onGround, _ := protocol.ReadBool(r)
		p.OnGround = onGround

	case packetPlayerPosition:
		x, _ := protocol.ReadFloat64(r)
		y, _ := protocol.ReadFloat64(r)
		z, _ := protocol.ReadFloat64(r)
		onGround, _ := protocol.ReadBool(r)
		p.X, p.Y, p.Z, p.OnGround = x, y, z, onGround

	case packetPlayerLook:
		yaw, _ := protocol.ReadFloat32(r)
		pitch, _ := protocol.ReadFloat32(r)
		onGround, _ := protocol.ReadBool(r)
		p.Yaw, p.Pitch, p.OnGround = yaw, pitch, onGround

	case packetPlayerPosLook:
		x, _ := protocol.ReadFloat64(r)
		y, _ := protocol.ReadFloat64(r)
		z, _ := protocol.ReadFloat64(r)
		yaw, _ := protocol.ReadFloat32(r)
		pitch, _ := protocol.ReadFloat32(r)
		onGround, _ := protocol.ReadBool(r)
		p.X, p.Y, p.Z = x, y, z
		p.Yaw, p.Pitch, p.OnGround = yaw, pitch, onGround

	case packetPlayerDigging:
		l.handleDigging(w, p, r)

	case packetHeldItemChange:
		slot, _ := protocol.ReadInt16(r)
		p.HeldSlot = int32(slot)

	case packetAnimation:
		l.broadcastAnimation(w, p)

	case packetUseEntity:
		l.handleUseEntity(w, p, r)

	case packetClickWindow:
		l.handleClickWindow(w, p, r)

	case packetCloseWindow:
		l.handleCloseWindow(w, p, r)

	case packetCreativeInventory:
		l.handleCreativeInventory(p, r)

	case packetClientStatus:
		l.handleClientStatus(w, p, r)

	default:
		// Unknown Play packet ids are silently dropped.
	}
}

// handleDigging processes Player Digging (0x07): creative instant-break,
// survival finished-digging, and zero-hardness instant-break.
func (l *Layer) handleDigging(w *world.World, p *world.Player, r *bytes.Reader) {
	status, err := protocol.ReadByte(r)
	if err != nil {
		return
	}
	pos, err := protocol.ReadPosition(r)
	if err != nil {
		return
	}
	_, _ = protocol.ReadByte(r) // face, unused: no partial-face break semantics

	if p.GameMode == GameModeSpectator {
		return
	}

	switch {
	case status == 0 && p.GameMode == GameModeCreative:
		l.breakBlock(w, pos)
	case status == 2:
		l.breakBlock(w, pos)
	case status == 0 && p.GameMode == GameModeSurvival:
		state := w.Grid().GetBlock(pos.X, pos.Y, pos.Z)
		if IsInstantBreak(state.ID()) {
			l.breakBlock(w, pos)
		}
	}
}

func (l *Layer) breakBlock(w *world.World, pos protocol.Position) {
	state := w.Grid().GetBlock(pos.X, pos.Y, pos.Z)
	if state.IsAir() {
		return
	}
	itemID, meta, count := BlockDrop(state.ID(), state.Metadata())

	w.Grid().SetBlock(pos.X, pos.Y, pos.Z, world.AirState, func(c *world.Chunk, lx, y, lz int, s world.BlockState) {
		world.WriteBlockChange(&c.Scratch, pos.X, pos.Y, pos.Z, s)
	})

	if itemID >= 0 {
		SpawnItem(w, float64(pos.X)+0.5, float64(pos.Y)+0.5, float64(pos.Z)+0.5, 0, 0.1, 0, itemID, meta, count)
	}
}

// broadcastChat writes msg into every connected player's personal buffer.
// Chat has no spatial scoping, so it cannot use the per-chunk scratch
// broadcast substrate the core provides for world events — it fans out
// directly, the same way the core's own JoinGame/PlayerListItem writes do
// in handleNewPlayer.
func (l *Layer) broadcastChat(w *world.World, msg string) {
	for _, p := range w.Players() {
		var b bytes.Buffer
		_ = protocol.WriteString(&b, msg)
		_ = protocol.WriteByte(&b, 0) // position: chat box
		_ = p.Buf.WritePacket(outChatMessage, b.Bytes())
	}
}

func (l *Layer) broadcastAnimation(w *world.World, actor *world.Player) {
	for _, p := range w.Players() {
		var b bytes.Buffer
		_, _ = protocol.WriteVarInt(&b, actor.EntityID)
		_ = protocol.WriteByte(&b, 0) // swing main arm
		_ = p.Buf.WritePacket(outAnimation, b.Bytes())
	}
}
