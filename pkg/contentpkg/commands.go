package contentpkg

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/underkeep/underkeep/pkg/chat"
	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

// handleCommand dispatches a "/"-prefixed chat message to its handler.
func (l *Layer) handleCommand(w *world.World, p *world.Player, message string) {
	parts := strings.Fields(message)
	if len(parts) == 0 {
		return
	}
	switch strings.ToLower(parts[0]) {
	case "/gamemode", "/gm":
		l.cmdGamemode(p, parts[1:])
	case "/tp", "/teleport":
		l.cmdTeleport(w, p, parts[1:])
	case "/motd":
		l.cmdMOTD(w, p, parts[1:])
	default:
		l.tellPlayer(p, chat.Colored("Unknown command: "+parts[0], "red").String())
	}
}

func (l *Layer) cmdGamemode(p *world.Player, args []string) {
	if len(args) < 1 {
		l.tellPlayer(p, chat.Colored("Usage: /gamemode <survival|creative|adventure|spectator>", "red").String())
		return
	}
	var mode byte
	switch strings.ToLower(args[0]) {
	case "survival", "s", "0":
		mode = GameModeSurvival
	case "creative", "c", "1":
		mode = GameModeCreative
	case "adventure", "a", "2":
		mode = GameModeAdventure
	case "spectator", "sp", "3":
		mode = GameModeSpectator
	default:
		l.tellPlayer(p, chat.Colored("Unknown gamemode: "+args[0], "red").String())
		return
	}
	p.GameMode = mode

	var b bytes.Buffer
	_ = protocol.WriteByte(&b, 3) // Change Game State reason: change game mode
	_ = protocol.WriteFloat32(&b, float32(mode))
	_ = p.Buf.WritePacket(0x2B, b.Bytes())
}

// cmdTeleport supports only "/tp <x> <y> <z>" (self-teleport); teleporting
// other players is out of scope for this reference content layer.
func (l *Layer) cmdTeleport(w *world.World, p *world.Player, args []string) {
	if len(args) != 3 {
		l.tellPlayer(p, chat.Colored("Usage: /tp <x> <y> <z>", "red").String())
		return
	}
	x, err1 := strconv.ParseFloat(args[0], 64)
	y, err2 := strconv.ParseFloat(args[1], 64)
	z, err3 := strconv.ParseFloat(args[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		l.tellPlayer(p, chat.Colored("Invalid coordinates", "red").String())
		return
	}
	p.X, p.Y, p.Z = x, y, z
	world.WritePlayerPositionAndLook(&p.Buf, p.X, p.Y, p.Z, p.Yaw, p.Pitch, 0)
}

// cmdMOTD changes the cached server-list description. There is no
// permission system in this reference content layer, so any connected
// player may invoke it.
func (l *Layer) cmdMOTD(w *world.World, p *world.Player, args []string) {
	if len(args) < 1 {
		l.tellPlayer(p, chat.Colored("Usage: /motd <text>", "red").String())
		return
	}
	motd := strings.Join(args, " ")
	w.Sender().UpdateStatus(world.StatusUpdate{Description: &motd})
	l.tellPlayer(p, chat.Colored("MOTD updated", "green").String())
}

func (l *Layer) tellPlayer(p *world.Player, chatJSON string) {
	var b bytes.Buffer
	_ = protocol.WriteString(&b, chatJSON)
	_ = protocol.WriteByte(&b, 0)
	_ = p.Buf.WritePacket(outChatMessage, b.Bytes())
}
