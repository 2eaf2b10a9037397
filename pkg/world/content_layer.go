package world

import "github.com/underkeep/underkeep/pkg/protocol"

// ContentLayer is the interface boundary between the core tick runtime and
// everything game-specific: dungeon generation, item behaviour, entity AI,
// command parsing, chat formatting, crafting, and combat. The runtime
// treats a ContentLayer purely as a set of opaque callbacks — "build a
// player", "advance state for one tick", "handle this packet" — never
// inspecting what's behind them. The one concrete implementation ships in
// package contentpkg.
type ContentLayer interface {
	// Populate is invoked once at startup to let the content layer write
	// blocks into the grid before any player connects. The core performs
	// no generation itself (an explicit Non-goal).
	Populate(grid *ChunkGrid)

	// BuildPlayer constructs a new Player for a just-completed login. The
	// core has no default spawn pose, starting inventory, or game mode —
	// all of that is a content-layer decision.
	BuildPlayer(w *World, clientID int32, profile GameProfile) *Player

	// Tick is the content layer's per-tick hook, invoked first each tick
	// before any player-specific processing.
	Tick(w *World)

	// PlayerTick is invoked once per player per tick.
	PlayerTick(w *World, p *Player)

	// HandlePacket dispatches one decoded Play-state packet to whatever
	// per-packet handler the content layer has registered. The core
	// applies no movement validation of its own.
	HandlePacket(w *World, p *Player, pkt *protocol.Packet)

	// PlayerRemoved runs after a player has been removed from the world,
	// so the content layer can release state it attached via Player.Extra.
	PlayerRemoved(w *World, p *Player)
}
