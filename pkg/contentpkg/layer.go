package contentpkg

import (
	"go.uber.org/zap"

	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

// Game mode wire values, matching Minecraft 1.8.9.
const (
	GameModeSurvival  byte = 0
	GameModeCreative  byte = 1
	GameModeAdventure byte = 2
	GameModeSpectator byte = 3
)

// Config configures the content layer: world seed, spawn pose, and the
// game mode newly-joined players start in.
type Config struct {
	Seed            int64
	DefaultGameMode byte
	SpawnX          float64
	SpawnY          float64
	SpawnZ          float64
}

func (c *Config) applyDefaults() {
	if c.SpawnY == 0 {
		c.SpawnX = 8
		c.SpawnY = float64(floorY) + 1
		c.SpawnZ = 8
	}
}

// Layer is the one concrete world.ContentLayer: a dungeon room layout, a
// chat/command dispatcher, item-entity physics/pickup, inventory/crafting,
// melee combat, and one wandering mob per room. Everything here is
// deliberately compact — a working reference implementation of the
// interface, not a full game's worth of content.
type Layer struct {
	cfg    Config
	layout *Layout
	log    *zap.SugaredLogger

	extras map[int32]*playerExtra

	mobs        map[int32]*mobState
	mobsSpawned bool
}

// playerExtra is attached per-player via world.Player.Extra; it holds
// state the core has no business knowing about (chat cooldown, last
// command, etc.) — currently just a reserved spot for future content-layer
// bookkeeping, exercised by PlayerRemoved cleanup.
type playerExtra struct {
	joinTick int64
}

// New constructs a content layer with the given configuration.
func New(cfg Config, log *zap.SugaredLogger) *Layer {
	cfg.applyDefaults()
	return &Layer{
		cfg:    cfg,
		layout: NewLayout(cfg.Seed),
		log:    log,
		extras: make(map[int32]*playerExtra),
		mobs:   make(map[int32]*mobState),
	}
}

// Populate implements world.ContentLayer.
func (l *Layer) Populate(grid *world.ChunkGrid) {
	l.layout.Populate(grid)
	l.log.Infow("dungeon layout generated", "size", grid.Size())
}

// BuildPlayer implements world.ContentLayer.
func (l *Layer) BuildPlayer(w *world.World, clientID int32, profile world.GameProfile) *world.Player {
	p := &world.Player{
		ClientID: clientID,
		EntityID: world.AllocateEntityID(),
		Username: profile.Username,
		UUID:     profile.UUID,
		X:        l.cfg.SpawnX,
		Y:        l.cfg.SpawnY,
		Z:        l.cfg.SpawnZ,
		OnGround: true,
		GameMode: l.cfg.DefaultGameMode,
		Health:   20,
	}
	for i := range p.Inventory {
		p.Inventory[i] = protocol.EmptyItemStack()
	}
	p.Cursor = protocol.EmptyItemStack()
	p.ChunkPos = world.ChunkPos{X: int32(p.X) >> 4, Z: int32(p.Z) >> 4}

	l.extras[clientID] = &playerExtra{}
	p.Extra = l.extras[clientID]
	return p
}

// Tick implements world.ContentLayer. The dungeon layout itself is static
// once generated, but on the very first tick it seeds one wandering mob
// per carved room — deferred from Populate because mobs are
// world.Entity values that need the tick runtime's entity registry, which
// doesn't exist yet at generation time.
func (l *Layer) Tick(w *world.World) {
	if l.mobsSpawned {
		return
	}
	l.mobsSpawned = true
	for _, room := range l.layout.Rooms() {
		l.spawnWanderingMob(w, room.X, float64(floorY)+1, room.Z)
	}
}

// PlayerTick implements world.ContentLayer: scans the player's own chunk
// for pickupable item entities.
func (l *Layer) PlayerTick(w *world.World, p *world.Player) {
	tryPickup(w, p)
}

// PlayerRemoved implements world.ContentLayer: releases the per-player
// extension state allocated in BuildPlayer.
func (l *Layer) PlayerRemoved(w *world.World, p *world.Player) {
	delete(l.extras, p.ClientID)
}
