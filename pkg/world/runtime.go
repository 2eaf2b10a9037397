package world

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/underkeep/underkeep/pkg/protocol"
)

// TickInterval is the fixed tick period: 20 Hz.
const TickInterval = 50 * time.Millisecond

// DefaultViewDistance is the square view-distance radius in chunks.
const DefaultViewDistance = 6

// Config bundles the runtime knobs the core needs that have no other
// natural home — most gameplay configuration (MOTD, default game mode) is
// the content layer's concern, but these shape the protocol itself.
type Config struct {
	GridSize     int32
	ViewDistance int32
	MaxPlayers   int
	LevelType    string
	SpawnX       float64
	SpawnY       float64
	SpawnZ       float64
}

// World owns the chunk grid, the player vector, and the entity registry. It
// is mutated exclusively from within Run's goroutine; every other
// goroutine communicates with it by sending a Message on Inbound().
type World struct {
	cfg     Config
	grid    *ChunkGrid
	content ContentLayer
	sender  Sender
	log     *zap.SugaredLogger

	players      []*Player
	playerByClient map[int32]int

	entities        *EntityRegistry
	pendingRemovals []int32

	inbound chan Message
	tickNum int64
}

// NewWorld constructs a World and invokes the content layer's Populate hook
// to seed the grid before any player can connect.
func NewWorld(cfg Config, content ContentLayer, sender Sender, log *zap.SugaredLogger) *World {
	w := &World{
		cfg:            cfg,
		grid:           NewChunkGrid(cfg.GridSize),
		content:        content,
		sender:         sender,
		log:            log,
		playerByClient: make(map[int32]int),
		entities:       NewEntityRegistry(),
		inbound:        make(chan Message, 256),
	}
	content.Populate(w.grid)
	return w
}

// Inbound returns the channel the network side sends Messages on. The
// channel itself is never closed in normal operation; closing it signals
// a fatal "network side is gone" condition.
func (w *World) Inbound() chan<- Message {
	return w.inbound
}

// Grid returns the world's chunk grid.
func (w *World) Grid() *ChunkGrid { return w.grid }

// Entities returns the entity registry.
func (w *World) Entities() *EntityRegistry { return w.entities }

// Players returns the live player vector in iteration order. Callers must
// treat this as read-only outside the tick goroutine.
func (w *World) Players() []*Player { return w.players }

// ViewDistance returns the configured view distance in chunks.
func (w *World) ViewDistance() int32 { return w.cfg.ViewDistance }

// Sender returns the network supervisor handle the content layer can use
// to push out-of-band status updates (e.g. an admin command changing the
// MOTD) without the core needing to know why.
func (w *World) Sender() Sender { return w.sender }

// RequestRemoveEntity queues id for removal; the actual swap-remove
// happens at the start of the next tick, batched into one DestroyEntities
// broadcast.
func (w *World) RequestRemoveEntity(id int32) {
	w.pendingRemovals = append(w.pendingRemovals, id)
}

// SpawnEntity registers e in the registry, inserts it into its chunk's
// resident set, and writes its spawn packet into that chunk's scratch
// buffer so observers pick it up at the next flush.
func (w *World) SpawnEntity(e *Entity) {
	e.ChunkPos = ChunkPos{X: int32(e.X) >> 4, Z: int32(e.Z) >> 4}
	w.entities.Add(e)
	if c := w.grid.Chunk(e.ChunkPos.X, e.ChunkPos.Z); c != nil {
		c.Entities[e.ID] = struct{}{}
		if e.Appearance != nil {
			e.Appearance(e, &c.Scratch)
		}
	}
}

// Run drives the 50ms tick loop until ctx is cancelled. A closed inbound
// channel is fatal: drainInbound logs it and exits the process.
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick()
		}
	}
}

// tick executes one full tick in a fixed, deterministic order.
func (w *World) tick() {
	w.tickNum++
	w.drainInbound()

	// Step 1: content layer's per-tick hook.
	w.content.Tick(w)

	// Step 2: apply deferred entity removals into one batched packet.
	destroyBytes := w.applyPendingRemovals()

	// Step 3: tick each entity in vector order.
	for _, e := range w.entities.All() {
		e.LastX, e.LastY, e.LastZ = e.X, e.Y, e.Z
		e.LastYaw, e.LastPitch = e.Yaw, e.Pitch
		if e.Behavior != nil {
			e.Behavior(e, w)
		}
		e.TicksExisted++
		w.retickEntityChunk(e)
	}

	// Step 4: per-player output.
	for _, p := range w.players {
		// 4.a: the collective DestroyEntities packet.
		if len(destroyBytes) > 0 {
			p.Buf.CopyFrom(destroyBytes)
		}
		// 4.b: content layer's per-player tick.
		w.content.PlayerTick(w, p)
		// 4.c: chunk-transition handling.
		w.retickPlayerChunk(p)
		// 4.d: ambient chunk traffic within view distance.
		ForEachInView(p.ChunkPos, w.cfg.ViewDistance, func(pos ChunkPos) {
			if c := w.grid.Chunk(pos.X, pos.Z); c != nil {
				p.Buf.CopyFrom(c.Scratch.Freeze())
			}
		})
		// 4.e: flush.
		w.sender.SendPackets(p.ClientID, p.Buf.Freeze())
		p.Buf.Clear()
	}

	// Step 5: clear every chunk's scratch buffer.
	for cz := int32(0); cz < w.grid.size; cz++ {
		for cx := int32(0); cx < w.grid.size; cx++ {
			if c := w.grid.chunks[cz*w.grid.size+cx]; c != nil {
				c.Scratch.Clear()
			}
		}
	}
}

// drainInbound non-blockingly processes every message currently queued.
func (w *World) drainInbound() {
	for {
		select {
		case msg, ok := <-w.inbound:
			if !ok {
				w.log.Fatal("world: inbound channel closed, network side died")
			}
			w.handleMessage(msg)
		default:
			return
		}
	}
}

func (w *World) handleMessage(msg Message) {
	switch m := msg.(type) {
	case NewPlayer:
		w.handleNewPlayer(m)
	case PacketReceived:
		if idx, ok := w.playerByClient[m.ClientID]; ok {
			w.content.HandlePacket(w, w.players[idx], m.Packet)
		}
	case ClientDisconnected:
		w.handleClientDisconnected(m)
	default:
		w.log.Warnw("world: unrecognized message type")
	}
}

func (w *World) handleNewPlayer(m NewPlayer) {
	p := w.content.BuildPlayer(w, m.ClientID, m.Profile)
	p.world = w
	p.ChunkPos = ChunkPos{X: p.ChunkX(), Z: p.ChunkZ()}

	WriteJoinGame(&p.Buf, JoinGameInfo{
		EntityID:   p.EntityID,
		GameMode:   p.GameMode,
		Dimension:  0,
		Difficulty: 0,
		MaxPlayers: byte(w.cfg.MaxPlayers),
		LevelType:  w.cfg.LevelType,
	})
	WriteSpawnPosition(&p.Buf, protocol.Position{X: int32(w.cfg.SpawnX), Y: int32(w.cfg.SpawnY), Z: int32(w.cfg.SpawnZ)})

	ForEachInView(p.ChunkPos, w.cfg.ViewDistance, func(pos ChunkPos) {
		if c := w.grid.Chunk(pos.X, pos.Z); c != nil {
			WriteChunkData(&p.Buf, c, true)
		}
	})

	WritePlayerPositionAndLook(&p.Buf, p.X, p.Y, p.Z, p.Yaw, p.Pitch, 0)
	WritePlayerListItemAdd(&p.Buf, GameProfile{Username: p.Username, UUID: p.UUID}, int32(p.GameMode), 0)

	ForEachInView(p.ChunkPos, w.cfg.ViewDistance, func(pos ChunkPos) {
		c := w.grid.Chunk(pos.X, pos.Z)
		if c == nil {
			return
		}
		for eid := range c.Entities {
			if e, ok := w.entities.Get(eid); ok && e.Appearance != nil {
				e.Appearance(e, &p.Buf)
			}
		}
	})

	w.sender.SendPackets(p.ClientID, p.Buf.Freeze())
	p.Buf.Clear()

	if c := w.grid.Chunk(p.ChunkPos.X, p.ChunkPos.Z); c != nil {
		c.Players[p.EntityID] = struct{}{}
	}
	w.playerByClient[p.ClientID] = len(w.players)
	w.players = append(w.players, p)
	w.sender.UpdatePlayerCount(len(w.players))
}

func (w *World) handleClientDisconnected(m ClientDisconnected) {
	idx, ok := w.playerByClient[m.ClientID]
	if !ok {
		return
	}
	p := w.players[idx]
	if c := w.grid.Chunk(p.ChunkPos.X, p.ChunkPos.Z); c != nil {
		delete(c.Players, p.EntityID)
	}
	w.removePlayerAtIndex(idx)
	w.content.PlayerRemoved(w, p)
	w.RequestRemoveEntity(p.EntityID)
	w.sender.UpdatePlayerCount(len(w.players))
}

// removePlayerAtIndex swap-removes the player vector entry, fixing up the
// index map for whichever player moved into the vacated slot.
func (w *World) removePlayerAtIndex(idx int) {
	removed := w.players[idx]
	last := len(w.players) - 1
	w.players[idx] = w.players[last]
	w.playerByClient[w.players[idx].ClientID] = idx
	w.players[last] = nil
	w.players = w.players[:last]
	delete(w.playerByClient, removed.ClientID)
}

// applyPendingRemovals removes every queued entity id from the registry and
// its chunk's resident set, and returns one marshaled DestroyEntities
// packet covering all of them.
func (w *World) applyPendingRemovals() []byte {
	if len(w.pendingRemovals) == 0 {
		return nil
	}
	ids := w.pendingRemovals
	w.pendingRemovals = nil
	for _, id := range ids {
		e, ok := w.entities.Remove(id)
		if !ok {
			continue
		}
		if c := w.grid.Chunk(e.ChunkPos.X, e.ChunkPos.Z); c != nil {
			delete(c.Entities, id)
		}
	}
	var buf protocol.PacketBuffer
	WriteDestroyEntities(&buf, ids)
	return buf.Freeze()
}

// retickEntityChunk moves e's chunk membership and writes spawn/despawn
// packets into the newly-observing/no-longer-observing chunks, and a
// generic teleport packet announcing its new position to its (possibly
// unchanged) owning chunk.
func (w *World) retickEntityChunk(e *Entity) {
	newPos := ChunkPos{X: int32(e.X) >> 4, Z: int32(e.Z) >> 4}
	if newPos == e.ChunkPos {
		if oldChunk := w.grid.Chunk(e.ChunkPos.X, e.ChunkPos.Z); oldChunk != nil {
			WriteEntityTeleport(&oldChunk.Scratch, e)
		}
		return
	}
	oldPos := e.ChunkPos
	e.ChunkPos = newPos
	if oldChunk := w.grid.Chunk(oldPos.X, oldPos.Z); oldChunk != nil {
		delete(oldChunk.Entities, e.ID)
	}
	if newChunk := w.grid.Chunk(newPos.X, newPos.Z); newChunk != nil {
		newChunk.Entities[e.ID] = struct{}{}
	}
	ForEachDiff(newPos, oldPos, w.cfg.ViewDistance, func(pos ChunkPos, tag DiffTag) {
		c := w.grid.Chunk(pos.X, pos.Z)
		if c == nil {
			return
		}
		if tag == TagNew {
			if e.Appearance != nil {
				e.Appearance(e, &c.Scratch)
			}
		} else {
			WriteDestroyEntities(&c.Scratch, []int32{e.ID})
		}
	})
}

// retickPlayerChunk moves a player to a new resident chunk when its
// position has crossed a chunk boundary since the last tick, diffing the
// view square and subscribing/unsubscribing chunks accordingly.
func (w *World) retickPlayerChunk(p *Player) {
	newPos := ChunkPos{X: p.ChunkX(), Z: p.ChunkZ()}
	if newPos == p.ChunkPos {
		return
	}
	oldPos := p.ChunkPos
	p.ChunkPos = newPos
	if oldChunk := w.grid.Chunk(oldPos.X, oldPos.Z); oldChunk != nil {
		delete(oldChunk.Players, p.EntityID)
	}
	if newChunk := w.grid.Chunk(newPos.X, newPos.Z); newChunk != nil {
		newChunk.Players[p.EntityID] = struct{}{}
	}
	ForEachDiff(newPos, oldPos, w.cfg.ViewDistance, func(pos ChunkPos, tag DiffTag) {
		c := w.grid.Chunk(pos.X, pos.Z)
		if c == nil {
			return
		}
		if tag == TagNew {
			WriteChunkData(&p.Buf, c, true)
			for eid := range c.Entities {
				if e, ok := w.entities.Get(eid); ok && e.Appearance != nil {
					e.Appearance(e, &p.Buf)
				}
			}
		} else {
			WriteUnloadChunk(&p.Buf, pos.X, pos.Z)
		}
	})
}
