package world

import (
	"go.uber.org/atomic"

	"github.com/underkeep/underkeep/pkg/protocol"
)

// EntityKind distinguishes the heterogeneous values the entity registry
// holds; appearance and behaviour themselves stay content-layer callbacks.
type EntityKind int

const (
	EntityKindItem EntityKind = iota
	EntityKindMob
)

// Entity is a non-player simulation object: an item drop, a mob, or any
// other content-layer-defined actor. The core only knows its identity,
// pose, and chunk membership; "how it is serialized" (Appearance) and
// "how it is ticked" (Behavior) are opaque callbacks supplied at spawn.
type Entity struct {
	ID   int32
	Kind EntityKind

	X, Y, Z          float64
	VX, VY, VZ       float64
	Yaw, Pitch       float32
	OnGround         bool
	LastX, LastY, LastZ float64
	LastYaw, LastPitch  float32

	TicksExisted int64
	ChunkPos     ChunkPos

	// Appearance writes this entity's spawn packet(s) into buf.
	Appearance func(e *Entity, buf *protocol.PacketBuffer)
	// Behavior advances the entity's state for one tick; it may mutate
	// position/yaw/pitch and is invoked in vector order during the tick's
	// entity-update phase. w gives it access to block lookups etc.
	Behavior func(e *Entity, w *World)
}

// nextEntityID is the process-unique monotonically-increasing entity id
// allocator, shared shape with the network supervisor's client id
// allocator (both are simple lock-free counters, go.uber.org/atomic per
// the DOMAIN STACK).
var nextEntityID atomic.Int32

// AllocateEntityID returns the next entity id, starting from 1 (0 is
// reserved so a zero-valued Entity is recognizably "no entity").
func AllocateEntityID() int32 {
	return nextEntityID.Inc()
}

// EntityRegistry is a vector of entities plus a map from entity id to
// vector index, supporting O(1) lookup and swap-remove deletion.
type EntityRegistry struct {
	entities []*Entity
	index    map[int32]int
}

// NewEntityRegistry returns an empty registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{index: make(map[int32]int)}
}

// Add registers e in the registry.
func (r *EntityRegistry) Add(e *Entity) {
	r.index[e.ID] = len(r.entities)
	r.entities = append(r.entities, e)
}

// Get looks up an entity by id.
func (r *EntityRegistry) Get(id int32) (*Entity, bool) {
	idx, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.entities[idx], true
}

// Remove swap-removes the entity with the given id, updating the index map
// for whichever entity moved into the vacated slot.
func (r *EntityRegistry) Remove(id int32) (*Entity, bool) {
	idx, ok := r.index[id]
	if !ok {
		return nil, false
	}
	removed := r.entities[idx]
	last := len(r.entities) - 1
	r.entities[idx] = r.entities[last]
	r.index[r.entities[idx].ID] = idx
	r.entities[last] = nil
	r.entities = r.entities[:last]
	delete(r.index, id)
	return removed, true
}

// All returns the live entities in vector order. Callers must not mutate
// the returned slice's identity (append/remove) — only the registry does.
func (r *EntityRegistry) All() []*Entity {
	return r.entities
}

// Len returns the number of live entities.
func (r *EntityRegistry) Len() int {
	return len(r.entities)
}
