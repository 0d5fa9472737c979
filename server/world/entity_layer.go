package world

import "github.com/nexavoxel/corecraft/server/internal/sliceutil"

type entitySlot struct {
	generation uint32
	alive      bool
	data       Entity
}

// EntityLayer maintains entity→chunk-cell membership for one layer and the
// layer's per-tick LayerMessages log (§4.2).
type EntityLayer struct {
	Handle LayerHandle

	slots    []entitySlot
	freeList []uint32

	// cells maps a chunk position to the ordered set of entities whose
	// Position currently falls within it.
	cells map[ChunkPos][]EntityHandle
	// cellOf is the reverse index, used to find an entity's previous cell in
	// O(1) when its position changes.
	cellOf map[EntityHandle]ChunkPos

	Messages LayerMessages
}

// NewEntityLayer creates an empty EntityLayer identified by handle.
func NewEntityLayer(handle LayerHandle) *EntityLayer {
	return &EntityLayer{
		Handle: handle,
		cells:  make(map[ChunkPos][]EntityHandle),
		cellOf: make(map[EntityHandle]ChunkPos),
	}
}

// Spawn creates a new entity in the layer at pos with the given protocol id
// and owner (zero for non-player entities), emitting an EntitySpawn message
// to the layer's log. The entity's OldPosition is initialised equal to
// Position so no spurious move message is produced on its first tick.
func (l *EntityLayer) Spawn(pos Vec3, look Look, protocolID int32, owner ClientID) EntityHandle {
	var idx uint32
	if n := len(l.freeList); n > 0 {
		idx = l.freeList[n-1]
		l.freeList = l.freeList[:n-1]
	} else {
		idx = uint32(len(l.slots))
		l.slots = append(l.slots, entitySlot{})
	}
	gen := l.slots[idx].generation
	handle := newEntityHandle(idx, gen)

	l.slots[idx] = entitySlot{
		generation: gen,
		alive:      true,
		data: Entity{
			Handle:      handle,
			Position:    pos,
			OldPosition: pos,
			Look:        look,
			ProtocolID:  protocolID,
			LayerID:     l.Handle,
			Owner:       owner,
		},
	}

	cell := chunkPosFromVec3(pos)
	l.cells[cell] = append(l.cells[cell], handle)
	l.cellOf[handle] = cell

	l.Messages.WritePacket(ScopeChunkView(cell), encodeEntitySpawn(&l.slots[idx].data))
	return handle
}

// Entity returns a pointer to the live entity data for handle, or nil if the
// handle is stale (despawned and its slot reused).
func (l *EntityLayer) Entity(handle EntityHandle) *Entity {
	idx := handle.index()
	if int(idx) >= len(l.slots) {
		return nil
	}
	slot := &l.slots[idx]
	if !slot.alive || slot.generation != handle.generation() {
		return nil
	}
	return &slot.data
}

// CellEntities returns the ordered set of entity handles currently located
// in the chunk cell at pos.
func (l *EntityLayer) CellEntities(pos ChunkPos) []EntityHandle {
	return l.cells[pos]
}

// Move updates an entity's Position. If the entity crosses into a different
// chunk cell, it is moved between the layer's per-cell sets and an
// EntityMove message is recorded (§4.2).
func (l *EntityLayer) Move(handle EntityHandle, newPos Vec3) {
	e := l.Entity(handle)
	if e == nil {
		return
	}
	e.Position = newPos
	oldCell, ok := l.cellOf[handle]
	newCell := chunkPosFromVec3(newPos)
	if ok && oldCell == newCell {
		return
	}
	if ok {
		l.cells[oldCell] = sliceutil.DeleteVal(l.cells[oldCell], handle)
		if len(l.cells[oldCell]) == 0 {
			delete(l.cells, oldCell)
		}
	}
	l.cells[newCell] = append(l.cells[newCell], handle)
	l.cellOf[handle] = newCell

	l.Messages.WritePacket(ScopeTransitionChunkView(newCell, oldCell), encodeEntityMove(e, oldCell, newCell))
}

// MarkDespawned marks the entity as despawned and records an EntityDespawn
// message to every client viewing its current cell. The slot is not
// reclaimed until Reap is called (post-broadcast stage, §3 Lifecycle), so
// that stage 6 can still resolve the despawn message against the entity's
// last known cell.
func (l *EntityLayer) MarkDespawned(handle EntityHandle) {
	e := l.Entity(handle)
	if e == nil || e.Despawned {
		return
	}
	e.Despawned = true
	cell := l.cellOf[handle]
	l.Messages.WriteDespawn(ScopeChunkView(cell), e.ProtocolID)
}

// Reap removes all despawned entities from the layer's arena and cell
// index, recycling their slots. Called once per tick, after broadcast
// (§3 Lifecycle: "the post-broadcast stage reaps them after emitting
// despawn packets").
func (l *EntityLayer) Reap() {
	for idx := range l.slots {
		slot := &l.slots[idx]
		if !slot.alive || !slot.data.Despawned {
			continue
		}
		handle := slot.data.Handle
		if cell, ok := l.cellOf[handle]; ok {
			l.cells[cell] = sliceutil.DeleteVal(l.cells[cell], handle)
			if len(l.cells[cell]) == 0 {
				delete(l.cells, cell)
			}
			delete(l.cellOf, handle)
		}
		slot.alive = false
		slot.generation++
		slot.data = Entity{}
		l.freeList = append(l.freeList, uint32(idx))
	}
}

// TrackDirty appends a PacketAt message to the layer log for every live
// entity whose TrackedData reports itself dirty (§4.2, §4.5.7). Called
// during layer aggregation (stage 4).
func (l *EntityLayer) TrackDirty() {
	for i := range l.slots {
		slot := &l.slots[i]
		if !slot.alive || slot.data.Tracked == nil || !slot.data.Tracked.Dirty() {
			continue
		}
		cell := l.cellOf[slot.data.Handle]
		l.Messages.WritePacket(ScopeChunkView(cell), encodeTrackerUpdate(&slot.data))
	}
}

// encodeEntitySpawn, encodeEntityMove and encodeTrackerUpdate build the
// opaque packet payloads the spec treats as byte-encoded records (§1); the
// real encoding lives in the protocol package but EntityLayer only needs a
// byte slice to hand to LayerMessages, so these thin wrappers keep the
// world package decoupled from the wire format.
var (
	encodeEntitySpawnFunc    func(*Entity) []byte
	encodeEntityMoveFunc     func(*Entity, ChunkPos, ChunkPos) []byte
	encodeTrackerUpdateFunc  func(*Entity) []byte
)

func encodeEntitySpawn(e *Entity) []byte {
	if encodeEntitySpawnFunc == nil {
		return nil
	}
	return encodeEntitySpawnFunc(e)
}

func encodeEntityMove(e *Entity, oldCell, newCell ChunkPos) []byte {
	if encodeEntityMoveFunc == nil {
		return nil
	}
	return encodeEntityMoveFunc(e, oldCell, newCell)
}

func encodeTrackerUpdate(e *Entity) []byte {
	if encodeTrackerUpdateFunc == nil {
		return nil
	}
	return encodeTrackerUpdateFunc(e)
}

// SetEncoders installs the protocol package's encode functions. Called once
// from protocol.init-equivalent wiring to avoid a direct import cycle
// between world and protocol (protocol depends on world for position/entity
// types).
func SetEncoders(spawn func(*Entity) []byte, move func(*Entity, ChunkPos, ChunkPos) []byte, tracker func(*Entity) []byte) {
	encodeEntitySpawnFunc = spawn
	encodeEntityMoveFunc = move
	encodeTrackerUpdateFunc = tracker
}
