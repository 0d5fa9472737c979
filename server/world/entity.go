package world

// LayerHandle identifies a layer (chunk layer, entity layer, or both) that
// clients may have in their VisibleLayers set (§3 glossary "Layer").
type LayerHandle uint64

// EntityHandle is a stable, generation-tagged identity for an entity (§3
// "An opaque, stable identity (64-bit handle, generation-tagged)"). The low
// 32 bits are a slot index into the owning EntityLayer's arena; the high 32
// bits are a generation counter bumped every time the slot is reused, so a
// stale handle captured before a despawn can never alias a newer entity.
type EntityHandle uint64

func newEntityHandle(index, generation uint32) EntityHandle {
	return EntityHandle(uint64(generation)<<32 | uint64(index))
}

func (h EntityHandle) index() uint32      { return uint32(h) }
func (h EntityHandle) generation() uint32 { return uint32(h >> 32) }

// TrackedData is a tagged union over the kinds of per-entity metadata that
// may be marked dirty and flushed as a tracker-update packet (§4.5.7,
// §9 "polymorphism over entity types is via a TrackedData tagged union").
type TrackedData interface {
	// Dirty reports whether any tracked field has changed since the last
	// tracker-update packet was written.
	Dirty() bool
	// Encode serialises the current tracked fields into a metadata blob,
	// terminated by the sentinel byte the protocol expects, and clears the
	// dirty flag.
	Encode() []byte
}

// Entity holds the components the core requires of every entity (§3): a
// world position, the previous tick's position, rotation, velocity, its
// wire protocol id, and the layer it belongs to.
type Entity struct {
	Handle EntityHandle

	Position    Vec3
	OldPosition Vec3
	Look        Look
	Velocity    Vec3

	// ProtocolID is the 32-bit id used to identify this entity on the wire.
	// It is non-zero; id 0 is reserved per-client for "self" in outbound
	// packets to the entity's owning client (§3 invariant).
	ProtocolID int32

	// LayerID is the entity layer this entity belongs to.
	LayerID LayerHandle

	// Owner is set for player entities: the ClientID whose connection this
	// entity represents. Zero for non-player entities.
	Owner ClientID

	// Despawned marks the entity for reaping at the end of the current
	// tick's broadcast stage, once despawn packets have been sent to every
	// client that was viewing it (§3 Lifecycle).
	Despawned bool

	Tracked TrackedData
}

// ProtocolIDFor returns the ProtocolID this entity should be encoded with
// for packets addressed to viewer. Per the §3 invariant, a client's own
// entity is always id 0 from its own perspective.
func (e *Entity) ProtocolIDFor(viewer ClientID) int32 {
	if e.Owner != 0 && e.Owner == viewer {
		return 0
	}
	return e.ProtocolID
}
