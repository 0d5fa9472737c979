// Package session implements PerClientState (§4.5): the per-client mutable
// state and stage-5 reconciliation logic that turns world and inventory
// mutations into the ordered stream of outbound packets a single client
// receives.
package session

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/nexavoxel/corecraft/server/inventory"
	"github.com/nexavoxel/corecraft/server/world"
)

// DisconnectError is returned by reconciliation steps that determine a
// client must be dropped (§7 protocol violations). The caller is expected
// to write Reason as a Disconnect packet, if the connection can still
// accept one, then tear the session down.
type DisconnectError struct {
	Reason string
}

func (e *DisconnectError) Error() string { return e.Reason }

// State is PerClientState: everything the core tracks about one connected
// client between ticks.
type State struct {
	Client world.ClientID
	// UUID is the client's persistent player identity, stable across
	// reconnects, distinct from Client which is only a process-local,
	// connection-lifetime handle (mirrors dragonfly keying its online
	// player registry by uuid.UUID rather than by connection).
	UUID   uuid.UUID
	Entity world.EntityHandle

	Dimension    string
	ChunkLayer   *world.Layer
	VisibleLayers map[world.LayerHandle]*world.Layer

	oldDimension     string
	oldChunkLayer    *world.Layer
	oldVisibleLayers map[world.LayerHandle]*world.Layer

	View    world.ChunkView
	oldView world.ChunkView

	joined bool

	teleport teleportState
	keepalive keepaliveState
	action   actionState

	Own                *inventory.Inventory
	Open               *openWindowState
	cursor             inventory.ItemStack
	cursorDirty        bool
	cursorClientCaused bool

	abilities      Abilities
	abilitiesDirty bool

	ViewIndex *world.ChunkViewIndex

	Outbox [][]byte

	handler Handler
}

// Abilities is the supplemented per-client ability/op-level state
// (SPEC_FULL.md §4 "Abilities / op level"). OpLevel is clamped to 0..3, a
// base boundary behaviour spec.md §8 requires independent of this
// enrichment.
type Abilities struct {
	Invulnerable bool
	Flying       bool
	AllowFlying  bool
	Instabreak   bool
	FlySpeed     float32
	WalkSpeed    float32
	OpLevel      byte
}

func clampOpLevel(level byte) byte {
	if level > 3 {
		return 3
	}
	return level
}

// Abilities returns the client's current ability/op-level state.
func (s *State) Abilities() Abilities { return s.abilities }

// SetAbilities replaces the client's ability flags and speeds, clamping
// OpLevel to 0..3, and marks the state dirty for the next
// ReconcileAbilities call if anything changed.
func (s *State) SetAbilities(a Abilities) {
	a.OpLevel = clampOpLevel(a.OpLevel)
	if a == s.abilities {
		return
	}
	s.abilities = a
	s.abilitiesDirty = true
}

// SetOpLevel sets only the op level, clamped to 0..3 (§8).
func (s *State) SetOpLevel(level byte) {
	a := s.abilities
	a.OpLevel = level
	s.SetAbilities(a)
}

// openWindowState tracks the session-local half of §4.5.6's open-inventory
// path: the wrapping window id and whether this is the first tick the
// window has been open (which requires an OpenScreen + full Inventory
// rather than incremental updates).
type openWindowState struct {
	inv        *inventory.OpenInventory
	windowID   byte
	firstTick  bool
}

// teleportState is the §4.5.3 teleport protocol bookkeeping.
type teleportState struct {
	counter uint32
	pending uint32
	synced  world.Vec3
	look    world.Look
}

// actionState is the §4.5.5 action-sequence bookkeeping.
type actionState struct {
	maxSeq int32
}

// New creates PerClientState for a freshly created client entity, not yet
// joined (the first call to ReconcileJoin will emit the GameJoin record).
func New(client world.ClientID, playerUUID uuid.UUID, entity world.EntityHandle, viewIndex *world.ChunkViewIndex) *State {
	return &State{
		Client:    client,
		UUID:      playerUUID,
		Entity:    entity,
		ViewIndex: viewIndex,
		handler: NopHandler{},
		teleport: teleportState{
			synced: world.Vec3{math.NaN(), math.NaN(), math.NaN()},
		},
	}
}

// write appends an already-framed packet to the client's outbox, preserving
// receive/mutation order (§5 ordering guarantees).
func (s *State) write(packet []byte) {
	if packet == nil {
		return
	}
	s.Outbox = append(s.Outbox, packet)
}

// QueuePacket is the exported form of write, used by the broadcast stage
// (§2 stage 6) to append layer-originated packets to this client's outbox
// after its own view/teleport/keepalive/inventory reconciliation has run.
func (s *State) QueuePacket(packet []byte) {
	s.write(packet)
}

// DrainOutbox returns and clears the packets queued for this client this
// tick (stage 7, egress flush).
func (s *State) DrainOutbox() [][]byte {
	out := s.Outbox
	s.Outbox = nil
	return out
}
