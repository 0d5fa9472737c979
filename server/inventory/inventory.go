// Package inventory implements the slot containers PerClientState
// synchronises over the wire (§3 Inventory/OpenInventory, §4.5.6). Item
// identity and stacking rules are an external collaborator (§1 Non-goals
// "item/block static tables"); ItemStack here is an opaque payload the
// inventory package moves around and diffs without interpreting.
package inventory

import "sync"

// InventoryKind distinguishes the window layouts a client may have open.
type InventoryKind uint8

const (
	KindPlayer InventoryKind = iota
	KindChest
	KindChestLarge
	KindCrafting
	KindFurnace
	KindAnvil
	KindEnchanting
	KindBeacon
	KindGeneric
)

// PlayerInventorySlots is the fixed slot count of a player's own inventory:
// hotbar (9) + main (27) + armor (4) + offhand (1) + crafting grid (4) +
// crafting result (1).
const PlayerInventorySlots = 46

// ItemStack is an opaque slot payload. The inventory package only ever
// copies, compares, and encodes it; item identity/stacking semantics live
// outside this package.
type ItemStack struct {
	Empty bool
	// Encoded is the pre-serialised NBT/id/count payload the protocol
	// package produces for this stack. Two stacks are compared by this
	// field, not by a parsed representation.
	Encoded []byte
}

// IsEmpty reports whether the slot holds no item.
func (s ItemStack) IsEmpty() bool { return s.Empty || len(s.Encoded) == 0 }

// Equal reports whether two stacks carry the same encoded payload.
func (s ItemStack) Equal(other ItemStack) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() == other.IsEmpty()
	}
	if len(s.Encoded) != len(other.Encoded) {
		return false
	}
	for i := range s.Encoded {
		if s.Encoded[i] != other.Encoded[i] {
			return false
		}
	}
	return true
}

// Inventory is a fixed-size slot container with dirty tracking for
// synchronisation (§4.5.6 "changed bitmask dedup against client-caused
// changes").
type Inventory struct {
	mu    sync.Mutex
	kind  InventoryKind
	slots []ItemStack

	// changed marks slots mutated since the last sync flush.
	changed []bool
	// clientCaused marks slots whose pending change originated from the
	// client's own ClickContainer/SetHeldItem packet, so the flush stage can
	// skip echoing the client's own action back to it.
	clientCaused []bool

	// stateID increments on every slot mutation, mirroring the protocol's
	// window state id used to detect and reject stale client actions.
	stateID int32

	handler Handler
}

// NewInventory creates an inventory of the given kind and slot count.
func NewInventory(kind InventoryKind, slots int) *Inventory {
	inv := &Inventory{
		kind:         kind,
		slots:        make([]ItemStack, slots),
		changed:      make([]bool, slots),
		clientCaused: make([]bool, slots),
		handler:      NopHandler{},
	}
	return inv
}

// Kind returns the inventory's window layout.
func (inv *Inventory) Kind() InventoryKind { return inv.kind }

// Len returns the slot count.
func (inv *Inventory) Len() int { return len(inv.slots) }

// StateID returns the current window state id.
func (inv *Inventory) StateID() int32 { return inv.stateID }

// Slot returns the item at index, or a zero ItemStack if index is out of
// range.
func (inv *Inventory) Slot(index int) ItemStack {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if index < 0 || index >= len(inv.slots) {
		return ItemStack{Empty: true}
	}
	return inv.slots[index]
}

// SetSlot writes item into index, marking it changed and bumping the state
// id, unless item already equals the current contents. clientCaused should
// be true when the write originates from a packet the same client sent, so
// the dedup in Flush can suppress a redundant echo.
func (inv *Inventory) SetSlot(index int, item ItemStack, clientCaused bool) bool {
	inv.mu.Lock()
	if index < 0 || index >= len(inv.slots) {
		inv.mu.Unlock()
		return false
	}
	if inv.slots[index].Equal(item) {
		inv.mu.Unlock()
		return false
	}
	inv.slots[index] = item
	inv.changed[index] = true
	inv.clientCaused[index] = clientCaused
	inv.stateID++
	inv.mu.Unlock()

	// Called with mu released: a handler resolving a recipe plausibly calls
	// back into SetSlot for the result slot, which would deadlock on the
	// non-reentrant mutex above.
	inv.handler.HandleSlotChange(inv, index, item)
	return true
}

// SlotChange describes one slot that changed since the last Flush.
type SlotChange struct {
	Index        int
	Item         ItemStack
	ClientCaused bool
}

// Flush returns the set of slots changed since the previous Flush and
// clears the dirty state. Slots whose only pending change was client-caused
// are included (so the change can be acknowledged) but callers implementing
// §4.5.6's dedup rule should skip re-sending those to the client that
// caused them.
func (inv *Inventory) Flush() []SlotChange {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	var out []SlotChange
	for i, changed := range inv.changed {
		if !changed {
			continue
		}
		out = append(out, SlotChange{Index: i, Item: inv.slots[i], ClientCaused: inv.clientCaused[i]})
		inv.changed[i] = false
		inv.clientCaused[i] = false
	}
	return out
}

// Dirty reports whether any slot has changed since the last Flush.
func (inv *Inventory) Dirty() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, c := range inv.changed {
		if c {
			return true
		}
	}
	return false
}

// OpenInventory pairs a non-player Inventory with the window id it was
// opened under and the set of viewers currently looking at it (§3
// OpenInventory).
type OpenInventory struct {
	WindowID byte
	Inv      *Inventory
	Viewers  map[uint64]struct{}
}

// NewOpenInventory wraps inv under windowID with no viewers yet.
func NewOpenInventory(windowID byte, inv *Inventory) *OpenInventory {
	return &OpenInventory{WindowID: windowID, Inv: inv, Viewers: make(map[uint64]struct{})}
}

// AddViewer registers client as viewing this window.
func (o *OpenInventory) AddViewer(client uint64) { o.Viewers[client] = struct{}{} }

// RemoveViewer stops tracking client as a viewer, reporting whether it was
// the last one (callers typically destroy the OpenInventory in that case).
func (o *OpenInventory) RemoveViewer(client uint64) (last bool) {
	delete(o.Viewers, client)
	return len(o.Viewers) == 0
}
