package session

import (
	"github.com/nexavoxel/corecraft/server/inventory"
	"github.com/nexavoxel/corecraft/server/protocol"
)

// OpenInventory begins the open-inventory path (§4.5.6): assigns a new
// wrapping window id, writes OpenScreen with the given title immediately,
// and marks the first tick so ReconcileInventory sends a full Inventory
// rather than incremental updates.
func (s *State) OpenInventory(inv *inventory.OpenInventory, kind int32, title []byte) {
	var prev byte
	if s.Open != nil {
		prev = s.Open.windowID
	}
	windowID := byte((int(prev) % 100) + 1)
	inv.WindowID = windowID
	s.Open = &openWindowState{inv: inv, windowID: windowID, firstTick: true}
	s.write(protocol.EncodeOpenScreen(windowID, kind, title))
}

// CloseInventory ends the open-inventory path, writing a CloseScreen packet
// if the client didn't initiate the close itself.
func (s *State) CloseInventory(notifyClient bool) {
	if s.Open == nil {
		return
	}
	if notifyClient {
		s.write(protocol.EncodeCloseScreen(s.Open.windowID))
	}
	s.Open = nil
}

// Cursor returns the item currently held on the cursor.
func (s *State) Cursor() inventory.ItemStack { return s.cursor }

// SetCursor sets the cursor item. clientCaused mirrors the equivalent
// Inventory.SetSlot parameter: true when the change came from the client's
// own packet, so ReconcileInventory can skip echoing it back.
func (s *State) SetCursor(item inventory.ItemStack, clientCaused bool) {
	changed := !item.Equal(s.cursor)
	s.cursor = item
	if changed {
		s.cursorDirty = true
		s.cursorClientCaused = clientCaused
	}
}

// ReconcileInventory implements §4.5.6: flushes dirty slots from the
// client's own inventory, and, if a window is open, from the combined
// open-inventory view, deduplicating against changes the client itself
// caused this tick. The cursor is checked independently of slot changes,
// since a server-initiated cursor change (e.g. a crafting result grant)
// touches no slot at all.
func (s *State) ReconcileInventory() {
	if s.Open != nil {
		s.reconcileOpenInventory()
	} else {
		s.reconcileOwnInventory(0, s.Own)
	}
	s.reconcileCursor()
}

// reconcileCursor sends a cursor-slot update if the cursor item changed and
// the client itself did not cause the change (§4.5.6).
func (s *State) reconcileCursor() {
	if s.cursorClientCaused {
		s.cursorClientCaused = false
		s.cursorDirty = false
		return
	}
	if !s.cursorDirty {
		return
	}
	s.cursorDirty = false
	s.write(protocol.EncodeCursorItemUpdate(s.cursor.Encoded))
}

func (s *State) reconcileOwnInventory(windowID byte, inv *inventory.Inventory) {
	if inv == nil {
		return
	}
	changes := inv.Flush()
	if len(changes) == 0 {
		return
	}
	if len(changes) == inv.Len() {
		slots := make([][]byte, inv.Len())
		for i := 0; i < inv.Len(); i++ {
			slots[i] = inv.Slot(i).Encoded
		}
		s.write(protocol.EncodeInventory(windowID, inv.StateID(), slots))
	} else {
		for _, c := range changes {
			if c.ClientCaused {
				continue
			}
			s.write(protocol.EncodeScreenHandlerSlotUpdate(windowID, inv.StateID(), int16(c.Index), c.Item.Encoded))
		}
	}
}

// reconcileOpenInventory handles the combined view of an open inventory's
// own slots [0,N) plus the player's main inventory [N,N+36) of the wire
// window (§4.5.6).
func (s *State) reconcileOpenInventory() {
	win := s.Open
	if win.firstTick {
		win.firstTick = false
		n := win.inv.Inv.Len()
		total := n + 36
		slots := make([][]byte, total)
		for i := 0; i < n; i++ {
			slots[i] = win.inv.Inv.Slot(i).Encoded
		}
		if s.Own != nil {
			for i := 0; i < 36 && i < s.Own.Len(); i++ {
				slots[n+i] = s.Own.Slot(i).Encoded
			}
		}
		s.write(protocol.EncodeInventory(win.windowID, win.inv.Inv.StateID(), slots))
		if s.Own != nil {
			s.Own.Flush()
		}
		return
	}
	n := win.inv.Inv.Len()
	for _, c := range win.inv.Inv.Flush() {
		if c.ClientCaused {
			continue
		}
		s.write(protocol.EncodeScreenHandlerSlotUpdate(win.windowID, win.inv.Inv.StateID(), int16(c.Index), c.Item.Encoded))
	}
	if s.Own != nil {
		for _, c := range s.Own.Flush() {
			if c.Index >= 36 || c.ClientCaused {
				continue
			}
			s.write(protocol.EncodeScreenHandlerSlotUpdate(win.windowID, win.inv.Inv.StateID(), int16(n+c.Index), c.Item.Encoded))
		}
	}
}

// ValidateWindowClick checks an inbound ClickContainer's window/state id
// against the session's current window (§4.5.6). needsResync reports a
// stale state id; the server's stage 2 does not act on it, so no resync is
// forced and the click still reaches the application. Returning an error
// means the client sent an impossible window id and must be dropped.
func (s *State) ValidateWindowClick(windowID byte, stateID int32) (needsResync bool, err error) {
	if windowID == 0 {
		if s.Open != nil {
			return false, &DisconnectError{Reason: "click for window 0 while a container is open"}
		}
		if s.Own != nil && stateID != s.Own.StateID() {
			return true, nil
		}
		return false, nil
	}
	if s.Open == nil || windowID != s.Open.windowID {
		return false, &DisconnectError{Reason: "click for unknown window id"}
	}
	if stateID != s.Open.inv.Inv.StateID() {
		return true, nil
	}
	return false, nil
}
