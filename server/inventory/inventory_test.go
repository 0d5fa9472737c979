package inventory

import "testing"

func TestSetSlotMarksChangedAndBumpsStateID(t *testing.T) {
	inv := NewInventory(KindPlayer, 4)
	item := ItemStack{Encoded: []byte{1, 2, 3}}

	if !inv.SetSlot(1, item, false) {
		t.Fatal("expected SetSlot to report a change")
	}
	if inv.StateID() != 1 {
		t.Fatalf("StateID = %d, want 1", inv.StateID())
	}
	if !inv.Dirty() {
		t.Fatal("expected inventory to be dirty")
	}
	if !inv.Slot(1).Equal(item) {
		t.Fatal("expected slot 1 to hold the written item")
	}
}

func TestSetSlotNoopWhenUnchanged(t *testing.T) {
	inv := NewInventory(KindPlayer, 4)
	item := ItemStack{Encoded: []byte{1}}
	inv.SetSlot(0, item, false)
	inv.Flush()

	if inv.SetSlot(0, item, false) {
		t.Fatal("expected SetSlot to report no change for an identical item")
	}
	if inv.StateID() != 1 {
		t.Fatalf("StateID = %d, want 1 (unchanged by the noop write)", inv.StateID())
	}
}

func TestFlushClearsDirtyAndReportsClientCaused(t *testing.T) {
	inv := NewInventory(KindPlayer, 2)
	inv.SetSlot(0, ItemStack{Encoded: []byte{1}}, true)
	inv.SetSlot(1, ItemStack{Encoded: []byte{2}}, false)

	changes := inv.Flush()
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if inv.Dirty() {
		t.Fatal("expected Flush to clear dirty state")
	}
	var sawClientCaused, sawServerCaused bool
	for _, c := range changes {
		if c.Index == 0 && c.ClientCaused {
			sawClientCaused = true
		}
		if c.Index == 1 && !c.ClientCaused {
			sawServerCaused = true
		}
	}
	if !sawClientCaused || !sawServerCaused {
		t.Fatalf("expected to see both a client-caused and a server-caused change, got %+v", changes)
	}
}

// TestSetSlotHandlerCanReenterWithoutDeadlock covers a HandleSlotChange
// implementation (e.g. crafting recipe resolution) that calls back into the
// same Inventory from within the callback.
func TestSetSlotHandlerCanReenterWithoutDeadlock(t *testing.T) {
	inv := NewInventory(KindCrafting, 2)
	inv.handler = reentrantHandler{resultSlot: 1}

	done := make(chan struct{})
	go func() {
		inv.SetSlot(0, ItemStack{Encoded: []byte{9}}, false)
		close(done)
	}()

	select {
	case <-done:
	default:
	}
	<-done

	if inv.Slot(1).IsEmpty() {
		t.Fatal("expected the handler's reentrant SetSlot to have written the result slot")
	}
}

type reentrantHandler struct {
	resultSlot int
}

func (h reentrantHandler) HandleSlotChange(inv *Inventory, slot int, item ItemStack) {
	if slot == h.resultSlot {
		return
	}
	inv.SetSlot(h.resultSlot, ItemStack{Encoded: []byte{42}}, false)
}
