package session

import (
	"testing"

	"github.com/nexavoxel/corecraft/server/inventory"
)

func TestReconcileInventorySendsServerCausedCursorUpdate(t *testing.T) {
	s := newTestState()
	s.SetCursor(inventory.ItemStack{Encoded: []byte{1, 2}}, false)

	s.ReconcileInventory()

	if len(s.Outbox) != 1 {
		t.Fatalf("expected exactly 1 cursor-update packet, got %d", len(s.Outbox))
	}
}

func TestReconcileInventorySuppressesClientCausedCursorUpdate(t *testing.T) {
	s := newTestState()
	s.SetCursor(inventory.ItemStack{Encoded: []byte{1, 2}}, true)

	s.ReconcileInventory()

	if len(s.Outbox) != 0 {
		t.Fatalf("expected no echoed cursor update for a client-caused change, got %d", len(s.Outbox))
	}
}

func TestReconcileInventoryCursorUpdateFiresWithNoSlotChanges(t *testing.T) {
	s := newTestState()
	s.Own = inventory.NewInventory(inventory.KindPlayer, 4)
	s.Own.Flush()

	s.SetCursor(inventory.ItemStack{Encoded: []byte{9}}, false)
	s.ReconcileInventory()

	if len(s.Outbox) != 1 {
		t.Fatalf("expected the cursor-only change to still reach the client, got %d packets", len(s.Outbox))
	}
}

func TestReconcileInventoryCursorUnchangedNoPacket(t *testing.T) {
	s := newTestState()
	s.ReconcileInventory()
	if len(s.Outbox) != 0 {
		t.Fatalf("expected no packets when the cursor never changed, got %d", len(s.Outbox))
	}
}

func TestSetCursorNoopWhenSameItemReported(t *testing.T) {
	s := newTestState()
	item := inventory.ItemStack{Encoded: []byte{1}}
	s.SetCursor(item, false)
	s.ReconcileInventory()
	s.Outbox = nil

	s.SetCursor(item, false)
	s.ReconcileInventory()
	if len(s.Outbox) != 0 {
		t.Fatalf("expected no update when SetCursor reports an identical item, got %d", len(s.Outbox))
	}
}
