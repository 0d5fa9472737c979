package session

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/nexavoxel/corecraft/server/world"
)

func newTestState() *State {
	return New(world.ClientID(1), uuid.New(), world.EntityHandle(0), world.NewChunkViewIndex())
}

func TestReconcileTeleportFiresOnFirstCall(t *testing.T) {
	s := newTestState()
	s.ReconcileTeleport(mgl64.Vec3{1, 2, 3}, world.Look{Yaw: 0, Pitch: 0})

	if len(s.Outbox) != 1 {
		t.Fatalf("expected exactly 1 queued packet after first reconciliation, got %d", len(s.Outbox))
	}
	if s.teleport.pending != 1 {
		t.Fatalf("expected 1 pending teleport, got %d", s.teleport.pending)
	}
}

func TestReconcileTeleportSkipsWhenUnchanged(t *testing.T) {
	s := newTestState()
	pos := mgl64.Vec3{1, 2, 3}
	look := world.Look{Yaw: 10, Pitch: 5}

	s.ReconcileTeleport(pos, look)
	_ = s.DrainOutbox()

	s.ReconcileTeleport(pos, look)
	if len(s.Outbox) != 0 {
		t.Fatalf("expected no new packet for an unchanged position/look, got %d", len(s.Outbox))
	}
}

func TestReconcileTeleportFiresOnPositionChange(t *testing.T) {
	s := newTestState()
	s.ReconcileTeleport(mgl64.Vec3{0, 0, 0}, world.Look{})
	_ = s.DrainOutbox()

	s.ReconcileTeleport(mgl64.Vec3{1, 0, 0}, world.Look{})
	if len(s.Outbox) != 1 {
		t.Fatalf("expected a teleport packet after a position change, got %d", len(s.Outbox))
	}
}

func TestConfirmTeleportMatchingID(t *testing.T) {
	s := newTestState()
	s.ReconcileTeleport(mgl64.Vec3{0, 0, 0}, world.Look{})

	if err := s.ConfirmTeleport(0); err != nil {
		t.Fatalf("expected matching teleport confirmation to succeed, got %v", err)
	}
	if s.PendingTeleports() {
		t.Fatal("expected no pending teleports after confirmation")
	}
}

func TestConfirmTeleportMismatchedIDDisconnects(t *testing.T) {
	s := newTestState()
	s.ReconcileTeleport(mgl64.Vec3{0, 0, 0}, world.Look{})

	err := s.ConfirmTeleport(99)
	if err == nil {
		t.Fatal("expected mismatched teleport id to return an error")
	}
	if _, ok := err.(*DisconnectError); !ok {
		t.Fatalf("expected a *DisconnectError, got %T", err)
	}
}

func TestPendingTeleportsGatesMovement(t *testing.T) {
	s := newTestState()
	if s.PendingTeleports() {
		t.Fatal("expected no pending teleports before any reconciliation")
	}
	s.ReconcileTeleport(mgl64.Vec3{5, 5, 5}, world.Look{})
	if !s.PendingTeleports() {
		t.Fatal("expected a pending teleport right after reconciliation fires one")
	}
}
