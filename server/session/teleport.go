package session

import (
	"fmt"
	"math"

	"github.com/nexavoxel/corecraft/server/protocol"
	"github.com/nexavoxel/corecraft/server/world"
)

// ReconcileTeleport implements §4.5.3: after chunk packets are written, if
// position or look has drifted from what was last synced to the client, a
// teleport packet is written and a new teleport id is opened. pos/look are
// the entity's current, authoritative values. The initial synced position
// is NaN, so the very first reconciliation always fires a teleport.
func (s *State) ReconcileTeleport(pos world.Vec3, look world.Look) {
	if isUnsynced(s.teleport.synced) || pos != s.teleport.synced || look != s.teleport.look {
		s.write(protocol.EncodePlayerPositionLook(pos.X(), pos.Y(), pos.Z(), float32(look.Yaw), float32(look.Pitch), int32(s.teleport.counter)))
		s.teleport.counter++
		s.teleport.pending++
		s.teleport.synced = pos
		s.teleport.look = look
	}
}

// PendingTeleports reports whether inbound movement should currently be
// dropped (§4.6: "Packets received while pending_teleports > 0 ... are
// silently dropped").
func (s *State) PendingTeleports() bool { return s.teleport.pending > 0 }

// ConfirmTeleport processes an inbound ConfirmTeleport packet. A matching
// id decrements the pending count; any other id is a protocol violation
// that disconnects the client (§4.5.3, §7).
func (s *State) ConfirmTeleport(id int32) error {
	expected := int32(s.teleport.counter - s.teleport.pending)
	if id != expected {
		return &DisconnectError{Reason: fmt.Sprintf("unexpected teleport confirmation: got %d, want %d", id, expected)}
	}
	s.teleport.pending--
	return nil
}

// isUnsynced reports whether the initial NaN sentinel is still in effect,
// guaranteeing the very first reconciliation always fires a teleport.
func isUnsynced(v world.Vec3) bool {
	return math.IsNaN(v.X()) || math.IsNaN(v.Y()) || math.IsNaN(v.Z())
}
