package event

import (
	"github.com/nexavoxel/corecraft/server/protocol"
	"github.com/nexavoxel/corecraft/server/world"
)

// InboundFrame is a single undecoded serverbound frame pulled off a
// client's non-blocking receive queue (§5 "interfacing through non-blocking
// try_recv/try_send").
type InboundFrame struct {
	PacketID int32
	Body     []byte
}

// Buffers accumulates decoded events for one tick, grouped by kind so stage
// 3 (user update) can iterate just the kinds it cares about (§2 stage 2:
// "Convert inbound packets into typed events ... appended to per-event-type
// buffers").
type Buffers struct {
	byKind map[Kind][]Event
}

// NewBuffers creates an empty set of per-tick event buffers.
func NewBuffers() *Buffers {
	return &Buffers{byKind: make(map[Kind][]Event)}
}

// Append adds ev to its kind's buffer.
func (b *Buffers) Append(ev Event) {
	b.byKind[ev.Kind] = append(b.byKind[ev.Kind], ev)
}

// Of returns every event of kind k buffered this tick.
func (b *Buffers) Of(k Kind) []Event {
	return b.byKind[k]
}

// Reset clears every buffer, called at the end of stage 2 processing once
// stage 3 has consumed them, or at the start of the next tick's drain.
func (b *Buffers) Reset() {
	for k := range b.byKind {
		delete(b.byKind, k)
	}
}

// PendingTeleportChecker reports whether a client currently has
// pending_teleports > 0, gating movement packet admission (§4.6).
type PendingTeleportChecker interface {
	PendingTeleports(client world.ClientID) bool
}

// Drain decodes every frame in frames for client and appends the resulting
// events to b, honouring the pending-teleport drop rule for movement
// packets. A decode error aborts the whole drain and is returned so the
// caller can disconnect the client (§7).
func Drain(b *Buffers, client world.ClientID, frames []InboundFrame, pending PendingTeleportChecker) error {
	gated := pending != nil && pending.PendingTeleports(client)
	for _, f := range frames {
		if gated && isGatedPacket(f.PacketID) {
			continue
		}
		ev, err := Decode(client, f.PacketID, f.Body)
		if err != nil {
			return err
		}
		b.Append(ev)
	}
	return nil
}

func isGatedPacket(packetID int32) bool {
	switch packetID {
	case protocol.SBSetPlayerPosition, protocol.SBSetPlayerPositionAndRotation,
		protocol.SBSetPlayerRotation, protocol.SBSetPlayerOnGround, protocol.SBMoveVehicle:
		return true
	default:
		return false
	}
}
