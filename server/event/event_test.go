package event

import (
	"testing"

	pk "github.com/Tnze/go-mc/net/packet"

	"github.com/nexavoxel/corecraft/server/protocol"
	"github.com/nexavoxel/corecraft/server/world"
)

func TestDecodeChatMessageNormalisesToNFC(t *testing.T) {
	// "e" followed by a combining acute accent (U+0301) is the decomposed
	// (NFD) form of the single precomposed code point U+00E9 ("e" + accent).
	// Decode must normalise the former into the latter before the event
	// reaches the application.
	decomposed := "école"
	precomposed := "école"
	body := protocol.Encode(pk.String(decomposed))

	ev, err := Decode(world.ClientID(1), protocol.SBChatMessage, body)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	chat, ok := ev.Data.(Chat)
	if !ok {
		t.Fatalf("expected Chat payload, got %T", ev.Data)
	}
	if chat.Message != precomposed {
		t.Fatalf("Message = %q, want NFC-normalised %q", chat.Message, precomposed)
	}
	if ev.Kind != KindChat {
		t.Fatalf("Kind = %v, want KindChat", ev.Kind)
	}
}

func TestDecodeChatCommandNormalisesToNFC(t *testing.T) {
	decomposed := "tp école"
	precomposed := "tp école"
	body := protocol.Encode(pk.String(decomposed))

	ev, err := Decode(world.ClientID(1), protocol.SBChatCommand, body)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	cmd, ok := ev.Data.(Command)
	if !ok {
		t.Fatalf("expected Command payload, got %T", ev.Data)
	}
	if cmd.Command != precomposed {
		t.Fatalf("Command = %q, not NFC-normalised to %q", cmd.Command, precomposed)
	}
}

func TestDecodeMalformedBodyReturnsDecodeError(t *testing.T) {
	_, err := Decode(world.ClientID(1), protocol.SBConfirmTeleport, nil)
	if err == nil {
		t.Fatal("expected an error decoding an empty ConfirmTeleport body")
	}
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("expected a *DecodeError, got %T", err)
	}
}

func TestDrainGatesMovementDuringPendingTeleport(t *testing.T) {
	b := NewBuffers()
	client := world.ClientID(1)
	body := protocol.Encode(pk.Double(0), pk.Double(0), pk.Double(0), pk.Float(0), pk.Float(0), pk.Boolean(true))
	frames := []InboundFrame{{PacketID: protocol.SBSetPlayerPositionAndRotation, Body: body}}

	if err := Drain(b, client, frames, alwaysPending{}); err != nil {
		t.Fatalf("Drain returned error: %v", err)
	}
	if got := b.Of(KindMove); len(got) != 0 {
		t.Fatalf("expected movement to be dropped while teleports are pending, got %d events", len(got))
	}
}

func TestDrainPassesMovementWhenNotPending(t *testing.T) {
	b := NewBuffers()
	client := world.ClientID(1)
	body := protocol.Encode(pk.Double(0), pk.Double(0), pk.Double(0), pk.Float(0), pk.Float(0), pk.Boolean(true))
	frames := []InboundFrame{{PacketID: protocol.SBSetPlayerPositionAndRotation, Body: body}}

	if err := Drain(b, client, frames, neverPending{}); err != nil {
		t.Fatalf("Drain returned error: %v", err)
	}
	if got := b.Of(KindMove); len(got) != 1 {
		t.Fatalf("expected 1 movement event, got %d", len(got))
	}
}

type alwaysPending struct{}

func (alwaysPending) PendingTeleports(world.ClientID) bool { return true }

type neverPending struct{}

func (neverPending) PendingTeleports(world.ClientID) bool { return false }
