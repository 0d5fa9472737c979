// Package event defines the typed inbound events the EventLoop converts
// raw client packets into during stages 1 and 2 (§2, §4.6). Each event kind
// corresponds to one or more serverbound packet ids; validation against
// per-client state (the pending-teleport drop rule) happens here, but
// gameplay-level validation (e.g. click contents vs. game mode) is
// explicitly left to the application (§9 Open Question).
package event

import (
	"golang.org/x/text/unicode/norm"

	"github.com/nexavoxel/corecraft/server/protocol"
	"github.com/nexavoxel/corecraft/server/world"
)

// Kind identifies an event's type, used to route it to the right per-type
// buffer.
type Kind uint8

const (
	KindMove Kind = iota
	KindChat
	KindCommand
	KindAction
	KindClick
	KindCloseContainer
	KindSwingArm
	KindUseItem
	KindUseItemOn
	KindInteract
	KindHeldItemChange
	KindCreativeInventory
	KindClientSettings
	KindConfirmTeleport
	KindKeepAlive
	KindPluginMessage
	KindResourcePackStatus
	KindClientCommand
)

// Event is a single decoded inbound event, tagged with the client it came
// from and its buffer kind.
type Event struct {
	Client world.ClientID
	Kind   Kind
	Data   any
}

// Move is the payload for KindMove (§4.6). Decode builds it only from
// SetPlayerPositionAndRotation; SetPlayerPosition, SetPlayerRotation and
// SetPlayerOnGround are not decoded into Move and arrive as
// KindPluginMessage events carrying the raw body.
type Move struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
	HasPos     bool
	HasLook    bool
}

// Chat is the payload for KindChat. Message is NFC-normalised before
// delivery so a GameMessage broadcast never forwards a denormalised form a
// client happened to send (§6 text handling).
type Chat struct {
	Message string
}

// Command is the payload for KindCommand (ChatCommand), carrying the raw
// command line without its leading slash.
type Command struct {
	Command string
}

// Action is the payload for KindAction (PlayerAction / PlayerCommand),
// carrying the sequence number that must be acknowledged (§4.5.5).
type Action struct {
	Status   int32
	Location world.BlockPos
	Face     byte
	Sequence int32
}

// Click is the payload for KindClick (ClickContainer). The server's stage 2
// checks each click with session.ValidateWindowClick and disconnects the
// client on an impossible window id; a stale state id forces no resync and
// the event still reaches the application. Slot-content validity against
// game mode is deliberately not checked here (§9 Open Question).
type Click struct {
	WindowID byte
	StateID  int32
	Slot     int16
	Button   byte
	Mode     int32
	Raw      []byte
}

// IsDropCursor reports whether this click drops the cursor item
// (slot == -999, mode Click) per §4.5.6.
func (c Click) IsDropCursor() bool { return c.Slot == -999 && c.Mode == 0 }

// ConfirmTeleport is the payload for KindConfirmTeleport.
type ConfirmTeleport struct {
	TeleportID int32
}

// KeepAliveAck is the payload for KindKeepAlive.
type KeepAliveAck struct {
	ID int64
}

// movementKinds are the packet kinds silently dropped while a client has
// pending_teleports > 0 (§4.6).
var movementKinds = map[Kind]struct{}{
	KindMove: {},
}

// IsMovement reports whether k is one of the movement kinds gated by the
// pending-teleport drop rule.
func IsMovement(k Kind) bool {
	_, ok := movementKinds[k]
	return ok
}

// DecodeError wraps a packet decode failure, which per §7 disconnects the
// offending client.
type DecodeError struct {
	PacketID int32
	Err      error
}

func (e *DecodeError) Error() string { return e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Decode converts a single raw serverbound frame body into a typed Event,
// or a *DecodeError if the body doesn't match its declared packet id's
// shape. A packet id with no case below becomes a KindPluginMessage event
// carrying the raw body.
func Decode(client world.ClientID, packetID int32, body []byte) (Event, error) {
	switch packetID {
	case protocol.SBSetPlayerPositionAndRotation:
		m, err := protocol.DecodeMoveAndLook(body)
		if err != nil {
			return Event{}, &DecodeError{PacketID: packetID, Err: err}
		}
		return Event{Client: client, Kind: KindMove, Data: Move{
			X: m.X, Y: m.Y, Z: m.Z, Yaw: m.Yaw, Pitch: m.Pitch, OnGround: m.OnGround,
			HasPos: true, HasLook: true,
		}}, nil

	case protocol.SBConfirmTeleport:
		c, err := protocol.DecodeConfirmTeleport(body)
		if err != nil {
			return Event{}, &DecodeError{PacketID: packetID, Err: err}
		}
		return Event{Client: client, Kind: KindConfirmTeleport, Data: ConfirmTeleport{TeleportID: c.TeleportID}}, nil

	case protocol.SBKeepAlive:
		k, err := protocol.DecodeKeepAliveAck(body)
		if err != nil {
			return Event{}, &DecodeError{PacketID: packetID, Err: err}
		}
		return Event{Client: client, Kind: KindKeepAlive, Data: KeepAliveAck{ID: k.ID}}, nil

	case protocol.SBPlayerAction:
		a, err := protocol.DecodePlayerAction(body)
		if err != nil {
			return Event{}, &DecodeError{PacketID: packetID, Err: err}
		}
		return Event{Client: client, Kind: KindAction, Data: Action{
			Status:   a.Status,
			Location: world.BlockPos{X: a.Location.X, Y: a.Location.Y, Z: a.Location.Z},
			Face:     a.Face,
			Sequence: a.Sequence,
		}}, nil

	case protocol.SBChatMessage:
		m, err := protocol.DecodeChatMessage(body)
		if err != nil {
			return Event{}, &DecodeError{PacketID: packetID, Err: err}
		}
		return Event{Client: client, Kind: KindChat, Data: Chat{Message: norm.NFC.String(m.Message)}}, nil

	case protocol.SBChatCommand:
		c, err := protocol.DecodeChatCommand(body)
		if err != nil {
			return Event{}, &DecodeError{PacketID: packetID, Err: err}
		}
		return Event{Client: client, Kind: KindCommand, Data: Command{Command: norm.NFC.String(c.Command)}}, nil

	case protocol.SBClickContainer:
		c, err := protocol.DecodeClickContainer(body)
		if err != nil {
			return Event{}, &DecodeError{PacketID: packetID, Err: err}
		}
		return Event{Client: client, Kind: KindClick, Data: Click{
			WindowID: c.WindowID, StateID: c.StateID, Slot: c.Slot,
			Button: c.Button, Mode: c.Mode, Raw: c.ChangedBuf,
		}}, nil

	default:
		return Event{Client: client, Kind: KindPluginMessage, Data: body}, nil
	}
}
