package protocol

import (
	"bytes"
	"fmt"

	pk "github.com/Tnze/go-mc/net/packet"
)

// ReadFrame splits a single VarInt length-prefixed frame off the front of
// buf, returning the frame's packet id, its body, and the number of bytes
// consumed. It is the serverbound mirror of Frame.
func ReadFrame(buf []byte) (id int32, body []byte, n int, err error) {
	r := bytes.NewReader(buf)
	var length pk.VarInt
	nLen, err := length.ReadFrom(r)
	if err != nil {
		return 0, nil, 0, err
	}
	if int(length) > r.Len() {
		return 0, nil, 0, fmt.Errorf("protocol: frame declares length %d, only %d bytes buffered", length, r.Len())
	}
	frame := make([]byte, length)
	if _, err := r.Read(frame); err != nil {
		return 0, nil, 0, err
	}
	fr := bytes.NewReader(frame)
	var pid pk.VarInt
	nID, err := pid.ReadFrom(fr)
	if err != nil {
		return 0, nil, 0, err
	}
	return int32(pid), frame[nID:], int(nLen) + int(length), nil
}

// MoveAndLook is the decoded payload of SetPlayerPositionAndRotation, the
// most common inbound movement packet.
type MoveAndLook struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

// DecodeMoveAndLook parses a SetPlayerPositionAndRotation body.
func DecodeMoveAndLook(body []byte) (MoveAndLook, error) {
	var m MoveAndLook
	r := bytes.NewReader(body)
	var x, y, z pk.Double
	var yaw, pitch pk.Float
	var onGround pk.Boolean
	if err := scanAll(r, &x, &y, &z, &yaw, &pitch, &onGround); err != nil {
		return m, err
	}
	return MoveAndLook{X: float64(x), Y: float64(y), Z: float64(z), Yaw: float32(yaw), Pitch: float32(pitch), OnGround: bool(onGround)}, nil
}

// ConfirmTeleport is the decoded payload of the ConfirmTeleport packet
// (§4.5.3).
type ConfirmTeleport struct {
	TeleportID int32
}

// DecodeConfirmTeleport parses a ConfirmTeleport body.
func DecodeConfirmTeleport(body []byte) (ConfirmTeleport, error) {
	var id pk.VarInt
	if err := scanAll(bytes.NewReader(body), &id); err != nil {
		return ConfirmTeleport{}, err
	}
	return ConfirmTeleport{TeleportID: int32(id)}, nil
}

// KeepAliveAck is the decoded payload of the serverbound KeepAlive packet.
type KeepAliveAck struct {
	ID int64
}

// DecodeKeepAliveAck parses a serverbound KeepAlive body.
func DecodeKeepAliveAck(body []byte) (KeepAliveAck, error) {
	var id pk.Long
	if err := scanAll(bytes.NewReader(body), &id); err != nil {
		return KeepAliveAck{}, err
	}
	return KeepAliveAck{ID: int64(id)}, nil
}

// PlayerAction is the decoded payload of the PlayerAction packet, carrying
// the inbound action sequence number every such packet bumps (§4.5.5).
type PlayerAction struct {
	Status   int32
	Location pk.Position
	Face     byte
	Sequence int32
}

// DecodePlayerAction parses a PlayerAction body.
func DecodePlayerAction(body []byte) (PlayerAction, error) {
	var a PlayerAction
	var status pk.VarInt
	var face pk.Byte
	var seq pk.VarInt
	if err := scanAll(bytes.NewReader(body), &status, &a.Location, &face, &seq); err != nil {
		return a, err
	}
	a.Status, a.Face, a.Sequence = int32(status), byte(face), int32(seq)
	return a, nil
}

// ClickContainer is the decoded payload of the ClickContainer packet
// (§4.5.6).
type ClickContainer struct {
	WindowID   byte
	StateID    int32
	Slot       int16
	Button     byte
	Mode       int32
	ChangedBuf []byte // remaining, application-specific slot deltas
}

// DecodeClickContainer parses a ClickContainer body, leaving the trailing
// slot-array/carried-item fields in ChangedBuf for the inventory package to
// interpret against its own slot layout.
func DecodeClickContainer(body []byte) (ClickContainer, error) {
	var c ClickContainer
	var windowID pk.Byte
	var stateID pk.VarInt
	var slot pk.Short
	var button pk.Byte
	var mode pk.VarInt
	r := bytes.NewReader(body)
	if err := scanAll(r, &windowID, &stateID, &slot, &button, &mode); err != nil {
		return c, err
	}
	rest := make([]byte, r.Len())
	_, _ = r.Read(rest)
	return ClickContainer{
		WindowID: byte(windowID), StateID: int32(stateID), Slot: int16(slot),
		Button: byte(button), Mode: int32(mode), ChangedBuf: rest,
	}, nil
}

// ChatMessage is the decoded payload of the serverbound ChatMessage packet.
type ChatMessage struct {
	Message string
}

// DecodeChatMessage parses a ChatMessage body, ignoring the
// timestamp/salt/signature/acknowledgment fields the core has no opinion on
// (§1 Non-goals exclude chat signing).
func DecodeChatMessage(body []byte) (ChatMessage, error) {
	var msg pk.String
	if err := scanAll(bytes.NewReader(body), &msg); err != nil {
		return ChatMessage{}, err
	}
	return ChatMessage{Message: string(msg)}, nil
}

// ChatCommand is the decoded payload of the serverbound ChatCommand packet.
type ChatCommand struct {
	Command string
}

// DecodeChatCommand parses a ChatCommand body, ignoring the trailing
// signing fields for the same reason DecodeChatMessage does.
func DecodeChatCommand(body []byte) (ChatCommand, error) {
	var cmd pk.String
	if err := scanAll(bytes.NewReader(body), &cmd); err != nil {
		return ChatCommand{}, err
	}
	return ChatCommand{Command: string(cmd)}, nil
}

func scanAll(r *bytes.Reader, fields ...pk.FieldDecoder) error {
	for _, f := range fields {
		if _, err := f.ReadFrom(r); err != nil {
			return err
		}
	}
	return nil
}
