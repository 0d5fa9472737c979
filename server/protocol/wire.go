// Package protocol supplies the Java-Edition-shaped wire packets the core
// simulation hands to LayerMessages and PerClientState (§6). Byte-for-byte
// field layout, encryption, and compression framing belong to the
// transport the core is embedded behind; this package only needs to turn
// world/session state into opaque, correctly-framed payloads and back.
package protocol

import (
	"bytes"

	pk "github.com/Tnze/go-mc/net/packet"
)

// Frame serialises a packet id and an already-encoded body into the VarInt
// length-prefixed, VarInt-id-prefixed frame described in §6 ("VarInt length
// prefix + VarInt packet ID + body"). Encryption and compression are layered
// on top of this by the surrounding connection and are out of scope here.
func Frame(id int32, body []byte) []byte {
	var payload bytes.Buffer
	_, _ = pk.VarInt(id).WriteTo(&payload)
	payload.Write(body)

	var out bytes.Buffer
	_, _ = pk.VarInt(payload.Len()).WriteTo(&out)
	out.Write(payload.Bytes())
	return out.Bytes()
}

// Encode concatenates the wire encoding of fields into a packet body.
func Encode(fields ...pk.FieldEncoder) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		_, _ = f.WriteTo(&buf)
	}
	return buf.Bytes()
}
