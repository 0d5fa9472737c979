package protocol

import (
	"github.com/Tnze/go-mc/chat"
	pk "github.com/Tnze/go-mc/net/packet"

	"github.com/nexavoxel/corecraft/server/world"
)

// The builders in this file cover the clientbound packets PerClientState
// sends directly, outside the per-layer broadcast pipeline (§4.5, §6).

// GameJoinFields carries every field spec.md §4.5.1 requires the first-tick
// join record to emit, beyond the entity id the core assigns itself.
// RegistryCodec is an already NBT-encoded payload the caller supplies; the
// core has no opinion on its contents (§1 Non-goals exclude block/item
// static tables, which is what that registry describes).
type GameJoinFields struct {
	Hardcore           bool
	GameMode           byte
	PreviousGameMode   byte
	DimensionNames     []string
	RegistryCodec      []byte
	DimensionType      string
	DimensionName      string
	HashedSeed         int64
	ViewDistance       int32
	SimulationDistance int32
	ReducedDebug       bool
	RespawnScreen      bool
	IsDebug            bool
	IsFlat             bool
	LastDeathDimension string
	LastDeathPosition  *world.BlockPos
	PortalCooldown     int32
}

// EncodeGameJoin builds the packet that begins a client's session (§4.5.1
// join ordering), carrying every field JoinInfo exposes.
func EncodeGameJoin(entityID int32, f GameJoinFields) []byte {
	body := Encode(pk.Int(entityID), pk.Boolean(f.Hardcore), pk.Byte(f.GameMode), pk.Byte(f.PreviousGameMode))
	body = append(body, encodeStringArray(f.DimensionNames)...)
	body = append(body, f.RegistryCodec...)
	body = append(body, Encode(
		pk.String(f.DimensionType),
		pk.String(f.DimensionName),
		pk.Long(f.HashedSeed),
		pk.VarInt(f.ViewDistance),
		pk.VarInt(f.SimulationDistance),
		pk.Boolean(f.ReducedDebug),
		pk.Boolean(f.RespawnScreen),
		pk.Boolean(f.IsDebug),
		pk.Boolean(f.IsFlat),
	)...)
	body = append(body, encodeOptionalDeathLocation(f.LastDeathDimension, f.LastDeathPosition)...)
	body = append(body, Encode(pk.VarInt(f.PortalCooldown))...)
	return Frame(CBGameJoin, body)
}

// RespawnFields carries the fields spec.md §4.5.1's respawn record needs,
// the Respawn-packet analogue of GameJoinFields.
type RespawnFields struct {
	DimensionType      string
	DimensionName      string
	HashedSeed         int64
	GameMode           byte
	PreviousGameMode   byte
	IsDebug            bool
	IsFlat             bool
	KeepAttributes     bool
	LastDeathDimension string
	LastDeathPosition  *world.BlockPos
	PortalCooldown     int32
}

// EncodePlayerRespawn builds the packet sent when a client's dimension
// layer changes (§4.5.1 respawn ordering).
func EncodePlayerRespawn(f RespawnFields) []byte {
	body := Encode(
		pk.String(f.DimensionType),
		pk.String(f.DimensionName),
		pk.Long(f.HashedSeed),
		pk.Byte(f.GameMode),
		pk.Byte(f.PreviousGameMode),
		pk.Boolean(f.IsDebug),
		pk.Boolean(f.IsFlat),
	)
	body = append(body, encodeOptionalDeathLocation(f.LastDeathDimension, f.LastDeathPosition)...)
	body = append(body, Encode(pk.VarInt(f.PortalCooldown), pk.Boolean(f.KeepAttributes))...)
	return Frame(CBPlayerRespawn, body)
}

// encodeStringArray writes a VarInt count followed by each string, the
// shape DimensionNames and similar list fields take on the wire.
func encodeStringArray(values []string) []byte {
	body := Encode(pk.VarInt(len(values)))
	for _, v := range values {
		body = append(body, Encode(pk.String(v))...)
	}
	return body
}

// encodeOptionalDeathLocation writes the has-death-location flag followed
// by the dimension/position pair when pos is non-nil, matching the
// optional-field shape both GameJoin and Respawn use for this data.
func encodeOptionalDeathLocation(dimension string, pos *world.BlockPos) []byte {
	if pos == nil {
		return Encode(pk.Boolean(false))
	}
	body := Encode(pk.Boolean(true), pk.String(dimension))
	return append(body, Encode(pk.Position{X: pos.X, Y: pos.Y, Z: pos.Z})...)
}

// EncodeChunkRenderDistanceCenter builds the packet that tells a client
// which chunk its view is now centred on (§4.5.2).
func EncodeChunkRenderDistanceCenter(centreX, centreZ int32) []byte {
	return Frame(CBChunkRenderDistanceCenter, Encode(pk.VarInt(centreX), pk.VarInt(centreZ)))
}

// EncodeChunkLoadDistance builds the packet announcing a client's current
// view-distance radius (§4.5.2, §3 ChunkView radius).
func EncodeChunkLoadDistance(radius int32) []byte {
	return Frame(CBChunkLoadDistance, Encode(pk.VarInt(radius)))
}

// EncodePlayerPositionLook builds a teleport packet carrying the position,
// rotation, and the teleport id the client must echo back in
// ConfirmTeleport (§4.5.3).
func EncodePlayerPositionLook(x, y, z float64, yaw, pitch float32, teleportID int32) []byte {
	body := Encode(
		pk.Double(x), pk.Double(y), pk.Double(z),
		pk.Float(yaw), pk.Float(pitch),
		pk.Byte(0),
		pk.VarInt(teleportID),
	)
	return Frame(CBPlayerPositionLook, body)
}

// EncodePlayerSpawnPosition builds the packet announcing a client's compass
// spawn point and spawn angle.
func EncodePlayerSpawnPosition(pos pk.Position, angle float32) []byte {
	return Frame(CBPlayerSpawnPosition, Encode(pos, pk.Float(angle)))
}

// EncodeKeepAlive builds a keepalive ping carrying an opaque id the client
// must echo back within the configured timeout (§4.5.4).
func EncodeKeepAlive(id int64) []byte {
	return Frame(CBKeepAlive, Encode(pk.Long(id)))
}

// EncodePlayerActionResponse builds the packet that acknowledges a batch of
// inbound action sequence numbers up to and including seq (§4.5.5).
func EncodePlayerActionResponse(seq int32) []byte {
	return Frame(CBPlayerActionResponse, Encode(pk.VarInt(seq)))
}

// EncodeInventory builds a full-inventory sync packet for the given window
// id and slot contents (§4.5.6).
func EncodeInventory(windowID byte, stateID int32, slots [][]byte) []byte {
	body := Encode(pk.Byte(windowID), pk.VarInt(stateID), pk.VarInt(len(slots)))
	for _, s := range slots {
		body = append(body, s...)
	}
	return Frame(CBInventory, body)
}

// EncodeScreenHandlerSlotUpdate builds a single-slot update packet (§4.5.6).
func EncodeScreenHandlerSlotUpdate(windowID byte, stateID int32, slot int16, item []byte) []byte {
	body := Encode(pk.Byte(windowID), pk.VarInt(stateID), pk.Short(slot))
	body = append(body, item...)
	return Frame(CBScreenHandlerSlotUpdate, body)
}

// cursorWindowID and cursorSlot are the sentinel window/slot the protocol
// reserves for the cursor item: window -1, slot -1, carried on the wire as
// the same Set Container Slot packet any other slot update uses.
const cursorWindowID = 0xFF
const cursorSlot = -1

// EncodeCursorItemUpdate builds a server-initiated cursor-slot update
// (§4.5.6): "if the cursor item changed and the client did not cause it,
// send a cursor-slot update". It reuses the Set Container Slot shape with
// the window/slot sentinel the protocol assigns to the held item.
func EncodeCursorItemUpdate(item []byte) []byte {
	return EncodeScreenHandlerSlotUpdate(cursorWindowID, 0, cursorSlot, item)
}

// EncodeOpenScreen builds the packet that opens a non-player inventory
// window on the client (§4.5.6). title is a pre-encoded chat component; nil
// falls back to an empty component.
func EncodeOpenScreen(windowID byte, kind int32, title []byte) []byte {
	body := Encode(pk.VarInt(windowID), pk.VarInt(kind))
	if title == nil {
		title = Encode(emptyChatMessage())
	}
	body = append(body, title...)
	return Frame(CBOpenScreen, body)
}

func emptyChatMessage() pk.FieldEncoder {
	return chat.Text("")
}

// EncodeCloseScreen builds the packet that closes an open window.
func EncodeCloseScreen(windowID byte) []byte {
	return Frame(CBCloseScreen, Encode(pk.Byte(windowID)))
}

// EncodeDisconnect builds the packet that terminates a client's connection
// with a human-readable reason (§7 error propagation: protocol violations
// disconnect with a reason rather than panicking).
func EncodeDisconnect(reason string) []byte {
	return Frame(CBDisconnect, Encode(chat.Text(reason)))
}

// EncodeGameMessage builds a chat/system message packet.
func EncodeGameMessage(msg string, actionBar bool) []byte {
	return Frame(CBGameMessage, Encode(chat.Text(msg), pk.Boolean(actionBar)))
}

// EncodePluginMessage builds a custom payload packet addressed to channel.
func EncodePluginMessage(channel string, data []byte) []byte {
	body := Encode(pk.String(channel))
	body = append(body, data...)
	return Frame(CBPluginMessage, body)
}
