package protocol

import (
	pk "github.com/Tnze/go-mc/net/packet"

	"github.com/nexavoxel/corecraft/server/world"
)

// BindEntityEncoders installs this package's entity encoders into the world
// package (mirrors BindChunkEncoders).
func BindEntityEncoders() {
	world.SetEncoders(encodeEntitySpawn, encodeEntityMove, encodeTrackerUpdate)
}

func encodeEntitySpawn(e *world.Entity) []byte {
	body := Encode(
		pk.VarInt(e.ProtocolID),
		pk.Double(e.Position.X()),
		pk.Double(e.Position.Y()),
		pk.Double(e.Position.Z()),
		pk.Angle(e.Look.Yaw),
		pk.Angle(e.Look.Pitch),
	)
	return Frame(CBEntitySpawn, body)
}

func encodeEntityMove(e *world.Entity, oldCell, newCell world.ChunkPos) []byte {
	body := Encode(
		pk.VarInt(e.ProtocolID),
		pk.Double(e.Position.X()),
		pk.Double(e.Position.Y()),
		pk.Double(e.Position.Z()),
		pk.Angle(e.Look.Yaw),
		pk.Angle(e.Look.Pitch),
		pk.Boolean(true),
	)
	return Frame(CBEntityPositionSync, body)
}

func encodeTrackerUpdate(e *world.Entity) []byte {
	var metadata []byte
	if e.Tracked != nil {
		metadata = e.Tracked.Encode()
	}
	body := Encode(pk.VarInt(e.ProtocolID))
	body = append(body, metadata...)
	return Frame(CBEntityTrackerUpdate, body)
}

// EncodeEntitySpawnFor builds an EntitySpawn packet using the protocol id
// viewer should see e as (§3 "every client's entity id is 0 from its own
// perspective"). Used by session view reconciliation, which spawns entities
// directly rather than through EntityLayer.Spawn's broadcast.
func EncodeEntitySpawnFor(e *world.Entity, viewer world.ClientID) []byte {
	body := Encode(
		pk.VarInt(e.ProtocolIDFor(viewer)),
		pk.Double(e.Position.X()),
		pk.Double(e.Position.Y()),
		pk.Double(e.Position.Z()),
		pk.Angle(e.Look.Yaw),
		pk.Angle(e.Look.Pitch),
	)
	return Frame(CBEntitySpawn, body)
}

// EncodeEntityDespawn builds the EntitiesDestroy packet for a single entity,
// used where world.LayerMessages hands a despawn message to the broadcast
// stage instead of a pre-encoded packet (§4.4 MessageKind::EntityDespawn).
func EncodeEntityDespawn(protocolID int32) []byte {
	body := Encode(pk.VarInt(1), pk.VarInt(protocolID))
	return Frame(CBEntitiesDestroy, body)
}
