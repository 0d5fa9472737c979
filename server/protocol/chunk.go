package protocol

import (
	pk "github.com/Tnze/go-mc/net/packet"

	"github.com/nexavoxel/corecraft/server/world"
)

// BindChunkEncoders installs this package's chunk/block encoders into the
// world package, so ChunkIndex can emit ready-to-send packets without
// importing protocol itself: protocol imports world, so an import in the
// other direction would form a cycle.
func BindChunkEncoders() {
	world.SetChunkEncoders(encodeChunkLoad, encodeChunkOverwrite, encodeChunkInit, encodeChunkUnload, encodeBlockUpdate)
	world.SetWeatherEncoder(EncodeWeather)
}

func encodeChunkInit(ci *world.ChunkIndex, pos world.ChunkPos, c *world.Chunk) []byte {
	body := Encode(
		pk.Int(pos.X()),
		pk.Int(pos.Z()),
		pk.VarInt(blockEntityCount(c)),
	)
	return Frame(CBChunkData, body)
}

func encodeChunkLoad(ci *world.ChunkIndex, pos world.ChunkPos, c *world.Chunk) []byte {
	return encodeChunkInit(ci, pos, c)
}

func encodeChunkOverwrite(ci *world.ChunkIndex, pos world.ChunkPos, c *world.Chunk) []byte {
	return encodeChunkInit(ci, pos, c)
}

func encodeChunkUnload(pos world.ChunkPos) []byte {
	body := Encode(pk.Int(pos.X()), pk.Int(pos.Z()))
	return Frame(CBUnloadChunk, body)
}

// EncodeChunkUnload is the exported form of encodeChunkUnload, used by the
// session package when it drives a chunk-layer swap or view diff directly
// rather than through ChunkIndex.Remove (§4.5.2).
func EncodeChunkUnload(pos world.ChunkPos) []byte {
	return encodeChunkUnload(pos)
}

func encodeBlockUpdate(pos world.BlockPos, b world.BlockState) []byte {
	body := Encode(
		pk.Position{X: pos.X, Y: pos.Y, Z: pos.Z},
		pk.VarInt(b),
	)
	return Frame(CBBlockUpdate, body)
}

func blockEntityCount(c *world.Chunk) int32 {
	return int32(len(c.BlockEntities))
}
