package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ChunkPos represents the position of a chunk column. The type is composed
// of two integers, the X and Z coordinates of the chunk, in a space where
// each unit is 16 blocks.
type ChunkPos [2]int32

// X returns the X coordinate of the chunk position.
func (p ChunkPos) X() int32 { return p[0] }

// Z returns the Z coordinate of the chunk position.
func (p ChunkPos) Z() int32 { return p[1] }

// pack folds the ChunkPos into a single int64 key so hot paths (view
// reconciliation, the reverse viewer index) can use an integer-keyed map
// instead of hashing a two-field struct on every lookup.
func (p ChunkPos) pack() int64 {
	return int64(p[0])<<32 | int64(uint32(p[1]))
}

// unpackChunkPos reverses pack.
func unpackChunkPos(v int64) ChunkPos {
	return ChunkPos{int32(v >> 32), int32(uint32(v))}
}

// BlockPos is the position of a block in the world, expressed in integer
// world coordinates. Y may be negative, depending on the dimension range.
type BlockPos struct {
	X, Y, Z int
}

// ChunkPos returns the position of the chunk that contains this block.
func (p BlockPos) ChunkPos() ChunkPos {
	return ChunkPos{int32(p.X >> 4), int32(p.Z >> 4)}
}

// SectionIndex returns the index of the chunk section (0-based from the
// dimension's minimum Y) that contains this block's Y coordinate, given the
// dimension's minimum Y.
func (p BlockPos) SectionIndex(minY int) int {
	return (p.Y - minY) >> 4
}

// relative returns the position's block-in-chunk coordinates (0..15 for X/Z).
func (p BlockPos) relative() (x, z uint8) {
	return uint8(p.X & 15), uint8(p.Z & 15)
}

// chunkPosFromVec3 returns the ChunkPos of the chunk that a Vec3 position
// falls in.
func chunkPosFromVec3(pos mgl64.Vec3) ChunkPos {
	return ChunkPos{int32(int(math.Floor(pos.X())) >> 4), int32(int(math.Floor(pos.Z())) >> 4)}
}

// Look represents the rotation of an entity in degrees.
type Look struct {
	Yaw, Pitch float64
}

// Vec3 is an alias of mgl64.Vec3, used throughout the core for entity
// positions and velocities.
type Vec3 = mgl64.Vec3
