package session

import (
	"github.com/nexavoxel/corecraft/server/protocol"
	"github.com/nexavoxel/corecraft/server/world"
)

// JoinInfo carries the fields the GameJoin/Respawn records need that the
// core itself has no opinion on (game mode, registry payloads, death
// location). The caller assembles this from its own game-mode/registry
// state; the core only guarantees ordering (§4.5.1).
type JoinInfo struct {
	Hardcore            bool
	GameMode            byte
	PreviousGameMode    byte
	DimensionNames      []string
	RegistryCodec       []byte
	DimensionType       string
	DimensionName       string
	HashedSeed          int64
	ViewDistance        int32
	SimulationDistance  int32
	ReducedDebug        bool
	RespawnScreen       bool
	IsDebug             bool
	IsFlat              bool
	LastDeathDimension  string
	LastDeathPosition   *world.BlockPos
	PortalCooldown      int32
	TagRegistrySync     []byte
}

// ReconcileJoin emits the first-tick join sequence if the client has not
// joined yet, or a respawn sequence if its dimension changed since the
// previous tick (§4.5.1). It must run before view reconciliation so nothing
// precedes these records in the client's outbound stream.
func (s *State) ReconcileJoin(info JoinInfo) {
	if !s.joined {
		s.write(protocol.EncodeGameJoin(protocolIDSelf(), protocol.GameJoinFields{
			Hardcore:           info.Hardcore,
			GameMode:           info.GameMode,
			PreviousGameMode:   info.PreviousGameMode,
			DimensionNames:     info.DimensionNames,
			RegistryCodec:      info.RegistryCodec,
			DimensionType:      info.DimensionType,
			DimensionName:      info.DimensionName,
			HashedSeed:         info.HashedSeed,
			ViewDistance:       info.ViewDistance,
			SimulationDistance: info.SimulationDistance,
			ReducedDebug:       info.ReducedDebug,
			RespawnScreen:      info.RespawnScreen,
			IsDebug:            info.IsDebug,
			IsFlat:             info.IsFlat,
			LastDeathDimension: info.LastDeathDimension,
			LastDeathPosition:  info.LastDeathPosition,
			PortalCooldown:     info.PortalCooldown,
		}))
		s.write(info.TagRegistrySync)
		s.joined = true
		s.Dimension = info.DimensionName
		s.abilitiesDirty = true
		s.handler.HandleJoin(s)
		return
	}
	if s.Dimension != info.DimensionName {
		s.write(protocol.EncodePlayerRespawn(protocol.RespawnFields{
			DimensionType:      info.DimensionType,
			DimensionName:      info.DimensionName,
			HashedSeed:         info.HashedSeed,
			GameMode:           info.GameMode,
			PreviousGameMode:   info.PreviousGameMode,
			IsDebug:            info.IsDebug,
			IsFlat:             info.IsFlat,
			KeepAttributes:     true,
			LastDeathDimension: info.LastDeathDimension,
			LastDeathPosition:  info.LastDeathPosition,
			PortalCooldown:     info.PortalCooldown,
		}))
		s.Dimension = info.DimensionName
	}
}

// protocolIDSelf returns the protocol id a client sees for its own entity
// (always 0). This mirrors Entity.ProtocolIDFor for the owning client.
func protocolIDSelf() int32 { return 0 }
