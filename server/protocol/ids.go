package protocol

// Packet ids below are placeholders stable within this module only: the
// core is protocol-version-agnostic (§1 Non-goals exclude "wire codec
// byte-layout"), so callers embedding a real client/server are expected to
// remap these to whatever numeric ids their target protocol version uses.
// What the core guarantees is the packet's *name*, *fields*, and *when it is
// sent*, per §6.

// Clientbound packet ids (server → client).
const (
	CBGameJoin = iota
	CBPlayerRespawn
	CBChunkRenderDistanceCenter
	CBChunkLoadDistance
	CBChunkData
	CBUnloadChunk
	CBBlockUpdate
	CBEntitiesDestroy
	CBEntitySpawn
	CBEntityPositionSync
	CBEntityVelocityUpdate
	CBEntityTrackerUpdate
	CBEntityStatus
	CBEntityAnimation
	CBPlayerPositionLook
	CBPlayerSpawnPosition
	CBKeepAlive
	CBPlayerActionResponse
	CBInventory
	CBScreenHandlerSlotUpdate
	CBOpenScreen
	CBCloseScreen
	CBDisconnect
	CBGameStateChange
	CBDeathMessage
	CBGameMessage
	CBPluginMessage
	CBResourcePackSend
	CBCustomPayload
	CBParticle
	CBPlaySound
	CBPlayerAbilities
	CBWeather
)

// Serverbound packet ids (client → server).
const (
	SBConfirmTeleport = iota
	SBKeepAlive
	SBClientSettings
	SBSetPlayerPosition
	SBSetPlayerPositionAndRotation
	SBSetPlayerRotation
	SBSetPlayerOnGround
	SBMoveVehicle
	SBPlayerCommand
	SBPlayerAction
	SBPlayerInput
	SBClickContainerButton
	SBClickContainer
	SBCloseContainer
	SBCreativeInventoryAction
	SBSetHeldItem
	SBUpdateSelectedSlot
	SBPluginMessage
	SBSwingArm
	SBUseItemOn
	SBUseItem
	SBResourcePackStatus
	SBChatMessage
	SBChatCommand
	SBMessageAcknowledgment
	SBInteract
	SBEditBook
	SBRenameItem
	SBSelectTrade
	SBSetBeaconEffect
	SBProgramCommandBlock
	SBProgramCommandMinecart
	SBProgramJigsawBlock
	SBProgramStructureBlock
	SBUpdateSign
	SBPlayerSession
	SBTeleportToEntity
	SBChangeRecipeBookSettings
	SBSetSeenRecipe
	SBChangeDifficulty
	SBLockDifficulty
	SBClientCommand
	SBQueryBlockEntityTag
	SBQueryEntityTag
	SBCommandSuggestionsRequest
	SBJigsawGenerate
	SBPaddleBoat
	SBPickItem
	SBPlaceRecipe
)
