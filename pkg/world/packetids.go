package world

// Clientbound Play packet ids the core itself must emit, per protocol 47
// (Minecraft 1.8.9). Packet ids the content layer emits on its own behalf
// (chat, window contents, entity metadata, ...) are not enumerated here —
// they belong to contentpkg.
const (
	PacketJoinGame             int32 = 0x01
	PacketSpawnPosition        int32 = 0x05
	PacketPlayerPositionAndLook int32 = 0x08
	PacketDestroyEntities      int32 = 0x13
	PacketEntityTeleport       int32 = 0x18
	PacketChunkData            int32 = 0x21
	PacketBlockChange          int32 = 0x23
	PacketPlayerListItem       int32 = 0x38
)
