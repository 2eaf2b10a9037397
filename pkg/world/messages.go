package world

import "github.com/underkeep/underkeep/pkg/protocol"

// Message is anything the network side can send to the tick runtime's
// single inbound channel. The runtime drains this channel non-blockingly
// between ticks — it never blocks on network I/O.
type Message interface {
	isWorldMessage()
}

// NewPlayer is emitted by a connection actor once Login completes and it
// has transitioned to Play.
type NewPlayer struct {
	ClientID int32
	Profile  GameProfile
}

func (NewPlayer) isWorldMessage() {}

// PacketReceived carries one decoded Play-state packet from a connection
// actor to the runtime, to be dispatched to the content layer.
type PacketReceived struct {
	ClientID int32
	Packet   *protocol.Packet
}

func (PacketReceived) isWorldMessage() {}

// ClientDisconnected is emitted by the network supervisor when a
// Play-state connection closes (pre-Play disconnects never had a Player
// and are not reported here).
type ClientDisconnected struct {
	ClientID int32
}

func (ClientDisconnected) isWorldMessage() {}

// StatusUpdate carries a partial update to the network supervisor's cached
// server-list status. A nil field leaves that part of the cache untouched;
// a non-nil field (including an empty string) replaces it. Applying one
// invalidates whatever serialized/cached form depends on it, so the next
// status ping regenerates from the new values.
type StatusUpdate struct {
	MaxPlayers  *int
	Description *string
	IconBase64  *string
}

// Sender is how the tick runtime reaches the network supervisor without
// importing package network — it only needs to push bytes to a client's
// outbound queue, request a disconnect, and keep the cached status in
// sync. Implemented by *network.Supervisor.
type Sender interface {
	SendPackets(clientID int32, data []byte)
	DisconnectClient(clientID int32)
	UpdatePlayerCount(online int)
	UpdateStatus(update StatusUpdate)
}
