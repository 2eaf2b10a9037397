package network

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

// handleConnection runs the per-socket connection actor: it drives the
// Handshake -> Status|Login -> Play state machine and, once in
// Play state, forwards every packet to the tick runtime's inbound channel
// until the socket errors or the tick runtime disconnects it.
func (s *Supervisor) handleConnection(client *Client) {
	defer func() {
		client.Close()
		s.unregister(client)
	}()

	go client.writeLoop()

	state := protocol.StateHandshaking

	for {
		pkt, err := client.nextPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debugw("connection read error", "client", client.ID, "err", err)
			}
			return
		}

		switch state {
		case protocol.StateHandshaking:
			next, err := s.handleHandshake(pkt)
			if err != nil {
				s.log.Debugw("bad handshake", "client", client.ID, "err", err)
				return
			}
			state = next

		case protocol.StateStatus:
			if done := s.handleStatusPacket(client, pkt); done {
				return
			}

		case protocol.StateLogin:
			if pkt.ID != 0x00 {
				return
			}
			profile, err := s.handleLoginStart(client, pkt)
			if err != nil {
				s.log.Debugw("login failed", "client", client.ID, "err", err)
				return
			}
			s.world.Inbound() <- world.NewPlayer{ClientID: client.ID, Profile: profile}
			state = protocol.StatePlay

		case protocol.StatePlay:
			cp := &protocol.Packet{ID: pkt.ID, Data: append([]byte(nil), pkt.Data...)}
			s.recordPacket(client, cp)
			s.world.Inbound() <- world.PacketReceived{ClientID: client.ID, Packet: cp}
		}
	}
}

// recordPacket appends pkt to the attached recorder, if any, tagged with
// the wire-format bytes a Player can later re-decode with protocol.ReadPacket
// and the sending client's profile UUID.
func (s *Supervisor) recordPacket(client *Client, pkt *protocol.Packet) {
	if s.recorder == nil {
		return
	}
	var buf bytes.Buffer
	if err := protocol.WritePacket(&buf, pkt); err != nil {
		return
	}
	s.recorder.Record(time.Now(), client.UUID(), buf.Bytes())
}

func (s *Supervisor) handleHandshake(pkt *protocol.Packet) (int, error) {
	r := bytes.NewReader(pkt.Data)

	if _, _, err := protocol.ReadVarInt(r); err != nil { // protocol version, unchecked
		return 0, err
	}
	if _, err := protocol.ReadString(r); err != nil { // server address
		return 0, err
	}
	if _, err := protocol.ReadUint16(r); err != nil { // server port
		return 0, err
	}
	next, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return 0, err
	}
	return int(next), nil
}

func (s *Supervisor) handleStatusPacket(client *Client, pkt *protocol.Packet) (done bool) {
	switch pkt.ID {
	case 0x00:
		body := s.statusJSON()
		resp := protocol.MarshalPacket(0x00, func(w *bytes.Buffer) {
			_ = protocol.WriteString(w, string(body))
		})
		var wbuf bytes.Buffer
		_ = protocol.WritePacket(&wbuf, resp)
		client.Enqueue(wbuf.Bytes())
		return false
	case 0x01:
		r := bytes.NewReader(pkt.Data)
		payload, err := protocol.ReadInt64(r)
		if err != nil {
			return true
		}
		resp := protocol.MarshalPacket(0x01, func(w *bytes.Buffer) {
			_ = protocol.WriteInt64(w, payload)
		})
		var wbuf bytes.Buffer
		_ = protocol.WritePacket(&wbuf, resp)
		client.Enqueue(wbuf.Bytes())
		return true
	}
	return false
}

func (s *Supervisor) handleLoginStart(client *Client, pkt *protocol.Packet) (world.GameProfile, error) {
	r := bytes.NewReader(pkt.Data)
	username, err := protocol.ReadString(r)
	if err != nil {
		return world.GameProfile{}, err
	}

	id := offlineUUID(username)
	client.setProfile(username, id)

	loginSuccess := protocol.MarshalPacket(0x02, func(w *bytes.Buffer) {
		_ = protocol.WriteString(w, formatUUID(id))
		_ = protocol.WriteString(w, username)
	})
	var wbuf bytes.Buffer
	if err := protocol.WritePacket(&wbuf, loginSuccess); err != nil {
		return world.GameProfile{}, err
	}
	client.Enqueue(wbuf.Bytes())

	s.log.Infow("player login", "username", username, "client", client.ID)
	return world.GameProfile{Username: username, UUID: id}, nil
}

// statusResponse mirrors the vanilla Server List Ping JSON schema.
type statusResponse struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int           `json:"max"`
		Online int           `json:"online"`
		Sample []interface{} `json:"sample"`
	} `json:"players"`
	Description json.RawMessage `json:"description"`
	Favicon     string          `json:"favicon,omitempty"`
}
