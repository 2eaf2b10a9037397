package protocol

import (
	"bytes"
	"fmt"
	"io"
)

// Connection states, per the protocol's handshake-driven state machine.
const (
	StateHandshaking = 0
	StateStatus      = 1
	StateLogin       = 2
	StatePlay        = 3
)

// ProtocolVersion is the protocol number for Minecraft 1.8.9.
const ProtocolVersion = 47

// maxPacketLength bounds a single packet's declared length (3-byte VarInt
// max) so a corrupt or hostile length prefix can't force an unbounded
// allocation.
const maxPacketLength = 2097151

// Packet is a framed protocol packet: a numeric id and its payload, with
// the id already peeled off the front of the payload.
type Packet struct {
	ID   int32
	Data []byte
}

// ReadPacket reads one length-prefixed packet from r.
func ReadPacket(r io.Reader) (*Packet, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if length < 1 {
		return nil, fmt.Errorf("protocol: packet length too small: %d", length)
	}
	if length > maxPacketLength {
		return nil, fmt.Errorf("protocol: packet length too large: %d", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	pr := bytes.NewReader(payload)
	packetID, idLen, err := ReadVarInt(pr)
	if err != nil {
		return nil, err
	}

	return &Packet{ID: packetID, Data: payload[idLen:]}, nil
}

// WritePacket writes a length-prefixed packet to w as a single buffered
// write, avoiding a short-write race against concurrent writers on the
// same connection.
func WritePacket(w io.Writer, p *Packet) error {
	idSize := VarIntSize(p.ID)
	totalLen := int32(idSize + len(p.Data))

	buf := bytes.NewBuffer(make([]byte, 0, VarIntSize(totalLen)+int(totalLen)))
	if _, err := WriteVarInt(buf, totalLen); err != nil {
		return err
	}
	if _, err := WriteVarInt(buf, p.ID); err != nil {
		return err
	}
	buf.Write(p.Data)

	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalPacket builds a Packet's payload via builder and attaches id.
func MarshalPacket(id int32, builder func(w *bytes.Buffer)) *Packet {
	var buf bytes.Buffer
	builder(&buf)
	return &Packet{ID: id, Data: buf.Bytes()}
}
