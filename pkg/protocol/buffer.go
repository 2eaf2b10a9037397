package protocol

import "bytes"

// PacketBuffer accumulates fully-framed packets in an owned byte slice. It
// performs no framing validation on appended bytes — callers are trusted
// producers of their own contents (another connection's Freeze output, or a
// packet this side just marshaled).
type PacketBuffer struct {
	buf bytes.Buffer
}

// WritePacket frames id/data as length-prefixed bytes and appends them.
func (b *PacketBuffer) WritePacket(id int32, data []byte) error {
	totalLen := int32(VarIntSize(id) + len(data))
	if _, err := WriteVarInt(&b.buf, totalLen); err != nil {
		return err
	}
	if _, err := WriteVarInt(&b.buf, id); err != nil {
		return err
	}
	_, err := b.buf.Write(data)
	return err
}

// CopyFrom appends raw bytes verbatim, with no framing of its own.
func (b *PacketBuffer) CopyFrom(other []byte) {
	b.buf.Write(other)
}

// Clear truncates the buffer to empty, retaining its backing array.
func (b *PacketBuffer) Clear() {
	b.buf.Reset()
}

// Len reports the number of accumulated bytes.
func (b *PacketBuffer) Len() int {
	return b.buf.Len()
}

// Freeze yields an immutable, cheaply-cloneable snapshot of the buffer's
// current contents suitable for handing to the network send queue — the
// caller must not retain a reference into b's backing array, so this copies.
func (b *PacketBuffer) Freeze() []byte {
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}
