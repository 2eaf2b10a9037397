// Package protocol implements the Minecraft 1.8.9 (protocol 47) wire codec:
// primitive encodings, var-ints, strings, NBT, item stacks, and packet framing.
package protocol

import (
	"fmt"
	"io"
)

// ReadVarInt reads a variable-length integer from the reader. Minecraft
// VarInts are base-128, little-endian groups with a continuation bit in the
// high bit of each byte, and are at most 5 bytes.
func ReadVarInt(r io.Reader) (int32, int, error) {
	var result int32
	var numRead int
	var buf [1]byte
	for {
		_, err := io.ReadFull(r, buf[:])
		if err != nil {
			return 0, numRead, err
		}
		b := buf[0]
		result |= int32(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > 5 {
			return 0, numRead, fmt.Errorf("protocol: VarInt is too big")
		}
		if b&0x80 == 0 {
			break
		}
	}
	return result, numRead, nil
}

// WriteVarInt writes a variable-length integer to the writer.
func WriteVarInt(w io.Writer, value int32) (int, error) {
	var buf [5]byte
	n := PutVarInt(buf[:], value)
	return w.Write(buf[:n])
}

// PutVarInt encodes a VarInt into buf and returns the number of bytes written.
func PutVarInt(buf []byte, value int32) int {
	uval := uint32(value)
	n := 0
	for {
		if uval&^uint32(0x7F) == 0 {
			buf[n] = byte(uval)
			n++
			return n
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
}

// VarIntSize returns the number of bytes needed to encode value as a VarInt.
// Always in [1,5].
func VarIntSize(value int32) int {
	uval := uint32(value)
	size := 0
	for {
		size++
		if uval&^uint32(0x7F) == 0 {
			return size
		}
		uval >>= 7
	}
}

// ReadVarLong reads a variable-length 64-bit integer (at most 10 bytes).
func ReadVarLong(r io.Reader) (int64, int, error) {
	var result int64
	var numRead int
	var buf [1]byte
	for {
		_, err := io.ReadFull(r, buf[:])
		if err != nil {
			return 0, numRead, err
		}
		b := buf[0]
		result |= int64(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > 10 {
			return 0, numRead, fmt.Errorf("protocol: VarLong is too big")
		}
		if b&0x80 == 0 {
			break
		}
	}
	return result, numRead, nil
}

// WriteVarLong writes a variable-length 64-bit integer to the writer.
func WriteVarLong(w io.Writer, value int64) (int, error) {
	uval := uint64(value)
	var buf [10]byte
	n := 0
	for {
		if uval&^uint64(0x7F) == 0 {
			buf[n] = byte(uval)
			n++
			break
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
	return w.Write(buf[:n])
}

// VarLongSize returns the number of bytes needed to encode value as a VarLong.
func VarLongSize(value int64) int {
	uval := uint64(value)
	size := 0
	for {
		size++
		if uval&^uint64(0x7F) == 0 {
			return size
		}
		uval >>= 7
	}
}
