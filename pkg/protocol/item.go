package protocol

import (
	"errors"
	"io"
)

var errCompoundExpected = errors.New("protocol: item NBT root must be a compound")

// ItemStack is the wire representation of an inventory slot: an absent item
// is encoded as ID == -1 with no further fields.
type ItemStack struct {
	ID       int16
	Count    int8
	Metadata int16
	NBT      NBTCompound // nil means "no tag compound" (a single 0x00 byte)
}

// EmptyItemStack returns the absent-item sentinel value.
func EmptyItemStack() ItemStack {
	return ItemStack{ID: -1}
}

// IsEmpty reports whether the stack encodes an absent item.
func (s ItemStack) IsEmpty() bool {
	return s.ID < 0
}

// ReadItemStack reads a slot per the 1.8.9 encoding: id, and if present,
// count, metadata, and an NBT tag (itself possibly the single-byte "no tag"
// form).
func ReadItemStack(r io.Reader) (ItemStack, error) {
	id, err := ReadInt16(r)
	if err != nil {
		return ItemStack{}, err
	}
	if id < 0 {
		return EmptyItemStack(), nil
	}
	count, err := ReadSignedByte(r)
	if err != nil {
		return ItemStack{}, err
	}
	metadata, err := ReadInt16(r)
	if err != nil {
		return ItemStack{}, err
	}
	nbt, err := readItemNBT(r)
	if err != nil {
		return ItemStack{}, err
	}
	return ItemStack{ID: id, Count: count, Metadata: metadata, NBT: nbt}, nil
}

// WriteItemStack writes a slot per the 1.8.9 encoding.
func WriteItemStack(w io.Writer, s ItemStack) error {
	if s.IsEmpty() {
		return WriteInt16(w, -1)
	}
	if err := WriteInt16(w, s.ID); err != nil {
		return err
	}
	if err := WriteSignedByte(w, s.Count); err != nil {
		return err
	}
	if err := WriteInt16(w, s.Metadata); err != nil {
		return err
	}
	return writeItemNBT(w, s.NBT)
}

// readItemNBT reads the tag-compound tail of a slot: a lone TagEnd byte
// means "no tag", matching how the vanilla client writes absent item NBT.
func readItemNBT(r io.Reader) (NBTCompound, error) {
	var tt NBTTagType
	if err := tt.read(r); err != nil {
		return nil, err
	}
	if tt == NBTTagEnd {
		return nil, nil
	}
	tag, err := tt.NewTag()
	if err != nil {
		return nil, err
	}
	if err := tag.Read(r); err != nil {
		return nil, err
	}
	compound, ok := tag.(NBTCompound)
	if !ok {
		return nil, errCompoundExpected
	}
	return compound, nil
}

func writeItemNBT(w io.Writer, nbt NBTCompound) error {
	if nbt == nil {
		return NBTTagEnd.write(w)
	}
	if err := NBTTagCompound.write(w); err != nil {
		return err
	}
	return nbt.Write(w)
}
