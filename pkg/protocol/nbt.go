package protocol

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// NBTTag is the interface satisfied by every node in an NBT tree, following
// the shape of chunkymonkey's nbt package (read/write/lookup by path), with
// IntArray and LongArray added for 1.8.9 item NBT (enchantments, Unbreakable
// tags) that chunkymonkey's corpus predates.
type NBTTag interface {
	String() string
	Type() NBTTagType
	Read(io.Reader) error
	Write(io.Writer) error
	Lookup(path string) NBTTag
}

// NBTTagType is the one-byte tag-type header preceding each named tag.
type NBTTagType byte

const (
	NBTTagEnd       = NBTTagType(0)
	NBTTagByte      = NBTTagType(1)
	NBTTagShort     = NBTTagType(2)
	NBTTagInt       = NBTTagType(3)
	NBTTagLong      = NBTTagType(4)
	NBTTagFloat     = NBTTagType(5)
	NBTTagDouble    = NBTTagType(6)
	NBTTagByteArray = NBTTagType(7)
	NBTTagString    = NBTTagType(8)
	NBTTagList      = NBTTagType(9)
	NBTTagCompound  = NBTTagType(10)
	NBTTagIntArray  = NBTTagType(11)
	NBTTagLongArray = NBTTagType(12)
)

// NewTag constructs a zero-valued tag of the given type. NBTTagEnd has no
// corresponding value.
func (tt NBTTagType) NewTag() (NBTTag, error) {
	switch tt {
	case NBTTagByte:
		return new(NBTByte), nil
	case NBTTagShort:
		return new(NBTShort), nil
	case NBTTagInt:
		return new(NBTInt), nil
	case NBTTagLong:
		return new(NBTLong), nil
	case NBTTagFloat:
		return new(NBTFloat), nil
	case NBTTagDouble:
		return new(NBTDouble), nil
	case NBTTagByteArray:
		return new(NBTByteArray), nil
	case NBTTagString:
		return new(NBTString), nil
	case NBTTagList:
		return new(NBTList), nil
	case NBTTagCompound:
		return make(NBTCompound), nil
	case NBTTagIntArray:
		return new(NBTIntArray), nil
	case NBTTagLongArray:
		return new(NBTLongArray), nil
	default:
		return nil, fmt.Errorf("protocol: invalid NBT tag type %#x", byte(tt))
	}
}

func (tt *NBTTagType) read(r io.Reader) error {
	b, err := ReadByte(r)
	*tt = NBTTagType(b)
	return err
}

func (tt NBTTagType) write(w io.Writer) error {
	return WriteByte(w, byte(tt))
}

type NBTByte struct{ Value int8 }

func (t *NBTByte) String() string       { return fmt.Sprintf("Byte(%d)", t.Value) }
func (*NBTByte) Type() NBTTagType       { return NBTTagByte }
func (*NBTByte) Lookup(string) NBTTag   { return nil }
func (t *NBTByte) Read(r io.Reader) error {
	v, err := ReadSignedByte(r)
	t.Value = v
	return err
}
func (t *NBTByte) Write(w io.Writer) error { return WriteSignedByte(w, t.Value) }

type NBTShort struct{ Value int16 }

func (t *NBTShort) String() string     { return fmt.Sprintf("Short(%d)", t.Value) }
func (*NBTShort) Type() NBTTagType     { return NBTTagShort }
func (*NBTShort) Lookup(string) NBTTag { return nil }
func (t *NBTShort) Read(r io.Reader) error {
	v, err := ReadInt16(r)
	t.Value = v
	return err
}
func (t *NBTShort) Write(w io.Writer) error { return WriteInt16(w, t.Value) }

type NBTInt struct{ Value int32 }

func (t *NBTInt) String() string     { return fmt.Sprintf("Int(%d)", t.Value) }
func (*NBTInt) Type() NBTTagType     { return NBTTagInt }
func (*NBTInt) Lookup(string) NBTTag { return nil }
func (t *NBTInt) Read(r io.Reader) error {
	v, err := ReadInt32(r)
	t.Value = v
	return err
}
func (t *NBTInt) Write(w io.Writer) error { return WriteInt32(w, t.Value) }

type NBTLong struct{ Value int64 }

func (t *NBTLong) String() string     { return fmt.Sprintf("Long(%d)", t.Value) }
func (*NBTLong) Type() NBTTagType     { return NBTTagLong }
func (*NBTLong) Lookup(string) NBTTag { return nil }
func (t *NBTLong) Read(r io.Reader) error {
	v, err := ReadInt64(r)
	t.Value = v
	return err
}
func (t *NBTLong) Write(w io.Writer) error { return WriteInt64(w, t.Value) }

type NBTFloat struct{ Value float32 }

func (t *NBTFloat) String() string     { return fmt.Sprintf("Float(%f)", t.Value) }
func (*NBTFloat) Type() NBTTagType     { return NBTTagFloat }
func (*NBTFloat) Lookup(string) NBTTag { return nil }
func (t *NBTFloat) Read(r io.Reader) error {
	v, err := ReadFloat32(r)
	t.Value = v
	return err
}
func (t *NBTFloat) Write(w io.Writer) error { return WriteFloat32(w, t.Value) }

type NBTDouble struct{ Value float64 }

func (t *NBTDouble) String() string     { return fmt.Sprintf("Double(%f)", t.Value) }
func (*NBTDouble) Type() NBTTagType     { return NBTTagDouble }
func (*NBTDouble) Lookup(string) NBTTag { return nil }
func (t *NBTDouble) Read(r io.Reader) error {
	v, err := ReadFloat64(r)
	t.Value = v
	return err
}
func (t *NBTDouble) Write(w io.Writer) error { return WriteFloat64(w, t.Value) }

type NBTByteArray struct{ Value []byte }

func (t *NBTByteArray) String() string     { return fmt.Sprintf("ByteArray(%x)", t.Value) }
func (*NBTByteArray) Type() NBTTagType     { return NBTTagByteArray }
func (*NBTByteArray) Lookup(string) NBTTag { return nil }

func (t *NBTByteArray) Read(r io.Reader) error {
	length, err := ReadInt32(r)
	if err != nil {
		return err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	t.Value = buf
	return nil
}

func (t *NBTByteArray) Write(w io.Writer) error {
	if err := WriteInt32(w, int32(len(t.Value))); err != nil {
		return err
	}
	_, err := w.Write(t.Value)
	return err
}

type NBTIntArray struct{ Value []int32 }

func (t *NBTIntArray) String() string     { return fmt.Sprintf("IntArray(%v)", t.Value) }
func (*NBTIntArray) Type() NBTTagType     { return NBTTagIntArray }
func (*NBTIntArray) Lookup(string) NBTTag { return nil }

func (t *NBTIntArray) Read(r io.Reader) error {
	length, err := ReadInt32(r)
	if err != nil {
		return err
	}
	vals := make([]int32, length)
	for i := range vals {
		if vals[i], err = ReadInt32(r); err != nil {
			return err
		}
	}
	t.Value = vals
	return nil
}

func (t *NBTIntArray) Write(w io.Writer) error {
	if err := WriteInt32(w, int32(len(t.Value))); err != nil {
		return err
	}
	for _, v := range t.Value {
		if err := WriteInt32(w, v); err != nil {
			return err
		}
	}
	return nil
}

type NBTLongArray struct{ Value []int64 }

func (t *NBTLongArray) String() string     { return fmt.Sprintf("LongArray(%v)", t.Value) }
func (*NBTLongArray) Type() NBTTagType     { return NBTTagLongArray }
func (*NBTLongArray) Lookup(string) NBTTag { return nil }

func (t *NBTLongArray) Read(r io.Reader) error {
	length, err := ReadInt32(r)
	if err != nil {
		return err
	}
	vals := make([]int64, length)
	for i := range vals {
		if vals[i], err = ReadInt64(r); err != nil {
			return err
		}
	}
	t.Value = vals
	return nil
}

func (t *NBTLongArray) Write(w io.Writer) error {
	if err := WriteInt32(w, int32(len(t.Value))); err != nil {
		return err
	}
	for _, v := range t.Value {
		if err := WriteInt64(w, v); err != nil {
			return err
		}
	}
	return nil
}

type NBTString struct{ Value string }

func (t *NBTString) String() string     { return fmt.Sprintf("String(%q)", t.Value) }
func (*NBTString) Type() NBTTagType     { return NBTTagString }
func (*NBTString) Lookup(string) NBTTag { return nil }
func (t *NBTString) Read(r io.Reader) error {
	v, err := ReadNBTString(r)
	t.Value = v
	return err
}
func (t *NBTString) Write(w io.Writer) error { return WriteNBTString(w, t.Value) }

type NBTList struct {
	ElemType NBTTagType
	Value    []NBTTag
}

func (t *NBTList) String() string {
	subStrs := make([]string, len(t.Value))
	for i := range t.Value {
		subStrs[i] = t.Value[i].String()
	}
	return fmt.Sprintf("List(%s)", strings.Join(subStrs, ", "))
}

func (*NBTList) Type() NBTTagType     { return NBTTagList }
func (*NBTList) Lookup(string) NBTTag { return nil }

func (t *NBTList) Read(r io.Reader) error {
	if err := t.ElemType.read(r); err != nil {
		return err
	}
	length, err := ReadInt32(r)
	if err != nil {
		return err
	}
	list := make([]NBTTag, length)
	for i := range list {
		tag, err := t.ElemType.NewTag()
		if err != nil {
			return err
		}
		if err := tag.Read(r); err != nil {
			return err
		}
		list[i] = tag
	}
	t.Value = list
	return nil
}

func (t *NBTList) Write(w io.Writer) error {
	if err := t.ElemType.write(w); err != nil {
		return err
	}
	if err := WriteInt32(w, int32(len(t.Value))); err != nil {
		return err
	}
	for _, tag := range t.Value {
		if err := tag.Write(w); err != nil {
			return err
		}
	}
	return nil
}

// NBTCompound is a named bag of tags terminated on the wire by an end tag.
type NBTCompound map[string]NBTTag

func NewNBTCompound() NBTCompound { return make(NBTCompound) }

func (c NBTCompound) String() string {
	subStrs := make([]string, 0, len(c))
	for k, v := range c {
		subStrs = append(subStrs, fmt.Sprintf("%q: %s", k, v))
	}
	return fmt.Sprintf("Compound(%s)", strings.Join(subStrs, ", "))
}

func (NBTCompound) Type() NBTTagType { return NBTTagCompound }

func (c NBTCompound) Set(key string, tag NBTTag) { c[key] = tag }

func (c NBTCompound) Lookup(path string) NBTTag {
	parts := strings.SplitN(path, "/", 2)
	tag, ok := c[parts[0]]
	if !ok {
		return nil
	}
	if len(parts) >= 2 {
		return tag.Lookup(parts[1])
	}
	return tag
}

func readNBTTagAndName(r io.Reader) (NBTTag, string, error) {
	var tagType NBTTagType
	if err := tagType.read(r); err != nil {
		return nil, "", err
	}
	if tagType == NBTTagEnd {
		return nil, "", nil
	}
	name, err := ReadNBTString(r)
	if err != nil {
		return nil, "", err
	}
	tag, err := tagType.NewTag()
	if err != nil {
		return nil, "", err
	}
	if err := tag.Read(r); err != nil {
		return nil, "", err
	}
	return tag, name, nil
}

func writeNBTTagAndName(w io.Writer, tag NBTTag, name string) error {
	if err := tag.Type().write(w); err != nil {
		return err
	}
	if err := WriteNBTString(w, name); err != nil {
		return err
	}
	return tag.Write(w)
}

func (c NBTCompound) Read(r io.Reader) error {
	for k := range c {
		delete(c, k)
	}
	for {
		tag, name, err := readNBTTagAndName(r)
		if err != nil {
			return err
		}
		if tag == nil {
			return nil
		}
		c[name] = tag
	}
}

func (c NBTCompound) Write(w io.Writer) error {
	for name, tag := range c {
		if err := writeNBTTagAndName(w, tag, name); err != nil {
			return err
		}
	}
	return NBTTagEnd.write(w)
}

// ReadNBT reads a root NBT compound (the unnamed root tag required by the
// protocol) from r.
func ReadNBT(r io.Reader) (NBTCompound, error) {
	tag, name, err := readNBTTagAndName(r)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, errors.New("protocol: NBT end tag found at top level")
	}
	if name != "" {
		return nil, errors.New("protocol: NBT root name should be empty")
	}
	compound, ok := tag.(NBTCompound)
	if !ok {
		return nil, errors.New("protocol: NBT root must be a compound")
	}
	return compound, nil
}

// WriteNBT writes a root NBT compound to w.
func WriteNBT(w io.Writer, tag NBTCompound) error {
	return writeNBTTagAndName(w, tag, "")
}
