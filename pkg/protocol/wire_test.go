package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarInt(t *testing.T) {
	tests := []struct {
		value    int32
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xFF, 0x01}},
		{25565, []byte{0xDD, 0xC7, 0x01}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{2147483647, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
		{-1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
		{-2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		_, err := WriteVarInt(&buf, tt.value)
		require.NoError(t, err)
		require.Equal(t, tt.expected, buf.Bytes())

		val, n, err := ReadVarInt(bytes.NewReader(tt.expected))
		require.NoError(t, err)
		require.Equal(t, tt.value, val)
		require.Equal(t, len(tt.expected), n)
	}
}

func TestVarIntSize(t *testing.T) {
	tests := []struct {
		value int32
		size  int
	}{
		{0, 1}, {1, 1}, {127, 1}, {128, 2},
		{25565, 3}, {2097151, 3}, {2147483647, 5}, {-1, 5},
	}
	for _, tt := range tests {
		require.Equal(t, tt.size, VarIntSize(tt.value))
	}
}

func TestVarLong(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 9223372036854775807, -9223372036854775808} {
		var buf bytes.Buffer
		_, err := WriteVarLong(&buf, v)
		require.NoError(t, err)
		got, _, err := ReadVarLong(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestString(t *testing.T) {
	for _, s := range []string{"", "Hello", "Hello, World!", "日本語テスト"} {
		var buf bytes.Buffer
		require.NoError(t, WriteString(&buf, s))
		got, err := ReadString(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestReadStringRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteVarInt(&buf, MaxStringLength*4+1)
	require.NoError(t, err)
	_, err = ReadString(&buf)
	require.Error(t, err)
}

func TestTruncateUTF8(t *testing.T) {
	require.Equal(t, "hello", TruncateUTF8("hello", 10))
	require.Equal(t, "he", TruncateUTF8("hello", 2))
	// Multi-byte rune must not be split.
	s := "日本語"
	truncated := TruncateUTF8(s, 4)
	require.LessOrEqual(t, len(truncated), 4)
	require.Equal(t, "日", truncated)
}

func TestPacketRoundTrip(t *testing.T) {
	original := &Packet{ID: 0x00, Data: []byte("test data")}
	var buf bytes.Buffer
	require.NoError(t, WritePacket(&buf, original))
	got, err := ReadPacket(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, original.ID, got.ID)
	require.Equal(t, original.Data, got.Data)
}

func TestMarshalPacket(t *testing.T) {
	pkt := MarshalPacket(0x01, func(w *bytes.Buffer) {
		_ = WriteString(w, "hello")
	})
	require.EqualValues(t, 0x01, pkt.ID)
	s, err := ReadString(bytes.NewReader(pkt.Data))
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestInt32(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2147483647, -2147483648, 42} {
		var buf bytes.Buffer
		require.NoError(t, WriteInt32(&buf, v))
		got, err := ReadInt32(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestFloat64(t *testing.T) {
	for _, v := range []float64{0, 1.5, -1.5, 3.14159265} {
		var buf bytes.Buffer
		require.NoError(t, WriteFloat64(&buf, v))
		got, err := ReadFloat64(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestBool(t *testing.T) {
	for _, v := range []bool{true, false} {
		var buf bytes.Buffer
		require.NoError(t, WriteBool(&buf, v))
		got, err := ReadBool(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPosition(t *testing.T) {
	tests := []Position{
		{X: 0, Y: 0, Z: 0},
		{X: 8, Y: 64, Z: 8},
		{X: -1, Y: 0, Z: -1},
		// Negative y exercises the 12-bit field's sign extension.
		{X: 100, Y: -50, Z: -100},
		{X: -30000000, Y: -2048, Z: 30000000},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, WritePosition(&buf, tt))
		got, err := ReadPosition(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, tt, got)
	}
}

func TestScaledPositionRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 63.5, -63.96875} {
		require.InDelta(t, v, UnscalePosition(ScalePosition(v)), 1.0/32.0)
	}
}

func TestScaleVelocityClamps(t *testing.T) {
	require.Equal(t, int16(3.9*8000), ScaleVelocity(100))
	require.Equal(t, int16(-3.9*8000), ScaleVelocity(-100))
}

func TestScaleAngleWraps(t *testing.T) {
	b := ScaleAngle(360)
	require.Equal(t, byte(0), b)
}

func TestItemStackEmptyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteItemStack(&buf, EmptyItemStack()))
	got, err := ReadItemStack(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, got.IsEmpty())
}

func TestItemStackRoundTripWithNBT(t *testing.T) {
	stack := ItemStack{
		ID:       278,
		Count:    1,
		Metadata: 0,
		NBT: NBTCompound{
			"Unbreakable": &NBTByte{Value: 1},
			"ench": &NBTList{
				ElemType: NBTTagCompound,
				Value: []NBTTag{
					NBTCompound{"id": &NBTShort{Value: 16}, "lvl": &NBTShort{Value: 3}},
				},
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteItemStack(&buf, stack))
	got, err := ReadItemStack(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, stack.ID, got.ID)
	require.Equal(t, stack.Count, got.Count)
	require.NotNil(t, got.NBT)
	require.Equal(t, int8(1), got.NBT["Unbreakable"].(*NBTByte).Value)
}

func TestNBTCompoundRoundTrip(t *testing.T) {
	root := NBTCompound{
		"name":   &NBTString{Value: "dungeon"},
		"level":  &NBTInt{Value: 3},
		"coords": &NBTIntArray{Value: []int32{1, 2, 3}},
		"seeds":  &NBTLongArray{Value: []int64{10, 20}},
		"nested": NBTCompound{
			"flag": &NBTByte{Value: 0},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteNBT(&buf, root))
	got, err := ReadNBT(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, "dungeon", got["name"].(*NBTString).Value)
	require.Equal(t, int32(3), got["level"].(*NBTInt).Value)
	require.Equal(t, []int32{1, 2, 3}, got["coords"].(*NBTIntArray).Value)
	require.Equal(t, []int64{10, 20}, got["seeds"].(*NBTLongArray).Value)
	require.Equal(t, int8(0), got["nested"].(NBTCompound)["flag"].(*NBTByte).Value)
}

func TestNBTLookupPath(t *testing.T) {
	root := NBTCompound{
		"outer": NBTCompound{
			"inner": &NBTInt{Value: 42},
		},
	}
	tag := root.Lookup("outer/inner")
	require.NotNil(t, tag)
	require.Equal(t, int32(42), tag.(*NBTInt).Value)
	require.Nil(t, root.Lookup("missing"))
}
