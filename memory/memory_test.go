package memory

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteInt[int8](&buf, -7))
	require.NoError(t, WriteInt[uint8](&buf, 200))
	require.NoError(t, WriteInt[int16](&buf, -12345))
	require.NoError(t, WriteInt[int32](&buf, -2000000000))
	require.NoError(t, WriteInt[uint32](&buf, 0x9E2A83C1))
	require.NoError(t, WriteInt[int64](&buf, 1<<40))
	require.NoError(t, WriteInt[uint64](&buf, 1<<63))

	r := bytes.NewReader(buf.Bytes())
	i8, err := ReadInt[int8](r)
	require.NoError(t, err)
	assert.Equal(t, int8(-7), i8)
	u8, err := ReadInt[uint8](r)
	require.NoError(t, err)
	assert.Equal(t, uint8(200), u8)
	i16, err := ReadInt[int16](r)
	require.NoError(t, err)
	assert.Equal(t, int16(-12345), i16)
	i32, err := ReadInt[int32](r)
	require.NoError(t, err)
	assert.Equal(t, int32(-2000000000), i32)
	u32, err := ReadInt[uint32](r)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x9E2A83C1), u32)
	i64, err := ReadInt[int64](r)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), i64)
	u64, err := ReadInt[uint64](r)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63), u64)
	assert.Zero(t, r.Len())
}

func TestIntLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInt[uint32](&buf, 0x01020304))
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf.Bytes())
}

func TestFloatRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFloat[float32](&buf, 1.5))
	require.NoError(t, WriteFloat[float64](&buf, -2.25))

	r := bytes.NewReader(buf.Bytes())
	f32, err := ReadFloat[float32](r)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)
	f64, err := ReadFloat[float64](r)
	require.NoError(t, err)
	assert.Equal(t, float64(-2.25), f64)
}

func TestReadIntShortBuffer(t *testing.T) {
	r := bytes.NewReader([]byte{0x01, 0x02})
	_, err := ReadInt[int32](r)
	require.Error(t, err)

	eofErr, ok := err.(*EOFError)
	require.True(t, ok, "expected *EOFError, got %T", err)
	assert.Equal(t, 4, eofErr.Requested)
}

func TestReadBool(t *testing.T) {
	for _, b := range []byte{1, 2, 0xFF} {
		value, err := ReadBool(bytes.NewReader([]byte{b}))
		require.NoError(t, err)
		assert.True(t, value)
	}

	value, err := ReadBool(bytes.NewReader([]byte{0}))
	require.NoError(t, err)
	assert.False(t, value)
}

func TestWriteBoolCanonical(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBool(&buf, true))
	require.NoError(t, WriteBool(&buf, false))
	assert.Equal(t, []byte{1, 0}, buf.Bytes())
}

func TestReadBytes(t *testing.T) {
	r := bytes.NewReader([]byte{1, 2, 3, 4})

	data, err := ReadBytes(r, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = ReadBytes(r, 2)
	require.Error(t, err)
	eofErr, ok := err.(*EOFError)
	require.True(t, ok)
	assert.Equal(t, 2, eofErr.Requested)
	assert.Equal(t, 1, eofErr.Available)

	// The failed read must not have consumed the remaining byte.
	data, err = ReadBytes(r, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, data)
}

func TestReadBytesNegative(t *testing.T) {
	_, err := ReadBytes(bytes.NewReader(nil), -1)
	require.Error(t, err)
}

func TestReadBytesEmpty(t *testing.T) {
	data, err := ReadBytes(bytes.NewReader(nil), 0)
	require.NoError(t, err)
	assert.Empty(t, data)
}
