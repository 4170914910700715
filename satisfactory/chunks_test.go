package satisfactory

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBody(n int) []byte {
	body := make([]byte, n)
	for i := range body {
		body[i] = byte(i * 31)
	}
	return body
}

func TestChunkRoundTripEmpty(t *testing.T) {
	chunks, err := Compress(nil, DefaultChunkSize)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	body, err := Decompress(context.Background(), chunks)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestChunkRoundTripSingle(t *testing.T) {
	body := testBody(1000)

	chunks, err := Compress(body, DefaultChunkSize)
	require.NoError(t, err)

	decoded, err := Decompress(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, body, decoded)
}

func TestChunkRoundTripMany(t *testing.T) {
	body := testBody(350)

	// Forces four chunks: 100+100+100+50.
	chunks, err := Compress(body, 100)
	require.NoError(t, err)

	decoded, err := Decompress(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, body, decoded)
}

func TestChunkBoundariesNotContractual(t *testing.T) {
	body := testBody(150)

	small, err := Compress(body, 50)
	require.NoError(t, err)
	large, err := Compress(body, DefaultChunkSize)
	require.NoError(t, err)

	fromSmall, err := Decompress(context.Background(), small)
	require.NoError(t, err)
	fromLarge, err := Decompress(context.Background(), large)
	require.NoError(t, err)
	assert.Equal(t, fromSmall, fromLarge)
}

func TestDecompressTruncatedAtEveryOffset(t *testing.T) {
	chunks, err := Compress(testBody(300), 100)
	require.NoError(t, err)

	// A cut at a chunk boundary is a valid shorter stream; every other
	// cut leaves either a partial header or a short compressed span.
	boundaries := map[int]bool{0: true}
	for offset := 0; offset < len(chunks); {
		compressed := binary.LittleEndian.Uint64(chunks[offset+17 : offset+25])
		offset += chunkHeaderSize + int(compressed)
		boundaries[offset] = true
	}

	for cut := 1; cut < len(chunks); cut++ {
		if boundaries[cut] {
			continue
		}
		_, err := Decompress(context.Background(), chunks[:cut])
		require.Errorf(t, err, "no error for stream cut at %d/%d", cut, len(chunks))
	}
}

func TestDecompressBadTag(t *testing.T) {
	chunks, err := Compress(testBody(100), DefaultChunkSize)
	require.NoError(t, err)
	chunks[0] ^= 0xFF

	_, err = Decompress(context.Background(), chunks)
	require.Error(t, err)
	corrupt, ok := err.(*CorruptChunkError)
	require.True(t, ok, "expected *CorruptChunkError, got %T", err)
	assert.Equal(t, 0, corrupt.Index)
	assert.Equal(t, int64(0), corrupt.Offset)
}

func TestDecompressBadCompressor(t *testing.T) {
	chunks, err := Compress(testBody(100), DefaultChunkSize)
	require.NoError(t, err)
	chunks[16] = 9 // compressor byte follows the two u64 fields

	_, err = Decompress(context.Background(), chunks)
	require.Error(t, err)
	_, ok := err.(*CorruptChunkError)
	require.True(t, ok, "expected *CorruptChunkError, got %T", err)
}

func TestDecompressCorruptPayload(t *testing.T) {
	chunks, err := Compress(testBody(2000), DefaultChunkSize)
	require.NoError(t, err)

	// Damage the deflate stream past the zlib header.
	for i := chunkHeaderSize + 8; i < chunkHeaderSize+16; i++ {
		chunks[i] ^= 0xA5
	}

	_, err = Decompress(context.Background(), chunks)
	require.Error(t, err)
	corrupt, ok := err.(*CorruptChunkError)
	require.True(t, ok, "expected *CorruptChunkError, got %T", err)
	assert.Equal(t, 0, corrupt.Index)
}

func TestDecompressSecondChunkIndexed(t *testing.T) {
	body := testBody(200)
	chunks, err := Compress(body, 100)
	require.NoError(t, err)

	// Locate the second chunk header and break its tag.
	first := bytes.Index(chunks[1:], chunks[:8]) + 1
	require.Greater(t, first, chunkHeaderSize)
	chunks[first] ^= 0xFF

	_, err = Decompress(context.Background(), chunks)
	require.Error(t, err)
	corrupt, ok := err.(*CorruptChunkError)
	require.True(t, ok)
	assert.Equal(t, 1, corrupt.Index)
	assert.Equal(t, int64(first), corrupt.Offset)
}

func TestDecompressCancelled(t *testing.T) {
	chunks, err := Compress(testBody(500), 100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Decompress(ctx, chunks)
	require.ErrorIs(t, err, context.Canceled)
}
