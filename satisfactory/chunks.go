package satisfactory

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"runtime"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// PackageFileTag is the Unreal Engine package signature that opens
	// every chunk header.
	PackageFileTag = 0x9E2A83C1

	// CompressorZlib is the only compressor byte this codec handles.
	CompressorZlib = 3

	// DefaultChunkSize is the historical maximum decompressed chunk size.
	DefaultChunkSize = 131072

	// Per-chunk sanity limits. A header declaring more than this is
	// treated as corrupt rather than allocated.
	maxCompressedChunkSize   = 16 * 1024 * 1024
	maxDecompressedChunkSize = 32 * 1024 * 1024
)

// ChunkHeader is the 49-byte record preceding each compressed span. The
// size pair is stored twice; both copies record the true lengths.
type ChunkHeader struct {
	PackageFileTag    uint64
	MaxChunkSize      uint64
	Compressor        uint8
	CompressedSize    uint64
	UncompressedSize  uint64
	CompressedSize2   uint64
	UncompressedSize2 uint64
}

const chunkHeaderSize = 49

type chunkSpan struct {
	offset       int64
	compressed   []byte
	uncompressed int
}

// Decompress reassembles the body from back-to-back chunk records. Chunks
// are inflated in parallel but the body is always assembled in file
// order; cancellation is honored at chunk boundaries only.
func Decompress(ctx context.Context, data []byte) ([]byte, error) {
	spans, total, err := scanChunks(data)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, nil
	}

	// Pre-sized output with one slot per chunk index keeps reassembly
	// order independent of completion order.
	body := make([]byte, total)
	offsets := make([]int, len(spans))
	for i := 1; i < len(spans); i++ {
		offsets[i] = offsets[i-1] + spans[i-1].uncompressed
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range spans {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return inflateChunk(i, spans[i], body[offsets[i]:offsets[i]+spans[i].uncompressed])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return body, nil
}

// scanChunks walks the chunk headers sequentially, validating each
// declared span against the remaining input. It stops exactly when the
// input is exhausted; a partial trailing header is an error, never
// silently ignored.
func scanChunks(data []byte) ([]chunkSpan, int, error) {
	var spans []chunkSpan
	var total int
	offset := int64(0)
	rest := data

	for len(rest) > 0 {
		index := len(spans)
		if len(rest) < chunkHeaderSize {
			return nil, 0, &TruncatedChunkError{Index: index, Offset: offset, Declared: chunkHeaderSize, Remain: len(rest)}
		}

		var header ChunkHeader
		if err := binary.Read(bytes.NewReader(rest[:chunkHeaderSize]), binary.LittleEndian, &header); err != nil {
			return nil, 0, &CorruptChunkError{Index: index, Offset: offset, Err: err}
		}
		if header.PackageFileTag != PackageFileTag {
			return nil, 0, &CorruptChunkError{Index: index, Offset: offset, Err: errors.Errorf("bad package file tag 0x%X", header.PackageFileTag)}
		}
		if header.Compressor != CompressorZlib {
			return nil, 0, &CorruptChunkError{Index: index, Offset: offset, Err: errors.Errorf("unsupported compressor %d", header.Compressor)}
		}
		if header.CompressedSize > maxCompressedChunkSize || header.UncompressedSize > maxDecompressedChunkSize {
			return nil, 0, &CorruptChunkError{Index: index, Offset: offset, Err: errors.Errorf("chunk sizes out of range (%d/%d)", header.CompressedSize, header.UncompressedSize)}
		}

		compressed := int(header.CompressedSize)
		if len(rest)-chunkHeaderSize < compressed {
			return nil, 0, &TruncatedChunkError{Index: index, Offset: offset, Declared: compressed, Remain: len(rest) - chunkHeaderSize}
		}

		spans = append(spans, chunkSpan{
			offset:       offset,
			compressed:   rest[chunkHeaderSize : chunkHeaderSize+compressed],
			uncompressed: int(header.UncompressedSize),
		})
		total += int(header.UncompressedSize)

		rest = rest[chunkHeaderSize+compressed:]
		offset += int64(chunkHeaderSize + compressed)
	}

	return spans, total, nil
}

func inflateChunk(index int, span chunkSpan, dst []byte) error {
	zr, err := zlib.NewReader(bytes.NewReader(span.compressed))
	if err != nil {
		return &CorruptChunkError{Index: index, Offset: span.offset, Err: err}
	}
	defer zr.Close()

	if _, err := io.ReadFull(zr, dst); err != nil {
		return &CorruptChunkError{Index: index, Offset: span.offset, Err: err}
	}

	// The stream must end exactly where the header said it would.
	var overflow [1]byte
	if n, _ := zr.Read(overflow[:]); n != 0 {
		return &CorruptChunkError{Index: index, Offset: span.offset, Err: errors.New("chunk longer than declared size")}
	}

	return nil
}

// Compress splits the body into chunks no larger than targetChunkSize,
// deflates each independently and emits the chunk records back-to-back.
// Boundary placement is free to differ between encoders; only the
// reassembled body content is contractual.
func Compress(body []byte, targetChunkSize int) ([]byte, error) {
	if targetChunkSize <= 0 {
		targetChunkSize = DefaultChunkSize
	}

	var out bytes.Buffer
	for len(body) > 0 {
		n := targetChunkSize
		if n > len(body) {
			n = len(body)
		}

		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(body[:n]); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}

		header := ChunkHeader{
			PackageFileTag:    PackageFileTag,
			MaxChunkSize:      DefaultChunkSize,
			Compressor:        CompressorZlib,
			CompressedSize:    uint64(compressed.Len()),
			UncompressedSize:  uint64(n),
			CompressedSize2:   uint64(compressed.Len()),
			UncompressedSize2: uint64(n),
		}
		if err := binary.Write(&out, binary.LittleEndian, header); err != nil {
			return nil, err
		}
		out.Write(compressed.Bytes())

		body = body[n:]
	}

	return out.Bytes(), nil
}
