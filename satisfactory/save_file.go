package satisfactory

import (
	"bytes"
	"context"

	"github.com/pkg/errors"

	"satisfactory-save/memory"
)

// Save is a fully decoded save file: header plus decompressed body
// content. Encode rebuilds the file from this document alone, with every
// length prefix and chunk boundary recomputed.
type Save struct {
	Header     Header
	Partitions Partitions
	Levels     []Level

	// Trailing collected-objects list. The flag distinguishes an absent
	// list from an empty one so the tail re-encodes as read.
	HasCollectedObjects bool
	CollectedObjects    []ObjectReference
}

type loadOptions struct {
	strictReferences bool
}

type Option func(*loadOptions)

// WithStrictReferences makes Load fail with DanglingOuterReferenceError
// when a component names a parent actor absent from its level's object
// table. Default is lenient: outer paths are kept as plain strings.
func WithStrictReferences() Option {
	return func(o *loadOptions) {
		o.strictReferences = true
	}
}

// Load decodes a complete save file from its raw bytes.
func Load(data []byte, opts ...Option) (*Save, error) {
	return LoadContext(context.Background(), data, opts...)
}

// LoadContext is Load with cancellation of the chunk decompression
// stage.
func LoadContext(ctx context.Context, data []byte, opts ...Option) (*Save, error) {
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}

	header, headerSize, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	log.Debugf("read %d-byte header, save file version %d, map %q", headerSize, header.SaveFileVersion, header.MapName)

	body, err := Decompress(ctx, data[headerSize:])
	if err != nil {
		return nil, err
	}
	log.Debugf("decompressed %d-byte body", len(body))

	save := &Save{Header: header}
	if err := save.readBody(body); err != nil {
		return nil, err
	}

	if options.strictReferences {
		if err := resolveOuterReferences(save.Levels); err != nil {
			return nil, err
		}
	}
	return save, nil
}

func (s *Save) readBody(body []byte) error {
	r := bytes.NewReader(body)

	declared, err := memory.ReadInt[uint64](r)
	if err != nil {
		return errors.Wrap(err, "body length prefix")
	}
	if actual := uint64(r.Len()); declared != actual {
		return &BodyLengthMismatchError{Declared: declared, Actual: actual}
	}

	if s.Partitions, err = readPartitions(r); err != nil {
		return err
	}

	levelCount, err := memory.ReadInt[int32](r)
	if err != nil {
		return err
	}
	if levelCount < 0 {
		return errors.Errorf("negative level count %d", levelCount)
	}
	log.Debugf("reading %d levels", levelCount)

	s.Levels = make([]Level, levelCount)
	for i := int32(0); i < levelCount; i++ {
		if s.Levels[i], err = readLevel(r); err != nil {
			return errors.Wrapf(err, "level %d/%d", i+1, levelCount)
		}
	}

	if r.Len() == 0 {
		return nil
	}

	s.HasCollectedObjects = true
	if s.CollectedObjects, err = readObjectReferenceList(r); err != nil {
		return errors.Wrap(err, "collected objects")
	}
	if r.Len() != 0 {
		return &TrailingDataError{Remain: r.Len()}
	}
	return nil
}

func (s *Save) writeBody() ([]byte, error) {
	var content bytes.Buffer

	if err := writePartitions(&content, &s.Partitions); err != nil {
		return nil, err
	}

	if err := memory.WriteInt(&content, int32(len(s.Levels))); err != nil {
		return nil, err
	}
	for i := range s.Levels {
		if err := writeLevel(&content, &s.Levels[i]); err != nil {
			return nil, errors.Wrapf(err, "level %d/%d", i+1, len(s.Levels))
		}
	}

	if s.HasCollectedObjects {
		if err := writeObjectReferenceList(&content, s.CollectedObjects); err != nil {
			return nil, errors.Wrap(err, "collected objects")
		}
	}

	var body bytes.Buffer
	body.Grow(8 + content.Len())
	if err := memory.WriteInt(&body, uint64(content.Len())); err != nil {
		return nil, err
	}
	if _, err := body.Write(content.Bytes()); err != nil {
		return nil, err
	}
	return body.Bytes(), nil
}

// Encode serializes the document back to save-file bytes: header, then
// the body recompressed into default-size chunks.
func (s *Save) Encode() ([]byte, error) {
	var out bytes.Buffer

	if err := WriteHeader(&out, s.Header); err != nil {
		return nil, errors.Wrap(err, "header")
	}

	body, err := s.writeBody()
	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	chunks, err := Compress(body, DefaultChunkSize)
	if err != nil {
		return nil, errors.Wrap(err, "chunks")
	}
	if _, err := out.Write(chunks); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
