package satisfactory

import "fmt"

// TruncatedHeaderError means the input ended before the fixed header was
// fully read.
type TruncatedHeaderError struct {
	Offset int64
}

func (e *TruncatedHeaderError) Error() string {
	return fmt.Sprintf("truncated header at byte %d", e.Offset)
}

// UnsupportedVersionError reports a save file version older than the
// minimum this decoder understands.
type UnsupportedVersionError struct {
	Version int32
	Min     int32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported save file version %d (minimum: %d)", e.Version, e.Min)
}

// TruncatedChunkError means a chunk header or its declared compressed span
// extends past the end of the input.
type TruncatedChunkError struct {
	Index    int
	Offset   int64
	Declared int
	Remain   int
}

func (e *TruncatedChunkError) Error() string {
	return fmt.Sprintf("truncated chunk %d at byte %d: declared %d bytes, %d remain", e.Index, e.Offset, e.Declared, e.Remain)
}

// CorruptChunkError wraps a zlib failure for one chunk.
type CorruptChunkError struct {
	Index  int
	Offset int64
	Err    error
}

func (e *CorruptChunkError) Error() string {
	return fmt.Sprintf("corrupt chunk %d at byte %d: %v", e.Index, e.Offset, e.Err)
}

func (e *CorruptChunkError) Unwrap() error { return e.Err }

// BodyLengthMismatchError means the body length prefix disagrees with the
// actual decompressed byte count.
type BodyLengthMismatchError struct {
	Declared uint64
	Actual   uint64
}

func (e *BodyLengthMismatchError) Error() string {
	return fmt.Sprintf("body length mismatch: prefix declares %d bytes, %d present", e.Declared, e.Actual)
}

// MalformedPropertyListError means an object's property list ran out of
// payload bytes before the terminator name.
type MalformedPropertyListError struct {
	ObjectPath string
}

func (e *MalformedPropertyListError) Error() string {
	return fmt.Sprintf("property list for %q missing terminator before end of payload", e.ObjectPath)
}

// ObjectLengthError means an object's decoded content overran its declared
// payload size.
type ObjectLengthError struct {
	ObjectPath string
}

func (e *ObjectLengthError) Error() string {
	return fmt.Sprintf("object %q longer than its declared size", e.ObjectPath)
}

// DanglingOuterReferenceError is returned in strict mode when a
// component's parent actor path resolves to nothing in its level's object
// table. Lenient mode keeps the unresolved path string.
type DanglingOuterReferenceError struct {
	Level  string
	Object string
	Outer  string
}

func (e *DanglingOuterReferenceError) Error() string {
	return fmt.Sprintf("component %q in level %q references missing parent %q", e.Object, e.Level, e.Outer)
}

// UnknownObjectTypeError reports an object header kind other than
// component (0) or actor (1).
type UnknownObjectTypeError struct {
	Kind int32
}

func (e *UnknownObjectTypeError) Error() string {
	return fmt.Sprintf("unknown object type %d", e.Kind)
}

// TrailingDataError means bytes remained after the final level and the
// optional collected-objects tail.
type TrailingDataError struct {
	Remain int
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("%d unconsumed bytes after final section", e.Remain)
}
