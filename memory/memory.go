// Package memory holds the shared low-level readers and writers for
// fixed-width little-endian values. Every other layer of the codec is
// built on top of these.
package memory

import (
	"encoding/binary"
	"fmt"
	"io"
)

type Int interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64
}

type Float interface {
	float32 | float64
}

// EOFError reports a read past the end of the remaining buffer.
type EOFError struct {
	Requested int
	Available int
}

func (e *EOFError) Error() string {
	return fmt.Sprintf("unexpected end of data: requested %d bytes, %d available", e.Requested, e.Available)
}

// remaining reports the unread byte count when the reader exposes one
// (bytes.Reader and friends do), -1 otherwise.
func remaining(r io.Reader) int {
	if l, ok := r.(interface{ Len() int }); ok {
		return l.Len()
	}
	return -1
}

func eof(r io.Reader, requested int, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &EOFError{Requested: requested, Available: remaining(r)}
	}
	return err
}

func ReadInt[T Int](r io.Reader) (T, error) {
	var value T
	err := binary.Read(r, binary.LittleEndian, &value)
	if err != nil {
		return 0, eof(r, binary.Size(value), err)
	}
	return value, nil
}

func WriteInt[T Int](w io.Writer, value T) error {
	return binary.Write(w, binary.LittleEndian, value)
}

func ReadFloat[T Float](r io.Reader) (T, error) {
	var value T
	err := binary.Read(r, binary.LittleEndian, &value)
	if err != nil {
		return 0, eof(r, binary.Size(value), err)
	}
	return value, nil
}

func WriteFloat[T Float](w io.Writer, value T) error {
	return binary.Write(w, binary.LittleEndian, value)
}

// ReadBool reads a one-byte boolean. Any nonzero byte reads as true;
// WriteBool only ever emits 0 or 1, so a nonstandard truthy byte does not
// survive a round trip.
func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadInt[uint8](r)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func WriteBool(w io.Writer, value bool) error {
	var b uint8
	if value {
		b = 1
	}
	return WriteInt(w, b)
}

// ReadBytes reads exactly n bytes, checking the remaining length up front
// so a short buffer reports requested vs available instead of consuming a
// partial span.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative byte count %d", n)
	}
	if avail := remaining(r); avail >= 0 && avail < n {
		return nil, &EOFError{Requested: n, Available: avail}
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, eof(r, n, err)
	}
	return data, nil
}
