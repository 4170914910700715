// Package ue implements the Unreal Engine primitive types that appear in
// serialized save data: length-prefixed strings, GUIDs, vectors,
// quaternions and colors.
package ue

import (
	"io"
	"unicode/utf16"

	"satisfactory-save/memory"
)

// ReadFString reads a length-prefixed, null-terminated string. The length
// field is signed: a positive value is a UTF-8 byte count, a negative
// value means the string is stored as -length UTF-16 code units, zero is
// the empty string.
func ReadFString(r io.Reader) (string, error) {
	length, err := memory.ReadInt[int32](r)
	if err != nil {
		return "", err
	}

	switch {
	case length == 0:
		return "", nil

	case length > 0:
		data, err := memory.ReadBytes(r, int(length))
		if err != nil {
			return "", err
		}
		// Strip the null terminator.
		if data[len(data)-1] == 0 {
			data = data[:len(data)-1]
		}
		return string(data), nil

	default:
		units := make([]uint16, -length)
		for i := range units {
			units[i], err = memory.ReadInt[uint16](r)
			if err != nil {
				return "", err
			}
		}
		if len(units) > 0 && units[len(units)-1] == 0 {
			units = units[:len(units)-1]
		}
		return string(utf16.Decode(units)), nil
	}
}

// WriteFString writes the inverse of ReadFString. ASCII-only strings are
// written UTF-8, anything else UTF-16 with a negative length field. An
// empty string is a bare zero length with no terminator. A string that was
// stored wide on disk despite being ASCII-only re-encodes narrow; this is
// a known fidelity gap of the same kind as the canonical-boolean rule.
func WriteFString(w io.Writer, s string) error {
	if s == "" {
		return memory.WriteInt[int32](w, 0)
	}

	if isASCII(s) {
		if err := memory.WriteInt[int32](w, int32(len(s)+1)); err != nil {
			return err
		}
		if _, err := w.Write([]byte(s)); err != nil {
			return err
		}
		_, err := w.Write([]byte{0})
		return err
	}

	units := utf16.Encode([]rune(s))
	units = append(units, 0)
	if err := memory.WriteInt[int32](w, int32(-len(units))); err != nil {
		return err
	}
	for _, u := range units {
		if err := memory.WriteInt(w, u); err != nil {
			return err
		}
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// FGuid is the 16-byte GUID exactly as stored on disk.
type FGuid [16]byte

func (g FGuid) IsZero() bool {
	return g == FGuid{}
}

func ReadGuid(r io.Reader) (FGuid, error) {
	var guid FGuid
	data, err := memory.ReadBytes(r, len(guid))
	if err != nil {
		return FGuid{}, err
	}
	copy(guid[:], data)
	return guid, nil
}

func WriteGuid(w io.Writer, guid FGuid) error {
	_, err := w.Write(guid[:])
	return err
}

type FQuaternion struct {
	X float32
	Y float32
	Z float32
	W float32
}

func ReadFQuaternion(r io.Reader) (FQuaternion, error) {
	var q FQuaternion
	var err error
	if q.X, err = memory.ReadFloat[float32](r); err != nil {
		return q, err
	}
	if q.Y, err = memory.ReadFloat[float32](r); err != nil {
		return q, err
	}
	if q.Z, err = memory.ReadFloat[float32](r); err != nil {
		return q, err
	}
	q.W, err = memory.ReadFloat[float32](r)
	return q, err
}

func WriteFQuaternion(w io.Writer, q FQuaternion) error {
	for _, v := range []float32{q.X, q.Y, q.Z, q.W} {
		if err := memory.WriteFloat(w, v); err != nil {
			return err
		}
	}
	return nil
}

type FQuaternionDouble struct {
	X float64
	Y float64
	Z float64
	W float64
}

func ReadFQuaternionDouble(r io.Reader) (FQuaternionDouble, error) {
	var q FQuaternionDouble
	var err error
	if q.X, err = memory.ReadFloat[float64](r); err != nil {
		return q, err
	}
	if q.Y, err = memory.ReadFloat[float64](r); err != nil {
		return q, err
	}
	if q.Z, err = memory.ReadFloat[float64](r); err != nil {
		return q, err
	}
	q.W, err = memory.ReadFloat[float64](r)
	return q, err
}

func WriteFQuaternionDouble(w io.Writer, q FQuaternionDouble) error {
	for _, v := range []float64{q.X, q.Y, q.Z, q.W} {
		if err := memory.WriteFloat(w, v); err != nil {
			return err
		}
	}
	return nil
}

type FVector struct {
	X float32
	Y float32
	Z float32
}

func ReadFVector(r io.Reader) (FVector, error) {
	var v FVector
	var err error
	if v.X, err = memory.ReadFloat[float32](r); err != nil {
		return v, err
	}
	if v.Y, err = memory.ReadFloat[float32](r); err != nil {
		return v, err
	}
	v.Z, err = memory.ReadFloat[float32](r)
	return v, err
}

func WriteFVector(w io.Writer, v FVector) error {
	for _, f := range []float32{v.X, v.Y, v.Z} {
		if err := memory.WriteFloat(w, f); err != nil {
			return err
		}
	}
	return nil
}

type FVectorDouble struct {
	X float64
	Y float64
	Z float64
}

func ReadFVectorDouble(r io.Reader) (FVectorDouble, error) {
	var v FVectorDouble
	var err error
	if v.X, err = memory.ReadFloat[float64](r); err != nil {
		return v, err
	}
	if v.Y, err = memory.ReadFloat[float64](r); err != nil {
		return v, err
	}
	v.Z, err = memory.ReadFloat[float64](r)
	return v, err
}

func WriteFVectorDouble(w io.Writer, v FVectorDouble) error {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if err := memory.WriteFloat(w, f); err != nil {
			return err
		}
	}
	return nil
}

type FVector2DDouble struct {
	X float64
	Y float64
}

func ReadFVector2DDouble(r io.Reader) (FVector2DDouble, error) {
	var v FVector2DDouble
	var err error
	if v.X, err = memory.ReadFloat[float64](r); err != nil {
		return v, err
	}
	v.Y, err = memory.ReadFloat[float64](r)
	return v, err
}

func WriteFVector2DDouble(w io.Writer, v FVector2DDouble) error {
	if err := memory.WriteFloat(w, v.X); err != nil {
		return err
	}
	return memory.WriteFloat(w, v.Y)
}

type FVector4Double struct {
	A float64
	B float64
	C float64
	D float64
}

func ReadFVector4Double(r io.Reader) (FVector4Double, error) {
	var v FVector4Double
	var err error
	if v.A, err = memory.ReadFloat[float64](r); err != nil {
		return v, err
	}
	if v.B, err = memory.ReadFloat[float64](r); err != nil {
		return v, err
	}
	if v.C, err = memory.ReadFloat[float64](r); err != nil {
		return v, err
	}
	v.D, err = memory.ReadFloat[float64](r)
	return v, err
}

func WriteFVector4Double(w io.Writer, v FVector4Double) error {
	for _, f := range []float64{v.A, v.B, v.C, v.D} {
		if err := memory.WriteFloat(w, f); err != nil {
			return err
		}
	}
	return nil
}

type FIntVector struct {
	X int32
	Y int32
	Z int32
}

func ReadFIntVector(r io.Reader) (FIntVector, error) {
	var v FIntVector
	var err error
	if v.X, err = memory.ReadInt[int32](r); err != nil {
		return v, err
	}
	if v.Y, err = memory.ReadInt[int32](r); err != nil {
		return v, err
	}
	v.Z, err = memory.ReadInt[int32](r)
	return v, err
}

func WriteFIntVector(w io.Writer, v FIntVector) error {
	for _, i := range []int32{v.X, v.Y, v.Z} {
		if err := memory.WriteInt(w, i); err != nil {
			return err
		}
	}
	return nil
}

type FIntVector4 struct {
	A int32
	B int32
	C int32
	D int32
}

func ReadFIntVector4(r io.Reader) (FIntVector4, error) {
	var v FIntVector4
	var err error
	if v.A, err = memory.ReadInt[int32](r); err != nil {
		return v, err
	}
	if v.B, err = memory.ReadInt[int32](r); err != nil {
		return v, err
	}
	if v.C, err = memory.ReadInt[int32](r); err != nil {
		return v, err
	}
	v.D, err = memory.ReadInt[int32](r)
	return v, err
}

func WriteFIntVector4(w io.Writer, v FIntVector4) error {
	for _, i := range []int32{v.A, v.B, v.C, v.D} {
		if err := memory.WriteInt(w, i); err != nil {
			return err
		}
	}
	return nil
}

type FIntPoint struct {
	X int32
	Y int32
}

func ReadFIntPoint(r io.Reader) (FIntPoint, error) {
	var v FIntPoint
	var err error
	if v.X, err = memory.ReadInt[int32](r); err != nil {
		return v, err
	}
	v.Y, err = memory.ReadInt[int32](r)
	return v, err
}

func WriteFIntPoint(w io.Writer, v FIntPoint) error {
	if err := memory.WriteInt(w, v.X); err != nil {
		return err
	}
	return memory.WriteInt(w, v.Y)
}

// FLinearColor stores channels as 32-bit floats.
type FLinearColor struct {
	R float32
	G float32
	B float32
	A float32
}

func ReadFLinearColor(r io.Reader) (FLinearColor, error) {
	var c FLinearColor
	var err error
	if c.R, err = memory.ReadFloat[float32](r); err != nil {
		return c, err
	}
	if c.G, err = memory.ReadFloat[float32](r); err != nil {
		return c, err
	}
	if c.B, err = memory.ReadFloat[float32](r); err != nil {
		return c, err
	}
	c.A, err = memory.ReadFloat[float32](r)
	return c, err
}

func WriteFLinearColor(w io.Writer, c FLinearColor) error {
	for _, f := range []float32{c.R, c.G, c.B, c.A} {
		if err := memory.WriteFloat(w, f); err != nil {
			return err
		}
	}
	return nil
}

// FColor stores channels as single bytes.
type FColor struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

func ReadFColor(r io.Reader) (FColor, error) {
	var c FColor
	var err error
	if c.R, err = memory.ReadInt[uint8](r); err != nil {
		return c, err
	}
	if c.G, err = memory.ReadInt[uint8](r); err != nil {
		return c, err
	}
	if c.B, err = memory.ReadInt[uint8](r); err != nil {
		return c, err
	}
	c.A, err = memory.ReadInt[uint8](r)
	return c, err
}

func WriteFColor(w io.Writer, c FColor) error {
	_, err := w.Write([]byte{c.R, c.G, c.B, c.A})
	return err
}
