package satisfactory

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"satisfactory-save/memory"
	"satisfactory-save/ue"
)

// MinSaveFileVersion is the oldest save file version the body decoder
// understands. Older versions laid the body out differently.
const MinSaveFileVersion = 42

// Header is the fixed-order metadata block preceding the compressed body.
// Field order and widths are part of the on-disk contract; none may be
// reordered or padded.
type Header struct {
	SaveHeaderVersion     int32
	SaveFileVersion       int32
	BuildVersion          int32
	MapName               string
	MapOptions            string
	SessionName           string
	PlayedSeconds         int32
	SaveTimestamp         int64
	SessionVisibility     int8
	EditorObjectVersion   int32
	ModMetadata           string
	ModFlags              int32
	SaveIdentifier        string
	IsPartitionedWorld    int32
	SaveDataHash          [20]byte
	IsCreativeModeEnabled int32
}

// ReadHeader decodes the header from the front of data and returns it with
// the number of bytes consumed, which is the offset at which the chunked
// body begins.
func ReadHeader(data []byte) (Header, int, error) {
	r := bytes.NewReader(data)
	header, err := readHeader(r)
	if err != nil {
		var eofErr *memory.EOFError
		if errors.As(err, &eofErr) {
			return Header{}, 0, &TruncatedHeaderError{Offset: int64(len(data) - r.Len())}
		}
		return Header{}, 0, err
	}

	if header.SaveFileVersion < MinSaveFileVersion {
		return Header{}, 0, &UnsupportedVersionError{Version: header.SaveFileVersion, Min: MinSaveFileVersion}
	}

	return header, len(data) - r.Len(), nil
}

func readHeader(r io.Reader) (Header, error) {
	var header Header
	var err error

	if header.SaveHeaderVersion, err = memory.ReadInt[int32](r); err != nil {
		return header, errors.Wrap(err, "save header version")
	}
	if header.SaveFileVersion, err = memory.ReadInt[int32](r); err != nil {
		return header, errors.Wrap(err, "save file version")
	}
	if header.BuildVersion, err = memory.ReadInt[int32](r); err != nil {
		return header, errors.Wrap(err, "build version")
	}
	if header.MapName, err = ue.ReadFString(r); err != nil {
		return header, errors.Wrap(err, "map name")
	}
	if header.MapOptions, err = ue.ReadFString(r); err != nil {
		return header, errors.Wrap(err, "map options")
	}
	if header.SessionName, err = ue.ReadFString(r); err != nil {
		return header, errors.Wrap(err, "session name")
	}
	if header.PlayedSeconds, err = memory.ReadInt[int32](r); err != nil {
		return header, errors.Wrap(err, "played seconds")
	}
	if header.SaveTimestamp, err = memory.ReadInt[int64](r); err != nil {
		return header, errors.Wrap(err, "save timestamp")
	}
	if header.SessionVisibility, err = memory.ReadInt[int8](r); err != nil {
		return header, errors.Wrap(err, "session visibility")
	}
	if header.EditorObjectVersion, err = memory.ReadInt[int32](r); err != nil {
		return header, errors.Wrap(err, "editor object version")
	}
	if header.ModMetadata, err = ue.ReadFString(r); err != nil {
		return header, errors.Wrap(err, "mod metadata")
	}
	if header.ModFlags, err = memory.ReadInt[int32](r); err != nil {
		return header, errors.Wrap(err, "mod flags")
	}
	if header.SaveIdentifier, err = ue.ReadFString(r); err != nil {
		return header, errors.Wrap(err, "save identifier")
	}
	if header.IsPartitionedWorld, err = memory.ReadInt[int32](r); err != nil {
		return header, errors.Wrap(err, "is partitioned world")
	}
	hash, err := memory.ReadBytes(r, len(header.SaveDataHash))
	if err != nil {
		return header, errors.Wrap(err, "save data hash")
	}
	copy(header.SaveDataHash[:], hash)
	if header.IsCreativeModeEnabled, err = memory.ReadInt[int32](r); err != nil {
		return header, errors.Wrap(err, "is creative mode enabled")
	}

	return header, nil
}

// WriteHeader encodes the header. For any header obtained from ReadHeader
// the output is byte-identical to the input it was decoded from.
func WriteHeader(w io.Writer, header Header) error {
	if err := memory.WriteInt(w, header.SaveHeaderVersion); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.SaveFileVersion); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.BuildVersion); err != nil {
		return err
	}
	if err := ue.WriteFString(w, header.MapName); err != nil {
		return err
	}
	if err := ue.WriteFString(w, header.MapOptions); err != nil {
		return err
	}
	if err := ue.WriteFString(w, header.SessionName); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.PlayedSeconds); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.SaveTimestamp); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.SessionVisibility); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.EditorObjectVersion); err != nil {
		return err
	}
	if err := ue.WriteFString(w, header.ModMetadata); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.ModFlags); err != nil {
		return err
	}
	if err := ue.WriteFString(w, header.SaveIdentifier); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.IsPartitionedWorld); err != nil {
		return err
	}
	if _, err := w.Write(header.SaveDataHash[:]); err != nil {
		return err
	}
	return memory.WriteInt(w, header.IsCreativeModeEnabled)
}
