package satisfactory

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"satisfactory-save/memory"
	"satisfactory-save/ue"
)

// Partitions is the validation-data block that opens the save body. The
// numbered fields have no known meaning; they are preserved verbatim so
// the block re-encodes byte-identically. Entry and level order is kept
// as read.
//
// On disk the block opens with a partition count that includes the
// unkeyed leading fields as its first partition, so the keyed entries
// number one fewer than the count says.
type Partitions struct {
	UnkStr1 string
	UnkNum1 int64
	UnkNum2 int32
	UnkStr2 string
	UnkNum3 int32
	Entries []PartitionEntry
}

type PartitionEntry struct {
	Key     string
	UnkNum1 int32
	UnkNum2 int32
	Levels  []PartitionLevel
}

type PartitionLevel struct {
	Name  string
	Value uint32
}

func readPartitions(r *bytes.Reader) (Partitions, error) {
	var partitions Partitions

	count, err := memory.ReadInt[int32](r)
	if err != nil {
		return partitions, errors.Wrap(err, "partition count")
	}
	if count < 0 {
		return partitions, errors.Errorf("negative partition count %d", count)
	}

	if partitions.UnkStr1, err = ue.ReadFString(r); err != nil {
		return partitions, errors.Wrap(err, "partitions opening string")
	}
	if partitions.UnkNum1, err = memory.ReadInt[int64](r); err != nil {
		return partitions, err
	}
	if partitions.UnkNum2, err = memory.ReadInt[int32](r); err != nil {
		return partitions, err
	}
	if partitions.UnkStr2, err = ue.ReadFString(r); err != nil {
		return partitions, err
	}
	if partitions.UnkNum3, err = memory.ReadInt[int32](r); err != nil {
		return partitions, err
	}

	entries := int(count) - 1
	if entries < 0 {
		entries = 0
	}
	partitions.Entries = make([]PartitionEntry, entries)
	for i := range partitions.Entries {
		if partitions.Entries[i], err = readPartitionEntry(r); err != nil {
			return partitions, errors.Wrapf(err, "partition %d", i)
		}
	}
	return partitions, nil
}

func readPartitionEntry(r *bytes.Reader) (PartitionEntry, error) {
	var entry PartitionEntry
	var err error

	if entry.Key, err = ue.ReadFString(r); err != nil {
		return entry, err
	}
	if entry.UnkNum1, err = memory.ReadInt[int32](r); err != nil {
		return entry, err
	}
	if entry.UnkNum2, err = memory.ReadInt[int32](r); err != nil {
		return entry, err
	}

	count, err := memory.ReadInt[int32](r)
	if err != nil {
		return entry, err
	}
	if count < 0 {
		return entry, errors.Errorf("negative level count %d", count)
	}

	entry.Levels = make([]PartitionLevel, count)
	for i := int32(0); i < count; i++ {
		if entry.Levels[i].Name, err = ue.ReadFString(r); err != nil {
			return entry, err
		}
		if entry.Levels[i].Value, err = memory.ReadInt[uint32](r); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

func writePartitions(w io.Writer, partitions *Partitions) error {
	// The leading fields count as the first partition.
	if err := memory.WriteInt(w, int32(len(partitions.Entries)+1)); err != nil {
		return err
	}

	if err := ue.WriteFString(w, partitions.UnkStr1); err != nil {
		return err
	}
	if err := memory.WriteInt(w, partitions.UnkNum1); err != nil {
		return err
	}
	if err := memory.WriteInt(w, partitions.UnkNum2); err != nil {
		return err
	}
	if err := ue.WriteFString(w, partitions.UnkStr2); err != nil {
		return err
	}
	if err := memory.WriteInt(w, partitions.UnkNum3); err != nil {
		return err
	}

	for i := range partitions.Entries {
		if err := writePartitionEntry(w, &partitions.Entries[i]); err != nil {
			return errors.Wrapf(err, "partition %d", i)
		}
	}
	return nil
}

func writePartitionEntry(w io.Writer, entry *PartitionEntry) error {
	if err := ue.WriteFString(w, entry.Key); err != nil {
		return err
	}
	if err := memory.WriteInt(w, entry.UnkNum1); err != nil {
		return err
	}
	if err := memory.WriteInt(w, entry.UnkNum2); err != nil {
		return err
	}

	if err := memory.WriteInt(w, int32(len(entry.Levels))); err != nil {
		return err
	}
	for _, level := range entry.Levels {
		if err := ue.WriteFString(w, level.Name); err != nil {
			return err
		}
		if err := memory.WriteInt(w, level.Value); err != nil {
			return err
		}
	}
	return nil
}
