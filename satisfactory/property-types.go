package satisfactory

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"satisfactory-save/memory"
	"satisfactory-save/ue"
)

// ObjectReference is a name-based weak reference to another object: a
// level name and a path within it. It is resolved by table lookup, never
// by direct linkage. An empty path is a null reference.
type ObjectReference struct {
	LevelName string
	PathName  string
}

func (r ObjectReference) IsNull() bool {
	return r.PathName == ""
}

func readObjectReference(r io.Reader) (ObjectReference, error) {
	var ref ObjectReference
	var err error
	if ref.LevelName, err = ue.ReadFString(r); err != nil {
		return ref, err
	}
	ref.PathName, err = ue.ReadFString(r)
	return ref, err
}

func writeObjectReference(w io.Writer, ref ObjectReference) error {
	if err := ue.WriteFString(w, ref.LevelName); err != nil {
		return err
	}
	return ue.WriteFString(w, ref.PathName)
}

// SoftObjectReference is the three-string form used by soft object array
// elements.
type SoftObjectReference struct {
	LevelName     string
	PathName      string
	SubPathString string
}

type EnumProperty struct {
	EnumType string
	Value    string
}

// ByteProperty carries either a raw byte (EnumType "None") or an enum
// value name.
type ByteProperty struct {
	EnumType  string
	ByteValue uint8
	EnumValue string
}

// TextProperty is a localized string with history metadata. Only the
// history shapes the decoder knows are expanded; anything else is kept as
// raw bytes so the property remains skippable.
type TextProperty struct {
	Flags       int32
	HistoryType uint8

	// HistoryType 0 (base)
	Namespace    string
	Key          string
	SourceString string

	// HistoryTypes 1 and 3 (argument format)
	SourceFormat *TextProperty
	Arguments    []TextArgument

	// HistoryType 10 (transform)
	SourceText    *TextProperty
	TransformType uint8

	// HistoryType 11 (string table entry)
	TableID string
	TextKey string

	// HistoryType 255 (none)
	HasCultureInvariantString int32
	CultureInvariantString    string

	// Unrecognized history types
	Raw []byte
}

// TextArgument is one named argument of an argument-format text history.
// Value type 4 nests another text; no other value type is known.
type TextArgument struct {
	Name      string
	ValueType uint8
	Value     *TextProperty
}

func readTextProperty(r *bytes.Reader) (TextProperty, error) {
	var text TextProperty
	var err error

	if text.Flags, err = memory.ReadInt[int32](r); err != nil {
		return text, err
	}
	if text.HistoryType, err = memory.ReadInt[uint8](r); err != nil {
		return text, err
	}

	switch text.HistoryType {
	case 0:
		if text.Namespace, err = ue.ReadFString(r); err != nil {
			return text, err
		}
		if text.Key, err = ue.ReadFString(r); err != nil {
			return text, err
		}
		if text.SourceString, err = ue.ReadFString(r); err != nil {
			return text, err
		}

	case 1, 3:
		source, err := readTextProperty(r)
		if err != nil {
			return text, err
		}
		text.SourceFormat = &source

		count, err := memory.ReadInt[int32](r)
		if err != nil {
			return text, err
		}
		if count < 0 {
			return text, errors.Errorf("negative text argument count %d", count)
		}
		text.Arguments = make([]TextArgument, count)
		for i := range text.Arguments {
			argument := &text.Arguments[i]
			if argument.Name, err = ue.ReadFString(r); err != nil {
				return text, err
			}
			if argument.ValueType, err = memory.ReadInt[uint8](r); err != nil {
				return text, err
			}
			if argument.ValueType != 4 {
				return text, errors.Errorf("unknown text argument value type %d", argument.ValueType)
			}
			value, err := readTextProperty(r)
			if err != nil {
				return text, err
			}
			argument.Value = &value
		}

	case 10:
		source, err := readTextProperty(r)
		if err != nil {
			return text, err
		}
		text.SourceText = &source
		if text.TransformType, err = memory.ReadInt[uint8](r); err != nil {
			return text, err
		}

	case 11:
		if text.TableID, err = ue.ReadFString(r); err != nil {
			return text, err
		}
		if text.TextKey, err = ue.ReadFString(r); err != nil {
			return text, err
		}

	case 255:
		if text.HasCultureInvariantString, err = memory.ReadInt[int32](r); err != nil {
			return text, err
		}
		if text.CultureInvariantString, err = ue.ReadFString(r); err != nil {
			return text, err
		}

	default:
		if text.Raw, err = memory.ReadBytes(r, r.Len()); err != nil {
			return text, err
		}
	}

	return text, nil
}

func writeTextProperty(w io.Writer, text TextProperty) error {
	if err := memory.WriteInt(w, text.Flags); err != nil {
		return err
	}
	if err := memory.WriteInt(w, text.HistoryType); err != nil {
		return err
	}

	switch text.HistoryType {
	case 0:
		if err := ue.WriteFString(w, text.Namespace); err != nil {
			return err
		}
		if err := ue.WriteFString(w, text.Key); err != nil {
			return err
		}
		return ue.WriteFString(w, text.SourceString)

	case 1, 3:
		if text.SourceFormat == nil {
			return errors.New("argument text history missing source format")
		}
		if err := writeTextProperty(w, *text.SourceFormat); err != nil {
			return err
		}
		if err := memory.WriteInt(w, int32(len(text.Arguments))); err != nil {
			return err
		}
		for i := range text.Arguments {
			argument := &text.Arguments[i]
			if err := ue.WriteFString(w, argument.Name); err != nil {
				return err
			}
			if err := memory.WriteInt(w, argument.ValueType); err != nil {
				return err
			}
			if argument.ValueType != 4 || argument.Value == nil {
				return errors.Errorf("unknown text argument value type %d", argument.ValueType)
			}
			if err := writeTextProperty(w, *argument.Value); err != nil {
				return err
			}
		}
		return nil

	case 10:
		if text.SourceText == nil {
			return errors.New("transform text history missing source text")
		}
		if err := writeTextProperty(w, *text.SourceText); err != nil {
			return err
		}
		return memory.WriteInt(w, text.TransformType)

	case 11:
		if err := ue.WriteFString(w, text.TableID); err != nil {
			return err
		}
		return ue.WriteFString(w, text.TextKey)

	case 255:
		if err := memory.WriteInt(w, text.HasCultureInvariantString); err != nil {
			return err
		}
		return ue.WriteFString(w, text.CultureInvariantString)

	default:
		_, err := w.Write(text.Raw)
		return err
	}
}

// ArrayStructMeta is the shared inner header carried once by arrays whose
// element type is StructProperty: a mirror of the property name and type,
// the element block size, and the element struct type with its GUID. The
// size is recomputed on encode.
type ArrayStructMeta struct {
	ElementType string
	GUID        ue.FGuid
	InnerIndex  int32
	Pad         uint8
}

// ArrayInventoryItem is the fixed layout used for InventoryItem elements
// inside struct arrays.
type ArrayInventoryItem struct {
	Unk       int32
	ItemName  string
	LevelName string
	PathName  string
}

// ArrayProperty is a homogeneous ordered sequence. The element type tag
// is carried once, not per element. Elements of a type the decoder does
// not recognize are kept raw and the whole payload stays skippable.
type ArrayProperty struct {
	ElementType string
	Elements    []interface{}
	StructMeta  *ArrayStructMeta
	Raw         []byte
}

func readArrayBody(payload []byte, elementType string) (ArrayProperty, error) {
	result := ArrayProperty{ElementType: elementType}
	pr := bytes.NewReader(payload)

	count, err := memory.ReadInt[int32](pr)
	if err != nil {
		return result, err
	}
	if count < 0 {
		return result, errors.Errorf("negative array length %d", count)
	}

	read := func(f func(*bytes.Reader) (interface{}, error)) error {
		result.Elements = make([]interface{}, count)
		for i := int32(0); i < count; i++ {
			if result.Elements[i], err = f(pr); err != nil {
				return errors.Wrapf(err, "array element %d", i)
			}
		}
		return nil
	}

	switch elementType {
	case "BoolProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) { return memory.ReadBool(r) })
	case "ByteProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) { return memory.ReadInt[uint8](r) })
	case "IntProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) { return memory.ReadInt[int32](r) })
	case "Int64Property":
		err = read(func(r *bytes.Reader) (interface{}, error) { return memory.ReadInt[int64](r) })
	case "FloatProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) { return memory.ReadFloat[float32](r) })
	case "DoubleProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) { return memory.ReadFloat[float64](r) })
	case "EnumProperty", "StrProperty", "NameProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) { return ue.ReadFString(r) })
	case "TextProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) { return readTextProperty(r) })
	case "ObjectProperty", "InterfaceProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) { return readObjectReference(r) })
	case "SoftObjectProperty":
		err = read(func(r *bytes.Reader) (interface{}, error) {
			var soft SoftObjectReference
			var err error
			if soft.LevelName, err = ue.ReadFString(r); err != nil {
				return nil, err
			}
			if soft.PathName, err = ue.ReadFString(r); err != nil {
				return nil, err
			}
			if soft.SubPathString, err = ue.ReadFString(r); err != nil {
				return nil, err
			}
			return soft, nil
		})
	case "StructProperty":
		meta, elements, err := readArrayStructElements(pr, count)
		if err != nil {
			return result, err
		}
		result.StructMeta = meta
		result.Elements = elements
	default:
		// Unknown element type: keep the whole payload raw.
		log.Debugf("unknown array element type %s, keeping %d raw bytes", elementType, len(payload))
		result.Raw = payload
		return result, nil
	}
	if err != nil {
		return result, err
	}

	if pr.Len() != 0 {
		return result, errors.Errorf("array of %s: %d undecoded payload bytes", elementType, pr.Len())
	}
	return result, nil
}

func readArrayStructElements(pr *bytes.Reader, count int32) (*ArrayStructMeta, []interface{}, error) {
	// The inner header mirrors the property name and the literal
	// "StructProperty"; both are recomputed on encode.
	if _, err := ue.ReadFString(pr); err != nil {
		return nil, nil, err
	}
	if _, err := ue.ReadFString(pr); err != nil {
		return nil, nil, err
	}
	if _, err := memory.ReadInt[int32](pr); err != nil { // element block size, recomputed
		return nil, nil, err
	}

	meta := &ArrayStructMeta{}
	var err error
	if meta.InnerIndex, err = memory.ReadInt[int32](pr); err != nil {
		return nil, nil, err
	}
	if meta.ElementType, err = ue.ReadFString(pr); err != nil {
		return nil, nil, err
	}
	if meta.GUID, err = ue.ReadGuid(pr); err != nil {
		return nil, nil, err
	}
	if meta.Pad, err = memory.ReadInt[uint8](pr); err != nil {
		return nil, nil, err
	}

	elements := make([]interface{}, count)
	for i := int32(0); i < count; i++ {
		var err error
		switch meta.ElementType {
		case "Guid":
			elements[i], err = ue.ReadGuid(pr)
		case "Vector", "Rotator":
			elements[i], err = ue.ReadFVectorDouble(pr)
		case "LinearColor":
			elements[i], err = ue.ReadFLinearColor(pr)
		case "InventoryItem":
			var item ArrayInventoryItem
			if item.Unk, err = memory.ReadInt[int32](pr); err != nil {
				break
			}
			if item.ItemName, err = ue.ReadFString(pr); err != nil {
				break
			}
			if item.LevelName, err = ue.ReadFString(pr); err != nil {
				break
			}
			if item.PathName, err = ue.ReadFString(pr); err != nil {
				break
			}
			elements[i] = item
		default:
			elements[i], err = readProperties(pr, meta.ElementType)
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "struct array element %d (%s)", i, meta.ElementType)
		}
	}

	return meta, elements, nil
}

func writeArrayBody(w io.Writer, propertyName string, array ArrayProperty) error {
	if array.Raw != nil {
		_, err := w.Write(array.Raw)
		return err
	}

	if err := memory.WriteInt(w, int32(len(array.Elements))); err != nil {
		return err
	}

	if array.ElementType == "StructProperty" {
		return writeArrayStructElements(w, propertyName, array)
	}

	for i, element := range array.Elements {
		var err error
		switch v := element.(type) {
		case bool:
			err = memory.WriteBool(w, v)
		case uint8:
			err = memory.WriteInt(w, v)
		case int32:
			err = memory.WriteInt(w, v)
		case int64:
			err = memory.WriteInt(w, v)
		case float32:
			err = memory.WriteFloat(w, v)
		case float64:
			err = memory.WriteFloat(w, v)
		case string:
			err = ue.WriteFString(w, v)
		case TextProperty:
			err = writeTextProperty(w, v)
		case ObjectReference:
			err = writeObjectReference(w, v)
		case SoftObjectReference:
			if err = ue.WriteFString(w, v.LevelName); err == nil {
				if err = ue.WriteFString(w, v.PathName); err == nil {
					err = ue.WriteFString(w, v.SubPathString)
				}
			}
		default:
			err = errors.Errorf("array of %s holds %T", array.ElementType, element)
		}
		if err != nil {
			return errors.Wrapf(err, "array element %d", i)
		}
	}
	return nil
}

func writeArrayStructElements(w io.Writer, propertyName string, array ArrayProperty) error {
	meta := array.StructMeta
	if meta == nil {
		return errors.New("struct array missing element header")
	}

	var block bytes.Buffer
	for i, element := range array.Elements {
		var err error
		switch v := element.(type) {
		case ue.FGuid:
			err = ue.WriteGuid(&block, v)
		case ue.FVectorDouble:
			err = ue.WriteFVectorDouble(&block, v)
		case ue.FLinearColor:
			err = ue.WriteFLinearColor(&block, v)
		case ArrayInventoryItem:
			if err = memory.WriteInt(&block, v.Unk); err == nil {
				if err = ue.WriteFString(&block, v.ItemName); err == nil {
					if err = ue.WriteFString(&block, v.LevelName); err == nil {
						err = ue.WriteFString(&block, v.PathName)
					}
				}
			}
		case []Property:
			err = writeProperties(&block, v)
		default:
			err = errors.Errorf("struct array of %s holds %T", meta.ElementType, element)
		}
		if err != nil {
			return errors.Wrapf(err, "struct array element %d", i)
		}
	}

	if err := ue.WriteFString(w, propertyName); err != nil {
		return err
	}
	if err := ue.WriteFString(w, "StructProperty"); err != nil {
		return err
	}
	if err := memory.WriteInt(w, int32(block.Len())); err != nil {
		return err
	}
	if err := memory.WriteInt(w, meta.InnerIndex); err != nil {
		return err
	}
	if err := ue.WriteFString(w, meta.ElementType); err != nil {
		return err
	}
	if err := ue.WriteGuid(w, meta.GUID); err != nil {
		return err
	}
	if err := memory.WriteInt(w, meta.Pad); err != nil {
		return err
	}
	_, err := w.Write(block.Bytes())
	return err
}

type MapPair struct {
	Key   interface{}
	Value interface{}
}

// MapProperty is an ordered sequence of key/value pairs with the key and
// value type tags fixed per instance. Mode 2 and 3 carry extra
// bookkeeping fields that are preserved as read.
type MapProperty struct {
	KeyType   string
	ValueType string
	Mode      int32
	ModeRaw   []byte
	ModeStr1  string
	ModeStr2  string
	Pairs     []MapPair
	Raw       []byte
}

func mapElementReader(typ string, key bool) func(*bytes.Reader) (interface{}, error) {
	switch typ {
	case "IntProperty":
		return func(r *bytes.Reader) (interface{}, error) { return memory.ReadInt[int32](r) }
	case "Int64Property":
		return func(r *bytes.Reader) (interface{}, error) { return memory.ReadInt[int64](r) }
	case "NameProperty", "StrProperty", "EnumProperty":
		return func(r *bytes.Reader) (interface{}, error) { return ue.ReadFString(r) }
	case "ObjectProperty":
		return func(r *bytes.Reader) (interface{}, error) { return readObjectReference(r) }
	case "StructProperty":
		return func(r *bytes.Reader) (interface{}, error) { return readProperties(r, "") }
	}
	if key {
		return nil
	}
	switch typ {
	case "ByteProperty":
		return func(r *bytes.Reader) (interface{}, error) { return memory.ReadInt[uint8](r) }
	case "BoolProperty":
		return func(r *bytes.Reader) (interface{}, error) { return memory.ReadBool(r) }
	case "FloatProperty":
		return func(r *bytes.Reader) (interface{}, error) { return memory.ReadFloat[float32](r) }
	case "DoubleProperty":
		return func(r *bytes.Reader) (interface{}, error) { return memory.ReadFloat[float64](r) }
	}
	return nil
}

func readMapBody(payload []byte, keyType, valueType string) (MapProperty, error) {
	result := MapProperty{KeyType: keyType, ValueType: valueType}
	pr := bytes.NewReader(payload)

	readKey := mapElementReader(keyType, true)
	readValue := mapElementReader(valueType, false)
	if readKey == nil || readValue == nil {
		log.Debugf("unknown map types %s -> %s, keeping %d raw bytes", keyType, valueType, len(payload))
		result.Raw = payload
		return result, nil
	}

	var err error
	if result.Mode, err = memory.ReadInt[int32](pr); err != nil {
		return result, err
	}
	switch result.Mode {
	case 2:
		if result.ModeStr1, err = ue.ReadFString(pr); err != nil {
			return result, err
		}
		if result.ModeStr2, err = ue.ReadFString(pr); err != nil {
			return result, err
		}
	case 3:
		if result.ModeRaw, err = memory.ReadBytes(pr, 18); err != nil {
			return result, err
		}
		if result.ModeStr1, err = ue.ReadFString(pr); err != nil {
			return result, err
		}
		if result.ModeStr2, err = ue.ReadFString(pr); err != nil {
			return result, err
		}
	}

	count, err := memory.ReadInt[int32](pr)
	if err != nil {
		return result, err
	}
	if count < 0 {
		return result, errors.Errorf("negative map length %d", count)
	}

	result.Pairs = make([]MapPair, count)
	for i := int32(0); i < count; i++ {
		key, err := readKey(pr)
		if err != nil {
			return result, errors.Wrapf(err, "map key %d", i)
		}
		value, err := readValue(pr)
		if err != nil {
			return result, errors.Wrapf(err, "map value %d", i)
		}
		result.Pairs[i] = MapPair{Key: key, Value: value}
	}

	if pr.Len() != 0 {
		return result, errors.Errorf("map %s -> %s: %d undecoded payload bytes", keyType, valueType, pr.Len())
	}
	return result, nil
}

func writeMapElement(w io.Writer, element interface{}) error {
	switch v := element.(type) {
	case int32:
		return memory.WriteInt(w, v)
	case int64:
		return memory.WriteInt(w, v)
	case uint8:
		return memory.WriteInt(w, v)
	case bool:
		return memory.WriteBool(w, v)
	case float32:
		return memory.WriteFloat(w, v)
	case float64:
		return memory.WriteFloat(w, v)
	case string:
		return ue.WriteFString(w, v)
	case ObjectReference:
		return writeObjectReference(w, v)
	case []Property:
		return writeProperties(w, v)
	}
	return errors.Errorf("map element holds %T", element)
}

func writeMapBody(w io.Writer, m MapProperty) error {
	if m.Raw != nil {
		_, err := w.Write(m.Raw)
		return err
	}

	if err := memory.WriteInt(w, m.Mode); err != nil {
		return err
	}
	switch m.Mode {
	case 2:
		if err := ue.WriteFString(w, m.ModeStr1); err != nil {
			return err
		}
		if err := ue.WriteFString(w, m.ModeStr2); err != nil {
			return err
		}
	case 3:
		if _, err := w.Write(m.ModeRaw); err != nil {
			return err
		}
		if err := ue.WriteFString(w, m.ModeStr1); err != nil {
			return err
		}
		if err := ue.WriteFString(w, m.ModeStr2); err != nil {
			return err
		}
	}

	if err := memory.WriteInt(w, int32(len(m.Pairs))); err != nil {
		return err
	}
	for i, pair := range m.Pairs {
		if err := writeMapElement(w, pair.Key); err != nil {
			return errors.Wrapf(err, "map key %d", i)
		}
		if err := writeMapElement(w, pair.Value); err != nil {
			return errors.Wrapf(err, "map value %d", i)
		}
	}
	return nil
}

// SetProperty is an ordered sequence of one inner type. The reserved
// field before the count is preserved as read.
type SetProperty struct {
	ElementType string
	Reserved    int32
	Elements    []interface{}
	Raw         []byte
}

func readSetBody(payload []byte, elementType string) (SetProperty, error) {
	result := SetProperty{ElementType: elementType}
	pr := bytes.NewReader(payload)

	var readElement func(*bytes.Reader) (interface{}, error)
	switch elementType {
	case "IntProperty":
		readElement = func(r *bytes.Reader) (interface{}, error) { return memory.ReadInt[int32](r) }
	case "UInt32Property":
		readElement = func(r *bytes.Reader) (interface{}, error) { return memory.ReadInt[uint32](r) }
	case "NameProperty", "StrProperty":
		readElement = func(r *bytes.Reader) (interface{}, error) { return ue.ReadFString(r) }
	case "ObjectProperty":
		readElement = func(r *bytes.Reader) (interface{}, error) { return readObjectReference(r) }
	default:
		log.Debugf("unknown set element type %s, keeping %d raw bytes", elementType, len(payload))
		result.Raw = payload
		return result, nil
	}

	var err error
	if result.Reserved, err = memory.ReadInt[int32](pr); err != nil {
		return result, err
	}
	count, err := memory.ReadInt[int32](pr)
	if err != nil {
		return result, err
	}
	if count < 0 {
		return result, errors.Errorf("negative set length %d", count)
	}

	result.Elements = make([]interface{}, count)
	for i := int32(0); i < count; i++ {
		if result.Elements[i], err = readElement(pr); err != nil {
			return result, errors.Wrapf(err, "set element %d", i)
		}
	}

	if pr.Len() != 0 {
		return result, errors.Errorf("set of %s: %d undecoded payload bytes", elementType, pr.Len())
	}
	return result, nil
}

func writeSetBody(w io.Writer, set SetProperty) error {
	if set.Raw != nil {
		_, err := w.Write(set.Raw)
		return err
	}

	if err := memory.WriteInt(w, set.Reserved); err != nil {
		return err
	}
	if err := memory.WriteInt(w, int32(len(set.Elements))); err != nil {
		return err
	}
	for i, element := range set.Elements {
		var err error
		switch v := element.(type) {
		case int32:
			err = memory.WriteInt(w, v)
		case uint32:
			err = memory.WriteInt(w, v)
		case string:
			err = ue.WriteFString(w, v)
		case ObjectReference:
			err = writeObjectReference(w, v)
		default:
			err = errors.Errorf("set of %s holds %T", set.ElementType, element)
		}
		if err != nil {
			return errors.Wrapf(err, "set element %d", i)
		}
	}
	return nil
}

// StructProperty is a nested value tagged with a struct type name and a
// GUID. Types with a fixed wire layout decode into concrete values; any
// other type is a nested property list ending with the terminator.
type StructProperty struct {
	Type  string
	GUID  ue.FGuid
	Value interface{}
}

type StructBox struct {
	Min     ue.FVectorDouble
	Max     ue.FVectorDouble
	IsValid uint8
}

type StructInventoryItem struct {
	Unk       int32
	ItemName  string
	Reference ObjectReference
	Property  *Property
}

type StructRailroadTrackPosition struct {
	Reference ObjectReference
	Offset    float32
	Forward   float32
}

func readStructValue(structType, parentType string, pr *bytes.Reader) (interface{}, error) {
	switch structType {
	case "Color":
		return ue.ReadFColor(pr)
	case "LinearColor":
		return ue.ReadFLinearColor(pr)
	case "Vector", "Rotator":
		// Spawn data stores these as doubles; everything else as floats.
		if parentType == "SpawnData" {
			return ue.ReadFVectorDouble(pr)
		}
		return ue.ReadFVector(pr)
	case "Vector2D":
		return ue.ReadFVector2DDouble(pr)
	case "Quat":
		return ue.ReadFQuaternionDouble(pr)
	case "Vector4":
		return ue.ReadFVector4Double(pr)
	case "IntVector4":
		return ue.ReadFIntVector4(pr)
	case "IntPoint":
		return ue.ReadFIntPoint(pr)
	case "Guid":
		return ue.ReadGuid(pr)
	case "DateTime", "Timespan":
		return memory.ReadInt[int64](pr)
	case "TimerHandle", "SlateBrush", "SoftClassPath", "SoftObjectPath":
		return ue.ReadFString(pr)
	case "FluidBox":
		return memory.ReadFloat[float32](pr)
	case "Box":
		var box StructBox
		var err error
		if box.Min, err = ue.ReadFVectorDouble(pr); err != nil {
			return nil, err
		}
		if box.Max, err = ue.ReadFVectorDouble(pr); err != nil {
			return nil, err
		}
		if box.IsValid, err = memory.ReadInt[uint8](pr); err != nil {
			return nil, err
		}
		return box, nil
	case "RailroadTrackPosition":
		var pos StructRailroadTrackPosition
		var err error
		if pos.Reference, err = readObjectReference(pr); err != nil {
			return nil, err
		}
		if pos.Offset, err = memory.ReadFloat[float32](pr); err != nil {
			return nil, err
		}
		if pos.Forward, err = memory.ReadFloat[float32](pr); err != nil {
			return nil, err
		}
		return pos, nil
	case "InventoryItem":
		var item StructInventoryItem
		var err error
		if item.Unk, err = memory.ReadInt[int32](pr); err != nil {
			return nil, err
		}
		if item.ItemName, err = ue.ReadFString(pr); err != nil {
			return nil, err
		}
		if item.Reference, err = readObjectReference(pr); err != nil {
			return nil, err
		}
		property, err := readProperty(pr, "")
		if err != nil {
			return nil, err
		}
		if property == nil {
			return nil, errors.Errorf("inventory item %s missing its property", item.ItemName)
		}
		item.Property = property
		return item, nil
	default:
		return readProperties(pr, structType)
	}
}

func writeStructValue(w io.Writer, structType string, value interface{}) error {
	fail := func() error {
		return errors.Errorf("struct %s holds %T", structType, value)
	}

	switch structType {
	case "Color":
		v, ok := value.(ue.FColor)
		if !ok {
			return fail()
		}
		return ue.WriteFColor(w, v)
	case "LinearColor":
		v, ok := value.(ue.FLinearColor)
		if !ok {
			return fail()
		}
		return ue.WriteFLinearColor(w, v)
	case "Vector", "Rotator":
		switch v := value.(type) {
		case ue.FVector:
			return ue.WriteFVector(w, v)
		case ue.FVectorDouble:
			return ue.WriteFVectorDouble(w, v)
		}
		return fail()
	case "Vector2D":
		v, ok := value.(ue.FVector2DDouble)
		if !ok {
			return fail()
		}
		return ue.WriteFVector2DDouble(w, v)
	case "Quat":
		v, ok := value.(ue.FQuaternionDouble)
		if !ok {
			return fail()
		}
		return ue.WriteFQuaternionDouble(w, v)
	case "Vector4":
		v, ok := value.(ue.FVector4Double)
		if !ok {
			return fail()
		}
		return ue.WriteFVector4Double(w, v)
	case "IntVector4":
		v, ok := value.(ue.FIntVector4)
		if !ok {
			return fail()
		}
		return ue.WriteFIntVector4(w, v)
	case "IntPoint":
		v, ok := value.(ue.FIntPoint)
		if !ok {
			return fail()
		}
		return ue.WriteFIntPoint(w, v)
	case "Guid":
		v, ok := value.(ue.FGuid)
		if !ok {
			return fail()
		}
		return ue.WriteGuid(w, v)
	case "DateTime", "Timespan":
		v, ok := value.(int64)
		if !ok {
			return fail()
		}
		return memory.WriteInt(w, v)
	case "TimerHandle", "SlateBrush", "SoftClassPath", "SoftObjectPath":
		v, ok := value.(string)
		if !ok {
			return fail()
		}
		return ue.WriteFString(w, v)
	case "FluidBox":
		v, ok := value.(float32)
		if !ok {
			return fail()
		}
		return memory.WriteFloat(w, v)
	case "Box":
		v, ok := value.(StructBox)
		if !ok {
			return fail()
		}
		if err := ue.WriteFVectorDouble(w, v.Min); err != nil {
			return err
		}
		if err := ue.WriteFVectorDouble(w, v.Max); err != nil {
			return err
		}
		return memory.WriteInt(w, v.IsValid)
	case "RailroadTrackPosition":
		v, ok := value.(StructRailroadTrackPosition)
		if !ok {
			return fail()
		}
		if err := writeObjectReference(w, v.Reference); err != nil {
			return err
		}
		if err := memory.WriteFloat(w, v.Offset); err != nil {
			return err
		}
		return memory.WriteFloat(w, v.Forward)
	case "InventoryItem":
		v, ok := value.(StructInventoryItem)
		if !ok {
			return fail()
		}
		if err := memory.WriteInt(w, v.Unk); err != nil {
			return err
		}
		if err := ue.WriteFString(w, v.ItemName); err != nil {
			return err
		}
		if err := writeObjectReference(w, v.Reference); err != nil {
			return err
		}
		if v.Property == nil {
			return errors.Errorf("inventory item %s missing its property", v.ItemName)
		}
		return writeProperty(w, v.Property)
	default:
		v, ok := value.([]Property)
		if !ok {
			return fail()
		}
		return writeProperties(w, v)
	}
}
