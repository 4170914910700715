package satisfactory

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"satisfactory-save/memory"
	"satisfactory-save/ue"
)

// TerminatorName is the reserved property name that ends a property list.
const TerminatorName = "None"

// Property is one named, type-tagged value. On disk it is serialized as
// name, type tag, payload byte length, index, then a type-specific
// preamble followed by the size-counted payload. The payload length is
// always recomputed from content on encode, never reused from decode.
type Property struct {
	Name  string
	Type  string
	Index int32
	GUID  *ue.FGuid
	Value interface{}
}

// UnknownProperty carries the raw payload of a property whose type tag
// the decoder does not recognize. Exactly the declared payload length is
// retained so the surrounding stream stays intact.
type UnknownProperty struct {
	Raw []byte
}

func isScalarType(typ string) bool {
	switch typ {
	case "Int8Property", "Int16Property", "UInt16Property",
		"IntProperty", "UInt32Property", "Int64Property", "UInt64Property",
		"FloatProperty", "DoubleProperty":
		return true
	}
	return false
}

func readScalarValue(typ string, r io.Reader) (interface{}, error) {
	switch typ {
	case "Int8Property":
		return memory.ReadInt[int8](r)
	case "Int16Property":
		return memory.ReadInt[int16](r)
	case "UInt16Property":
		return memory.ReadInt[uint16](r)
	case "IntProperty":
		return memory.ReadInt[int32](r)
	case "UInt32Property":
		return memory.ReadInt[uint32](r)
	case "Int64Property":
		return memory.ReadInt[int64](r)
	case "UInt64Property":
		return memory.ReadInt[uint64](r)
	case "FloatProperty":
		return memory.ReadFloat[float32](r)
	case "DoubleProperty":
		return memory.ReadFloat[float64](r)
	}
	return nil, errors.Errorf("not a scalar property type: %s", typ)
}

func writeScalarValue(w io.Writer, typ string, value interface{}) error {
	switch v := value.(type) {
	case int8:
		return memory.WriteInt(w, v)
	case int16:
		return memory.WriteInt(w, v)
	case uint16:
		return memory.WriteInt(w, v)
	case int32:
		return memory.WriteInt(w, v)
	case uint32:
		return memory.WriteInt(w, v)
	case int64:
		return memory.WriteInt(w, v)
	case uint64:
		return memory.WriteInt(w, v)
	case float32:
		return memory.WriteFloat(w, v)
	case float64:
		return memory.WriteFloat(w, v)
	}
	return errors.Errorf("scalar property %s holds %T", typ, value)
}

// readPropertyGuid reads the one-byte flag that may precede a payload; a
// nonzero flag is followed by a 16-byte GUID.
func readPropertyGuid(r io.Reader) (*ue.FGuid, error) {
	flag, err := memory.ReadInt[uint8](r)
	if err != nil {
		return nil, err
	}
	if flag == 0 {
		return nil, nil
	}
	guid, err := ue.ReadGuid(r)
	if err != nil {
		return nil, err
	}
	return &guid, nil
}

func writePropertyGuid(w io.Writer, guid *ue.FGuid) error {
	if guid == nil {
		return memory.WriteInt[uint8](w, 0)
	}
	if err := memory.WriteInt[uint8](w, 1); err != nil {
		return err
	}
	return ue.WriteGuid(w, *guid)
}

// drained verifies a known-type payload was consumed exactly.
func drained(pr *bytes.Reader, name, typ string) error {
	if pr.Len() != 0 {
		return errors.Errorf("property %s (%s): %d undecoded payload bytes", name, typ, pr.Len())
	}
	return nil
}

// readProperty decodes one property record. It returns (nil, nil) when
// the stream yields the terminator name, ending the enclosing list. An
// unrecognized type tag is retained raw via its declared payload length
// and never aborts the surrounding object. parentType names the
// enclosing struct or object type; a few struct layouts depend on it.
func readProperty(r *bytes.Reader, parentType string) (*Property, error) {
	name, err := ue.ReadFString(r)
	if err != nil {
		return nil, errors.Wrap(err, "property name")
	}
	if name == TerminatorName {
		return nil, nil
	}

	typ, err := ue.ReadFString(r)
	if err != nil {
		return nil, errors.Wrapf(err, "type tag of %s", name)
	}
	size, err := memory.ReadInt[int32](r)
	if err != nil {
		return nil, errors.Wrapf(err, "payload size of %s", name)
	}
	if size < 0 {
		return nil, errors.Errorf("property %s (%s): negative payload size %d", name, typ, size)
	}
	index, err := memory.ReadInt[int32](r)
	if err != nil {
		return nil, errors.Wrapf(err, "index of %s", name)
	}

	property := &Property{Name: name, Type: typ, Index: index}

	fail := func(err error) (*Property, error) {
		return nil, errors.Wrapf(err, "property %s (%s)", name, typ)
	}

	switch {
	case typ == "BoolProperty":
		// The boolean value lives outside the size-counted payload,
		// which is empty for this type. A nonzero size would be bytes
		// we could not re-encode, so it is rejected.
		if size != 0 {
			return fail(errors.Errorf("boolean with nonzero payload size %d", size))
		}
		value, err := memory.ReadBool(r)
		if err != nil {
			return fail(err)
		}
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		property.Value = value

	case isScalarType(typ):
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		pr, err := payloadReader(r, size)
		if err != nil {
			return fail(err)
		}
		if property.Value, err = readScalarValue(typ, pr); err != nil {
			return fail(err)
		}
		if err := drained(pr, name, typ); err != nil {
			return nil, err
		}

	case typ == "StrProperty" || typ == "NameProperty":
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		pr, err := payloadReader(r, size)
		if err != nil {
			return fail(err)
		}
		if property.Value, err = ue.ReadFString(pr); err != nil {
			return fail(err)
		}
		if err := drained(pr, name, typ); err != nil {
			return nil, err
		}

	case typ == "ObjectProperty" || typ == "InterfaceProperty":
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		pr, err := payloadReader(r, size)
		if err != nil {
			return fail(err)
		}
		if property.Value, err = readObjectReference(pr); err != nil {
			return fail(err)
		}
		if err := drained(pr, name, typ); err != nil {
			return nil, err
		}

	case typ == "EnumProperty":
		enumType, err := ue.ReadFString(r)
		if err != nil {
			return fail(err)
		}
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		pr, err := payloadReader(r, size)
		if err != nil {
			return fail(err)
		}
		value, err := ue.ReadFString(pr)
		if err != nil {
			return fail(err)
		}
		if err := drained(pr, name, typ); err != nil {
			return nil, err
		}
		property.Value = EnumProperty{EnumType: enumType, Value: value}

	case typ == "ByteProperty":
		enumType, err := ue.ReadFString(r)
		if err != nil {
			return fail(err)
		}
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		pr, err := payloadReader(r, size)
		if err != nil {
			return fail(err)
		}
		value := ByteProperty{EnumType: enumType}
		if enumType == TerminatorName {
			if value.ByteValue, err = memory.ReadInt[uint8](pr); err != nil {
				return fail(err)
			}
		} else {
			if value.EnumValue, err = ue.ReadFString(pr); err != nil {
				return fail(err)
			}
		}
		if err := drained(pr, name, typ); err != nil {
			return nil, err
		}
		property.Value = value

	case typ == "TextProperty":
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		pr, err := payloadReader(r, size)
		if err != nil {
			return fail(err)
		}
		if property.Value, err = readTextProperty(pr); err != nil {
			return fail(err)
		}
		if err := drained(pr, name, typ); err != nil {
			return nil, err
		}

	case typ == "ArrayProperty":
		elementType, err := ue.ReadFString(r)
		if err != nil {
			return fail(err)
		}
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		payload, err := memory.ReadBytes(r, int(size))
		if err != nil {
			return fail(err)
		}
		if property.Value, err = readArrayBody(payload, elementType); err != nil {
			return fail(err)
		}

	case typ == "MapProperty":
		keyType, err := ue.ReadFString(r)
		if err != nil {
			return fail(err)
		}
		valueType, err := ue.ReadFString(r)
		if err != nil {
			return fail(err)
		}
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		payload, err := memory.ReadBytes(r, int(size))
		if err != nil {
			return fail(err)
		}
		if property.Value, err = readMapBody(payload, keyType, valueType); err != nil {
			return fail(err)
		}

	case typ == "SetProperty":
		elementType, err := ue.ReadFString(r)
		if err != nil {
			return fail(err)
		}
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		payload, err := memory.ReadBytes(r, int(size))
		if err != nil {
			return fail(err)
		}
		if property.Value, err = readSetBody(payload, elementType); err != nil {
			return fail(err)
		}

	case typ == "StructProperty":
		structType, err := ue.ReadFString(r)
		if err != nil {
			return fail(err)
		}
		structGuid, err := ue.ReadGuid(r)
		if err != nil {
			return fail(err)
		}
		if property.GUID, err = readPropertyGuid(r); err != nil {
			return fail(err)
		}
		pr, err := payloadReader(r, size)
		if err != nil {
			return fail(err)
		}
		value, err := readStructValue(structType, parentType, pr)
		if err != nil {
			return fail(err)
		}
		if err := drained(pr, name, typ); err != nil {
			return nil, err
		}
		property.Value = StructProperty{Type: structType, GUID: structGuid, Value: value}

	default:
		// Forward-compatibility path: keep exactly the declared payload.
		payload, err := memory.ReadBytes(r, int(size))
		if err != nil {
			return fail(err)
		}
		log.Debugf("unknown property type %s for %s, keeping %d raw bytes", typ, name, size)
		log.Tracef("raw payload of %s: % x", name, payload)
		property.Value = UnknownProperty{Raw: payload}
	}

	return property, nil
}

func payloadReader(r *bytes.Reader, size int32) (*bytes.Reader, error) {
	payload, err := memory.ReadBytes(r, int(size))
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(payload), nil
}

// readProperties consumes property records until the terminator name.
func readProperties(r *bytes.Reader, parentType string) ([]Property, error) {
	result := []Property{}
	for {
		property, err := readProperty(r, parentType)
		if err != nil {
			return nil, err
		}
		if property == nil {
			return result, nil
		}
		result = append(result, *property)
	}
}

// writeProperty encodes one property record. The payload is staged in a
// buffer first so the length field is derived from content.
func writeProperty(w io.Writer, p *Property) error {
	if err := ue.WriteFString(w, p.Name); err != nil {
		return err
	}
	if err := ue.WriteFString(w, p.Type); err != nil {
		return err
	}

	var pre, payload bytes.Buffer
	if err := buildPropertyBody(&pre, &payload, p); err != nil {
		return errors.Wrapf(err, "property %s (%s)", p.Name, p.Type)
	}

	if err := memory.WriteInt(w, int32(payload.Len())); err != nil {
		return err
	}
	if err := memory.WriteInt(w, p.Index); err != nil {
		return err
	}
	if _, err := w.Write(pre.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

// buildPropertyBody fills the type-specific preamble (written between the
// index field and the payload, not counted in the payload length) and the
// size-counted payload.
func buildPropertyBody(pre, payload *bytes.Buffer, p *Property) error {
	switch {
	case p.Type == "BoolProperty":
		value, ok := p.Value.(bool)
		if !ok {
			return errors.Errorf("value holds %T, want bool", p.Value)
		}
		if err := memory.WriteBool(pre, value); err != nil {
			return err
		}
		return writePropertyGuid(pre, p.GUID)

	case isScalarType(p.Type):
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return writeScalarValue(payload, p.Type, p.Value)

	case p.Type == "StrProperty" || p.Type == "NameProperty":
		value, ok := p.Value.(string)
		if !ok {
			return errors.Errorf("value holds %T, want string", p.Value)
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return ue.WriteFString(payload, value)

	case p.Type == "ObjectProperty" || p.Type == "InterfaceProperty":
		value, ok := p.Value.(ObjectReference)
		if !ok {
			return errors.Errorf("value holds %T, want ObjectReference", p.Value)
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return writeObjectReference(payload, value)

	case p.Type == "EnumProperty":
		value, ok := p.Value.(EnumProperty)
		if !ok {
			return errors.Errorf("value holds %T, want EnumProperty", p.Value)
		}
		if err := ue.WriteFString(pre, value.EnumType); err != nil {
			return err
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return ue.WriteFString(payload, value.Value)

	case p.Type == "ByteProperty":
		value, ok := p.Value.(ByteProperty)
		if !ok {
			return errors.Errorf("value holds %T, want ByteProperty", p.Value)
		}
		if err := ue.WriteFString(pre, value.EnumType); err != nil {
			return err
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		if value.EnumType == TerminatorName {
			return memory.WriteInt(payload, value.ByteValue)
		}
		return ue.WriteFString(payload, value.EnumValue)

	case p.Type == "TextProperty":
		value, ok := p.Value.(TextProperty)
		if !ok {
			return errors.Errorf("value holds %T, want TextProperty", p.Value)
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return writeTextProperty(payload, value)

	case p.Type == "ArrayProperty":
		value, ok := p.Value.(ArrayProperty)
		if !ok {
			return errors.Errorf("value holds %T, want ArrayProperty", p.Value)
		}
		if err := ue.WriteFString(pre, value.ElementType); err != nil {
			return err
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return writeArrayBody(payload, p.Name, value)

	case p.Type == "MapProperty":
		value, ok := p.Value.(MapProperty)
		if !ok {
			return errors.Errorf("value holds %T, want MapProperty", p.Value)
		}
		if err := ue.WriteFString(pre, value.KeyType); err != nil {
			return err
		}
		if err := ue.WriteFString(pre, value.ValueType); err != nil {
			return err
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return writeMapBody(payload, value)

	case p.Type == "SetProperty":
		value, ok := p.Value.(SetProperty)
		if !ok {
			return errors.Errorf("value holds %T, want SetProperty", p.Value)
		}
		if err := ue.WriteFString(pre, value.ElementType); err != nil {
			return err
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return writeSetBody(payload, value)

	case p.Type == "StructProperty":
		value, ok := p.Value.(StructProperty)
		if !ok {
			return errors.Errorf("value holds %T, want StructProperty", p.Value)
		}
		if err := ue.WriteFString(pre, value.Type); err != nil {
			return err
		}
		if err := ue.WriteGuid(pre, value.GUID); err != nil {
			return err
		}
		if err := writePropertyGuid(pre, p.GUID); err != nil {
			return err
		}
		return writeStructValue(payload, value.Type, value.Value)

	default:
		value, ok := p.Value.(UnknownProperty)
		if !ok {
			return errors.Errorf("unknown type tag holds %T, want UnknownProperty", p.Value)
		}
		_, err := payload.Write(value.Raw)
		return err
	}
}

func writeProperties(w io.Writer, properties []Property) error {
	for i := range properties {
		if err := writeProperty(w, &properties[i]); err != nil {
			return err
		}
	}
	return ue.WriteFString(w, TerminatorName)
}
