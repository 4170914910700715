package satisfactory

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"satisfactory-save/memory"
	"satisfactory-save/ue"
)

type ObjectKind int32

const (
	ObjectKindComponent ObjectKind = 0
	ObjectKindActor     ObjectKind = 1
)

// ActorHeader identifies one actor in a level's object table.
type ActorHeader struct {
	ClassPath        string
	Reference        ObjectReference
	NeedsTransform   int32
	Rotation         ue.FQuaternion
	Position         ue.FVector
	Scale            ue.FVector
	WasPlacedInLevel int32
}

// ComponentHeader identifies one component. ParentActorName is the outer
// reference: a path string resolved by lookup in the level's object
// table, never an owning pointer.
type ComponentHeader struct {
	ClassPath       string
	Reference       ObjectReference
	ParentActorName string
}

// Object is one serialized actor or component: its header-table entry
// plus the payload-table entry correlated by index. Property order is
// preserved as read; TrailingBytes holds whatever followed the property
// terminator inside the declared payload size, verbatim.
type Object struct {
	Kind      ObjectKind
	Actor     *ActorHeader
	Component *ComponentHeader

	SaveVersion int32
	Flags       int32

	// Actor payloads open with a parent reference and the component
	// reference list.
	Parent     ObjectReference
	Components []ObjectReference

	// HeaderOnly marks payloads whose declared size was fully consumed
	// by the reference section, with no property list at all.
	HeaderOnly bool

	Properties    []Property
	TrailingBytes []byte
}

// ClassPath returns the object's class path string.
func (o *Object) ClassPath() string {
	if o.Kind == ObjectKindActor {
		return o.Actor.ClassPath
	}
	return o.Component.ClassPath
}

// InstancePath returns the object's instance path string.
func (o *Object) InstancePath() string {
	if o.Kind == ObjectKindActor {
		return o.Actor.Reference.PathName
	}
	return o.Component.Reference.PathName
}

// Outer returns the outer reference path: the parent actor for
// components, the parent object for actors. May be empty.
func (o *Object) Outer() string {
	if o.Kind == ObjectKindActor {
		return o.Parent.PathName
	}
	return o.Component.ParentActorName
}

// Level is a named collection of objects plus its collectable reference
// lists. The second collectable list is a repeat that the format stores
// after the object payloads; it is preserved as read.
type Level struct {
	Name               string
	Objects            []Object
	Collectables       []ObjectReference
	SecondCollectables []ObjectReference
}

// FindObject looks up an object by instance path.
func (l *Level) FindObject(instancePath string) *Object {
	for i := range l.Objects {
		if l.Objects[i].InstancePath() == instancePath {
			return &l.Objects[i]
		}
	}
	return nil
}

type objectHeader struct {
	kind      ObjectKind
	actor     *ActorHeader
	component *ComponentHeader
}

func readActorHeader(r *bytes.Reader) (*ActorHeader, error) {
	var header ActorHeader
	var err error
	if header.ClassPath, err = ue.ReadFString(r); err != nil {
		return nil, err
	}
	if header.Reference, err = readObjectReference(r); err != nil {
		return nil, err
	}
	if header.NeedsTransform, err = memory.ReadInt[int32](r); err != nil {
		return nil, err
	}
	if header.Rotation, err = ue.ReadFQuaternion(r); err != nil {
		return nil, err
	}
	if header.Position, err = ue.ReadFVector(r); err != nil {
		return nil, err
	}
	if header.Scale, err = ue.ReadFVector(r); err != nil {
		return nil, err
	}
	if header.WasPlacedInLevel, err = memory.ReadInt[int32](r); err != nil {
		return nil, err
	}
	return &header, nil
}

func writeActorHeader(w io.Writer, header *ActorHeader) error {
	if err := ue.WriteFString(w, header.ClassPath); err != nil {
		return err
	}
	if err := writeObjectReference(w, header.Reference); err != nil {
		return err
	}
	if err := memory.WriteInt(w, header.NeedsTransform); err != nil {
		return err
	}
	if err := ue.WriteFQuaternion(w, header.Rotation); err != nil {
		return err
	}
	if err := ue.WriteFVector(w, header.Position); err != nil {
		return err
	}
	if err := ue.WriteFVector(w, header.Scale); err != nil {
		return err
	}
	return memory.WriteInt(w, header.WasPlacedInLevel)
}

func readComponentHeader(r *bytes.Reader) (*ComponentHeader, error) {
	var header ComponentHeader
	var err error
	if header.ClassPath, err = ue.ReadFString(r); err != nil {
		return nil, err
	}
	if header.Reference, err = readObjectReference(r); err != nil {
		return nil, err
	}
	if header.ParentActorName, err = ue.ReadFString(r); err != nil {
		return nil, err
	}
	return &header, nil
}

func writeComponentHeader(w io.Writer, header *ComponentHeader) error {
	if err := ue.WriteFString(w, header.ClassPath); err != nil {
		return err
	}
	if err := writeObjectReference(w, header.Reference); err != nil {
		return err
	}
	return ue.WriteFString(w, header.ParentActorName)
}

func readObjectHeader(r *bytes.Reader) (objectHeader, error) {
	kind, err := memory.ReadInt[int32](r)
	if err != nil {
		return objectHeader{}, err
	}

	switch ObjectKind(kind) {
	case ObjectKindComponent:
		component, err := readComponentHeader(r)
		if err != nil {
			return objectHeader{}, err
		}
		return objectHeader{kind: ObjectKindComponent, component: component}, nil
	case ObjectKindActor:
		actor, err := readActorHeader(r)
		if err != nil {
			return objectHeader{}, err
		}
		return objectHeader{kind: ObjectKindActor, actor: actor}, nil
	default:
		return objectHeader{}, &UnknownObjectTypeError{Kind: kind}
	}
}

// readObjectPayload decodes the payload-table entry for one object whose
// header was already buffered from the header table.
func readObjectPayload(r *bytes.Reader, object *Object) error {
	var err error
	if object.SaveVersion, err = memory.ReadInt[int32](r); err != nil {
		return err
	}
	if object.Flags, err = memory.ReadInt[int32](r); err != nil {
		return err
	}
	size, err := memory.ReadInt[int32](r)
	if err != nil {
		return err
	}
	if size < 0 {
		return errors.Errorf("negative object payload size %d", size)
	}

	payload, err := memory.ReadBytes(r, int(size))
	if err != nil {
		return err
	}
	pr := bytes.NewReader(payload)

	if object.Kind == ObjectKindActor {
		if object.Parent, err = readObjectReference(pr); err != nil {
			return &ObjectLengthError{ObjectPath: object.ClassPath()}
		}
		count, err := memory.ReadInt[int32](pr)
		if err != nil {
			return &ObjectLengthError{ObjectPath: object.ClassPath()}
		}
		object.Components = make([]ObjectReference, count)
		for i := int32(0); i < count; i++ {
			if object.Components[i], err = readObjectReference(pr); err != nil {
				return &ObjectLengthError{ObjectPath: object.ClassPath()}
			}
		}
	}

	if pr.Len() == 0 {
		object.HeaderOnly = true
		return nil
	}

	object.Properties, err = readProperties(pr, object.ClassPath())
	if err != nil {
		var eofErr *memory.EOFError
		if errors.As(err, &eofErr) {
			return &MalformedPropertyListError{ObjectPath: object.ClassPath()}
		}
		return err
	}

	// Whatever follows the terminator inside the declared size is kept
	// byte-for-byte: an explicit trailer and any per-class extra data.
	object.TrailingBytes, err = memory.ReadBytes(pr, pr.Len())
	return err
}

func writeObjectPayload(w io.Writer, object *Object) error {
	if err := memory.WriteInt(w, object.SaveVersion); err != nil {
		return err
	}
	if err := memory.WriteInt(w, object.Flags); err != nil {
		return err
	}

	var payload bytes.Buffer
	if object.Kind == ObjectKindActor {
		if err := writeObjectReference(&payload, object.Parent); err != nil {
			return err
		}
		if err := memory.WriteInt(&payload, int32(len(object.Components))); err != nil {
			return err
		}
		for _, component := range object.Components {
			if err := writeObjectReference(&payload, component); err != nil {
				return err
			}
		}
	}
	if !object.HeaderOnly {
		if err := writeProperties(&payload, object.Properties); err != nil {
			return err
		}
		if _, err := payload.Write(object.TrailingBytes); err != nil {
			return err
		}
	}

	if err := memory.WriteInt(w, int32(payload.Len())); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

func readObjectReferenceList(r *bytes.Reader) ([]ObjectReference, error) {
	count, err := memory.ReadInt[int32](r)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errors.Errorf("negative reference count %d", count)
	}
	refs := make([]ObjectReference, count)
	for i := int32(0); i < count; i++ {
		if refs[i], err = readObjectReference(r); err != nil {
			return nil, errors.Wrapf(err, "reference %d", i)
		}
	}
	return refs, nil
}

func writeObjectReferenceList(w io.Writer, refs []ObjectReference) error {
	if err := memory.WriteInt(w, int32(len(refs))); err != nil {
		return err
	}
	for _, ref := range refs {
		if err := writeObjectReference(w, ref); err != nil {
			return err
		}
	}
	return nil
}

// readLevel decodes one level record: the object header table and
// collectables first, fully buffered, then the payload table correlated
// with the headers by index.
func readLevel(r *bytes.Reader) (Level, error) {
	var level Level
	var err error

	if level.Name, err = ue.ReadFString(r); err != nil {
		return level, errors.Wrap(err, "level name")
	}
	log.Debugf("reading level %q", level.Name)

	headerTableSize, err := memory.ReadInt[int64](r)
	if err != nil {
		return level, err
	}
	headerTableStart := r.Len()

	headerCount, err := memory.ReadInt[int32](r)
	if err != nil {
		return level, err
	}
	if headerCount < 0 {
		return level, errors.Errorf("negative object count %d", headerCount)
	}
	log.Debugf("reading %d object headers", headerCount)

	headers := make([]objectHeader, headerCount)
	for i := int32(0); i < headerCount; i++ {
		if headers[i], err = readObjectHeader(r); err != nil {
			return level, errors.Wrapf(err, "level %q object header %d", level.Name, i)
		}
	}

	if level.Collectables, err = readObjectReferenceList(r); err != nil {
		return level, errors.Wrapf(err, "level %q collectables", level.Name)
	}

	if consumed := int64(headerTableStart - r.Len()); consumed != headerTableSize {
		return level, errors.Errorf("level %q header table: declared %d bytes, consumed %d", level.Name, headerTableSize, consumed)
	}

	payloadTableSize, err := memory.ReadInt[int64](r)
	if err != nil {
		return level, err
	}
	payloadTableStart := r.Len()

	payloadCount, err := memory.ReadInt[int32](r)
	if err != nil {
		return level, err
	}
	if payloadCount != headerCount {
		return level, errors.Errorf("level %q: %d payloads for %d object headers", level.Name, payloadCount, headerCount)
	}

	level.Objects = make([]Object, headerCount)
	for i := int32(0); i < headerCount; i++ {
		object := &level.Objects[i]
		object.Kind = headers[i].kind
		object.Actor = headers[i].actor
		object.Component = headers[i].component

		if err := readObjectPayload(r, object); err != nil {
			return level, errors.Wrapf(err, "level %q object %d (%s)", level.Name, i, object.ClassPath())
		}
	}

	if consumed := int64(payloadTableStart - r.Len()); consumed != payloadTableSize {
		return level, errors.Errorf("level %q payload table: declared %d bytes, consumed %d", level.Name, payloadTableSize, consumed)
	}

	if level.SecondCollectables, err = readObjectReferenceList(r); err != nil {
		return level, errors.Wrapf(err, "level %q second collectables", level.Name)
	}

	return level, nil
}

// writeLevel encodes one level, recomputing both table size prefixes from
// current content.
func writeLevel(w io.Writer, level *Level) error {
	if err := ue.WriteFString(w, level.Name); err != nil {
		return err
	}

	var headerTable bytes.Buffer
	if err := memory.WriteInt(&headerTable, int32(len(level.Objects))); err != nil {
		return err
	}
	for i := range level.Objects {
		object := &level.Objects[i]
		if err := memory.WriteInt(&headerTable, int32(object.Kind)); err != nil {
			return err
		}
		var err error
		switch object.Kind {
		case ObjectKindActor:
			err = writeActorHeader(&headerTable, object.Actor)
		case ObjectKindComponent:
			err = writeComponentHeader(&headerTable, object.Component)
		default:
			err = &UnknownObjectTypeError{Kind: int32(object.Kind)}
		}
		if err != nil {
			return errors.Wrapf(err, "level %q object header %d", level.Name, i)
		}
	}
	if err := writeObjectReferenceList(&headerTable, level.Collectables); err != nil {
		return err
	}

	if err := memory.WriteInt(w, int64(headerTable.Len())); err != nil {
		return err
	}
	if _, err := w.Write(headerTable.Bytes()); err != nil {
		return err
	}

	var payloadTable bytes.Buffer
	if err := memory.WriteInt(&payloadTable, int32(len(level.Objects))); err != nil {
		return err
	}
	for i := range level.Objects {
		if err := writeObjectPayload(&payloadTable, &level.Objects[i]); err != nil {
			return errors.Wrapf(err, "level %q object %d", level.Name, i)
		}
	}

	if err := memory.WriteInt(w, int64(payloadTable.Len())); err != nil {
		return err
	}
	if _, err := w.Write(payloadTable.Bytes()); err != nil {
		return err
	}

	return writeObjectReferenceList(w, level.SecondCollectables)
}

// resolveOuterReferences checks every component's parent actor path
// against its level's object table.
func resolveOuterReferences(levels []Level) error {
	for li := range levels {
		level := &levels[li]

		paths := make(map[string]struct{}, len(level.Objects))
		for i := range level.Objects {
			paths[level.Objects[i].InstancePath()] = struct{}{}
		}

		for i := range level.Objects {
			object := &level.Objects[i]
			if object.Kind != ObjectKindComponent {
				continue
			}
			outer := object.Component.ParentActorName
			if outer == "" {
				continue
			}
			if _, ok := paths[outer]; !ok {
				return &DanglingOuterReferenceError{
					Level:  level.Name,
					Object: object.InstancePath(),
					Outer:  outer,
				}
			}
		}
	}
	return nil
}
