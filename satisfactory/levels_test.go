package satisfactory

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satisfactory-save/memory"
	"satisfactory-save/ue"
)

func testLevel() Level {
	return Level{
		Name: "Level_TestSite",
		Objects: []Object{
			{
				Kind: ObjectKindActor,
				Actor: &ActorHeader{
					ClassPath: "/Game/FactoryGame/Buildable/Factory/SmelterMk1/Build_SmelterMk1.Build_SmelterMk1_C",
					Reference: ObjectReference{
						LevelName: "Persistent_Level",
						PathName:  "Persistent_Level:PersistentLevel.Build_SmelterMk1_C_1",
					},
					NeedsTransform:   1,
					Rotation:         ue.FQuaternion{W: 1},
					Position:         ue.FVector{X: 1000, Y: -2000, Z: 150},
					Scale:            ue.FVector{X: 1, Y: 1, Z: 1},
					WasPlacedInLevel: 0,
				},
				SaveVersion: 42,
				Flags:       0,
				Parent:      ObjectReference{},
				Components: []ObjectReference{
					{LevelName: "Persistent_Level", PathName: "Persistent_Level:PersistentLevel.Build_SmelterMk1_C_1.InputInventory"},
				},
				Properties: []Property{
					{Name: "mCurrentPotential", Type: "FloatProperty", Value: float32(1)},
				},
			},
			{
				Kind: ObjectKindComponent,
				Component: &ComponentHeader{
					ClassPath:       "/Script/FactoryGame.FGInventoryComponent",
					Reference:       ObjectReference{LevelName: "Persistent_Level", PathName: "Persistent_Level:PersistentLevel.Build_SmelterMk1_C_1.InputInventory"},
					ParentActorName: "Persistent_Level:PersistentLevel.Build_SmelterMk1_C_1",
				},
				SaveVersion: 42,
				Properties: []Property{
					{Name: "mAdjustedSizeDiff", Type: "IntProperty", Value: int32(3)},
				},
			},
		},
		Collectables: []ObjectReference{
			{LevelName: "Persistent_Level", PathName: "Persistent_Level:PersistentLevel.BP_Crystal_2"},
		},
		SecondCollectables: []ObjectReference{
			{LevelName: "Persistent_Level", PathName: "Persistent_Level:PersistentLevel.BP_Crystal_2"},
		},
	}
}

func TestLevelRoundTrip(t *testing.T) {
	level := testLevel()

	var buf bytes.Buffer
	require.NoError(t, writeLevel(&buf, &level))

	decoded, err := readLevel(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, level.Name, decoded.Name)
	require.Len(t, decoded.Objects, 2)
	assert.Equal(t, ObjectKindActor, decoded.Objects[0].Kind)
	assert.Equal(t, level.Objects[0].Actor, decoded.Objects[0].Actor)
	assert.Equal(t, level.Objects[0].Components, decoded.Objects[0].Components)
	assert.Equal(t, level.Objects[1].Component, decoded.Objects[1].Component)
	assert.Equal(t, level.Collectables, decoded.Collectables)
	assert.Equal(t, level.SecondCollectables, decoded.SecondCollectables)

	var again bytes.Buffer
	require.NoError(t, writeLevel(&again, &decoded))
	assert.Equal(t, buf.Bytes(), again.Bytes())
}

func TestLevelHeaderOnlyObject(t *testing.T) {
	level := Level{
		Name: "Level_Empty",
		Objects: []Object{{
			Kind: ObjectKindComponent,
			Component: &ComponentHeader{
				ClassPath: "/Script/FactoryGame.FGShoppingListComponent",
				Reference: ObjectReference{LevelName: "Persistent_Level", PathName: "Persistent_Level:PersistentLevel.ShoppingList"},
			},
			HeaderOnly: true,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeLevel(&buf, &level))

	decoded, err := readLevel(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, decoded.Objects, 1)
	assert.True(t, decoded.Objects[0].HeaderOnly)
	assert.Empty(t, decoded.Objects[0].Properties)

	var again bytes.Buffer
	require.NoError(t, writeLevel(&again, &decoded))
	assert.Equal(t, buf.Bytes(), again.Bytes())
}

func TestObjectTrailingBytesPreserved(t *testing.T) {
	level := testLevel()
	level.Objects[1].TrailingBytes = []byte{7, 7, 7}

	var buf bytes.Buffer
	require.NoError(t, writeLevel(&buf, &level))

	decoded, err := readLevel(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 7, 7}, decoded.Objects[1].TrailingBytes)
}

func TestObjectMissingTerminator(t *testing.T) {
	// A payload whose declared size ends inside the property list.
	var properties bytes.Buffer
	require.NoError(t, writeProperty(&properties, &Property{Name: "mCount", Type: "IntProperty", Value: int32(1)}))

	var buf bytes.Buffer
	require.NoError(t, memory.WriteInt[int32](&buf, 42)) // object save version
	require.NoError(t, memory.WriteInt[int32](&buf, 0))  // flags
	require.NoError(t, memory.WriteInt[int32](&buf, int32(properties.Len())))
	buf.Write(properties.Bytes())

	object := &Object{
		Kind: ObjectKindComponent,
		Component: &ComponentHeader{
			ClassPath: "/Script/FactoryGame.FGInventoryComponent",
			Reference: ObjectReference{PathName: "Persistent_Level:PersistentLevel.Inventory"},
		},
	}
	err := readObjectPayload(bytes.NewReader(buf.Bytes()), object)
	require.Error(t, err)

	malformed, ok := err.(*MalformedPropertyListError)
	require.True(t, ok, "expected *MalformedPropertyListError, got %T", err)
	assert.Equal(t, object.ClassPath(), malformed.ObjectPath)
}

func TestObjectUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, memory.WriteInt[int32](&buf, 5))

	_, err := readObjectHeader(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)

	unknown, ok := err.(*UnknownObjectTypeError)
	require.True(t, ok, "expected *UnknownObjectTypeError, got %T", err)
	assert.Equal(t, int32(5), unknown.Kind)
}

func TestLevelHeaderTableSizeMismatch(t *testing.T) {
	level := testLevel()

	var buf bytes.Buffer
	require.NoError(t, writeLevel(&buf, &level))

	// Corrupt the header-table size field that follows the level name.
	nameLen := 4 + len(level.Name) + 1
	buf.Bytes()[nameLen] ^= 0xFF

	_, err := readLevel(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
}

func TestFindObject(t *testing.T) {
	level := testLevel()

	found := level.FindObject("Persistent_Level:PersistentLevel.Build_SmelterMk1_C_1")
	require.NotNil(t, found)
	assert.Equal(t, ObjectKindActor, found.Kind)
	assert.Nil(t, level.FindObject("Persistent_Level:PersistentLevel.Nope"))
}

func TestResolveOuterReferences(t *testing.T) {
	levels := []Level{testLevel()}
	require.NoError(t, resolveOuterReferences(levels))

	levels[0].Objects[1].Component.ParentActorName = "Persistent_Level:PersistentLevel.Gone"
	err := resolveOuterReferences(levels)
	require.Error(t, err)

	dangling, ok := err.(*DanglingOuterReferenceError)
	require.True(t, ok, "expected *DanglingOuterReferenceError, got %T", err)
	assert.Equal(t, "Level_TestSite", dangling.Level)
	assert.Equal(t, "Persistent_Level:PersistentLevel.Gone", dangling.Outer)
}
