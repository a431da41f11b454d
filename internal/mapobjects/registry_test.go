package mapobjects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/torvale/torvale-engine/internal/confignode"
	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/mapobjects"
	"github.com/torvale/torvale-engine/internal/random"
	"github.com/torvale/torvale-engine/internal/testutils"
	mockuuid "github.com/torvale/torvale-engine/internal/uuid/mocks"
)

func loadDwellingAt5(t *testing.T) *mapobjects.Registry {
	t.Helper()
	registry := mapobjects.NewRegistry(nil)
	_, err := registry.LoadObjectAt("core", "dwelling", testutils.DwellingDefinition(), 5)
	require.NoError(t, err)
	return registry
}

func TestLoadObject_DwellingScenario(t *testing.T) {
	registry := loadDwellingAt5(t)

	subIDs, err := registry.KnownSubObjects(5)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 3}, subIDs)

	handlerName, err := registry.HandlerNameFor(5)
	require.NoError(t, err)
	assert.Equal(t, "creatureGenerator", handlerName)

	h, err := registry.HandlerForNamed("core:dwelling", "core:orcDwelling")
	require.NoError(t, err)
	assert.Equal(t, int32(3), h.Subtype())
}

func TestLoadObject_AssignsNextFreeID(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)

	id, err := registry.LoadObject("core", "dwelling", testutils.DwellingDefinition())
	require.NoError(t, err)
	assert.Equal(t, int32(0), id)

	id, err = registry.LoadObject("core", "resourcePile", testutils.ResourcePileDefinition())
	require.NoError(t, err)
	assert.Equal(t, int32(1), id)

	assert.Equal(t, []int32{0, 1}, registry.KnownObjects())
}

func TestLoadObject_DuplicateFailsAtomically(t *testing.T) {
	registry := loadDwellingAt5(t)

	_, err := registry.LoadObject("core", "dwelling", testutils.DwellingDefinition())
	require.Error(t, err)
	assert.True(t, engerr.IsDuplicateDefinition(err))

	// prior state unchanged
	assert.Equal(t, []int32{5}, registry.KnownObjects())
	subIDs, err := registry.KnownSubObjects(5)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 3}, subIDs)
}

func TestLoadObjectAt_OccupiedIndexFails(t *testing.T) {
	registry := loadDwellingAt5(t)

	_, err := registry.LoadObjectAt("core", "other", testutils.ResourcePileDefinition(), 5)
	require.Error(t, err)
	assert.True(t, engerr.IsDuplicateDefinition(err))
}

func TestLoadObject_UnknownHandlerFails(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)
	data := confignode.FromValue(map[string]any{"handler": "noSuchHandler"})

	_, err := registry.LoadObject("core", "broken", data)
	require.Error(t, err)
	assert.True(t, engerr.IsMalformedConfiguration(err))
	assert.Empty(t, registry.KnownObjects())
}

func TestLoadSubObject_UnknownTypeFails(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)

	_, err := registry.LoadSubObject("core:stray", confignode.NewObject(), 9)
	require.Error(t, err)
	assert.True(t, engerr.IsUnknownType(err))
}

func TestLoadSubObject_DuplicateIdentifierFails(t *testing.T) {
	registry := loadDwellingAt5(t)

	cfg := confignode.FromValue(map[string]any{"creature": float64(1)})
	_, err := registry.LoadSubObject("core:orcDwelling", cfg, 5)
	require.Error(t, err)
	assert.True(t, engerr.IsDuplicateDefinition(err))
}

func TestRemoveSubObject(t *testing.T) {
	registry := loadDwellingAt5(t)

	registry.RemoveSubObject(5, 3)

	_, err := registry.HandlerFor(5, 3)
	require.Error(t, err)
	assert.True(t, engerr.IsUnknownSubtype(err))

	subIDs, err := registry.KnownSubObjects(5)
	require.NoError(t, err)
	assert.Equal(t, []int32{0}, subIDs)

	// reverse string-id entry removed as well
	_, err = registry.HandlerForNamed("core:dwelling", "core:orcDwelling")
	require.Error(t, err)
	assert.True(t, engerr.IsUnknownSubtype(err))
}

func TestRemoveSubObject_AbsentPairIsNoOp(t *testing.T) {
	registry := loadDwellingAt5(t)

	registry.RemoveSubObject(5, 99)
	registry.RemoveSubObject(42, 0)

	subIDs, err := registry.KnownSubObjects(5)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 3}, subIDs)
}

func TestRemoveSubObject_IDsAreNotReused(t *testing.T) {
	registry := loadDwellingAt5(t)

	registry.RemoveSubObject(5, 3)

	cfg := confignode.FromValue(map[string]any{"creature": float64(7)})
	subID, err := registry.LoadSubObject("core:trollDwelling", cfg, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(4), subID)
}

func TestHandlerFor_NumericAndStringAgree(t *testing.T) {
	registry := loadDwellingAt5(t)

	for _, subID := range []int32{0, 3} {
		numeric, err := registry.HandlerFor(5, subID)
		require.NoError(t, err)

		named, err := registry.HandlerForNamed(numeric.TypeName(), numeric.SubTypeName())
		require.NoError(t, err)

		assert.Equal(t, numeric.Type(), named.Type())
		assert.Equal(t, numeric.Subtype(), named.Subtype())
		assert.Equal(t, numeric.TypeName(), named.TypeName())
		assert.Equal(t, numeric.SubTypeName(), named.SubTypeName())
	}
}

func TestHandlerForNamed_BareNames(t *testing.T) {
	registry := loadDwellingAt5(t)

	h, err := registry.HandlerForNamed("dwelling", "orcDwelling")
	require.NoError(t, err)
	assert.Equal(t, int32(3), h.Subtype())
}

func TestHandlerForNamed_ScopesSharingBareName(t *testing.T) {
	registry := loadDwellingAt5(t)
	_, err := registry.LoadObjectAt("mod", "dwelling", testutils.DwellingDefinition(), 7)
	require.NoError(t, err)

	// exact qualified names resolve to their own scope
	h, err := registry.HandlerForNamed("mod:dwelling", "mod:orcDwelling")
	require.NoError(t, err)
	assert.Equal(t, int32(7), h.Type())

	h, err = registry.HandlerForNamed("core:dwelling", "core:orcDwelling")
	require.NoError(t, err)
	assert.Equal(t, int32(5), h.Type())

	// bare names resolve to the lowest matching id
	h, err = registry.HandlerForNamed("dwelling", "orcDwelling")
	require.NoError(t, err)
	assert.Equal(t, int32(5), h.Type())
}

func TestHandlerFor_UnknownType(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)

	_, err := registry.HandlerFor(1, 0)
	require.Error(t, err)
	assert.True(t, engerr.IsUnknownType(err))

	_, err = registry.HandlerForNamed("core:ghost", "core:ghost")
	require.Error(t, err)
	assert.True(t, engerr.IsUnknownType(err))
}

func TestObjectNames(t *testing.T) {
	registry := loadDwellingAt5(t)

	name, err := registry.ObjectName(5)
	require.NoError(t, err)
	assert.Equal(t, "Dwelling", name)

	// subtype-specific name
	name, err = registry.SubObjectName(5, 0)
	require.NoError(t, err)
	assert.Equal(t, "Elven Homestead", name)

	// falls back to the type-level name
	name, err = registry.SubObjectName(5, 3)
	require.NoError(t, err)
	assert.Equal(t, "Dwelling", name)

	_, err = registry.ObjectName(77)
	require.Error(t, err)
	assert.True(t, engerr.IsUnknownType(err))
}

func TestDefaultAllowed(t *testing.T) {
	registry := loadDwellingAt5(t)
	_, err := registry.LoadObjectAt("core", "resourcePile", testutils.ResourcePileDefinition(), 2)
	require.NoError(t, err)

	allowed := registry.DefaultAllowed()
	require.Len(t, allowed, 6)
	assert.Equal(t, []bool{false, false, true, false, false, true}, allowed)
}

func TestDefaultAllowed_Empty(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)
	assert.Nil(t, registry.DefaultAllowed())
}

func TestBeforeValidate_InjectsDefaults(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)
	node := confignode.FromValue(map[string]any{"handler": "static"})

	registry.BeforeValidate(node)

	assert.True(t, node.Has("base"))
	assert.True(t, node.Has("types"))
	assert.True(t, node.Has("name"))
	// existing fields untouched
	assert.Equal(t, "static", node.Get("handler").String())
}

func TestRegisterHandlerType(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)

	err := registry.RegisterHandlerType("custom", mapobjects.NewStaticHandler)
	require.NoError(t, err)

	err = registry.RegisterHandlerType("custom", mapobjects.NewStaticHandler)
	require.Error(t, err)
	assert.True(t, engerr.IsDuplicateDefinition(err))

	// built-ins cannot be replaced
	err = registry.RegisterHandlerType("static", mapobjects.NewStaticHandler)
	require.Error(t, err)
}

func TestCreateInstance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gen := mockuuid.NewMockGenerator(ctrl)
	gen.EXPECT().New().Return("instance-1")

	registry := mapobjects.NewRegistry(&mapobjects.Config{UUIDGenerator: gen})
	_, err := registry.LoadObjectAt("core", "dwelling", testutils.DwellingDefinition(), 5)
	require.NoError(t, err)
	registry.AfterLoadFinalization()

	// orcDwelling accepts terrain 1 only
	obj, err := registry.CreateInstance(5, 3, 1, random.NewSeeded(11))
	require.NoError(t, err)

	assert.Equal(t, "instance-1", obj.ID)
	assert.Equal(t, int32(5), obj.Type)
	assert.Equal(t, int32(3), obj.Subtype)
	assert.True(t, obj.Configured)
	require.Len(t, obj.Guards, 1)
	assert.GreaterOrEqual(t, obj.Guards[0].Count, 8)
	assert.LessOrEqual(t, obj.Guards[0].Count, 20)
}

func TestCreateInstance_NoTemplateForTerrain(t *testing.T) {
	registry := loadDwellingAt5(t)

	_, err := registry.CreateInstance(5, 3, 7, random.NewSeeded(0))
	require.Error(t, err)
	assert.True(t, engerr.IsNotFound(err))
}

func TestAfterLoadFinalization_RunsHandlerHooks(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)

	finalized := 0
	err := registry.RegisterHandlerType("counting", func() mapobjects.Handler {
		return &countingHandler{finalized: &finalized}
	})
	require.NoError(t, err)

	data := confignode.FromValue(map[string]any{
		"handler": "counting",
		"types": map[string]any{
			"one": map[string]any{},
			"two": map[string]any{},
		},
	})
	_, err = registry.LoadObject("core", "counted", data)
	require.NoError(t, err)

	registry.AfterLoadFinalization()
	assert.Equal(t, 2, finalized)
}

type countingHandler struct {
	mapobjects.Base

	finalized *int
}

func (h *countingHandler) AfterLoadFinalization() { *h.finalized++ }

func (h *countingHandler) Create(tmpl mapobjects.Template) *mapobjects.Instance {
	return &mapobjects.Instance{Template: tmpl}
}

func (h *countingHandler) ConfigureObject(obj *mapobjects.Instance, src random.Source) error {
	obj.Configured = true
	return nil
}

func (h *countingHandler) ObjectInfo(tmpl mapobjects.Template) (*mapobjects.ObjectInfo, bool) {
	return nil, false
}
