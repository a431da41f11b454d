package mapobjects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/mapobjects"
	"github.com/torvale/torvale-engine/internal/testutils"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	source := loadDwellingAt5(t)
	_, err := source.LoadObjectAt("core", "resourcePile", testutils.ResourcePileDefinition(), 2)
	require.NoError(t, err)

	snap := source.Snapshot()
	assert.Equal(t, mapobjects.FormatVersion, snap.Version)

	restored := mapobjects.NewRegistry(nil)
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, source.KnownObjects(), restored.KnownObjects())
	for _, typeID := range source.KnownObjects() {
		want, err := source.KnownSubObjects(typeID)
		require.NoError(t, err)
		got, err := restored.KnownSubObjects(typeID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// handler state carried over
	h, err := restored.HandlerFor(5, 0)
	require.NoError(t, err)
	assert.Equal(t, "core:dwelling", h.TypeName())
	assert.Equal(t, "core:elfDwelling", h.SubTypeName())
	assert.True(t, h.RMGInfo().Placeable())
	require.Len(t, h.Templates(), 1)
	assert.Equal(t, "AVGelf0.def", h.Templates()[0].Animation)

	name, ok := h.CustomName()
	require.True(t, ok)
	assert.Equal(t, "Elven Homestead", name)

	// string-id lookups survive at the current version
	named, err := restored.HandlerForNamed("core:dwelling", "core:orcDwelling")
	require.NoError(t, err)
	assert.Equal(t, int32(3), named.Subtype())

	name, err = restored.ObjectName(5)
	require.NoError(t, err)
	assert.Equal(t, "Dwelling", name)
}

func TestSnapshot_RestoreReplacesContents(t *testing.T) {
	source := loadDwellingAt5(t)
	snap := source.Snapshot()

	target := mapobjects.NewRegistry(nil)
	_, err := target.LoadObjectAt("core", "resourcePile", testutils.ResourcePileDefinition(), 9)
	require.NoError(t, err)

	require.NoError(t, target.Restore(snap))

	assert.Equal(t, []int32{5}, target.KnownObjects())
	_, err = target.HandlerFor(9, 0)
	require.Error(t, err)
	assert.True(t, engerr.IsUnknownType(err))
}

func TestSnapshot_RestoreAdvancesNextID(t *testing.T) {
	source := loadDwellingAt5(t)

	restored := mapobjects.NewRegistry(nil)
	require.NoError(t, restored.Restore(source.Snapshot()))

	id, err := restored.LoadObject("core", "resourcePile", testutils.ResourcePileDefinition())
	require.NoError(t, err)
	assert.Equal(t, int32(6), id)
}

func TestSnapshotAt_PreThresholdOmitsStringIDs(t *testing.T) {
	source := loadDwellingAt5(t)

	snap := source.SnapshotAt(758)
	require.Len(t, snap.Objects, 1)
	assert.Empty(t, snap.Objects[0].Identifier)
	assert.Empty(t, snap.Objects[0].SubIDs)
	for _, hs := range snap.Objects[0].SubObjects {
		assert.Empty(t, hs.TypeName)
		assert.Empty(t, hs.SubTypeName)
	}

	restored := mapobjects.NewRegistry(nil)
	require.NoError(t, restored.Restore(snap))

	// numeric lookups still work, string-id lookups do not
	h, err := restored.HandlerFor(5, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(3), h.Subtype())

	_, err = restored.HandlerForNamed("core:dwelling", "core:orcDwelling")
	require.Error(t, err)
	assert.True(t, engerr.IsUnknownType(err))
}

func TestRestore_NilSnapshot(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)
	err := registry.Restore(nil)
	require.Error(t, err)
	assert.True(t, engerr.IsInvalidArgument(err))
}

func TestRestore_UnknownHandler(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)
	snap := &mapobjects.Snapshot{
		Version: mapobjects.FormatVersion,
		Objects: []mapobjects.ContainerSnapshot{
			{ID: 1, HandlerName: "noSuchHandler"},
		},
	}

	err := registry.Restore(snap)
	require.Error(t, err)
	assert.True(t, engerr.IsMalformedConfiguration(err))
}

func TestRestore_DuplicateContainerID(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)
	snap := &mapobjects.Snapshot{
		Version: mapobjects.FormatVersion,
		Objects: []mapobjects.ContainerSnapshot{
			{ID: 1, HandlerName: "static"},
			{ID: 1, HandlerName: "static"},
		},
	}

	err := registry.Restore(snap)
	require.Error(t, err)
	assert.True(t, engerr.IsDuplicateDefinition(err))
}

func TestRestore_DuplicateSubtype(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)
	snap := &mapobjects.Snapshot{
		Version: mapobjects.FormatVersion,
		Objects: []mapobjects.ContainerSnapshot{
			{
				ID:          1,
				HandlerName: "static",
				SubObjects: []mapobjects.HandlerSnapshot{
					{Type: 1, Subtype: 0},
					{Type: 1, Subtype: 0},
				},
			},
		},
	}

	err := registry.Restore(snap)
	require.Error(t, err)
	assert.True(t, engerr.IsDuplicateDefinition(err))
}

func TestRestore_DanglingStringIDEntry(t *testing.T) {
	registry := mapobjects.NewRegistry(nil)
	snap := &mapobjects.Snapshot{
		Version: mapobjects.FormatVersion,
		Objects: []mapobjects.ContainerSnapshot{
			{
				ID:          1,
				Identifier:  "core:thing",
				HandlerName: "static",
				SubIDs:      map[string]int32{"core:gone": 7},
			},
		},
	}

	err := registry.Restore(snap)
	require.Error(t, err)
	assert.True(t, engerr.IsMalformedConfiguration(err))
}

func TestRestore_FailedRestoreLeavesRegistryIntact(t *testing.T) {
	registry := loadDwellingAt5(t)
	snap := &mapobjects.Snapshot{
		Version: mapobjects.FormatVersion,
		Objects: []mapobjects.ContainerSnapshot{
			{ID: 1, HandlerName: "noSuchHandler"},
		},
	}

	require.Error(t, registry.Restore(snap))

	// old contents still queryable
	assert.Equal(t, []int32{5}, registry.KnownObjects())
}
