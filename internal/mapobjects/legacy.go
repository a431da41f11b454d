package mapobjects

import (
	"io"
	"sort"

	"github.com/torvale/torvale-engine/internal/confignode"
	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/legacydef"
)

// legacyKey addresses staged legacy templates by (type, subtype)
type legacyKey struct {
	id    int32
	subID int32
}

// StageCustomName records a human-readable name for a legacy (type,
// subtype) pair. Staged names are applied when the matching sub-object is
// loaded and discarded at finalization.
func (r *Registry) StageCustomName(typeID, subID int32, name string) {
	byType, ok := r.customNames[typeID]
	if !ok {
		byType = make(map[int32]string)
		r.customNames[typeID] = byType
	}
	byType[subID] = name
}

// LoadLegacyData bulk-imports legacy definitions from src. It stages one
// template per entry for AfterLoadFinalization and returns one synthesized
// configuration fragment per primary id for the generic loader to consume;
// entries sharing a primary id become subtypes of the same fragment. The
// import is all-or-nothing: any unreadable entry, or an entry count
// different from expected, fails the whole operation.
func (r *Registry) LoadLegacyData(src io.Reader, expected int) ([]*confignode.Node, error) {
	entries, err := legacydef.ParseEntries(src)
	if err != nil {
		return nil, err
	}
	if expected > 0 && len(entries) != expected {
		return nil, engerr.LegacyUnreadablef("expected %d legacy entries, got %d", expected, len(entries))
	}

	byID := make(map[int32]*confignode.Node)
	var ids []int32
	for _, entry := range entries {
		tmpl := templateFromLegacy(entry)
		key := legacyKey{id: entry.ID, subID: entry.SubID}
		r.legacyTemplates[key] = append(r.legacyTemplates[key], tmpl)

		fragment, ok := byID[entry.ID]
		if !ok {
			fragment = legacyFragment(entry)
			byID[entry.ID] = fragment
			ids = append(ids, entry.ID)
			continue
		}
		types := fragment.Get("types")
		if !types.Has(entry.Name) {
			types.Set(entry.Name, map[string]any{"index": float64(entry.SubID)})
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fragments := make([]*confignode.Node, 0, len(ids))
	for _, id := range ids {
		fragments = append(fragments, byID[id])
	}
	return fragments, nil
}

func templateFromLegacy(entry *legacydef.DefInfo) Template {
	terrains := entry.TerrainAllowed
	if terrains == 0 {
		terrains = AnyTerrain
	}

	return Template{
		Name:            entry.Name,
		Animation:       entry.Name,
		AllowedTerrains: terrains,
		VisitableFrom:   entry.VisitDir,
		Width:           entry.Width,
		Height:          entry.Height,
		BlockedAt:       offsetsFromMask(entry.BlockMap),
		VisitableAt:     offsetsFromMask(entry.VisitMap),
		ZIndex:          entry.PrintPriority,
	}
}

func offsetsFromMask(mask [6]byte) []Offset {
	var offsets []Offset
	for row, bits := range mask {
		for col := 0; col < 8; col++ {
			if bits&(1<<uint(col)) != 0 {
				offsets = append(offsets, Offset{X: int32(col), Y: int32(row)})
			}
		}
	}
	return offsets
}

// legacyFragment shapes a legacy entry as a configuration fragment
// loadable through the generic object loader, seeded with the entry's own
// subtype. Fragments carry identity only; the visual data reaches handlers
// through the staged templates at finalization.
func legacyFragment(entry *legacydef.DefInfo) *confignode.Node {
	return confignode.FromValue(map[string]any{
		"index":   float64(entry.ID),
		"handler": HandlerStatic,
		"name":    entry.Name,
		"types": map[string]any{
			entry.Name: map[string]any{
				"index": float64(entry.SubID),
			},
		},
	})
}
