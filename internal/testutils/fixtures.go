package testutils

import (
	"fmt"
	"strings"

	"github.com/torvale/torvale-engine/internal/confignode"
)

// DwellingDefinition returns a loadable object definition with two
// subtypes, one with an explicit subtype id
func DwellingDefinition() *confignode.Node {
	return confignode.FromValue(map[string]any{
		"name":    "Dwelling",
		"handler": "creatureGenerator",
		"base": map[string]any{
			"visitableFrom": float64(255),
		},
		"types": map[string]any{
			"elfDwelling": map[string]any{
				"name":     "Elven Homestead",
				"creature": float64(19),
				"guards": map[string]any{
					"min":      float64(4),
					"max":      float64(12),
					"strength": float64(100),
					"class":    "shooter",
				},
				"rmg": map[string]any{
					"value":     float64(2000),
					"zoneLimit": float64(2),
					"rarity":    float64(60),
				},
				"templates": map[string]any{
					"elfDwelling": map[string]any{
						"animation":       "AVGelf0.def",
						"allowedTerrains": []any{float64(0), float64(2)},
					},
				},
			},
			"orcDwelling": map[string]any{
				"index":    float64(3),
				"creature": float64(31),
				"guards": map[string]any{
					"min": float64(8),
					"max": float64(20),
				},
				"templates": map[string]any{
					"orcDwelling": map[string]any{
						"animation":       "AVGorc0.def",
						"allowedTerrains": []any{float64(1)},
					},
				},
			},
		},
	})
}

// ResourcePileDefinition returns a loadable resource pile definition with
// a single auto-assigned subtype
func ResourcePileDefinition() *confignode.Node {
	return confignode.FromValue(map[string]any{
		"name":    "Resource Pile",
		"handler": "resource",
		"types": map[string]any{
			"goldPile": map[string]any{
				"resource": "gold",
				"amounts": map[string]any{
					"min": float64(500),
					"max": float64(1000),
				},
				"templates": map[string]any{
					"goldPile": map[string]any{
						"animation": "AVTgold0.def",
					},
				},
			},
		},
	})
}

// LegacyLine formats one entry of the legacy definition table
func LegacyLine(name string, id, subid int32) string {
	return fmt.Sprintf("%s 0000000000ff 0000000000c0 000000000000 000000000000 255 3 3 2 1 %d %d 0",
		name, id, subid)
}

// LegacyTable builds a legacy definition table with count entries under
// ascending unique ids starting at 100
func LegacyTable(count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("AVLobj%d.def", i)
		sb.WriteString(LegacyLine(name, int32(100+i), 0))
		sb.WriteByte('\n')
	}
	return sb.String()
}
