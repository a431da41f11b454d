package mapobjects

// ObjectDefinition models the JSON contract for one primary object type.
// It is shared with the schema generator so we can produce a
// machine-readable document for validation and editor tooling. The
// runtime loader works on confignode trees; this mirror exists for the
// schema only.
type ObjectDefinition struct {
	Name    string                         `json:"name,omitempty" jsonschema:"title=Display name,description=Human-readable name for this object type"`
	Handler string                         `json:"handler" jsonschema:"title=Handler name,description=Selects which handler implementation governs this type"`
	Base    map[string]any                 `json:"base,omitempty" jsonschema:"description=Base configuration fragment merged under every subtype"`
	Types   map[string]SubObjectDefinition `json:"types" jsonschema:"description=Subtype definitions keyed by unqualified name"`
}

// SubObjectDefinition models one subtype entry under an object type
type SubObjectDefinition struct {
	Index     *int                          `json:"index,omitempty" jsonschema:"title=Explicit subtype id,description=Reserves a fixed numeric subtype id instead of auto-assignment"`
	Name      string                        `json:"name,omitempty" jsonschema:"description=Subtype-specific display name overriding the type-level name"`
	RMG       *RMGDefinition                `json:"rmg,omitempty" jsonschema:"description=Random map generation placement rules"`
	Base      map[string]any                `json:"base,omitempty" jsonschema:"description=Base fragment merged under every template of this subtype"`
	Templates map[string]TemplateDefinition `json:"templates,omitempty" jsonschema:"description=Visual and placement variants keyed by template name"`
}

// TemplateDefinition models one visual/placement variant
type TemplateDefinition struct {
	Animation       string   `json:"animation" jsonschema:"description=Animation file rendered for this variant"`
	EditorAnimation string   `json:"editorAnimation,omitempty" jsonschema:"description=Animation shown by the map editor"`
	AllowedTerrains []int    `json:"allowedTerrains,omitempty" jsonschema:"description=Terrain ids accepting this template. Empty means all terrains"`
	VisitableFrom   int      `json:"visitableFrom,omitempty" jsonschema:"description=Bitmask of directions the object can be entered from"`
	Width           int      `json:"width,omitempty" jsonschema:"description=Footprint width in tiles"`
	Height          int      `json:"height,omitempty" jsonschema:"description=Footprint height in tiles"`
	BlockedAt       [][2]int `json:"blockedAt,omitempty" jsonschema:"description=Blocked tile offsets as [x y] pairs"`
	VisitableAt     [][2]int `json:"visitableAt,omitempty" jsonschema:"description=Visitable tile offsets as [x y] pairs"`
	ZIndex          int      `json:"zIndex,omitempty" jsonschema:"description=Print priority when footprints overlap"`
}

// RMGDefinition models random map generation placement rules
type RMGDefinition struct {
	Value     uint32 `json:"value,omitempty" jsonschema:"description=Relative worth on a 1000-10000 scale"`
	MapLimit  uint32 `json:"mapLimit,omitempty" jsonschema:"description=Maximum instances per map"`
	ZoneLimit uint32 `json:"zoneLimit,omitempty" jsonschema:"description=Maximum instances per zone"`
	Rarity    uint32 `json:"rarity,omitempty" jsonschema:"description=Inverse-frequency weight. 5 is extremely rare and 100 common"`
}
