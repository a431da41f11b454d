package mapobjects

import "github.com/torvale/torvale-engine/internal/confignode"

// RandomMapInfo describes placement rules for an object subtype in
// random map generation. The zero value marks a subtype the generator
// must never place.
type RandomMapInfo struct {
	// Value is the relative worth of the object, 1k = worthless, 10k = top tier
	Value uint32 `json:"value"`

	// MapLimit caps instances per map, 0 = unplaceable
	MapLimit uint32 `json:"mapLimit"`

	// ZoneLimit caps instances per zone, 0 = unplaceable
	ZoneLimit uint32 `json:"zoneLimit"`

	// Rarity is the inverse-frequency weight, 5 = extremely rare, 100 = common
	Rarity uint32 `json:"rarity"`
}

// Placeable reports whether the random map generator may place this object
func (r RandomMapInfo) Placeable() bool {
	return r != RandomMapInfo{}
}

func rmgInfoFromNode(node *confignode.Node) RandomMapInfo {
	return RandomMapInfo{
		Value:     node.Get("value").Uint32Or(0),
		MapLimit:  node.Get("mapLimit").Uint32Or(0),
		ZoneLimit: node.Get("zoneLimit").Uint32Or(0),
		Rarity:    node.Get("rarity").Uint32Or(0),
	}
}
