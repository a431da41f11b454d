// Package mapobjects implements the object-class registry for the engine:
// a two-level (type, subtype) identifier space with mod-scope qualified
// string ids, pluggable per-subtype handlers that own placement templates
// and random-map metadata, and the factory pair used to build live map
// object instances.
package mapobjects

import (
	engerr "github.com/torvale/torvale-engine/internal/errors"

	"github.com/torvale/torvale-engine/internal/confignode"
)

// AnyTerrain is the terrain mask accepting every terrain type
const AnyTerrain = ^uint32(0)

// Offset is a tile offset relative to a template's bottom-right corner
type Offset struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Template describes one visual/placement variant of an object: which
// animation to render, which terrains accept it and which tiles of its
// footprint are blocked or visitable.
type Template struct {
	Name            string   `json:"name"`
	Animation       string   `json:"animation"`
	EditorAnimation string   `json:"editorAnimation,omitempty"`
	AllowedTerrains uint32   `json:"allowedTerrains"`
	VisitableFrom   uint8    `json:"visitableFrom,omitempty"`
	Width           int32    `json:"width"`
	Height          int32    `json:"height"`
	BlockedAt       []Offset `json:"blockedAt,omitempty"`
	VisitableAt     []Offset `json:"visitableAt,omitempty"`
	ZIndex          int32    `json:"zIndex,omitempty"`
}

// Accepts reports whether the template can be placed on the given terrain
func (t Template) Accepts(terrain int32) bool {
	if terrain < 0 || terrain > 31 {
		return false
	}
	return t.AllowedTerrains&(1<<uint32(terrain)) != 0
}

// TemplateFromNode builds a template from a configuration fragment.
// An absent or empty "allowedTerrains" list means all terrains.
func TemplateFromNode(name string, node *confignode.Node) (Template, error) {
	if node.IsNull() {
		return Template{}, engerr.MalformedConfigurationf("template '%s' has no configuration", name)
	}

	animation := node.Get("animation").String()
	if animation == "" {
		return Template{}, engerr.MalformedConfigurationf("template '%s' is missing an animation", name)
	}

	tmpl := Template{
		Name:            name,
		Animation:       animation,
		EditorAnimation: node.Get("editorAnimation").String(),
		AllowedTerrains: AnyTerrain,
		VisitableFrom:   uint8(node.Get("visitableFrom").Uint32Or(0)),
		Width:           node.Get("width").Int32Or(1),
		Height:          node.Get("height").Int32Or(1),
		ZIndex:          node.Get("zIndex").Int32Or(0),
	}

	if terrains := node.Get("allowedTerrains").List(); len(terrains) > 0 {
		var mask uint32
		for _, t := range terrains {
			id := t.IntOr(-1)
			if id < 0 || id > 31 {
				return Template{}, engerr.MalformedConfigurationf("template '%s' has invalid terrain id %d", name, id)
			}
			mask |= 1 << uint32(id)
		}
		tmpl.AllowedTerrains = mask
	}

	var err error
	if tmpl.BlockedAt, err = offsetsFromNode(node.Get("blockedAt")); err != nil {
		return Template{}, engerr.Wrapf(err, "template '%s' has invalid blocked offsets", name)
	}
	if tmpl.VisitableAt, err = offsetsFromNode(node.Get("visitableAt")); err != nil {
		return Template{}, engerr.Wrapf(err, "template '%s' has invalid visitable offsets", name)
	}

	return tmpl, nil
}

func offsetsFromNode(node *confignode.Node) ([]Offset, error) {
	list := node.List()
	if len(list) == 0 {
		return nil, nil
	}

	offsets := make([]Offset, 0, len(list))
	for _, entry := range list {
		pair := entry.List()
		if len(pair) != 2 {
			return nil, engerr.MalformedConfigurationf("offset must be an [x, y] pair")
		}
		offsets = append(offsets, Offset{
			X: pair[0].Int32Or(0),
			Y: pair[1].Int32Or(0),
		})
	}
	return offsets, nil
}
