package mapobjects

import (
	"github.com/torvale/torvale-engine/internal/confignode"
	engerr "github.com/torvale/torvale-engine/internal/errors"
)

const (
	// FormatVersion is the serialization version written by this build
	FormatVersion = 760

	// stringIDVersion is the first version carrying qualified string
	// identifiers. Older streams rebuild their string-id maps from
	// configuration instead.
	stringIDVersion = 759
)

// HandlerSnapshot is the persisted form of one type handler
type HandlerSnapshot struct {
	Type      int32         `json:"type"`
	Subtype   int32         `json:"subtype"`
	Templates []Template    `json:"templates"`
	RMGInfo   RandomMapInfo `json:"rmgInfo"`
	Name      *string       `json:"name,omitempty"`

	// present for version >= 759
	TypeName    string `json:"typeName,omitempty"`
	SubTypeName string `json:"subTypeName,omitempty"`
}

// ContainerSnapshot is the persisted form of one primary-type container
type ContainerSnapshot struct {
	ID          int32             `json:"id"`
	Name        string            `json:"name"`
	HandlerName string            `json:"handlerName"`
	Base        *confignode.Node  `json:"base,omitempty"`
	SubObjects  []HandlerSnapshot `json:"subObjects"`

	// present for version >= 759
	Identifier string           `json:"identifier,omitempty"`
	SubIDs     map[string]int32 `json:"subIds,omitempty"`
}

// Snapshot is the versioned persisted form of the whole registry
type Snapshot struct {
	Version int                 `json:"version"`
	Objects []ContainerSnapshot `json:"objects"`
}

// Snapshot captures the registry state at the current format version
func (r *Registry) Snapshot() *Snapshot {
	return r.SnapshotAt(FormatVersion)
}

// SnapshotAt captures the registry state at an explicit format version.
// Versions below the string-id threshold omit qualified identifiers.
func (r *Registry) SnapshotAt(version int) *Snapshot {
	snap := &Snapshot{Version: version}
	withStrings := version >= stringIDVersion

	for _, typeID := range r.KnownObjects() {
		c := r.objects[typeID]
		cs := ContainerSnapshot{
			ID:          c.id,
			Name:        c.name,
			HandlerName: c.handlerName,
			Base:        c.base.Clone(),
		}
		if withStrings {
			cs.Identifier = c.identifier
			cs.SubIDs = make(map[string]int32, len(c.subIds))
			for ident, subID := range c.subIds {
				cs.SubIDs[ident] = subID
			}
		}

		subIDs, _ := r.KnownSubObjects(typeID)
		for _, subID := range subIDs {
			h := c.subObjects[subID]
			hs := HandlerSnapshot{
				Type:      h.Type(),
				Subtype:   h.Subtype(),
				Templates: h.Templates(),
				RMGInfo:   h.RMGInfo(),
			}
			if name, ok := h.CustomName(); ok {
				hs.Name = &name
			}
			if withStrings {
				hs.TypeName = h.TypeName()
				hs.SubTypeName = h.SubTypeName()
			}
			cs.SubObjects = append(cs.SubObjects, hs)
		}
		snap.Objects = append(snap.Objects, cs)
	}
	return snap
}

// Restore replaces the registry contents with a previously captured
// snapshot. Handlers are reconstructed through the handler-name
// constructor table, which is never persisted. Pre-threshold snapshots
// leave string-id maps empty; callers must rebuild them by re-resolving
// against current configuration.
func (r *Registry) Restore(snap *Snapshot) error {
	if snap == nil {
		return engerr.InvalidArgument("snapshot cannot be nil")
	}
	withStrings := snap.Version >= stringIDVersion

	objects := make(map[int32]*container, len(snap.Objects))
	var nextID int32
	for _, cs := range snap.Objects {
		ctor, known := r.handlerConstructors[cs.HandlerName]
		if !known {
			return engerr.MalformedConfigurationf("snapshot container %d uses unknown handler '%s'", cs.ID, cs.HandlerName)
		}
		if _, occupied := objects[cs.ID]; occupied {
			return engerr.DuplicateDefinitionf("snapshot container id %d appears twice", cs.ID)
		}

		c := &container{
			id:          cs.ID,
			name:        cs.Name,
			handlerName: cs.HandlerName,
			base:        cs.Base.Clone(),
			subObjects:  make(map[int32]Handler, len(cs.SubObjects)),
			subIds:      make(map[string]int32),
		}
		if withStrings {
			c.identifier = cs.Identifier
			for ident, subID := range cs.SubIDs {
				c.subIds[ident] = subID
			}
		}

		for _, hs := range cs.SubObjects {
			h := ctor()
			if err := h.SetType(hs.Type, hs.Subtype); err != nil {
				return err
			}
			if withStrings {
				h.SetTypeNames(hs.TypeName, hs.SubTypeName)
			}
			h.SetRMGInfo(hs.RMGInfo)
			h.SetCustomName(hs.Name)
			for _, tmpl := range hs.Templates {
				h.AddTemplate(tmpl)
			}

			if _, occupied := c.subObjects[hs.Subtype]; occupied {
				return engerr.DuplicateDefinitionf("snapshot subtype %d/%d appears twice", hs.Type, hs.Subtype)
			}
			c.subObjects[hs.Subtype] = h
			c.reserveSubID(hs.Subtype)
		}

		objects[cs.ID] = c
		if cs.ID >= nextID {
			nextID = cs.ID + 1
		}
	}

	// sanity check the two-map invariant on versioned streams
	if withStrings {
		for _, c := range objects {
			for ident, subID := range c.subIds {
				if _, ok := c.subObjects[subID]; !ok {
					return engerr.MalformedConfigurationf("snapshot id map entry '%s' points at missing subtype %d", ident, subID)
				}
			}
		}
	}

	r.objects = objects
	r.nextID = nextID
	return nil
}
