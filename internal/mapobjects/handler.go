package mapobjects

import (
	"github.com/torvale/torvale-engine/internal/confignode"
	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/random"
)

// Handler is the per-subtype object factory and configurator. The registry
// owns every handler; callers receive non-owning handles and must not keep
// them past the registry's lifetime.
type Handler interface {
	// SetType binds the numeric identity. Identity is immutable once set:
	// a second call with the same pair is a no-op, a different pair fails.
	SetType(typ, subtype int32) error

	// SetTypeNames binds the qualified string identity
	SetTypeNames(typeName, subTypeName string)

	Type() int32
	Subtype() int32
	TypeName() string
	SubTypeName() string

	// Init parses generic fields (custom name, RMG info, templates) from
	// the configuration fragment, then delegates to the handler's own
	// type-data hook. Must be called exactly once per handler.
	Init(node *confignode.Node, name *string) error

	// AfterLoadFinalization runs once after all types are loaded, for
	// cross-type reference resolution
	AfterLoadFinalization()

	// CustomName returns the object-specific name, if set
	CustomName() (string, bool)
	SetCustomName(name *string)

	RMGInfo() RandomMapInfo
	SetRMGInfo(info RandomMapInfo)

	// AddTemplate appends a ready template
	AddTemplate(tmpl Template)

	// AddTemplateNode builds a template from a configuration fragment
	// merged against the handler's stored base fragment, then appends it
	AddTemplateNode(name string, node *confignode.Node) error

	// Templates returns all templates in insertion order
	Templates() []Template

	// TemplatesFor returns the templates whose terrain mask accepts the
	// given terrain, preserving insertion order
	TemplatesFor(terrain int32) []Template

	// Override picks the preferred template for an existing object on the
	// given terrain. The object is not mutated; the caller applies the
	// result. Returns false when no template matches.
	Override(terrain int32, obj *Instance) (Template, bool)

	// IsStatic reports whether instances never change appearance after
	// placement
	IsStatic() bool

	// Create constructs a bare instance bound to this handler's identity
	// and the given template. Gameplay state is deliberately left unset so
	// maps can be loaded before a game session exists.
	Create(tmpl Template) *Instance

	// ConfigureObject fills in the remaining instance state. It is
	// idempotent: calling it again resets and re-randomizes the instance.
	// All nondeterministic choices go through the supplied source.
	ConfigureObject(obj *Instance, src random.Source) error

	// ObjectInfo estimates what instantiating this template would grant.
	// Returns false when no estimate is available.
	ObjectInfo(tmpl Template) (*ObjectInfo, bool)
}

// Base carries the generic handler state and behavior. Concrete handlers
// embed it and implement the factory methods; subtype-specific parsing and
// template filtering plug in through the hook fields.
type Base struct {
	rmg        RandomMapInfo
	customName *string
	base       *confignode.Node
	templates  []Template

	typeName    string
	subTypeName string
	typ         int32
	subtype     int32
	typeSet     bool
	initDone    bool

	// initTypeData parses the subtype-specific part of the configuration.
	// Nil means no extra data.
	initTypeData func(node *confignode.Node) error

	// objectFilter narrows Override candidates. Nil accepts everything.
	objectFilter func(obj *Instance, tmpl Template) bool

	staticObject bool
}

// SetType implements Handler.SetType
func (b *Base) SetType(typ, subtype int32) error {
	if b.typeSet {
		if b.typ == typ && b.subtype == subtype {
			return nil
		}
		return engerr.InvalidArgumentf("handler identity already set to %d/%d, cannot rebind to %d/%d",
			b.typ, b.subtype, typ, subtype)
	}
	b.typ = typ
	b.subtype = subtype
	b.typeSet = true
	return nil
}

// SetTypeNames implements Handler.SetTypeNames
func (b *Base) SetTypeNames(typeName, subTypeName string) {
	b.typeName = typeName
	b.subTypeName = subTypeName
}

// Type implements Handler.Type
func (b *Base) Type() int32 { return b.typ }

// Subtype implements Handler.Subtype
func (b *Base) Subtype() int32 { return b.subtype }

// TypeName implements Handler.TypeName
func (b *Base) TypeName() string { return b.typeName }

// SubTypeName implements Handler.SubTypeName
func (b *Base) SubTypeName() string { return b.subTypeName }

// Init implements Handler.Init
func (b *Base) Init(node *confignode.Node, name *string) error {
	if b.initDone {
		return engerr.Internalf("handler %s already initialized", b.subTypeName)
	}
	b.initDone = true

	if name != nil {
		b.customName = name
	} else if node.Has("name") {
		n := node.Get("name").String()
		b.customName = &n
	}

	b.rmg = rmgInfoFromNode(node.Get("rmg"))
	b.base = node.Get("base").Clone()

	templates := node.Get("templates")
	for _, key := range templates.Keys() {
		if err := b.AddTemplateNode(key, templates.Get(key)); err != nil {
			return err
		}
	}

	if b.initTypeData != nil {
		if err := b.initTypeData(node); err != nil {
			return err
		}
	}
	return nil
}

// AfterLoadFinalization implements Handler.AfterLoadFinalization as a no-op
func (b *Base) AfterLoadFinalization() {}

// CustomName implements Handler.CustomName
func (b *Base) CustomName() (string, bool) {
	if b.customName == nil {
		return "", false
	}
	return *b.customName, true
}

// SetCustomName implements Handler.SetCustomName
func (b *Base) SetCustomName(name *string) {
	b.customName = name
}

// RMGInfo implements Handler.RMGInfo
func (b *Base) RMGInfo() RandomMapInfo { return b.rmg }

// SetRMGInfo implements Handler.SetRMGInfo
func (b *Base) SetRMGInfo(info RandomMapInfo) { b.rmg = info }

// AddTemplate implements Handler.AddTemplate
func (b *Base) AddTemplate(tmpl Template) {
	b.templates = append(b.templates, tmpl)
}

// AddTemplateNode implements Handler.AddTemplateNode
func (b *Base) AddTemplateNode(name string, node *confignode.Node) error {
	merged := b.base.Merge(node)
	tmpl, err := TemplateFromNode(name, merged)
	if err != nil {
		return err
	}
	b.templates = append(b.templates, tmpl)
	return nil
}

// Templates implements Handler.Templates
func (b *Base) Templates() []Template {
	out := make([]Template, len(b.templates))
	copy(out, b.templates)
	return out
}

// TemplatesFor implements Handler.TemplatesFor
func (b *Base) TemplatesFor(terrain int32) []Template {
	var out []Template
	for _, tmpl := range b.templates {
		if tmpl.Accepts(terrain) {
			out = append(out, tmpl)
		}
	}
	return out
}

// Override implements Handler.Override. The first accepted candidate in
// insertion order wins.
func (b *Base) Override(terrain int32, obj *Instance) (Template, bool) {
	for _, tmpl := range b.templates {
		if !tmpl.Accepts(terrain) {
			continue
		}
		if b.objectFilter != nil && !b.objectFilter(obj, tmpl) {
			continue
		}
		return tmpl, true
	}
	return Template{}, false
}

// IsStatic implements Handler.IsStatic
func (b *Base) IsStatic() bool { return b.staticObject }

// newInstance builds a bare instance carrying the handler's identity
func (b *Base) newInstance(tmpl Template) *Instance {
	obj := &Instance{
		Type:        b.typ,
		Subtype:     b.subtype,
		TypeName:    b.typeName,
		SubTypeName: b.subTypeName,
		Template:    tmpl,
	}
	if b.customName != nil {
		obj.CustomName = *b.customName
	}
	return obj
}
