package mapobjects

import (
	"log"
	"sort"
	"strings"

	"github.com/torvale/torvale-engine/internal/confignode"
	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/random"
	"github.com/torvale/torvale-engine/internal/uuid"
)

// container groups everything known about one primary object type. The
// subObjects and subIds maps mutate only together so every registered
// subtype id always has a matching reverse string-id entry.
type container struct {
	id          int32
	identifier  string
	name        string
	handlerName string

	base       *confignode.Node
	subObjects map[int32]Handler
	subIds     map[string]int32

	// subtype ids are never reused after removal within a session
	nextSubID int32
}

func (c *container) reserveSubID(id int32) {
	if id >= c.nextSubID {
		c.nextSubID = id + 1
	}
}

// Registry is the object-class registry. It owns every container and
// handler; lookups hand out non-owning references. Loading is a
// single-threaded initialization phase; once AfterLoadFinalization has
// run the registry is effectively immutable and safe for concurrent
// reads.
type Registry struct {
	objects map[int32]*container

	// filled at construction, selects handler implementations by name
	// during loading; never persisted
	handlerConstructors map[string]HandlerConstructor

	// staging for bulk legacy import, consumed by AfterLoadFinalization
	legacyTemplates map[legacyKey][]Template
	customNames     map[int32]map[int32]string

	uuidGen uuid.Generator
	nextID  int32
}

// Config holds construction options for the registry
type Config struct {
	// UUIDGenerator stamps instance ids in CreateInstance. Defaults to
	// the google uuid generator.
	UUIDGenerator uuid.Generator
}

// NewRegistry creates a registry with all built-in handler types
// registered
func NewRegistry(cfg *Config) *Registry {
	gen := uuid.Generator(uuid.NewGoogleUUIDGenerator())
	if cfg != nil && cfg.UUIDGenerator != nil {
		gen = cfg.UUIDGenerator
	}

	return &Registry{
		objects:             make(map[int32]*container),
		handlerConstructors: builtinConstructors(),
		legacyTemplates:     make(map[legacyKey][]Template),
		customNames:         make(map[int32]map[int32]string),
		uuidGen:             gen,
	}
}

// RegisterHandlerType adds a handler constructor under the given
// handler-name. Built-in names cannot be replaced.
func (r *Registry) RegisterHandlerType(name string, ctor HandlerConstructor) error {
	if name == "" || ctor == nil {
		return engerr.InvalidArgument("handler name and constructor are required")
	}
	if _, exists := r.handlerConstructors[name]; exists {
		return engerr.DuplicateDefinitionf("handler type '%s' is already registered", name)
	}
	r.handlerConstructors[name] = ctor
	return nil
}

// Qualify builds the mod-scope qualified form of an identifier
func Qualify(scope, name string) string {
	return scope + ":" + name
}

func identifierMatches(qualified, query string) bool {
	if qualified == query {
		return true
	}
	if idx := strings.IndexByte(qualified, ':'); idx >= 0 {
		return qualified[idx+1:] == query
	}
	return false
}

// LoadObject registers one primary-type entry from configuration,
// assigning the next free numeric id. Subtype entries under "types" are
// loaded one by one; a malformed entry is logged and skipped without
// aborting the rest.
func (r *Registry) LoadObject(scope, name string, data *confignode.Node) (int32, error) {
	return r.loadObject(scope, name, data, r.freeID())
}

// LoadObjectAt registers one primary-type entry under an explicitly
// reserved numeric id
func (r *Registry) LoadObjectAt(scope, name string, data *confignode.Node, index int32) (int32, error) {
	if _, occupied := r.objects[index]; occupied {
		return 0, engerr.DuplicateDefinitionf("object index %d is already in use", index)
	}
	return r.loadObject(scope, name, data, index)
}

func (r *Registry) loadObject(scope, name string, data *confignode.Node, id int32) (int32, error) {
	identifier := Qualify(scope, name)
	for _, c := range r.objects {
		if c.identifier == identifier {
			return 0, engerr.DuplicateDefinitionf("object '%s' is already registered", identifier)
		}
	}

	handlerName := data.Get("handler").String()
	if _, known := r.handlerConstructors[handlerName]; !known {
		return 0, engerr.MalformedConfigurationf("object '%s' uses unknown handler '%s'", identifier, handlerName)
	}

	c := &container{
		id:          id,
		identifier:  identifier,
		name:        data.Get("name").String(),
		handlerName: handlerName,
		base:        data.Get("base").Clone(),
		subObjects:  make(map[int32]Handler),
		subIds:      make(map[string]int32),
	}
	r.objects[id] = c
	if id >= r.nextID {
		r.nextID = id + 1
	}

	types := data.Get("types")
	for _, key := range types.Keys() {
		entry := types.Get(key)
		subIdent := Qualify(scope, key)

		var err error
		if entry.Has("index") {
			err = r.loadSubObjectAt(c, subIdent, entry, entry.Get("index").Int32Or(0))
		} else {
			_, err = r.loadSubObject(c, subIdent, entry)
		}
		if err != nil {
			log.Printf("skipping sub-object '%s' of '%s': %v", subIdent, identifier, err)
		}
	}

	return id, nil
}

// LoadSubObject registers a subtype under an existing primary type,
// assigning the next free subtype id
func (r *Registry) LoadSubObject(identifier string, cfg *confignode.Node, typeID int32) (int32, error) {
	c, ok := r.objects[typeID]
	if !ok {
		return 0, engerr.UnknownTypef("object type %d is not registered", typeID)
	}
	return r.loadSubObject(c, identifier, cfg)
}

// LoadSubObjectAt registers a subtype under an existing primary type with
// an explicit subtype id
func (r *Registry) LoadSubObjectAt(identifier string, cfg *confignode.Node, typeID, subID int32) error {
	c, ok := r.objects[typeID]
	if !ok {
		return engerr.UnknownTypef("object type %d is not registered", typeID)
	}
	return r.loadSubObjectAt(c, identifier, cfg, subID)
}

func (r *Registry) loadSubObject(c *container, identifier string, cfg *confignode.Node) (int32, error) {
	subID := c.nextSubID
	if err := r.loadSubObjectAt(c, identifier, cfg, subID); err != nil {
		return 0, err
	}
	return subID, nil
}

func (r *Registry) loadSubObjectAt(c *container, identifier string, cfg *confignode.Node, subID int32) error {
	if _, exists := c.subIds[identifier]; exists {
		return engerr.DuplicateDefinitionf("sub-object '%s' is already registered", identifier)
	}
	if _, occupied := c.subObjects[subID]; occupied {
		return engerr.DuplicateDefinitionf("subtype id %d of '%s' is already in use", subID, c.identifier)
	}

	h := r.handlerConstructors[c.handlerName]()
	if err := h.SetType(c.id, subID); err != nil {
		return err
	}
	h.SetTypeNames(c.identifier, identifier)

	var name *string
	if staged, ok := r.customNames[c.id][subID]; ok {
		name = &staged
	}

	merged := c.base.Merge(cfg)
	if err := h.Init(merged, name); err != nil {
		return engerr.WrapWithCode(err, engerr.CodeMalformedConfiguration,
			"failed to initialize sub-object '"+identifier+"'")
	}

	// both maps change together
	c.subObjects[subID] = h
	c.subIds[identifier] = subID
	c.reserveSubID(subID)
	return nil
}

// RemoveSubObject removes a handler and its reverse string-id entry.
// Removing a pair that was never registered is a logged no-op.
func (r *Registry) RemoveSubObject(typeID, subID int32) {
	c, ok := r.objects[typeID]
	if !ok {
		log.Printf("remove of sub-object %d/%d ignored: unknown type", typeID, subID)
		return
	}
	if _, ok := c.subObjects[subID]; !ok {
		log.Printf("remove of sub-object %d/%d ignored: unknown subtype", typeID, subID)
		return
	}

	delete(c.subObjects, subID)
	for ident, id := range c.subIds {
		if id == subID {
			delete(c.subIds, ident)
			break
		}
	}
}

// BeforeValidate injects the fields the object schema requires but source
// data may omit
func (r *Registry) BeforeValidate(node *confignode.Node) {
	if !node.Has("base") {
		node.Set("base", map[string]any{})
	}
	if !node.Has("types") {
		node.Set("types", map[string]any{})
	}
	if !node.Has("name") {
		node.Set("name", "")
	}
}

// AfterLoadFinalization runs once after all loading completes. It pushes
// staged legacy templates into their handlers, then forwards to every
// handler in ascending (type, subtype) order. Must finish before gameplay
// queries begin.
func (r *Registry) AfterLoadFinalization() {
	for _, typeID := range r.KnownObjects() {
		c := r.objects[typeID]
		subIDs, _ := r.KnownSubObjects(typeID)
		for _, subID := range subIDs {
			h := c.subObjects[subID]
			for _, tmpl := range r.legacyTemplates[legacyKey{id: typeID, subID: subID}] {
				h.AddTemplate(tmpl)
			}
			h.AfterLoadFinalization()
		}
	}
	r.legacyTemplates = make(map[legacyKey][]Template)
	r.customNames = make(map[int32]map[int32]string)
}

// DefaultAllowed reports, per numeric type in ascending id order, whether
// the type is enabled when no explicit allow-list is given. Registered
// types are enabled; gaps in the id space are not.
func (r *Registry) DefaultAllowed() []bool {
	ids := r.KnownObjects()
	if len(ids) == 0 {
		return nil
	}

	allowed := make([]bool, ids[len(ids)-1]+1)
	for _, id := range ids {
		allowed[id] = true
	}
	return allowed
}

// KnownObjects returns the registered primary type ids in ascending order
func (r *Registry) KnownObjects() []int32 {
	ids := make([]int32, 0, len(r.objects))
	for id := range r.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// KnownSubObjects returns the registered subtype ids under a primary type
// in ascending order
func (r *Registry) KnownSubObjects(typeID int32) ([]int32, error) {
	c, ok := r.objects[typeID]
	if !ok {
		return nil, engerr.UnknownTypef("object type %d is not registered", typeID)
	}

	ids := make([]int32, 0, len(c.subObjects))
	for id := range c.subObjects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// HandlerFor returns the handler registered under (type, subtype). The
// registry keeps ownership.
func (r *Registry) HandlerFor(typeID, subID int32) (Handler, error) {
	c, ok := r.objects[typeID]
	if !ok {
		return nil, engerr.UnknownTypef("object type %d is not registered", typeID)
	}
	h, ok := c.subObjects[subID]
	if !ok {
		return nil, engerr.UnknownSubtypef("object type %d has no subtype %d", typeID, subID)
	}
	return h, nil
}

// HandlerForNamed resolves qualified (or bare) string identifiers through
// the reverse maps and returns the matching handler. An exact qualified
// match wins; bare names resolve against the lowest matching id so lookups
// are deterministic when scopes share a bare name.
func (r *Registry) HandlerForNamed(typeName, subTypeName string) (Handler, error) {
	c := r.containerNamed(typeName)
	if c == nil {
		return nil, engerr.UnknownTypef("object type '%s' is not registered", typeName)
	}

	if subID, ok := c.subIds[subTypeName]; ok {
		return c.subObjects[subID], nil
	}
	idents := make([]string, 0, len(c.subIds))
	for ident := range c.subIds {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	for _, ident := range idents {
		if identifierMatches(ident, subTypeName) {
			return c.subObjects[c.subIds[ident]], nil
		}
	}
	return nil, engerr.UnknownSubtypef("object type '%s' has no subtype '%s'", typeName, subTypeName)
}

func (r *Registry) containerNamed(typeName string) *container {
	ids := r.KnownObjects()
	for _, id := range ids {
		if r.objects[id].identifier == typeName {
			return r.objects[id]
		}
	}
	for _, id := range ids {
		if identifierMatches(r.objects[id].identifier, typeName) {
			return r.objects[id]
		}
	}
	return nil
}

// ObjectName returns the human-readable name of a primary type
func (r *Registry) ObjectName(typeID int32) (string, error) {
	c, ok := r.objects[typeID]
	if !ok {
		return "", engerr.UnknownTypef("object type %d is not registered", typeID)
	}
	return c.name, nil
}

// SubObjectName returns the subtype-specific name, falling back to the
// type-level name when the handler has no custom name
func (r *Registry) SubObjectName(typeID, subID int32) (string, error) {
	h, err := r.HandlerFor(typeID, subID)
	if err != nil {
		return "", err
	}
	if name, ok := h.CustomName(); ok {
		return name, nil
	}
	return r.ObjectName(typeID)
}

// HandlerNameFor returns the handler-name string governing a primary
// type, for tooling that must not reach the handler object itself
func (r *Registry) HandlerNameFor(typeID int32) (string, error) {
	c, ok := r.objects[typeID]
	if !ok {
		return "", engerr.UnknownTypef("object type %d is not registered", typeID)
	}
	return c.handlerName, nil
}

// CreateInstance builds and configures a placeable instance of the given
// subtype on the given terrain, stamping a fresh instance id
func (r *Registry) CreateInstance(typeID, subID, terrain int32, src random.Source) (*Instance, error) {
	h, err := r.HandlerFor(typeID, subID)
	if err != nil {
		return nil, err
	}

	candidates := h.TemplatesFor(terrain)
	if len(candidates) == 0 {
		return nil, engerr.NotFoundf("object %d/%d has no template for terrain %d", typeID, subID, terrain)
	}

	tmpl := candidates[0]
	if len(candidates) > 1 {
		tmpl = candidates[src.IntRange(0, len(candidates)-1)]
	}

	obj := h.Create(tmpl)
	obj.ID = r.uuidGen.New()
	if err := h.ConfigureObject(obj, src); err != nil {
		return nil, err
	}
	return obj, nil
}

func (r *Registry) freeID() int32 {
	id := r.nextID
	for {
		if _, occupied := r.objects[id]; !occupied {
			return id
		}
		id++
	}
}
