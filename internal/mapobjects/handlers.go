package mapobjects

import (
	"github.com/torvale/torvale-engine/internal/confignode"
	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/random"
)

// HandlerConstructor builds an empty handler of one concrete kind. The
// registry selects a constructor by handler-name during loading.
type HandlerConstructor func() Handler

// Built-in handler names
const (
	HandlerStatic            = "static"
	HandlerCreatureGenerator = "creatureGenerator"
	HandlerBank              = "bank"
	HandlerResource          = "resource"
)

func builtinConstructors() map[string]HandlerConstructor {
	return map[string]HandlerConstructor{
		HandlerStatic:            NewStaticHandler,
		HandlerCreatureGenerator: NewCreatureGeneratorHandler,
		HandlerBank:              NewBankHandler,
		HandlerResource:          NewResourceHandler,
	}
}

// staticHandler governs decor objects whose appearance never changes and
// which carry no gameplay state
type staticHandler struct {
	Base
}

// NewStaticHandler creates a handler for static map decor
func NewStaticHandler() Handler {
	h := &staticHandler{}
	h.staticObject = true
	return h
}

func (h *staticHandler) Create(tmpl Template) *Instance {
	return h.newInstance(tmpl)
}

func (h *staticHandler) ConfigureObject(obj *Instance, src random.Source) error {
	if obj == nil {
		return engerr.InvalidArgument("instance cannot be nil")
	}
	obj.Guards = nil
	obj.ResourceID = ""
	obj.ResourceAmount = 0
	obj.Configured = true
	return nil
}

func (h *staticHandler) ObjectInfo(tmpl Template) (*ObjectInfo, bool) {
	return nil, false
}

// creatureGeneratorHandler governs dwellings: objects that recruit one
// creature kind and may be guarded by a randomized stack of it
type creatureGeneratorHandler struct {
	Base

	creatureID   int32
	guardMin     int
	guardMax     int
	unitStrength uint32
	unitClass    string
}

// NewCreatureGeneratorHandler creates a handler for creature dwellings
func NewCreatureGeneratorHandler() Handler {
	h := &creatureGeneratorHandler{}
	h.initTypeData = h.parseTypeData
	return h
}

func (h *creatureGeneratorHandler) parseTypeData(node *confignode.Node) error {
	if !node.Has("creature") {
		return engerr.MalformedConfigurationf("dwelling '%s' is missing a creature id", h.subTypeName)
	}
	h.creatureID = node.Get("creature").Int32Or(0)

	guards := node.Get("guards")
	h.guardMin = guards.Get("min").IntOr(0)
	h.guardMax = guards.Get("max").IntOr(h.guardMin)
	if h.guardMax < h.guardMin {
		return engerr.MalformedConfigurationf("dwelling '%s' has guard range %d..%d", h.subTypeName, h.guardMin, h.guardMax)
	}
	h.unitStrength = guards.Get("strength").Uint32Or(1)
	h.unitClass = guards.Get("class").StringOr("walker")
	return nil
}

func (h *creatureGeneratorHandler) Create(tmpl Template) *Instance {
	return h.newInstance(tmpl)
}

func (h *creatureGeneratorHandler) ConfigureObject(obj *Instance, src random.Source) error {
	if obj == nil {
		return engerr.InvalidArgument("instance cannot be nil")
	}
	obj.Guards = nil
	if h.guardMax > 0 {
		count := src.IntRange(h.guardMin, h.guardMax)
		if count > 0 {
			obj.Guards = []CreatureStack{{CreatureID: h.creatureID, Count: count}}
		}
	}
	obj.Configured = true
	return nil
}

func (h *creatureGeneratorHandler) ObjectInfo(tmpl Template) (*ObjectInfo, bool) {
	info := &ObjectInfo{
		MinGuards:      h.guardArmy(h.guardMin),
		MaxGuards:      h.guardArmy(h.guardMax),
		GivesCreatures: true,
	}
	return info, true
}

func (h *creatureGeneratorHandler) guardArmy(count int) ArmyStructure {
	total := uint32(count) * h.unitStrength
	army := ArmyStructure{Total: total}
	switch h.unitClass {
	case "shooter":
		army.Shooters = total
	case "flyer":
		army.Flyers = total
	default:
		army.Walkers = total
	}
	return army
}

// bankLevel is one guarded reward tier of a creature bank
type bankLevel struct {
	chance         uint32
	guardCreature  int32
	guardCount     int
	guardStrength  uint32
	resourceID     string
	resourceAmount uint32
	artifacts      int
}

func (l bankLevel) guards() ArmyStructure {
	total := uint32(l.guardCount) * l.guardStrength
	return ArmyStructure{Total: total, Walkers: total}
}

// bankHandler governs guarded reward sites with randomized tiers
type bankHandler struct {
	Base

	levels []bankLevel
}

// NewBankHandler creates a handler for creature banks
func NewBankHandler() Handler {
	h := &bankHandler{}
	h.initTypeData = h.parseTypeData
	return h
}

func (h *bankHandler) parseTypeData(node *confignode.Node) error {
	entries := node.Get("levels").List()
	if len(entries) == 0 {
		return engerr.MalformedConfigurationf("bank '%s' has no levels", h.subTypeName)
	}

	for i, entry := range entries {
		chance := entry.Get("chance").Uint32Or(0)
		if chance == 0 {
			return engerr.MalformedConfigurationf("bank '%s' level %d has no chance", h.subTypeName, i)
		}

		guards := entry.Get("guards")
		reward := entry.Get("reward")
		h.levels = append(h.levels, bankLevel{
			chance:         chance,
			guardCreature:  guards.Get("creature").Int32Or(0),
			guardCount:     guards.Get("count").IntOr(0),
			guardStrength:  guards.Get("strength").Uint32Or(1),
			resourceID:     reward.Get("resource").String(),
			resourceAmount: reward.Get("amount").Uint32Or(0),
			artifacts:      reward.Get("artifacts").IntOr(0),
		})
	}
	return nil
}

func (h *bankHandler) Create(tmpl Template) *Instance {
	return h.newInstance(tmpl)
}

func (h *bankHandler) ConfigureObject(obj *Instance, src random.Source) error {
	if obj == nil {
		return engerr.InvalidArgument("instance cannot be nil")
	}

	weights := make([]uint32, len(h.levels))
	for i, level := range h.levels {
		weights[i] = level.chance
	}
	idx := src.WeightedChoice(weights)
	if idx < 0 {
		return engerr.Internalf("bank '%s' has no selectable level", h.subTypeName)
	}

	level := h.levels[idx]
	obj.Guards = nil
	if level.guardCount > 0 {
		obj.Guards = []CreatureStack{{CreatureID: level.guardCreature, Count: level.guardCount}}
	}
	obj.ResourceID = level.resourceID
	obj.ResourceAmount = level.resourceAmount
	obj.Configured = true
	return nil
}

func (h *bankHandler) ObjectInfo(tmpl Template) (*ObjectInfo, bool) {
	if len(h.levels) == 0 {
		return nil, false
	}

	info := &ObjectInfo{}
	info.MinGuards = h.levels[0].guards()
	info.MaxGuards = h.levels[0].guards()
	for _, level := range h.levels[1:] {
		army := level.guards()
		if army.Weaker(info.MinGuards) {
			info.MinGuards = army
		}
		if info.MaxGuards.Weaker(army) {
			info.MaxGuards = army
		}
	}
	for _, level := range h.levels {
		if level.resourceAmount > 0 {
			info.GivesResources = true
		}
		if level.artifacts > 0 {
			info.GivesArtifacts = true
		}
	}
	return info, true
}

// resourceHandler governs loose resource piles with randomized amounts
type resourceHandler struct {
	Base

	resourceID string
	amountMin  int
	amountMax  int
}

// NewResourceHandler creates a handler for resource piles
func NewResourceHandler() Handler {
	h := &resourceHandler{}
	h.initTypeData = h.parseTypeData
	return h
}

func (h *resourceHandler) parseTypeData(node *confignode.Node) error {
	h.resourceID = node.Get("resource").String()
	if h.resourceID == "" {
		return engerr.MalformedConfigurationf("resource pile '%s' is missing a resource id", h.subTypeName)
	}

	amounts := node.Get("amounts")
	h.amountMin = amounts.Get("min").IntOr(1)
	h.amountMax = amounts.Get("max").IntOr(h.amountMin)
	if h.amountMax < h.amountMin {
		return engerr.MalformedConfigurationf("resource pile '%s' has amount range %d..%d", h.subTypeName, h.amountMin, h.amountMax)
	}
	return nil
}

func (h *resourceHandler) Create(tmpl Template) *Instance {
	return h.newInstance(tmpl)
}

func (h *resourceHandler) ConfigureObject(obj *Instance, src random.Source) error {
	if obj == nil {
		return engerr.InvalidArgument("instance cannot be nil")
	}
	obj.Guards = nil
	obj.ResourceID = h.resourceID
	obj.ResourceAmount = uint32(src.IntRange(h.amountMin, h.amountMax))
	obj.Configured = true
	return nil
}

func (h *resourceHandler) ObjectInfo(tmpl Template) (*ObjectInfo, bool) {
	return &ObjectInfo{GivesResources: true}, true
}
