package mapobjects

// ArmyStructure is an aggregate strength estimate for a group of guards
type ArmyStructure struct {
	Total    uint32
	Shooters uint32
	Flyers   uint32
	Walkers  uint32
}

// Weaker orders army structures by total strength
func (a ArmyStructure) Weaker(other ArmyStructure) bool {
	return a.Total < other.Total
}

// ObjectInfo answers what instantiating an object would grant or require
// without materializing a full instance. Built on demand per query and
// never persisted. The zero value means no guards and no capabilities.
type ObjectInfo struct {
	// Actual guards fall somewhere between these two estimates
	MinGuards ArmyStructure
	MaxGuards ArmyStructure

	GivesResources       bool
	GivesExperience      bool
	GivesMana            bool
	GivesMovement        bool
	GivesPrimarySkills   bool
	GivesSecondarySkills bool
	GivesArtifacts       bool
	GivesCreatures       bool
	GivesSpells          bool
	GivesBonuses         bool
}
