package mapobjects

// CreatureStack is one group of identical creatures guarding an object
type CreatureStack struct {
	CreatureID int32
	Count      int
}

// Instance is a live map object produced by a handler's factory pair.
// Create binds identity and template only; gameplay state is filled in by
// ConfigureObject so maps can be loaded before a game session exists.
type Instance struct {
	// ID uniquely identifies this placed instance
	ID string

	Type        int32
	Subtype     int32
	TypeName    string
	SubTypeName string

	Template   Template
	CustomName string

	// State set by ConfigureObject
	Guards         []CreatureStack
	ResourceID     string
	ResourceAmount uint32
	Configured     bool
}
