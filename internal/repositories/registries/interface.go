package registries

import (
	"context"

	"github.com/torvale/torvale-engine/internal/mapobjects"
)

// Repository defines the interface for registry snapshot persistence.
// Snapshots are stored under caller-chosen names (e.g. one per save
// slot or mod set).
type Repository interface {
	// Save stores a snapshot under the given name, overwriting any
	// previous snapshot with that name
	Save(ctx context.Context, name string, snap *mapobjects.Snapshot) error

	// Get retrieves a snapshot by name
	Get(ctx context.Context, name string) (*mapobjects.Snapshot, error)

	// List returns the names of all stored snapshots in sorted order
	List(ctx context.Context) ([]string, error)

	// GetAll retrieves every stored snapshot keyed by name
	GetAll(ctx context.Context) (map[string]*mapobjects.Snapshot, error)

	// Delete removes a snapshot
	Delete(ctx context.Context, name string) error
}
