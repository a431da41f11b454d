package registries

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/mapobjects"
)

// InMemoryRepository is an in-memory implementation of the snapshot
// repository. Useful for testing and development. Snapshots are stored
// in marshaled form so callers cannot mutate stored state through
// retained pointers.
type InMemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		snapshots: make(map[string][]byte),
	}
}

// Save stores a snapshot under the given name
func (r *InMemoryRepository) Save(ctx context.Context, name string, snap *mapobjects.Snapshot) error {
	if name == "" {
		return engerr.InvalidArgument("snapshot name is required")
	}
	if snap == nil {
		return engerr.InvalidArgument("snapshot cannot be nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return engerr.Wrap(err, "failed to marshal snapshot")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[name] = data
	return nil
}

// Get retrieves a snapshot by name
func (r *InMemoryRepository) Get(ctx context.Context, name string) (*mapobjects.Snapshot, error) {
	if name == "" {
		return nil, engerr.InvalidArgument("snapshot name is required")
	}

	r.mu.RLock()
	data, exists := r.snapshots[name]
	r.mu.RUnlock()

	if !exists {
		return nil, engerr.NotFoundf("snapshot '%s' not found", name).
			WithMeta("snapshot_name", name)
	}

	var snap mapobjects.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, engerr.Wrapf(err, "failed to unmarshal snapshot '%s'", name)
	}
	return &snap, nil
}

// List returns the names of all stored snapshots in sorted order
func (r *InMemoryRepository) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.snapshots))
	for name := range r.snapshots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetAll retrieves every stored snapshot keyed by name
func (r *InMemoryRepository) GetAll(ctx context.Context) (map[string]*mapobjects.Snapshot, error) {
	names, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make(map[string]*mapobjects.Snapshot, len(names))
	for _, name := range names {
		snap, err := r.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		snapshots[name] = snap
	}
	return snapshots, nil
}

// Delete removes a snapshot
func (r *InMemoryRepository) Delete(ctx context.Context, name string) error {
	if name == "" {
		return engerr.InvalidArgument("snapshot name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.snapshots[name]; !exists {
		return engerr.NotFoundf("snapshot '%s' not found", name)
	}
	delete(r.snapshots, name)
	return nil
}
