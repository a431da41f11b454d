package registries

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/mapobjects"
)

const (
	snapshotKeyPrefix = "registry:snapshot:"
	snapshotIndexKey  = "registry:snapshots"
)

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a redis-backed snapshot repository
func NewRedis(client redis.UniversalClient) Repository {
	return &redisRepo{client: client}
}

func snapshotKey(name string) string {
	return snapshotKeyPrefix + name
}

// Save stores a snapshot under the given name
func (r *redisRepo) Save(ctx context.Context, name string, snap *mapobjects.Snapshot) error {
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

	if err := r.client.Set(ctx, snapshotKey(name), string(data), 0).Err(); err != nil {
		return engerr.Wrapf(err, "failed to store snapshot '%s'", name)
	}
	if err := r.client.SAdd(ctx, snapshotIndexKey, name).Err(); err != nil {
		return engerr.Wrapf(err, "failed to index snapshot '%s'", name)
	}
	return nil
}

// Get retrieves a snapshot by name
func (r *redisRepo) Get(ctx context.Context, name string) (*mapobjects.Snapshot, error) {
	if name == "" {
		return nil, engerr.InvalidArgument("snapshot name is required")
	}

	data, err := r.client.Get(ctx, snapshotKey(name)).Bytes()
	if err == redis.Nil {
		return nil, engerr.NotFoundf("snapshot '%s' not found", name).
			WithMeta("snapshot_name", name)
	}
	if err != nil {
		return nil, engerr.Wrapf(err, "failed to load snapshot '%s'", name)
	}

	var snap mapobjects.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, engerr.Wrapf(err, "failed to unmarshal snapshot '%s'", name)
	}
	return &snap, nil
}

// List returns the names of all stored snapshots in sorted order
func (r *redisRepo) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, snapshotIndexKey).Result()
	if err != nil {
		return nil, engerr.Wrap(err, "failed to list snapshots")
	}
	sort.Strings(names)
	return names, nil
}

// GetAll retrieves every stored snapshot keyed by name
func (r *redisRepo) GetAll(ctx context.Context) (map[string]*mapobjects.Snapshot, error) {
	names, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	snapshots := make(map[string]*mapobjects.Snapshot, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			snap, err := r.Get(ctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			snapshots[name] = snap
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Delete removes a snapshot
func (r *redisRepo) Delete(ctx context.Context, name string) error {
	if name == "" {
		return engerr.InvalidArgument("snapshot name is required")
	}

	removed, err := r.client.Del(ctx, snapshotKey(name)).Result()
	if err != nil {
		return engerr.Wrapf(err, "failed to delete snapshot '%s'", name)
	}
	if removed == 0 {
		return engerr.NotFoundf("snapshot '%s' not found", name)
	}

	if err := r.client.SRem(ctx, snapshotIndexKey, name).Err(); err != nil {
		return engerr.Wrapf(err, "failed to unindex snapshot '%s'", name)
	}
	return nil
}
