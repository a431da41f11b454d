package registries

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	engerr "github.com/torvale/torvale-engine/internal/errors"
	"github.com/torvale/torvale-engine/internal/mapobjects"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedis(s.mockClient)
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func testSnapshot(version int) *mapobjects.Snapshot {
	return &mapobjects.Snapshot{
		Version: version,
		Objects: []mapobjects.ContainerSnapshot{
			{
				ID:          5,
				Name:        "Dwelling",
				HandlerName: "creatureGenerator",
				Identifier:  "core:dwelling",
				SubIDs:      map[string]int32{"core:elfDwelling": 0},
				SubObjects: []mapobjects.HandlerSnapshot{
					{
						Type:        5,
						Subtype:     0,
						TypeName:    "core:dwelling",
						SubTypeName: "core:elfDwelling",
					},
				},
			},
		},
	}
}

func (s *RedisRepoTestSuite) TestSave() {
	ctx := context.Background()
	snap := testSnapshot(mapobjects.FormatVersion)

	data, err := json.Marshal(snap)
	s.Require().NoError(err)

	// Happy path
	s.mock.ExpectSet("registry:snapshot:current", string(data), 0).SetVal("OK")
	s.mock.ExpectSAdd("registry:snapshots", "current").SetVal(1)

	err = s.repo.Save(ctx, "current", snap)
	s.NoError(err)

	// Dependency error
	s.mock.ExpectSet("registry:snapshot:current", string(data), 0).SetErr(errors.New("redis error"))

	err = s.repo.Save(ctx, "current", snap)
	s.Error(err)

	// Input validation
	s.Error(s.repo.Save(ctx, "", snap))
	s.Error(s.repo.Save(ctx, "current", nil))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	snap := testSnapshot(mapobjects.FormatVersion)

	data, err := json.Marshal(snap)
	s.Require().NoError(err)

	// Happy path
	s.mock.ExpectGet("registry:snapshot:current").SetVal(string(data))

	loaded, err := s.repo.Get(ctx, "current")
	s.NoError(err)
	s.Equal(snap, loaded)

	// Missing snapshot surfaces as not-found
	s.mock.ExpectGet("registry:snapshot:missing").RedisNil()

	_, err = s.repo.Get(ctx, "missing")
	s.Error(err)
	s.True(engerr.IsNotFound(err))
	s.Equal("missing", engerr.GetMeta(err)["snapshot_name"])

	// Dependency error
	s.mock.ExpectGet("registry:snapshot:current").SetErr(errors.New("redis error"))

	_, err = s.repo.Get(ctx, "current")
	s.Error(err)
	s.False(engerr.IsNotFound(err))

	// Input validation
	_, err = s.repo.Get(ctx, "")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestList() {
	ctx := context.Background()

	s.mock.ExpectSMembers("registry:snapshots").SetVal([]string{"save-2", "save-1"})

	names, err := s.repo.List(ctx)
	s.NoError(err)
	s.Equal([]string{"save-1", "save-2"}, names)
}

func (s *RedisRepoTestSuite) TestGetAll() {
	ctx := context.Background()
	snap1 := testSnapshot(mapobjects.FormatVersion)
	snap2 := testSnapshot(mapobjects.FormatVersion - 1)

	data1, err := json.Marshal(snap1)
	s.Require().NoError(err)
	data2, err := json.Marshal(snap2)
	s.Require().NoError(err)

	// fetches run concurrently, order is not fixed
	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectSMembers("registry:snapshots").SetVal([]string{"save-1", "save-2"})
	s.mock.ExpectGet("registry:snapshot:save-1").SetVal(string(data1))
	s.mock.ExpectGet("registry:snapshot:save-2").SetVal(string(data2))

	snapshots, err := s.repo.GetAll(ctx)
	s.NoError(err)
	s.Len(snapshots, 2)
	s.Equal(snap1, snapshots["save-1"])
	s.Equal(snap2, snapshots["save-2"])
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()

	// Happy path
	s.mock.ExpectDel("registry:snapshot:current").SetVal(1)
	s.mock.ExpectSRem("registry:snapshots", "current").SetVal(1)

	s.NoError(s.repo.Delete(ctx, "current"))

	// Missing snapshot surfaces as not-found
	s.mock.ExpectDel("registry:snapshot:missing").SetVal(0)

	err := s.repo.Delete(ctx, "missing")
	s.Error(err)
	s.True(engerr.IsNotFound(err))

	// Input validation
	s.Error(s.repo.Delete(ctx, ""))
}
