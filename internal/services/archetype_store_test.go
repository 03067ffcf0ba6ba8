package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jeldja/ProScout/internal/archetypes"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/pkg/database"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ArchetypeStoreTestSuite struct {
	suite.Suite
	db    *database.DB
	store *ArchetypeStore
}

func (s *ArchetypeStoreTestSuite) SetupTest() {
	path := filepath.Join(s.T().TempDir(), "runs.db")
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	s.Require().NoError(err)

	s.db = &database.DB{DB: gormDB}
	s.store = NewArchetypeStore(s.db, quietLogger())
	s.Require().NoError(s.store.Migrate())
}

func (s *ArchetypeStoreTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func labeledMember(key, team string, cluster int, distance float64) archetypes.LabeledMember {
	return archetypes.LabeledMember{
		PoolMember: models.PoolMember{PlayerInfo: models.PlayerInfo{Name: key, Key: key, Team: team}},
		ClusterID:  cluster,
		Distance:   distance,
	}
}

func (s *ArchetypeStoreTestSuite) sampleRun() (*archetypes.Model, *archetypes.LabeledPool) {
	model := archetypes.NewModel([][]float64{{1, 0}, {0, 1}}, []string{"rim_share", "three_share"})
	model.Inertia = 1.25
	model.TrainedOn = 3
	model.Config.Seed = 42
	model.Config.Restarts = 25
	model.Config.MinMinutes = 1500

	labeled := &archetypes.LabeledPool{Members: []archetypes.LabeledMember{
		labeledMember("rudy gobert", "MIN", 0, 0.2),
		labeledMember("stephen curry", "GSW", 1, 0.05),
		labeledMember("klay thompson", "DAL", 1, 0.01),
	}}
	return model, labeled
}

func (s *ArchetypeStoreTestSuite) TestSaveAndGetRun() {
	ctx := context.Background()
	model, labeled := s.sampleRun()

	run, err := s.store.SaveRun(ctx, model, labeled)
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, run.RunID)
	s.Equal(2, run.K)
	s.Equal(archetypes.NamesVersion, run.NamesVersion)

	got, err := s.store.GetRun(ctx, run.RunID)
	s.Require().NoError(err)
	s.Equal(run.RunID, got.RunID)
	s.Require().Len(got.Assignments, 3)

	// ordered by cluster then distance
	s.Equal("rudy gobert", got.Assignments[0].PlayerKey)
	s.Equal("klay thompson", got.Assignments[1].PlayerKey)
	s.Equal("stephen curry", got.Assignments[2].PlayerKey)
	s.Equal(archetypes.NameFor(1), got.Assignments[1].ClusterName)
}

func (s *ArchetypeStoreTestSuite) TestLoadModelRoundTrip() {
	ctx := context.Background()
	model, labeled := s.sampleRun()

	run, err := s.store.SaveRun(ctx, model, labeled)
	s.Require().NoError(err)

	loaded, err := s.store.LoadModel(ctx, run.RunID)
	s.Require().NoError(err)
	s.Equal(model.Centroids, loaded.Centroids)
	s.Equal(model.Columns, loaded.Columns)
	s.Equal(int64(42), loaded.Config.Seed)
	s.InDelta(1.25, loaded.Inertia, 1e-12)

	c, err := loaded.Classify([]float64{0.1, 0.9})
	s.Require().NoError(err)
	s.Equal(1, c.ClusterID)
}

func (s *ArchetypeStoreTestSuite) TestListRuns() {
	ctx := context.Background()
	model, labeled := s.sampleRun()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		run, err := s.store.SaveRun(ctx, model, labeled)
		s.Require().NoError(err)
		ids = append(ids, run.RunID)
	}

	runs, err := s.store.ListRuns(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(runs, 2)
	s.Equal(ids[2], runs[0].RunID)
	s.Empty(runs[0].Assignments)

	all, err := s.store.ListRuns(ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *ArchetypeStoreTestSuite) TestGetRunNotFound() {
	_, err := s.store.GetRun(context.Background(), uuid.New())
	s.ErrorIs(err, ErrRunNotFound)
}

func TestArchetypeStoreTestSuite(t *testing.T) {
	suite.Run(t, new(ArchetypeStoreTestSuite))
}
