package services

import (
	"context"
	"strings"
	"testing"

	"github.com/jeldja/ProScout/internal/archetypes"
	"github.com/jeldja/ProScout/internal/features"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/internal/projections"
	"github.com/jeldja/ProScout/internal/similarity"
	"github.com/jeldja/ProScout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProjections map[string]*projections.Projection

func (f fakeProjections) Lookup(name string) (*projections.Projection, bool) {
	p, ok := f[models.NormalizeName(name)]
	return p, ok
}

type fakeHeadshots struct{}

func (fakeHeadshots) ResolveNBA(_ context.Context, name string) string { return "nba:" + name }

func (fakeHeadshots) ResolveNCAA(_ context.Context, name, school string) string {
	return "ncaa:" + name + "|" + school
}

func testScoutingConfig() ScoutingConfig {
	return ScoutingConfig{
		CompsK: 3,
		Policy: similarity.FilterPolicy{MinMinutes: 2000, UsageBand: 0.05, MinPoolSize: 4},
		Archetypes: archetypes.TrainConfig{
			K:          2,
			MinMinutes: 1500,
			Restarts:   5,
			MaxIter:    100,
			Tol:        1e-4,
			Seed:       42,
		},
	}
}

func newTestScoutingService(t *testing.T, history *models.Table) *ScoutingService {
	t.Helper()
	data := Dataset{
		CurrentNCAA:    testutil.CollegeClass(),
		NBA:            testutil.NBALeague(),
		HistoricalNCAA: history,
	}
	lookup := fakeProjections{
		"cooper flagg": {PlayerName: "Cooper Flagg", PeakBPM: 4.2, Percentiles: projections.Percentiles{PeakBPM: 97}},
	}
	svc, err := NewScoutingService(data, testScoutingConfig(), lookup, fakeHeadshots{}, quietLogger())
	require.NoError(t, err)
	return svc
}

func TestNewScoutingServiceBuildsPools(t *testing.T) {
	svc := newTestScoutingService(t, nil)

	assert.Equal(t, map[string]int{"ncaa": 2, "nba": 12}, svc.PoolSizes())
	require.Len(t, svc.BuildReports(), 2)
	assert.Equal(t, 1, svc.BuildReports()[0].Excluded[features.ReasonRawFloor])
	assert.Equal(t, 2, svc.Model().K())
	assert.Equal(t, 12, svc.Labeled().Len())

	players := svc.ListPlayers()
	require.Len(t, players, 2)
	assert.Equal(t, "Cooper Flagg", players[0].Name)
}

func TestNewScoutingServiceRequiresTables(t *testing.T) {
	_, err := NewScoutingService(Dataset{CurrentNCAA: testutil.CollegeClass()}, testScoutingConfig(), nil, nil, quietLogger())
	assert.Error(t, err)

	cfg := testScoutingConfig()
	cfg.Archetypes.K = 20
	_, err = NewScoutingService(Dataset{CurrentNCAA: testutil.CollegeClass(), NBA: testutil.NBALeague()}, cfg, nil, nil, quietLogger())
	assert.ErrorIs(t, err, archetypes.ErrInsufficientPlayers)
}

func TestPlayerComps(t *testing.T) {
	svc := newTestScoutingService(t, nil)
	ctx := context.Background()

	result, err := svc.PlayerComps(ctx, "cooper  flagg", 0)
	require.NoError(t, err)
	assert.Equal(t, "Cooper Flagg", result.Player.Name)
	assert.Equal(t, similarity.TierRole, result.Tier)
	assert.Equal(t, 12, result.PoolSize)
	require.Len(t, result.Comparisons, 3)
	for _, c := range result.Comparisons {
		assert.True(t, strings.HasPrefix(c.Name, "Big"), c.Name)
		assert.Equal(t, "nba:"+c.Name, c.Headshot)
		assert.InDelta(t, 1-c.Distance, c.SimilarityScore, 1e-12)
	}

	result, err = svc.PlayerComps(ctx, "Kon Knueppel", 5)
	require.NoError(t, err)
	require.Len(t, result.Comparisons, 5)
	assert.True(t, strings.HasPrefix(result.Comparisons[0].Name, "Shooter"))

	_, err = svc.PlayerComps(ctx, "Bench Guy", 3)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRawCompsMatchesFilteredOrderWhenPoolIsWhole(t *testing.T) {
	svc := newTestScoutingService(t, nil)
	ctx := context.Background()

	raw, err := svc.RawComps(ctx, "Cooper Flagg", 4)
	require.NoError(t, err)
	filtered, err := svc.PlayerComps(ctx, "Cooper Flagg", 4)
	require.NoError(t, err)

	assert.Equal(t, similarity.TierFull, raw.Tier)
	require.Len(t, raw.Comparisons, 4)
	for i := range raw.Comparisons {
		assert.Equal(t, filtered.Comparisons[i].Key, raw.Comparisons[i].Key)
	}
}

func TestCollegeComps(t *testing.T) {
	svc := newTestScoutingService(t, nil)
	_, err := svc.CollegeComps(context.Background(), "Cooper Flagg", 3)
	assert.ErrorIs(t, err, ErrHistoryUnavailable)

	class := testutil.CollegeClass()
	history := &models.Table{Columns: class.Columns}
	for _, row := range class.Rows[:2] {
		past := models.Record{}
		for k, v := range row {
			past[k] = v
		}
		past["player_name"] = "Old " + row["player_name"]
		history.Rows = append(history.Rows, past)
	}
	svc = newTestScoutingService(t, history)
	assert.Equal(t, 2, svc.PoolSizes()["ncaa_history"])

	result, err := svc.CollegeComps(context.Background(), "Cooper Flagg", 1)
	require.NoError(t, err)
	require.Len(t, result.Comparisons, 1)
	assert.Equal(t, "Old Cooper Flagg", result.Comparisons[0].Name)
	assert.InDelta(t, 0, result.Comparisons[0].Distance, 1e-9)
	assert.Empty(t, result.Comparisons[0].Headshot)
}

func TestClassifyPlayer(t *testing.T) {
	svc := newTestScoutingService(t, nil)

	bigCluster := -1
	for _, m := range svc.Labeled().Members {
		if m.Name == testutil.BigName(0) {
			bigCluster = m.ClusterID
		}
	}
	require.NotEqual(t, -1, bigCluster)

	result, err := svc.ClassifyPlayer("Cooper Flagg")
	require.NoError(t, err)
	assert.Equal(t, bigCluster, result.ClusterID)
	assert.Equal(t, archetypes.NameFor(bigCluster), result.Name)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.Len(t, result.Distances, 2)

	_, err = svc.ClassifyPlayer("Nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestArchetypeSummariesAndExamples(t *testing.T) {
	svc := newTestScoutingService(t, nil)

	summaries := svc.ArchetypeSummaries()
	require.Len(t, summaries, 2)
	total := 0
	for id, s := range summaries {
		assert.Equal(t, id, s.ID)
		assert.Equal(t, archetypes.NameFor(id), s.Name)
		total += s.Size
	}
	assert.Equal(t, 12, total)

	examples, err := svc.ArchetypeExamples(0, 3)
	require.NoError(t, err)
	assert.Len(t, examples, 3)
	for i := 1; i < len(examples); i++ {
		assert.LessOrEqual(t, examples[i-1].Distance, examples[i].Distance)
	}

	_, err = svc.ArchetypeExamples(2, 3)
	assert.ErrorIs(t, err, ErrUnknownArchetype)
	_, err = svc.ArchetypeExamples(-1, 3)
	assert.ErrorIs(t, err, ErrUnknownArchetype)
}

func TestFeatureSummary(t *testing.T) {
	svc := newTestScoutingService(t, nil)

	nba := svc.FeatureSummary(models.SchemaNBA)
	require.Len(t, nba, features.NumFeatures)
	assert.Equal(t, "rim_share", nba[features.RimShare].Column)
	assert.Greater(t, nba[features.RimShare].StdDev, 0.0)

	assert.Len(t, svc.FeatureSummary(models.SchemaNCAA), features.NumFeatures)
	assert.Nil(t, svc.FeatureSummary(models.Schema("wnba")))
}

func TestProjectionAndProfile(t *testing.T) {
	svc := newTestScoutingService(t, nil)

	p, err := svc.Projection("COOPER FLAGG")
	require.NoError(t, err)
	assert.Equal(t, 4.2, p.PeakBPM)

	_, err = svc.Projection("Kon Knueppel")
	assert.ErrorIs(t, err, ErrProjectionNotFound)

	profile, err := svc.PlayerProfile(context.Background(), "Cooper Flagg")
	require.NoError(t, err)
	assert.Len(t, profile.Features, features.NumFeatures)
	assert.Contains(t, profile.Features, "rim_share")
	require.NotNil(t, profile.Archetype)
	require.NotNil(t, profile.Projection)
	assert.Equal(t, "ncaa:Cooper Flagg|Duke", profile.Headshot)

	profile, err = svc.PlayerProfile(context.Background(), "Kon Knueppel")
	require.NoError(t, err)
	assert.Nil(t, profile.Projection)
}
