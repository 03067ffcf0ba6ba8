package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeldja/ProScout/internal/archetypes"
	"github.com/jeldja/ProScout/internal/features"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/internal/projections"
	"github.com/jeldja/ProScout/internal/similarity"
	"github.com/sirupsen/logrus"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrProjectionNotFound = errors.New("no projection for player")
	ErrUnknownArchetype   = errors.New("unknown archetype")
	ErrHistoryUnavailable = errors.New("historical college pool not loaded")
)

type ProjectionLookup interface {
	Lookup(name string) (*projections.Projection, bool)
}

type HeadshotResolver interface {
	ResolveNBA(ctx context.Context, name string) string
	ResolveNCAA(ctx context.Context, name, school string) string
}

// Dataset is the raw input of one process start. HistoricalNCAA is optional.
type Dataset struct {
	CurrentNCAA    *models.Table
	NBA            *models.Table
	HistoricalNCAA *models.Table
}

type ScoutingConfig struct {
	CompsK     int
	Policy     similarity.FilterPolicy
	Archetypes archetypes.TrainConfig
}

func DefaultScoutingConfig() ScoutingConfig {
	return ScoutingConfig{
		CompsK:     similarity.DefaultK,
		Policy:     similarity.DefaultFilterPolicy(),
		Archetypes: archetypes.DefaultTrainConfig(),
	}
}

// ScoutingService holds the pools, indexes and archetype model built once
// at startup. Nothing is mutated afterwards, so reads need no locking.
type ScoutingService struct {
	ncaa    *models.ReferencePool
	nba     *models.ReferencePool
	history *models.ReferencePool

	nbaComparer     *similarity.Comparer
	historyComparer *similarity.Comparer

	model   *archetypes.Model
	labeled *archetypes.LabeledPool

	config      ScoutingConfig
	reports     []*features.BuildReport
	projections ProjectionLookup
	headshots   HeadshotResolver
	logger      *logrus.Logger
}

func NewScoutingService(data Dataset, config ScoutingConfig, lookup ProjectionLookup, headshots HeadshotResolver, logger *logrus.Logger) (*ScoutingService, error) {
	if config.CompsK <= 0 {
		config.CompsK = similarity.DefaultK
	}

	s := &ScoutingService{
		config:      config,
		projections: lookup,
		headshots:   headshots,
		logger:      logger,
	}

	var err error
	if s.ncaa, err = s.buildPool(data.CurrentNCAA, models.SchemaNCAA, features.NCAASanityFilters()); err != nil {
		return nil, err
	}
	if s.nba, err = s.buildPool(data.NBA, models.SchemaNBA, features.PoolFilters{}); err != nil {
		return nil, err
	}
	s.nbaComparer = similarity.NewComparer(s.nba, config.CompsK)

	if data.HistoricalNCAA != nil {
		if s.history, err = s.buildPool(data.HistoricalNCAA, models.SchemaNCAA, features.PoolFilters{}); err != nil {
			return nil, err
		}
		s.historyComparer = similarity.NewComparer(s.history, config.CompsK)
	}

	s.model, s.labeled, err = archetypes.Train(s.nba, config.Archetypes)
	if err != nil {
		return nil, fmt.Errorf("failed to train archetypes: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"k":          s.model.K(),
		"trained_on": s.model.TrainedOn,
		"inertia":    s.model.Inertia,
		"sizes":      s.labeled.Sizes(),
	}).Info("Archetype model trained")

	return s, nil
}

func (s *ScoutingService) buildPool(table *models.Table, schema models.Schema, filters features.PoolFilters) (*models.ReferencePool, error) {
	if table == nil {
		return nil, fmt.Errorf("no %s table loaded", schema)
	}
	pool, report, err := features.BuildPool(table, schema, filters)
	if err != nil {
		return nil, err
	}
	s.reports = append(s.reports, report)
	s.logger.WithFields(report.LogFields()).Info("Reference pool built")
	return pool, nil
}

type Comparable struct {
	models.PlayerInfo
	SimilarityScore float64 `json:"similarity_score"`
	Distance        float64 `json:"distance"`
	Headshot        string  `json:"headshot_url,omitempty"`
}

type CompsResult struct {
	Player      models.PlayerInfo `json:"player"`
	Tier        similarity.Tier   `json:"pool_tier"`
	PoolSize    int               `json:"pool_size"`
	Comparisons []Comparable      `json:"comparisons"`
}

type ArchetypeResult struct {
	Player models.PlayerInfo `json:"player"`
	archetypes.Classification
}

type ArchetypeSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

type PlayerProfile struct {
	models.PlayerInfo
	Features   map[string]float64         `json:"features"`
	Archetype  *archetypes.Classification `json:"archetype,omitempty"`
	Projection *projections.Projection    `json:"projection,omitempty"`
	Headshot   string                     `json:"headshot_url"`
}

func (s *ScoutingService) findNCAA(name string) (*models.PoolMember, error) {
	m, ok := s.ncaa.Find(models.NormalizeName(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return m, nil
}

func (s *ScoutingService) k(k int) int {
	if k <= 0 {
		return s.config.CompsK
	}
	return k
}

// ListPlayers returns the NCAA players available for lookups.
func (s *ScoutingService) ListPlayers() []models.PlayerInfo {
	out := make([]models.PlayerInfo, len(s.ncaa.Members))
	for i, m := range s.ncaa.Members {
		out[i] = m.PlayerInfo
	}
	return out
}

// PlayerComps ranks NBA players against an NCAA player from a role-filtered pool.
func (s *ScoutingService) PlayerComps(ctx context.Context, name string, k int) (*CompsResult, error) {
	player, err := s.findNCAA(name)
	if err != nil {
		return nil, err
	}

	policy := s.config.Policy
	comparison, err := similarity.FindComparisons(player.Features, s.nba, s.k(k), &policy)
	if err != nil {
		return nil, fmt.Errorf("failed to compare %q: %w", name, err)
	}

	s.logger.WithFields(logrus.Fields{
		"player":    player.Name,
		"tier":      comparison.Tier,
		"pool_size": comparison.PoolSize,
	}).Debug("Role-filtered comparison")

	return s.decorate(ctx, player, comparison, models.SchemaNBA), nil
}

// RawComps serves the unfiltered comparison from the startup index.
func (s *ScoutingService) RawComps(ctx context.Context, name string, k int) (*CompsResult, error) {
	player, err := s.findNCAA(name)
	if err != nil {
		return nil, err
	}
	comparison, err := s.nbaComparer.CompareK(player.Features, s.k(k))
	if err != nil {
		return nil, fmt.Errorf("failed to compare %q: %w", name, err)
	}
	return s.decorate(ctx, player, comparison, models.SchemaNBA), nil
}

// CollegeComps ranks drafted college players from past seasons.
func (s *ScoutingService) CollegeComps(ctx context.Context, name string, k int) (*CompsResult, error) {
	if s.historyComparer == nil {
		return nil, ErrHistoryUnavailable
	}
	player, err := s.findNCAA(name)
	if err != nil {
		return nil, err
	}
	comparison, err := s.historyComparer.CompareK(player.Features, s.k(k))
	if err != nil {
		return nil, fmt.Errorf("failed to compare %q: %w", name, err)
	}
	return s.decorate(ctx, player, comparison, models.SchemaNCAA), nil
}

func (s *ScoutingService) decorate(ctx context.Context, player *models.PoolMember, c *similarity.Comparison, schema models.Schema) *CompsResult {
	result := &CompsResult{
		Player:      player.PlayerInfo,
		Tier:        c.Tier,
		PoolSize:    c.PoolSize,
		Comparisons: make([]Comparable, len(c.Neighbors)),
	}
	for i, n := range c.Neighbors {
		result.Comparisons[i] = Comparable{
			PlayerInfo:      n.Member.PlayerInfo,
			SimilarityScore: n.Similarity,
			Distance:        n.Distance,
		}
		if s.headshots != nil && schema == models.SchemaNBA {
			result.Comparisons[i].Headshot = s.headshots.ResolveNBA(ctx, n.Member.Name)
		}
	}
	return result
}

// ClassifyPlayer places an NCAA player into the nearest NBA archetype.
func (s *ScoutingService) ClassifyPlayer(name string) (*ArchetypeResult, error) {
	return s.ClassifyWith(s.model, name)
}

// ClassifyWith classifies against another model, such as a stored run.
func (s *ScoutingService) ClassifyWith(model *archetypes.Model, name string) (*ArchetypeResult, error) {
	player, err := s.findNCAA(name)
	if err != nil {
		return nil, err
	}
	c, err := model.Classify(player.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %q: %w", name, err)
	}
	return &ArchetypeResult{Player: player.PlayerInfo, Classification: *c}, nil
}

func (s *ScoutingService) ArchetypeSummaries() []ArchetypeSummary {
	sizes := s.labeled.Sizes()
	out := make([]ArchetypeSummary, s.model.K())
	for id := range out {
		out[id] = ArchetypeSummary{ID: id, Name: archetypes.NameFor(id), Size: sizes[id]}
	}
	return out
}

// ArchetypeExamples lists the n NBA players closest to an archetype centroid.
func (s *ScoutingService) ArchetypeExamples(id, n int) ([]archetypes.LabeledMember, error) {
	if id < 0 || id >= s.model.K() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownArchetype, id)
	}
	return s.labeled.TopExamples(id, n), nil
}

func (s *ScoutingService) Projection(name string) (*projections.Projection, error) {
	if s.projections == nil {
		return nil, fmt.Errorf("%w: %q", ErrProjectionNotFound, name)
	}
	p, ok := s.projections.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProjectionNotFound, name)
	}
	return p, nil
}

// PlayerProfile gathers everything known about one NCAA player.
func (s *ScoutingService) PlayerProfile(ctx context.Context, name string) (*PlayerProfile, error) {
	player, err := s.findNCAA(name)
	if err != nil {
		return nil, err
	}

	profile := &PlayerProfile{
		PlayerInfo: player.PlayerInfo,
		Features:   make(map[string]float64, len(player.Features)),
	}
	for i, col := range s.ncaa.Columns {
		profile.Features[col] = player.Features[i]
	}

	if c, err := s.model.Classify(player.Features); err == nil {
		profile.Archetype = c
	}
	if s.projections != nil {
		if p, ok := s.projections.Lookup(player.Name); ok {
			profile.Projection = p
		}
	}
	if s.headshots != nil {
		profile.Headshot = s.headshots.ResolveNCAA(ctx, player.Name, player.Team)
	}
	return profile, nil
}

func (s *ScoutingService) Model() *archetypes.Model { return s.model }

func (s *ScoutingService) Labeled() *archetypes.LabeledPool { return s.labeled }

func (s *ScoutingService) BuildReports() []*features.BuildReport { return s.reports }

// FeatureSummary describes the feature spread of the current pool for schema.
func (s *ScoutingService) FeatureSummary(schema models.Schema) []features.ColumnSummary {
	switch schema {
	case models.SchemaNCAA:
		return features.Summarize(s.ncaa)
	case models.SchemaNBA:
		return features.Summarize(s.nba)
	}
	return nil
}

// PoolSizes reports member counts of every loaded pool.
func (s *ScoutingService) PoolSizes() map[string]int {
	sizes := map[string]int{
		"ncaa": s.ncaa.Len(),
		"nba":  s.nba.Len(),
	}
	if s.history != nil {
		sizes["ncaa_history"] = s.history.Len()
	}
	return sizes
}
