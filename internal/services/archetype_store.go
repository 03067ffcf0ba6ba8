package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jeldja/ProScout/internal/archetypes"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/pkg/database"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrRunNotFound = errors.New("archetype run not found")

// ArchetypeStore persists archetype fits so runs can be compared over time.
type ArchetypeStore struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewArchetypeStore(db *database.DB, logger *logrus.Logger) *ArchetypeStore {
	return &ArchetypeStore{db: db, logger: logger}
}

func (s *ArchetypeStore) Migrate() error {
	if err := s.db.AutoMigrate(&models.ArchetypeRun{}, &models.ArchetypeAssignment{}); err != nil {
		return fmt.Errorf("failed to migrate archetype tables: %w", err)
	}
	return nil
}

// SaveRun stores the model and every member's assignment in one transaction.
func (s *ArchetypeStore) SaveRun(ctx context.Context, model *archetypes.Model, labeled *archetypes.LabeledPool) (*models.ArchetypeRun, error) {
	centroids, err := json.Marshal(model.Centroids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode centroids: %w", err)
	}
	columns, err := json.Marshal(model.Columns)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feature columns: %w", err)
	}

	run := &models.ArchetypeRun{
		RunID:          uuid.New(),
		K:              model.K(),
		Seed:           model.Config.Seed,
		Restarts:       model.Config.Restarts,
		MinMinutes:     model.Config.MinMinutes,
		Inertia:        model.Inertia,
		TrainedOn:      model.TrainedOn,
		NamesVersion:   archetypes.NamesVersion,
		FeatureColumns: datatypes.JSON(columns),
		Centroids:      datatypes.JSON(centroids),
	}

	assignments := make([]models.ArchetypeAssignment, len(labeled.Members))
	for i, m := range labeled.Members {
		assignments[i] = models.ArchetypeAssignment{
			RunID:       run.RunID,
			PlayerKey:   m.Key,
			PlayerName:  m.Name,
			Team:        m.Team,
			ClusterID:   m.ClusterID,
			ClusterName: archetypes.NameFor(m.ClusterID),
			Distance:    m.Distance,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(assignments) > 0 {
			if err := tx.CreateInBatches(assignments, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save archetype run: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":      run.RunID,
		"k":           run.K,
		"assignments": len(assignments),
	}).Info("Archetype run saved")

	return run, nil
}

// ListRuns returns the most recent runs first, without assignments.
func (s *ArchetypeStore) ListRuns(ctx context.Context, limit int) ([]models.ArchetypeRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.ArchetypeRun
	if err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list archetype runs: %w", err)
	}
	return runs, nil
}

func (s *ArchetypeStore) GetRun(ctx context.Context, runID uuid.UUID) (*models.ArchetypeRun, error) {
	var run models.ArchetypeRun
	err := s.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("cluster_id ASC, distance ASC")
		}).
		Where("run_id = ?", runID).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load archetype run: %w", err)
	}
	return &run, nil
}

// LoadModel rebuilds a classifier from a stored run.
func (s *ArchetypeStore) LoadModel(ctx context.Context, runID uuid.UUID) (*archetypes.Model, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	var centroids [][]float64
	if err := json.Unmarshal(run.Centroids, &centroids); err != nil {
		return nil, fmt.Errorf("failed to decode centroids: %w", err)
	}
	var columns []string
	if len(run.FeatureColumns) > 0 {
		if err := json.Unmarshal(run.FeatureColumns, &columns); err != nil {
			return nil, fmt.Errorf("failed to decode feature columns: %w", err)
		}
	}

	model := archetypes.NewModel(centroids, columns)
	model.Inertia = run.Inertia
	model.TrainedOn = run.TrainedOn
	model.Config = archetypes.TrainConfig{
		K:          run.K,
		MinMinutes: run.MinMinutes,
		Restarts:   run.Restarts,
		Seed:       run.Seed,
	}
	return model, nil
}
