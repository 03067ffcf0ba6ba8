package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ArchetypeRun is a persisted snapshot of one archetype fit.
type ArchetypeRun struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	RunID          uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"run_id"`
	K              int            `gorm:"not null" json:"k"`
	Seed           int64          `json:"seed"`
	Restarts       int            `json:"restarts"`
	MinMinutes     float64        `json:"min_minutes"`
	Inertia        float64        `json:"inertia"`
	TrainedOn      int            `json:"trained_on"`
	NamesVersion   string         `json:"names_version"`
	FeatureColumns datatypes.JSON `json:"feature_columns"`
	Centroids      datatypes.JSON `json:"centroids"`
	CreatedAt      time.Time      `json:"created_at"`

	Assignments []ArchetypeAssignment `gorm:"foreignKey:RunID;references:RunID" json:"assignments,omitempty"`
}

func (ArchetypeRun) TableName() string {
	return "archetype_runs"
}

// ArchetypeAssignment records one pool member's cluster within a run.
type ArchetypeAssignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RunID       uuid.UUID `gorm:"type:uuid;not null;index:idx_run_cluster" json:"run_id"`
	PlayerKey   string    `gorm:"not null" json:"player_key"`
	PlayerName  string    `json:"player_name"`
	Team        string    `json:"team"`
	ClusterID   int       `gorm:"not null;index:idx_run_cluster" json:"cluster_id"`
	ClusterName string    `json:"cluster_name"`
	Distance    float64   `json:"distance"`
}

func (ArchetypeAssignment) TableName() string {
	return "archetype_assignments"
}
