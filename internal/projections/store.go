package projections

import (
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/jeldja/ProScout/internal/loader"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultPercentile   = 50.0
	defaultDraftability = 0.0
)

type Percentiles struct {
	PeakBPM  float64 `json:"peak_bpm"`
	PeakVORP float64 `json:"peak_vorp"`
	PeakPts  float64 `json:"peak_pts"`
	PeakMP   float64 `json:"peak_mp"`
}

// Projection is one player's offline career-outcome prediction.
type Projection struct {
	PlayerName        string      `json:"player_name"`
	Team              string      `json:"team,omitempty"`
	Conference        string      `json:"conf,omitempty"`
	PeakBPM           float64     `json:"peak_bpm"`
	PeakVORP          float64     `json:"peak_vorp"`
	PeakPts           float64     `json:"peak_pts"`
	PeakMP            float64     `json:"peak_mp"`
	Percentiles       Percentiles `json:"percentiles"`
	DraftabilityScore float64     `json:"draftability_score"`
}

type snapshot struct {
	byKey    map[string]*Projection
	loadedAt time.Time
	path     string
}

// Store serves lookups from an immutable snapshot that Reload swaps out.
type Store struct {
	path    string
	logger  *logrus.Logger
	current atomic.Pointer[snapshot]
}

// NewStore loads path once. A missing file leaves the store empty.
func NewStore(path string, logger *logrus.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the predictions file and replaces the snapshot.
func (s *Store) Reload() error {
	snap, err := readSnapshot(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.WithField("path", s.path).Warn("Projections file not found, draftability lookups will report not found")
		s.current.Store(&snapshot{byKey: map[string]*Projection{}, loadedAt: time.Now(), path: s.path})
		return nil
	}
	if err != nil {
		return err
	}

	s.current.Store(snap)
	s.logger.WithFields(logrus.Fields{
		"path":    s.path,
		"players": len(snap.byKey),
	}).Info("Projections loaded")
	return nil
}

func (s *Store) Lookup(name string) (*Projection, bool) {
	snap := s.current.Load()
	if snap == nil {
		return nil, false
	}
	p, ok := snap.byKey[models.NormalizeName(name)]
	if !ok {
		return nil, false
	}
	out := *p
	return &out, true
}

func (s *Store) Len() int {
	if snap := s.current.Load(); snap != nil {
		return len(snap.byKey)
	}
	return 0
}

func (s *Store) LoadedAt() time.Time {
	if snap := s.current.Load(); snap != nil {
		return snap.loadedAt
	}
	return time.Time{}
}

func readSnapshot(path string) (*snapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("projections path not configured: %w", fs.ErrNotExist)
	}
	table, err := loader.ReadTable(path)
	if err != nil {
		return nil, err
	}
	if !table.HasColumn("player_name") {
		return nil, fmt.Errorf("projections file %s has no player_name column", path)
	}

	snap := &snapshot{
		byKey:    make(map[string]*Projection, len(table.Rows)),
		loadedAt: time.Now(),
		path:     path,
	}
	for _, row := range table.Rows {
		key := models.NormalizeName(row["player_name"])
		if key == "" {
			continue
		}
		// file is sorted by draftability; keep the first row per player
		if _, exists := snap.byKey[key]; exists {
			continue
		}
		snap.byKey[key] = fromRecord(row)
	}
	return snap, nil
}

func fromRecord(row models.Record) *Projection {
	num := func(field string, def float64) float64 {
		if v, ok := row.Float(field); ok {
			return v
		}
		return def
	}
	return &Projection{
		PlayerName: row.String("player_name"),
		Team:       row.String("team"),
		Conference: row.String("conf"),
		PeakBPM:    num("peak_bpm", 0),
		PeakVORP:   num("peak_vorp", 0),
		PeakPts:    num("peak_pts", 0),
		PeakMP:     num("peak_mp", 0),
		Percentiles: Percentiles{
			PeakBPM:  num("peak_bpm_pct", defaultPercentile),
			PeakVORP: num("peak_vorp_pct", defaultPercentile),
			PeakPts:  num("peak_pts_pct", defaultPercentile),
			PeakMP:   num("peak_mp_pct", defaultPercentile),
		},
		DraftabilityScore: num("draftability_score", defaultDraftability),
	}
}
