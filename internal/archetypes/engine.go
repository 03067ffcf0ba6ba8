package archetypes

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/jeldja/ProScout/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrInsufficientPlayers = errors.New("not enough qualified players to fit archetypes")
	ErrDimensionMismatch   = errors.New("vector dimension does not match model")
	ErrEmptyModel          = errors.New("archetype model has no centroids")
)

type TrainConfig struct {
	K          int     `json:"k"`
	MinMinutes float64 `json:"min_minutes"`
	Restarts   int     `json:"restarts"`
	MaxIter    int     `json:"max_iter"`
	Tol        float64 `json:"tol"`
	Seed       int64   `json:"seed"`
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		K:          8,
		MinMinutes: 1500,
		Restarts:   25,
		MaxIter:    300,
		Tol:        1e-4,
		Seed:       42,
	}
}

// Model holds the fitted centroids in L2-normalized feature space.
type Model struct {
	Centroids [][]float64 `json:"centroids"`
	Columns   []string    `json:"columns"`
	Inertia   float64     `json:"inertia"`
	TrainedOn int         `json:"trained_on"`
	Config    TrainConfig `json:"config"`
}

// NewModel wraps externally supplied centroids, e.g. a persisted run.
func NewModel(centroids [][]float64, columns []string) *Model {
	return &Model{Centroids: centroids, Columns: columns, Config: TrainConfig{K: len(centroids)}}
}

func (m *Model) K() int { return len(m.Centroids) }

type Classification struct {
	ClusterID  int       `json:"cluster_id"`
	Name       string    `json:"archetype"`
	Confidence float64   `json:"confidence"`
	Distances  []float64 `json:"centroid_distances"`
}

type LabeledMember struct {
	models.PoolMember
	ClusterID int     `json:"cluster_id"`
	Distance  float64 `json:"distance_to_centroid"`
}

// LabeledPool is the training pool with each member's cluster and distance.
type LabeledPool struct {
	Members []LabeledMember
	k       int
}

// Train fits K archetypes over the members of pool with at least
// MinMinutes season minutes.
func Train(pool *models.ReferencePool, cfg TrainConfig) (*Model, *LabeledPool, error) {
	if cfg.K <= 0 {
		return nil, nil, fmt.Errorf("archetype count must be positive, got %d", cfg.K)
	}
	if cfg.Restarts <= 0 {
		cfg.Restarts = 1
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = DefaultTrainConfig().MaxIter
	}

	qualified := pool.Filter(func(m models.PoolMember) bool {
		return m.Minutes >= cfg.MinMinutes
	})
	n := qualified.Len()
	if n < cfg.K {
		return nil, nil, fmt.Errorf("%w: %d players with %.0f+ minutes, need %d", ErrInsufficientPlayers, n, cfg.MinMinutes, cfg.K)
	}

	dim := len(qualified.Members[0].Features)
	x := mat.NewDense(n, dim, nil)
	for i, m := range qualified.Members {
		if len(m.Features) != dim {
			return nil, nil, fmt.Errorf("%w: member %q has %d features, want %d", ErrDimensionMismatch, m.Name, len(m.Features), dim)
		}
		x.SetRow(i, L2Normalize(m.Features))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	fit := fitKMeans(x, cfg.K, cfg.Restarts, cfg.MaxIter, cfg.Tol, rng)

	model := &Model{
		Centroids: fit.centroids,
		Columns:   qualified.Columns,
		Inertia:   fit.inertia,
		TrainedOn: n,
		Config:    cfg,
	}

	labeled := &LabeledPool{Members: make([]LabeledMember, n), k: cfg.K}
	for i, m := range qualified.Members {
		c := fit.labels[i]
		labeled.Members[i] = LabeledMember{
			PoolMember: m,
			ClusterID:  c,
			Distance:   floats.Distance(x.RawRowView(i), fit.centroids[c], 2),
		}
	}
	return model, labeled, nil
}

// Classify places vector in the nearest archetype. Confidence is
// 1 - d1/d2 over the two smallest centroid distances, 0 when undefined.
func (m *Model) Classify(vector models.FeatureVector) (*Classification, error) {
	if m.K() == 0 {
		return nil, ErrEmptyModel
	}
	if len(vector) != len(m.Centroids[0]) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), len(m.Centroids[0]))
	}

	x := L2Normalize(vector)
	distances := make([]float64, m.K())
	best := 0
	for j, c := range m.Centroids {
		distances[j] = floats.Distance(x, c, 2)
		if distances[j] < distances[best] {
			best = j
		}
	}

	return &Classification{
		ClusterID:  best,
		Name:       NameFor(best),
		Confidence: confidence(distances),
		Distances:  distances,
	}, nil
}

func confidence(distances []float64) float64 {
	if len(distances) < 2 {
		return 0
	}
	sorted := append([]float64(nil), distances...)
	sort.Float64s(sorted)
	d1, d2 := sorted[0], sorted[1]
	if d2 == 0 {
		return 0
	}
	c := 1 - d1/d2
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// L2Normalize returns v divided by its Euclidean norm; a zero vector is
// divided by 1.
func L2Normalize(v []float64) []float64 {
	out := append([]float64(nil), v...)
	norm := floats.Norm(out, 2)
	if norm == 0 {
		norm = 1
	}
	floats.Scale(1/norm, out)
	return out
}

// TopExamples returns up to n members of clusterID closest to its centroid.
func (lp *LabeledPool) TopExamples(clusterID, n int) []LabeledMember {
	var members []LabeledMember
	for _, m := range lp.Members {
		if m.ClusterID == clusterID {
			members = append(members, m)
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Distance < members[j].Distance
	})
	if n >= 0 && len(members) > n {
		members = members[:n]
	}
	return members
}

// Sizes counts members per cluster id.
func (lp *LabeledPool) Sizes() []int {
	sizes := make([]int, lp.k)
	for _, m := range lp.Members {
		if m.ClusterID < len(sizes) {
			sizes[m.ClusterID]++
		}
	}
	return sizes
}

func (lp *LabeledPool) Len() int { return len(lp.Members) }
