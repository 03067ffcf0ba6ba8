package similarity

import (
	"fmt"

	"github.com/jeldja/ProScout/internal/features"
	"github.com/jeldja/ProScout/internal/models"
)

const DefaultK = 5

// Comparison is a ranked neighbor list plus the pool it was drawn from.
type Comparison struct {
	Neighbors []Neighbor `json:"neighbors"`
	Tier      Tier       `json:"tier"`
	PoolSize  int        `json:"pool_size"`
}

// FindComparisons ranks pool against query. With a policy the pool is first
// narrowed by Select and indexed for this call only; the sub-pool is
// discarded afterwards.
func FindComparisons(query models.FeatureVector, pool *models.ReferencePool, k int, policy *FilterPolicy) (*Comparison, error) {
	candidates, tier := pool, TierFull
	if policy != nil && pool.Len() > 0 {
		if len(query) <= features.UsgRate {
			return nil, fmt.Errorf("%w: got %d features", ErrDimensionMismatch, len(query))
		}
		candidates, tier = policy.Select(pool, query[features.UsgRate])
	}

	neighbors, err := BuildIndex(candidates).Query(query, k)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Neighbors: neighbors,
		Tier:      tier,
		PoolSize:  candidates.Len(),
	}, nil
}

// Comparer serves unfiltered lookups from one index built up front.
type Comparer struct {
	index *Index
	k     int
}

func NewComparer(pool *models.ReferencePool, k int) *Comparer {
	if k <= 0 {
		k = DefaultK
	}
	return &Comparer{index: BuildIndex(pool), k: k}
}

func (c *Comparer) K() int { return c.k }

func (c *Comparer) Compare(query models.FeatureVector) (*Comparison, error) {
	return c.CompareK(query, c.k)
}

func (c *Comparer) CompareK(query models.FeatureVector, k int) (*Comparison, error) {
	neighbors, err := c.index.Query(query, k)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Neighbors: neighbors,
		Tier:      TierFull,
		PoolSize:  c.index.Len(),
	}, nil
}
