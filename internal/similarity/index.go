package similarity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jeldja/ProScout/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrDimensionMismatch = errors.New("query vector dimension does not match index")

// Neighbor is one ranked result. Similarity is 1 - Distance.
type Neighbor struct {
	Member     models.PoolMember `json:"player"`
	Distance   float64           `json:"distance"`
	Similarity float64           `json:"similarity_score"`
}

// Index answers cosine-distance nearest-neighbor queries over a pool.
// Features are used as is, without standardization.
type Index struct {
	pool  *models.ReferencePool
	data  *mat.Dense
	norms []float64
	dim   int
}

// BuildIndex copies the pool's vectors into a dense matrix and precomputes
// the row norms.
func BuildIndex(pool *models.ReferencePool) *Index {
	ix := &Index{pool: pool}
	if pool == nil {
		return ix
	}

	ix.dim = len(pool.Columns)
	n := pool.Len()
	if n == 0 {
		return ix
	}
	if ix.dim == 0 {
		ix.dim = len(pool.Members[0].Features)
	}

	ix.data = mat.NewDense(n, ix.dim, nil)
	ix.norms = make([]float64, n)
	for i, m := range pool.Members {
		ix.data.SetRow(i, m.Features)
		ix.norms[i] = floats.Norm(m.Features, 2)
	}
	return ix
}

func (ix *Index) Len() int {
	return ix.pool.Len()
}

// Query returns the k nearest members by ascending cosine distance. Equal
// distances keep pool order. An empty index or k <= 0 yields no neighbors.
func (ix *Index) Query(vector models.FeatureVector, k int) ([]Neighbor, error) {
	n := ix.Len()
	if n == 0 || k <= 0 {
		return []Neighbor{}, nil
	}
	if len(vector) != ix.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), ix.dim)
	}

	dots := mat.NewVecDense(n, nil)
	dots.MulVec(ix.data, mat.NewVecDense(ix.dim, append([]float64(nil), vector...)))
	qNorm := floats.Norm(vector, 2)

	distances := make([]float64, n)
	order := make([]int, n)
	for i := range distances {
		distances[i] = cosineDistance(dots.AtVec(i), ix.norms[i], qNorm)
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] < distances[order[b]]
	})

	if k > n {
		k = n
	}
	neighbors := make([]Neighbor, k)
	for r := 0; r < k; r++ {
		i := order[r]
		neighbors[r] = Neighbor{
			Member:     ix.pool.Members[i],
			Distance:   distances[i],
			Similarity: 1 - distances[i],
		}
	}
	return neighbors, nil
}

// cosineDistance is 1 - cos(a, b), clipped to [0, 2]. A zero-norm side has
// similarity 0.
func cosineDistance(dot, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 1
	}
	d := 1 - dot/(normA*normB)
	switch {
	case d < 0:
		return 0
	case d > 2:
		return 2
	}
	return d
}
