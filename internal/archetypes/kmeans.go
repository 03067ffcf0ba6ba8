package archetypes

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

type clustering struct {
	centroids  [][]float64
	labels     []int
	inertia    float64
	iterations int
}

// fitKMeans runs restarts independent k-means++ / Lloyd fits drawing from
// one random source and keeps the lowest inertia. Ties keep the earlier fit.
func fitKMeans(x *mat.Dense, k, restarts, maxIter int, tol float64, rng *rand.Rand) clustering {
	tol *= meanVariance(x)

	var best clustering
	for r := 0; r < restarts; r++ {
		c := lloyd(x, seedPlusPlus(x, k, rng), maxIter, tol)
		if r == 0 || c.inertia < best.inertia {
			best = c
		}
	}
	return best
}

// seedPlusPlus picks the first centroid uniformly and each next one with
// probability proportional to its squared distance from the chosen set.
func seedPlusPlus(x *mat.Dense, k int, rng *rand.Rand) [][]float64 {
	n, _ := x.Dims()
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(x, rng.Intn(n)))

	closest := make([]float64, n)
	for i := range closest {
		closest[i] = sqDist(x.RawRowView(i), centroids[0])
	}

	for len(centroids) < k {
		total := floats.Sum(closest)

		next := rng.Intn(n)
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range closest {
				acc += d
				if acc > target {
					next = i
					break
				}
			}
		}

		centroids = append(centroids, cloneRow(x, next))
		for i := range closest {
			if d := sqDist(x.RawRowView(i), centroids[len(centroids)-1]); d < closest[i] {
				closest[i] = d
			}
		}
	}
	return centroids
}

// lloyd alternates assignment and mean updates until the total squared
// centroid shift drops to tol or maxIter is reached.
func lloyd(x *mat.Dense, centroids [][]float64, maxIter int, tol float64) clustering {
	n, dim := x.Dims()
	k := len(centroids)
	labels := make([]int, n)

	iter := 0
	for iter < maxIter {
		iter++
		assign(x, centroids, labels)

		sums := make([][]float64, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i := 0; i < n; i++ {
			floats.Add(sums[labels[i]], x.RawRowView(i))
			counts[labels[i]]++
		}

		relocateEmpty(x, centroids, labels, sums, counts)

		shift := 0.0
		for j := range centroids {
			floats.Scale(1/float64(counts[j]), sums[j])
			shift += sqDist(centroids[j], sums[j])
			centroids[j] = sums[j]
		}
		if shift <= tol {
			break
		}
	}

	inertia := assign(x, centroids, labels)
	return clustering{centroids: centroids, labels: labels, inertia: inertia, iterations: iter}
}

// assign labels every row with its nearest centroid (lowest id on ties) and
// returns the within-cluster sum of squares.
func assign(x *mat.Dense, centroids [][]float64, labels []int) float64 {
	n, _ := x.Dims()
	inertia := 0.0
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		bestJ, bestD := 0, math.Inf(1)
		for j, c := range centroids {
			if d := sqDist(row, c); d < bestD {
				bestJ, bestD = j, d
			}
		}
		labels[i] = bestJ
		inertia += bestD
	}
	return inertia
}

// relocateEmpty moves each empty cluster onto the point farthest from its
// current centroid, taking that point out of its old cluster.
func relocateEmpty(x *mat.Dense, centroids [][]float64, labels []int, sums [][]float64, counts []int) {
	n, _ := x.Dims()
	taken := make(map[int]bool)
	for j := range counts {
		if counts[j] > 0 {
			continue
		}

		far, farD := -1, -1.0
		for i := 0; i < n; i++ {
			if taken[i] || counts[labels[i]] <= 1 {
				continue
			}
			if d := sqDist(x.RawRowView(i), centroids[labels[i]]); d > farD {
				far, farD = i, d
			}
		}
		if far < 0 {
			// Nothing can move; keep the old centroid.
			copy(sums[j], centroids[j])
			counts[j] = 1
			continue
		}

		row := x.RawRowView(far)
		old := labels[far]
		floats.Sub(sums[old], row)
		counts[old]--
		copy(sums[j], row)
		counts[j] = 1
		labels[far] = j
		taken[far] = true
	}
}

func meanVariance(x *mat.Dense) float64 {
	n, dim := x.Dims()
	if n < 2 {
		return 0
	}
	total := 0.0
	col := make([]float64, n)
	for j := 0; j < dim; j++ {
		mat.Col(col, j, x)
		total += stat.Variance(col, nil)
	}
	return total / float64(dim)
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func cloneRow(x *mat.Dense, i int) []float64 {
	return append([]float64(nil), x.RawRowView(i)...)
}
