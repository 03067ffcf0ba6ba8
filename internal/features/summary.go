package features

import (
	"sort"

	"github.com/jeldja/ProScout/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary describes the spread of one feature across a pool.
type ColumnSummary struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Summarize returns one summary per pool column, or nil for an empty pool.
func Summarize(pool *models.ReferencePool) []ColumnSummary {
	n := pool.Len()
	if n == 0 {
		return nil
	}

	out := make([]ColumnSummary, len(pool.Columns))
	col := make([]float64, n)
	for j, name := range pool.Columns {
		for i, m := range pool.Members {
			col[i] = m.Features[j]
		}
		sort.Float64s(col)

		s := ColumnSummary{
			Column: name,
			Mean:   stat.Mean(col, nil),
			Min:    floats.Min(col),
			Max:    floats.Max(col),
			P25:    stat.Quantile(0.25, stat.LinInterp, col, nil),
			Median: stat.Quantile(0.5, stat.LinInterp, col, nil),
			P75:    stat.Quantile(0.75, stat.LinInterp, col, nil),
		}
		if n > 1 {
			s.StdDev = stat.StdDev(col, nil)
		}
		out[j] = s
	}
	return out
}
