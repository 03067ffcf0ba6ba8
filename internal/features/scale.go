package features

import (
	"sort"

	"github.com/jeldja/ProScout/internal/models"
)

// PercentScaleThreshold is the median above which a percentage column is
// read as 0-100 and divided by 100. A median of exactly 1.5 is left as is.
const PercentScaleThreshold = 1.5

// ScaleProfile maps a raw percentage column to its divisor (1 or 100).
type ScaleProfile map[string]float64

func (p ScaleProfile) Divisor(column string) float64 {
	if d, ok := p[column]; ok && d != 0 {
		return d
	}
	return 1
}

// DetectScales inspects every percentage column of schema present in table.
func DetectScales(table *models.Table, schema models.Schema) ScaleProfile {
	profile := make(ScaleProfile)
	for _, col := range percentColumns[schema] {
		profile[col] = detectDivisor(table.Column(col))
	}
	return profile
}

func detectDivisor(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}
	if median(values) > PercentScaleThreshold {
		return 100
	}
	return 1
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
