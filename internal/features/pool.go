package features

import (
	"fmt"
	"sort"

	"github.com/jeldja/ProScout/internal/models"
	"github.com/sirupsen/logrus"
)

// PoolFilters are applied after normalization. MinMinutes is inclusive,
// RawFloors are exclusive (raw value must be strictly greater) and
// FeatureCaps are inclusive upper bounds on normalized features.
type PoolFilters struct {
	MinMinutes  float64
	RawFloors   map[string]float64
	FeatureCaps map[string]float64
}

// NCAASanityFilters drop small samples and implausible rate stats from the
// current-season NCAA export.
func NCAASanityFilters() PoolFilters {
	return PoolFilters{
		RawFloors: map[string]float64{
			ncaaGames:  10,
			ncaaMinPct: 10,
		},
		FeatureCaps: map[string]float64{
			"ast_rate": 0.60,
			"tov_rate": 0.60,
			"orb_rate": 0.50,
			"drb_rate": 0.60,
		},
	}
}

// BuildReport summarizes one pool build.
type BuildReport struct {
	Schema   models.Schema           `json:"schema"`
	Total    int                     `json:"total"`
	Kept     int                     `json:"kept"`
	Excluded map[ExclusionReason]int `json:"excluded"`
	Scales   ScaleProfile            `json:"scales"`
}

func (r *BuildReport) LogFields() logrus.Fields {
	fields := logrus.Fields{
		"schema": r.Schema,
		"total":  r.Total,
		"kept":   r.Kept,
	}
	for reason, count := range r.Excluded {
		fields["excluded_"+string(reason)] = count
	}
	return fields
}

// BuildPool normalizes every row of table and keeps those passing filters,
// in table order. Missing required columns abort the build.
func BuildPool(table *models.Table, schema models.Schema, filters PoolFilters) (*models.ReferencePool, *BuildReport, error) {
	normalizer, err := NewNormalizer(schema, table)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s pool: %w", schema, err)
	}

	floorCols := sortedKeys(filters.RawFloors)
	var missing []string
	for _, col := range floorCols {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("failed to build %s pool: %w", schema, &SchemaError{Schema: schema, Missing: missing})
	}

	capCols := sortedKeys(filters.FeatureCaps)
	capIdx := make([]int, len(capCols))
	for i, name := range capCols {
		capIdx[i] = IndexOf(name)
		if capIdx[i] < 0 {
			return nil, nil, fmt.Errorf("failed to build %s pool: unknown feature cap %q", schema, name)
		}
	}

	columns, _ := ListFeatureColumns(schema)
	report := &BuildReport{
		Schema:   schema,
		Total:    len(table.Rows),
		Excluded: make(map[ExclusionReason]int),
		Scales:   normalizer.Scales(),
	}

	members := make([]models.PoolMember, 0, len(table.Rows))
	for _, row := range table.Rows {
		vector, exclusion := normalizer.Normalize(row)
		if exclusion != nil {
			report.Excluded[exclusion.Reason]++
			continue
		}

		if reason := applyFilters(row, vector, filters, floorCols, capCols, capIdx, normalizer); reason != "" {
			report.Excluded[reason]++
			continue
		}

		info := normalizer.Describe(row)
		members = append(members, models.PoolMember{
			PlayerInfo: info,
			Features:   vector,
			Minutes:    info.SeasonMinutes,
			UsageRate:  vector[UsgRate],
		})
	}
	report.Kept = len(members)

	return models.NewReferencePool(schema, columns, members), report, nil
}

func applyFilters(row models.Record, vector models.FeatureVector, filters PoolFilters,
	floorCols, capCols []string, capIdx []int, normalizer *Normalizer) ExclusionReason {
	if filters.MinMinutes > 0 {
		minutes, ok := normalizer.SeasonMinutes(row)
		if !ok || minutes < filters.MinMinutes {
			return ReasonMinutes
		}
	}

	for _, col := range floorCols {
		v, ok := row.Float(col)
		if !ok || v <= filters.RawFloors[col] {
			return ReasonRawFloor
		}
	}

	for i, name := range capCols {
		if vector[capIdx[i]] > filters.FeatureCaps[name] {
			return ReasonFeatureCap
		}
	}
	return ""
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
