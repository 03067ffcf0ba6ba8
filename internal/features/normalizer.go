package features

import (
	"fmt"
	"math"
	"strings"

	"github.com/jeldja/ProScout/internal/models"
)

// SchemaError reports required raw columns absent from a table.
type SchemaError struct {
	Schema  models.Schema
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table is missing required columns: %s", e.Schema, strings.Join(e.Missing, ", "))
}

type ExclusionReason string

const (
	ReasonMissingValue ExclusionReason = "missing_value"
	ReasonZeroAttempts ExclusionReason = "zero_attempts"
	ReasonZeroMinutes  ExclusionReason = "zero_minutes"
	ReasonNonFinite    ExclusionReason = "non_finite"
	ReasonMinutes      ExclusionReason = "insufficient_minutes"
	ReasonRawFloor     ExclusionReason = "raw_floor"
	ReasonFeatureCap   ExclusionReason = "feature_cap"
)

// Exclusion explains why a row did not produce a vector. It is not an error.
type Exclusion struct {
	Reason ExclusionReason
	Field  string
}

func (e *Exclusion) String() string {
	return fmt.Sprintf("%s (%s)", e.Reason, e.Field)
}

type Normalizer struct {
	schema models.Schema
	scales ScaleProfile
}

// NewNormalizer checks table against the schema's required columns and
// detects the percentage scale of each rate column.
func NewNormalizer(schema models.Schema, table *models.Table) (*Normalizer, error) {
	required, err := RequiredColumns(schema)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, col := range required {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Schema: schema, Missing: missing}
	}

	return &Normalizer{
		schema: schema,
		scales: DetectScales(table, schema),
	}, nil
}

func (n *Normalizer) Schema() models.Schema { return n.schema }

func (n *Normalizer) Scales() ScaleProfile { return n.scales }

// Normalize derives the feature vector for one record. A nil vector comes
// with the reason the row was dropped.
func (n *Normalizer) Normalize(record models.Record) (models.FeatureVector, *Exclusion) {
	rr := &rowReader{record: record, scales: n.scales}

	var v models.FeatureVector
	switch n.schema {
	case models.SchemaNCAA:
		v = deriveNCAA(rr)
	case models.SchemaNBA:
		v = deriveNBA(rr)
	}
	if rr.exclusion != nil {
		return nil, rr.exclusion
	}

	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &Exclusion{Reason: ReasonNonFinite, Field: featureColumns[i]}
		}
	}
	return v, nil
}

// SeasonMinutes returns the season-long minutes of a record.
func (n *Normalizer) SeasonMinutes(record models.Record) (float64, bool) {
	rr := &rowReader{record: record, scales: n.scales}
	var minutes float64
	if n.schema == models.SchemaNCAA {
		minutes = rr.raw(ncaaMinutes) * rr.raw(ncaaGames)
	} else {
		minutes = rr.raw(nbaMinutes)
	}
	return minutes, rr.exclusion == nil
}

// Describe extracts the display fields of a record. Counting stats are
// per game for NCAA and season totals for NBA, as they appear in the source.
func (n *Normalizer) Describe(record models.Record) models.PlayerInfo {
	minutes, _ := n.SeasonMinutes(record)
	num := func(field string) float64 {
		v, _ := record.Float(field)
		return v
	}

	if n.schema == models.SchemaNCAA {
		name := record.String(ncaaName)
		return models.PlayerInfo{
			Name:          name,
			Key:           models.NormalizeName(name),
			Team:          record.String(ncaaTeam),
			Conference:    record.String(ncaaConf),
			Year:          record.String(ncaaYear),
			Games:         num(ncaaGames),
			SeasonMinutes: minutes,
			Points:        num(ncaaPoints),
			Assists:       num(ncaaAssists),
			Rebounds:      num(ncaaRebounds),
			Usage:         100 * num(ncaaUsage) / n.scales.Divisor(ncaaUsage),
		}
	}

	name := strings.ReplaceAll(record.String(nbaName), "*", "")
	return models.PlayerInfo{
		Name:          strings.TrimSpace(name),
		Key:           models.NormalizeName(name),
		Team:          record.String(nbaTeam),
		Position:      record.String(nbaPos),
		Season:        record.String(nbaSeason),
		Games:         num(nbaGames),
		SeasonMinutes: minutes,
		Points:        num(nbaPoints),
		Assists:       num(nbaAssists),
		Rebounds:      num(nbaRebounds),
		Usage:         100 * num(nbaUsage) / n.scales.Divisor(nbaUsage),
	}
}

// rowReader reads fields from one record and keeps the first exclusion.
type rowReader struct {
	record    models.Record
	scales    ScaleProfile
	exclusion *Exclusion
}

func (r *rowReader) exclude(reason ExclusionReason, field string) {
	if r.exclusion == nil {
		r.exclusion = &Exclusion{Reason: reason, Field: field}
	}
}

func (r *rowReader) raw(field string) float64 {
	v, ok := r.record.Float(field)
	if !ok {
		r.exclude(ReasonMissingValue, field)
	}
	return v
}

func (r *rowReader) pct(field string) float64 {
	return r.raw(field) / r.scales.Divisor(field)
}

func (r *rowReader) ratio(num, den float64, feature string) float64 {
	if den <= 0 {
		r.exclude(ReasonZeroAttempts, feature)
		return 0
	}
	return num / den
}

func (r *rowReader) shares(v models.FeatureVector, rim, mid, three float64) {
	total := rim + mid + three
	v[RimShare] = r.ratio(rim, total, featureColumns[RimShare])
	v[MidShare] = r.ratio(mid, total, featureColumns[MidShare])
	v[ThreeShare] = r.ratio(three, total, featureColumns[ThreeShare])
}

func (r *rowReader) per36(v models.FeatureVector, minutes, points, assists, rebounds float64) {
	if minutes <= 0 {
		r.exclude(ReasonZeroMinutes, featureColumns[PtsPer36])
		return
	}
	v[PtsPer36] = 36 * points / minutes
	v[AstPer36] = 36 * assists / minutes
	v[TrbPer36] = 36 * rebounds / minutes
}

func deriveNCAA(r *rowReader) models.FeatureVector {
	v := make(models.FeatureVector, NumFeatures)

	rimAtt := r.raw(ncaaRimAtt)
	midAtt := r.raw(ncaaMidAtt)
	threeAtt := r.raw(ncaaThreeAtt)
	r.shares(v, rimAtt, midAtt, threeAtt)

	v[RimFGPct] = r.ratio(r.raw(ncaaRimMade), rimAtt, featureColumns[RimFGPct])
	v[MidFGPct] = r.ratio(r.raw(ncaaMidMade), midAtt, featureColumns[MidFGPct])
	v[ThreeFGPct] = r.ratio(r.raw(ncaaThreeMade), threeAtt, featureColumns[ThreeFGPct])

	v[UsgRate] = r.pct(ncaaUsage)
	v[TSPct] = r.pct(ncaaTS)
	v[EFGPct] = r.pct(ncaaEFG)
	v[FTRate] = r.pct(ncaaFTRate)
	v[ASTRate] = r.pct(ncaaASTRate)
	v[TOVRate] = r.pct(ncaaTOVRate)
	v[ORBRate] = r.pct(ncaaORBRate)
	v[DRBRate] = r.pct(ncaaDRBRate)
	v[STLRate] = r.pct(ncaaSTLRate)
	v[BLKRate] = r.pct(ncaaBLKRate)

	games := r.raw(ncaaGames)
	minutes := r.raw(ncaaMinutes) * games
	r.per36(v, minutes,
		r.raw(ncaaPoints)*games,
		r.raw(ncaaAssists)*games,
		r.raw(ncaaRebounds)*games,
	)
	return v
}

func deriveNBA(r *rowReader) models.FeatureVector {
	v := make(models.FeatureVector, NumFeatures)

	rimAtt := r.raw(nbaRimAtt)
	threeAtt := r.raw(nbaThreeAtt)

	// Mid-range FG% is weighted by each sub-zone's attempts. A sub-zone with
	// no attempts contributes nothing, so its blank FG% is not read.
	var midAtt, midMade float64
	for _, zone := range nbaMidZones {
		att := r.raw(zone[0])
		if att <= 0 {
			continue
		}
		midAtt += att
		midMade += att * r.pct(zone[1])
	}
	r.shares(v, rimAtt, midAtt, threeAtt)

	if rimAtt <= 0 {
		r.exclude(ReasonZeroAttempts, featureColumns[RimFGPct])
	} else {
		v[RimFGPct] = r.pct(nbaRimPct)
	}
	v[MidFGPct] = r.ratio(midMade, midAtt, featureColumns[MidFGPct])
	if threeAtt <= 0 {
		r.exclude(ReasonZeroAttempts, featureColumns[ThreeFGPct])
	} else {
		v[ThreeFGPct] = r.pct(nbaThreePct)
	}

	v[UsgRate] = r.pct(nbaUsage)
	v[TSPct] = r.pct(nbaTS)
	v[EFGPct] = r.pct(nbaEFG)
	v[FTRate] = r.pct(nbaFTRate)
	v[ASTRate] = r.pct(nbaASTRate)
	v[TOVRate] = r.pct(nbaTOVRate)
	v[ORBRate] = r.pct(nbaORBRate)
	v[DRBRate] = r.pct(nbaDRBRate)
	v[STLRate] = r.pct(nbaSTLRate)
	v[BLKRate] = r.pct(nbaBLKRate)

	r.per36(v, r.raw(nbaMinutes), r.raw(nbaPoints), r.raw(nbaAssists), r.raw(nbaRebounds))
	return v
}
