package features

import (
	"errors"
	"testing"

	"github.com/jeldja/ProScout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFeatureColumns(t *testing.T) {
	ncaa, err := ListFeatureColumns(models.SchemaNCAA)
	require.NoError(t, err)
	nba, err := ListFeatureColumns(models.SchemaNBA)
	require.NoError(t, err)

	assert.Len(t, ncaa, NumFeatures)
	assert.Equal(t, ncaa, nba)
	assert.Equal(t, "rim_share", ncaa[0])
	assert.Equal(t, "trb_per36", ncaa[NumFeatures-1])

	ncaa[0] = "mutated"
	again, _ := ListFeatureColumns(models.SchemaNCAA)
	assert.Equal(t, "rim_share", again[0])

	_, err = ListFeatureColumns("wnba")
	assert.True(t, errors.Is(err, ErrUnknownSchema))
}

func TestShotSharesSumToOne(t *testing.T) {
	rec := ncaaRecord("Share Test", map[string]string{
		"rimmade+rimmiss": "10",
		"rimmade":         "6",
		"midmade+midmiss": "5",
		"midmade":         "2",
		"TPA":             "5",
		"TPM":             "2",
	})
	n, err := NewNormalizer(models.SchemaNCAA, tableOf(models.SchemaNCAA, rec))
	require.NoError(t, err)

	v, excl := n.Normalize(rec)
	require.Nil(t, excl)

	assert.InDelta(t, 0.5, v[RimShare], 1e-9)
	assert.InDelta(t, 0.25, v[MidShare], 1e-9)
	assert.InDelta(t, 0.25, v[ThreeShare], 1e-9)
	assert.InDelta(t, 1.0, v[RimShare]+v[MidShare]+v[ThreeShare], 1e-9)
	assert.InDelta(t, 0.6, v[RimFGPct], 1e-9)
	assert.InDelta(t, 0.4, v[MidFGPct], 1e-9)
	assert.InDelta(t, 0.4, v[ThreeFGPct], 1e-9)
}

func TestNCAADerivations(t *testing.T) {
	rec := ncaaRecord("Cooper Flagg", nil)
	n, err := NewNormalizer(models.SchemaNCAA, tableOf(models.SchemaNCAA, rec))
	require.NoError(t, err)

	v, excl := n.Normalize(rec)
	require.Nil(t, excl)
	require.Len(t, v, NumFeatures)

	assert.InDelta(t, 0.245, v[UsgRate], 1e-12)
	assert.InDelta(t, 0.581, v[TSPct], 1e-12)
	assert.InDelta(t, 0.35, v[FTRate], 1e-12)
	assert.InDelta(t, 0.024, v[BLKRate], 1e-12)
	// 900 season minutes, 495 points.
	assert.InDelta(t, 19.8, v[PtsPer36], 1e-9)
	assert.InDelta(t, 36*3.2*30/900, v[AstPer36], 1e-9)
	assert.InDelta(t, 36*5.1*30/900, v[TrbPer36], 1e-9)

	info := n.Describe(rec)
	assert.Equal(t, "cooper flagg", info.Key)
	assert.Equal(t, "ACC", info.Conference)
	assert.InDelta(t, 900, info.SeasonMinutes, 1e-9)
	assert.InDelta(t, 24.5, info.Usage, 1e-9)
}

func TestNBAMidRangeIsAttemptWeighted(t *testing.T) {
	rec := nbaRecord("Jayson Tatum", map[string]string{
		"FGA_3_10":  "10",
		"FG%_3_10":  "0.400",
		"FGA_10_16": "30",
		"FG%_10_16": "0.500",
		"FGA_16_3P": "0",
		"FG%_16_3P": "",
	})
	n, err := NewNormalizer(models.SchemaNBA, tableOf(models.SchemaNBA, rec))
	require.NoError(t, err)

	v, excl := n.Normalize(rec)
	require.Nil(t, excl)

	assert.InDelta(t, (10*0.4+30*0.5)/40, v[MidFGPct], 1e-12)
	assert.InDelta(t, 40.0/(300+40+450), v[MidShare], 1e-12)
	assert.InDelta(t, 0.68, v[RimFGPct], 1e-12)
	assert.InDelta(t, 0.28, v[UsgRate], 1e-12)
	assert.InDelta(t, 0.59, v[TSPct], 1e-12)
	assert.InDelta(t, 27.0, v[PtsPer36], 1e-9)
}

func TestScaleDetectionThresholds(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		divisor float64
	}{
		{"decimal scale", []float64{0.40, 0.45, 0.50}, 1},
		{"percent scale", []float64{40, 45, 50}, 100},
		{"exactly at threshold", []float64{1.0, 1.5, 2.0}, 1},
		{"just above threshold", []float64{1.0, 1.5000001, 2.0}, 100},
		{"even count averages middle pair", []float64{1.0, 1.4, 1.6, 9.0}, 1},
		{"empty column", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.divisor, detectDivisor(tt.values))
		})
	}
}

func TestScaleDetectionAppliesToValues(t *testing.T) {
	decimal := nbaRecord("Decimal Usage", map[string]string{"USG%": "0.45"})
	n, err := NewNormalizer(models.SchemaNBA, tableOf(models.SchemaNBA, decimal))
	require.NoError(t, err)
	v, excl := n.Normalize(decimal)
	require.Nil(t, excl)
	assert.Equal(t, 0.45, v[UsgRate])

	percent := nbaRecord("Percent Usage", map[string]string{"USG%": "45"})
	n, err = NewNormalizer(models.SchemaNBA, tableOf(models.SchemaNBA, percent))
	require.NoError(t, err)
	v, excl = n.Normalize(percent)
	require.Nil(t, excl)
	assert.InDelta(t, 0.45, v[UsgRate], 1e-12)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rec := nbaRecord("Repeat", nil)
	n, err := NewNormalizer(models.SchemaNBA, tableOf(models.SchemaNBA, rec))
	require.NoError(t, err)

	first, excl := n.Normalize(rec)
	require.Nil(t, excl)
	second, excl := n.Normalize(rec)
	require.Nil(t, excl)

	assert.Equal(t, first, second)
}

func TestNormalizeExclusions(t *testing.T) {
	tests := []struct {
		name   string
		rec    models.Record
		reason ExclusionReason
		field  string
	}{
		{
			name:   "no shot attempts",
			rec:    ncaaRecord("x", map[string]string{"rimmade+rimmiss": "0", "midmade+midmiss": "0", "TPA": "0"}),
			reason: ReasonZeroAttempts,
			field:  "rim_share",
		},
		{
			name:   "zero three attempts",
			rec:    ncaaRecord("x", map[string]string{"TPA": "0", "TPM": "0"}),
			reason: ReasonZeroAttempts,
			field:  "three_fg_pct",
		},
		{
			name:   "zero minutes",
			rec:    ncaaRecord("x", map[string]string{"mp": "0"}),
			reason: ReasonZeroMinutes,
			field:  "pts_per36",
		},
		{
			name:   "blank rate",
			rec:    ncaaRecord("x", map[string]string{"TS_per": ""}),
			reason: ReasonMissingValue,
			field:  "TS_per",
		},
		{
			name:   "NA marker",
			rec:    ncaaRecord("x", map[string]string{"DRB_per": "NA"}),
			reason: ReasonMissingValue,
			field:  "DRB_per",
		},
	}

	n := &Normalizer{schema: models.SchemaNCAA}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, excl := n.Normalize(tt.rec)
			assert.Nil(t, v)
			require.NotNil(t, excl)
			assert.Equal(t, tt.reason, excl.Reason)
			assert.Equal(t, tt.field, excl.Field)
		})
	}
}

func TestNBAZeroRimAttemptsExcluded(t *testing.T) {
	rec := nbaRecord("No Rim", map[string]string{"FGA_0_3": "0", "FG%_0_3": ""})
	n := &Normalizer{schema: models.SchemaNBA}

	_, excl := n.Normalize(rec)
	require.NotNil(t, excl)
	assert.Equal(t, ReasonZeroAttempts, excl.Reason)
	assert.Equal(t, "rim_fg_pct", excl.Field)
}

func TestNewNormalizerSchemaError(t *testing.T) {
	table := tableOf(models.SchemaNBA, nbaRecord("x", nil))
	var kept []string
	for _, c := range table.Columns {
		if c != "TS%" && c != "3PA" {
			kept = append(kept, c)
		}
	}
	table.Columns = kept

	_, err := NewNormalizer(models.SchemaNBA, table)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, models.SchemaNBA, schemaErr.Schema)
	assert.ElementsMatch(t, []string{"TS%", "3PA"}, schemaErr.Missing)
}
