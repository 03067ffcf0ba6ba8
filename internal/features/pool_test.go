package features

import (
	"errors"
	"testing"

	"github.com/jeldja/ProScout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPoolNCAASanityFilters(t *testing.T) {
	table := tableOf(models.SchemaNCAA,
		ncaaRecord("Keeper One", nil),
		ncaaRecord("Ten Games", map[string]string{"GP": "10"}),
		ncaaRecord("Low Min Pct", map[string]string{"Min_per": "10"}),
		ncaaRecord("Assist Cap Edge", map[string]string{"AST_per": "60.0"}),
		ncaaRecord("Assist Over Cap", map[string]string{"AST_per": "61.0"}),
		ncaaRecord("Offensive Glass", map[string]string{"ORB_per": "50.5"}),
		ncaaRecord("No Usage", map[string]string{"usg": ""}),
		ncaaRecord("Keeper Two", map[string]string{"GP": "11"}),
	)

	pool, report, err := BuildPool(table, models.SchemaNCAA, NCAASanityFilters())
	require.NoError(t, err)

	assert.Equal(t, []string{"Keeper One", "Assist Cap Edge", "Keeper Two"}, pool.Names())
	assert.Equal(t, models.SchemaNCAA, pool.Schema)
	assert.Len(t, pool.Columns, NumFeatures)

	assert.Equal(t, 8, report.Total)
	assert.Equal(t, 3, report.Kept)
	assert.Equal(t, 2, report.Excluded[ReasonRawFloor])
	assert.Equal(t, 2, report.Excluded[ReasonFeatureCap])
	assert.Equal(t, 1, report.Excluded[ReasonMissingValue])
	assert.Equal(t, 100.0, report.Scales.Divisor("usg"))

	m, ok := pool.Find("keeper one")
	require.True(t, ok)
	assert.InDelta(t, 0.245, m.UsageRate, 1e-12)
	assert.InDelta(t, 900, m.Minutes, 1e-9)
}

func TestBuildPoolMinMinutesInclusive(t *testing.T) {
	table := tableOf(models.SchemaNBA,
		nbaRecord("Exactly", map[string]string{"MP": "1500"}),
		nbaRecord("Short", map[string]string{"MP": "1499"}),
		nbaRecord("Long", map[string]string{"MP": "3000"}),
	)

	pool, report, err := BuildPool(table, models.SchemaNBA, PoolFilters{MinMinutes: 1500})
	require.NoError(t, err)

	assert.Equal(t, []string{"Exactly", "Long"}, pool.Names())
	assert.Equal(t, 1, report.Excluded[ReasonMinutes])
	assert.NotEmpty(t, report.LogFields())
}

func TestBuildPoolStripsAsteriskFromNBANames(t *testing.T) {
	table := tableOf(models.SchemaNBA, nbaRecord("Nikola Jokić*", nil))

	pool, _, err := BuildPool(table, models.SchemaNBA, PoolFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, pool.Len())

	assert.Equal(t, "Nikola Jokić", pool.Members[0].Name)
	_, ok := pool.Find("nikola jokić")
	assert.True(t, ok)
}

func TestBuildPoolSchemaErrors(t *testing.T) {
	table := tableOf(models.SchemaNCAA, ncaaRecord("x", nil))
	table.Columns = table.Columns[:len(table.Columns)-1] // drop Min_per

	_, _, err := BuildPool(table, models.SchemaNCAA, NCAASanityFilters())
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Min_per"}, schemaErr.Missing)

	_, _, err = BuildPool(table, models.SchemaNCAA, PoolFilters{FeatureCaps: map[string]float64{"bogus": 1}})
	assert.Error(t, err)

	_, _, err = BuildPool(table, "wnba", PoolFilters{})
	assert.True(t, errors.Is(err, ErrUnknownSchema))
}
