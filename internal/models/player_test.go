package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFloat(t *testing.T) {
	r := Record{
		"pts":   "12.5",
		"blank": "  ",
		"na":    "NA",
		"nan":   "NaN",
		"inf":   "+Inf",
		"text":  "guard",
		"pad":   " 3 ",
	}

	v, ok := r.Float("pts")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	v, ok = r.Float("pad")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	for _, field := range []string{"blank", "na", "nan", "inf", "text", "absent"} {
		_, ok := r.Float(field)
		assert.False(t, ok, field)
	}
}

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema(" NBA ")
	require.NoError(t, err)
	assert.Equal(t, SchemaNBA, s)

	s, err = ParseSchema("ncaa")
	require.NoError(t, err)
	assert.Equal(t, SchemaNCAA, s)

	_, err = ParseSchema("euroleague")
	assert.Error(t, err)
}

func TestTableColumn(t *testing.T) {
	table := &Table{
		Columns: []string{"usg"},
		Rows:    []Record{{"usg": "20"}, {"usg": ""}, {"usg": "30"}},
	}

	assert.True(t, table.HasColumn("usg"))
	assert.False(t, table.HasColumn("ts"))
	assert.Equal(t, []float64{20, 30}, table.Column("usg"))
}

func TestReferencePoolFilterAndFind(t *testing.T) {
	pool := NewReferencePool(SchemaNBA, []string{"f"}, []PoolMember{
		{PlayerInfo: PlayerInfo{Name: "A One", Key: "a one"}, Minutes: 2500},
		{PlayerInfo: PlayerInfo{Name: "B Two", Key: "b two"}, Minutes: 900},
		{PlayerInfo: PlayerInfo{Name: "A One (dup)", Key: "a one"}, Minutes: 2100},
	})

	assert.Equal(t, 3, pool.Len())

	m, ok := pool.Find("a one")
	require.True(t, ok)
	assert.Equal(t, "A One", m.Name)

	_, ok = pool.Find("nobody")
	assert.False(t, ok)

	heavy := pool.Filter(func(m PoolMember) bool { return m.Minutes >= 2000 })
	assert.Equal(t, []string{"A One", "A One (dup)"}, heavy.Names())
	assert.Equal(t, SchemaNBA, heavy.Schema)

	var nilPool *ReferencePool
	assert.Equal(t, 0, nilPool.Len())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "lebron james", NormalizeName("  LeBron   James* "))
	assert.Equal(t, "cooper flagg", NormalizeName("Cooper\tFlagg"))
	assert.Equal(t, "", NormalizeName(" * "))
}
