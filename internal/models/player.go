package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Schema string

const (
	SchemaNCAA Schema = "ncaa"
	SchemaNBA  Schema = "nba"
)

func ParseSchema(s string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(s))) {
	case SchemaNCAA:
		return SchemaNCAA, nil
	case SchemaNBA:
		return SchemaNBA, nil
	}
	return "", fmt.Errorf("unknown schema %q", s)
}

// Record is one raw player-season keyed by source column name.
type Record map[string]string

// Float returns the numeric value of field. Absent keys, blanks, NA/NaN
// markers and non-finite numbers all read as missing.
func (r Record) Float(field string) (float64, bool) {
	raw, ok := r[field]
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "na", "nan", "null", "none":
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeName builds the lookup key for a player name: asterisks removed,
// whitespace collapsed, lower-cased.
func NormalizeName(name string) string {
	name = strings.ReplaceAll(name, "*", "")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (r Record) String(field string) string {
	return strings.TrimSpace(r[field])
}

// Table is a loaded raw table. A name missing from Columns is a schema
// problem; a blank cell is only a missing value.
type Table struct {
	Columns []string
	Rows    []Record
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the parsed values of name across all rows, skipping missing cells.
func (t *Table) Column(name string) []float64 {
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, ok := row.Float(name); ok {
			values = append(values, v)
		}
	}
	return values
}

type FeatureVector []float64

func (v FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(v))
	copy(out, v)
	return out
}

// PlayerInfo carries the display fields passed through from the raw row.
type PlayerInfo struct {
	Name          string  `json:"name"`
	Key           string  `json:"key"`
	Team          string  `json:"team"`
	Position      string  `json:"position,omitempty"`
	Conference    string  `json:"conference,omitempty"`
	Year          string  `json:"year,omitempty"`
	Season        string  `json:"season,omitempty"`
	Games         float64 `json:"games"`
	SeasonMinutes float64 `json:"season_minutes"`
	Points        float64 `json:"points"`
	Assists       float64 `json:"assists"`
	Rebounds      float64 `json:"rebounds"`
	Usage         float64 `json:"usage"` // 0-100 display scale
}

type PoolMember struct {
	PlayerInfo
	Features FeatureVector `json:"features"`
	Minutes  float64       `json:"-"`
	// UsageRate is the normalized usg_rate feature (0-1 scale).
	UsageRate float64 `json:"-"`
}

// ReferencePool is an ordered set of normalized players of one schema.
type ReferencePool struct {
	Schema   Schema
	Columns  []string
	Members  []PoolMember
	keyIndex map[string]int
}

func NewReferencePool(schema Schema, columns []string, members []PoolMember) *ReferencePool {
	p := &ReferencePool{
		Schema:  schema,
		Columns: columns,
		Members: members,
	}
	p.keyIndex = make(map[string]int, len(members))
	for i, m := range members {
		if _, exists := p.keyIndex[m.Key]; !exists {
			p.keyIndex[m.Key] = i
		}
	}
	return p
}

func (p *ReferencePool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Members)
}

// Filter returns a new pool with the members matching keep, in pool order.
func (p *ReferencePool) Filter(keep func(PoolMember) bool) *ReferencePool {
	members := make([]PoolMember, 0, len(p.Members))
	for _, m := range p.Members {
		if keep(m) {
			members = append(members, m)
		}
	}
	return NewReferencePool(p.Schema, p.Columns, members)
}

// Find looks a player up by normalized name; the first match in pool order wins.
func (p *ReferencePool) Find(key string) (*PoolMember, bool) {
	if p == nil {
		return nil, false
	}
	i, ok := p.keyIndex[key]
	if !ok {
		return nil, false
	}
	return &p.Members[i], true
}

func (p *ReferencePool) Names() []string {
	names := make([]string, len(p.Members))
	for i, m := range p.Members {
		names[i] = m.Name
	}
	return names
}
