package similarity

import (
	"github.com/jeldja/ProScout/internal/models"
)

// Tier names the pool a comparison was drawn from.
type Tier string

const (
	TierRole    Tier = "role"
	TierMinutes Tier = "minutes"
	TierFull    Tier = "full"
)

// usageTolerance absorbs rounding from percent-scale division at the band edges.
const usageTolerance = 1e-9

// FilterPolicy narrows a reference pool to role-similar players before
// ranking. UsageBand is on the normalized 0-1 scale.
type FilterPolicy struct {
	MinMinutes  float64 `json:"min_minutes"`
	UsageBand   float64 `json:"usage_band"`
	MinPoolSize int     `json:"min_pool_size"`
}

// DefaultFilterPolicy is 2000 minutes, +/-5 usage points and a 50 player floor.
func DefaultFilterPolicy() FilterPolicy {
	return FilterPolicy{
		MinMinutes:  2000,
		UsageBand:   0.05,
		MinPoolSize: 50,
	}
}

// Select returns the narrowest tier holding at least MinPoolSize members:
// minutes and usage band, then minutes only, then the whole pool.
func (p FilterPolicy) Select(pool *models.ReferencePool, queryUsage float64) (*models.ReferencePool, Tier) {
	lo := queryUsage - p.UsageBand - usageTolerance
	hi := queryUsage + p.UsageBand + usageTolerance

	role := pool.Filter(func(m models.PoolMember) bool {
		return m.Minutes >= p.MinMinutes && m.UsageRate >= lo && m.UsageRate <= hi
	})
	if role.Len() >= p.MinPoolSize {
		return role, TierRole
	}

	minutes := pool.Filter(func(m models.PoolMember) bool {
		return m.Minutes >= p.MinMinutes
	})
	if minutes.Len() >= p.MinPoolSize {
		return minutes, TierMinutes
	}

	return pool, TierFull
}
