package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/utils"
)

const maxCompsK = 50

type CompsHandler struct {
	scouting *services.ScoutingService
	cache    *services.CacheService
	defaultK int
}

func NewCompsHandler(scouting *services.ScoutingService, cache *services.CacheService, defaultK int) *CompsHandler {
	return &CompsHandler{
		scouting: scouting,
		cache:    cache,
		defaultK: defaultK,
	}
}

type compsFunc func(ctx context.Context, name string, k int) (*services.CompsResult, error)

// GetComps ranks NBA players from the role-filtered pool
func (h *CompsHandler) GetComps(c *gin.Context) {
	h.serve(c, "role", h.scouting.PlayerComps)
}

// GetRawComps ranks NBA players from the whole pool
func (h *CompsHandler) GetRawComps(c *gin.Context) {
	h.serve(c, "raw", h.scouting.RawComps)
}

// GetCollegeComps ranks drafted college players from past seasons
func (h *CompsHandler) GetCollegeComps(c *gin.Context) {
	h.serve(c, "college", h.scouting.CollegeComps)
}

func (h *CompsHandler) serve(c *gin.Context, kind string, compare compsFunc) {
	name := c.Param("name")
	k, ok := intQuery(c, "k", h.defaultK, maxCompsK)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var result services.CompsResult
	cached, err := h.cache.Remember(ctx, services.CompsCacheKey(kind, models.NormalizeName(name), k), &result,
		func() (interface{}, error) {
			return compare(ctx, name, k)
		})
	if err != nil {
		sendServiceError(c, err, name)
		return
	}

	utils.SendSuccessWithMeta(c, result, &utils.Meta{
		Total:    len(result.Comparisons),
		PoolTier: string(result.Tier),
		PoolSize: result.PoolSize,
		Cached:   cached,
	})
}
