package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/database"
	"github.com/sony/gobreaker"
)

// ProjectionStatus reports the loaded projection snapshot.
type ProjectionStatus interface {
	Len() int
	LoadedAt() time.Time
}

// BreakerStatus reports the headshot lookup circuit breaker.
type BreakerStatus interface {
	BreakerState() gobreaker.State
}

type HealthHandler struct {
	scouting    *services.ScoutingService
	projections ProjectionStatus
	headshots   BreakerStatus
	cache       *services.CacheService
	db          *database.DB
}

// NewHealthHandler accepts nil for every optional dependency.
func NewHealthHandler(scouting *services.ScoutingService, projections ProjectionStatus, headshots BreakerStatus, cache *services.CacheService, db *database.DB) *HealthHandler {
	return &HealthHandler{
		scouting:    scouting,
		projections: projections,
		headshots:   headshots,
		cache:       cache,
		db:          db,
	}
}

// GetHealth returns 200 whenever the process is serving
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"service": "proscout",
	})
}

// GetReady returns 200 once the pools are built and every configured
// backend answers
func (h *HealthHandler) GetReady(c *gin.Context) {
	if h.scouting == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "scouting data not loaded"})
		return
	}

	checks := gin.H{}
	ready := true

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.cache.Enabled() {
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}
	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			checks["database"] = err.Error()
			ready = false
		} else {
			checks["database"] = "ok"
		}
	}
	// An open breaker only degrades photos to placeholders.
	if h.headshots != nil {
		checks["headshots"] = h.headshots.BreakerState().String()
	}

	body := gin.H{
		"status": "ready",
		"pools":  h.scouting.PoolSizes(),
		"checks": checks,
	}
	if h.projections != nil {
		body["projections"] = gin.H{
			"count":     h.projections.Len(),
			"loaded_at": h.projections.LoadedAt(),
		}
	}

	if !ready {
		body["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
