package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/logger"
	"github.com/jeldja/ProScout/pkg/utils"
	"github.com/sirupsen/logrus"
)

const maxRuns = 100

type AdminHandler struct {
	scouting *services.ScoutingService
	store    *services.ArchetypeStore
	logger   *logrus.Logger
}

// NewAdminHandler accepts a nil store; every admin call then reports the
// database as unavailable.
func NewAdminHandler(scouting *services.ScoutingService, store *services.ArchetypeStore, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		scouting: scouting,
		store:    store,
		logger:   logger,
	}
}

// SnapshotArchetypes persists the running archetype model and assignments
func (h *AdminHandler) SnapshotArchetypes(c *gin.Context) {
	if h.store == nil {
		utils.SendServiceUnavailable(c, "Database not configured")
		return
	}

	run, err := h.store.SaveRun(c.Request.Context(), h.scouting.Model(), h.scouting.Labeled())
	if err != nil {
		h.logger.WithError(err).Error("Failed to snapshot archetypes")
		utils.SendInternalError(c, "Failed to save archetype run")
		return
	}

	if userID, ok := c.Get("user_id"); ok {
		h.logger.WithFields(logrus.Fields{"run_id": run.RunID, "user_id": userID}).Info("Archetype snapshot requested")
	}
	utils.SendSuccess(c, run)
}

// ListRuns returns recent archetype runs without assignments
func (h *AdminHandler) ListRuns(c *gin.Context) {
	if h.store == nil {
		utils.SendServiceUnavailable(c, "Database not configured")
		return
	}
	limit, ok := intQuery(c, "limit", 20, maxRuns)
	if !ok {
		return
	}

	runs, err := h.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list archetype runs")
		utils.SendInternalError(c, "Failed to list archetype runs")
		return
	}
	utils.SendSuccessWithMeta(c, runs, &utils.Meta{Total: len(runs)})
}

// GetRun returns one run with its assignments
func (h *AdminHandler) GetRun(c *gin.Context) {
	if h.store == nil {
		utils.SendServiceUnavailable(c, "Database not configured")
		return
	}
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid run ID", err.Error())
		return
	}

	run, err := h.store.GetRun(c.Request.Context(), runID)
	if err != nil {
		sendServiceError(c, err, "")
		return
	}
	utils.SendSuccess(c, run)
}

type runClassification struct {
	RunID uuid.UUID `json:"run_id"`
	*services.ArchetypeResult
}

// ClassifyWithRun classifies an NCAA player against a stored archetype run
func (h *AdminHandler) ClassifyWithRun(c *gin.Context) {
	if h.store == nil {
		utils.SendServiceUnavailable(c, "Database not configured")
		return
	}
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid run ID", err.Error())
		return
	}
	name := c.Param("name")

	model, err := h.store.LoadModel(c.Request.Context(), runID)
	if err != nil {
		sendServiceError(c, err, name)
		return
	}
	result, err := h.scouting.ClassifyWith(model, name)
	if err != nil {
		sendServiceError(c, err, name)
		return
	}

	logger.WithPlayerContext(result.Player.Name, string(models.SchemaNCAA)).
		WithFields(logrus.Fields{"run_id": runID, "archetype": result.ClusterID}).
		Debug("Classified against stored run")
	utils.SendSuccess(c, runClassification{RunID: runID, ArchetypeResult: result})
}
