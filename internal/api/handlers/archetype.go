package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jeldja/ProScout/internal/archetypes"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/utils"
)

const (
	defaultExamples = 20
	maxExamples     = 500
)

type ArchetypeHandler struct {
	scouting *services.ScoutingService
}

func NewArchetypeHandler(scouting *services.ScoutingService) *ArchetypeHandler {
	return &ArchetypeHandler{scouting: scouting}
}

// ListArchetypes returns every cluster with its name and size
func (h *ArchetypeHandler) ListArchetypes(c *gin.Context) {
	model := h.scouting.Model()
	utils.SendSuccess(c, gin.H{
		"names_version": archetypes.NamesVersion,
		"trained_on":    model.TrainedOn,
		"inertia":       model.Inertia,
		"archetypes":    h.scouting.ArchetypeSummaries(),
	})
}

// GetExamples lists the NBA players closest to one centroid
func (h *ArchetypeHandler) GetExamples(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid archetype ID", err.Error())
		return
	}
	n, ok := intQuery(c, "n", defaultExamples, maxExamples)
	if !ok {
		return
	}

	examples, err := h.scouting.ArchetypeExamples(id, n)
	if err != nil {
		sendServiceError(c, err, "")
		return
	}
	utils.SendSuccessWithMeta(c, examples, &utils.Meta{Total: len(examples)})
}

// ClassifyPlayer places a college player into an NBA archetype
func (h *ArchetypeHandler) ClassifyPlayer(c *gin.Context) {
	name := c.Param("name")
	result, err := h.scouting.ClassifyPlayer(name)
	if err != nil {
		sendServiceError(c, err, name)
		return
	}
	utils.SendSuccess(c, result)
}
