package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/utils"
)

type ProjectionHandler struct {
	scouting *services.ScoutingService
}

func NewProjectionHandler(scouting *services.ScoutingService) *ProjectionHandler {
	return &ProjectionHandler{scouting: scouting}
}

func (h *ProjectionHandler) GetProjection(c *gin.Context) {
	name := c.Param("name")
	p, err := h.scouting.Projection(name)
	if err != nil {
		sendServiceError(c, err, name)
		return
	}
	utils.SendSuccess(c, p)
}
