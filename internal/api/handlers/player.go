package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/utils"
)

type PlayerHandler struct {
	scouting *services.ScoutingService
}

func NewPlayerHandler(scouting *services.ScoutingService) *PlayerHandler {
	return &PlayerHandler{scouting: scouting}
}

// ListPlayers returns the college players available for lookups
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	players := h.scouting.ListPlayers()

	search := models.NormalizeName(c.Query("search"))
	team := strings.ToLower(strings.TrimSpace(c.Query("team")))
	if search != "" || team != "" {
		filtered := make([]models.PlayerInfo, 0, len(players))
		for _, p := range players {
			if search != "" && !strings.Contains(p.Key, search) {
				continue
			}
			if team != "" && strings.ToLower(p.Team) != team {
				continue
			}
			filtered = append(filtered, p)
		}
		players = filtered
	}

	utils.SendSuccessWithMeta(c, players, &utils.Meta{Total: len(players)})
}

// GetPlayer returns the full profile of one college player
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	name := c.Param("name")
	profile, err := h.scouting.PlayerProfile(c.Request.Context(), name)
	if err != nil {
		sendServiceError(c, err, name)
		return
	}
	utils.SendSuccess(c, profile)
}
