package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeldja/ProScout/internal/features"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/utils"
)

type FeatureHandler struct {
	scouting *services.ScoutingService
}

func NewFeatureHandler(scouting *services.ScoutingService) *FeatureHandler {
	return &FeatureHandler{scouting: scouting}
}

// GetColumns describes the feature vector, the raw columns a schema needs
// and the spread of each feature in the loaded pool
func (h *FeatureHandler) GetColumns(c *gin.Context) {
	schema, err := models.ParseSchema(c.Param("schema"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeSchema, "Unknown schema", err.Error()))
		return
	}

	columns, err := features.ListFeatureColumns(schema)
	if err != nil {
		utils.SendInternalError(c, "Failed to list feature columns")
		return
	}
	required, err := features.RequiredColumns(schema)
	if err != nil {
		utils.SendInternalError(c, "Failed to list required columns")
		return
	}

	utils.SendSuccess(c, gin.H{
		"schema":           schema,
		"feature_columns":  columns,
		"required_columns": required,
		"summary":          h.scouting.FeatureSummary(schema),
	})
}
