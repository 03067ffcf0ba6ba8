package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jeldja/ProScout/internal/api/middleware"
	"github.com/jeldja/ProScout/internal/services"
	"github.com/jeldja/ProScout/pkg/logger"
	"github.com/jeldja/ProScout/pkg/utils"
)

// sendServiceError maps scouting errors onto the response envelope.
func sendServiceError(c *gin.Context, err error, name string) {
	switch {
	case errors.Is(err, services.ErrPlayerNotFound):
		utils.SendPlayerNotFound(c, name)
	case errors.Is(err, services.ErrProjectionNotFound):
		utils.SendNotFound(c, "No projection for player")
	case errors.Is(err, services.ErrUnknownArchetype), errors.Is(err, services.ErrRunNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, services.ErrHistoryUnavailable):
		utils.SendServiceUnavailable(c, "Historical college pool not loaded")
	default:
		requestID, _ := c.Get(middleware.RequestIDKey)
		logger.WithRequestContext(fmt.Sprint(requestID), c.Request.URL.Path).
			WithField("player", name).
			WithError(err).
			Error("Request failed")
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to process request")
	}
}

// intQuery reads an optional positive integer no larger than max.
func intQuery(c *gin.Context, key string, fallback, max int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > max {
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeValidation,
			"Invalid "+key, key+" must be an integer between 1 and "+strconv.Itoa(max)))
		return 0, false
	}
	return v, true
}
