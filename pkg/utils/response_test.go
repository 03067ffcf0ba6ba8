package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorString(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: missing", NewAppError(ErrCodeNotFound, "missing").Error())
	assert.Equal(t, "PLAYER_NOT_FOUND: Player not found - zz top",
		NewAppError(ErrCodePlayerNotFound, "Player not found", "zz top").Error())
}

func TestSendHelpersWriteEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		send   func(c *gin.Context)
		status int
		code   string
	}{
		{"validation", func(c *gin.Context) { SendValidationError(c, "bad k", "k must be positive") }, http.StatusBadRequest, ErrCodeValidation},
		{"player not found", func(c *gin.Context) { SendPlayerNotFound(c, "nobody") }, http.StatusNotFound, ErrCodePlayerNotFound},
		{"unauthorized", func(c *gin.Context) { SendUnauthorized(c, "no token") }, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"internal", func(c *gin.Context) { SendInternalError(c, "boom") }, http.StatusInternalServerError, ErrCodeInternal},
		{"unavailable", func(c *gin.Context) { SendServiceUnavailable(c, "no db") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.send(c)

			assert.Equal(t, tt.status, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestSendSuccessWithMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendSuccessWithMeta(c, []string{"a"}, &Meta{Total: 1, PoolTier: "role"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, "role", resp.Meta.PoolTier)
}
