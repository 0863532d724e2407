package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errInvalidBody = "invalid request body"
	errInternal    = "internal server error"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
