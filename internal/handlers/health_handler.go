package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	pingDB func(ctx context.Context) error
}

func NewHealthHandler(pingDB func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{
		pingDB: pingDB,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		attachError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
