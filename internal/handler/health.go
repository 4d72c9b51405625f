package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Check probes one dependency for readiness.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type HealthHandler struct {
	checks []Check
}

func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()

	body := gin.H{"status": "ok"}
	for _, check := range h.checks {
		if err := check.Probe(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", check.Name: "unavailable"})
			return
		}
		body[check.Name] = "connected"
	}
	c.JSON(http.StatusOK, body)
}
