// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	cacheHealthChecker func() bool
	cacheMedium        string
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Cache     string `json:"cache"`
	Medium    string `json:"medium"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(cacheMedium string, cacheHealthChecker func() bool) *HealthController {
	return &HealthController{
		cacheHealthChecker: cacheHealthChecker,
		cacheMedium:        cacheMedium,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its cache medium.
func (h *HealthController) Check(c *gin.Context) {
	cacheStatus := "disconnected"
	if h.cacheHealthChecker == nil || h.cacheHealthChecker() {
		cacheStatus = "connected"
	}

	response := HealthResponse{
		Status:    "ok",
		Cache:     cacheStatus,
		Medium:    h.cacheMedium,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}
