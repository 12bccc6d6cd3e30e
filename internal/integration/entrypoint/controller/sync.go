package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/txcache/internal/application/usecase/datasync"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/dto"
)

// SyncController handles cache synchronization endpoints.
type SyncController struct {
	mirror *datasync.Controller
}

// NewSyncController creates a new sync controller instance.
func NewSyncController(mirror *datasync.Controller) *SyncController {
	return &SyncController{
		mirror: mirror,
	}
}

// Status handles GET /sync/status requests.
func (c *SyncController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToSyncStatusResponse(c.mirror.Status()))
}

// Load handles POST /sync/load requests.
// It serves the cache when present and refreshes it in the background.
func (c *SyncController) Load(ctx *gin.Context) {
	if err := c.mirror.Activate(ctx.Request.Context()); err != nil {
		handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToSyncStatusResponse(c.mirror.Status()))
}

// Refresh handles POST /sync/refresh requests.
func (c *SyncController) Refresh(ctx *gin.Context) {
	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	silent := ctx.Query("silent") == "true"
	if err := c.mirror.Refresh(ctx.Request.Context(), datasync.RefreshOptions{Silent: silent}); err != nil {
		handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToSyncStatusResponse(c.mirror.Status()))
}

// Forget handles DELETE /cache requests.
func (c *SyncController) Forget(ctx *gin.Context) {
	if err := c.mirror.Forget(ctx.Request.Context()); err != nil {
		handleError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
