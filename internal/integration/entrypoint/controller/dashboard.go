package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/txcache/internal/application/usecase/dashboard"
	"github.com/finance-tracker/txcache/internal/application/usecase/datasync"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/dto"
)

// DashboardController handles dashboard endpoints.
type DashboardController struct {
	mirror *datasync.Controller
}

// NewDashboardController creates a new dashboard controller instance.
func NewDashboardController(mirror *datasync.Controller) *DashboardController {
	return &DashboardController{
		mirror: mirror,
	}
}

// Get handles GET /dashboard requests.
// The range is either ?range=7d|30d|month or ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (c *DashboardController) Get(ctx *gin.Context) {
	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	if preset := ctx.Query("range"); preset != "" {
		totals, window, err := c.mirror.DashboardForPreset(valueobject.RangePreset(preset))
		if err != nil {
			handleError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.ToDashboardResponse(window, totals))
		return
	}

	startDay := ctx.Query("start")
	endDay := ctx.Query("end")

	window, err := valueobject.NewDayWindow(startDay, endDay, c.mirror.Location())
	if err != nil {
		handleError(ctx, err)
		return
	}

	totals, err := c.mirror.Dashboard(startDay, endDay)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDashboardResponse(window, totals))
}

// Trend handles GET /dashboard/trend requests.
// Accepts the same range parameters as Get plus ?granularity=daily|weekly|monthly|quarterly.
func (c *DashboardController) Trend(ctx *gin.Context) {
	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	granularity, err := dashboard.ParseGranularity(ctx.Query("granularity"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	if preset := ctx.Query("range"); preset != "" {
		points, window, err := c.mirror.TrendForPreset(valueobject.RangePreset(preset), granularity)
		if err != nil {
			handleError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.ToTrendResponse(window.StartDay, window.EndDay, granularity, points))
		return
	}

	startDay := ctx.Query("start")
	endDay := ctx.Query("end")

	points, err := c.mirror.Trend(startDay, endDay, granularity)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTrendResponse(startDay, endDay, granularity, points))
}
