// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/txcache/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	dashboardController   *controller.DashboardController
	transactionController *controller.TransactionController
	syncController        *controller.SyncController
	budgetController      *controller.BudgetController
	refreshRateLimiter    *middleware.RateLimiter
	sessionMiddleware     *middleware.SessionMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	dashboardController *controller.DashboardController,
	transactionController *controller.TransactionController,
	syncController *controller.SyncController,
	budgetController *controller.BudgetController,
	refreshRateLimiter *middleware.RateLimiter,
	sessionMiddleware *middleware.SessionMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		dashboardController:   dashboardController,
		transactionController: transactionController,
		syncController:        syncController,
		budgetController:      budgetController,
		refreshRateLimiter:    refreshRateLimiter,
		sessionMiddleware:     sessionMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group, every route acts on behalf of the bearer credential
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.sessionMiddleware.Require())
	{
		v1.GET("/dashboard", r.dashboardController.Get)
		v1.GET("/dashboard/trend", r.dashboardController.Trend)

		transactions := v1.Group("/transactions")
		{
			transactions.GET("/recent", r.transactionController.Recent)
			transactions.GET("/recent/all", r.transactionController.RecentAll)
			transactions.POST("", r.transactionController.Create)
			transactions.PATCH("/:id", r.transactionController.Update)
			transactions.DELETE("/:id", r.transactionController.Delete)
		}

		sync := v1.Group("/sync")
		{
			sync.GET("/status", r.syncController.Status)
			sync.POST("/load", r.syncController.Load)
			if r.refreshRateLimiter != nil {
				sync.POST("/refresh", r.refreshRateLimiter.Middleware(), r.syncController.Refresh)
			} else {
				sync.POST("/refresh", r.syncController.Refresh)
			}
		}

		v1.DELETE("/cache", r.syncController.Forget)

		v1.POST("/budgets/progress", r.budgetController.Progress)
	}
}
