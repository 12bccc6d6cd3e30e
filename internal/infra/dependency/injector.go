// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/finance-tracker/txcache/config"
	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/application/usecase/cache"
	"github.com/finance-tracker/txcache/internal/application/usecase/datasync"
	"github.com/finance-tracker/txcache/internal/application/usecase/transaction"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	infracache "github.com/finance-tracker/txcache/internal/infra/cache"
	"github.com/finance-tracker/txcache/internal/infra/db"
	"github.com/finance-tracker/txcache/internal/infra/server/router"
	"github.com/finance-tracker/txcache/internal/integration/adapters"
	"github.com/finance-tracker/txcache/internal/integration/backend"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/txcache/internal/integration/persistence"
	"github.com/finance-tracker/txcache/internal/integration/persistence/model"
)

// Medium is an opened cache medium.
type Medium struct {
	Store       adapter.KeyValueStore
	HealthCheck func() bool
	Close       func() error
}

// Injector holds all application dependencies.
type Injector struct {
	Config             *config.Config
	Session            *backend.Session
	Controller         *datasync.Controller
	Refresher          *datasync.Refresher
	RefreshRateLimiter *middleware.RateLimiter
	Router             *router.Router

	medium *Medium
}

// OpenMedium opens the cache medium selected by the configuration.
func OpenMedium(cfg *config.Config) (*Medium, error) {
	switch cfg.Cache.Medium {
	case config.CacheMediumMemory:
		return &Medium{
			Store:       persistence.NewMemoryStore(),
			HealthCheck: func() bool { return true },
			Close:       func() error { return nil },
		}, nil

	case config.CacheMediumRedis:
		client, err := infracache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Medium{
			Store:       persistence.NewRedisStore(client, cfg.Cache.KeyPrefix),
			HealthCheck: infracache.HealthChecker(client),
			Close:       client.Close,
		}, nil

	case config.CacheMediumSQLite, config.CacheMediumPostgres:
		var (
			database *db.Database
			err      error
		)
		if cfg.Cache.Medium == config.CacheMediumSQLite {
			database, err = db.NewSQLiteConnection(&cfg.SQLite)
		} else {
			database, err = db.NewPostgresConnection(&cfg.Database)
		}
		if err != nil {
			return nil, err
		}

		if err := database.AutoMigrate(&model.CacheEntryModel{}); err != nil {
			_ = database.Close()
			return nil, err
		}
		slog.Info("Database migrations completed successfully")

		return &Medium{
			Store:       persistence.NewGormStore(database.DB()),
			HealthCheck: database.HealthCheck,
			Close:       database.Close,
		}, nil

	default:
		return nil, domainerror.NewCacheError(
			domainerror.ErrCodeUnknownCacheMedium,
			"unknown cache medium "+cfg.Cache.Medium,
			domainerror.ErrUnknownCacheMedium,
		)
	}
}

// NewInjector opens the configured cache medium and wires every dependency on top of it.
func NewInjector(cfg *config.Config) (*Injector, error) {
	medium, err := OpenMedium(cfg)
	if err != nil {
		return nil, err
	}
	injector, err := Wire(cfg, medium, nil)
	if err != nil {
		_ = medium.Close()
		return nil, err
	}
	return injector, nil
}

// Wire creates the application graph over an already opened medium.
// A nil now uses the wall clock.
func Wire(cfg *config.Config, medium *Medium, now func() time.Time) (*Injector, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Create remote service clients
	session := backend.NewSession("")
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, session)
	transactionClient := backend.NewTransactionClient(client)
	categoryClient := backend.NewCategoryClient(client)

	// Create adapters/services
	identityService := adapters.NewIdentityKeyService()

	// Create use cases
	store := cache.NewStore(medium.Store)
	writers := datasync.Writers{
		Create: transaction.NewCreateTransactionUseCase(transactionClient),
		Update: transaction.NewUpdateTransactionUseCase(transactionClient),
		Delete: transaction.NewDeleteTransactionUseCase(transactionClient),
	}

	mirror := datasync.NewController(
		store,
		transactionClient,
		categoryClient,
		identityService,
		writers,
		datasync.Options{
			LookbackDays: cfg.Sync.LookbackDays,
			Location:     location,
			Now:          now,
		},
	)

	session.OnChange(mirror.SetCredential)
	session.OnUnauthorized(func() {
		slog.Warn("Remote service rejected the credential", "identity", mirror.Status().Identity)
	})
	session.SetCredential(cfg.Backend.Credential)

	refresher := datasync.NewRefresher(mirror, datasync.RefresherConfig{
		Interval: cfg.Sync.RefreshInterval,
	})

	// Create controllers
	healthController := controller.NewHealthController(cfg.Cache.Medium, medium.HealthCheck)
	dashboardController := controller.NewDashboardController(mirror)
	transactionController := controller.NewTransactionController(mirror)
	syncController := controller.NewSyncController(mirror)
	budgetController := controller.NewBudgetController(mirror)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var refreshRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		refreshRateLimiter = middleware.NewRateLimiter(1000, 1*time.Minute)
	} else {
		refreshRateLimiter = middleware.NewRateLimiter(cfg.Sync.RefreshRateLimit, cfg.Sync.RefreshRateEvery)
	}
	sessionMiddleware := middleware.NewSessionMiddleware(session, identityService)

	// Create router
	r := router.NewRouter(
		healthController,
		dashboardController,
		transactionController,
		syncController,
		budgetController,
		refreshRateLimiter,
		sessionMiddleware,
	)

	return &Injector{
		Config:             cfg,
		Session:            session,
		Controller:         mirror,
		Refresher:          refresher,
		RefreshRateLimiter: refreshRateLimiter,
		Router:             r,
		medium:             medium,
	}, nil
}

// Close stops the refresher and releases the cache medium.
func (i *Injector) Close(ctx context.Context) error {
	var errs []error
	if err := i.Refresher.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if i.medium != nil && i.medium.Close != nil {
		if err := i.medium.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
