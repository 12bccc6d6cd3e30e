// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/txcache/config"
	"github.com/finance-tracker/txcache/internal/infra/dependency"
	"github.com/finance-tracker/txcache/internal/integration/persistence"
	"github.com/finance-tracker/txcache/internal/integration/persistence/model"
	"github.com/finance-tracker/txcache/test/integration/mock"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	injector     *dependency.Injector
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string
	credential     string

	// Collaborators
	backend  *mock.ApiMock
	timeMock *mock.Time
	medium   *dependency.Medium

	// Config
	cfg *config.Config
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		// Set Gin to test mode
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cfg := config.Load()
		cfg.Server.Environment = "integration"
		cfg.Cache.Medium = config.CacheMediumMemory
		cfg.Sync.Timezone = "UTC"
		cfg.Sync.RefreshEnabled = false
		cfg.Backend.Credential = ""

		backend := mock.NewApiServer()
		backend.Start()
		cfg.Backend.BaseURL = backend.GetUrl()

		tc := &TestContext{
			requestHeaders: make(map[string]string),
			backend:        backend,
			timeMock:       mock.NewTime(),
			cfg:            cfg,
		}

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc == nil {
			return ctx, nil
		}
		if tc.server != nil {
			tc.server.Close()
		}
		if tc.injector != nil {
			_ = tc.injector.Close(ctx)
		}
		tc.backend.Close()
		return ctx, nil
	})

	// Register step definitions
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerBackendSteps(ctx)
	registerCacheSteps(ctx)
}

// ensureServer builds the application the first time a request needs it, so that
// earlier steps can still change the configuration.
func (tc *TestContext) ensureServer() error {
	if tc.server != nil {
		return nil
	}

	if tc.medium == nil {
		medium, err := tc.openMedium()
		if err != nil {
			return err
		}
		tc.medium = medium
	}

	injector, err := dependency.Wire(tc.cfg, tc.medium, tc.timeMock.Now)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	tc.injector = injector
	tc.server = httptest.NewServer(injector.Router.Setup(tc.cfg.Server.Environment))
	return nil
}

// openMedium opens the configured medium on the shared in-process doubles.
func (tc *TestContext) openMedium() (*dependency.Medium, error) {
	switch tc.cfg.Cache.Medium {
	case config.CacheMediumRedis:
		client := mock.NewRedis()
		if err := mock.ClearRedis(client); err != nil {
			return nil, err
		}
		return &dependency.Medium{
			Store:       persistence.NewRedisStore(client, tc.cfg.Cache.KeyPrefix),
			HealthCheck: func() bool { return client.Ping(context.Background()).Err() == nil },
		}, nil

	case config.CacheMediumSQLite:
		database := mock.NewDb(&model.CacheEntryModel{})
		if err := database.ClearDB(); err != nil {
			return nil, err
		}
		return &dependency.Medium{
			Store:       persistence.NewGormStore(database.DbConn),
			HealthCheck: database.HealthCheck,
		}, nil

	default:
		return dependency.OpenMedium(tc.cfg)
	}
}

// restart rebuilds the application over the same medium, as after a process restart.
func (tc *TestContext) restart(ctx context.Context) error {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
	if tc.injector != nil {
		if err := tc.injector.Refresher.Stop(ctx); err != nil {
			return err
		}
		tc.injector = nil
	}
	return tc.ensureServer()
}
