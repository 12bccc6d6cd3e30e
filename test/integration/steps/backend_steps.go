package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cucumber/godog"

	"github.com/finance-tracker/txcache/internal/application/usecase/cache"
)

const eventuallyTimeout = 3 * time.Second

// registerBackendSteps registers steps that script the remote finance service.
func registerBackendSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the current time is "([^"]*)"$`, theCurrentTimeIs)
	ctx.Step(`^the backend has the categories:$`, theBackendHasTheCategories)
	ctx.Step(`^the backend has the transactions:$`, theBackendHasTheTransactions)
	ctx.Step(`^the backend answers "([^"]*)" "([^"]*)" with status (\d+)$`, theBackendAnswersWithStatus)
	ctx.Step(`^the backend answers "([^"]*)" "([^"]*)" with status (\d+) and body:$`, theBackendAnswersWithStatusAndBody)
	ctx.Step(`^the backend should have received (\d+) "([^"]*)" requests? to "([^"]*)"$`, theBackendShouldHaveReceived)
	ctx.Step(`^the backend should eventually have received (\d+) "([^"]*)" requests? to "([^"]*)"$`, theBackendShouldEventuallyHaveReceived)
	ctx.Step(`^the "([^"]*)" request (\d+) to "([^"]*)" should have query "([^"]*)" set to "([^"]*)"$`, theRequestShouldHaveQuery)
	ctx.Step(`^the "([^"]*)" request (\d+) to "([^"]*)" should have field "([^"]*)" set to "([^"]*)"$`, theRequestShouldHaveField)
	ctx.Step(`^the "([^"]*)" request (\d+) to "([^"]*)" should have header "([^"]*)"$`, theRequestShouldHaveHeader)
}

// registerCacheSteps registers steps that inspect or reshape the cache medium.
func registerCacheSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the cache medium is "([^"]*)"$`, theCacheMediumIs)
	ctx.Step(`^the application restarts$`, theApplicationRestarts)
	ctx.Step(`^the cache should hold (\d+) transactions? for "([^"]*)"$`, theCacheShouldHoldTransactionsFor)
	ctx.Step(`^the cache should be empty for "([^"]*)"$`, theCacheShouldBeEmptyFor)
	ctx.Step(`^the cached window for "([^"]*)" should start on "([^"]*)"$`, theCachedWindowShouldStartOn)
}

func theCurrentTimeIs(ctx context.Context, value string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value, err)
	}
	tc.timeMock.SetCurrentTime(now)
	return nil
}

func theBackendHasTheCategories(ctx context.Context, table *godog.Table) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	rows, err := tableToRecords(table)
	if err != nil {
		return err
	}
	tc.backend.SetResponse(-1, http.MethodGet, "/categories", http.StatusOK, rows)
	return nil
}

func theBackendHasTheTransactions(ctx context.Context, table *godog.Table) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	rows, err := tableToRecords(table)
	if err != nil {
		return err
	}
	tc.backend.SetResponse(-1, http.MethodGet, "/transactions", http.StatusOK, map[string]any{
		"items": rows,
		"meta":  map[string]any{"page": 1, "pageSize": len(rows), "total": len(rows)},
	})
	return nil
}

func theBackendAnswersWithStatus(ctx context.Context, method, path string, status int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	tc.backend.SetResponse(-1, method, path, status, map[string]any{"error": http.StatusText(status)})
	return nil
}

func theBackendAnswersWithStatusAndBody(ctx context.Context, method, path string, status int, body *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	var payload any
	if err := json.Unmarshal([]byte(body.Content), &payload); err != nil {
		return fmt.Errorf("invalid response body: %w", err)
	}
	tc.backend.SetResponse(-1, method, path, status, payload)
	return nil
}

func theBackendShouldHaveReceived(ctx context.Context, count int, method, path string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if actual := tc.backend.CallCount(method, path); actual != count {
		return fmt.Errorf("expected %d %s %s requests, got %d", count, method, path, actual)
	}
	return nil
}

func theBackendShouldEventuallyHaveReceived(ctx context.Context, count int, method, path string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	deadline := time.Now().Add(eventuallyTimeout)
	for {
		actual := tc.backend.CallCount(method, path)
		if actual == count {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("expected %d %s %s requests, got %d", count, method, path, actual)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func theRequestShouldHaveQuery(ctx context.Context, method string, index int, path, name, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	queries := tc.backend.GetRequestQueries(method, path, index-1)
	if queries == nil {
		return fmt.Errorf("%s %s request %d was not received", method, path, index)
	}
	if actual := queries[name]; actual != expected {
		return fmt.Errorf("query '%s' expected '%s', got '%s'", name, expected, actual)
	}
	return nil
}

func theRequestShouldHaveField(ctx context.Context, method string, index int, path, field, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	body := tc.backend.GetRequestBody(method, path, index-1)
	if body == nil {
		return fmt.Errorf("%s %s request %d was not received", method, path, index)
	}
	value, ok := body[field]
	if !ok {
		return fmt.Errorf("field '%s' not found in request %v", field, body)
	}
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theRequestShouldHaveHeader(ctx context.Context, method string, index int, path, header string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	headers := tc.backend.GetRequestHeaders(method, path, index-1)
	if headers == nil {
		return fmt.Errorf("%s %s request %d was not received", method, path, index)
	}
	if headers[http.CanonicalHeaderKey(header)] == "" {
		return fmt.Errorf("header '%s' not sent, got %v", header, headers)
	}
	return nil
}

func theCacheMediumIs(ctx context.Context, medium string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.server != nil {
		return fmt.Errorf("the cache medium must be chosen before the first request")
	}
	tc.cfg.Cache.Medium = medium
	return nil
}

func theApplicationRestarts(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	return tc.restart(ctx)
}

func (tc *TestContext) cacheStore() (*cache.Store, error) {
	if tc.medium == nil {
		return nil, fmt.Errorf("the application has not started")
	}
	return cache.NewStore(tc.medium.Store), nil
}

func theCacheShouldHoldTransactionsFor(ctx context.Context, count int, identity string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	store, err := tc.cacheStore()
	if err != nil {
		return err
	}
	entry, ok, err := store.Get(ctx, identity)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no cache for %q", identity)
	}
	if len(entry.Transactions) != count {
		return fmt.Errorf("expected %d cached transactions for %q, got %d", count, identity, len(entry.Transactions))
	}
	return nil
}

func theCacheShouldBeEmptyFor(ctx context.Context, identity string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	store, err := tc.cacheStore()
	if err != nil {
		return err
	}
	_, ok, err := store.Get(ctx, identity)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("expected no cache for %q", identity)
	}
	return nil
}

func theCachedWindowShouldStartOn(ctx context.Context, identity, day string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	store, err := tc.cacheStore()
	if err != nil {
		return err
	}
	entry, ok, err := store.Get(ctx, identity)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no cache for %q", identity)
	}
	if entry.Meta.WindowStartDay != day {
		return fmt.Errorf("expected window to start on %s, got %s", day, entry.Meta.WindowStartDay)
	}
	return nil
}

// tableToRecords turns a header row plus value rows into JSON-like records.
// Empty cells are omitted, "true"/"false" become booleans.
func tableToRecords(table *godog.Table) ([]map[string]any, error) {
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}

	header := table.Rows[0].Cells
	records := make([]map[string]any, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		if len(row.Cells) != len(header) {
			return nil, fmt.Errorf("row has %d cells, header has %d", len(row.Cells), len(header))
		}
		record := map[string]any{}
		for i, cell := range row.Cells {
			switch cell.Value {
			case "":
				continue
			case "true":
				record[header[i].Value] = true
			case "false":
				record[header[i].Value] = false
			default:
				record[header[i].Value] = cell.Value
			}
		}
		records = append(records, record)
	}
	return records, nil
}
