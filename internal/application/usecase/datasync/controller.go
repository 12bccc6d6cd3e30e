// Package datasync keeps the in-memory transaction mirror of the signed-in identity
// in step with the cache and the remote service.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/application/usecase/cache"
	"github.com/finance-tracker/txcache/internal/application/usecase/dashboard"
	"github.com/finance-tracker/txcache/internal/application/usecase/transaction"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

// DefaultLookbackDays is the default horizon fetched when an identity has no cache.
const DefaultLookbackDays = 365

// State is the lifecycle state of the mirror for the current identity.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Status is the observable view of the controller.
type Status struct {
	State    State
	Identity string
	Count    int
	Meta     entity.CacheMeta
}

// RefreshOptions tunes a refresh. Silent only lowers the log level of the attempt.
type RefreshOptions struct {
	Silent bool
}

// Writers are the use cases that change transactions on the backend.
// A nil use case disables its operation.
type Writers struct {
	Create *transaction.CreateTransactionUseCase
	Update *transaction.UpdateTransactionUseCase
	Delete *transaction.DeleteTransactionUseCase
}

// Options configures a Controller.
type Options struct {
	LookbackDays int
	Location     *time.Location   // observer's time zone, defaults to time.Local
	Now          func() time.Time // defaults to time.Now
}

// Controller is the injectable service behind every UI read and sync.
type Controller struct {
	store              *cache.Store
	transactionFetcher adapter.TransactionFetcher
	categoryFetcher    adapter.CategoryFetcher
	identityService    adapter.IdentityKeyService
	writers            Writers
	lookbackDays       int
	location           *time.Location
	now                func() time.Time
	logger             *slog.Logger

	mu           sync.RWMutex
	identity     string
	generation   uint64
	state        State
	transactions []entity.Transaction
	categories   []entity.Category
	meta         entity.CacheMeta
	listeners    map[int]func(Status)
	nextListener int
}

// NewController creates a new Controller.
func NewController(
	store *cache.Store,
	transactionFetcher adapter.TransactionFetcher,
	categoryFetcher adapter.CategoryFetcher,
	identityService adapter.IdentityKeyService,
	writers Writers,
	opts Options,
) *Controller {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = DefaultLookbackDays
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		store:              store,
		transactionFetcher: transactionFetcher,
		categoryFetcher:    categoryFetcher,
		identityService:    identityService,
		writers:            writers,
		lookbackDays:       opts.LookbackDays,
		location:           opts.Location,
		now:                opts.Now,
		logger:             slog.Default().With("component", "sync_controller"),
		listeners:          make(map[int]func(Status)),
	}
}

// SetCredential switches the identity derived from credential. A different identity
// resets the mirror before anything of the new identity is loaded.
func (c *Controller) SetCredential(credential string) {
	key := c.identityService.IdentityKey(credential)

	c.mu.Lock()
	if key == c.identity {
		c.mu.Unlock()
		return
	}
	previous := c.identity
	c.identity = key
	c.resetLocked()
	c.mu.Unlock()

	c.logger.Info("Identity changed", "previous", previous, "identity", key)
	c.notify()
}

// LoadInitial hydrates the mirror from the cache, or from the remote service on a miss.
func (c *Controller) LoadInitial(ctx context.Context) error {
	_, err := c.loadInitial(ctx)
	return err
}

// Activate loads the mirror and, when it came from the cache, refreshes it in the
// background. It returns once the mirror is usable.
func (c *Controller) Activate(ctx context.Context) error {
	fromCache, err := c.loadInitial(ctx)
	if err != nil || !fromCache {
		return err
	}

	go func() {
		_ = c.Refresh(context.WithoutCancel(ctx), RefreshOptions{Silent: true})
	}()
	return nil
}

func (c *Controller) loadInitial(ctx context.Context) (bool, error) {
	c.mu.Lock()
	identity, generation := c.identity, c.generation
	if identity == "" {
		c.resetLocked()
		c.mu.Unlock()
		return false, nil
	}
	c.state = StateLoading
	c.mu.Unlock()
	c.notify()

	entry, ok, err := c.store.Get(ctx, identity)
	if err != nil {
		c.logger.Warn("Cache unreadable, fetching from backend", "identity", identity, "error", err)
	}
	if ok {
		if c.hydrate(generation, entry.Transactions, nil, entry.Meta) {
			c.logger.Info("Hydrated from cache", "identity", identity, "count", len(entry.Transactions))
		}
		return true, nil
	}

	today := c.today()
	start := c.shiftDay(today, -c.lookbackDays)

	txs, categories, err := c.fetch(ctx, start, today)
	if err != nil {
		c.mu.Lock()
		if c.generation == generation && c.state == StateLoading && len(c.transactions) == 0 {
			c.state = StateUninitialized
		}
		c.mu.Unlock()
		c.notify()
		c.logger.Error("Initial load failed", "identity", identity, "error", err)
		return false, err
	}

	meta := entity.CacheMeta{LastSyncAt: c.now().UTC(), WindowStartDay: start}
	if !c.commit(ctx, generation, identity, txs, categories, meta) {
		return false, nil
	}
	c.logger.Info("Initial load completed", "identity", identity, "count", len(txs), "from", start, "to", today)
	return false, nil
}

// Refresh refetches from the cached window start through today and replaces the mirror.
// On failure the mirror is left as it was.
func (c *Controller) Refresh(ctx context.Context, opts RefreshOptions) error {
	c.mu.RLock()
	identity, generation, meta := c.identity, c.generation, c.meta
	c.mu.RUnlock()

	if identity == "" {
		return nil
	}

	today := c.today()
	start := meta.WindowStartDay
	if start == "" {
		start = c.shiftDay(today, -c.lookbackDays)
	}

	level := slog.LevelInfo
	if opts.Silent {
		level = slog.LevelDebug
	}
	c.logger.Log(ctx, level, "Refreshing transactions", "identity", identity, "from", start, "to", today)

	txs, categories, err := c.fetch(ctx, start, today)
	if err != nil {
		c.logger.Error("Refresh failed", "identity", identity, "error", err)
		return err
	}

	next := entity.CacheMeta{LastSyncAt: c.now().UTC(), WindowStartDay: start}
	if c.commit(ctx, generation, identity, txs, categories, next) {
		c.logger.Log(ctx, level, "Refresh completed", "identity", identity, "count", len(txs))
	}
	return nil
}

// AddLocalTx puts tx at the front of the mirror and persists it right away.
func (c *Controller) AddLocalTx(ctx context.Context, tx entity.Transaction) error {
	c.mu.Lock()
	identity := c.identity
	if identity == "" {
		c.resetLocked()
		c.mu.Unlock()
		return nil
	}
	next := make([]entity.Transaction, 0, len(c.transactions)+1)
	next = append(next, tx)
	next = append(next, c.transactions...)
	c.transactions = next
	c.mu.Unlock()
	c.notify()

	if err := c.store.AppendLocal(ctx, identity, tx); err != nil {
		c.logger.Error("Failed to persist local transaction", "identity", identity, "error", err)
		return domainerror.NewSyncError(domainerror.ErrCodePersistError, "failed to persist local transaction", err)
	}
	return nil
}

// CreateTransaction submits a transaction to the backend and adds the returned record locally.
func (c *Controller) CreateTransaction(ctx context.Context, input transaction.CreateTransactionInput) (*entity.Transaction, error) {
	if c.writers.Create == nil {
		return nil, errors.New("transaction creation is not configured")
	}

	c.mu.RLock()
	identity := c.identity
	if len(input.Categories) == 0 {
		input.Categories = c.knownCategoriesLocked()
	}
	c.mu.RUnlock()

	if identity == "" {
		return nil, domainerror.NewSyncError(domainerror.ErrCodeNoIdentity, "sign in to create transactions", domainerror.ErrNoIdentity)
	}

	out, err := c.writers.Create.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := c.AddLocalTx(ctx, out.Transaction); err != nil {
		return &out.Transaction, err
	}
	return &out.Transaction, nil
}

// UpdateTransaction edits a transaction on the backend, then refreshes the mirror
// silently so it reflects the stored record.
func (c *Controller) UpdateTransaction(ctx context.Context, input transaction.UpdateTransactionInput) (*entity.Transaction, error) {
	if c.writers.Update == nil {
		return nil, errors.New("transaction editing is not configured")
	}

	c.mu.RLock()
	identity := c.identity
	if len(input.Categories) == 0 {
		input.Categories = c.knownCategoriesLocked()
	}
	c.mu.RUnlock()

	if identity == "" {
		return nil, domainerror.NewSyncError(domainerror.ErrCodeNoIdentity, "sign in to edit transactions", domainerror.ErrNoIdentity)
	}

	out, err := c.writers.Update.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	c.refreshAfterWrite(ctx, identity)
	return &out.Transaction, nil
}

// DeleteTransaction removes a transaction on the backend, then refreshes the mirror silently.
func (c *Controller) DeleteTransaction(ctx context.Context, id entity.ID) error {
	if c.writers.Delete == nil {
		return errors.New("transaction deletion is not configured")
	}

	c.mu.RLock()
	identity := c.identity
	c.mu.RUnlock()

	if identity == "" {
		return domainerror.NewSyncError(domainerror.ErrCodeNoIdentity, "sign in to delete transactions", domainerror.ErrNoIdentity)
	}

	if err := c.writers.Delete.Execute(ctx, id); err != nil {
		return err
	}

	c.refreshAfterWrite(ctx, identity)
	return nil
}

// refreshAfterWrite keeps the mirror as it was when the follow-up refresh fails.
// The write itself already succeeded.
func (c *Controller) refreshAfterWrite(ctx context.Context, identity string) {
	if err := c.Refresh(ctx, RefreshOptions{Silent: true}); err != nil {
		c.logger.Warn("Mirror is stale until the next refresh", "identity", identity, "error", err)
	}
}

// Forget removes the cache of the current identity and empties the mirror.
func (c *Controller) Forget(ctx context.Context) error {
	c.mu.Lock()
	identity := c.identity
	c.resetLocked()
	c.mu.Unlock()
	c.notify()

	return c.store.Remove(ctx, identity)
}

// Dashboard totals the mirror over a local-day range.
func (c *Controller) Dashboard(startDay, endDay string) (entity.Dashboard, error) {
	window, err := valueobject.NewDayWindow(startDay, endDay, c.location)
	if err != nil {
		return entity.Dashboard{}, err
	}
	return dashboard.ComputeDashboard(c.Transactions(), window), nil
}

// DashboardForPreset totals the mirror over a named range ending today.
func (c *Controller) DashboardForPreset(preset valueobject.RangePreset) (entity.Dashboard, valueobject.DayWindow, error) {
	window, err := valueobject.PresetWindow(preset, c.now(), c.location)
	if err != nil {
		return entity.Dashboard{}, valueobject.DayWindow{}, err
	}
	return dashboard.ComputeDashboard(c.Transactions(), window), window, nil
}

// Trend totals the mirror period by period over a local-day range.
func (c *Controller) Trend(startDay, endDay string, granularity dashboard.Granularity) ([]entity.TrendPoint, error) {
	return dashboard.ComputeTrend(c.Transactions(), startDay, endDay, granularity, c.location)
}

// TrendForPreset totals the mirror period by period over a named range ending today.
func (c *Controller) TrendForPreset(preset valueobject.RangePreset, granularity dashboard.Granularity) ([]entity.TrendPoint, valueobject.DayWindow, error) {
	window, err := valueobject.PresetWindow(preset, c.now(), c.location)
	if err != nil {
		return nil, valueobject.DayWindow{}, err
	}
	points, err := dashboard.ComputeTrend(c.Transactions(), window.StartDay, window.EndDay, granularity, c.location)
	if err != nil {
		return nil, valueobject.DayWindow{}, err
	}
	return points, window, nil
}

// Recent returns up to limit transactions dated in a local-day range, newest first.
func (c *Controller) Recent(startDay, endDay string, limit int) ([]entity.Transaction, error) {
	window, err := valueobject.NewDayWindow(startDay, endDay, c.location)
	if err != nil {
		return nil, err
	}
	return dashboard.GetRecent(c.Transactions(), window, limit), nil
}

// RecentAll returns up to limit transactions, newest first.
func (c *Controller) RecentAll(limit int) []entity.Transaction {
	return dashboard.GetRecentAll(c.Transactions(), limit)
}

// BudgetProgress reports how much of budget the mirror consumes.
func (c *Controller) BudgetProgress(budget entity.Budget) (entity.BudgetProgress, error) {
	return dashboard.ComputeBudgetProgress(c.Transactions(), budget, c.location)
}

// Transactions returns a copy of the mirror.
func (c *Controller) Transactions() []entity.Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}

// Status returns the current observable state.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statusLocked()
}

// Ready reports whether the mirror has been hydrated for the current identity.
func (c *Controller) Ready() bool {
	return c.Status().State == StateReady
}

// Location returns the observer's time zone.
func (c *Controller) Location() *time.Location {
	return c.location
}

// Subscribe registers fn for every state change and returns a function that removes it.
func (c *Controller) Subscribe(fn func(Status)) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// fetch pulls transactions and categories concurrently and normalizes them.
func (c *Controller) fetch(ctx context.Context, from, to string) ([]entity.Transaction, []entity.Category, error) {
	var raw []entity.Transaction
	var categories []entity.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := c.transactionFetcher.List(gctx, adapter.TransactionFilter{From: from, To: to})
		if err != nil {
			return fmt.Errorf("%w: %w", domainerror.ErrFetchTransactions, err)
		}
		raw = txs
		return nil
	})
	g.Go(func() error {
		cats, err := c.categoryFetcher.List(gctx)
		if err != nil {
			return fmt.Errorf("%w: %w", domainerror.ErrFetchCategories, err)
		}
		categories = cats
		return nil
	})

	if err := g.Wait(); err != nil {
		code := domainerror.ErrCodeFetchFailed
		if errors.Is(err, domainerror.ErrUnauthorized) {
			code = domainerror.ErrCodeUnauthorized
		}
		return nil, nil, domainerror.NewSyncError(code, "failed to sync with backend", err)
	}

	return transaction.Normalize(raw, categories), categories, nil
}

// commit persists and hydrates a fetch result unless the identity moved on meanwhile.
func (c *Controller) commit(ctx context.Context, generation uint64, identity string, txs []entity.Transaction, categories []entity.Category, meta entity.CacheMeta) bool {
	if c.isStale(generation) {
		c.logger.Info("Discarding sync result of a previous identity", "identity", identity)
		return false
	}

	if err := c.store.Set(ctx, identity, txs, meta); err != nil {
		c.logger.Error("Failed to persist cache", "identity", identity, "error", err)
	}

	// The identity may have changed or been forgotten while the entry was written.
	if c.isStale(generation) {
		c.logger.Info("Removing cache written for a previous identity", "identity", identity)
		if err := c.store.Remove(ctx, identity); err != nil {
			c.logger.Error("Failed to remove stale cache", "identity", identity, "error", err)
		}
		return false
	}

	return c.hydrate(generation, txs, categories, meta)
}

func (c *Controller) hydrate(generation uint64, txs []entity.Transaction, categories []entity.Category, meta entity.CacheMeta) bool {
	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return false
	}
	c.transactions = txs
	if categories != nil {
		c.categories = categories
	}
	c.meta = meta
	c.state = StateReady
	c.mu.Unlock()

	c.notify()
	return true
}

func (c *Controller) isStale(generation uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation != generation
}

// resetLocked clears everything tied to the previous identity. Callers hold mu.
func (c *Controller) resetLocked() {
	c.generation++
	c.state = StateUninitialized
	c.transactions = nil
	c.categories = nil
	c.meta = entity.CacheMeta{}
}

// knownCategoriesLocked returns the fetched categories, or the ones named by the
// mirror when it was hydrated from the cache. Callers hold mu.
func (c *Controller) knownCategoriesLocked() []entity.Category {
	if len(c.categories) > 0 {
		return append([]entity.Category(nil), c.categories...)
	}

	seen := make(map[entity.ID]bool)
	var out []entity.Category
	for _, tx := range c.transactions {
		if tx.CategoryID == "" || tx.Category == entity.UncategorizedName || seen[tx.CategoryID] {
			continue
		}
		seen[tx.CategoryID] = true
		out = append(out, entity.Category{ID: tx.CategoryID, Name: tx.Category, Type: tx.Type})
	}
	return out
}

func (c *Controller) statusLocked() Status {
	return Status{
		State:    c.state,
		Identity: c.identity,
		Count:    len(c.transactions),
		Meta:     c.meta,
	}
}

func (c *Controller) notify() {
	c.mu.RLock()
	status := c.statusLocked()
	listeners := make([]func(Status), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(status)
	}
}

func (c *Controller) today() string {
	return valueobject.FormatDay(c.now(), c.location)
}

func (c *Controller) shiftDay(day string, n int) string {
	shifted, err := valueobject.AddDays(day, n, c.location)
	if err != nil {
		return day
	}
	return shifted
}
