package datasync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RefresherConfig holds configuration for the background refresher
type RefresherConfig struct {
	// Interval is how often a silent refresh is attempted (default: 5m)
	Interval time.Duration
}

// DefaultRefresherConfig returns sensible defaults
func DefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{
		Interval: 5 * time.Minute,
	}
}

// refreshTarget is the part of Controller the refresher drives.
type refreshTarget interface {
	Ready() bool
	Refresh(ctx context.Context, opts RefreshOptions) error
}

// Refresher periodically refreshes a ready controller in the background.
type Refresher struct {
	target refreshTarget
	config RefresherConfig

	mu      sync.Mutex
	running bool
	failing bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewRefresher creates a new Refresher.
func NewRefresher(target refreshTarget, config RefresherConfig) *Refresher {
	if config.Interval <= 0 {
		config.Interval = DefaultRefresherConfig().Interval
	}
	return &Refresher{
		target: target,
		config: config,
	}
}

// Start begins the refresh loop. Returns an error if already running.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("refresher is already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.runLoop(ctx, r.stopCh, r.doneCh)

	slog.InfoContext(ctx, "Refresher started", "interval", r.config.Interval)
	return nil
}

// Stop gracefully stops the refresher and waits for completion.
// After a timeout the loop is still winding down; calling Stop again waits for it.
func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	stopCh, doneCh := r.stopCh, r.doneCh
	r.stopCh = nil
	r.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Refresher stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Refresher stop timed out")
		return ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	return nil
}

// IsRunning returns whether the refresher is currently running
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Refresher) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick refreshes once. A run of failures is logged only when it starts.
func (r *Refresher) tick(ctx context.Context) {
	if !r.target.Ready() {
		return
	}

	err := r.target.Refresh(ctx, RefreshOptions{Silent: true})

	r.mu.Lock()
	wasFailing := r.failing
	r.failing = err != nil
	r.mu.Unlock()

	switch {
	case err != nil && !wasFailing:
		slog.WarnContext(ctx, "Background refresh failing", "error", err)
	case err == nil && wasFailing:
		slog.InfoContext(ctx, "Background refresh recovered")
	}
}
