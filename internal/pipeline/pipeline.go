// Package pipeline orchestrates the load-reconcile cycle: read the source
// collections, build a reconciliation index, and atomically publish it to
// serving code, repeating on an optional interval.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hallsgap-landcare/weed-priority-service/internal/domain"
	"github.com/hallsgap-landcare/weed-priority-service/internal/observability"
	"github.com/hallsgap-landcare/weed-priority-service/internal/reconcile"
	"github.com/hallsgap-landcare/weed-priority-service/internal/source"
)

// SourceLoader reads all four source collections.
type SourceLoader interface {
	Load(paths source.Paths) (*domain.Sources, error)
}

// Pipeline owns the current reconciliation index. Readers get the index via
// Index(); rebuilds swap in a replacement atomically, so a failed reload
// never takes down the one already serving.
type Pipeline struct {
	loader   SourceLoader
	paths    source.Paths
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics

	current atomic.Pointer[reconcile.Index]
	ready   atomic.Bool
}

// New creates a Pipeline. interval zero disables periodic reloads; the
// sources are then read once at startup.
func New(loader SourceLoader, paths source.Paths, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:   loader,
		paths:    paths,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Index returns the currently serving index, or nil before the first
// successful build.
func (p *Pipeline) Index() *reconcile.Index {
	return p.current.Load()
}

// CheckReadiness returns nil once an index has been built, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("reconciliation index has not been built yet")
	}
	return nil
}

// Rebuild reads the sources and overrides and swaps in a fresh index. On
// failure the previous index, if any, keeps serving.
func (p *Pipeline) Rebuild(_ context.Context) error {
	start := time.Now()

	src, err := p.loader.Load(p.paths)
	if err != nil {
		return err
	}
	overrides, err := source.LoadOverrides(p.paths.Overrides)
	if err != nil {
		return err
	}

	ix := reconcile.NewIndex(src, overrides, p.logger, p.metrics)
	p.current.Store(ix)
	p.ready.Store(true)
	p.metrics.IndexReady.Set(1)

	p.logger.Info("reconciliation index built",
		"gov", len(src.Gov),
		"assessments", len(src.Assessments),
		"profiles", len(src.Profiles),
		"vic", len(src.Vic),
		"collisions", len(ix.Collisions()),
		"duration", time.Since(start),
	)
	return nil
}

// Run builds the initial index, retrying with backoff until it succeeds,
// then reloads on the configured interval until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		err := p.Rebuild(ctx)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Error("initial index build failed", "error", err, "retry_in", backoff)
		if !p.sleep(ctx, backoff) {
			return nil
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}

	if p.interval <= 0 {
		<-ctx.Done()
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := p.Rebuild(ctx); err != nil {
				// Keep serving the last good index.
				p.logger.Error("index reload failed, keeping previous index", "error", err)
			}
		}
	}
}

func (p *Pipeline) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-p.clock.After(d):
		return true
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
