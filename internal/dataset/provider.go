package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"medpulse/internal/infrastructure"
)

// Provider memoizes the loaded dataset for the process lifetime so each
// view render reuses the same immutable tables instead of re-reading the
// sources. The cache lives here, at the composition root, rather than as
// package-level mutable state.
type Provider struct {
	loader  *Loader
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	mu      sync.Mutex
	current *Dataset
}

// NewProvider creates a caching provider around the given loader
func NewProvider(loader *Loader, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		loader:  loader,
		logger:  logger,
		metrics: metrics,
	}
}

// Dataset returns the cached dataset, loading it on first use
func (p *Provider) Dataset(ctx context.Context) (*Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		return p.current, nil
	}
	return p.loadLocked(ctx)
}

// Reload discards the cached dataset and re-reads the sources. On failure
// the previous dataset is kept so the dashboard stays serveable.
func (p *Provider) Reload(ctx context.Context) (*Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ds, err := p.loadLocked(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "dataset reload failed, keeping previous dataset",
			slog.String("error", err.Error()))
		return nil, err
	}
	return ds, nil
}

// loadLocked performs the actual load; callers must hold p.mu
func (p *Provider) loadLocked(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	ds, err := p.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	p.current = ds
	infrastructure.RecordDatasetLoad(ctx, p.metrics, time.Since(start), len(ds.Medications), len(ds.Forecasts))

	return ds, nil
}
