package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/case-trends-dashboard/internal/domain"
	"github.com/couchcryptid/case-trends-dashboard/internal/observability"
)

// Source supplies the parsed state and county records.
type Source interface {
	States(ctx context.Context) ([]domain.Record, error)
	Counties(ctx context.Context) ([]domain.Record, error)
}

// Loader runs the one-time fetch-and-reshape at startup and publishes the
// resulting dataset to readers.
type Loader struct {
	source  Source
	logger  *slog.Logger
	metrics *observability.Metrics
	dataset atomic.Pointer[domain.Dataset]
}

// New creates a Loader reading from source.
func New(source Source, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once the dataset has been loaded.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if l.dataset.Load() == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Dataset returns the loaded dataset, or false while loading.
func (l *Loader) Dataset() (*domain.Dataset, bool) {
	ds := l.dataset.Load()
	return ds, ds != nil
}

// Load fetches both CSVs, builds the tables, and publishes the dataset.
// Any failure is returned as-is; there is no retry and nothing is published.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	if l.dataset.Load() != nil {
		return nil, errors.New("dataset already loaded")
	}

	l.logger.Info("loading dataset")
	start := time.Now()

	states, err := l.fetch(ctx, "states", l.source.States)
	if err != nil {
		return nil, err
	}
	counties, err := l.fetch(ctx, "counties", l.source.Counties)
	if err != nil {
		return nil, err
	}

	ds, err := domain.BuildDataset(states, counties)
	if err != nil {
		l.metrics.LoadFailures.WithLabelValues("build").Inc()
		return nil, fmt.Errorf("build dataset: %w", err)
	}

	l.observe(ds)
	l.dataset.Store(ds)
	l.metrics.DatasetReady.Set(1)

	l.logger.Info("dataset loaded",
		"state_rows", ds.States.Len(),
		"county_rows", ds.Counties.Len(),
		"cutoff", ds.Cutoff.Format(domain.DateLayout),
		"duration", time.Since(start),
	)
	return ds, nil
}

func (l *Loader) fetch(ctx context.Context, dataset string, get func(context.Context) ([]domain.Record, error)) ([]domain.Record, error) {
	start := time.Now()
	records, err := get(ctx)
	if err != nil {
		l.metrics.LoadFailures.WithLabelValues("fetch").Inc()
		return nil, fmt.Errorf("fetch %s: %w", dataset, err)
	}
	l.metrics.LoadDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	l.logger.Debug("fetched records", "dataset", dataset, "records", len(records))
	return records, nil
}

func (l *Loader) observe(ds *domain.Dataset) {
	l.metrics.TableRows.WithLabelValues("states").Set(float64(ds.States.Len()))
	l.metrics.TableRows.WithLabelValues("counties").Set(float64(ds.Counties.Len()))
	l.metrics.TableRegions.WithLabelValues("states").Set(float64(len(ds.States.Regions())))
	l.metrics.TableRegions.WithLabelValues("counties").Set(float64(len(ds.Counties.Regions())))
	if !ds.Cutoff.IsZero() {
		l.metrics.NationalCutoff.Set(float64(ds.Cutoff.Unix()))
	}
}
