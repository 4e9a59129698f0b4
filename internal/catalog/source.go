package catalog

import (
	"context"
	"time"

	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// Source is one catalog query.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Row, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc struct {
	Label string
	Fn    func(ctx context.Context) ([]Row, error)
}

// Name returns the label.
func (s SourceFunc) Name() string { return s.Label }

// Fetch calls Fn.
func (s SourceFunc) Fetch(ctx context.Context) ([]Row, error) { return s.Fn(ctx) }

// FetchMerged runs general and curated concurrently, waits for both and
// returns MergeByID(general, curated). A nil or failing source is logged and
// treated as empty.
func FetchMerged(ctx context.Context, general, curated Source) []Row {
	var generalRows, curatedRows []Row

	var g errgroup.Group
	g.Go(func() error {
		generalRows = fetchOrEmpty(ctx, general)
		return nil
	})
	g.Go(func() error {
		curatedRows = fetchOrEmpty(ctx, curated)
		return nil
	})
	_ = g.Wait() // both goroutines swallow their errors

	merged, replaced := mergeByID(generalRows, curatedRows)
	metrics.MergeRowsTotal.WithLabelValues("replaced").Add(float64(replaced))
	metrics.MergeRowsTotal.WithLabelValues("output").Add(float64(len(merged)))
	logging.Debug("catalog: merged %d + %d rows into %d (%d replaced)",
		len(generalRows), len(curatedRows), len(merged), replaced)
	return merged
}

func fetchOrEmpty(ctx context.Context, s Source) []Row {
	if s == nil {
		return nil
	}
	start := time.Now()
	rows, err := s.Fetch(ctx)
	metrics.SourceFetchDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceFailuresTotal.WithLabelValues(s.Name()).Inc()
		logging.Warn("Catalog source %s failed, treating as empty: %v", s.Name(), err)
		return nil
	}
	return rows
}
