package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salesdash/internal/metrics"
)

// ReportPruner deletes reports created before a cutoff.
type ReportPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionWorker periodically drops reports older than the retention period.
type RetentionWorker struct {
	reports   ReportPruner
	metrics   *metrics.Registry
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func NewRetentionWorker(reports ReportPruner, m *metrics.Registry, retention time.Duration) *RetentionWorker {
	return &RetentionWorker{
		reports:   reports,
		metrics:   m,
		retention: retention,
		interval:  time.Hour,
		now:       time.Now,
	}
}

func (w *RetentionWorker) Start(ctx context.Context) {
	slog.Info("starting retention worker", "retention", w.retention)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention worker stopped")
			return
		case <-ticker.C:
			if err := w.prune(ctx); err != nil {
				slog.Error("report pruning failed", "error", err)
			}
		}
	}
}

func (w *RetentionWorker) prune(ctx context.Context) error {
	cutoff := w.now().Add(-w.retention)
	n, err := w.reports.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete old reports: %w", err)
	}
	if n > 0 {
		w.metrics.ReportsPruned.Add(float64(n))
		slog.Info("reports pruned", "count", n, "cutoff", cutoff)
	}
	return nil
}
