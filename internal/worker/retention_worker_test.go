package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"salesdash/internal/metrics"
)

type fakePruner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakePruner) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestRetentionWorker_Prune(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &fakePruner{deleted: 3}
	m := metrics.NewRegistry()
	w := NewRetentionWorker(p, m, 30*24*time.Hour)
	w.now = func() time.Time { return now }

	if err := w.prune(context.Background()); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if want := now.Add(-30 * 24 * time.Hour); !p.cutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", p.cutoff, want)
	}
	if got := testutil.ToFloat64(m.ReportsPruned); got != 3 {
		t.Fatalf("pruned counter = %v, want 3", got)
	}
}

func TestRetentionWorker_PruneError(t *testing.T) {
	p := &fakePruner{err: errors.New("db gone")}
	m := metrics.NewRegistry()
	w := NewRetentionWorker(p, m, time.Hour)

	if err := w.prune(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := testutil.ToFloat64(m.ReportsPruned); got != 0 {
		t.Fatalf("pruned counter = %v after failure", got)
	}
}

func TestRetentionWorker_StopsOnCancel(t *testing.T) {
	w := NewRetentionWorker(&fakePruner{}, metrics.NewRegistry(), time.Hour)
	w.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
