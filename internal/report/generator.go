package report

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salesdash/internal/ingest"
	"salesdash/internal/metrics"
)

// Cache stores encoded analyses by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, val []byte) error
}

// Generator turns uploaded bytes into a report bundle. Identical bytes and
// options always give the same Analysis, so results may be served from cache.
type Generator struct {
	opts        Options
	fingerprint string
	cache       Cache
	metrics     *metrics.Registry

	now   func() time.Time
	newID func() string
}

// NewGenerator creates a Generator. cache may be nil.
func NewGenerator(opts Options, cache Cache, m *metrics.Registry) *Generator {
	return &Generator{
		opts:        opts,
		fingerprint: fingerprint(opts),
		cache:       cache,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

func (g *Generator) Generate(ctx context.Context, fileName string, data []byte) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	key := fmt.Sprintf("%s:%s:%s", digest, ingest.DetectFormat(fileName, data), g.fingerprint)

	a, ok := g.cached(key)
	if !ok {
		t, err := ingest.ReadTable(fileName, bytes.NewReader(data))
		if err != nil {
			g.metrics.ReportsFailed.WithLabelValues(failureReason(err)).Inc()
			return nil, fmt.Errorf("read table: %w", err)
		}
		a, err = Build(t, g.opts)
		if err != nil {
			g.metrics.ReportsFailed.WithLabelValues(failureReason(err)).Inc()
			return nil, fmt.Errorf("build report: %w", err)
		}
		g.store(key, a)
	}

	g.metrics.ReportsGenerated.Inc()
	g.metrics.RowsRead.Add(float64(a.RowsRead))
	g.metrics.RowsDropped.Add(float64(a.RowsDropped))
	g.metrics.BuildLatencySec.Observe(time.Since(start).Seconds())

	return &Bundle{
		ID:          g.newID(),
		FileName:    fileName,
		Digest:      digest,
		GeneratedAt: g.now(),
		Analysis:    a,
	}, nil
}

func (g *Generator) cached(key string) (Analysis, bool) {
	if g.cache == nil {
		return Analysis{}, false
	}
	raw, ok, err := g.cache.Get(key)
	if err != nil {
		slog.Warn("report cache read failed", "error", err)
		return Analysis{}, false
	}
	if !ok {
		g.metrics.CacheMisses.Inc()
		return Analysis{}, false
	}
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		slog.Warn("report cache entry corrupt", "key", key, "error", err)
		return Analysis{}, false
	}
	g.metrics.CacheHits.Inc()
	return a, true
}

func (g *Generator) store(key string, a Analysis) {
	if g.cache == nil {
		return
	}
	raw, err := json.Marshal(a)
	if err != nil {
		slog.Warn("report cache encode failed", "error", err)
		return
	}
	if err := g.cache.Put(key, raw); err != nil {
		slog.Warn("report cache write failed", "error", err)
	}
}

func fingerprint(opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "m=%s;h=%t", opts.Margin.String(), opts.Ingest.RequireHeader)
	for _, bk := range opts.Buckets {
		fmt.Fprintf(&b, ";%s[%s,", bk.Label, bk.Lower.String())
		if bk.Upper.Valid {
			b.WriteString(bk.Upper.Decimal.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ingest.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, ingest.ErrUnreadable):
		return "unreadable"
	default:
		return "other"
	}
}
