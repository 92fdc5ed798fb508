package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg              *prometheus.Registry
	ReportsGenerated prometheus.Counter
	ReportsFailed    *prometheus.CounterVec
	RowsRead         prometheus.Counter
	RowsDropped      prometheus.Counter
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	BuildLatencySec  prometheus.Histogram
	ReportsPruned    prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	generated := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesdash_reports_generated_total"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "salesdash_reports_failed_total"}, []string{"reason"})
	rowsRead := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesdash_rows_read_total"})
	rowsDropped := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesdash_rows_dropped_total"})
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesdash_cache_hits_total"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesdash_cache_misses_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "salesdash_report_build_seconds",
		Buckets: prometheus.DefBuckets,
	})
	pruned := prometheus.NewCounter(prometheus.CounterOpts{Name: "salesdash_reports_pruned_total"})

	r.MustRegister(generated, failed, rowsRead, rowsDropped, hits, misses, latency, pruned)
	return &Registry{
		reg:              r,
		ReportsGenerated: generated,
		ReportsFailed:    failed,
		RowsRead:         rowsRead,
		RowsDropped:      rowsDropped,
		CacheHits:        hits,
		CacheMisses:      misses,
		BuildLatencySec:  latency,
		ReportsPruned:    pruned,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
