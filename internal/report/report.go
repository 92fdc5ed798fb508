package report

import (
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/analytics"
	"salesdash/internal/ingest"
)

type Options struct {
	Ingest  ingest.Options
	Margin  decimal.Decimal
	Buckets []analytics.PriceBucket
}

func DefaultOptions() Options {
	return Options{
		Margin:  analytics.DefaultMargin,
		Buckets: analytics.DefaultPriceBuckets,
	}
}

// Analysis is everything derived from one upload. It depends only on the
// table and the options.
type Analysis struct {
	Layout           ingest.Layout           `json:"layout"`
	RowsRead         int                     `json:"rows_read"`
	RowsDropped      int                     `json:"rows_dropped"`
	CoercionFailures ingest.CoercionFailures `json:"coercion_failures"`
	KPIs             analytics.KPIs          `json:"kpis"`
	analytics.Views
}

// Bundle is the report handed to the renderer.
type Bundle struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	Digest      string    `json:"digest"`
	GeneratedAt time.Time `json:"generated_at"`
	Analysis
}

// Build runs one full pass: normalize, then KPIs, then every view.
func Build(t ingest.Table, opts Options) (Analysis, error) {
	res, err := ingest.Normalize(t, opts.Ingest)
	if err != nil {
		return Analysis{}, err
	}

	calc := analytics.NewCalculator(opts.Margin)
	return Analysis{
		Layout:           res.Layout,
		RowsRead:         res.RowsRead,
		RowsDropped:      res.RowsDropped,
		CoercionFailures: res.CoercionFailures,
		KPIs:             calc.Compute(res.Lines),
		Views:            analytics.ComputeViews(res.Lines, opts.Buckets),
	}, nil
}
