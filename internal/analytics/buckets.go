package analytics

import (
	"github.com/shopspring/decimal"

	"salesdash/internal/model"
)

// PriceBucket is a half-open [Lower, Upper) range of line totals. A null
// Upper means unbounded.
type PriceBucket struct {
	Label string
	Lower decimal.Decimal
	Upper decimal.NullDecimal
}

func (b PriceBucket) Contains(p decimal.Decimal) bool {
	if p.LessThan(b.Lower) {
		return false
	}
	return !b.Upper.Valid || p.LessThan(b.Upper.Decimal)
}

var DefaultPriceBuckets = []PriceBucket{
	{Label: "0-100", Lower: decimal.Zero, Upper: decimal.NewNullDecimal(decimal.NewFromInt(100))},
	{Label: "100-500", Lower: decimal.NewFromInt(100), Upper: decimal.NewNullDecimal(decimal.NewFromInt(500))},
	{Label: "500-1000", Lower: decimal.NewFromInt(500), Upper: decimal.NewNullDecimal(decimal.NewFromInt(1000))},
	{Label: "1000+", Lower: decimal.NewFromInt(1000)},
}

type BucketStat struct {
	Label   string          `json:"label"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
	Lines   int             `json:"lines"`
}

// ByPriceBucket assigns each line to the first bucket containing its
// TotalPrice. Buckets with no lines are omitted; order follows buckets.
func ByPriceBucket(lines []model.OrderLine, buckets []PriceBucket) []BucketStat {
	stats := make([]BucketStat, len(buckets))
	orders := make([]map[string]struct{}, len(buckets))
	for i, b := range buckets {
		stats[i] = BucketStat{Label: b.Label, Revenue: decimal.Zero}
		orders[i] = make(map[string]struct{})
	}

	for _, l := range lines {
		p := l.Price()
		for i, b := range buckets {
			if !b.Contains(p) {
				continue
			}
			stats[i].Revenue = stats[i].Revenue.Add(p)
			stats[i].Lines++
			if l.OrderID != "" {
				orders[i][l.OrderID] = struct{}{}
			}
			break
		}
	}

	out := []BucketStat{}
	for i := range stats {
		if stats[i].Lines == 0 {
			continue
		}
		stats[i].Orders = len(orders[i])
		out = append(out, stats[i])
	}
	return out
}
