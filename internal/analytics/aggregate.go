package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/model"
)

const (
	TopSuppliersLimit = 10
	TopArticlesLimit  = 20
	LeaderboardLimit  = 15
)

type MonthPoint struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
	Lines   int             `json:"lines"`
}

type DayPoint struct {
	Day     string          `json:"day"` // YYYY-MM-DD
	Revenue decimal.Decimal `json:"revenue"`
	Lines   int             `json:"lines"`
	Average decimal.Decimal `json:"average"`
}

// Ranked is one entry of a top-N revenue list.
type Ranked struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SupplierStat struct {
	Supplier          string          `json:"supplier"`
	Orders            int             `json:"orders"`
	Revenue           decimal.Decimal `json:"revenue"`
	Quantity          decimal.Decimal `json:"quantity"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// Monthly sums revenue and counts lines per calendar month, oldest first.
// Lines without a date are skipped.
func Monthly(lines []model.OrderLine) []MonthPoint {
	type acc struct {
		start time.Time
		point MonthPoint
	}
	idx := make(map[time.Time]int)
	var groups []acc
	for _, l := range lines {
		if l.Date == nil {
			continue
		}
		start := time.Date(l.Date.Year(), l.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		i, ok := idx[start]
		if !ok {
			i = len(groups)
			idx[start] = i
			groups = append(groups, acc{start: start, point: MonthPoint{Month: start.Format("2006-01"), Revenue: decimal.Zero}})
		}
		groups[i].point.Revenue = groups[i].point.Revenue.Add(l.Price())
		groups[i].point.Lines++
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].start.Before(groups[b].start) })

	out := make([]MonthPoint, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.point)
	}
	return out
}

// Daily reports revenue, line count and average line value per calendar
// date, oldest first. Lines without a date are skipped.
func Daily(lines []model.OrderLine) []DayPoint {
	type acc struct {
		day   time.Time
		point DayPoint
	}
	idx := make(map[time.Time]int)
	var groups []acc
	for _, l := range lines {
		if l.Date == nil {
			continue
		}
		d := *l.Date
		i, ok := idx[d]
		if !ok {
			i = len(groups)
			idx[d] = i
			groups = append(groups, acc{day: d, point: DayPoint{Day: d.Format("2006-01-02"), Revenue: decimal.Zero}})
		}
		groups[i].point.Revenue = groups[i].point.Revenue.Add(l.Price())
		groups[i].point.Lines++
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].day.Before(groups[b].day) })

	out := make([]DayPoint, 0, len(groups))
	for _, g := range groups {
		g.point.Average = average(g.point.Revenue, g.point.Lines)
		out = append(out, g.point)
	}
	return out
}

// TopSuppliers returns the n suppliers with the highest revenue.
func TopSuppliers(lines []model.OrderLine, n int) []Ranked {
	return topByRevenue(lines, func(l model.OrderLine) string { return l.Supplier }, n)
}

// TopArticles returns the n articles with the highest revenue.
func TopArticles(lines []model.OrderLine, n int) []Ranked {
	return topByRevenue(lines, func(l model.OrderLine) string { return l.Article }, n)
}

// topByRevenue groups by key in first-seen order and sorts stably, so equal
// revenues keep encounter order. Empty keys are not a group.
func topByRevenue(lines []model.OrderLine, key func(model.OrderLine) string, n int) []Ranked {
	idx := make(map[string]int)
	out := []Ranked{}
	for _, l := range lines {
		k := key(l)
		if k == "" {
			continue
		}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Ranked{Key: k, Revenue: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(l.Price())
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Revenue.GreaterThan(out[b].Revenue) })
	return limit(out, n)
}

// Leaderboard ranks suppliers by revenue with order count, quantity and
// average order value.
func Leaderboard(lines []model.OrderLine, n int) []SupplierStat {
	idx := make(map[string]int)
	orders := make(map[string]map[string]struct{})
	out := []SupplierStat{}
	for _, l := range lines {
		if l.Supplier == "" {
			continue
		}
		i, ok := idx[l.Supplier]
		if !ok {
			i = len(out)
			idx[l.Supplier] = i
			orders[l.Supplier] = make(map[string]struct{})
			out = append(out, SupplierStat{Supplier: l.Supplier, Revenue: decimal.Zero, Quantity: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(l.Price())
		if l.Quantity.Valid {
			out[i].Quantity = out[i].Quantity.Add(l.Quantity.Decimal)
		}
		if l.OrderID != "" {
			orders[l.Supplier][l.OrderID] = struct{}{}
		}
	}
	for i := range out {
		out[i].Orders = len(orders[out[i].Supplier])
		out[i].AverageOrderValue = average(out[i].Revenue, out[i].Orders)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Revenue.GreaterThan(out[b].Revenue) })
	return limit(out, n)
}

func limit[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
