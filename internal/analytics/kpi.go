package analytics

import (
	"github.com/shopspring/decimal"

	"salesdash/internal/model"
)

// DefaultMargin is the assumed share of revenue kept as profit.
var DefaultMargin = decimal.RequireFromString("0.25")

type KPIs struct {
	OrderCount        int             `json:"order_count"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	EstimatedProfit   decimal.Decimal `json:"estimated_profit"`
}

// Calculator computes headline KPIs. Margin is a policy value, not a
// measurement.
type Calculator struct {
	Margin decimal.Decimal
}

func NewCalculator(margin decimal.Decimal) Calculator {
	return Calculator{Margin: margin}
}

func (c Calculator) Compute(lines []model.OrderLine) KPIs {
	revenue := Revenue(lines)
	orders := OrderCount(lines)
	return KPIs{
		OrderCount:        orders,
		Revenue:           revenue,
		AverageOrderValue: average(revenue, orders),
		EstimatedProfit:   revenue.Mul(c.Margin),
	}
}

// OrderCount is the number of distinct non-empty order IDs.
func OrderCount(lines []model.OrderLine) int {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.OrderID == "" {
			continue
		}
		seen[l.OrderID] = struct{}{}
	}
	return len(seen)
}

func Revenue(lines []model.OrderLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price())
	}
	return sum
}

// average returns total/n, or zero when n is zero.
func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}
