package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one normalized row of an order export. A single order may
// span several lines (one per article).
type OrderLine struct {
	Article    string              `json:"article,omitempty"`
	OrderID    string              `json:"order_id"`
	Date       *time.Time          `json:"date,omitempty"` // nil when the cell could not be parsed
	Supplier   string              `json:"supplier"`
	Quantity   decimal.NullDecimal `json:"quantity"`
	TotalPrice decimal.NullDecimal `json:"total_price"`
}

// Price returns the line total, or zero when it is null.
func (l OrderLine) Price() decimal.Decimal {
	if !l.TotalPrice.Valid {
		return decimal.Zero
	}
	return l.TotalPrice.Decimal
}
