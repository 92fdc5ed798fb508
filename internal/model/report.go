package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportSummary is the list view of a stored report.
type ReportSummary struct {
	ID          string          `json:"id"`
	UserID      string          `json:"-"`
	FileName    string          `json:"file_name"`
	Digest      string          `json:"digest"`
	OrderCount  int             `json:"order_count"`
	Revenue     decimal.Decimal `json:"revenue"`
	RowsRead    int             `json:"rows_read"`
	RowsDropped int             `json:"rows_dropped"`
	CreatedAt   time.Time       `json:"created_at"`
}
