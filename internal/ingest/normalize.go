package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"salesdash/internal/model"
)

// ErrSchemaMismatch means the upload does not have the columns of the
// expected export. No partial mapping is attempted.
var ErrSchemaMismatch = errors.New("unsupported file structure")

const (
	MinColumns      = 6
	ExtendedColumns = 8
)

type Layout string

const (
	// LayoutMinimal reads OrderID, Date, Supplier and the last column as TotalPrice.
	LayoutMinimal Layout = "minimal"
	// LayoutExtended reads Article, OrderID, Date, Supplier, Quantity and TotalPrice;
	// columns 4 and 5 are ignored.
	LayoutExtended Layout = "extended"
)

// Mapping binds semantic fields to column positions. -1 means not read.
type Mapping struct {
	Layout     Layout
	Article    int
	OrderID    int
	Date       int
	Supplier   int
	Quantity   int
	TotalPrice int
}

// MappingFor returns the positional mapping for a table of the given width.
func MappingFor(width int) (Mapping, error) {
	switch {
	case width >= ExtendedColumns:
		return Mapping{
			Layout:     LayoutExtended,
			Article:    0,
			OrderID:    1,
			Date:       2,
			Supplier:   3,
			Quantity:   6,
			TotalPrice: 7,
		}, nil
	case width >= MinColumns:
		return Mapping{
			Layout:     LayoutMinimal,
			Article:    -1,
			OrderID:    1,
			Date:       2,
			Supplier:   3,
			Quantity:   -1,
			TotalPrice: width - 1,
		}, nil
	default:
		return Mapping{}, fmt.Errorf("%w: %d columns, need at least %d", ErrSchemaMismatch, width, MinColumns)
	}
}

type Options struct {
	// RequireHeader rejects files whose header labels do not name the
	// expected field at each mapped position.
	RequireHeader bool
}

// CoercionFailures counts non-empty cells that could not be parsed.
type CoercionFailures struct {
	Date       int `json:"date"`
	Quantity   int `json:"quantity"`
	TotalPrice int `json:"total_price"`
}

type Result struct {
	Lines            []model.OrderLine
	Layout           Layout
	RowsRead         int
	RowsDropped      int
	CoercionFailures CoercionFailures
}

// Normalize maps a raw table onto order lines: types are coerced first, then
// rows without a positive TotalPrice are dropped. Row order is preserved.
func Normalize(t Table, opts Options) (Result, error) {
	if t.Empty() {
		return Result{Lines: []model.OrderLine{}}, nil
	}

	m, err := MappingFor(t.Width())
	if err != nil {
		return Result{}, err
	}
	if opts.RequireHeader {
		if err := CheckHeader(t.Header, m); err != nil {
			return Result{}, err
		}
	}

	coerced, failures := Coerce(t.Rows, m)
	lines := FilterPositivePrice(coerced)

	return Result{
		Lines:            lines,
		Layout:           m.Layout,
		RowsRead:         len(t.Rows),
		RowsDropped:      len(t.Rows) - len(lines),
		CoercionFailures: failures,
	}, nil
}

// Coerce converts raw rows to order lines. Cells that fail to parse become
// null; no row is removed here.
func Coerce(rows [][]string, m Mapping) ([]model.OrderLine, CoercionFailures) {
	var failures CoercionFailures
	out := make([]model.OrderLine, 0, len(rows))
	for _, row := range rows {
		line := model.OrderLine{
			Article:  cell(row, m.Article),
			OrderID:  cell(row, m.OrderID),
			Supplier: cell(row, m.Supplier),
		}

		if raw := cell(row, m.Date); raw != "" {
			if d, ok := ParseDate(raw); ok {
				line.Date = &d
			} else {
				failures.Date++
			}
		}
		if raw := cell(row, m.Quantity); raw != "" {
			if q, ok := ParseNumber(raw); ok {
				line.Quantity = decimal.NewNullDecimal(q)
			} else {
				failures.Quantity++
			}
		}
		if raw := cell(row, m.TotalPrice); raw != "" {
			if p, ok := ParseNumber(raw); ok {
				line.TotalPrice = decimal.NewNullDecimal(p)
			} else {
				failures.TotalPrice++
			}
		}

		out = append(out, line)
	}
	return out, failures
}

// FilterPositivePrice keeps lines whose TotalPrice is present and > 0.
// Applying it twice gives the same result.
func FilterPositivePrice(lines []model.OrderLine) []model.OrderLine {
	out := make([]model.OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.TotalPrice.Valid && l.TotalPrice.Decimal.IsPositive() {
			out = append(out, l)
		}
	}
	return out
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var headerAliases = map[string][]string{
	"article":     {"article", "артикул", "sku"},
	"order id":    {"order id", "orderid", "order", "номер заказа", "заказ"},
	"date":        {"date", "дата", "order date"},
	"supplier":    {"supplier", "поставщик", "vendor"},
	"quantity":    {"quantity", "qty", "количество", "кол-во"},
	"total price": {"total price", "totalprice", "total", "сумма", "итого"},
}

// CheckHeader verifies that every mapped column carries the label of the
// field it is read as.
func CheckHeader(header []string, m Mapping) error {
	fields := []struct {
		name string
		idx  int
	}{
		{"article", m.Article},
		{"order id", m.OrderID},
		{"date", m.Date},
		{"supplier", m.Supplier},
		{"quantity", m.Quantity},
		{"total price", m.TotalPrice},
	}
	for _, f := range fields {
		if f.idx < 0 {
			continue
		}
		label := normalizeLabel(cell(header, f.idx))
		if !matchesAlias(label, headerAliases[f.name]) {
			return fmt.Errorf("%w: column %d is %q, want %s", ErrSchemaMismatch, f.idx+1, cell(header, f.idx), f.name)
		}
	}
	return nil
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

func matchesAlias(label string, aliases []string) bool {
	for _, a := range aliases {
		if label == a {
			return true
		}
	}
	return false
}
