package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02.01.2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006/01/02",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"01-02-06",
	"2006",
}

// Excel serials past 9999-12-31 are not dates. Serials with fewer digits
// than minExcelSerialDigits are read as years or rejected.
const (
	maxExcelSerial       = 2958465
	minExcelSerialDigits = 5
)

// ParseDate parses a date cell and truncates it to the calendar day in UTC.
// Excel serial numbers are accepted because workbooks are read raw.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), true
		}
	}
	if !looksLikeSerial(s) {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(f, false)
		if err == nil {
			return day(t), true
		}
	}
	return time.Time{}, false
}

// looksLikeSerial reports whether s is a plain number with a fractional part
// or at least minExcelSerialDigits integer digits.
func looksLikeSerial(s string) bool {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || strings.Trim(whole, "0123456789") != "" {
		return false
	}
	if hasFrac {
		return frac != "" && strings.Trim(frac, "0123456789") == ""
	}
	return len(whole) >= minExcelSerialDigits
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseNumber parses a numeric cell. Space thousand separators are removed.
// When both ',' and '.' appear the last one is the decimal mark. A lone comma
// is a decimal mark unless exactly three digits follow it, which could be a
// thousands group; such cells are rejected.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	comma, dot := strings.LastIndexByte(s, ','), strings.LastIndexByte(s, '.')
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			if strings.Count(s, ",") != 1 {
				return decimal.Decimal{}, false
			}
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") != 1 || len(s)-comma-1 == 3 {
			return decimal.Decimal{}, false
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
