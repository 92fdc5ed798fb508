package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-02-03", "2025-02-03", true},
		{"2025-02-03 17:45:00", "2025-02-03", true},
		{"2025-02-03T17:45:00", "2025-02-03", true},
		{"03.02.2025", "2025-02-03", true},
		{"03.02.2025 08:00", "2025-02-03", true},
		{"02/03/2025", "2025-02-03", true},
		{"45306", "2024-01-15", true},
		{" 2025-02-03 ", "2025-02-03", true},
		{"", "", false},
		{"yesterday", "", false},
		{"2025-13-45", "", false},
		{"-3", "", false},
		{"2025", "2025-01-01", true},
		{"45306.75", "2024-01-15", true},
		{"999", "", false},
		{"0", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Fatalf("ParseDate(%q) ok=%v want %v", tt.in, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if got.Format("2006-01-02") != tt.want {
			t.Fatalf("ParseDate(%q) = %s want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Location().String() != "UTC" {
			t.Fatalf("ParseDate(%q) not truncated to UTC day: %v", tt.in, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"100", "100", true},
		{"  42.5 ", "42.5", true},
		{"1 234,50", "1234.5", true},
		{"1\u00a0234,50", "1234.5", true},
		{"1,234.50", "1234.5", true},
		{"12,5", "12.5", true},
		{"1.234,56", "1234.56", true},
		{"1.234.567,89", "1234567.89", true},
		{"1 234,567", "", false},
		{"1,234", "", false},
		{"12,345", "", false},
		{"1,234,567", "", false},
		{"1.2,3,4", "", false},
		{"-5", "-5", true},
		{"1e3", "1000", true},
		{"", "", false},
		{"abc", "", false},
		{"NaN", "", false},
		{"12.5.1", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.ok {
			t.Fatalf("ParseNumber(%q) ok=%v want %v", tt.in, ok, tt.ok)
		}
		if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("ParseNumber(%q) = %s want %s", tt.in, got, tt.want)
		}
	}
}
