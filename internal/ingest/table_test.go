package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	if got := DetectFormat("orders.XLSX", nil); got != FormatXLSX {
		t.Fatalf("xlsx extension: got %s", got)
	}
	if got := DetectFormat("orders.csv", []byte("PK\x03\x04")); got != FormatCSV {
		t.Fatalf("csv extension wins over content: got %s", got)
	}
	if got := DetectFormat("upload", []byte("PK\x03\x04rest")); got != FormatXLSX {
		t.Fatalf("zip magic: got %s", got)
	}
	if got := DetectFormat("upload", []byte("a,b,c")); got != FormatCSV {
		t.Fatalf("plain text: got %s", got)
	}
}

func TestReadTable_CSVSemicolon(t *testing.T) {
	data := "\xef\xbb\xbfArticle;Order ID;Date;Supplier;W;R;Qty;Total\n" +
		"a1;A;2025-01-10;X;;;1;100,50\n" +
		";;;;;;;\n" +
		"a2;B;2025-01-11;Y;;;2;200\n"

	tbl, err := ReadTable("export.csv", strings.NewReader(data))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Header) != 8 || tbl.Header[0] != "Article" {
		t.Fatalf("unexpected header: %q", tbl.Header)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("blank rows must be skipped, got %d rows", len(tbl.Rows))
	}

	res, err := Normalize(tbl, Options{})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !res.Lines[0].TotalPrice.Decimal.Equal(decimal.RequireFromString("100.5")) {
		t.Fatalf("price = %s", res.Lines[0].TotalPrice.Decimal)
	}
}

func TestReadTable_Empty(t *testing.T) {
	tbl, err := ReadTable("empty.csv", strings.NewReader("  \n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !tbl.Empty() {
		t.Fatalf("want empty table, got %+v", tbl)
	}
}

func TestReadTable_BrokenWorkbook(t *testing.T) {
	_, err := ReadTable("broken.xlsx", bytes.NewReader([]byte("PK\x03\x04 definitely not a zip")))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("want ErrUnreadable, got %v", err)
	}
}

func TestReadTable_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := [][]interface{}{
		{"Article", "Order ID", "Date", "Supplier", "Warehouse", "Region", "Quantity", "Total Price"},
		{"ART-1", "1001", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), "Nord", "K", "C", 2, 300},
		{"ART-2", "1001", "16.01.2024", "Nord", "K", "C", 1, 150.25},
		{"ART-3", "1002", "", "Volga", "K", "C", 1, "n/a"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	tbl, err := ReadTable("orders.xlsx", buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("want 3 data rows, got %d", len(tbl.Rows))
	}

	res, err := Normalize(tbl, Options{RequireHeader: true})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(res.Lines))
	}
	first := res.Lines[0]
	if first.Date == nil || first.Date.Format("2006-01-02") != "2024-01-15" {
		t.Fatalf("serial date not parsed: %v", first.Date)
	}
	if first.Article != "ART-1" || first.Supplier != "Nord" || first.OrderID != "1001" {
		t.Fatalf("unexpected line: %+v", first)
	}
	if !first.Quantity.Valid || !first.Quantity.Decimal.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("quantity = %+v", first.Quantity)
	}
	second := res.Lines[1]
	if second.Date == nil || second.Date.Format("2006-01-02") != "2024-01-16" {
		t.Fatalf("text date not parsed: %v", second.Date)
	}
	if !second.TotalPrice.Decimal.Equal(decimal.RequireFromString("150.25")) {
		t.Fatalf("price = %s", second.TotalPrice.Decimal)
	}
}
