package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

var header = []interface{}{"Article", "Order ID", "Date", "Supplier", "Warehouse", "Region", "Quantity", "Total Price"}

func main() {
	var count int
	var outputFile string
	var seed int64
	flag.IntVar(&count, "count", 500, "number of order lines to generate")
	flag.StringVar(&outputFile, "output", "sales.xlsx", "output workbook")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if err := generateSales(count, outputFile, rand.New(rand.NewSource(seed))); err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func generateSales(count int, outputFile string, rnd *rand.Rand) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	suppliers := []string{"Nord Trade", "Volga Goods", "Ural Supply", "Baltic Home", "Siberia Craft", "Kama Textile"}
	warehouses := []string{"Koledino", "Podolsk", "Kazan", "Elektrostal"}
	regions := []string{"Central", "Volga", "Northwest", "Ural"}
	baseDate := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	line := 0
	for order := 1; line < count; order++ {
		// An order carries one to three articles.
		articles := 1 + rnd.Intn(3)
		date := baseDate.AddDate(0, 0, rnd.Intn(365))
		supplier := suppliers[rnd.Intn(len(suppliers))]
		for a := 0; a < articles && line < count; a++ {
			qty := 1 + rnd.Intn(5)
			unit := 50 + rnd.Intn(1500)
			row := []interface{}{
				fmt.Sprintf("ART-%04d", rnd.Intn(300)),
				fmt.Sprintf("%d", 100000+order),
				date,
				supplier,
				warehouses[rnd.Intn(len(warehouses))],
				regions[rnd.Intn(len(regions))],
				qty,
				qty * unit,
			}
			cell, err := excelize.CoordinatesToCellName(1, line+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("write row %d: %w", line+1, err)
			}
			dateCell, _ := excelize.CoordinatesToCellName(3, line+2)
			if err := f.SetCellStyle(sheet, dateCell, dateCell, dateStyle); err != nil {
				return fmt.Errorf("style row %d: %w", line+1, err)
			}
			line++
		}
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("save %s: %w", outputFile, err)
	}
	slog.Info("sample export written", "lines", line, "file", outputFile)
	return nil
}
