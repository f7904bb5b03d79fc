package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"pf_scrooper/models"
)

const (
	SheetParameters   = "Parameters"
	SheetTransactions = "Transactions"
	SheetListings     = "Listings"
)

var (
	TransactionColumns = []string{"Price", "Price/Area", "Date", "Beds", "Size", "Type"}
	ListingColumns     = []string{"Title", "Price", "Currency", "Price/Area", "Median-diff%", "Avg-diff%",
		"Beds", "Baths", "Size", "Unit", "Rating", "URL"}

	parameterWidths   = []float64{22, 80}
	transactionWidths = []float64{14, 12, 12, 6, 10, 16}
	listingWidths     = []float64{40, 14, 6, 12, 12, 12, 6, 6, 10, 6, 8, 60}
)

const none = "(none)"

// Workbook renders an analysis as an xlsx document with a parameters and
// summary sheet, the benchmark transactions and the rated listings.
func Workbook(result *models.AnalysisResult, req models.AnalysisRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetParameters); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	for _, name := range []string{SheetTransactions, SheetListings} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("xlsx: add sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, SheetParameters, parameterRows(result, req), parameterWidths); err != nil {
		return nil, err
	}
	if err := writeRows(f, SheetTransactions, transactionRows(result), transactionWidths); err != nil {
		return nil, err
	}
	if err := writeRows(f, SheetListings, listingRows(result), listingWidths); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

func parameterRows(result *models.AnalysisResult, req models.AnalysisRequest) [][]interface{} {
	txPages := interface{}("all")
	if req.TransactionPages > 0 {
		txPages = req.TransactionPages
	}

	rows := [][]interface{}{
		{"Parameter", "Value"},
		{"Listing URL", req.ListingURL},
		{"Listing pages", req.ListingPages},
		{"Transaction URL", req.TransactionURL},
		{"Transaction pages", txPages},
		{"Threshold (%)", req.ThresholdPct},
		{"Beds min", boundCell(req.Bounds.BedMin)},
		{"Beds max", boundCell(req.Bounds.BedMax)},
		{"Size min", boundCell(req.Bounds.SizeMin)},
		{"Size max", boundCell(req.Bounds.SizeMax)},
		nil,
		{"Summary", ""},
		{"Transactions", result.Transactions.Count},
		{"Price/Area median", numberCell(result.Transactions.MedianPricePerArea)},
		{"Price/Area mean", numberCell(result.Transactions.MeanPricePerArea)},
		{"Listings", len(result.Listings)},
	}
	if result.Run != nil {
		rows = append(rows, []interface{}{"Run ID", result.Run.ID})
	}
	return rows
}

func transactionRows(result *models.AnalysisResult) [][]interface{} {
	rows := [][]interface{}{toCells(TransactionColumns)}
	for _, t := range result.Transactions.Items {
		rows = append(rows, []interface{}{
			numberCell(t.Price),
			areaCell(t.PricePerArea),
			t.TransactionDate,
			rawCell(t.BedroomsRaw),
			rawCell(t.SizeRaw),
			t.PropertyType,
		})
	}
	return rows
}

func listingRows(result *models.AnalysisResult) [][]interface{} {
	rows := [][]interface{}{toCells(ListingColumns)}
	for _, l := range result.Listings {
		rows = append(rows, []interface{}{
			l.Title,
			numberCell(l.Price.Value),
			l.Price.Currency,
			areaCell(l.PricePerArea),
			roundedCell(l.DiffPctVsMedian, 1),
			roundedCell(l.DiffPctVsMean, 1),
			rawCell(l.Bedrooms),
			rawCell(l.Bathrooms),
			numberCell(l.Size.Value),
			l.Size.Unit,
			string(l.Rating),
			l.SourceURL,
		})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, widths []float64) error {
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("xlsx: %s width %s: %w", sheet, col, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func numberCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func boundCell(v *float64) interface{} {
	if v == nil {
		return none
	}
	return *v
}

// areaCell is a price per area to 2 places, blank when absent or zero.
func areaCell(v *float64) interface{} {
	if v == nil || *v == 0 {
		return ""
	}
	return roundHalfUp(*v, 2)
}

func roundedCell(v *float64, places int) interface{} {
	if v == nil {
		return ""
	}
	return roundHalfUp(*v, places)
}

// roundHalfUp rounds halves toward positive infinity: -2.25 becomes -2.2 at
// one place.
func roundHalfUp(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}

// rawCell keeps source text as text unless it is a plain number.
func rawCell(s string) interface{} {
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return n
	}
	return s
}
