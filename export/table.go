package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"pf_scrooper/models"
)

const maxTitleWidth = 48

var tableColumns = []string{"Rating", "Price", "Price/Area", "vs Median", "Beds", "Size", "Title"}

// numeric columns are right aligned
var tableRightAligned = map[int]bool{1: true, 2: true, 3: true, 5: true}

// WriteTable prints the benchmark summary followed by one aligned row per
// listing. Widths are measured in terminal cells so titles in wide scripts
// line up.
func WriteTable(w io.Writer, result *models.AnalysisResult) error {
	tx := result.Transactions
	if _, err := fmt.Fprintf(w, "Transactions: %d  median %s  mean %s\n",
		tx.Count, tableNumber(tx.MedianPricePerArea, 2), tableNumber(tx.MeanPricePerArea, 2)); err != nil {
		return err
	}
	if result.Run != nil {
		if _, err := fmt.Fprintf(w, "Run: %s\n", result.Run.ID); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	rows := [][]string{tableColumns}
	for _, l := range result.Listings {
		rows = append(rows, []string{
			string(l.Rating),
			tableNumber(l.Price.Value, 0),
			tableNumber(l.PricePerArea, 2),
			tablePct(l.DiffPctVsMedian),
			l.Bedrooms,
			tableNumber(l.Size.Value, 0),
			runewidth.Truncate(l.Title, maxTitleWidth, "…"),
		})
	}

	widths := make([]int, len(tableColumns))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			switch {
			case i == len(row)-1:
				cells[i] = cell
			case tableRightAligned[i]:
				cells[i] = runewidth.FillLeft(cell, widths[i])
			default:
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func tableNumber(v *float64, places int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(roundHalfUp(*v, places), 'f', places, 64)
}

func tablePct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", roundHalfUp(*v, 1))
}
