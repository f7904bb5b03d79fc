package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"pf_scrooper/models"
)

// ListingHeader is the column order of a listings CSV.
var ListingHeader = []string{
	"url",
	"property_type",
	"price_value",
	"price_currency",
	"price_period",
	"title",
	"location_full_name",
	"bedrooms",
	"bathrooms",
	"size_value",
	"size_unit",
	"listed_date",
	"reference",
	"listing_id",
}

// WriteListingsCSV writes the header and one row per listing. Absent values
// are written as empty fields.
func WriteListingsCSV(w io.Writer, listings []models.ListingRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ListingHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, l := range listings {
		if err := cw.Write(listingRow(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ListingsCSV renders listings as one CSV document.
func ListingsCSV(listings []models.ListingRecord) (string, error) {
	var buf bytes.Buffer
	if err := WriteListingsCSV(&buf, listings); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func listingRow(l models.ListingRecord) []string {
	return []string{
		l.SourceURL,
		l.PropertyType,
		formatPtr(l.Price.Value),
		l.Price.Currency,
		l.Price.Period,
		l.Title,
		l.LocationName,
		l.Bedrooms,
		l.Bathrooms,
		formatPtr(l.Size.Value),
		l.Size.Unit,
		l.ListedDate,
		l.Reference,
		l.ListingID,
	}
}

func formatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
