package services

import "pf_scrooper/models"

// ApplyBounds keeps the records whose bedroom and size values satisfy every
// active bound in b. beds and size return the raw source text of a record's
// values; the same coercion is applied whatever the record shape.
//
// With no active bound the input slice itself is returned. Otherwise a new
// slice is built and records are never modified. A value that does not coerce
// to a number fails any active bound on its dimension.
func ApplyBounds[T any](records []T, b models.FilterBounds, beds, size func(T) string) []T {
	if !b.Any() {
		return records
	}

	useBeds := models.Active(b.BedMin) || models.Active(b.BedMax)
	useSize := models.Active(b.SizeMin) || models.Active(b.SizeMax)

	kept := make([]T, 0, len(records))
	for _, rec := range records {
		if useBeds {
			n, ok := NormalizeBeds(beds(rec))
			if !ok || !within(n, b.BedMin, b.BedMax) {
				continue
			}
		}
		if useSize {
			n, ok := ToNumber(size(rec))
			if !ok || !within(n, b.SizeMin, b.SizeMax) {
				continue
			}
		}
		kept = append(kept, rec)
	}
	return kept
}

func within(v float64, lo, hi *float64) bool {
	if models.Active(lo) && v < *lo {
		return false
	}
	if models.Active(hi) && v > *hi {
		return false
	}
	return true
}

func ListingBeds(l models.ListingRecord) string { return l.Bedrooms }

func ListingSize(l models.ListingRecord) string {
	if l.Size.Value == nil {
		return ""
	}
	return formatNumber(*l.Size.Value)
}

func TransactionBeds(t models.TransactionRecord) string { return t.BedroomsRaw }

func TransactionSize(t models.TransactionRecord) string { return t.SizeRaw }
