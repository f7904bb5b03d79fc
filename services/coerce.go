package services

import (
	"math"
	"strconv"
	"strings"
)

// ToNumber parses a source value after dropping thousands separators and
// surrounding whitespace. Empty, non-numeric and non-finite input is not a
// number.
func ToNumber(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// NormalizeBeds is ToNumber with "studio" (any case) counted as zero bedrooms.
func NormalizeBeds(raw string) (float64, bool) {
	if strings.EqualFold(strings.TrimSpace(raw), "studio") {
		return 0, true
	}
	return ToNumber(raw)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
