package models

import "math"

// FilterBounds holds optional inclusive bedroom and size limits. A nil or
// non-finite bound imposes no constraint.
type FilterBounds struct {
	BedMin  *float64 `json:"bed_min,omitempty"`
	BedMax  *float64 `json:"bed_max,omitempty"`
	SizeMin *float64 `json:"size_min,omitempty"`
	SizeMax *float64 `json:"size_max,omitempty"`
}

// Active reports whether b is set to a finite number.
func Active(b *float64) bool {
	return b != nil && !math.IsNaN(*b) && !math.IsInf(*b, 0)
}

// Any reports whether at least one bound is active.
func (f FilterBounds) Any() bool {
	return Active(f.BedMin) || Active(f.BedMax) || Active(f.SizeMin) || Active(f.SizeMax)
}
