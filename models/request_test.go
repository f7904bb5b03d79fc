package models

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestClamp(t *testing.T) {
	cases := []struct {
		name string
		in   AnalysisRequest
		want AnalysisRequest
	}{
		{
			name: "defaults",
			in:   AnalysisRequest{},
			want: AnalysisRequest{ListingPages: 1, ThresholdPct: 10, TransactionShape: ShapeList},
		},
		{
			name: "upper bounds",
			in:   AnalysisRequest{ListingPages: 50, TransactionPages: 21, ThresholdPct: 80, TransactionShape: ShapeSearch},
			want: AnalysisRequest{ListingPages: 10, TransactionPages: 20, ThresholdPct: 50, TransactionShape: ShapeSearch},
		},
		{
			name: "lower bounds",
			in:   AnalysisRequest{ListingPages: -3, TransactionPages: -1, ThresholdPct: 0.5},
			want: AnalysisRequest{ListingPages: 1, TransactionPages: 1, ThresholdPct: 1, TransactionShape: ShapeList},
		},
	}
	for _, c := range cases {
		got := c.in
		got.Clamp(DefaultLimits)
		if got.ListingPages != c.want.ListingPages || got.TransactionPages != c.want.TransactionPages ||
			got.ThresholdPct != c.want.ThresholdPct || got.TransactionShape != c.want.TransactionShape {
			t.Fatalf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestClamp_Bounds(t *testing.T) {
	r := AnalysisRequest{Bounds: FilterBounds{
		BedMin:  ptr(math.NaN()),
		BedMax:  ptr(3),
		SizeMin: ptr(-1),
		SizeMax: ptr(math.Inf(1)),
	}}
	r.Clamp(DefaultLimits)

	if r.Bounds.BedMin != nil || r.Bounds.SizeMin != nil || r.Bounds.SizeMax != nil {
		t.Fatalf("expected invalid bounds dropped, got %+v", r.Bounds)
	}
	if r.Bounds.BedMax == nil || *r.Bounds.BedMax != 3 {
		t.Fatalf("expected bed max 3 kept")
	}
	if !r.Bounds.Any() {
		t.Fatalf("expected an active bound")
	}
}
