package models

// TransactionShape selects which payload layout a transactions page uses.
type TransactionShape string

const (
	// ShapeList is the transactions browse page: props.pageProps.list.
	ShapeList TransactionShape = "list"
	// ShapeSearch is the transactions search page:
	// props.pageProps.transactions.transactions_list.transactions.
	ShapeSearch TransactionShape = "search"
)

// Limits bounds what a caller may ask of one run.
type Limits struct {
	MaxListingPages     int     `yaml:"max_listing_pages"`
	MaxTransactionPages int     `yaml:"max_transaction_pages"`
	DefaultThresholdPct float64 `yaml:"default_threshold_pct"`
	MinThresholdPct     float64 `yaml:"min_threshold_pct"`
	MaxThresholdPct     float64 `yaml:"max_threshold_pct"`
}

// DefaultLimits mirrors the bounds the web form has always enforced.
var DefaultLimits = Limits{
	MaxListingPages:     10,
	MaxTransactionPages: 20,
	DefaultThresholdPct: 10,
	MinThresholdPct:     1,
	MaxThresholdPct:     50,
}

// AnalysisRequest is the full parameter set of one pipeline run. Every URL and
// limit is explicit; nothing is read from process-wide state.
type AnalysisRequest struct {
	ListingURL     string `json:"listing_url"`
	ListingPages   int    `json:"listing_pages"`
	TransactionURL string `json:"transaction_url"`
	// TransactionPages of 0 means every page the source reports.
	TransactionPages int              `json:"transaction_pages"`
	TransactionShape TransactionShape `json:"transaction_shape"`
	ThresholdPct     float64          `json:"threshold_pct"`
	Bounds           FilterBounds     `json:"bounds"`
}

// Clamp pulls every numeric parameter into the allowed range. A zero threshold
// means "not given" and becomes the default. Zero transaction pages means all
// pages; any other value, negative included, is clamped to [1, max].
func (r *AnalysisRequest) Clamp(l Limits) {
	r.ListingPages = clampInt(r.ListingPages, 1, l.MaxListingPages)
	if r.TransactionPages != 0 {
		r.TransactionPages = clampInt(r.TransactionPages, 1, l.MaxTransactionPages)
	}
	if r.ThresholdPct == 0 {
		r.ThresholdPct = l.DefaultThresholdPct
	}
	if r.ThresholdPct < l.MinThresholdPct {
		r.ThresholdPct = l.MinThresholdPct
	}
	if r.ThresholdPct > l.MaxThresholdPct {
		r.ThresholdPct = l.MaxThresholdPct
	}
	if r.TransactionShape == "" {
		r.TransactionShape = ShapeList
	}
	r.Bounds = sanitizeBounds(r.Bounds)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

// sanitizeBounds drops bounds that are not finite non-negative numbers.
func sanitizeBounds(b FilterBounds) FilterBounds {
	keep := func(v *float64) *float64 {
		if !Active(v) || *v < 0 {
			return nil
		}
		return v
	}
	return FilterBounds{
		BedMin:  keep(b.BedMin),
		BedMax:  keep(b.BedMax),
		SizeMin: keep(b.SizeMin),
		SizeMax: keep(b.SizeMax),
	}
}
