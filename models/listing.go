package models

// Price is the asking price block of a listing. Value is nil when the source
// carried no usable number.
type Price struct {
	Value    *float64 `json:"value"`
	Currency string   `json:"currency"`
	Period   string   `json:"period"`
}

// Size is the floor area block of a listing.
type Size struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// ListingRecord is one advertised property, flattened from the search payload.
// Bedrooms and Bathrooms keep the source text ("studio", "3", "7+") so the
// filter can apply its own coercion.
type ListingRecord struct {
	SourceURL    string `json:"url"`
	PropertyType string `json:"property_type"`
	Price        Price  `json:"price"`
	Title        string `json:"title"`
	LocationName string `json:"location_full_name"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
	Size         Size   `json:"size"`
	ListedDate   string `json:"listed_date"`
	Reference    string `json:"reference"`
	ListingID    string `json:"listing_id"`
}

// HasPositivePrice reports whether the listing carries a real asking price.
// Promoted cards and placeholders in the search grid come through without one.
func (l *ListingRecord) HasPositivePrice() bool {
	return l.Price.Value != nil && *l.Price.Value > 0
}

// Rating classifies a listing's price per area against the benchmark.
type Rating string

const (
	RatingCheap     Rating = "cheap"
	RatingFair      Rating = "fair"
	RatingExpensive Rating = "expensive"
	RatingUnrated   Rating = "unrated"
)

// EvaluatedListing is a listing annotated with its price per area and rating.
type EvaluatedListing struct {
	ListingRecord
	PricePerArea    *float64 `json:"price_per_area"`
	Rating          Rating   `json:"rating"`
	DiffPctVsMedian *float64 `json:"diff_pct_vs_median"`
	DiffPctVsMean   *float64 `json:"diff_pct_vs_mean"`
}

func Float64Ptr(v float64) *float64 {
	return &v
}
