package services

import (
	"sort"
	"strconv"

	"pf_scrooper/models"
)

// PricePerArea prefers a positive published figure, then price/size when
// both are known and size is positive. Otherwise the value is unknown.
func PricePerArea(direct, price, size *float64) *float64 {
	if direct != nil && isFinite(*direct) && *direct > 0 {
		v := *direct
		return &v
	}
	if price != nil && size != nil && isFinite(*price) && isFinite(*size) && *size > 0 {
		v := *price / *size
		return &v
	}
	return nil
}

// TransactionPricePerArea resolves PricePerArea from a transaction's fields.
func TransactionPricePerArea(t models.TransactionRecord) *float64 {
	return PricePerArea(t.ReportedPricePerArea, t.Price, numberPtr(t.SizeRaw))
}

// ListingPricePerArea resolves PricePerArea for a listing. Listings carry no
// published figure, so this is always price/size.
func ListingPricePerArea(l models.ListingRecord) *float64 {
	return PricePerArea(nil, l.Price.Value, l.Size.Value)
}

// Median of the finite values; nil for none.
func Median(values []float64) *float64 {
	arr := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			arr = append(arr, v)
		}
	}
	if len(arr) == 0 {
		return nil
	}
	sort.Float64s(arr)

	mid := len(arr) / 2
	m := arr[mid]
	if len(arr)%2 == 0 {
		m = (arr[mid-1] + arr[mid]) / 2
	}
	return &m
}

// Mean of the finite positive values; nil for none.
func Mean(values []float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if isFinite(v) && v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

// Benchmark annotates each transaction with its price per area and summarizes
// the usable values. The input slice is not modified.
func Benchmark(transactions []models.TransactionRecord) models.TransactionSummary {
	items := make([]models.TransactionRecord, len(transactions))
	var values []float64

	for i, t := range transactions {
		t.PricePerArea = TransactionPricePerArea(t)
		if t.PricePerArea != nil && *t.PricePerArea > 0 {
			values = append(values, *t.PricePerArea)
		}
		items[i] = t
	}

	return models.TransactionSummary{
		Count:              len(transactions),
		MedianPricePerArea: Median(values),
		MeanPricePerArea:   Mean(values),
		Items:              items,
	}
}

// EvaluateListing rates a listing against the benchmark median. The listing
// is cheap when its price per area is at least thresholdPct percent below the
// median, expensive when at least that much above, fair in between. The
// deviation from the mean is reported alongside but never affects the rating.
func EvaluateListing(l models.ListingRecord, median, mean *float64, thresholdPct float64) models.EvaluatedListing {
	ev := models.EvaluatedListing{
		ListingRecord: l,
		PricePerArea:  ListingPricePerArea(l),
		Rating:        models.RatingUnrated,
	}

	p := ev.PricePerArea
	if p == nil || !usable(median) {
		return ev
	}

	d := (*p - *median) / *median
	switch {
	case d <= -thresholdPct/100:
		ev.Rating = models.RatingCheap
	case d >= thresholdPct/100:
		ev.Rating = models.RatingExpensive
	default:
		ev.Rating = models.RatingFair
	}

	ev.DiffPctVsMedian = models.Float64Ptr(d * 100)
	if usable(mean) {
		ev.DiffPctVsMean = models.Float64Ptr((*p - *mean) / *mean * 100)
	}
	return ev
}

// Analyze benchmarks the transactions and evaluates every listing against
// the result. Callers apply bounds beforehand.
func Analyze(listings []models.ListingRecord, transactions []models.TransactionRecord, thresholdPct float64) *models.AnalysisResult {
	summary := Benchmark(transactions)

	evaluated := make([]models.EvaluatedListing, 0, len(listings))
	for _, l := range listings {
		evaluated = append(evaluated, EvaluateListing(l, summary.MedianPricePerArea, summary.MeanPricePerArea, thresholdPct))
	}

	return &models.AnalysisResult{
		Transactions: summary,
		Listings:     evaluated,
	}
}

func usable(v *float64) bool {
	return v != nil && isFinite(*v) && *v != 0
}

func numberPtr(raw string) *float64 {
	n, ok := ToNumber(raw)
	if !ok {
		return nil
	}
	return &n
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
