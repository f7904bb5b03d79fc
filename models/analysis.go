package models

// TransactionSummary is the benchmark computed from the filtered transactions.
type TransactionSummary struct {
	Count              int                 `json:"count"`
	MedianPricePerArea *float64            `json:"median_price_per_area"`
	MeanPricePerArea   *float64            `json:"mean_price_per_area"`
	Items              []TransactionRecord `json:"items"`
}

// AnalysisResult is what one pipeline run returns.
type AnalysisResult struct {
	Run          *AnalysisRun       `json:"run,omitempty"`
	Transactions TransactionSummary `json:"transactions"`
	Listings     []EvaluatedListing `json:"listings"`
}
