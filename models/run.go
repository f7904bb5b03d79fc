package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRun carries the bookkeeping of one pipeline invocation. It lives
// only as long as the request that created it.
type AnalysisRun struct {
	ID                   string     `json:"id"`
	StartedAt            time.Time  `json:"started_at"`
	FinishedAt           *time.Time `json:"finished_at,omitempty"`
	Status               RunStatus  `json:"status"`
	ListingPagesFetched  int        `json:"listing_pages_fetched"`
	TxPagesFetched       int        `json:"transaction_pages_fetched"`
	TxPagesReported      int        `json:"transaction_pages_reported"`
	ListingsFound        int        `json:"listings_found"`
	ListingsWithoutPrice int        `json:"listings_without_price"`
	TransactionsFound    int        `json:"transactions_found"`
}

// Finish stamps the run with its end time and final status.
func (r *AnalysisRun) Finish(status RunStatus) {
	now := time.Now()
	r.FinishedAt = &now
	r.Status = status
}

// Duration is zero while the run is still going.
func (r *AnalysisRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
