package scraper

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pf_scrooper/models"
	"pf_scrooper/services"
)

// Orchestrator runs the fetch, extract, normalize, filter and rate pipeline.
// It holds no per-run state, so one value can serve concurrent callers; the
// pages of a single run are always fetched one after another.
type Orchestrator struct {
	fetcher Fetcher
	origin  string
}

// NewOrchestrator wires a fetcher to the site origin used to complete
// relative listing links.
func NewOrchestrator(fetcher Fetcher, origin string) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		origin:  origin,
	}
}

// ScrapeListings fetches pages 1..pages of a search results URL and returns
// every listing found, in page order.
func (o *Orchestrator) ScrapeListings(ctx context.Context, url string, pages int) ([]models.ListingRecord, error) {
	run := newRun()
	return o.scrapeListings(ctx, run, url, pages)
}

// FetchTransactions fetches transaction pages. The first page tells how many
// pages exist; pages of 0 means all of them, otherwise at most pages are read.
func (o *Orchestrator) FetchTransactions(ctx context.Context, url string, pages int, shape models.TransactionShape) ([]models.TransactionRecord, error) {
	run := newRun()
	return o.fetchTransactions(ctx, run, url, pages, shape)
}

// RunAnalysis performs one complete run for req. req should already be
// clamped. Any fetch failure aborts the run and nothing partial is returned.
func (o *Orchestrator) RunAnalysis(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	run := newRun()
	o.log(run, models.LogLevelInfo, fmt.Sprintf("Starting analysis: %d listing pages, transaction pages %d (0 = all), threshold %.1f%%",
		req.ListingPages, req.TransactionPages, req.ThresholdPct))

	result, err := o.runAnalysis(ctx, run, req)
	if err != nil {
		run.Finish(models.RunStatusFailed)
		o.log(run, models.LogLevelError, fmt.Sprintf("Analysis failed after %s: %v", run.Duration().Round(time.Millisecond), err))
		return nil, err
	}

	run.Finish(models.RunStatusCompleted)
	result.Run = run
	o.log(run, models.LogLevelInfo, fmt.Sprintf("Completed in %s: %d transactions, %d listings rated",
		run.Duration().Round(time.Millisecond), result.Transactions.Count, len(result.Listings)))
	return result, nil
}

func (o *Orchestrator) runAnalysis(ctx context.Context, run *models.AnalysisRun, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	listings, err := o.scrapeListings(ctx, run, req.ListingURL, req.ListingPages)
	if err != nil {
		return nil, err
	}

	priced := make([]models.ListingRecord, 0, len(listings))
	for _, l := range listings {
		if l.HasPositivePrice() {
			priced = append(priced, l)
		}
	}
	run.ListingsWithoutPrice = len(listings) - len(priced)

	txs, err := o.fetchTransactions(ctx, run, req.TransactionURL, req.TransactionPages, req.TransactionShape)
	if err != nil {
		return nil, err
	}

	priced = services.ApplyBounds(priced, req.Bounds, services.ListingBeds, services.ListingSize)
	txs = services.ApplyBounds(txs, req.Bounds, services.TransactionBeds, services.TransactionSize)
	if req.Bounds.Any() {
		o.log(run, models.LogLevelInfo, fmt.Sprintf("After bounds: %d listings, %d transactions", len(priced), len(txs)))
	}

	return services.Analyze(priced, txs, req.ThresholdPct), nil
}

func (o *Orchestrator) scrapeListings(ctx context.Context, run *models.AnalysisRun, url string, pages int) ([]models.ListingRecord, error) {
	var all []models.ListingRecord

	for p := 1; p <= pages; p++ {
		pageURL := BuildPageURL(url, p)
		o.log(run, models.LogLevelInfo, fmt.Sprintf("Fetching listing page %d: %s", p, pageURL))

		markup, err := o.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", p, err)
		}
		run.ListingPagesFetched++

		raw := ExtractListings(markup)
		for _, r := range raw {
			all = append(all, NormalizeListing(r, o.origin))
		}
		o.log(run, models.LogLevelInfo, fmt.Sprintf("Listing page %d: %d listings", p, len(raw)))
	}

	run.ListingsFound = len(all)
	return all, nil
}

func (o *Orchestrator) fetchTransactions(ctx context.Context, run *models.AnalysisRun, url string, pages int, shape models.TransactionShape) ([]models.TransactionRecord, error) {
	var all []models.TransactionRecord

	first, err := o.transactionPage(ctx, run, url, 1, shape)
	if err != nil {
		return nil, err
	}
	all = append(all, first.records...)

	limit := first.total
	if pages > 0 && pages < limit {
		limit = pages
	}
	run.TxPagesReported = first.total
	o.log(run, models.LogLevelInfo, fmt.Sprintf("Transactions report %d pages, reading %d", first.total, limit))

	for p := 2; p <= limit; p++ {
		page, err := o.transactionPage(ctx, run, url, p, shape)
		if err != nil {
			return nil, err
		}
		all = append(all, page.records...)
	}

	run.TransactionsFound = len(all)
	return all, nil
}

type txPage struct {
	records []models.TransactionRecord
	total   int
}

func (o *Orchestrator) transactionPage(ctx context.Context, run *models.AnalysisRun, url string, p int, shape models.TransactionShape) (txPage, error) {
	pageURL := BuildPageURL(url, p)
	o.log(run, models.LogLevelInfo, fmt.Sprintf("Fetching transaction page %d: %s", p, pageURL))

	markup, err := o.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return txPage{}, fmt.Errorf("transaction page %d: %w", p, err)
	}
	run.TxPagesFetched++

	extracted := ExtractTransactions(markup, shape)
	records := make([]models.TransactionRecord, 0, len(extracted.Items))
	for _, r := range extracted.Items {
		records = append(records, NormalizeTransaction(r))
	}
	return txPage{records: records, total: extracted.TotalPages}, nil
}

func newRun() *models.AnalysisRun {
	return &models.AnalysisRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
}

func (o *Orchestrator) log(run *models.AnalysisRun, level models.LogLevel, message string) {
	log.Printf("[%s] %s: %s", level, run.ID, message)
}
