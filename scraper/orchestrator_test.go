package scraper

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"pf_scrooper/models"
)

const (
	listingURL = "https://www.propertyfinder.ae/en/search?c=1&l=50"
	txURL      = "https://www.propertyfinder.ae/en/transactions/buy/dubai/dubai-marina"
)

// fakeSite serves fixtures by URL prefix and records every request.
type fakeSite struct {
	t        *testing.T
	listings string
	txs      string
	failOn   string
	requests []string
}

func (s *fakeSite) Fetch(_ context.Context, url string) (string, error) {
	s.requests = append(s.requests, url)
	if s.failOn != "" && url == s.failOn {
		return "", errBoom
	}
	switch {
	case strings.HasPrefix(url, listingURL):
		return s.listings, nil
	case strings.HasPrefix(url, txURL):
		return s.txs, nil
	}
	s.t.Fatalf("unexpected fetch %s", url)
	return "", nil
}

var errBoom = errors.New("connection reset")

func newFakeSite(t *testing.T) *fakeSite {
	return &fakeSite{
		t:        t,
		listings: loadFixture(t, "listings_page.html"),
		txs:      loadFixture(t, "tx_list_page.html"),
	}
}

func TestScrapeListings_Pages(t *testing.T) {
	site := newFakeSite(t)
	o := NewOrchestrator(site, origin)

	listings, err := o.ScrapeListings(context.Background(), listingURL, 2)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if len(listings) != 6 {
		t.Fatalf("expected 6 listings over 2 pages, got %d", len(listings))
	}
	want := []string{listingURL + "&page=1", listingURL + "&page=2"}
	if len(site.requests) != 2 || site.requests[0] != want[0] || site.requests[1] != want[1] {
		t.Fatalf("unexpected requests %v", site.requests)
	}
}

func TestFetchTransactions_PageLimit(t *testing.T) {
	cases := []struct {
		pages int
		want  int
	}{
		{0, 3},
		{5, 3},
		{2, 2},
		{1, 1},
	}
	for _, c := range cases {
		site := newFakeSite(t)
		o := NewOrchestrator(site, origin)

		txs, err := o.FetchTransactions(context.Background(), txURL, c.pages, models.ShapeList)
		if err != nil {
			t.Fatalf("pages %d: fetch failed: %v", c.pages, err)
		}
		if len(site.requests) != c.want {
			t.Fatalf("pages %d: expected %d requests, got %d", c.pages, c.want, len(site.requests))
		}
		if len(txs) != 3*c.want {
			t.Fatalf("pages %d: expected %d transactions, got %d", c.pages, 3*c.want, len(txs))
		}
		for i, url := range site.requests {
			if !strings.HasSuffix(url, "?page="+string(rune('1'+i))) {
				t.Fatalf("pages %d: request %d went to %s", c.pages, i, url)
			}
		}
	}
}

func TestFetchTransactions_SearchShapeSinglePage(t *testing.T) {
	site := newFakeSite(t)
	site.txs = loadFixture(t, "tx_search_page.html")
	o := NewOrchestrator(site, origin)

	txs, err := o.FetchTransactions(context.Background(), txURL, 0, models.ShapeSearch)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(site.requests) != 1 || len(txs) != 2 {
		t.Fatalf("expected 1 request and 2 transactions, got %d and %d", len(site.requests), len(txs))
	}
}

func TestRunAnalysis(t *testing.T) {
	site := newFakeSite(t)
	o := NewOrchestrator(site, origin)

	req := models.AnalysisRequest{
		ListingURL:       listingURL,
		ListingPages:     1,
		TransactionURL:   txURL,
		TransactionPages: 1,
		ThresholdPct:     10,
	}
	res, err := o.RunAnalysis(context.Background(), req)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	if len(res.Listings) != 2 {
		t.Fatalf("expected the unpriced listing to be dropped, got %d listings", len(res.Listings))
	}
	if res.Transactions.Count != 3 {
		t.Fatalf("expected 3 transactions, got %d", res.Transactions.Count)
	}
	if m := res.Transactions.MedianPricePerArea; m == nil || *m != 1100 {
		t.Fatalf("expected median 1100, got %v", m)
	}
	if res.Listings[0].Rating != models.RatingFair {
		t.Fatalf("expected 1200/sqft to be fair against 1100, got %s", res.Listings[0].Rating)
	}
	if res.Listings[1].Rating != models.RatingExpensive {
		t.Fatalf("expected the studio to be expensive, got %s", res.Listings[1].Rating)
	}

	run := res.Run
	if run == nil || run.ID == "" || run.Status != models.RunStatusCompleted || run.FinishedAt == nil {
		t.Fatalf("unexpected run bookkeeping %+v", run)
	}
	if run.ListingsFound != 3 || run.ListingsWithoutPrice != 1 {
		t.Fatalf("expected 3 found, 1 without price, got %d/%d", run.ListingsFound, run.ListingsWithoutPrice)
	}
	if run.TxPagesReported != 3 || run.TxPagesFetched != 1 {
		t.Fatalf("expected 3 reported, 1 fetched, got %d/%d", run.TxPagesReported, run.TxPagesFetched)
	}
}

func TestRunAnalysis_Bounds(t *testing.T) {
	site := newFakeSite(t)
	o := NewOrchestrator(site, origin)

	bedMax := 2.0
	req := models.AnalysisRequest{
		ListingURL:       listingURL,
		ListingPages:     1,
		TransactionURL:   txURL,
		TransactionPages: 1,
		ThresholdPct:     10,
		Bounds:           models.FilterBounds{BedMax: &bedMax},
	}
	res, err := o.RunAnalysis(context.Background(), req)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	if res.Transactions.Count != 2 {
		t.Fatalf("expected the 3 bed transaction to be filtered, got %d", res.Transactions.Count)
	}
	if m := res.Transactions.MedianPricePerArea; m == nil || *m != 1050 {
		t.Fatalf("expected median 1050, got %v", m)
	}
	if len(res.Listings) != 2 {
		t.Fatalf("expected studio and 2 bed listings to pass, got %d", len(res.Listings))
	}

	first := res.Listings[0]
	if first.Rating != models.RatingExpensive {
		t.Fatalf("expected expensive, got %s", first.Rating)
	}
	if first.DiffPctVsMedian == nil || math.Round(*first.DiffPctVsMedian*10)/10 != 14.3 {
		t.Fatalf("expected +14.3%%, got %v", first.DiffPctVsMedian)
	}
}

func TestRunAnalysis_FetchErrorAborts(t *testing.T) {
	site := newFakeSite(t)
	site.failOn = listingURL + "&page=2"
	o := NewOrchestrator(site, origin)

	req := models.AnalysisRequest{ListingURL: listingURL, ListingPages: 3, TransactionURL: txURL}
	res, err := o.RunAnalysis(context.Background(), req)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if res != nil {
		t.Fatalf("expected no partial result")
	}
	if !errors.Is(err, errBoom) || !strings.Contains(err.Error(), "listing page 2") {
		t.Fatalf("unexpected error %v", err)
	}
	if len(site.requests) != 2 {
		t.Fatalf("expected the run to stop after the failing page, got %d requests", len(site.requests))
	}
}

func TestRunAnalysis_TransactionFetchError(t *testing.T) {
	site := newFakeSite(t)
	site.failOn = txURL + "?page=3"
	o := NewOrchestrator(site, origin)

	req := models.AnalysisRequest{ListingURL: listingURL, ListingPages: 1, TransactionURL: txURL}
	_, err := o.RunAnalysis(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "transaction page 3") {
		t.Fatalf("expected a transaction page 3 error, got %v", err)
	}
}
