package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pf_scrooper/api"
	"pf_scrooper/config"
	"pf_scrooper/export"
	"pf_scrooper/httputil"
	"pf_scrooper/logging"
	"pf_scrooper/models"
	"pf_scrooper/scraper"
	"pf_scrooper/services"
)

var (
	scrapeOnce  = flag.Bool("scrape", false, "Scrape listings once, write CSV and exit")
	analyzeOnce = flag.Bool("analyze", false, "Run one analysis, print the table and exit")

	listingURL = flag.String("url", "", "Listing search URL (default from site config)")
	pages      = flag.Int("pages", 1, "Listing pages to fetch")
	txURL      = flag.String("tx-url", "", "Transactions URL (default from site config)")
	txPages    = flag.Int("tx-pages", 0, "Transaction pages to fetch, 0 for all")
	txShape    = flag.String("tx-shape", "", "Transactions page layout: list or search")
	threshold  = flag.Float64("threshold", 0, "Rating threshold in percent (default from site config)")
	bedMin     = flag.String("bed-min", "", "Minimum bedrooms, studio counts as 0")
	bedMax     = flag.String("bed-max", "", "Maximum bedrooms")
	sizeMin    = flag.String("size-min", "", "Minimum size")
	sizeMax    = flag.String("size-max", "", "Maximum size")

	outPath  = flag.String("out", "propertyfinder.csv", "CSV output path for -scrape")
	xlsxPath = flag.String("xlsx", "", "Also write the analysis workbook here")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath, cfg.LogMaxBytes)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Printf("Site: %s (%s), rate hint %dms", cfg.Site.Name, cfg.Site.Origin, cfg.Fetch.RateLimitMS)

	fetcher := httputil.NewFetcher(&cfg.Fetch)
	orchestrator := scraper.NewOrchestrator(fetcher, cfg.Site.Origin)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *scrapeOnce:
		if err := runScrape(ctx, cfg, orchestrator); err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
	case *analyzeOnce:
		if err := runAnalyze(ctx, cfg, orchestrator); err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
	default:
		serve(ctx, cfg, orchestrator)
	}
}

func serve(ctx context.Context, cfg *config.Config, orchestrator *scraper.Orchestrator) {
	srv := api.NewServer(cfg, orchestrator)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		log.Println("Goodbye!")
	}
}

func runScrape(ctx context.Context, cfg *config.Config, orchestrator *scraper.Orchestrator) error {
	req := models.AnalysisRequest{ListingPages: *pages}
	req.Clamp(cfg.Site.Limits)

	listings, err := orchestrator.ScrapeListings(ctx, orDefault(*listingURL, cfg.Site.DefaultListingURL), req.ListingPages)
	if err != nil {
		return err
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteListingsCSV(f, listings); err != nil {
		return err
	}
	log.Printf("Wrote %d listings to %s", len(listings), *outPath)
	return nil
}

func runAnalyze(ctx context.Context, cfg *config.Config, orchestrator *scraper.Orchestrator) error {
	shape := models.TransactionShape(*txShape)
	if shape == "" {
		shape = cfg.Site.TransactionShape
	}

	req := models.AnalysisRequest{
		ListingURL:       orDefault(*listingURL, cfg.Site.DefaultListingURL),
		ListingPages:     *pages,
		TransactionURL:   orDefault(*txURL, cfg.Site.DefaultTransactionURL),
		TransactionPages: *txPages,
		TransactionShape: shape,
		ThresholdPct:     *threshold,
		Bounds: models.FilterBounds{
			BedMin:  boundFlag(*bedMin, services.NormalizeBeds),
			BedMax:  boundFlag(*bedMax, services.NormalizeBeds),
			SizeMin: boundFlag(*sizeMin, services.ToNumber),
			SizeMax: boundFlag(*sizeMax, services.ToNumber),
		},
	}
	req.Clamp(cfg.Site.Limits)

	result, err := orchestrator.RunAnalysis(ctx, req)
	if err != nil {
		return err
	}

	if err := export.WriteTable(os.Stdout, result); err != nil {
		return err
	}

	if *xlsxPath != "" {
		data, err := export.Workbook(result, req)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*xlsxPath, data, 0644); err != nil {
			return err
		}
		log.Printf("Wrote workbook to %s", *xlsxPath)
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func boundFlag(raw string, parse func(string) (float64, bool)) *float64 {
	n, ok := parse(raw)
	if !ok {
		return nil
	}
	return &n
}
