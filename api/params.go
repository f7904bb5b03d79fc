package api

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"pf_scrooper/config"
	"pf_scrooper/models"
	"pf_scrooper/services"
)

// number reads key as a finite number. Body values may be JSON numbers or
// numeric strings; empty, null and anything unparseable count as absent.
func number(body gjson.Result, key string) (float64, bool) {
	r := body.Get(gjson.Escape(key))
	switch r.Type {
	case gjson.Number:
		if math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
			return 0, false
		}
		return r.Num, true
	case gjson.String:
		return services.ToNumber(r.Str)
	default:
		return 0, false
	}
}

// pages reads key as a page count. A given value saturates into [1, max]
// and loses any fraction; 0 means the key was absent or not a number.
func pages(body gjson.Result, key string, max int) int {
	n, ok := number(body, key)
	if !ok {
		return 0
	}
	return int(math.Max(1, math.Min(float64(max), n)))
}

func optional(body gjson.Result, key string) *float64 {
	n, ok := number(body, key)
	if !ok {
		return nil
	}
	return &n
}

func text(body gjson.Result, key, fallback string) string {
	r := body.Get(gjson.Escape(key))
	if r.Type != gjson.String {
		return fallback
	}
	if s := strings.TrimSpace(r.Str); s != "" {
		return s
	}
	return fallback
}

type scrapeParams struct {
	URL   string
	Pages int
}

func parseScrape(body gjson.Result, site *config.SiteConfig) scrapeParams {
	req := models.AnalysisRequest{ListingPages: pages(body, "pages", site.Limits.MaxListingPages)}
	req.Clamp(site.Limits)
	return scrapeParams{
		URL:   text(body, "url", site.DefaultListingURL),
		Pages: req.ListingPages,
	}
}

func parseAnalysis(body gjson.Result, site *config.SiteConfig) models.AnalysisRequest {
	shape := site.TransactionShape
	switch models.TransactionShape(text(body, "txShape", "")) {
	case models.ShapeList:
		shape = models.ShapeList
	case models.ShapeSearch:
		shape = models.ShapeSearch
	}

	req := models.AnalysisRequest{
		ListingURL:       text(body, "listingUrl", site.DefaultListingURL),
		ListingPages:     pages(body, "listingPages", site.Limits.MaxListingPages),
		TransactionURL:   text(body, "txUrl", site.DefaultTransactionURL),
		TransactionPages: pages(body, "txPages", site.Limits.MaxTransactionPages),
		TransactionShape: shape,
		Bounds: models.FilterBounds{
			BedMin:  optional(body, "bedMin"),
			BedMax:  optional(body, "bedMax"),
			SizeMin: optional(body, "sizeMin"),
			SizeMax: optional(body, "sizeMax"),
		},
	}
	if t, ok := number(body, "thresholdPct"); ok {
		req.ThresholdPct = t
	}
	req.Clamp(site.Limits)
	return req
}
