package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"

	"pf_scrooper/export"
	"pf_scrooper/models"
)

const (
	maxBodyBytes = 1 << 20
	failMessage  = "An error occurred. Please try again."
	xlsxType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// readBody parses the request body as JSON. An empty body is an empty
// object; anything else that is not valid JSON is rejected.
func readBody(w http.ResponseWriter, r *http.Request) (gjson.Result, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return gjson.Result{}, false
	}
	if len(data) == 0 {
		return gjson.Parse("{}"), true
	}
	if !gjson.ValidBytes(data) {
		http.Error(w, "request body must be JSON", http.StatusBadRequest)
		return gjson.Result{}, false
	}
	return gjson.ParseBytes(data), true
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	p := parseScrape(body, s.site)

	listings, err := s.orchestrator.ScrapeListings(r.Context(), p.URL, p.Pages)
	if err != nil {
		fail(w, "scrape", err)
		return
	}
	csv, err := export.ListingsCSV(listings)
	if err != nil {
		fail(w, "scrape", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="propertyfinder.csv"`)
	w.Header().Set("x-rows", strconv.Itoa(len(listings)))
	if _, err := io.WriteString(w, csv); err != nil {
		warnWrite("scrape", err)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	req := parseAnalysis(body, s.site)

	result, err := s.orchestrator.RunAnalysis(r.Context(), req)
	if err != nil {
		fail(w, "analyze", err)
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		fail(w, "analyze", err)
		return
	}

	setRunID(w, result)
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		warnWrite("analyze", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	req := parseAnalysis(body, s.site)

	result, err := s.orchestrator.RunAnalysis(r.Context(), req)
	if err != nil {
		fail(w, "export", err)
		return
	}
	data, err := export.Workbook(result, req)
	if err != nil {
		fail(w, "export", err)
		return
	}

	setRunID(w, result)
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", `attachment; filename="propertyfinder_analysis.xlsx"`)
	if _, err := w.Write(data); err != nil {
		warnWrite("export", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "ok")
}

func setRunID(w http.ResponseWriter, result *models.AnalysisResult) {
	if result.Run != nil {
		w.Header().Set("X-Run-ID", result.Run.ID)
	}
}

// warnWrite records a response that was cut short after headers went out.
func warnWrite(op string, err error) {
	log.Printf("[%s] %s: write response: %v", models.LogLevelWarn, op, err)
}

// fail logs the cause and answers with a generic message.
func fail(w http.ResponseWriter, op string, err error) {
	log.Printf("[%s] %s: %v", models.LogLevelError, op, err)
	http.Error(w, failMessage, http.StatusInternalServerError)
}
