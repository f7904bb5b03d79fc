package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"pf_scrooper/config"
	"pf_scrooper/scraper"
)

// Server exposes the pipeline over HTTP.
type Server struct {
	site         *config.SiteConfig
	orchestrator *scraper.Orchestrator
	router       *mux.Router
	httpServer   *http.Server
}

func NewServer(cfg *config.Config, orchestrator *scraper.Orchestrator) *Server {
	s := &Server{
		site:         cfg.Site,
		orchestrator: orchestrator,
		router:       mux.NewRouter(),
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/api/scrape", s.handleScrape).Methods(http.MethodPost)
	s.router.HandleFunc("/api/analyze", s.handleAnalyze).Methods(http.MethodPost)
	s.router.HandleFunc("/api/export", s.handleExport).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. A clean shutdown is not an
// error.
func (s *Server) ListenAndServe() error {
	log.Printf("Server running at http://localhost%s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown waits for in-flight runs until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
