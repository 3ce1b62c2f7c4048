// Hackdaybot - Hack Day Project Roster Bot for Reddit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hackdaybot

// Package api serves the bot's read-only HTTP surface: health, Prometheus
// metrics, and a JSON view of the current project roster. There is no write
// path; all mutation flows through the comment stream.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hackdaybot/internal/roster"
)

// RosterReader provides the roster snapshot served by /api/v1/projects.
type RosterReader interface {
	Snapshot() []roster.ProjectSnapshot
}

// SeenCounter reports the size of the seen-comment set for /api/v1/status.
type SeenCounter interface {
	Len() int
}

// Config holds the router's settings.
type Config struct {
	// Subreddit is echoed in the status payload.
	Subreddit string

	// RateLimitReqs / RateLimitWindow cap requests per client IP.
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// Server builds the HTTP handler for the read-only API.
type Server struct {
	cfg     Config
	ledger  RosterReader
	seen    SeenCounter
	started time.Time
	log     zerolog.Logger
}

// NewServer creates a Server. Uptime is measured from this call.
func NewServer(cfg Config, ledger RosterReader, tracker SeenCounter, log zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		ledger:  ledger,
		seen:    tracker,
		started: time.Now(),
		log:     log,
	}
}

// Router assembles the chi router with recovery and per-IP rate limiting.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.cfg.RateLimitReqs > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitReqs, s.cfg.RateLimitWindow))
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/projects", s.handleProjects)
		r.Get("/status", s.handleStatus)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleProjects(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.ledger.Snapshot())
}

// statusResponse is the /api/v1/status payload.
type statusResponse struct {
	Subreddit     string  `json:"subreddit"`
	SeenComments  int     `json:"seen_comments"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, statusResponse{
		Subreddit:     s.cfg.Subreddit,
		SeenComments:  s.seen.Len(),
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}
