// Package http exposes the ledger over a small JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budgebuddy/internal/cache"
	"budgebuddy/internal/charts"
	"budgebuddy/internal/export"
	"budgebuddy/internal/log"
	"budgebuddy/internal/prefs"
	"budgebuddy/internal/services"
)

// Server wires the ledger service, preferences, backups and chart
// rendering behind an HTTP mux.
type Server struct {
	http.Server

	ledger    *services.LedgerService
	prefs     *prefs.Store
	backup    *export.Service
	charts    *charts.Generator
	exportDir string
	logger    *log.Logger

	// Rendered chart PNGs are cached until the snapshot changes.
	chartCache *cache.Cache[[]byte]

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
	stopInvalid  chan struct{}
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, preferences *prefs.Store, backup *export.Service, exportDir string, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      log.Middleware(logger)(securityHeaders(mux)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		ledger:      ledger,
		prefs:       preferences,
		backup:      backup,
		charts:      charts.NewGenerator(),
		exportDir:   exportDir,
		logger:      logger.WithComponent(log.ComponentHTTP),
		chartCache:  cache.New[[]byte](16, 5*time.Minute),
		rateLimiter: newRateLimiter(60),
		stopInvalid: make(chan struct{}),
	}

	// Any new snapshot makes cached chart renders stale.
	go s.invalidateOnSnapshot()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/transactions", s.limited(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.limited(s.handleTransactionByID))
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/budget", s.limited(s.handleBudget))
	mux.HandleFunc("/api/preferences", s.limited(s.handlePreferences))
	mux.HandleFunc("/api/charts/expenses.png", s.handleExpenseChart)
	mux.HandleFunc("/api/charts/income.png", s.handleIncomeChart)
	mux.HandleFunc("/api/charts/overview.png", s.handleOverviewChart)
	mux.HandleFunc("/api/export", s.limited(s.handleExport))
	mux.HandleFunc("/api/import", s.limited(s.handleImport))

	return s
}

func (s *Server) invalidateOnSnapshot() {
	ticks := s.ledger.Subscribe()
	for {
		select {
		case <-ticks:
			s.chartCache.Purge()
		case <-s.stopInvalid:
			return
		}
	}
}

// Shutdown stops background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopInvalid)
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady reports ready once the first aggregation has completed.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.ledger.Snapshot(); !ok {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// limited applies per-client rate limiting to mutating endpoints.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}
