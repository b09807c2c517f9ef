package http

import (
	"fmt"
	"net/http"

	"budgebuddy/internal/core"
)

// Chart endpoints render the current snapshot as PNG images. Renders
// are cached; the cache is purged whenever a new snapshot lands.

func (s *Server) handleExpenseChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "expenses", func(snap core.Snapshot) ([]byte, error) {
		return s.charts.CategoryBreakdown("Expenses by Category", snap.ExpenseByCategory)
	})
}

func (s *Server) handleIncomeChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "income", func(snap core.Snapshot) ([]byte, error) {
		return s.charts.CategoryBreakdown("Income by Category", snap.IncomeByCategory)
	})
}

func (s *Server) handleOverviewChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, "overview", func(snap core.Snapshot) ([]byte, error) {
		return s.charts.MonthlyOverview(snap)
	})
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, name string, render func(core.Snapshot) ([]byte, error)) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	snap, ok := s.ledger.Snapshot()
	if !ok {
		respondError(w, r, http.StatusServiceUnavailable, "snapshot not yet computed")
		return
	}

	key := fmt.Sprintf("%s:%d-%d", name, snap.Year, snap.Month)
	png, ok := s.chartCache.Get(key)
	if !ok {
		var err error
		png, err = render(snap)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		if png != nil {
			s.chartCache.Set(key, png)
		}
	}

	if png == nil {
		respondError(w, r, http.StatusNotFound, "no data to chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}
