package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"budgebuddy/internal/core"
)

type categoryPayload struct {
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	Percentage int    `json:"percentage"`
}

type snapshotPayload struct {
	Month             int               `json:"month"`
	Year              int               `json:"year"`
	TotalIncome       string            `json:"total_income"`
	TotalExpense      string            `json:"total_expense"`
	MonthlyIncome     string            `json:"monthly_income"`
	MonthlyExpense    string            `json:"monthly_expense"`
	MonthlyBudget     string            `json:"monthly_budget"`
	BudgetStatus      string            `json:"budget_status"`
	ProgressPercent   int               `json:"progress_percent"`
	Overage           string            `json:"overage"`
	ExpenseByCategory []categoryPayload `json:"expense_by_category"`
	IncomeByCategory  []categoryPayload `json:"income_by_category"`
}

func toSnapshotPayload(snap core.Snapshot) snapshotPayload {
	categories := func(in []core.CategorySummary) []categoryPayload {
		out := make([]categoryPayload, 0, len(in))
		for _, c := range in {
			out = append(out, categoryPayload{
				Category:   c.Category,
				Amount:     c.Amount.String(),
				Percentage: c.Percentage,
			})
		}
		return out
	}

	return snapshotPayload{
		Month:             snap.Month,
		Year:              snap.Year,
		TotalIncome:       snap.TotalIncome.String(),
		TotalExpense:      snap.TotalExpense.String(),
		MonthlyIncome:     snap.MonthlyIncome.String(),
		MonthlyExpense:    snap.MonthlyExpense.String(),
		MonthlyBudget:     snap.MonthlyBudget.String(),
		BudgetStatus:      string(snap.Budget.Status),
		ProgressPercent:   snap.Budget.ProgressPercent,
		Overage:           snap.Budget.Overage.String(),
		ExpenseByCategory: categories(snap.ExpenseByCategory),
		IncomeByCategory:  categories(snap.IncomeByCategory),
	}
}

// handleSnapshot returns the latest aggregate view. 503 until the
// first aggregation completes.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	snap, ok := s.ledger.Snapshot()
	if !ok {
		respondError(w, r, http.StatusServiceUnavailable, "snapshot not yet computed")
		return
	}
	respondJSON(w, http.StatusOK, toSnapshotPayload(snap))
}

type budgetPayload struct {
	Amount string `json:"amount"`
}

// handleBudget sets the overall budget for the current month.
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r)
		return
	}

	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, "invalid budget amount")
		return
	}

	if err := s.ledger.SetBudget(r.Context(), amount); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

type preferencesPayload struct {
	Currency             *string `json:"currency,omitempty"`
	AlertThreshold       *int    `json:"alert_threshold,omitempty"`
	DailyReminderEnabled *bool   `json:"daily_reminder_enabled,omitempty"`
	DailyReminderTime    *string `json:"daily_reminder_time,omitempty"`
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getPreferences(w, r)
	case http.MethodPut:
		s.setPreferences(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	currency, err := s.prefs.Currency(ctx)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	threshold, err := s.prefs.AlertThreshold(ctx)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	reminderEnabled, err := s.prefs.DailyReminderEnabled(ctx)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	reminderTime, err := s.prefs.DailyReminderTime(ctx)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, preferencesPayload{
		Currency:             &currency,
		AlertThreshold:       &threshold,
		DailyReminderEnabled: &reminderEnabled,
		DailyReminderTime:    &reminderTime,
	})
}

// setPreferences applies only the fields present in the request body.
func (s *Server) setPreferences(w http.ResponseWriter, r *http.Request) {
	var payload preferencesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	if payload.Currency != nil {
		if err := s.prefs.SetCurrency(ctx, *payload.Currency); err != nil {
			respondError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	if payload.AlertThreshold != nil {
		if err := s.prefs.SetAlertThreshold(ctx, *payload.AlertThreshold); err != nil {
			respondError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	if payload.DailyReminderEnabled != nil {
		if err := s.prefs.SetDailyReminderEnabled(ctx, *payload.DailyReminderEnabled); err != nil {
			respondDomainError(w, r, err)
			return
		}
	}
	if payload.DailyReminderTime != nil {
		if err := s.prefs.SetDailyReminderTime(ctx, *payload.DailyReminderTime); err != nil {
			respondError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	s.getPreferences(w, r)
}
