package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEvaluateBudget(t *testing.T) {
	tests := []struct {
		name        string
		expense     string
		budget      string
		threshold   int
		wantStatus  BudgetStatus
		wantPercent int
		wantOverage string
	}{
		{"no budget set", "150", "0", 80, StatusNoBudget, 0, "0"},
		{"negative budget treated as unset", "150", "-10", 80, StatusNoBudget, 0, "0"},
		{"well under budget", "10", "100", 80, StatusOK, 10, "0"},
		{"just under threshold", "79.99", "100", 80, StatusOK, 79, "0"},
		{"at threshold", "80", "100", 80, StatusWarning, 80, "0"},
		{"above threshold", "95", "100", 80, StatusWarning, 95, "0"},
		{"exactly at budget is not exceeded", "100", "100", 80, StatusWarning, 100, "0"},
		{"exceeded", "150", "100", 80, StatusExceeded, 100, "50"},
		{"zero threshold warns immediately", "1", "100", 0, StatusWarning, 1, "0"},
		{"zero expense zero threshold", "0", "100", 0, StatusWarning, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateBudget(d(tt.expense), d(tt.budget), tt.threshold)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantPercent, got.ProgressPercent)
			assert.True(t, got.Overage.Equal(d(tt.wantOverage)), "overage = %s", got.Overage)
		})
	}
}

// Increasing expense at fixed budget and threshold must never move the
// status to a lower severity.
func TestEvaluateBudget_Monotonic(t *testing.T) {
	budget := d("100")
	prev := -1
	for cents := int64(0); cents <= 20000; cents += 250 {
		expense := decimal.New(cents, -2)
		got := EvaluateBudget(expense, budget, 80)
		sev := got.Status.Severity()
		assert.GreaterOrEqual(t, sev, prev, "expense %s regressed severity", expense)
		prev = sev
	}
}

func TestBudgetStatus_Severity(t *testing.T) {
	assert.Equal(t, 0, StatusNoBudget.Severity())
	assert.Equal(t, 0, StatusOK.Severity())
	assert.Equal(t, 1, StatusWarning.Severity())
	assert.Equal(t, 2, StatusExceeded.Severity())
}
