package alert

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgebuddy/internal/core"
)

func TestNewBudgetAlertMessage(t *testing.T) {
	eval := core.BudgetEvaluation{
		Status:          core.StatusExceeded,
		ProgressPercent: 100,
		Overage:         decimal.NewFromInt(50),
	}

	msg := NewBudgetAlertMessage(eval, decimal.NewFromInt(150), decimal.NewFromInt(100), 1, 2024)

	if msg.Severity != core.StatusExceeded {
		t.Errorf("Severity = %v, want %v", msg.Severity, core.StatusExceeded)
	}
	if !msg.Overage.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Overage = %v, want 50", msg.Overage)
	}
	if msg.Month != 1 || msg.Year != 2024 {
		t.Errorf("Month/Year = %d/%d, want 1/2024", msg.Month, msg.Year)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestBudgetAlertMessage_JSON(t *testing.T) {
	msg := &BudgetAlertMessage{
		Severity:        core.StatusWarning,
		MonthlyExpense:  decimal.RequireFromString("85.50"),
		Budget:          decimal.NewFromInt(100),
		Overage:         decimal.Zero,
		ProgressPercent: 85,
		Month:           7,
		Year:            2024,
		Timestamp:       time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := BudgetAlertMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("BudgetAlertMessageFromJSON() error = %v", err)
	}

	if parsed.Severity != msg.Severity {
		t.Errorf("Parsed Severity = %v, want %v", parsed.Severity, msg.Severity)
	}
	if !parsed.MonthlyExpense.Equal(msg.MonthlyExpense) {
		t.Errorf("Parsed MonthlyExpense = %v, want %v", parsed.MonthlyExpense, msg.MonthlyExpense)
	}
	if parsed.ProgressPercent != msg.ProgressPercent {
		t.Errorf("Parsed ProgressPercent = %v, want %v", parsed.ProgressPercent, msg.ProgressPercent)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestBudgetAlertMessage_InvalidJSON(t *testing.T) {
	if _, err := BudgetAlertMessageFromJSON([]byte(`{"progress_percent": "high"}`)); err == nil {
		t.Error("BudgetAlertMessageFromJSON() should fail with invalid JSON")
	}
}
