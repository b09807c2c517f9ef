package alert

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"budgebuddy/internal/core"
)

// BudgetAlertMessage is the wire form of one budget alert. The
// notification layer renders it; delivery failures are not the
// ledger's concern.
type BudgetAlertMessage struct {
	Severity        core.BudgetStatus `json:"severity"` // WARNING or EXCEEDED
	MonthlyExpense  decimal.Decimal   `json:"monthly_expense"`
	Budget          decimal.Decimal   `json:"budget"`
	Overage         decimal.Decimal   `json:"overage"`
	ProgressPercent int               `json:"progress_percent"`
	Month           int               `json:"month"`
	Year            int               `json:"year"`
	Timestamp       time.Time         `json:"timestamp"`
}

func NewBudgetAlertMessage(eval core.BudgetEvaluation, monthlyExpense, budget decimal.Decimal, month, year int) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Severity:        eval.Status,
		MonthlyExpense:  monthlyExpense,
		Budget:          budget,
		Overage:         eval.Overage,
		ProgressPercent: eval.ProgressPercent,
		Month:           month,
		Year:            year,
		Timestamp:       time.Now().UTC(),
	}
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
