package core

import "github.com/shopspring/decimal"

const (
	StatusNoBudget BudgetStatus = "NO_BUDGET_SET"
	StatusOK       BudgetStatus = "OK"
	StatusWarning  BudgetStatus = "WARNING"
	StatusExceeded BudgetStatus = "EXCEEDED"
)

type (
	// BudgetStatus classifies monthly spending against the budget.
	BudgetStatus string

	// BudgetEvaluation is the result of one evaluation pass.
	// ProgressPercent is clamped to 0-100 for display; classification
	// compares the raw amounts so that exactly-at-budget is not
	// reported as exceeded.
	BudgetEvaluation struct {
		Status          BudgetStatus
		ProgressPercent int
		Overage         decimal.Decimal
	}
)

// Severity orders statuses so alert edge detection can tell whether a
// transition moved up. NO_BUDGET_SET and OK share the lowest rank.
func (s BudgetStatus) Severity() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusExceeded:
		return 2
	default:
		return 0
	}
}

// EvaluateBudget classifies monthlyExpense against budget. Rules, first
// match wins: no positive budget -> NO_BUDGET_SET; expense over budget
// -> EXCEEDED with the overage; floored progress at or past the
// threshold -> WARNING; otherwise OK.
func EvaluateBudget(monthlyExpense, budget decimal.Decimal, thresholdPercent int) BudgetEvaluation {
	if budget.LessThanOrEqual(decimal.Zero) {
		return BudgetEvaluation{Status: StatusNoBudget, Overage: decimal.Zero}
	}

	progress := int(monthlyExpense.Mul(oneHundred).Div(budget).Floor().IntPart())
	display := progress
	if display > 100 {
		display = 100
	}
	if display < 0 {
		display = 0
	}

	if monthlyExpense.GreaterThan(budget) {
		return BudgetEvaluation{
			Status:          StatusExceeded,
			ProgressPercent: display,
			Overage:         monthlyExpense.Sub(budget),
		}
	}
	if progress >= thresholdPercent {
		return BudgetEvaluation{Status: StatusWarning, ProgressPercent: display, Overage: decimal.Zero}
	}
	return BudgetEvaluation{Status: StatusOK, ProgressPercent: display, Overage: decimal.Zero}
}
