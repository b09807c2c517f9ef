package core

import "github.com/shopspring/decimal"

// CategorySummary is one row of a per-category monthly breakdown.
// Percentage is the floor of this category's share of the kind total,
// 0-100.
type CategorySummary struct {
	Category   string
	Amount     decimal.Decimal
	Percentage int
}

// Snapshot is one fully-computed view of the ledger, published whole.
// Observers never see a partially updated snapshot.
type Snapshot struct {
	Month int // 1-12
	Year  int

	TotalIncome  decimal.Decimal // all time
	TotalExpense decimal.Decimal // all time

	MonthlyIncome  decimal.Decimal
	MonthlyExpense decimal.Decimal

	MonthlyBudget decimal.Decimal
	Budget        BudgetEvaluation

	ExpenseByCategory []CategorySummary
	IncomeByCategory  []CategorySummary
}
