// Package core holds the ledger domain: transaction and budget values,
// the monthly aggregation pass, and budget evaluation. Everything here
// is pure; persistence and publication live in the outer layers.
package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Aggregate computes all-time and monthly totals plus per-category
// breakdowns for the calendar month containing reference. It is a pure
// function of its inputs: same transactions and reference date, same
// result.
func Aggregate(transactions []Transaction, reference time.Time) Snapshot {
	month, year := int(reference.Month()), reference.Year()

	snap := Snapshot{
		Month:          month,
		Year:           year,
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		MonthlyIncome:  decimal.Zero,
		MonthlyExpense: decimal.Zero,
		MonthlyBudget:  decimal.Zero,
	}

	expenseGroups := map[string]decimal.Decimal{}
	incomeGroups := map[string]decimal.Decimal{}

	for _, t := range transactions {
		switch t.Kind {
		case KindIncome:
			snap.TotalIncome = snap.TotalIncome.Add(t.Amount)
			if t.InMonth(month, year) {
				snap.MonthlyIncome = snap.MonthlyIncome.Add(t.Amount)
				incomeGroups[t.Category] = incomeGroups[t.Category].Add(t.Amount)
			}
		case KindExpense:
			snap.TotalExpense = snap.TotalExpense.Add(t.Amount)
			if t.InMonth(month, year) {
				snap.MonthlyExpense = snap.MonthlyExpense.Add(t.Amount)
				expenseGroups[t.Category] = expenseGroups[t.Category].Add(t.Amount)
			}
		}
	}

	snap.ExpenseByCategory = summarize(expenseGroups, snap.MonthlyExpense)
	snap.IncomeByCategory = summarize(incomeGroups, snap.MonthlyIncome)

	return snap
}

// summarize turns category sums into ordered summary rows. When the
// kind total is zero there is nothing to divide by and no rows are
// emitted.
func summarize(groups map[string]decimal.Decimal, kindTotal decimal.Decimal) []CategorySummary {
	if kindTotal.IsZero() || len(groups) == 0 {
		return nil
	}

	summaries := make([]CategorySummary, 0, len(groups))
	for category, amount := range groups {
		pct := int(amount.Mul(oneHundred).Div(kindTotal).Floor().IntPart())
		summaries = append(summaries, CategorySummary{
			Category:   category,
			Amount:     amount,
			Percentage: pct,
		})
	}

	// Largest first; ties broken by name so the order is total.
	sort.Slice(summaries, func(i, j int) bool {
		cmp := summaries[i].Amount.Cmp(summaries[j].Amount)
		if cmp != 0 {
			return cmp > 0
		}
		return summaries[i].Category < summaries[j].Category
	})

	return summaries
}
