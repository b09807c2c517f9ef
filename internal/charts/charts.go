// Package charts renders category breakdowns as PNG images for the
// analysis views.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"budgebuddy/internal/core"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryBreakdown renders a donut chart of the given summaries.
// Returns nil bytes when there is nothing to draw.
func (g *Generator) CategoryBreakdown(title string, summaries []core.CategorySummary) ([]byte, error) {
	if len(summaries) == 0 {
		return nil, nil
	}

	values := make([]chart.Value, len(summaries))
	for i, s := range summaries {
		amount, _ := s.Amount.Float64()
		values[i] = chart.Value{
			Value: amount,
			Label: fmt.Sprintf("%s (%d%%)", s.Category, s.Percentage),
		}
	}

	donut := chart.DonutChart{
		Title:  title,
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category chart: %w", err)
	}
	return buf.Bytes(), nil
}

// MonthlyOverview renders a bar chart comparing monthly income,
// expense, and budget.
func (g *Generator) MonthlyOverview(snap core.Snapshot) ([]byte, error) {
	income, _ := snap.MonthlyIncome.Float64()
	expense, _ := snap.MonthlyExpense.Float64()
	budget, _ := snap.MonthlyBudget.Float64()

	if income == 0 && expense == 0 && budget == 0 {
		return nil, nil
	}

	bars := chart.BarChart{
		Title:    fmt.Sprintf("%04d-%02d overview", snap.Year, snap.Month),
		Width:    600,
		Height:   400,
		BarWidth: 80,
		Bars: []chart.Value{
			{Value: income, Label: "Income"},
			{Value: expense, Label: "Expense"},
			{Value: budget, Label: "Budget"},
		},
	}

	var buf bytes.Buffer
	if err := bars.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render overview chart: %w", err)
	}
	return buf.Bytes(), nil
}
