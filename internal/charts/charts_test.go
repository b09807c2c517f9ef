package charts

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgebuddy/internal/core"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestCategoryBreakdown(t *testing.T) {
	g := NewGenerator()
	png, err := g.CategoryBreakdown("Expenses by category", []core.CategorySummary{
		{Category: "Food", Amount: decimal.NewFromInt(150), Percentage: 60},
		{Category: "Rent", Amount: decimal.NewFromInt(100), Percentage: 40},
	})
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngHeader), "output should be a PNG")
}

func TestCategoryBreakdown_NoData(t *testing.T) {
	g := NewGenerator()
	png, err := g.CategoryBreakdown("Expenses by category", nil)
	require.NoError(t, err)
	assert.Nil(t, png, "nothing to draw, nothing rendered")
}

func TestMonthlyOverview(t *testing.T) {
	g := NewGenerator()
	snap := core.Snapshot{
		Month:          1,
		Year:           2024,
		MonthlyIncome:  decimal.NewFromInt(2000),
		MonthlyExpense: decimal.NewFromInt(1500),
		MonthlyBudget:  decimal.NewFromInt(1800),
	}
	png, err := g.MonthlyOverview(snap)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestMonthlyOverview_EmptySnapshot(t *testing.T) {
	g := NewGenerator()
	png, err := g.MonthlyOverview(core.Snapshot{
		MonthlyIncome:  decimal.Zero,
		MonthlyExpense: decimal.Zero,
		MonthlyBudget:  decimal.Zero,
	})
	require.NoError(t, err)
	assert.Nil(t, png)
}
