package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		Amount:     decimal.NewFromInt(10),
		Category:   "Food",
		Kind:       KindExpense,
		OccurredAt: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"zero amount is allowed", func(tx *Transaction) { tx.Amount = decimal.Zero }, nil},
		{"empty description is allowed", func(tx *Transaction) { tx.Description = "" }, nil},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, ErrNegativeAmount},
		{"unknown kind", func(tx *Transaction) { tx.Kind = "TRANSFER" }, ErrInvalidKind},
		{"blank category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"zero date", func(tx *Transaction) { tx.OccurredAt = time.Time{} }, ErrZeroDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBudget_Validate(t *testing.T) {
	assert.NoError(t, Budget{Amount: decimal.NewFromInt(500), Month: 1, Year: 2024}.Validate())
	assert.ErrorIs(t, Budget{Amount: decimal.NewFromInt(-1), Month: 1, Year: 2024}.Validate(), ErrNegativeAmount)
	assert.ErrorIs(t, Budget{Amount: decimal.NewFromInt(1), Month: 0, Year: 2024}.Validate(), ErrInvalidMonth)
	assert.ErrorIs(t, Budget{Amount: decimal.NewFromInt(1), Month: 13, Year: 2024}.Validate(), ErrInvalidMonth)
}

func TestTransaction_InMonth(t *testing.T) {
	tx := Transaction{OccurredAt: time.Date(2024, time.July, 31, 23, 0, 0, 0, time.UTC)}
	assert.True(t, tx.InMonth(7, 2024))
	assert.False(t, tx.InMonth(8, 2024))
	assert.False(t, tx.InMonth(7, 2023))
}
