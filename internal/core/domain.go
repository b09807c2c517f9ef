package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

type (
	// Kind tells which aggregate bucket a transaction contributes to.
	// Amounts are magnitudes; direction is derived from the kind, never
	// from the sign of the amount.
	Kind string

	// Transaction is a single ledger record. Records are replaced whole
	// on update, never mutated in place.
	Transaction struct {
		ID          uuid.UUID
		Amount      decimal.Decimal
		Description string // may be empty
		Category    string // grouping key, case-sensitive
		Kind        Kind
		OccurredAt  time.Time
	}

	// Budget is the overall spending limit for one calendar month.
	// Months are one-based (1-12). Last write wins; at most one value
	// is current for a given month and year.
	Budget struct {
		Amount decimal.Decimal
		Month  int
		Year   int
	}
)

var (
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrInvalidKind    = errors.New("kind must be INCOME or EXPENSE")
	ErrEmptyCategory  = errors.New("empty category")
	ErrZeroDate       = errors.New("occurred-at date cannot be zero")
	ErrInvalidMonth   = errors.New("month must be between 1 and 12")
	ErrNotFound       = errors.New("not found")
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.OccurredAt.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// InMonth reports whether the transaction falls in the given calendar
// month and year, using the transaction's own location.
func (t Transaction) InMonth(month, year int) bool {
	return int(t.OccurredAt.Month()) == month && t.OccurredAt.Year() == year
}

func (b Budget) Validate() error {
	if b.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}
