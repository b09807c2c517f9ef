package services

import (
	"context"

	"github.com/google/uuid"

	"budgebuddy/internal/alert"
	"budgebuddy/internal/core"
)

// Store is the durable record store the ledger runs on. Implemented by
// the SQLite repository and the in-memory store.
type Store interface {
	ListAll(ctx context.Context) ([]core.Transaction, error)
	Insert(ctx context.Context, t core.Transaction) (uuid.UUID, error)
	Update(ctx context.Context, t core.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetBudget(ctx context.Context, month, year int) (core.Budget, error)
	SetBudget(ctx context.Context, b core.Budget) error
	ReplaceAll(ctx context.Context, transactions []core.Transaction, budgets []core.Budget) error
}

// Preferences supplies the evaluation inputs owned by the settings
// layer.
type Preferences interface {
	AlertThreshold(ctx context.Context) (int, error)
}

// AlertPublisher hands alerts to the notification side channel. A nil
// publisher disables alerting; publish failures never fail a mutation.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *alert.BudgetAlertMessage) error
}
