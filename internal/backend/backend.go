// Package backend selects the record store implementation based on
// configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"budgebuddy/internal/core"
	"budgebuddy/internal/log"
	"budgebuddy/internal/storage"
	"budgebuddy/internal/storage/memory"
)

// Store is the full storage surface a backend must provide: ledger
// records, budgets, and the settings key-value table.
type Store interface {
	ListAll(ctx context.Context) ([]core.Transaction, error)
	Insert(ctx context.Context, t core.Transaction) (uuid.UUID, error)
	Update(ctx context.Context, t core.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetBudget(ctx context.Context, month, year int) (core.Budget, error)
	SetBudget(ctx context.Context, b core.Budget) error
	ReplaceAll(ctx context.Context, transactions []core.Transaction, budgets []core.Budget) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	Close() error
}

// Type names a backend implementation.
type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

func (t Type) IsValid() bool {
	return t == SQLite || t == Memory
}

// Open creates the configured store. The caller owns the returned
// store and must Close it.
func Open(backendType Type, sqliteDBPath string, logger *log.Logger) (Store, error) {
	switch backendType {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(sqliteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", log.FieldBackend, string(SQLite), log.FieldPath, sqliteDBPath)
		return repo, nil
	case Memory:
		logger.Info("Initialized memory backend", log.FieldBackend, string(Memory))
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backendType)
	}
}
