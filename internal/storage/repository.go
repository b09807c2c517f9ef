// Package storage persists the ledger in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"budgebuddy/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable record store for transactions,
// budgets, and settings. IDs are assigned here on insert and never
// reused.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListAll returns every transaction, newest first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	transactions, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// Insert stores a new transaction and returns its assigned id. A zero
// id on the input is replaced; a caller-supplied id is kept, which the
// import path relies on.
func (r *SQLiteRepository) Insert(ctx context.Context, t core.Transaction) (uuid.UUID, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := r.queries.InsertTransaction(ctx, t); err != nil {
		return uuid.Nil, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"kind", t.Kind,
		"category", t.Category,
		"amount", t.Amount)

	return t.ID, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, t core.Transaction) error {
	affected, err := r.queries.UpdateTransaction(ctx, t)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update transaction %s: %w", t.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// GetBudget returns the budget for the given month, or core.ErrNotFound
// when none has been set.
func (r *SQLiteRepository) GetBudget(ctx context.Context, month, year int) (core.Budget, error) {
	b, err := r.queries.GetBudget(ctx, month, year)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %d-%02d: %w", year, month, core.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// SetBudget stores the budget for its month, replacing any prior value.
func (r *SQLiteRepository) SetBudget(ctx context.Context, b core.Budget) error {
	if err := r.queries.UpsertBudget(ctx, b); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"month", b.Month,
		"year", b.Year,
		"amount", b.Amount)

	return nil
}

// ReplaceAll swaps the whole ledger for the given data in a single
// transaction. Used by import; either everything lands or nothing does.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, transactions []core.Transaction, budgets []core.Budget) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace-all: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllTransactions(ctx); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if err := q.DeleteAllBudgets(ctx); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}
	for _, t := range transactions {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		if err := q.InsertTransaction(ctx, t); err != nil {
			return fmt.Errorf("insert imported transaction: %w", err)
		}
	}
	for _, b := range budgets {
		if err := q.UpsertBudget(ctx, b); err != nil {
			return fmt.Errorf("insert imported budget: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace-all: %w", err)
	}

	slog.InfoContext(ctx, "Ledger replaced",
		"transactions", len(transactions),
		"budgets", len(budgets))

	return nil
}

// GetSetting returns a preference value, or core.ErrNotFound when the
// key has never been written.
func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	value, err := r.queries.GetSetting(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("setting %q: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	if err := r.queries.SetSetting(ctx, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}
