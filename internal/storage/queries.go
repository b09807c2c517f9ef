package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgebuddy/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so queries can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries bundles the raw SQL statements for the ledger tables.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const occurredAtLayout = time.RFC3339Nano

const insertTransaction = `
INSERT INTO transactions (id, amount, description, category, kind, occurred_at)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertTransaction(ctx context.Context, t core.Transaction) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		t.ID.String(),
		t.Amount.String(),
		t.Description,
		t.Category,
		string(t.Kind),
		t.OccurredAt.UTC().Format(occurredAtLayout),
	)
	return err
}

const updateTransaction = `
UPDATE transactions
SET amount = ?, description = ?, category = ?, kind = ?, occurred_at = ?
WHERE id = ?
`

func (q *Queries) UpdateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction,
		t.Amount.String(),
		t.Description,
		t.Category,
		string(t.Kind),
		t.OccurredAt.UTC().Format(occurredAtLayout),
		t.ID.String(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id.String())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteAllTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTransactions)
	return err
}

const listTransactions = `
SELECT id, amount, description, category, kind, occurred_at
FROM transactions
ORDER BY occurred_at DESC, id
`

func (q *Queries) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const getTransaction = `
SELECT id, amount, description, category, kind, occurred_at
FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id.String())
	return scanTransaction(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		id         string
		amount     string
		kind       string
		occurredAt string
	)
	if err := row.Scan(&id, &amount, &t.Description, &t.Category, &kind, &occurredAt); err != nil {
		return core.Transaction{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction id %q: %w", id, err)
	}
	t.ID = parsed

	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Kind = core.Kind(kind)

	if t.OccurredAt, err = time.Parse(occurredAtLayout, occurredAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse occurred_at %q: %w", occurredAt, err)
	}
	return t, nil
}

const getBudget = `SELECT amount FROM budgets WHERE month = ? AND year = ?`

func (q *Queries) GetBudget(ctx context.Context, month, year int) (core.Budget, error) {
	var amount string
	if err := q.db.QueryRowContext(ctx, getBudget, month, year).Scan(&amount); err != nil {
		return core.Budget{}, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse budget amount %q: %w", amount, err)
	}
	return core.Budget{Amount: parsed, Month: month, Year: year}, nil
}

const upsertBudget = `
INSERT INTO budgets (month, year, amount)
VALUES (?, ?, ?)
ON CONFLICT (month, year) DO UPDATE SET amount = excluded.amount
`

func (q *Queries) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := q.db.ExecContext(ctx, upsertBudget, b.Month, b.Year, b.Amount.String())
	return err
}

const deleteAllBudgets = `DELETE FROM budgets`

func (q *Queries) DeleteAllBudgets(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllBudgets)
	return err
}

const getSetting = `SELECT value FROM settings WHERE key = ?`

func (q *Queries) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getSetting, key).Scan(&value)
	return value, err
}

const setSetting = `
INSERT INTO settings (key, value)
VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value
`

func (q *Queries) SetSetting(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, setSetting, key, value)
	return err
}
