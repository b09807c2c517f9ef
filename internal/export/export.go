// Package export writes and reads JSON ledger backups. The backup
// owns its serialization schema; the core never sees the file format.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgebuddy/internal/core"
)

// Reader is what export needs from the ledger.
type Reader interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// BudgetReader fetches the budget for a given month.
type BudgetReader interface {
	GetBudget(ctx context.Context, month, year int) (core.Budget, error)
}

// Replacer is what import needs: a validated, transactional swap of
// the whole ledger.
type Replacer interface {
	ReplaceAll(ctx context.Context, transactions []core.Transaction, budgets []core.Budget) error
}

type backupTransaction struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Kind        core.Kind       `json:"kind"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type backupBudget struct {
	Amount decimal.Decimal `json:"amount"`
	Month  int             `json:"month"`
	Year   int             `json:"year"`
}

type backupFile struct {
	Transactions []backupTransaction `json:"transactions"`
	Budgets      []backupBudget      `json:"budgets"`
}

type Service struct {
	ledger  Reader
	budgets BudgetReader
	target  Replacer
	now     func() time.Time
}

func NewService(ledger Reader, budgets BudgetReader, target Replacer) *Service {
	return &Service{
		ledger:  ledger,
		budgets: budgets,
		target:  target,
		now:     time.Now,
	}
}

// Export writes a timestamped backup into dir and returns its path.
// The current month's budget rides along, matching what a restored
// ledger needs to evaluate itself.
func (s *Service) Export(ctx context.Context, dir string) (string, error) {
	transactions, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return "", fmt.Errorf("list transactions for export: %w", err)
	}

	now := s.now()
	file := backupFile{
		Transactions: make([]backupTransaction, len(transactions)),
	}
	for i, t := range transactions {
		file.Transactions[i] = backupTransaction{
			ID:          t.ID,
			Amount:      t.Amount,
			Description: t.Description,
			Category:    t.Category,
			Kind:        t.Kind,
			OccurredAt:  t.OccurredAt.UTC(),
		}
	}

	budget, err := s.budgets.GetBudget(ctx, int(now.Month()), now.Year())
	switch {
	case err == nil:
		file.Budgets = append(file.Budgets, backupBudget{
			Amount: budget.Amount,
			Month:  budget.Month,
			Year:   budget.Year,
		})
	case isNotFound(err):
		// Nothing to export for this month.
	default:
		return "", fmt.Errorf("load budget for export: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	name := fmt.Sprintf("budgebuddy_backup_%s.json", now.UTC().Format("2006-01-02_15-04-05"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	slog.InfoContext(ctx, "Ledger exported",
		"path", path,
		"transactions", len(file.Transactions),
		"budgets", len(file.Budgets))

	return path, nil
}

// Import reads a backup file and replaces the whole ledger with its
// contents. The swap is atomic; a bad file leaves the ledger as it
// was.
func (s *Service) Import(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	var file backupFile
	if err := json.NewDecoder(f).Decode(&file); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}

	transactions := make([]core.Transaction, len(file.Transactions))
	for i, t := range file.Transactions {
		transactions[i] = core.Transaction{
			ID:          t.ID,
			Amount:      t.Amount,
			Description: t.Description,
			Category:    t.Category,
			Kind:        t.Kind,
			OccurredAt:  t.OccurredAt,
		}
	}
	budgets := make([]core.Budget, len(file.Budgets))
	for i, b := range file.Budgets {
		budgets[i] = core.Budget{Amount: b.Amount, Month: b.Month, Year: b.Year}
	}

	if err := s.target.ReplaceAll(ctx, transactions, budgets); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger imported",
		"path", path,
		"transactions", len(transactions),
		"budgets", len(budgets))

	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
