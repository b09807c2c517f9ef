// Package services orchestrates the ledger: it funnels mutations to
// the record store, recomputes the published snapshot, and raises
// budget alerts on status transitions.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgebuddy/internal/alert"
	"budgebuddy/internal/core"
)

// Controller states, visible for observability only.
const (
	StateIdle int32 = iota
	StateRecomputing
)

// LedgerService is the single writer for the ledger. All mutations go
// through it; observers read the latest snapshot or wait on the change
// channel. Snapshots are replaced whole, never mutated in place.
type LedgerService struct {
	store  Store
	prefs  Preferences
	alerts AlertPublisher
	now    func() time.Time

	state     atomic.Int32
	recompute chan struct{}

	mu       sync.RWMutex
	snapshot *core.Snapshot
	subs     []chan struct{}

	// Alert edge detection, keyed by month, year, and budget value.
	// Re-armed when any of the three changes.
	armMonth     int
	armYear      int
	armBudget    string
	warningSent  bool
	exceededSent bool
}

func NewLedgerService(store Store, preferences Preferences, alerts AlertPublisher) *LedgerService {
	s := &LedgerService{
		store:     store,
		prefs:     preferences,
		alerts:    alerts,
		now:       time.Now,
		recompute: make(chan struct{}, 1),
	}
	// Compute an initial snapshot as soon as Run starts.
	s.trigger()
	return s
}

// Run drives recomputation until ctx is done. Triggers arriving while
// a pass is in flight coalesce into a single follow-up pass.
func (s *LedgerService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.recompute:
			if err := s.Refresh(ctx); err != nil {
				slog.ErrorContext(ctx, "Snapshot recomputation failed, keeping previous snapshot",
					"error", err)
			}
		}
	}
}

// trigger schedules a recomputation. The buffered channel makes the
// send non-blocking and collapses concurrent triggers into one.
func (s *LedgerService) trigger() {
	select {
	case s.recompute <- struct{}{}:
	default:
	}
}

// State reports whether a recomputation pass is in flight.
func (s *LedgerService) State() int32 {
	return s.state.Load()
}

// Insert validates and stores a new transaction, returning its
// assigned id.
func (s *LedgerService) Insert(ctx context.Context, t core.Transaction) (uuid.UUID, error) {
	if err := t.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("validate transaction: %w", err)
	}

	id, err := s.store.Insert(ctx, t)
	if err != nil {
		return uuid.Nil, err
	}
	s.trigger()
	return id, nil
}

// Update replaces an existing transaction whole. The id must exist.
func (s *LedgerService) Update(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if t.ID == uuid.Nil {
		return fmt.Errorf("update transaction: %w", core.ErrNotFound)
	}

	if err := s.store.Update(ctx, t); err != nil {
		return err
	}
	s.trigger()
	return nil
}

// Delete removes a transaction. Deleting an absent id reports
// core.ErrNotFound and leaves the snapshot untouched.
func (s *LedgerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.trigger()
	return nil
}

// SetBudget stores the overall budget for the current month and
// re-arms alert edge detection.
func (s *LedgerService) SetBudget(ctx context.Context, amount decimal.Decimal) error {
	now := s.now()
	b := core.Budget{Amount: amount, Month: int(now.Month()), Year: now.Year()}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate budget: %w", err)
	}

	if err := s.store.SetBudget(ctx, b); err != nil {
		return err
	}

	s.mu.Lock()
	s.rearmLocked(b.Month, b.Year, b.Amount.String())
	s.mu.Unlock()

	s.trigger()
	return nil
}

// ReplaceAll swaps the entire ledger, used by import. Every record is
// validated before anything is written.
func (s *LedgerService) ReplaceAll(ctx context.Context, transactions []core.Transaction, budgets []core.Budget) error {
	for i, t := range transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("validate imported transaction %d: %w", i, err)
		}
	}
	for i, b := range budgets {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("validate imported budget %d: %w", i, err)
		}
	}

	if err := s.store.ReplaceAll(ctx, transactions, budgets); err != nil {
		return err
	}

	s.mu.Lock()
	s.rearmLocked(0, 0, "")
	s.mu.Unlock()

	s.trigger()
	return nil
}

// ListTransactions returns the raw ledger, newest first, for listing
// and export.
func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListAll(ctx)
}

// Snapshot returns the latest published snapshot. The second value is
// false until the first recomputation completes.
func (s *LedgerService) Snapshot() (core.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return core.Snapshot{}, false
	}
	return *s.snapshot, true
}

// Subscribe returns a channel that receives a tick after every
// snapshot publication. Slow consumers miss ticks, never block the
// publisher.
func (s *LedgerService) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Refresh runs one full recomputation pass synchronously: load,
// aggregate, evaluate, publish. On failure the previous snapshot stays
// published.
func (s *LedgerService) Refresh(ctx context.Context) error {
	s.state.Store(StateRecomputing)
	defer s.state.Store(StateIdle)

	transactions, err := s.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	reference := s.now()
	snap := core.Aggregate(transactions, reference)

	budget, err := s.store.GetBudget(ctx, snap.Month, snap.Year)
	switch {
	case err == nil:
		snap.MonthlyBudget = budget.Amount
	case isNotFound(err):
		snap.MonthlyBudget = decimal.Zero
	default:
		return fmt.Errorf("load budget: %w", err)
	}

	threshold, err := s.prefs.AlertThreshold(ctx)
	if err != nil {
		return fmt.Errorf("load alert threshold: %w", err)
	}

	snap.Budget = core.EvaluateBudget(snap.MonthlyExpense, snap.MonthlyBudget, threshold)

	s.publish(ctx, snap)
	return nil
}

// publish swaps in the new snapshot, notifies subscribers, and fires
// any due alert.
func (s *LedgerService) publish(ctx context.Context, snap core.Snapshot) {
	s.mu.Lock()
	s.snapshot = &snap
	subs := make([]chan struct{}, len(s.subs))
	copy(subs, s.subs)
	msg := s.pendingAlertLocked(snap)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}

	if msg == nil {
		return
	}
	if s.alerts == nil {
		slog.WarnContext(ctx, "Alert publisher not available, dropping budget alert",
			"severity", msg.Severity)
		return
	}
	if err := s.alerts.PublishBudgetAlert(ctx, msg); err != nil {
		// The mutation already succeeded; alerting is best effort.
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"severity", msg.Severity,
			"error", err)
	}
}

// pendingAlertLocked applies the edge-trigger policy: at most one
// WARNING and one EXCEEDED per month per budget value, re-armed when
// the month or the budget changes. Must hold s.mu.
func (s *LedgerService) pendingAlertLocked(snap core.Snapshot) *alert.BudgetAlertMessage {
	key := snap.MonthlyBudget.String()
	if snap.Month != s.armMonth || snap.Year != s.armYear || key != s.armBudget {
		s.rearmLocked(snap.Month, snap.Year, key)
	}

	switch snap.Budget.Status {
	case core.StatusExceeded:
		if s.exceededSent {
			return nil
		}
		s.exceededSent = true
	case core.StatusWarning:
		if s.warningSent {
			return nil
		}
		s.warningSent = true
	default:
		return nil
	}

	return alert.NewBudgetAlertMessage(snap.Budget, snap.MonthlyExpense, snap.MonthlyBudget, snap.Month, snap.Year)
}

func (s *LedgerService) rearmLocked(month, year int, budget string) {
	s.armMonth = month
	s.armYear = year
	s.armBudget = budget
	s.warningSent = false
	s.exceededSent = false
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
