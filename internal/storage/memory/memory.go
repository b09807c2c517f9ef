// Package memory is an in-process record store with the same contract
// as the SQLite repository. It backs tests and the "memory" data
// backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"budgebuddy/internal/core"
)

type budgetKey struct {
	month int
	year  int
}

type Store struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]core.Transaction
	budgets      map[budgetKey]core.Budget
	settings     map[string]string
}

func New() *Store {
	return &Store{
		transactions: map[uuid.UUID]core.Transaction{},
		budgets:      map[budgetKey]core.Budget{},
		settings:     map[string]string{},
	}
}

func (s *Store) ListAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) Insert(_ context.Context, t core.Transaction) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	s.transactions[t.ID] = t
	return t.ID, nil
}

func (s *Store) Update(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[t.ID]; !ok {
		return fmt.Errorf("update transaction %s: %w", t.ID, core.ErrNotFound)
	}
	s.transactions[t.ID] = t
	return nil
}

func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return fmt.Errorf("delete transaction %s: %w", id, core.ErrNotFound)
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) GetBudget(_ context.Context, month, year int) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[budgetKey{month, year}]
	if !ok {
		return core.Budget{}, fmt.Errorf("budget %d-%02d: %w", year, month, core.ErrNotFound)
	}
	return b, nil
}

func (s *Store) SetBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[budgetKey{b.Month, b.Year}] = b
	return nil
}

func (s *Store) ReplaceAll(_ context.Context, transactions []core.Transaction, budgets []core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = make(map[uuid.UUID]core.Transaction, len(transactions))
	for _, t := range transactions {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		s.transactions[t.ID] = t
	}
	s.budgets = make(map[budgetKey]core.Budget, len(budgets))
	for _, b := range budgets {
		s.budgets[budgetKey{b.Month, b.Year}] = b
	}
	return nil
}

func (s *Store) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.settings[key]
	if !ok {
		return "", fmt.Errorf("setting %q: %w", key, core.ErrNotFound)
	}
	return value, nil
}

func (s *Store) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

func (s *Store) Close() error { return nil }
