// Package memory provides an in-memory store used by tests and as the
// default development backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type budgetKey struct {
	category string
	month    int
	year     int
}

type Store struct {
	mu           sync.Mutex
	nextID       int
	transactions []core.Transaction
	budgets      map[budgetKey]core.Budget
	archives     map[string]storage.MonthlyArchive
}

func New() *Store {
	return &Store{
		budgets:  make(map[budgetKey]core.Budget),
		archives: make(map[string]storage.MonthlyArchive),
	}
}

// ListTransactions returns a copy sorted by date descending, matching the
// document-store contract.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.transactions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = fmt.Sprintf("mem:%d", s.nextID)
	s.transactions = append(s.transactions, t)
	return t.ID, nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, update storage.TransactionUpdate) (*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID != id {
			continue
		}
		t := &s.transactions[i]
		if update.AmountCents != nil {
			t.Amount = core.Money{Cents: *update.AmountCents}
		}
		if update.Date != nil {
			t.Date = *update.Date
		}
		if update.Description != nil {
			t.Description = *update.Description
		}
		if update.Type != nil {
			t.Type = *update.Type
		}
		if update.Category != nil {
			t.Category = *update.Category
		}
		found := *t
		return &found, nil
	}
	return nil, storage.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) SetBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[budgetKey{b.Category, b.Month, b.Year}] = b
	return b, nil
}

func (s *Store) SaveMonthlyArchive(_ context.Context, a storage.MonthlyArchive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ArchivedAt = a.ArchivedAt.Truncate(time.Millisecond)
	s.archives[a.ID] = a
	return nil
}

// MonthlyArchive returns a stored archive, for tests.
func (s *Store) MonthlyArchive(id string) (storage.MonthlyArchive, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.archives[id]
	return a, ok
}
