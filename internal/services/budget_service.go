package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

// BudgetService persists budgets and publishes change events.
type BudgetService struct {
	store     storage.BudgetStore
	publisher ChangePublisher
}

func NewBudgetService(store storage.BudgetStore, publisher ChangePublisher) *BudgetService {
	return &BudgetService{
		store:     store,
		publisher: publisher,
	}
}

func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx)
}

// Set upserts the budget for its (category, month, year) key and publishes a
// change event. Publish failures are logged, never returned.
func (s *BudgetService) Set(ctx context.Context, b core.Budget) (core.Budget, error) {
	saved, err := s.store.SetBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}

	if s.publisher != nil {
		id := fmt.Sprintf("%s/%04d-%02d", saved.Category, saved.Year, saved.Month)
		if err := s.publisher.PublishChange(ctx, events.EntityBudget, id, events.ActionUpdated); err != nil {
			slog.ErrorContext(ctx, "Failed to publish change message",
				"entity", events.EntityBudget,
				"id", id,
				"error", err)
		}
	}

	return saved, nil
}
