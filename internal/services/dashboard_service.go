package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// Dashboard bundles the five engine outputs for one reference month.
type Dashboard struct {
	Month          int
	Year           int
	Totals         core.Totals
	Breakdown      []core.CategoryValue
	Series         []core.MonthBucket
	Reconciliation []core.BudgetComparison
	Insights       []string
}

// DashboardService materializes full snapshots of both stores and runs the
// aggregation engine over them. No caching; every load recomputes.
type DashboardService struct {
	transactions storage.TransactionStore
	budgets      storage.BudgetStore
}

func NewDashboardService(transactions storage.TransactionStore, budgets storage.BudgetStore) *DashboardService {
	return &DashboardService{
		transactions: transactions,
		budgets:      budgets,
	}
}

// Load fetches both stores concurrently and derives the dashboard for the
// given reference month.
func (s *DashboardService) Load(ctx context.Context, month, year int) (*Dashboard, error) {
	var (
		transactions []core.Transaction
		budgets      []core.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactions.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("fetch budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	breakdown := core.ComputeCategoryBreakdown(transactions)
	series := core.ComputeMonthlySeries(transactions)

	return &Dashboard{
		Month:          month,
		Year:           year,
		Totals:         core.ComputeTotals(transactions),
		Breakdown:      breakdown,
		Series:         series,
		Reconciliation: core.ComputeBudgetReconciliation(transactions, budgets, month, year),
		Insights:       core.GenerateInsights(transactions, budgets, breakdown, series, month, year),
	}, nil
}
