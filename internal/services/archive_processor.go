package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// ArchiveProcessor snapshots one month's raw summary into the archive store.
// Insights are deliberately not archived; they are derived text recomputed on
// every dashboard read.
type ArchiveProcessor struct {
	transactions storage.TransactionStore
	budgets      storage.BudgetStore
	archives     storage.ArchiveStore
	now          func() time.Time
}

func NewArchiveProcessor(transactions storage.TransactionStore, budgets storage.BudgetStore, archives storage.ArchiveStore) *ArchiveProcessor {
	return &ArchiveProcessor{
		transactions: transactions,
		budgets:      budgets,
		archives:     archives,
		now:          time.Now,
	}
}

// ArchiveMonth recomputes and upserts the archive for the given month.
// Re-running for the same month overwrites the previous snapshot.
func (p *ArchiveProcessor) ArchiveMonth(ctx context.Context, month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("archive month out of range: %d", month)
	}

	var (
		transactions []core.Transaction
		budgets      []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = p.transactions.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = p.budgets.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("fetch budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	monthly := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.InMonth(month, year) {
			monthly = append(monthly, t)
		}
	}

	archive := storage.MonthlyArchive{
		ID:             fmt.Sprintf("%04d-%02d", year, month),
		Year:           year,
		Month:          month,
		Totals:         core.ComputeTotals(monthly),
		Breakdown:      core.ComputeCategoryBreakdown(monthly),
		Reconciliation: core.ComputeBudgetReconciliation(transactions, budgets, month, year),
		ArchivedAt:     p.now(),
	}

	if err := p.archives.SaveMonthlyArchive(ctx, archive); err != nil {
		return fmt.Errorf("archive month %s: %w", archive.ID, err)
	}

	slog.InfoContext(ctx, "Archived monthly summary",
		"id", archive.ID,
		"transactions", len(monthly),
		"income_cents", archive.Totals.Income.Cents,
		"expenses_cents", archive.Totals.Expenses.Cents)

	return nil
}

// ArchiveCurrentMonth archives the month containing now.
func (p *ArchiveProcessor) ArchiveCurrentMonth(ctx context.Context) error {
	now := p.now()
	return p.ArchiveMonth(ctx, int(now.Month()), now.Year())
}

// ArchivePreviousMonth archives the month before the one containing now.
// Meant for the schedule that runs just after month roll-over.
func (p *ArchiveProcessor) ArchivePreviousMonth(ctx context.Context) error {
	first := p.now()
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
	previous := first.AddDate(0, -1, 0)
	return p.ArchiveMonth(ctx, int(previous.Month()), previous.Year())
}
