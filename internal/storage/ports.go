// Package storage defines the ports to the document store. The dashboard
// engine never talks to these directly; the service layer fetches snapshots
// through them and hands plain slices to the engine.
package storage

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned when an identifier cannot be parsed.
	ErrInvalidID = errors.New("invalid record id")
)

// TransactionUpdate carries a partial update; nil fields are left untouched.
type TransactionUpdate struct {
	AmountCents *int64
	Date        *time.Time
	Description *string
	Type        *core.TransactionType
	Category    *string
}

type (
	TransactionStore interface {
		// ListTransactions returns all transactions, most recent date first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (*core.Transaction, error)
		// CreateTransaction stores the transaction and returns its assigned id.
		CreateTransaction(ctx context.Context, t core.Transaction) (string, error)
		UpdateTransaction(ctx context.Context, id string, update TransactionUpdate) (*core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		// SetBudget upserts by (category, month, year): afterwards the unique
		// record for that key holds the given amount, regardless of prior
		// existence.
		SetBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	}

	// ArchiveStore persists raw monthly summaries for the archive worker.
	ArchiveStore interface {
		SaveMonthlyArchive(ctx context.Context, a MonthlyArchive) error
	}
)

// MonthlyArchive is a snapshot of one month's raw summary. Derived insights
// are intentionally absent; they are recomputed on every dashboard read.
type MonthlyArchive struct {
	ID             string // "YYYY-MM"
	Year           int
	Month          int
	Totals         core.Totals
	Breakdown      []core.CategoryValue
	Reconciliation []core.BudgetComparison
	ArchivedAt     time.Time
}
