package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage/memory"
)

type recordingPublisher struct {
	published []string
	err       error
}

func (p *recordingPublisher) PublishChange(_ context.Context, entity, id, action string) error {
	p.published = append(p.published, entity+":"+action)
	return p.err
}

func expense(cents int64, category string, date time.Time) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: "test",
		Type:        core.Expense,
		Category:    category,
	}
}

func TestTransactionService_CreatePublishesChange(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewTransactionService(store, pub)

	id, err := svc.Create(context.Background(), expense(3000, "Food", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, []string{"transaction:created"}, pub.published)
}

func TestTransactionService_PublishFailureDoesNotFailRequest(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewTransactionService(store, pub)

	id, err := svc.Create(context.Background(), expense(3000, "Food", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), got.Amount.Cents)
}

func TestTransactionService_NilPublisher(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)

	id, err := svc.Create(context.Background(), expense(100, "Food", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), id))
}

func TestBudgetService_SetUpsertsAndPublishes(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewBudgetService(store, pub)

	budget := core.Budget{Category: "Food", Amount: core.Money{Cents: 10000}, Month: 1, Year: 2024}
	saved, err := svc.Set(context.Background(), budget)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), saved.Amount.Cents)

	budget.Amount = core.Money{Cents: 5000}
	saved, err = svc.Set(context.Background(), budget)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), saved.Amount.Cents)

	budgets, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, []string{"budget:updated", "budget:updated"}, pub.published)
}

func TestDashboardService_Load(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.CreateTransaction(ctx, expense(3000, "Food", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = store.CreateTransaction(ctx, expense(2000, "Food", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = store.SetBudget(ctx, core.Budget{Category: "Food", Amount: core.Money{Cents: 10000}, Month: 1, Year: 2024})
	require.NoError(t, err)

	svc := NewDashboardService(store, store)
	dash, err := svc.Load(ctx, 1, 2024)
	require.NoError(t, err)

	assert.Equal(t, int64(5000), dash.Totals.Expenses.Cents)
	assert.Equal(t, int64(-5000), dash.Totals.Net.Cents)

	require.Len(t, dash.Reconciliation, 1)
	assert.Equal(t, "Food", dash.Reconciliation[0].Category)
	assert.Equal(t, int64(10000), dash.Reconciliation[0].Budgeted.Cents)
	assert.Equal(t, int64(3000), dash.Reconciliation[0].Actual.Cents)

	require.Len(t, dash.Series, 2)
	assert.Equal(t, "2024-01", dash.Series[0].Key)
	assert.Equal(t, "2024-02", dash.Series[1].Key)

	require.NotEmpty(t, dash.Insights)
	assert.Equal(t, "You are $70.00 under budget this month (January 2024)!", dash.Insights[0])
}

func TestDashboardService_EmptyStores(t *testing.T) {
	store := memory.New()
	svc := NewDashboardService(store, store)

	dash, err := svc.Load(context.Background(), 1, 2024)
	require.NoError(t, err)

	assert.Zero(t, dash.Totals.Income.Cents)
	assert.Empty(t, dash.Breakdown)
	assert.Empty(t, dash.Series)
	assert.Empty(t, dash.Reconciliation)
	require.Len(t, dash.Insights, 1)
	assert.Equal(t, "Set some budgets for January 2024 to get spending insights!", dash.Insights[0])
}

func TestArchiveProcessor_ArchiveMonth(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.CreateTransaction(ctx, expense(3000, "Food", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = store.CreateTransaction(ctx, expense(9999, "Transport", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = store.SetBudget(ctx, core.Budget{Category: "Food", Amount: core.Money{Cents: 10000}, Month: 1, Year: 2024})
	require.NoError(t, err)

	p := NewArchiveProcessor(store, store, store)
	require.NoError(t, p.ArchiveMonth(ctx, 1, 2024))

	archive, ok := store.MonthlyArchive("2024-01")
	require.True(t, ok)
	assert.Equal(t, 2024, archive.Year)
	assert.Equal(t, 1, archive.Month)
	assert.Equal(t, int64(3000), archive.Totals.Expenses.Cents)
	require.Len(t, archive.Breakdown, 1)
	assert.Equal(t, "Food", archive.Breakdown[0].Name)
	require.Len(t, archive.Reconciliation, 1)
	assert.Equal(t, int64(10000), archive.Reconciliation[0].Budgeted.Cents)
	assert.False(t, archive.ArchivedAt.IsZero())
}

func TestArchiveProcessor_RejectsBadMonth(t *testing.T) {
	store := memory.New()
	p := NewArchiveProcessor(store, store, store)
	assert.Error(t, p.ArchiveMonth(context.Background(), 13, 2024))
}

func TestArchiveProcessor_PreviousMonth(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	_, err := store.CreateTransaction(ctx, expense(4200, "Food", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	p := NewArchiveProcessor(store, store, store)
	p.now = func() time.Time { return time.Date(2024, 2, 1, 5, 0, 0, 0, time.UTC) }

	require.NoError(t, p.ArchivePreviousMonth(ctx))

	archive, ok := store.MonthlyArchive("2024-01")
	require.True(t, ok)
	assert.Equal(t, int64(4200), archive.Totals.Expenses.Cents)
}
