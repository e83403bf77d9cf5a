package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(txType TransactionType, cents int64, category string, date time.Time) Transaction {
	return Transaction{
		Amount:      Money{Cents: cents},
		Date:        date,
		Description: "test",
		Type:        txType,
		Category:    category,
	}
}

func day(year, month, d int) time.Time {
	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func TestComputeTotals(t *testing.T) {
	t.Run("income and expenses", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 5000, "Food", day(2024, 1, 5)),
			tx(Income, 100000, "Salary", day(2024, 1, 1)),
		}
		totals := ComputeTotals(transactions)
		assert.Equal(t, int64(100000), totals.Income.Cents)
		assert.Equal(t, int64(5000), totals.Expenses.Cents)
		assert.Equal(t, int64(95000), totals.Net.Cents)
	})

	t.Run("empty input is all zero", func(t *testing.T) {
		assert.Equal(t, Totals{}, ComputeTotals(nil))
	})

	t.Run("unrecognized type counts toward neither side", func(t *testing.T) {
		transactions := []Transaction{
			tx("transfer", 5000, "Food", day(2024, 1, 5)),
			tx(Income, 1000, "Salary", day(2024, 1, 1)),
		}
		totals := ComputeTotals(transactions)
		assert.Equal(t, int64(1000), totals.Income.Cents)
		assert.Zero(t, totals.Expenses.Cents)
	})

	t.Run("net identity holds", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 1234, "Food", day(2024, 1, 1)),
			tx(Expense, 8766, "Transport", day(2024, 2, 1)),
			tx(Income, 99, "Gift", day(2024, 3, 1)),
		}
		totals := ComputeTotals(transactions)
		assert.Equal(t, totals.Income.Cents-totals.Expenses.Cents, totals.Net.Cents)
	})
}

func TestComputeCategoryBreakdown(t *testing.T) {
	t.Run("sorted descending with stable ties", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 1000, "Transport", day(2024, 1, 2)),
			tx(Expense, 3000, "Food", day(2024, 1, 3)),
			tx(Expense, 1000, "Health", day(2024, 1, 4)),
			tx(Income, 500000, "Salary", day(2024, 1, 1)),
		}
		breakdown := ComputeCategoryBreakdown(transactions)
		require.Len(t, breakdown, 3)
		assert.Equal(t, "Food", breakdown[0].Name)
		// Transport and Health tie at 1000; first-encountered order wins.
		assert.Equal(t, "Transport", breakdown[1].Name)
		assert.Equal(t, "Health", breakdown[2].Name)
	})

	t.Run("missing category becomes Other", func(t *testing.T) {
		breakdown := ComputeCategoryBreakdown([]Transaction{
			tx(Expense, 700, "", day(2024, 1, 1)),
		})
		require.Len(t, breakdown, 1)
		assert.Equal(t, "Other", breakdown[0].Name)
	})

	t.Run("empty input yields empty breakdown", func(t *testing.T) {
		assert.Empty(t, ComputeCategoryBreakdown(nil))
	})

	t.Run("values sum to total expenses", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 1050, "Food", day(2024, 1, 1)),
			tx(Expense, 2075, "Food", day(2024, 2, 1)),
			tx(Expense, 399, "Shopping", day(2024, 3, 1)),
			tx(Income, 10000, "Salary", day(2024, 1, 1)),
		}
		var sum int64
		for _, cv := range ComputeCategoryBreakdown(transactions) {
			sum += cv.Value.Cents
		}
		assert.Equal(t, ComputeTotals(transactions).Expenses.Cents, sum)
	})
}

func TestComputeMonthlySeries(t *testing.T) {
	t.Run("buckets sorted chronologically", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 2000, "Food", day(2024, 2, 10)),
			tx(Expense, 1000, "Food", day(2023, 12, 25)),
			tx(Expense, 3000, "Transport", day(2024, 1, 5)),
			tx(Expense, 500, "Food", day(2024, 1, 20)),
		}
		series := ComputeMonthlySeries(transactions)
		require.Len(t, series, 3)
		assert.Equal(t, "2023-12", series[0].Key)
		assert.Equal(t, "2024-01", series[1].Key)
		assert.Equal(t, "2024-02", series[2].Key)
		assert.Equal(t, "Dec 2023", series[0].Label)
		assert.Equal(t, "Jan 2024", series[1].Label)
		assert.Equal(t, int64(3500), series[1].Expenses.Cents)
		for i := 1; i < len(series); i++ {
			assert.Less(t, series[i-1].Key, series[i].Key)
		}
	})

	t.Run("income never contributes", func(t *testing.T) {
		series := ComputeMonthlySeries([]Transaction{
			tx(Income, 100000, "Salary", day(2024, 1, 1)),
		})
		assert.Empty(t, series)
	})
}

func TestComputeBudgetReconciliation(t *testing.T) {
	t.Run("scenario: budget with partial spending", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 3000, "Food", day(2024, 1, 1)),
			tx(Expense, 2000, "Food", day(2024, 2, 1)), // outside reference month
		}
		budgets := []Budget{
			{Category: "Food", Amount: Money{Cents: 10000}, Month: 1, Year: 2024},
		}
		rows := ComputeBudgetReconciliation(transactions, budgets, 1, 2024)
		require.Len(t, rows, 1)
		assert.Equal(t, BudgetComparison{
			Category: "Food",
			Budgeted: Money{Cents: 10000},
			Actual:   Money{Cents: 3000},
		}, rows[0])
	})

	t.Run("never includes a both-zero category", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 100, "Food", day(2024, 1, 1)),
		}
		budgets := []Budget{
			{Category: "Transport", Amount: Money{Cents: 0}, Month: 1, Year: 2024},
			{Category: "Health", Amount: Money{Cents: 5000}, Month: 2, Year: 2024}, // other month
		}
		for _, row := range ComputeBudgetReconciliation(transactions, budgets, 1, 2024) {
			assert.True(t, row.Budgeted.Cents > 0 || row.Actual.Cents > 0,
				"category %s has both sides zero", row.Category)
		}
	})

	t.Run("union covers free-form categories", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 4200, "Pet Supplies", day(2024, 1, 10)),
		}
		rows := ComputeBudgetReconciliation(transactions, nil, 1, 2024)
		require.Len(t, rows, 1)
		assert.Equal(t, "Pet Supplies", rows[0].Category)
		assert.Zero(t, rows[0].Budgeted.Cents)
		assert.Equal(t, int64(4200), rows[0].Actual.Cents)
	})

	t.Run("budget with no spending still listed", func(t *testing.T) {
		budgets := []Budget{
			{Category: "Entertainment", Amount: Money{Cents: 2500}, Month: 6, Year: 2025},
		}
		rows := ComputeBudgetReconciliation(nil, budgets, 6, 2025)
		require.Len(t, rows, 1)
		assert.Equal(t, "Entertainment", rows[0].Category)
		assert.Zero(t, rows[0].Actual.Cents)
	})
}

func TestGenerateInsights(t *testing.T) {
	t.Run("under budget", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 3000, "Food", day(2024, 1, 1)),
			tx(Expense, 2000, "Food", day(2024, 2, 1)),
		}
		budgets := []Budget{
			{Category: "Food", Amount: Money{Cents: 10000}, Month: 1, Year: 2024},
		}
		breakdown := ComputeCategoryBreakdown(transactions)
		series := ComputeMonthlySeries(transactions)
		insights := GenerateInsights(transactions, budgets, breakdown, series, 1, 2024)
		require.NotEmpty(t, insights)
		assert.Equal(t, "You are $70.00 under budget this month (January 2024)!", insights[0])
	})

	t.Run("over budget", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 15000, "Food", day(2024, 3, 4)),
		}
		budgets := []Budget{
			{Category: "Food", Amount: Money{Cents: 10000}, Month: 3, Year: 2024},
		}
		insights := GenerateInsights(transactions, budgets, nil, nil, 3, 2024)
		require.NotEmpty(t, insights)
		assert.Equal(t, "You are $50.00 over budget this month (March 2024). Consider reviewing your spending.", insights[0])
	})

	t.Run("exactly on budget", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 10000, "Food", day(2024, 3, 4)),
		}
		budgets := []Budget{
			{Category: "Food", Amount: Money{Cents: 10000}, Month: 3, Year: 2024},
		}
		insights := GenerateInsights(transactions, budgets, nil, nil, 3, 2024)
		require.NotEmpty(t, insights)
		assert.Contains(t, insights[0], "exactly on budget")
	})

	t.Run("no budgets prompts without overage message", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 4000, "Food", day(2024, 1, 15)),
		}
		insights := GenerateInsights(transactions, nil, nil, nil, 1, 2024)
		require.Len(t, insights, 1)
		assert.Equal(t, "Set some budgets for January 2024 to get spending insights!", insights[0])
	})

	t.Run("top category rule", func(t *testing.T) {
		transactions := []Transaction{
			tx(Expense, 5000, "Food", day(2024, 1, 5)),
			tx(Expense, 2000, "Transport", day(2024, 1, 6)),
		}
		breakdown := ComputeCategoryBreakdown(transactions)
		insights := GenerateInsights(transactions, nil, breakdown, nil, 1, 2024)
		require.Len(t, insights, 2)
		assert.Equal(t, `Your top expense category is "Food" ($50.00) this month.`, insights[1])
	})

	t.Run("trend increased", func(t *testing.T) {
		series := []MonthBucket{
			{Key: "2023-12", Label: "Dec 2023", Expenses: Money{Cents: 10000}},
			{Key: "2024-01", Label: "Jan 2024", Expenses: Money{Cents: 15000}},
		}
		insights := GenerateInsights(nil, nil, nil, series, 1, 2024)
		require.Len(t, insights, 2)
		assert.Equal(t, "Your spending increased by $50.00 from Dec 2023 to Jan 2024.", insights[1])
	})

	t.Run("trend decreased and consistent", func(t *testing.T) {
		down := []MonthBucket{
			{Key: "2023-12", Label: "Dec 2023", Expenses: Money{Cents: 15000}},
			{Key: "2024-01", Label: "Jan 2024", Expenses: Money{Cents: 10000}},
		}
		insights := GenerateInsights(nil, nil, nil, down, 1, 2024)
		require.Len(t, insights, 2)
		assert.Equal(t, "Your spending decreased by $50.00 from Dec 2023 to Jan 2024.", insights[1])

		flat := []MonthBucket{
			{Key: "2023-12", Label: "Dec 2023", Expenses: Money{Cents: 10000}},
			{Key: "2024-01", Label: "Jan 2024", Expenses: Money{Cents: 10000}},
		}
		insights = GenerateInsights(nil, nil, nil, flat, 1, 2024)
		require.Len(t, insights, 2)
		assert.Equal(t, "Your spending remained consistent between Dec 2023 and Jan 2024.", insights[1])
	})

	t.Run("single bucket suppresses the trend rule", func(t *testing.T) {
		series := []MonthBucket{
			{Key: "2024-01", Label: "Jan 2024", Expenses: Money{Cents: 10000}},
		}
		insights := GenerateInsights(nil, nil, nil, series, 1, 2024)
		assert.Len(t, insights, 1)
	})

	t.Run("everything empty yields only the budget prompt", func(t *testing.T) {
		insights := GenerateInsights(nil, nil, nil, nil, 1, 2024)
		require.Len(t, insights, 1)
		assert.Contains(t, insights[0], "Set some budgets")
	})
}

// Full dashboard pass over empty stores: every output degrades gracefully.
func TestDashboardEmptyInputs(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil))
	assert.Empty(t, ComputeCategoryBreakdown(nil))
	assert.Empty(t, ComputeMonthlySeries(nil))
	assert.Empty(t, ComputeBudgetReconciliation(nil, nil, 1, 2024))
	insights := GenerateInsights(nil, nil, nil, nil, 1, 2024)
	assert.Len(t, insights, 1)
}

// The engine is pure: repeated invocations never disagree and never mutate
// their inputs.
func TestDashboardIdempotence(t *testing.T) {
	transactions := []Transaction{
		tx(Expense, 3000, "Food", day(2024, 1, 1)),
		tx(Expense, 2000, "Transport", day(2024, 2, 1)),
		tx(Income, 50000, "Salary", day(2024, 1, 1)),
	}
	budgets := []Budget{
		{Category: "Food", Amount: Money{Cents: 10000}, Month: 1, Year: 2024},
	}

	first := ComputeBudgetReconciliation(transactions, budgets, 1, 2024)
	second := ComputeBudgetReconciliation(transactions, budgets, 1, 2024)
	assert.Equal(t, first, second)

	breakdown := ComputeCategoryBreakdown(transactions)
	series := ComputeMonthlySeries(transactions)
	assert.Equal(t,
		GenerateInsights(transactions, budgets, breakdown, series, 1, 2024),
		GenerateInsights(transactions, budgets, breakdown, series, 1, 2024))

	assert.Equal(t, "Food", transactions[0].Category)
	assert.Equal(t, int64(10000), budgets[0].Amount.Cents)
}
