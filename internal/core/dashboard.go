package core

import (
	"fmt"
	"sort"
	"time"
)

// The dashboard engine is a read-only projection over snapshots of the two
// stores. Every function here is pure: no I/O, no mutation of inputs, and
// calling one twice on the same inputs yields identical output. Malformed
// records degrade per-record (an unknown type is skipped, a missing category
// becomes FallbackCategory); they never abort the whole computation.

const (
	monthKeyLayout   = "2006-01"
	monthLabelLayout = "Jan 2006"
	monthNameLayout  = "January 2006"
)

// ComputeTotals sums income and expenses across all transactions.
// Transactions with an unrecognized type count toward neither side.
func ComputeTotals(transactions []Transaction) Totals {
	var income, expenses int64
	for _, t := range transactions {
		switch t.Type {
		case Expense:
			expenses += t.Amount.Cents
		case Income:
			income += t.Amount.Cents
		}
	}
	return Totals{
		Income:   Money{Cents: income},
		Expenses: Money{Cents: expenses},
		Net:      Money{Cents: income - expenses},
	}
}

// ComputeCategoryBreakdown groups expense amounts by category, descending by
// value. Ties keep first-encountered order. Expenses without a category are
// attributed to FallbackCategory.
func ComputeCategoryBreakdown(transactions []Transaction) []CategoryValue {
	sums := make(map[string]int64)
	var order []string
	for _, t := range transactions {
		if t.Type != Expense {
			continue
		}
		category := t.Category
		if category == "" {
			category = FallbackCategory
		}
		if _, seen := sums[category]; !seen {
			order = append(order, category)
		}
		sums[category] += t.Amount.Cents
	}

	breakdown := make([]CategoryValue, 0, len(order))
	for _, name := range order {
		breakdown = append(breakdown, CategoryValue{Name: name, Value: Money{Cents: sums[name]}})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Value.Cents > breakdown[j].Value.Cents
	})
	return breakdown
}

// ComputeMonthlySeries groups expense amounts by calendar month of the
// transaction date and returns the buckets in chronological order. The
// zero-padded "YYYY-MM" key sorts lexicographically, which matches
// chronological order.
func ComputeMonthlySeries(transactions []Transaction) []MonthBucket {
	sums := make(map[string]int64)
	for _, t := range transactions {
		if t.Type != Expense {
			continue
		}
		sums[t.Date.Format(monthKeyLayout)] += t.Amount.Cents
	}

	keys := make([]string, 0, len(sums))
	for key := range sums {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]MonthBucket, 0, len(keys))
	for _, key := range keys {
		series = append(series, MonthBucket{
			Key:      key,
			Label:    monthLabel(key),
			Expenses: Money{Cents: sums[key]},
		})
	}
	return series
}

// ComputeBudgetReconciliation compares budgeted and actual spending per
// category for the reference month. The category universe is the union of
// the fixed expense vocabulary and every category observed in the reference
// month's actual expenses; rows where both sides are zero are dropped.
func ComputeBudgetReconciliation(transactions []Transaction, budgets []Budget, month, year int) []BudgetComparison {
	actual := make(map[string]int64)
	var extra []string // observed categories outside the fixed vocabulary
	fixed := make(map[string]bool, len(ExpenseCategories))
	for _, name := range ExpenseCategories {
		fixed[name] = true
	}
	for _, t := range transactions {
		if t.Type != Expense || !t.InMonth(month, year) {
			continue
		}
		category := t.Category
		if category == "" {
			category = FallbackCategory
		}
		if _, seen := actual[category]; !seen && !fixed[category] {
			extra = append(extra, category)
		}
		actual[category] += t.Amount.Cents
	}

	budgeted := make(map[string]int64)
	for _, b := range budgets {
		if b.Month == month && b.Year == year {
			budgeted[b.Category] = b.Amount.Cents
		}
	}

	var rows []BudgetComparison
	appendRow := func(category string) {
		budget, spent := budgeted[category], actual[category]
		if budget <= 0 && spent <= 0 {
			return
		}
		rows = append(rows, BudgetComparison{
			Category: category,
			Budgeted: Money{Cents: budget},
			Actual:   Money{Cents: spent},
		})
	}
	for _, category := range ExpenseCategories {
		appendRow(category)
	}
	for _, category := range extra {
		appendRow(category)
	}
	return rows
}

// GenerateInsights derives the ordered list of human-readable spending
// insights for the reference month. Three rules run in a fixed order:
//
//  1. Budget status — always emits exactly one message. Whole-month budget
//     and spending totals are compared flat, independently of the
//     per-category reconciliation.
//  2. Top category — emitted only when the breakdown is non-empty.
//  3. Month-over-month trend — emitted only when the series has at least
//     two buckets; compares the last two.
func GenerateInsights(transactions []Transaction, budgets []Budget, breakdown []CategoryValue, series []MonthBucket, month, year int) []string {
	var insights []string
	monthName := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format(monthNameLayout)

	var totalBudget, totalActual int64
	for _, b := range budgets {
		if b.Month == month && b.Year == year {
			totalBudget += b.Amount.Cents
		}
	}
	for _, t := range transactions {
		if t.Type == Expense && t.InMonth(month, year) {
			totalActual += t.Amount.Cents
		}
	}

	switch difference := totalBudget - totalActual; {
	case totalBudget == 0:
		insights = append(insights, fmt.Sprintf("Set some budgets for %s to get spending insights!", monthName))
	case difference > 0:
		insights = append(insights, fmt.Sprintf("You are %s under budget this month (%s)!", FormatUSD(difference), monthName))
	case difference < 0:
		insights = append(insights, fmt.Sprintf("You are %s over budget this month (%s). Consider reviewing your spending.", FormatUSD(-difference), monthName))
	default:
		insights = append(insights, fmt.Sprintf("You are exactly on budget this month (%s). Great job!", monthName))
	}

	if len(breakdown) > 0 {
		top := breakdown[0]
		insights = append(insights, fmt.Sprintf("Your top expense category is %q (%s) this month.", top.Name, FormatUSD(top.Value.Cents)))
	}

	if len(series) >= 2 {
		previous := series[len(series)-2]
		latest := series[len(series)-1]
		delta := latest.Expenses.Cents - previous.Expenses.Cents
		switch {
		case delta > 0:
			insights = append(insights, fmt.Sprintf("Your spending increased by %s from %s to %s.", FormatUSD(delta), previous.Label, latest.Label))
		case delta < 0:
			insights = append(insights, fmt.Sprintf("Your spending decreased by %s from %s to %s.", FormatUSD(-delta), previous.Label, latest.Label))
		default:
			insights = append(insights, fmt.Sprintf("Your spending remained consistent between %s and %s.", previous.Label, latest.Label))
		}
	}

	return insights
}

func monthLabel(key string) string {
	t, err := time.Parse(monthKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format(monthLabelLayout)
}
