package core

// Totals is the headline summary across all transactions.
type Totals struct {
	Income   Money
	Expenses Money
	Net      Money
}

// CategoryValue is an expense amount aggregated by category name.
type CategoryValue struct {
	Name  string
	Value Money
}

// MonthBucket is the expense total for one calendar month. Key is the
// zero-padded "YYYY-MM" bucket that drives chronological ordering; Label
// is the display string ("Jan 2024").
type MonthBucket struct {
	Key      string
	Label    string
	Expenses Money
}

// BudgetComparison is one row of the budget-vs-actual view for the
// reference month.
type BudgetComparison struct {
	Category string
	Budgeted Money
	Actual   Money
}
