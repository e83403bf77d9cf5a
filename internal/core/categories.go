package core

// FallbackCategory is attributed to expense transactions that carry no
// category of their own.
const FallbackCategory = "Other"

// ExpenseCategories is the fixed expense vocabulary offered by the UI.
// Transactions may still carry free-form categories; the dashboard unions
// this list with whatever it observes in actual spending.
var ExpenseCategories = []string{
	"Food",
	"Transport",
	"Housing",
	"Utilities",
	"Entertainment",
	"Shopping",
	"Health",
	"Education",
	"Other",
}

// IncomeCategories is the fixed income vocabulary offered by the UI.
var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Investments",
	"Gift",
	"Other Income",
}
