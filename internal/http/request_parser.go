// Package http exposes the JSON REST API.
//
// All request validation happens here, at the boundary. Typed request
// structs collect every field violation before any data reaches the
// services or the aggregation engine.
package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const dateLayout = "2006-01-02"

// MonthParams holds the reference month parsed from query parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters, using the
// current calendar month as the default reference.
func ParseMonthParams(query url.Values) (MonthParams, []string) {
	now := time.Now()
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}
	var violations []string

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 {
			violations = append(violations, fmt.Sprintf("year: invalid value %q", v))
		} else {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			violations = append(violations, fmt.Sprintf("month: invalid value %q, must be 1-12", v))
		} else {
			params.Month = m
		}
	}

	return params, violations
}

type createTransactionRequest struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
}

// Validate returns every field violation, empty when the request is valid.
func (r createTransactionRequest) Validate() []string {
	var violations []string

	if r.Amount <= 0 {
		violations = append(violations, "amount: must be greater than zero")
	}
	if _, err := parseDate(r.Date); err != nil {
		violations = append(violations, fmt.Sprintf("date: %v", err))
	}
	if strings.TrimSpace(r.Description) == "" {
		violations = append(violations, "description: must not be empty")
	} else if len(r.Description) > 200 {
		violations = append(violations, "description: too long (max 200 characters)")
	}
	if !core.TransactionType(r.Type).IsValid() {
		violations = append(violations, fmt.Sprintf("type: must be %q or %q", core.Expense, core.Income))
	}
	if strings.TrimSpace(r.Category) == "" {
		violations = append(violations, "category: must not be empty")
	}

	return violations
}

// toTransaction converts a validated request. Call Validate first.
func (r createTransactionRequest) toTransaction() core.Transaction {
	date, _ := parseDate(r.Date)
	return core.Transaction{
		Amount:      core.Money{Cents: core.CentsFromFloat(r.Amount)},
		Date:        date,
		Description: strings.TrimSpace(r.Description),
		Type:        core.TransactionType(r.Type),
		Category:    strings.TrimSpace(r.Category),
	}
}

type updateTransactionRequest struct {
	Amount      *float64 `json:"amount"`
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	Category    *string  `json:"category"`
}

func (r updateTransactionRequest) Validate() []string {
	var violations []string

	if r.Amount == nil && r.Date == nil && r.Description == nil && r.Type == nil && r.Category == nil {
		return []string{"body: no updatable fields provided"}
	}
	if r.Amount != nil && *r.Amount <= 0 {
		violations = append(violations, "amount: must be greater than zero")
	}
	if r.Date != nil {
		if _, err := parseDate(*r.Date); err != nil {
			violations = append(violations, fmt.Sprintf("date: %v", err))
		}
	}
	if r.Description != nil {
		if strings.TrimSpace(*r.Description) == "" {
			violations = append(violations, "description: must not be empty")
		} else if len(*r.Description) > 200 {
			violations = append(violations, "description: too long (max 200 characters)")
		}
	}
	if r.Type != nil && !core.TransactionType(*r.Type).IsValid() {
		violations = append(violations, fmt.Sprintf("type: must be %q or %q", core.Expense, core.Income))
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		violations = append(violations, "category: must not be empty")
	}

	return violations
}

// toUpdate converts a validated request. Call Validate first.
func (r updateTransactionRequest) toUpdate() storage.TransactionUpdate {
	var update storage.TransactionUpdate
	if r.Amount != nil {
		cents := core.CentsFromFloat(*r.Amount)
		update.AmountCents = &cents
	}
	if r.Date != nil {
		date, _ := parseDate(*r.Date)
		update.Date = &date
	}
	if r.Description != nil {
		trimmed := strings.TrimSpace(*r.Description)
		update.Description = &trimmed
	}
	if r.Type != nil {
		t := core.TransactionType(*r.Type)
		update.Type = &t
	}
	if r.Category != nil {
		trimmed := strings.TrimSpace(*r.Category)
		update.Category = &trimmed
	}
	return update
}

type budgetRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
}

func (r budgetRequest) Validate() []string {
	var violations []string

	if strings.TrimSpace(r.Category) == "" {
		violations = append(violations, "category: must not be empty")
	}
	if r.Amount < 0 {
		violations = append(violations, "amount: must not be negative")
	}
	if r.Month < 1 || r.Month > 12 {
		violations = append(violations, fmt.Sprintf("month: invalid value %d, must be 1-12", r.Month))
	}
	if r.Year < 2000 {
		violations = append(violations, fmt.Sprintf("year: invalid value %d, must be >= 2000", r.Year))
	}

	return violations
}

func (r budgetRequest) toBudget() core.Budget {
	return core.Budget{
		Category: strings.TrimSpace(r.Category),
		Amount:   core.Money{Cents: core.CentsFromFloat(r.Amount)},
		Month:    r.Month,
		Year:     r.Year,
	}
}

// parseDate accepts "2006-01-02" and RFC 3339 timestamps.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("must not be empty")
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid value %q, want YYYY-MM-DD", value)
}
