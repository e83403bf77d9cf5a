package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is a single dated money movement, either expense or income.
	Transaction struct {
		ID          string
		Amount      Money
		Date        time.Time
		Description string
		Type        TransactionType
		Category    string
	}

	// Budget is an allocated spending limit for one category in one
	// specific month/year. The (Category, Month, Year) triple is unique
	// in storage.
	Budget struct {
		Category string
		Amount   Money
		Month    int // 1-12
		Year     int // >= 2000
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// IsValid reports whether the type is one of the two recognized values.
func (t TransactionType) IsValid() bool {
	return t == Expense || t == Income
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	// A zero allocation and an absent record mean the same thing to the
	// dashboard, so zero amounts are allowed.
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 2000 {
		return ErrInvalidYear
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// InMonth reports whether the transaction's calendar date falls inside the
// given month/year. The bucket comes from the transaction date, never from
// creation or update timestamps.
func (t Transaction) InMonth(month, year int) bool {
	return int(t.Date.Month()) == month && t.Date.Year() == year
}
