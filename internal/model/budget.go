package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidLimit is returned when a budget limit is not strictly positive.
var ErrInvalidLimit = errors.New("budget monthly limit must be positive")

// Budget is a monthly spending cap for one category. Current spending is
// always derived from the category's expenses, never stored.
type Budget struct {
	Month        time.Time // first instant of the month
	MonthlyLimit decimal.Decimal
	ID           string
	Notes        string
	Category     Category
	IsDemo       bool
}

// NewBudget validates the limit and normalizes month to its first instant.
func NewBudget(category Category, limit decimal.Decimal, month time.Time, notes string, isDemo bool) (*Budget, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}
	return &Budget{
		ID:           uuid.NewString(),
		Category:     category,
		MonthlyLimit: limit,
		Month:        StartOfMonth(month),
		Notes:        notes,
		IsDemo:       isDemo,
	}, nil
}

// ValidateLimit checks that limit > 0.
func ValidateLimit(limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return fmt.Errorf("%w, got %s", ErrInvalidLimit, limit.String())
	}
	return nil
}

// Window returns the budget month as a half-open interval.
func (b Budget) Window() (start, end time.Time) {
	start = StartOfMonth(b.Month)
	return start, start.AddDate(0, 1, 0)
}
