package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a single recorded outflow. Every expense belongs to exactly one
// category.
type Expense struct {
	Date      time.Time
	CreatedAt time.Time
	Amount    decimal.Decimal
	ID        string
	Notes     string
	Category  Category
	IsDemo    bool
}

// NewExpense creates an expense with a fresh ID. The amount is not validated
// here; input paths reject non-positive amounts.
func NewExpense(amount decimal.Decimal, date time.Time, notes string, category Category, isDemo bool) Expense {
	return Expense{
		ID:       uuid.NewString(),
		Amount:   amount,
		Date:     date,
		Notes:    notes,
		Category: category,
		IsDemo:   isDemo,
	}
}

// NormalizedNotes returns the notes trimmed and lowercased, used for duplicate
// detection.
func (e Expense) NormalizedNotes() string {
	return NormalizeNotes(e.Notes)
}

// NormalizeNotes trims and lowercases free text notes.
func NormalizeNotes(notes string) string {
	return strings.ToLower(strings.TrimSpace(notes))
}
