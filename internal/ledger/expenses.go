package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/filter"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// ExpenseInput describes a new expense. A zero Date means now.
type ExpenseInput struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category string
	Notes    string
}

// ExpenseUpdate lists the fields to change; nil fields are kept.
type ExpenseUpdate struct {
	Date     *time.Time
	Amount   *decimal.Decimal
	Category *string
	Notes    *string
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w, got %s", ErrInvalidAmount, amount.String())
	}
	return nil
}

// AddExpense records a new expense in an existing category.
func (s *Service) AddExpense(ctx context.Context, in ExpenseInput) (*model.Expense, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	cat, err := s.FindCategory(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.Now()
	}

	expense := model.NewExpense(in.Amount, date, in.Notes, *cat, false)
	if err := s.store.SaveExpense(ctx, &expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	return &expense, nil
}

// UpdateExpense edits an expense in place.
func (s *Service) UpdateExpense(ctx context.Context, id string, upd ExpenseUpdate) (*model.Expense, error) {
	expense, err := s.store.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}

	if upd.Amount != nil {
		if err := validateAmount(*upd.Amount); err != nil {
			return nil, err
		}
		expense.Amount = *upd.Amount
	}
	if upd.Date != nil {
		expense.Date = *upd.Date
	}
	if upd.Notes != nil {
		expense.Notes = *upd.Notes
	}
	if upd.Category != nil {
		cat, err := s.FindCategory(ctx, *upd.Category)
		if err != nil {
			return nil, err
		}
		expense.Category = *cat
	}

	if err := s.store.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes an expense.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// ListExpenses returns the expenses matching criteria, newest first.
func (s *Service) ListExpenses(ctx context.Context, criteria filter.Criteria) ([]model.Expense, error) {
	expenses, err := s.store.GetExpenses(ctx, service.ExpenseQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return filter.Apply(expenses, criteria), nil
}
