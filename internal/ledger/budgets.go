package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/aggregate"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// BudgetInput describes a new budget. A zero Month means the current month.
type BudgetInput struct {
	Month    time.Time
	Limit    decimal.Decimal
	Category string
	Notes    string
}

// BudgetUpdate lists the fields to change; nil fields are kept.
type BudgetUpdate struct {
	Month    *time.Time
	Limit    *decimal.Decimal
	Category *string
	Notes    *string
}

// BudgetStatus is a budget with its progress for its month. Duplicate is set
// when another budget covers the same category and month.
type BudgetStatus struct {
	Progress  aggregate.Progress
	Budget    model.Budget
	Duplicate bool
}

// CreateBudget stores a new monthly budget.
func (s *Service) CreateBudget(ctx context.Context, in BudgetInput) (*model.Budget, error) {
	cat, err := s.FindCategory(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	month := in.Month
	if month.IsZero() {
		month = s.Now()
	}

	budget, err := model.NewBudget(*cat, in.Limit, month.In(s.loc), in.Notes, false)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	return budget, nil
}

// UpdateBudget edits a budget in place.
func (s *Service) UpdateBudget(ctx context.Context, id string, upd BudgetUpdate) (*model.Budget, error) {
	budget, err := s.store.GetBudgetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	if upd.Limit != nil {
		if err := model.ValidateLimit(*upd.Limit); err != nil {
			return nil, err
		}
		budget.MonthlyLimit = *upd.Limit
	}
	if upd.Month != nil {
		budget.Month = model.StartOfMonth(upd.Month.In(s.loc))
	}
	if upd.Notes != nil {
		budget.Notes = *upd.Notes
	}
	if upd.Category != nil {
		cat, err := s.FindCategory(ctx, *upd.Category)
		if err != nil {
			return nil, err
		}
		budget.Category = *cat
	}

	if err := s.store.SaveBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	return budget, nil
}

// DeleteBudget removes a budget.
func (s *Service) DeleteBudget(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// BudgetStatuses evaluates every budget, or only those of the month containing
// *month when it is set. Results are ordered by percentage used, highest
// first. Progress is recomputed from the expenses on every call.
func (s *Service) BudgetStatuses(ctx context.Context, month *time.Time) ([]BudgetStatus, error) {
	budgets, err := s.store.GetBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	for i := range budgets {
		budgets[i].Month = budgets[i].Month.In(s.loc)
	}

	if month != nil {
		want := model.StartOfMonth(month.In(s.loc))
		kept := budgets[:0]
		for _, b := range budgets {
			if model.StartOfMonth(b.Month).Equal(want) {
				kept = append(kept, b)
			}
		}
		budgets = kept
	}

	if len(budgets) == 0 {
		return []BudgetStatus{}, nil
	}

	expenses, err := s.store.GetExpenses(ctx, service.ExpenseQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	byCategory := make(map[int64][]model.Expense)
	for _, e := range expenses {
		byCategory[e.Category.ID] = append(byCategory[e.Category.ID], e)
	}

	type slot struct {
		month    int64
		category int64
	}
	counts := make(map[slot]int, len(budgets))
	for _, b := range budgets {
		counts[slot{month: b.Month.Unix(), category: b.Category.ID}]++
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, BudgetStatus{
			Budget:    b,
			Progress:  aggregate.Evaluate(b, byCategory[b.Category.ID]),
			Duplicate: counts[slot{month: b.Month.Unix(), category: b.Category.ID}] > 1,
		})
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Progress.Percentage > statuses[j].Progress.Percentage
	})
	return statuses, nil
}
