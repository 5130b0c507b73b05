package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/model"
)

// Demo data volume.
const (
	MinDemoExpenses = 80
	MaxDemoExpenses = 120
)

var demoNotes = []string{
	"Coffee and pastry",
	"Grocery shopping",
	"Gas station fill-up",
	"Restaurant dinner",
	"Online shopping",
	"Pharmacy pickup",
	"Movie tickets",
	"Lunch with colleagues",
	"Weekend groceries",
	"Car maintenance",
	"Streaming subscription",
	"Phone bill",
	"Internet service",
	"Gym membership",
	"Haircut",
	"Book purchase",
	"Home supplies",
	"Pet food",
	"Clothing purchase",
	"Birthday gift",
	"", "", "",
}

type amountRange struct {
	keywords []string
	min, max float64
}

var demoAmounts = []amountRange{
	{keywords: []string{"food", "restaurant", "dining"}, min: 8, max: 45},
	{keywords: []string{"transport", "gas", "fuel"}, min: 25, max: 85},
	{keywords: []string{"shopping", "retail"}, min: 15, max: 120},
	{keywords: []string{"entertainment", "movie", "game"}, min: 10, max: 35},
	{keywords: []string{"health", "medical", "pharmacy"}, min: 15, max: 75},
	{keywords: []string{"utility", "bill", "subscription"}, min: 25, max: 150},
	{keywords: []string{"travel", "hotel"}, min: 50, max: 300},
	{keywords: []string{"education", "book"}, min: 20, max: 80},
}

// demoAmountRange returns the plausible spend range for a category name.
func demoAmountRange(category string) (float64, float64) {
	name := strings.ToLower(category)
	for _, r := range demoAmounts {
		for _, kw := range r.keywords {
			if strings.Contains(name, kw) {
				return r.min, r.max
			}
		}
	}
	return 10, 100
}

// SeedDemo inserts random demo expenses spread over the past year. When demo
// data already exists nothing is added and the existing count is returned.
func (s *Service) SeedDemo(ctx context.Context) (int, error) {
	existing, err := s.store.CountDemoExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count demo expenses: %w", err)
	}
	if existing > 0 {
		slog.Info("Demo data already present", "count", existing)
		return existing, nil
	}

	if err := s.Init(ctx); err != nil {
		return 0, err
	}
	all, err := s.Categories(ctx)
	if err != nil {
		return 0, err
	}
	categories := all[:0:0]
	for _, c := range all {
		if !c.IsUncategorized() {
			categories = append(categories, c)
		}
	}
	if len(categories) == 0 {
		return 0, nil
	}

	now := s.Now()
	count := MinDemoExpenses + s.rng.IntN(MaxDemoExpenses-MinDemoExpenses+1)

	for i := 0; i < count; i++ {
		cat := categories[s.rng.IntN(len(categories))]
		lo, hi := demoAmountRange(cat.Name)
		amount := decimal.NewFromFloat(lo + s.rng.Float64()*(hi-lo)).Round(2)

		monthsBack := 1 + s.rng.IntN(12)
		daysBack := s.rng.IntN(31)
		date := now.AddDate(0, -monthsBack, -daysBack)

		expense := model.NewExpense(amount, date, demoNotes[s.rng.IntN(len(demoNotes))], cat, true)
		if err := s.store.SaveExpense(ctx, &expense); err != nil {
			return i, fmt.Errorf("failed to save demo expense: %w", err)
		}
	}

	slog.Info("Inserted demo data", "count", count)
	return count, nil
}

// RemoveDemo deletes every demo expense and returns how many were removed.
func (s *Service) RemoveDemo(ctx context.Context) (int64, error) {
	removed, err := s.store.DeleteDemoExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to remove demo data: %w", err)
	}
	slog.Info("Removed demo data", "count", removed)
	return removed, nil
}

// CountDemo returns the number of demo expenses.
func (s *Service) CountDemo(ctx context.Context) (int, error) {
	count, err := s.store.CountDemoExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count demo expenses: %w", err)
	}
	return count, nil
}
