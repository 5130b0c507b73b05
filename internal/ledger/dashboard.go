package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/aggregate"
	"github.com/Veraticus/tally/internal/daterange"
	"github.com/Veraticus/tally/internal/filter"
	"github.com/Veraticus/tally/internal/service"
)

// Dashboard is the summary of the filtered expenses.
type Dashboard struct {
	Range       *daterange.Range
	Comparison  *aggregate.PeriodComparison
	TopCategory *aggregate.CategoryShare
	Total       decimal.Decimal
	Average     decimal.Decimal
	Selector    daterange.Selector
	Breakdown   []aggregate.CategoryShare
	Trend       []aggregate.MonthBucket
	Count       int
}

// Dashboard computes totals, the category breakdown, the period comparison
// and the monthly trend for sel. The trend and comparison only honor the
// category part of the selection.
func (s *Service) Dashboard(ctx context.Context, sel filter.Selection, span aggregate.TimeRange) (*Dashboard, error) {
	now := s.Now()

	all, err := s.store.GetExpenses(ctx, service.ExpenseQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	criteria := sel.Criteria(now)
	filtered := filter.Apply(all, criteria)

	d := &Dashboard{
		Selector:  sel.Selector,
		Range:     criteria.Range,
		Total:     aggregate.Total(filtered),
		Average:   decimal.Zero,
		Count:     len(filtered),
		Breakdown: aggregate.Breakdown(filtered),
	}
	if d.Count > 0 {
		d.Average = d.Total.Div(decimal.NewFromInt(int64(d.Count))).Round(2)
	}
	if len(d.Breakdown) > 0 {
		top := d.Breakdown[0]
		d.TopCategory = &top
	}

	byCategory := filter.Apply(all, filter.Criteria{Category: sel.Category})
	d.Trend = aggregate.MonthlyTrend(byCategory, span.Months(), now)
	if cmp, ok := aggregate.ComparePeriods(byCategory, sel.Selector, now); ok {
		d.Comparison = &cmp
	}

	return d, nil
}
