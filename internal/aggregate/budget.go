// Package aggregate derives spending figures from expense sets: budget
// progress, monthly trend buckets, category breakdowns and period comparisons.
package aggregate

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/model"
)

// Threshold percentages.
const (
	AlertThreshold   = 75.0
	WarningThreshold = 90.0
)

var hundred = decimal.NewFromInt(100)

// Progress is a snapshot of a budget against its spending. It is computed on
// demand and never stored.
type Progress struct {
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage float64
	Alert      bool
	Warning    bool
	Over       bool
}

// CurrentSpending sums the non-demo expenses dated inside the budget's month.
func CurrentSpending(budget model.Budget, expenses []model.Expense) decimal.Decimal {
	start, end := budget.Window()
	total := decimal.Zero
	for _, e := range expenses {
		if e.IsDemo {
			continue
		}
		if e.Date.Before(start) || !e.Date.Before(end) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// PercentageUsed returns spent/limit*100, never negative. A non-positive limit
// yields 0.
func PercentageUsed(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	pct, _ := spent.Div(limit).Mul(hundred).Float64()
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return math.Max(0, pct)
}

// AmountRemaining returns max(0, limit-spent).
func AmountRemaining(spent, limit decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, limit.Sub(spent))
}

// IsAlert reports whether pct reached the alert threshold.
func IsAlert(pct float64) bool { return pct >= AlertThreshold }

// IsWarning reports whether pct reached the warning threshold.
func IsWarning(pct float64) bool { return pct >= WarningThreshold }

// Evaluate computes the progress of budget given its category's expenses.
func Evaluate(budget model.Budget, expenses []model.Expense) Progress {
	spent := CurrentSpending(budget, expenses)
	pct := PercentageUsed(spent, budget.MonthlyLimit)
	return Progress{
		Spent:      spent,
		Remaining:  AmountRemaining(spent, budget.MonthlyLimit),
		Percentage: pct,
		Alert:      IsAlert(pct),
		Warning:    IsWarning(pct),
		Over:       spent.GreaterThan(budget.MonthlyLimit),
	}
}

// Total sums the amounts of expenses.
func Total(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
