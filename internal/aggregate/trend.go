package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/daterange"
	"github.com/Veraticus/tally/internal/model"
)

// TimeRange is the span of the monthly trend chart.
type TimeRange string

// Supported chart spans.
const (
	SixMonths    TimeRange = "6m"
	TwelveMonths TimeRange = "12m"
)

// Months returns the number of buckets for the span. Unknown spans use twelve.
func (r TimeRange) Months() int {
	if r == SixMonths {
		return 6
	}
	return 12
}

// MonthBucket is the total of one calendar month.
type MonthBucket struct {
	Month time.Time
	Label string
	Total decimal.Decimal
	Count int
}

// MonthlyTrend returns one bucket per calendar month, from months-1 months
// before now through the current month, oldest first. Months without expenses
// are present with a zero total.
func MonthlyTrend(expenses []model.Expense, months int, now time.Time) []MonthBucket {
	if months <= 0 {
		return nil
	}

	current := model.StartOfMonth(now)
	first := current.AddDate(0, -(months - 1), 0)

	buckets := make([]MonthBucket, months)
	for i := range buckets {
		m := first.AddDate(0, i, 0)
		buckets[i] = MonthBucket{Month: m, Label: m.Format("Jan 2006"), Total: decimal.Zero}
	}

	loc := now.Location()
	for _, e := range expenses {
		d := e.Date.In(loc)
		idx := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if idx < 0 || idx >= months {
			continue
		}
		buckets[idx].Total = buckets[idx].Total.Add(e.Amount)
		buckets[idx].Count++
	}

	return buckets
}

// CategoryShare is one slice of a category breakdown.
type CategoryShare struct {
	Category   model.Category
	Total      decimal.Decimal
	Percentage float64
	Count      int
}

// Breakdown groups expenses by category and computes each group's share of the
// grand total, largest first. It is empty when the grand total is zero.
func Breakdown(expenses []model.Expense) []CategoryShare {
	grand := Total(expenses)
	if !grand.IsPositive() {
		return []CategoryShare{}
	}

	index := make(map[string]int)
	var shares []CategoryShare
	for _, e := range expenses {
		key := model.FoldName(e.Category.Name)
		i, ok := index[key]
		if !ok {
			i = len(shares)
			index[key] = i
			shares = append(shares, CategoryShare{Category: e.Category, Total: decimal.Zero})
		}
		shares[i].Total = shares[i].Total.Add(e.Amount)
		shares[i].Count++
	}

	for i := range shares {
		pct, _ := shares[i].Total.Div(grand).Mul(hundred).Float64()
		shares[i].Percentage = pct
	}

	sort.SliceStable(shares, func(i, j int) bool {
		if !shares[i].Total.Equal(shares[j].Total) {
			return shares[i].Total.GreaterThan(shares[j].Total)
		}
		return model.FoldName(shares[i].Category.Name) < model.FoldName(shares[j].Category.Name)
	})

	return shares
}

// PeriodComparison is the change between the current and previous period.
type PeriodComparison struct {
	Current       decimal.Decimal
	Previous      decimal.Decimal
	Difference    decimal.Decimal
	PercentChange float64
}

// ComparePeriods sums expenses in the window sel resolves to and in the window
// before it. Callers pass the expenses already narrowed by category. It
// returns false for selectors without a previous period.
func ComparePeriods(expenses []model.Expense, sel daterange.Selector, now time.Time) (PeriodComparison, bool) {
	current, ok := daterange.Resolve(sel, now, nil, nil)
	if !ok || !daterange.SupportsComparison(sel) {
		return PeriodComparison{}, false
	}
	previous, ok := daterange.Previous(sel, now)
	if !ok {
		return PeriodComparison{}, false
	}

	cur, prev := decimal.Zero, decimal.Zero
	for _, e := range expenses {
		switch {
		case current.Contains(e.Date):
			cur = cur.Add(e.Amount)
		case previous.Contains(e.Date):
			prev = prev.Add(e.Amount)
		}
	}

	cmp := PeriodComparison{
		Current:    cur,
		Previous:   prev,
		Difference: cur.Sub(prev),
	}
	if prev.IsPositive() {
		cmp.PercentChange, _ = cmp.Difference.Div(prev).Mul(hundred).Float64()
	}
	return cmp, true
}
