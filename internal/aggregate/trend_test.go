package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/daterange"
	"github.com/Veraticus/tally/internal/model"
)

func withCategory(e model.Expense, name string) model.Expense {
	e.Category = model.Category{Name: name}
	return e
}

func TestMonthlyTrend(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	expenses := []model.Expense{
		expense("10", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)),
		expense("5.5", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)),
		expense("20", time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)),
		expense("30", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)),
		expense("99", time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)), // outside six months
		expense("77", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)),  // future
	}

	buckets := MonthlyTrend(expenses, SixMonths.Months(), now)
	require.Len(t, buckets, 6)

	wantMonths := []string{"Oct 2024", "Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025", "Mar 2025"}
	wantTotals := []string{"30", "0", "0", "20", "0", "15.5"}
	for i, b := range buckets {
		assert.Equal(t, wantMonths[i], b.Label)
		assert.True(t, dec(wantTotals[i]).Equal(b.Total), "%s total %s", b.Label, b.Total)
	}
	assert.Equal(t, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), buckets[0].Month)
	assert.Equal(t, 2, buckets[5].Count)
}

func TestMonthlyTrendTwelveMonthsIsDense(t *testing.T) {
	buckets := MonthlyTrend(nil, TwelveMonths.Months(), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.Len(t, buckets, 12)
	assert.Equal(t, "Feb 2024", buckets[0].Label)
	assert.Equal(t, "Jan 2025", buckets[11].Label)
	for _, b := range buckets {
		assert.True(t, b.Total.IsZero())
	}
	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i].Month.After(buckets[i-1].Month))
	}
}

func TestMonthlyTrendZeroMonths(t *testing.T) {
	assert.Empty(t, MonthlyTrend(nil, 0, time.Now()))
}

func TestBreakdown(t *testing.T) {
	day := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	expenses := []model.Expense{
		withCategory(expense("25", day), "Food"),
		withCategory(expense("25", day), "food"),
		withCategory(expense("30", day), "Transport"),
		withCategory(expense("20", day), "Bills"),
	}

	shares := Breakdown(expenses)
	require.Len(t, shares, 3)

	assert.Equal(t, "Food", shares[0].Category.Name)
	assert.True(t, dec("50").Equal(shares[0].Total))
	assert.Equal(t, 2, shares[0].Count)
	assert.InDelta(t, 50.0, shares[0].Percentage, 0.001)

	assert.Equal(t, "Transport", shares[1].Category.Name)
	assert.InDelta(t, 30.0, shares[1].Percentage, 0.001)
	assert.Equal(t, "Bills", shares[2].Category.Name)

	var sum float64
	for _, s := range shares {
		sum += s.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.001)
}

func TestBreakdownEmptyWhenNothingSpent(t *testing.T) {
	assert.Empty(t, Breakdown(nil))
	zero := withCategory(expense("0", time.Now()), "Food")
	assert.Empty(t, Breakdown([]model.Expense{zero}))
}

func TestComparePeriods(t *testing.T) {
	now := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	expenses := []model.Expense{
		expense("150", time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)),
		expense("100", time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)),
		expense("40", time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)),
	}

	t.Run("this month vs last month", func(t *testing.T) {
		cmp, ok := ComparePeriods(expenses, daterange.ThisMonth, now)
		require.True(t, ok)
		assert.True(t, dec("150").Equal(cmp.Current))
		assert.True(t, dec("100").Equal(cmp.Previous))
		assert.True(t, dec("50").Equal(cmp.Difference))
		assert.InDelta(t, 50.0, cmp.PercentChange, 0.001)
	})

	t.Run("last month vs the month before", func(t *testing.T) {
		cmp, ok := ComparePeriods(expenses, daterange.LastMonth, now)
		require.True(t, ok)
		assert.True(t, dec("60").Equal(cmp.Difference))
		assert.InDelta(t, 150.0, cmp.PercentChange, 0.001)
	})

	t.Run("no previous spending", func(t *testing.T) {
		recent := []model.Expense{expense("12", time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC))}
		cmp, ok := ComparePeriods(recent, daterange.Last7Days, now)
		require.True(t, ok)
		assert.True(t, dec("12").Equal(cmp.Difference))
		assert.Equal(t, 0.0, cmp.PercentChange)
	})

	t.Run("decrease", func(t *testing.T) {
		set := []model.Expense{
			expense("25", time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)),
			expense("100", time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)),
		}
		cmp, ok := ComparePeriods(set, daterange.Last7Days, now)
		require.True(t, ok)
		assert.True(t, dec("-75").Equal(cmp.Difference))
		assert.InDelta(t, -75.0, cmp.PercentChange, 0.001)
	})

	t.Run("unsupported selectors", func(t *testing.T) {
		for _, sel := range []daterange.Selector{daterange.AllTime, daterange.YearToDate, daterange.Custom} {
			_, ok := ComparePeriods(expenses, sel, now)
			assert.False(t, ok, sel)
		}
	})
}
