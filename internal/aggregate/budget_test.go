package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/model"
)

var food = model.Category{ID: 1, Name: "Food"}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(amount string, date time.Time) model.Expense {
	return model.Expense{ID: date.String() + amount, Amount: dec(amount), Date: date, Category: food}
}

func budget(t *testing.T, limit string, month time.Time) model.Budget {
	t.Helper()
	b, err := model.NewBudget(food, dec(limit), month, "", false)
	require.NoError(t, err)
	return *b
}

func TestEvaluateScenarios(t *testing.T) {
	month := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		spent       []string
		wantPct     float64
		wantRemain  string
		wantAlert   bool
		wantWarning bool
		wantOver    bool
	}{
		{"nothing spent", nil, 0, "500", false, false, false},
		{"half spent", []string{"100", "150"}, 50, "250", false, false, false},
		{"alert only", []string{"375"}, 75, "125", true, false, false},
		{"warning", []string{"400", "75"}, 95, "25", true, true, false},
		{"exactly the limit", []string{"500"}, 100, "0", true, true, false},
		{"overspent", []string{"600"}, 120, "0", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var expenses []model.Expense
			for i, a := range tt.spent {
				expenses = append(expenses, expense(a, month.AddDate(0, 0, i+1)))
			}
			p := Evaluate(budget(t, "500", month), expenses)
			assert.InDelta(t, tt.wantPct, p.Percentage, 0.01)
			assert.True(t, dec(tt.wantRemain).Equal(p.Remaining), "remaining %s", p.Remaining)
			assert.Equal(t, tt.wantAlert, p.Alert)
			assert.Equal(t, tt.wantWarning, p.Warning)
			assert.Equal(t, tt.wantOver, p.Over)
		})
	}
}

func TestCurrentSpendingMonthScoping(t *testing.T) {
	oct := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	expenses := []model.Expense{
		expense("10", time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)),
		expense("20", time.Date(2025, 10, 31, 23, 59, 59, 0, time.UTC)),
		expense("40", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)),
		expense("80", time.Date(2025, 9, 30, 23, 59, 59, 0, time.UTC)),
	}

	assert.True(t, dec("30").Equal(CurrentSpending(budget(t, "100", oct), expenses)))
	assert.True(t, dec("40").Equal(CurrentSpending(budget(t, "100", oct.AddDate(0, 1, 0)), expenses)))
	assert.True(t, dec("80").Equal(CurrentSpending(budget(t, "100", oct.AddDate(0, -1, 0)), expenses)))
}

func TestCurrentSpendingExcludesDemo(t *testing.T) {
	oct := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	demo := expense("999", oct.AddDate(0, 0, 3))
	demo.IsDemo = true
	actual := expense("1.10", oct.AddDate(0, 0, 4))

	spent := CurrentSpending(budget(t, "100", oct), []model.Expense{demo, actual})
	assert.Equal(t, "1.1", spent.String())
}

func TestCurrentSpendingIsExact(t *testing.T) {
	oct := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	var expenses []model.Expense
	for i := 0; i < 10; i++ {
		expenses = append(expenses, expense("0.1", oct.AddDate(0, 0, i)))
	}
	assert.Equal(t, "1", CurrentSpending(budget(t, "100", oct), expenses).String())
}

func TestAmountRemainingNeverNegative(t *testing.T) {
	limits := []string{"0.01", "1", "500", "12345.67"}
	spends := []string{"0", "0.01", "499.99", "500", "100000"}
	for _, l := range limits {
		for _, s := range spends {
			got := AmountRemaining(dec(s), dec(l))
			assert.False(t, got.IsNegative(), "limit %s spend %s", l, s)
			want := dec(l).Sub(dec(s))
			if want.IsNegative() {
				want = decimal.Zero
			}
			assert.True(t, want.Equal(got), "limit %s spend %s", l, s)
		}
	}
}

func TestPercentageUsed(t *testing.T) {
	assert.Equal(t, 0.0, PercentageUsed(decimal.Zero, dec("500")))
	assert.InDelta(t, 100.0, PercentageUsed(dec("500"), dec("500")), 1e-9)
	assert.InDelta(t, 120.0, PercentageUsed(dec("600"), dec("500")), 1e-9)
	assert.Equal(t, 0.0, PercentageUsed(dec("10"), decimal.Zero))
	assert.Equal(t, 0.0, PercentageUsed(dec("-10"), dec("100")))
}

func TestWarningImpliesAlert(t *testing.T) {
	for pct := 0.0; pct <= 200; pct += 0.5 {
		if IsWarning(pct) {
			assert.True(t, IsAlert(pct), "pct %v", pct)
		}
	}
}
