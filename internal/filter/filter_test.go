package filter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/daterange"
	"github.com/Veraticus/tally/internal/model"
)

var (
	food      = model.Category{ID: 1, Name: "Food"}
	transport = model.Category{ID: 2, Name: "Transportation"}
	now       = time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
)

func fixture() []model.Expense {
	mk := func(id string, days int, cat model.Category, notes string) model.Expense {
		return model.Expense{
			ID:       id,
			Amount:   decimal.NewFromInt(10),
			Date:     now.AddDate(0, 0, -days),
			Category: cat,
			Notes:    notes,
		}
	}
	// date-descending, as returned by storage
	return []model.Expense{
		mk("a", 0, food, "Coffee and pastry"),
		mk("b", 2, transport, "Gas station fill-up"),
		mk("c", 5, food, "Weekend GROCERIES"),
		mk("d", 20, transport, ""),
		mk("e", 45, food, "Restaurant dinner"),
	}
}

func ids(expenses []model.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "no predicates keeps everything",
			criteria: FromSelection(daterange.AllTime, now, nil, nil, "", ""),
			want:     []string{"a", "b", "c", "d", "e"},
		},
		{
			name:     "date range only",
			criteria: FromSelection(daterange.Last7Days, now, nil, nil, "", ""),
			want:     []string{"a", "b", "c"},
		},
		{
			name:     "category only, case-insensitive",
			criteria: FromSelection(daterange.AllTime, now, nil, nil, "FOOD", ""),
			want:     []string{"a", "c", "e"},
		},
		{
			name:     "search matches notes case-insensitively",
			criteria: FromSelection(daterange.AllTime, now, nil, nil, "", "groceries"),
			want:     []string{"c"},
		},
		{
			name:     "search matches category name",
			criteria: FromSelection(daterange.AllTime, now, nil, nil, "", "transport"),
			want:     []string{"b", "d"},
		},
		{
			name:     "all three combined",
			criteria: FromSelection(daterange.Last30Days, now, nil, nil, "Food", "e"),
			want:     []string{"a", "c"},
		},
		{
			name:     "no match",
			criteria: FromSelection(daterange.ThisMonth, now, nil, nil, "Transportation", "pizza"),
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(fixture(), tt.criteria)))
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)

	out := Apply(in, FromSelection(daterange.Last7Days, now, nil, nil, "Food", ""))
	require.Len(t, out, 2)
	out[0].Notes = "changed"

	assert.Equal(t, before, ids(in))
	assert.Equal(t, "Coffee and pastry", in[0].Notes)
}

func TestFromSelectionInvalidCustomDisablesDateFilter(t *testing.T) {
	start := now
	end := now.AddDate(0, 0, -3)
	c := FromSelection(daterange.Custom, now, &start, &end, "", "")
	assert.Nil(t, c.Range)
	assert.True(t, c.IsEmpty())
	assert.Len(t, Apply(fixture(), c), 5)
}

func TestWithoutRange(t *testing.T) {
	c := FromSelection(daterange.ThisMonth, now, nil, nil, "Food", "")
	require.NotNil(t, c.Range)
	stripped := c.WithoutRange()
	assert.Nil(t, stripped.Range)
	assert.Equal(t, "Food", stripped.Category)
	assert.NotNil(t, c.Range)
}
