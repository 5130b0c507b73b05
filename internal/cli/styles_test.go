package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/tally/internal/aggregate"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$12.50", FormatAmount(decimal.RequireFromString("12.5")))
	assert.Equal(t, "$0.00", FormatAmount(decimal.Zero))
}

func TestGauge(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		pct   float64
		width int
	}{
		{name: "empty", pct: 0, width: 4, want: "[····]"},
		{name: "half", pct: 50, width: 4, want: "[██··]"},
		{name: "over budget is capped", pct: 180, width: 4, want: "[████]"},
		{name: "no width", pct: 50, width: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gauge(tt.pct, tt.width))
		})
	}
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 10, BarWidth(decimal.NewFromInt(50), decimal.NewFromInt(50), 10))
	assert.Equal(t, 5, BarWidth(decimal.NewFromInt(25), decimal.NewFromInt(50), 10))
	assert.Equal(t, 0, BarWidth(decimal.NewFromInt(25), decimal.Zero, 10))
}

func TestBudgetStyle(t *testing.T) {
	assert.Equal(t, ErrorStyle.GetForeground(), BudgetStyle(aggregate.Progress{Alert: true, Warning: true}).GetForeground())
	assert.Equal(t, WarningStyle.GetForeground(), BudgetStyle(aggregate.Progress{Alert: true}).GetForeground())
	assert.Equal(t, SuccessStyle.GetForeground(), BudgetStyle(aggregate.Progress{}).GetForeground())
}

func TestImportProgress(t *testing.T) {
	var out syncBuffer
	progress := ImportProgress(&out, "Importing")

	progress(0, 0)
	assert.Empty(t, out.String())

	progress(1, 2)
	progress(2, 2)
	assert.NotEmpty(t, out.String())
}
