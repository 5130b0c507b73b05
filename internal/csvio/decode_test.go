package csvio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErrors  []string
		wantRecords int
	}{
		{
			name:        "valid rows",
			content:     "date,amount,category,notes\n2025-10-20,12.50,Food,lunch\n2025-10-21,3,Transport,\n",
			wantRecords: 2,
		},
		{
			name:       "empty content",
			content:    "",
			wantErrors: []string{"Empty or invalid CSV file"},
		},
		{
			name:       "header only",
			content:    "date,amount,category,notes\n",
			wantErrors: []string{"Empty or invalid CSV file"},
		},
		{
			name:       "impossible date",
			content:    "date,amount,category,notes\n2025-13-45,10.00,Food,\n",
			wantErrors: []string{"Line 2: Invalid date format '2025-13-45'"},
		},
		{
			name:       "not enough fields",
			content:    "date,amount,category,notes\n2025-10-20,10.00\n",
			wantErrors: []string{"Line 2: Not enough fields"},
		},
		{
			name:    "bad amounts",
			content: "date,amount,category,notes\n2025-10-20,abc,Food,\n2025-10-20,0,Food,\n2025-10-20,-4,Food,\n",
			wantErrors: []string{
				"Line 2: Invalid amount 'abc'",
				"Line 3: Invalid amount '0'",
				"Line 4: Invalid amount '-4'",
			},
		},
		{
			name:        "blank lines keep physical numbering",
			content:     "date,amount,category,notes\n\n2025-10-20,1,Food,\n\nbad\n",
			wantRecords: 1,
			wantErrors:  []string{"Line 5: Not enough fields"},
		},
		{
			name:        "stray quote stays on its own row",
			content:     "date,amount,category,notes\n2025-01-01,5.00,Food,6\" sub\n2025-01-02,7.00,Food,lunch\n",
			wantRecords: 2,
		},
		{
			name:        "header is skipped even when it looks like data",
			content:     "2025-10-20,1,Food,\n2025-10-21,2,Food,\n",
			wantRecords: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, result := Decode(tt.content, time.UTC)
			assert.Len(t, records, tt.wantRecords)
			assert.Equal(t, len(tt.wantErrors), result.InvalidRows)
			if len(tt.wantErrors) == 0 {
				assert.Empty(t, result.Errors)
			} else {
				assert.Equal(t, tt.wantErrors, result.Errors)
			}
		})
	}
}

func TestDecode_FieldValues(t *testing.T) {
	content := "date,amount,category,notes\n" +
		" 2025-10-20 , 12.345 ,  Food ,\"Lunch, with \"\"Bob\"\"\"\n" +
		"2025-10-21,7,Bills,\"line one\nline two\"\n"

	records, result := Decode(content, time.UTC)
	require.Zero(t, result.InvalidRows, result.Errors)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, 2, first.Line)
	assert.True(t, time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC).Equal(first.Date))
	assert.True(t, decimal.RequireFromString("12.345").Equal(first.Amount))
	assert.Equal(t, "Food", first.Category)
	assert.Equal(t, `Lunch, with "Bob"`, first.Notes)

	second := records[1]
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "line one\nline two", second.Notes)
}

func TestDecode_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*60*60)
	records, _ := Decode("h\n2025-10-20,1,Food,\n", loc)
	require.Len(t, records, 1)
	assert.Equal(t, loc, records[0].Date.Location())
	assert.Equal(t, 0, records[0].Date.Hour())
}

func TestDecode_StrayQuoteIsLiteral(t *testing.T) {
	content := "date,amount,category,notes\n2025-01-01,5.00,Food,6\" sub\n2025-01-02,7.00,Food,lunch\n"

	records, result := Decode(content, time.UTC)
	require.Zero(t, result.InvalidRows, result.Errors)
	require.Len(t, records, 2)
	assert.Equal(t, `6" sub`, records[0].Notes)
	assert.Equal(t, 3, records[1].Line)
	assert.Equal(t, "lunch", records[1].Notes)
}
