package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/aggregate"
	"github.com/Veraticus/tally/internal/daterange"
)

func TestPreferencesStore_LoadMissingFile(t *testing.T) {
	store := NewPreferencesStore(filepath.Join(t.TempDir(), "prefs.yaml"))

	prefs, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestPreferencesStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	store := NewPreferencesStore(path)

	want := Preferences{
		Filter:      string(daterange.Custom),
		Category:    "Food",
		Search:      "coffee",
		TimeRange:   string(aggregate.TwelveMonths),
		CustomStart: 1760918400,
		CustomEnd:   1761004800,
		DemoMode:    true,
	}
	require.NoError(t, store.Save(want))

	_, err := os.Stat(path)
	require.NoError(t, err)

	got, err := NewPreferencesStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPreferencesStore_LoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter: [unclosed"), 0600))

	_, err := NewPreferencesStore(path).Load()
	assert.Error(t, err)
}

func TestPreferences_Selection(t *testing.T) {
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		prefs     Preferences
		wantSel   daterange.Selector
		wantStart *time.Time
	}{
		{
			name:    "defaults",
			prefs:   DefaultPreferences(),
			wantSel: daterange.AllTime,
		},
		{
			name:    "unknown filter falls back",
			prefs:   Preferences{Filter: "fortnight"},
			wantSel: daterange.AllTime,
		},
		{
			name:    "camel case filter",
			prefs:   Preferences{Filter: "last7Days"},
			wantSel: daterange.Last7Days,
		},
		{
			name:      "custom bounds",
			prefs:     Preferences{Filter: "custom", CustomStart: start.Unix()},
			wantSel:   daterange.Custom,
			wantStart: &start,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := tt.prefs.Selection(time.UTC)
			assert.Equal(t, tt.wantSel, sel.Selector)
			if tt.wantStart == nil {
				assert.Nil(t, sel.CustomStart)
			} else {
				require.NotNil(t, sel.CustomStart)
				assert.True(t, tt.wantStart.Equal(*sel.CustomStart))
			}
			assert.Nil(t, sel.CustomEnd)
		})
	}
}

func TestSelection_CriteriaCustomMissingEnd(t *testing.T) {
	prefs := Preferences{Filter: "custom", CustomStart: time.Now().Unix(), Category: " Food "}
	criteria := prefs.Selection(time.UTC).Criteria(time.Now())

	assert.Nil(t, criteria.Range)
	assert.Equal(t, "Food", criteria.Category)
}

func TestPreferences_ClearFilterKeepsDemoMode(t *testing.T) {
	prefs := Preferences{Filter: "this-month", Category: "Food", Search: "x", CustomStart: 5, DemoMode: true, TimeRange: "12m"}
	prefs.ClearFilter()

	assert.Equal(t, string(daterange.AllTime), prefs.Filter)
	assert.Empty(t, prefs.Category)
	assert.Empty(t, prefs.Search)
	assert.Zero(t, prefs.CustomStart)
	assert.True(t, prefs.DemoMode)
	assert.Equal(t, aggregate.TwelveMonths, prefs.Span())
}

func TestExpandPath(t *testing.T) {
	t.Setenv("TALLY_TEST_DIR", "/tmp/tally")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, filepath.Join(home, "data.db"), ExpandPath("~/data.db"))
	assert.Equal(t, "/tmp/tally/data.db", ExpandPath("$TALLY_TEST_DIR/data.db"))
}
