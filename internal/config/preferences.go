package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/tally/internal/aggregate"
	"github.com/Veraticus/tally/internal/daterange"
	"github.com/Veraticus/tally/internal/filter"
)

// Preferences are the persisted user settings: the active filter, demo mode
// and chart span. Custom bounds are unix seconds, 0 meaning unset.
type Preferences struct {
	Filter      string `mapstructure:"filter"`
	Category    string `mapstructure:"category"`
	Search      string `mapstructure:"search"`
	TimeRange   string `mapstructure:"time_range"`
	CustomStart int64  `mapstructure:"custom_start"`
	CustomEnd   int64  `mapstructure:"custom_end"`
	DemoMode    bool   `mapstructure:"demo_mode"`
}

// DefaultPreferences returns the settings of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		Filter:    string(daterange.Default),
		TimeRange: string(aggregate.SixMonths),
	}
}

// Selection converts p into core parameters. An unknown stored filter falls
// back to the default selector.
func (p Preferences) Selection(loc *time.Location) filter.Selection {
	sel, err := daterange.ParseSelector(p.Filter)
	if err != nil {
		sel = daterange.Default
	}
	return filter.Selection{
		Selector:    sel,
		CustomStart: unixOrNil(p.CustomStart, loc),
		CustomEnd:   unixOrNil(p.CustomEnd, loc),
		Category:    strings.TrimSpace(p.Category),
		Search:      p.Search,
	}
}

// Span returns the chart span, defaulting to six months.
func (p Preferences) Span() aggregate.TimeRange {
	if aggregate.TimeRange(p.TimeRange) == aggregate.TwelveMonths {
		return aggregate.TwelveMonths
	}
	return aggregate.SixMonths
}

// SetCustom stores custom bounds; nil clears a bound.
func (p *Preferences) SetCustom(start, end *time.Time) {
	p.CustomStart, p.CustomEnd = 0, 0
	if start != nil {
		p.CustomStart = start.Unix()
	}
	if end != nil {
		p.CustomEnd = end.Unix()
	}
}

// ClearFilter resets the filter related fields, keeping demo mode and span.
func (p *Preferences) ClearFilter() {
	p.Filter = string(daterange.Default)
	p.Category = ""
	p.Search = ""
	p.CustomStart, p.CustomEnd = 0, 0
}

func unixOrNil(sec int64, loc *time.Location) *time.Time {
	if sec == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(sec, 0).In(loc)
	return &t
}

// PreferencesStore reads and writes preferences as YAML through its own viper
// instance, separate from the application config.
type PreferencesStore struct {
	v    *viper.Viper
	path string
}

// NewPreferencesStore creates a store for the given file path.
func NewPreferencesStore(path string) *PreferencesStore {
	path = ExpandPath(path)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := DefaultPreferences()
	v.SetDefault("filter", defaults.Filter)
	v.SetDefault("time_range", defaults.TimeRange)
	v.SetDefault("category", "")
	v.SetDefault("search", "")
	v.SetDefault("custom_start", 0)
	v.SetDefault("custom_end", 0)
	v.SetDefault("demo_mode", false)

	return &PreferencesStore{v: v, path: path}
}

// Path returns the preferences file path.
func (s *PreferencesStore) Path() string {
	return s.path
}

// Load reads the preferences file. A missing file yields the defaults.
func (s *PreferencesStore) Load() (Preferences, error) {
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return DefaultPreferences(), fmt.Errorf("failed to read preferences: %w", err)
		}
	}

	var prefs Preferences
	if err := s.v.Unmarshal(&prefs); err != nil {
		return DefaultPreferences(), fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs, nil
}

// Save writes every preference to the file, creating its directory.
func (s *PreferencesStore) Save(prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	s.v.Set("filter", prefs.Filter)
	s.v.Set("category", prefs.Category)
	s.v.Set("search", prefs.Search)
	s.v.Set("time_range", prefs.TimeRange)
	s.v.Set("custom_start", prefs.CustomStart)
	s.v.Set("custom_end", prefs.CustomEnd)
	s.v.Set("demo_mode", prefs.DemoMode)

	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
