// Package daterange resolves named date filters into concrete intervals.
//
// All ranges are half-open: Start is included, End is the first instant of
// the following period and is excluded.
package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Selector names a date filter.
type Selector string

// Supported selectors.
const (
	AllTime    Selector = "all-time"
	ThisMonth  Selector = "this-month"
	LastMonth  Selector = "last-month"
	Last7Days  Selector = "last-7-days"
	Last30Days Selector = "last-30-days"
	YearToDate Selector = "year-to-date"
	Custom     Selector = "custom"
)

// Default is the selector used when nothing has been chosen.
const Default = AllTime

// Selectors lists every selector in display order.
var Selectors = []Selector{AllTime, ThisMonth, LastMonth, Last7Days, Last30Days, YearToDate, Custom}

// ParseSelector accepts the canonical form as well as camelCase and
// underscore spellings ("last7Days", "last_7_days").
func ParseSelector(s string) (Selector, error) {
	key := normalize(s)
	for _, sel := range Selectors {
		if normalize(string(sel)) == key {
			return sel, nil
		}
	}
	return "", fmt.Errorf("unknown date filter %q", s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// DisplayName returns the human label of the selector.
func (s Selector) DisplayName() string {
	switch s {
	case AllTime:
		return "All Time"
	case ThisMonth:
		return "This Month"
	case LastMonth:
		return "Last Month"
	case Last7Days:
		return "Last 7 Days"
	case Last30Days:
		return "Last 30 Days"
	case YearToDate:
		return "Year to Date"
	case Custom:
		return "Custom"
	default:
		return string(s)
	}
}

// Range is a half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Last returns the last whole second inside the range, e.g. 23:59:59 of the
// final day. It is meant for display.
func (r Range) Last() time.Time {
	return r.End.Add(-time.Second)
}

// Days returns the number of calendar days covered by the range.
func (r Range) Days() int {
	return int(model.StartOfDay(r.End).Sub(model.StartOfDay(r.Start)).Hours()/24 + 0.5)
}

func (r Range) String() string {
	return fmt.Sprintf("%s – %s", r.Start.Format(model.DateLayout), r.Last().Format(model.DateLayout))
}

// Resolve maps sel to a concrete range anchored at now. It returns false when
// no date filtering should happen: always for AllTime, and for Custom when a
// bound is missing or start is after end.
func Resolve(sel Selector, now time.Time, customStart, customEnd *time.Time) (Range, bool) {
	today := model.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	switch sel {
	case ThisMonth:
		start := model.StartOfMonth(now)
		return Range{Start: start, End: start.AddDate(0, 1, 0)}, true
	case LastMonth:
		end := model.StartOfMonth(now)
		return Range{Start: end.AddDate(0, -1, 0), End: end}, true
	case Last7Days:
		return Range{Start: today.AddDate(0, 0, -7), End: tomorrow}, true
	case Last30Days:
		return Range{Start: today.AddDate(0, 0, -30), End: tomorrow}, true
	case YearToDate:
		return Range{Start: model.StartOfYear(now), End: tomorrow}, true
	case Custom:
		if customStart == nil || customEnd == nil || customStart.After(*customEnd) {
			return Range{}, false
		}
		return Range{
			Start: model.StartOfDay(*customStart),
			End:   model.StartOfDay(*customEnd).AddDate(0, 0, 1),
		}, true
	default:
		return Range{}, false
	}
}

// Previous returns the window immediately preceding the one sel resolves to at
// now. Only ThisMonth, LastMonth, Last7Days and Last30Days have one.
func Previous(sel Selector, now time.Time) (Range, bool) {
	current, ok := Resolve(sel, now, nil, nil)
	if !ok {
		return Range{}, false
	}

	switch sel {
	case ThisMonth, LastMonth:
		return Range{Start: current.Start.AddDate(0, -1, 0), End: current.Start}, true
	case Last7Days:
		return Range{Start: current.Start.AddDate(0, 0, -7), End: current.Start}, true
	case Last30Days:
		return Range{Start: current.Start.AddDate(0, 0, -30), End: current.Start}, true
	default:
		return Range{}, false
	}
}

// SupportsComparison reports whether sel has a previous period to compare
// against.
func SupportsComparison(sel Selector) bool {
	switch sel {
	case ThisMonth, LastMonth, Last7Days, Last30Days:
		return true
	default:
		return false
	}
}
