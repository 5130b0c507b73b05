// Package filter narrows expense collections by date range, category and free
// text.
package filter

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/Veraticus/tally/internal/daterange"
	"github.com/Veraticus/tally/internal/model"
)

// Criteria holds the independently optional predicates. A nil Range, an empty
// Category or an empty Search disables the matching predicate.
type Criteria struct {
	Range    *daterange.Range
	Category string
	Search   string
}

// FromSelection resolves a date selector and builds the criteria.
func FromSelection(sel daterange.Selector, now time.Time, customStart, customEnd *time.Time, category, search string) Criteria {
	c := Criteria{Category: category, Search: search}
	if r, ok := daterange.Resolve(sel, now, customStart, customEnd); ok {
		c.Range = &r
	}
	return c
}

// IsEmpty reports whether no predicate is active.
func (c Criteria) IsEmpty() bool {
	return c.Range == nil && strings.TrimSpace(c.Category) == "" && c.Search == ""
}

// WithoutRange returns a copy of c with the date predicate disabled.
func (c Criteria) WithoutRange() Criteria {
	c.Range = nil
	return c
}

// Match reports whether e satisfies every active predicate.
func (c Criteria) Match(e model.Expense) bool {
	if c.Range != nil && !c.Range.Contains(e.Date) {
		return false
	}
	if strings.TrimSpace(c.Category) != "" && !model.SameName(e.Category.Name, c.Category) {
		return false
	}
	if c.Search != "" {
		return matchesSearch(e, c.Search)
	}
	return true
}

// Apply returns the expenses matching c in their original order. The input
// slice is not modified.
func Apply(expenses []model.Expense, c Criteria) []model.Expense {
	result := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if c.Match(e) {
			result = append(result, e)
		}
	}
	return result
}

func matchesSearch(e model.Expense, search string) bool {
	fold := cases.Fold()
	needle := fold.String(search)
	return strings.Contains(fold.String(e.Notes), needle) ||
		strings.Contains(fold.String(e.Category.Name), needle)
}

// Selection is the user's persisted filter choice in plain form. Custom bounds
// are only consulted for the Custom selector.
type Selection struct {
	CustomStart *time.Time
	CustomEnd   *time.Time
	Selector    daterange.Selector
	Category    string
	Search      string
}

// Criteria resolves the selection against now.
func (s Selection) Criteria(now time.Time) Criteria {
	return FromSelection(s.Selector, now, s.CustomStart, s.CustomEnd, s.Category, s.Search)
}
