// Package report renders a fixed-width, human readable expense report.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/tally/internal/aggregate"
	"github.com/Veraticus/tally/internal/model"
)

// MaxNotesWidth is the number of runes of notes shown per row.
const MaxNotesWidth = 40

// Extension is the file extension of rendered reports.
const Extension = "txt"

// Render writes the report for expenses in the given order.
func Render(w io.Writer, expenses []model.Expense, now time.Time) error {
	if _, err := fmt.Fprintf(w, "Expense Report\nGenerated: %s\n\n", now.Format("2006-01-02 15:04")); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Date\tCategory\tNotes\tAmount")
	fmt.Fprintln(tw, "----\t--------\t-----\t------")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Date.Format(model.DateLayout),
			e.Category.Name,
			Truncate(oneLine(e.Notes), MaxNotesWidth),
			e.Amount.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}

	noun := "expenses"
	if len(expenses) == 1 {
		noun = "expense"
	}
	if _, err := fmt.Fprintf(w, "\n%d %s, total %s\n", len(expenses), noun, aggregate.Total(expenses).StringFixed(2)); err != nil {
		return fmt.Errorf("failed to write report footer: %w", err)
	}
	return nil
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func oneLine(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == '\n' || r == '\r' || r == '\t' {
			out[i] = ' '
		}
	}
	return string(out)
}
