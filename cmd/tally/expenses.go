package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/aggregate"
	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/daterange"
	"github.com/Veraticus/tally/internal/filter"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/report"
)

// shortIDLength is how much of an expense ID the list shows. Any unique prefix
// is accepted by edit and delete.
const shortIDLength = 8

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"expense", "exp"},
		Short:   "Record and review expenses",
	}

	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(editExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses matching the current filter",
		Long: `List expenses newest first. The saved filter applies unless overridden by
flags for this invocation (see 'tally filter').`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			sel, _, err := currentSelection(cmd, svc.Location())
			if err != nil {
				return err
			}

			expenses, err := svc.ListExpenses(ctx, sel.Criteria(svc.Now()))
			if err != nil {
				return err
			}

			if len(expenses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses match the current filter."))
				return nil
			}

			total := aggregate.Total(expenses)
			shown := expenses
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Date"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Amount"),
				cli.TableHeaderStyle.Render("Notes"))
			for _, e := range shown {
				notes := report.Truncate(e.Notes, report.MaxNotesWidth)
				if e.IsDemo {
					notes = cli.SubtleStyle.Render(strings.TrimSpace(notes + " (demo)"))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					shortID(e.ID),
					e.Date.Format(model.DateLayout),
					cli.FormatCategory(e.Category),
					cli.FormatAmount(e.Amount),
					notes)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			summary := fmt.Sprintf("%d expenses, total %s", len(expenses), cli.FormatAmount(total))
			if len(shown) < len(expenses) {
				summary = fmt.Sprintf("showing %d of %s", len(shown), summary)
			}
			fmt.Println()
			fmt.Println(cli.SubtleStyle.Render(describeSelection(sel) + " · " + summary))
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many rows (0 for all)")

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var amount, category, date, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Example: `  tally expenses add --amount 12.50 --category Food --notes "Lunch"
  tally expenses add -a 80 -c Bills -d 2025-10-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			in := ledger.ExpenseInput{Category: category, Notes: notes}
			if in.Amount, err = parseAmount(amount); err != nil {
				return err
			}
			if date != "" {
				if in.Date, err = parseDate(date, svc.Location()); err != nil {
					return err
				}
			}

			exp, err := svc.AddExpense(ctx, in)
			if err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s in %s on %s (%s)",
				cli.FormatAmount(exp.Amount), cli.FormatCategory(exp.Category),
				exp.Date.Format(model.DateLayout), shortID(exp.ID))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount spent")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free text notes")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func editExpenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an expense",
		Long:  `Change the fields given as flags. The ID may be any unique prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := resolveExpenseID(ctx, svc, args[0])
			if err != nil {
				return err
			}

			var upd ledger.ExpenseUpdate
			flags := cmd.Flags()
			if flags.Changed("amount") {
				value, _ := flags.GetString("amount")
				amount, err := parseAmount(value)
				if err != nil {
					return err
				}
				upd.Amount = &amount
			}
			if flags.Changed("date") {
				value, _ := flags.GetString("date")
				date, err := parseDate(value, svc.Location())
				if err != nil {
					return err
				}
				upd.Date = &date
			}
			if flags.Changed("category") {
				value, _ := flags.GetString("category")
				upd.Category = &value
			}
			if flags.Changed("notes") {
				value, _ := flags.GetString("notes")
				upd.Notes = &value
			}

			exp, err := svc.UpdateExpense(ctx, id, upd)
			if err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s: %s in %s on %s",
				shortID(exp.ID), cli.FormatAmount(exp.Amount), cli.FormatCategory(exp.Category),
				exp.Date.Format(model.DateLayout))))
			return nil
		},
	}

	cmd.Flags().StringP("amount", "a", "", "new amount")
	cmd.Flags().StringP("category", "c", "", "new category name")
	cmd.Flags().StringP("date", "d", "", "new date (YYYY-MM-DD)")
	cmd.Flags().String("notes", "", "new notes")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := resolveExpenseID(ctx, svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteExpense(ctx, id); err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess("Deleted expense " + shortID(id)))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// resolveExpenseID expands a unique ID prefix to the full expense ID.
func resolveExpenseID(ctx context.Context, svc *ledger.Service, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", common.NewUserError("expense ID is required", common.ErrInvalidInput)
	}

	expenses, err := svc.ListExpenses(ctx, filter.Criteria{})
	if err != nil {
		return "", err
	}
	return matchID(expenses, prefix, func(e model.Expense) string { return e.ID }, "expense")
}

func matchID[T any](items []T, prefix string, id func(T) string, kind string) (string, error) {
	var matches []string
	for _, item := range items {
		candidate := id(item)
		if candidate == prefix {
			return candidate, nil
		}
		if strings.HasPrefix(candidate, prefix) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return "", common.NewUserError(fmt.Sprintf("no %s with ID %s", kind, prefix), common.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", common.NewUserError(
			fmt.Sprintf("ID %s matches %d %ss, use more characters", prefix, len(matches), kind),
			common.ErrInvalidInput)
	}
}

// describeSelection renders the active filter in one line.
func describeSelection(sel filter.Selection) string {
	parts := []string{sel.Selector.DisplayName()}
	if sel.CustomStart != nil || sel.CustomEnd != nil {
		start, end := "…", "…"
		if sel.CustomStart != nil {
			start = sel.CustomStart.Format(model.DateLayout)
		}
		if sel.CustomEnd != nil {
			end = sel.CustomEnd.Format(model.DateLayout)
		}
		if sel.Selector == daterange.Custom {
			parts[0] = fmt.Sprintf("%s %s to %s", parts[0], start, end)
		}
	}
	if sel.Category != "" {
		parts = append(parts, "category "+sel.Category)
	}
	if sel.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", sel.Search))
	}
	return strings.Join(parts, ", ")
}
