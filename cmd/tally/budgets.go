package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/ledger"
)

const gaugeWidth = 20

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budgets",
		Aliases: []string{"budget"},
		Short:   "Manage monthly category budgets",
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(addBudgetCmd())
	cmd.AddCommand(editBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	var month string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show budgets with their spending",
		Long: `Show the budgets of a month (the current one by default) with the amount
spent, what is left and the threshold state. Demo expenses never count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			var target *time.Time
			if !all {
				m := svc.Now()
				if month != "" {
					if m, err = parseMonth(month, svc.Location()); err != nil {
						return err
					}
				}
				target = &m
			}

			statuses, err := svc.BudgetStatuses(ctx, target)
			if err != nil {
				return err
			}

			if len(statuses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets found. Use 'tally budgets add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Month"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Limit"),
				cli.TableHeaderStyle.Render("Spent"),
				cli.TableHeaderStyle.Render("Left"),
				cli.TableHeaderStyle.Render("Used"))
			for _, st := range statuses {
				used := fmt.Sprintf("%s %5.1f%%", cli.Gauge(st.Progress.Percentage, gaugeWidth), st.Progress.Percentage)
				flags := budgetFlags(st)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(st.Budget.ID),
					st.Budget.Month.Format("Jan 2006"),
					cli.FormatCategory(st.Budget.Category),
					cli.FormatAmount(st.Budget.MonthlyLimit),
					cli.FormatAmount(st.Progress.Spent),
					cli.FormatAmount(st.Progress.Remaining),
					cli.BudgetStyle(st.Progress).Render(strings.TrimSpace(used+" "+flags)))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to show (YYYY-MM, default current)")
	cmd.Flags().BoolVar(&all, "all", false, "show budgets of every month")

	return cmd
}

// budgetFlags annotates threshold states and duplicate budgets.
func budgetFlags(st ledger.BudgetStatus) string {
	var flags []string
	switch {
	case st.Progress.Over:
		flags = append(flags, "over budget")
	case st.Progress.Warning:
		flags = append(flags, "warning")
	case st.Progress.Alert:
		flags = append(flags, "alert")
	}
	if st.Duplicate {
		flags = append(flags, "duplicate")
	}
	if len(flags) == 0 {
		return ""
	}
	return "(" + strings.Join(flags, ", ") + ")"
}

func addBudgetCmd() *cobra.Command {
	var limit, month, notes string

	cmd := &cobra.Command{
		Use:     "add <category>",
		Short:   "Set a monthly budget for a category",
		Example: `  tally budgets add Food --limit 500 --month 2025-10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			in := ledger.BudgetInput{Category: args[0], Notes: notes}
			if in.Limit, err = parseAmount(limit); err != nil {
				return err
			}
			if month != "" {
				if in.Month, err = parseMonth(month, svc.Location()); err != nil {
					return err
				}
			}

			b, err := svc.CreateBudget(ctx, in)
			if err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget of %s for %s in %s (%s)",
				cli.FormatAmount(b.MonthlyLimit), cli.FormatCategory(b.Category),
				b.Month.Format("Jan 2006"), shortID(b.ID))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&limit, "limit", "l", "", "monthly limit")
	cmd.Flags().StringVarP(&month, "month", "m", "", "month (YYYY-MM, default current)")
	cmd.Flags().StringVar(&notes, "notes", "", "free text notes")
	_ = cmd.MarkFlagRequired("limit")

	return cmd
}

func editBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a budget",
		Long:  `Change the fields given as flags. The ID may be any unique prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := resolveBudgetID(ctx, svc, args[0])
			if err != nil {
				return err
			}

			var upd ledger.BudgetUpdate
			flags := cmd.Flags()
			if flags.Changed("limit") {
				value, _ := flags.GetString("limit")
				limit, err := parseAmount(value)
				if err != nil {
					return err
				}
				upd.Limit = &limit
			}
			if flags.Changed("month") {
				value, _ := flags.GetString("month")
				month, err := parseMonth(value, svc.Location())
				if err != nil {
					return err
				}
				upd.Month = &month
			}
			if flags.Changed("category") {
				value, _ := flags.GetString("category")
				upd.Category = &value
			}
			if flags.Changed("notes") {
				value, _ := flags.GetString("notes")
				upd.Notes = &value
			}

			b, err := svc.UpdateBudget(ctx, id, upd)
			if err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated budget %s: %s for %s in %s",
				shortID(b.ID), cli.FormatAmount(b.MonthlyLimit), cli.FormatCategory(b.Category),
				b.Month.Format("Jan 2006"))))
			return nil
		},
	}

	cmd.Flags().StringP("limit", "l", "", "new monthly limit")
	cmd.Flags().StringP("month", "m", "", "new month (YYYY-MM)")
	cmd.Flags().StringP("category", "c", "", "new category name")
	cmd.Flags().String("notes", "", "new notes")

	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := resolveBudgetID(ctx, svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteBudget(ctx, id); err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess("Deleted budget " + shortID(id)))
			return nil
		},
	}
}

// resolveBudgetID expands a unique ID prefix to the full budget ID.
func resolveBudgetID(ctx context.Context, svc *ledger.Service, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", common.NewUserError("budget ID is required", common.ErrInvalidInput)
	}

	statuses, err := svc.BudgetStatuses(ctx, nil)
	if err != nil {
		return "", err
	}
	return matchID(statuses, prefix, func(st ledger.BudgetStatus) string { return st.Budget.ID }, "budget")
}
