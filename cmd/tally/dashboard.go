package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/aggregate"
	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/ledger"
)

const chartWidth = 30

func dashboardCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"summary"},
		Short:   "Summarize spending for the current filter",
		Long: `Show the total, average and category breakdown of the filtered expenses,
the change against the previous period and a monthly trend chart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			sel, prefs, err := currentSelection(cmd, svc.Location())
			if err != nil {
				return err
			}

			span := prefs.Span()
			if cmd.Flags().Changed("months") {
				switch months {
				case 6:
					span = aggregate.SixMonths
				case 12:
					span = aggregate.TwelveMonths
				default:
					return fmt.Errorf("--months must be 6 or 12, got %d", months)
				}
			}

			d, err := svc.Dashboard(ctx, sel, span)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Spending · " + describeSelection(sel)))
			fmt.Println(renderOverview(d))
			fmt.Println()
			if err := renderBreakdown(d); err != nil {
				return err
			}
			fmt.Println()
			return renderTrend(d, span)
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().IntVar(&months, "months", 6, "months in the trend chart (6 or 12)")

	return cmd
}

func renderOverview(d *ledger.Dashboard) string {
	lines := []string{
		fmt.Sprintf("Total:    %s", cli.BoldStyle.Render(cli.FormatAmount(d.Total))),
		fmt.Sprintf("Expenses: %d", d.Count),
		fmt.Sprintf("Average:  %s", cli.FormatAmount(d.Average)),
	}
	if d.Range != nil {
		lines = append(lines, fmt.Sprintf("Period:   %s", d.Range))
	}
	if d.TopCategory != nil {
		lines = append(lines, fmt.Sprintf("Top:      %s (%.1f%%)",
			cli.FormatCategory(d.TopCategory.Category), d.TopCategory.Percentage))
	}
	if d.Comparison != nil {
		lines = append(lines, fmt.Sprintf("Previous: %s, %s",
			cli.FormatAmount(d.Comparison.Previous), cli.FormatChange(*d.Comparison)))
	}
	return cli.RenderBox(cli.ChartIcon+" Overview", strings.Join(lines, "\n"))
}

func renderBreakdown(d *ledger.Dashboard) error {
	if len(d.Breakdown) == 0 {
		fmt.Println(cli.InfoStyle.Render("No expenses match the current filter."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Total"),
		cli.TableHeaderStyle.Render("Share"),
		cli.TableHeaderStyle.Render("Count"))
	for _, share := range d.Breakdown {
		fmt.Fprintf(w, "%s\t%s\t%5.1f%%\t%d\n",
			cli.FormatCategory(share.Category),
			cli.FormatAmount(share.Total),
			share.Percentage,
			share.Count)
	}
	return w.Flush()
}

func renderTrend(d *ledger.Dashboard, span aggregate.TimeRange) error {
	fmt.Println(cli.BoldStyle.Render(fmt.Sprintf("Last %d months", span.Months())))

	peak := d.Trend[0].Total
	for _, b := range d.Trend {
		if b.Total.GreaterThan(peak) {
			peak = b.Total
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, b := range d.Trend {
		bar := strings.Repeat("█", cli.BarWidth(b.Total, peak, chartWidth))
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Label, cli.InfoStyle.Render(bar), cli.FormatAmount(b.Total))
	}
	return w.Flush()
}
