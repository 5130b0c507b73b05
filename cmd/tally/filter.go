package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/daterange"
)

func filterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show or change the saved filter",
		Long: `The saved filter narrows 'expenses list', 'dashboard' and 'export'. Flags on
those commands override it for one invocation.`,
	}

	cmd.AddCommand(showFilterCmd())
	cmd.AddCommand(setFilterCmd())
	cmd.AddCommand(clearFilterCmd())

	return cmd
}

func showFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved filter",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			printFilter(loadPreferences(), time.Local)
			return nil
		},
	}
}

func setFilterCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the saved filter",
		Example: `  tally filter set --range this-month
  tally filter set --from 2025-01-01 --to 2025-03-31 --category Food
  tally filter set --search coffee`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := preferencesStore()
			prefs, err := store.Load()
			if err != nil {
				return err
			}

			if err := applyFilterFlags(cmd, &prefs, time.Local); err != nil {
				return err
			}
			if cmd.Flags().Changed("months") {
				switch months {
				case 6, 12:
					prefs.TimeRange = fmt.Sprintf("%dm", months)
				default:
					return fmt.Errorf("--months must be 6 or 12, got %d", months)
				}
			}

			if prefs.Filter == string(daterange.Custom) && (prefs.CustomStart == 0 || prefs.CustomEnd == 0) {
				fmt.Println(cli.FormatWarning("Custom range needs both --from and --to; no date filtering applies until then"))
			}

			if err := store.Save(prefs); err != nil {
				return err
			}
			printFilter(prefs, time.Local)
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().IntVar(&months, "months", 6, "months in the dashboard trend chart (6 or 12)")

	return cmd
}

func clearFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Reset the saved filter to all expenses",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store := preferencesStore()
			prefs, err := store.Load()
			if err != nil {
				return err
			}
			prefs.ClearFilter()
			if err := store.Save(prefs); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Filter cleared"))
			return nil
		},
	}
}

func printFilter(prefs config.Preferences, loc *time.Location) {
	sel := prefs.Selection(loc)
	fmt.Println(cli.FormatInfo("Filter: " + describeSelection(sel)))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Trend span: %d months", prefs.Span().Months())))
}
