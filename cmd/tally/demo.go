package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
)

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Toggle sample data",
		Long: `Demo mode fills the ledger with random sample expenses from the past year so
the dashboard has something to show. Demo expenses never count toward budgets
and are removed when demo mode is turned off.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "on",
		Short: "Insert demo expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return setDemoMode(cmd, true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "off",
		Short: "Remove demo expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return setDemoMode(cmd, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether demo data is present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := svc.CountDemo(ctx)
			if err != nil {
				return err
			}
			state := "off"
			if loadPreferences().DemoMode {
				state = "on"
			}
			fmt.Println(cli.FormatInfo(fmt.Sprintf("Demo mode is %s, %d demo expenses stored", state, count)))
			return nil
		},
	})

	return cmd
}

func setDemoMode(cmd *cobra.Command, on bool) error {
	ctx := cmd.Context()

	svc, closeFn, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var message string
	if on {
		count, err := svc.SeedDemo(ctx)
		if err != nil {
			return err
		}
		message = fmt.Sprintf("Demo mode on, %d demo expenses", count)
	} else {
		removed, err := svc.RemoveDemo(ctx)
		if err != nil {
			return err
		}
		message = fmt.Sprintf("Demo mode off, removed %d demo expenses", removed)
	}

	store := preferencesStore()
	prefs, err := store.Load()
	if err != nil {
		return err
	}
	prefs.DemoMode = on
	if err := store.Save(prefs); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(message))
	return nil
}
