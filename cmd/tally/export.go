package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/csvio"
	"github.com/Veraticus/tally/internal/report"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered expenses",
		Long: `Export the expenses matching the current filter. Without --output the file
is written to the system temp directory with a timestamped name.`,
	}

	cmd.AddCommand(exportSubCmd("csv", "Export as CSV (date,amount,category,notes)"))
	cmd.AddCommand(exportSubCmd("json", "Export as JSON"))
	cmd.AddCommand(exportSubCmd("report", "Export a plain text report"))

	return cmd
}

func exportSubCmd(format, short string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   format,
		Short: short,
		Args:  cobra.NoArgs,
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

			now := svc.Now()
			expenses, err := svc.ListExpenses(ctx, sel.Criteria(now))
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			ext := format
			switch format {
			case "csv":
				err = csvio.Export(&buf, expenses)
			case "json":
				err = csvio.ExportJSON(&buf, expenses)
			default:
				ext = report.Extension
				err = report.Render(&buf, expenses, now)
			}
			if err != nil {
				return err
			}

			path := config.ExpandPath(output)
			switch {
			case path == "-":
				_, err = os.Stdout.Write(buf.Bytes())
				return err
			case path == "":
				if path, err = csvio.WriteTempFile(buf.Bytes(), ext, now); err != nil {
					return err
				}
			default:
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					path = filepath.Join(path, csvio.TempFileName("expenses", ext, now))
				}
				if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
					return fmt.Errorf("failed to write export file: %w", err)
				}
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(expenses), path)))
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file or directory to write, - for stdout")

	return cmd
}
