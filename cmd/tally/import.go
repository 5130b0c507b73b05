package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/csvio"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/ofx"
)

// maxErrorsShown caps the row errors printed after an import.
const maxErrorsShown = 10

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import expenses from files",
		Long: `Import expenses from CSV exports or bank OFX/QFX statements.

Rows that match an existing expense (same day, amount, category and notes) are
skipped. Bad rows are reported and never stop the import.`,
	}

	cmd.AddCommand(importCSVCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importCSVCmd() *cobra.Command {
	var quiet bool

	return withQuiet(&cobra.Command{
		Use:     "csv <file>",
		Short:   "Import a CSV file (date,amount,category,notes)",
		Example: `  tally import csv ~/Downloads/expenses.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			interrupt.SetOperation("CSV import")

			importer := svc.Importer()
			if !quiet {
				importer.WithProgress(cli.ImportProgress(os.Stderr, "Importing "+filepath.Base(args[0])))
			}

			result, err := importer.ImportFile(ctx, args[0])
			printImportResult(result)
			return err
		},
	}, &quiet)
}

func importOFXCmd() *cobra.Command {
	var category string
	var quiet bool

	cmd := withQuiet(&cobra.Command{
		Use:   "ofx <file>...",
		Short: "Import debits from OFX/QFX bank statements",
		Long: `Import the debits of OFX or QFX statements exported from your bank. Each
debit becomes an expense in the chosen category with the payee as notes.
Deposits and refunds are skipped.`,
		Example: `  tally import ofx ~/Downloads/checking.qfx --category Bills
  tally import ofx ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			interrupt.SetOperation("OFX import")

			parser := ofx.NewParser(svc.Location())
			total := csvio.Result{}
			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					total.Invalid(fmt.Sprintf("Failed to read file: %v", err))
					continue
				}
				stmt, err := parser.ParseFile(ctx, f, category)
				_ = f.Close()
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					common.LogError(err, "Failed to parse OFX file", common.Fields{"file": path})
					total.Invalid(fmt.Sprintf("%s: %v", filepath.Base(path), err))
					continue
				}

				fmt.Println(cli.FormatInfo(fmt.Sprintf("%s: %d debits, %d credits skipped",
					filepath.Base(path), len(stmt.Records), stmt.Credits)))

				importer := svc.Importer()
				if !quiet {
					importer.WithProgress(cli.ImportProgress(os.Stderr, "Importing "+filepath.Base(path)))
				}
				result, err := importer.ImportRecords(ctx, stmt.Records, csvio.Result{})
				mergeResult(&total, result, filepath.Base(path))
				if err != nil {
					printImportResult(total)
					return err
				}
			}

			printImportResult(total)
			return nil
		},
	}, &quiet)

	cmd.Flags().StringVarP(&category, "category", "c", model.UncategorizedName, "category for the imported expenses")

	return cmd
}

func withQuiet(cmd *cobra.Command, quiet *bool) *cobra.Command {
	cmd.Flags().BoolVarP(quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// mergeResult adds one file's outcome to the running total. Row errors are
// prefixed with the file name.
func mergeResult(total *csvio.Result, r csvio.Result, file string) {
	total.Imported += r.Imported
	total.DuplicatesSkipped += r.DuplicatesSkipped
	total.InvalidRows += r.InvalidRows
	for _, msg := range r.Errors {
		total.Errors = append(total.Errors, file+": "+msg)
	}
}

func printImportResult(r csvio.Result) {
	lines := []string{
		fmt.Sprintf("Imported:           %d", r.Imported),
		fmt.Sprintf("Duplicates skipped: %d", r.DuplicatesSkipped),
		fmt.Sprintf("Invalid rows:       %d", r.InvalidRows),
	}
	fmt.Println(cli.RenderBox(cli.FolderIcon+" Import Complete", strings.Join(lines, "\n")))

	for i, msg := range r.Errors {
		if i == maxErrorsShown {
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("... and %d more", len(r.Errors)-maxErrorsShown)))
			break
		}
		fmt.Println(cli.FormatWarning(msg))
	}
}
