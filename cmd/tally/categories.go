package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage expense categories",
		Long:    `List, add, update, and delete the categories expenses are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func colorNames() string {
	names := make([]string, len(model.Palette))
	for i, c := range model.Palette {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Long:  `Display every category with its color, symbol and spending so far.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			summaries, err := svc.CategorySummaries(ctx)
			if err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'tally categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Color"),
				cli.TableHeaderStyle.Render("Symbol"),
				cli.TableHeaderStyle.Render("Expenses"),
				cli.TableHeaderStyle.Render("Total"))
			for _, sum := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					cli.FormatCategory(sum.Category),
					sum.Category.Color,
					sum.Category.Symbol,
					sum.Count,
					cli.FormatAmount(sum.Total))
			}
			return w.Flush()
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var color, symbol string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long:  `Create a new expense category. Names are unique regardless of case.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			cat, err := svc.AddCategory(ctx, ledger.CategoryInput{
				Name:   args[0],
				Color:  model.Color(color),
				Symbol: symbol,
			})
			if err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %s", cli.FormatCategory(*cat))))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", string(model.DefaultColor), "category color ("+colorNames()+")")
	cmd.Flags().StringVar(&symbol, "symbol", model.DefaultSymbol, "category symbol")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var name, color, symbol string

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Rename or restyle a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			cat, err := svc.FindCategory(ctx, args[0])
			if err != nil {
				return userError(err)
			}

			updated, err := svc.UpdateCategory(ctx, cat.ID, ledger.CategoryInput{
				Name:   name,
				Color:  model.Color(color),
				Symbol: symbol,
			})
			if err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %s", cli.FormatCategory(*updated))))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new color ("+colorNames()+")")
	cmd.Flags().StringVar(&symbol, "symbol", "", "new symbol")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Long: `Delete a category. Its expenses move to Uncategorized and its budgets are
removed. Uncategorized itself cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, closeFn, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			cat, err := svc.FindCategory(ctx, args[0])
			if err != nil {
				return userError(err)
			}

			if !force && !cat.IsUncategorized() {
				prompt := fmt.Sprintf("Delete %s and move its expenses to %s?", cat.Name, model.UncategorizedName)
				ok, err := cli.NewNonBlockingReader(os.Stdin).Confirm(ctx, os.Stdout, prompt)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Canceled"))
					return nil
				}
			}

			moved, err := svc.DeleteCategory(ctx, cat.ID)
			if err != nil {
				return userError(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %s, moved %d expenses to %s", cat.Name, moved, model.UncategorizedName)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}
