package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/daterange"
	"github.com/Veraticus/tally/internal/filter"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/storage"
)

// databasePath returns the configured database path, expanded.
func databasePath() string {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}
	return config.ExpandPath(dbPath)
}

// initStorage opens the database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(databasePath())
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openLedger opens storage and returns an initialized ledger service with a
// function that closes the database.
func openLedger(ctx context.Context) (*ledger.Service, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}

	svc := ledger.NewService(store)
	if err := svc.Init(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}
	return svc, closeFn, nil
}

func preferencesStore() *config.PreferencesStore {
	path := viper.GetString("preferences.path")
	if path == "" {
		path = config.DefaultPreferencesPath
	}
	return config.NewPreferencesStore(path)
}

// loadPreferences reads the saved preferences. Unreadable files fall back to
// the defaults with a warning.
func loadPreferences() config.Preferences {
	prefs, err := preferencesStore().Load()
	if err != nil {
		slog.Warn("Using default preferences", "error", err)
	}
	return prefs
}

// addFilterFlags registers the flags that override the saved filter.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("range", "", "date filter ("+selectorNames()+")")
	cmd.Flags().String("from", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "custom range end (YYYY-MM-DD)")
	cmd.Flags().String("category", "", "only this category")
	cmd.Flags().String("search", "", "text contained in notes or category name")
}

func selectorNames() string {
	names := make([]string, len(daterange.Selectors))
	for i, s := range daterange.Selectors {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// applyFilterFlags overrides prefs with any filter flag that was set.
// Setting --from or --to without --range implies the custom selector.
func applyFilterFlags(cmd *cobra.Command, prefs *config.Preferences, loc *time.Location) error {
	flags := cmd.Flags()

	if flags.Changed("range") {
		value, _ := flags.GetString("range")
		sel, err := daterange.ParseSelector(value)
		if err != nil {
			return common.NewUserError(err.Error(), common.ErrInvalidInput)
		}
		prefs.Filter = string(sel)
	}

	if flags.Changed("from") || flags.Changed("to") {
		from, _ := flags.GetString("from")
		to, _ := flags.GetString("to")
		start, err := parseOptionalDate(from, loc)
		if err != nil {
			return err
		}
		end, err := parseOptionalDate(to, loc)
		if err != nil {
			return err
		}
		prefs.SetCustom(start, end)
		if !flags.Changed("range") {
			prefs.Filter = string(daterange.Custom)
		}
	}

	if flags.Changed("category") {
		prefs.Category, _ = flags.GetString("category")
	}
	if flags.Changed("search") {
		prefs.Search, _ = flags.GetString("search")
	}
	return nil
}

// currentSelection resolves the saved filter plus flag overrides.
func currentSelection(cmd *cobra.Command, loc *time.Location) (filter.Selection, config.Preferences, error) {
	prefs := loadPreferences()
	if err := applyFilterFlags(cmd, &prefs, loc); err != nil {
		return filter.Selection{}, prefs, err
	}
	return prefs.Selection(loc), prefs, nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, common.NewUserError(
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value), common.ErrInvalidInput)
	}
	return t, nil
}

func parseOptionalDate(value string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseMonth(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, common.NewUserError(
			fmt.Sprintf("invalid month %q, expected YYYY-MM", value), common.ErrInvalidInput)
	}
	return t, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, common.NewUserError(
			fmt.Sprintf("invalid amount %q", value), common.ErrInvalidInput)
	}
	return amount, nil
}

// userError maps ledger errors to messages for the terminal.
func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrCategoryExists),
		errors.Is(err, ledger.ErrCategoryNotFound),
		errors.Is(err, ledger.ErrEmptyCategoryName),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrProtectedCategory),
		errors.Is(err, model.ErrInvalidLimit):
		return common.NewUserError(err.Error(), err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError("no such record", err)
	default:
		return err
	}
}
