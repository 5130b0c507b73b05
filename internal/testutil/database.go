// Package testutil provides test fixtures backed by a real SQLite database.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	t          *testing.T
	categories map[string]model.Category
}

// SetupTestDB creates a migrated database in a temporary directory and seeds
// the named categories. Dates are read back in UTC.
//
// Example:
//
//	db := testutil.SetupTestDB(t, "Food", "Bills")
//	food := db.MustGetCategory("Food")
func SetupTestDB(t *testing.T, categoryNames ...string) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	store.SetLocation(time.UTC)

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{
		Storage:    store,
		t:          t,
		categories: make(map[string]model.Category),
	}
	for _, name := range categoryNames {
		db.AddCategory(name)
	}

	return db
}

// AddCategory seeds one category.
func (db *TestDB) AddCategory(name string) model.Category {
	db.t.Helper()

	cat := model.Category{Name: name, Color: model.ColorBlue}
	if err := db.Storage.CreateCategory(context.Background(), &cat); err != nil {
		db.t.Fatalf("failed to seed category %q: %v", name, err)
	}
	db.categories[model.FoldName(name)] = cat
	return cat
}

// MustGetCategory returns a seeded category or fails the test.
func (db *TestDB) MustGetCategory(name string) model.Category {
	db.t.Helper()

	cat, ok := db.categories[model.FoldName(name)]
	if !ok {
		db.t.Fatalf("category %q was not seeded", name)
	}
	return cat
}

// AddExpense stores an expense in a seeded category.
func (db *TestDB) AddExpense(category, amount string, date time.Time, notes string) model.Expense {
	db.t.Helper()

	exp := model.NewExpense(decimal.RequireFromString(amount), date, notes, db.MustGetCategory(category), false)
	if err := db.Storage.SaveExpense(context.Background(), &exp); err != nil {
		db.t.Fatalf("failed to seed expense: %v", err)
	}
	return exp
}

// AddBudget stores a budget for a seeded category.
func (db *TestDB) AddBudget(category, limit string, month time.Time) model.Budget {
	db.t.Helper()

	b, err := model.NewBudget(db.MustGetCategory(category), decimal.RequireFromString(limit), month, "", false)
	if err != nil {
		db.t.Fatalf("failed to build budget: %v", err)
	}
	if err := db.Storage.SaveBudget(context.Background(), b); err != nil {
		db.t.Fatalf("failed to seed budget: %v", err)
	}
	return *b
}

// Expenses returns every stored expense, newest first.
func (db *TestDB) Expenses() []model.Expense {
	db.t.Helper()

	expenses, err := db.Storage.GetExpenses(context.Background(), service.ExpenseQuery{})
	if err != nil {
		db.t.Fatalf("failed to load expenses: %v", err)
	}
	return expenses
}

// WithTransaction executes the given function within a database transaction.
// The transaction is automatically rolled back after the function completes.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	ctx := context.Background()
	tx, err := db.Storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
