package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	store.SetLocation(time.UTC)

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// createTestStorageWithCategories seeds the named categories and returns them
// in the order given.
func createTestStorageWithCategories(t *testing.T, names ...string) (*SQLiteStorage, []model.Category, func()) {
	t.Helper()
	store, cleanup := createTestStorage(t)
	ctx := context.Background()

	categories := make([]model.Category, 0, len(names))
	for _, name := range names {
		cat := model.Category{Name: name, Color: model.ColorGreen}
		if err := store.CreateCategory(ctx, &cat); err != nil {
			cleanup()
			t.Fatalf("Failed to create category %q: %v", name, err)
		}
		categories = append(categories, cat)
	}

	return store, categories, cleanup
}

func testExpense(category model.Category, amount string, date time.Time, notes string) model.Expense {
	return model.NewExpense(decimal.RequireFromString(amount), date, notes, category, false)
}

func TestSQLiteStorage_Transaction(t *testing.T) {
	tests := []struct {
		txFunc    func(context.Context, *SQLiteStorage, model.Category) error
		name      string
		wantCount int
		wantErr   bool
	}{
		{
			name: "successful transaction",
			txFunc: func(ctx context.Context, s *SQLiteStorage, cat model.Category) error {
				tx, err := s.BeginTx(ctx)
				if err != nil {
					return err
				}

				exp := testExpense(cat, "12.50", time.Now(), "lunch")
				if err := tx.SaveExpense(ctx, &exp); err != nil {
					_ = tx.Rollback()
					return err
				}

				return tx.Commit()
			},
			wantCount: 1,
		},
		{
			name: "rollback on error",
			txFunc: func(ctx context.Context, s *SQLiteStorage, cat model.Category) error {
				tx, err := s.BeginTx(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = tx.Rollback() }()

				exp := testExpense(cat, "12.50", time.Now(), "lunch")
				if err := tx.SaveExpense(ctx, &exp); err != nil {
					return err
				}

				// Missing category should fail and discard the first write
				bad := testExpense(model.Category{}, "1.00", time.Now(), "")
				return tx.SaveExpense(ctx, &bad)
			},
			wantCount: 0,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cats, cleanup := createTestStorageWithCategories(t, "Food")
			defer cleanup()
			ctx := context.Background()

			err := tt.txFunc(ctx, store, cats[0])
			if (err != nil) != tt.wantErr {
				t.Errorf("Transaction test error = %v, wantErr %v", err, tt.wantErr)
			}

			expenses, err := store.GetExpenses(ctx, serviceQueryAll())
			if err != nil {
				t.Fatalf("GetExpenses() error = %v", err)
			}
			if len(expenses) != tt.wantCount {
				t.Errorf("got %d expenses after transaction, want %d", len(expenses), tt.wantCount)
			}
		})
	}
}

func TestSQLiteStorage_NestedTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx() error = %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.BeginTx(ctx); err == nil {
		t.Error("expected nested BeginTx to fail")
	}
	if err := tx.Migrate(ctx); err == nil {
		t.Error("expected Migrate inside a transaction to fail")
	}
}

func TestSQLiteStorage_Migrations(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	// Test initial migration
	store1, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err2 := store1.Migrate(ctx); err2 != nil {
		t.Fatalf("Initial migration failed: %v", err2)
	}
	_ = store1.Close()

	// Test idempotency - running migrations again should not error
	store2, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store2.Close() }()

	if err := store2.Migrate(ctx); err != nil {
		t.Fatalf("Repeated migration failed: %v", err)
	}

	version, err := store2.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}

	var indexCount int
	err = store2.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_budgets_category_month'
	`).Scan(&indexCount)
	if err != nil {
		t.Fatalf("Failed to check index: %v", err)
	}
	if indexCount != 1 {
		t.Error("budget index was not created")
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage("  "); err == nil {
		t.Error("expected error for empty path")
	}
}
