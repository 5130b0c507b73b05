// Package service defines the interfaces shared by the application layers.
package service

import (
	"context"

	"github.com/Veraticus/tally/internal/model"
)

// ExpenseQuery narrows expense reads at the storage level. Zero values mean
// "no restriction". Date filtering happens in memory through the filter
// package.
type ExpenseQuery struct {
	CategoryID int64
	DemoOnly   bool
	RealOnly   bool
}

// Storage defines the contract for our persistence layer. Reads return fully
// materialized snapshots and writes are visible to subsequent reads.
type Storage interface {
	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// Expense operations
	GetExpenses(ctx context.Context, query ExpenseQuery) ([]model.Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*model.Expense, error)
	SaveExpense(ctx context.Context, expense *model.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ReassignExpenses(ctx context.Context, fromCategoryID, toCategoryID int64) (int64, error)
	DeleteDemoExpenses(ctx context.Context) (int64, error)
	CountDemoExpenses(ctx context.Context) (int, error)

	// Budget operations
	GetBudgets(ctx context.Context) ([]model.Budget, error)
	GetBudgetByID(ctx context.Context, id string) (*model.Budget, error)
	SaveBudget(ctx context.Context, budget *model.Budget) error
	DeleteBudget(ctx context.Context, id string) error
	DeleteBudgetsByCategory(ctx context.Context, categoryID int64) (int64, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
