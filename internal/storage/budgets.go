package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

const budgetSelect = `
	SELECT b.id, b.monthly_limit, b.month, b.notes, b.is_demo,
	       c.id, c.name, c.color, c.symbol, c.created_at
	FROM budgets b
	JOIN categories c ON c.id = b.category_id`

func (s *SQLiteStorage) scanBudget(row rowScanner) (model.Budget, error) {
	var (
		b     model.Budget
		color string
	)
	err := row.Scan(
		&b.ID, &b.MonthlyLimit, &b.Month, &b.Notes, &b.IsDemo,
		&b.Category.ID, &b.Category.Name, &color, &b.Category.Symbol, &b.Category.CreatedAt,
	)
	if err != nil {
		return model.Budget{}, err
	}
	b.Month = s.fromDB(b.Month)
	b.Category.CreatedAt = s.fromDB(b.Category.CreatedAt)
	b.Category.Color = model.ParseColor(color)
	return b, nil
}

// GetBudgets returns all budgets, newest month first.
func (s *SQLiteStorage) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, budgetSelect+` ORDER BY b.month DESC, c.name COLLATE NOCASE, b.created_at, b.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		b, err := s.scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	slog.Debug("retrieved budgets", "count", len(budgets))
	return budgets, nil
}

// GetBudgetByID returns a single budget.
func (s *SQLiteStorage) GetBudgetByID(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	b, err := s.scanBudget(s.q.QueryRowContext(ctx, budgetSelect+" WHERE b.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}

	return &b, nil
}

// SaveBudget inserts or replaces a budget. The limit must be positive and the
// month is stored as its first instant.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	budget.Month = model.StartOfMonth(budget.Month)

	query := `
		INSERT INTO budgets (id, category_id, monthly_limit, month, notes, is_demo)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			monthly_limit = excluded.monthly_limit,
			month = excluded.month,
			notes = excluded.notes,
			is_demo = excluded.is_demo`

	_, err := s.q.ExecContext(ctx, query,
		budget.ID,
		budget.Category.ID,
		budget.MonthlyLimit,
		toDB(budget.Month),
		budget.Notes,
		budget.IsDemo,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	slog.Debug("saved budget", "id", budget.ID, "category", budget.Category.Name)
	return nil
}

// DeleteBudget removes a budget by ID.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	return expectAffected(result, "budget", id)
}

// DeleteBudgetsByCategory removes every budget of a category.
func (s *SQLiteStorage) DeleteBudgetsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.q.ExecContext(ctx, `DELETE FROM budgets WHERE category_id = ?`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete budgets: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}
