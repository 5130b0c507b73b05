package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

const expenseSelect = `
	SELECT e.id, e.amount, e.date, e.notes, e.is_demo, e.created_at,
	       c.id, c.name, c.color, c.symbol, c.created_at
	FROM expenses e
	JOIN categories c ON c.id = e.category_id`

func (s *SQLiteStorage) scanExpense(row rowScanner) (model.Expense, error) {
	var (
		exp   model.Expense
		color string
	)
	err := row.Scan(
		&exp.ID, &exp.Amount, &exp.Date, &exp.Notes, &exp.IsDemo, &exp.CreatedAt,
		&exp.Category.ID, &exp.Category.Name, &color, &exp.Category.Symbol, &exp.Category.CreatedAt,
	)
	if err != nil {
		return model.Expense{}, err
	}
	exp.Date = s.fromDB(exp.Date)
	exp.CreatedAt = s.fromDB(exp.CreatedAt)
	exp.Category.CreatedAt = s.fromDB(exp.Category.CreatedAt)
	exp.Category.Color = model.ParseColor(color)
	return exp, nil
}

// GetExpenses returns expenses newest first, narrowed by query.
func (s *SQLiteStorage) GetExpenses(ctx context.Context, query service.ExpenseQuery) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)
	if query.CategoryID != 0 {
		conditions = append(conditions, "e.category_id = ?")
		args = append(args, query.CategoryID)
	}
	if query.DemoOnly {
		conditions = append(conditions, "e.is_demo = 1")
	}
	if query.RealOnly {
		conditions = append(conditions, "e.is_demo = 0")
	}

	sqlQuery := expenseSelect
	if len(conditions) > 0 {
		sqlQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	sqlQuery += " ORDER BY e.date DESC, e.created_at DESC, e.id"

	rows, err := s.q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		exp, err := s.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	slog.Debug("retrieved expenses", "count", len(expenses))
	return expenses, nil
}

// GetExpenseByID returns a single expense.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	exp, err := s.scanExpense(s.q.QueryRowContext(ctx, expenseSelect+" WHERE e.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}

	return &exp, nil
}

// SaveExpense inserts the expense or replaces the stored row with the same ID.
// A missing ID is generated.
func (s *SQLiteStorage) SaveExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}

	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO expenses (id, amount, date, notes, category_id, is_demo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			date = excluded.date,
			notes = excluded.notes,
			category_id = excluded.category_id,
			is_demo = excluded.is_demo`

	_, err := s.q.ExecContext(ctx, query,
		expense.ID,
		expense.Amount,
		toDB(expense.Date),
		expense.Notes,
		expense.Category.ID,
		expense.IsDemo,
		toDB(expense.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}

	common.LogDebug("saved expense", common.Fields{"id": expense.ID, "amount": expense.Amount.String()})
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return expectAffected(result, "expense", id)
}

// ReassignExpenses moves every expense of one category to another and returns
// how many were moved.
func (s *SQLiteStorage) ReassignExpenses(ctx context.Context, fromCategoryID, toCategoryID int64) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.q.ExecContext(ctx,
		`UPDATE expenses SET category_id = ? WHERE category_id = ?`, toCategoryID, fromCategoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign expenses: %w", err)
	}

	moved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Info("reassigned expenses", "from", fromCategoryID, "to", toCategoryID, "count", moved)
	return moved, nil
}

// DeleteDemoExpenses removes every expense flagged as demo data.
func (s *SQLiteStorage) DeleteDemoExpenses(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.q.ExecContext(ctx, `DELETE FROM expenses WHERE is_demo = 1`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete demo expenses: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}

// CountDemoExpenses returns the number of demo expenses.
func (s *SQLiteStorage) CountDemoExpenses(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE is_demo = 1`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count demo expenses: %w", err)
	}
	return count, nil
}
