package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

const categoryColumns = `id, name, color, symbol, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStorage) scanCategory(row rowScanner) (model.Category, error) {
	var (
		cat   model.Category
		color string
	)
	if err := row.Scan(&cat.ID, &cat.Name, &color, &cat.Symbol, &cat.CreatedAt); err != nil {
		return model.Category{}, err
	}
	cat.Color = model.ParseColor(color)
	cat.CreatedAt = s.fromDB(cat.CreatedAt)
	return cat, nil
}

// GetCategories returns all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name COLLATE NOCASE, id`

	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := s.scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a category by its ID.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

	cat, err := s.scanCategory(s.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategoryByName returns the category whose name matches case-insensitively,
// or nil when there is none. SQLite's NOCASE only folds ASCII, so the match
// itself is done with full Unicode case folding.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	categories, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	for i := range categories {
		if model.SameName(categories[i].Name, name) {
			return &categories[i], nil
		}
	}

	return nil, nil // Category not found
}

// CreateCategory inserts a category and sets its ID and CreatedAt.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	if !category.Color.Valid() {
		category.Color = model.DefaultColor
	}
	category.Symbol = model.SymbolOrDefault(category.Symbol)

	query := `INSERT INTO categories (name, color, symbol, created_at) VALUES (?, ?, ?, ?)`

	result, err := s.q.ExecContext(ctx, query,
		category.Name, string(category.Color), category.Symbol, toDB(category.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category ID: %w", err)
	}
	category.ID = id

	slog.Info("created new category", "name", category.Name, "id", id)
	return nil
}

// UpdateCategory rewrites the name, color and symbol of an existing category.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	query := `UPDATE categories SET name = ?, color = ?, symbol = ? WHERE id = ?`

	result, err := s.q.ExecContext(ctx, query,
		category.Name, string(category.Color), model.SymbolOrDefault(category.Symbol), category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	if err := expectAffected(result, "category", category.ID); err != nil {
		return err
	}

	slog.Info("updated category", "id", category.ID, "name", category.Name)
	return nil
}

// DeleteCategory removes a category row. Callers must move its expenses and
// budgets away first; the foreign keys reject the delete otherwise.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if err := expectAffected(result, "category", id); err != nil {
		return err
	}

	slog.Info("deleted category", "id", id)
	return nil
}

func expectAffected(result sql.Result, kind string, id any) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %v: %w", kind, id, common.ErrNotFound)
	}
	return nil
}
