package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// CategoryInput carries the editable fields of a category. Empty fields keep
// the current value on update.
type CategoryInput struct {
	Name   string
	Color  model.Color
	Symbol string
}

// CategorySummary is a category with its expense totals.
type CategorySummary struct {
	Total    decimal.Decimal
	Category model.Category
	Count    int
}

// ValidateCategoryName checks that name is non-empty and not used by another
// category. editing is the category being renamed, or nil for a new one;
// keeping its own name is allowed.
func ValidateCategoryName(name string, existing []model.Category, editing *model.Category) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCategoryName
	}
	for _, cat := range existing {
		if editing != nil && cat.ID == editing.ID {
			continue
		}
		if model.SameName(cat.Name, name) {
			return fmt.Errorf("%w: %s", ErrCategoryExists, cat.Name)
		}
	}
	return nil
}

// Categories returns every category ordered by name.
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

// CategorySummaries returns every category with the number and total of its
// expenses.
func (s *Service) CategorySummaries(ctx context.Context) ([]CategorySummary, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.GetExpenses(ctx, service.ExpenseQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	byID := make(map[int64]*CategorySummary, len(categories))
	summaries := make([]CategorySummary, len(categories))
	for i, cat := range categories {
		summaries[i] = CategorySummary{Category: cat, Total: decimal.Zero}
		byID[cat.ID] = &summaries[i]
	}
	for _, e := range expenses {
		if sum, ok := byID[e.Category.ID]; ok {
			sum.Count++
			sum.Total = sum.Total.Add(e.Amount)
		}
	}
	return summaries, nil
}

// FindCategory looks a category up by case-insensitive name.
func (s *Service) FindCategory(ctx context.Context, name string) (*model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyCategoryName
	}
	cat, err := s.store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, strings.TrimSpace(name))
	}
	return cat, nil
}

// AddCategory validates and stores a new category. An unknown color becomes
// the default and an empty symbol the default symbol.
func (s *Service) AddCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	existing, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := ValidateCategoryName(name, existing, nil); err != nil {
		return nil, err
	}

	cat := &model.Category{
		Name:   name,
		Color:  model.ParseColor(string(in.Color)),
		Symbol: model.SymbolOrDefault(in.Symbol),
	}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return cat, nil
}

// UpdateCategory edits an existing category. Uncategorized keeps its name.
func (s *Service) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*model.Category, error) {
	cat, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	if name := strings.TrimSpace(in.Name); name != "" && name != cat.Name {
		if cat.IsUncategorized() {
			return nil, fmt.Errorf("%w: %s cannot be renamed", ErrProtectedCategory, model.UncategorizedName)
		}
		existing, err := s.Categories(ctx)
		if err != nil {
			return nil, err
		}
		if err := ValidateCategoryName(name, existing, cat); err != nil {
			return nil, err
		}
		cat.Name = name
	}
	if in.Color != "" {
		cat.Color = model.ParseColor(string(in.Color))
	}
	if strings.TrimSpace(in.Symbol) != "" {
		cat.Symbol = in.Symbol
	}

	if err := s.store.UpdateCategory(ctx, cat); err != nil {
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return cat, nil
}

// DeleteCategory removes a category. Its expenses move to Uncategorized and
// its budgets are deleted, all in one transaction. It returns the number of
// expenses that were moved.
func (s *Service) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	cat, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to load category: %w", err)
	}
	if cat.IsUncategorized() {
		return 0, fmt.Errorf("%w: %s cannot be deleted", ErrProtectedCategory, model.UncategorizedName)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	target, err := ensureUncategorized(ctx, tx)
	if err != nil {
		return 0, err
	}

	moved, err := tx.ReassignExpenses(ctx, cat.ID, target.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign expenses: %w", err)
	}
	if _, err := tx.DeleteBudgetsByCategory(ctx, cat.ID); err != nil {
		return 0, fmt.Errorf("failed to delete budgets: %w", err)
	}
	if err := tx.DeleteCategory(ctx, cat.ID); err != nil {
		return 0, fmt.Errorf("failed to delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}

	slog.Info("Deleted category", "name", cat.Name, "reassigned", moved)
	return moved, nil
}
