package csvio

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// Store is the subset of the persistence layer the importer needs.
type Store interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	GetExpenses(ctx context.Context, query service.ExpenseQuery) ([]model.Expense, error)
	SaveExpense(ctx context.Context, expense *model.Expense) error
}

// ProgressFunc is called after each data row with the number of rows handled
// so far and the total.
type ProgressFunc func(done, total int)

// Importer turns parsed records into stored expenses.
type Importer struct {
	store    Store
	loc      *time.Location
	progress ProgressFunc
}

// NewImporter creates an importer. Dates are interpreted in loc.
func NewImporter(store Store, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.Local
	}
	return &Importer{store: store, loc: loc}
}

// WithProgress sets the progress callback.
func (im *Importer) WithProgress(fn ProgressFunc) *Importer {
	im.progress = fn
	return im
}

// ImportFile reads and imports a CSV file. A read failure is reported as a
// single invalid row.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		var result Result
		result.Invalid(fmt.Sprintf("Failed to read file: %v", err))
		return result, nil
	}
	return im.ImportContent(ctx, string(content))
}

// ImportContent decodes and imports CSV content.
func (im *Importer) ImportContent(ctx context.Context, content string) (Result, error) {
	records, result := Decode(content, im.loc)
	return im.ImportRecords(ctx, records, result)
}

// ImportRecords stores records, skipping duplicates of expenses that existed
// before the import started. Unknown categories are created. The returned
// error is only set when the existing data could not be loaded; row level
// failures are accumulated in the result. Cancellation stops the import
// between rows; rows already stored stay stored.
func (im *Importer) ImportRecords(ctx context.Context, records []Record, result Result) (Result, error) {
	if len(records) == 0 {
		return result, nil
	}

	existing, err := im.store.GetExpenses(ctx, service.ExpenseQuery{})
	if err != nil {
		return result, fmt.Errorf("failed to load existing expenses: %w", err)
	}
	categories, err := im.store.GetCategories(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load categories: %w", err)
	}

	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[im.dedupKey(e.Date, e.Amount.String(), e.Category.Name, e.Notes)] = struct{}{}
	}

	byName := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byName[model.FoldName(c.Name)] = c
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		im.importRecord(ctx, rec, seen, byName, &result)
		if im.progress != nil {
			im.progress(i+1, len(records))
		}
	}

	common.LogInfo("CSV import finished", common.Fields{
		"imported":   result.Imported,
		"duplicates": result.DuplicatesSkipped,
		"invalid":    result.InvalidRows,
	})

	return result, nil
}

func (im *Importer) importRecord(ctx context.Context, rec Record, seen map[string]struct{}, byName map[string]model.Category, result *Result) {
	name := strings.TrimSpace(rec.Category)
	if name == "" {
		name = model.UncategorizedName
	}

	if _, dup := seen[im.dedupKey(rec.Date, rec.Amount.String(), name, rec.Notes)]; dup {
		result.DuplicatesSkipped++
		return
	}

	category, ok := byName[model.FoldName(name)]
	if !ok {
		category = model.Category{Name: name, Color: model.ColorGray, Symbol: model.ImportedSymbol}
		if model.SameName(name, model.UncategorizedName) {
			category = model.Uncategorized()
		}
		if err := im.store.CreateCategory(ctx, &category); err != nil {
			result.Invalid(fmt.Sprintf("Line %d: Failed to create category '%s': %v", rec.Line, name, err))
			return
		}
		byName[model.FoldName(name)] = category
	}

	expense := model.NewExpense(rec.Amount, rec.Date, rec.Notes, category, false)
	if err := im.store.SaveExpense(ctx, &expense); err != nil {
		result.Invalid(fmt.Sprintf("Line %d: Failed to save expense: %v", rec.Line, err))
		return
	}
	result.Imported++
}

// dedupKey identifies an expense by calendar day, exact amount, folded
// category name and normalized notes.
func (im *Importer) dedupKey(date time.Time, amount, category, notes string) string {
	return strings.Join([]string{
		date.In(im.loc).Format(model.DateLayout),
		amount,
		model.FoldName(category),
		model.NormalizeNotes(notes),
	}, "\x00")
}
