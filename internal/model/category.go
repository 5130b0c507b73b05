package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// UncategorizedName is the sentinel category that receives expenses of deleted
// categories. It always exists once the ledger is initialized.
const UncategorizedName = "Uncategorized"

// Default symbols.
const (
	DefaultSymbol       = "tag.fill"
	ImportedSymbol      = "square.grid.2x2.fill"
	UncategorizedSymbol = "questionmark.circle"
)

// Category groups expenses. Its identity is the case-insensitive name.
type Category struct {
	CreatedAt time.Time
	Name      string
	Symbol    string
	Color     Color
	ID        int64
}

// IsUncategorized reports whether c is the sentinel category.
func (c Category) IsUncategorized() bool {
	return SameName(c.Name, UncategorizedName)
}

// FoldName normalizes a category name for identity comparisons.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// SameName reports whether two category names identify the same category.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// SymbolOrDefault returns symbol, or DefaultSymbol when it is blank.
func SymbolOrDefault(symbol string) string {
	if strings.TrimSpace(symbol) == "" {
		return DefaultSymbol
	}
	return symbol
}

// DefaultCategories are seeded into an empty ledger.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food", Color: ColorOrange, Symbol: "fork.knife"},
		{Name: "Transportation", Color: ColorBlue, Symbol: "car.fill"},
		{Name: "Entertainment", Color: ColorPurple, Symbol: "tv.fill"},
		{Name: "Shopping", Color: ColorPink, Symbol: "bag.fill"},
		{Name: "Bills", Color: ColorRed, Symbol: "doc.text.fill"},
		{Name: "Other", Color: ColorGray, Symbol: "ellipsis.circle.fill"},
	}
}

// Uncategorized returns a new, unsaved sentinel category.
func Uncategorized() Category {
	return Category{Name: UncategorizedName, Color: ColorGray, Symbol: UncategorizedSymbol}
}
