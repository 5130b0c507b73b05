package csvio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Export writes the header and one row per expense in the given order.
func Export(w io.Writer, expenses []model.Expense) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range expenses {
		row := strings.Join([]string{
			e.Date.Format(model.DateLayout),
			e.Amount.String(),
			EscapeField(e.Category.Name),
			EscapeField(e.Notes),
		}, ",")
		if _, err := io.WriteString(w, row+"\n"); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return nil
}

// ExportString renders Export into a string.
func ExportString(expenses []model.Expense) string {
	var buf bytes.Buffer
	_ = Export(&buf, expenses) // bytes.Buffer writes do not fail
	return buf.String()
}

type jsonExpense struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
}

// ExportJSON writes a pretty printed array of expenses. Amounts are strings
// so that no precision is lost.
func ExportJSON(w io.Writer, expenses []model.Expense) error {
	rows := make([]jsonExpense, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, jsonExpense{
			Amount:   e.Amount.String(),
			Category: e.Category.Name,
			Date:     e.Date.Format(model.DateLayout),
			Notes:    e.Notes,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	return nil
}

// TempFileName returns a timestamped export file name such as
// "expenses-2025-10-20_14-05.csv".
func TempFileName(prefix, ext string, now time.Time) string {
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format("2006-01-02_15-04"), ext)
}

// WriteTempFile writes content to a timestamped file in the system temp
// directory and returns its path.
func WriteTempFile(content []byte, ext string, now time.Time) (string, error) {
	path := filepath.Join(os.TempDir(), TempFileName("expenses", ext, now))
	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
