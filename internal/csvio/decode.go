package csvio

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/model"
)

// Record is a parsed, valid data row.
type Record struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category string
	Notes    string
	Line     int
}

// Result summarizes an import. Errors carry one human readable message per
// invalid row.
type Result struct {
	Errors            []string
	Imported          int
	DuplicatesSkipped int
	InvalidRows       int
}

// Invalid records a failed row.
func (r *Result) Invalid(msg string) {
	r.InvalidRows++
	r.Errors = append(r.Errors, msg)
}

// Total returns the number of data rows that were looked at.
func (r Result) Total() int {
	return r.Imported + r.DuplicatesSkipped + r.InvalidRows
}

// Message strings reported for invalid input.
const (
	msgEmptyFile = "Empty or invalid CSV file"
)

// Decode parses CSV content. The first record is the header and is always
// skipped. Blank lines are ignored. Dates are interpreted in loc.
func Decode(content string, loc *time.Location) ([]Record, Result) {
	if loc == nil {
		loc = time.Local
	}

	var (
		records []Record
		result  Result
	)

	raw := splitRecords(content)
	data := make([]rawRecord, 0, len(raw))
	if len(raw) > 0 {
		for _, r := range raw[1:] {
			if strings.TrimSpace(r.text) != "" {
				data = append(data, r)
			}
		}
	}

	if len(data) == 0 {
		result.Invalid(msgEmptyFile)
		return nil, result
	}

	for _, r := range data {
		rec, err := parseRecord(r, loc)
		if err != "" {
			result.Invalid(err)
			continue
		}
		records = append(records, rec)
	}

	return records, result
}

func parseRecord(r rawRecord, loc *time.Location) (Record, string) {
	fields := SplitLine(r.text)
	if len(fields) < 3 {
		return Record{}, fmt.Sprintf("Line %d: Not enough fields", r.line)
	}

	dateText := strings.TrimSpace(fields[0])
	date, err := time.ParseInLocation(model.DateLayout, dateText, loc)
	if err != nil {
		return Record{}, fmt.Sprintf("Line %d: Invalid date format '%s'", r.line, dateText)
	}

	amountText := strings.TrimSpace(fields[1])
	amount, err := decimal.NewFromString(amountText)
	if err != nil || !amount.IsPositive() {
		return Record{}, fmt.Sprintf("Line %d: Invalid amount '%s'", r.line, amountText)
	}

	// Fields past the fourth are ignored
	var notes string
	if len(fields) > 3 {
		notes = fields[3]
	}

	return Record{
		Line:     r.line,
		Date:     date,
		Amount:   amount,
		Category: strings.TrimSpace(fields[2]),
		Notes:    notes,
	}, ""
}
