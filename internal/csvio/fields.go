// Package csvio encodes expenses to CSV and JSON and imports CSV files back
// into the ledger.
package csvio

import (
	"strings"
)

// Header is the first row of every exported file.
const Header = "date,amount,category,notes"

// EscapeField quotes a field when it contains a comma, quote or line break.
// Embedded quotes are doubled.
func EscapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// SplitLine splits one record into fields. A quote opens a quoted section
// only at the start of a field; anywhere else it is a literal character.
// Inside a quoted section a doubled quote is a literal quote and commas do
// not separate fields.
func SplitLine(line string) []string {
	var (
		fields     []string
		current    strings.Builder
		inQuotes   bool
		fieldStart = true
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes && r == '"' && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			i++
		case inQuotes && r == '"':
			inQuotes = false
		case r == '"' && fieldStart:
			inQuotes = true
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
			fieldStart = true
			continue
		default:
			current.WriteRune(r)
		}
		fieldStart = false
	}
	fields = append(fields, current.String())

	return fields
}

// rawRecord is one logical CSV record and the physical line it starts on.
type rawRecord struct {
	text string
	line int
}

// splitRecords breaks content into records. Quoted sections follow the same
// rules as SplitLine, and line breaks inside them are kept as written. CRLF
// and lone CR end a record outside quotes.
func splitRecords(content string) []rawRecord {
	var (
		records    []rawRecord
		current    strings.Builder
		inQuotes   bool
		fieldStart = true
	)
	line := 1
	start := 1

	flush := func() {
		records = append(records, rawRecord{text: current.String(), line: start})
		current.Reset()
	}

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		crlf := r == '\r' && i+1 < len(runes) && runes[i+1] == '\n'

		switch {
		case inQuotes && r == '"' && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteString(`""`)
			i++
		case inQuotes && r == '"':
			inQuotes = false
			current.WriteRune(r)
		case r == '"' && fieldStart:
			inQuotes = true
			current.WriteRune(r)
		case (r == '\n' || r == '\r') && inQuotes:
			current.WriteRune(r)
			if crlf {
				current.WriteRune('\n')
				i++
			}
			line++
		case r == '\n' || r == '\r':
			if crlf {
				i++
			}
			flush()
			line++
			start = line
			fieldStart = true
			continue
		case r == ',' && !inQuotes:
			current.WriteRune(r)
			fieldStart = true
			continue
		default:
			current.WriteRune(r)
		}
		fieldStart = false
	}
	if current.Len() > 0 {
		flush()
	}

	return records
}
