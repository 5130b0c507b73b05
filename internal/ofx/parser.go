// Package ofx reads OFX/QFX bank and credit card statements and turns their
// debits into importable expense records.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/csvio"
	"github.com/Veraticus/tally/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Statement is the result of parsing one OFX file.
type Statement struct {
	Accounts []string
	Records  []csvio.Record
	// Credits counts deposits and refunds, which are not expenses.
	Credits int
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	loc *time.Location
}

// NewParser creates a new OFX parser. Posting dates are truncated to the day
// in loc.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file. Every debit becomes a record in the given
// category with the cleaned payee as its notes.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader, category string) (*Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{}
	accounts := make(map[string]bool)

	// Process bank messages
	for _, msg := range resp.Bank {
		if bank, ok := msg.(*ofxgo.StatementResponse); ok {
			accounts[string(bank.BankAcctFrom.AcctID)] = true
			if bank.BankTranList != nil {
				p.collect(stmt, bank.BankTranList.Transactions, category)
			}
		}
	}

	// Process credit card messages
	for _, msg := range resp.CreditCard {
		if cc, ok := msg.(*ofxgo.CCStatementResponse); ok {
			accounts[string(cc.CCAcctFrom.AcctID)] = true
			if cc.BankTranList != nil {
				p.collect(stmt, cc.BankTranList.Transactions, category)
			}
		}
	}

	for acct := range accounts {
		if acct != "" {
			stmt.Accounts = append(stmt.Accounts, acct)
		}
	}
	sort.Strings(stmt.Accounts)

	slog.Info("Parsed OFX file",
		"debits", len(stmt.Records),
		"credits", stmt.Credits,
		"accounts", len(stmt.Accounts))

	return stmt, nil
}

func (p *Parser) collect(stmt *Statement, txns []ofxgo.Transaction, category string) {
	for _, ofxTx := range txns {
		amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(6))
		if err != nil {
			slog.Warn("Skipping OFX transaction with unreadable amount",
				"fitid", string(ofxTx.FiTID),
				"error", err)
			continue
		}

		// OFX uses negative amounts for debits
		if !amount.IsNegative() {
			stmt.Credits++
			continue
		}

		stmt.Records = append(stmt.Records, csvio.Record{
			Line:     len(stmt.Records) + stmt.Credits + 1,
			Date:     model.StartOfDay(ofxTx.DtPosted.In(p.loc)),
			Amount:   amount.Abs(),
			Category: category,
			Notes:    p.extractMerchantName(ofxTx),
		})
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)

	// Sometimes MEMO has better merchant info
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
