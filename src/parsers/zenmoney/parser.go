// Package zenmoney parses the ZenMoney personal-finance CSV export.
package zenmoney

import (
	"fmt"
	"strings"

	"github.com/username/kopilka/backend/src/models"
)

// DefaultCurrency is assumed when a row leaves its currency column blank.
const DefaultCurrency = "RUB"

// ExpectedHeader is the exact column set of the export layout.
var ExpectedHeader = []string{
	"date", "categoryName", "payee", "comment", "outcomeAccountName",
	"outcome", "outcomeCurrencyShortTitle", "incomeAccountName",
	"income", "incomeCurrencyShortTitle", "createdDate", "changedDate",
}

var requiredColumns = []string{"date", "createdDate", "changedDate"}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse tokenizes the whole document, classifies every row and infers the
// account set. Row failures are collected in Errors and never abort the run.
func (p *Parser) Parse(content string) *models.ParseResult {
	result := &models.ParseResult{}

	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		result.Errors = append(result.Errors, models.ParseError{Row: 0, Message: "CSV file is empty"})
		return result
	}

	headers := splitFields(strings.TrimRight(lines[0], "\r"))
	tally := newAccountTally()

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		row, err := buildRow(headers, line)
		if err != nil {
			result.Errors = append(result.Errors, models.ParseError{Row: i + 1, Message: err.Error(), Line: line})
			continue
		}

		tx, transfer, err := classifyRow(row)
		if err != nil {
			result.Errors = append(result.Errors, models.ParseError{Row: i + 1, Message: err.Error(), Line: line})
			continue
		}

		if tx != nil {
			result.Transactions = append(result.Transactions, *tx)
			tally.add(tx.AccountName, tx.CurrencyCode)
		}
		if transfer != nil {
			result.Transfers = append(result.Transfers, *transfer)
			tally.add(transfer.FromAccountName, transfer.FromCurrencyCode)
			tally.add(transfer.ToAccountName, transfer.ToCurrencyCode)
		}
	}

	result.Accounts = tally.accounts()
	return result
}

// splitFields splits one CSV line on commas, honoring double-quoted fields:
// a comma inside an open quote is literal, a quote toggles quote state. There
// is no escaped-quote handling beyond the toggle.
func splitFields(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// buildRow maps a line's fields to header names by position and checks the
// required-shape schema: the date, createdDate and changedDate columns must
// exist. All other columns are optional strings.
func buildRow(headers []string, line string) (models.ParsedRow, error) {
	fields := splitFields(line)
	byName := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(fields) {
			byName[header] = fields[i]
		} else {
			byName[header] = ""
		}
	}

	for _, col := range requiredColumns {
		if _, ok := byName[col]; !ok {
			return models.ParsedRow{}, fmt.Errorf("missing required column %q", col)
		}
	}

	return models.ParsedRow{
		Date:                      byName["date"],
		CategoryName:              byName["categoryName"],
		Payee:                     byName["payee"],
		Comment:                   byName["comment"],
		OutcomeAccountName:        byName["outcomeAccountName"],
		Outcome:                   byName["outcome"],
		OutcomeCurrencyShortTitle: byName["outcomeCurrencyShortTitle"],
		IncomeAccountName:         byName["incomeAccountName"],
		Income:                    byName["income"],
		IncomeCurrencyShortTitle:  byName["incomeCurrencyShortTitle"],
		CreatedDate:               byName["createdDate"],
		ChangedDate:               byName["changedDate"],
	}, nil
}
