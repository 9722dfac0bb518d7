package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedRow is one CSV line keyed by header column name. It lives only for
// the duration of a single import run.
type ParsedRow struct {
	Date                      string
	CategoryName              string
	Payee                     string
	Comment                   string
	OutcomeAccountName        string
	Outcome                   string
	OutcomeCurrencyShortTitle string
	IncomeAccountName         string
	Income                    string
	IncomeCurrencyShortTitle  string
	CreatedDate               string
	ChangedDate               string
}

// ParsedTransaction is a classified expense or income row, not yet persisted.
type ParsedTransaction struct {
	Amount       decimal.Decimal
	Description  string
	Category     string
	Kind         string // TransactionExpense or TransactionIncome
	Date         time.Time
	AccountName  string
	CurrencyCode string
	OriginalRow  ParsedRow
}

// ParsedTransfer is a classified transfer row: both the outcome and the
// income side of the CSV line were populated.
type ParsedTransfer struct {
	FromAmount       decimal.Decimal
	ToAmount         decimal.Decimal
	Description      string
	Date             time.Time
	FromAccountName  string
	ToAccountName    string
	FromCurrencyCode string
	ToCurrencyCode   string
	OriginalRow      ParsedRow
}

// ParsedAccount is derived once per unique account name after scanning every
// row of an import.
type ParsedAccount struct {
	Name         string
	Type         string
	CurrencyCode string // dominant currency across all rows naming this account
}

// ParseError is a row-scoped, non-fatal parse failure.
type ParseError struct {
	Row     int    `json:"row"` // 1-based CSV line number
	Message string `json:"message"`
	Line    string `json:"line,omitempty"`
}

// ParseResult is everything extracted from one CSV document.
type ParseResult struct {
	Transactions []ParsedTransaction
	Transfers    []ParsedTransfer
	Accounts     []ParsedAccount
	Errors       []ParseError
}
