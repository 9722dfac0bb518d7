package zenmoney

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/models"
)

const (
	uncategorized      = "Без категории"
	defaultDescription = "Транзакция"
)

// Date layouts observed in ZenMoney exports.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// classifyRow decides what one row represents. Both outcome and income sides
// populated means a transfer, exactly one side means a transaction, neither
// means the row is silently discarded (all return values nil).
func classifyRow(row models.ParsedRow) (*models.ParsedTransaction, *models.ParsedTransfer, error) {
	hasOutcome := strings.TrimSpace(row.Outcome) != "" && strings.TrimSpace(row.OutcomeAccountName) != ""
	hasIncome := strings.TrimSpace(row.Income) != "" && strings.TrimSpace(row.IncomeAccountName) != ""

	switch {
	case hasOutcome && hasIncome:
		transfer, err := parseTransfer(row)
		return nil, transfer, err
	case hasOutcome || hasIncome:
		tx, err := parseTransaction(row, hasOutcome)
		return tx, nil, err
	default:
		return nil, nil, nil
	}
}

func parseTransaction(row models.ParsedRow, isExpense bool) (*models.ParsedTransaction, error) {
	var amountStr, accountName, currencyCode, kind string
	if isExpense {
		kind = models.TransactionExpense
		amountStr = row.Outcome
		accountName = strings.TrimSpace(row.OutcomeAccountName)
		currencyCode = row.OutcomeCurrencyShortTitle
	} else {
		kind = models.TransactionIncome
		amountStr = row.Income
		accountName = strings.TrimSpace(row.IncomeAccountName)
		currencyCode = row.IncomeCurrencyShortTitle
	}
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(row)
	if err != nil {
		return nil, err
	}

	category := row.CategoryName
	if category == "" {
		category = uncategorized
	}

	return &models.ParsedTransaction{
		Amount:       amount,
		Description:  buildDescription(row),
		Category:     category,
		Kind:         kind,
		Date:         date,
		AccountName:  accountName,
		CurrencyCode: currencyCode,
		OriginalRow:  row,
	}, nil
}

func parseTransfer(row models.ParsedRow) (*models.ParsedTransfer, error) {
	fromAmount, err := parseAmount(row.Outcome)
	if err != nil {
		return nil, err
	}
	toAmount, err := parseAmount(row.Income)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(row)
	if err != nil {
		return nil, err
	}

	fromCurrency := row.OutcomeCurrencyShortTitle
	if fromCurrency == "" {
		fromCurrency = DefaultCurrency
	}
	toCurrency := row.IncomeCurrencyShortTitle
	if toCurrency == "" {
		toCurrency = DefaultCurrency
	}

	return &models.ParsedTransfer{
		FromAmount:       fromAmount,
		ToAmount:         toAmount,
		Description:      buildDescription(row),
		Date:             date,
		FromAccountName:  strings.TrimSpace(row.OutcomeAccountName),
		ToAccountName:    strings.TrimSpace(row.IncomeAccountName),
		FromCurrencyCode: fromCurrency,
		ToCurrencyCode:   toCurrency,
		OriginalRow:      row,
	}, nil
}

// parseAmount parses a monetary value that is already in major-unit decimal
// form, with either ',' or '.' as the fractional separator.
func parseAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.Join(strings.Fields(amountStr), "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format: %q", amountStr)
	}
	return decimal.NewFromFloat(value), nil
}

// parseDate prefers createdDate over date, matching the export where the
// date column may hold only the day while createdDate carries full time.
func parseDate(row models.ParsedRow) (time.Time, error) {
	dateStr := strings.TrimSpace(row.CreatedDate)
	if dateStr == "" {
		dateStr = strings.TrimSpace(row.Date)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", dateStr)
}

// buildDescription joins payee and comment with " - ", falling back to the
// category name and finally a generic sentinel.
func buildDescription(row models.ParsedRow) string {
	var parts []string
	if payee := strings.TrimSpace(row.Payee); payee != "" {
		parts = append(parts, payee)
	}
	if comment := strings.TrimSpace(row.Comment); comment != "" {
		parts = append(parts, comment)
	}
	if len(parts) == 0 {
		if row.CategoryName != "" {
			return row.CategoryName
		}
		return defaultDescription
	}
	return strings.Join(parts, " - ")
}
