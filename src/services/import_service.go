package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/username/kopilka/backend/src/currency"
	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/models"
	"github.com/username/kopilka/backend/src/parsers"
	"github.com/username/kopilka/backend/src/parsers/zenmoney"
	"github.com/username/kopilka/backend/src/store"
)

const previewSampleSize = 10

type importServiceImpl struct {
	store  ImportStore
	parser parsers.Parser
}

func NewImportService(st ImportStore, parser parsers.Parser) ImportService {
	return &importServiceImpl{store: st, parser: parser}
}

// Import runs the full pipeline: parse, resolve accounts, persist rows.
// Rows are imported independently; a failed row is recorded and skipped,
// never aborting the rest of the batch.
func (s *importServiceImpl) Import(csvContent string, userID int64, groupID string) *ImportResult {
	result := &ImportResult{Errors: []string{}, Warnings: []string{}}

	parsed := s.parser.Parse(csvContent)
	for _, perr := range parsed.Errors {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", perr.Row, perr.Message))
	}

	accountIDs := make(map[string]int64, len(parsed.Accounts))
	for _, acc := range parsed.Accounts {
		existing, err := s.store.AccountByName(userID, groupID, acc.Name)
		if err == nil {
			accountIDs[acc.Name] = existing.ID
			result.Warnings = append(result.Warnings, fmt.Sprintf("account %q already exists, reusing it", acc.Name))
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to look up account %q: %v", acc.Name, err))
			continue
		}

		currencyID, err := s.resolveCurrency(acc.CurrencyCode)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to resolve currency %q for account %q: %v", acc.CurrencyCode, acc.Name, err))
			continue
		}
		created := &models.Account{
			Name:       acc.Name,
			Type:       acc.Type,
			CurrencyID: currencyID,
			UserID:     userID,
			GroupID:    groupID,
		}
		if err := s.store.CreateAccount(created); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to create account %q: %v", acc.Name, err))
			continue
		}
		accountIDs[acc.Name] = created.ID
		result.ImportedAccounts++
	}

	for _, tx := range parsed.Transactions {
		accountID, ok := accountIDs[tx.AccountName]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("transaction %q (%s): account %q not available", tx.Description, tx.Date.Format("2006-01-02"), tx.AccountName))
			continue
		}
		record := &models.Transaction{
			Kind:        tx.Kind,
			Amount:      tx.Amount,
			Description: tx.Description,
			Category:    tx.Category,
			Date:        tx.Date,
			AccountID:   accountID,
			UserID:      userID,
			GroupID:     groupID,
		}
		if err := s.store.CreateTransaction(record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to import transaction %q: %v", tx.Description, err))
			continue
		}
		result.ImportedTransactions++
	}

	for _, tr := range parsed.Transfers {
		fromID, okFrom := accountIDs[tr.FromAccountName]
		toID, okTo := accountIDs[tr.ToAccountName]
		if !okFrom || !okTo {
			result.Errors = append(result.Errors, fmt.Sprintf("transfer %q (%s): account pair %q -> %q not available", tr.Description, tr.Date.Format("2006-01-02"), tr.FromAccountName, tr.ToAccountName))
			continue
		}
		record := &models.Transfer{
			FromAccountID: fromID,
			ToAccountID:   toID,
			FromAmount:    tr.FromAmount,
			ToAmount:      tr.ToAmount,
			Description:   tr.Description,
			Date:          tr.Date,
			UserID:        userID,
			GroupID:       groupID,
		}
		if err := s.store.CreateTransfer(record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to import transfer %q: %v", tr.Description, err))
			continue
		}
		result.ImportedTransfers++
	}

	result.Success = len(result.Errors) == 0
	if len(result.Warnings) > 0 {
		result.Warnings = append([]string{"import completed with warnings"}, result.Warnings...)
	}
	logger.L.Info("import finished",
		"userID", userID,
		"groupID", groupID,
		"transactions", result.ImportedTransactions,
		"transfers", result.ImportedTransfers,
		"accounts", result.ImportedAccounts,
		"errors", len(result.Errors))
	return result
}

func (s *importServiceImpl) resolveCurrency(code string) (int64, error) {
	existing, err := s.store.CurrencyByCode(code)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}
	info := currency.Lookup(code)
	created := &models.Currency{
		Code:     strings.ToUpper(code),
		Name:     info.Name,
		Symbol:   info.Symbol,
		IsActive: true,
	}
	if err := s.store.CreateCurrency(created); err != nil {
		return 0, fmt.Errorf("create currency %s: %w", code, err)
	}
	return created.ID, nil
}

// Preview parses the content and reports what an import would produce.
func (s *importServiceImpl) Preview(csvContent string) *ImportPreview {
	parsed := s.parser.Parse(csvContent)
	preview := &ImportPreview{
		Summary: ImportSummary{
			TotalRows:         len(parsed.Transactions) + len(parsed.Transfers) + len(parsed.Errors),
			TransactionsCount: len(parsed.Transactions),
			TransfersCount:    len(parsed.Transfers),
			AccountsCount:     len(parsed.Accounts),
			ErrorsCount:       len(parsed.Errors),
		},
		Accounts:           parsed.Accounts,
		SampleTransactions: sample(parsed.Transactions, previewSampleSize),
		SampleTransfers:    sample(parsed.Transfers, previewSampleSize),
		Errors:             []string{},
	}
	for _, perr := range parsed.Errors {
		preview.Errors = append(preview.Errors, fmt.Sprintf("row %d: %s", perr.Row, perr.Message))
	}
	return preview
}

// Validate checks file structure before any data is written.
func (s *importServiceImpl) Validate(csvContent string) *ValidationReport {
	report := &ValidationReport{Errors: []string{}, Warnings: []string{}}

	content := strings.TrimPrefix(csvContent, "\ufeff")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		report.Errors = append(report.Errors, "file must contain a header and at least one data row")
		return report
	}

	headerFields := make(map[string]bool)
	for _, field := range strings.Split(lines[0], ",") {
		headerFields[strings.TrimSpace(field)] = true
	}
	for _, expected := range zenmoney.ExpectedHeader {
		if !headerFields[expected] {
			report.Errors = append(report.Errors, fmt.Sprintf("missing expected column %q", expected))
		}
	}
	if len(report.Errors) > 0 {
		return report
	}

	parsed := s.parser.Parse(csvContent)
	if len(parsed.Errors) > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d rows could not be parsed and will be skipped", len(parsed.Errors)))
	}
	if len(parsed.Transactions) == 0 && len(parsed.Transfers) == 0 {
		report.Errors = append(report.Errors, "no importable transactions or transfers found")
	}
	if len(parsed.Accounts) == 0 {
		report.Errors = append(report.Errors, "no accounts could be derived from the file")
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

func sample[T any](items []T, limit int) []T {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}
