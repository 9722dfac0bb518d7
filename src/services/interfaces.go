package services

import (
	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/models"
)

// ImportStore is the slice of the persistence layer the import orchestrator
// needs: name-scoped account resolution, on-the-fly currency creation and
// per-row inserts.
type ImportStore interface {
	AccountByName(userID int64, groupID, name string) (*models.Account, error)
	CreateAccount(account *models.Account) error
	CurrencyByCode(code string) (*models.Currency, error)
	CreateCurrency(currency *models.Currency) error
	CreateTransaction(tx *models.Transaction) error
	CreateTransfer(transfer *models.Transfer) error
}

// CurrencyLister supplies the codes the rate service fetches quotes for.
type CurrencyLister interface {
	ActiveCurrencyCodes() ([]string, error)
}

// ImportResult is the best-effort outcome of one import batch. Success means
// the errors list is empty; warnings never affect it.
type ImportResult struct {
	Success              bool     `json:"success"`
	ImportedTransactions int      `json:"importedTransactions"`
	ImportedTransfers    int      `json:"importedTransfers"`
	ImportedAccounts     int      `json:"importedAccounts"`
	Errors               []string `json:"errors"`
	Warnings             []string `json:"warnings"`
}

type ImportSummary struct {
	TotalRows         int `json:"totalRows"`
	TransactionsCount int `json:"transactionsCount"`
	TransfersCount    int `json:"transfersCount"`
	AccountsCount     int `json:"accountsCount"`
	ErrorsCount       int `json:"errorsCount"`
}

// ImportPreview shows what an import would do, without touching persistence.
type ImportPreview struct {
	Summary            ImportSummary              `json:"summary"`
	Accounts           []models.ParsedAccount     `json:"accounts"`
	SampleTransactions []models.ParsedTransaction `json:"sampleTransactions"`
	SampleTransfers    []models.ParsedTransfer    `json:"sampleTransfers"`
	Errors             []string                   `json:"errors"`
}

// ValidationReport is the outcome of the structural pre-import check.
type ValidationReport struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ImportService is the CSV import entry point consumed by the HTTP layer.
type ImportService interface {
	Import(csvContent string, userID int64, groupID string) *ImportResult
	Preview(csvContent string) *ImportPreview
	Validate(csvContent string) *ValidationReport
}

// RatesService converts amounts into the reference currency using a cached,
// fallback-tolerant rate set.
type RatesService interface {
	GetExchangeRates() []models.ExchangeRate
	Convert(amount decimal.Decimal, fromCode string) decimal.Decimal
	ReferenceCurrency() string
}
