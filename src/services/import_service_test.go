package services

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/models"
	"github.com/username/kopilka/backend/src/parsers/zenmoney"
	"github.com/username/kopilka/backend/src/store"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

type fakeStore struct {
	nextID       int64
	accounts     []models.Account
	currencies   []models.Currency
	transactions []models.Transaction
	transfers    []models.Transfer

	failCreateTransaction bool
}

func (f *fakeStore) AccountByName(userID int64, groupID, name string) (*models.Account, error) {
	for i := range f.accounts {
		a := &f.accounts[i]
		if a.UserID == userID && a.GroupID == groupID && a.Name == name {
			return a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateAccount(account *models.Account) error {
	f.nextID++
	account.ID = f.nextID
	f.accounts = append(f.accounts, *account)
	return nil
}

func (f *fakeStore) CurrencyByCode(code string) (*models.Currency, error) {
	for i := range f.currencies {
		if f.currencies[i].Code == strings.ToUpper(code) {
			return &f.currencies[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateCurrency(currency *models.Currency) error {
	f.nextID++
	currency.ID = f.nextID
	f.currencies = append(f.currencies, *currency)
	return nil
}

func (f *fakeStore) CreateTransaction(tx *models.Transaction) error {
	if f.failCreateTransaction {
		return fmt.Errorf("insert transaction: disk full")
	}
	f.nextID++
	tx.ID = f.nextID
	f.transactions = append(f.transactions, *tx)
	return nil
}

func (f *fakeStore) CreateTransfer(transfer *models.Transfer) error {
	f.nextID++
	transfer.ID = f.nextID
	f.transfers = append(f.transfers, *transfer)
	return nil
}

const importHeader = "date,categoryName,payee,comment,outcomeAccountName,outcome,outcomeCurrencyShortTitle,incomeAccountName,income,incomeCurrencyShortTitle,createdDate,changedDate"

var importContent = strings.Join([]string{
	importHeader,
	"2024-01-15,Food,Store,,Wallet,398.50,RUB,,,,2024-01-15 10:00:00,2024-01-15 10:00:00",
	"2024-01-16,Salary,,January pay,,,,Card,50000,RUB,2024-01-16 09:00:00,2024-01-16 09:00:00",
	"2024-01-17,,,top up,Card,1000,RUB,Wallet,1000,RUB,2024-01-17 12:00:00,2024-01-17 12:00:00",
}, "\n")

func newTestImportService(st ImportStore) ImportService {
	return NewImportService(st, zenmoney.NewParser())
}

func TestImportCreatesAccountsCurrenciesAndRows(t *testing.T) {
	st := &fakeStore{}
	svc := newTestImportService(st)

	result := svc.Import(importContent, 1, "g1")

	if !result.Success {
		t.Fatalf("Import() success = false, errors = %v", result.Errors)
	}
	if result.ImportedAccounts != 2 {
		t.Errorf("ImportedAccounts = %d, want 2", result.ImportedAccounts)
	}
	if result.ImportedTransactions != 2 {
		t.Errorf("ImportedTransactions = %d, want 2", result.ImportedTransactions)
	}
	if result.ImportedTransfers != 1 {
		t.Errorf("ImportedTransfers = %d, want 1", result.ImportedTransfers)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none on first import", result.Warnings)
	}

	if len(st.currencies) != 1 || st.currencies[0].Code != "RUB" {
		t.Errorf("currencies = %+v, want single RUB", st.currencies)
	}
	if !st.currencies[0].IsActive {
		t.Error("created currency should be active")
	}

	wallet, err := st.AccountByName(1, "g1", "Wallet")
	if err != nil {
		t.Fatalf("Wallet account not created: %v", err)
	}
	if wallet.Type != models.AccountTypeCash {
		t.Errorf("Wallet type = %q, want %q", wallet.Type, models.AccountTypeCash)
	}

	if st.transfers[0].FromAccountID == st.transfers[0].ToAccountID {
		t.Error("transfer legs must reference distinct accounts")
	}
}

func TestImportReimportWarnsAndSkipsAccounts(t *testing.T) {
	st := &fakeStore{}
	svc := newTestImportService(st)

	first := svc.Import(importContent, 1, "g1")
	if !first.Success {
		t.Fatalf("first import failed: %v", first.Errors)
	}

	second := svc.Import(importContent, 1, "g1")
	if !second.Success {
		t.Fatalf("second import failed: %v", second.Errors)
	}
	if second.ImportedAccounts != 0 {
		t.Errorf("second ImportedAccounts = %d, want 0", second.ImportedAccounts)
	}
	if second.ImportedTransactions != 2 {
		t.Errorf("second ImportedTransactions = %d, want 2 (duplicates are re-imported)", second.ImportedTransactions)
	}
	if len(second.Warnings) == 0 || second.Warnings[0] != "import completed with warnings" {
		t.Errorf("Warnings = %v, want leading summary line", second.Warnings)
	}
	reuse := 0
	for _, w := range second.Warnings {
		if strings.Contains(w, "already exists") {
			reuse++
		}
	}
	if reuse != 2 {
		t.Errorf("got %d reuse warnings, want 2", reuse)
	}
}

func TestImportRowErrorDoesNotAbortBatch(t *testing.T) {
	content := strings.Join([]string{
		importHeader,
		"2024-01-15,Food,Store,,Wallet,not-a-number,RUB,,,,2024-01-15 10:00:00,2024-01-15 10:00:00",
		"2024-01-16,Salary,,,,,,Card,50000,RUB,2024-01-16 09:00:00,2024-01-16 09:00:00",
	}, "\n")
	st := &fakeStore{}
	svc := newTestImportService(st)

	result := svc.Import(content, 1, "g1")

	if result.Success {
		t.Error("Success = true, want false when a row fails")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "row 2") {
		t.Errorf("Errors = %v, want single row 2 error", result.Errors)
	}
	if result.ImportedTransactions != 1 {
		t.Errorf("ImportedTransactions = %d, want 1", result.ImportedTransactions)
	}
}

func TestImportPersistFailureIsRowScoped(t *testing.T) {
	st := &fakeStore{failCreateTransaction: true}
	svc := newTestImportService(st)

	result := svc.Import(importContent, 1, "g1")

	if result.Success {
		t.Error("Success = true, want false when inserts fail")
	}
	if result.ImportedTransactions != 0 {
		t.Errorf("ImportedTransactions = %d, want 0", result.ImportedTransactions)
	}
	if result.ImportedTransfers != 1 {
		t.Errorf("ImportedTransfers = %d, want 1 (transfer inserts still work)", result.ImportedTransfers)
	}
}

func TestPreviewSummarizesWithoutPersisting(t *testing.T) {
	st := &fakeStore{}
	svc := newTestImportService(st)

	preview := svc.Preview(importContent)

	if preview.Summary.TransactionsCount != 2 || preview.Summary.TransfersCount != 1 {
		t.Errorf("summary = %+v, want 2 transactions and 1 transfer", preview.Summary)
	}
	if preview.Summary.AccountsCount != 2 {
		t.Errorf("AccountsCount = %d, want 2", preview.Summary.AccountsCount)
	}
	if len(st.accounts)+len(st.transactions)+len(st.transfers) != 0 {
		t.Error("Preview must not write to the store")
	}
}

func TestPreviewCapsSamples(t *testing.T) {
	lines := []string{importHeader}
	for i := 0; i < 15; i++ {
		lines = append(lines, fmt.Sprintf("2024-01-%02d,Food,,,Wallet,%d.00,RUB,,,,2024-01-%02d 10:00:00,2024-01-%02d", i+1, i+1, i+1, i+1))
	}
	svc := newTestImportService(&fakeStore{})

	preview := svc.Preview(strings.Join(lines, "\n"))

	if preview.Summary.TransactionsCount != 15 {
		t.Fatalf("TransactionsCount = %d, want 15", preview.Summary.TransactionsCount)
	}
	if len(preview.SampleTransactions) != previewSampleSize {
		t.Errorf("sample size = %d, want %d", len(preview.SampleTransactions), previewSampleSize)
	}
}

func TestValidate(t *testing.T) {
	svc := newTestImportService(&fakeStore{})

	tests := []struct {
		name      string
		content   string
		wantValid bool
		wantError string
	}{
		{
			name:      "valid file",
			content:   importContent,
			wantValid: true,
		},
		{
			name:      "header only",
			content:   importHeader,
			wantValid: false,
			wantError: "header and at least one data row",
		},
		{
			name:      "wrong header",
			content:   "date,amount\n2024-01-01,5",
			wantValid: false,
			wantError: "missing expected column",
		},
		{
			name:      "no importable rows",
			content:   importHeader + "\n2024-01-15,Food,Store,,,,,,,,2024-01-15 10:00:00,2024-01-15",
			wantValid: false,
			wantError: "no importable transactions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := svc.Validate(tt.content)
			if report.IsValid != tt.wantValid {
				t.Fatalf("IsValid = %v, want %v (errors: %v)", report.IsValid, tt.wantValid, report.Errors)
			}
			if tt.wantError != "" {
				found := false
				for _, e := range report.Errors {
					if strings.Contains(e, tt.wantError) {
						found = true
					}
				}
				if !found {
					t.Errorf("Errors = %v, want one containing %q", report.Errors, tt.wantError)
				}
			}
		})
	}
}

func TestValidateWarnsOnPartialParseFailures(t *testing.T) {
	content := strings.Join([]string{
		importHeader,
		"2024-01-15,Food,Store,,Wallet,bad,RUB,,,,2024-01-15 10:00:00,2024-01-15",
		"2024-01-16,Salary,,,,,,Card,50000,RUB,2024-01-16 09:00:00,2024-01-16",
	}, "\n")
	svc := newTestImportService(&fakeStore{})

	report := svc.Validate(content)

	if !report.IsValid {
		t.Fatalf("IsValid = false, errors = %v", report.Errors)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "1 rows") {
		t.Errorf("Warnings = %v, want single skipped-rows warning", report.Warnings)
	}
}
