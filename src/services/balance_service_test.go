package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/models"
)

type stubRates struct {
	multipliers map[string]float64
}

func (s *stubRates) GetExchangeRates() []models.ExchangeRate {
	rates := []models.ExchangeRate{{Currency: "RUB", Rate: 1}}
	for code, rate := range s.multipliers {
		rates = append(rates, models.ExchangeRate{Currency: code, Rate: rate})
	}
	return rates
}

func (s *stubRates) Convert(amount decimal.Decimal, fromCode string) decimal.Decimal {
	if fromCode == "RUB" {
		return amount
	}
	return amount.Mul(decimal.NewFromFloat(s.multipliers[fromCode]))
}

func (s *stubRates) ReferenceCurrency() string { return "RUB" }

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccountBalanceReplay(t *testing.T) {
	account := models.Account{ID: 1, Balance: dec("100.00"), CurrencyCode: "RUB"}
	transactions := []models.Transaction{
		{ID: 1, AccountID: 1, Kind: models.TransactionIncome, Amount: dec("20")},
		{ID: 2, AccountID: 1, Kind: models.TransactionExpense, Amount: dec("50")},
		{ID: 3, AccountID: 2, Kind: models.TransactionExpense, Amount: dec("999")},
	}
	transfers := []models.Transfer{
		{ID: 1, FromAccountID: 1, ToAccountID: 2, FromAmount: dec("10"), ToAmount: dec("10")},
		{ID: 2, FromAccountID: 2, ToAccountID: 1, FromAmount: dec("5"), ToAmount: dec("5")},
	}

	got := AccountBalance(account, transactions, transfers)
	if want := dec("65"); !got.Equal(want) {
		t.Errorf("AccountBalance() = %s, want %s", got, want)
	}
}

func TestAccountBalanceTransferLegsAreFaceValue(t *testing.T) {
	// Cross-currency transfer: each account moves by its own leg amount.
	rub := models.Account{ID: 1, Balance: dec("1000"), CurrencyCode: "RUB"}
	usd := models.Account{ID: 2, Balance: dec("0"), CurrencyCode: "USD"}
	transfers := []models.Transfer{
		{ID: 1, FromAccountID: 1, ToAccountID: 2, FromAmount: dec("900"), ToAmount: dec("10")},
	}

	if got := AccountBalance(rub, nil, transfers); !got.Equal(dec("100")) {
		t.Errorf("RUB balance = %s, want 100", got)
	}
	if got := AccountBalance(usd, nil, transfers); !got.Equal(dec("10")) {
		t.Errorf("USD balance = %s, want 10", got)
	}
}

func TestAccountBalanceNoActivity(t *testing.T) {
	account := models.Account{ID: 7, Balance: dec("42.50")}
	if got := AccountBalance(account, nil, nil); !got.Equal(dec("42.50")) {
		t.Errorf("AccountBalance() = %s, want opening balance", got)
	}
}

func TestAccountBalancesConvertsIntoReference(t *testing.T) {
	svc := NewBalanceService(&stubRates{multipliers: map[string]float64{"USD": 90}})
	accounts := []models.Account{
		{ID: 1, Balance: dec("100"), CurrencyCode: "RUB"},
		{ID: 2, Balance: dec("10"), CurrencyCode: "USD"},
	}

	views := svc.AccountBalances(accounts, nil, nil)
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if !views[0].ReferenceBalance.Equal(dec("100")) {
		t.Errorf("RUB reference balance = %s, want 100", views[0].ReferenceBalance)
	}
	if !views[1].ReferenceBalance.Equal(dec("900")) {
		t.Errorf("USD reference balance = %s, want 900", views[1].ReferenceBalance)
	}
}

func TestPortfolioTotal(t *testing.T) {
	svc := NewBalanceService(&stubRates{multipliers: map[string]float64{"USD": 90}})
	accounts := []models.Account{
		{ID: 1, CurrencyCode: "RUB"},
		{ID: 2, CurrencyCode: "USD"},
	}
	transactions := []models.Transaction{
		{AccountID: 1, Kind: models.TransactionIncome, Amount: dec("1000")},
		{AccountID: 1, Kind: models.TransactionExpense, Amount: dec("400")},
		{AccountID: 2, Kind: models.TransactionIncome, Amount: dec("10")},
		{AccountID: 99, Kind: models.TransactionIncome, Amount: dec("5000")},
	}

	got := svc.PortfolioTotal(accounts, transactions)
	// 600 RUB net + 10 USD net * 90; the orphaned account row is skipped.
	if want := dec("1500"); !got.Equal(want) {
		t.Errorf("PortfolioTotal() = %s, want %s", got, want)
	}
}

func TestPortfolioTotalEmpty(t *testing.T) {
	svc := NewBalanceService(&stubRates{})
	if got := svc.PortfolioTotal(nil, nil); !got.Equal(decimal.Zero) {
		t.Errorf("PortfolioTotal() = %s, want 0", got)
	}
}

func TestOperationsMergedNewestFirst(t *testing.T) {
	transactions := []models.Transaction{
		{ID: 1, Date: day(10)},
		{ID: 2, Date: day(20)},
	}
	transfers := []models.Transfer{
		{ID: 3, Date: day(15)},
	}

	operations := Operations(transactions, transfers)
	if len(operations) != 3 {
		t.Fatalf("got %d operations, want 3", len(operations))
	}

	wantKinds := []string{models.OperationTransaction, models.OperationTransfer, models.OperationTransaction}
	wantDays := []int{20, 15, 10}
	for i, op := range operations {
		if op.Kind != wantKinds[i] {
			t.Errorf("operations[%d].Kind = %q, want %q", i, op.Kind, wantKinds[i])
		}
		if op.Date.Day() != wantDays[i] {
			t.Errorf("operations[%d].Date day = %d, want %d", i, op.Date.Day(), wantDays[i])
		}
		switch op.Kind {
		case models.OperationTransaction:
			if op.Transaction == nil || op.Transfer != nil {
				t.Errorf("operations[%d] has wrong entity set for kind %q", i, op.Kind)
			}
		case models.OperationTransfer:
			if op.Transfer == nil || op.Transaction != nil {
				t.Errorf("operations[%d] has wrong entity set for kind %q", i, op.Kind)
			}
		}
	}
}
