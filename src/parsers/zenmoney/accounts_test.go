package zenmoney

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/username/kopilka/backend/src/models"
)

func TestInferAccountType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Накопительный счет", models.AccountTypeBank},
		{"Вклад в банке", models.AccountTypeBank},
		{"Savings Account", models.AccountTypeBank},
		{"Инвестиции", models.AccountTypeInvestment},
		{"Investment Portfolio", models.AccountTypeInvestment},
		{"Кредитная карта", models.AccountTypeCredit},
		{"Car Loan", models.AccountTypeCredit},
		{"Кошелек", models.AccountTypeCash},
		{"Wallet", models.AccountTypeCash},
		{"Наличные", models.AccountTypeCash},
		{"Tinkoff Black", models.AccountTypeBank},
		{"Сбербанк", models.AccountTypeBank},
		{"Something Else", models.AccountTypeOther},
		// Ordered rules: the savings keyword beats the credit keyword.
		{"Кредитный вклад", models.AccountTypeBank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferAccountType(tt.name); got != tt.want {
				t.Errorf("inferAccountType(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestAccountTallyDominantCurrency(t *testing.T) {
	tally := newAccountTally()
	tally.add("Wallet", "RUB")
	tally.add("Wallet", "USD")
	tally.add("Wallet", "USD")

	accounts := tally.accounts()
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].CurrencyCode != "USD" {
		t.Errorf("dominant currency = %s, want USD", accounts[0].CurrencyCode)
	}
}

func TestAccountTallyTieKeepsFirstSeen(t *testing.T) {
	tally := newAccountTally()
	tally.add("Wallet", "EUR")
	tally.add("Wallet", "USD")
	tally.add("Wallet", "USD")
	tally.add("Wallet", "EUR")

	accounts := tally.accounts()
	if accounts[0].CurrencyCode != "EUR" {
		t.Errorf("tie must keep the first-seen code, got %s", accounts[0].CurrencyCode)
	}
}

func TestAccountTallyPreservesFirstSeenOrder(t *testing.T) {
	tally := newAccountTally()
	tally.add("B Account", "RUB")
	tally.add("A Account", "RUB")
	tally.add("B Account", "RUB")

	var names []string
	for _, acc := range tally.accounts() {
		names = append(names, acc.Name)
	}
	if diff := cmp.Diff([]string{"B Account", "A Account"}, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAccountTallyIgnoresEmptyName(t *testing.T) {
	tally := newAccountTally()
	tally.add("", "RUB")
	if got := len(tally.accounts()); got != 0 {
		t.Errorf("expected no accounts, got %d", got)
	}
}
