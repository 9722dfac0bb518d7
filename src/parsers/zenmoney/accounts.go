package zenmoney

import (
	"strings"

	"github.com/username/kopilka/backend/src/models"
)

// accountTally accumulates, per account name, how often each currency code
// appeared next to it. Insertion order is preserved on both levels so that
// ties resolve in favor of the first-seen code.
type accountTally struct {
	order  []string
	counts map[string]*currencyCounts
}

type currencyCounts struct {
	order  []string
	counts map[string]int
}

func newAccountTally() *accountTally {
	return &accountTally{counts: make(map[string]*currencyCounts)}
}

func (t *accountTally) add(accountName, currencyCode string) {
	if accountName == "" {
		return
	}
	cc, ok := t.counts[accountName]
	if !ok {
		cc = &currencyCounts{counts: make(map[string]int)}
		t.counts[accountName] = cc
		t.order = append(t.order, accountName)
	}
	if _, seen := cc.counts[currencyCode]; !seen {
		cc.order = append(cc.order, currencyCode)
	}
	cc.counts[currencyCode]++
}

// accounts materializes one ParsedAccount per distinct name, in first-seen
// order, with the dominant currency and a heuristic type.
func (t *accountTally) accounts() []models.ParsedAccount {
	var accounts []models.ParsedAccount
	for _, name := range t.order {
		cc := t.counts[name]

		dominant := DefaultCurrency
		maxCount := 0
		for _, code := range cc.order {
			// Strictly greater only: the first code to reach the
			// eventual max keeps priority.
			if cc.counts[code] > maxCount {
				maxCount = cc.counts[code]
				dominant = code
			}
		}

		accounts = append(accounts, models.ParsedAccount{
			Name:         name,
			Type:         inferAccountType(name),
			CurrencyCode: dominant,
		})
	}
	return accounts
}

// typeRules map name substrings to account types. Ordered: the first rule
// with a matching keyword wins, so "кредитный вклад" is a bank deposit, not
// a credit account.
var typeRules = []struct {
	keywords    []string
	accountType string
}{
	{[]string{"накопительный", "вклад", "savings", "deposit"}, models.AccountTypeBank},
	{[]string{"инвест", "investment"}, models.AccountTypeInvestment},
	{[]string{"кредит", "займ", "credit", "loan"}, models.AccountTypeCredit},
	{[]string{"кошелек", "кошелёк", "наличные", "cash", "wallet"}, models.AccountTypeCash},
	{[]string{"tinkoff", "сбербанк", "альфа", "банк", "bank"}, models.AccountTypeBank},
}

func inferAccountType(name string) string {
	lowerName := strings.ToLower(name)
	for _, rule := range typeRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowerName, keyword) {
				return rule.accountType
			}
		}
	}
	return models.AccountTypeOther
}
