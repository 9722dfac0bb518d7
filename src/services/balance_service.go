package services

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/models"
)

// BalanceService derives balances and portfolio totals by replaying the
// ledger; nothing here mutates stored state.
type BalanceService struct {
	rates RatesService
}

func NewBalanceService(rates RatesService) *BalanceService {
	return &BalanceService{rates: rates}
}

// AccountBalance replays every ledger entry touching the account on top of
// its opening balance. Transfer legs move face values; no conversion happens
// here even when the two accounts hold different currencies.
func AccountBalance(account models.Account, transactions []models.Transaction, transfers []models.Transfer) decimal.Decimal {
	balance := account.Balance
	for _, tx := range transactions {
		if tx.AccountID != account.ID {
			continue
		}
		switch tx.Kind {
		case models.TransactionIncome:
			balance = balance.Add(tx.Amount)
		case models.TransactionExpense:
			balance = balance.Sub(tx.Amount)
		}
	}
	for _, tr := range transfers {
		if tr.FromAccountID == account.ID {
			balance = balance.Sub(tr.FromAmount)
		}
		if tr.ToAccountID == account.ID {
			balance = balance.Add(tr.ToAmount)
		}
	}
	return balance
}

// AccountBalanceView pairs an account with its replayed balance, both in the
// account currency and converted into the reference currency.
type AccountBalanceView struct {
	Account          models.Account  `json:"account"`
	Balance          decimal.Decimal `json:"balance"`
	ReferenceBalance decimal.Decimal `json:"referenceBalance"`
}

func (s *BalanceService) AccountBalances(accounts []models.Account, transactions []models.Transaction, transfers []models.Transfer) []AccountBalanceView {
	views := make([]AccountBalanceView, 0, len(accounts))
	for _, account := range accounts {
		balance := AccountBalance(account, transactions, transfers)
		views = append(views, AccountBalanceView{
			Account:          account,
			Balance:          balance,
			ReferenceBalance: s.rates.Convert(balance, account.CurrencyCode),
		})
	}
	return views
}

// PortfolioTotal nets income against expenses per currency and converts each
// net into the reference currency. Transfers shuffle money between accounts
// of the same portfolio, so they are excluded on purpose.
func (s *BalanceService) PortfolioTotal(accounts []models.Account, transactions []models.Transaction) decimal.Decimal {
	currencyByAccount := make(map[int64]string, len(accounts))
	for _, account := range accounts {
		currencyByAccount[account.ID] = account.CurrencyCode
	}

	net := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		code, ok := currencyByAccount[tx.AccountID]
		if !ok {
			continue
		}
		switch tx.Kind {
		case models.TransactionIncome:
			net[code] = net[code].Add(tx.Amount)
		case models.TransactionExpense:
			net[code] = net[code].Sub(tx.Amount)
		}
	}

	total := decimal.Zero
	for code, amount := range net {
		total = total.Add(s.rates.Convert(amount, code))
	}
	return total
}

// Operations merges transactions and transfers into one listing sorted by
// date, newest first.
func Operations(transactions []models.Transaction, transfers []models.Transfer) []models.Operation {
	operations := make([]models.Operation, 0, len(transactions)+len(transfers))
	for i := range transactions {
		operations = append(operations, models.Operation{
			Kind:        models.OperationTransaction,
			Date:        transactions[i].Date,
			Transaction: &transactions[i],
		})
	}
	for i := range transfers {
		operations = append(operations, models.Operation{
			Kind:     models.OperationTransfer,
			Date:     transfers[i].Date,
			Transfer: &transfers[i],
		})
	}
	sort.SliceStable(operations, func(i, j int) bool {
		return operations[i].Date.After(operations[j].Date)
	})
	return operations
}
