package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types assigned on creation or inferred during CSV import.
const (
	AccountTypeCash       = "cash"
	AccountTypeBank       = "bank"
	AccountTypeCredit     = "credit"
	AccountTypeInvestment = "investment"
	AccountTypeOther      = "other"
)

// Transaction kinds. A transfer is not a transaction kind; it is a separate
// entity with two legs.
const (
	TransactionExpense = "expense"
	TransactionIncome  = "income"
)

// Group membership roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type GroupMember struct {
	GroupID   string    `json:"groupId"`
	UserID    int64     `json:"userId"`
	Role      string    `json:"role"`
	IsDefault bool      `json:"isDefault"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type Currency struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	IsActive bool   `json:"isActive"`
}

// Account holds the stored opening balance; the current balance is always
// recomputed by replaying the ledger (see services.BalanceService).
type Account struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyID   int64           `json:"currencyId"`
	CurrencyCode string          `json:"currencyCode"`
	UserID       int64           `json:"userId"`
	GroupID      string          `json:"groupId"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Transaction struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Kind        string          `json:"kind"`
	Date        time.Time       `json:"date"`
	AccountID   int64           `json:"accountId"`
	UserID      int64           `json:"userId"`
	GroupID     string          `json:"groupId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Transfer moves FromAmount out of FromAccount and ToAmount into ToAccount.
// The two amounts are face-value in each account's own currency; no
// conversion is stored.
type Transfer struct {
	ID            int64           `json:"id"`
	FromAmount    decimal.Decimal `json:"fromAmount"`
	ToAmount      decimal.Decimal `json:"toAmount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	UserID        int64           `json:"userId"`
	GroupID       string          `json:"groupId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Operation kinds for the unified listing.
const (
	OperationTransaction = "transaction"
	OperationTransfer    = "transfer"
)

// Operation is the unified view of a transaction or transfer used for
// display/listing. Exactly one of Transaction/Transfer is set, matching Kind.
type Operation struct {
	Kind        string       `json:"kind"`
	Date        time.Time    `json:"date"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Transfer    *Transfer    `json:"transfer,omitempty"`
}

// ExchangeRate expresses how many units of the reference currency one unit
// of Currency is worth. The reference currency itself has rate 1.
type ExchangeRate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}
