package models

import "time"

// Bank account types.
const (
	AccountCurrent = "current"
	AccountSavings = "savings"
)

// Transaction directions.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// BankAccount is a company bank account. Deactivated accounts
// (IsActive=false) are excluded from listings but never deleted.
type BankAccount struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	BankName      string    `json:"bankName"`
	AccountType   string    `json:"accountType"`
	Balance       float64   `json:"balance"`
	CompanyID     string    `json:"companyId"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Transaction is a single bank statement line. Immutable once created;
// there is no update operation.
type Transaction struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"accountId"`
	Amount          float64   `json:"amount"`
	TransactionType string    `json:"transactionType"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Category        string    `json:"category"`
	ReferenceNumber string    `json:"referenceNumber"`
	BalanceAfter    float64   `json:"balanceAfter"`
	CompanyID       string    `json:"companyId"`
	CreatedAt       time.Time `json:"createdAt"`
}
