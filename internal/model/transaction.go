package model

import (
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Currency is a supported ISO currency code.
type Currency string

const (
	USD Currency = "USD"
	PLN Currency = "PLN"
)

// Currencies lists every supported currency.
var Currencies = []Currency{USD, PLN}

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	return c == USD || c == PLN
}

// Transaction is a persisted income or expense record.
type Transaction struct {
	ID          string          `json:"id" validate:"required"`
	Type        TransactionType `json:"type" validate:"oneof=income expense"`
	Amount      decimal.Decimal `json:"amount"`   // always positive, in Currency
	Currency    Currency        `json:"currency" validate:"oneof=USD PLN"`
	Category    Category        `json:"category" validate:"required"`
	Description string          `json:"description"`
	Date        Date            `json:"date" validate:"required"`
	// ExchangeRateAtTime is the USD->PLN rate captured when a PLN transaction
	// was created. Nil means the current global rate applies.
	ExchangeRateAtTime *decimal.Decimal `json:"exchangeRateAtTime,omitempty"`
}

// BankTransaction is one CSV row after normalization, before the user
// confirms the import.
type BankTransaction struct {
	Date              string          `json:"date"` // YYYY-MM-DD, or the trimmed raw value if unrecognized
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Currency          Currency        `json:"currency"`
	Counterparty      string          `json:"counterparty"`
	SuggestedCategory Category        `json:"suggestedCategory"`
	SuggestedType     TransactionType `json:"suggestedType"`
	Raw               []string        `json:"raw"`
}

// ColumnMapping holds header indices for each logical bank-statement field.
// Currency and Counterparty are -1 when the statement has no such column.
type ColumnMapping struct {
	Date         int `json:"date"`
	Amount       int `json:"amount"`
	Description  int `json:"description"`
	Currency     int `json:"currency"`
	Counterparty int `json:"counterparty"`
}

// DefaultMapping is the positional fallback used when headers are not recognized.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{Date: 0, Amount: 1, Description: 2, Currency: -1, Counterparty: -1}
}
