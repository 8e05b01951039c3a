package model

import (
	"github.com/shopspring/decimal"
)

// UserSettings holds display and conversion preferences.
type UserSettings struct {
	PrimaryCurrency  Currency         `json:"primaryCurrency" validate:"oneof=USD PLN"`
	ExchangeRate     decimal.Decimal  `json:"exchangeRate"` // global USD->PLN fallback
	AutoExchangeRate bool             `json:"autoExchangeRate"`
	MonthlyBudget    *decimal.Decimal `json:"monthlyBudget,omitempty"`
}

// SettingsPatch is a partial update. Nil fields are left unchanged.
type SettingsPatch struct {
	PrimaryCurrency  *Currency
	ExchangeRate     *decimal.Decimal
	AutoExchangeRate *bool
	MonthlyBudget    *decimal.Decimal
}

// Merge returns s with every non-nil field of p applied.
func (s UserSettings) Merge(p SettingsPatch) UserSettings {
	if p.PrimaryCurrency != nil {
		s.PrimaryCurrency = *p.PrimaryCurrency
	}
	if p.ExchangeRate != nil {
		s.ExchangeRate = *p.ExchangeRate
	}
	if p.AutoExchangeRate != nil {
		s.AutoExchangeRate = *p.AutoExchangeRate
	}
	if p.MonthlyBudget != nil {
		mb := *p.MonthlyBudget
		s.MonthlyBudget = &mb
	}
	return s
}

// DefaultSettings returns settings for a new dataset.
func DefaultSettings() UserSettings {
	return UserSettings{
		PrimaryCurrency:  USD,
		ExchangeRate:     decimal.NewFromFloat(4.0),
		AutoExchangeRate: false,
	}
}

// Debt is an outstanding loan or credit balance.
type Debt struct {
	ID              string          `json:"id" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"` // annual percent
	MinimumPayment  decimal.Decimal `json:"minimumPayment"`
	Currency        Currency        `json:"currency" validate:"oneof=USD PLN"`
	DueDate         Date            `json:"dueDate,omitempty"`
}

// SavingsGoal tracks progress toward a target amount.
type SavingsGoal struct {
	ID            string          `json:"id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Currency      Currency        `json:"currency" validate:"oneof=USD PLN"`
	Deadline      Date            `json:"deadline,omitempty"`
}

// Progress returns CurrentAmount as a percent of TargetAmount.
func (g SavingsGoal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
}

// Dataset is the whole persisted document.
type Dataset struct {
	Transactions []Transaction `json:"transactions"`
	Debts        []Debt        `json:"debts"`
	SavingsGoals []SavingsGoal `json:"savingsGoals"`
	Settings     UserSettings  `json:"settings"`
}

// NewDataset returns an empty dataset with default settings.
func NewDataset() *Dataset {
	return &Dataset{
		Transactions: []Transaction{},
		Debts:        []Debt{},
		SavingsGoals: []SavingsGoal{},
		Settings:     DefaultSettings(),
	}
}
