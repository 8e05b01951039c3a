package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status grades the savings rate of a month.
type Status string

const (
	StatusExcellent      Status = "excellent"
	StatusGood           Status = "good"
	StatusFair           Status = "fair"
	StatusNeedsAttention Status = "needs_attention"
)

// Advice is the savings assessment derived from a Breakdown. Percentages are
// of total income and are not clamped.
type Advice struct {
	OptimalSavingsRate   decimal.Decimal `json:"optimalSavingsRate"`
	OptimalSavingsAmount decimal.Decimal `json:"optimalSavingsAmount"`
	CurrentSavingsRate   decimal.Decimal `json:"currentSavingsRate"`
	NeedsPercent         decimal.Decimal `json:"needsPercent"`
	WantsPercent         decimal.Decimal `json:"wantsPercent"`
	SavingsPercent       decimal.Decimal `json:"savingsPercent"`
	Status               Status          `json:"status"`
	Tips                 []string        `json:"tips"`
}

// Tip texts.
const (
	TipRecordIncome = "Record your income for this month to get personalized savings advice."

	tipExcellent     = "Excellent work! You are saving at least 20% of your income."
	tipExcellentNeed = "Your needs take up more than 50% of your income. Look for ways to lower fixed costs such as housing or transportation."
	tipGood          = "Good job! You are saving between 10% and 20% of your income. Try to reach 20%."
	tipGoodWants     = "Your wants exceed 30% of your income. Trimming discretionary spending would help you reach the 20% savings target."
	tipFair          = "You are saving less than 10% of your income. Aim for at least 10% as a first step."
	tipFairNeeds     = "Your needs take up more than 60% of your income. Review your fixed costs."
	tipFairWants     = "Your wants exceed 30% of your income. Cut back on discretionary spending."
	tipOverspending  = "You are spending more than you earn this month."
	tipMakeBudget    = "Review your expenses and build a budget that keeps spending below your income."
	tipCutWantsFmt   = "Cut wants spending by $%s to bring it down to 20%% of your income."
)

var (
	hundred         = decimal.NewFromInt(100)
	baseSavingsRate = decimal.NewFromInt(20)
	minSavingsRate  = decimal.NewFromInt(10)
	pct10           = decimal.NewFromInt(10)
	pct20           = decimal.NewFromInt(20)
	pct30           = decimal.NewFromInt(30)
	pct50           = decimal.NewFromInt(50)
	pct60           = decimal.NewFromInt(60)
)

// SavingsAdvice grades b and produces tips. The tip list depends only on b.
func SavingsAdvice(b Breakdown) Advice {
	if !b.TotalIncome.IsPositive() {
		return Advice{
			OptimalSavingsRate:   baseSavingsRate,
			OptimalSavingsAmount: decimal.Zero,
			CurrentSavingsRate:   decimal.Zero,
			NeedsPercent:         decimal.Zero,
			WantsPercent:         decimal.Zero,
			SavingsPercent:       decimal.Zero,
			Status:               StatusNeedsAttention,
			Tips:                 []string{TipRecordIncome},
		}
	}

	percentOf := func(v decimal.Decimal) decimal.Decimal {
		return v.Div(b.TotalIncome).Mul(hundred)
	}
	needs := percentOf(b.Needs)
	wants := percentOf(b.Wants)
	savings := percentOf(b.Savings)

	optimal := baseSavingsRate
	if b.DebtPayments.IsPositive() {
		optimal = decimal.Max(minSavingsRate, baseSavingsRate.Sub(percentOf(b.DebtPayments)))
	}

	a := Advice{
		OptimalSavingsRate:   optimal,
		OptimalSavingsAmount: b.TotalIncome.Mul(optimal).Div(hundred),
		CurrentSavingsRate:   savings,
		NeedsPercent:         needs,
		WantsPercent:         wants,
		SavingsPercent:       savings,
	}

	switch {
	case savings.GreaterThanOrEqual(pct20):
		a.Status = StatusExcellent
		a.Tips = append(a.Tips, tipExcellent)
		if needs.GreaterThan(pct50) {
			a.Tips = append(a.Tips, tipExcellentNeed)
		}
	case savings.GreaterThanOrEqual(pct10):
		a.Status = StatusGood
		a.Tips = append(a.Tips, tipGood)
		if wants.GreaterThan(pct30) {
			a.Tips = append(a.Tips, tipGoodWants)
		}
	case !savings.IsNegative():
		a.Status = StatusFair
		a.Tips = append(a.Tips, tipFair)
		if needs.GreaterThan(pct60) {
			a.Tips = append(a.Tips, tipFairNeeds)
		}
		if wants.GreaterThan(pct30) {
			a.Tips = append(a.Tips, tipFairWants)
		}
	default:
		a.Status = StatusNeedsAttention
		a.Tips = append(a.Tips, tipOverspending, tipMakeBudget)
		if wants.GreaterThan(pct20) {
			cut := wants.Sub(pct20).Mul(b.TotalIncome).Div(hundred)
			a.Tips = append(a.Tips, fmt.Sprintf(tipCutWantsFmt, cut.StringFixed(2)))
		}
	}
	return a
}

// Usage compares a month's spending against the monthly budget.
type Usage struct {
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed decimal.Decimal `json:"percentUsed"`
	OverBudget  bool            `json:"overBudget"`
}

// BudgetUsage reports spending against monthlyBudget. ok is false when no
// positive budget is set.
func BudgetUsage(b Breakdown, monthlyBudget *decimal.Decimal) (u Usage, ok bool) {
	if monthlyBudget == nil || !monthlyBudget.IsPositive() {
		return Usage{}, false
	}
	limit := *monthlyBudget
	return Usage{
		Budget:      limit,
		Spent:       b.TotalExpenses,
		Remaining:   limit.Sub(b.TotalExpenses),
		PercentUsed: b.TotalExpenses.Div(limit).Mul(hundred),
		OverBudget:  b.TotalExpenses.GreaterThan(limit),
	}, true
}
