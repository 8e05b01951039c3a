package budget

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/currency"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Breakdown is a 50/30/20 summary of one month in the primary currency.
// Savings and NetBalance always hold the same value.
type Breakdown struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Needs         decimal.Decimal `json:"needs"`
	Wants         decimal.Decimal `json:"wants"`
	Savings       decimal.Decimal `json:"savings"`
	DebtPayments  decimal.Decimal `json:"debtPayments"`
	NetBalance    decimal.Decimal `json:"netBalance"`
}

// Bucket is the 50/30/20 group an expense category belongs to.
type Bucket string

const (
	BucketNeeds Bucket = "needs"
	BucketWants Bucket = "wants"
	BucketDebt  Bucket = "debt"
)

// BucketFor classifies an expense category. Anything outside the fixed needs
// set, including Other, counts as wants.
func BucketFor(c model.Category) Bucket {
	switch c {
	case model.CategoryDebtPayment:
		return BucketDebt
	case model.CategoryHousing,
		model.CategoryTransportation,
		model.CategoryFood,
		model.CategoryUtilities,
		model.CategoryHealthcare,
		model.CategoryInsurance:
		return BucketNeeds
	default:
		return BucketWants
	}
}

// MonthlyBreakdown totals the transactions dated in month/year, converted to
// primary. PLN transactions use their recorded rate when they have one and
// fallbackRate otherwise. An empty month yields a zero Breakdown.
func MonthlyBreakdown(txns []model.Transaction, month time.Month, year int, primary model.Currency, fallbackRate decimal.Decimal) (Breakdown, error) {
	var b Breakdown
	for _, tx := range txns {
		if !tx.Date.InMonth(month, year) {
			continue
		}
		amount, err := toPrimary(tx, primary, fallbackRate)
		if err != nil {
			return Breakdown{}, err
		}

		switch tx.Type {
		case model.TypeIncome:
			b.TotalIncome = b.TotalIncome.Add(amount)
		case model.TypeExpense:
			b.TotalExpenses = b.TotalExpenses.Add(amount)
			switch BucketFor(tx.Category) {
			case BucketDebt:
				b.DebtPayments = b.DebtPayments.Add(amount)
			case BucketNeeds:
				b.Needs = b.Needs.Add(amount)
			default:
				b.Wants = b.Wants.Add(amount)
			}
		}
	}
	b.Savings = b.TotalIncome.Sub(b.TotalExpenses)
	b.NetBalance = b.Savings
	return b, nil
}

// CategoryAmount is the total for one category.
type CategoryAmount struct {
	Category model.Category  `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// CategoryBreakdown totals transactions of typ in month/year per category,
// largest first. Equal amounts keep the order in which categories were first
// seen.
func CategoryBreakdown(txns []model.Transaction, typ model.TransactionType, month time.Month, year int, primary model.Currency, fallbackRate decimal.Decimal) ([]CategoryAmount, error) {
	var result []CategoryAmount
	index := make(map[model.Category]int)
	for _, tx := range txns {
		if tx.Type != typ || !tx.Date.InMonth(month, year) {
			continue
		}
		amount, err := toPrimary(tx, primary, fallbackRate)
		if err != nil {
			return nil, err
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(result)
			index[tx.Category] = i
			result = append(result, CategoryAmount{Category: tx.Category})
		}
		result[i].Amount = result[i].Amount.Add(amount)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Amount.GreaterThan(result[j].Amount)
	})
	return result, nil
}

func toPrimary(tx model.Transaction, primary model.Currency, fallbackRate decimal.Decimal) (decimal.Decimal, error) {
	amount, err := currency.Convert(tx.Amount, tx.Currency, primary, currency.RateFor(tx, fallbackRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	return amount, nil
}
