package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// ErrInvalidRate is returned when a conversion needs a rate that is not positive.
var ErrInvalidRate = errors.New("exchange rate must be positive")

// Convert converts amount from one currency to another using a USD->PLN rate.
// Same-currency conversion is the identity and ignores the rate.
func Convert(amount decimal.Decimal, from, to model.Currency, usdToPLN decimal.Decimal) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	if !usdToPLN.IsPositive() {
		return decimal.Zero, fmt.Errorf("converting %s to %s: %w", from, to, ErrInvalidRate)
	}
	switch {
	case from == model.USD && to == model.PLN:
		return amount.Mul(usdToPLN), nil
	case from == model.PLN && to == model.USD:
		return amount.Div(usdToPLN), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported conversion %s to %s", from, to)
	}
}

// RateFor picks the rate for a transaction: its recorded rate when it is a PLN
// transaction carrying a positive one, otherwise the fallback.
func RateFor(tx model.Transaction, fallback decimal.Decimal) decimal.Decimal {
	if tx.Currency == model.PLN && tx.ExchangeRateAtTime != nil && tx.ExchangeRateAtTime.IsPositive() {
		return *tx.ExchangeRateAtTime
	}
	return fallback
}
