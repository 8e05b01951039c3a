package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fintrack-dev/fintrack/internal/model"
)

var validate = validator.New()

// ErrValidation wraps every rejected write.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single rejected field.
type ValidationError struct {
	ID          string
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Description)
	}
	return fmt.Sprintf("[%s] %s: %s", e.ID, e.Field, e.Description)
}

// ValidateTransaction checks struct tags plus the rules tags cannot express:
// a positive amount and a known category. Imported refunds keep an expense
// category on an income row, so the category is not tied to the type.
func ValidateTransaction(tx model.Transaction) []ValidationError {
	errs := tagErrors(tx.ID, validate.Struct(tx))

	if !tx.Amount.IsPositive() {
		errs = append(errs, ValidationError{ID: tx.ID, Field: "amount", Description: fmt.Sprintf("must be positive, got %s", tx.Amount)})
	}
	if tx.Category != "" && !tx.Category.IsValid() {
		errs = append(errs, ValidationError{ID: tx.ID, Field: "category", Description: fmt.Sprintf("unknown category %q", tx.Category)})
	}
	if tx.ExchangeRateAtTime != nil && !tx.ExchangeRateAtTime.IsPositive() {
		errs = append(errs, ValidationError{ID: tx.ID, Field: "exchangeRateAtTime", Description: "must be positive when set"})
	}
	return errs
}

// ValidateSettings checks merged settings before they are stored.
func ValidateSettings(s model.UserSettings) []ValidationError {
	errs := tagErrors("", validate.Struct(s))
	if !s.ExchangeRate.IsPositive() {
		errs = append(errs, ValidationError{Field: "exchangeRate", Description: fmt.Sprintf("must be positive, got %s", s.ExchangeRate)})
	}
	if s.MonthlyBudget != nil && s.MonthlyBudget.IsNegative() {
		errs = append(errs, ValidationError{Field: "monthlyBudget", Description: "must not be negative"})
	}
	return errs
}

// ValidateDebt checks a debt record.
func ValidateDebt(d model.Debt) []ValidationError {
	errs := tagErrors(d.ID, validate.Struct(d))
	if !d.TotalAmount.IsPositive() {
		errs = append(errs, ValidationError{ID: d.ID, Field: "totalAmount", Description: "must be positive"})
	}
	if d.RemainingAmount.IsNegative() || d.RemainingAmount.GreaterThan(d.TotalAmount) {
		errs = append(errs, ValidationError{ID: d.ID, Field: "remainingAmount", Description: "must be between 0 and the total"})
	}
	if d.InterestRate.IsNegative() || d.MinimumPayment.IsNegative() {
		errs = append(errs, ValidationError{ID: d.ID, Field: "interestRate", Description: "rate and minimum payment must not be negative"})
	}
	return errs
}

// ValidateGoal checks a savings goal.
func ValidateGoal(g model.SavingsGoal) []ValidationError {
	errs := tagErrors(g.ID, validate.Struct(g))
	if !g.TargetAmount.IsPositive() {
		errs = append(errs, ValidationError{ID: g.ID, Field: "targetAmount", Description: "must be positive"})
	}
	if g.CurrentAmount.IsNegative() {
		errs = append(errs, ValidationError{ID: g.ID, Field: "currentAmount", Description: "must not be negative"})
	}
	return errs
}

func tagErrors(recordID string, err error) []ValidationError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{ID: recordID, Field: "record", Description: err.Error()}}
	}
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		desc := "failed " + fe.Tag()
		if fe.Param() != "" {
			desc += "=" + fe.Param()
		}
		out = append(out, ValidationError{ID: recordID, Field: jsonName(fe.Field()), Description: desc})
	}
	return out
}

// jsonName lowercases the first letter so messages use document field names.
func jsonName(field string) string {
	if field == "" || strings.ToUpper(field) == field {
		return strings.ToLower(field)
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func joinErrors(errs []ValidationError) error {
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
