package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// ParseAmount converts a locale-formatted amount to a signed decimal.
// Whitespace thousands separators are removed. When both ',' and '.' appear,
// '.' groups thousands and ',' is the decimal point; a lone ',' is the
// decimal point. ok is false for anything that is not a number.
func ParseAmount(raw string) (amount decimal.Decimal, ok bool) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = strings.TrimPrefix(s, "+")

	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var (
	canonicalDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirstDateRe  = regexp.MustCompile(`^(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})`)
	yearFirstDateRe = regexp.MustCompile(`^(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})`)
)

// NormalizeDate rewrites DD.MM.YYYY and YYYY.MM.DD style dates (with '.', '-'
// or '/' separators) as YYYY-MM-DD. Unrecognized input is returned trimmed.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if canonicalDateRe.MatchString(s) {
		return s
	}
	if m := dayFirstDateRe.FindStringSubmatch(s); m != nil {
		return formatDate(m[3], m[2], m[1])
	}
	if m := yearFirstDateRe.FindStringSubmatch(s); m != nil {
		return formatDate(m[1], m[2], m[3])
	}
	return s
}

func formatDate(year, month, day string) string {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%s-%02d-%02d", year, m, d)
}

// TypeForAmount derives the transaction type from the sign of a parsed amount.
func TypeForAmount(amount decimal.Decimal) model.TransactionType {
	if amount.IsNegative() {
		return model.TypeExpense
	}
	return model.TypeIncome
}

// DetectCurrency maps a statement currency cell to a supported currency,
// defaulting to PLN.
func DetectCurrency(raw string) model.Currency {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "USD", "US$", "$":
		return model.USD
	default:
		return model.PLN
	}
}
