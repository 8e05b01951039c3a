package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		desc string
		typ  model.TransactionType
		want model.Category
	}{
		{"Zakup w Biedronka", model.TypeExpense, model.CategoryFood},
		{"ŻABKA Z1234 WARSZAWA", model.TypeExpense, model.CategoryFood},
		{"NETFLIX.COM", model.TypeExpense, model.CategorySubscriptions},
		{"Amazon Prime membership", model.TypeExpense, model.CategorySubscriptions},
		{"amazon.de order 123", model.TypeExpense, model.CategoryShopping},
		{"ORLEN stacja 44", model.TypeExpense, model.CategoryTransportation},
		{"Rata kredytu hipotecznego", model.TypeExpense, model.CategoryDebtPayment},
		{"Wynagrodzenie za styczeń", model.TypeIncome, model.CategorySalary},
		{"Faktura 7/2025", model.TypeIncome, model.CategoryFreelance},
		{"random text", model.TypeExpense, model.CategoryOther},
		{"random text", model.TypeIncome, model.CategoryOtherIncome},
		{"", model.TypeIncome, model.CategoryOtherIncome},
		// Type is independent of category: a refund keeps the merchant's category.
		{"Zwrot Biedronka", model.TypeIncome, model.CategoryFood},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.desc, tt.typ), "Categorize(%q, %s)", tt.desc, tt.typ)
	}
}

func TestCategorize_FirstRuleWins(t *testing.T) {
	// "netflix" is listed before "allegro".
	assert.Equal(t, model.CategorySubscriptions, Categorize("Allegro netflix gift card", model.TypeExpense))
}

func TestKeywordRules(t *testing.T) {
	for _, r := range keywordRules {
		assert.Equal(t, strings.ToLower(r.keyword), r.keyword, "keyword %q must be lowercase", r.keyword)
		assert.True(t, r.category.IsValid(), "keyword %q maps to unknown category %q", r.keyword, r.category)
	}
}
