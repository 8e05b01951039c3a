package importer

import (
	"strings"

	"github.com/fintrack-dev/fintrack/internal/model"
)

type keywordRule struct {
	keyword  string
	category model.Category
}

// keywordRules is evaluated top to bottom; the first keyword found in the
// lowercased description decides the category. Keep the order.
var keywordRules = []keywordRule{
	// Groceries and eating out.
	{"biedronka", model.CategoryFood},
	{"lidl", model.CategoryFood},
	{"żabka", model.CategoryFood},
	{"zabka", model.CategoryFood},
	{"kaufland", model.CategoryFood},
	{"carrefour", model.CategoryFood},
	{"auchan", model.CategoryFood},
	{"lewiatan", model.CategoryFood},
	{"dino", model.CategoryFood},
	{"netto", model.CategoryFood},
	{"stokrotka", model.CategoryFood},
	{"mcdonald", model.CategoryFood},
	{"kfc", model.CategoryFood},
	{"pizza", model.CategoryFood},
	{"restauracja", model.CategoryFood},
	{"restaurant", model.CategoryFood},
	{"glovo", model.CategoryFood},
	{"pyszne.pl", model.CategoryFood},
	{"wolt", model.CategoryFood},
	{"grocery", model.CategoryFood},

	// Subscriptions before shopping so "amazon prime" beats "amazon".
	{"netflix", model.CategorySubscriptions},
	{"spotify", model.CategorySubscriptions},
	{"hbo", model.CategorySubscriptions},
	{"disney", model.CategorySubscriptions},
	{"youtube premium", model.CategorySubscriptions},
	{"amazon prime", model.CategorySubscriptions},
	{"apple.com", model.CategorySubscriptions},
	{"google storage", model.CategorySubscriptions},
	{"subscription", model.CategorySubscriptions},
	{"abonament", model.CategorySubscriptions},

	// Transport.
	{"orlen", model.CategoryTransportation},
	{"circle k", model.CategoryTransportation},
	{"shell", model.CategoryTransportation},
	{"lotos", model.CategoryTransportation},
	{"uber", model.CategoryTransportation},
	{"bolt", model.CategoryTransportation},
	{"pkp", model.CategoryTransportation},
	{"intercity", model.CategoryTransportation},
	{"jakdojade", model.CategoryTransportation},
	{"ztm", model.CategoryTransportation},
	{"mpk", model.CategoryTransportation},
	{"paliwo", model.CategoryTransportation},
	{"parking", model.CategoryTransportation},

	// Utilities and telecom.
	{"pge", model.CategoryUtilities},
	{"tauron", model.CategoryUtilities},
	{"enea", model.CategoryUtilities},
	{"energa", model.CategoryUtilities},
	{"pgnig", model.CategoryUtilities},
	{"wodociągi", model.CategoryUtilities},
	{"mpwik", model.CategoryUtilities},
	{"orange", model.CategoryUtilities},
	{"t-mobile", model.CategoryUtilities},
	{"plus gsm", model.CategoryUtilities},
	{"upc", model.CategoryUtilities},
	{"vectra", model.CategoryUtilities},
	{"prąd", model.CategoryUtilities},
	{"electricity", model.CategoryUtilities},

	// Housing.
	{"czynsz", model.CategoryHousing},
	{"wspólnota", model.CategoryHousing},
	{"spółdzielnia", model.CategoryHousing},
	{"ikea", model.CategoryHousing},
	{"castorama", model.CategoryHousing},
	{"leroy merlin", model.CategoryHousing},

	// Health and insurance.
	{"apteka", model.CategoryHealthcare},
	{"pharmacy", model.CategoryHealthcare},
	{"medicover", model.CategoryHealthcare},
	{"luxmed", model.CategoryHealthcare},
	{"enel-med", model.CategoryHealthcare},
	{"dentysta", model.CategoryHealthcare},
	{"pzu", model.CategoryInsurance},
	{"warta", model.CategoryInsurance},
	{"allianz", model.CategoryInsurance},
	{"ubezpieczenie", model.CategoryInsurance},
	{"insurance", model.CategoryInsurance},

	// Discretionary.
	{"cinema city", model.CategoryEntertainment},
	{"multikino", model.CategoryEntertainment},
	{"helios", model.CategoryEntertainment},
	{"steam", model.CategoryEntertainment},
	{"playstation", model.CategoryEntertainment},
	{"bilety", model.CategoryEntertainment},
	{"allegro", model.CategoryShopping},
	{"amazon", model.CategoryShopping},
	{"zalando", model.CategoryShopping},
	{"aliexpress", model.CategoryShopping},
	{"media markt", model.CategoryShopping},
	{"rtv euro agd", model.CategoryShopping},
	{"decathlon", model.CategoryShopping},
	{"empik", model.CategoryEducation},
	{"udemy", model.CategoryEducation},
	{"coursera", model.CategoryEducation},
	{"kurs", model.CategoryEducation},
	{"szkoła", model.CategoryEducation},
	{"rossmann", model.CategoryPersonal},
	{"hebe", model.CategoryPersonal},
	{"fryzjer", model.CategoryPersonal},
	{"barber", model.CategoryPersonal},

	// Debt service.
	{"rata kredytu", model.CategoryDebtPayment},
	{"spłata", model.CategoryDebtPayment},
	{"kredyt", model.CategoryDebtPayment},
	{"loan", model.CategoryDebtPayment},

	// Income.
	{"wynagrodzenie", model.CategorySalary},
	{"pensja", model.CategorySalary},
	{"salary", model.CategorySalary},
	{"payroll", model.CategorySalary},
	{"faktura", model.CategoryFreelance},
	{"invoice", model.CategoryFreelance},
	{"freelance", model.CategoryFreelance},
	{"dywidenda", model.CategoryInvestment},
	{"dividend", model.CategoryInvestment},
	{"odsetki", model.CategoryInvestment},
	{"interest", model.CategoryInvestment},
	{"najem", model.CategoryRental},
	{"rent payment", model.CategoryRental},
	{"prezent", model.CategoryGift},
	{"gift", model.CategoryGift},
}

// Categorize suggests a category for a description. Type is decided by the
// caller from the amount sign; an unmatched income becomes Other Income so
// the income and expense enumerations stay disjoint.
func Categorize(description string, typ model.TransactionType) model.Category {
	category := matchKeyword(description)
	if typ == model.TypeIncome && category == model.CategoryOther {
		return model.CategoryOtherIncome
	}
	return category
}

func matchKeyword(description string) model.Category {
	lower := strings.ToLower(description)
	for _, r := range keywordRules {
		if strings.Contains(lower, r.keyword) {
			return r.category
		}
	}
	return model.CategoryOther
}
