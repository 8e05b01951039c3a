package model

// Category is a fixed income or expense category name.
type Category string

// Income categories.
const (
	CategorySalary      Category = "Salary"
	CategoryFreelance   Category = "Freelance"
	CategoryInvestment  Category = "Investment"
	CategoryRental      Category = "Rental"
	CategoryGift        Category = "Gift"
	CategoryOtherIncome Category = "Other Income"
)

// Expense categories.
const (
	CategoryHousing        Category = "Housing"
	CategoryTransportation Category = "Transportation"
	CategoryFood           Category = "Food"
	CategoryUtilities      Category = "Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryInsurance      Category = "Insurance"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryEducation      Category = "Education"
	CategoryPersonal       Category = "Personal"
	CategorySubscriptions  Category = "Subscriptions"
	CategoryDebtPayment    Category = "Debt Payment"
	CategoryOther          Category = "Other"
)

// IncomeCategories lists income categories in display order.
var IncomeCategories = []Category{
	CategorySalary,
	CategoryFreelance,
	CategoryInvestment,
	CategoryRental,
	CategoryGift,
	CategoryOtherIncome,
}

// ExpenseCategories lists expense categories in display order.
var ExpenseCategories = []Category{
	CategoryHousing,
	CategoryTransportation,
	CategoryFood,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryInsurance,
	CategoryEntertainment,
	CategoryShopping,
	CategoryEducation,
	CategoryPersonal,
	CategorySubscriptions,
	CategoryDebtPayment,
	CategoryOther,
}

// IsIncome reports whether c belongs to the income enumeration.
func (c Category) IsIncome() bool {
	for _, ic := range IncomeCategories {
		if c == ic {
			return true
		}
	}
	return false
}

// IsExpense reports whether c belongs to the expense enumeration.
func (c Category) IsExpense() bool {
	for _, ec := range ExpenseCategories {
		if c == ec {
			return true
		}
	}
	return false
}

// IsValid reports whether c is any known category.
func (c Category) IsValid() bool {
	return c.IsIncome() || c.IsExpense()
}

// CategoriesFor returns the enumeration matching a transaction type.
func CategoriesFor(t TransactionType) []Category {
	if t == TypeIncome {
		return IncomeCategories
	}
	return ExpenseCategories
}
