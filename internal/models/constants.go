package models

// Categories
const (
	CategoryUncategorized = "Uncategorized"
	CategoryGroceries     = "Groceries"
	CategoryDiningOut     = "Dining Out"
	CategoryTransport     = "Transportation"
	CategoryShopping      = "Shopping"
	CategoryUtilities     = "Utilities"
	CategoryEntertainment = "Entertainment"
	CategorySavings       = "Savings"
)

// Budget statuses
const (
	BudgetStatusSurplus = "surplus"
	BudgetStatusDeficit = "deficit"
)

// Execution statuses for pipeline results
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)
