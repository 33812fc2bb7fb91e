package categorizer

import (
	"strings"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// keywordRule maps a merchant keyword to a category name. Rules are kept in
// a slice so more specific keywords can be listed before general ones.
type keywordRule struct {
	Keyword  string
	Category string
}

// defaultKeywordRules covers common US merchants and merchant-name fragments.
// Matching is case-insensitive against the transaction location and
// description.
var defaultKeywordRules = []keywordRule{
	// Groceries
	{"WHOLE FOODS", models.CategoryGroceries},
	{"TRADER JOE", models.CategoryGroceries},
	{"SAFEWAY", models.CategoryGroceries},
	{"KROGER", models.CategoryGroceries},
	{"ALDI", models.CategoryGroceries},
	{"WEGMANS", models.CategoryGroceries},
	{"GROCERY", models.CategoryGroceries},
	{"SUPERMARKET", models.CategoryGroceries},
	{"MARKET", models.CategoryGroceries},

	// Dining
	{"RESTAURANT", models.CategoryDiningOut},
	{"PIZZERIA", models.CategoryDiningOut},
	{"PIZZA", models.CategoryDiningOut},
	{"CAFE", models.CategoryDiningOut},
	{"COFFEE", models.CategoryDiningOut},
	{"STARBUCKS", models.CategoryDiningOut},
	{"CHIPOTLE", models.CategoryDiningOut},
	{"SUSHI", models.CategoryDiningOut},
	{"DINER", models.CategoryDiningOut},
	{"DOORDASH", models.CategoryDiningOut},
	{"GRUBHUB", models.CategoryDiningOut},
	{"UBER EATS", models.CategoryDiningOut},

	// Transport
	{"UBER", models.CategoryTransport},
	{"LYFT", models.CategoryTransport},
	{"MTA", models.CategoryTransport},
	{"METRO", models.CategoryTransport},
	{"TRANSIT", models.CategoryTransport},
	{"PARKING", models.CategoryTransport},
	{"SHELL", models.CategoryTransport},
	{"CHEVRON", models.CategoryTransport},
	{"EXXON", models.CategoryTransport},
	{"GAS STATION", models.CategoryTransport},

	// Shopping
	{"AMAZON", models.CategoryShopping},
	{"TARGET", models.CategoryShopping},
	{"WALMART", models.CategoryShopping},
	{"COSTCO", models.CategoryShopping},
	{"BEST BUY", models.CategoryShopping},
	{"IKEA", models.CategoryShopping},

	// Utilities
	{"ELECTRIC", models.CategoryUtilities},
	{"WATER", models.CategoryUtilities},
	{"INTERNET", models.CategoryUtilities},
	{"COMCAST", models.CategoryUtilities},
	{"VERIZON", models.CategoryUtilities},
	{"T-MOBILE", models.CategoryUtilities},
	{"UTILITY", models.CategoryUtilities},

	// Entertainment
	{"NETFLIX", models.CategoryEntertainment},
	{"SPOTIFY", models.CategoryEntertainment},
	{"HULU", models.CategoryEntertainment},
	{"CINEMA", models.CategoryEntertainment},
	{"THEATER", models.CategoryEntertainment},
	{"STEAM", models.CategoryEntertainment},
}

// matchKeyword finds the first rule whose keyword appears in the transaction
// location or description.
func matchKeyword(rules []keywordRule, transaction models.Transaction) (string, bool) {
	location := strings.ToUpper(transaction.Location)
	description := strings.ToUpper(transaction.Description)

	for _, rule := range rules {
		if strings.Contains(location, rule.Keyword) || strings.Contains(description, rule.Keyword) {
			return rule.Category, true
		}
	}
	return "", false
}
