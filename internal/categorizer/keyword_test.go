package categorizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

func TestMatchKeyword(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name        string
		location    string
		description string
		expected    string
		matched     bool
	}{
		{
			name:     "GroceryMerchant",
			location: "TRADER JOE'S #552",
			expected: models.CategoryGroceries,
			matched:  true,
		},
		{
			name:     "CaseInsensitive",
			location: "starbucks store 441",
			expected: models.CategoryDiningOut,
			matched:  true,
		},
		{
			name:        "MatchOnDescription",
			location:    "POS PURCHASE",
			description: "NETFLIX.COM subscription",
			expected:    models.CategoryEntertainment,
			matched:     true,
		},
		{
			name:     "RideShare",
			location: "UBER *TRIP",
			expected: models.CategoryTransport,
			matched:  true,
		},
		{
			name:     "NoMatch",
			location: "ACME WIDGETS LLC",
			matched:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []models.TransactionOption{}
			if tt.description != "" {
				opts = append(opts, models.WithDescription(tt.description))
			}
			txn, err := models.NewTransaction(tt.location, "10.00", "2023-07-05T14:30:00Z", loc, opts...)
			require.NoError(t, err)

			category, matched := matchKeyword(defaultKeywordRules, txn)
			assert.Equal(t, tt.matched, matched)
			if tt.matched {
				assert.Equal(t, tt.expected, category)
			}
		})
	}
}

func TestExtractCategoryFromResponse(t *testing.T) {
	categories := []string{models.CategoryGroceries, models.CategoryDiningOut}

	tests := []struct {
		name     string
		response string
		expected string
	}{
		{
			name:     "StructuredResponse",
			response: "Category: Groceries\nDescription: Supermarket purchase",
			expected: models.CategoryGroceries,
		},
		{
			name:     "BracketedCategory",
			response: "Category: [Dining Out]\nDescription: Restaurant",
			expected: models.CategoryDiningOut,
		},
		{
			name:     "UnstructuredMention",
			response: "This looks like a Dining Out expense to me.",
			expected: models.CategoryDiningOut,
		},
		{
			name:     "NoUsableAnswer",
			response: "I cannot determine the category.",
			expected: models.CategoryUncategorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCategoryFromResponse(tt.response, categories))
		})
	}
}
