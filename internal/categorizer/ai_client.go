package categorizer

import (
	"context"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// AIClient defines the interface for AI-based categorization services.
// This abstraction allows the core categorization logic to be tested independently
// of external API calls and provides flexibility in choosing AI providers.
type AIClient interface {
	// Categorize picks one of the given category names for the transaction,
	// or returns an error if the service call fails.
	Categorize(ctx context.Context, transaction models.Transaction, categories []string) (string, error)
}
