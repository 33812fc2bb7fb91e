// Package categorizer assigns budget categories to transactions using
// multiple methods:
// 1. Direct merchant-to-category mapping from a YAML database
// 2. Local keyword-based matching against known merchant names
// 3. AI-based categorization using a Gemini model as a fallback
package categorizer

import (
	"context"
	"strings"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// Options tunes categorizer behavior.
type Options struct {
	// AutoLearn persists keyword and AI results to the merchant store so
	// repeat merchants skip the slower methods next time.
	AutoLearn bool
	// FallbackCategory is assigned when every method fails. Defaults to
	// Uncategorized.
	FallbackCategory string
}

// Categorizer resolves transaction categories. The merchant store and the AI
// client are both optional; a nil AI client simply ends the chain at keyword
// matching.
type Categorizer struct {
	store    MerchantStore
	aiClient AIClient
	rules    []keywordRule
	opts     Options
	logger   logging.Logger
}

// NewCategorizer creates a Categorizer with the default keyword rules.
func NewCategorizer(store MerchantStore, aiClient AIClient, opts Options, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if opts.FallbackCategory == "" {
		opts.FallbackCategory = models.CategoryUncategorized
	}
	return &Categorizer{
		store:    store,
		aiClient: aiClient,
		rules:    defaultKeywordRules,
		opts:     opts,
		logger:   logger,
	}
}

// Categorize resolves a category name for the transaction. The category list
// bounds what the AI client may answer; mapping and keyword hits are returned
// as-is. An empty merchant yields the fallback category.
func (c *Categorizer) Categorize(ctx context.Context, transaction models.Transaction, categories []string) (string, error) {
	if strings.TrimSpace(transaction.Location) == "" {
		return c.opts.FallbackCategory, nil
	}

	// Step 1: known merchant mapping
	if c.store != nil {
		category, found, err := c.store.Lookup(transaction.Location)
		if err != nil {
			c.logger.WithError(err).Warn("Merchant mapping lookup failed",
				logging.Field{Key: logging.FieldLocation, Value: transaction.Location})
		} else if found {
			return category, nil
		}
	}

	// Step 2: keyword matching
	if category, matched := matchKeyword(c.rules, transaction); matched {
		c.learn(transaction.Location, category)
		return category, nil
	}

	// Step 3: AI fallback
	if c.aiClient == nil {
		return c.opts.FallbackCategory, nil
	}
	category, err := c.aiClient.Categorize(ctx, transaction, categories)
	if err != nil {
		c.logger.WithError(err).Warn("AI categorization failed",
			logging.Field{Key: logging.FieldLocation, Value: transaction.Location})
		return c.opts.FallbackCategory, nil
	}
	if category == "" {
		return c.opts.FallbackCategory, nil
	}
	if category != models.CategoryUncategorized {
		c.learn(transaction.Location, category)
	}
	return category, nil
}

func (c *Categorizer) learn(merchant, category string) {
	if !c.opts.AutoLearn || c.store == nil {
		return
	}
	if err := c.store.Learn(merchant, category); err != nil {
		c.logger.WithError(err).Warn("Failed to learn merchant mapping",
			logging.Field{Key: logging.FieldLocation, Value: merchant})
	}
}

// Flush persists any learned merchant mappings.
func (c *Categorizer) Flush() error {
	if c.store == nil {
		return nil
	}
	return c.store.Flush()
}

// CategorizeAll fills in the Category field on every transaction that does
// not already have one, then flushes learned mappings. Returns the number of
// transactions categorized.
func (c *Categorizer) CategorizeAll(ctx context.Context, transactions []models.Transaction, categories []models.Category) (int, error) {
	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = category.Name
	}

	categorized := 0
	for i := range transactions {
		if transactions[i].Category != "" {
			continue
		}
		name, err := c.Categorize(ctx, transactions[i], names)
		if err != nil {
			return categorized, err
		}
		transactions[i].SetCategory(models.CategoryName(name))
		categorized++
	}

	if c.opts.AutoLearn && c.store != nil {
		if err := c.store.Flush(); err != nil {
			c.logger.WithError(err).Warn("Failed to save merchant mappings")
		}
	}

	c.logger.Info("Categorized transactions",
		logging.Field{Key: logging.FieldCount, Value: categorized})
	return categorized, nil
}
