// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
)

// Category represents a named weekly budget allocation. Name is unique
// within a budget; WeeklyAmount is always non-negative.
type Category struct {
	Name         string          `json:"name" yaml:"name"`
	WeeklyAmount decimal.Decimal `json:"weekly_amount" yaml:"weekly_amount"`
}

// NormalizeCategoryName trims, title-cases words, and strips characters
// outside letters, digits, whitespace, and hyphen. Transactions share this
// normalization so category lookups by name stay consistent.
func NormalizeCategoryName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// NewCategory constructs a Category from a raw name and amount string.
// The name is normalized and must be non-empty afterwards; the amount must
// parse as a non-negative decimal.
func NewCategory(name, weeklyAmount string) (Category, error) {
	normalized := NormalizeCategoryName(name)
	if normalized == "" {
		return Category{}, apperror.NewValidationError("name", name, "empty after normalization")
	}

	amount, err := decimal.NewFromString(cleanAmount(weeklyAmount))
	if err != nil {
		return Category{}, apperror.NewValidationError("weekly_amount", weeklyAmount, "not a valid decimal")
	}
	if amount.IsNegative() {
		return Category{}, apperror.NewValidationError("weekly_amount", weeklyAmount, "must be non-negative")
	}

	return Category{Name: normalized, WeeklyAmount: amount}, nil
}

// cleanAmount strips currency symbols, spaces, and thousand separators so
// sheet-formatted amounts like "$1,250.00" parse cleanly.
func cleanAmount(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "USD", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// CategoriesFromRows constructs Categories from spreadsheet-style rows of
// [name, weekly_amount]. Rows with fewer than two fields or an empty
// normalized name are skipped and counted, not fatal; an unparsable amount
// on an otherwise well-formed row is likewise skipped. Returns the valid
// categories and the number of rows skipped.
func CategoriesFromRows(rows [][]string, logger logging.Logger) ([]Category, int) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	categories := make([]Category, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		if len(row) < 2 {
			skipped++
			logger.Warn("Skipping short category row",
				logging.Field{Key: "row", Value: i},
				logging.Field{Key: logging.FieldCount, Value: len(row)})
			continue
		}
		category, err := NewCategory(row[0], row[1])
		if err != nil {
			skipped++
			logger.WithError(err).Warn("Skipping invalid category row",
				logging.Field{Key: "row", Value: i})
			continue
		}
		categories = append(categories, category)
	}

	logger.Debug("Constructed categories from rows",
		logging.Field{Key: logging.FieldCount, Value: len(categories)},
		logging.Field{Key: logging.FieldSkipped, Value: skipped})
	return categories, skipped
}

// ToRow renders the category back into its spreadsheet row shape.
func (c Category) ToRow() []string {
	return []string{c.Name, c.WeeklyAmount.StringFixed(2)}
}

// ToDict produces a serializable snapshot of the category.
func (c Category) ToDict() map[string]interface{} {
	return map[string]interface{}{
		"name":          c.Name,
		"weekly_amount": c.WeeklyAmount.StringFixed(2),
	}
}
