package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/dateutils"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
)

// Transaction represents a single observed spend at a location. Timestamp is
// always stored normalized to the application's reference timezone.
// Category references a Category by name only; the category may no longer
// exist in the current budget, which is treated as uncategorized spend, not
// an error.
type Transaction struct {
	Location      string          `json:"location"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
	Category      string          `json:"category,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Description   string          `json:"description,omitempty"`
}

// TransactionOption sets an optional field during construction.
type TransactionOption func(*Transaction)

// WithTransactionID sets the bank-assigned transaction identifier.
func WithTransactionID(id string) TransactionOption {
	return func(t *Transaction) { t.TransactionID = id }
}

// WithDescription sets the free-text description.
func WithDescription(description string) TransactionOption {
	return func(t *Transaction) { t.Description = description }
}

// WithCategory sets the initial category, normalized like Category names.
func WithCategory(name string) TransactionOption {
	return func(t *Transaction) { t.Category = NormalizeCategoryName(name) }
}

// NewTransaction constructs a Transaction from raw field strings. The amount
// must parse as a non-negative decimal; the timestamp is tried against the
// bank-API layout, the sheet layout, and generic ISO-8601 fallbacks, then
// normalized into the reference timezone.
func NewTransaction(location, amount, timestamp string, reference *time.Location, opts ...TransactionOption) (Transaction, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Transaction{}, apperror.NewValidationError("location", "", "required")
	}

	parsedAmount, err := decimal.NewFromString(cleanAmount(amount))
	if err != nil {
		return Transaction{}, apperror.NewValidationError("amount", amount, "not a valid decimal")
	}
	if parsedAmount.IsNegative() {
		return Transaction{}, apperror.NewValidationError("amount", amount, "must be non-negative")
	}

	parsedTime, err := dateutils.ParseTimestamp(timestamp, reference)
	if err != nil {
		return Transaction{}, apperror.NewValidationError("timestamp", timestamp, "no known timestamp format matched")
	}

	txn := Transaction{
		Location:  location,
		Amount:    parsedAmount,
		Timestamp: parsedTime,
	}
	for _, opt := range opts {
		opt(&txn)
	}
	return txn, nil
}

// CategoryRef names a category either as a raw string or by handle to a
// Category value. SetCategory resolves it to a normalized name.
type CategoryRef interface {
	categoryName() string
}

// CategoryName is a raw category name reference.
type CategoryName string

func (n CategoryName) categoryName() string { return string(n) }

// CategoryHandle references a Category value directly.
type CategoryHandle struct {
	Category Category
}

func (h CategoryHandle) categoryName() string { return h.Category.Name }

// SetCategory assigns the referenced category to this transaction,
// normalizing the name the same way Category names are normalized and
// overwriting any existing assignment.
func (t *Transaction) SetCategory(ref CategoryRef) {
	if ref == nil {
		return
	}
	t.Category = NormalizeCategoryName(ref.categoryName())
}

// Equal reports whether two transactions carry the same location, amount,
// and timestamp. Category, id, and description are excluded.
func (t Transaction) Equal(other Transaction) bool {
	return t.Location == other.Location &&
		t.Amount.Equal(other.Amount) &&
		t.Timestamp.Equal(other.Timestamp)
}

// dedupeKey identifies a transaction for batch deduplication: trimmed
// case-insensitive location, exact amount, and calendar date only.
func (t Transaction) dedupeKey() string {
	location := strings.ToLower(strings.TrimSpace(t.Location))
	date := dateutils.FormatISODate(dateutils.CalendarDate(t.Timestamp, t.Timestamp.Location()))
	return location + "|" + t.Amount.String() + "|" + date
}

// DeduplicateTransactions drops later occurrences of duplicate transactions
// from a bank-API batch. Two transactions are duplicates iff their locations
// match case-insensitively after trimming, their amounts are equal, and
// their timestamps fall on the same calendar date. First occurrence wins.
func DeduplicateTransactions(txns []Transaction) []Transaction {
	seen := make(map[string]struct{}, len(txns))
	out := make([]Transaction, 0, len(txns))
	for _, txn := range txns {
		key := txn.dedupeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, txn)
	}
	return out
}

// TransactionsFromRows constructs Transactions from spreadsheet-style rows
// of [location, amount, timestamp, category?]. Malformed rows are skipped
// and counted, not fatal. Returns the valid transactions and the number of
// rows skipped.
func TransactionsFromRows(rows [][]string, reference *time.Location, logger logging.Logger) ([]Transaction, int) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	txns := make([]Transaction, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		if len(row) < 3 {
			skipped++
			logger.Warn("Skipping short transaction row",
				logging.Field{Key: "row", Value: i},
				logging.Field{Key: logging.FieldCount, Value: len(row)})
			continue
		}
		var opts []TransactionOption
		if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
			opts = append(opts, WithCategory(row[3]))
		}
		txn, err := NewTransaction(row[0], row[1], row[2], reference, opts...)
		if err != nil {
			skipped++
			logger.WithError(err).Warn("Skipping invalid transaction row",
				logging.Field{Key: "row", Value: i})
			continue
		}
		txns = append(txns, txn)
	}

	logger.Debug("Constructed transactions from rows",
		logging.Field{Key: logging.FieldCount, Value: len(txns)},
		logging.Field{Key: logging.FieldSkipped, Value: skipped})
	return txns, skipped
}

// ToRow renders the transaction back into its spreadsheet row shape.
func (t Transaction) ToRow() []string {
	return []string{
		t.Location,
		t.Amount.StringFixed(2),
		t.Timestamp.Format(dateutils.LayoutSheet),
		t.Category,
	}
}

// ToDict produces a serializable snapshot of the transaction.
func (t Transaction) ToDict() map[string]interface{} {
	d := map[string]interface{}{
		"location":  t.Location,
		"amount":    t.Amount.StringFixed(2),
		"timestamp": t.Timestamp.Format(dateutils.LayoutBankAPI),
	}
	if t.Category != "" {
		d["category"] = t.Category
	}
	if t.TransactionID != "" {
		d["transaction_id"] = t.TransactionID
	}
	if t.Description != "" {
		d["description"] = t.Description
	}
	return d
}
