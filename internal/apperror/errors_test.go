package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("weekly_amount", "-5", "must be non-negative")
	assert.Contains(t, err.Error(), "weekly_amount")
	assert.Contains(t, err.Error(), "-5")
	assert.Contains(t, err.Error(), "non-negative")

	// Without a value the message still names the field
	err = NewValidationError("total_variance", "", "totals disagree")
	assert.Contains(t, err.Error(), "total_variance")
	assert.NotContains(t, err.Error(), "''")
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &APIError{Service: "plaid", Operation: "transactions_sync", Err: cause}

	assert.Contains(t, err.Error(), "plaid")
	assert.Contains(t, err.Error(), "transactions_sync")
	assert.ErrorIs(t, err, cause)
}

func TestSheetErrorUnwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &SheetError{SpreadsheetID: "abc123", Range: "Budget!A2:B", Err: cause}

	assert.Contains(t, err.Error(), "abc123")
	assert.Contains(t, err.Error(), "Budget!A2:B")
	assert.ErrorIs(t, err, cause)
}

func TestAuthenticationError(t *testing.T) {
	err := &AuthenticationError{Service: "sheets"}
	assert.Equal(t, "authentication with sheets failed", err.Error())

	cause := errors.New("invalid credentials")
	err = &AuthenticationError{Service: "sheets", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestErrorsAsClassification(t *testing.T) {
	wrapped := fmt.Errorf("fetch failed: %w", &SheetError{SpreadsheetID: "x", Range: "A1", Err: errors.New("boom")})

	var sheetErr *SheetError
	assert.True(t, errors.As(wrapped, &sheetErr))
	assert.Equal(t, "x", sheetErr.SpreadsheetID)

	var valErr *ValidationError
	assert.False(t, errors.As(wrapped, &valErr))
}
