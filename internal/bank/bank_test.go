package bank

import (
	"testing"
	"time"

	"github.com/plaid/plaid-go/v41/plaid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestNewClient(t *testing.T) {
	logger := logging.NewMockLogger()

	tests := []struct {
		name        string
		clientID    string
		secret      string
		environment string
		accessToken string
		expectError bool
	}{
		{
			name:        "Sandbox",
			clientID:    "id",
			secret:      "secret",
			environment: "sandbox",
			accessToken: "token",
		},
		{
			name:        "Production",
			clientID:    "id",
			secret:      "secret",
			environment: "production",
			accessToken: "token",
		},
		{
			name:        "UnknownEnvironment",
			clientID:    "id",
			secret:      "secret",
			environment: "staging",
			accessToken: "token",
			expectError: true,
		},
		{
			name:        "MissingCredentials",
			environment: "sandbox",
			accessToken: "token",
			expectError: true,
		},
		{
			name:        "MissingAccessToken",
			clientID:    "id",
			secret:      "secret",
			environment: "sandbox",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.clientID, tt.secret, tt.environment, tt.accessToken, logger)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestTransactionFromPlaid(t *testing.T) {
	loc := eastern(t)

	var raw plaid.Transaction
	raw.SetTransactionId("txn-123")
	raw.SetName("WHOLEFDS #10235")
	raw.SetMerchantName("Whole Foods")
	raw.SetAmount(42.17)
	raw.SetDate("2023-07-05")

	txn, ok, err := transactionFromPlaid(raw, loc)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Whole Foods", txn.Location)
	assert.Equal(t, "42.17", txn.Amount.StringFixed(2))
	assert.Equal(t, "txn-123", txn.TransactionID)
	assert.Equal(t, "WHOLEFDS #10235", txn.Description)
	assert.Equal(t, 2023, txn.Timestamp.Year())
	assert.Equal(t, time.July, txn.Timestamp.Month())
}

func TestTransactionFromPlaidUsesDatetime(t *testing.T) {
	loc := eastern(t)

	var raw plaid.Transaction
	raw.SetTransactionId("txn-124")
	raw.SetName("Cafe")
	raw.SetAmount(5.00)
	raw.SetDate("2023-07-05")
	raw.SetDatetime(time.Date(2023, 7, 5, 14, 30, 0, 0, time.UTC))

	txn, ok, err := transactionFromPlaid(raw, loc)
	require.NoError(t, err)
	require.True(t, ok)

	// 14:30 UTC is 10:30 Eastern in July
	assert.Equal(t, 10, txn.Timestamp.Hour())
	assert.Equal(t, loc.String(), txn.Timestamp.Location().String())
}

func TestTransactionFromPlaidSkipsCredits(t *testing.T) {
	loc := eastern(t)

	var raw plaid.Transaction
	raw.SetTransactionId("txn-125")
	raw.SetName("Refund")
	raw.SetAmount(-20.00)
	raw.SetDate("2023-07-05")

	_, ok, err := transactionFromPlaid(raw, loc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransactionFromPlaidFallsBackToName(t *testing.T) {
	loc := eastern(t)

	var raw plaid.Transaction
	raw.SetTransactionId("txn-126")
	raw.SetName("LOCAL BAKERY")
	raw.SetAmount(8.00)
	raw.SetDate("2023-07-05")

	txn, ok, err := transactionFromPlaid(raw, loc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "LOCAL BAKERY", txn.Location)
}

func TestInWindow(t *testing.T) {
	start := time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	assert.True(t, inWindow(start, start, end))
	assert.True(t, inWindow(start.Add(24*time.Hour), start, end))
	assert.False(t, inWindow(end, start, end))
	assert.False(t, inWindow(start.Add(-time.Second), start, end))
}
