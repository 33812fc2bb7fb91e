package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func sampleReport(t *testing.T) WeeklyReport {
	t.Helper()
	weekStart := time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC)
	return WeeklyReport{
		GeneratedAt: time.Date(2023, 7, 10, 9, 0, 0, 0, time.UTC),
		WeekStart:   weekStart,
		WeekEnd:     weekStart.AddDate(0, 0, 7),
		Snapshot: models.Snapshot{
			Categories: map[string]models.CategoryBreakdown{
				"Groceries": {
					BudgetAmount:       dec(t, "100.00"),
					ActualAmount:       dec(t, "80.00"),
					VarianceAmount:     dec(t, "20.00"),
					VariancePercentage: dec(t, "20.00"),
				},
				"Dining Out": {
					BudgetAmount:       dec(t, "50.00"),
					ActualAmount:       dec(t, "40.99"),
					VarianceAmount:     dec(t, "9.01"),
					VariancePercentage: dec(t, "18.02"),
				},
			},
			TotalBudget:   dec(t, "150.00"),
			TotalSpent:    dec(t, "120.99"),
			TotalVariance: dec(t, "29.01"),
			IsSurplus:     true,
		},
		TransferAmount: dec(t, "29.01"),
		TransferID:     "transfer-1",
	}
}

func TestGenerateJSON(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())

	data, err := generator.Generate(sampleReport(t), "json")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "29.01", decoded["transfer_amount"])
	assert.Equal(t, "transfer-1", decoded["transfer_id"])
	analysis, ok := decoded["analysis"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, analysis["is_surplus"])
}

func TestGenerateText(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())

	data, err := generator.Generate(sampleReport(t), "text")
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Weekly Budget Summary: 2023-07-03 to 2023-07-09")
	assert.Contains(t, text, "Groceries")
	assert.Contains(t, text, "Dining Out")
	assert.Contains(t, text, "Total variance: 29.01 (surplus)")
	assert.Contains(t, text, "Transferred 29.01 to savings (transfer transfer-1)")
}

func TestGenerateTextDeficit(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())

	report := sampleReport(t)
	report.Snapshot.IsSurplus = false
	report.Snapshot.TotalVariance = dec(t, "-75.00")
	report.TransferAmount = decimal.Zero
	report.TransferID = ""

	data, err := generator.Generate(report, "text")
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "(deficit)")
	assert.Contains(t, text, "No savings transfer this week")
}

func TestGenerateTextBelowThreshold(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())

	report := sampleReport(t)
	report.TransferAmount = decimal.Zero
	report.TransferID = ""

	data, err := generator.Generate(report, "text")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Surplus below the transfer threshold")
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	generator := NewGenerator(logging.NewMockLogger())

	_, err := generator.Generate(sampleReport(t), "xml")
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	raw := buildMessage("bot@example.com", []string{"a@example.com", "b@example.com"}, "Weekly Budget Update", "body text")

	assert.Contains(t, raw, "From: bot@example.com\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: Weekly Budget Update\r\n")
	assert.Contains(t, raw, "\r\n\r\nbody text")
}
