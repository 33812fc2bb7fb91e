package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

type mockStorage struct {
	categoryRows    [][]string
	transactionRows [][]string
	verifyErr       error
	writeErr        error

	updatedTransactions []models.Transaction
	writtenSnapshot     *models.Snapshot
	writtenTransfer     decimal.Decimal
}

func (m *mockStorage) Verify(ctx context.Context) error {
	return m.verifyErr
}

func (m *mockStorage) GetCategoryRows(ctx context.Context) ([][]string, error) {
	return m.categoryRows, nil
}

func (m *mockStorage) GetTransactionRows(ctx context.Context) ([][]string, error) {
	return m.transactionRows, nil
}

func (m *mockStorage) UpdateTransactionCategories(ctx context.Context, transactions []models.Transaction) error {
	m.updatedTransactions = transactions
	return nil
}

func (m *mockStorage) WriteAnalysis(ctx context.Context, snapshot models.Snapshot, transferAmount decimal.Decimal) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writtenSnapshot = &snapshot
	m.writtenTransfer = transferAmount
	return nil
}

type mockBank struct {
	transactions []models.Transaction
	verifyErr    error
	transferErr  error

	transferAmount  decimal.Decimal
	transferAccount string
}

func (m *mockBank) Verify(ctx context.Context) error {
	return m.verifyErr
}

func (m *mockBank) GetTransactions(ctx context.Context, start, end time.Time, reference *time.Location) ([]models.Transaction, error) {
	return m.transactions, nil
}

func (m *mockBank) TransferToSavings(ctx context.Context, savingsAccountID, legalName string, amount decimal.Decimal) (string, error) {
	if m.transferErr != nil {
		return "", m.transferErr
	}
	m.transferAccount = savingsAccountID
	m.transferAmount = amount
	return "transfer-123", nil
}

type mockSender struct {
	recipients []string
	subject    string
	body       string
	sendErr    error
}

func (m *mockSender) Send(ctx context.Context, recipients []string, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.recipients = recipients
	m.subject = subject
	m.body = body
	return nil
}

type mockCategorizer struct {
	category string
	err      error
	calls    int
}

func (m *mockCategorizer) CategorizeAll(ctx context.Context, transactions []models.Transaction, categories []models.Category) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	count := 0
	for i := range transactions {
		if transactions[i].Category == "" {
			transactions[i].SetCategory(models.CategoryName(m.category))
			count++
		}
	}
	m.calls++
	return count, nil
}

// anchor is a Wednesday; its week runs Monday 2023-07-03 through Sunday
// 2023-07-09.
var anchor = time.Date(2023, 7, 5, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		AnalysisConfig: models.DefaultAnalysisConfig(),
		Reference:      time.UTC,
		ReferenceTime:  anchor,
	}
}

func testStorage() *mockStorage {
	return &mockStorage{
		categoryRows: [][]string{
			{"Groceries", "150.00"},
			{"Dining Out", "75.00"},
		},
		transactionRows: [][]string{
			{"Whole Foods", "42.50", "2023-07-03 10:00:00", "Groceries"},
			{"Chipotle", "18.25", "2023-07-04 12:30:00", "Dining Out"},
		},
	}
}

func TestExecuteSuccess(t *testing.T) {
	storage := testStorage()
	analyzer := New(storage, nil, nil, nil, testOptions(), logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, models.BudgetStatusSurplus, result.BudgetStatus)
	assert.Equal(t, StageReported, result.Stage)
	assert.NotEmpty(t, result.CorrelationID)
	assert.Equal(t, 2, result.CategoryCount)
	assert.Equal(t, 2, result.TransactionCount)
	assert.Equal(t, 0, result.SkippedRows)

	require.NotNil(t, storage.writtenSnapshot)
	assert.True(t, storage.writtenSnapshot.IsSurplus)
	// 225.00 budgeted, 60.75 spent, surplus 164.25 above the threshold.
	assert.Equal(t, "164.25", storage.writtenTransfer.StringFixed(2))
	assert.Equal(t, "2023-07-03", result.Report.WeekStart.Format("2006-01-02"))
}

func TestExecuteEchoesCorrelationID(t *testing.T) {
	analyzer := New(testStorage(), nil, nil, nil, testOptions(), logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "run-42")
	require.NoError(t, err)
	assert.Equal(t, "run-42", result.CorrelationID)
}

func TestExecuteNoCategoriesFails(t *testing.T) {
	storage := testStorage()
	storage.categoryRows = nil
	analyzer := New(storage, nil, nil, nil, testOptions(), logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "")
	require.Error(t, err)

	var vErr *apperror.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, StageFailed, result.Stage)
}

func TestExecuteNoTransactionsIsWarning(t *testing.T) {
	storage := testStorage()
	storage.transactionRows = nil
	analyzer := New(storage, nil, nil, nil, testOptions(), logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusWarning, result.Status)
	assert.Equal(t, 0, result.TransactionCount)
	// With nothing spent the whole budget is surplus.
	require.NotNil(t, storage.writtenSnapshot)
	assert.Equal(t, "225.00", storage.writtenTransfer.StringFixed(2))
}

func TestExecuteSkippedRowsIsWarning(t *testing.T) {
	storage := testStorage()
	storage.transactionRows = append(storage.transactionRows,
		[]string{"Bad Row", "not-a-number", "2023-07-04 09:00:00"})
	analyzer := New(storage, nil, nil, nil, testOptions(), logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusWarning, result.Status)
	assert.Equal(t, 1, result.SkippedRows)
	assert.Equal(t, 2, result.TransactionCount)
}

func TestExecuteAuthenticationFailure(t *testing.T) {
	storage := testStorage()
	storage.verifyErr = &apperror.AuthenticationError{Service: "sheets", Err: assert.AnError}
	analyzer := New(storage, nil, nil, nil, testOptions(), logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "")
	require.Error(t, err)

	var authErr *apperror.AuthenticationError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, StageFailed, result.Stage)
}

func TestExecuteMergesBankTransactions(t *testing.T) {
	storage := testStorage()
	bank := &mockBank{
		transactions: []models.Transaction{
			mustTransaction(t, "Shell", "35.00", "2023-07-05 08:00:00"),
			// Duplicate of the sheet's Whole Foods purchase.
			mustTransaction(t, "Whole Foods", "42.50", "2023-07-03 10:00:00"),
			// Outside the week, dropped by the window filter.
			mustTransaction(t, "Target", "20.00", "2023-06-28 15:00:00"),
		},
	}
	categorizer := &mockCategorizer{category: models.CategoryTransport}
	analyzer := New(storage, bank, categorizer, nil, testOptions(), logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, 3, result.TransactionCount)
	assert.Equal(t, 1, result.CategorizedCount)
	require.Len(t, storage.updatedTransactions, 3)
}

func TestExecuteTransfersSurplus(t *testing.T) {
	storage := testStorage()
	bank := &mockBank{}
	opts := testOptions()
	opts.Transfer = true
	opts.SavingsAccountID = "acc-savings"
	opts.LegalName = "Pat Example"
	analyzer := New(storage, bank, nil, nil, opts, logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, "transfer-123", result.Report.TransferID)
	assert.Equal(t, "acc-savings", bank.transferAccount)
	assert.Equal(t, "164.25", bank.transferAmount.StringFixed(2))
}

func TestExecuteSkipsTransferBelowThreshold(t *testing.T) {
	storage := testStorage()
	// Spend all but 50 cents of the budget.
	storage.transactionRows = [][]string{
		{"Whole Foods", "224.50", "2023-07-03 10:00:00", "Groceries"},
	}
	bank := &mockBank{}
	opts := testOptions()
	opts.Transfer = true
	opts.SavingsAccountID = "acc-savings"
	analyzer := New(storage, bank, nil, nil, opts, logging.NewMockLogger())

	result, err := analyzer.Execute(t.Context(), "")
	require.NoError(t, err)

	assert.Empty(t, result.Report.TransferID)
	assert.True(t, bank.transferAmount.IsZero())
}

func TestExecuteSendsReport(t *testing.T) {
	storage := testStorage()
	sender := &mockSender{}
	opts := testOptions()
	opts.Email = true
	opts.Recipients = []string{"pat@example.com"}
	analyzer := New(storage, nil, nil, sender, opts, logging.NewMockLogger())

	_, err := analyzer.Execute(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"pat@example.com"}, sender.recipients)
	assert.Equal(t, "Weekly Budget Update", sender.subject)
	assert.Contains(t, sender.body, "Weekly Budget Summary")
	assert.Contains(t, sender.body, "Groceries")
}

func TestStageProgression(t *testing.T) {
	analyzer := New(testStorage(), nil, nil, nil, testOptions(), logging.NewMockLogger())
	assert.Equal(t, StageUnauthenticated, analyzer.Stage())

	require.NoError(t, analyzer.Authenticate(t.Context()))
	assert.Equal(t, StageAuthenticated, analyzer.Stage())

	budget, _, _, _, err := analyzer.FetchBudgetData(t.Context())
	require.NoError(t, err)
	assert.Equal(t, StageDataFetched, analyzer.Stage())

	_, err = analyzer.AnalyzeBudget(budget)
	require.NoError(t, err)
	assert.Equal(t, StageAnalyzed, analyzer.Stage())
}

func mustTransaction(t *testing.T, location, amount, timestamp string) models.Transaction {
	t.Helper()
	txn, err := models.NewTransaction(location, amount, timestamp, time.UTC)
	require.NoError(t, err)
	return txn
}
