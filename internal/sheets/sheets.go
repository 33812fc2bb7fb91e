// Package sheets talks to the Google Sheets spreadsheet that holds the
// master budget, the weekly spending log, and the analysis output.
package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// Ranges names the A1 ranges the client reads and writes.
type Ranges struct {
	Budget       string
	Transactions string
	Analysis     string
}

// DefaultRanges matches the expected spreadsheet layout.
func DefaultRanges() Ranges {
	return Ranges{
		Budget:       "Master Budget!A2:B",
		Transactions: "Weekly Spending!A2:D",
		Analysis:     "Analysis!A1",
	}
}

// Client wraps the Sheets API for one spreadsheet.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	ranges        Ranges
	logger        logging.Logger
}

// NewClient creates a Sheets client authenticated with service account
// credentials.
func NewClient(ctx context.Context, spreadsheetID string, credentialsJSON []byte, ranges Ranges, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, apperror.NewValidationError("spreadsheet_id", spreadsheetID, "required")
	}
	if len(credentialsJSON) == 0 {
		return nil, &apperror.AuthenticationError{
			Service: "sheets",
			Err:     fmt.Errorf("service account credentials not provided"),
		}
	}

	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheets.SpreadsheetsScope))
	if err != nil {
		return nil, &apperror.AuthenticationError{Service: "sheets", Err: err}
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ranges:        ranges,
		logger:        logger,
	}, nil
}

// Verify checks that the spreadsheet is reachable with the configured
// credentials.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return &apperror.AuthenticationError{Service: "sheets", Err: err}
	}
	c.logger.Debug("Verified spreadsheet access",
		logging.Field{Key: logging.FieldSpreadsheet, Value: c.spreadsheetID})
	return nil
}

func (c *Client) readRange(ctx context.Context, a1Range string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, &apperror.SheetError{
			SpreadsheetID: c.spreadsheetID,
			Range:         a1Range,
			Err:           err,
		}
	}
	rows := valuesToRows(resp.Values)
	c.logger.Debug("Read sheet range",
		logging.Field{Key: logging.FieldRange, Value: a1Range},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// GetCategoryRows reads the raw master budget rows.
func (c *Client) GetCategoryRows(ctx context.Context) ([][]string, error) {
	return c.readRange(ctx, c.ranges.Budget)
}

// GetTransactionRows reads the raw weekly spending rows.
func (c *Client) GetTransactionRows(ctx context.Context) ([][]string, error) {
	return c.readRange(ctx, c.ranges.Transactions)
}

// AppendTransactions appends transaction rows to the weekly spending sheet.
func (c *Client) AppendTransactions(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(transactions))
	for _, txn := range transactions {
		values = append(values, rowToValues(txn.ToRow()))
	}

	vr := &gsheets.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.ranges.Transactions, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return &apperror.SheetError{
			SpreadsheetID: c.spreadsheetID,
			Range:         c.ranges.Transactions,
			Err:           err,
		}
	}

	c.logger.Info("Appended transactions to sheet",
		logging.Field{Key: logging.FieldRange, Value: c.ranges.Transactions},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return nil
}

// UpdateTransactionCategories rewrites the weekly spending rows with their
// assigned categories.
func (c *Client) UpdateTransactionCategories(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(transactions))
	for _, txn := range transactions {
		values = append(values, rowToValues(txn.ToRow()))
	}

	vr := &gsheets.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.ranges.Transactions, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return &apperror.SheetError{
			SpreadsheetID: c.spreadsheetID,
			Range:         c.ranges.Transactions,
			Err:           err,
		}
	}

	c.logger.Info("Updated transaction categories in sheet",
		logging.Field{Key: logging.FieldRange, Value: c.ranges.Transactions},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return nil
}

// WriteAnalysis writes the analysis snapshot to the analysis sheet, starting
// at the configured anchor cell.
func (c *Client) WriteAnalysis(ctx context.Context, snapshot models.Snapshot, transferAmount decimal.Decimal) error {
	values := snapshotToValues(snapshot, transferAmount)

	vr := &gsheets.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.ranges.Analysis, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return &apperror.SheetError{
			SpreadsheetID: c.spreadsheetID,
			Range:         c.ranges.Analysis,
			Err:           err,
		}
	}

	c.logger.Info("Wrote analysis to sheet",
		logging.Field{Key: logging.FieldRange, Value: c.ranges.Analysis},
		logging.Field{Key: logging.FieldStatus, Value: statusLabel(snapshot.IsSurplus)})
	return nil
}

func statusLabel(isSurplus bool) string {
	if isSurplus {
		return models.BudgetStatusSurplus
	}
	return models.BudgetStatusDeficit
}

// valuesToRows converts the API's interface values into trimmed strings.
func valuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, value := range values {
		row := make([]string, len(value))
		for i, cell := range value {
			row[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows
}

func rowToValues(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}

// snapshotToValues lays the analysis out as a header row, one row per
// category in name order, and a totals block.
func snapshotToValues(snapshot models.Snapshot, transferAmount decimal.Decimal) [][]interface{} {
	names := make([]string, 0, len(snapshot.Categories))
	for name := range snapshot.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	values := [][]interface{}{
		{"Category", "Budget", "Spent", "Variance", "Variance %"},
	}
	for _, name := range names {
		breakdown := snapshot.Categories[name]
		values = append(values, []interface{}{
			name,
			breakdown.BudgetAmount.StringFixed(2),
			breakdown.ActualAmount.StringFixed(2),
			breakdown.VarianceAmount.StringFixed(2),
			breakdown.VariancePercentage.StringFixed(2),
		})
	}
	values = append(values,
		[]interface{}{},
		[]interface{}{"Total Budget", snapshot.TotalBudget.StringFixed(2)},
		[]interface{}{"Total Spent", snapshot.TotalSpent.StringFixed(2)},
		[]interface{}{"Total Variance", snapshot.TotalVariance.StringFixed(2)},
		[]interface{}{"Status", statusLabel(snapshot.IsSurplus)},
		[]interface{}{"Transfer Amount", transferAmount.StringFixed(2)},
	)
	return values
}
