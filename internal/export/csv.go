// Package export reads and writes the weekly spending log as CSV files,
// for offline review and for seeding the spreadsheet.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/dateutils"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// Delimiter is the CSV field separator, configurable via CSV_DELIMITER.
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		Delimiter = []rune(val)[0]
	}
}

// transactionRow maps a transaction to its CSV columns. The column order
// matches the spreadsheet's Weekly Spending tab.
type transactionRow struct {
	Location  string `csv:"Location"`
	Amount    string `csv:"Amount"`
	Timestamp string `csv:"Timestamp"`
	Category  string `csv:"Category"`
}

func rowFromTransaction(txn models.Transaction) transactionRow {
	return transactionRow{
		Location:  txn.Location,
		Amount:    txn.Amount.StringFixed(2),
		Timestamp: txn.Timestamp.Format(dateutils.LayoutSheet),
		Category:  txn.Category,
	}
}

// WriteTransactions writes transactions to a CSV file, creating parent
// directories as needed.
func WriteTransactions(transactions []models.Transaction, csvFile string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	logger.Info("Writing transactions to CSV file",
		logging.Field{Key: logging.FieldLocation, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]transactionRow, 0, len(transactions))
	for _, txn := range transactions {
		rows = append(rows, rowFromTransaction(txn))
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// ReadTransactions reads transactions from a CSV file. Rows that fail
// validation are logged and skipped; the skip count is returned alongside
// the valid transactions.
func ReadTransactions(csvFile string, reference *time.Location, logger logging.Logger) ([]models.Transaction, int, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.Info("Reading transactions from CSV file",
		logging.Field{Key: logging.FieldLocation, Value: csvFile})

	file, err := os.Open(csvFile)
	if err != nil {
		return nil, 0, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []transactionRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, 0, fmt.Errorf("error parsing CSV file: %w", err)
	}

	transactions := make([]models.Transaction, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		txn, err := models.NewTransaction(row.Location, row.Amount, row.Timestamp, reference,
			models.WithCategory(row.Category))
		if err != nil {
			skipped++
			logger.WithError(err).Warn("Skipping invalid CSV row",
				logging.Field{Key: logging.FieldCount, Value: i + 1})
			continue
		}
		transactions = append(transactions, txn)
	}

	logger.Info("Read transactions from CSV file",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldSkipped, Value: skipped})
	return transactions, skipped, nil
}
