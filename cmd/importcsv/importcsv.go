// Package importcsv appends transactions from a CSV file to the spreadsheet
package importcsv

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/root"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/export"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import transactions from a CSV file into the spending log",
	Long: `Import reads transactions from a CSV file, drops duplicates of rows
already in the spreadsheet, and appends the rest to the spending log.`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.InputFile, "input", "i", "", "Input CSV file")
	if err := Cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}
}

func importFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.GetLogger()

	reference, err := root.ReferenceLocation()
	if err != nil {
		return err
	}

	transactions, skipped, err := export.ReadTransactions(root.InputFile, reference, logger)
	if err != nil {
		return err
	}
	if skipped > 0 {
		logger.Warn("Some CSV rows were skipped",
			logging.Field{Key: logging.FieldSkipped, Value: skipped})
	}

	storage, err := root.NewStorage(ctx, logger)
	if err != nil {
		return err
	}

	existingRows, err := storage.GetTransactionRows(ctx)
	if err != nil {
		return err
	}
	existing, _ := models.TransactionsFromRows(existingRows, reference, logger)
	existing = models.DeduplicateTransactions(existing)

	// Deduplication keeps first occurrences in order, so everything past the
	// existing rows is new.
	merged := models.DeduplicateTransactions(append(existing, transactions...))
	fresh := merged[len(existing):]
	if len(fresh) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No new transactions to import")
		return nil
	}

	if err := storage.AppendTransactions(ctx, fresh); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %s\n", len(fresh), root.InputFile)
	return nil
}
