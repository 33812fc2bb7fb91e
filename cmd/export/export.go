// Package export writes the spreadsheet's spending log to a CSV file
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/root"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/export"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the spending log to a CSV file",
	RunE:  exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.OutputFile, "output", "o", "spending.csv", "Output CSV file")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.GetLogger()

	reference, err := root.ReferenceLocation()
	if err != nil {
		return err
	}

	storage, err := root.NewStorage(ctx, logger)
	if err != nil {
		return err
	}

	rows, err := storage.GetTransactionRows(ctx)
	if err != nil {
		return err
	}
	transactions, skipped := models.TransactionsFromRows(rows, reference, logger)
	if skipped > 0 {
		logger.Warn("Some spreadsheet rows were skipped",
			logging.Field{Key: logging.FieldSkipped, Value: skipped})
	}

	if err := export.WriteTransactions(transactions, root.OutputFile, logger); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(transactions), root.OutputFile)
	return nil
}
