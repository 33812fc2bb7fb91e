// Package categorize handles one-off merchant categorization
package categorize

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/root"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single merchant",
	Long: `Categorize looks a merchant up in the learned mappings, the keyword rules,
and finally the AI service, and prints the resulting category. Learned
results are saved for future runs.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Merchant, "merchant", "m", "", "Merchant name to categorize")
	Cmd.Flags().StringVarP(&root.Amount, "amount", "a", "0.00", "Transaction amount (optional)")
	Cmd.Flags().StringVarP(&root.Date, "date", "t", "", "Transaction timestamp (optional)")
	Cmd.Flags().StringVarP(&root.Info, "info", "n", "", "Additional transaction info (optional)")
	if err := Cmd.MarkFlagRequired("merchant"); err != nil {
		panic(err)
	}
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.GetLogger()

	reference, err := root.ReferenceLocation()
	if err != nil {
		return err
	}

	timestamp := root.Date
	if timestamp == "" {
		timestamp = time.Now().In(reference).Format("2006-01-02 15:04:05")
	}

	transaction, err := models.NewTransaction(root.Merchant, root.Amount, timestamp, reference,
		models.WithDescription(root.Info))
	if err != nil {
		return err
	}

	categories := []string{
		models.CategoryGroceries,
		models.CategoryDiningOut,
		models.CategoryTransport,
		models.CategoryShopping,
		models.CategoryUtilities,
		models.CategoryEntertainment,
		models.CategorySavings,
	}

	c := root.NewCategorizer(logger)
	category, err := c.Categorize(ctx, transaction, categories)
	if err != nil {
		return err
	}
	if err := c.Flush(); err != nil {
		logger.WithError(err).Warn("Failed to save merchant mappings")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Category: %s\n", category)
	return nil
}
