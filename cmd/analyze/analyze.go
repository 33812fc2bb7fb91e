// Package analyze runs the weekly budget analysis pipeline
package analyze

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/root"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/analyzer"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/report"
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze this week's spending against the budget",
	Long: `Analyze reads the budget and spending log from the spreadsheet, merges in
the week's bank transactions, categorizes them, and writes the variance
analysis back to the sheet. With --transfer the surplus is moved to savings;
with --email the summary is sent to the configured recipients.`,
	RunE: analyzeFunc,
}

func init() {
	Cmd.Flags().BoolVar(&root.Transfer, "transfer", false, "Transfer the surplus to the savings account")
	Cmd.Flags().BoolVar(&root.Email, "email", false, "Email the weekly summary to the configured recipients")
	Cmd.Flags().StringVar(&root.CorrelationID, "correlation-id", "", "Correlation ID to reuse from a previous run")
	Cmd.Flags().StringVarP(&root.Format, "format", "f", "text", "Output format (text or json)")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.GetLogger()
	cfg := root.Cfg

	reference, err := root.ReferenceLocation()
	if err != nil {
		return err
	}

	storage, err := root.NewStorage(ctx, logger)
	if err != nil {
		return err
	}

	opts := analyzer.Options{
		AnalysisConfig:   cfg.AnalysisConfig(),
		Reference:        reference,
		Transfer:         root.Transfer,
		SavingsAccountID: cfg.Bank.SavingsID,
		LegalName:        cfg.Bank.LegalName,
		Email:            root.Email,
		Recipients:       cfg.Report.Recipients,
		Subject:          cfg.Report.Subject,
	}

	b, err := root.NewBank(logger)
	if err != nil {
		return err
	}
	var bankClient analyzer.Bank
	if b != nil {
		bankClient = b
	}

	var sender analyzer.Sender
	if root.Email {
		gmail, err := report.NewGmailSender(ctx, []byte(cfg.Sheets.CredentialsJSON), cfg.Report.Sender, logger)
		if err != nil {
			return err
		}
		sender = gmail
	}

	a := analyzer.New(storage, bankClient, root.NewCategorizer(logger), sender, opts, logger)
	result, err := a.Execute(ctx, root.CorrelationID)
	if err != nil {
		return err
	}

	switch root.Format {
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	default:
		generator := report.NewGenerator(logger)
		out, err := generator.Generate(result.Report, "text")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}
	return nil
}
