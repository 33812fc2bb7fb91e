// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/config"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg holds the loaded configuration, populated before any command runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget-buddy",
		Short: "A CLI tool to analyze weekly spending against a budget spreadsheet.",
		Long: `budget-buddy reads budget categories and spending from a Google Sheet,
pulls the week's bank transactions, categorizes them, and reports how actual
spending compares to the budget. Surpluses can be moved to savings and the
summary emailed.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to budget-buddy!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			if err := config.InitializeGlobalConfig(); err != nil {
				return err
			}
			Cfg = config.GetGlobalConfig()
			Log = config.ConfigureLoggingFromConfig(Cfg)
			logging.SetDefaultLogger(logging.NewLogrusAdapterFromLogger(Log))
			return nil
		},
	}

	// Analyze command flags
	Transfer      bool
	Email         bool
	CorrelationID string
	Format        string

	// Categorize command flags
	Merchant string
	Amount   string
	Date     string
	Info     string

	// Export and import command flags
	OutputFile string
	InputFile  string
)
