package root

import (
	"context"
	"time"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/bank"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/categorizer"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/dateutils"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/sheets"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/store"
)

// NewStorage builds the spreadsheet client from the loaded configuration.
func NewStorage(ctx context.Context, logger logging.Logger) (*sheets.Client, error) {
	ranges := sheets.Ranges{
		Budget:       Cfg.Sheets.BudgetRange,
		Transactions: Cfg.Sheets.TransactionsRange,
		Analysis:     Cfg.Sheets.AnalysisRange,
	}
	return sheets.NewClient(ctx, Cfg.Sheets.SpreadsheetID, []byte(Cfg.Sheets.CredentialsJSON), ranges, logger)
}

// NewBank builds the bank client, or returns nil when no bank credentials
// are configured.
func NewBank(logger logging.Logger) (*bank.Client, error) {
	if Cfg.Bank.ClientID == "" && Cfg.Bank.AccessToken == "" {
		return nil, nil
	}
	return bank.NewClient(Cfg.Bank.ClientID, Cfg.Bank.Secret, Cfg.Bank.Environment, Cfg.Bank.AccessToken, logger)
}

// NewCategorizer builds the merchant categorizer backed by the mapping
// store and, when enabled, the AI client.
func NewCategorizer(logger logging.Logger) *categorizer.Categorizer {
	mappings := store.NewMappingStore(Cfg.Categorization.MappingFile, logger)

	var aiClient categorizer.AIClient
	if Cfg.AI.Enabled && Cfg.AI.APIKey != "" {
		timeout := time.Duration(Cfg.AI.TimeoutSeconds) * time.Second
		aiClient = categorizer.NewGeminiClient(Cfg.AI.APIKey, Cfg.AI.Model, timeout, logger)
	}

	opts := categorizer.Options{
		AutoLearn:        Cfg.Categorization.AutoLearn,
		FallbackCategory: Cfg.AI.FallbackCategory,
	}
	return categorizer.NewCategorizer(mappings, aiClient, opts, logger)
}

// ReferenceLocation resolves the configured timezone for timestamps.
func ReferenceLocation() (*time.Location, error) {
	return dateutils.LoadReferenceLocation(Cfg.Budget.ReferenceTimezone)
}
