// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Budget struct {
		MinTransferAmount    string `mapstructure:"min_transfer_amount" yaml:"min_transfer_amount"`
		ConsistencyTolerance string `mapstructure:"consistency_tolerance" yaml:"consistency_tolerance"`
		ReferenceTimezone    string `mapstructure:"reference_timezone" yaml:"reference_timezone"`
	} `mapstructure:"budget" yaml:"budget"`

	Sheets struct {
		SpreadsheetID     string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
		BudgetRange       string `mapstructure:"budget_range" yaml:"budget_range"`
		TransactionsRange string `mapstructure:"transactions_range" yaml:"transactions_range"`
		AnalysisRange     string `mapstructure:"analysis_range" yaml:"analysis_range"`
		CredentialsJSON   string `mapstructure:"credentials_json" yaml:"-"` // Never serialize credentials
	} `mapstructure:"sheets" yaml:"sheets"`

	Bank struct {
		Environment string `mapstructure:"environment" yaml:"environment"`
		ClientID    string `mapstructure:"client_id" yaml:"-"`
		Secret      string `mapstructure:"secret" yaml:"-"`
		AccessToken string `mapstructure:"access_token" yaml:"-"`
		AccountID   string `mapstructure:"account_id" yaml:"account_id"`
		SavingsID   string `mapstructure:"savings_id" yaml:"savings_id"`
		LegalName   string `mapstructure:"legal_name" yaml:"legal_name"`
	} `mapstructure:"bank" yaml:"bank"`

	AI struct {
		Enabled          bool   `mapstructure:"enabled" yaml:"enabled"`
		Model            string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds   int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		FallbackCategory string `mapstructure:"fallback_category" yaml:"fallback_category"`
		APIKey           string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Categorization struct {
		AutoLearn   bool   `mapstructure:"auto_learn" yaml:"auto_learn"`
		MappingFile string `mapstructure:"mapping_file" yaml:"mapping_file"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Report struct {
		Sender     string   `mapstructure:"sender" yaml:"sender"`
		Recipients []string `mapstructure:"recipients" yaml:"recipients"`
		Subject    string   `mapstructure:"subject" yaml:"subject"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.budget-buddy")
	v.AddConfigPath(".budget-buddy")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("BUDGET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Config file not found or invalid is OK, we'll use defaults and env vars
	}

	// 5. Secrets always come from unprefixed environment variables
	secretBindings := map[string]string{
		"ai.api_key":              "GEMINI_API_KEY",
		"sheets.credentials_json": "GOOGLE_SHEETS_CREDENTIALS_JSON",
		"bank.client_id":          "PLAID_CLIENT_ID",
		"bank.secret":             "PLAID_SECRET",
		"bank.access_token":       "PLAID_ACCESS_TOKEN",
	}
	for key, env := range secretBindings {
		if err := v.BindEnv(key, env); err != nil {
			fmt.Printf("Warning: failed to bind %s environment variable: %v\n", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Budget defaults
	v.SetDefault("budget.min_transfer_amount", "1.00")
	v.SetDefault("budget.consistency_tolerance", "0.01")
	v.SetDefault("budget.reference_timezone", "America/New_York")

	// Sheets defaults
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.budget_range", "Master Budget!A2:B")
	v.SetDefault("sheets.transactions_range", "Weekly Spending!A2:D")
	v.SetDefault("sheets.analysis_range", "Analysis!A1")

	// Bank defaults
	v.SetDefault("bank.environment", "sandbox")
	v.SetDefault("bank.account_id", "")
	v.SetDefault("bank.savings_id", "")
	v.SetDefault("bank.legal_name", "")

	// AI defaults
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.fallback_category", models.CategoryUncategorized)

	// Categorization defaults
	v.SetDefault("categorization.auto_learn", true)
	v.SetDefault("categorization.mapping_file", "")

	// Report defaults
	v.SetDefault("report.sender", "")
	v.SetDefault("report.recipients", []string{})
	v.SetDefault("report.subject", "Weekly Budget Update")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate budget thresholds
	minTransfer, err := decimal.NewFromString(config.Budget.MinTransferAmount)
	if err != nil {
		return fmt.Errorf("budget.min_transfer_amount must be a decimal, got: %s", config.Budget.MinTransferAmount)
	}
	if minTransfer.IsNegative() {
		return fmt.Errorf("budget.min_transfer_amount must be non-negative, got: %s", config.Budget.MinTransferAmount)
	}
	tolerance, err := decimal.NewFromString(config.Budget.ConsistencyTolerance)
	if err != nil {
		return fmt.Errorf("budget.consistency_tolerance must be a decimal, got: %s", config.Budget.ConsistencyTolerance)
	}
	if !tolerance.IsPositive() {
		return fmt.Errorf("budget.consistency_tolerance must be positive, got: %s", config.Budget.ConsistencyTolerance)
	}

	// Validate bank environment
	switch config.Bank.Environment {
	case "sandbox", "production":
	default:
		return fmt.Errorf("bank.environment must be 'sandbox' or 'production', got: %s", config.Bank.Environment)
	}

	// Validate AI configuration
	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}

// AnalysisConfig materializes the budget thresholds into the form the
// analysis code consumes. validateConfig has already checked the strings.
func (c *Config) AnalysisConfig() models.AnalysisConfig {
	cfg := models.DefaultAnalysisConfig()
	if amount, err := decimal.NewFromString(c.Budget.MinTransferAmount); err == nil {
		cfg.MinTransferAmount = amount
	}
	if tolerance, err := decimal.NewFromString(c.Budget.ConsistencyTolerance); err == nil {
		cfg.ConsistencyTolerance = tolerance
	}
	return cfg
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
