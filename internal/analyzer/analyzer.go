// Package analyzer orchestrates the weekly budget analysis pipeline:
// authenticate against external services, fetch budget data, analyze
// spending against the budget, then record and report the results.
package analyzer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/dateutils"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/report"
)

// Stage tracks pipeline progress. Stages only move forward; a failure at
// any point moves to StageFailed.
type Stage string

const (
	StageUnauthenticated Stage = "unauthenticated"
	StageAuthenticated   Stage = "authenticated"
	StageDataFetched     Stage = "data_fetched"
	StageAnalyzed        Stage = "analyzed"
	StageReported        Stage = "reported"
	StageFailed          Stage = "failed"
)

// Storage is the spreadsheet the budget and spending log live in.
type Storage interface {
	Verify(ctx context.Context) error
	GetCategoryRows(ctx context.Context) ([][]string, error)
	GetTransactionRows(ctx context.Context) ([][]string, error)
	UpdateTransactionCategories(ctx context.Context, transactions []models.Transaction) error
	WriteAnalysis(ctx context.Context, snapshot models.Snapshot, transferAmount decimal.Decimal) error
}

// Bank supplies transactions and executes savings transfers. Optional.
type Bank interface {
	Verify(ctx context.Context) error
	GetTransactions(ctx context.Context, start, end time.Time, reference *time.Location) ([]models.Transaction, error)
	TransferToSavings(ctx context.Context, savingsAccountID, legalName string, amount decimal.Decimal) (string, error)
}

// TransactionCategorizer assigns categories to uncategorized transactions.
// Optional.
type TransactionCategorizer interface {
	CategorizeAll(ctx context.Context, transactions []models.Transaction, categories []models.Category) (int, error)
}

// Sender delivers the weekly report email. Optional.
type Sender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// Options tunes one analysis run.
type Options struct {
	AnalysisConfig models.AnalysisConfig
	// Reference places the weekly window; nil means UTC.
	Reference *time.Location
	// ReferenceTime anchors the week; zero means now.
	ReferenceTime time.Time

	// Transfer moves the surplus to savings when set.
	Transfer         bool
	SavingsAccountID string
	LegalName        string

	// Email sends the text report when set.
	Email      bool
	Recipients []string
	Subject    string
}

// Result summarizes one pipeline execution.
type Result struct {
	CorrelationID     string              `json:"correlation_id"`
	Status            string              `json:"status"`
	Stage             Stage               `json:"stage"`
	ExecutionTime     float64             `json:"execution_time"`
	Message           string              `json:"message,omitempty"`
	BudgetStatus      string              `json:"budget_status,omitempty"`
	Report            report.WeeklyReport `json:"report"`
	CategoryCount     int                 `json:"category_count"`
	TransactionCount  int                 `json:"transaction_count"`
	SkippedRows       int                 `json:"skipped_rows"`
	CategorizedCount  int                 `json:"categorized_count"`
}

// Analyzer runs the weekly budget pipeline.
type Analyzer struct {
	storage     Storage
	bank        Bank
	categorizer TransactionCategorizer
	sender      Sender
	generator   *report.Generator
	opts        Options
	logger      logging.Logger
	stage       Stage
}

// New creates an Analyzer. Storage is required; bank, categorizer, and
// sender may be nil, which disables the corresponding step.
func New(storage Storage, bank Bank, categorizer TransactionCategorizer, sender Sender, opts Options, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if opts.Reference == nil {
		opts.Reference = time.UTC
	}
	if opts.AnalysisConfig.MinTransferAmount.IsZero() && opts.AnalysisConfig.ConsistencyTolerance.IsZero() {
		opts.AnalysisConfig = models.DefaultAnalysisConfig()
	}
	return &Analyzer{
		storage:     storage,
		bank:        bank,
		categorizer: categorizer,
		sender:      sender,
		generator:   report.NewGenerator(logger),
		opts:        opts,
		logger:      logger,
		stage:       StageUnauthenticated,
	}
}

// Stage returns the current pipeline stage.
func (a *Analyzer) Stage() Stage {
	return a.stage
}

// Authenticate verifies access to storage and, when configured, the bank.
func (a *Analyzer) Authenticate(ctx context.Context) error {
	if err := a.storage.Verify(ctx); err != nil {
		a.stage = StageFailed
		return err
	}
	if a.bank != nil {
		if err := a.bank.Verify(ctx); err != nil {
			a.stage = StageFailed
			return err
		}
	}
	a.stage = StageAuthenticated
	return nil
}

// FetchBudgetData loads the budget categories and the week's transactions.
// Bank transactions are merged with the spending log and deduplicated;
// uncategorized transactions are categorized and written back to storage.
func (a *Analyzer) FetchBudgetData(ctx context.Context) (models.Budget, []models.Transaction, int, int, error) {
	categoryRows, err := a.storage.GetCategoryRows(ctx)
	if err != nil {
		a.stage = StageFailed
		return models.Budget{}, nil, 0, 0, err
	}
	categories, skippedCategories := models.CategoriesFromRows(categoryRows, a.logger)
	if len(categories) == 0 {
		a.stage = StageFailed
		return models.Budget{}, nil, 0, 0, apperror.NewValidationError("categories", "", "no budget categories found")
	}

	transactionRows, err := a.storage.GetTransactionRows(ctx)
	if err != nil {
		a.stage = StageFailed
		return models.Budget{}, nil, 0, 0, err
	}
	transactions, skippedTransactions := models.TransactionsFromRows(transactionRows, a.opts.Reference, a.logger)

	start, end := a.weekWindow()
	if a.bank != nil {
		bankTransactions, err := a.bank.GetTransactions(ctx, start, end, a.opts.Reference)
		if err != nil {
			a.stage = StageFailed
			return models.Budget{}, nil, 0, 0, err
		}
		transactions = append(transactions, bankTransactions...)
	}
	transactions = filterWindow(transactions, start, end)
	transactions = models.DeduplicateTransactions(transactions)

	categorized := 0
	if a.categorizer != nil {
		categorized, err = a.categorizer.CategorizeAll(ctx, transactions, categories)
		if err != nil {
			a.stage = StageFailed
			return models.Budget{}, nil, 0, 0, err
		}
		if categorized > 0 {
			if err := a.storage.UpdateTransactionCategories(ctx, transactions); err != nil {
				a.stage = StageFailed
				return models.Budget{}, nil, 0, 0, err
			}
		}
	}

	budget := models.NewBudget(categories, models.AggregateSpending(transactions))
	a.stage = StageDataFetched

	a.logger.Info("Fetched budget data",
		logging.Field{Key: logging.FieldStage, Value: string(a.stage)},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldSkipped, Value: skippedCategories + skippedTransactions})
	return budget, transactions, skippedCategories + skippedTransactions, categorized, nil
}

// AnalyzeBudget runs the variance analysis.
func (a *Analyzer) AnalyzeBudget(budget models.Budget) (models.Analysis, error) {
	analysis, err := budget.Analyze(a.opts.AnalysisConfig)
	if err != nil {
		a.stage = StageFailed
		return models.Analysis{}, err
	}
	a.stage = StageAnalyzed
	return analysis, nil
}

// FormatResults renders the analysis into the weekly report shape.
func (a *Analyzer) FormatResults(budget models.Budget, analysis models.Analysis) report.WeeklyReport {
	start, end := a.weekWindow()
	return report.WeeklyReport{
		GeneratedAt:    a.now(),
		WeekStart:      start,
		WeekEnd:        end,
		Snapshot:       analysis.Snapshot(budget),
		TransferAmount: analysis.TransferAmount(a.opts.AnalysisConfig),
	}
}

// Execute runs the full pipeline. A non-empty previousCorrelationID is
// echoed into the result so chained runs share one ID.
func (a *Analyzer) Execute(ctx context.Context, previousCorrelationID string) (Result, error) {
	correlationID := previousCorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	logger := a.logger.WithField(logging.FieldCorrelationID, correlationID)
	started := time.Now()

	result := Result{
		CorrelationID: correlationID,
		Status:        models.StatusSuccess,
	}
	fail := func(err error) (Result, error) {
		result.Status = models.StatusError
		result.Stage = a.stage
		result.Message = err.Error()
		result.ExecutionTime = time.Since(started).Seconds()
		logger.WithError(err).Error("Budget analysis failed",
			logging.Field{Key: logging.FieldStage, Value: string(a.stage)})
		return result, err
	}

	logger.Info("Starting budget analysis",
		logging.Field{Key: logging.FieldStage, Value: string(a.stage)})

	if err := a.Authenticate(ctx); err != nil {
		return fail(err)
	}

	budget, transactions, skipped, categorized, err := a.FetchBudgetData(ctx)
	if err != nil {
		return fail(err)
	}
	result.CategoryCount = len(budget.Categories)
	result.TransactionCount = len(transactions)
	result.SkippedRows = skipped
	result.CategorizedCount = categorized

	analysis, err := a.AnalyzeBudget(budget)
	if err != nil {
		return fail(err)
	}

	weekly := a.FormatResults(budget, analysis)
	result.BudgetStatus = weekly.Status()
	if err := a.storage.WriteAnalysis(ctx, weekly.Snapshot, weekly.TransferAmount); err != nil {
		return fail(err)
	}

	if a.opts.Transfer && a.bank != nil && weekly.TransferAmount.IsPositive() {
		transferID, err := a.bank.TransferToSavings(ctx, a.opts.SavingsAccountID, a.opts.LegalName, weekly.TransferAmount)
		if err != nil {
			return fail(err)
		}
		weekly.TransferID = transferID
	}

	if a.opts.Email && a.sender != nil {
		body, err := a.generator.Generate(weekly, "text")
		if err != nil {
			return fail(err)
		}
		subject := a.opts.Subject
		if subject == "" {
			subject = "Weekly Budget Update"
		}
		if err := a.sender.Send(ctx, a.opts.Recipients, subject, string(body)); err != nil {
			return fail(err)
		}
	}
	a.stage = StageReported

	if len(transactions) == 0 {
		result.Status = models.StatusWarning
		result.Message = "no transactions found for the week"
	} else if skipped > 0 {
		result.Status = models.StatusWarning
		result.Message = "some rows were skipped"
	}

	result.Stage = a.stage
	result.Report = weekly
	result.ExecutionTime = time.Since(started).Seconds()

	logger.Info("Budget analysis complete",
		logging.Field{Key: logging.FieldStatus, Value: result.Status},
		logging.Field{Key: logging.FieldDuration, Value: result.ExecutionTime},
		logging.Field{Key: logging.FieldCount, Value: result.TransactionCount})
	return result, nil
}

func (a *Analyzer) now() time.Time {
	if !a.opts.ReferenceTime.IsZero() {
		return a.opts.ReferenceTime
	}
	return time.Now().In(a.opts.Reference)
}

func (a *Analyzer) weekWindow() (time.Time, time.Time) {
	return dateutils.WeekWindow(a.now().In(a.opts.Reference))
}

func filterWindow(transactions []models.Transaction, start, end time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if !txn.Timestamp.Before(start) && txn.Timestamp.Before(end) {
			out = append(out, txn)
		}
	}
	return out
}
