package models

import (
	"github.com/shopspring/decimal"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
)

// AnalysisConfig carries the injected constants the budget math depends on.
// Callers supply it explicitly; there is no global configuration lookup.
type AnalysisConfig struct {
	// MinTransferAmount is the smallest surplus worth moving to savings.
	MinTransferAmount decimal.Decimal
	// ConsistencyTolerance bounds the rounding disagreement allowed between
	// independently computed totals. 0.01 assumes a two-minor-unit currency.
	ConsistencyTolerance decimal.Decimal
}

// DefaultAnalysisConfig returns the standard thresholds: a 1.00 minimum
// transfer and a 0.01 consistency tolerance.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MinTransferAmount:    decimal.NewFromInt(1),
		ConsistencyTolerance: decimal.New(1, -2),
	}
}

// Budget pairs a fixed set of category allocations with observed spending
// per category name. It is the unanalyzed input; Analyze produces the
// derived totals as a separate value, so there is no is-analyzed flag to
// track.
type Budget struct {
	Categories     []Category
	ActualSpending map[string]decimal.Decimal
}

// NewBudget constructs a Budget. A nil spending map is treated as a week of
// zero spend.
func NewBudget(categories []Category, actualSpending map[string]decimal.Decimal) Budget {
	if actualSpending == nil {
		actualSpending = map[string]decimal.Decimal{}
	}
	return Budget{Categories: categories, ActualSpending: actualSpending}
}

// Analysis holds the derived results of analyzing a Budget: decimal-exact
// totals and per-category variances. Positive variance means under budget.
type Analysis struct {
	TotalBudget       decimal.Decimal
	TotalSpent        decimal.Decimal
	TotalVariance     decimal.Decimal
	CategoryVariances map[string]decimal.Decimal
}

// Analyze computes the variance report for the budget. It is a pure function
// of the categories and spending map: the same inputs always produce the
// same Analysis, and calling it repeatedly is safe.
//
// The three totals and the sum of per-category variances are cross-validated
// within cfg.ConsistencyTolerance; a disagreement indicates a caller bug and
// surfaces as a validation error rather than being silently corrected.
// Spending recorded against a name with no matching category counts toward
// TotalSpent and drags TotalVariance down without a per-category entry.
func (b Budget) Analyze(cfg AnalysisConfig) (Analysis, error) {
	totalBudget := decimal.Zero
	for _, c := range b.Categories {
		totalBudget = totalBudget.Add(c.WeeklyAmount)
	}

	totalSpent := decimal.Zero
	for _, amount := range b.ActualSpending {
		totalSpent = totalSpent.Add(amount)
	}

	variances := make(map[string]decimal.Decimal, len(b.Categories))
	varianceSum := decimal.Zero
	unbudgetedSpend := totalSpent
	for _, c := range b.Categories {
		spent := b.ActualSpending[c.Name] // zero value means full surplus
		variance := c.WeeklyAmount.Sub(spent)
		variances[c.Name] = variance
		varianceSum = varianceSum.Add(variance)
		unbudgetedSpend = unbudgetedSpend.Sub(spent)
	}

	totalVariance := totalBudget.Sub(totalSpent)

	// varianceSum covers only budgeted categories; spending against unknown
	// names accounts for the remainder exactly.
	if varianceSum.Sub(unbudgetedSpend).Sub(totalVariance).Abs().GreaterThan(cfg.ConsistencyTolerance) {
		return Analysis{}, apperror.NewValidationError(
			"total_variance",
			totalVariance.String(),
			"per-category variances do not reconcile with totals")
	}
	if totalBudget.Sub(totalSpent).Sub(totalVariance).Abs().GreaterThan(cfg.ConsistencyTolerance) {
		return Analysis{}, apperror.NewValidationError(
			"total_variance",
			totalVariance.String(),
			"totals disagree beyond tolerance")
	}

	return Analysis{
		TotalBudget:       totalBudget,
		TotalSpent:        totalSpent,
		TotalVariance:     totalVariance,
		CategoryVariances: variances,
	}, nil
}

// IsSurplus reports whether the week ended under budget overall.
func (a Analysis) IsSurplus() bool {
	return a.TotalVariance.IsPositive()
}

// TransferAmount returns the surplus recommended for moving to savings:
// zero when the week ran at or over budget or the surplus falls below
// cfg.MinTransferAmount, otherwise the total variance rounded to two places
// with banker's (half-even) rounding. Deterministic for a given variance
// and threshold.
func (a Analysis) TransferAmount(cfg AnalysisConfig) decimal.Decimal {
	if !a.TotalVariance.IsPositive() {
		return decimal.Zero
	}
	if a.TotalVariance.LessThan(cfg.MinTransferAmount) {
		return decimal.Zero
	}
	return a.TotalVariance.RoundBank(2)
}

// CategoryBreakdown is the per-category slice of a budget snapshot.
type CategoryBreakdown struct {
	BudgetAmount       decimal.Decimal `json:"budget_amount"`
	ActualAmount       decimal.Decimal `json:"actual_amount"`
	VarianceAmount     decimal.Decimal `json:"variance_amount"`
	VariancePercentage decimal.Decimal `json:"variance_percentage"`
	IsOverBudget       bool            `json:"is_over_budget"`
}

// Snapshot is the serializable result of a completed analysis.
type Snapshot struct {
	Categories    map[string]CategoryBreakdown `json:"categories"`
	TotalBudget   decimal.Decimal              `json:"total_budget"`
	TotalSpent    decimal.Decimal              `json:"total_spent"`
	TotalVariance decimal.Decimal              `json:"total_variance"`
	IsSurplus     bool                         `json:"is_surplus"`
}

// Snapshot renders the analysis of the given budget into its serializable
// shape. Variance percentage is zero when the budgeted amount is zero.
func (a Analysis) Snapshot(b Budget) Snapshot {
	hundred := decimal.NewFromInt(100)
	breakdown := make(map[string]CategoryBreakdown, len(b.Categories))
	for _, c := range b.Categories {
		spent := b.ActualSpending[c.Name]
		variance := a.CategoryVariances[c.Name]
		percentage := decimal.Zero
		if !c.WeeklyAmount.IsZero() {
			percentage = variance.Div(c.WeeklyAmount).Mul(hundred).RoundBank(2)
		}
		breakdown[c.Name] = CategoryBreakdown{
			BudgetAmount:       c.WeeklyAmount,
			ActualAmount:       spent,
			VarianceAmount:     variance,
			VariancePercentage: percentage,
			IsOverBudget:       variance.IsNegative(),
		}
	}
	return Snapshot{
		Categories:    breakdown,
		TotalBudget:   a.TotalBudget,
		TotalSpent:    a.TotalSpent,
		TotalVariance: a.TotalVariance,
		IsSurplus:     a.IsSurplus(),
	}
}

// AggregateSpending sums transaction amounts by assigned category name.
// Uncategorized transactions are excluded from the aggregation rather than
// grouped under a pseudo-category.
func AggregateSpending(txns []Transaction) map[string]decimal.Decimal {
	spending := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		if txn.Category == "" {
			continue
		}
		spending[txn.Category] = spending[txn.Category].Add(txn.Amount)
	}
	return spending
}
