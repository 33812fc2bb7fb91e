// Package report renders weekly budget analysis results and delivers them
// by email.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/dateutils"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// WeeklyReport is the material for one weekly budget summary.
type WeeklyReport struct {
	GeneratedAt    time.Time       `json:"generated_at"`
	WeekStart      time.Time       `json:"week_start"`
	WeekEnd        time.Time       `json:"week_end"`
	Snapshot       models.Snapshot `json:"analysis"`
	TransferAmount decimal.Decimal `json:"transfer_amount"`
	TransferID     string          `json:"transfer_id,omitempty"`
}

// Status returns "surplus" or "deficit".
func (r WeeklyReport) Status() string {
	if r.Snapshot.IsSurplus {
		return models.BudgetStatusSurplus
	}
	return models.BudgetStatusDeficit
}

// Generator renders weekly reports in the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a report generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{logger: logger}
}

// Generate renders the report in the given format ("json" or "text").
func (g *Generator) Generate(report WeeklyReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.generateJSON(report)
	case "text":
		return []byte(g.generateText(report)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(report WeeklyReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

// generateText builds the plain-text email body.
func (g *Generator) generateText(report WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Weekly Budget Summary: %s to %s\n\n",
		report.WeekStart.Format(dateutils.LayoutISODate),
		report.WeekEnd.AddDate(0, 0, -1).Format(dateutils.LayoutISODate))

	names := make([]string, 0, len(report.Snapshot.Categories))
	for name := range report.Snapshot.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		breakdown := report.Snapshot.Categories[name]
		marker := ""
		if breakdown.IsOverBudget {
			marker = "  (over budget)"
		}
		fmt.Fprintf(&b, "%-20s budget %10s  spent %10s  variance %10s%s\n",
			name,
			breakdown.BudgetAmount.StringFixed(2),
			breakdown.ActualAmount.StringFixed(2),
			breakdown.VarianceAmount.StringFixed(2),
			marker)
	}

	fmt.Fprintf(&b, "\nTotal budget:   %s\n", report.Snapshot.TotalBudget.StringFixed(2))
	fmt.Fprintf(&b, "Total spent:    %s\n", report.Snapshot.TotalSpent.StringFixed(2))
	fmt.Fprintf(&b, "Total variance: %s (%s)\n", report.Snapshot.TotalVariance.StringFixed(2), report.Status())

	if report.TransferAmount.IsPositive() {
		fmt.Fprintf(&b, "\nTransferred %s to savings", report.TransferAmount.StringFixed(2))
		if report.TransferID != "" {
			fmt.Fprintf(&b, " (transfer %s)", report.TransferID)
		}
		b.WriteString("\n")
	} else if report.Snapshot.IsSurplus {
		b.WriteString("\nSurplus below the transfer threshold; nothing moved to savings\n")
	} else {
		b.WriteString("\nNo savings transfer this week\n")
	}

	return b.String()
}
