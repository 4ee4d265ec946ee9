package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Plan:                %s\n", result.Request.Base.Name))
	sb.WriteString(fmt.Sprintf("Optimization Target: %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Optimization Goal:   %s\n", result.Goal))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("OPTIMAL PARAMETERS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalAgio != nil {
		sb.WriteString(fmt.Sprintf("Ágio:                %s\n", tf.formatPercent(*result.OptimalAgio)))
	}
	if result.OptimalContemplationMonth != nil {
		sb.WriteString(fmt.Sprintf("Contemplation Month: %d\n", *result.OptimalContemplationMonth))
	}
	if result.OptimalEmbeddedPercentage != nil {
		sb.WriteString(fmt.Sprintf("Embedded Bid:        %s\n", tf.formatPercent(*result.OptimalEmbeddedPercentage)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("PROJECTED RESULTS (sale at month %d)\n", result.CapitalGain.Month))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("First Installment:  R$ %s\n", tf.formatCurrency(result.Summary.FirstInstallment)))
	sb.WriteString(fmt.Sprintf("Accessed Credit:    R$ %s\n", tf.formatCurrency(result.CapitalGain.AccessedCredit)))
	sb.WriteString(fmt.Sprintf("Paid So Far:        R$ %s\n", tf.formatCurrency(result.CapitalGain.PaidSoFar)))
	profitSign := ""
	if result.CapitalGain.Profit.IsNegative() {
		profitSign = "-"
	}
	sb.WriteString(fmt.Sprintf("Profit:             %sR$ %s\n", profitSign, tf.formatCurrency(result.CapitalGain.Profit)))
	sb.WriteString(fmt.Sprintf("ROI:                %s\n", tf.formatPercent(result.CapitalGain.ROI)))
	sb.WriteString(fmt.Sprintf("Total Paid (term):  R$ %s\n", tf.formatCurrency(result.Summary.TotalPaid)))
	sb.WriteString("\n")

	sb.WriteString("COMPARISON TO BASE PLAN\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("ROI Change:         %s%s pp\n",
		tf.deltaSymbol(result.ROIDiffFromBase), result.ROIDiffFromBase.Abs().Mul(decimal.NewFromInt(100)).StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Total Paid Change:  %sR$ %s\n",
		tf.deltaSymbol(result.TotalPaidDiffFromBase), tf.formatCurrency(result.TotalPaidDiffFromBase)))
	sb.WriteString("\n")

	if result.Goal == GoalMatchROI && result.Request.Constraints.TargetROI != nil {
		target := *result.Request.Constraints.TargetROI
		sb.WriteString("TARGET ROI MATCH\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Target ROI:    %s\n", tf.formatPercent(target)))
		sb.WriteString(fmt.Sprintf("Achieved ROI:  %s\n", tf.formatPercent(result.CapitalGain.ROI)))
		diff := result.CapitalGain.ROI.Sub(target)
		sb.WriteString(fmt.Sprintf("Difference:    %s%s pp\n", tf.deltaSymbol(diff), diff.Abs().Mul(decimal.NewFromInt(100)).StringFixed(4)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiDimensional formats results from multiple optimizations
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("MULTI-DIMENSIONAL OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Plan: %s\n\n", result.BaseName))

	sb.WriteString("SUMMARY OF ALL OPTIMIZATIONS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-20s %-16s %12s %14s %14s\n",
		"Optimization", "Goal", "ROI", "Accessed", "Total Paid"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		sb.WriteString(fmt.Sprintf("%-20s %-16s %12s %14s %14s\n",
			tf.truncate(string(res.Target), 20),
			tf.truncate(string(res.Goal), 16),
			tf.formatPercent(res.CapitalGain.ROI),
			"R$ "+tf.formatShort(res.CapitalGain.AccessedCredit),
			"R$ "+tf.formatShort(res.Summary.TotalPaid)))
	}
	sb.WriteString("\n")

	sb.WriteString("BEST PLANS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.BestByROI != nil {
		sb.WriteString(fmt.Sprintf("Best ROI:        %s (%s)\n",
			result.BestByROI.Target, tf.formatPercent(result.BestByROI.CapitalGain.ROI)))
	}
	if result.BestByCost != nil {
		sb.WriteString(fmt.Sprintf("Lowest Cost:     %s (R$ %s over the term)\n",
			result.BestByCost.Target, tf.formatCurrency(result.BestByCost.Summary.TotalPaid)))
	}
	if result.BestByCredit != nil {
		sb.WriteString(fmt.Sprintf("Most Credit:     %s (R$ %s accessed)\n",
			result.BestByCredit.Target, tf.formatCurrency(result.BestByCredit.CapitalGain.AccessedCredit)))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.Abs().StringFixed(2)
}

func (tf *TableFormatter) formatPercent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
