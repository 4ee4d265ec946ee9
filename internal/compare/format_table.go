package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing plans
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("CONSÓRCIO PLAN COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 92) + "\n")
	sb.WriteString(fmt.Sprintf("Base Plan: %s\n", compSet.BaseName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 30
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Plan",
		numWidth, "1st Install.",
		numWidth, "Accessed",
		numWidth, "Total Paid",
		numWidth, "ROI"))
	sb.WriteString(strings.Repeat("-", 92) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 92) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Name))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}
			sb.WriteString(fmt.Sprintf("  ROI:              %s%s pp\n",
				tf.deltaSymbol(alt.ROIDiffFromBase), alt.ROIDiffFromBase.Mul(hundred).StringFixed(2)))
			sb.WriteString(fmt.Sprintf("  Total Paid:       %sR$ %s\n",
				tf.deltaSymbol(alt.TotalPaidDiffFromBase), tf.formatDecimal(alt.TotalPaidDiffFromBase)))
			sb.WriteString(fmt.Sprintf("  Accessed Credit:  %sR$ %s\n",
				tf.deltaSymbol(alt.AccessedCreditDiffFromBase), tf.formatDecimal(alt.AccessedCreditDiffFromBase)))
			if !alt.FirstInstallmentDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  1st Installment:  %sR$ %s\n",
					tf.deltaSymbol(alt.FirstInstallmentDiffFromBase), alt.FirstInstallmentDiffFromBase.StringFixed(2)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single plan row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.Name
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "R$ "+result.FirstInstallment.StringFixed(2),
		numWidth, "R$ "+tf.formatDecimal(result.AccessedCredit),
		numWidth, "R$ "+tf.formatDecimal(result.TotalPaid),
		numWidth, result.ROI.Mul(hundred).StringFixed(2)+"%")
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + prefix for positive deltas; negatives carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return ""
	}
	return " "
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a compact single-line summary for each variant
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		roiChange := "="
		if !alt.ROIDiffFromBase.IsZero() {
			roiChange = fmt.Sprintf("%s%s pp", tf.deltaSymbol(alt.ROIDiffFromBase), alt.ROIDiffFromBase.Mul(hundred).StringFixed(1))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.Name, roiChange))
	}

	return sb.String()
}
