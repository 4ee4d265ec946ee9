package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Plan",
		"Type",
		"Contemplation Month",
		"Embedded Bid",
		"Regime",
		"First Installment",
		"Post-Contemplation Installment",
		"Accessed Credit",
		"Total Paid",
		"Profit",
		"ROI",
		"ROI Diff from Base",
		"Total Paid Diff from Base",
		"Accessed Credit Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, planType string) []string {
	return []string{
		result.Name,
		planType,
		strconv.Itoa(result.ContemplationMonth),
		strconv.FormatBool(result.EmbeddedBid),
		result.Regime,
		result.FirstInstallment.StringFixed(2),
		result.PostContemplationInstallment.StringFixed(2),
		result.AccessedCredit.StringFixed(2),
		result.TotalPaid.StringFixed(2),
		result.Profit.StringFixed(2),
		result.ROI.StringFixed(4),
		result.ROIDiffFromBase.StringFixed(4),
		result.TotalPaidDiffFromBase.StringFixed(2),
		result.AccessedCreditDiffFromBase.StringFixed(2),
	}
}
