package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if len(analysis.Parameters) == 0 || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no parameters or results in analysis")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", analysis.BaseName)
	fmt.Fprintln(&buf, strings.Repeat("=", 96))

	for _, param := range analysis.Parameters {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
		fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n",
			formatParameterValue(param.Name, param.MinValue),
			formatParameterValue(param.Name, param.MaxValue),
			param.Steps)
		if param.Description != "" {
			fmt.Fprintf(&buf, "Description: %s\n", param.Description)
		}
		fmt.Fprintln(&buf, strings.Repeat("-", 96))
		fmt.Fprintf(&buf, "%-10s %16s %18s %18s %16s %10s\n",
			"Value", "1st Install.", "Post-Contempl.", "Accessed", "Profit", "ROI")

		for _, r := range analysis.Results {
			if r.Parameter != param.Name {
				continue
			}
			fmt.Fprintf(&buf, "%-10s %16s %18s %18s %16s %10s\n",
				formatParameterValue(param.Name, r.Value),
				FormatCurrency(r.Metrics.FirstInstallment),
				FormatCurrency(r.Metrics.PostContemplationInstallment),
				FormatCurrency(r.Metrics.AccessedAtContemplation),
				FormatCurrency(r.Metrics.Profit),
				FormatPercentage(r.Metrics.ROI))
		}
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "SENSITIVITY RANKING (ROI spread):")
	for _, name := range rankBySpread(analysis.Summary.ROISpread) {
		fmt.Fprintf(&buf, "  • %-36s %s ROI, %s first installment\n", name,
			FormatPercentage(analysis.Summary.ROISpread[name]),
			FormatCurrency(analysis.Summary.InstallmentSpread[name]))
	}
	if analysis.Summary.MostSensitiveParameter != "" {
		fmt.Fprintf(&buf, "\nMost sensitive parameter: %s\n", analysis.Summary.MostSensitiveParameter)
	}

	return buf.String(), nil
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"parameter_name", "parameter_value", "first_installment", "post_contemplation_installment", "accessed_at_contemplation", "total_paid", "profit", "roi"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, r := range analysis.Results {
		row := []string{
			r.Parameter,
			r.Value.String(),
			r.Metrics.FirstInstallment.StringFixed(2),
			r.Metrics.PostContemplationInstallment.StringFixed(2),
			r.Metrics.AccessedAtContemplation.StringFixed(2),
			r.Metrics.TotalPaid.StringFixed(2),
			r.Metrics.Profit.StringFixed(2),
			r.Metrics.ROI.StringFixed(6),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "console", "console-lite":
		return SensitivityConsoleFormatter{}
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{} // Default to console
	}
}

func formatParameterValue(name string, v decimal.Decimal) string {
	if name == domain.ParamContemplationMonth {
		return fmt.Sprintf("m%d", v.IntPart())
	}
	return FormatPercentage(v)
}

// rankBySpread orders names by descending spread, then by name
func rankBySpread(spreads map[string]decimal.Decimal) []string {
	names := make([]string, 0, len(spreads))
	for name := range spreads {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := spreads[names[i]], spreads[names[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return names[i] < names[j]
	})
	return names
}
