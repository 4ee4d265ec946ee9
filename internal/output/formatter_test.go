package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// buildTestResult projects a fee-free 12-month plan contemplated at month 6
func buildTestResult(t *testing.T, leverage bool) *domain.SimulationResult {
	t.Helper()
	in := calculation.SimulationInput{
		Name:        "flat",
		Description: "fee-free reference",
		Parameters: domain.PlanParameters{
			BaseCredit:         d("120000"),
			TermMonths:         12,
			ContemplationMonth: 6,
			InstallmentRegime:  domain.RegimeFull,
			AgioPercent:        d("0.2"),
		},
	}
	if leverage {
		in.Leverage = &domain.LeverageInputs{
			PropertyValue:      d("50000"),
			Mode:               domain.RentalMonthlyRent,
			MonthlyRentPercent: d("0.01"),
		}
	}
	result, err := calculation.NewCalculationEngine().RunSimulation(context.Background(), in)
	require.NoError(t, err)
	return result
}

func TestFormatterFunc(t *testing.T) {
	var received *domain.SimulationResult
	f := FormatterFunc{
		ID: "test-formatter",
		F: func(r *domain.SimulationResult) ([]byte, error) {
			received = r
			return []byte("test output"), nil
		},
	}

	result := buildTestResult(t, false)
	out, err := f.Format(result)

	require.NoError(t, err)
	assert.Equal(t, "test-formatter", f.Name())
	assert.Same(t, result, received)
	assert.Equal(t, []byte("test output"), out)
}

func TestFormatterRegistry(t *testing.T) {
	assert.Equal(t, []string{"console", "console-lite", "csv", "html", "json", "pdf", "xlsx"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "verbose")
	assert.Contains(t, AvailableFormatAliases(), "excel")

	for _, name := range AvailableFormatterNames() {
		f := GetFormatterByName(name)
		require.NotNil(t, f, name)
		assert.Equal(t, name, f.Name())
	}

	assert.Equal(t, "console", GetFormatterByName(" Verbose ").Name())
	assert.Equal(t, "xlsx", GetFormatterByName("excel").Name())
	assert.Nil(t, GetFormatterByName("non-existent"))

	assert.True(t, IsBinaryFormat("pdf"))
	assert.True(t, IsBinaryFormat("excel"))
	assert.False(t, IsBinaryFormat("csv"))
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, buildTestResult(t, false), "json"))
	assert.True(t, json.Valid(buf.Bytes()))

	buf.Reset()
	require.NoError(t, WriteReport(&buf, buildTestResult(t, false), "excel"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "xlsx is a zip archive")

	err := WriteReport(&buf, buildTestResult(t, false), "docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: docx")
}

func TestFormatCurrency(t *testing.T) {
	tests := map[string]string{
		"0":           "R$ 0,00",
		"100":         "R$ 100,00",
		"1234.56":     "R$ 1.234,56",
		"-1500":       "-R$ 1.500,00",
		"123456":      "R$ 123.456,00",
		"1234567.891": "R$ 1.234.567,89",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCurrency(d(in)), in)
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "27,50%", FormatPercentage(d("0.275")))
	assert.Equal(t, "-74,50%", FormatPercentage(d("-0.745")))
	assert.Equal(t, "0,00%", FormatPercentage(decimal.Zero))
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestResult(t, true))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "CONSÓRCIO SIMULATION SUMMARY")
	assert.Contains(t, content, "Simulation: flat")
	assert.Contains(t, content, "R$ 10.000,00")
	assert.Contains(t, content, "CAPITAL GAIN AT MONTH 6 (ágio 20,00%)")
	assert.Contains(t, content, "-60,00%")
	assert.Contains(t, content, "PATRIMONIAL LEVERAGE AT MONTH 6")
	assert.NotContains(t, content, "MONTHLY SCHEDULE")
}

func TestConsoleVerboseFormatter(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestResult(t, false))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "CONSÓRCIO PROJECTION: flat")
	assert.Contains(t, content, "KEY ASSUMPTIONS:")
	assert.Contains(t, content, "PLAN PARAMETERS")
	assert.Contains(t, content, "Embedded bid:                    disabled")
	assert.Contains(t, content, "MONTHLY SCHEDULE")
	assert.Equal(t, 1, strings.Count(content, "← contemplation"))
	assert.NotContains(t, content, "PATRIMONIAL LEVERAGE")
}

func TestCSVScheduleFormatter(t *testing.T) {
	out, err := CSVScheduleFormatter{}.Format(buildTestResult(t, false))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 13)
	assert.Equal(t, "Month", records[0][0])
	assert.Equal(t, []string{"1", "pre_contemplation", "120000.00"}, records[1][:3])
	assert.Equal(t, "true", records[6][8])
	assert.Equal(t, "first_post_month", records[7][1])
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestResult(t, false))
	require.NoError(t, err)

	var decoded domain.SimulationResult
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "flat", decoded.Name)
	assert.Len(t, decoded.Rows, 12)
	assert.True(t, d("-0.6").Equal(decoded.CapitalGain.ROI))
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestResult(t, true))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<title>Consórcio Projection: flat</title>")
	assert.Contains(t, content, `class="contemplation"`)
	assert.Contains(t, content, "Patrimonial leverage at month 6")
	assert.Contains(t, content, "value negative")
	assert.Equal(t, 12, strings.Count(content, "<tr><td>")+strings.Count(content, `<tr class="contemplation"><td>`))
}

func TestXLSXFormatter(t *testing.T) {
	out, err := XLSXFormatter{}.Format(buildTestResult(t, true))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"summary", "schedule"}, f.GetSheetList())

	title, err := f.GetCellValue("summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Consórcio Projection", title)

	rows, err := f.GetRows("schedule")
	require.NoError(t, err)
	require.Len(t, rows, 13)
	assert.Equal(t, "Month", rows[0][0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "pre_contemplation", rows[1][1])
}

func TestPDFFormatter(t *testing.T) {
	out, err := PDFFormatter{}.Format(buildTestResult(t, true))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFormatLeverageProjection(t *testing.T) {
	result := buildTestResult(t, true)
	months, err := calculation.LeverageProjection(result.Rows, domain.LeverageInputs{
		PropertyValue:      d("50000"),
		Mode:               domain.RentalMonthlyRent,
		MonthlyRentPercent: d("0.01"),
	})
	require.NoError(t, err)

	out := FormatLeverageProjection(*result.Leverage, months)
	assert.Contains(t, out, "RENTAL CASH FLOW")
	assert.Contains(t, out, "Properties acquired:             2")
	assert.Contains(t, out, "stays negative")
}
