package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXFormatter renders a workbook with a summary sheet and a schedule sheet
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	scheduleSheet := "schedule"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(scheduleSheet); err != nil {
		return nil, err
	}

	s := result.Summary
	g := result.CapitalGain
	summary := [][2]any{
		{"Simulation", result.Name},
		{"Base credit", result.Parameters.BaseCredit.InexactFloat64()},
		{"Term (months)", result.Parameters.TermMonths},
		{"Contemplation month", result.Parameters.ContemplationMonth},
		{"First installment", s.FirstInstallment.InexactFloat64()},
		{"Installment after contemplation", s.PostContemplationInstallment.InexactFloat64()},
		{"Accessed credit", s.AccessedAtContemplation.InexactFloat64()},
		{"Total paid", s.TotalPaid.InexactFloat64()},
		{"Administration cost", s.AdministrationCost.InexactFloat64()},
		{"Ágio", g.Agio.InexactFloat64()},
		{"Paid at contemplation", g.PaidSoFar.InexactFloat64()},
		{"Profit", g.Profit.InexactFloat64()},
		{"ROI", g.ROI.InexactFloat64()},
	}
	if l := result.Leverage; l != nil {
		summary = append(summary,
			[2]any{"Properties acquired", l.PropertyCount},
			[2]any{"Acquired patrimony", l.AcquiredPatrimony.InexactFloat64()},
			[2]any{"Monthly rental gain", l.MonthlyGain.InexactFloat64()},
			[2]any{"Monthly cash flow", l.CashFlow.InexactFloat64()},
		)
	}

	_ = f.SetCellValue(summarySheet, "A1", "Consórcio Projection")
	for i, kv := range summary {
		row := i + 3
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), kv[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), kv[1])
	}

	header := []string{"Month", "Phase", "Credit", "Accessed", "Admin Tax", "Reserve Fund", "Installment", "Balance", "Contemplation"}
	if err := f.SetSheetRow(scheduleSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range result.Rows {
		values := []any{
			r.Month,
			string(r.Phase),
			r.CreditValue.InexactFloat64(),
			r.AccessedCredit.InexactFloat64(),
			r.AdministrationTax.InexactFloat64(),
			r.ReserveFund.InexactFloat64(),
			r.InstallmentValue.InexactFloat64(),
			r.OutstandingBalance.InexactFloat64(),
			r.IsContemplationMonth,
		}
		if err := f.SetSheetRow(scheduleSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDFFormatter renders a printable summary followed by the schedule table
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, tr(fmt.Sprintf("Consórcio Projection: %s", result.Name)))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)

	s := result.Summary
	g := result.CapitalGain
	lines := []string{
		fmt.Sprintf("Base credit: %s", FormatCurrency(result.Parameters.BaseCredit)),
		fmt.Sprintf("Term: %d months, contemplation at month %d", result.Parameters.TermMonths, result.Parameters.ContemplationMonth),
		fmt.Sprintf("First installment: %s", FormatCurrency(s.FirstInstallment)),
		fmt.Sprintf("Installment after contemplation: %s", FormatCurrency(s.PostContemplationInstallment)),
		fmt.Sprintf("Accessed credit: %s", FormatCurrency(s.AccessedAtContemplation)),
		fmt.Sprintf("Total paid: %s", FormatCurrency(s.TotalPaid)),
		fmt.Sprintf("Capital gain at month %d: profit %s, ROI %s", g.Month, FormatCurrency(g.Profit), FormatPercentage(g.ROI)),
	}
	if l := result.Leverage; l != nil {
		lines = append(lines, fmt.Sprintf("Leverage: %d properties, monthly cash flow %s", l.PropertyCount, FormatCurrency(l.CashFlow)))
	}
	for _, line := range lines {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	widths := []float64{14, 30, 30, 26, 22, 26, 34}
	headers := []string{"Month", "Credit", "Accessed", "Admin Tax", "Reserve", "Installment", "Balance"}
	pdf.SetFont("Arial", "B", 8)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	for _, r := range result.Rows {
		cells := []string{
			fmt.Sprintf("%d", r.Month),
			r.CreditValue.StringFixed(2),
			r.AccessedCredit.StringFixed(2),
			r.AdministrationTax.StringFixed(2),
			r.ReserveFund.StringFixed(2),
			r.InstallmentValue.StringFixed(2),
			r.OutstandingBalance.StringFixed(2),
		}
		fill := r.IsContemplationMonth
		pdf.SetFillColor(254, 252, 191)
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 5, c, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
