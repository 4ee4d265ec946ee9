package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/domain"
)

// ConsoleFormatter renders the summary cards only
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "CONSÓRCIO SIMULATION SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintf(&buf, "Simulation: %s\n", result.Name)
	if result.Description != "" {
		fmt.Fprintf(&buf, "            %s\n", result.Description)
	}
	fmt.Fprintln(&buf)
	writeSummary(&buf, result)
	writeCapitalGain(&buf, result.CapitalGain)
	if result.Leverage != nil {
		writeLeverage(&buf, *result.Leverage)
	}
	return buf.Bytes(), nil
}

// ConsoleVerboseFormatter renders the full month-by-month schedule with its summary
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 110))
	fmt.Fprintf(&buf, "CONSÓRCIO PROJECTION: %s\n", result.Name)
	fmt.Fprintln(&buf, strings.Repeat("=", 110))
	if result.Description != "" {
		fmt.Fprintln(&buf, result.Description)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeParameters(&buf, result.Parameters)
	writeSummary(&buf, result)
	writeCapitalGain(&buf, result.CapitalGain)
	if result.Leverage != nil {
		writeLeverage(&buf, *result.Leverage)
	}
	writeSchedule(&buf, result.Rows)

	return buf.Bytes(), nil
}

func writeParameters(buf *bytes.Buffer, p domain.PlanParameters) {
	fmt.Fprintln(buf, "PLAN PARAMETERS")
	fmt.Fprintln(buf, strings.Repeat("-", 45))
	fmt.Fprintf(buf, "%-32s %s\n", "Base credit:", FormatCurrency(p.BaseCredit))
	fmt.Fprintf(buf, "%-32s %d months\n", "Term:", p.TermMonths)
	fmt.Fprintf(buf, "%-32s month %d\n", "Contemplation:", p.ContemplationMonth)
	fmt.Fprintf(buf, "%-32s %s\n", "Administration rate:", FormatPercentage(p.AdministrationRate))
	fmt.Fprintf(buf, "%-32s %s\n", "Reserve fund rate:", FormatPercentage(p.ReserveFundRate))
	fmt.Fprintf(buf, "%-32s %s\n", "Annual update rate:", FormatPercentage(p.AnnualUpdateRate))
	fmt.Fprintf(buf, "%-32s %s\n", "Post-contemplation adjustment:", FormatPercentage(p.PostContemplationAdjustmentRate))
	if p.EmbeddedBidEnabled {
		fmt.Fprintf(buf, "%-32s %s\n", "Embedded bid:", FormatPercentage(p.MaxEmbeddedPercentage))
	} else {
		fmt.Fprintf(buf, "%-32s %s\n", "Embedded bid:", "disabled")
	}
	if p.InstallmentRegime == domain.RegimeSpecial {
		targets := make([]string, 0, len(p.AppliesTo))
		for _, t := range p.AppliesTo {
			targets = append(targets, string(t))
		}
		if len(targets) == 0 {
			targets = append(targets, string(domain.ReduceInstallment))
		}
		fmt.Fprintf(buf, "%-32s special, %s off %s\n", "Installment regime:",
			FormatPercentage(p.ReductionPercent), strings.Join(targets, ", "))
	} else {
		fmt.Fprintf(buf, "%-32s %s\n", "Installment regime:", "full")
	}
	fmt.Fprintln(buf)
}

func writeSummary(buf *bytes.Buffer, result *domain.SimulationResult) {
	s := result.Summary
	fmt.Fprintln(buf, "SUMMARY")
	fmt.Fprintln(buf, strings.Repeat("-", 45))
	fmt.Fprintf(buf, "%-32s %s\n", "First installment:", FormatCurrency(s.FirstInstallment))
	fmt.Fprintf(buf, "%-32s %s\n", "Installment after contemplation:", FormatCurrency(s.PostContemplationInstallment))
	fmt.Fprintf(buf, "%-32s %s\n", "Highest installment:", FormatCurrency(s.MaxInstallment))
	fmt.Fprintf(buf, "%-32s %s\n", "Credit at contemplation:", FormatCurrency(s.CreditAtContemplation))
	fmt.Fprintf(buf, "%-32s %s\n", "Accessed credit:", FormatCurrency(s.AccessedAtContemplation))
	if !s.EmbeddedBidValue.IsZero() {
		fmt.Fprintf(buf, "%-32s %s\n", "Embedded bid value:", FormatCurrency(s.EmbeddedBidValue))
	}
	fmt.Fprintf(buf, "%-32s %s\n", "Administration cost:", FormatCurrency(s.AdministrationCost))
	fmt.Fprintf(buf, "%-32s %s\n", "Total paid:", FormatCurrency(s.TotalPaid))
	fmt.Fprintf(buf, "%-32s %s\n", "Final balance:", FormatCurrency(s.FinalBalance))
	fmt.Fprintln(buf)
}

func writeCapitalGain(buf *bytes.Buffer, g domain.CapitalGain) {
	fmt.Fprintf(buf, "CAPITAL GAIN AT MONTH %d (ágio %s)\n", g.Month, FormatPercentage(g.AgioPercent))
	fmt.Fprintln(buf, strings.Repeat("-", 45))
	fmt.Fprintf(buf, "%-32s %s\n", "Accessed credit:", FormatCurrency(g.AccessedCredit))
	fmt.Fprintf(buf, "%-32s %s\n", "Ágio:", FormatCurrency(g.Agio))
	fmt.Fprintf(buf, "%-32s %s\n", "Paid so far:", FormatCurrency(g.PaidSoFar))
	fmt.Fprintf(buf, "%-32s %s\n", "Profit:", FormatCurrency(g.Profit))
	fmt.Fprintf(buf, "%-32s %s\n", "ROI:", FormatPercentage(g.ROI))
	fmt.Fprintf(buf, "%-32s %s\n", "Break-even ágio:", FormatPercentage(g.BreakEvenAgioPercent))
	fmt.Fprintln(buf)
}

func writeLeverage(buf *bytes.Buffer, l domain.LeverageMetrics) {
	fmt.Fprintf(buf, "PATRIMONIAL LEVERAGE AT MONTH %d\n", l.AcquisitionMonth)
	fmt.Fprintln(buf, strings.Repeat("-", 45))
	fmt.Fprintf(buf, "%-32s %d\n", "Properties acquired:", l.PropertyCount)
	fmt.Fprintf(buf, "%-32s %s\n", "Acquired patrimony:", FormatCurrency(l.AcquiredPatrimony))
	fmt.Fprintf(buf, "%-32s %s\n", "Gross rental income:", FormatCurrency(l.GrossIncome))
	fmt.Fprintf(buf, "%-32s %s\n", "Expenses:", FormatCurrency(l.Expenses))
	fmt.Fprintf(buf, "%-32s %s\n", "Management fee:", FormatCurrency(l.ManagementFee))
	fmt.Fprintf(buf, "%-32s %s\n", "Monthly gain:", FormatCurrency(l.MonthlyGain))
	fmt.Fprintf(buf, "%-32s %s\n", "Installment:", FormatCurrency(l.CurrentInstallment))
	fmt.Fprintf(buf, "%-32s %s\n", "Monthly cash flow:", FormatCurrency(l.CashFlow))
	fmt.Fprintln(buf)
}

func writeSchedule(buf *bytes.Buffer, rows []domain.MonthlyRow) {
	fmt.Fprintln(buf, "MONTHLY SCHEDULE")
	fmt.Fprintln(buf, strings.Repeat("-", 110))
	fmt.Fprintf(buf, "%5s %16s %16s %14s %13s %14s %17s  %s\n",
		"Month", "Credit", "Accessed", "Admin Tax", "Reserve", "Installment", "Balance", "")
	for _, r := range rows {
		marker := ""
		if r.IsContemplationMonth {
			marker = "← contemplation"
		}
		fmt.Fprintf(buf, "%5d %16s %16s %14s %13s %14s %17s  %s\n",
			r.Month,
			FormatCurrency(r.CreditValue),
			FormatCurrency(r.AccessedCredit),
			FormatCurrency(r.AdministrationTax),
			FormatCurrency(r.ReserveFund),
			FormatCurrency(r.InstallmentValue),
			FormatCurrency(r.OutstandingBalance),
			marker)
	}
	fmt.Fprintln(buf)
}

// FormatLeverageProjection renders the month-by-month rental cash flow
func FormatLeverageProjection(metrics domain.LeverageMetrics, months []domain.LeverageMonth) string {
	var buf bytes.Buffer
	writeLeverage(&buf, metrics)

	fmt.Fprintln(&buf, "RENTAL CASH FLOW")
	fmt.Fprintln(&buf, strings.Repeat("-", 75))
	fmt.Fprintf(&buf, "%5s %16s %16s %16s %18s\n", "Month", "Gain", "Installment", "Cash Flow", "Cumulative")

	breakEven := 0
	for _, m := range months {
		fmt.Fprintf(&buf, "%5d %16s %16s %16s %18s\n",
			m.Month,
			FormatCurrency(m.MonthlyGain),
			FormatCurrency(m.Installment),
			FormatCurrency(m.CashFlow),
			FormatCurrency(m.CumulativeCashFlow))
		if breakEven == 0 && !m.CumulativeCashFlow.IsNegative() {
			breakEven = m.Month
		}
	}
	fmt.Fprintln(&buf)
	if breakEven > 0 {
		fmt.Fprintf(&buf, "Cumulative cash flow turns non-negative at month %d\n", breakEven)
	} else {
		fmt.Fprintln(&buf, "Cumulative cash flow stays negative through the term")
	}
	return buf.String()
}
