package calculation

import (
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// LeverageAt models buying income-producing properties with the credit
// accessed at the acquisition month and renting them out.
func LeverageAt(rows []domain.MonthlyRow, in domain.LeverageInputs) (domain.LeverageMetrics, error) {
	if err := in.Validate(); err != nil {
		return domain.LeverageMetrics{}, err
	}
	month, err := acquisitionMonth(rows, in)
	if err != nil {
		return domain.LeverageMetrics{}, err
	}
	row, err := rowAt(rows, month)
	if err != nil {
		return domain.LeverageMetrics{}, err
	}
	count := row.AccessedCredit.Div(in.PropertyValue).Floor()
	patrimony := count.Mul(in.PropertyValue)

	gross, expenses, management, err := rentalIncome(patrimony, in)
	if err != nil {
		return domain.LeverageMetrics{}, err
	}
	gain := gross.Sub(expenses).Sub(management)

	return domain.LeverageMetrics{
		AcquisitionMonth:   month,
		AccessedCredit:     row.AccessedCredit,
		PropertyCount:      count.IntPart(),
		AcquiredPatrimony:  patrimony,
		GrossIncome:        gross,
		Expenses:           expenses,
		ManagementFee:      management,
		MonthlyGain:        gain,
		CurrentInstallment: row.InstallmentValue,
		CashFlow:           gain.Sub(row.InstallmentValue),
	}, nil
}

// LeverageProjection follows the rental cash flow from the acquisition month
// to the end of the term against each month's installment.
func LeverageProjection(rows []domain.MonthlyRow, in domain.LeverageInputs) ([]domain.LeverageMonth, error) {
	start, err := LeverageAt(rows, in)
	if err != nil {
		return nil, err
	}

	months := make([]domain.LeverageMonth, 0, len(rows)-start.AcquisitionMonth+1)
	cumulative := decimalZero
	for _, r := range rows[start.AcquisitionMonth-1:] {
		cash := start.MonthlyGain.Sub(r.InstallmentValue)
		cumulative = cumulative.Add(cash)
		months = append(months, domain.LeverageMonth{
			Month:              r.Month,
			MonthlyGain:        start.MonthlyGain,
			Installment:        r.InstallmentValue,
			CashFlow:           cash,
			CumulativeCashFlow: cumulative,
		})
	}
	return months, nil
}

func acquisitionMonth(rows []domain.MonthlyRow, in domain.LeverageInputs) (int, error) {
	if in.AcquisitionMonth != 0 {
		return in.AcquisitionMonth, nil
	}
	if m := ContemplationMonthOf(rows); m != 0 {
		return m, nil
	}
	return 0, fmt.Errorf("%w: schedule has no contemplation month", ErrMonthOutOfRange)
}

// rentalIncome splits the monthly rental result of the acquired patrimony
// into gross income, upkeep expenses and the manager's cut of the gross.
func rentalIncome(patrimony decimal.Decimal, in domain.LeverageInputs) (gross, expenses, management decimal.Decimal, err error) {
	switch in.Mode {
	case domain.RentalShortStay, "":
		gross = patrimony.Mul(in.DailyRatePercent).Mul(in.OccupancyDays)
	case domain.RentalMonthlyRent:
		gross = patrimony.Mul(in.MonthlyRentPercent)
	default:
		return decimalZero, decimalZero, decimalZero, fmt.Errorf("%w: unknown rental mode %q", domain.ErrInvalidParameters, in.Mode)
	}
	expenses = patrimony.Mul(in.ExpensesPercent)
	management = gross.Mul(in.ManagementPercent)
	return gross, expenses, management, nil
}
