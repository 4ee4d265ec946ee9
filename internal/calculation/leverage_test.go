package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leverageRows() []domain.MonthlyRow {
	return []domain.MonthlyRow{
		{Month: 1, CreditValue: d("1000000"), AccessedCredit: d("1000000"), InstallmentValue: d("5000"), IsContemplationMonth: true},
		{Month: 2, CreditValue: d("1000000"), AccessedCredit: d("1000000"), InstallmentValue: d("6000")},
		{Month: 3, CreditValue: d("1000000"), AccessedCredit: d("1000000"), InstallmentValue: d("6000")},
	}
}

func shortStay() domain.LeverageInputs {
	return domain.LeverageInputs{
		PropertyValue:     d("300000"),
		Mode:              domain.RentalShortStay,
		DailyRatePercent:  d("0.001"),
		OccupancyDays:     d("20"),
		ExpensesPercent:   d("0.002"),
		ManagementPercent: d("0.2"),
	}
}

func TestLeverageAt_ShortStay(t *testing.T) {
	lev, err := LeverageAt(leverageRows(), shortStay())
	require.NoError(t, err)

	assert.Equal(t, 1, lev.AcquisitionMonth)
	assert.Equal(t, int64(3), lev.PropertyCount)
	assert.True(t, d("900000").Equal(lev.AcquiredPatrimony))
	assert.True(t, d("18000").Equal(lev.GrossIncome), "gross %s", lev.GrossIncome)
	assert.True(t, d("1800").Equal(lev.Expenses))
	assert.True(t, d("3600").Equal(lev.ManagementFee))
	assert.True(t, d("12600").Equal(lev.MonthlyGain))
	assert.True(t, d("5000").Equal(lev.CurrentInstallment))
	assert.True(t, d("7600").Equal(lev.CashFlow))
}

func TestLeverageAt_MonthlyRent(t *testing.T) {
	in := shortStay()
	in.Mode = domain.RentalMonthlyRent
	in.MonthlyRentPercent = d("0.005")
	in.AcquisitionMonth = 2

	lev, err := LeverageAt(leverageRows(), in)
	require.NoError(t, err)

	assert.Equal(t, 2, lev.AcquisitionMonth)
	assert.True(t, d("4500").Equal(lev.GrossIncome))
	// 4500 - 1800 - 900
	assert.True(t, d("1800").Equal(lev.MonthlyGain))
	assert.True(t, d("-4200").Equal(lev.CashFlow))
}

func TestLeverageAt_PropertyTooExpensive(t *testing.T) {
	in := shortStay()
	in.PropertyValue = d("2000000")

	lev, err := LeverageAt(leverageRows(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(0), lev.PropertyCount)
	assert.True(t, lev.MonthlyGain.IsZero())
	assert.True(t, d("-5000").Equal(lev.CashFlow))
}

func TestLeverageAt_Errors(t *testing.T) {
	in := shortStay()
	in.PropertyValue = d("0")
	_, err := LeverageAt(leverageRows(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameters))

	in = shortStay()
	in.Mode = "timeshare"
	_, err = LeverageAt(leverageRows(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameters))

	negatives := map[string]func(*domain.LeverageInputs){
		"occupancy_days":     func(l *domain.LeverageInputs) { l.OccupancyDays = d("-20") },
		"expenses_percent":   func(l *domain.LeverageInputs) { l.ExpensesPercent = d("-0.5") },
		"management_percent": func(l *domain.LeverageInputs) { l.ManagementPercent = d("-1") },
	}
	for field, mutate := range negatives {
		in = shortStay()
		mutate(&in)
		_, err = LeverageAt(leverageRows(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidParameters, field)
		assert.ErrorContains(t, err, field+" cannot be negative")

		_, err = LeverageProjection(leverageRows(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidParameters, field)
	}

	in = shortStay()
	in.AcquisitionMonth = 9
	_, err = LeverageAt(leverageRows(), in)
	assert.True(t, errors.Is(err, ErrMonthOutOfRange))

	rows := leverageRows()
	rows[0].IsContemplationMonth = false
	_, err = LeverageAt(rows, shortStay())
	assert.True(t, errors.Is(err, ErrMonthOutOfRange))
}

func TestLeverageProjection(t *testing.T) {
	months, err := LeverageProjection(leverageRows(), shortStay())
	require.NoError(t, err)
	require.Len(t, months, 3)

	assert.True(t, d("7600").Equal(months[0].CashFlow))
	assert.True(t, d("6600").Equal(months[1].CashFlow))
	assert.True(t, d("20800").Equal(months[2].CumulativeCashFlow))
	assert.Equal(t, 3, months[2].Month)
}
