package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapitalGainAt_ResaleAtContemplation(t *testing.T) {
	rows := []domain.MonthlyRow{
		{Month: 1, CreditValue: d("300000"), AccessedCredit: d("300000"), InstallmentValue: d("100000")},
		{Month: 2, CreditValue: d("300000"), AccessedCredit: d("300000"), InstallmentValue: d("100000"), IsContemplationMonth: true},
		{Month: 3, CreditValue: d("300000"), AccessedCredit: d("300000"), InstallmentValue: d("100000")},
	}

	gain, err := CapitalGainAt(rows, 2, d("0.17"))
	require.NoError(t, err)

	assert.True(t, d("51000").Equal(gain.Agio), "agio %s", gain.Agio)
	assert.True(t, d("200000").Equal(gain.PaidSoFar), "paid %s", gain.PaidSoFar)
	assert.True(t, d("-149000").Equal(gain.Profit), "profit %s", gain.Profit)
	assert.True(t, d("-0.745").Equal(gain.ROI), "roi %s", gain.ROI)
	assert.Equal(t, "0.6667", gain.BreakEvenAgioPercent.StringFixed(4))
	assert.Equal(t, 2, gain.Month)
}

func TestCapitalGainAt_ZeroPaid(t *testing.T) {
	rows := []domain.MonthlyRow{
		{Month: 1, AccessedCredit: d("100000"), InstallmentValue: d("0")},
	}

	gain, err := CapitalGainAt(rows, 1, d("0.2"))
	require.NoError(t, err)
	assert.True(t, gain.ROI.IsZero())
	assert.True(t, d("20000").Equal(gain.Profit))
}

func TestCapitalGainAt_ZeroAccessed(t *testing.T) {
	rows := []domain.MonthlyRow{{Month: 1, InstallmentValue: d("10")}}

	gain, err := CapitalGainAt(rows, 1, d("0.2"))
	require.NoError(t, err)
	assert.True(t, gain.BreakEvenAgioPercent.IsZero())
}

func TestCapitalGainAt_MonthOutOfRange(t *testing.T) {
	rows, err := Project(flatPlan())
	require.NoError(t, err)

	for _, m := range []int{0, -1, 13} {
		_, err := CapitalGainAt(rows, m, d("0.17"))
		assert.True(t, errors.Is(err, ErrMonthOutOfRange), "month %d", m)
	}
}

func TestCapitalGainAt_ProjectedPlan(t *testing.T) {
	rows, err := Project(flatPlan())
	require.NoError(t, err)

	gain, err := CapitalGainAt(rows, 6, d("0.5"))
	require.NoError(t, err)

	assert.True(t, d("60000").Equal(gain.PaidSoFar))
	assert.True(t, d("60000").Equal(gain.Agio))
	assert.True(t, gain.Profit.IsZero())
	assert.True(t, gain.ROI.IsZero())
	assert.True(t, d("0.5").Equal(gain.BreakEvenAgioPercent))
}

func TestPaidThrough(t *testing.T) {
	rows, err := Project(flatPlan())
	require.NoError(t, err)

	assert.True(t, decimalZero.Equal(PaidThrough(rows, 0)))
	assert.True(t, d("30000").Equal(PaidThrough(rows, 3)))
	assert.True(t, d("120000").Equal(PaidThrough(rows, 12)))
	assert.True(t, d("120000").Equal(PaidThrough(rows, 99)))
}

func TestContemplationMonthOf(t *testing.T) {
	rows, err := Project(flatPlan())
	require.NoError(t, err)
	assert.Equal(t, 6, ContemplationMonthOf(rows))
	assert.Equal(t, 0, ContemplationMonthOf(nil))
}
