package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrMonthOutOfRange is returned when a metric targets a month outside the schedule
var ErrMonthOutOfRange = errors.New("month outside schedule")

// CapitalGainAt estimates the resale of the quota at targetMonth: the ágio
// earned on the accessed credit against everything paid up to that month.
func CapitalGainAt(rows []domain.MonthlyRow, targetMonth int, agioPercent decimal.Decimal) (domain.CapitalGain, error) {
	row, err := rowAt(rows, targetMonth)
	if err != nil {
		return domain.CapitalGain{}, err
	}

	paid := PaidThrough(rows, targetMonth)
	agio := row.AccessedCredit.Mul(agioPercent)
	profit := agio.Sub(paid)

	gain := domain.CapitalGain{
		Month:          targetMonth,
		AgioPercent:    agioPercent,
		AccessedCredit: row.AccessedCredit,
		Agio:           agio,
		PaidSoFar:      paid,
		Profit:         profit,
		ROI:            safeRatio(profit, paid),
	}
	gain.BreakEvenAgioPercent = safeRatio(paid, row.AccessedCredit)
	return gain, nil
}

// PaidThrough sums installments from month 1 through month (inclusive)
func PaidThrough(rows []domain.MonthlyRow, month int) decimal.Decimal {
	total := decimalZero
	for _, r := range rows {
		if r.Month > month {
			break
		}
		total = total.Add(r.InstallmentValue)
	}
	return total
}

// ContemplationMonthOf returns the month flagged as contemplation, or 0
func ContemplationMonthOf(rows []domain.MonthlyRow) int {
	for _, r := range rows {
		if r.IsContemplationMonth {
			return r.Month
		}
	}
	return 0
}

func rowAt(rows []domain.MonthlyRow, month int) (domain.MonthlyRow, error) {
	if month < 1 || month > len(rows) {
		return domain.MonthlyRow{}, fmt.Errorf("%w: %d not in [1, %d]", ErrMonthOutOfRange, month, len(rows))
	}
	row := rows[month-1]
	if row.Month != month {
		return domain.MonthlyRow{}, fmt.Errorf("schedule rows out of order: index %d holds month %d", month-1, row.Month)
	}
	return row, nil
}

// safeRatio divides a by b, returning zero when b is zero
func safeRatio(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimalZero
	}
	return a.Div(b)
}
