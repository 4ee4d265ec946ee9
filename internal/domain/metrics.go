package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CapitalGain is the resale scenario of a contemplated quota at a target month
type CapitalGain struct {
	Month                int             `json:"month"`
	AgioPercent          decimal.Decimal `json:"agio_percent"`
	AccessedCredit       decimal.Decimal `json:"accessed_credit"`
	Agio                 decimal.Decimal `json:"agio"`
	PaidSoFar            decimal.Decimal `json:"paid_so_far"`
	Profit               decimal.Decimal `json:"profit"`
	ROI                  decimal.Decimal `json:"roi"`
	BreakEvenAgioPercent decimal.Decimal `json:"break_even_agio_percent"`
}

// RentalMode selects how acquired properties generate income
type RentalMode string

const (
	RentalShortStay   RentalMode = "short_stay"
	RentalMonthlyRent RentalMode = "monthly_rent"
)

// LeverageInputs describes properties bought with the accessed credit
type LeverageInputs struct {
	// AcquisitionMonth defaults to the contemplation month when zero.
	AcquisitionMonth int             `json:"acquisition_month,omitempty" yaml:"acquisition_month,omitempty" toml:"acquisition_month,omitempty"`
	PropertyValue    decimal.Decimal `json:"property_value" yaml:"property_value" toml:"property_value"`
	Mode             RentalMode      `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`

	DailyRatePercent   decimal.Decimal `json:"daily_rate_percent" yaml:"daily_rate_percent" toml:"daily_rate_percent"`
	OccupancyDays      decimal.Decimal `json:"occupancy_days" yaml:"occupancy_days" toml:"occupancy_days"`
	MonthlyRentPercent decimal.Decimal `json:"monthly_rent_percent" yaml:"monthly_rent_percent" toml:"monthly_rent_percent"`
	ExpensesPercent    decimal.Decimal `json:"expenses_percent" yaml:"expenses_percent" toml:"expenses_percent"`
	ManagementPercent  decimal.Decimal `json:"management_percent" yaml:"management_percent" toml:"management_percent"`
}

// Validate rejects a non-positive property value, an unknown rental mode
// and negative rates.
func (l LeverageInputs) Validate() error {
	if !l.PropertyValue.IsPositive() {
		return fmt.Errorf("%w: property value must be positive", ErrInvalidParameters)
	}
	switch l.Mode {
	case RentalShortStay, RentalMonthlyRent, "":
	default:
		return fmt.Errorf("%w: unknown rental mode %q", ErrInvalidParameters, l.Mode)
	}
	rates := []struct {
		name  string
		value decimal.Decimal
	}{
		{"daily_rate_percent", l.DailyRatePercent},
		{"occupancy_days", l.OccupancyDays},
		{"monthly_rent_percent", l.MonthlyRentPercent},
		{"expenses_percent", l.ExpensesPercent},
		{"management_percent", l.ManagementPercent},
	}
	for _, r := range rates {
		if r.value.IsNegative() {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidParameters, r.name)
		}
	}
	return nil
}

// LeverageMetrics is the patrimonial leverage outcome at the acquisition month
type LeverageMetrics struct {
	AcquisitionMonth   int             `json:"acquisition_month"`
	AccessedCredit     decimal.Decimal `json:"accessed_credit"`
	PropertyCount      int64           `json:"property_count"`
	AcquiredPatrimony  decimal.Decimal `json:"acquired_patrimony"`
	GrossIncome        decimal.Decimal `json:"gross_income"`
	Expenses           decimal.Decimal `json:"expenses"`
	ManagementFee      decimal.Decimal `json:"management_fee"`
	MonthlyGain        decimal.Decimal `json:"monthly_gain"`
	CurrentInstallment decimal.Decimal `json:"current_installment"`
	CashFlow           decimal.Decimal `json:"cash_flow"`
}

// LeverageMonth is one month of rental cash flow after acquisition
type LeverageMonth struct {
	Month              int             `json:"month"`
	MonthlyGain        decimal.Decimal `json:"monthly_gain"`
	Installment        decimal.Decimal `json:"installment"`
	CashFlow           decimal.Decimal `json:"cash_flow"`
	CumulativeCashFlow decimal.Decimal `json:"cumulative_cash_flow"`
}
