package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"min_value"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"max_value"`
	Steps       int             `yaml:"steps" json:"steps"`
	Unit        string          `yaml:"unit,omitempty" json:"unit,omitempty"` // "percent", "months"
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// ParameterSensitivityAnalysis represents a complete parameter sensitivity analysis
type ParameterSensitivityAnalysis struct {
	BaseName   string                 `json:"base_name"`
	Parameters []SensitivityParameter `json:"parameters"`
	Results    []SensitivityResult    `json:"results"`
	Summary    SensitivitySummary     `json:"summary"`
}

// SensitivityResult is the outcome of one projection in a sweep
type SensitivityResult struct {
	Parameter string             `json:"parameter"`
	Value     decimal.Decimal    `json:"value"`
	Metrics   SensitivityMetrics `json:"metrics"`
}

// SensitivityMetrics are the figures compared across a sweep
type SensitivityMetrics struct {
	FirstInstallment             decimal.Decimal `json:"first_installment"`
	PostContemplationInstallment decimal.Decimal `json:"post_contemplation_installment"`
	AccessedAtContemplation      decimal.Decimal `json:"accessed_at_contemplation"`
	TotalPaid                    decimal.Decimal `json:"total_paid"`
	Profit                       decimal.Decimal `json:"profit"`
	ROI                          decimal.Decimal `json:"roi"`
}

// SensitivitySummary ranks parameters by how far they move the ROI
type SensitivitySummary struct {
	MostSensitiveParameter string                     `json:"most_sensitive_parameter"`
	ROISpread              map[string]decimal.Decimal `json:"roi_spread"`
	InstallmentSpread      map[string]decimal.Decimal `json:"installment_spread"`
}

// Sweepable parameter names
const (
	ParamAnnualUpdateRate                = "annual_update_rate"
	ParamPostContemplationAdjustmentRate = "post_contemplation_adjustment_rate"
	ParamAdministrationRate              = "administration_rate"
	ParamReserveFundRate                 = "reserve_fund_rate"
	ParamMaxEmbeddedPercentage           = "max_embedded_percentage"
	ParamAgioPercent                     = "agio_percent"
	ParamContemplationMonth              = "contemplation_month"
)

// Common sensitivity parameter sets
var (
	AnnualUpdateSensitivity = SensitivityParameter{
		Name:        ParamAnnualUpdateRate,
		MinValue:    decimal.NewFromFloat(0.03),
		MaxValue:    decimal.NewFromFloat(0.10),
		Steps:       8,
		Unit:        "percent",
		Description: "Annual credit update index (INCC/IPCA)",
	}

	AgioSensitivity = SensitivityParameter{
		Name:        ParamAgioPercent,
		MinValue:    decimal.NewFromFloat(0.05),
		MaxValue:    decimal.NewFromFloat(0.30),
		Steps:       6,
		Unit:        "percent",
		Description: "Resale premium on the accessed credit",
	}

	EmbeddedBidSensitivity = SensitivityParameter{
		Name:        ParamMaxEmbeddedPercentage,
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromFloat(0.30),
		Steps:       7,
		Unit:        "percent",
		Description: "Embedded bid share of the credit",
	}

	ContemplationSensitivity = SensitivityParameter{
		Name:        ParamContemplationMonth,
		MinValue:    decimal.NewFromInt(12),
		MaxValue:    decimal.NewFromInt(120),
		Steps:       10,
		Unit:        "months",
		Description: "Month the quota is contemplated",
	}
)
