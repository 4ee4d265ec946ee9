/*
dto.go - request and response bodies of the HTTP API

Requests carry a fully-populated plan; the API applies no defaults of its own.
Money and ratios travel as decimal strings to avoid float rounding.
*/
package api

import (
	"github.com/rgehrsitz/consorcio/internal/breakeven"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionRequest is the body of POST /api/projections
type ProjectionRequest struct {
	Name        string                `json:"name,omitempty"`
	Description string                `json:"description,omitempty"`
	Plan        domain.PlanParameters `json:"plan"`
	// Variants are template names or transform specs applied in order before projecting.
	Variants []string `json:"variants,omitempty"`
}

// CapitalGainRequest is the body of POST /api/capital-gain
type CapitalGainRequest struct {
	Plan        domain.PlanParameters `json:"plan"`
	TargetMonth int                   `json:"target_month"`
	// AgioPercent overrides the plan's ágio when set.
	AgioPercent *decimal.Decimal `json:"agio_percent,omitempty"`
}

// LeverageRequest is the body of POST /api/leverage
type LeverageRequest struct {
	Plan     domain.PlanParameters `json:"plan"`
	Leverage domain.LeverageInputs `json:"leverage"`
}

// LeverageResponse pairs the acquisition snapshot with the monthly cash flow
type LeverageResponse struct {
	Metrics domain.LeverageMetrics `json:"metrics"`
	Months  []domain.LeverageMonth `json:"months"`
}

// SensitivityRequest is the body of POST /api/sensitivity
type SensitivityRequest struct {
	Name       string                        `json:"name,omitempty"`
	Plan       domain.PlanParameters         `json:"plan"`
	Parameters []domain.SensitivityParameter `json:"parameters"`
}

// CompareRequest is the body of POST /api/compare
type CompareRequest struct {
	Name string                `json:"name,omitempty"`
	Plan domain.PlanParameters `json:"plan"`
	With []string              `json:"with"`
}

// OptimizeRequest is the body of POST /api/optimize.
// Unset constraints leave the whole range open.
type OptimizeRequest struct {
	Name        string                       `json:"name,omitempty"`
	Plan        domain.PlanParameters        `json:"plan"`
	Target      breakeven.OptimizationTarget `json:"target"`
	Goal        breakeven.OptimizationGoal   `json:"goal"`
	Constraints breakeven.Constraints        `json:"constraints"`
}

// SimulationDTO lists a simulation of the loaded configuration
type SimulationDTO struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Administrator   string `json:"administrator"`
	Product         string `json:"product"`
	InstallmentType string `json:"installment_type,omitempty"`
}

// TemplateDTO describes a built-in comparison template
type TemplateDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
