package domain

import (
	"github.com/shopspring/decimal"
)

// InstallmentPhase names the installment state that produced a row
type InstallmentPhase string

const (
	PhasePreContemplation InstallmentPhase = "pre_contemplation"
	PhaseFirstPostMonth   InstallmentPhase = "first_post_month"
	PhaseSteadyPost       InstallmentPhase = "steady_post"
	PhaseAnnualUpdatePost InstallmentPhase = "annual_update_post"
)

// MonthlyRow is one month of a projected schedule. Rows are never mutated after generation.
type MonthlyRow struct {
	Month                int              `json:"month"`
	CreditValue          decimal.Decimal  `json:"credit_value"`
	AccessedCredit       decimal.Decimal  `json:"accessed_credit"`
	AdministrationTax    decimal.Decimal  `json:"administration_tax"`
	ReserveFund          decimal.Decimal  `json:"reserve_fund"`
	InstallmentValue     decimal.Decimal  `json:"installment_value"`
	OutstandingBalance   decimal.Decimal  `json:"outstanding_balance"`
	IsContemplationMonth bool             `json:"is_contemplation_month"`
	Phase                InstallmentPhase `json:"phase"`
}

// ScheduleSummary condenses a schedule into the figures the summary cards show
type ScheduleSummary struct {
	FirstInstallment             decimal.Decimal `json:"first_installment"`
	PostContemplationInstallment decimal.Decimal `json:"post_contemplation_installment"`
	MaxInstallment               decimal.Decimal `json:"max_installment"`
	TotalPaid                    decimal.Decimal `json:"total_paid"`
	AdministrationCost           decimal.Decimal `json:"administration_cost"`
	CreditAtContemplation        decimal.Decimal `json:"credit_at_contemplation"`
	AccessedAtContemplation      decimal.Decimal `json:"accessed_at_contemplation"`
	EmbeddedBidValue             decimal.Decimal `json:"embedded_bid_value"`
	FinalCredit                  decimal.Decimal `json:"final_credit"`
	FinalBalance                 decimal.Decimal `json:"final_balance"`
	ContemplationMonth           int             `json:"contemplation_month"`
	TermMonths                   int             `json:"term_months"`
}

// SimulationResult bundles a projection with its derived metrics
type SimulationResult struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Parameters  PlanParameters   `json:"parameters"`
	Rows        []MonthlyRow     `json:"rows"`
	Summary     ScheduleSummary  `json:"summary"`
	CapitalGain CapitalGain      `json:"capital_gain"`
	Leverage    *LeverageMetrics `json:"leverage,omitempty"`
}

// ContemplationRow returns the row flagged as the contemplation month
func (r *SimulationResult) ContemplationRow() (MonthlyRow, bool) {
	for _, row := range r.Rows {
		if row.IsContemplationMonth {
			return row, true
		}
	}
	return MonthlyRow{}, false
}

// LastRow returns the final month of the schedule
func (r *SimulationResult) LastRow() (MonthlyRow, bool) {
	if len(r.Rows) == 0 {
		return MonthlyRow{}, false
	}
	return r.Rows[len(r.Rows)-1], true
}
