package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// InstallmentRegime selects how pre-contemplation installments are computed
type InstallmentRegime string

const (
	RegimeFull    InstallmentRegime = "full"
	RegimeSpecial InstallmentRegime = "special"
)

// ReductionTarget names an installment component a special regime may reduce
type ReductionTarget string

const (
	ReduceInstallment ReductionTarget = "installment"
	ReduceAdminTax    ReductionTarget = "admin_tax"
	ReduceReserveFund ReductionTarget = "reserve_fund"
)

// ValidReductionTargets lists every component a reduction can apply to
var ValidReductionTargets = []ReductionTarget{ReduceInstallment, ReduceAdminTax, ReduceReserveFund}

// PlanParameters is the fully-populated input of a single projection run.
// Values are treated as immutable once constructed.
type PlanParameters struct {
	BaseCredit         decimal.Decimal `json:"base_credit" yaml:"base_credit"`
	TermMonths         int             `json:"term_months" yaml:"term_months"`
	ContemplationMonth int             `json:"contemplation_month" yaml:"contemplation_month"`

	AdministrationRate              decimal.Decimal `json:"administration_rate" yaml:"administration_rate"`
	ReserveFundRate                 decimal.Decimal `json:"reserve_fund_rate" yaml:"reserve_fund_rate"`
	AnnualUpdateRate                decimal.Decimal `json:"annual_update_rate" yaml:"annual_update_rate"`
	PostContemplationAdjustmentRate decimal.Decimal `json:"post_contemplation_adjustment_rate" yaml:"post_contemplation_adjustment_rate"`

	EmbeddedBidEnabled    bool            `json:"embedded_bid_enabled" yaml:"embedded_bid_enabled"`
	MaxEmbeddedPercentage decimal.Decimal `json:"max_embedded_percentage" yaml:"max_embedded_percentage"`

	InstallmentRegime InstallmentRegime `json:"installment_regime" yaml:"installment_regime"`
	ReductionPercent  decimal.Decimal   `json:"reduction_percent" yaml:"reduction_percent"`
	AppliesTo         []ReductionTarget `json:"applies_to,omitempty" yaml:"applies_to,omitempty"`

	AgioPercent decimal.Decimal `json:"agio_percent" yaml:"agio_percent"`
}

// ReductionApplies reports whether the special regime reduces the given component.
// A special regime with no listed components reduces the installment principal only.
func (p PlanParameters) ReductionApplies(target ReductionTarget) bool {
	if p.InstallmentRegime != RegimeSpecial {
		return false
	}
	if len(p.AppliesTo) == 0 {
		return target == ReduceInstallment
	}
	for _, t := range p.AppliesTo {
		if t == target {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with p
func (p PlanParameters) Clone() PlanParameters {
	c := p
	if p.AppliesTo != nil {
		c.AppliesTo = append([]ReductionTarget(nil), p.AppliesTo...)
	}
	return c
}

// Validate checks the parameters before a projection. The returned error is a
// *ValidationError and matches ErrInvalidParameters.
func (p PlanParameters) Validate() error {
	if p.TermMonths <= 0 {
		return invalid("term_months", "must be positive, got %d", p.TermMonths)
	}
	if p.ContemplationMonth < 1 || p.ContemplationMonth > p.TermMonths {
		return invalid("contemplation_month", "must be between 1 and %d, got %d", p.TermMonths, p.ContemplationMonth)
	}
	if p.BaseCredit.IsNegative() {
		return invalid("base_credit", "cannot be negative")
	}

	one := decimal.NewFromInt(1)
	rates := []struct {
		field string
		value decimal.Decimal
		below decimal.Decimal // exclusive upper bound, zero means unbounded
		upTo  decimal.Decimal // inclusive upper bound, zero means unbounded
	}{
		{field: "administration_rate", value: p.AdministrationRate, below: one},
		{field: "reserve_fund_rate", value: p.ReserveFundRate, below: one},
		{field: "annual_update_rate", value: p.AnnualUpdateRate},
		{field: "post_contemplation_adjustment_rate", value: p.PostContemplationAdjustmentRate},
		{field: "max_embedded_percentage", value: p.MaxEmbeddedPercentage, upTo: one},
		{field: "reduction_percent", value: p.ReductionPercent, upTo: one},
		{field: "agio_percent", value: p.AgioPercent},
	}
	for _, r := range rates {
		if r.value.IsNegative() {
			return invalid(r.field, "cannot be negative")
		}
		if !r.below.IsZero() && r.value.GreaterThanOrEqual(r.below) {
			return invalid(r.field, "must be below %s, got %s", r.below, r.value)
		}
		if !r.upTo.IsZero() && r.value.GreaterThan(r.upTo) {
			return invalid(r.field, "must not exceed %s, got %s", r.upTo, r.value)
		}
	}

	switch p.InstallmentRegime {
	case RegimeFull, "":
	case RegimeSpecial:
		for _, t := range p.AppliesTo {
			if !isReductionTarget(t) {
				return invalid("applies_to", "unknown component %q", t)
			}
		}
	default:
		return invalid("installment_regime", "must be %q or %q, got %q", RegimeFull, RegimeSpecial, p.InstallmentRegime)
	}

	return nil
}

func isReductionTarget(t ReductionTarget) bool {
	for _, v := range ValidReductionTargets {
		if v == t {
			return true
		}
	}
	return false
}

// ParseReductionTargets parses a comma-separated list such as "installment,admin_tax"
func ParseReductionTargets(s string) ([]ReductionTarget, error) {
	seen := map[ReductionTarget]bool{}
	for _, part := range strings.Split(s, ",") {
		t := ReductionTarget(strings.TrimSpace(strings.ToLower(part)))
		if t == "" {
			continue
		}
		if !isReductionTarget(t) {
			return nil, invalid("applies_to", "unknown component %q", t)
		}
		seen[t] = true
	}
	targets := make([]ReductionTarget, 0, len(seen))
	for t := range seen {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets, nil
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
