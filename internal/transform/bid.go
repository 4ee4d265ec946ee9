package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// EnableEmbeddedBid turns on the embedded bid. A zero Percentage keeps the plan's maximum.
type EnableEmbeddedBid struct {
	Percentage decimal.Decimal
}

func (t *EnableEmbeddedBid) Name() string {
	return "embedded_bid"
}

func (t *EnableEmbeddedBid) Description() string {
	if t.Percentage.IsZero() {
		return "Use the maximum embedded bid"
	}
	return fmt.Sprintf("Embed a %s%% bid in the credit", t.Percentage.Mul(decimal.NewFromInt(100)).StringFixed(0))
}

func (t *EnableEmbeddedBid) Validate(base domain.PlanParameters) error {
	if t.Percentage.IsNegative() || t.Percentage.GreaterThan(decimal.NewFromInt(1)) {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("percentage must be between 0 and 1, got %s", t.Percentage), domain.ErrInvalidParameters)
	}
	return nil
}

func (t *EnableEmbeddedBid) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	modified.EmbeddedBidEnabled = true
	if !t.Percentage.IsZero() {
		modified.MaxEmbeddedPercentage = t.Percentage
	}
	return modified, nil
}

// DisableEmbeddedBid turns the embedded bid off.
type DisableEmbeddedBid struct{}

func (t *DisableEmbeddedBid) Name() string {
	return "no_embedded_bid"
}

func (t *DisableEmbeddedBid) Description() string {
	return "Contemplate without an embedded bid"
}

func (t *DisableEmbeddedBid) Validate(base domain.PlanParameters) error {
	return nil
}

func (t *DisableEmbeddedBid) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	modified.EmbeddedBidEnabled = false
	return modified, nil
}

// SpecialRegime reduces the pre-contemplation installment.
type SpecialRegime struct {
	ReductionPercent decimal.Decimal
	AppliesTo        []domain.ReductionTarget
}

func (t *SpecialRegime) Name() string {
	return "special_regime"
}

func (t *SpecialRegime) Description() string {
	targets := "installment"
	if len(t.AppliesTo) > 0 {
		parts := make([]string, len(t.AppliesTo))
		for i, a := range t.AppliesTo {
			parts[i] = string(a)
		}
		targets = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Reduce %s by %s%% until contemplation", targets, t.ReductionPercent.Mul(decimal.NewFromInt(100)).StringFixed(0))
}

func (t *SpecialRegime) Validate(base domain.PlanParameters) error {
	if !t.ReductionPercent.IsPositive() || t.ReductionPercent.GreaterThan(decimal.NewFromInt(1)) {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("reduction must be in (0, 1], got %s", t.ReductionPercent), domain.ErrInvalidParameters)
	}
	for _, a := range t.AppliesTo {
		if _, err := domain.ParseReductionTargets(string(a)); err != nil {
			return NewTransformError(t.Name(), "validate", "invalid component", err)
		}
	}
	return nil
}

func (t *SpecialRegime) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	modified.InstallmentRegime = domain.RegimeSpecial
	modified.ReductionPercent = t.ReductionPercent
	modified.AppliesTo = append([]domain.ReductionTarget(nil), t.AppliesTo...)
	return modified, nil
}

// FullRegime restores full installments.
type FullRegime struct{}

func (t *FullRegime) Name() string {
	return "full_regime"
}

func (t *FullRegime) Description() string {
	return "Pay full installments"
}

func (t *FullRegime) Validate(base domain.PlanParameters) error {
	return nil
}

func (t *FullRegime) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	modified.InstallmentRegime = domain.RegimeFull
	modified.ReductionPercent = decimal.Zero
	modified.AppliesTo = nil
	return modified, nil
}
