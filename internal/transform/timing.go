package transform

import (
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// SetContemplation moves the contemplation to a fixed month.
type SetContemplation struct {
	Month int
}

func (t *SetContemplation) Name() string {
	return "set_contemplation"
}

func (t *SetContemplation) Description() string {
	return fmt.Sprintf("Contemplate at month %d", t.Month)
}

func (t *SetContemplation) Validate(base domain.PlanParameters) error {
	if t.Month < 1 || t.Month > base.TermMonths {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("month must be between 1 and %d, got %d", base.TermMonths, t.Month), domain.ErrInvalidParameters)
	}
	return nil
}

func (t *SetContemplation) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	modified.ContemplationMonth = t.Month
	return modified, nil
}

// ShiftContemplation postpones (positive) or advances (negative) the contemplation.
type ShiftContemplation struct {
	Months int
}

func (t *ShiftContemplation) Name() string {
	return "shift_contemplation"
}

func (t *ShiftContemplation) Description() string {
	if t.Months < 0 {
		return fmt.Sprintf("Contemplate %d months earlier", -t.Months)
	}
	return fmt.Sprintf("Contemplate %d months later", t.Months)
}

func (t *ShiftContemplation) Validate(base domain.PlanParameters) error {
	month := base.ContemplationMonth + t.Months
	if month < 1 || month > base.TermMonths {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("shifted month %d falls outside the %d-month term", month, base.TermMonths), domain.ErrInvalidParameters)
	}
	return nil
}

func (t *ShiftContemplation) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	modified.ContemplationMonth += t.Months
	return modified, nil
}

// SetTerm changes the plan length. The contemplation month must still fit.
type SetTerm struct {
	Months int
}

func (t *SetTerm) Name() string {
	return "set_term"
}

func (t *SetTerm) Description() string {
	return fmt.Sprintf("Run the plan over %d months", t.Months)
}

func (t *SetTerm) Validate(base domain.PlanParameters) error {
	if t.Months <= 0 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("months must be positive, got %d", t.Months), domain.ErrInvalidParameters)
	}
	if base.ContemplationMonth > t.Months {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("contemplation month %d is past the new term", base.ContemplationMonth), domain.ErrInvalidParameters)
	}
	return nil
}

func (t *SetTerm) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	modified.TermMonths = t.Months
	return modified, nil
}

// SetCredit changes the nominal credit value.
type SetCredit struct {
	Value decimal.Decimal
}

func (t *SetCredit) Name() string {
	return "set_credit"
}

func (t *SetCredit) Description() string {
	return fmt.Sprintf("Credit of %s", t.Value.StringFixed(2))
}

func (t *SetCredit) Validate(base domain.PlanParameters) error {
	if !t.Value.IsPositive() {
		return NewTransformError(t.Name(), "validate", "credit value must be positive", domain.ErrInvalidParameters)
	}
	return nil
}

func (t *SetCredit) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	modified.BaseCredit = t.Value
	return modified, nil
}
