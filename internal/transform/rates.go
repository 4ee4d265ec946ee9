package transform

import (
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// Rate fields a SetRate transform can target
const (
	RateAdministration    = "administration"
	RateReserveFund       = "reserve_fund"
	RateAnnualUpdate      = "annual_update"
	RatePostContemplation = "post_contemplation"
	RateAgio              = "agio"
)

var rateDescriptions = map[string]string{
	RateAdministration:    "administration rate",
	RateReserveFund:       "reserve fund rate",
	RateAnnualUpdate:      "annual update rate",
	RatePostContemplation: "post-contemplation adjustment",
	RateAgio:              "resale ágio",
}

// SetRate replaces one of the plan's rates.
type SetRate struct {
	Rate  string
	Value decimal.Decimal
}

func (t *SetRate) Name() string {
	return "set_rate"
}

func (t *SetRate) Description() string {
	return fmt.Sprintf("Set %s to %s%%", rateDescriptions[t.Rate], t.Value.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

func (t *SetRate) Validate(base domain.PlanParameters) error {
	if _, ok := rateDescriptions[t.Rate]; !ok {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown rate %q", t.Rate), domain.ErrInvalidParameters)
	}
	if t.Value.IsNegative() {
		return NewTransformError(t.Name(), "validate", "rate cannot be negative", domain.ErrInvalidParameters)
	}
	if (t.Rate == RateAdministration || t.Rate == RateReserveFund) && t.Value.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return NewTransformError(t.Name(), "validate", "rate must be below 1", domain.ErrInvalidParameters)
	}
	return nil
}

func (t *SetRate) Apply(base domain.PlanParameters) (domain.PlanParameters, error) {
	modified := base.Clone()
	switch t.Rate {
	case RateAdministration:
		modified.AdministrationRate = t.Value
	case RateReserveFund:
		modified.ReserveFundRate = t.Value
	case RateAnnualUpdate:
		modified.AnnualUpdateRate = t.Value
	case RatePostContemplation:
		modified.PostContemplationAdjustmentRate = t.Value
	case RateAgio:
		modified.AgioPercent = t.Value
	default:
		return base, NewTransformError(t.Name(), "apply", fmt.Sprintf("unknown rate %q", t.Rate), domain.ErrInvalidParameters)
	}
	return modified, nil
}
