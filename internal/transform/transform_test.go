package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basePlan() domain.PlanParameters {
	return domain.PlanParameters{
		BaseCredit:            decimal.NewFromInt(300000),
		TermMonths:            240,
		ContemplationMonth:    60,
		AdministrationRate:    decimal.NewFromFloat(0.27),
		ReserveFundRate:       decimal.NewFromFloat(0.01),
		AnnualUpdateRate:      decimal.NewFromFloat(0.06),
		MaxEmbeddedPercentage: decimal.NewFromFloat(0.25),
		InstallmentRegime:     domain.RegimeFull,
		AgioPercent:           decimal.NewFromFloat(0.17),
	}
}

func TestApplyTransforms_Sequence(t *testing.T) {
	base := basePlan()

	result, err := ApplyTransforms(base, []PlanTransform{
		&SetContemplation{Month: 24},
		&ShiftContemplation{Months: -12},
		&EnableEmbeddedBid{Percentage: decimal.NewFromFloat(0.3)},
	})
	require.NoError(t, err)

	assert.Equal(t, 12, result.ContemplationMonth)
	assert.True(t, result.EmbeddedBidEnabled)
	assert.True(t, decimal.NewFromFloat(0.3).Equal(result.MaxEmbeddedPercentage))

	// base untouched
	assert.Equal(t, 60, base.ContemplationMonth)
	assert.False(t, base.EmbeddedBidEnabled)
}

func TestApplyTransforms_Empty(t *testing.T) {
	base := basePlan()
	base.AppliesTo = []domain.ReductionTarget{domain.ReduceAdminTax}

	result, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	result.AppliesTo[0] = domain.ReduceReserveFund
	assert.Equal(t, domain.ReduceAdminTax, base.AppliesTo[0])
}

func TestApplyTransforms_Errors(t *testing.T) {
	_, err := ApplyTransforms(basePlan(), []PlanTransform{nil})
	assert.ErrorContains(t, err, "index 0 is nil")

	_, err = ApplyTransforms(basePlan(), []PlanTransform{&SetContemplation{Month: 300}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameters))

	var terr *TransformError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "set_contemplation", terr.TransformName)
	assert.Equal(t, "validate", terr.Operation)
}

func TestShiftContemplation(t *testing.T) {
	base := basePlan()

	later := &ShiftContemplation{Months: 12}
	require.NoError(t, later.Validate(base))
	p, err := later.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, 72, p.ContemplationMonth)
	assert.Equal(t, "Contemplate 12 months later", later.Description())

	earlier := &ShiftContemplation{Months: -60}
	assert.Error(t, earlier.Validate(base))
	assert.Equal(t, "Contemplate 60 months earlier", earlier.Description())
}

func TestSetTerm(t *testing.T) {
	base := basePlan()

	assert.Error(t, (&SetTerm{Months: 0}).Validate(base))
	assert.Error(t, (&SetTerm{Months: 48}).Validate(base), "contemplation 60 no longer fits")

	p, err := ApplyTransforms(base, []PlanTransform{&SetTerm{Months: 120}})
	require.NoError(t, err)
	assert.Equal(t, 120, p.TermMonths)
}

func TestSetCredit(t *testing.T) {
	assert.Error(t, (&SetCredit{Value: decimal.Zero}).Validate(basePlan()))

	p, err := ApplyTransforms(basePlan(), []PlanTransform{&SetCredit{Value: decimal.NewFromInt(500000)}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500000).Equal(p.BaseCredit))
}

func TestSetRate(t *testing.T) {
	tests := []struct {
		rate  string
		value string
		check func(p domain.PlanParameters) decimal.Decimal
	}{
		{RateAdministration, "0.2", func(p domain.PlanParameters) decimal.Decimal { return p.AdministrationRate }},
		{RateReserveFund, "0.02", func(p domain.PlanParameters) decimal.Decimal { return p.ReserveFundRate }},
		{RateAnnualUpdate, "0.045", func(p domain.PlanParameters) decimal.Decimal { return p.AnnualUpdateRate }},
		{RatePostContemplation, "0.003", func(p domain.PlanParameters) decimal.Decimal { return p.PostContemplationAdjustmentRate }},
		{RateAgio, "0.3", func(p domain.PlanParameters) decimal.Decimal { return p.AgioPercent }},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			value := decimal.RequireFromString(tt.value)
			p, err := ApplyTransforms(basePlan(), []PlanTransform{&SetRate{Rate: tt.rate, Value: value}})
			require.NoError(t, err)
			assert.True(t, value.Equal(tt.check(p)))
		})
	}

	assert.Error(t, (&SetRate{Rate: "interest", Value: decimal.NewFromFloat(0.1)}).Validate(basePlan()))
	assert.Error(t, (&SetRate{Rate: RateAgio, Value: decimal.NewFromFloat(-0.1)}).Validate(basePlan()))
	assert.Error(t, (&SetRate{Rate: RateAdministration, Value: decimal.NewFromInt(1)}).Validate(basePlan()))
	assert.Equal(t, "Set annual update rate to 4.50%", (&SetRate{Rate: RateAnnualUpdate, Value: decimal.NewFromFloat(0.045)}).Description())
}

func TestEmbeddedBid(t *testing.T) {
	p, err := (&EnableEmbeddedBid{}).Apply(basePlan())
	require.NoError(t, err)
	assert.True(t, p.EmbeddedBidEnabled)
	assert.True(t, decimal.NewFromFloat(0.25).Equal(p.MaxEmbeddedPercentage), "zero keeps the plan maximum")

	assert.Error(t, (&EnableEmbeddedBid{Percentage: decimal.NewFromFloat(1.2)}).Validate(basePlan()))

	off, err := (&DisableEmbeddedBid{}).Apply(p)
	require.NoError(t, err)
	assert.False(t, off.EmbeddedBidEnabled)
}

func TestRegimes(t *testing.T) {
	special := &SpecialRegime{
		ReductionPercent: decimal.NewFromFloat(0.5),
		AppliesTo:        []domain.ReductionTarget{domain.ReduceInstallment, domain.ReduceAdminTax},
	}
	require.NoError(t, special.Validate(basePlan()))
	assert.Equal(t, "Reduce installment, admin_tax by 50% until contemplation", special.Description())

	p, err := special.Apply(basePlan())
	require.NoError(t, err)
	assert.Equal(t, domain.RegimeSpecial, p.InstallmentRegime)
	assert.Len(t, p.AppliesTo, 2)

	full, err := (&FullRegime{}).Apply(p)
	require.NoError(t, err)
	assert.Equal(t, domain.RegimeFull, full.InstallmentRegime)
	assert.True(t, full.ReductionPercent.IsZero())
	assert.Nil(t, full.AppliesTo)

	assert.Error(t, (&SpecialRegime{}).Validate(basePlan()))
	assert.Error(t, (&SpecialRegime{ReductionPercent: decimal.NewFromFloat(0.5), AppliesTo: []domain.ReductionTarget{"bonus"}}).Validate(basePlan()))
}

func TestTransformError(t *testing.T) {
	err := NewTransformError("set_term", "validate", "bad months", nil)
	assert.Equal(t, "transform set_term (validate): bad months", err.Error())

	wrapped := NewTransformError("set_term", "validate", "bad months", domain.ErrInvalidParameters)
	assert.Contains(t, wrapped.Error(), "invalid plan parameters")
	assert.ErrorIs(t, wrapped, domain.ErrInvalidParameters)
}
