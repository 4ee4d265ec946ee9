package compare

import (
	"context"
	"testing"

	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatInput has no fees and no updates: installments of 10000 over 12 months
func flatInput() calculation.SimulationInput {
	return calculation.SimulationInput{
		Name: "flat",
		Parameters: domain.PlanParameters{
			BaseCredit:         d("120000"),
			TermMonths:         12,
			ContemplationMonth: 6,
			InstallmentRegime:  domain.RegimeFull,
			AgioPercent:        d("0.2"),
		},
	}
}

func TestCompareEngine_Compare(t *testing.T) {
	ce := NewCompareEngine(nil)

	set, err := ce.Compare(context.Background(), flatInput(), CompareOptions{
		With:       []string{"half_installment", "set_contemplation:month=3"},
		ConfigPath: "plan.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, "flat", set.BaseName)
	assert.Equal(t, "plan.yaml", set.ConfigPath)
	require.NotNil(t, set.BaseResult)
	assert.True(t, d("-0.6").Equal(set.BaseResult.ROI), "got %s", set.BaseResult.ROI)
	assert.True(t, d("10000").Equal(set.BaseResult.FirstInstallment))

	require.Len(t, set.AlternativeResults, 2)

	half := set.AlternativeResults[0]
	assert.Equal(t, "flat_half_installment", half.Name)
	assert.Equal(t, "Half installment until contemplation", half.Description)
	assert.Equal(t, "special", half.Regime)
	assert.True(t, d("5000").Equal(half.FirstInstallment))
	assert.True(t, d("-0.2").Equal(half.ROI), "got %s", half.ROI)
	assert.True(t, d("120000").Equal(half.TotalPaid), "got %s", half.TotalPaid)
	assert.True(t, d("0.4").Equal(half.ROIDiffFromBase))

	early := set.AlternativeResults[1]
	assert.Equal(t, "flat_set_contemplation_month-3", early.Name)
	assert.Equal(t, 3, early.ContemplationMonth)
	assert.True(t, d("30000").Equal(early.PaidAtContemplation))
	assert.True(t, d("-0.2").Equal(early.ROI), "got %s", early.ROI)

	assert.NotEmpty(t, set.Recommendations)
}

func TestCompareEngine_Compare_Errors(t *testing.T) {
	ce := NewCompareEngine(calculation.NewCalculationEngine())
	ctx := context.Background()

	_, err := ce.Compare(ctx, flatInput(), CompareOptions{With: []string{"no_such_thing"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Contains(t, err.Error(), "neither a template nor a valid transform")

	_, err = ce.Compare(ctx, flatInput(), CompareOptions{With: []string{"set_contemplation:month=40"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	bad := flatInput()
	bad.Parameters.TermMonths = 0
	_, err = ce.Compare(ctx, bad, CompareOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to calculate base plan")
}

func TestCompareEngine_CompareSimulations(t *testing.T) {
	ce := NewCompareEngine(nil)

	indexed := flatInput()
	indexed.Name = "indexed"
	indexed.Parameters.AnnualUpdateRate = d("0.1")
	indexed.Parameters.TermMonths = 24

	set, err := ce.CompareSimulations(context.Background(), flatInput(), []calculation.SimulationInput{indexed})
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 1)

	alt := set.AlternativeResults[0]
	assert.Equal(t, "indexed", alt.Name)
	assert.True(t, alt.TotalPaidDiffFromBase.IsPositive())
	assert.True(t, d("5000").Equal(alt.FirstInstallment), "120000 over 24 months")
	assert.True(t, d("-5000").Equal(alt.FirstInstallmentDiffFromBase))
}

func TestCompareEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCompareEngine(nil).Compare(ctx, flatInput(), CompareOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
