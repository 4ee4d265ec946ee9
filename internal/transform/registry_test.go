package transform

import (
	"testing"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	assert.Equal(t, []string{
		"embedded_bid",
		"full_regime",
		"no_embedded_bid",
		"set_contemplation",
		"set_credit",
		"set_rate",
		"set_term",
		"shift_contemplation",
		"special_regime",
	}, names)
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec string
		want PlanTransform
	}{
		{"set_contemplation:month=12", &SetContemplation{Month: 12}},
		{"shift_contemplation:months=-6", &ShiftContemplation{Months: -6}},
		{"set_term:months=180", &SetTerm{Months: 180}},
		{"no_embedded_bid", &DisableEmbeddedBid{}},
		{"full_regime:", &FullRegime{}},
		{"embedded_bid", &EnableEmbeddedBid{}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := registry.ParseTransformSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransformRegistry_ParseDecimalParams(t *testing.T) {
	registry := NewTransformRegistry()

	tr, err := registry.ParseTransformSpec("set_rate: rate=annual_update, value=0.045")
	require.NoError(t, err)
	rate := tr.(*SetRate)
	assert.Equal(t, RateAnnualUpdate, rate.Rate)
	assert.True(t, decimal.RequireFromString("0.045").Equal(rate.Value))

	tr, err = registry.ParseTransformSpec("embedded_bid:percent=0.3")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.3").Equal(tr.(*EnableEmbeddedBid).Percentage))

	tr, err = registry.ParseTransformSpec("special_regime:reduction=0.5,applies_to=installment+admin_tax")
	require.NoError(t, err)
	special := tr.(*SpecialRegime)
	assert.Equal(t, []domain.ReductionTarget{domain.ReduceAdminTax, domain.ReduceInstallment}, special.AppliesTo)

	tr, err = registry.ParseTransformSpec("set_credit:value=450000")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(450000).Equal(tr.(*SetCredit).Value))
}

func TestTransformRegistry_ParseErrors(t *testing.T) {
	registry := NewTransformRegistry()

	bad := map[string]string{
		"":                                              "invalid transform spec",
		"teleport:months=1":                             "unknown transform",
		"set_contemplation:12":                          "invalid parameter format",
		"set_contemplation:months=12":                   "requires 'month' parameter",
		"set_contemplation:month=twelve":                "invalid month value",
		"set_rate:value=0.1":                            "requires 'rate' parameter",
		"set_rate:rate=interest,value=0.1":              "unknown rate",
		"set_rate:rate=agio,value=abc":                  "invalid value value",
		"special_regime:applies_to=installment":         "requires 'reduction' parameter",
		"special_regime:reduction=0.5,applies_to=bonus": "unknown component",
	}
	for spec, msg := range bad {
		_, err := registry.ParseTransformSpec(spec)
		assert.ErrorContains(t, err, msg, spec)
	}
}
