package transform

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
	}
	registry.Register(template)

	retrieved, ok := registry.Get("test_template")
	require.True(t, ok)
	assert.Equal(t, template.Name, retrieved.Name)

	_, ok = registry.Get("TEST_TEMPLATE")
	assert.True(t, ok, "lookup is case-insensitive")

	_, ok = registry.Get("nonexistent")
	assert.False(t, ok)
}

func TestTemplateRegistry_List(t *testing.T) {
	registry := NewTemplateRegistry()
	registry.Register(Template{Name: "second", Description: "Second"})
	registry.Register(Template{Name: "first", Description: "First"})

	assert.Equal(t, []string{"first", "second"}, registry.List())
	assert.Equal(t, "first", registry.Templates()[0].Name)
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	for _, name := range []string{
		"contemplate_month_12",
		"contemplate_1yr_earlier",
		"bid_25",
		"bid_max",
		"no_bid",
		"half_installment",
		"index_ipca_4pct",
		"agio_25",
		"aggressive",
		"conservative",
	} {
		template, ok := registry.Get(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, template.Transforms, name)
		assert.NotEmpty(t, template.Description, name)
	}
}

func TestApplyTemplate(t *testing.T) {
	registry := CreateBuiltInTemplates()

	bid, _ := registry.Get("bid_25")
	p, err := ApplyTemplate(basePlan(), bid)
	require.NoError(t, err)
	assert.True(t, p.EmbeddedBidEnabled)
	assert.True(t, decimal.NewFromFloat(0.25).Equal(p.MaxEmbeddedPercentage))

	aggressive, _ := registry.Get("aggressive")
	p, err = ApplyTemplate(basePlan(), aggressive)
	require.NoError(t, err)
	assert.Equal(t, 12, p.ContemplationMonth)
	assert.True(t, decimal.NewFromFloat(0.3).Equal(p.MaxEmbeddedPercentage))

	conservative, _ := registry.Get("conservative")
	p, err = ApplyTemplate(basePlan(), conservative)
	require.NoError(t, err)
	assert.Equal(t, 72, p.ContemplationMonth)
	assert.Equal(t, domain.RegimeSpecial, p.InstallmentRegime)
	assert.False(t, p.EmbeddedBidEnabled)

	short := basePlan()
	short.TermMonths = 10
	short.ContemplationMonth = 5
	_, err = ApplyTemplate(short, aggressive)
	assert.Error(t, err, "month 12 does not fit a 10-month plan")
}

func TestParseTemplateList(t *testing.T) {
	assert.Nil(t, ParseTemplateList(""))
	assert.Equal(t, []string{"bid_25", "no_bid"}, ParseTemplateList(" bid_25, ,no_bid "))
	assert.Equal(t, []string{"set_rate:rate=annual_update,value=0.045", "bid_25"},
		ParseTemplateList("set_rate:rate=annual_update, value=0.045,bid_25"))
	assert.Equal(t, []string{"special_regime:reduction=0.5,applies_to=installment+admin_tax", "set_contemplation:month=12"},
		ParseTemplateList("special_regime:reduction=0.5,applies_to=installment+admin_tax,set_contemplation:month=12"))
	// a key=value with nothing to continue stays on its own and fails later as an unknown variant
	assert.Equal(t, []string{"value=0.045", "no_bid"}, ParseTemplateList("value=0.045,no_bid"))

	registry := NewTransformRegistry()
	for _, entry := range ParseTemplateList("set_rate:rate=annual_update,value=0.045,special_regime:reduction=0.5,applies_to=installment+admin_tax") {
		_, err := registry.ParseTransformSpec(entry)
		assert.NoError(t, err, entry)
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	for _, section := range []string{"Contemplation:", "Embedded Bid:", "Installment Regime:", "Rates:", "Combination Strategies:", "Usage:"} {
		assert.Contains(t, help, section)
	}
	assert.Less(t, strings.Index(help, "Contemplation:"), strings.Index(help, "Embedded Bid:"))
	assert.Less(t, strings.Index(help, "Embedded Bid:"), strings.Index(help, "Combination Strategies:"))

	assert.Equal(t, "No templates registered", GetTemplateHelp(NewTemplateRegistry()))
}
