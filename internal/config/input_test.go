package config

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func intPtr(i int) *int {
	return &i
}

func baseConfig() *domain.Configuration {
	return &domain.Configuration{
		Administrators: []domain.Administrator{
			{ID: "porto", Name: "Porto", AnnualUpdateRate: dec("0.05")},
			{ID: "bare", Name: "No rates"},
		},
		Products: []domain.Product{
			{ID: "imovel", AdministratorID: "porto", CreditValue: dec("300000"), TermMonths: intPtr(200)},
			{ID: "bare-imovel", AdministratorID: "bare", CreditValue: dec("100000")},
		},
		InstallmentTypes: []domain.InstallmentType{
			{ID: "meia", AdministratorID: "porto", ReductionPercent: decimal.RequireFromString("0.5"),
				AppliesTo: []domain.ReductionTarget{domain.ReduceInstallment, domain.ReduceAdminTax}},
			{ID: "cheia", AdministratorID: "porto"},
		},
		Simulations: []domain.Simulation{
			{Name: "casa", Administrator: "porto", Product: "imovel", ContemplationMonth: intPtr(24)},
		},
	}
}

func TestResolvePlan_Defaults(t *testing.T) {
	cfg := baseConfig()
	cfg.Simulations = []domain.Simulation{{Name: "bare", Administrator: "bare", Product: "bare-imovel"}}

	p, err := NewInputParser().ResolvePlan(cfg, &cfg.Simulations[0])
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(100000).Equal(p.BaseCredit))
	assert.Equal(t, DefaultTermMonths, p.TermMonths)
	assert.Equal(t, DefaultContemplationMonth, p.ContemplationMonth)
	assert.True(t, DefaultAdministrationRate.Equal(p.AdministrationRate))
	assert.True(t, DefaultReserveFundRate.Equal(p.ReserveFundRate))
	assert.True(t, DefaultAnnualUpdateRate.Equal(p.AnnualUpdateRate))
	assert.True(t, p.PostContemplationAdjustmentRate.IsZero())
	assert.True(t, DefaultMaxEmbeddedPercentage.Equal(p.MaxEmbeddedPercentage))
	assert.True(t, DefaultAgioPercent.Equal(p.AgioPercent))
	assert.Equal(t, domain.RegimeFull, p.InstallmentRegime)
	assert.False(t, p.EmbeddedBidEnabled)
}

func TestResolvePlan_Precedence(t *testing.T) {
	cfg := baseConfig()
	cfg.Products[0].Overrides = domain.RateOverrides{
		AnnualUpdateRate:   dec("0.07"),
		AdministrationRate: dec("0.2"),
	}
	cfg.Simulations[0].Overrides = domain.RateOverrides{AdministrationRate: dec("0.18")}
	cfg.Simulations[0].TermMonths = intPtr(180)
	cfg.Simulations[0].CreditValue = dec("250000")
	cfg.Simulations[0].EmbeddedBid = true
	cfg.Simulations[0].AgioPercent = dec("0.3")

	p, err := NewInputParser().ResolvePlan(cfg, &cfg.Simulations[0])
	require.NoError(t, err)

	// administrator 0.05 < product 0.07
	assert.True(t, decimal.RequireFromString("0.07").Equal(p.AnnualUpdateRate))
	// product 0.2 < simulation 0.18
	assert.True(t, decimal.RequireFromString("0.18").Equal(p.AdministrationRate))
	assert.Equal(t, 180, p.TermMonths)
	assert.Equal(t, 24, p.ContemplationMonth)
	assert.True(t, decimal.NewFromInt(250000).Equal(p.BaseCredit))
	assert.True(t, p.EmbeddedBidEnabled)
	assert.True(t, decimal.RequireFromString("0.3").Equal(p.AgioPercent))
}

func TestResolvePlan_InstallmentType(t *testing.T) {
	cfg := baseConfig()
	parser := NewInputParser()

	cfg.Simulations[0].InstallmentType = "meia"
	p, err := parser.ResolvePlan(cfg, &cfg.Simulations[0])
	require.NoError(t, err)
	assert.Equal(t, domain.RegimeSpecial, p.InstallmentRegime)
	assert.True(t, decimal.RequireFromString("0.5").Equal(p.ReductionPercent))
	assert.Equal(t, []domain.ReductionTarget{domain.ReduceInstallment, domain.ReduceAdminTax}, p.AppliesTo)

	cfg.Simulations[0].InstallmentType = "cheia"
	p, err = parser.ResolvePlan(cfg, &cfg.Simulations[0])
	require.NoError(t, err)
	assert.Equal(t, domain.RegimeFull, p.InstallmentRegime)
}

func TestResolvePlan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *domain.Configuration)
		target  error
		message string
	}{
		{"unknown administrator", func(c *domain.Configuration) { c.Simulations[0].Administrator = "x" }, ErrInvalidConfiguration, "unknown administrator"},
		{"unknown product", func(c *domain.Configuration) { c.Simulations[0].Product = "x" }, ErrInvalidConfiguration, "unknown product"},
		{"foreign product", func(c *domain.Configuration) { c.Simulations[0].Product = "bare-imovel" }, ErrInvalidConfiguration, "belongs to administrator"},
		{"unknown installment type", func(c *domain.Configuration) { c.Simulations[0].InstallmentType = "x" }, ErrInvalidConfiguration, "unknown installment type"},
		{"missing credit", func(c *domain.Configuration) { c.Products[0].CreditValue = nil }, ErrInvalidConfiguration, "credit value is required"},
		{"contemplation past term", func(c *domain.Configuration) { c.Simulations[0].ContemplationMonth = intPtr(500) }, domain.ErrInvalidParameters, "contemplation_month"},
		{"negative override", func(c *domain.Configuration) { c.Simulations[0].Overrides.ReserveFundRate = dec("-0.01") }, domain.ErrInvalidParameters, "reserve_fund_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)

			_, err := NewInputParser().ResolvePlan(cfg, &cfg.Simulations[0])
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "%v", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := baseConfig()
	cfg.Simulations[0].Description = "two hundred months"
	cfg.Simulations[0].Leverage = &domain.LeverageInputs{PropertyValue: decimal.NewFromInt(100000)}
	parser := NewInputParser()

	in, err := parser.Resolve(cfg, "casa")
	require.NoError(t, err)
	assert.Equal(t, "casa", in.Name)
	assert.Equal(t, "two hundred months", in.Description)
	require.NotNil(t, in.Leverage)
	assert.NotSame(t, cfg.Simulations[0].Leverage, in.Leverage)

	_, err = parser.Resolve(cfg, "missing")
	assert.ErrorIs(t, err, ErrSimulationNotFound)
}

func TestValidateConfiguration(t *testing.T) {
	parser := NewInputParser()
	require.NoError(t, parser.ValidateConfiguration(baseConfig()))

	tests := []struct {
		name    string
		mutate  func(cfg *domain.Configuration)
		message string
	}{
		{"no simulations", func(c *domain.Configuration) { c.Simulations = nil }, "no simulations provided"},
		{"unnamed simulation", func(c *domain.Configuration) { c.Simulations[0].Name = " " }, "name is required"},
		{"duplicate simulation", func(c *domain.Configuration) { c.Simulations = append(c.Simulations, c.Simulations[0]) }, "duplicate simulation name"},
		{"duplicate administrator", func(c *domain.Configuration) { c.Administrators[1].ID = "porto" }, "duplicate administrator id"},
		{"administrator without id", func(c *domain.Configuration) { c.Administrators[1].ID = "" }, "id is required"},
		{"duplicate product", func(c *domain.Configuration) { c.Products[1].ID = "imovel" }, "duplicate product id"},
		{"orphan product", func(c *domain.Configuration) { c.Products[1].AdministratorID = "ghost" }, "unknown administrator"},
		{"zero credit product", func(c *domain.Configuration) { c.Products[1].CreditValue = dec("0") }, "credit value must be positive"},
		{"zero term product", func(c *domain.Configuration) { c.Products[1].TermMonths = intPtr(0) }, "term must be positive"},
		{"duplicate installment type", func(c *domain.Configuration) { c.InstallmentTypes[1].ID = "meia" }, "duplicate installment type id"},
		{"orphan installment type", func(c *domain.Configuration) { c.InstallmentTypes[1].AdministratorID = "ghost" }, "unknown administrator"},
		{"leverage without property", func(c *domain.Configuration) {
			c.Simulations[0].Leverage = &domain.LeverageInputs{}
		}, "property value must be positive"},
		{"leverage unknown mode", func(c *domain.Configuration) {
			c.Simulations[0].Leverage = &domain.LeverageInputs{PropertyValue: decimal.NewFromInt(1), Mode: "hotel"}
		}, "unknown rental mode"},
		{"leverage negative expenses", func(c *domain.Configuration) {
			c.Simulations[0].Leverage = &domain.LeverageInputs{PropertyValue: decimal.NewFromInt(1), ExpensesPercent: decimal.NewFromInt(-1)}
		}, "expenses_percent cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			err := parser.ValidateConfiguration(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestFormatForFile(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForFile("plan.yaml"))
	assert.Equal(t, FormatYAML, FormatForFile("plan.YML"))
	assert.Equal(t, FormatYAML, FormatForFile("plan"))
	assert.Equal(t, FormatJSON, FormatForFile("/tmp/plan.json"))
	assert.Equal(t, FormatTOML, FormatForFile("plan.Toml"))
}
