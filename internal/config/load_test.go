package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	assert.NotNil(t, NewInputParser())
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	config, err := NewInputParser().LoadFromFile("nonexistent.yaml")

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(file, []byte("invalid: yaml: content: [unclosed"), 0644))

	config, err := NewInputParser().LoadFromFile(file)

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_Testdata(t *testing.T) {
	config, err := NewInputParser().LoadFromFile(filepath.Join("testdata", "plan.yaml"))
	require.NoError(t, err)

	assert.Len(t, config.Administrators, 2)
	assert.Len(t, config.Products, 2)
	assert.Len(t, config.InstallmentTypes, 2)
	require.Len(t, config.Simulations, 3)

	lance, ok := config.FindSimulation("casa-lance")
	require.True(t, ok)
	assert.True(t, lance.EmbeddedBid)
	require.NotNil(t, lance.Leverage)
	assert.Equal(t, domain.RentalShortStay, lance.Leverage.Mode)
	assert.True(t, decimal.NewFromInt(18).Equal(lance.Leverage.OccupancyDays))

	in, err := NewInputParser().Resolve(config, "carro")
	require.NoError(t, err)
	assert.Equal(t, 80, in.Parameters.TermMonths)
	assert.True(t, decimal.RequireFromString("0.15").Equal(in.Parameters.AdministrationRate))
	assert.True(t, decimal.RequireFromString("0.01").Equal(in.Parameters.ReserveFundRate))
	assert.True(t, decimal.RequireFromString("0.003").Equal(in.Parameters.PostContemplationAdjustmentRate))
}

const jsonConfig = `{
  "administrators": [{"id": "porto", "name": "Porto", "administration_rate": "0.25"}],
  "products": [{"id": "imovel", "administrator_id": "porto", "name": "Imóvel", "credit_value": 200000, "term_months": 120}],
  "simulations": [{"name": "casa", "administrator": "porto", "product": "imovel", "contemplation_month": 10, "embedded_bid": true}]
}`

const tomlConfig = `
[[administrators]]
id = "porto"
name = "Porto"
administration_rate = 0.25

[[products]]
id = "imovel"
administrator_id = "porto"
name = "Imóvel"
credit_value = "200000"
term_months = 120

[[simulations]]
name = "casa"
administrator = "porto"
product = "imovel"
contemplation_month = 10
embedded_bid = true

[simulations.leverage]
property_value = "50000"
mode = "monthly_rent"
monthly_rent_percent = 0.005
`

func TestInputParser_LoadFromFile_Formats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"plan.json": jsonConfig,
		"plan.toml": tomlConfig,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(file, []byte(content), 0644))

			config, err := NewInputParser().LoadFromFile(file)
			require.NoError(t, err)

			in, err := NewInputParser().Resolve(config, "casa")
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(200000).Equal(in.Parameters.BaseCredit))
			assert.Equal(t, 120, in.Parameters.TermMonths)
			assert.Equal(t, 10, in.Parameters.ContemplationMonth)
			assert.True(t, in.Parameters.EmbeddedBidEnabled)
			assert.True(t, decimal.RequireFromString("0.25").Equal(in.Parameters.AdministrationRate))
		})
	}
}

func TestInputParser_Parse_TOMLLeverage(t *testing.T) {
	config, err := NewInputParser().Parse([]byte(tomlConfig), FormatTOML)
	require.NoError(t, err)

	lev := config.Simulations[0].Leverage
	require.NotNil(t, lev)
	assert.Equal(t, domain.RentalMonthlyRent, lev.Mode)
	assert.True(t, decimal.NewFromInt(50000).Equal(lev.PropertyValue))
	assert.True(t, decimal.RequireFromString("0.005").Equal(lev.MonthlyRentPercent))
}

func TestInputParser_Parse_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.Parse([]byte(`{"simulations": [], "unknown": 1}`), FormatJSON)
	assert.ErrorContains(t, err, "failed to parse JSON")

	_, err = parser.Parse([]byte(`simulations = [`), FormatTOML)
	assert.ErrorContains(t, err, "failed to parse TOML")

	_, err = parser.Parse([]byte(`simulations: []`), FormatYAML)
	assert.ErrorContains(t, err, "configuration validation failed")

	_, err = parser.Parse([]byte(`{}`), Format("xml"))
	assert.ErrorContains(t, err, "unsupported configuration format")
}
