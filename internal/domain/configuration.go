package domain

import (
	"github.com/shopspring/decimal"
)

// Configuration is a plan configuration file: the persisted administrator,
// product and installment-type records plus the named simulations built on them.
type Configuration struct {
	Administrators   []Administrator   `yaml:"administrators" json:"administrators" toml:"administrators"`
	Products         []Product         `yaml:"products" json:"products" toml:"products"`
	InstallmentTypes []InstallmentType `yaml:"installment_types" json:"installment_types" toml:"installment_types"`
	Simulations      []Simulation      `yaml:"simulations" json:"simulations" toml:"simulations"`
}

// Administrator is a consórcio administrator and its default plan rates
type Administrator struct {
	ID                              string           `yaml:"id" json:"id" toml:"id"`
	Name                            string           `yaml:"name" json:"name" toml:"name"`
	AdministrationRate              *decimal.Decimal `yaml:"administration_rate,omitempty" json:"administration_rate,omitempty" toml:"administration_rate,omitempty"`
	ReserveFundRate                 *decimal.Decimal `yaml:"reserve_fund_rate,omitempty" json:"reserve_fund_rate,omitempty" toml:"reserve_fund_rate,omitempty"`
	AnnualUpdateRate                *decimal.Decimal `yaml:"annual_update_rate,omitempty" json:"annual_update_rate,omitempty" toml:"annual_update_rate,omitempty"`
	UpdateIndex                     string           `yaml:"update_index,omitempty" json:"update_index,omitempty" toml:"update_index,omitempty"`
	PostContemplationAdjustmentRate *decimal.Decimal `yaml:"post_contemplation_adjustment_rate,omitempty" json:"post_contemplation_adjustment_rate,omitempty" toml:"post_contemplation_adjustment_rate,omitempty"`
	MaxEmbeddedPercentage           *decimal.Decimal `yaml:"max_embedded_percentage,omitempty" json:"max_embedded_percentage,omitempty" toml:"max_embedded_percentage,omitempty"`
}

// Product is a credit product offered by an administrator
type Product struct {
	ID              string           `yaml:"id" json:"id" toml:"id"`
	AdministratorID string           `yaml:"administrator_id" json:"administrator_id" toml:"administrator_id"`
	Name            string           `yaml:"name" json:"name" toml:"name"`
	Kind            string           `yaml:"kind,omitempty" json:"kind,omitempty" toml:"kind,omitempty"` // property, vehicle, service
	CreditValue     *decimal.Decimal `yaml:"credit_value,omitempty" json:"credit_value,omitempty" toml:"credit_value,omitempty"`
	TermMonths      *int             `yaml:"term_months,omitempty" json:"term_months,omitempty" toml:"term_months,omitempty"`
	Overrides       RateOverrides    `yaml:"overrides,omitempty" json:"overrides,omitempty" toml:"overrides,omitempty"`
}

// InstallmentType is a reduced-installment option. A zero reduction means the full regime.
type InstallmentType struct {
	ID               string            `yaml:"id" json:"id" toml:"id"`
	AdministratorID  string            `yaml:"administrator_id" json:"administrator_id" toml:"administrator_id"`
	Name             string            `yaml:"name" json:"name" toml:"name"`
	ReductionPercent decimal.Decimal   `yaml:"reduction_percent" json:"reduction_percent" toml:"reduction_percent"`
	AppliesTo        []ReductionTarget `yaml:"applies_to,omitempty" json:"applies_to,omitempty" toml:"applies_to,omitempty"`
}

// RateOverrides replaces rates inherited from the administrator
type RateOverrides struct {
	AdministrationRate              *decimal.Decimal `yaml:"administration_rate,omitempty" json:"administration_rate,omitempty" toml:"administration_rate,omitempty"`
	ReserveFundRate                 *decimal.Decimal `yaml:"reserve_fund_rate,omitempty" json:"reserve_fund_rate,omitempty" toml:"reserve_fund_rate,omitempty"`
	AnnualUpdateRate                *decimal.Decimal `yaml:"annual_update_rate,omitempty" json:"annual_update_rate,omitempty" toml:"annual_update_rate,omitempty"`
	PostContemplationAdjustmentRate *decimal.Decimal `yaml:"post_contemplation_adjustment_rate,omitempty" json:"post_contemplation_adjustment_rate,omitempty" toml:"post_contemplation_adjustment_rate,omitempty"`
	MaxEmbeddedPercentage           *decimal.Decimal `yaml:"max_embedded_percentage,omitempty" json:"max_embedded_percentage,omitempty" toml:"max_embedded_percentage,omitempty"`
}

// Simulation is a named, user-entered plan configuration
type Simulation struct {
	Name            string `yaml:"name" json:"name" toml:"name"`
	Description     string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Administrator   string `yaml:"administrator" json:"administrator" toml:"administrator"`
	Product         string `yaml:"product" json:"product" toml:"product"`
	InstallmentType string `yaml:"installment_type,omitempty" json:"installment_type,omitempty" toml:"installment_type,omitempty"`

	CreditValue        *decimal.Decimal `yaml:"credit_value,omitempty" json:"credit_value,omitempty" toml:"credit_value,omitempty"`
	TermMonths         *int             `yaml:"term_months,omitempty" json:"term_months,omitempty" toml:"term_months,omitempty"`
	ContemplationMonth *int             `yaml:"contemplation_month,omitempty" json:"contemplation_month,omitempty" toml:"contemplation_month,omitempty"`
	EmbeddedBid        bool             `yaml:"embedded_bid,omitempty" json:"embedded_bid,omitempty" toml:"embedded_bid,omitempty"`
	AgioPercent        *decimal.Decimal `yaml:"agio_percent,omitempty" json:"agio_percent,omitempty" toml:"agio_percent,omitempty"`

	Overrides RateOverrides   `yaml:"overrides,omitempty" json:"overrides,omitempty" toml:"overrides,omitempty"`
	Leverage  *LeverageInputs `yaml:"leverage,omitempty" json:"leverage,omitempty" toml:"leverage,omitempty"`
}

// FindSimulation returns the simulation with the given name
func (c *Configuration) FindSimulation(name string) (*Simulation, bool) {
	for i := range c.Simulations {
		if c.Simulations[i].Name == name {
			return &c.Simulations[i], true
		}
	}
	return nil, false
}

// FindAdministrator returns the administrator with the given id
func (c *Configuration) FindAdministrator(id string) (*Administrator, bool) {
	for i := range c.Administrators {
		if c.Administrators[i].ID == id {
			return &c.Administrators[i], true
		}
	}
	return nil, false
}

// FindProduct returns the product with the given id
func (c *Configuration) FindProduct(id string) (*Product, bool) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// FindInstallmentType returns the installment type with the given id
func (c *Configuration) FindInstallmentType(id string) (*InstallmentType, bool) {
	for i := range c.InstallmentTypes {
		if c.InstallmentTypes[i].ID == id {
			return &c.InstallmentTypes[i], true
		}
	}
	return nil, false
}

// DeepCopy returns a copy of the simulation that shares no pointers with s
func (s *Simulation) DeepCopy() *Simulation {
	if s == nil {
		return nil
	}
	c := *s
	c.CreditValue = copyDecimal(s.CreditValue)
	c.TermMonths = copyInt(s.TermMonths)
	c.ContemplationMonth = copyInt(s.ContemplationMonth)
	c.AgioPercent = copyDecimal(s.AgioPercent)
	c.Overrides = s.Overrides.deepCopy()
	if s.Leverage != nil {
		lev := *s.Leverage
		c.Leverage = &lev
	}
	return &c
}

func (o RateOverrides) deepCopy() RateOverrides {
	return RateOverrides{
		AdministrationRate:              copyDecimal(o.AdministrationRate),
		ReserveFundRate:                 copyDecimal(o.ReserveFundRate),
		AnnualUpdateRate:                copyDecimal(o.AnnualUpdateRate),
		PostContemplationAdjustmentRate: copyDecimal(o.PostContemplationAdjustmentRate),
		MaxEmbeddedPercentage:           copyDecimal(o.MaxEmbeddedPercentage),
	}
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
