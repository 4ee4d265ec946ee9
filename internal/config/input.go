package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfiguration is matched by every structural configuration problem
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrSimulationNotFound is returned when a named simulation does not exist
	ErrSimulationNotFound = errors.New("simulation not found")
)

// Built-in defaults, applied once when a simulation is resolved
var (
	DefaultAdministrationRate              = decimal.RequireFromString("0.27")
	DefaultReserveFundRate                 = decimal.RequireFromString("0.01")
	DefaultAnnualUpdateRate                = decimal.RequireFromString("0.06")
	DefaultPostContemplationAdjustmentRate = decimal.Zero
	DefaultMaxEmbeddedPercentage           = decimal.RequireFromString("0.25")
	DefaultAgioPercent                     = decimal.RequireFromString("0.17")
)

const (
	DefaultTermMonths         = 240
	DefaultContemplationMonth = 1
)

// Format is a configuration file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatForFile picks the encoding from the file extension; unknown extensions read as YAML
func FormatForFile(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML, JSON or TOML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, FormatForFile(filename))
}

// Parse decodes and validates a configuration document
func (ip *InputParser) Parse(data []byte, format Format) (*domain.Configuration, error) {
	var config domain.Configuration

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration checks ids, references and every resolved simulation
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateAdministrators(config.Administrators); err != nil {
		return err
	}
	if err := ip.validateProducts(config); err != nil {
		return err
	}
	if err := ip.validateInstallmentTypes(config); err != nil {
		return err
	}

	if len(config.Simulations) == 0 {
		return fmt.Errorf("%w: no simulations provided", ErrInvalidConfiguration)
	}
	seen := map[string]bool{}
	for i := range config.Simulations {
		sim := &config.Simulations[i]
		if strings.TrimSpace(sim.Name) == "" {
			return fmt.Errorf("%w: simulation %d: name is required", ErrInvalidConfiguration, i)
		}
		if seen[sim.Name] {
			return fmt.Errorf("%w: duplicate simulation name %q", ErrInvalidConfiguration, sim.Name)
		}
		seen[sim.Name] = true

		if _, err := ip.ResolvePlan(config, sim); err != nil {
			return fmt.Errorf("simulation %q: %w", sim.Name, err)
		}
		if sim.Leverage != nil {
			if err := sim.Leverage.Validate(); err != nil {
				return fmt.Errorf("simulation %q: leverage: %w", sim.Name, err)
			}
		}
	}

	return nil
}

func (ip *InputParser) validateAdministrators(admins []domain.Administrator) error {
	seen := map[string]bool{}
	for i, a := range admins {
		if a.ID == "" {
			return fmt.Errorf("%w: administrator %d: id is required", ErrInvalidConfiguration, i)
		}
		if seen[a.ID] {
			return fmt.Errorf("%w: duplicate administrator id %q", ErrInvalidConfiguration, a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}

func (ip *InputParser) validateProducts(config *domain.Configuration) error {
	seen := map[string]bool{}
	for i, p := range config.Products {
		if p.ID == "" {
			return fmt.Errorf("%w: product %d: id is required", ErrInvalidConfiguration, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate product id %q", ErrInvalidConfiguration, p.ID)
		}
		seen[p.ID] = true
		if _, ok := config.FindAdministrator(p.AdministratorID); !ok {
			return fmt.Errorf("%w: product %q: unknown administrator %q", ErrInvalidConfiguration, p.ID, p.AdministratorID)
		}
		if p.CreditValue != nil && !p.CreditValue.IsPositive() {
			return fmt.Errorf("%w: product %q: credit value must be positive", ErrInvalidConfiguration, p.ID)
		}
		if p.TermMonths != nil && *p.TermMonths <= 0 {
			return fmt.Errorf("%w: product %q: term must be positive", ErrInvalidConfiguration, p.ID)
		}
	}
	return nil
}

func (ip *InputParser) validateInstallmentTypes(config *domain.Configuration) error {
	seen := map[string]bool{}
	for i, it := range config.InstallmentTypes {
		if it.ID == "" {
			return fmt.Errorf("%w: installment type %d: id is required", ErrInvalidConfiguration, i)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: duplicate installment type id %q", ErrInvalidConfiguration, it.ID)
		}
		seen[it.ID] = true
		if _, ok := config.FindAdministrator(it.AdministratorID); !ok {
			return fmt.Errorf("%w: installment type %q: unknown administrator %q", ErrInvalidConfiguration, it.ID, it.AdministratorID)
		}
	}
	return nil
}

// ResolvePlan builds the plan parameters of a simulation. Precedence, lowest
// first: built-in defaults, administrator, product, simulation.
func (ip *InputParser) ResolvePlan(config *domain.Configuration, sim *domain.Simulation) (domain.PlanParameters, error) {
	admin, ok := config.FindAdministrator(sim.Administrator)
	if !ok {
		return domain.PlanParameters{}, fmt.Errorf("%w: unknown administrator %q", ErrInvalidConfiguration, sim.Administrator)
	}
	product, ok := config.FindProduct(sim.Product)
	if !ok {
		return domain.PlanParameters{}, fmt.Errorf("%w: unknown product %q", ErrInvalidConfiguration, sim.Product)
	}
	if product.AdministratorID != admin.ID {
		return domain.PlanParameters{}, fmt.Errorf("%w: product %q belongs to administrator %q, not %q",
			ErrInvalidConfiguration, product.ID, product.AdministratorID, admin.ID)
	}

	p := domain.PlanParameters{
		TermMonths:                      DefaultTermMonths,
		ContemplationMonth:              DefaultContemplationMonth,
		AdministrationRate:              DefaultAdministrationRate,
		ReserveFundRate:                 DefaultReserveFundRate,
		AnnualUpdateRate:                DefaultAnnualUpdateRate,
		PostContemplationAdjustmentRate: DefaultPostContemplationAdjustmentRate,
		MaxEmbeddedPercentage:           DefaultMaxEmbeddedPercentage,
		InstallmentRegime:               domain.RegimeFull,
		AgioPercent:                     DefaultAgioPercent,
	}

	applyOverrides(&p, domain.RateOverrides{
		AdministrationRate:              admin.AdministrationRate,
		ReserveFundRate:                 admin.ReserveFundRate,
		AnnualUpdateRate:                admin.AnnualUpdateRate,
		PostContemplationAdjustmentRate: admin.PostContemplationAdjustmentRate,
		MaxEmbeddedPercentage:           admin.MaxEmbeddedPercentage,
	})

	if product.CreditValue != nil {
		p.BaseCredit = *product.CreditValue
	}
	if product.TermMonths != nil {
		p.TermMonths = *product.TermMonths
	}
	applyOverrides(&p, product.Overrides)

	if sim.InstallmentType != "" {
		it, ok := config.FindInstallmentType(sim.InstallmentType)
		if !ok {
			return domain.PlanParameters{}, fmt.Errorf("%w: unknown installment type %q", ErrInvalidConfiguration, sim.InstallmentType)
		}
		if it.AdministratorID != admin.ID {
			return domain.PlanParameters{}, fmt.Errorf("%w: installment type %q belongs to administrator %q, not %q",
				ErrInvalidConfiguration, it.ID, it.AdministratorID, admin.ID)
		}
		if it.ReductionPercent.IsPositive() {
			p.InstallmentRegime = domain.RegimeSpecial
			p.ReductionPercent = it.ReductionPercent
			p.AppliesTo = append([]domain.ReductionTarget(nil), it.AppliesTo...)
		}
	}

	if sim.CreditValue != nil {
		p.BaseCredit = *sim.CreditValue
	}
	if sim.TermMonths != nil {
		p.TermMonths = *sim.TermMonths
	}
	if sim.ContemplationMonth != nil {
		p.ContemplationMonth = *sim.ContemplationMonth
	}
	if sim.AgioPercent != nil {
		p.AgioPercent = *sim.AgioPercent
	}
	p.EmbeddedBidEnabled = sim.EmbeddedBid
	applyOverrides(&p, sim.Overrides)

	if !p.BaseCredit.IsPositive() {
		return domain.PlanParameters{}, fmt.Errorf("%w: credit value is required (product %q has none)", ErrInvalidConfiguration, product.ID)
	}
	if err := p.Validate(); err != nil {
		return domain.PlanParameters{}, err
	}
	return p, nil
}

// Resolve looks a simulation up by name and prepares it for the engine
func (ip *InputParser) Resolve(config *domain.Configuration, name string) (calculation.SimulationInput, error) {
	sim, ok := config.FindSimulation(name)
	if !ok {
		return calculation.SimulationInput{}, fmt.Errorf("%w: %q", ErrSimulationNotFound, name)
	}
	return ip.ResolveSimulation(config, sim)
}

// ResolveSimulation prepares an already-located simulation for the engine
func (ip *InputParser) ResolveSimulation(config *domain.Configuration, sim *domain.Simulation) (calculation.SimulationInput, error) {
	params, err := ip.ResolvePlan(config, sim)
	if err != nil {
		return calculation.SimulationInput{}, fmt.Errorf("simulation %q: %w", sim.Name, err)
	}
	in := calculation.SimulationInput{
		Name:        sim.Name,
		Description: sim.Description,
		Parameters:  params,
	}
	if sim.Leverage != nil {
		lev := *sim.Leverage
		in.Leverage = &lev
	}
	return in, nil
}

func applyOverrides(p *domain.PlanParameters, o domain.RateOverrides) {
	if o.AdministrationRate != nil {
		p.AdministrationRate = *o.AdministrationRate
	}
	if o.ReserveFundRate != nil {
		p.ReserveFundRate = *o.ReserveFundRate
	}
	if o.AnnualUpdateRate != nil {
		p.AnnualUpdateRate = *o.AnnualUpdateRate
	}
	if o.PostContemplationAdjustmentRate != nil {
		p.PostContemplationAdjustmentRate = *o.PostContemplationAdjustmentRate
	}
	if o.MaxEmbeddedPercentage != nil {
		p.MaxEmbeddedPercentage = *o.MaxEmbeddedPercentage
	}
}
