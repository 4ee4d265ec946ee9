package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (PlanTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_contemplation", createSetContemplation)
	registry.Register("shift_contemplation", createShiftContemplation)
	registry.Register("set_term", createSetTerm)
	registry.Register("set_credit", createSetCredit)
	registry.Register("set_rate", createSetRate)
	registry.Register("embedded_bid", createEnableEmbeddedBid)
	registry.Register("no_embedded_bid", func(map[string]string) (PlanTransform, error) { return &DisableEmbeddedBid{}, nil })
	registry.Register("special_regime", createSpecialRegime)
	registry.Register("full_regime", func(map[string]string) (PlanTransform, error) { return &FullRegime{}, nil })

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (PlanTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"; parameterless
// transforms may omit the colon.
// Example: "set_rate:rate=annual_update,value=0.045"
func (r *TransformRegistry) ParseTransformSpec(spec string) (PlanTransform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func requireInt(transform string, params map[string]string, key string) (int, error) {
	s, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func requireDecimal(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	s, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createSetContemplation(params map[string]string) (PlanTransform, error) {
	month, err := requireInt("set_contemplation", params, "month")
	if err != nil {
		return nil, err
	}
	return &SetContemplation{Month: month}, nil
}

func createShiftContemplation(params map[string]string) (PlanTransform, error) {
	months, err := requireInt("shift_contemplation", params, "months")
	if err != nil {
		return nil, err
	}
	return &ShiftContemplation{Months: months}, nil
}

func createSetTerm(params map[string]string) (PlanTransform, error) {
	months, err := requireInt("set_term", params, "months")
	if err != nil {
		return nil, err
	}
	return &SetTerm{Months: months}, nil
}

func createSetCredit(params map[string]string) (PlanTransform, error) {
	value, err := requireDecimal("set_credit", params, "value")
	if err != nil {
		return nil, err
	}
	return &SetCredit{Value: value}, nil
}

func createSetRate(params map[string]string) (PlanTransform, error) {
	rate, ok := params["rate"]
	if !ok {
		return nil, fmt.Errorf("set_rate requires 'rate' parameter")
	}
	if _, known := rateDescriptions[rate]; !known {
		return nil, fmt.Errorf("unknown rate %q", rate)
	}
	value, err := requireDecimal("set_rate", params, "value")
	if err != nil {
		return nil, err
	}
	return &SetRate{Rate: rate, Value: value}, nil
}

func createEnableEmbeddedBid(params map[string]string) (PlanTransform, error) {
	t := &EnableEmbeddedBid{}
	if _, ok := params["percent"]; ok {
		p, err := requireDecimal("embedded_bid", params, "percent")
		if err != nil {
			return nil, err
		}
		t.Percentage = p
	}
	return t, nil
}

// createSpecialRegime accepts applies_to as a '+'-separated list,
// e.g. "special_regime:reduction=0.5,applies_to=installment+admin_tax"
func createSpecialRegime(params map[string]string) (PlanTransform, error) {
	reduction, err := requireDecimal("special_regime", params, "reduction")
	if err != nil {
		return nil, err
	}
	var targets []domain.ReductionTarget
	if s, ok := params["applies_to"]; ok {
		targets, err = domain.ParseReductionTargets(strings.ReplaceAll(s, "+", ","))
		if err != nil {
			return nil, err
		}
	}
	return &SpecialRegime{ReductionPercent: reduction, AppliesTo: targets}, nil
}
