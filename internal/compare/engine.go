package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/transform"
)

// ErrUnknownVariant is returned when a variant names neither a template nor a transform
var ErrUnknownVariant = errors.New("unknown comparison variant")

// CompareEngine orchestrates plan comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	// With lists template names or transform specs ("name:k=v,...") to compare against the base
	With       []string
	ConfigPath string
}

// Compare runs the base plan and one variant per entry of options.With
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base calculation.SimulationInput,
	options CompareOptions,
) (*ComparisonSet, error) {

	baseSim, err := ce.CalcEngine.RunSimulation(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base plan: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseSim)

	alternatives := []ComparisonResult{}
	for _, entry := range options.With {
		transforms, description, err := ce.resolveVariant(entry)
		if err != nil {
			return nil, err
		}

		params, err := transform.ApplyTransforms(base.Parameters, transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", entry, err)
		}

		variant := base
		variant.Name = base.Name + "_" + variantSuffix(entry)
		variant.Description = description
		variant.Parameters = params

		altSim, err := ce.CalcEngine.RunSimulation(ctx, variant)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate variant %s: %w", entry, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(altSim)
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BaseName:           base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		ConfigPath:         options.ConfigPath,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareSimulations compares already-resolved plans (not using templates)
func (ce *CompareEngine) CompareSimulations(
	ctx context.Context,
	base calculation.SimulationInput,
	alternatives []calculation.SimulationInput,
) (*ComparisonSet, error) {

	baseSim, err := ce.CalcEngine.RunSimulation(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base plan: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseSim)

	results := make([]ComparisonResult, 0, len(alternatives))
	for _, alt := range alternatives {
		altSim, err := ce.CalcEngine.RunSimulation(ctx, alt)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate simulation %s: %w", alt.Name, err)
		}
		r := ce.MetricsCalculator.CalculateMetrics(altSim)
		results = append(results, ce.MetricsCalculator.CalculateComparison(r, baseResult))
	}

	compSet := &ComparisonSet{
		BaseName:           base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// resolveVariant maps a template name or a transform spec to its transforms
func (ce *CompareEngine) resolveVariant(entry string) ([]transform.PlanTransform, string, error) {
	if template, ok := ce.TemplateRegistry.Get(entry); ok {
		return template.Transforms, template.Description, nil
	}

	t, err := ce.TransformRegistry.ParseTransformSpec(entry)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s is neither a template nor a valid transform: %v", ErrUnknownVariant, entry, err)
	}
	return []transform.PlanTransform{t}, t.Description(), nil
}

func variantSuffix(entry string) string {
	r := strings.NewReplacer(":", "_", ",", "_", "=", "-", " ", "")
	return r.Replace(entry)
}
