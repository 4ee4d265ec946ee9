package calculation

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/rgehrsitz/consorcio/internal/metrics"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// SweepableParameters lists the parameter names a sweep can vary
func SweepableParameters() []string {
	return []string{
		domain.ParamAdministrationRate,
		domain.ParamAgioPercent,
		domain.ParamAnnualUpdateRate,
		domain.ParamContemplationMonth,
		domain.ParamMaxEmbeddedPercentage,
		domain.ParamPostContemplationAdjustmentRate,
		domain.ParamReserveFundRate,
	}
}

// Analyze sweeps every parameter independently around the base plan.
// Cancellation is checked between projections.
func (sa *SensitivityAnalyzer) Analyze(
	ctx context.Context,
	baseName string,
	base domain.PlanParameters,
	parameters []domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if len(parameters) == 0 {
		return nil, fmt.Errorf("%w: no sensitivity parameters given", domain.ErrInvalidParameters)
	}

	analysis := &domain.ParameterSensitivityAnalysis{
		BaseName:   baseName,
		Parameters: parameters,
	}

	for _, param := range parameters {
		if err := validateSensitivityParameter(param); err != nil {
			return nil, err
		}
		for _, value := range generateParameterValues(param) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			modified, err := withParameter(base, param.Name, value)
			if err != nil {
				return nil, err
			}
			rows, err := sa.calculationEngine.project(fmt.Sprintf("%s[%s=%s]", baseName, param.Name, value), modified)
			if err != nil {
				return nil, fmt.Errorf("sweep %s=%s: %w", param.Name, value, err)
			}

			analysis.Results = append(analysis.Results, domain.SensitivityResult{
				Parameter: param.Name,
				Value:     value,
				Metrics:   sensitivityMetrics(rows, modified),
			})
		}
		metrics.ObserveSensitivity(param.Name)
	}

	analysis.Summary = summarizeSensitivity(analysis.Results, parameters)
	sa.calculationEngine.Logger.Infof("sensitivity %s: %d projections, most sensitive %s",
		baseName, len(analysis.Results), analysis.Summary.MostSensitiveParameter)
	return analysis, nil
}

// ParseSensitivityParameter parses "name:min-max:steps", for example
// "annual_update_rate:0.03-0.10:8". Steps defaults to 5 when omitted.
func ParseSensitivityParameter(s string) (domain.SensitivityParameter, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return domain.SensitivityParameter{}, fmt.Errorf("%w: sensitivity parameter %q must look like name:min-max[:steps]", domain.ErrInvalidParameters, s)
	}

	param := domain.SensitivityParameter{Name: strings.TrimSpace(parts[0]), Steps: 5}

	bounds := strings.SplitN(parts[1], "-", 2)
	if len(bounds) != 2 {
		return domain.SensitivityParameter{}, fmt.Errorf("%w: range %q must look like min-max", domain.ErrInvalidParameters, parts[1])
	}
	var err error
	if param.MinValue, err = decimal.NewFromString(strings.TrimSpace(bounds[0])); err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("%w: invalid minimum %q", domain.ErrInvalidParameters, bounds[0])
	}
	if param.MaxValue, err = decimal.NewFromString(strings.TrimSpace(bounds[1])); err != nil {
		return domain.SensitivityParameter{}, fmt.Errorf("%w: invalid maximum %q", domain.ErrInvalidParameters, bounds[1])
	}
	if len(parts) == 3 {
		if param.Steps, err = strconv.Atoi(strings.TrimSpace(parts[2])); err != nil {
			return domain.SensitivityParameter{}, fmt.Errorf("%w: invalid steps %q", domain.ErrInvalidParameters, parts[2])
		}
	}
	if param.Name == domain.ParamContemplationMonth {
		param.Unit = "months"
	} else {
		param.Unit = "percent"
	}

	return param, validateSensitivityParameter(param)
}

func validateSensitivityParameter(p domain.SensitivityParameter) error {
	known := false
	for _, name := range SweepableParameters() {
		if p.Name == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown sensitivity parameter %q (valid: %s)",
			domain.ErrInvalidParameters, p.Name, strings.Join(SweepableParameters(), ", "))
	}
	if p.Steps < 1 {
		return fmt.Errorf("%w: %s: steps must be at least 1", domain.ErrInvalidParameters, p.Name)
	}
	if p.MaxValue.LessThan(p.MinValue) {
		return fmt.Errorf("%w: %s: max %s below min %s", domain.ErrInvalidParameters, p.Name, p.MaxValue, p.MinValue)
	}
	return nil
}

// generateParameterValues spreads Steps values evenly over [MinValue, MaxValue]
func generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.MinValue}
	}

	span := param.MaxValue.Sub(param.MinValue)
	step := span.Div(decimal.NewFromInt(int64(param.Steps - 1)))
	values := make([]decimal.Decimal, 0, param.Steps)
	for i := 0; i < param.Steps; i++ {
		v := param.MinValue.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if param.Name == domain.ParamContemplationMonth {
			v = v.Round(0)
		} else {
			v = v.Round(6)
		}
		values = append(values, v)
	}
	return values
}

// withParameter returns a copy of base with one parameter replaced
func withParameter(base domain.PlanParameters, name string, value decimal.Decimal) (domain.PlanParameters, error) {
	p := base.Clone()
	switch name {
	case domain.ParamAnnualUpdateRate:
		p.AnnualUpdateRate = value
	case domain.ParamPostContemplationAdjustmentRate:
		p.PostContemplationAdjustmentRate = value
	case domain.ParamAdministrationRate:
		p.AdministrationRate = value
	case domain.ParamReserveFundRate:
		p.ReserveFundRate = value
	case domain.ParamMaxEmbeddedPercentage:
		p.MaxEmbeddedPercentage = value
		p.EmbeddedBidEnabled = value.IsPositive()
	case domain.ParamAgioPercent:
		p.AgioPercent = value
	case domain.ParamContemplationMonth:
		p.ContemplationMonth = int(value.IntPart())
	default:
		return p, fmt.Errorf("%w: unknown sensitivity parameter %q", domain.ErrInvalidParameters, name)
	}
	return p, nil
}

func sensitivityMetrics(rows []domain.MonthlyRow, params domain.PlanParameters) domain.SensitivityMetrics {
	summary := Summarize(rows, params)
	m := domain.SensitivityMetrics{
		FirstInstallment:             summary.FirstInstallment,
		PostContemplationInstallment: summary.PostContemplationInstallment,
		AccessedAtContemplation:      summary.AccessedAtContemplation,
		TotalPaid:                    summary.TotalPaid,
	}
	if gain, err := CapitalGainAt(rows, params.ContemplationMonth, params.AgioPercent); err == nil {
		m.Profit = gain.Profit
		m.ROI = gain.ROI
	}
	return m
}

// summarizeSensitivity measures the max-min spread of ROI and first
// installment per parameter. Ties go to the alphabetically first name.
func summarizeSensitivity(results []domain.SensitivityResult, parameters []domain.SensitivityParameter) domain.SensitivitySummary {
	summary := domain.SensitivitySummary{
		ROISpread:         make(map[string]decimal.Decimal),
		InstallmentSpread: make(map[string]decimal.Decimal),
	}

	type bounds struct{ lo, hi decimal.Decimal }
	roi := map[string]*bounds{}
	inst := map[string]*bounds{}
	track := func(m map[string]*bounds, name string, v decimal.Decimal) {
		b, ok := m[name]
		if !ok {
			m[name] = &bounds{lo: v, hi: v}
			return
		}
		b.lo = decimal.Min(b.lo, v)
		b.hi = decimal.Max(b.hi, v)
	}
	for _, r := range results {
		track(roi, r.Parameter, r.Metrics.ROI)
		track(inst, r.Parameter, r.Metrics.FirstInstallment)
	}

	names := make([]string, 0, len(parameters))
	for _, p := range parameters {
		names = append(names, p.Name)
	}
	sort.Strings(names)

	best := decimal.NewFromInt(-1)
	for _, name := range names {
		if b, ok := roi[name]; ok {
			spread := b.hi.Sub(b.lo)
			summary.ROISpread[name] = spread
			if spread.GreaterThan(best) {
				best = spread
				summary.MostSensitiveParameter = name
			}
		}
		if b, ok := inst[name]; ok {
			summary.InstallmentSpread[name] = b.hi.Sub(b.lo)
		}
	}
	return summary
}
