package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/shopspring/decimal"
)

// OptimizeMultiDimensional runs optimization across multiple targets and compares results
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	base calculation.SimulationInput,
	constraints Constraints,
	goals []OptimizationGoal,
) (*MultiDimensionalResult, error) {

	if err := constraints.Validate(base.Parameters.TermMonths); err != nil {
		return nil, err
	}

	var results []OptimizationResult

	for _, goal := range goals {
		targets := []OptimizationTarget{OptimizeContemplation, OptimizeEmbeddedBid}
		if goal == GoalMatchROI {
			targets = append([]OptimizationTarget{OptimizeAgio}, targets...)
		}

		for _, target := range targets {
			req := OptimizationRequest{
				Base:          base,
				Target:        target,
				Goal:          goal,
				Constraints:   constraints,
				MaxIterations: s.Options.MaxIterations,
				Tolerance:     s.Options.Tolerance,
			}

			result, err := s.Optimize(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				s.CalcEngine.Logger.Warnf("optimize %s/%s for %s: %v", target, goal, base.Name, err)
				continue
			}

			if result != nil && result.Success {
				results = append(results, *result)
			}
		}
	}

	if len(results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_multi_dimensional",
			Message:   "no successful optimizations found",
		}
	}

	mdResult := &MultiDimensionalResult{
		BaseName: base.Name,
		Results:  results,
	}

	for i := range results {
		r := &results[i]
		if mdResult.BestByROI == nil || r.CapitalGain.ROI.GreaterThan(mdResult.BestByROI.CapitalGain.ROI) {
			mdResult.BestByROI = r
		}
		if mdResult.BestByCost == nil || r.Summary.TotalPaid.LessThan(mdResult.BestByCost.Summary.TotalPaid) {
			mdResult.BestByCost = r
		}
		if mdResult.BestByCredit == nil || r.CapitalGain.AccessedCredit.GreaterThan(mdResult.BestByCredit.CapitalGain.AccessedCredit) {
			mdResult.BestByCredit = r
		}
	}

	mdResult.Recommendations = s.generateMultiDimensionalRecommendations(mdResult)

	return mdResult, nil
}

// generateMultiDimensionalRecommendations creates recommendations from multi-dimensional results
func (s *Solver) generateMultiDimensionalRecommendations(result *MultiDimensionalResult) []string {
	var recommendations []string
	hundred := decimal.NewFromInt(100)

	if result.BestByROI != nil {
		rec := fmt.Sprintf("To maximize ROI (%s%%): Optimize %s",
			result.BestByROI.CapitalGain.ROI.Mul(hundred).StringFixed(2),
			result.BestByROI.Target)
		rec += describeOptimum(result.BestByROI)
		recommendations = append(recommendations, rec)
	}

	if result.BestByCost != nil {
		rec := fmt.Sprintf("To minimize total paid (R$ %s): Optimize %s",
			result.BestByCost.Summary.TotalPaid.StringFixed(2),
			result.BestByCost.Target)
		rec += describeOptimum(result.BestByCost)
		recommendations = append(recommendations, rec)
	}

	if result.BestByCredit != nil {
		rec := fmt.Sprintf("To maximize accessed credit (R$ %s): Optimize %s",
			result.BestByCredit.CapitalGain.AccessedCredit.StringFixed(2),
			result.BestByCredit.Target)
		rec += describeOptimum(result.BestByCredit)
		recommendations = append(recommendations, rec)
	}

	if result.BestByROI != nil && result.BestByCredit != nil &&
		result.BestByROI.Target == result.BestByCredit.Target {
		recommendations = append(recommendations,
			fmt.Sprintf("⭐ Optimizing %s provides both high ROI AND the most credit",
				result.BestByROI.Target))
	}

	return recommendations
}

func describeOptimum(r *OptimizationResult) string {
	switch {
	case r.OptimalAgio != nil:
		return fmt.Sprintf(" (sell at a %s%% ágio)", r.OptimalAgio.Mul(decimal.NewFromInt(100)).StringFixed(2))
	case r.OptimalContemplationMonth != nil:
		return fmt.Sprintf(" (contemplation at month %d)", *r.OptimalContemplationMonth)
	case r.OptimalEmbeddedPercentage != nil:
		return fmt.Sprintf(" (%s%% embedded bid)", r.OptimalEmbeddedPercentage.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	return ""
}

// OptimizeAllTargets is a convenience method to optimize all targets with a single goal
func (s *Solver) OptimizeAllTargets(
	ctx context.Context,
	base calculation.SimulationInput,
	constraints Constraints,
	goal OptimizationGoal,
) (*MultiDimensionalResult, error) {
	return s.OptimizeMultiDimensional(ctx, base, constraints, []OptimizationGoal{goal})
}
