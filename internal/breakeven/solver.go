package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/rgehrsitz/consorcio/internal/transform"
	"github.com/shopspring/decimal"
)

// Solver searches plan parameters for break-even and best-outcome points
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Base.Parameters.Validate(); err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "invalid base plan", Cause: err}
	}
	if err := req.Constraints.Validate(req.Base.Parameters.TermMonths); err != nil {
		return nil, err
	}
	if req.Goal == GoalMatchROI && req.Constraints.TargetROI == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "match_roi goal requires a target ROI"}
	}

	// Apply defaults
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	switch req.Target {
	case OptimizeAgio:
		return s.optimizeAgio(ctx, req)
	case OptimizeContemplation:
		return s.optimizeContemplation(ctx, req)
	case OptimizeEmbeddedBid:
		return s.optimizeEmbeddedBid(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
}

// optimizeAgio binary-searches the ágio that reaches the target ROI.
// ROI grows with the ágio, so the bounds are checked first.
func (s *Solver) optimizeAgio(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.Goal != GoalMatchROI {
		return nil, &BreakEvenError{
			Operation: "optimize_agio",
			Message:   fmt.Sprintf("goal %s is not supported for the ágio, use %s", req.Goal, GoalMatchROI),
		}
	}
	target := *req.Constraints.TargetROI

	minAgio := decimal.Zero
	maxAgio := decimal.NewFromInt(1)
	if req.Constraints.MinAgio != nil {
		minAgio = *req.Constraints.MinAgio
	}
	if req.Constraints.MaxAgio != nil {
		maxAgio = *req.Constraints.MaxAgio
	}

	base, err := s.evaluate(ctx, req, req.Base.Parameters)
	if err != nil {
		return nil, err
	}
	atAgio := func(agio decimal.Decimal) (*OptimizationResult, error) {
		params, err := transform.ApplyTransforms(req.Base.Parameters, []transform.PlanTransform{
			&transform.SetRate{Rate: transform.RateAgio, Value: agio},
		})
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_agio", Message: "failed to apply ágio transform", Cause: err}
		}
		result, err := s.evaluate(ctx, req, params)
		if err != nil {
			return nil, err
		}
		result.OptimalAgio = &agio
		return result, nil
	}

	iterations := 0
	high, err := atAgio(maxAgio)
	if err != nil {
		return nil, err
	}
	iterations++
	if high.CapitalGain.ROI.LessThan(target) {
		return nil, &BreakEvenError{
			Operation: "optimize_agio",
			Message: fmt.Sprintf("target ROI %s is not reachable with an ágio up to %s (ROI %s)",
				target.StringFixed(4), maxAgio.StringFixed(4), high.CapitalGain.ROI.StringFixed(4)),
		}
	}
	low, err := atAgio(minAgio)
	if err != nil {
		return nil, err
	}
	iterations++
	if low.CapitalGain.ROI.GreaterThanOrEqual(target) {
		low.Iterations = iterations
		low.Success = true
		low.ConvergenceInfo = "Target already met at the minimum ágio"
		return s.finish(req, low, base), nil
	}

	var result *OptimizationResult
	for iterations < req.MaxIterations {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		testAgio := minAgio.Add(maxAgio).Div(decimal.NewFromInt(2))
		result, err = atAgio(testAgio)
		if err != nil {
			return nil, err
		}
		result.Iterations = iterations

		diff := result.CapitalGain.ROI.Sub(target)
		if diff.Abs().LessThan(req.Tolerance) {
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Converged to target ROI within %s", req.Tolerance.String())
			return s.finish(req, result, base), nil
		}
		if diff.IsNegative() {
			minAgio = testAgio
		} else {
			maxAgio = testAgio
		}

		if maxAgio.Sub(minAgio).LessThan(decimal.New(1, -8)) {
			result.Success = true
			result.ConvergenceInfo = "Binary search converged"
			return s.finish(req, result, base), nil
		}
	}

	if result == nil {
		result = low
	}
	result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	return s.finish(req, result, base), nil
}

// optimizeContemplation scans every contemplation month in the bounds.
// For match_roi the latest month still reaching the target wins.
func (s *Solver) optimizeContemplation(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	minMonth := 1
	maxMonth := req.Base.Parameters.TermMonths
	if req.Constraints.MinContemplationMonth != nil {
		minMonth = *req.Constraints.MinContemplationMonth
	}
	if req.Constraints.MaxContemplationMonth != nil {
		maxMonth = *req.Constraints.MaxContemplationMonth
	}

	base, err := s.evaluate(ctx, req, req.Base.Parameters)
	if err != nil {
		return nil, err
	}

	var best *OptimizationResult
	iterations := 0
	for month := minMonth; month <= maxMonth; month++ {
		iterations++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		params, err := transform.ApplyTransforms(req.Base.Parameters, []transform.PlanTransform{
			&transform.SetContemplation{Month: month},
		})
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_contemplation", Message: "failed to apply contemplation transform", Cause: err}
		}
		result, err := s.evaluate(ctx, req, params)
		if err != nil {
			return nil, err
		}
		result.OptimalContemplationMonth = &month

		if s.accept(req, result, best) {
			best = result
		}
	}

	if best == nil {
		return nil, &BreakEvenError{
			Operation: "optimize_contemplation",
			Message: fmt.Sprintf("no contemplation month between %d and %d reaches ROI %s",
				minMonth, maxMonth, req.Constraints.TargetROI.StringFixed(4)),
		}
	}
	best.Iterations = iterations
	best.Success = true
	best.ConvergenceInfo = fmt.Sprintf("Scanned months %d to %d", minMonth, maxMonth)
	return s.finish(req, best, base), nil
}

// optimizeEmbeddedBid scans the embedded bid share on an even grid.
// For match_roi the largest share still reaching the target wins.
func (s *Solver) optimizeEmbeddedBid(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	minPct := decimal.Zero
	maxPct := decimal.NewFromFloat(0.5)
	if req.Constraints.MinEmbeddedPercentage != nil {
		minPct = *req.Constraints.MinEmbeddedPercentage
	}
	if req.Constraints.MaxEmbeddedPercentage != nil {
		maxPct = *req.Constraints.MaxEmbeddedPercentage
	}

	base, err := s.evaluate(ctx, req, req.Base.Parameters)
	if err != nil {
		return nil, err
	}

	steps := s.Options.GridResolution
	if steps < 1 {
		steps = 1
	}
	step := maxPct.Sub(minPct).Div(decimal.NewFromInt(int64(steps)))

	var best *OptimizationResult
	iterations := 0
	for i := 0; i <= steps; i++ {
		iterations++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pct := minPct.Add(step.Mul(decimal.NewFromInt(int64(i))))
		var bid transform.PlanTransform = &transform.EnableEmbeddedBid{Percentage: pct}
		if pct.IsZero() {
			bid = &transform.DisableEmbeddedBid{}
		}
		params, err := transform.ApplyTransforms(req.Base.Parameters, []transform.PlanTransform{bid})
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_embedded_bid", Message: "failed to apply bid transform", Cause: err}
		}
		result, err := s.evaluate(ctx, req, params)
		if err != nil {
			return nil, err
		}
		result.OptimalEmbeddedPercentage = &pct

		if s.accept(req, result, best) {
			best = result
		}
	}

	if best == nil {
		return nil, &BreakEvenError{
			Operation: "optimize_embedded_bid",
			Message: fmt.Sprintf("no embedded bid between %s and %s reaches ROI %s",
				minPct.StringFixed(4), maxPct.StringFixed(4), req.Constraints.TargetROI.StringFixed(4)),
		}
	}
	best.Iterations = iterations
	best.Success = true
	best.ConvergenceInfo = fmt.Sprintf("Scanned %d grid points", steps+1)
	return s.finish(req, best, base), nil
}

// accept reports whether a scanned candidate replaces the current best.
// Scans run in ascending order, so for match_roi any qualifying candidate
// is later than the current one.
func (s *Solver) accept(req OptimizationRequest, candidate, best *OptimizationResult) bool {
	if req.Goal == GoalMatchROI {
		return candidate.CapitalGain.ROI.GreaterThanOrEqual(*req.Constraints.TargetROI)
	}
	return best == nil || s.isBetter(candidate, best, req.Goal)
}

// evaluate projects params and measures the capital gain at the target month
func (s *Solver) evaluate(ctx context.Context, req OptimizationRequest, params domain.PlanParameters) (*OptimizationResult, error) {
	in := req.Base
	in.Parameters = params
	in.Leverage = nil

	sim, err := s.CalcEngine.RunSimulation(ctx, in)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "evaluate",
			Message:   "failed to calculate plan",
			Cause:     err,
		}
	}

	gain := sim.CapitalGain
	if month := req.Constraints.TargetMonth; month != 0 {
		gain, err = calculation.CapitalGainAt(sim.Rows, month, params.AgioPercent)
		if err != nil {
			return nil, &BreakEvenError{Operation: "evaluate", Message: "failed to measure capital gain", Cause: err}
		}
	}

	return &OptimizationResult{
		Request:     req,
		Target:      req.Target,
		Goal:        req.Goal,
		Summary:     sim.Summary,
		CapitalGain: gain,
	}, nil
}

// finish fills in the comparison to the unmodified plan
func (s *Solver) finish(req OptimizationRequest, result, base *OptimizationResult) *OptimizationResult {
	result.Request = req
	result.BaseCapitalGain = base.CapitalGain
	result.ROIDiffFromBase = result.CapitalGain.ROI.Sub(base.CapitalGain.ROI)
	result.TotalPaidDiffFromBase = result.Summary.TotalPaid.Sub(base.Summary.TotalPaid)
	return result
}

// isBetter compares two results based on the optimization goal
func (s *Solver) isBetter(a, b *OptimizationResult, goal OptimizationGoal) bool {
	switch goal {
	case GoalMaximizeROI:
		return a.CapitalGain.ROI.GreaterThan(b.CapitalGain.ROI)
	case GoalMinimizeCost:
		return a.Summary.TotalPaid.LessThan(b.Summary.TotalPaid)
	case GoalMaximizeCredit:
		return a.CapitalGain.AccessedCredit.GreaterThan(b.CapitalGain.AccessedCredit)
	default:
		return false
	}
}
