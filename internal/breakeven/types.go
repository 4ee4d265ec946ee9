package breakeven

import (
	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to optimize
type OptimizationTarget string

const (
	OptimizeAgio          OptimizationTarget = "agio"
	OptimizeContemplation OptimizationTarget = "contemplation_month"
	OptimizeEmbeddedBid   OptimizationTarget = "embedded_bid"
	OptimizeAll           OptimizationTarget = "all"
)

// OptimizationGoal defines what outcome to achieve
type OptimizationGoal string

const (
	GoalMatchROI       OptimizationGoal = "match_roi"       // Reach a target ROI at the target month
	GoalMaximizeROI    OptimizationGoal = "maximize_roi"    // Highest resale ROI
	GoalMinimizeCost   OptimizationGoal = "minimize_cost"   // Lowest total paid over the term
	GoalMaximizeCredit OptimizationGoal = "maximize_credit" // Most credit accessed at contemplation
)

// ParseTarget validates a target name
func ParseTarget(s string) (OptimizationTarget, error) {
	switch t := OptimizationTarget(s); t {
	case OptimizeAgio, OptimizeContemplation, OptimizeEmbeddedBid, OptimizeAll:
		return t, nil
	}
	return "", &BreakEvenError{Operation: "parse_target", Message: "unknown optimization target " + s}
}

// ParseGoal validates a goal name
func ParseGoal(s string) (OptimizationGoal, error) {
	switch g := OptimizationGoal(s); g {
	case GoalMatchROI, GoalMaximizeROI, GoalMinimizeCost, GoalMaximizeCredit:
		return g, nil
	}
	return "", &BreakEvenError{Operation: "parse_goal", Message: "unknown optimization goal " + s}
}

// Constraints define bounds for optimization parameters
type Constraints struct {
	// Ágio bounds (as decimal, e.g., 0.2 for 20%)
	MinAgio *decimal.Decimal `json:"min_agio,omitempty"`
	MaxAgio *decimal.Decimal `json:"max_agio,omitempty"`

	// Contemplation month bounds
	MinContemplationMonth *int `json:"min_contemplation_month,omitempty"`
	MaxContemplationMonth *int `json:"max_contemplation_month,omitempty"`

	// Embedded bid bounds
	MinEmbeddedPercentage *decimal.Decimal `json:"min_embedded_percentage,omitempty"`
	MaxEmbeddedPercentage *decimal.Decimal `json:"max_embedded_percentage,omitempty"`

	// ROI to reach for the match_roi goal
	TargetROI *decimal.Decimal `json:"target_roi,omitempty"`

	// Month the quota is sold; zero means the contemplation month
	TargetMonth int `json:"target_month,omitempty"`
}

// DefaultConstraints returns sensible default constraints for a plan of termMonths
func DefaultConstraints(termMonths int) Constraints {
	minAgio := decimal.Zero
	maxAgio := decimal.NewFromInt(1)
	minMonth := 1
	maxMonth := termMonths
	minBid := decimal.Zero
	maxBid := decimal.NewFromFloat(0.5)

	return Constraints{
		MinAgio:               &minAgio,
		MaxAgio:               &maxAgio,
		MinContemplationMonth: &minMonth,
		MaxContemplationMonth: &maxMonth,
		MinEmbeddedPercentage: &minBid,
		MaxEmbeddedPercentage: &maxBid,
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	Base          calculation.SimulationInput
	Target        OptimizationTarget
	Goal          OptimizationGoal
	Constraints   Constraints
	MaxIterations int             // Maximum solver iterations
	Tolerance     decimal.Decimal // ROI tolerance for binary search
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"-"`
	Target          OptimizationTarget  `json:"target"`
	Goal            OptimizationGoal    `json:"goal"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info,omitempty"`

	// Optimized parameters
	OptimalAgio               *decimal.Decimal `json:"optimal_agio,omitempty"`
	OptimalContemplationMonth *int             `json:"optimal_contemplation_month,omitempty"`
	OptimalEmbeddedPercentage *decimal.Decimal `json:"optimal_embedded_percentage,omitempty"`

	// Results at optimal parameters
	Summary     domain.ScheduleSummary `json:"summary"`
	CapitalGain domain.CapitalGain     `json:"capital_gain"`

	// Comparison to base
	BaseCapitalGain       domain.CapitalGain `json:"base_capital_gain"`
	ROIDiffFromBase       decimal.Decimal    `json:"roi_diff_from_base"`
	TotalPaidDiffFromBase decimal.Decimal    `json:"total_paid_diff_from_base"`
}

// MultiDimensionalResult contains results when optimizing multiple parameters
type MultiDimensionalResult struct {
	BaseName        string               `json:"base_name"`
	Results         []OptimizationResult `json:"results"`
	BestByROI       *OptimizationResult  `json:"best_by_roi,omitempty"`
	BestByCost      *OptimizationResult  `json:"best_by_cost,omitempty"`
	BestByCredit    *OptimizationResult  `json:"best_by_credit,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	GridResolution int             // Points per dimension for continuous grid scans
	Tolerance      decimal.Decimal // ROI convergence tolerance
	MaxIterations  int             // Maximum binary search iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		GridResolution: 20,
		Tolerance:      decimal.NewFromFloat(0.0001),
		MaxIterations:  60,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate(termMonths int) error {
	if c.MinAgio != nil && c.MaxAgio != nil && c.MinAgio.GreaterThan(*c.MaxAgio) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_agio cannot be greater than max_agio",
		}
	}
	if c.MinAgio != nil && c.MinAgio.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_agio cannot be negative",
		}
	}

	if c.MinContemplationMonth != nil && c.MaxContemplationMonth != nil {
		if *c.MinContemplationMonth > *c.MaxContemplationMonth {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "min_contemplation_month cannot be after max_contemplation_month",
			}
		}
	}
	if c.MinContemplationMonth != nil && *c.MinContemplationMonth < 1 {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "contemplation months start at 1",
		}
	}
	if c.MaxContemplationMonth != nil && *c.MaxContemplationMonth > termMonths {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_contemplation_month cannot exceed the term",
		}
	}

	if c.MinEmbeddedPercentage != nil && c.MaxEmbeddedPercentage != nil &&
		c.MinEmbeddedPercentage.GreaterThan(*c.MaxEmbeddedPercentage) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_embedded_percentage cannot be greater than max_embedded_percentage",
		}
	}
	if c.MaxEmbeddedPercentage != nil && c.MaxEmbeddedPercentage.GreaterThan(decimal.NewFromInt(1)) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "embedded percentage cannot exceed 1",
		}
	}

	if c.TargetMonth < 0 || c.TargetMonth > termMonths {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "target_month must be within the term",
		}
	}

	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
