package calculation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/rgehrsitz/consorcio/internal/metrics"
	"github.com/shopspring/decimal"
)

// Logger is the minimal logging surface the engine writes to
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// CalculationEngine runs named simulations: projection, summary and derived metrics
type CalculationEngine struct {
	Logger Logger
	Debug  bool // log every projected row
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger installs l, or a no-op logger when l is nil
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// SimulationInput is a resolved plan ready to run
type SimulationInput struct {
	Name        string
	Description string
	Parameters  domain.PlanParameters
	Leverage    *domain.LeverageInputs
}

// RunSimulation projects the plan and derives the summary, the capital gain
// at the contemplation month and, when requested, the leverage outcome.
func (ce *CalculationEngine) RunSimulation(ctx context.Context, in SimulationInput) (*domain.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := ce.project(in.Name, in.Parameters)
	if err != nil {
		return nil, err
	}

	result := &domain.SimulationResult{
		Name:        in.Name,
		Description: in.Description,
		Parameters:  in.Parameters.Clone(),
		Rows:        rows,
		Summary:     Summarize(rows, in.Parameters),
	}

	gain, err := CapitalGainAt(rows, in.Parameters.ContemplationMonth, in.Parameters.AgioPercent)
	if err != nil {
		return nil, fmt.Errorf("simulation %s: capital gain: %w", in.Name, err)
	}
	result.CapitalGain = gain

	if in.Leverage != nil {
		lev, err := LeverageAt(rows, *in.Leverage)
		if err != nil {
			return nil, fmt.Errorf("simulation %s: leverage: %w", in.Name, err)
		}
		result.Leverage = &lev
		ce.Logger.Debugf("simulation %s: %d properties, cash flow %s", in.Name, lev.PropertyCount, lev.CashFlow.StringFixed(2))
	}

	ce.Logger.Infof("simulation %s: %d months, first installment %s, ROI at month %d %s",
		in.Name, len(rows), result.Summary.FirstInstallment.StringFixed(2),
		gain.Month, gain.ROI.StringFixed(4))
	return result, nil
}

// project wraps Project with logging and metrics
func (ce *CalculationEngine) project(name string, params domain.PlanParameters) ([]domain.MonthlyRow, error) {
	start := time.Now()
	rows, err := Project(params)
	elapsed := time.Since(start)

	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, domain.ErrInvalidParameters) {
			result = metrics.ResultInvalid
		}
		metrics.ObserveProjection(result, params.TermMonths, elapsed)
		ce.Logger.Warnf("simulation %s rejected: %v", name, err)
		return nil, fmt.Errorf("simulation %s: %w", name, err)
	}
	metrics.ObserveProjection(metrics.ResultSuccess, params.TermMonths, elapsed)

	if ce.Debug {
		for _, r := range rows {
			ce.Logger.Debugf("%s m=%d phase=%s credit=%s accessed=%s installment=%s balance=%s",
				name, r.Month, r.Phase, r.CreditValue.StringFixed(2), r.AccessedCredit.StringFixed(2),
				r.InstallmentValue.StringFixed(2), r.OutstandingBalance.StringFixed(2))
		}
	}
	return rows, nil
}

// Summarize condenses a schedule into summary-card figures
func Summarize(rows []domain.MonthlyRow, params domain.PlanParameters) domain.ScheduleSummary {
	summary := domain.ScheduleSummary{
		ContemplationMonth: params.ContemplationMonth,
		TermMonths:         params.TermMonths,
	}
	if len(rows) == 0 {
		return summary
	}

	first := rows[0]
	last := rows[len(rows)-1]
	summary.FirstInstallment = first.InstallmentValue
	summary.FinalCredit = last.CreditValue
	summary.FinalBalance = last.OutstandingBalance
	summary.AdministrationCost = last.AdministrationTax

	maxInstallment := decimal.Zero
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.InstallmentValue)
		if r.InstallmentValue.GreaterThan(maxInstallment) {
			maxInstallment = r.InstallmentValue
		}
		if r.IsContemplationMonth {
			summary.CreditAtContemplation = r.CreditValue
			summary.AccessedAtContemplation = r.AccessedCredit
			summary.EmbeddedBidValue = r.CreditValue.Sub(r.AccessedCredit)
		}
		if r.Phase == domain.PhaseFirstPostMonth {
			summary.PostContemplationInstallment = r.InstallmentValue
		}
	}
	summary.MaxInstallment = maxInstallment
	summary.TotalPaid = total
	return summary
}
