package compare

import (
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single plan variant with calculated metrics
type ComparisonResult struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Result      *domain.SimulationResult `json:"-"`

	// Plan specifics
	ContemplationMonth int    `json:"contemplationMonth"`
	EmbeddedBid        bool   `json:"embeddedBid"`
	Regime             string `json:"regime"`

	// Key Metrics
	FirstInstallment             decimal.Decimal `json:"firstInstallment"`
	PostContemplationInstallment decimal.Decimal `json:"postContemplationInstallment"`
	AccessedCredit               decimal.Decimal `json:"accessedCredit"`
	TotalPaid                    decimal.Decimal `json:"totalPaid"`
	PaidAtContemplation          decimal.Decimal `json:"paidAtContemplation"`
	Profit                       decimal.Decimal `json:"profit"`
	ROI                          decimal.Decimal `json:"roi"`

	// Comparison to Base
	ROIDiffFromBase              decimal.Decimal `json:"roiDiffFromBase"`
	TotalPaidDiffFromBase        decimal.Decimal `json:"totalPaidDiffFromBase"`
	AccessedCreditDiffFromBase   decimal.Decimal `json:"accessedCreditDiffFromBase"`
	FirstInstallmentDiffFromBase decimal.Decimal `json:"firstInstallmentDiffFromBase"`
}

// ComparisonSet represents a base plan and its compared variants
type ComparisonSet struct {
	BaseName           string             `json:"baseName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// MetricsCalculator extracts key metrics from simulation results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a simulation result
func (mc *MetricsCalculator) CalculateMetrics(result *domain.SimulationResult) ComparisonResult {
	regime := string(result.Parameters.InstallmentRegime)
	if regime == "" {
		regime = string(domain.RegimeFull)
	}

	return ComparisonResult{
		Name:                         result.Name,
		Description:                  result.Description,
		Result:                       result,
		ContemplationMonth:           result.Parameters.ContemplationMonth,
		EmbeddedBid:                  result.Parameters.EmbeddedBidEnabled,
		Regime:                       regime,
		FirstInstallment:             result.Summary.FirstInstallment,
		PostContemplationInstallment: result.Summary.PostContemplationInstallment,
		AccessedCredit:               result.Summary.AccessedAtContemplation,
		TotalPaid:                    result.Summary.TotalPaid,
		PaidAtContemplation:          result.CapitalGain.PaidSoFar,
		Profit:                       result.CapitalGain.Profit,
		ROI:                          result.CapitalGain.ROI,
	}
}

// CalculateComparison computes the deltas of a variant against the base
func (mc *MetricsCalculator) CalculateComparison(variant, base ComparisonResult) ComparisonResult {
	variant.ROIDiffFromBase = variant.ROI.Sub(base.ROI)
	variant.TotalPaidDiffFromBase = variant.TotalPaid.Sub(base.TotalPaid)
	variant.AccessedCreditDiffFromBase = variant.AccessedCredit.Sub(base.AccessedCredit)
	variant.FirstInstallmentDiffFromBase = variant.FirstInstallment.Sub(base.FirstInstallment)
	return variant
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	best := func(better func(a, b *ComparisonResult) bool) *ComparisonResult {
		winner := base
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if better(alt, winner) {
				winner = alt
			}
		}
		return winner
	}

	if w := best(func(a, b *ComparisonResult) bool { return a.ROI.GreaterThan(b.ROI) }); w != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Best ROI: %s returns %s%% at contemplation (%s pp over base)",
				w.Name, w.ROI.Mul(hundred).StringFixed(1), signed(w.ROIDiffFromBase.Mul(hundred), 1)))
	}

	if w := best(func(a, b *ComparisonResult) bool { return a.TotalPaid.LessThan(b.TotalPaid) }); w != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest Cost: %s pays R$ %s less over the term",
				w.Name, w.TotalPaidDiffFromBase.Neg().StringFixed(0)))
	}

	if w := best(func(a, b *ComparisonResult) bool { return a.AccessedCredit.GreaterThan(b.AccessedCredit) }); w != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Most Credit: %s accesses R$ %s more at contemplation",
				w.Name, w.AccessedCreditDiffFromBase.StringFixed(0)))
	}

	if w := best(func(a, b *ComparisonResult) bool { return a.FirstInstallment.LessThan(b.FirstInstallment) }); w != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Lightest Start: %s starts with an installment of R$ %s",
				w.Name, w.FirstInstallment.StringFixed(2)))
	}

	return recommendations
}

var hundred = decimal.NewFromInt(100)

// signed renders d with an explicit + for positive values
func signed(d decimal.Decimal, places int32) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(places)
	}
	return d.StringFixed(places)
}
