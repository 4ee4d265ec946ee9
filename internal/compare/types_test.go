package compare

import (
	"testing"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleResult(name string, roi, totalPaid, accessed, first string) ComparisonResult {
	return ComparisonResult{
		Name:             name,
		ROI:              d(roi),
		TotalPaid:        d(totalPaid),
		AccessedCredit:   d(accessed),
		FirstInstallment: d(first),
	}
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	sim := &domain.SimulationResult{
		Name:        "casa-60",
		Description: "reference plan",
		Parameters: domain.PlanParameters{
			ContemplationMonth: 60,
			EmbeddedBidEnabled: true,
		},
		Summary: domain.ScheduleSummary{
			FirstInstallment:             d("1600"),
			PostContemplationInstallment: d("2100.5"),
			AccessedAtContemplation:      d("285000"),
			TotalPaid:                    d("450000"),
		},
		CapitalGain: domain.CapitalGain{
			PaidSoFar: d("96000"),
			Profit:    d("-47550"),
			ROI:       d("-0.4953125"),
		},
	}

	r := NewMetricsCalculator().CalculateMetrics(sim)

	assert.Equal(t, "casa-60", r.Name)
	assert.Equal(t, "reference plan", r.Description)
	assert.Same(t, sim, r.Result)
	assert.Equal(t, 60, r.ContemplationMonth)
	assert.True(t, r.EmbeddedBid)
	assert.Equal(t, "full", r.Regime, "an unset regime reports as full")
	assert.True(t, d("1600").Equal(r.FirstInstallment))
	assert.True(t, d("2100.5").Equal(r.PostContemplationInstallment))
	assert.True(t, d("285000").Equal(r.AccessedCredit))
	assert.True(t, d("450000").Equal(r.TotalPaid))
	assert.True(t, d("96000").Equal(r.PaidAtContemplation))
	assert.True(t, d("-47550").Equal(r.Profit))
	assert.True(t, d("-0.4953125").Equal(r.ROI))
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	base := sampleResult("base", "-0.6", "120000", "120000", "10000")
	variant := sampleResult("early", "-0.2", "118000", "126000", "9000")

	r := NewMetricsCalculator().CalculateComparison(variant, base)

	assert.True(t, d("0.4").Equal(r.ROIDiffFromBase), "got %s", r.ROIDiffFromBase)
	assert.True(t, d("-2000").Equal(r.TotalPaidDiffFromBase))
	assert.True(t, d("6000").Equal(r.AccessedCreditDiffFromBase))
	assert.True(t, d("-1000").Equal(r.FirstInstallmentDiffFromBase))
}

func TestGenerateRecommendations(t *testing.T) {
	mc := NewMetricsCalculator()
	base := sampleResult("base", "-0.6", "120000", "120000", "10000")
	alts := []ComparisonResult{
		mc.CalculateComparison(sampleResult("early", "-0.2", "121000", "120000", "10000"), base),
		mc.CalculateComparison(sampleResult("cheap", "-0.7", "110000", "100000", "9000"), base),
		mc.CalculateComparison(sampleResult("indexed", "-0.65", "130000", "140000", "11000"), base),
	}

	recs := GenerateRecommendations(&ComparisonSet{BaseName: "base", BaseResult: &base, AlternativeResults: alts})

	require.Len(t, recs, 4)
	assert.Equal(t, "Best ROI: early returns -20.0% at contemplation (+40.0 pp over base)", recs[0])
	assert.Equal(t, "Lowest Cost: cheap pays R$ 10000 less over the term", recs[1])
	assert.Equal(t, "Most Credit: indexed accesses R$ 20000 more at contemplation", recs[2])
	assert.Equal(t, "Lightest Start: cheap starts with an installment of R$ 9000.00", recs[3])
}

func TestGenerateRecommendations_EmptyAlternatives(t *testing.T) {
	base := sampleResult("base", "-0.6", "120000", "120000", "10000")

	assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: &base}))
	assert.Empty(t, GenerateRecommendations(&ComparisonSet{}))
}

func TestGenerateRecommendations_NoBetterThanBase(t *testing.T) {
	mc := NewMetricsCalculator()
	base := sampleResult("base", "-0.2", "100000", "150000", "8000")
	alts := []ComparisonResult{
		mc.CalculateComparison(sampleResult("worse", "-0.5", "130000", "120000", "10000"), base),
		mc.CalculateComparison(sampleResult("equal", "-0.2", "100000", "150000", "8000"), base),
	}

	recs := GenerateRecommendations(&ComparisonSet{BaseResult: &base, AlternativeResults: alts})
	assert.Empty(t, recs, "ties and regressions never beat the base")
}
