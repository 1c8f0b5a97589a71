package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParameterValues(t *testing.T) {
	sa := NewSensitivityAnalyzer()

	values := sa.generateParameterValues(domain.SensitivityParameter{
		Name: domain.ParamInflation, MinValue: d(1), MaxValue: d(3), Steps: 5,
	})
	require.Len(t, values, 5)
	expected := []float64{1, 1.5, 2, 2.5, 3}
	for i, v := range values {
		assert.True(t, v.Equal(d(expected[i])), "value %d = %s", i, v)
	}

	single := sa.generateParameterValues(domain.SensitivityParameter{
		Name: domain.ParamInflation, MinValue: d(2), MaxValue: d(4), Steps: 1,
	})
	require.Len(t, single, 1)
	assert.True(t, single[0].Equal(d(2)))
}

func TestAnalyzeSingleParameter_Inflation(t *testing.T) {
	sa := NewSensitivityAnalyzer()
	param := domain.SensitivityParameter{
		Name: domain.ParamInflation, MinValue: d(1), MaxValue: d(5), Steps: 5, Unit: "%",
	}

	analysis, err := sa.AnalyzeSingleParameter(context.Background(), "base", scenarioA(), param)
	require.NoError(t, err)

	assert.Equal(t, "single", analysis.AnalysisType)
	assert.Equal(t, "base", analysis.PlanName)
	require.Len(t, analysis.Sweeps, 1)
	sweep := analysis.Sweeps[0]
	require.Len(t, sweep.Points, 5)
	assert.True(t, sweep.Parameter.BaseValue.Equal(d(2.5)), "Base value defaults to the plan's value")

	for i := 1; i < len(sweep.Points); i++ {
		assert.True(t, sweep.Points[i].FinalBalance.LessThanOrEqual(sweep.Points[i-1].FinalBalance),
			"Higher inflation should never leave more money")
	}
	assert.True(t, sweep.Score.IsPositive())
	assert.Equal(t, domain.ParamInflation, analysis.Summary.MostSensitiveParameter)
	assert.NotEmpty(t, analysis.Summary.RiskLevel)
	assert.NotEmpty(t, analysis.Summary.Recommendations)
}

func TestAnalyzeSingleParameter_RetirementAgeRoundsToWholeYears(t *testing.T) {
	sa := NewSensitivityAnalyzer()
	param := domain.SensitivityParameter{
		Name: domain.ParamRetirementAge, MinValue: d(58), MaxValue: d(62), Steps: 3,
	}

	analysis, err := sa.AnalyzeSingleParameter(context.Background(), "", scenarioA(), param)
	require.NoError(t, err)

	points := analysis.Sweeps[0].Points
	require.Len(t, points, 3)
	assert.True(t, points[0].Value.Equal(decimal.NewFromInt(58)))
	assert.True(t, points[1].Value.Equal(decimal.NewFromInt(60)))
	assert.True(t, points[2].Value.Equal(decimal.NewFromInt(62)))
	assert.True(t, points[1].FinalBalanceChange.IsZero(), "The point at the base value matches the base plan")
}

func TestAnalyzeMultipleParameters_Common(t *testing.T) {
	sa := NewSensitivityAnalyzer()
	sa.Workers = 2
	base := scenarioA()

	analysis, err := sa.AnalyzeMultipleParameters(context.Background(), "base", base, domain.CommonSensitivityParameters(base))
	require.NoError(t, err)

	assert.Equal(t, "multi", analysis.AnalysisType)
	assert.Len(t, analysis.Sweeps, 5)
	assert.Len(t, analysis.Summary.SensitivityScores, 5)
	assert.Contains(t, analysis.Summary.SensitivityScores, analysis.Summary.MostSensitiveParameter)
	assert.True(t, analysis.Base.FundsLast)
}

func TestAnalyzeMultipleParameters_Errors(t *testing.T) {
	sa := NewSensitivityAnalyzer()
	ctx := context.Background()

	_, err := sa.AnalyzeMultipleParameters(ctx, "", scenarioA(), nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "Empty parameter list is rejected")

	_, err = sa.AnalyzeSingleParameter(ctx, "", scenarioA(), domain.SensitivityParameter{Name: "salary", MinValue: d(1), MaxValue: d(2), Steps: 2})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "Unknown parameter is rejected")

	_, err = sa.AnalyzeSingleParameter(ctx, "", scenarioA(), domain.SensitivityParameter{Name: domain.ParamInflation, MinValue: d(5), MaxValue: d(2), Steps: 2})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "Inverted range is rejected")

	_, err = sa.AnalyzeSingleParameter(ctx, "", scenarioA(), domain.SensitivityParameter{Name: domain.ParamInflation, MinValue: d(1), MaxValue: d(2), Steps: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "Zero steps is rejected")

	_, err = sa.AnalyzeSingleParameter(ctx, "", scenarioA(), domain.SensitivityParameter{Name: domain.ParamInflation, MinValue: d(1), MaxValue: d(2), Steps: MaxSweepSteps + 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "Oversized sweep is rejected")

	_, err = sa.AnalyzeSingleParameter(ctx, "", scenarioA(), domain.SensitivityParameter{Name: domain.ParamInflation, MinValue: d(1), MaxValue: d(2), Steps: 100_000_000})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "Steps are checked before any allocation")

	many := make([]domain.SensitivityParameter, MaxSweepParameters+1)
	for i := range many {
		many[i] = domain.SensitivityParameter{Name: domain.ParamInflation, MinValue: d(1), MaxValue: d(2), Steps: 2}
	}
	_, err = sa.AnalyzeMultipleParameters(ctx, "", scenarioA(), many)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "Too many sweeps are rejected")
}

func TestAnalyzeSingleParameter_MaxSteps(t *testing.T) {
	analysis, err := NewSensitivityAnalyzer().AnalyzeSingleParameter(context.Background(), "", scenarioA(),
		domain.SensitivityParameter{Name: domain.ParamInflation, MinValue: d(0), MaxValue: d(10), Steps: MaxSweepSteps})
	require.NoError(t, err)
	require.Len(t, analysis.Sweeps, 1)
	assert.Len(t, analysis.Sweeps[0].Points, MaxSweepSteps)
}

func TestCalculateSensitivitySummary_FailureRate(t *testing.T) {
	sweeps := []domain.ParameterSweep{
		{
			Parameter: domain.SensitivityParameter{Name: domain.ParamInflation},
			Score:     d(10),
			Points:    []domain.SensitivityPoint{{FundsLast: true}, {FundsLast: false}},
		},
		{
			Parameter: domain.SensitivityParameter{Name: domain.ParamRetirementAge},
			Score:     d(40),
			Points:    []domain.SensitivityPoint{{FundsLast: false}, {FundsLast: false}},
		},
	}

	summary := calculateSensitivitySummary(sweeps)
	assert.Equal(t, domain.ParamRetirementAge, summary.MostSensitiveParameter)
	assert.True(t, summary.FailureRate.Equal(d(75)))
	assert.Equal(t, "CRITICAL", summary.RiskLevel)
}
