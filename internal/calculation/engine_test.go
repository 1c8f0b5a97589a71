package calculation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func scenarioA() domain.PlanParameters {
	return domain.PlanParameters{
		Age:                   30,
		PreretirementStartAge: 55,
		RetirementAge:         60,
		LifeExpectancy:        85,
		CurrentSavings:        d(100000),
		MonthlyContribution:   d(500),
		AccumulationReturn:    d(7),
		PreretirementReturn:   d(5),
		PostRetirementReturn:  d(3),
		Inflation:             d(2.5),
		NeedExpense:           d(1500),
		WantExpense:           d(500),
	}
}

func TestEvaluate_ScenarioA(t *testing.T) {
	engine := NewCalculationEngine()
	result, err := engine.Evaluate(context.Background(), scenarioA())
	require.NoError(t, err, "Should evaluate without error")

	assert.InDelta(t, 4195.1352, result.FutureMonthlyExpenses.InexactFloat64(), 0.001, "2000 inflated 30 years at 2.5%%")
	assert.InDelta(t, 3146.3514, result.FutureNeedExpense.InexactFloat64(), 0.001)
	assert.InDelta(t, 1048.7838, result.FutureWantExpense.InexactFloat64(), 0.001)
	assert.True(t, result.FutureNeedExpense.Add(result.FutureWantExpense).Equal(result.FutureMonthlyExpenses))

	assert.Equal(t, domain.PhaseDurations{AccumulationYears: 25, PreretirementYears: 5, RetirementYears: 25}, result.Durations)
	assert.InDelta(t, 977577.6674, result.AccumulationEndBalance.InexactFloat64(), 0.01)
	assert.InDelta(t, 1288585.8248, result.RetirementStartBalance.InexactFloat64(), 0.01)

	require.Len(t, result.RetirementBalances, 25)
	assert.InDelta(t, 283287.7495, result.FinalBalance().InexactFloat64(), 0.05)
	assert.InDelta(t, 1719557.2368, result.TotalWithdrawn().InexactFloat64(), 0.05)
	assert.True(t, result.FundsLast)
	assert.Nil(t, result.DepletionAge)
	assert.Equal(t, domain.VerdictFundsLast, result.VerdictMessage())

	require.Len(t, result.Timeline, 56, "Ages 30 through 85 inclusive")
	assert.Equal(t, 30, result.Timeline[0].Age)
	assert.Equal(t, 85, result.Timeline[55].Age)
}

func TestEvaluate_ScenarioB_ZeroRetirementYears(t *testing.T) {
	params := scenarioA()
	params.RetirementAge = 85
	params.LifeExpectancy = 85

	result, err := EvaluatePlan(params)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Durations.RetirementYears)
	assert.Empty(t, result.RetirementBalances, "No retirement years produces an empty series")
	assert.Empty(t, result.CumulativeExpenses)
	assert.False(t, result.FundsLast, "An empty series is not evidence that funds last")
	assert.Nil(t, result.DepletionAge)

	last := result.Timeline[len(result.Timeline)-1]
	assert.Equal(t, 85, last.Age)
	assert.Nil(t, last.Balance)
	assert.Nil(t, last.CumulativeExpenses)
}

func TestEvaluate_ScenarioC_ZeroRates(t *testing.T) {
	params := scenarioA()
	params.AccumulationReturn = decimal.Zero
	params.PreretirementReturn = decimal.Zero
	params.PostRetirementReturn = decimal.Zero
	params.Inflation = decimal.Zero

	result, err := EvaluatePlan(params)
	require.NoError(t, err)

	// 25 years * 12 months * 500
	assert.True(t, result.AccumulationEndBalance.Equal(d(250000)), "got %s", result.AccumulationEndBalance)
	// plus 5 more years of contributions
	assert.True(t, result.RetirementStartBalance.Equal(d(280000)), "got %s", result.RetirementStartBalance)
	assert.True(t, result.FutureMonthlyExpenses.Equal(d(2000)), "No inflation leaves expenses unchanged")

	// 280000 / 24000 per year: 11 funded years, depleted in the 12th.
	require.Len(t, result.RetirementBalances, 12)
	assert.True(t, result.RetirementBalances[10].Equal(d(16000)))
	assert.True(t, result.RetirementBalances[11].IsZero())
	assert.False(t, result.FundsLast)
	require.NotNil(t, result.DepletionAge)
	assert.Equal(t, 71, *result.DepletionAge)
	assert.Equal(t, 11, result.YearsFunded())
}

func TestEvaluate_ScenarioD_PreretirementBeforeCurrentAge(t *testing.T) {
	params := scenarioA()
	params.Age = 58
	params.PreretirementStartAge = 55

	result, err := EvaluatePlan(params)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Durations.AccumulationYears, "Accumulation clamps to zero")
	assert.Equal(t, 5, result.Durations.PreretirementYears, "Preretirement spans retirement age minus its start")
	assert.Equal(t, 25, result.Durations.RetirementYears)
	assert.True(t, result.AccumulationEndBalance.Equal(params.CurrentSavings))

	expected := RunPhase(params.CurrentSavings, params.MonthlyContribution, params.PreretirementReturn, decimal.NewFromInt(5))
	assert.True(t, result.RetirementStartBalance.Equal(expected))
	assert.True(t, result.FutureMonthlyExpenses.Equal(FutureValue(d(2000), d(2.5), 2)), "Horizon is retirement age minus age")

	require.Len(t, result.Timeline, 85-58+1)
	first := result.Timeline[0]
	assert.Equal(t, 58, first.Age)
	assert.Equal(t, domain.PhasePreretirement, first.Phase)
	require.NotNil(t, first.Balance)
	atAge58 := RunPhase(params.CurrentSavings, params.MonthlyContribution, params.PreretirementReturn, decimal.NewFromInt(4))
	assert.True(t, first.Balance.Equal(atAge58), "The year starting at 58 is the fourth preretirement year")
	assert.Equal(t, 58, result.Ages.PreretirementStartAge, "Display ages stay within the timeline")
}

func TestEvaluate_PreretirementAfterRetirement(t *testing.T) {
	params := scenarioA()
	params.PreretirementStartAge = 65

	result, err := EvaluatePlan(params)
	require.NoError(t, err)

	assert.Equal(t, 35, result.Durations.AccumulationYears)
	assert.Equal(t, 0, result.Durations.PreretirementYears, "Preretirement duration clamps to zero")
	assert.Equal(t, 25, result.Durations.RetirementYears)

	expected := RunPhase(params.CurrentSavings, params.MonthlyContribution, params.AccumulationReturn, decimal.NewFromInt(35))
	assert.True(t, result.RetirementStartBalance.Equal(expected), "Accumulation alone determines the balance entering retirement")

	atRetirement := result.Timeline[60-30]
	require.NotNil(t, atRetirement.CumulativeExpenses, "Retirement years overwrite the overlapping accumulation years")
	require.NotNil(t, atRetirement.Balance)
	assert.True(t, atRetirement.Balance.Equal(result.RetirementBalances[0]))
}

func TestEvaluate_RetirementAfterLifeExpectancy(t *testing.T) {
	params := scenarioA()
	params.RetirementAge = 90

	result, err := EvaluatePlan(params)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseDurations{AccumulationYears: 25, PreretirementYears: 35, RetirementYears: 0}, result.Durations)
	assert.InDelta(t, 8799.58, result.FutureMonthlyExpenses.InexactFloat64(), 0.01, "2000 inflated 60 years at 2.5%%")
	assert.Empty(t, result.RetirementBalances)
	assert.False(t, result.FundsLast)
	require.Len(t, result.Timeline, 85-30+1)
	assert.True(t, result.Timeline[55].HasBalance(), "Preretirement years fill the frame through life expectancy")
}

func TestEvaluate_RetirementBeforeCurrentAge(t *testing.T) {
	params := scenarioA()
	params.Age = 65
	params.PreretirementStartAge = 55

	result, err := EvaluatePlan(params)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Durations.AccumulationYears)
	assert.Equal(t, 5, result.Durations.PreretirementYears)
	assert.Equal(t, 25, result.Durations.RetirementYears)
	assert.True(t, result.FutureMonthlyExpenses.LessThan(d(2000)), "A past retirement age discounts the expense")
	assert.InDelta(t, 2000/math.Pow(1.025, 5), result.FutureMonthlyExpenses.InexactFloat64(), 0.001)

	require.Len(t, result.Timeline, 85-65+1)
	require.NotNil(t, result.Timeline[0].CumulativeExpenses, "Retirement began before today")
}

func TestEvaluate_Idempotent(t *testing.T) {
	first, err := EvaluatePlan(scenarioA())
	require.NoError(t, err)
	second, err := EvaluatePlan(scenarioA())
	require.NoError(t, err)

	assert.Equal(t, first, second, "Repeated evaluation should give identical results")
}

func TestEvaluate_SmallNegativeRates(t *testing.T) {
	params := scenarioA()
	params.PostRetirementReturn = d(-0.5)
	params.Inflation = d(-0.2)

	result, err := EvaluatePlan(params)
	require.NoError(t, err, "Small negative rates should not fail")
	assert.NotEmpty(t, result.RetirementBalances)
}

func TestEvaluate_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCalculationEngine().Evaluate(ctx, scenarioA())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_LogsOutOfOrderAges(t *testing.T) {
	engine := NewCalculationEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	params := scenarioA()
	params.PreretirementStartAge = 20
	_, err := engine.Evaluate(context.Background(), params)
	require.NoError(t, err)

	assert.True(t, logger.contains("WARN: ages out of order"), "Should warn about clamped ages: %v", logger.messages)
	assert.True(t, logger.contains("INFO: funds"), "Should log the verdict")
}

func TestEvaluateAll_PreservesOrder(t *testing.T) {
	engine := NewCalculationEngine()
	plans := make([]domain.PlanParameters, 0, 10)
	for i := 0; i < 10; i++ {
		p := scenarioA()
		p.RetirementAge = 55 + i
		plans = append(plans, p)
	}

	results, err := engine.EvaluateAll(context.Background(), plans, 3)
	require.NoError(t, err)
	require.Len(t, results, len(plans))
	for i, r := range results {
		assert.Equal(t, plans[i].RetirementAge, r.Ages.RetirementAge, "result %d out of order", i)

		single, err := EvaluatePlan(plans[i])
		require.NoError(t, err)
		assert.Equal(t, single, r, "Concurrent and sequential evaluation should agree")
	}
}

func TestEvaluateAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCalculationEngine().EvaluateAll(ctx, []domain.PlanParameters{scenarioA()}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) contains(prefix string) bool {
	for _, m := range tl.messages {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}
