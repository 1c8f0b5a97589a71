package breakeven

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// flatPlan has no growth and no inflation: ten years of preretirement saving
// followed by ten years of $1000/month withdrawals.
func flatPlan() domain.PlanParameters {
	return domain.PlanParameters{
		Age:                   50,
		PreretirementStartAge: 50,
		RetirementAge:         60,
		LifeExpectancy:        70,
		CurrentSavings:        decimal.Zero,
		MonthlyContribution:   d(500),
		AccumulationReturn:    decimal.Zero,
		PreretirementReturn:   decimal.Zero,
		PostRetirementReturn:  decimal.Zero,
		Inflation:             decimal.Zero,
		NeedExpense:           d(1000),
		WantExpense:           decimal.Zero,
	}
}

func TestNewDefaultSolver(t *testing.T) {
	solver := NewDefaultSolver(nil)
	require.NotNil(t, solver.CalcEngine, "Should create an engine when none is given")
	assert.Equal(t, "binary_search", solver.Options.Algorithm)
	assert.Equal(t, 100, solver.Options.MaxIterations)

	solver.SetLogger(nil)
	assert.IsType(t, calculation.NopLogger{}, solver.Logger)
}

func TestOptimize_Contribution(t *testing.T) {
	solver := NewDefaultSolver(calculation.NewCalculationEngine())
	result, err := solver.Optimize(context.Background(), OptimizationRequest{
		Base:   flatPlan(),
		Target: OptimizeContribution,
	})
	require.NoError(t, err)

	// 120 months of saving must exceed 120 months of $1000 withdrawals.
	require.NotNil(t, result.OptimalContribution)
	assert.True(t, result.OptimalContribution.GreaterThan(d(1000)), "got %s", result.OptimalContribution)
	assert.True(t, result.OptimalContribution.LessThanOrEqual(d(1001)), "got %s", result.OptimalContribution)
	assert.True(t, result.Success)
	assert.False(t, result.AlwaysFeasible)
	assert.False(t, result.NeverFeasible)
	assert.True(t, result.FundsLast)
	assert.True(t, result.FinalBalance.IsPositive())
	assert.False(t, result.BaseFundsLast, "The base plan runs out of money")
	assert.Contains(t, result.ConvergenceInfo, "converged")
	require.NotNil(t, result.Plan)
	assert.True(t, result.Plan.MonthlyContribution.Equal(*result.OptimalContribution))
}

func TestOptimize_ContributionAlwaysFeasible(t *testing.T) {
	base := flatPlan()
	base.CurrentSavings = d(1000000)

	result, err := NewDefaultSolver(nil).Optimize(context.Background(), OptimizationRequest{
		Base:   base,
		Target: OptimizeContribution,
	})
	require.NoError(t, err)

	assert.True(t, result.AlwaysFeasible)
	assert.True(t, result.Success)
	assert.True(t, result.OptimalContribution.IsZero(), "The lowest contribution in range already works")
	assert.Equal(t, 1, result.Iterations)
}

func TestOptimize_ContributionNeverFeasible(t *testing.T) {
	limit := d(500)
	result, err := NewDefaultSolver(nil).Optimize(context.Background(), OptimizationRequest{
		Base:        flatPlan(),
		Target:      OptimizeContribution,
		Constraints: Constraints{MaxContribution: &limit},
	})
	require.NoError(t, err)

	assert.True(t, result.NeverFeasible)
	assert.False(t, result.Success)
	assert.False(t, result.FundsLast)
	assert.Contains(t, result.ConvergenceInfo, "no contribution")
}

func TestOptimize_Expenses(t *testing.T) {
	base := flatPlan()
	base.MonthlyContribution = d(1000)

	result, err := NewDefaultSolver(nil).Optimize(context.Background(), OptimizationRequest{
		Base:   base,
		Target: OptimizeExpenses,
	})
	require.NoError(t, err)

	// Savings of 120000 cover ten years only while spending stays below $1000.
	require.NotNil(t, result.OptimalExpenseScale)
	assert.InDelta(t, 99.99, result.OptimalExpenseScale.InexactFloat64(), 0.015)
	require.NotNil(t, result.SustainableMonthlyExpenses)
	assert.True(t, result.SustainableMonthlyExpenses.LessThan(d(1000)))
	assert.True(t, result.SustainableMonthlyExpenses.GreaterThan(d(999.7)))
	assert.True(t, result.Success)
	assert.True(t, result.FundsLast)
}

func TestOptimize_RetirementAge(t *testing.T) {
	base := flatPlan()
	base.MonthlyContribution = d(1000)
	base.LifeExpectancy = 80

	result, err := NewDefaultSolver(nil).Optimize(context.Background(), OptimizationRequest{
		Base:   base,
		Target: OptimizeRetirementAge,
	})
	require.NoError(t, err)

	// Years saved must exceed years withdrawn: 66-50 > 80-66.
	require.NotNil(t, result.OptimalRetirementAge)
	assert.Equal(t, 66, *result.OptimalRetirementAge)
	assert.True(t, result.Success)
	assert.True(t, result.FundsLast)
	assert.Equal(t, 66, result.Plan.RetirementAge)

	earlier := base
	earlier.RetirementAge = 65
	check, err := calculation.EvaluatePlan(earlier)
	require.NoError(t, err)
	assert.False(t, check.FundsLast, "One year earlier should not work")
}

func TestOptimize_InvalidTarget(t *testing.T) {
	_, err := NewDefaultSolver(nil).Optimize(context.Background(), OptimizationRequest{
		Base:   flatPlan(),
		Target: "tsp_rate",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	var beErr *BreakEvenError
	require.True(t, errors.As(err, &beErr))
	assert.Equal(t, "optimize", beErr.Operation)
}

func TestOptimize_InvalidConstraints(t *testing.T) {
	lo, hi := d(100), d(50)
	_, err := NewDefaultSolver(nil).Optimize(context.Background(), OptimizationRequest{
		Base:        flatPlan(),
		Target:      OptimizeContribution,
		Constraints: Constraints{MinContribution: &lo, MaxContribution: &hi},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
	assert.Contains(t, err.Error(), "min_contribution")
}

func TestOptimize_MaxIterationsOutOfRange(t *testing.T) {
	for _, n := range []int{-1, MaxIterationsLimit + 1, 1_000_000_000} {
		_, err := NewDefaultSolver(nil).Optimize(context.Background(), OptimizationRequest{
			Base:          flatPlan(),
			Target:        OptimizeContribution,
			MaxIterations: n,
		})
		require.Error(t, err, "max iterations %d", n)
		assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
		assert.Contains(t, err.Error(), "max_iterations")
	}
}

func TestOptimize_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultSolver(nil).Optimize(ctx, OptimizationRequest{
		Base:   flatPlan(),
		Target: OptimizeContribution,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptimize_MaxIterations(t *testing.T) {
	result, err := NewDefaultSolver(nil).Optimize(context.Background(), OptimizationRequest{
		Base:          flatPlan(),
		Target:        OptimizeContribution,
		MaxIterations: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Iterations)
	assert.False(t, result.Success, "Four evaluations cannot reach a $1 tolerance over a $20000 range")
	assert.Contains(t, result.ConvergenceInfo, "max iterations")
	assert.True(t, result.FundsLast, "The best value found still works")
}

func TestOptimizeAll(t *testing.T) {
	base := flatPlan()
	base.LifeExpectancy = 80

	multi, err := NewDefaultSolver(nil).OptimizeAll(context.Background(), OptimizationRequest{Base: base})
	require.NoError(t, err)
	require.Len(t, multi.Results, 3)

	assert.Equal(t, OptimizeContribution, multi.Results[0].Request.Target)
	assert.Equal(t, OptimizeExpenses, multi.Results[1].Request.Target)
	assert.Equal(t, OptimizeRetirementAge, multi.Results[2].Request.Target)

	// 500/month saved for ra-50 years against 1000/month spent for 80-ra years.
	assert.Equal(t, 71, *multi.Results[2].OptimalRetirementAge)
	assert.Len(t, multi.Recommendations, 3)
	assert.Contains(t, multi.Recommendations[2], "Retire no earlier than age 71")
}

func TestLoggerReceivesSummary(t *testing.T) {
	logger := &captureLogger{}
	solver := NewDefaultSolver(nil)
	solver.SetLogger(logger)

	_, err := solver.Optimize(context.Background(), OptimizationRequest{Base: flatPlan(), Target: OptimizeRetirementAge})
	require.NoError(t, err)
	assert.NotEmpty(t, logger.debug, "Each probe is logged")
	require.Len(t, logger.info, 1)
	assert.Contains(t, logger.info[0], "break-even retirement_age")
}

type captureLogger struct {
	debug, info []string
}

func (c *captureLogger) Debugf(format string, args ...any) {
	c.debug = append(c.debug, fmt.Sprintf(format, args...))
}

func (c *captureLogger) Infof(format string, args ...any) {
	c.info = append(c.info, fmt.Sprintf(format, args...))
}

func (c *captureLogger) Warnf(format string, args ...any)  {}
func (c *captureLogger) Errorf(format string, args ...any) {}
