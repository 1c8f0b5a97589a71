package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine orchestrates plan evaluation and owns the logging that
// the pure simulation functions never do themselves.
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger replaces the engine's logger; nil restores the no-op logger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	ce.Logger = orNop(l)
}

// Evaluate runs one plan through all three phases.
func (ce *CalculationEngine) Evaluate(ctx context.Context, params domain.PlanParameters) (*domain.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !params.IsOrdered() {
		d := params.Durations()
		ce.Logger.Warnf("ages out of order (%d/%d/%d/%d); phases run %d/%d/%d years",
			params.Age, params.PreretirementStartAge, params.RetirementAge, params.LifeExpectancy,
			d.AccumulationYears, d.PreretirementYears, d.RetirementYears)
	}

	result, err := EvaluatePlan(params)
	if err != nil {
		ce.Logger.Errorf("plan evaluation failed: %v", err)
		return nil, err
	}

	ce.Logger.Debugf("phases: accumulation=%dy preretirement=%dy retirement=%dy",
		result.Durations.AccumulationYears, result.Durations.PreretirementYears, result.Durations.RetirementYears)
	ce.Logger.Debugf("balance entering retirement: %s, future monthly expenses: %s",
		result.RetirementStartBalance.StringFixed(2), result.FutureMonthlyExpenses.StringFixed(2))
	if result.FundsLast {
		ce.Logger.Infof("funds last through age %d (final balance %s)",
			result.Ages.LifeExpectancy, result.FinalBalance().StringFixed(2))
	} else if result.DepletionAge != nil {
		ce.Logger.Infof("funds depleted at age %d", *result.DepletionAge)
	} else {
		ce.Logger.Infof("no retirement years simulated")
	}

	return result, nil
}

// EvaluatePlan is the pure evaluation: durations and the inflation-adjusted
// expense target are derived from params, the two growth phases are chained
// into the withdrawal phase, and the results are merged into one timeline.
func EvaluatePlan(params domain.PlanParameters) (*domain.SimulationResult, error) {
	durations := params.Durations()
	horizon := params.YearsToRetirement()

	futureNeed := FutureValue(params.NeedExpense, params.Inflation, horizon)
	futureWant := FutureValue(params.WantExpense, params.Inflation, horizon)
	futureMonthly := futureNeed.Add(futureWant)

	accumulation := RunPhaseYearly(
		params.CurrentSavings,
		params.MonthlyContribution,
		params.AccumulationReturn,
		decimal.NewFromInt(int64(durations.AccumulationYears)),
	)
	preretirement := RunPhaseYearly(
		accumulation.EndingBalance,
		params.MonthlyContribution,
		params.PreretirementReturn,
		decimal.NewFromInt(int64(durations.PreretirementYears)),
	)
	withdrawal, err := SimulateWithdrawals(
		preretirement.EndingBalance,
		futureMonthly,
		params.PostRetirementReturn,
		params.Inflation,
		durations.RetirementYears,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate retirement phase: %w", err)
	}

	outputs := PhaseOutputs{
		Accumulation:  accumulation,
		Preretirement: preretirement,
		Withdrawal:    withdrawal,
	}

	result := &domain.SimulationResult{
		Parameters:             params,
		Ages:                   params.NormalizedAges(),
		Durations:              durations,
		Timeline:               BuildTimeline(params, outputs),
		AccumulationEndBalance: accumulation.EndingBalance,
		RetirementStartBalance: preretirement.EndingBalance,
		RetirementBalances:     withdrawal.Balances,
		CumulativeExpenses:     withdrawal.CumulativeExpenses,
		FutureNeedExpense:      futureNeed,
		FutureWantExpense:      futureWant,
		FutureMonthlyExpenses:  futureMonthly,
		FundsLast:              fundsLast(withdrawal.Balances),
	}

	if withdrawal.Depleted {
		age := params.RetirementAge + len(withdrawal.Balances) - 1
		result.DepletionAge = &age
	}

	return result, nil
}

// fundsLast is true only when at least one retirement year was simulated and
// the last one ended with money left.
func fundsLast(balances []decimal.Decimal) bool {
	n := len(balances)
	return n > 0 && balances[n-1].IsPositive()
}
