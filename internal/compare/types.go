package compare

import (
	"fmt"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single plan variant with calculated metrics
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	Result       *domain.SimulationResult `json:"-"`

	// Key Metrics
	RetirementStartBalance decimal.Decimal `json:"retirementStartBalance"`
	FinalBalance           decimal.Decimal `json:"finalBalance"`
	FutureMonthlyExpenses  decimal.Decimal `json:"futureMonthlyExpenses"`
	TotalWithdrawn         decimal.Decimal `json:"totalWithdrawn"`
	YearsFunded            int             `json:"yearsFunded"`
	DepletionAge           *int            `json:"depletionAge,omitempty"`
	FundsLast              bool            `json:"fundsLast"`
	Verdict                string          `json:"verdict"`

	// Comparison to Base
	RetirementBalanceDiff decimal.Decimal `json:"retirementBalanceDiff"`
	FinalBalanceDiff      decimal.Decimal `json:"finalBalanceDiff"`
	FinalBalancePct       decimal.Decimal `json:"finalBalancePct"`
	YearsFundedDiff       int             `json:"yearsFundedDiff"`

	// Plan specifics extracted for display
	RetirementAge       int             `json:"retirementAge"`
	LifeExpectancy      int             `json:"lifeExpectancy"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
}

// ComparisonSet represents a collection of plan comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
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

// CalculateMetrics computes all comparison metrics for one evaluated plan
func (mc *MetricsCalculator) CalculateMetrics(name string, result *domain.SimulationResult) ComparisonResult {
	return ComparisonResult{
		ScenarioName:           name,
		Result:                 result,
		RetirementStartBalance: result.RetirementStartBalance,
		FinalBalance:           result.FinalBalance(),
		FutureMonthlyExpenses:  result.FutureMonthlyExpenses,
		TotalWithdrawn:         result.TotalWithdrawn(),
		YearsFunded:            result.YearsFunded(),
		DepletionAge:           result.DepletionAge,
		FundsLast:              result.FundsLast,
		Verdict:                result.VerdictMessage(),
		RetirementAge:          result.Ages.RetirementAge,
		LifeExpectancy:         result.Ages.LifeExpectancy,
		MonthlyContribution:    result.Parameters.MonthlyContribution,
	}
}

// CalculateComparison computes comparison metrics between a variant and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.RetirementBalanceDiff = scenario.RetirementStartBalance.Sub(base.RetirementStartBalance)
	scenario.FinalBalanceDiff = scenario.FinalBalance.Sub(base.FinalBalance)

	if !base.FinalBalance.IsZero() {
		scenario.FinalBalancePct = scenario.FinalBalanceDiff.
			Div(base.FinalBalance).
			Mul(decimal.NewFromInt(100))
	}

	scenario.YearsFundedDiff = scenario.YearsFunded - base.YearsFunded
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	// Find best variant by final balance
	best := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalBalance.GreaterThan(best.FinalBalance) {
			best = alt
		}
	}
	if best != base {
		recommendations = append(recommendations,
			"Largest Final Balance: "+best.ScenarioName+" leaves $"+
				best.FinalBalance.Sub(base.FinalBalance).StringFixed(0)+" more than the base plan")
	}

	// Variants that turn a shortfall into a plan that lasts
	if !base.FundsLast {
		for _, alt := range compSet.AlternativeResults {
			if alt.FundsLast {
				recommendations = append(recommendations,
					"Closes the Gap: "+alt.ScenarioName+" keeps savings positive through age "+
						fmt.Sprintf("%d", alt.LifeExpectancy))
			}
		}
	}

	// Variants that break a plan that currently lasts
	if base.FundsLast {
		for _, alt := range compSet.AlternativeResults {
			if !alt.FundsLast && alt.DepletionAge != nil {
				recommendations = append(recommendations,
					"Risk: "+alt.ScenarioName+" runs out of money at age "+
						fmt.Sprintf("%d", *alt.DepletionAge))
			}
		}
	}

	// Most funded years
	longest := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.YearsFunded > longest.YearsFunded {
			longest = alt
		}
	}
	if longest != base {
		recommendations = append(recommendations,
			"Best Longevity: "+longest.ScenarioName+" funds "+
				fmt.Sprintf("%d more years", longest.YearsFunded-base.YearsFunded))
	}

	return recommendations
}
