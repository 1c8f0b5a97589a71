package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// OptimizeAll solves each single-parameter target against the same base plan
// and summarizes which lever closes the gap.
func (s *Solver) OptimizeAll(ctx context.Context, req OptimizationRequest) (*MultiTargetResult, error) {
	targets := []OptimizationTarget{OptimizeContribution, OptimizeExpenses, OptimizeRetirementAge}
	multi := &MultiTargetResult{Results: make([]OptimizationResult, 0, len(targets))}

	for _, target := range targets {
		r := req
		r.Target = target
		// Tolerances differ in unit per target; use the solver defaults.
		r.Tolerance = decimal.Zero
		result, err := s.Optimize(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("failed to optimize %s: %w", target, err)
		}
		multi.Results = append(multi.Results, *result)
	}

	multi.Recommendations = generateRecommendations(multi.Results)
	return multi, nil
}

func generateRecommendations(results []OptimizationResult) []string {
	var recs []string
	if len(results) > 0 && results[0].BaseFundsLast {
		recs = append(recs, "The current plan already lasts through life expectancy; the values below show how much slack it has")
	}

	for _, r := range results {
		if r.NeverFeasible {
			recs = append(recs, fmt.Sprintf("Adjusting %s alone cannot make the savings last within the searched range", targetLabel(r.Request.Target)))
			continue
		}
		switch {
		case r.OptimalContribution != nil:
			recs = append(recs, fmt.Sprintf("Contribute at least $%s per month", r.OptimalContribution.StringFixed(2)))
		case r.SustainableMonthlyExpenses != nil:
			recs = append(recs, fmt.Sprintf("Keep monthly expenses at or below $%s in today's money (%s%% of the current budget)",
				r.SustainableMonthlyExpenses.StringFixed(2), r.OptimalExpenseScale.StringFixed(0)))
		case r.OptimalRetirementAge != nil:
			recs = append(recs, fmt.Sprintf("Retire no earlier than age %d", *r.OptimalRetirementAge))
		}
	}
	return recs
}

func targetLabel(t OptimizationTarget) string {
	switch t {
	case OptimizeContribution:
		return "the monthly contribution"
	case OptimizeExpenses:
		return "expenses"
	case OptimizeRetirementAge:
		return "the retirement age"
	default:
		return string(t)
	}
}
