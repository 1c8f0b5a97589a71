package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
	// Workers bounds concurrent evaluations per sweep; 0 uses GOMAXPROCS.
	Workers int
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer() *SensitivityAnalyzer {
	return NewSensitivityAnalyzerWithEngine(NewCalculationEngine())
}

// NewSensitivityAnalyzerWithEngine creates an analyzer sharing an existing engine and its logger.
func NewSensitivityAnalyzerWithEngine(ce *CalculationEngine) *SensitivityAnalyzer {
	return &SensitivityAnalyzer{calculationEngine: ce}
}

// AnalyzeSingleParameter sweeps one parameter across its range.
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	planName string,
	base domain.PlanParameters,
	parameter SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	analysis, err := sa.AnalyzeMultipleParameters(ctx, planName, base, []SensitivityParameter{parameter})
	if err != nil {
		return nil, err
	}
	analysis.AnalysisType = "single"
	return analysis, nil
}

// AnalyzeMultipleParameters sweeps each parameter independently against the
// same base plan and ranks them by impact.
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	ctx context.Context,
	planName string,
	base domain.PlanParameters,
	parameters []SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if len(parameters) == 0 {
		return nil, domain.NewParameterError("parameters", "", "at least one sensitivity parameter is required")
	}
	if len(parameters) > MaxSweepParameters {
		return nil, domain.NewParameterError("parameters", fmt.Sprint(len(parameters)),
			fmt.Sprintf("at most %d sensitivity parameters are allowed", MaxSweepParameters))
	}
	for _, param := range parameters {
		if err := validateSensitivityParameter(param); err != nil {
			return nil, err
		}
	}

	baseResult, err := sa.calculationEngine.Evaluate(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate base plan: %w", err)
	}
	baseline := pointFromResult("", decimal.Zero, baseResult, nil)

	sweeps := make([]domain.ParameterSweep, 0, len(parameters))
	for _, param := range parameters {
		sweep, err := sa.sweep(ctx, base, baseline, param)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze parameter %s: %w", param.Name, err)
		}
		sweeps = append(sweeps, sweep)
	}

	analysis := &domain.ParameterSensitivityAnalysis{
		PlanName:     planName,
		Base:         baseline,
		Sweeps:       sweeps,
		Summary:      calculateSensitivitySummary(sweeps),
		AnalysisType: "multi",
	}

	sa.calculationEngine.Logger.Infof("sensitivity: %d parameters, most sensitive %q, risk %s",
		len(sweeps), analysis.Summary.MostSensitiveParameter, analysis.Summary.RiskLevel)
	return analysis, nil
}

func (sa *SensitivityAnalyzer) sweep(
	ctx context.Context,
	base domain.PlanParameters,
	baseline domain.SensitivityPoint,
	param SensitivityParameter,
) (domain.ParameterSweep, error) {
	if err := validateSensitivityParameter(param); err != nil {
		return domain.ParameterSweep{}, err
	}
	if param.BaseValue.IsZero() {
		param.BaseValue, _ = base.Value(param.Name)
	}

	values := sa.generateParameterValues(param)
	plans := make([]domain.PlanParameters, 0, len(values))
	for _, value := range values {
		modified, err := base.WithValue(param.Name, value)
		if err != nil {
			return domain.ParameterSweep{}, err
		}
		plans = append(plans, modified)
	}

	results, err := sa.calculationEngine.EvaluateAll(ctx, plans, sa.Workers)
	if err != nil {
		return domain.ParameterSweep{}, err
	}

	points := make([]domain.SensitivityPoint, 0, len(results))
	failures := 0
	for i, result := range results {
		effective, _ := plans[i].Value(param.Name)
		point := pointFromResult(param.Name, effective, result, &baseline)
		if !point.FundsLast {
			failures++
		}
		points = append(points, point)
	}

	return domain.ParameterSweep{
		Parameter:   param,
		Points:      points,
		FailureRate: percentOf(failures, len(points)),
		Score:       sweepScore(points, baseline),
	}, nil
}

const (
	// MaxSweepSteps bounds the points evaluated for one parameter.
	MaxSweepSteps = 101
	// MaxSweepParameters bounds the sweeps in one analysis.
	MaxSweepParameters = 20
)

// generateParameterValues generates values for a parameter sweep
func (sa *SensitivityAnalyzer) generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.MinValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

func validateSensitivityParameter(param SensitivityParameter) error {
	if _, ok := domain.LookupParameterSpec(param.Name); !ok {
		return domain.NewParameterError("parameter", param.Name, "unknown sensitivity parameter")
	}
	if param.Steps < 1 || param.Steps > MaxSweepSteps {
		return domain.NewParameterError(param.Name, fmt.Sprint(param.Steps),
			fmt.Sprintf("steps must be between 1 and %d", MaxSweepSteps))
	}
	if param.MinValue.GreaterThan(param.MaxValue) {
		return domain.NewParameterError(param.Name, param.MinValue.String(), "min cannot exceed max")
	}
	return nil
}

func pointFromResult(name string, value decimal.Decimal, r *domain.SimulationResult, baseline *domain.SensitivityPoint) domain.SensitivityPoint {
	p := domain.SensitivityPoint{
		Parameter:              name,
		Value:                  value,
		FundsLast:              r.FundsLast,
		RetirementStartBalance: r.RetirementStartBalance,
		FinalBalance:           r.FinalBalance(),
		YearsFunded:            r.YearsFunded(),
		DepletionAge:           r.DepletionAge,
	}
	if baseline != nil {
		p.FinalBalanceChange = p.FinalBalance.Sub(baseline.FinalBalance)
		p.YearsFundedChange = p.YearsFunded - baseline.YearsFunded
	}
	return p
}

// sweepScore is the spread of final balances across the sweep as a percent
// of the base plan's balance entering retirement.
func sweepScore(points []domain.SensitivityPoint, baseline domain.SensitivityPoint) decimal.Decimal {
	if len(points) == 0 {
		return decimal.Zero
	}
	lo, hi := points[0].FinalBalance, points[0].FinalBalance
	for _, p := range points[1:] {
		lo = decimal.Min(lo, p.FinalBalance)
		hi = decimal.Max(hi, p.FinalBalance)
	}
	spread := hi.Sub(lo)
	if !baseline.RetirementStartBalance.IsPositive() {
		return spread.Round(2)
	}
	return spread.Div(baseline.RetirementStartBalance).Mul(hundred).Round(2)
}

// calculateSensitivitySummary calculates overall sensitivity summary
func calculateSensitivitySummary(sweeps []domain.ParameterSweep) domain.SensitivitySummary {
	scores := make(map[string]decimal.Decimal, len(sweeps))
	maxScore := decimal.NewFromInt(-1)
	mostSensitive := ""
	failures, total := 0, 0

	for _, s := range sweeps {
		scores[s.Parameter.Name] = s.Score
		if s.Score.GreaterThan(maxScore) {
			maxScore = s.Score
			mostSensitive = s.Parameter.Name
		}
		for _, p := range s.Points {
			total++
			if !p.FundsLast {
				failures++
			}
		}
	}

	summary := domain.SensitivitySummary{
		MostSensitiveParameter: mostSensitive,
		SensitivityScores:      scores,
		FailureRate:            percentOf(failures, total),
	}
	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations()
	return summary
}

func percentOf(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
}

// SensitivityParameter is a local type for the analyzer
type SensitivityParameter = domain.SensitivityParameter
