package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "%", "$", "years"
	Description string          `yaml:"description" json:"description"`
}

// SensitivityPoint is the outcome of evaluating the plan at one parameter value.
type SensitivityPoint struct {
	Parameter              string          `json:"parameter"`
	Value                  decimal.Decimal `json:"value"`
	FundsLast              bool            `json:"fundsLast"`
	RetirementStartBalance decimal.Decimal `json:"retirementStartBalance"`
	FinalBalance           decimal.Decimal `json:"finalBalance"`
	YearsFunded            int             `json:"yearsFunded"`
	DepletionAge           *int            `json:"depletionAge,omitempty"`

	// Change relative to the unmodified plan
	FinalBalanceChange decimal.Decimal `json:"finalBalanceChange"`
	YearsFundedChange  int             `json:"yearsFundedChange"`
}

// ParameterSweep holds all points for one swept parameter, in ascending value order.
type ParameterSweep struct {
	Parameter   SensitivityParameter `json:"parameter"`
	Points      []SensitivityPoint   `json:"points"`
	FailureRate decimal.Decimal      `json:"failureRate"` // percent of points where funds run out
	Score       decimal.Decimal      `json:"score"`
}

// ParameterSensitivityAnalysis represents a complete parameter sensitivity analysis
type ParameterSensitivityAnalysis struct {
	PlanName     string             `json:"planName"`
	Base         SensitivityPoint   `json:"base"`
	Sweeps       []ParameterSweep   `json:"sweeps"`
	Summary      SensitivitySummary `json:"summary"`
	AnalysisType string             `json:"analysisType"` // "single", "multi"
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MostSensitiveParameter string                     `json:"mostSensitiveParameter"`
	SensitivityScores      map[string]decimal.Decimal `json:"sensitivityScores"`
	FailureRate            decimal.Decimal            `json:"failureRate"`
	Recommendations        []string                   `json:"recommendations"`
	RiskLevel              string                     `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
}

// DetermineRiskLevel grades the share of swept points where the money runs out.
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	switch {
	case ss.FailureRate.LessThan(decimal.NewFromInt(10)):
		return "LOW"
	case ss.FailureRate.LessThan(decimal.NewFromInt(30)):
		return "MEDIUM"
	case ss.FailureRate.LessThan(decimal.NewFromInt(60)):
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations() []string {
	recommendations := []string{}

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Plan is robust to parameter changes")
		recommendations = append(recommendations, "Current assumptions appear reasonable")
	case "MEDIUM":
		recommendations = append(recommendations, "Monitor key parameters regularly")
		recommendations = append(recommendations, "Consider conservative assumptions for critical parameters")
	case "HIGH":
		recommendations = append(recommendations, "Plan is sensitive to parameter changes")
		recommendations = append(recommendations, "Consider saving more or lowering planned expenses")
		recommendations = append(recommendations, "Review assumptions annually")
	case "CRITICAL":
		recommendations = append(recommendations, "⚠️ Savings run out under most tested assumptions")
		recommendations = append(recommendations, "Increase contributions or postpone retirement")
		recommendations = append(recommendations, "Reduce want expenses before need expenses")
	}

	switch ss.MostSensitiveParameter {
	case ParamInflation:
		recommendations = append(recommendations, "Consider inflation-protected investments")
	case ParamAccumulationReturn, ParamPreretirementReturn, ParamPostRetirementReturn:
		recommendations = append(recommendations, "Returns drive the outcome; test a more conservative allocation")
	case ParamRetirementAge:
		recommendations = append(recommendations, "Retirement timing has the largest effect; compare a later date")
	case ParamMonthlyContribution, ParamCurrentSavings:
		recommendations = append(recommendations, "Savings level has the largest effect; automate contributions")
	case ParamNeedExpense, ParamWantExpense:
		recommendations = append(recommendations, "Spending has the largest effect; budget retirement expenses carefully")
	case ParamLifeExpectancy:
		recommendations = append(recommendations, "Longevity risk dominates; plan for a longer retirement")
	}

	return recommendations
}

// CommonSensitivityParameters returns a default sweep set centred on the plan's values.
func CommonSensitivityParameters(p PlanParameters) []SensitivityParameter {
	half := decimal.NewFromFloat(0.5)
	oneAndHalf := decimal.NewFromFloat(1.5)
	retirement := decimal.NewFromInt(int64(p.RetirementAge))

	return []SensitivityParameter{
		{
			Name: ParamInflation, MinValue: decimal.NewFromFloat(1.5), MaxValue: decimal.NewFromFloat(4.5),
			Steps: 7, BaseValue: p.Inflation, Unit: "%",
			Description: "Expected annual inflation",
		},
		{
			Name: ParamPostRetirementReturn, MinValue: decimal.NewFromInt(1), MaxValue: decimal.NewFromInt(6),
			Steps: 6, BaseValue: p.PostRetirementReturn, Unit: "%",
			Description: "Annual return during retirement",
		},
		{
			Name: ParamAccumulationReturn, MinValue: decimal.NewFromInt(4), MaxValue: decimal.NewFromInt(10),
			Steps: 7, BaseValue: p.AccumulationReturn, Unit: "%",
			Description: "Annual return before preretirement",
		},
		{
			Name: ParamMonthlyContribution, MinValue: p.MonthlyContribution.Mul(half), MaxValue: p.MonthlyContribution.Mul(oneAndHalf),
			Steps: 5, BaseValue: p.MonthlyContribution, Unit: "$",
			Description: "Monthly contribution until retirement",
		},
		{
			Name: ParamRetirementAge, MinValue: retirement.Sub(decimal.NewFromInt(3)), MaxValue: retirement.Add(decimal.NewFromInt(3)),
			Steps: 7, BaseValue: retirement, Unit: "years",
			Description: "Age at which withdrawals begin",
		},
	}
}
