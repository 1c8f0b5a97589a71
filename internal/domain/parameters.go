package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Plan parameter names used by sensitivity sweeps, transforms, CLI flags and the TUI.
const (
	ParamAge                   = "age"
	ParamPreretirementStartAge = "preretirement_start_age"
	ParamRetirementAge         = "retirement_age"
	ParamLifeExpectancy        = "life_expectancy"
	ParamCurrentSavings        = "current_savings"
	ParamMonthlyContribution   = "monthly_contribution"
	ParamNeedExpense           = "need_expense"
	ParamWantExpense           = "want_expense"
	ParamAccumulationReturn    = "accumulation_return"
	ParamPreretirementReturn   = "preretirement_return"
	ParamPostRetirementReturn  = "post_retirement_return"
	ParamInflation             = "inflation"
)

// ParameterSpec describes the accepted input range of one plan field.
// SliderMax bounds interactive editing for fields without a hard maximum.
type ParameterSpec struct {
	Name        string
	Label       string
	Unit        string
	Min         decimal.Decimal
	Max         decimal.Decimal
	HasMax      bool
	SliderMax   decimal.Decimal
	Step        decimal.Decimal
	Integer     bool
	Description string
}

func ageSpec(name, label string, min, max int64, desc string) ParameterSpec {
	return ParameterSpec{
		Name: name, Label: label, Unit: "years",
		Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max), HasMax: true,
		SliderMax: decimal.NewFromInt(max), Step: decimal.NewFromInt(1),
		Integer: true, Description: desc,
	}
}

func amountSpec(name, label string, sliderMax int64, step int64, desc string) ParameterSpec {
	return ParameterSpec{
		Name: name, Label: label, Unit: "$",
		Min: decimal.Zero, SliderMax: decimal.NewFromInt(sliderMax),
		Step: decimal.NewFromInt(step), Description: desc,
	}
}

func rateSpec(name, label string, max int64, desc string) ParameterSpec {
	return ParameterSpec{
		Name: name, Label: label, Unit: "%",
		Min: decimal.Zero, Max: decimal.NewFromInt(max), HasMax: true,
		SliderMax: decimal.NewFromInt(max), Step: decimal.NewFromFloat(0.1),
		Description: desc,
	}
}

// PlanParameterSpecs lists every plan field in display order.
var PlanParameterSpecs = []ParameterSpec{
	ageSpec(ParamAge, "Current Age", 18, 100, "Your age today"),
	ageSpec(ParamPreretirementStartAge, "Preretirement Start Age", 40, 100, "Age at which the more conservative preretirement phase begins"),
	ageSpec(ParamRetirementAge, "Retirement Age", 50, 100, "Age at which withdrawals begin"),
	ageSpec(ParamLifeExpectancy, "Life Expectancy", 60, 120, "Age the savings need to last until"),
	amountSpec(ParamCurrentSavings, "Current Savings", 5_000_000, 1000, "Invested balance today"),
	amountSpec(ParamMonthlyContribution, "Monthly Contribution", 10_000, 50, "Amount added every month until retirement"),
	rateSpec(ParamAccumulationReturn, "Accumulation Return", 15, "Annual return before preretirement"),
	rateSpec(ParamPreretirementReturn, "Preretirement Return", 15, "Annual return during preretirement"),
	rateSpec(ParamPostRetirementReturn, "Retirement Return", 10, "Annual return during retirement"),
	rateSpec(ParamInflation, "Inflation", 10, "Expected annual inflation"),
	amountSpec(ParamNeedExpense, "Monthly Need Expenses", 20_000, 50, "Essential monthly spending in today's money"),
	amountSpec(ParamWantExpense, "Monthly Want Expenses", 20_000, 50, "Discretionary monthly spending in today's money"),
}

// LookupParameterSpec finds a spec by name; dashes are accepted for underscores.
func LookupParameterSpec(name string) (ParameterSpec, bool) {
	n := normalizeParamName(name)
	for _, s := range PlanParameterSpecs {
		if s.Name == n {
			return s, true
		}
	}
	return ParameterSpec{}, false
}

// ParameterNames returns the names of all plan fields in display order.
func ParameterNames() []string {
	names := make([]string, 0, len(PlanParameterSpecs))
	for _, s := range PlanParameterSpecs {
		names = append(names, s.Name)
	}
	return names
}

// Check validates v against the spec's range.
func (s ParameterSpec) Check(v decimal.Decimal) error {
	if s.Integer && !v.Equal(v.Truncate(0)) {
		return NewParameterError(s.Name, v.String(), "must be a whole number")
	}
	if v.LessThan(s.Min) {
		return NewParameterError(s.Name, v.String(), fmt.Sprintf("must be at least %s", s.Min))
	}
	if s.HasMax && v.GreaterThan(s.Max) {
		return NewParameterError(s.Name, v.String(), fmt.Sprintf("must be at most %s", s.Max))
	}
	return nil
}

// Value reads a plan field by name.
func (p PlanParameters) Value(name string) (decimal.Decimal, error) {
	switch normalizeParamName(name) {
	case ParamAge:
		return decimal.NewFromInt(int64(p.Age)), nil
	case ParamPreretirementStartAge:
		return decimal.NewFromInt(int64(p.PreretirementStartAge)), nil
	case ParamRetirementAge:
		return decimal.NewFromInt(int64(p.RetirementAge)), nil
	case ParamLifeExpectancy:
		return decimal.NewFromInt(int64(p.LifeExpectancy)), nil
	case ParamCurrentSavings:
		return p.CurrentSavings, nil
	case ParamMonthlyContribution:
		return p.MonthlyContribution, nil
	case ParamNeedExpense:
		return p.NeedExpense, nil
	case ParamWantExpense:
		return p.WantExpense, nil
	case ParamAccumulationReturn:
		return p.AccumulationReturn, nil
	case ParamPreretirementReturn:
		return p.PreretirementReturn, nil
	case ParamPostRetirementReturn:
		return p.PostRetirementReturn, nil
	case ParamInflation:
		return p.Inflation, nil
	default:
		return decimal.Zero, NewParameterError(name, "", "unknown parameter")
	}
}

// WithValue returns a copy of p with one field replaced. Age fields are
// rounded to the nearest whole year.
func (p PlanParameters) WithValue(name string, v decimal.Decimal) (PlanParameters, error) {
	years := int(v.Round(0).IntPart())
	switch normalizeParamName(name) {
	case ParamAge:
		p.Age = years
	case ParamPreretirementStartAge:
		p.PreretirementStartAge = years
	case ParamRetirementAge:
		p.RetirementAge = years
	case ParamLifeExpectancy:
		p.LifeExpectancy = years
	case ParamCurrentSavings:
		p.CurrentSavings = v
	case ParamMonthlyContribution:
		p.MonthlyContribution = v
	case ParamNeedExpense:
		p.NeedExpense = v
	case ParamWantExpense:
		p.WantExpense = v
	case ParamAccumulationReturn:
		p.AccumulationReturn = v
	case ParamPreretirementReturn:
		p.PreretirementReturn = v
	case ParamPostRetirementReturn:
		p.PostRetirementReturn = v
	case ParamInflation:
		p.Inflation = v
	default:
		return p, NewParameterError(name, v.String(), "unknown parameter")
	}
	return p, nil
}

// ValidateRanges checks every field against PlanParameterSpecs and returns
// the first violation.
func (p PlanParameters) ValidateRanges() error {
	for _, s := range PlanParameterSpecs {
		v, err := p.Value(s.Name)
		if err != nil {
			return err
		}
		if err := s.Check(v); err != nil {
			return err
		}
	}
	return nil
}

func normalizeParamName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}
