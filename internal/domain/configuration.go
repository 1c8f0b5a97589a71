package domain

import (
	"github.com/shopspring/decimal"
)

// Configuration is the on-disk plan file: one base plan plus optional named variants.
type Configuration struct {
	Name      string         `yaml:"name" json:"name"`
	Plan      PlanParameters `yaml:"plan" json:"plan"`
	Scenarios []PlanScenario `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}

// PlanScenario overrides selected fields of the base plan. Nil fields inherit.
type PlanScenario struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Age                   *int `yaml:"age,omitempty" json:"age,omitempty"`
	PreretirementStartAge *int `yaml:"preretirement_start_age,omitempty" json:"preretirementStartAge,omitempty"`
	RetirementAge         *int `yaml:"retirement_age,omitempty" json:"retirementAge,omitempty"`
	LifeExpectancy        *int `yaml:"life_expectancy,omitempty" json:"lifeExpectancy,omitempty"`

	CurrentSavings      *decimal.Decimal `yaml:"current_savings,omitempty" json:"currentSavings,omitempty"`
	MonthlyContribution *decimal.Decimal `yaml:"monthly_contribution,omitempty" json:"monthlyContribution,omitempty"`
	NeedExpense         *decimal.Decimal `yaml:"need_expense,omitempty" json:"needExpense,omitempty"`
	WantExpense         *decimal.Decimal `yaml:"want_expense,omitempty" json:"wantExpense,omitempty"`

	AccumulationReturn   *decimal.Decimal `yaml:"accumulation_return,omitempty" json:"accumulationReturn,omitempty"`
	PreretirementReturn  *decimal.Decimal `yaml:"preretirement_return,omitempty" json:"preretirementReturn,omitempty"`
	PostRetirementReturn *decimal.Decimal `yaml:"post_retirement_return,omitempty" json:"postRetirementReturn,omitempty"`
	Inflation            *decimal.Decimal `yaml:"inflation,omitempty" json:"inflation,omitempty"`
}

// Apply overlays the scenario's non-nil fields onto base.
func (s PlanScenario) Apply(base PlanParameters) PlanParameters {
	p := base
	if s.Age != nil {
		p.Age = *s.Age
	}
	if s.PreretirementStartAge != nil {
		p.PreretirementStartAge = *s.PreretirementStartAge
	}
	if s.RetirementAge != nil {
		p.RetirementAge = *s.RetirementAge
	}
	if s.LifeExpectancy != nil {
		p.LifeExpectancy = *s.LifeExpectancy
	}
	if s.CurrentSavings != nil {
		p.CurrentSavings = *s.CurrentSavings
	}
	if s.MonthlyContribution != nil {
		p.MonthlyContribution = *s.MonthlyContribution
	}
	if s.NeedExpense != nil {
		p.NeedExpense = *s.NeedExpense
	}
	if s.WantExpense != nil {
		p.WantExpense = *s.WantExpense
	}
	if s.AccumulationReturn != nil {
		p.AccumulationReturn = *s.AccumulationReturn
	}
	if s.PreretirementReturn != nil {
		p.PreretirementReturn = *s.PreretirementReturn
	}
	if s.PostRetirementReturn != nil {
		p.PostRetirementReturn = *s.PostRetirementReturn
	}
	if s.Inflation != nil {
		p.Inflation = *s.Inflation
	}
	return p
}

// FindScenario returns the named scenario.
func (c *Configuration) FindScenario(name string) (*PlanScenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// ResolvePlan returns the base plan, or the base plan with the named
// scenario applied when name is non-empty.
func (c *Configuration) ResolvePlan(name string) (PlanParameters, error) {
	if name == "" {
		return c.Plan, nil
	}
	s, ok := c.FindScenario(name)
	if !ok {
		return PlanParameters{}, NewParameterError("scenario", name, "scenario not found in configuration")
	}
	return s.Apply(c.Plan), nil
}

// DefaultPlanParameters returns the starting values of a fresh plan.
func DefaultPlanParameters() PlanParameters {
	return PlanParameters{
		Age:                   30,
		PreretirementStartAge: 55,
		RetirementAge:         60,
		LifeExpectancy:        85,
		CurrentSavings:        decimal.NewFromInt(100000),
		MonthlyContribution:   decimal.NewFromInt(500),
		NeedExpense:           decimal.NewFromInt(1500),
		WantExpense:           decimal.NewFromInt(500),
		AccumulationReturn:    decimal.NewFromInt(7),
		PreretirementReturn:   decimal.NewFromInt(5),
		PostRetirementReturn:  decimal.NewFromInt(3),
		Inflation:             decimal.NewFromFloat(2.5),
	}
}
