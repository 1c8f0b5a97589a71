package domain

import (
	"github.com/shopspring/decimal"
)

// PlanParameters is the complete input for one retirement projection.
// Rates are annual percentages (7 means 7%); expenses are monthly amounts
// in today's money.
type PlanParameters struct {
	Age                   int `yaml:"age" json:"age"`
	PreretirementStartAge int `yaml:"preretirement_start_age" json:"preretirementStartAge"`
	RetirementAge         int `yaml:"retirement_age" json:"retirementAge"`
	LifeExpectancy        int `yaml:"life_expectancy" json:"lifeExpectancy"`

	CurrentSavings      decimal.Decimal `yaml:"current_savings" json:"currentSavings"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthlyContribution"`
	NeedExpense         decimal.Decimal `yaml:"need_expense" json:"needExpense"`
	WantExpense         decimal.Decimal `yaml:"want_expense" json:"wantExpense"`

	AccumulationReturn   decimal.Decimal `yaml:"accumulation_return" json:"accumulationReturn"`
	PreretirementReturn  decimal.Decimal `yaml:"preretirement_return" json:"preretirementReturn"`
	PostRetirementReturn decimal.Decimal `yaml:"post_retirement_return" json:"postRetirementReturn"`
	Inflation            decimal.Decimal `yaml:"inflation" json:"inflation"`
}

// CurrentMonthlyExpenses returns need plus want in today's money.
func (p PlanParameters) CurrentMonthlyExpenses() decimal.Decimal {
	return p.NeedExpense.Add(p.WantExpense)
}

// PlanAges holds the phase boundary ages after ordering has been enforced.
// They position phase labels and chart markers; durations and the expense
// horizon always use the raw ages.
type PlanAges struct {
	Age                   int `json:"age"`
	PreretirementStartAge int `json:"preretirementStartAge"`
	RetirementAge         int `json:"retirementAge"`
	LifeExpectancy        int `json:"lifeExpectancy"`
}

// NormalizedAges clamps the boundary ages so that
// age <= preretirementStart <= retirement <= lifeExpectancy always holds.
// Retirement age is anchored first; a preretirement start outside
// [age, retirement] collapses onto the nearer edge.
func (p PlanParameters) NormalizedAges() PlanAges {
	life := maxInt(p.LifeExpectancy, p.Age)
	retirement := clampInt(p.RetirementAge, p.Age, life)
	preretirement := clampInt(p.PreretirementStartAge, p.Age, retirement)
	return PlanAges{
		Age:                   p.Age,
		PreretirementStartAge: preretirement,
		RetirementAge:         retirement,
		LifeExpectancy:        life,
	}
}

// IsOrdered reports whether the raw ages already satisfy the expected ordering.
func (p PlanParameters) IsOrdered() bool {
	return p.Age <= p.PreretirementStartAge &&
		p.PreretirementStartAge <= p.RetirementAge &&
		p.RetirementAge <= p.LifeExpectancy
}

// PhaseDurations is the whole-year length of each phase.
type PhaseDurations struct {
	AccumulationYears  int `json:"accumulationYears"`
	PreretirementYears int `json:"preretirementYears"`
	RetirementYears    int `json:"retirementYears"`
}

// Durations derives the phase lengths from the raw ages. Each phase is the
// gap between its boundary ages, floored at zero.
func (p PlanParameters) Durations() PhaseDurations {
	return PhaseDurations{
		AccumulationYears:  maxInt(0, p.PreretirementStartAge-p.Age),
		PreretirementYears: maxInt(0, p.RetirementAge-p.PreretirementStartAge),
		RetirementYears:    maxInt(0, p.LifeExpectancy-p.RetirementAge),
	}
}

// YearsToRetirement is the inflation horizon for the future expense
// projection. It is negative when the retirement age is already behind.
func (p PlanParameters) YearsToRetirement() int {
	return p.RetirementAge - p.Age
}

// Phase names the life phase a timeline age falls in.
type Phase string

const (
	PhaseAccumulation  Phase = "accumulation"
	PhasePreretirement Phase = "preretirement"
	PhaseRetirement    Phase = "retirement"
)

// PhaseAt classifies an age against the normalized boundaries.
func (a PlanAges) PhaseAt(age int) Phase {
	switch {
	case age < a.PreretirementStartAge:
		return PhaseAccumulation
	case age < a.RetirementAge:
		return PhasePreretirement
	default:
		return PhaseRetirement
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
