package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to solve for
type OptimizationTarget string

const (
	OptimizeContribution  OptimizationTarget = "contribution"   // minimum monthly contribution
	OptimizeExpenses      OptimizationTarget = "expenses"       // maximum uniform expense scale
	OptimizeRetirementAge OptimizationTarget = "retirement_age" // earliest retirement age
	OptimizeAll           OptimizationTarget = "all"
)

// ParseTarget maps a user-supplied name onto a target.
func ParseTarget(s string) (OptimizationTarget, error) {
	switch OptimizationTarget(s) {
	case OptimizeContribution, OptimizeExpenses, OptimizeRetirementAge, OptimizeAll:
		return OptimizationTarget(s), nil
	case "savings":
		return OptimizeContribution, nil
	case "spending", "expense":
		return OptimizeExpenses, nil
	case "age", "retirement":
		return OptimizeRetirementAge, nil
	default:
		return "", domain.NewParameterError("target", s, "must be contribution, expenses, retirement_age or all")
	}
}

// Constraints define bounds for the searched parameter. Nil bounds fall back
// to DefaultConstraints.
type Constraints struct {
	MinContribution *decimal.Decimal `json:"min_contribution,omitempty"`
	MaxContribution *decimal.Decimal `json:"max_contribution,omitempty"`

	// Expense scale in percent of today's need+want (100 = unchanged)
	MinExpenseScale *decimal.Decimal `json:"min_expense_scale,omitempty"`
	MaxExpenseScale *decimal.Decimal `json:"max_expense_scale,omitempty"`

	MinRetirementAge *int `json:"min_retirement_age,omitempty"`
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`
}

// DefaultConstraints returns search bounds derived from the plan and the input ranges.
func DefaultConstraints(base domain.PlanParameters) Constraints {
	minContribution := decimal.Zero
	maxContribution := decimal.NewFromInt(20000)
	minScale := decimal.Zero
	maxScale := decimal.NewFromInt(500)

	spec, _ := domain.LookupParameterSpec(domain.ParamRetirementAge)
	minAge := int(spec.Min.IntPart())
	if base.Age > minAge {
		minAge = base.Age
	}
	// Retiring at life expectancy leaves no retirement years to fund.
	maxAge := int(spec.Max.IntPart())
	if base.LifeExpectancy-1 < maxAge {
		maxAge = base.LifeExpectancy - 1
	}

	return Constraints{
		MinContribution:  &minContribution,
		MaxContribution:  &maxContribution,
		MinExpenseScale:  &minScale,
		MaxExpenseScale:  &maxScale,
		MinRetirementAge: &minAge,
		MaxRetirementAge: &maxAge,
	}
}

// withDefaults fills nil bounds from DefaultConstraints.
func (c Constraints) withDefaults(base domain.PlanParameters) Constraints {
	d := DefaultConstraints(base)
	if c.MinContribution == nil {
		c.MinContribution = d.MinContribution
	}
	if c.MaxContribution == nil {
		c.MaxContribution = d.MaxContribution
	}
	if c.MinExpenseScale == nil {
		c.MinExpenseScale = d.MinExpenseScale
	}
	if c.MaxExpenseScale == nil {
		c.MaxExpenseScale = d.MaxExpenseScale
	}
	if c.MinRetirementAge == nil {
		c.MinRetirementAge = d.MinRetirementAge
	}
	if c.MaxRetirementAge == nil {
		c.MaxRetirementAge = d.MaxRetirementAge
	}
	return c
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinContribution != nil && c.MinContribution.IsNegative() {
		return constraintError("min_contribution cannot be negative")
	}
	if c.MinContribution != nil && c.MaxContribution != nil && c.MinContribution.GreaterThan(*c.MaxContribution) {
		return constraintError("min_contribution cannot be greater than max_contribution")
	}
	if c.MinExpenseScale != nil && c.MinExpenseScale.IsNegative() {
		return constraintError("min_expense_scale cannot be negative")
	}
	if c.MinExpenseScale != nil && c.MaxExpenseScale != nil && c.MinExpenseScale.GreaterThan(*c.MaxExpenseScale) {
		return constraintError("min_expense_scale cannot be greater than max_expense_scale")
	}
	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil && *c.MinRetirementAge > *c.MaxRetirementAge {
		return constraintError("min_retirement_age cannot be greater than max_retirement_age")
	}
	return nil
}

func constraintError(msg string) error {
	return &BreakEvenError{
		Operation: "validate_constraints",
		Message:   msg,
		Cause:     domain.ErrInvalidParameter,
	}
}

// OptimizationRequest defines the parameters for one solver run
type OptimizationRequest struct {
	Base          domain.PlanParameters `json:"-"`
	Target        OptimizationTarget    `json:"target"`
	Constraints   Constraints           `json:"constraints"`
	MaxIterations int                   `json:"max_iterations"`
	Tolerance     decimal.Decimal       `json:"tolerance"`
}

// OptimizationResult contains the results of a solver run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	// AlwaysFeasible is set when funds last across the whole search range;
	// NeverFeasible when they last nowhere in it.
	AlwaysFeasible bool `json:"always_feasible"`
	NeverFeasible  bool `json:"never_feasible"`

	OptimalContribution        *decimal.Decimal `json:"optimal_contribution,omitempty"`
	OptimalExpenseScale        *decimal.Decimal `json:"optimal_expense_scale,omitempty"`
	SustainableMonthlyExpenses *decimal.Decimal `json:"sustainable_monthly_expenses,omitempty"`
	OptimalRetirementAge       *int             `json:"optimal_retirement_age,omitempty"`

	// Evaluation at the optimal value
	Plan         *domain.PlanParameters   `json:"plan,omitempty"`
	Result       *domain.SimulationResult `json:"-"`
	FundsLast    bool                     `json:"funds_last"`
	FinalBalance decimal.Decimal          `json:"final_balance"`
	DepletionAge *int                     `json:"depletion_age,omitempty"`

	// Base plan for comparison
	BaseFundsLast    bool            `json:"base_funds_last"`
	BaseFinalBalance decimal.Decimal `json:"base_final_balance"`
}

// OptimalValueString renders the solved value with its unit.
func (r *OptimizationResult) OptimalValueString() string {
	switch {
	case r.OptimalContribution != nil:
		return "$" + r.OptimalContribution.StringFixed(2) + "/month"
	case r.SustainableMonthlyExpenses != nil:
		return "$" + r.SustainableMonthlyExpenses.StringFixed(2) + "/month"
	case r.OptimalRetirementAge != nil:
		return fmt.Sprintf("age %d", *r.OptimalRetirementAge)
	default:
		return "n/a"
	}
}

// MultiTargetResult contains one result per target when solving for all of them
type MultiTargetResult struct {
	Results         []OptimizationResult `json:"results"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Algorithm      string          // "binary_search"
	Tolerance      decimal.Decimal // Convergence tolerance for dollar targets
	ScaleTolerance decimal.Decimal // Convergence tolerance for the expense scale, in percent
	MaxIterations  int             // Maximum evaluations per run
}

// MaxIterationsLimit caps the evaluations a caller may request per run.
const MaxIterationsLimit = 1000

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Algorithm:      "binary_search",
		Tolerance:      decimal.NewFromInt(1), // $1 tolerance
		ScaleTolerance: decimal.NewFromFloat(0.01),
		MaxIterations:  100,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil && e.Cause != domain.ErrInvalidParameter {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
