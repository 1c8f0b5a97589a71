package breakeven

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		input    string
		expected OptimizationTarget
	}{
		{"contribution", OptimizeContribution},
		{"savings", OptimizeContribution},
		{"expenses", OptimizeExpenses},
		{"spending", OptimizeExpenses},
		{"retirement_age", OptimizeRetirementAge},
		{"age", OptimizeRetirementAge},
		{"all", OptimizeAll},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseTarget("tsp_rate")
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestDefaultConstraints(t *testing.T) {
	base := flatPlan()
	base.LifeExpectancy = 80

	c := DefaultConstraints(base)
	assert.Equal(t, 50, *c.MinRetirementAge)
	assert.Equal(t, 79, *c.MaxRetirementAge, "Retiring at life expectancy leaves nothing to fund")
	assert.True(t, c.MinContribution.IsZero())
	assert.True(t, c.MaxExpenseScale.Equal(d(500)))
	assert.NoError(t, c.Validate())

	base.Age = 58
	c = DefaultConstraints(base)
	assert.Equal(t, 58, *c.MinRetirementAge, "Cannot retire before today")
}

func TestConstraintsValidate(t *testing.T) {
	neg := d(-1)
	lo, hi := d(200), d(100)
	ageLo, ageHi := 70, 60

	tests := []struct {
		name        string
		constraints Constraints
		message     string
	}{
		{"negative contribution", Constraints{MinContribution: &neg}, "min_contribution cannot be negative"},
		{"contribution order", Constraints{MinContribution: &lo, MaxContribution: &hi}, "min_contribution cannot be greater"},
		{"negative scale", Constraints{MinExpenseScale: &neg}, "min_expense_scale cannot be negative"},
		{"scale order", Constraints{MinExpenseScale: &lo, MaxExpenseScale: &hi}, "min_expense_scale cannot be greater"},
		{"age order", Constraints{MinRetirementAge: &ageLo, MaxRetirementAge: &ageHi}, "min_retirement_age cannot be greater"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constraints.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
		})
	}

	empty := Constraints{}
	assert.NoError(t, empty.Validate(), "Unset bounds are valid")
}

func TestBreakEvenError(t *testing.T) {
	cause := errors.New("boom")
	err := &BreakEvenError{Operation: "optimize_contribution", Message: "evaluation failed", Cause: cause}
	assert.Equal(t, "optimize_contribution: evaluation failed: boom", err.Error())
	assert.True(t, errors.Is(err, cause))

	plain := &BreakEvenError{Operation: "optimize", Message: "bad target", Cause: domain.ErrInvalidParameter}
	assert.Equal(t, "optimize: bad target", plain.Error())
}

func TestOptimalValueString(t *testing.T) {
	amount := d(1234.5)
	age := 66
	assert.Equal(t, "$1234.50/month", (&OptimizationResult{OptimalContribution: &amount}).OptimalValueString())
	assert.Equal(t, "$1234.50/month", (&OptimizationResult{SustainableMonthlyExpenses: &amount}).OptimalValueString())
	assert.Equal(t, "age 66", (&OptimizationResult{OptimalRetirementAge: &age}).OptimalValueString())
	assert.Equal(t, "n/a", (&OptimizationResult{}).OptimalValueString())
}

func TestTableFormatter(t *testing.T) {
	amount := d(1000.01)
	depleted := 75
	result := &OptimizationResult{
		Request:             OptimizationRequest{Target: OptimizeContribution},
		Success:             true,
		Iterations:          17,
		ConvergenceInfo:     "binary search converged within $1.00",
		OptimalContribution: &amount,
		FinalBalance:        d(1.2),
		BaseFinalBalance:    d(0),
		DepletionAge:        &depleted,
	}

	out := (&TableFormatter{}).Format(result)
	assert.Contains(t, out, "BREAK-EVEN ANALYSIS")
	assert.Contains(t, out, "✓ Converged")
	assert.Contains(t, out, "Minimum Monthly Contribution:  $1000.01")
	assert.Contains(t, out, "Depleted At:    age 75")
	assert.Contains(t, out, "Change:                 +$1.20")

	result.NeverFeasible = true
	assert.Contains(t, (&TableFormatter{}).Format(result), "No value in range")
}

func TestJSONFormatter(t *testing.T) {
	age := 66
	out, err := (&JSONFormatter{}).Format(&OptimizationResult{
		Request:              OptimizationRequest{Target: OptimizeRetirementAge},
		Success:              true,
		OptimalRetirementAge: &age,
	})
	require.NoError(t, err)
	assert.Contains(t, out, `"target":"retirement_age"`)
	assert.Contains(t, out, `"optimal_retirement_age":66`)
	assert.NotContains(t, out, "optimal_contribution")
}
