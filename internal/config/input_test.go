package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
name: "Baseline"
plan:
  age: 30
  preretirement_start_age: 55
  retirement_age: 60
  life_expectancy: 85
  current_savings: 100000
  monthly_contribution: "500"
  accumulation_return: 7
  preretirement_return: 5
  post_retirement_return: 3
  inflation: 2.5
  need_expense: 1500
  want_expense: 500
scenarios:
  - name: "Retire at 65"
    retirement_age: 65
  - name: "Frugal"
    want_expense: 200
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	config, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTemp(t, "invalid: yaml: content: [unclosed"))

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTemp(t, validYAML))
	require.NoError(t, err, "Should load valid YAML")

	assert.Equal(t, "Baseline", config.Name)
	assert.Equal(t, domain.DefaultPlanParameters().Age, config.Plan.Age)
	assert.True(t, config.Plan.Inflation.Equal(decimal.NewFromFloat(2.5)))
	assert.True(t, config.Plan.MonthlyContribution.Equal(decimal.NewFromInt(500)), "Quoted decimals are accepted")
	require.Len(t, config.Scenarios, 2)

	plan, err := config.ResolvePlan("Retire at 65")
	require.NoError(t, err)
	assert.Equal(t, 65, plan.RetirementAge)
	assert.True(t, plan.WantExpense.Equal(decimal.NewFromInt(500)), "Unset overrides inherit the base plan")
}

func TestParseConfiguration_UnknownField(t *testing.T) {
	_, err := NewInputParser().ParseConfiguration([]byte("plan:\n  agee: 30\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agee")
}

func TestParseConfiguration_NonFiniteDecimal(t *testing.T) {
	for _, bad := range []string{"NaN", ".inf", "-.Inf", "abc"} {
		data := []byte("plan:\n  age: 30\n  inflation: " + bad + "\n")
		_, err := NewInputParser().ParseConfiguration(data)
		require.Error(t, err, "value %q", bad)
		assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "value %q should be an invalid parameter: %v", bad, err)
	}
}

func TestValidateConfiguration_Ranges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.PlanParameters)
		field  string
	}{
		{"age too low", func(p *domain.PlanParameters) { p.Age = 17 }, domain.ParamAge},
		{"life expectancy too high", func(p *domain.PlanParameters) { p.LifeExpectancy = 121 }, domain.ParamLifeExpectancy},
		{"negative savings", func(p *domain.PlanParameters) { p.CurrentSavings = decimal.NewFromInt(-1) }, domain.ParamCurrentSavings},
		{"accumulation return too high", func(p *domain.PlanParameters) { p.AccumulationReturn = decimal.NewFromInt(16) }, domain.ParamAccumulationReturn},
		{"inflation too high", func(p *domain.PlanParameters) { p.Inflation = decimal.NewFromFloat(10.5) }, domain.ParamInflation},
		{"negative want expense", func(p *domain.PlanParameters) { p.WantExpense = decimal.NewFromInt(-5) }, domain.ParamWantExpense},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := domain.Configuration{Plan: domain.DefaultPlanParameters()}
			tt.mutate(&config.Plan)

			err := parser.ValidateConfiguration(&config)
			require.Error(t, err)
			var pe *domain.ParameterError
			require.True(t, errors.As(err, &pe), "Should be a ParameterError")
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestValidateConfiguration_Scenarios(t *testing.T) {
	parser := NewInputParser()
	tooOld := 101

	config := domain.Configuration{
		Plan:      domain.DefaultPlanParameters(),
		Scenarios: []domain.PlanScenario{{Name: "bad", RetirementAge: &tooOld}},
	}
	err := parser.ValidateConfiguration(&config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	config.Scenarios = []domain.PlanScenario{{Name: ""}}
	assert.Error(t, parser.ValidateConfiguration(&config), "Scenario name is required")

	config.Scenarios = []domain.PlanScenario{{Name: "a"}, {Name: "a"}}
	assert.Error(t, parser.ValidateConfiguration(&config), "Duplicate names are rejected")
}

func TestValidateConfiguration_AllowsUnorderedAges(t *testing.T) {
	config := domain.Configuration{Plan: domain.DefaultPlanParameters()}
	config.Plan.Age = 58
	config.Plan.PreretirementStartAge = 55

	assert.NoError(t, NewInputParser().ValidateConfiguration(&config), "Ordering is normalized by the engine, not rejected")
}

func TestGenerateExample_RoundTrips(t *testing.T) {
	data, err := GenerateExample()
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Retirement plan configuration")

	config, err := NewInputParser().ParseConfiguration(data)
	require.NoError(t, err, "Generated example should parse:\n%s", data)
	assert.Equal(t, "Baseline", config.Name)
	assert.True(t, config.Plan.NeedExpense.Equal(domain.DefaultPlanParameters().NeedExpense))
	require.Len(t, config.Scenarios, 1)
	require.NotNil(t, config.Scenarios[0].RetirementAge)
	assert.Equal(t, 65, *config.Scenarios[0].RetirementAge)
}
