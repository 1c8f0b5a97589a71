package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rplan/internal/domain"
)

// execute runs the command tree with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const testPlan = `name: Household
plan:
  age: 40
  preretirement_start_age: 55
  retirement_age: 62
  life_expectancy: 90
  current_savings: 250000
  monthly_contribution: 1000
  need_expense: 2000
  want_expense: 500
  accumulation_return: 6
  preretirement_return: 4
  post_retirement_return: 3
  inflation: 2.5
scenarios:
  - name: late
    description: Work three more years
    retirement_age: 65
`

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testPlan), 0o600))
	return path
}

type jsonReport struct {
	Title   string `json:"title"`
	Verdict string `json:"verdict"`
	Result  struct {
		Parameters domain.PlanParameters `json:"parameters"`
		FundsLast  bool                  `json:"fundsLast"`
		Timeline   []json.RawMessage     `json:"timeline"`
	} `json:"result"`
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "rplan", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"calculate", "validate", "example", "sensitivity", "break-even", "compare", "transforms", "serve", "history", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "calculate")
	assert.Contains(t, out, "--debug")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rplan dev")
}

func TestCalculate_DefaultsConsole(t *testing.T) {
	out, _, err := execute(t, "calculate")
	require.NoError(t, err)

	assert.Contains(t, out, "DEFAULT PLAN")
	assert.Contains(t, out, "EXPENSE BREAKDOWN")
	assert.Contains(t, out, "DETAILS OF YOUR PLAN")
	hasVerdict := bytes.Contains([]byte(out), []byte(domain.VerdictFundsLast)) ||
		bytes.Contains([]byte(out), []byte(domain.VerdictFundsRunOut))
	assert.True(t, hasVerdict)
}

func TestCalculate_OverrideFlagsJSON(t *testing.T) {
	out, _, err := execute(t, "calculate", "--format", "json", "--retirement-age", "62", "--inflation", "3")
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 62, report.Result.Parameters.RetirementAge)
	assert.True(t, report.Result.Parameters.Inflation.Equal(decimal.NewFromInt(3)))
	assert.Len(t, report.Result.Timeline, 85-30+1)
}

func TestCalculate_FileAndScenario(t *testing.T) {
	path := writePlan(t)

	out, _, err := execute(t, "calculate", path, "--scenario", "late", "-f", "json")
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "late", report.Title)
	assert.Equal(t, 65, report.Result.Parameters.RetirementAge)
	assert.Equal(t, 40, report.Result.Parameters.Age)
}

func TestCalculate_WritesOutputFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.csv")
	out, _, err := execute(t, "calculate", "--format", "csv", "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"calculate", "--format", "pdf"}, "unknown format"},
		{"scenario without file", []string{"calculate", "--scenario", "late"}, "requires a plan file"},
		{"bad number", []string{"calculate", "--inflation", "abc"}, "not a number"},
		{"out of range", []string{"calculate", "--inflation", "-1"}, "inflation"},
		{"missing file", []string{"calculate", "no-such-plan.yaml"}, "failed to read file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, _, err := execute(t, "calculate", writePlan(t), "--scenario", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestValidate(t *testing.T) {
	out, _, err := execute(t, "validate", writePlan(t))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "Scenario: late")

	_, _, err = execute(t, "validate")
	assert.Error(t, err)
}

func TestValidate_OutOfOrderAges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late-start.yaml")
	plan := strings.Replace(testPlan, "age: 40", "age: 60", 1)
	require.NoError(t, os.WriteFile(path, []byte(plan), 0o600))

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "phases run 0/7/28 years")
}

func TestExample_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	out, _, err := execute(t, "example", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, _, err = execute(t, "validate", path)
	require.NoError(t, err)

	out, _, err = execute(t, "example")
	require.NoError(t, err)
	assert.Contains(t, out, "retirement_age")
}

func TestSensitivity(t *testing.T) {
	out, _, err := execute(t, "sensitivity", writePlan(t), "--param", "inflation:2-3:3", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "inflation")

	_, _, err = execute(t, "sensitivity", "--param", "bogus:1-2:3")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestParseSweepSpec(t *testing.T) {
	base := domain.DefaultPlanParameters()

	p, err := parseSweepSpec("post-retirement-return:1-6:6", base)
	require.NoError(t, err)
	assert.Equal(t, domain.ParamPostRetirementReturn, p.Name)
	assert.True(t, p.MinValue.Equal(decimal.NewFromInt(1)))
	assert.True(t, p.MaxValue.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 6, p.Steps)
	assert.True(t, p.BaseValue.Equal(base.PostRetirementReturn))
	assert.Equal(t, "%", p.Unit)

	p, err = parseSweepSpec("retirement_age:58-66", base)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Steps)

	for _, bad := range []string{"inflation", "inflation:2", "inflation:a-3:3", "inflation:2-b:3", "inflation:2-3:1", "a:b:c:d"} {
		_, err := parseSweepSpec(bad, base)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter, bad)
	}
}

func TestBreakEven(t *testing.T) {
	out, _, err := execute(t, "break-even", writePlan(t), "--target", "contribution", "--format", "json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Contains(t, result, "success")

	out, _, err = execute(t, "break-even", "--format", "json")
	require.NoError(t, err)
	var multi struct {
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &multi))
	assert.Len(t, multi.Results, 3)

	_, _, err = execute(t, "break-even", "--target", "nonsense")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestCompare(t *testing.T) {
	path := writePlan(t)

	out, _, err := execute(t, "compare", path, "--templates", "retire_later_2yr", "--format", "json")
	require.NoError(t, err)
	var set struct {
		Base         string `json:"baseScenarioName"`
		Alternatives []struct {
			Name          string `json:"scenarioName"`
			RetirementAge int    `json:"retirementAge"`
		} `json:"alternativeResults"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, "Household", set.Base)
	require.Len(t, set.Alternatives, 1)
	assert.Equal(t, 64, set.Alternatives[0].RetirementAge)

	out, _, err = execute(t, "compare", path, "--scenarios", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	require.Len(t, set.Alternatives, 1)
	assert.Equal(t, "late", set.Alternatives[0].Name)

	out, _, err = execute(t, "compare", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Templates")

	_, _, err = execute(t, "compare", "--scenarios")
	assert.Error(t, err)
	_, _, err = execute(t, "compare")
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestTransforms(t *testing.T) {
	out, _, err := execute(t, "transforms")
	require.NoError(t, err)
	assert.Contains(t, out, "postpone_retirement")
	assert.Contains(t, out, "scale_expenses")
	assert.Contains(t, out, "Available Templates")
}

func TestHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, _, err := execute(t, "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No evaluations recorded")

	_, stderr, err := execute(t, "calculate", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Recorded evaluation")

	out, _, err = execute(t, "history", "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	var records []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)

	out, _, err = execute(t, "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, records[0].ID)

	out, _, err = execute(t, "history", "show", records[0].ID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Evaluation "+records[0].ID)
	assert.Contains(t, out, "30 / 55 / 60 / 85")

	_, _, err = execute(t, "history", "show", "missing", "--db", db)
	assert.Error(t, err)
}
