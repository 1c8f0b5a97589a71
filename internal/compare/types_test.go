package compare

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func sampleSet() *ComparisonSet {
	base := ComparisonResult{
		ScenarioName:           "Base",
		RetirementStartBalance: decimal.NewFromInt(900000),
		FinalBalance:           decimal.Zero,
		YearsFunded:            20,
		DepletionAge:           intPtr(80),
		FundsLast:              false,
		RetirementAge:          60,
		LifeExpectancy:         85,
	}
	alt := ComparisonResult{
		ScenarioName:           "Later",
		Description:            "Retire 2 years later",
		RetirementStartBalance: decimal.NewFromInt(1100000),
		FinalBalance:           decimal.NewFromInt(150000),
		YearsFunded:            23,
		FundsLast:              true,
		RetirementAge:          62,
		LifeExpectancy:         85,
	}
	mc := NewMetricsCalculator()
	alt = mc.CalculateComparison(alt, base)

	set := &ComparisonSet{
		BaseScenarioName:   "Base",
		BaseResult:         &base,
		AlternativeResults: []ComparisonResult{alt},
	}
	set.Recommendations = GenerateRecommendations(set)
	return set
}

func TestCalculateComparison(t *testing.T) {
	set := sampleSet()
	alt := set.AlternativeResults[0]

	assert.True(t, alt.FinalBalanceDiff.Equal(decimal.NewFromInt(150000)))
	assert.True(t, alt.RetirementBalanceDiff.Equal(decimal.NewFromInt(200000)))
	assert.True(t, alt.FinalBalancePct.IsZero(), "Percent change is undefined against a zero base")
	assert.Equal(t, 3, alt.YearsFundedDiff)
}

func TestGenerateRecommendations(t *testing.T) {
	recs := sampleSet().Recommendations

	joined := strings.Join(recs, "\n")
	assert.Contains(t, joined, "Largest Final Balance: Later")
	assert.Contains(t, joined, "Closes the Gap: Later")
	assert.Contains(t, joined, "Best Longevity: Later funds 3 more years")

	assert.Empty(t, GenerateRecommendations(&ComparisonSet{}))
}

func TestGenerateRecommendations_Risk(t *testing.T) {
	base := ComparisonResult{ScenarioName: "Base", FinalBalance: decimal.NewFromInt(1000), FundsLast: true, YearsFunded: 25}
	worse := ComparisonResult{ScenarioName: "Early", FundsLast: false, DepletionAge: intPtr(79), YearsFunded: 20}

	recs := GenerateRecommendations(&ComparisonSet{BaseResult: &base, AlternativeResults: []ComparisonResult{worse}})
	assert.Equal(t, []string{"Risk: Early runs out of money at age 79"}, recs)
}

func TestTableFormatter_Format(t *testing.T) {
	set := sampleSet()
	set.ConfigPath = "/path/to/plan.yaml"

	out := (&TableFormatter{}).Format(set)
	for _, want := range []string{
		"RETIREMENT PLAN COMPARISON",
		"Base Plan: Base",
		"Configuration: /path/to/plan.yaml",
		"Base (base)",
		"out at 80",
		"lasts",
		"COMPARISON TO BASE",
		"Later: Retire 2 years later",
		"+$150.0K",
		"+3 years",
		"RECOMMENDATIONS",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTableFormatter_EmptyAlternatives(t *testing.T) {
	set := sampleSet()
	set.AlternativeResults = nil
	set.Recommendations = nil

	out := (&TableFormatter{}).Format(set)
	assert.NotContains(t, out, "COMPARISON TO BASE")
	assert.NotContains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	out := (&TableFormatter{}).FormatCompact(sampleSet())
	assert.Equal(t, "Base: Base | Later: +$150.0K", out)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleSet())
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,Type,Retirement Age"))
	assert.Equal(t, "Base,base,60,900000.00,0.00,20,80,0.00,false,0.00,0.00,0", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Later,alternative,62,1100000.00,150000.00,23,,"))
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := (&JSONFormatter{Pretty: true}).Format(sampleSet())
	assert.NoError(t, err)
	assert.Contains(t, out, `"baseScenarioName": "Base"`)
	assert.Contains(t, out, `"depletionAge": 80`)
	assert.NotContains(t, out, `"Result"`)

	compact, err := (&JSONFormatter{}).Format(sampleSet())
	assert.NoError(t, err)
	assert.NotContains(t, compact, "\n")
}
