package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Templates(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())
	base := domain.DefaultPlanParameters()

	compSet, err := engine.Compare(context.Background(), base, CompareOptions{
		BaseName:  "baseline",
		Templates: []string{"retire_later_2yr", "high_inflation", "save_more_250"},
	})
	require.NoError(t, err)

	assert.Equal(t, "baseline", compSet.BaseScenarioName)
	require.NotNil(t, compSet.BaseResult)
	require.Len(t, compSet.AlternativeResults, 3)

	later := compSet.AlternativeResults[0]
	assert.Equal(t, "retire_later_2yr", later.ScenarioName)
	assert.Equal(t, 62, later.RetirementAge)
	assert.True(t, later.RetirementBalanceDiff.IsPositive(), "Working longer grows the balance at retirement")

	inflation := compSet.AlternativeResults[1]
	assert.True(t, inflation.FinalBalanceDiff.IsNegative(), "Higher inflation leaves less money")

	more := compSet.AlternativeResults[2]
	assert.True(t, more.FinalBalanceDiff.IsPositive())
	assert.Equal(t, "Contribute $250 more per month", more.Description)

	assert.NotEmpty(t, compSet.Recommendations)
}

func TestCompare_Transforms(t *testing.T) {
	engine := NewCompareEngine(nil)

	compSet, err := engine.Compare(context.Background(), domain.DefaultPlanParameters(), CompareOptions{
		Transforms: []string{"set_retirement_age:age=65"},
	})
	require.NoError(t, err)

	assert.Equal(t, "base", compSet.BaseScenarioName)
	require.Len(t, compSet.AlternativeResults, 1)
	assert.Equal(t, 65, compSet.AlternativeResults[0].RetirementAge)
}

func TestCompare_Errors(t *testing.T) {
	engine := NewCompareEngine(nil)
	ctx := context.Background()
	base := domain.DefaultPlanParameters()

	_, err := engine.Compare(ctx, base, CompareOptions{})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = engine.Compare(ctx, base, CompareOptions{Templates: []string{"nope"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = engine.Compare(ctx, base, CompareOptions{Transforms: []string{"set_retirement_age:age=200"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestCompareScenarios(t *testing.T) {
	later := 65
	config := &domain.Configuration{
		Name: "household",
		Plan: domain.DefaultPlanParameters(),
		Scenarios: []domain.PlanScenario{
			{Name: "Retire at 65", RetirementAge: &later},
		},
	}

	engine := NewCompareEngine(nil)
	compSet, err := engine.CompareScenarios(context.Background(), config, nil)
	require.NoError(t, err, "No names compares every scenario")

	assert.Equal(t, "household", compSet.BaseScenarioName)
	require.Len(t, compSet.AlternativeResults, 1)
	assert.Equal(t, 65, compSet.AlternativeResults[0].RetirementAge)

	_, err = engine.CompareScenarios(context.Background(), config, []string{"missing"})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = engine.CompareScenarios(context.Background(), &domain.Configuration{Plan: domain.DefaultPlanParameters()}, nil)
	assert.Error(t, err)
}

func TestCompare_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCompareEngine(nil).Compare(ctx, domain.DefaultPlanParameters(), CompareOptions{Templates: []string{"live_to_95"}})
	assert.ErrorIs(t, err, context.Canceled)
}
