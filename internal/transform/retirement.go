package transform

import (
	"fmt"

	"github.com/rgehrsitz/rplan/internal/domain"
)

// PostponeRetirement moves the retirement age by a number of years.
// Negative values retire earlier. The preretirement start moves with it so
// the length of the preretirement phase is kept when possible.
type PostponeRetirement struct {
	Years int
}

func (pr *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (pr *PostponeRetirement) Description() string {
	if pr.Years < 0 {
		return fmt.Sprintf("Retire %d years earlier", -pr.Years)
	}
	return fmt.Sprintf("Postpone retirement by %d years", pr.Years)
}

func (pr *PostponeRetirement) Validate(base *domain.PlanParameters) error {
	if err := requireBase(pr.Name(), base); err != nil {
		return err
	}
	if pr.Years == 0 {
		return invalid(pr.Name(), "years must be non-zero")
	}
	return checkAge(pr.Name(), domain.ParamRetirementAge, base.RetirementAge+pr.Years)
}

func (pr *PostponeRetirement) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := copyPlan(base)
	modified.RetirementAge += pr.Years
	if spec, ok := domain.LookupParameterSpec(domain.ParamPreretirementStartAge); ok {
		start := modified.PreretirementStartAge + pr.Years
		if spec.Check(decimalAge(start)) == nil {
			modified.PreretirementStartAge = start
		}
	}
	return modified, nil
}

// SetRetirementAge sets the retirement age to an absolute value.
type SetRetirementAge struct {
	Age int
}

func (sr *SetRetirementAge) Name() string {
	return "set_retirement_age"
}

func (sr *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at age %d", sr.Age)
}

func (sr *SetRetirementAge) Validate(base *domain.PlanParameters) error {
	if err := requireBase(sr.Name(), base); err != nil {
		return err
	}
	return checkAge(sr.Name(), domain.ParamRetirementAge, sr.Age)
}

func (sr *SetRetirementAge) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := copyPlan(base)
	modified.RetirementAge = sr.Age
	return modified, nil
}

// SetLifeExpectancy sets the age the savings must last until.
type SetLifeExpectancy struct {
	Age int
}

func (sl *SetLifeExpectancy) Name() string {
	return "set_life_expectancy"
}

func (sl *SetLifeExpectancy) Description() string {
	return fmt.Sprintf("Plan for savings to last until age %d", sl.Age)
}

func (sl *SetLifeExpectancy) Validate(base *domain.PlanParameters) error {
	if err := requireBase(sl.Name(), base); err != nil {
		return err
	}
	return checkAge(sl.Name(), domain.ParamLifeExpectancy, sl.Age)
}

func (sl *SetLifeExpectancy) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := copyPlan(base)
	modified.LifeExpectancy = sl.Age
	return modified, nil
}

func checkAge(transform, field string, age int) error {
	spec, _ := domain.LookupParameterSpec(field)
	if err := spec.Check(decimalAge(age)); err != nil {
		return NewTransformError(transform, "validate", fmt.Sprintf("%s %d is out of range", field, age), err)
	}
	return nil
}
