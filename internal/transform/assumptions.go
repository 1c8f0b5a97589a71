package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Return phases accepted by AdjustReturn.
const (
	PhaseAll           = "all"
	PhaseAccumulation  = "accumulation"
	PhasePreretirement = "preretirement"
	PhaseRetirement    = "retirement"
)

// AdjustReturn shifts the annual return of one phase, or all phases, by a
// number of percentage points. Results are floored at zero.
type AdjustReturn struct {
	Phase string
	Delta decimal.Decimal
}

func (ar *AdjustReturn) Name() string {
	return "adjust_return"
}

func (ar *AdjustReturn) Description() string {
	sign := "+"
	if ar.Delta.IsNegative() {
		sign = ""
	}
	return fmt.Sprintf("Adjust %s returns by %s%s points", ar.phase(), sign, ar.Delta.StringFixed(1))
}

func (ar *AdjustReturn) Validate(base *domain.PlanParameters) error {
	if err := requireBase(ar.Name(), base); err != nil {
		return err
	}
	switch ar.phase() {
	case PhaseAll, PhaseAccumulation, PhasePreretirement, PhaseRetirement:
		return nil
	default:
		return invalid(ar.Name(), fmt.Sprintf("unknown phase %q", ar.Phase))
	}
}

func (ar *AdjustReturn) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := copyPlan(base)
	shift := func(v decimal.Decimal) decimal.Decimal {
		return decimal.Max(v.Add(ar.Delta), decimal.Zero)
	}

	phase := ar.phase()
	if phase == PhaseAll || phase == PhaseAccumulation {
		modified.AccumulationReturn = shift(base.AccumulationReturn)
	}
	if phase == PhaseAll || phase == PhasePreretirement {
		modified.PreretirementReturn = shift(base.PreretirementReturn)
	}
	if phase == PhaseAll || phase == PhaseRetirement {
		modified.PostRetirementReturn = shift(base.PostRetirementReturn)
	}
	return modified, nil
}

func (ar *AdjustReturn) phase() string {
	p := strings.ToLower(strings.TrimSpace(ar.Phase))
	if p == "" {
		return PhaseAll
	}
	return p
}

// SetInflation sets the annual inflation rate, or shifts it by Delta points
// when Rate is nil.
type SetInflation struct {
	Rate  *decimal.Decimal
	Delta decimal.Decimal
}

func (si *SetInflation) Name() string {
	return "set_inflation"
}

func (si *SetInflation) Description() string {
	if si.Rate != nil {
		return fmt.Sprintf("Change inflation rate to %s%%", si.Rate.StringFixed(1))
	}
	return fmt.Sprintf("Shift inflation by %s points", si.Delta.StringFixed(1))
}

func (si *SetInflation) Validate(base *domain.PlanParameters) error {
	if err := requireBase(si.Name(), base); err != nil {
		return err
	}
	spec, _ := domain.LookupParameterSpec(domain.ParamInflation)
	if err := spec.Check(si.rate(base)); err != nil {
		return NewTransformError(si.Name(), "validate", "inflation out of range", err)
	}
	return nil
}

func (si *SetInflation) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := copyPlan(base)
	modified.Inflation = si.rate(base)
	return modified, nil
}

func (si *SetInflation) rate(base *domain.PlanParameters) decimal.Decimal {
	if si.Rate != nil {
		return *si.Rate
	}
	return base.Inflation.Add(si.Delta)
}
