package transform

import (
	"fmt"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// AdjustContribution changes the monthly contribution, either by a delta or
// to an absolute amount when Set is non-nil.
type AdjustContribution struct {
	Delta decimal.Decimal
	Set   *decimal.Decimal
}

func (ac *AdjustContribution) Name() string {
	return "adjust_contribution"
}

func (ac *AdjustContribution) Description() string {
	if ac.Set != nil {
		return fmt.Sprintf("Contribute $%s per month", ac.Set.StringFixed(2))
	}
	if ac.Delta.IsNegative() {
		return fmt.Sprintf("Contribute $%s less per month", ac.Delta.Neg().StringFixed(2))
	}
	return fmt.Sprintf("Contribute $%s more per month", ac.Delta.StringFixed(2))
}

func (ac *AdjustContribution) Validate(base *domain.PlanParameters) error {
	if err := requireBase(ac.Name(), base); err != nil {
		return err
	}
	if ac.contribution(base).IsNegative() {
		return invalid(ac.Name(), "resulting monthly contribution cannot be negative")
	}
	return nil
}

func (ac *AdjustContribution) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := copyPlan(base)
	modified.MonthlyContribution = ac.contribution(base)
	return modified, nil
}

func (ac *AdjustContribution) contribution(base *domain.PlanParameters) decimal.Decimal {
	if ac.Set != nil {
		return *ac.Set
	}
	return base.MonthlyContribution.Add(ac.Delta)
}

// ScaleExpenses multiplies the need and want expenses by percentages
// (100 leaves an expense unchanged).
type ScaleExpenses struct {
	NeedPercent decimal.Decimal
	WantPercent decimal.Decimal
}

func (se *ScaleExpenses) Name() string {
	return "scale_expenses"
}

func (se *ScaleExpenses) Description() string {
	return fmt.Sprintf("Scale need expenses to %s%% and want expenses to %s%%",
		se.NeedPercent.StringFixed(0), se.WantPercent.StringFixed(0))
}

func (se *ScaleExpenses) Validate(base *domain.PlanParameters) error {
	if err := requireBase(se.Name(), base); err != nil {
		return err
	}
	if se.NeedPercent.IsNegative() || se.WantPercent.IsNegative() {
		return invalid(se.Name(), "percentages cannot be negative")
	}
	return nil
}

func (se *ScaleExpenses) Apply(base *domain.PlanParameters) (*domain.PlanParameters, error) {
	modified := copyPlan(base)
	modified.NeedExpense = base.NeedExpense.Mul(se.NeedPercent).Div(hundred)
	modified.WantExpense = base.WantExpense.Mul(se.WantPercent).Div(hundred)
	return modified, nil
}

var hundred = decimal.NewFromInt(100)

func decimalAge(age int) decimal.Decimal {
	return decimal.NewFromInt(int64(age))
}
