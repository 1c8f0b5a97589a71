package calculation

import (
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// PhaseOutputs bundles the three chained phase runs of one plan.
type PhaseOutputs struct {
	Accumulation  PhaseResult
	Preretirement PhaseResult
	Withdrawal    WithdrawalResult
}

// BuildTimeline lays the phase outputs onto one record per age from the
// current age through life expectancy. A phase year is keyed by the age at
// which it starts and carries the balance at its end. Ages past the end of
// the withdrawal series keep a nil balance. Phase years that fall outside
// the frame are dropped; a later phase overwrites an earlier one.
func BuildTimeline(params domain.PlanParameters, outputs PhaseOutputs) []domain.YearRecord {
	labels := params.NormalizedAges()
	records := make([]domain.YearRecord, 0, max(0, params.LifeExpectancy-params.Age+1))
	for age := params.Age; age <= params.LifeExpectancy; age++ {
		records = append(records, domain.YearRecord{Age: age, Phase: labels.PhaseAt(age)})
	}

	at := func(age int) *domain.YearRecord {
		i := age - params.Age
		if i < 0 || i >= len(records) {
			return nil
		}
		return &records[i]
	}

	place := func(firstAge int, balances []decimal.Decimal) {
		for i, b := range balances {
			if rec := at(firstAge + i); rec != nil {
				v := b
				rec.Balance = &v
			}
		}
	}

	place(params.Age, outputs.Accumulation.YearEndBalances)
	place(params.PreretirementStartAge, outputs.Preretirement.YearEndBalances)
	place(params.RetirementAge, outputs.Withdrawal.Balances)

	for i, total := range outputs.Withdrawal.CumulativeExpenses {
		if rec := at(params.RetirementAge + i); rec != nil {
			v := total
			rec.CumulativeExpenses = &v
		}
	}

	return records
}
