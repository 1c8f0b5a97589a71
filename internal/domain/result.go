package domain

import (
	"github.com/shopspring/decimal"
)

const (
	VerdictFundsLast   = "Your savings will last through retirement!"
	VerdictFundsRunOut = "Your savings may run out during retirement. Consider saving more or reducing expenses."
)

// YearRecord is one age on the projection timeline. Balance is nil once the
// withdrawal series has ended; CumulativeExpenses is only set in retirement.
type YearRecord struct {
	Age                int              `json:"age" yaml:"age"`
	Phase              Phase            `json:"phase" yaml:"phase"`
	Balance            *decimal.Decimal `json:"balance" yaml:"balance"`
	CumulativeExpenses *decimal.Decimal `json:"cumulativeExpenses" yaml:"cumulative_expenses"`
}

// HasBalance reports whether the record carries projection data.
func (r YearRecord) HasBalance() bool {
	return r.Balance != nil
}

// SimulationResult is the full output of one plan evaluation.
type SimulationResult struct {
	Parameters PlanParameters `json:"parameters" yaml:"parameters"`
	Ages       PlanAges       `json:"ages" yaml:"ages"`
	Durations  PhaseDurations `json:"durations" yaml:"durations"`
	Timeline   []YearRecord   `json:"timeline" yaml:"timeline"`

	AccumulationEndBalance decimal.Decimal `json:"accumulationEndBalance" yaml:"accumulation_end_balance"`
	RetirementStartBalance decimal.Decimal `json:"retirementStartBalance" yaml:"retirement_start_balance"`

	// Raw withdrawal-phase series, one entry per simulated retirement year.
	RetirementBalances []decimal.Decimal `json:"retirementBalances" yaml:"retirement_balances"`
	CumulativeExpenses []decimal.Decimal `json:"cumulativeExpenses" yaml:"cumulative_expenses"`

	FutureNeedExpense     decimal.Decimal `json:"futureNeedExpense" yaml:"future_need_expense"`
	FutureWantExpense     decimal.Decimal `json:"futureWantExpense" yaml:"future_want_expense"`
	FutureMonthlyExpenses decimal.Decimal `json:"futureMonthlyExpenses" yaml:"future_monthly_expenses"`

	FundsLast    bool `json:"fundsLast" yaml:"funds_last"`
	DepletionAge *int `json:"depletionAge,omitempty" yaml:"depletion_age,omitempty"`
}

// FinalBalance is the last recorded retirement balance, or the balance
// entering retirement when no withdrawal year was simulated.
func (r *SimulationResult) FinalBalance() decimal.Decimal {
	if n := len(r.RetirementBalances); n > 0 {
		return r.RetirementBalances[n-1]
	}
	return r.RetirementStartBalance
}

// TotalWithdrawn is the cumulative expense drawn over the simulated years.
func (r *SimulationResult) TotalWithdrawn() decimal.Decimal {
	if n := len(r.CumulativeExpenses); n > 0 {
		return r.CumulativeExpenses[n-1]
	}
	return decimal.Zero
}

// YearsFunded counts retirement years that ended with money left.
func (r *SimulationResult) YearsFunded() int {
	funded := 0
	for _, b := range r.RetirementBalances {
		if b.IsPositive() {
			funded++
		}
	}
	return funded
}

// VerdictMessage returns the user-facing depletion verdict.
func (r *SimulationResult) VerdictMessage() string {
	if r.FundsLast {
		return VerdictFundsLast
	}
	return VerdictFundsRunOut
}
