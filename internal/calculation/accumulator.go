package calculation

import (
	"github.com/shopspring/decimal"
)

// PhaseResult is the outcome of a monthly-compounding growth phase.
type PhaseResult struct {
	StartBalance  decimal.Decimal
	EndingBalance decimal.Decimal
	Periods       int
	// YearEndBalances holds the balance after every completed block of 12
	// periods, plus the last period's balance when the phase ends mid-year.
	YearEndBalances []decimal.Decimal
}

// RunPhase compounds startBalance monthly at annualRate for years, adding
// contribution after each month's growth, and returns the ending balance.
func RunPhase(startBalance, contribution, annualRate, years decimal.Decimal) decimal.Decimal {
	return RunPhaseYearly(startBalance, contribution, annualRate, years).EndingBalance
}

// RunPhaseYearly is RunPhase that also reports a balance per year of the phase.
// Negative durations run zero periods.
func RunPhaseYearly(startBalance, contribution, annualRate, years decimal.Decimal) PhaseResult {
	periods := phasePeriods(years)
	rate := PeriodicRate(annualRate, MonthsPerYear)
	growth := decimal.NewFromInt(1).Add(rate)

	yearEnds := make([]decimal.Decimal, 0, (periods+MonthsPerYear-1)/MonthsPerYear)
	balance := startBalance
	for period := 1; period <= periods; period++ {
		balance = balance.Mul(growth).Add(contribution).Round(WorkingPrecision)
		if period%MonthsPerYear == 0 || period == periods {
			yearEnds = append(yearEnds, balance)
		}
	}

	return PhaseResult{
		StartBalance:    startBalance,
		EndingBalance:   balance,
		Periods:         periods,
		YearEndBalances: yearEnds,
	}
}

// phasePeriods converts a duration in years to a month count, rounding half
// to even and never going below zero.
func phasePeriods(years decimal.Decimal) int {
	if !years.IsPositive() {
		return 0
	}
	return int(years.Mul(decimal.NewFromInt(MonthsPerYear)).RoundBank(0).IntPart())
}
