package calculation

import "github.com/shopspring/decimal"

const (
	// MonthsPerYear is the compounding granularity of the growth phases.
	MonthsPerYear = 12
	// AnnualPeriods is the compounding granularity of the withdrawal phase.
	AnnualPeriods = 1

	// WorkingPrecision is the number of decimal places balances are held to
	// between periods.
	WorkingPrecision int32 = 10
)

var hundred = decimal.NewFromInt(100)

// PeriodicRate converts an annual percentage (7 for 7%) to the rate applied
// per period when compounding periodsPerYear times a year.
func PeriodicRate(annualPercent decimal.Decimal, periodsPerYear int) decimal.Decimal {
	if periodsPerYear <= 0 {
		return decimal.Zero
	}
	return annualPercent.Div(hundred.Mul(decimal.NewFromInt(int64(periodsPerYear))))
}

// GrowthFactor returns 1 + annualPercent/100.
func GrowthFactor(annualPercent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(PeriodicRate(annualPercent, AnnualPeriods))
}

// FutureValue inflates a present amount by annualPercent for whole years.
// Negative years discount instead.
func FutureValue(amount, annualPercent decimal.Decimal, years int) decimal.Decimal {
	if years == 0 {
		return amount
	}
	factor := GrowthFactor(annualPercent).Pow(decimal.NewFromInt(int64(abs(years))))
	if years < 0 {
		if factor.IsZero() {
			return amount
		}
		return amount.DivRound(factor, WorkingPrecision)
	}
	return amount.Mul(factor).Round(WorkingPrecision)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
