package calculation

import (
	"strconv"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// WithdrawalResult is the outcome of the retirement phase. Both series have
// one entry per simulated year and the same length.
type WithdrawalResult struct {
	StartBalance       decimal.Decimal
	Balances           []decimal.Decimal
	CumulativeExpenses []decimal.Decimal
	// Depleted is set when the loop stopped because the balance reached zero.
	Depleted bool
}

// SimulateWithdrawals draws a year of expenses from the balance after each
// year's growth, then raises the monthly expense by inflation. Recorded
// balances are floored at zero and the simulation stops at the first year
// that ends at or below zero.
func SimulateWithdrawals(startBalance, initialMonthlyExpense, annualReturn, annualInflation decimal.Decimal, years int) (WithdrawalResult, error) {
	if years < 0 {
		return WithdrawalResult{}, domain.NewParameterError("years", strconv.Itoa(years), "withdrawal years cannot be negative")
	}

	result := WithdrawalResult{
		StartBalance:       startBalance,
		Balances:           make([]decimal.Decimal, 0, years),
		CumulativeExpenses: make([]decimal.Decimal, 0, years),
	}

	growth := GrowthFactor(annualReturn)
	inflation := GrowthFactor(annualInflation)
	months := decimal.NewFromInt(MonthsPerYear)

	balance := startBalance
	monthly := initialMonthlyExpense
	total := decimal.Zero

	for year := 0; year < years; year++ {
		annualExpense := monthly.Mul(months)
		balance = balance.Mul(growth).Sub(annualExpense).Round(WorkingPrecision)
		total = total.Add(annualExpense).Round(WorkingPrecision)

		result.Balances = append(result.Balances, decimal.Max(balance, decimal.Zero))
		result.CumulativeExpenses = append(result.CumulativeExpenses, total)

		monthly = monthly.Mul(inflation).Round(WorkingPrecision)

		if !balance.IsPositive() {
			result.Depleted = true
			break
		}
	}

	return result, nil
}
