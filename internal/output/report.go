package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is the input to every formatter: one evaluated plan plus the
// labels needed to present it.
type Report struct {
	Title       string                   `json:"title" yaml:"title"`
	GeneratedAt time.Time                `json:"generatedAt" yaml:"generated_at"`
	Result      *domain.SimulationResult `json:"result" yaml:"result"`
	Verdict     string                   `json:"verdict" yaml:"verdict"`
	Assumptions []string                 `json:"assumptions" yaml:"assumptions"`
}

// NewReport wraps a simulation result for formatting.
func NewReport(title string, result *domain.SimulationResult) *Report {
	if title == "" {
		title = "Retirement Plan"
	}
	return &Report{
		Title:       title,
		GeneratedAt: time.Now(),
		Result:      result,
		Verdict:     result.VerdictMessage(),
		Assumptions: Assumptions(result.Parameters),
	}
}

// Detail is one labelled line of the plan details list.
type Detail struct {
	Label string
	Value string
}

// PlanDetails lists the inputs and the projected expense at retirement, in
// display order.
func PlanDetails(r *domain.SimulationResult) []Detail {
	p := r.Parameters
	return []Detail{
		{"Current Age", fmt.Sprintf("%d", p.Age)},
		{"Preretirement Start Age", fmt.Sprintf("%d", p.PreretirementStartAge)},
		{"Retirement Age", fmt.Sprintf("%d", p.RetirementAge)},
		{"Life Expectancy", fmt.Sprintf("%d", p.LifeExpectancy)},
		{"Accumulation Phase Return Rate", FormatRate(p.AccumulationReturn)},
		{"Preretirement Phase Return Rate", FormatRate(p.PreretirementReturn)},
		{"Retirement Phase Return Rate", FormatRate(p.PostRetirementReturn)},
		{"Expected Inflation Rate", FormatRate(p.Inflation)},
		{"Current Savings", FormatAmount(p.CurrentSavings)},
		{"Monthly Contribution", FormatAmount(p.MonthlyContribution)},
		{"Current Need Expenses", FormatAmount(p.NeedExpense)},
		{"Current Want Expenses", FormatAmount(p.WantExpense)},
		{"Projected Monthly Expenses at Retirement", FormatAmount(r.FutureMonthlyExpenses)},
	}
}

// Assumptions lists the modeling assumptions behind a projection.
func Assumptions(p domain.PlanParameters) []string {
	return []string{
		"Returns compound monthly at the annual rate divided by 12",
		"Contributions are added at the end of each month until retirement",
		fmt.Sprintf("Expenses grow with inflation at %s annually until retirement and during it", FormatRate(p.Inflation)),
		"Retirement withdrawals are taken once a year after that year's growth",
		"All amounts are nominal; current expenses are in today's money",
	}
}

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats an annual percentage rate the way it was entered.
func FormatRate(rate decimal.Decimal) string { return rate.String() + "%" }

// FormatAmount formats a decimal with thousands separators and 2 decimals.
func FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + frac
}

// balanceCell renders an optional timeline value, empty when absent.
func balanceCell(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.StringFixed(2)
}
