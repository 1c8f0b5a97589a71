package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rplan/internal/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	goodStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	badStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4672"))
)

// ConsoleFormatter renders the plan as headed text: timeline, expense
// breakdown, plan details and the verdict.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("report has no result")
	}
	r := report.Result
	var buf bytes.Buffer

	fmt.Fprintln(&buf, headingStyle.Render(strings.ToUpper(report.Title)))
	fmt.Fprintln(&buf, strings.Repeat("=", 64))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("RETIREMENT BALANCE AND CUMULATIVE EXPENSES"))
	fmt.Fprintln(&buf, strings.Repeat("-", 64))
	fmt.Fprintf(&buf, "%-5s %-14s %20s %20s\n", "Age", "Phase", "Balance", "Cumulative Expenses")
	for _, rec := range r.Timeline {
		fmt.Fprintf(&buf, "%-5d %-14s %20s %20s%s\n",
			rec.Age, rec.Phase, balanceCell(rec.Balance), balanceCell(rec.CumulativeExpenses), markerFor(r.Ages, rec.Age))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("PHASES"))
	fmt.Fprintln(&buf, strings.Repeat("-", 64))
	fmt.Fprintf(&buf, "Accumulation:   %2d years, ending balance %s\n", r.Durations.AccumulationYears, FormatAmount(r.AccumulationEndBalance))
	fmt.Fprintf(&buf, "Preretirement:  %2d years, ending balance %s\n", r.Durations.PreretirementYears, FormatAmount(r.RetirementStartBalance))
	fmt.Fprintf(&buf, "Retirement:     %2d years, ending balance %s\n", r.Durations.RetirementYears, FormatAmount(r.FinalBalance()))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("EXPENSE BREAKDOWN"))
	fmt.Fprintln(&buf, strings.Repeat("-", 64))
	fmt.Fprintf(&buf, "Future Monthly Need Expenses:  %s\n", FormatAmount(r.FutureNeedExpense))
	fmt.Fprintf(&buf, "Future Monthly Want Expenses:  %s\n", FormatAmount(r.FutureWantExpense))
	fmt.Fprintf(&buf, "Total Withdrawn in Retirement: %s\n", FormatAmount(r.TotalWithdrawn()))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, sectionStyle.Render("DETAILS OF YOUR PLAN"))
	fmt.Fprintln(&buf, strings.Repeat("-", 64))
	for _, d := range PlanDetails(r) {
		fmt.Fprintf(&buf, "- %s: %s\n", d.Label, d.Value)
	}
	fmt.Fprintln(&buf)

	if r.FundsLast {
		fmt.Fprintln(&buf, goodStyle.Render(report.Verdict))
	} else {
		fmt.Fprintln(&buf, badStyle.Render(report.Verdict))
		if r.DepletionAge != nil {
			fmt.Fprintf(&buf, "Savings are exhausted at age %d.\n", *r.DepletionAge)
		}
	}
	return buf.Bytes(), nil
}

// markerFor annotates the ages where a phase boundary falls.
func markerFor(ages domain.PlanAges, age int) string {
	var marks []string
	if age == ages.PreretirementStartAge && ages.PreretirementStartAge > ages.Age {
		marks = append(marks, "Preretirement Start Age")
	}
	if age == ages.RetirementAge {
		marks = append(marks, "Retirement Age")
	}
	if age == ages.LifeExpectancy {
		marks = append(marks, "End of Life Expectancy")
	}
	if len(marks) == 0 {
		return ""
	}
	return "  <- " + strings.Join(marks, ", ")
}
