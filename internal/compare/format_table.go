package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing plans
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT PLAN COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Plan: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Retire Age",
		numWidth, "At Retirement",
		numWidth, "Final Balance",
		numWidth, "Outcome"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(" " + alt.Description)
			}
			sb.WriteString("\n")

			sb.WriteString(fmt.Sprintf("  Final Balance:    %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.FinalBalanceDiff),
				tf.formatDecimal(alt.FinalBalanceDiff.Abs()),
				alt.FinalBalancePct.StringFixed(1)))

			if !alt.RetirementBalanceDiff.IsZero() {
				sb.WriteString(fmt.Sprintf("  At Retirement:    %s$%s\n",
					tf.deltaSymbol(alt.RetirementBalanceDiff),
					tf.formatDecimal(alt.RetirementBalanceDiff.Abs())))
			}

			if alt.YearsFundedDiff != 0 {
				symbol := "+"
				if alt.YearsFundedDiff < 0 {
					symbol = ""
				}
				sb.WriteString(fmt.Sprintf("  Years Funded:     %s%d years\n", symbol, alt.YearsFundedDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	outcome := "lasts"
	if result.DepletionAge != nil {
		outcome = fmt.Sprintf("out at %d", *result.DepletionAge)
	} else if !result.FundsLast {
		outcome = "no years"
	}

	return fmt.Sprintf("%-*s %*d %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.RetirementAge,
		numWidth, "$"+tf.formatDecimal(result.RetirementStartBalance),
		numWidth, "$"+tf.formatDecimal(result.FinalBalance),
		numWidth, outcome)
}

// formatDecimal formats a decimal for display in thousands or millions
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each variant
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.FinalBalanceDiff.IsPositive() {
			change = fmt.Sprintf("+$%s", tf.formatDecimal(alt.FinalBalanceDiff))
		} else if alt.FinalBalanceDiff.IsNegative() {
			change = fmt.Sprintf("-$%s", tf.formatDecimal(alt.FinalBalanceDiff.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
