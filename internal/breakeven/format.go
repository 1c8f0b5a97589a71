package breakeven

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Target:       %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", tf.formatStatus(result)))
	sb.WriteString(fmt.Sprintf("Evaluations:  %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:  %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("BREAK-EVEN VALUE\n")
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	if result.OptimalContribution != nil {
		sb.WriteString(fmt.Sprintf("Minimum Monthly Contribution:  $%s\n", tf.formatCurrency(*result.OptimalContribution)))
	}
	if result.OptimalExpenseScale != nil {
		sb.WriteString(fmt.Sprintf("Expense Scale:                 %s%%\n", result.OptimalExpenseScale.StringFixed(2)))
	}
	if result.SustainableMonthlyExpenses != nil {
		sb.WriteString(fmt.Sprintf("Sustainable Monthly Expenses:  $%s (today's money)\n", tf.formatCurrency(*result.SustainableMonthlyExpenses)))
	}
	if result.OptimalRetirementAge != nil {
		sb.WriteString(fmt.Sprintf("Earliest Retirement Age:       %d\n", *result.OptimalRetirementAge))
	}
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULT\n")
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Final Balance:  $%s\n", tf.formatCurrency(result.FinalBalance)))
	if result.DepletionAge != nil {
		sb.WriteString(fmt.Sprintf("Depleted At:    age %d\n", *result.DepletionAge))
	} else if result.FundsLast {
		sb.WriteString("Funds Last:     yes\n")
	}
	sb.WriteString("\n")

	sb.WriteString("COMPARISON TO CURRENT PLAN\n")
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Current Final Balance:  $%s\n", tf.formatCurrency(result.BaseFinalBalance)))
	diff := result.FinalBalance.Sub(result.BaseFinalBalance)
	sb.WriteString(fmt.Sprintf("Change:                 %s$%s\n", tf.deltaSymbol(diff), tf.formatCurrency(diff.Abs())))

	return sb.String()
}

// FormatMulti formats results from solving every target
func (tf *TableFormatter) FormatMulti(result *MultiTargetResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("%-16s %-22s %14s %14s\n", "Target", "Break-Even", "Final Balance", "Status"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	for i := range result.Results {
		res := &result.Results[i]
		sb.WriteString(fmt.Sprintf("%-16s %-22s %14s %14s\n",
			tf.truncate(string(res.Request.Target), 16),
			tf.truncate(res.OptimalValueString(), 22),
			"$"+tf.formatShort(res.FinalBalance),
			tf.shortStatus(res)))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMulti formats multi-target results as JSON
func (jf *JSONFormatter) FormatMulti(result *MultiTargetResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(result *OptimizationResult) string {
	switch {
	case result.NeverFeasible:
		return "✗ No value in range keeps funds positive"
	case result.AlwaysFeasible:
		return "✓ Funds last across the whole range"
	case result.Success:
		return "✓ Converged"
	default:
		return "⚠ Did not converge"
	}
}

func (tf *TableFormatter) shortStatus(result *OptimizationResult) string {
	switch {
	case result.NeverFeasible:
		return "infeasible"
	case result.AlwaysFeasible:
		return "always works"
	case result.Success:
		return "converged"
	default:
		return "incomplete"
	}
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
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
