package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Sweeps) == 0 {
		return "", fmt.Errorf("no parameters or results in analysis")
	}
	var buf bytes.Buffer

	title := "SENSITIVITY ANALYSIS"
	if analysis.PlanName != "" {
		title += ": " + strings.ToUpper(analysis.PlanName)
	}
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "Base Case: final balance %s, %d years funded", FormatCurrency(analysis.Base.FinalBalance), analysis.Base.YearsFunded)
	if analysis.Base.FundsLast {
		fmt.Fprintln(&buf, ", funds last")
	} else {
		fmt.Fprintln(&buf, ", funds run out")
	}
	fmt.Fprintln(&buf)

	for _, sweep := range analysis.Sweeps {
		scf.formatSweep(&buf, sweep)
	}

	fmt.Fprintf(&buf, "MOST SENSITIVE PARAMETER: %s\n", analysis.Summary.MostSensitiveParameter)
	fmt.Fprintf(&buf, "FAILURE RATE: %s\n", FormatPercentage(analysis.Summary.FailureRate))
	fmt.Fprintf(&buf, "RISK LEVEL: %s %s\n", riskEmoji(analysis.Summary.RiskLevel), analysis.Summary.RiskLevel)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RECOMMENDATIONS:")
	for _, rec := range analysis.Summary.Recommendations {
		fmt.Fprintf(&buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

func (scf SensitivityConsoleFormatter) formatSweep(buf *bytes.Buffer, sweep domain.ParameterSweep) {
	param := sweep.Parameter
	fmt.Fprintln(buf, strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(buf, strings.Repeat("-", 72))
	fmt.Fprintf(buf, "Base: %s  Range: %s to %s (%d steps)\n",
		formatParamValue(param.BaseValue, param.Unit),
		formatParamValue(param.MinValue, param.Unit),
		formatParamValue(param.MaxValue, param.Unit),
		param.Steps)
	if param.Description != "" {
		fmt.Fprintf(buf, "Description: %s\n", param.Description)
	}

	fmt.Fprintf(buf, "%-16s %-16s %-8s %-14s %-12s\n", "Value", "Final Balance", "Years", "Δ Balance", "Outcome")
	for _, p := range sweep.Points {
		value := formatParamValue(p.Value, param.Unit)
		if p.Value.Equal(param.BaseValue) {
			value += " ← BASE"
		}
		outcome := "lasts"
		if !p.FundsLast {
			outcome = "runs out"
			if p.DepletionAge != nil {
				outcome = fmt.Sprintf("out at %d", *p.DepletionAge)
			}
		}
		fmt.Fprintf(buf, "%-16s %-16s %-8d %-14s %-12s\n",
			value,
			FormatCurrency(p.FinalBalance),
			p.YearsFunded,
			signedCurrency(p.FinalBalanceChange),
			outcome)
	}
	fmt.Fprintf(buf, "Failure rate: %s  Score: %s\n\n", FormatPercentage(sweep.FailureRate), sweep.Score.StringFixed(2))
}

// SensitivityCSVFormatter formats sensitivity analysis output as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Sweeps) == 0 {
		return "", fmt.Errorf("no parameters or results in analysis")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"parameter_name", "parameter_value", "funds_last", "final_balance", "years_funded", "depletion_age", "final_balance_change", "years_funded_change"}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, sweep := range analysis.Sweeps {
		for _, p := range sweep.Points {
			depletion := ""
			if p.DepletionAge != nil {
				depletion = strconv.Itoa(*p.DepletionAge)
			}
			row := []string{
				sweep.Parameter.Name,
				p.Value.String(),
				strconv.FormatBool(p.FundsLast),
				p.FinalBalance.StringFixed(2),
				strconv.Itoa(p.YearsFunded),
				depletion,
				p.FinalBalanceChange.StringFixed(2),
				strconv.Itoa(p.YearsFundedChange),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("no analysis to format")
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "console":
		return SensitivityConsoleFormatter{}
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{} // Default to console
	}
}

func riskEmoji(level string) string {
	switch level {
	case "LOW":
		return "✅"
	case "MEDIUM":
		return "⚠️"
	case "HIGH":
		return "🔴"
	case "CRITICAL":
		return "🚨"
	}
	return ""
}

func formatParamValue(v decimal.Decimal, unit string) string {
	switch unit {
	case "%":
		return v.StringFixed(2) + "%"
	case "$":
		return "$" + v.StringFixed(2)
	case "years":
		return v.StringFixed(0)
	default:
		return v.String()
	}
}

func signedCurrency(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-$" + v.Neg().StringFixed(2)
	}
	return "+$" + v.StringFixed(2)
}
