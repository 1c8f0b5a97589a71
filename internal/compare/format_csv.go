package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Age",
		"Balance at Retirement",
		"Final Balance",
		"Years Funded",
		"Depletion Age",
		"Total Withdrawn",
		"Funds Last",
		"Final Balance Diff from Base",
		"Final Balance % Change",
		"Years Funded Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	depletion := ""
	if result.DepletionAge != nil {
		depletion = strconv.Itoa(*result.DepletionAge)
	}
	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.RetirementAge),
		result.RetirementStartBalance.StringFixed(2),
		result.FinalBalance.StringFixed(2),
		strconv.Itoa(result.YearsFunded),
		depletion,
		result.TotalWithdrawn.StringFixed(2),
		strconv.FormatBool(result.FundsLast),
		result.FinalBalanceDiff.StringFixed(2),
		result.FinalBalancePct.StringFixed(2),
		strconv.Itoa(result.YearsFundedDiff),
	}
}
