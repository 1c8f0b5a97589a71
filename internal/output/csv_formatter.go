package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVFormatter writes one row per timeline age. Ages past the end of the
// withdrawal series have empty balance columns.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("report has no result")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Age", "Phase", "Balance", "CumulativeExpenses"}); err != nil {
		return nil, err
	}
	for _, rec := range report.Result.Timeline {
		row := []string{
			strconv.Itoa(rec.Age),
			string(rec.Phase),
			balanceCell(rec.Balance),
			balanceCell(rec.CumulativeExpenses),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
