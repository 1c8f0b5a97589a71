package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/rgehrsitz/rplan/internal/domain"
)

// HTMLFormatter produces a standalone HTML page with the timeline table and
// an inline SVG chart of balance and cumulative expenses by age.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"amount": FormatAmount,
	"cell":   balanceCell,
}).Parse(htmlTemplateSource))

const (
	chartWidth   = 760
	chartHeight  = 320
	chartPadLeft = 70
	chartPadBot  = 30
	chartPadTop  = 20
)

type chartTick struct {
	Pos   float64
	Label string
}

type chartMarker struct {
	X     float64
	Label string
	Color string
}

type chartData struct {
	Width, Height int
	Left, Bottom  float64
	Top, Right    float64
	Balance       string
	Expenses      string
	Markers       []chartMarker
	XTicks        []chartTick
	YTicks        []chartTick
}

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("report has no result")
	}
	data := struct {
		*Report
		Details []Detail
		Chart   chartData
	}{report, PlanDetails(report.Result), buildChart(report.Result)}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildChart lays out the two series in SVG coordinates. Ages without a
// balance are skipped.
func buildChart(r *domain.SimulationResult) chartData {
	c := chartData{
		Width:  chartWidth,
		Height: chartHeight,
		Left:   chartPadLeft,
		Top:    chartPadTop,
		Right:  chartWidth - 10,
		Bottom: chartHeight - chartPadBot,
	}
	if len(r.Timeline) == 0 {
		return c
	}

	first := r.Timeline[0].Age
	last := r.Timeline[len(r.Timeline)-1].Age
	span := float64(last - first)
	if span == 0 {
		span = 1
	}

	maxValue := 1.0
	for _, rec := range r.Timeline {
		if rec.Balance != nil && rec.Balance.InexactFloat64() > maxValue {
			maxValue = rec.Balance.InexactFloat64()
		}
		if rec.CumulativeExpenses != nil && rec.CumulativeExpenses.InexactFloat64() > maxValue {
			maxValue = rec.CumulativeExpenses.InexactFloat64()
		}
	}

	x := func(age int) float64 { return c.Left + (c.Right-c.Left)*float64(age-first)/span }
	y := func(v float64) float64 { return c.Bottom - (c.Bottom-c.Top)*v/maxValue }

	var balance, expenses []string
	for _, rec := range r.Timeline {
		if rec.Balance != nil {
			balance = append(balance, fmt.Sprintf("%.1f,%.1f", x(rec.Age), y(rec.Balance.InexactFloat64())))
		}
		if rec.CumulativeExpenses != nil {
			expenses = append(expenses, fmt.Sprintf("%.1f,%.1f", x(rec.Age), y(rec.CumulativeExpenses.InexactFloat64())))
		}
	}
	c.Balance = strings.Join(balance, " ")
	c.Expenses = strings.Join(expenses, " ")

	c.Markers = []chartMarker{
		{x(r.Ages.PreretirementStartAge), "Preretirement Start Age", "orange"},
		{x(r.Ages.RetirementAge), "Retirement Age", "green"},
		{x(r.Ages.LifeExpectancy), "End of Life Expectancy", "purple"},
	}

	step := 5
	if last-first > 60 {
		step = 10
	}
	for age := first; age <= last; age++ {
		if age == first || age%step == 0 {
			c.XTicks = append(c.XTicks, chartTick{x(age), fmt.Sprintf("%d", age)})
		}
	}
	for i := 0; i <= 4; i++ {
		v := maxValue * float64(i) / 4
		c.YTicks = append(c.YTicks, chartTick{y(v), shortAmount(v)})
	}
	return c
}

func shortAmount(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.0fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
