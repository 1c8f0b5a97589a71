package scenes

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/output"
	"github.com/rgehrsitz/rplan/internal/tui/components"
	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
)

// ResultsModel shows the chart, expense metrics, verdict and plan details of
// the last evaluation.
type ResultsModel struct {
	name   string
	result *domain.SimulationResult
	width  int
	height int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{width: 80}
}

// SetResult updates the result to display
func (m *ResultsModel) SetResult(name string, result *domain.SimulationResult) {
	m.name = name
	m.result = result
}

// Result returns the displayed result, nil before the first evaluation.
func (m *ResultsModel) Result() *domain.SimulationResult {
	return m.result
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return tuistyles.InfoStyle.Render("No results yet. Adjust the parameters and press Enter.")
	}
	r := m.result

	title := "Retirement Projection"
	if m.name != "" {
		title += ": " + m.name
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		tuistyles.TitleStyle.Render(title),
		"",
		m.renderChart(r),
		"",
		renderExpenseCards(r),
		components.NewFundedBar(r.YearsFunded(), r.Durations.RetirementYears).Render(),
		"",
		renderVerdict(r),
		"",
		renderDetails(r),
	)
}

// BuildChart plots balance and cumulative expenses by age with a marker at
// each phase boundary.
func BuildChart(r *domain.SimulationResult, width int) *components.ASCIIChart {
	n := len(r.Timeline)
	balances := make([]float64, n)
	expenses := make([]float64, n)
	labels := make([]string, n)
	for i, rec := range r.Timeline {
		labels[i] = strconv.Itoa(rec.Age)
		balances[i] = math.NaN()
		expenses[i] = math.NaN()
		if rec.Balance != nil {
			balances[i] = rec.Balance.InexactFloat64()
		}
		if rec.CumulativeExpenses != nil {
			expenses[i] = rec.CumulativeExpenses.InexactFloat64()
		}
	}

	chartWidth := width - 4
	if chartWidth > 100 {
		chartWidth = 100
	}

	start := r.Ages.Age
	return components.NewASCIIChart("Balance and Cumulative Expenses by Age").
		WithSize(chartWidth, 12).
		WithLabels(labels).
		AddSeries("Balance", balances, tuistyles.ColorChartBalance).
		AddSeries("Cumulative Expenses", expenses, tuistyles.ColorChartExpenses).
		AddMarker(r.Ages.PreretirementStartAge-start, "Preretirement", tuistyles.ColorMarkerPre).
		AddMarker(r.Ages.RetirementAge-start, "Retirement", tuistyles.ColorMarkerRetire).
		AddMarker(r.Ages.LifeExpectancy-start, "Life Expectancy", tuistyles.ColorMarkerLife)
}

func (m *ResultsModel) renderChart(r *domain.SimulationResult) string {
	return BuildChart(r, m.width).Render()
}

func renderExpenseCards(r *domain.SimulationResult) string {
	note := fmt.Sprintf("per month at %d", r.Ages.RetirementAge)
	return components.MetricRow(
		components.NewMetricCard("Future Need", tuistyles.FormatCurrency(r.FutureNeedExpense)).WithNote(note),
		components.NewMetricCard("Future Want", tuistyles.FormatCurrency(r.FutureWantExpense)).WithNote(note),
		components.NewMetricCard("Total Monthly", tuistyles.FormatCurrency(r.FutureMonthlyExpenses)).WithNote(note),
		components.NewMetricCard("At Retirement", tuistyles.FormatCurrency(r.RetirementStartBalance)).
			WithNote("savings balance").
			WithTone(balanceTone(r)),
	)
}

func balanceTone(r *domain.SimulationResult) components.Tone {
	if r.FundsLast {
		return components.TonePositive
	}
	return components.ToneNegative
}

func renderVerdict(r *domain.SimulationResult) string {
	icon := "✓ "
	if !r.FundsLast {
		icon = "⚠ "
	}
	verdict := tuistyles.VerdictStyle(r.FundsLast).Render(icon + r.VerdictMessage())
	if r.DepletionAge != nil {
		verdict += "\n" + tuistyles.ErrorStyle.Render(fmt.Sprintf("Savings are exhausted at age %d.", *r.DepletionAge))
	}
	return verdict
}

func renderDetails(r *domain.SimulationResult) string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render("Details of Your Plan"))
	for _, d := range output.PlanDetails(r) {
		b.WriteString("\n")
		b.WriteString(tuistyles.MetricLabelStyle.Render("- " + d.Label + ": "))
		b.WriteString(tuistyles.TableCellStyle.Render(d.Value))
	}
	return b.String()
}
