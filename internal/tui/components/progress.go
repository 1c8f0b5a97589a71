package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
)

// FundedBar shows how many retirement years the savings cover.
type FundedBar struct {
	Funded int
	Total  int
	Width  int
	Label  string
}

// NewFundedBar creates a bar for funded out of total retirement years.
func NewFundedBar(funded, total int) *FundedBar {
	return &FundedBar{
		Funded: funded,
		Total:  total,
		Width:  40,
		Label:  "Retirement years funded",
	}
}

// WithWidth sets the bar width
func (p *FundedBar) WithWidth(width int) *FundedBar {
	p.Width = width
	return p
}

// Percentage returns the funded share, 0 to 100.
func (p *FundedBar) Percentage() float64 {
	if p.Total <= 0 {
		return 0
	}
	pct := float64(p.Funded) / float64(p.Total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// IsComplete reports whether every retirement year is funded.
func (p *FundedBar) IsComplete() bool {
	return p.Total > 0 && p.Funded >= p.Total
}

// Render returns the label, the bar and the counts.
func (p *FundedBar) Render() string {
	filled := int(float64(p.Width) * p.Percentage() / 100)
	if filled > p.Width {
		filled = p.Width
	}

	barColor := tuistyles.ColorSuccess
	if !p.IsComplete() {
		barColor = tuistyles.ColorDanger
	}

	var content strings.Builder
	content.WriteString(tuistyles.MetricLabelStyle.Render(p.Label))
	content.WriteString("\n[")
	content.WriteString(lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled)))
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", p.Width-filled)))
	content.WriteString("] ")
	content.WriteString(tuistyles.MetricValueStyle.Render(fmt.Sprintf("%d/%d years", p.Funded, p.Total)))
	return content.String()
}
