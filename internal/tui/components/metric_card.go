package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
)

// Tone colors a metric value.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
)

// MetricCard displays one headline number with a label and optional note.
type MetricCard struct {
	Label string
	Value string
	Note  string
	Tone  Tone
	Width int
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 24,
	}
}

// WithNote adds a muted line under the value.
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// WithTone sets the value color.
func (m *MetricCard) WithTone(t Tone) *MetricCard {
	m.Tone = t
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the card inside a rounded border.
func (m *MetricCard) Render() string {
	valueStyle := tuistyles.MetricValueStyle
	border := tuistyles.ColorBorder
	switch m.Tone {
	case TonePositive:
		valueStyle = valueStyle.Foreground(tuistyles.ColorSuccess)
		border = tuistyles.ColorSuccess
	case ToneNegative:
		valueStyle = valueStyle.Foreground(tuistyles.ColorDanger)
		border = tuistyles.ColorDanger
	}

	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Note != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricRow renders cards side by side.
func MetricRow(cards ...*MetricCard) string {
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, c.Render())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
