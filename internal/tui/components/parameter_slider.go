package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ParameterSlider edits one plan field within its input range.
type ParameterSlider struct {
	Name        string
	Label       string
	Value       decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	Step        decimal.Decimal
	Unit        string // "%", "years" or "$"
	Places      int32
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider bounded by spec, starting at value.
func NewParameterSlider(spec domain.ParameterSpec, value decimal.Decimal) *ParameterSlider {
	places := int32(0)
	if !spec.Integer && spec.Step.Exponent() < 0 {
		places = -spec.Step.Exponent()
	}
	s := &ParameterSlider{
		Name:        spec.Name,
		Label:       spec.Label,
		Min:         spec.Min,
		Max:         spec.SliderMax,
		Step:        spec.Step,
		Unit:        spec.Unit,
		Places:      places,
		Width:       30,
		Description: spec.Description,
	}
	// Loaded plans may exceed the interactive maximum; widen rather than clamp.
	if value.GreaterThan(s.Max) {
		s.Max = value
	}
	s.SetValue(value)
	return s
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment raises the value by one step, stopping at Max.
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value.Add(p.Step))
}

// Decrement lowers the value by one step, stopping at Min.
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value.Sub(p.Step))
}

// SetValue sets the value, clamped to [Min, Max].
func (p *ParameterSlider) SetValue(v decimal.Decimal) {
	switch {
	case v.LessThan(p.Min):
		v = p.Min
	case v.GreaterThan(p.Max):
		v = p.Max
	}
	p.Value = v
}

// Percentage returns the position of the value within the range, 0 to 1.
func (p *ParameterSlider) Percentage() float64 {
	span := p.Max.Sub(p.Min)
	if !span.IsPositive() {
		return 0
	}
	return p.Value.Sub(p.Min).Div(span).InexactFloat64()
}

// FormatValue renders a value with the slider's unit.
func (p *ParameterSlider) FormatValue(v decimal.Decimal) string {
	switch p.Unit {
	case "$":
		return tuistyles.FormatCurrency(v)
	case "%":
		return v.StringFixed(p.Places) + "%"
	case "years":
		return v.StringFixed(0)
	default:
		return v.StringFixed(p.Places)
	}
}

// Render returns the full slider: label, value, bar and range.
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.FormatValue(p.Value)))
	content.WriteString("\n")
	content.WriteString(p.renderBar(p.Width))

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString("  ")
	content.WriteString(rangeStyle.Render(fmt.Sprintf("%s ─ %s", p.FormatValue(p.Min), p.FormatValue(p.Max))))

	if p.IsFocused && p.Description != "" {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(p.Description))
	}

	return content.String()
}

// RenderCompact returns a single line: label, value and a short bar.
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	marker := "  "
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
		marker = "▸ "
	}

	label := labelStyle.Width(26).Render(p.Label)
	value := valueStyle.Width(12).Align(lipgloss.Right).Render(p.FormatValue(p.Value))
	return marker + label + " " + value + " " + p.renderBar(16)
}

func (p *ParameterSlider) renderBar(width int) string {
	if width < 2 {
		width = 2
	}
	thumb := int(p.Percentage()*float64(width-1) + 0.5)
	if thumb < 0 {
		thumb = 0
	}
	if thumb > width-1 {
		thumb = width - 1
	}

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(thumbStyle.Render(strings.Repeat("━", thumb)))
	bar.WriteString(thumbStyle.Render("●"))
	bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", width-1-thumb)))
	bar.WriteString("]")
	return bar.String()
}
