package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ScenarioCard summarizes one named plan variant and the fields it overrides.
type ScenarioCard struct {
	Name        string
	Description string
	Overrides   []string
	IsSelected  bool
	Width       int
}

// NewScenarioCard builds a card from a configuration scenario.
func NewScenarioCard(s domain.PlanScenario) *ScenarioCard {
	return &ScenarioCard{
		Name:        s.Name,
		Description: s.Description,
		Overrides:   ScenarioOverrides(s),
		Width:       44,
	}
}

// NewBaseCard builds the card for the configuration's base plan.
func NewBaseCard(name string) *ScenarioCard {
	if name == "" {
		name = "Base plan"
	}
	return &ScenarioCard{Name: name, Description: "The plan as written", Width: 44}
}

// SetSelected marks the card as selected
func (s *ScenarioCard) SetSelected(selected bool) *ScenarioCard {
	s.IsSelected = selected
	return s
}

// Render returns the card with its override list.
func (s *ScenarioCard) Render() string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render(s.Name))
	if s.Description != "" {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(s.Description))
	}
	if len(s.Overrides) > 0 {
		content.WriteString("\n")
		for _, o := range s.Overrides {
			content.WriteString("\n")
			content.WriteString(tuistyles.HelpDescStyle.Render("• " + o))
		}
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(s.Width).
		Render(content.String())
}

// RenderCompact returns the name and override count on one line.
func (s *ScenarioCard) RenderCompact() string {
	line := s.Name
	if n := len(s.Overrides); n > 0 {
		line += tuistyles.HelpDescStyle.Render(fmt.Sprintf(" (%d changes)", n))
	}
	return line
}

// ScenarioListCompact renders a selection list of cards.
func ScenarioListCompact(cards []*ScenarioCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios available")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix + card.RenderCompact())
	}
	return strings.Join(rendered, "\n")
}

// ScenarioOverrides lists "Label: value" for every field a scenario sets,
// in display order.
func ScenarioOverrides(s domain.PlanScenario) []string {
	var out []string
	ints := map[string]*int{
		domain.ParamAge:                   s.Age,
		domain.ParamPreretirementStartAge: s.PreretirementStartAge,
		domain.ParamRetirementAge:         s.RetirementAge,
		domain.ParamLifeExpectancy:        s.LifeExpectancy,
	}
	decimals := map[string]*decimal.Decimal{
		domain.ParamCurrentSavings:       s.CurrentSavings,
		domain.ParamMonthlyContribution:  s.MonthlyContribution,
		domain.ParamNeedExpense:          s.NeedExpense,
		domain.ParamWantExpense:          s.WantExpense,
		domain.ParamAccumulationReturn:   s.AccumulationReturn,
		domain.ParamPreretirementReturn:  s.PreretirementReturn,
		domain.ParamPostRetirementReturn: s.PostRetirementReturn,
		domain.ParamInflation:            s.Inflation,
	}

	for _, spec := range domain.PlanParameterSpecs {
		if v, ok := ints[spec.Name]; ok && v != nil {
			out = append(out, fmt.Sprintf("%s: %d", spec.Label, *v))
			continue
		}
		if v, ok := decimals[spec.Name]; ok && v != nil {
			out = append(out, spec.Label+": "+formatSpecValue(spec, *v))
		}
	}
	return out
}

func formatSpecValue(spec domain.ParameterSpec, v decimal.Decimal) string {
	switch spec.Unit {
	case "$":
		return tuistyles.FormatCurrency(v)
	case "%":
		return v.String() + "%"
	default:
		return v.String()
	}
}
