package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/tui/components"
	"github.com/rgehrsitz/rplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
)

// ParametersModel is the plan editor: one slider per plan field.
type ParametersModel struct {
	name          string
	base          domain.PlanParameters
	sliders       []*components.ParameterSlider
	focusedSlider int
	modified      bool
	validation    string
	width         int
	height        int
}

// NewParametersModel creates an editor holding the default plan.
func NewParametersModel() *ParametersModel {
	m := &ParametersModel{}
	m.SetPlan("", domain.DefaultPlanParameters())
	return m
}

// SetPlan replaces the edited plan; it also becomes the reset target.
func (m *ParametersModel) SetPlan(name string, plan domain.PlanParameters) {
	m.name = name
	m.base = plan
	m.buildSliders(plan)
	m.modified = false
	m.validation = ""
}

func (m *ParametersModel) buildSliders(plan domain.PlanParameters) {
	m.sliders = make([]*components.ParameterSlider, 0, len(domain.PlanParameterSpecs))
	for _, spec := range domain.PlanParameterSpecs {
		value, _ := plan.Value(spec.Name)
		m.sliders = append(m.sliders, components.NewParameterSlider(spec, value))
	}
	if m.focusedSlider >= len(m.sliders) {
		m.focusedSlider = 0
	}
	m.sliders[m.focusedSlider].SetFocused(true)
}

// Plan assembles the plan from the slider values.
func (m *ParametersModel) Plan() domain.PlanParameters {
	plan := m.base
	for _, s := range m.sliders {
		plan, _ = plan.WithValue(s.Name, s.Value)
	}
	return plan
}

// Name is the label of the plan being edited.
func (m *ParametersModel) Name() string {
	return m.name
}

// Modified reports whether any slider moved since the last load or reset.
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// Focused returns the focused slider.
func (m *ParametersModel) Focused() *components.ParameterSlider {
	return m.sliders[m.focusedSlider]
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *ParametersModel) handleKeyPress(msg tea.KeyMsg) (*ParametersModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		m.moveFocus(-1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		m.moveFocus(1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("left", "h"))):
		m.Focused().Decrement()
		m.changed()
	case key.Matches(msg, key.NewBinding(key.WithKeys("right", "l"))):
		m.Focused().Increment()
		m.changed()
	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		m.buildSliders(m.base)
		m.modified = false
		m.validation = ""
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		return m, m.calculate()
	}
	return m, nil
}

func (m *ParametersModel) moveFocus(delta int) {
	next := m.focusedSlider + delta
	if next < 0 || next >= len(m.sliders) {
		return
	}
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = next
	m.sliders[m.focusedSlider].SetFocused(true)
}

func (m *ParametersModel) changed() {
	m.modified = true
	m.validation = ""
}

// calculate validates the edited plan and asks the root model to evaluate it.
func (m *ParametersModel) calculate() tea.Cmd {
	plan := m.Plan()
	if err := plan.ValidateRanges(); err != nil {
		m.validation = err.Error()
		return nil
	}
	name := m.name
	return func() tea.Msg {
		return tuimsg.CalculateRequestedMsg{Name: name, Plan: plan}
	}
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	title := "Plan Parameters"
	if m.name != "" {
		title += ": " + m.name
	}

	rows := make([]string, 0, len(m.sliders))
	for _, s := range m.sliders {
		rows = append(rows, s.RenderCompact())
	}
	list := tuistyles.BorderStyle.Padding(0, 1).Render(strings.Join(rows, "\n"))

	focused := m.Focused()
	detail := tuistyles.ActiveBorderStyle.Padding(0, 1).Render(focused.WithWidth(40).Render())

	parts := []string{tuistyles.TitleStyle.Render(title), "", list, detail}
	if status := m.renderStatus(); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, tuistyles.HelpDescStyle.Render("↑/↓ field • ←/→ adjust • Enter evaluate • r reset"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *ParametersModel) renderStatus() string {
	switch {
	case m.validation != "":
		return tuistyles.ErrorStyle.Render("✗ " + m.validation)
	case m.modified:
		return tuistyles.InfoStyle.Render("Modified. Press Enter to evaluate or r to reset.")
	}
	return ""
}
