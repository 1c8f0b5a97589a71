package scenes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/tui/components"
	"github.com/rgehrsitz/rplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
)

// ScenariosModel lists the base plan and the named scenarios of a loaded
// configuration. Selecting one loads it into the editor.
type ScenariosModel struct {
	config        *domain.Configuration
	cards         []*components.ScenarioCard
	selectedIndex int
	width         int
	height        int
}

// NewScenariosModel creates a new scenarios scene model
func NewScenariosModel() *ScenariosModel {
	return &ScenariosModel{}
}

// SetConfiguration replaces the listed configuration.
func (m *ScenariosModel) SetConfiguration(cfg *domain.Configuration) {
	m.config = cfg
	m.cards = nil
	m.selectedIndex = 0
	if cfg == nil {
		return
	}
	m.cards = append(m.cards, components.NewBaseCard(cfg.Name))
	for _, s := range cfg.Scenarios {
		m.cards = append(m.cards, components.NewScenarioCard(s))
	}
}

// SetSize updates the scene dimensions
func (m *ScenariosModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the name and resolved plan of the highlighted entry.
func (m *ScenariosModel) Selected() (string, domain.PlanParameters, bool) {
	if m.config == nil || len(m.cards) == 0 {
		return "", domain.PlanParameters{}, false
	}
	if m.selectedIndex == 0 {
		return m.cards[0].Name, m.config.Plan, true
	}
	s := m.config.Scenarios[m.selectedIndex-1]
	return s.Name, s.Apply(m.config.Plan), true
}

// Update handles messages for the scenarios scene
func (m *ScenariosModel) Update(msg tea.Msg) (*ScenariosModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.cards)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		name, plan, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return tuimsg.ScenarioSelectedMsg{Name: name, Plan: plan}
		}
	}
	return m, nil
}

// View renders the scenarios scene
func (m *ScenariosModel) View() string {
	if len(m.cards) == 0 {
		return tuistyles.InfoStyle.Render("No configuration loaded. Start rplan-tui with a plan file to compare its scenarios.")
	}

	for i, c := range m.cards {
		c.SetSelected(i == m.selectedIndex)
	}

	list := tuistyles.BorderStyle.Padding(0, 1).Width(34).Render(
		tuistyles.TitleStyle.Render("Scenarios") + "\n\n" +
			components.ScenarioListCompact(m.cards, m.selectedIndex))
	detail := m.cards[m.selectedIndex].Render()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail),
		"",
		tuistyles.HelpDescStyle.Render("↑/↓ select • Enter load into editor and evaluate"),
	)
}
