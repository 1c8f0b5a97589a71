package scenes

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
)

const helpIntro = `Project a savings balance through three phases:
accumulation until the preretirement start age, a preretirement phase
until retirement, and withdrawals until life expectancy. Expenses are
entered in today's money and grown with inflation to the retirement age.`

// HelpModel renders the full key map.
type HelpModel struct {
	keys help.KeyMap
	help help.Model
}

// NewHelpModel creates a help scene for keys.
func NewHelpModel(keys help.KeyMap) *HelpModel {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = tuistyles.HelpKeyStyle
	h.Styles.FullDesc = tuistyles.HelpDescStyle
	return &HelpModel{keys: keys, help: h}
}

// SetSize updates the scene dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.help.Width = width
}

// View renders the help scene
func (m *HelpModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		tuistyles.TitleStyle.Render("Help"),
		"",
		tuistyles.SubtitleStyle.Render(helpIntro),
		"",
		m.help.View(m.keys),
	)
}
