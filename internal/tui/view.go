package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(m.renderError())
	}
	if m.loading {
		return m.renderApp(m.renderLoading())
	}

	var content string
	switch m.currentScene {
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneScenarios:
		content = m.scenariosModel.View()
	case SceneHelp:
		content = m.helpModel.View()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4
	if contentHeight < 0 {
		contentHeight = 0
	}
	container := lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		container,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("RPLAN - Retirement Planner")

	crumbs := []string{m.currentScene.String()}
	if name := m.parametersModel.Name(); name != "" {
		crumbs = append(crumbs, name)
	}
	if m.parametersModel.Modified() {
		crumbs = append(crumbs, "modified")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		SubtitleStyle.Render(strings.Join(crumbs, " / ")),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(m.keys.ShortHelp())

	if m.config != nil {
		source := SubtitleStyle.Render(fmt.Sprintf("%s (%d scenarios)", m.configPath, len(m.config.Scenarios)))
		gap := m.width - lipgloss.Width(status) - lipgloss.Width(source) - 4
		if gap > 0 {
			status += strings.Repeat(" ", gap) + source
		}
	}

	return StatusBarStyle.Width(m.width).Render(status)
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return BorderStyle.Render(StatusKeyStyle.Render("⠋") + " " + message)
}

func (m Model) renderError() string {
	return ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err))
}
