package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rplan/internal/domain"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.parametersModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.scenariosModel.SetSize(msg.Width, msg.Height)
		m.helpModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.navigate(msg.Scene)
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		if msg.Config == nil {
			return m, nil
		}
		m.config = msg.Config
		m.scenariosModel.SetConfiguration(msg.Config)
		m.parametersModel.SetPlan(msg.Config.Name, msg.Config.Plan)
		return m.startCalculation(msg.Config.Name, msg.Config.Plan)

	case ScenarioSelectedMsg:
		m.parametersModel.SetPlan(msg.Name, msg.Plan)
		return m.startCalculation(msg.Name, msg.Plan)

	case CalculateRequestedMsg:
		return m.startCalculation(msg.Name, msg.Plan)

	case CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.resultsModel.SetResult(msg.Name, msg.Result)
		m.navigate(SceneResults)
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

func (m Model) startCalculation(name string, plan domain.PlanParameters) (tea.Model, tea.Cmd) {
	m.loading = true
	m.loadingMessage = "Calculating projection..."
	return m, calculateCmd(m.calcEngine, name, plan)
}

func (m *Model) navigate(s Scene) {
	if s == m.currentScene {
		return
	}
	m.previousScene = m.currentScene
	m.currentScene = s
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return m, tea.Quit
	}

	// Any key dismisses an error.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentScene == SceneHelp {
			m.navigate(m.previousScene)
		} else {
			m.navigate(SceneHelp)
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.navigate(nextScene(m.currentScene))
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.currentScene != SceneParameters {
			back := m.previousScene
			if back == m.currentScene {
				back = SceneParameters
			}
			m.navigate(back)
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// nextScene follows the tab order; from help it returns to the editor.
func nextScene(s Scene) Scene {
	for i, candidate := range sceneCycle {
		if candidate == s {
			return sceneCycle[(i+1)%len(sceneCycle)]
		}
	}
	return SceneParameters
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneScenarios:
		m.scenariosModel, cmd = m.scenariosModel.Update(msg)
	}
	return m, cmd
}
