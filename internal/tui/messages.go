package tui

import (
	"github.com/rgehrsitz/rplan/internal/tui/tuimsg"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneParameters Scene = iota
	SceneResults
	SceneScenarios
	SceneHelp
)

// sceneCycle is the tab order; help is reached with '?'.
var sceneCycle = []Scene{SceneParameters, SceneResults, SceneScenarios}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// Messages shared with the scenes.
type (
	ErrorMsg               = tuimsg.ErrorMsg
	ConfigLoadedMsg        = tuimsg.ConfigLoadedMsg
	CalculateRequestedMsg  = tuimsg.CalculateRequestedMsg
	CalculationCompleteMsg = tuimsg.CalculationCompleteMsg
	ScenarioSelectedMsg    = tuimsg.ScenarioSelectedMsg
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneParameters:
		return "Parameters"
	case SceneResults:
		return "Results"
	case SceneScenarios:
		return "Scenarios"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
