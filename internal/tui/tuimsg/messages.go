// Package tuimsg holds the messages scenes send to the root model.
package tuimsg

import (
	"github.com/rgehrsitz/rplan/internal/domain"
)

// ConfigLoadedMsg signals configuration has been loaded
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CalculateRequestedMsg asks the root model to evaluate a plan.
type CalculateRequestedMsg struct {
	Name string
	Plan domain.PlanParameters
}

// CalculationCompleteMsg carries an evaluation result back to the model.
type CalculationCompleteMsg struct {
	Name   string
	Result *domain.SimulationResult
	Err    error
}

// ScenarioSelectedMsg loads a base plan or configuration scenario into the editor.
type ScenarioSelectedMsg struct {
	Name string
	Plan domain.PlanParameters
}
