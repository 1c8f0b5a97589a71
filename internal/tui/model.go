package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/config"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/tui/scenes"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	configPath string
	config     *domain.Configuration

	calcEngine *calculation.CalculationEngine

	keys keyMap
	help help.Model

	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel
	scenariosModel  *scenes.ScenariosModel
	helpModel       *scenes.HelpModel

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. configPath may be empty, in
// which case the editor starts from the default plan.
func NewModel(configPath string, engine *calculation.CalculationEngine) Model {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	keys := defaultKeyMap()
	return Model{
		currentScene:    SceneParameters,
		previousScene:   SceneParameters,
		configPath:      configPath,
		calcEngine:      engine,
		keys:            keys,
		help:            help.New(),
		parametersModel: scenes.NewParametersModel(),
		resultsModel:    scenes.NewResultsModel(),
		scenariosModel:  scenes.NewScenariosModel(),
		helpModel:       scenes.NewHelpModel(keys),
		width:           80,
		height:          24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.configPath == "" {
		return calculateCmd(m.calcEngine, "", m.parametersModel.Plan())
	}
	return loadConfigCmd(m.configPath)
}

// CurrentScene returns the scene being displayed.
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// Result returns the most recent evaluation, nil before the first one completes.
func (m Model) Result() *domain.SimulationResult {
	return m.resultsModel.Result()
}

// Err returns the error currently displayed, if any.
func (m Model) Err() error {
	return m.err
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// calculateCmd evaluates plan off the update loop.
func calculateCmd(engine *calculation.CalculationEngine, name string, plan domain.PlanParameters) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.Evaluate(context.Background(), plan)
		return CalculationCompleteMsg{Name: name, Result: result, Err: err}
	}
}
