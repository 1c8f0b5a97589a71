package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/rplan/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan configuration from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseConfiguration(data)
}

// ParseConfiguration decodes and validates configuration bytes. Unknown keys
// are rejected so that misspelled fields do not silently fall back to zero.
func (ip *InputParser) ParseConfiguration(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		if isDecimalError(err) {
			return nil, fmt.Errorf("failed to parse YAML: %w", domain.NewParameterError("plan", "", err.Error()))
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration checks the base plan and every scenario against the
// input ranges.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := config.Plan.ValidateRanges(); err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if err := ip.validateScenario(i, &scenario, config.Plan); err != nil {
			return err
		}
		if seen[scenario.Name] {
			return fmt.Errorf("scenario %d: %w", i, domain.NewParameterError("name", scenario.Name, "duplicate scenario name"))
		}
		seen[scenario.Name] = true
	}
	return nil
}

func (ip *InputParser) validateScenario(index int, scenario *domain.PlanScenario, base domain.PlanParameters) error {
	if strings.TrimSpace(scenario.Name) == "" {
		return fmt.Errorf("scenario %d: %w", index, domain.NewParameterError("name", "", "scenario name is required"))
	}
	if err := scenario.Apply(base).ValidateRanges(); err != nil {
		return fmt.Errorf("scenario %d (%s): %w", index, scenario.Name, err)
	}
	return nil
}

// ValidatePlan is the range check applied to plans that arrive outside a file
// (CLI overrides, API bodies).
func ValidatePlan(p domain.PlanParameters) error {
	return p.ValidateRanges()
}

// isDecimalError recognises a rejected number from shopspring/decimal, which
// reports NaN, Inf and malformed input as "can't convert X to decimal".
func isDecimalError(err error) bool {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return false
	}
	return strings.Contains(err.Error(), "to decimal")
}

// GenerateExample renders a commented example configuration using the
// default plan and one scenario.
func GenerateExample() ([]byte, error) {
	later := 65
	config := domain.Configuration{
		Name: "Baseline",
		Plan: domain.DefaultPlanParameters(),
		Scenarios: []domain.PlanScenario{
			{
				Name:          "Retire at 65",
				Description:   "Work five more years",
				RetirementAge: &later,
			},
		},
	}

	body, err := yaml.Marshal(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to render example: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# Retirement plan configuration\n")
	buf.WriteString("# Rates are annual percentages (7 means 7%). Expenses are monthly, in today's money.\n")
	buf.WriteString("# Scenarios override any subset of the plan fields.\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
