package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("set_retirement_age", createSetRetirementAge)
	registry.Register("set_life_expectancy", createSetLifeExpectancy)
	registry.Register("adjust_contribution", createAdjustContribution)
	registry.Register("scale_expenses", createScaleExpenses)
	registry.Register("adjust_return", createAdjustReturn)
	registry.Register("set_inflation", createSetInflation)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, domain.NewParameterError("transform", name, "unknown transform")
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "scale_expenses:need_pct=100,want_pct=50"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, domain.NewParameterError("transform", spec, "expected 'name:key=value,...'")
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, domain.NewParameterError("transform", paramPair, "expected 'key=value'")
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func createPostponeRetirement(params map[string]string) (ScenarioTransform, error) {
	years, err := intParam("postpone_retirement", params, "years")
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createSetRetirementAge(params map[string]string) (ScenarioTransform, error) {
	age, err := intParam("set_retirement_age", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetRetirementAge{Age: age}, nil
}

func createSetLifeExpectancy(params map[string]string) (ScenarioTransform, error) {
	age, err := intParam("set_life_expectancy", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetLifeExpectancy{Age: age}, nil
}

func createAdjustContribution(params map[string]string) (ScenarioTransform, error) {
	_, hasSet := params["set"]
	_, hasDelta := params["delta"]
	switch {
	case hasSet && hasDelta:
		return nil, domain.NewParameterError("adjust_contribution", "", "specify either 'delta' or 'set', not both")
	case hasSet:
		v, err := decimalParam("adjust_contribution", params, "set")
		if err != nil {
			return nil, err
		}
		return &AdjustContribution{Set: &v}, nil
	case hasDelta:
		v, err := decimalParam("adjust_contribution", params, "delta")
		if err != nil {
			return nil, err
		}
		return &AdjustContribution{Delta: v}, nil
	default:
		return nil, domain.NewParameterError("adjust_contribution", "", "requires 'delta' or 'set' parameter")
	}
}

func createScaleExpenses(params map[string]string) (ScenarioTransform, error) {
	need, want := hundred, hundred
	var err error
	if _, ok := params["need_pct"]; ok {
		if need, err = decimalParam("scale_expenses", params, "need_pct"); err != nil {
			return nil, err
		}
	}
	if _, ok := params["want_pct"]; ok {
		if want, err = decimalParam("scale_expenses", params, "want_pct"); err != nil {
			return nil, err
		}
	}
	if _, ok := params["pct"]; ok {
		if need, err = decimalParam("scale_expenses", params, "pct"); err != nil {
			return nil, err
		}
		want = need
	}
	return &ScaleExpenses{NeedPercent: need, WantPercent: want}, nil
}

func createAdjustReturn(params map[string]string) (ScenarioTransform, error) {
	delta, err := decimalParam("adjust_return", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustReturn{Phase: params["phase"], Delta: delta}, nil
}

func createSetInflation(params map[string]string) (ScenarioTransform, error) {
	if _, ok := params["delta"]; ok {
		delta, err := decimalParam("set_inflation", params, "delta")
		if err != nil {
			return nil, err
		}
		return &SetInflation{Delta: delta}, nil
	}
	rate, err := decimalParam("set_inflation", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetInflation{Rate: &rate}, nil
}

func intParam(transform string, params map[string]string, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, domain.NewParameterError(transform, "", fmt.Sprintf("requires '%s' parameter", key))
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewParameterError(transform+"."+key, raw, "must be a whole number")
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, domain.NewParameterError(transform, "", fmt.Sprintf("requires '%s' parameter", key))
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewParameterError(transform+"."+key, raw, "must be a number")
	}
	return v, nil
}
