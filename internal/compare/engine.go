package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/transform"
)

// CompareEngine orchestrates plan comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
	// Workers bounds concurrent evaluation of the alternatives; 0 uses GOMAXPROCS.
	Workers int
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseName   string   // Display name of the base plan
	Templates  []string // Template names to apply, one variant each
	Transforms []string // Ad hoc transform specs ("name:k=v"), one variant each
}

type variant struct {
	name        string
	description string
	plan        domain.PlanParameters
}

// Compare evaluates the base plan and one variant per template or transform.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base domain.PlanParameters,
	options CompareOptions,
) (*ComparisonSet, error) {
	if len(options.Templates) == 0 && len(options.Transforms) == 0 {
		return nil, domain.NewParameterError("templates", "", "at least one template or transform is required")
	}

	variants := make([]variant, 0, len(options.Templates)+len(options.Transforms))
	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, domain.NewParameterError("template", templateName, "template not found")
		}

		modified, err := transform.ApplyTemplate(&base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		variants = append(variants, variant{name: template.Name, description: template.Description, plan: *modified})
	}

	for _, spec := range options.Transforms {
		tr, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		modified, err := transform.ApplyTransforms(&base, []transform.ScenarioTransform{tr})
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant{name: tr.Name(), description: tr.Description(), plan: *modified})
	}

	return ce.run(ctx, options.BaseName, base, variants)
}

// CompareScenarios compares named scenarios from a configuration against its base plan.
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	names := alternativeScenarioNames
	if len(names) == 0 {
		for _, s := range config.Scenarios {
			names = append(names, s.Name)
		}
	}
	if len(names) == 0 {
		return nil, domain.NewParameterError("scenarios", "", "configuration has no scenarios to compare")
	}

	variants := make([]variant, 0, len(names))
	for _, altName := range names {
		scenario, ok := config.FindScenario(altName)
		if !ok {
			return nil, domain.NewParameterError("scenario", altName, "alternative scenario not found")
		}
		variants = append(variants, variant{name: scenario.Name, description: scenario.Description, plan: scenario.Apply(config.Plan)})
	}

	baseName := config.Name
	if baseName == "" {
		baseName = "base"
	}
	return ce.run(ctx, baseName, config.Plan, variants)
}

func (ce *CompareEngine) run(ctx context.Context, baseName string, base domain.PlanParameters, variants []variant) (*ComparisonSet, error) {
	if baseName == "" {
		baseName = "base"
	}

	plans := make([]domain.PlanParameters, 0, len(variants)+1)
	plans = append(plans, base)
	for _, v := range variants {
		plans = append(plans, v.plan)
	}

	results, err := ce.CalcEngine.EvaluateAll(ctx, plans, ce.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate plans: %w", err)
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName, results[0])
	alternatives := make([]ComparisonResult, 0, len(variants))
	for i, v := range variants {
		alt := ce.MetricsCalculator.CalculateMetrics(v.name, results[i+1])
		alt.Description = v.description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	ce.CalcEngine.Logger.Infof("compared %d variants against %s", len(variants), baseName)
	return compSet, nil
}
