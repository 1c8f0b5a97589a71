package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if plans
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "retire_later_2yr",
		Description: "Retire 2 years later",
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: 2}},
	})

	registry.Register(Template{
		Name:        "retire_earlier_2yr",
		Description: "Retire 2 years earlier",
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: -2}},
	})

	registry.Register(Template{
		Name:        "save_more_250",
		Description: "Contribute $250 more per month",
		Transforms:  []ScenarioTransform{&AdjustContribution{Delta: decimal.NewFromInt(250)}},
	})

	registry.Register(Template{
		Name:        "trim_wants_50",
		Description: "Cut want expenses in half",
		Transforms: []ScenarioTransform{
			&ScaleExpenses{NeedPercent: hundred, WantPercent: decimal.NewFromInt(50)},
		},
	})

	registry.Register(Template{
		Name:        "conservative_returns",
		Description: "Lower every phase return by 2 points",
		Transforms: []ScenarioTransform{
			&AdjustReturn{Phase: PhaseAll, Delta: decimal.NewFromInt(-2)},
		},
	})

	registry.Register(Template{
		Name:        "high_inflation",
		Description: "Raise inflation by 1.5 points",
		Transforms:  []ScenarioTransform{&SetInflation{Delta: decimal.NewFromFloat(1.5)}},
	})

	registry.Register(Template{
		Name:        "live_to_95",
		Description: "Plan for savings to last until 95",
		Transforms:  []ScenarioTransform{&SetLifeExpectancy{Age: 95}},
	})

	return registry
}

// ApplyTemplate applies a template to a base plan
func ApplyTemplate(base *domain.PlanParameters, template Template) (*domain.PlanParameters, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	categories := map[string][]Template{}
	order := []string{"Retirement Timing", "Saving and Spending", "Market and Longevity"}
	for _, name := range registry.List() {
		t := registry.templates[name]
		switch {
		case strings.HasPrefix(name, "retire_"):
			categories[order[0]] = append(categories[order[0]], t)
		case strings.HasPrefix(name, "save_") || strings.HasPrefix(name, "trim_"):
			categories[order[1]] = append(categories[order[1]], t)
		default:
			categories[order[2]] = append(categories[order[2]], t)
		}
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  rplan compare plan.yaml --templates retire_later_2yr,save_more_250\n")
	sb.WriteString("  rplan compare plan.yaml --transform scale_expenses:want_pct=75\n")

	return sb.String()
}
