package transform

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
	}
	registry.Register(template)

	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	if _, ok = registry.Get("TEST_TEMPLATE"); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}

	if _, ok = registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	expected := []string{
		"conservative_returns",
		"high_inflation",
		"live_to_95",
		"retire_earlier_2yr",
		"retire_later_2yr",
		"save_more_250",
		"trim_wants_50",
	}
	names := registry.List()
	if strings.Join(names, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected templates %v, got %v", expected, names)
	}

	base := createTestPlan()
	for _, name := range names {
		tmpl, _ := registry.Get(name)
		if _, err := ApplyTemplate(base, tmpl); err != nil {
			t.Errorf("Template %s should apply to the default plan: %v", name, err)
		}
	}
}

func TestBuiltInTemplateEffects(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestPlan()

	later, _ := registry.Get("retire_later_2yr")
	p, _ := ApplyTemplate(base, later)
	if p.RetirementAge != 62 {
		t.Errorf("retire_later_2yr: expected 62, got %d", p.RetirementAge)
	}

	trim, _ := registry.Get("trim_wants_50")
	p, _ = ApplyTemplate(base, trim)
	if !p.WantExpense.Equal(decimal.NewFromInt(250)) || !p.NeedExpense.Equal(base.NeedExpense) {
		t.Errorf("trim_wants_50: unexpected expenses %s/%s", p.NeedExpense, p.WantExpense)
	}

	conservative, _ := registry.Get("conservative_returns")
	p, _ = ApplyTemplate(base, conservative)
	if !p.PostRetirementReturn.Equal(decimal.NewFromInt(1)) {
		t.Errorf("conservative_returns: expected 1, got %s", p.PostRetirementReturn)
	}

	live, _ := registry.Get("live_to_95")
	p, _ = ApplyTemplate(base, live)
	if p.LifeExpectancy != 95 {
		t.Errorf("live_to_95: expected 95, got %d", p.LifeExpectancy)
	}
}

func TestParseTemplateList(t *testing.T) {
	got := ParseTemplateList(" retire_later_2yr, ,save_more_250 ")
	if len(got) != 2 || got[0] != "retire_later_2yr" || got[1] != "save_more_250" {
		t.Errorf("Unexpected list %v", got)
	}
	if ParseTemplateList("") != nil {
		t.Error("Expected nil for empty list")
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())
	for _, want := range []string{"Retirement Timing:", "Saving and Spending:", "Market and Longevity:", "live_to_95", "Usage:"} {
		if !strings.Contains(help, want) {
			t.Errorf("Help should contain %q", want)
		}
	}
	if GetTemplateHelp(NewTemplateRegistry()) != "No templates registered" {
		t.Error("Empty registry should say so")
	}
}
