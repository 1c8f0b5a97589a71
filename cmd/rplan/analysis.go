package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rplan/internal/breakeven"
	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/compare"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/output"
	"github.com/rgehrsitz/rplan/internal/transform"
)

func sensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity [plan-file]",
		Short: "Sweep parameters and rank them by impact",
		Long: `Evaluate the plan across a range of values for one or more parameters.

Examples:
  # Common parameter set around the plan's own values
  rplan sensitivity plan.yaml

  # Explicit sweeps
  rplan sensitivity plan.yaml --param inflation:1.5-4.5:7 --param retirement_age:58-66:9`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSensitivity,
	}
	cmd.Flags().StringArray("param", nil, "Parameter sweep (format: name:min-max:steps)")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	cmd.Flags().Int("workers", 0, "Concurrent evaluations per sweep (0 = GOMAXPROCS)")
	addPlanFlags(cmd)
	return cmd
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	lp, err := loadPlan(cmd, args)
	if err != nil {
		return err
	}

	specs, _ := cmd.Flags().GetStringArray("param")
	parameters := domain.CommonSensitivityParameters(lp.Plan)
	if len(specs) > 0 {
		parameters = make([]domain.SensitivityParameter, 0, len(specs))
		for _, s := range specs {
			p, err := parseSweepSpec(s, lp.Plan)
			if err != nil {
				return err
			}
			parameters = append(parameters, p)
		}
	}

	analyzer := calculation.NewSensitivityAnalyzerWithEngine(newEngine(cmd))
	analyzer.Workers, _ = cmd.Flags().GetInt("workers")

	analysis, err := analyzer.AnalyzeMultipleParameters(cmd.Context(), lp.Name, lp.Plan, parameters)
	if err != nil {
		return fmt.Errorf("sensitivity analysis failed: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	text, err := output.NewSensitivityFormatter(format).FormatSensitivityAnalysis(analysis)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

// parseSweepSpec parses "name:min-max:steps". Steps defaults to 5.
func parseSweepSpec(s string, base domain.PlanParameters) (domain.SensitivityParameter, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return domain.SensitivityParameter{}, domain.NewParameterError("param", s, "expected name:min-max[:steps]")
	}

	spec, ok := domain.LookupParameterSpec(parts[0])
	if !ok {
		return domain.SensitivityParameter{}, domain.NewParameterError("param", parts[0], "unknown parameter")
	}

	bounds := strings.SplitN(parts[1], "-", 2)
	if len(bounds) != 2 {
		return domain.SensitivityParameter{}, domain.NewParameterError("param", s, "range must be min-max")
	}
	lo, err := decimal.NewFromString(strings.TrimSpace(bounds[0]))
	if err != nil {
		return domain.SensitivityParameter{}, domain.NewParameterError("param", bounds[0], "min is not a number")
	}
	hi, err := decimal.NewFromString(strings.TrimSpace(bounds[1]))
	if err != nil {
		return domain.SensitivityParameter{}, domain.NewParameterError("param", bounds[1], "max is not a number")
	}

	steps := 5
	if len(parts) == 3 {
		if steps, err = strconv.Atoi(parts[2]); err != nil || steps < 2 {
			return domain.SensitivityParameter{}, domain.NewParameterError("param", parts[2], "steps must be an integer of at least 2")
		}
	}

	baseValue, _ := base.Value(spec.Name)
	return domain.SensitivityParameter{
		Name:        spec.Name,
		MinValue:    lo,
		MaxValue:    hi,
		Steps:       steps,
		BaseValue:   baseValue,
		Unit:        spec.Unit,
		Description: spec.Description,
	}, nil
}

func breakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break-even [plan-file]",
		Short: "Find the contribution, expenses or retirement age at which savings just last",
		Long: `Binary-search one lever of the plan for the point where the savings last
exactly through life expectancy.

Targets:
  contribution     minimum monthly contribution
  expenses         maximum sustainable monthly expenses in today's money
  retirement_age   earliest retirement age
  all              all three, with recommendations`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBreakEven,
	}
	cmd.Flags().StringP("target", "t", string(breakeven.OptimizeAll), "What to solve for (contribution, expenses, retirement_age, all)")
	cmd.Flags().Int("max-iterations", 0, "Iteration cap (0 = solver default)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	addPlanFlags(cmd)
	return cmd
}

func runBreakEven(cmd *cobra.Command, args []string) error {
	rawTarget, _ := cmd.Flags().GetString("target")
	target, err := breakeven.ParseTarget(strings.ToLower(strings.TrimSpace(rawTarget)))
	if err != nil {
		return err
	}

	lp, err := loadPlan(cmd, args)
	if err != nil {
		return err
	}

	engine := newEngine(cmd)
	solver := breakeven.NewDefaultSolver(engine)
	solver.SetLogger(engine.Logger)

	maxIterations, _ := cmd.Flags().GetInt("max-iterations")
	req := breakeven.OptimizationRequest{
		Base:          lp.Plan,
		Target:        target,
		MaxIterations: maxIterations,
	}

	format, _ := cmd.Flags().GetString("format")
	jsonOut := output.NormalizeFormatName(format) == "json"
	out := cmd.OutOrStdout()

	if target == breakeven.OptimizeAll {
		multi, err := solver.OptimizeAll(cmd.Context(), req)
		if err != nil {
			return err
		}
		if jsonOut {
			text, err := (&breakeven.JSONFormatter{Pretty: true}).FormatMulti(multi)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
			return nil
		}
		fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatMulti(multi))
		return nil
	}

	result, err := solver.Optimize(cmd.Context(), req)
	if err != nil {
		return err
	}
	if jsonOut {
		text, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}
	fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(result))
	return nil
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [plan-file]",
		Short: "Compare the plan against templates, transforms or its own scenarios",
		Long: `Evaluate variants of a plan side by side.

Examples:
  rplan compare plan.yaml --templates retire_later_2yr,save_more_250
  rplan compare plan.yaml --transform scale_expenses:need_pct=100,want_pct=50
  rplan compare plan.yaml --scenarios
  rplan compare --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompare,
	}
	cmd.Flags().String("templates", "", "Comma-separated template names")
	cmd.Flags().StringArray("transform", nil, "Ad hoc transform (format: name:key=value,...); repeatable")
	cmd.Flags().Bool("scenarios", false, "Compare the file's named scenarios against its base plan")
	cmd.Flags().Bool("list-templates", false, "List the available templates")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	addPlanFlags(cmd)
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if list, _ := cmd.Flags().GetBool("list-templates"); list {
		fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
		return nil
	}

	lp, err := loadPlan(cmd, args)
	if err != nil {
		return err
	}

	engine := compare.NewCompareEngine(newEngine(cmd))
	var set *compare.ComparisonSet

	if useScenarios, _ := cmd.Flags().GetBool("scenarios"); useScenarios {
		if lp.Config == nil {
			return fmt.Errorf("--scenarios requires a plan file")
		}
		set, err = engine.CompareScenarios(cmd.Context(), lp.Config, nil)
	} else {
		templates, _ := cmd.Flags().GetString("templates")
		transforms, _ := cmd.Flags().GetStringArray("transform")
		set, err = engine.Compare(cmd.Context(), lp.Plan, compare.CompareOptions{
			BaseName:   lp.Name,
			Templates:  transform.ParseTemplateList(templates),
			Transforms: transforms,
		})
	}
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	switch strings.ToLower(format) {
	case "json":
		text, err := (&compare.JSONFormatter{Pretty: true}).Format(set)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
	case "csv":
		text, err := (&compare.CSVFormatter{}).Format(set)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
	case "compact":
		fmt.Fprint(out, (&compare.TableFormatter{}).FormatCompact(set))
	default:
		fmt.Fprint(out, (&compare.TableFormatter{}).Format(set))
	}
	return nil
}

func transformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transforms",
		Short: "List the available transforms and templates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available Transforms:")
			fmt.Fprintln(out)
			for _, name := range transform.NewTransformRegistry().List() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
		},
	}
}
