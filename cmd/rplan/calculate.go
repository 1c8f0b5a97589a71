package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rplan/internal/config"
	"github.com/rgehrsitz/rplan/internal/domain"
	"github.com/rgehrsitz/rplan/internal/output"
	"github.com/rgehrsitz/rplan/internal/store"
)

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [plan-file]",
		Short: "Project a plan through all three phases",
		Long: `Evaluate a plan and print the timeline, the expense breakdown, the plan
details and the verdict. Without a file the default plan is evaluated.

Examples:
  rplan calculate plan.yaml
  rplan calculate plan.yaml --scenario "Retire at 65" --format json
  rplan calculate --retirement-age 62 --monthly-contribution 800`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCalculate,
	}
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file")
	cmd.Flags().String("db", "", "Record the evaluation in this history database")
	addPlanFlags(cmd)
	return cmd
}

func runCalculate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("unknown format %q (available: %s; aliases: %s)", format,
			strings.Join(output.AvailableFormatterNames(), ", "),
			strings.Join(output.AvailableFormatAliases(), ", "))
	}

	lp, err := loadPlan(cmd, args)
	if err != nil {
		return err
	}

	result, err := newEngine(cmd).Evaluate(cmd.Context(), lp.Plan)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	if err := recordEvaluation(cmd, result); err != nil {
		return err
	}
	report := output.NewReport(lp.Name, result)

	outPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")
	if outPath == "" && !save {
		data, err := formatter.Format(report)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	path, err := output.WriteFormatted(formatter, report, output.Extension(format), outPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	return nil
}

// recordEvaluation saves the result to the --db history when one is given.
func recordEvaluation(cmd *cobra.Command, result *domain.SimulationResult) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		return nil
	}
	st, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.RecordEvaluation(cmd.Context(), nil, result)
	if err != nil {
		return fmt.Errorf("failed to record evaluation: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Recorded evaluation %s\n", rec.ID)
	return nil
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan-file>",
		Short: "Validate a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ %s is valid\n", args[0])
			fmt.Fprintf(out, "  Plan: %s\n", cfg.Name)
			if !cfg.Plan.IsOrdered() {
				d := cfg.Plan.Durations()
				fmt.Fprintf(out, "  Note: ages are out of order; phases run %d/%d/%d years\n",
					d.AccumulationYears, d.PreretirementYears, d.RetirementYears)
			}
			for _, s := range cfg.Scenarios {
				fmt.Fprintf(out, "  Scenario: %s\n", s.Name)
			}
			return nil
		},
	}
}

func exampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example plan file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateExample()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example plan written to %s\n", args[0])
			return nil
		},
	}
}
