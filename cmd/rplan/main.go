package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rplan/internal/calculation"
	"github.com/rgehrsitz/rplan/internal/config"
	"github.com/rgehrsitz/rplan/internal/domain"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rplan",
		Short: "Retirement savings projection calculator",
		Long: `Project a savings balance through accumulation, preretirement and
retirement, and report whether it covers inflation-adjusted expenses until
life expectancy.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("debug", false, "Log calculation details to stderr")

	root.AddCommand(
		calculateCmd(),
		validateCmd(),
		exampleCmd(),
		sensitivityCmd(),
		breakEvenCmd(),
		compareCmd(),
		transformsCmd(),
		serveCmd(),
		historyCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

// newEngine returns a calculation engine that logs when --debug is set.
func newEngine(cmd *cobra.Command) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

// planFlagName maps a parameter name to its override flag.
func planFlagName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

// addPlanFlags registers one override flag per plan field.
func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("scenario", "", "Apply a named scenario from the plan file")
	for _, spec := range domain.PlanParameterSpecs {
		usage := spec.Label
		if spec.Unit != "" {
			usage += " (" + spec.Unit + ")"
		}
		cmd.Flags().String(planFlagName(spec.Name), "", usage)
	}
}

// loadedPlan is the plan a command operates on, with the configuration it
// came from when a file was given.
type loadedPlan struct {
	Name   string
	Config *domain.Configuration
	Plan   domain.PlanParameters
}

// loadPlan reads the optional plan file, applies --scenario and any override
// flags, and validates the result.
func loadPlan(cmd *cobra.Command, args []string) (*loadedPlan, error) {
	lp := &loadedPlan{Name: "Default plan", Plan: domain.DefaultPlanParameters()}

	if len(args) > 0 {
		cfg, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return nil, err
		}
		lp.Config = cfg
		lp.Name = cfg.Name
		lp.Plan = cfg.Plan
	}

	if scenario, _ := cmd.Flags().GetString("scenario"); scenario != "" {
		if lp.Config == nil {
			return nil, fmt.Errorf("--scenario requires a plan file")
		}
		plan, err := lp.Config.ResolvePlan(scenario)
		if err != nil {
			return nil, err
		}
		lp.Name = scenario
		lp.Plan = plan
	}

	for _, spec := range domain.PlanParameterSpecs {
		flag := planFlagName(spec.Name)
		if !cmd.Flags().Changed(flag) {
			continue
		}
		raw, _ := cmd.Flags().GetString(flag)
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, domain.NewParameterError(spec.Name, raw, "not a number")
		}
		if lp.Plan, err = lp.Plan.WithValue(spec.Name, v); err != nil {
			return nil, err
		}
	}

	if err := config.ValidatePlan(lp.Plan); err != nil {
		return nil, err
	}
	return lp, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
