package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rplan/internal/output"
	"github.com/rgehrsitz/rplan/internal/store"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Read recorded evaluations",
		Long: `Evaluations are recorded by the HTTP API and by "rplan calculate --db".

Examples:
  rplan history list --db rplan.db --limit 10
  rplan history show 5f0c... --db rplan.db`,
	}
	cmd.PersistentFlags().String("db", "rplan.db", "SQLite database path")
	cmd.PersistentFlags().StringP("format", "f", "table", "Output format (table, json)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent evaluations, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}
	list.Flags().Int("limit", store.DefaultListLimit, "Maximum number of evaluations")

	show := &cobra.Command{
		Use:   "show <evaluation-id>",
		Short: "Show one evaluation",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}

	cmd.AddCommand(list, show)
	return cmd
}

func openHistory(cmd *cobra.Command) (*store.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	return store.New(dbPath)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	st, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := st.ListEvaluations(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format, _ := cmd.Flags().GetString("format"); strings.EqualFold(format, "json") {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No evaluations recorded")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "WHEN", "AGES", "MONTHLY AT RETIREMENT", "FINAL BALANCE", "OUTCOME")
	for _, rec := range records {
		t.Row(
			rec.ID,
			rec.CreatedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%d/%d/%d/%d", rec.Plan.Age, rec.Plan.PreretirementStartAge, rec.Plan.RetirementAge, rec.Plan.LifeExpectancy),
			output.FormatAmount(rec.FutureMonthlyExpenses),
			output.FormatAmount(rec.FinalBalance),
			outcome(rec),
		)
	}
	fmt.Fprintln(out, t.String())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.GetEvaluation(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format, _ := cmd.Flags().GetString("format"); strings.EqualFold(format, "json") {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	p := rec.Plan
	fmt.Fprintf(out, "Evaluation %s\n", rec.ID)
	fmt.Fprintf(out, "Recorded:                 %s\n", rec.CreatedAt.Local().Format(time.DateTime))
	if rec.PlanID != nil {
		fmt.Fprintf(out, "Saved plan:               %s\n", *rec.PlanID)
	}
	fmt.Fprintf(out, "Ages:                     %d / %d / %d / %d\n", p.Age, p.PreretirementStartAge, p.RetirementAge, p.LifeExpectancy)
	fmt.Fprintf(out, "Current savings:          %s\n", output.FormatAmount(p.CurrentSavings))
	fmt.Fprintf(out, "Monthly contribution:     %s\n", output.FormatAmount(p.MonthlyContribution))
	fmt.Fprintf(out, "Monthly at retirement:    %s\n", output.FormatAmount(rec.FutureMonthlyExpenses))
	fmt.Fprintf(out, "Final balance:            %s\n", output.FormatAmount(rec.FinalBalance))
	fmt.Fprintf(out, "Outcome:                  %s\n", outcome(*rec))
	return nil
}

func outcome(rec store.EvaluationRecord) string {
	switch {
	case rec.FundsLast:
		return "funds last"
	case rec.DepletionAge != nil:
		return "depleted at " + strconv.Itoa(*rec.DepletionAge)
	default:
		return "no retirement years"
	}
}
