package main

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/summit/internal/config"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
	"github.com/MrJamesThe3rd/summit/internal/plan/cache"
	"github.com/MrJamesThe3rd/summit/internal/render"
	"github.com/MrJamesThe3rd/summit/internal/scenario"
)

var (
	flagFile      string
	flagStrategy  string
	flagExtra     float64
	flagWindfall  float64
	flagMaxMonths int
	flagEvery     int
	flagCompare   bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Simulate a payoff schedule for a debts file",
	Long: "Reads debts from a CSV spreadsheet or a TOML/YAML scenario and prints the\n" +
		"payoff summary and month-by-month schedule. Flags override scenario settings.",
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Debts CSV or scenario TOML/YAML file")
	planCmd.Flags().StringVarP(&flagStrategy, "strategy", "s", "", "snowball or avalanche")
	planCmd.Flags().Float64VarP(&flagExtra, "extra", "e", 0, "Extra monthly payment")
	planCmd.Flags().Float64VarP(&flagWindfall, "windfall", "w", 0, "One-time payment in the first month")
	planCmd.Flags().IntVar(&flagMaxMonths, "max-months", 0, "Stop the simulation after this many months")
	planCmd.Flags().IntVar(&flagEvery, "every", 1, "Only print every nth month of the schedule")
	planCmd.Flags().BoolVar(&flagCompare, "compare", false, "Compare both strategies instead")

	_ = planCmd.MarkFlagRequired("file")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sc, err := scenario.Load(flagFile)
	if err != nil {
		return err
	}

	debts, err := sc.Debts()
	if err != nil {
		return err
	}

	defaultStrategy, err := payoff.ParseStrategy(cfg.Plan.Strategy)
	if err != nil {
		return err
	}

	req := plan.Request{
		Debts:        debts,
		Strategy:     sc.StrategyOr(defaultStrategy),
		ExtraPayment: sc.ExtraPayment,
		Windfall:     sc.Windfall,
		MaxMonths:    sc.MaxMonths,
	}

	flags := cmd.Flags()

	if flags.Changed("strategy") {
		if req.Strategy, err = payoff.ParseStrategy(flagStrategy); err != nil {
			return err
		}
	}

	if flags.Changed("extra") {
		req.ExtraPayment = new(flagExtra)
	}

	if flags.Changed("windfall") {
		req.Windfall = flagWindfall
	}

	if flags.Changed("max-months") {
		req.MaxMonths = flagMaxMonths
	}

	svc := plan.NewService(nil, cache.NewMemory(), cfg.Cache.TTL, plan.Defaults{
		Strategy:       defaultStrategy,
		ExtraPayment:   cfg.Plan.ExtraPayment,
		MaxMonths:      cfg.Plan.MaxMonths,
		Epsilon:        cfg.Plan.Epsilon,
		MaxMonthsLimit: cfg.Plan.MaxMonthsLimit,
	})

	out := cmd.OutOrStdout()

	if flagCompare {
		c, err := svc.Compare(cmd.Context(), req)
		if err != nil {
			return err
		}

		printComparison(out, c)

		return nil
	}

	p, err := svc.Simulate(cmd.Context(), req)
	if err != nil {
		return err
	}

	printPlan(out, p, flagEvery)

	return nil
}

func printPlan(out io.Writer, p payoff.Plan, every int) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, render.RenderTitle("SUMMIT  "+p.Summary.Strategy.Label()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, render.Table([]string{"", ""}, render.SummaryRows(p.Summary)))

	if len(p.Steps) == 0 {
		fmt.Fprintln(out, render.MutedStyle.Render("  Nothing owed."))
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, render.Table(render.ScheduleHeaders, render.ScheduleRows(payoff.Sample(p.Steps, every))))
}

func printComparison(out io.Writer, c payoff.Comparison) {
	row := func(label string, pick func(payoff.Summary) string) []string {
		return []string{label, pick(c.Snowball.Summary), pick(c.Avalanche.Summary)}
	}

	rows := [][]string{
		row("Debt free", func(s payoff.Summary) string { return s.PayoffDate }),
		row("Time", func(s payoff.Summary) string { return render.FormatMonths(s.Months) }),
		row("Total paid", func(s payoff.Summary) string { return render.FormatMoney(s.TotalPaid) }),
		row("Total interest", func(s payoff.Summary) string { return render.FormatMoney(s.TotalInterest) }),
		row("Interest avoided", func(s payoff.Summary) string { return render.FormatMoney(s.InterestAvoided) }),
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, render.RenderTitle("SUMMIT  Strategy comparison"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, render.Table([]string{"", payoff.StrategySnowball.Label(), payoff.StrategyAvalanche.Label()}, rows))
	fmt.Fprintln(out)

	if c.InterestSaved == 0 && c.MonthsSaved == 0 {
		fmt.Fprintln(out, "  Both strategies cost the same.")
		return
	}

	fmt.Fprintf(out, "  %s saves %s and %s\n",
		render.GoodStyle.Render(c.Cheaper().Label()),
		render.FormatMoney(math.Abs(c.InterestSaved)),
		render.FormatMonths(absInt(c.MonthsSaved)))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
