package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
)

const (
	ScheduleFile = "schedule.csv"
	BalancesFile = "balances.csv"
	SummaryFile  = "summary.txt"
)

type Planner interface {
	Simulate(ctx context.Context, req plan.Request) (payoff.Plan, error)
}

// Result is a plan written to disk.
type Result struct {
	Plan  payoff.Plan
	Files []string
}

// Service writes payoff plans to files.
type Service struct {
	plans Planner
}

func NewService(plans Planner) *Service {
	return &Service{plans: plans}
}

// Export simulates req and writes the schedule, per-debt balances and a text
// summary into outputDir.
func (s *Service) Export(ctx context.Context, req plan.Request, outputDir string) (Result, error) {
	p, err := s.plans.Simulate(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("simulating plan: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	writers := []struct {
		name  string
		write func(io.Writer, payoff.Plan) error
	}{
		{ScheduleFile, WriteSchedule},
		{BalancesFile, WriteBalances},
		{SummaryFile, func(w io.Writer, p payoff.Plan) error {
			_, err := io.WriteString(w, GenerateSummary(p))
			return err
		}},
	}

	res := Result{Plan: p, Files: make([]string, 0, len(writers))}

	for _, wr := range writers {
		path := filepath.Join(outputDir, wr.name)
		if err := writeFile(path, p, wr.write); err != nil {
			return Result{}, fmt.Errorf("writing %s: %w", wr.name, err)
		}

		res.Files = append(res.Files, path)
	}

	return res, nil
}

func writeFile(path string, p payoff.Plan, write func(io.Writer, payoff.Plan) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := write(f, p); err != nil {
		return err
	}

	return f.Close()
}

// WriteSchedule writes one row per payment, and a row with an empty debt
// column for a month without payments.
func WriteSchedule(w io.Writer, p payoff.Plan) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Month", "Date", "Debt", "Payment", "Extra", "Remaining Balance", "Total Paid", "Total Interest"}); err != nil {
		return err
	}

	for _, step := range p.Steps {
		month := strconv.Itoa(step.Month)

		if len(step.Payments) == 0 {
			row := []string{
				month,
				step.Date,
				"",
				money(0),
				"false",
				money(step.RemainingBalance),
				money(step.TotalPaid),
				money(step.TotalInterest),
			}
			if err := cw.Write(row); err != nil {
				return err
			}

			continue
		}

		for _, pay := range step.Payments {
			row := []string{
				month,
				step.Date,
				pay.DebtName,
				money(pay.Amount),
				strconv.FormatBool(pay.IsExtra),
				money(step.RemainingBalance),
				money(step.TotalPaid),
				money(step.TotalInterest),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteBalances writes one row per month with a column per debt.
func WriteBalances(w io.Writer, p payoff.Plan) error {
	cw := csv.NewWriter(w)

	if len(p.Steps) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"Month", "Date"}
	for _, b := range p.Steps[0].Balances {
		header = append(header, b.DebtName)
	}

	if err := cw.Write(header); err != nil {
		return err
	}

	for _, step := range p.Steps {
		row := []string{strconv.Itoa(step.Month), step.Date}
		for _, b := range step.Balances {
			row = append(row, money(b.Balance))
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// GenerateSummary describes a plan in a few plain text lines.
func GenerateSummary(p payoff.Plan) string {
	var sb strings.Builder

	s := p.Summary

	fmt.Fprintf(&sb, "Strategy: %s\n", s.Strategy.Label())
	fmt.Fprintf(&sb, "Starting balance: %s\n", money(s.StartingBalance))

	switch {
	case len(p.Steps) == 0:
		sb.WriteString("Nothing owed.\n")
	case s.PaidOff:
		fmt.Fprintf(&sb, "Debt free: %s (%d months)\n", s.PayoffDate, s.Months)
	default:
		last, _ := p.Final()
		fmt.Fprintf(&sb, "Not paid off within %d months, %s remaining\n", s.Months, money(last.RemainingBalance))
	}

	fmt.Fprintf(&sb, "Total paid: %s\n", money(s.TotalPaid))
	fmt.Fprintf(&sb, "Total interest: %s\n", money(s.TotalInterest))
	fmt.Fprintf(&sb, "Interest avoided vs minimum payments: %s\n", money(s.InterestAvoided))

	return sb.String()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
