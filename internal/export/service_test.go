package export_test

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/export"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
)

type stubPlanner struct {
	plan payoff.Plan
	err  error
}

func (s stubPlanner) Simulate(context.Context, plan.Request) (payoff.Plan, error) {
	return s.plan, s.err
}

func samplePlan() payoff.Plan {
	debts := []debt.Debt{
		{ID: uuid.New(), Name: "Card", Balance: 300, InterestRate: 0, MinimumPayment: 100},
		{ID: uuid.New(), Name: "Loan", Balance: 200, InterestRate: 0, MinimumPayment: 100},
	}

	return payoff.Simulate(debts, payoff.Options{
		Strategy:     payoff.StrategySnowball,
		ExtraPayment: 50,
		Start:        time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
	})
}

func TestService_Export(t *testing.T) {
	dir := t.TempDir()
	svc := export.NewService(stubPlanner{plan: samplePlan()})

	res, err := svc.Export(context.Background(), plan.Request{}, dir)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)

	f, err := os.Open(filepath.Join(dir, export.ScheduleFile))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Month", rows[0][0])
	// Month 1: minimums to both, extra to the smaller loan.
	assert.Equal(t, []string{"1", "Apr 25", "Card", "100.00", "false", "250.00", "250.00", "0.00"}, rows[1])
	assert.Equal(t, []string{"1", "Apr 25", "Loan", "150.00", "true", "250.00", "250.00", "0.00"}, rows[2])

	balances, err := os.ReadFile(filepath.Join(dir, export.BalancesFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(balances), "Month,Date,Card,Loan\n1,Apr 25,200.00,50.00\n"))

	summary, err := os.ReadFile(filepath.Join(dir, export.SummaryFile))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Strategy: Debt Snowball")
}

func TestWriteSchedule_MonthWithoutPayments(t *testing.T) {
	debts := []debt.Debt{
		{ID: uuid.New(), Name: "Interest Only", Balance: 1000, InterestRate: 12, MinimumPayment: 0},
	}

	p := payoff.Simulate(debts, payoff.Options{
		Strategy:  payoff.StrategySnowball,
		MaxMonths: 2,
		Start:     time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
	})
	require.Len(t, p.Steps, 2)

	var sb strings.Builder
	require.NoError(t, export.WriteSchedule(&sb, p))

	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "Apr 25", "", "0.00", "false", "1010.00", "0.00", "10.00"}, rows[1])
	assert.Equal(t, []string{"2", "May 25", "", "0.00", "false", "1020.10", "0.00", "20.10"}, rows[2])
}

func TestService_ExportPlanError(t *testing.T) {
	svc := export.NewService(stubPlanner{err: errors.New("no debts")})

	_, err := svc.Export(context.Background(), plan.Request{}, t.TempDir())
	assert.Error(t, err)
}

func TestGenerateSummary(t *testing.T) {
	type testCase struct {
		name string
		plan payoff.Plan
		want []string
	}

	capped := payoff.Simulate(
		[]debt.Debt{{Name: "Mortgage", Balance: 10000, InterestRate: 20, MinimumPayment: 100}},
		payoff.Options{Strategy: payoff.StrategyAvalanche, MaxMonths: 1, Start: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)},
	)

	tests := []testCase{
		{
			name: "PaidOff",
			plan: samplePlan(),
			want: []string{
				"Starting balance: 500.00",
				"Debt free: Jun 25 (3 months)",
				"Total paid: 500.00",
			},
		},
		{
			name: "Capped",
			plan: capped,
			want: []string{
				"Strategy: Debt Avalanche",
				"Not paid off within 1 months, 10066.67 remaining",
			},
		},
		{
			name: "Empty",
			plan: payoff.Plan{},
			want: []string{"Nothing owed."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := export.GenerateSummary(tt.plan)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}
