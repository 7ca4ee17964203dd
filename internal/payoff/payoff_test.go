package payoff_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
)

var start = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func twoDebts() []debt.Debt {
	return []debt.Debt{
		{ID: uuid.New(), Name: "A", Balance: 1000, InterestRate: 24, MinimumPayment: 50},
		{ID: uuid.New(), Name: "B", Balance: 500, InterestRate: 10, MinimumPayment: 30},
	}
}

func opts(strategy payoff.Strategy, extra float64) payoff.Options {
	return payoff.Options{Strategy: strategy, ExtraPayment: extra, Start: start}
}

func TestSimulate_FirstMonth(t *testing.T) {
	type testCase struct {
		name         string
		strategy     payoff.Strategy
		wantPayments []payoff.PaymentEntry
		wantA, wantB float64
	}

	tests := []testCase{
		{
			name:     "Snowball",
			strategy: payoff.StrategySnowball,
			wantPayments: []payoff.PaymentEntry{
				{DebtName: "A", Amount: 50},
				{DebtName: "B", Amount: 130, IsExtra: true},
			},
			wantA: 970,
			wantB: 374.1666666,
		},
		{
			name:     "Avalanche",
			strategy: payoff.StrategyAvalanche,
			wantPayments: []payoff.PaymentEntry{
				{DebtName: "A", Amount: 150, IsExtra: true},
				{DebtName: "B", Amount: 30},
			},
			wantA: 870,
			wantB: 474.1666666,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := payoff.Simulate(twoDebts(), opts(tt.strategy, 100))
			require.NotEmpty(t, plan.Steps)

			first := plan.Steps[0]
			assert.Equal(t, 1, first.Month)
			assert.Equal(t, "Feb 25", first.Date)
			assert.InDelta(t, 180, first.TotalPaid, 1e-9)
			assert.InDelta(t, 24.1666666, first.TotalInterest, 1e-6)
			assert.InDelta(t, 1344.1666666, first.RemainingBalance, 1e-6)

			require.Len(t, first.Payments, len(tt.wantPayments))

			for i, want := range tt.wantPayments {
				assert.Equal(t, want.DebtName, first.Payments[i].DebtName)
				assert.InDelta(t, want.Amount, first.Payments[i].Amount, 1e-9)
				assert.Equal(t, want.IsExtra, first.Payments[i].IsExtra)
			}

			require.Len(t, first.Balances, 2)
			assert.InDelta(t, tt.wantA, first.Balances[0].Balance, 1e-6)
			assert.InDelta(t, tt.wantB, first.Balances[1].Balance, 1e-6)
		})
	}
}

func TestSimulate_SnowballCostsAtLeastAvalanche(t *testing.T) {
	snowball := payoff.Simulate(twoDebts(), opts(payoff.StrategySnowball, 100))
	avalanche := payoff.Simulate(twoDebts(), opts(payoff.StrategyAvalanche, 100))

	assert.True(t, snowball.Summary.PaidOff)
	assert.True(t, avalanche.Summary.PaidOff)
	assert.GreaterOrEqual(t, snowball.Summary.TotalInterest, avalanche.Summary.TotalInterest)
	assert.Equal(t, 11, snowball.Summary.Months)
	assert.Equal(t, 10, avalanche.Summary.Months)
}

func TestSimulate_Monotonic(t *testing.T) {
	for _, strategy := range payoff.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			plan := payoff.Simulate(twoDebts(), opts(strategy, 75))
			require.NotEmpty(t, plan.Steps)

			for i := 1; i < len(plan.Steps); i++ {
				prev, cur := plan.Steps[i-1], plan.Steps[i]
				assert.Equal(t, prev.Month+1, cur.Month)
				assert.GreaterOrEqual(t, cur.TotalPaid, prev.TotalPaid)
				assert.GreaterOrEqual(t, cur.TotalInterest, prev.TotalInterest)
				assert.LessOrEqual(t, cur.RemainingBalance, prev.RemainingBalance)
			}

			last, ok := plan.Final()
			require.True(t, ok)
			assert.LessOrEqual(t, last.RemainingBalance, payoff.DefaultEpsilon)
			assert.Equal(t, last.Date, plan.Summary.PayoffDate)
		})
	}
}

func TestSimulate_ZeroExtraMatchesBaseline(t *testing.T) {
	for _, strategy := range payoff.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			plan := payoff.Simulate(twoDebts(), opts(strategy, 0))

			assert.Equal(t, 26, plan.Summary.Months)
			assert.InDelta(t, plan.Summary.MinimumOnlyInterest, plan.Summary.TotalInterest, 1e-9)
			assert.InDelta(t, 330.4292, plan.Summary.TotalInterest, 1e-3)
			assert.Zero(t, plan.Summary.InterestAvoided)
		})
	}
}

func TestSimulate_MoreExtraNeverCostsMore(t *testing.T) {
	extras := []float64{0, 50, 100, 200, 500}

	for _, strategy := range payoff.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			var prev payoff.Summary

			for i, extra := range extras {
				s := payoff.Simulate(twoDebts(), opts(strategy, extra)).Summary
				assert.True(t, s.PaidOff)

				if i > 0 {
					assert.LessOrEqual(t, s.Months, prev.Months, "extra %.0f", extra)
					assert.LessOrEqual(t, s.TotalInterest, prev.TotalInterest, "extra %.0f", extra)
					assert.GreaterOrEqual(t, s.InterestAvoided, prev.InterestAvoided, "extra %.0f", extra)
				}

				prev = s
			}
		})
	}
}

func TestSimulate_Windfall(t *testing.T) {
	o := opts(payoff.StrategySnowball, 100)
	o.Windfall = 1000

	plan := payoff.Simulate(twoDebts(), o)
	require.NotEmpty(t, plan.Steps)

	first := plan.Steps[0]
	require.Len(t, first.Payments, 2)
	assert.True(t, first.Payments[1].IsExtra)
	// The windfall clears B; the leftover is not carried to A.
	assert.InDelta(t, 504.1666666, first.Payments[1].Amount, 1e-6)
	assert.Zero(t, first.Balances[1].Balance)
	assert.InDelta(t, 970, first.Balances[0].Balance, 1e-9)
	assert.Equal(t, 8, plan.Summary.Months)
}

func TestSimulate_DegenerateInputs(t *testing.T) {
	t.Run("NoDebts", func(t *testing.T) {
		plan := payoff.Simulate(nil, opts(payoff.StrategySnowball, 100))
		assert.Empty(t, plan.Steps)
		assert.True(t, plan.Summary.PaidOff)
		assert.Zero(t, plan.Summary.Months)
	})

	t.Run("ZeroBalance", func(t *testing.T) {
		debts := []debt.Debt{{ID: uuid.New(), Name: "Paid", Balance: 0, InterestRate: 20, MinimumPayment: 50}}

		plan := payoff.Simulate(debts, opts(payoff.StrategyAvalanche, 100))
		assert.Empty(t, plan.Steps)
		assert.Zero(t, plan.Summary.TotalInterest)
		assert.Zero(t, plan.Summary.InterestAvoided)
	})

	t.Run("NegativeExtraIsIgnored", func(t *testing.T) {
		a := payoff.Simulate(twoDebts(), opts(payoff.StrategySnowball, -50))
		b := payoff.Simulate(twoDebts(), opts(payoff.StrategySnowball, 0))
		assert.Equal(t, b.Summary.Months, a.Summary.Months)
		assert.InDelta(t, b.Summary.TotalInterest, a.Summary.TotalInterest, 1e-9)
	})
}

func TestSimulate_Cap(t *testing.T) {
	debts := []debt.Debt{{ID: uuid.New(), Name: "Mortgage", Balance: 10000, InterestRate: 20, MinimumPayment: 100}}

	t.Run("OneMonth", func(t *testing.T) {
		o := opts(payoff.StrategySnowball, 0)
		o.MaxMonths = 1

		plan := payoff.Simulate(debts, o)
		require.Len(t, plan.Steps, 1)
		assert.Greater(t, plan.Steps[0].RemainingBalance, payoff.DefaultEpsilon)
		assert.False(t, plan.Summary.PaidOff)
		assert.Empty(t, plan.Summary.PayoffDate)
	})

	t.Run("MinimumBelowInterest", func(t *testing.T) {
		plan := payoff.Simulate(debts, opts(payoff.StrategySnowball, 0))
		assert.Len(t, plan.Steps, payoff.DefaultMaxMonths)
		assert.False(t, plan.Summary.PaidOff)
	})
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	debts := twoDebts()
	payoff.Simulate(debts, opts(payoff.StrategySnowball, 100))

	assert.Equal(t, 1000.0, debts[0].Balance)
	assert.Equal(t, 500.0, debts[1].Balance)
}

func TestRank(t *testing.T) {
	debts := []debt.Debt{
		{Name: "Big", Balance: 9000, InterestRate: 5},
		{Name: "SmallLow", Balance: 300, InterestRate: 12},
		{Name: "SmallHigh", Balance: 300, InterestRate: 29.9},
		{Name: "Mid", Balance: 2000, InterestRate: 29.9},
	}

	type testCase struct {
		name     string
		strategy payoff.Strategy
		want     []string
	}

	tests := []testCase{
		{
			name:     "Snowball",
			strategy: payoff.StrategySnowball,
			want:     []string{"SmallLow", "SmallHigh", "Mid", "Big"},
		},
		{
			name:     "Avalanche",
			strategy: payoff.StrategyAvalanche,
			want:     []string{"SmallHigh", "Mid", "SmallLow", "Big"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := payoff.Rank(debts, tt.strategy)

			got := make([]string, len(ranked))
			for i, d := range ranked {
				got[i] = d.Name
			}

			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Big", debts[0].Name)
		})
	}
}

func TestSimulate_FocusTieKeepsInputOrder(t *testing.T) {
	debts := []debt.Debt{
		{ID: uuid.New(), Name: "First", Balance: 500, InterestRate: 10, MinimumPayment: 20},
		{ID: uuid.New(), Name: "Second", Balance: 500, InterestRate: 10, MinimumPayment: 20},
	}

	for _, strategy := range payoff.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			plan := payoff.Simulate(debts, opts(strategy, 100))
			require.NotEmpty(t, plan.Steps)

			first := plan.Steps[0]
			require.Len(t, first.Payments, 2)
			assert.True(t, first.Payments[0].IsExtra)
			assert.False(t, first.Payments[1].IsExtra)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := payoff.ParseStrategy(" Avalanche ")
	require.NoError(t, err)
	assert.Equal(t, payoff.StrategyAvalanche, s)
	assert.Equal(t, payoff.StrategySnowball, s.Toggle())

	_, err = payoff.ParseStrategy("highest-first")
	assert.ErrorIs(t, err, payoff.ErrUnknownStrategy)
}

func TestCompare(t *testing.T) {
	c, err := payoff.Compare(context.Background(), twoDebts(), opts("", 100))
	require.NoError(t, err)

	assert.Equal(t, payoff.StrategySnowball, c.Snowball.Summary.Strategy)
	assert.Equal(t, payoff.StrategyAvalanche, c.Avalanche.Summary.Strategy)
	assert.InDelta(t, c.Snowball.Summary.TotalInterest-c.Avalanche.Summary.TotalInterest, c.InterestSaved, 1e-9)
	assert.Equal(t, 1, c.MonthsSaved)
	assert.Equal(t, payoff.StrategyAvalanche, c.Cheaper())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = payoff.Compare(ctx, twoDebts(), opts("", 100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSample(t *testing.T) {
	steps := make([]payoff.Step, 10)
	for i := range steps {
		steps[i].Month = i + 1
	}

	got := payoff.Sample(steps, 3)

	months := make([]int, len(got))
	for i, s := range got {
		months[i] = s.Month
	}

	assert.Equal(t, []int{1, 4, 7, 10}, months)
	assert.Len(t, payoff.Sample(steps, 1), 10)
	assert.Empty(t, payoff.Sample(nil, 3))
}
