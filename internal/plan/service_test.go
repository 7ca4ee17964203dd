package plan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/debt/store"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
	"github.com/MrJamesThe3rd/summit/internal/plan/cache"
)

type countingCache struct {
	*cache.Memory
	gets, hits, sets int
}

func (c *countingCache) Get(ctx context.Context, key string, dst any) error {
	c.gets++

	err := c.Memory.Get(ctx, key, dst)
	if err == nil {
		c.hits++
	}

	return err
}

func (c *countingCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.sets++
	return c.Memory.Set(ctx, key, value, ttl)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) error {
	return errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("connection refused")
}

var defaults = plan.Defaults{
	Strategy:     payoff.StrategySnowball,
	ExtraPayment: 100,
	MaxMonths:    360,
	Epsilon:      0.01,
}

func seeded(t *testing.T) *debt.Service {
	t.Helper()

	svc := debt.NewService(store.New())
	_, err := svc.CreateBatch(context.Background(), []debt.CreateParams{
		{Name: "A", Balance: 1000, InterestRate: 24, MinimumPayment: 50},
		{Name: "B", Balance: 500, InterestRate: 10, MinimumPayment: 30},
	})
	require.NoError(t, err)

	return svc
}

func TestService_Simulate(t *testing.T) {
	ctx := context.Background()
	c := &countingCache{Memory: cache.NewMemory()}
	svc := plan.NewService(seeded(t), c, time.Minute, defaults)

	p, err := svc.Simulate(ctx, plan.Request{})
	require.NoError(t, err)
	assert.Equal(t, payoff.StrategySnowball, p.Summary.Strategy)
	assert.Equal(t, 11, p.Summary.Months)
	assert.True(t, p.Summary.PaidOff)
	assert.Equal(t, 1, c.sets)

	again, err := svc.Simulate(ctx, plan.Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
	assert.Equal(t, p.Summary, again.Summary)
	assert.Len(t, again.Steps, len(p.Steps))

	avalanche, err := svc.Simulate(ctx, plan.Request{Strategy: payoff.StrategyAvalanche})
	require.NoError(t, err)
	assert.Equal(t, 10, avalanche.Summary.Months)
	assert.Equal(t, 1, c.hits)
}

func TestService_SimulateExplicitZeroExtra(t *testing.T) {
	svc := plan.NewService(seeded(t), nil, 0, defaults)

	p, err := svc.Simulate(context.Background(), plan.Request{ExtraPayment: new(0.0)})
	require.NoError(t, err)
	assert.Equal(t, 26, p.Summary.Months)
	assert.Zero(t, p.Summary.InterestAvoided)
}

func TestService_SimulateErrors(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name    string
		debts   plan.DebtLister
		req     plan.Request
		wantErr error
	}

	tests := []testCase{
		{
			name:    "NoDebts",
			debts:   debt.NewService(store.New()),
			wantErr: plan.ErrNoDebts,
		},
		{
			name:    "UnknownStrategy",
			debts:   seeded(t),
			req:     plan.Request{Strategy: "fastest"},
			wantErr: payoff.ErrUnknownStrategy,
		},
		{
			name:    "MaxMonthsAboveLimit",
			debts:   seeded(t),
			req:     plan.Request{MaxMonths: plan.DefaultMaxMonthsLimit + 1},
			wantErr: plan.ErrMonthsTooMany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := plan.NewService(tt.debts, cache.NewMemory(), time.Minute, defaults)

			_, err := svc.Simulate(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_MaxMonthsLimit(t *testing.T) {
	ctx := context.Background()

	limited := defaults
	limited.MaxMonthsLimit = 12

	svc := plan.NewService(seeded(t), cache.NewMemory(), time.Minute, limited)

	_, err := svc.Simulate(ctx, plan.Request{MaxMonths: 100000000})
	assert.ErrorIs(t, err, plan.ErrMonthsTooMany)

	_, err = svc.Compare(ctx, plan.Request{MaxMonths: 13})
	assert.ErrorIs(t, err, plan.ErrMonthsTooMany)

	p, err := svc.Simulate(ctx, plan.Request{MaxMonths: 12})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(p.Steps), 12)
}

func TestService_CacheFailuresAreIgnored(t *testing.T) {
	svc := plan.NewService(seeded(t), brokenCache{}, time.Minute, defaults)

	p, err := svc.Simulate(context.Background(), plan.Request{})
	require.NoError(t, err)
	assert.NotEmpty(t, p.Steps)
}

func TestService_ExplicitDebts(t *testing.T) {
	svc := plan.NewService(debt.NewService(store.New()), nil, 0, defaults)

	p, err := svc.Simulate(context.Background(), plan.Request{
		Debts: []debt.Debt{{Name: "Card", Balance: 300, InterestRate: 0, MinimumPayment: 100}},
	})
	require.NoError(t, err)
	// 100 minimum plus 100 extra clears 300 in two months.
	assert.Equal(t, 2, p.Summary.Months)
	assert.InDelta(t, 300, p.Summary.TotalPaid, 1e-9)
}

func TestService_Compare(t *testing.T) {
	svc := plan.NewService(seeded(t), cache.NewMemory(), time.Minute, defaults)

	c, err := svc.Compare(context.Background(), plan.Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, c.MonthsSaved)
	assert.Greater(t, c.InterestSaved, 0.0)
	assert.Equal(t, payoff.StrategyAvalanche, c.Cheaper())
}

func TestService_Priority(t *testing.T) {
	svc := plan.NewService(seeded(t), nil, 0, defaults)

	ranked, err := svc.Priority(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "B", ranked[0].Name)

	ranked, err = svc.Priority(context.Background(), payoff.StrategyAvalanche)
	require.NoError(t, err)
	assert.Equal(t, "A", ranked[0].Name)
}
