package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/metrics"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan/cache"
)

// DefaultMaxMonthsLimit bounds a requested MaxMonths when Defaults leaves
// the limit unset.
const DefaultMaxMonthsLimit = 1200

var (
	ErrNoDebts       = errors.New("no debts to plan")
	ErrMonthsTooMany = errors.New("max months above limit")
)

type DebtLister interface {
	List(ctx context.Context) ([]*debt.Debt, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Defaults fill in whatever a request leaves unset.
type Defaults struct {
	Strategy     payoff.Strategy
	ExtraPayment float64
	MaxMonths    int
	Epsilon      float64

	MaxMonthsLimit int
}

// Request describes a plan to compute. Nil Debts means the stored debts.
type Request struct {
	Debts        []debt.Debt
	Strategy     payoff.Strategy
	ExtraPayment *float64
	Windfall     float64
	MaxMonths    int
}

type Service struct {
	debts    DebtLister
	cache    Cache
	ttl      time.Duration
	defaults Defaults
	now      func() time.Time
}

func NewService(debts DebtLister, c Cache, ttl time.Duration, defaults Defaults) *Service {
	if !defaults.Strategy.Valid() {
		defaults.Strategy = payoff.StrategySnowball
	}

	if defaults.MaxMonthsLimit <= 0 {
		defaults.MaxMonthsLimit = DefaultMaxMonthsLimit
	}

	return &Service{
		debts:    debts,
		cache:    c,
		ttl:      ttl,
		defaults: defaults,
		now:      time.Now,
	}
}

func (s *Service) Simulate(ctx context.Context, req Request) (payoff.Plan, error) {
	debts, opts, err := s.resolve(ctx, req)
	if err != nil {
		return payoff.Plan{}, err
	}

	key, err := cacheKey("simulate", debts, opts)
	if err != nil {
		return payoff.Plan{}, err
	}

	var p payoff.Plan
	if s.lookup(ctx, key, &p) {
		return p, nil
	}

	started := time.Now()
	p = payoff.Simulate(debts, opts)

	metrics.PlanDuration.Observe(time.Since(started).Seconds())
	metrics.PlanSimulations.WithLabelValues(string(opts.Strategy)).Inc()

	s.store(ctx, key, p)

	return p, nil
}

func (s *Service) Compare(ctx context.Context, req Request) (payoff.Comparison, error) {
	debts, opts, err := s.resolve(ctx, req)
	if err != nil {
		return payoff.Comparison{}, err
	}

	opts.Strategy = ""

	key, err := cacheKey("compare", debts, opts)
	if err != nil {
		return payoff.Comparison{}, err
	}

	var c payoff.Comparison
	if s.lookup(ctx, key, &c) {
		return c, nil
	}

	c, err = payoff.Compare(ctx, debts, opts)
	if err != nil {
		return payoff.Comparison{}, fmt.Errorf("comparing strategies: %w", err)
	}

	for _, st := range payoff.Strategies {
		metrics.PlanSimulations.WithLabelValues(string(st)).Inc()
	}

	s.store(ctx, key, c)

	return c, nil
}

// Priority returns the stored debts ranked by strategy at their current
// balances. An empty strategy uses the configured default.
func (s *Service) Priority(ctx context.Context, strategy payoff.Strategy) ([]debt.Debt, error) {
	if strategy == "" {
		strategy = s.defaults.Strategy
	}

	stored, err := s.debts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing debts: %w", err)
	}

	return payoff.Rank(debt.Values(stored), strategy), nil
}

func (s *Service) resolve(ctx context.Context, req Request) ([]debt.Debt, payoff.Options, error) {
	debts := req.Debts
	if debts == nil {
		stored, err := s.debts.List(ctx)
		if err != nil {
			return nil, payoff.Options{}, fmt.Errorf("listing debts: %w", err)
		}

		debts = debt.Values(stored)
	}

	if len(debts) == 0 {
		return nil, payoff.Options{}, ErrNoDebts
	}

	opts := payoff.Options{
		Strategy:     req.Strategy,
		ExtraPayment: s.defaults.ExtraPayment,
		Windfall:     req.Windfall,
		MaxMonths:    req.MaxMonths,
		Epsilon:      s.defaults.Epsilon,
		Start:        s.now(),
	}

	if opts.Strategy == "" {
		opts.Strategy = s.defaults.Strategy
	}

	if !opts.Strategy.Valid() {
		return nil, payoff.Options{}, fmt.Errorf("%w: %q", payoff.ErrUnknownStrategy, opts.Strategy)
	}

	if req.ExtraPayment != nil {
		opts.ExtraPayment = *req.ExtraPayment
	}

	if opts.MaxMonths <= 0 {
		opts.MaxMonths = s.defaults.MaxMonths
	}

	if opts.MaxMonths > s.defaults.MaxMonthsLimit {
		return nil, payoff.Options{}, fmt.Errorf("%w: %d > %d", ErrMonthsTooMany, opts.MaxMonths, s.defaults.MaxMonthsLimit)
	}

	return debts, opts, nil
}

func (s *Service) lookup(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}

	err := s.cache.Get(ctx, key, dst)
	if err == nil {
		metrics.PlanCacheHits.Inc()
		return true
	}

	if !errors.Is(err, cache.ErrMiss) {
		metrics.PlanCacheErrors.WithLabelValues("get").Inc()
		slog.Warn("failed to read plan cache", "error", err)
	}

	return false
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		metrics.PlanCacheErrors.WithLabelValues("set").Inc()
		slog.Warn("failed to write plan cache", "error", err)
	}
}

type keyDebt struct {
	ID             string
	Name           string
	Balance        float64
	InterestRate   float64
	MinimumPayment float64
}

type keyInput struct {
	Kind         string
	Debts        []keyDebt
	Strategy     string
	ExtraPayment float64
	Windfall     float64
	MaxMonths    int
	Epsilon      float64
	StartMonth   string // Date labels depend on it
}

func cacheKey(kind string, debts []debt.Debt, opts payoff.Options) (string, error) {
	in := keyInput{
		Kind:         kind,
		Debts:        make([]keyDebt, len(debts)),
		Strategy:     string(opts.Strategy),
		ExtraPayment: opts.ExtraPayment,
		Windfall:     opts.Windfall,
		MaxMonths:    opts.MaxMonths,
		Epsilon:      opts.Epsilon,
		StartMonth:   opts.Start.Format("2006-01"),
	}

	for i, d := range debts {
		in.Debts[i] = keyDebt{
			ID:             d.ID.String(),
			Name:           d.Name,
			Balance:        d.Balance,
			InterestRate:   d.InterestRate,
			MinimumPayment: d.MinimumPayment,
		}
	}

	h, err := hashstructure.Hash(in, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing plan input: %w", err)
	}

	return kind + ":" + strconv.FormatUint(h, 16), nil
}
