package payoff

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/summit/internal/debt"
)

// Comparison holds the same inputs simulated under both strategies.
type Comparison struct {
	Snowball      Plan    `json:"snowball"`
	Avalanche     Plan    `json:"avalanche"`
	InterestSaved float64 `json:"interest_saved"` // Snowball interest minus avalanche interest
	MonthsSaved   int     `json:"months_saved"`   // Snowball months minus avalanche months
}

// Cheaper returns the strategy with the lower total interest, preferring
// snowball on a tie.
func (c Comparison) Cheaper() Strategy {
	if c.Avalanche.Summary.TotalInterest < c.Snowball.Summary.TotalInterest {
		return StrategyAvalanche
	}

	return StrategySnowball
}

// Compare simulates both strategies in parallel. opts.Strategy is ignored.
func Compare(ctx context.Context, debts []debt.Debt, opts Options) (Comparison, error) {
	opts = opts.normalize()

	var c Comparison

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		o := opts
		o.Strategy = StrategySnowball
		c.Snowball = Simulate(debts, o)

		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		o := opts
		o.Strategy = StrategyAvalanche
		c.Avalanche = Simulate(debts, o)

		return nil
	})

	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}

	c.InterestSaved = c.Snowball.Summary.TotalInterest - c.Avalanche.Summary.TotalInterest
	c.MonthsSaved = c.Snowball.Summary.Months - c.Avalanche.Summary.Months

	return c, nil
}
