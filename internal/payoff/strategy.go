package payoff

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/summit/internal/debt"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy decides which debt receives money beyond its minimum payment.
type Strategy string

const (
	// StrategySnowball targets the smallest balance first.
	StrategySnowball Strategy = "snowball"
	// StrategyAvalanche targets the highest interest rate first.
	StrategyAvalanche Strategy = "avalanche"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{StrategySnowball, StrategyAvalanche}

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategySnowball:
		return StrategySnowball, nil
	case StrategyAvalanche:
		return StrategyAvalanche, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

func (s Strategy) Valid() bool {
	return s == StrategySnowball || s == StrategyAvalanche
}

// Label is the human readable name of the strategy.
func (s Strategy) Label() string {
	switch s {
	case StrategySnowball:
		return "Debt Snowball"
	case StrategyAvalanche:
		return "Debt Avalanche"
	default:
		return string(s)
	}
}

// Toggle returns the other strategy.
func (s Strategy) Toggle() Strategy {
	if s == StrategyAvalanche {
		return StrategySnowball
	}

	return StrategyAvalanche
}

// Compare orders two debts by priority. It is meant for a stable sort so
// equal keys keep their input order. Unknown strategies fall back to snowball.
func (s Strategy) Compare(a, b debt.Debt) int {
	if s == StrategyAvalanche {
		return cmp.Compare(b.InterestRate, a.InterestRate)
	}

	return cmp.Compare(a.Balance, b.Balance)
}

// Rank returns the debts in priority order at their current balances.
// The input slice is left untouched.
func Rank(debts []debt.Debt, strategy Strategy) []debt.Debt {
	ranked := slices.Clone(debts)
	slices.SortStableFunc(ranked, strategy.Compare)

	return ranked
}
