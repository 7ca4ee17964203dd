// Package payoff simulates month-by-month repayment of a set of debts.
//
// Every function in this package is pure: inputs are copied, nothing is
// logged and nothing is shared between calls, so it is safe to run many
// simulations concurrently.
package payoff

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxMonths caps a simulation at 30 years.
	DefaultMaxMonths = 360
	// BaselineMaxMonths caps the minimum-only baseline, which pays off slower.
	BaselineMaxMonths = 600
	// DefaultEpsilon is the balance under which a debt counts as paid.
	DefaultEpsilon = 0.01

	dateLayout = "Jan 06"
)

type Options struct {
	Strategy     Strategy
	ExtraPayment float64 // Added to the focus debt every month
	Windfall     float64 // One-time lump sum applied in month 1
	MaxMonths    int
	Epsilon      float64
	Start        time.Time // Month 1 is the month after Start; zero means now
}

func (o Options) normalize() Options {
	if o.ExtraPayment < 0 {
		o.ExtraPayment = 0
	}

	if o.Windfall < 0 {
		o.Windfall = 0
	}

	if o.MaxMonths <= 0 {
		o.MaxMonths = DefaultMaxMonths
	}

	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}

	if o.Start.IsZero() {
		o.Start = time.Now()
	}

	return o
}

// PaymentEntry is one allocation to a debt within a month.
type PaymentEntry struct {
	DebtID   uuid.UUID `json:"debt_id"`
	DebtName string    `json:"debt_name"`
	Amount   float64   `json:"amount"`
	IsExtra  bool      `json:"is_extra"` // Part of the amount came from the extra payment or windfall
}

// DebtBalance is the simulated balance of a single debt at the end of a month.
type DebtBalance struct {
	DebtID   uuid.UUID `json:"debt_id"`
	DebtName string    `json:"debt_name"`
	Balance  float64   `json:"balance"`
}

type Step struct {
	Month            int            `json:"month"`
	Date             string         `json:"date"`
	RemainingBalance float64        `json:"remaining_balance"`
	TotalPaid        float64        `json:"total_paid"`
	TotalInterest    float64        `json:"total_interest"`
	Payments         []PaymentEntry `json:"payments"`
	Balances         []DebtBalance  `json:"balances"`
}

type Summary struct {
	Strategy            Strategy `json:"strategy"`
	Months              int      `json:"months"`
	PayoffDate          string   `json:"payoff_date,omitempty"`
	PaidOff             bool     `json:"paid_off"`
	StartingBalance     float64  `json:"starting_balance"`
	TotalPaid           float64  `json:"total_paid"`
	TotalInterest       float64  `json:"total_interest"`
	MinimumOnlyInterest float64  `json:"minimum_only_interest"`
	InterestAvoided     float64  `json:"interest_avoided"`
}

type Plan struct {
	Steps   []Step  `json:"steps"`
	Summary Summary `json:"summary"`
}

// Final returns the last step of the schedule, or false when it is empty.
func (p Plan) Final() (Step, bool) {
	if len(p.Steps) == 0 {
		return Step{}, false
	}

	return p.Steps[len(p.Steps)-1], true
}
