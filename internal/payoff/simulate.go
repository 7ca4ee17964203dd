package payoff

import (
	"math"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/summit/internal/debt"
)

// Simulate projects the repayment of debts month by month until everything
// is paid or opts.MaxMonths is reached. A schedule that hits the cap ends
// with a remaining balance above epsilon and Summary.PaidOff set to false.
// An empty or fully paid debt list yields an empty schedule.
func Simulate(debts []debt.Debt, opts Options) Plan {
	opts = opts.normalize()

	steps := run(debts, opts)
	baseline := MinimumOnlyInterest(debts, opts)

	summary := Summary{
		Strategy:            opts.Strategy,
		StartingBalance:     debt.TotalBalance(debts),
		MinimumOnlyInterest: baseline,
	}

	if last, ok := lastStep(steps); ok {
		summary.Months = len(steps)
		summary.TotalPaid = last.TotalPaid
		summary.TotalInterest = last.TotalInterest
		summary.PaidOff = last.RemainingBalance <= opts.Epsilon
	} else {
		summary.PaidOff = true
	}

	if summary.PaidOff && len(steps) > 0 {
		summary.PayoffDate = steps[len(steps)-1].Date
	}

	summary.InterestAvoided = math.Max(0, baseline-summary.TotalInterest)

	return Plan{Steps: steps, Summary: summary}
}

// MinimumOnlyInterest returns the total interest paid when only minimum
// payments are ever made. The cap is BaselineMaxMonths, or opts.MaxMonths
// when that is larger.
func MinimumOnlyInterest(debts []debt.Debt, opts Options) float64 {
	opts = opts.normalize()
	opts.ExtraPayment = 0
	opts.Windfall = 0
	opts.MaxMonths = max(opts.MaxMonths, BaselineMaxMonths)

	steps := run(debts, opts)
	if last, ok := lastStep(steps); ok {
		return last.TotalInterest
	}

	return 0
}

// run is the month loop shared by the strategy simulation and the baseline,
// so both see identical interest and minimum payment mechanics.
func run(debts []debt.Debt, opts Options) []Step {
	state := slices.Clone(debts)

	if owed(state) <= opts.Epsilon {
		return nil
	}

	anchor := time.Date(opts.Start.Year(), opts.Start.Month(), 1, 0, 0, 0, 0, opts.Start.Location())

	var (
		steps         []Step
		totalPaid     float64
		totalInterest float64
	)

	for month := 1; month <= opts.MaxMonths; month++ {
		additional := opts.ExtraPayment
		if month == 1 {
			additional += opts.Windfall
		}

		payments, paid, interest := advance(state, opts.Strategy, additional, opts.Epsilon)

		totalPaid += paid
		totalInterest += interest
		remaining := math.Max(0, owed(state))

		steps = append(steps, Step{
			Month:            month,
			Date:             anchor.AddDate(0, month, 0).Format(dateLayout),
			RemainingBalance: remaining,
			TotalPaid:        totalPaid,
			TotalInterest:    totalInterest,
			Payments:         payments,
			Balances:         balances(state),
		})

		if remaining <= opts.Epsilon {
			break
		}
	}

	return steps
}

// advance simulates a single month in place: interest accrual and minimum
// payments on every active debt, then the additional amount on the focus debt.
func advance(state []debt.Debt, strategy Strategy, additional, epsilon float64) ([]PaymentEntry, float64, float64) {
	var (
		payments []PaymentEntry
		paid     float64
		interest float64
	)

	entryFor := make(map[int]int, len(state))

	for i := range state {
		d := &state[i]
		if d.Balance <= epsilon {
			continue
		}

		accrued := d.Balance * (d.InterestRate / 100) / 12
		d.Balance += accrued
		interest += accrued

		payment := math.Min(d.Balance, d.MinimumPayment)
		d.Balance -= payment
		paid += payment

		if payment > 0 {
			entryFor[i] = len(payments)
			payments = append(payments, PaymentEntry{DebtID: d.ID, DebtName: d.Name, Amount: payment})
		}
	}

	if focus, ok := focusDebt(state, strategy, epsilon); ok && additional > 0 {
		d := &state[focus]
		payment := math.Min(d.Balance, additional)
		d.Balance -= payment
		paid += payment

		if idx, ok := entryFor[focus]; ok {
			payments[idx].Amount += payment
			payments[idx].IsExtra = true
		} else {
			payments = append(payments, PaymentEntry{DebtID: d.ID, DebtName: d.Name, Amount: payment, IsExtra: true})
		}
	}

	for i := range state {
		if state[i].Balance <= epsilon {
			state[i].Balance = 0
		}
	}

	return payments, paid, interest
}

// focusDebt returns the index of the highest priority debt still owing.
func focusDebt(state []debt.Debt, strategy Strategy, epsilon float64) (int, bool) {
	focus := -1

	for i, d := range state {
		if d.Balance <= epsilon {
			continue
		}

		// Strictly less keeps the earlier debt on ties.
		if focus < 0 || strategy.Compare(d, state[focus]) < 0 {
			focus = i
		}
	}

	return focus, focus >= 0
}

func owed(state []debt.Debt) float64 {
	return debt.TotalBalance(state)
}

func balances(state []debt.Debt) []DebtBalance {
	out := make([]DebtBalance, len(state))
	for i, d := range state {
		out[i] = DebtBalance{DebtID: d.ID, DebtName: d.Name, Balance: d.Balance}
	}

	return out
}

func lastStep(steps []Step) (Step, bool) {
	return Plan{Steps: steps}.Final()
}
