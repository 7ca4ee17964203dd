package debt

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("debt not found")
	ErrInvalid  = errors.New("invalid debt")
)

// Debt is a single interest-bearing balance owed by the user.
type Debt struct {
	ID             uuid.UUID
	Name           string
	Balance        float64 // Currency units, not cents
	InterestRate   float64 // Annual percentage, e.g. 19.99
	MinimumPayment float64
	CreatedAt      time.Time
}

// CreateParams holds the caller-supplied fields of a debt.
type CreateParams struct {
	Name           string
	Balance        float64
	InterestRate   float64
	MinimumPayment float64
}

// Validate reports whether the params describe a usable debt: a non-empty name
// and finite, non-negative numbers.
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"balance", p.Balance},
		{"interest rate", p.InterestRate},
		{"minimum payment", p.MinimumPayment},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalid, f.name)
		}

		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalid, f.name)
		}
	}

	return nil
}

// Values dereferences a list of debts, skipping nil entries.
func Values(ds []*Debt) []Debt {
	out := make([]Debt, 0, len(ds))
	for _, d := range ds {
		if d == nil {
			continue
		}

		out = append(out, *d)
	}

	return out
}

// TotalBalance sums the current balances.
func TotalBalance(ds []Debt) float64 {
	var total float64
	for _, d := range ds {
		total += d.Balance
	}

	return total
}

// TotalMinimums sums the mandatory monthly minimum payments.
func TotalMinimums(ds []Debt) float64 {
	var total float64
	for _, d := range ds {
		total += d.MinimumPayment
	}

	return total
}

// DebtToIncome returns total minimum payments divided by monthly income.
// ok is false when income is zero or negative and the ratio is undefined.
func DebtToIncome(ds []Debt, monthlyIncome float64) (ratio float64, ok bool) {
	if monthlyIncome <= 0 || math.IsNaN(monthlyIncome) {
		return 0, false
	}

	return TotalMinimums(ds) / monthlyIncome, true
}
