package advice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/summit/internal/debt"
)

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(Snapshot{
		Debts:     []debt.Debt{{Name: "Visa", Balance: 1000, InterestRate: 19.99, MinimumPayment: 40}},
		TotalPaid: 250,
	})

	assert.Contains(t, prompt, "Current total debt: $1000.00.")
	assert.Contains(t, prompt, "Total amount paid off so far: $250.00.")
	assert.Contains(t, prompt, "Visa (Balance: $1000.00, Rate: 19.99%)")
	assert.Contains(t, prompt, `"Paying off the Visa"`)
	assert.NotContains(t, prompt, "Monthly net income")
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 1, clampScore(-5))
	assert.Equal(t, 1, clampScore(0))
	assert.Equal(t, 64, clampScore(64))
	assert.Equal(t, 100, clampScore(101))
}
