// Package advice asks a text generation service for encouragement and
// budgeting advice about the user's debts.
package advice

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/summit/internal/debt"
)

// Snapshot is the read-only view of the user's situation sent for advice.
type Snapshot struct {
	Debts         []debt.Debt
	TotalPaid     float64
	MonthlyIncome float64
}

type Message struct {
	PepTalk       string `json:"pepTalk"`
	NextMilestone string `json:"nextMilestone"`
	FinancialTip  string `json:"financialTip"`
	BudgetAdvice  string `json:"budgetAdvice"`
	HealthScore   int    `json:"healthScore"`
	// Generated is false when the message is the built-in fallback.
	Generated bool `json:"generated"`
}

// Fallback is returned whenever the advice service cannot be used.
func Fallback() Message {
	return Message{
		PepTalk:       "You're making consistent progress toward total debt freedom.",
		NextMilestone: "Focus on your current high-priority balance to build momentum.",
		FinancialTip:  "Review non-essential monthly subscriptions to increase your snowball power.",
		BudgetAdvice:  "Aim to keep your debt-to-income ratio below 36% for optimal financial health.",
		HealthScore:   50,
	}
}

func buildPrompt(s Snapshot) string {
	var sb strings.Builder

	sb.WriteString("Act as a senior debt-relief strategist.\n")
	fmt.Fprintf(&sb, "Current total debt: $%.2f.\n", debt.TotalBalance(s.Debts))
	fmt.Fprintf(&sb, "Total amount paid off so far: $%.2f.\n", s.TotalPaid)

	if s.MonthlyIncome > 0 {
		fmt.Fprintf(&sb, "Monthly net income: $%.2f.\n", s.MonthlyIncome)
	}

	fmt.Fprintf(&sb, "Mandatory monthly minimums: $%.2f.\n", debt.TotalMinimums(s.Debts))

	if ratio, ok := debt.DebtToIncome(s.Debts, s.MonthlyIncome); ok {
		fmt.Fprintf(&sb, "Debt-to-income ratio: %.1f%%.\n", ratio*100)
	}

	items := make([]string, 0, len(s.Debts))
	for _, d := range s.Debts {
		items = append(items, fmt.Sprintf("%s (Balance: $%.2f, Rate: %g%%)", d.Name, d.Balance, d.InterestRate))
	}

	fmt.Fprintf(&sb, "Debts: %s.\n\n", strings.Join(items, ", "))

	milestone := "the first card"
	if len(s.Debts) > 0 {
		milestone = s.Debts[0].Name
	}

	sb.WriteString("Provide:\n")
	sb.WriteString("1. A highly encouraging pep talk.\n")
	fmt.Fprintf(&sb, "2. A specific next milestone (e.g. \"Paying off the %s\").\n", milestone)
	sb.WriteString("3. A practical financial tip.\n")

	if s.MonthlyIncome > 0 {
		sb.WriteString("4. Strategic advice about their income vs debt (DTI ratio).\n")
	} else {
		sb.WriteString("4. General budgeting advice; their income is unknown.\n")
	}

	sb.WriteString("5. A healthScore from 1-100 where 100 is debt-free.\n\n")
	sb.WriteString("Return the response in JSON format.")

	return sb.String()
}

func clampScore(score int) int {
	return min(max(score, 1), 100)
}
