package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrJamesThe3rd/summit/internal/payoff"
)

// Table renders rows under a bold header with a rounded border.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}

			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// ScheduleRows turns a schedule into month, date, paid, interest and
// remaining columns followed by a compact list of the month's payments.
func ScheduleRows(steps []payoff.Step) [][]string {
	rows := make([][]string, 0, len(steps))

	var prevPaid, prevInterest float64

	for _, s := range steps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Month),
			s.Date,
			FormatMoney(s.TotalPaid - prevPaid),
			FormatMoney(s.TotalInterest - prevInterest),
			FormatMoney(s.RemainingBalance),
			paymentsCell(s.Payments),
		})

		prevPaid, prevInterest = s.TotalPaid, s.TotalInterest
	}

	return rows
}

var ScheduleHeaders = []string{"Month", "Date", "Paid", "Interest", "Remaining", "Payments"}

func paymentsCell(entries []payoff.PaymentEntry) string {
	parts := make([]string, 0, len(entries))

	for _, e := range entries {
		mark := ""
		if e.IsExtra {
			mark = "*"
		}

		parts = append(parts, fmt.Sprintf("%s %s%s", e.DebtName, FormatShort(e.Amount), mark))
	}

	return strings.Join(parts, ", ")
}

// SummaryRows lists the headline numbers of a plan.
func SummaryRows(s payoff.Summary) [][]string {
	freeOn := s.PayoffDate
	if !s.PaidOff {
		freeOn = "not within " + FormatMonths(s.Months)
	}

	return [][]string{
		{"Strategy", s.Strategy.Label()},
		{"Debt free", freeOn},
		{"Time", FormatMonths(s.Months)},
		{"Starting balance", FormatMoney(s.StartingBalance)},
		{"Total paid", FormatMoney(s.TotalPaid)},
		{"Total interest", FormatMoney(s.TotalInterest)},
		{"Interest avoided", FormatMoney(s.InterestAvoided)},
	}
}
