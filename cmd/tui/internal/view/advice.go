package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/summit/internal/advice"
	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/render"
)

const adviceTimeout = 30 * time.Second

type Advisor interface {
	Advise(ctx context.Context, s advice.Snapshot) advice.Message
}

type adviceState int

const (
	adviceStateIncome adviceState = iota
	adviceStateThinking
	adviceStateResult
)

type AdviceModel struct {
	CommonModel
	advisor     Advisor
	debtService *debt.Service

	state   adviceState
	form    *huh.Form
	spinner spinner.Model

	income  float64
	ratio   float64
	ratioOK bool
	message advice.Message
	err     error

	formIncome string
}

func NewAdviceModel(advisor Advisor, debtSvc *debt.Service) AdviceModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := AdviceModel{
		advisor:     advisor,
		debtService: debtSvc,
		spinner:     s,
	}
	m.form = m.buildIncomeForm()

	return m
}

func (m AdviceModel) Title() string { return "Advice" }

func (m AdviceModel) ShortHelp() string {
	switch m.state {
	case adviceStateThinking:
		return "Thinking..."
	case adviceStateResult:
		return "Esc: back | r: ask again"
	}

	return "Esc: back | Enter: confirm"
}

func (m AdviceModel) buildIncomeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("income").
				Title("Monthly income").
				Description("Used for your debt-to-income ratio. Leave empty to skip.").
				Placeholder("4000").
				Value(&m.formIncome).
				Validate(validateAmount),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AdviceModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AdviceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceResultMsg:
		m.state = adviceStateResult
		m.err = msg.err
		m.message = msg.message
		m.ratio, m.ratioOK = msg.ratio, msg.ratioOK

		return m, nil

	case spinner.TickMsg:
		if m.state != adviceStateThinking {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case adviceStateIncome:
		return m.updateIncome(msg)
	case adviceStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "r":
				m.state = adviceStateIncome
				m.form = m.buildIncomeForm()

				return m, m.form.Init()
			}
		}
	}

	return m, nil
}

func (m AdviceModel) updateIncome(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.income, _ = ParseAmount(m.form.GetString("income"))
	m.state = adviceStateThinking

	return m, tea.Batch(m.spinner.Tick, m.adviseCmd(m.income))
}

func (m AdviceModel) View() string {
	switch m.state {
	case adviceStateIncome:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case adviceStateThinking:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " Asking for advice...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			render.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)",
		)
	}

	msg := m.message

	score := render.GoodStyle
	switch {
	case msg.HealthScore < 40:
		score = render.ErrorStyle
	case msg.HealthScore < 70:
		score = render.WarnStyle
	}

	body := fmt.Sprintf("Health score: %s\n", score.Render(fmt.Sprintf("%d/100", msg.HealthScore)))
	if m.ratioOK {
		body += fmt.Sprintf("Debt-to-income: %.1f%%\n", m.ratio*100)
	}

	body += "\n" + section("Pep talk", msg.PepTalk) +
		section("Next milestone", msg.NextMilestone) +
		section("Tip", msg.FinancialTip) +
		section("Budget", msg.BudgetAdvice)

	if !msg.Generated {
		body += render.MutedStyle.Render("(offline advice)") + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Width(80).Render(body + "\n" + render.MutedStyle.Render(m.ShortHelp()))
}

func section(title, text string) string {
	return render.HeaderStyle.Render(title) + "\n" + text + "\n\n"
}

// Messages

type adviceResultMsg struct {
	message advice.Message
	ratio   float64
	ratioOK bool
	err     error
}

func (m AdviceModel) adviseCmd(income float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adviceTimeout)
		defer cancel()

		stored, err := m.debtService.List(ctx)
		if err != nil {
			return adviceResultMsg{err: err}
		}

		snapshot := advice.Snapshot{
			Debts:         debt.Values(stored),
			MonthlyIncome: income,
		}

		ratio, ok := debt.DebtToIncome(snapshot.Debts, income)

		return adviceResultMsg{
			message: m.advisor.Advise(ctx, snapshot),
			ratio:   ratio,
			ratioOK: ok,
		}
	}
}
