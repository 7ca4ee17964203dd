package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/render"
)

type debtsState int

const (
	debtsStateBrowse debtsState = iota
	debtsStateAdd
)

type DebtsModel struct {
	CommonModel
	debtService *debt.Service

	state    debtsState
	strategy payoff.Strategy
	table    table.Model
	ranked   []debt.Debt
	form     *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formName    string
	formBalance string
	formRate    string
	formMinimum string
}

func NewDebtsModel(debtSvc *debt.Service, strategy payoff.Strategy) DebtsModel {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: 24},
		{Title: "Balance", Width: 14},
		{Title: "Rate", Width: 8},
		{Title: "Minimum", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DebtsModel{
		debtService: debtSvc,
		strategy:    strategy,
		table:       t,
		loading:     true,
	}
}

func (m DebtsModel) Title() string { return "Debts" }

func (m DebtsModel) ShortHelp() string {
	if m.state == debtsStateAdd {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | s: strategy | r: refresh"
}

func (m DebtsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DebtsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDebtsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.ranked = payoff.Rank(msg.debts, m.strategy)
		m.refreshTable()

		return m, nil

	case debtSavedMsg:
		m.state = debtsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case debtsStateBrowse:
		return m.updateBrowse(msg)
	case debtsStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m DebtsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "x":
			return m, m.deleteCmd()
		case "s":
			m.strategy = m.strategy.Toggle()
			m.ranked = payoff.Rank(m.ranked, m.strategy)
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DebtsModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formName, m.formBalance, m.formRate, m.formMinimum = "", "", "", ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("Credit card").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Key("balance").
				Title("Balance").
				Placeholder("5000").
				Value(&m.formBalance).
				Validate(validateAmount),
			huh.NewInput().
				Key("rate").
				Title("Interest rate (APR %)").
				Placeholder("19.99").
				Value(&m.formRate).
				Validate(validateAmount),
			huh.NewInput().
				Key("minimum").
				Title("Minimum payment").
				Placeholder("150").
				Value(&m.formMinimum).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = debtsStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m DebtsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = debtsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m DebtsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading debts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Priority: [s] %s | Total %s | Minimums %s/mo",
		activeStyle(m.strategy.Label()),
		render.FormatMoney(debt.TotalBalance(m.ranked)),
		render.FormatMoney(debt.TotalMinimums(m.ranked)),
	)

	body := m.table.View()
	if len(m.ranked) == 0 {
		body = render.MutedStyle.Render("No debts yet. Press a to add one or import a spreadsheet.")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(body)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == debtsStateAdd && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Add Debt", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + render.MutedStyle.Render(m.ShortHelp()))
}

func (m *DebtsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.ranked))
	for i, d := range m.ranked {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			d.Name,
			render.FormatMoney(d.Balance),
			render.FormatRate(d.InterestRate),
			render.FormatMoney(d.MinimumPayment),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Messages

type loadDebtsMsg struct {
	debts []debt.Debt
	err   error
}

func (m DebtsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ds, err := m.debtService.List(ctx)

		return loadDebtsMsg{debts: debt.Values(ds), err: err}
	}
}

type debtSavedMsg struct {
	status string
	err    error
}

func (m DebtsModel) createCmd() tea.Cmd {
	name := strings.TrimSpace(m.form.GetString("name"))
	balance, _ := ParseAmount(m.form.GetString("balance"))
	rate, _ := ParseAmount(m.form.GetString("rate"))
	minimum, _ := ParseAmount(m.form.GetString("minimum"))

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.debtService.Create(ctx, debt.CreateParams{
			Name:           name,
			Balance:        balance,
			InterestRate:   rate,
			MinimumPayment: minimum,
		})
		if err != nil {
			return debtSavedMsg{err: err}
		}

		return debtSavedMsg{status: fmt.Sprintf("Added %s.", d.Name)}
	}
}

func (m DebtsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.ranked) {
		return nil
	}

	d := m.ranked[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.debtService.Delete(ctx, d.ID); err != nil {
			return debtSavedMsg{err: err}
		}

		return debtSavedMsg{status: fmt.Sprintf("Deleted %s.", d.Name)}
	}
}
