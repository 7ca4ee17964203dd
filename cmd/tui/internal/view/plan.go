package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/summit/internal/export"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
	"github.com/MrJamesThe3rd/summit/internal/render"
)

const (
	extraStep = 50
	maxExtra  = 2000

	planTimeout = 30 * time.Second
)

type planState int

const (
	planStateView planState = iota
	planStateWindfall
	planStateExport
)

type PlanModel struct {
	CommonModel
	planService   *plan.Service
	exportService *export.Service

	state    planState
	strategy payoff.Strategy
	extra    float64
	windfall float64
	month    int // Index into plan.Steps the balances panel shows

	plan     payoff.Plan
	table    table.Model
	progress progress.Model
	form     *huh.Form

	seq     int // Bumped per simulation; older results are dropped
	loading bool
	err     error
	status  string

	// Form bindings
	formWindfall string
	formPath     string
}

func NewPlanModel(planSvc *plan.Service, exportSvc *export.Service, strategy payoff.Strategy, extra float64) PlanModel {
	columns := []table.Column{
		{Title: "Month", Width: 6},
		{Title: "Date", Width: 8},
		{Title: "Paid", Width: 12},
		{Title: "Interest", Width: 10},
		{Title: "Remaining", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
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

	return PlanModel{
		CommonModel:   CommonModel{Width: 100, Height: 40},
		planService:   planSvc,
		exportService: exportSvc,
		strategy:      strategy,
		extra:         min(max(extra, 0), maxExtra),
		table:         t,
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		loading:       true,
		formPath:      "./exports",
	}
}

func (m PlanModel) Title() string { return "Payoff Plan" }

func (m PlanModel) ShortHelp() string {
	switch m.state {
	case planStateWindfall, planStateExport:
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | +/-: extra | w: windfall | s: strategy | ←/→: month | e: export"
}

func (m PlanModel) Init() tea.Cmd {
	return m.simulateCmd()
}

func (m PlanModel) request() plan.Request {
	return plan.Request{
		Strategy:     m.strategy,
		ExtraPayment: new(m.extra),
		Windfall:     m.windfall,
	}
}

func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planResultMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.plan = msg.plan
			m.month = min(m.month, max(len(m.plan.Steps)-1, 0))
			m.refreshTable()
		}

		return m, nil

	case exportResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Exported %d files to %s", len(msg.result.Files), msg.dir)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-30, 4))

		return m, nil
	}

	switch m.state {
	case planStateWindfall, planStateExport:
		return m.updateForm(msg)
	}

	return m.updateView(msg)
}

func (m PlanModel) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "+", "=":
			return m.setExtra(m.extra + extraStep)
		case "-", "_":
			return m.setExtra(m.extra - extraStep)
		case "s":
			m.strategy = m.strategy.Toggle()
			cmd := m.resimulate()

			return m, cmd
		case "left", "h":
			if m.month > 0 {
				m.month--
			}

			return m, nil
		case "right", "l":
			if m.month < len(m.plan.Steps)-1 {
				m.month++
			}

			return m, nil
		case "w":
			return m.openWindfallForm()
		case "e":
			return m.openExportForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PlanModel) setExtra(v float64) (tea.Model, tea.Cmd) {
	v = min(max(v, 0), maxExtra)
	if v == m.extra {
		return m, nil
	}

	m.extra = v
	cmd := m.resimulate()

	return m, cmd
}

func (m PlanModel) openWindfallForm() (tea.Model, tea.Cmd) {
	m.formWindfall = ""
	if m.windfall > 0 {
		m.formWindfall = fmt.Sprintf("%.2f", m.windfall)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("windfall").
				Title("One-time windfall").
				Description("Applied to the focus debt in the first month.").
				Placeholder("0").
				Value(&m.formWindfall).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = planStateWindfall
	m.table.Blur()

	return m, m.form.Init()
}

func (m PlanModel) openExportForm() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output directory").
				Value(&m.formPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("directory cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = planStateExport
	m.table.Blur()

	return m, m.form.Init()
}

func (m PlanModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	state := m.state
	path := strings.TrimSpace(m.form.GetString("path"))
	windfall := m.form.GetString("windfall")
	m.closeForm()

	if state == planStateExport {
		m.formPath = path
		m.status = "Exporting..."

		return m, m.exportCmd(path)
	}

	m.windfall, _ = ParseAmount(windfall)
	cmd = m.resimulate()

	return m, cmd
}

func (m *PlanModel) closeForm() {
	m.state = planStateView
	m.form = nil
	m.table.Focus()
}

func (m PlanModel) View() string {
	if errors.Is(m.err, plan.ErrNoDebts) {
		return lipgloss.NewStyle().Padding(2).Render(
			"No debts to plan yet. Add or import some first.\n\n(Esc to go back)",
		)
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			render.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)",
		)
	}

	if m.loading && len(m.plan.Steps) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("Simulating...")
	}

	header := fmt.Sprintf(
		"[s] %s | [+/-] Extra %s/mo | [w] Windfall %s",
		activeStyle(m.strategy.Label()),
		activeStyle(render.FormatMoney(m.extra)),
		activeStyle(render.FormatMoney(m.windfall)),
	)

	sections := []string{
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		m.viewSummary(),
	}

	if len(m.plan.Steps) > 0 {
		sections = append(sections,
			"",
			m.viewChart(),
			"",
			m.viewMonth(),
			"",
			lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.table.View()),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	switch {
	case m.state == planStateWindfall && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Windfall", m.form.View()))
	case m.state == planStateExport && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Export Plan", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + render.MutedStyle.Render(m.ShortHelp()))
}

func (m PlanModel) viewSummary() string {
	s := m.plan.Summary

	if len(m.plan.Steps) == 0 {
		return render.GoodStyle.Render("Nothing owed. You are debt free!")
	}

	freeOn := render.GoodStyle.Render(s.PayoffDate)
	if !s.PaidOff {
		freeOn = render.WarnStyle.Render("not within " + render.FormatMonths(s.Months))
	}

	return fmt.Sprintf(
		"Debt free: %s (%s)\nTotal interest: %s   Interest avoided: %s   Total paid: %s",
		freeOn,
		render.FormatMonths(s.Months),
		render.FormatMoney(s.TotalInterest),
		render.GoodStyle.Render(render.FormatMoney(s.InterestAvoided)),
		render.FormatMoney(s.TotalPaid),
	)
}

func (m PlanModel) viewChart() string {
	values := make([]float64, len(m.plan.Steps))
	labels := make([]string, len(m.plan.Steps))

	for i, st := range m.plan.Steps {
		values[i] = st.RemainingBalance
		labels[i] = st.Date
	}

	return render.HeaderStyle.Render("Remaining balance") + "\n" +
		render.BarChart(values, labels, min(m.Width-4, 80), 8)
}

// viewMonth shows the true per-debt balances at the scrubbed month and how
// far along the plan is at that point.
func (m PlanModel) viewMonth() string {
	st := m.plan.Steps[m.month]

	var done float64
	if start := m.plan.Summary.StartingBalance; start > 0 {
		done = min(max((start-st.RemainingBalance)/start, 0), 1)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s  month %d of %d (%s)\n",
		render.HeaderStyle.Render(st.Date), st.Month, len(m.plan.Steps), render.FormatMonths(st.Month))
	fmt.Fprintf(&b, "%s %.0f%% paid\n", m.progress.ViewAs(done), done*100)

	for _, bal := range st.Balances {
		name := bal.DebtName
		if bal.Balance == 0 {
			name = render.GoodStyle.Render(name + " ✓")
		}

		fmt.Fprintf(&b, "  %-26s %12s\n", name, render.FormatMoney(bal.Balance))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *PlanModel) refreshTable() {
	rows := render.ScheduleRows(m.plan.Steps)

	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r[:5])
	}

	m.table.SetRows(tableRows)

	if m.table.Cursor() >= len(tableRows) {
		m.table.SetCursor(max(len(tableRows)-1, 0))
	}
}

// Messages

type planResultMsg struct {
	seq  int
	plan payoff.Plan
	err  error
}

// resimulate starts a simulation for the current inputs and supersedes any
// still in flight.
func (m *PlanModel) resimulate() tea.Cmd {
	m.seq++
	m.loading = true

	return m.simulateCmd()
}

func (m PlanModel) simulateCmd() tea.Cmd {
	req := m.request()
	seq := m.seq

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
		defer cancel()

		p, err := m.planService.Simulate(ctx, req)

		return planResultMsg{seq: seq, plan: p, err: err}
	}
}

type exportResultMsg struct {
	result export.Result
	dir    string
	err    error
}

func (m PlanModel) exportCmd(dir string) tea.Cmd {
	req := m.request()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
		defer cancel()

		res, err := m.exportService.Export(ctx, req, dir)

		return exportResultMsg{result: res, dir: dir, err: err}
	}
}
