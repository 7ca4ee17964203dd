package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/summit/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/summit/internal/advice"
	"github.com/MrJamesThe3rd/summit/internal/config"
	"github.com/MrJamesThe3rd/summit/internal/debt"
	debtStore "github.com/MrJamesThe3rd/summit/internal/debt/store"
	"github.com/MrJamesThe3rd/summit/internal/export"
	"github.com/MrJamesThe3rd/summit/internal/importer"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
	"github.com/MrJamesThe3rd/summit/internal/plan/cache"
	"github.com/MrJamesThe3rd/summit/internal/render"
)

var sampleDebts = []debt.CreateParams{
	{Name: "Premium Credit Card", Balance: 5000, InterestRate: 22, MinimumPayment: 150},
	{Name: "Car Loan", Balance: 12000, InterestRate: 6.5, MinimumPayment: 320},
}

type model struct {
	debtService   *debt.Service
	importService *importer.Service
	planService   *plan.Service
	exportService *export.Service
	adviceClient  *advice.Client

	strategy payoff.Strategy
	extra    float64
	size     tea.WindowSizeMsg

	currentView View

	debtsView  view.DebtsModel
	importView view.ImportModel
	planView   view.PlanModel
	adviceView view.AdviceModel
}

type View int

const (
	ViewMenu   View = 0
	ViewDebts  View = 1
	ViewImport View = 2
	ViewPlan   View = 3
	ViewAdvice View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	strategy, err := payoff.ParseStrategy(cfg.Plan.Strategy)
	if err != nil {
		slog.Error("invalid default strategy", "error", err)
		os.Exit(1)
	}

	planCache, _, err := cache.Open(context.Background(), cfg.Cache.RedisAddr)
	if err != nil {
		slog.Warn("redis unavailable, caching plans in memory", "error", err)
		planCache = cache.NewMemory()
	}

	debtSvc := debt.NewService(debtStore.New())
	impSvc := importer.NewService()
	planSvc := plan.NewService(debtSvc, planCache, cfg.Cache.TTL, plan.Defaults{
		Strategy:       strategy,
		ExtraPayment:   cfg.Plan.ExtraPayment,
		MaxMonths:      cfg.Plan.MaxMonths,
		Epsilon:        cfg.Plan.Epsilon,
		MaxMonthsLimit: cfg.Plan.MaxMonthsLimit,
	})
	expSvc := export.NewService(planSvc)
	adviceClient := advice.NewClient(cfg.Advice.BaseURL, cfg.Advice.Model, cfg.Advice.APIKey, cfg.Advice.Timeout)

	ctx, cancel := view.DbCtx()
	defer cancel()

	if err := seed(ctx, debtSvc); err != nil {
		slog.Error("failed to seed sample debts", "error", err)
		os.Exit(1)
	}

	return model{
		debtService:   debtSvc,
		importService: impSvc,
		planService:   planSvc,
		exportService: expSvc,
		adviceClient:  adviceClient,
		strategy:      strategy,
		extra:         cfg.Plan.ExtraPayment,
		currentView:   ViewMenu,
		debtsView:     view.NewDebtsModel(debtSvc, strategy),
		importView:    view.NewImportModel(debtSvc, impSvc),
		planView:      view.NewPlanModel(planSvc, expSvc, strategy, cfg.Plan.ExtraPayment),
		adviceView:    view.NewAdviceModel(adviceClient, debtSvc),
	}
}

// seed adds the sample debts when the store is empty.
func seed(ctx context.Context, svc *debt.Service) error {
	existing, err := svc.List(ctx)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		return nil
	}

	_, err = svc.CreateBatch(ctx, sampleDebts)

	return err
}

func (m model) Init() tea.Cmd {
	return nil
}

// resize forwards the last known window size to a freshly built view.
func (m model) resize() tea.Cmd {
	size := m.size
	if size.Width == 0 {
		return nil
	}

	return func() tea.Msg { return size }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDebts
				m.debtsView = view.NewDebtsModel(m.debtService, m.strategy)

				return m, tea.Batch(m.debtsView.Init(), m.resize())
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.debtService, m.importService)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewPlan
				m.planView = view.NewPlanModel(m.planService, m.exportService, m.strategy, m.extra)

				return m, tea.Batch(m.planView.Init(), m.resize())
			case "4":
				m.currentView = ViewAdvice
				m.adviceView = view.NewAdviceModel(m.adviceClient, m.debtService)

				return m, m.adviceView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDebts:
		var newModel tea.Model
		newModel, cmd = m.debtsView.Update(msg)
		m.debtsView = newModel.(view.DebtsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewPlan:
		var newModel tea.Model
		newModel, cmd = m.planView.Update(msg)
		m.planView = newModel.(view.PlanModel)
	case ViewAdvice:
		var newModel tea.Model
		newModel, cmd = m.adviceView.Update(msg)
		m.adviceView = newModel.(view.AdviceModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			render.RenderTitle("Summit") + "\n\n" +
				"1. Debts\n" +
				"2. Import Debts\n" +
				"3. Payoff Plan\n" +
				"4. Advice\n\n" +
				"q. Quit",
		)
	case ViewDebts:
		return m.debtsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewPlan:
		return m.planView.View()
	case ViewAdvice:
		return m.adviceView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
