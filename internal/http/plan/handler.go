package plan

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
)

type Handler struct {
	svc *plan.Service
}

func NewHandler(svc *plan.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.simulate)
	r.Post("/compare", h.compare)
	r.Get("/priority", h.priority)
}

type debtDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Balance        float64   `json:"balance"`
	InterestRate   float64   `json:"interest_rate"`
	MinimumPayment float64   `json:"minimum_payment"`
}

// planRequest omits debts to plan the stored ones.
type planRequest struct {
	Debts        []debtDTO       `json:"debts,omitempty"`
	Strategy     payoff.Strategy `json:"strategy,omitempty"`
	ExtraPayment *float64        `json:"extra_payment,omitempty"`
	Windfall     float64         `json:"windfall,omitempty"`
	MaxMonths    int             `json:"max_months,omitempty"`
	SampleEvery  int             `json:"sample_every,omitempty"`
}

func (req planRequest) toRequest() (plan.Request, error) {
	out := plan.Request{
		Strategy:     req.Strategy,
		ExtraPayment: req.ExtraPayment,
		Windfall:     req.Windfall,
		MaxMonths:    req.MaxMonths,
	}

	if req.Debts == nil {
		return out, nil
	}

	out.Debts = make([]debt.Debt, 0, len(req.Debts))

	for _, d := range req.Debts {
		params := debt.CreateParams{
			Name:           d.Name,
			Balance:        d.Balance,
			InterestRate:   d.InterestRate,
			MinimumPayment: d.MinimumPayment,
		}
		if err := params.Validate(); err != nil {
			return plan.Request{}, err
		}

		id := d.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		out.Debts = append(out.Debts, debt.Debt{
			ID:             id,
			Name:           d.Name,
			Balance:        d.Balance,
			InterestRate:   d.InterestRate,
			MinimumPayment: d.MinimumPayment,
		})
	}

	return out, nil
}

func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pr, err := req.toRequest()
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.svc.Simulate(r.Context(), pr)
	if err != nil {
		writeError(w, err)
		return
	}

	p.Steps = payoff.Sample(p.Steps, req.SampleEvery)

	writeJSON(w, p)
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pr, err := req.toRequest()
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.svc.Compare(r.Context(), pr)
	if err != nil {
		writeError(w, err)
		return
	}

	c.Snowball.Steps = payoff.Sample(c.Snowball.Steps, req.SampleEvery)
	c.Avalanche.Steps = payoff.Sample(c.Avalanche.Steps, req.SampleEvery)

	writeJSON(w, compareResponse{Comparison: c, Cheaper: c.Cheaper()})
}

type compareResponse struct {
	payoff.Comparison
	Cheaper payoff.Strategy `json:"cheaper"`
}

type priorityItem struct {
	Rank int `json:"rank"`
	debtDTO
}

func (h *Handler) priority(w http.ResponseWriter, r *http.Request) {
	var strategy payoff.Strategy

	if s := r.URL.Query().Get("strategy"); s != "" {
		parsed, err := payoff.ParseStrategy(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		strategy = parsed
	}

	ranked, err := h.svc.Priority(r.Context(), strategy)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]priorityItem, len(ranked))
	for i, d := range ranked {
		items[i] = priorityItem{
			Rank: i + 1,
			debtDTO: debtDTO{
				ID:             d.ID,
				Name:           d.Name,
				Balance:        d.Balance,
				InterestRate:   d.InterestRate,
				MinimumPayment: d.MinimumPayment,
			},
		}
	}

	writeJSON(w, items)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, debt.ErrInvalid), errors.Is(err, payoff.ErrUnknownStrategy), errors.Is(err, plan.ErrMonthsTooMany):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, plan.ErrNoDebts):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("failed to plan payoff", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
