package advice

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/summit/internal/advice"
	"github.com/MrJamesThe3rd/summit/internal/debt"
)

type Handler struct {
	client  *advice.Client
	debtSvc *debt.Service
}

func NewHandler(client *advice.Client, debtSvc *debt.Service) *Handler {
	return &Handler{client: client, debtSvc: debtSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.advise)
}

type adviceRequest struct {
	MonthlyIncome float64 `json:"monthly_income"`
	TotalPaid     float64 `json:"total_paid"`
}

type adviceResponse struct {
	advice.Message
	DebtToIncome *float64 `json:"debt_to_income,omitempty"`
}

func (h *Handler) advise(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := h.debtSvc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	snapshot := advice.Snapshot{
		Debts:         debt.Values(stored),
		TotalPaid:     req.TotalPaid,
		MonthlyIncome: req.MonthlyIncome,
	}

	resp := adviceResponse{Message: h.client.Advise(r.Context(), snapshot)}

	if ratio, ok := debt.DebtToIncome(snapshot.Debts, snapshot.MonthlyIncome); ok {
		resp.DebtToIncome = new(ratio)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
