package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/summit/internal/debt"
	"github.com/MrJamesThe3rd/summit/internal/importer"
	"github.com/MrJamesThe3rd/summit/internal/importer/spreadsheet"
	"github.com/MrJamesThe3rd/summit/internal/metrics"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	debtSvc   *debt.Service
}

func NewHandler(importSvc *importer.Service, debtSvc *debt.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		debtSvc:   debtSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Get("/template", h.template)
}

type debtResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Balance        float64   `json:"balance"`
	InterestRate   float64   `json:"interest_rate"`
	MinimumPayment float64   `json:"minimum_payment"`
	CreatedAt      time.Time `json:"created_at"`
}

type importSuccessResponse struct {
	Imported int            `json:"imported"`
	Debts    []debtResponse `json:"debts"`
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := r.FormValue("format")
	if name == "" {
		name = filepath.Ext(header.Filename)
	}

	format, err := importer.ParseFormat(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrMissingColumns) || errors.Is(err, spreadsheet.ErrNoDebts) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	ds, err := h.debtSvc.CreateBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.DebtsImported.WithLabelValues(string(format)).Add(float64(len(ds)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(ds)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) template(w http.ResponseWriter, r *http.Request) {
	format, err := importer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := h.importSvc.Template(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="debt_template.csv"`)

	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write template", "error", err)
	}
}

func toSuccessResponse(ds []*debt.Debt) importSuccessResponse {
	responses := make([]debtResponse, 0, len(ds))
	for _, d := range ds {
		responses = append(responses, debtResponse{
			ID:             d.ID,
			Name:           d.Name,
			Balance:        d.Balance,
			InterestRate:   d.InterestRate,
			MinimumPayment: d.MinimumPayment,
			CreatedAt:      d.CreatedAt,
		})
	}

	return importSuccessResponse{
		Imported: len(ds),
		Debts:    responses,
	}
}
