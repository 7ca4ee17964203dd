package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/summit/internal/export"
	"github.com/MrJamesThe3rd/summit/internal/payoff"
	"github.com/MrJamesThe3rd/summit/internal/plan"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	Strategy     payoff.Strategy `json:"strategy,omitempty"`
	ExtraPayment *float64        `json:"extra_payment,omitempty"`
	Windfall     float64         `json:"windfall,omitempty"`
	MaxMonths    int             `json:"max_months,omitempty"`
}

func (req exportRequest) toRequest() plan.Request {
	return plan.Request{
		Strategy:     req.Strategy,
		ExtraPayment: req.ExtraPayment,
		Windfall:     req.Windfall,
		MaxMonths:    req.MaxMonths,
	}
}

type exportMetadataResponse struct {
	Summary payoff.Summary `json:"summary"`
	Files   []string       `json:"files"`
	Text    string         `json:"text"`
}

func decode(r *http.Request) (exportRequest, error) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return exportRequest{}, err
	}

	return req, nil
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) (string, export.Result, bool) {
	req, err := decode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", export.Result{}, false
	}

	tmpDir, err := os.MkdirTemp("", "summit-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return "", export.Result{}, false
	}

	res, err := h.svc.Export(r.Context(), req.toRequest(), tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)

		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, plan.ErrMonthsTooMany):
			status = http.StatusBadRequest
		case errors.Is(err, plan.ErrNoDebts), errors.Is(err, payoff.ErrUnknownStrategy):
			status = http.StatusUnprocessableEntity
		}

		http.Error(w, err.Error(), status)

		return "", export.Result{}, false
	}

	return tmpDir, res, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	tmpDir, res, ok := h.run(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	files := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, filepath.Base(f))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(exportMetadataResponse{
		Summary: res.Plan.Summary,
		Files:   files,
		Text:    export.GenerateSummary(res.Plan),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, res, ok := h.run(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"payoff_%s_%s.zip\"", res.Plan.Summary.Strategy, time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	for _, path := range res.Files {
		if err := addFile(zipWriter, path); err != nil {
			slog.Error("failed to create zip", "error", err)
			return
		}
	}
}

func addFile(zw *zip.Writer, path string) error {
	zf, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(zf, f)

	return err
}
