package debt

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/summit/internal/debt"
)

type debtResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Balance        float64   `json:"balance"`
	InterestRate   float64   `json:"interest_rate"`
	MinimumPayment float64   `json:"minimum_payment"`
	CreatedAt      time.Time `json:"created_at"`
}

func toResponse(d *debt.Debt) debtResponse {
	return debtResponse{
		ID:             d.ID,
		Name:           d.Name,
		Balance:        d.Balance,
		InterestRate:   d.InterestRate,
		MinimumPayment: d.MinimumPayment,
		CreatedAt:      d.CreatedAt,
	}
}

func toResponseList(ds []*debt.Debt) []debtResponse {
	resp := make([]debtResponse, len(ds))
	for i, d := range ds {
		resp[i] = toResponse(d)
	}

	return resp
}
