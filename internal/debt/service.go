package debt

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=debt
type Repository interface {
	CreateDebt(ctx context.Context, d *Debt) error
	GetDebt(ctx context.Context, id uuid.UUID) (*Debt, error)
	ListDebts(ctx context.Context) ([]*Debt, error)
	UpdateDebt(ctx context.Context, d *Debt) error
	DeleteDebt(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Debt, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	d := paramsToDebt(params)
	if err := s.repo.CreateDebt(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// CreateBatch validates every param before storing any of them, so a bad row
// leaves the repository untouched.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Debt, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("debt %d: %w", i+1, err)
		}
	}

	ds := make([]*Debt, 0, len(params))

	for _, p := range params {
		d := paramsToDebt(p)
		if err := s.repo.CreateDebt(ctx, d); err != nil {
			return nil, fmt.Errorf("create debt %q: %w", p.Name, err)
		}

		ds = append(ds, d)
	}

	return ds, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Debt, error) {
	return s.repo.GetDebt(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Debt, error) {
	return s.repo.ListDebts(ctx)
}

func (s *Service) Update(ctx context.Context, d *Debt) error {
	params := CreateParams{
		Name:           d.Name,
		Balance:        d.Balance,
		InterestRate:   d.InterestRate,
		MinimumPayment: d.MinimumPayment,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	return s.repo.UpdateDebt(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDebt(ctx, id)
}

func paramsToDebt(p CreateParams) *Debt {
	return &Debt{
		Name:           p.Name,
		Balance:        p.Balance,
		InterestRate:   p.InterestRate,
		MinimumPayment: p.MinimumPayment,
	}
}
