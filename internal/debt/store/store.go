package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/summit/internal/debt"
)

// Store keeps debts in process memory. Records are copied in and out so
// callers never share state with the store.
type Store struct {
	mu    sync.RWMutex
	debts map[uuid.UUID]*debt.Debt
	order []uuid.UUID
	now   func() time.Time
}

func New() *Store {
	return &Store{
		debts: make(map[uuid.UUID]*debt.Debt),
		now:   time.Now,
	}
}

func (s *Store) CreateDebt(_ context.Context, d *debt.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = uuid.New()
	d.CreatedAt = s.now()

	stored := *d
	s.debts[d.ID] = &stored
	s.order = append(s.order, d.ID)

	return nil
}

func (s *Store) GetDebt(_ context.Context, id uuid.UUID) (*debt.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.debts[id]
	if !ok {
		return nil, debt.ErrNotFound
	}

	out := *d

	return &out, nil
}

func (s *Store) ListDebts(_ context.Context) ([]*debt.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*debt.Debt, 0, len(s.order))

	for _, id := range s.order {
		d := *s.debts[id]
		out = append(out, &d)
	}

	return out, nil
}

func (s *Store) UpdateDebt(_ context.Context, d *debt.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.debts[d.ID]
	if !ok {
		return debt.ErrNotFound
	}

	d.CreatedAt = existing.CreatedAt

	updated := *d
	s.debts[d.ID] = &updated

	return nil
}

func (s *Store) DeleteDebt(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debts[id]; !ok {
		return debt.ErrNotFound
	}

	delete(s.debts, id)

	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}
