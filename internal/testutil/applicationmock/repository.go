package applicationmock

import (
	"context"

	domain "egsa-loan-service/internal/domain/application"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset functions fall back to harmless defaults.
type Repo struct {
	CreateFn       func(ctx context.Context, a *domain.Application) error
	ListFn         func(ctx context.Context, filter domain.StatusFilter) ([]domain.Application, error)
	GetByIDFn      func(ctx context.Context, id uint64) (*domain.Application, error)
	SetStatusFn    func(ctx context.Context, id uint64, status domain.Status, comment string) error
	MarkNotifiedFn func(ctx context.Context, id uint64) error
	DeleteFn       func(ctx context.Context, id uint64) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, filter domain.StatusFilter) ([]domain.Application, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SetStatus(ctx context.Context, id uint64, status domain.Status, comment string) error {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, id, status, comment)
	}
	return nil
}

func (m *Repo) MarkNotified(ctx context.Context, id uint64) error {
	if m.MarkNotifiedFn != nil {
		return m.MarkNotifiedFn(ctx, id)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
