package applicationmock

import (
	"context"
	"sort"
	"time"

	domain "egsa-loan-service/internal/domain/application"
)

// Memory is a map-backed Repository for usecase tests that need real
// read-after-write behavior without a database.
type Memory struct {
	nextID uint64
	rows   map[uint64]domain.Application
}

func NewMemory() *Memory {
	return &Memory{rows: make(map[uint64]domain.Application)}
}

func (m *Memory) Create(_ context.Context, a *domain.Application) error {
	m.nextID++
	a.ID = m.nextID
	a.Status = domain.StatusPending
	a.AdminComment = ""
	a.Notified = false
	if a.SubmittedDate.IsZero() {
		a.SubmittedDate = time.Now().UTC()
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *Memory) List(_ context.Context, filter domain.StatusFilter) ([]domain.Application, error) {
	var out []domain.Application
	for _, a := range m.rows {
		if filter == domain.FilterAll || string(a.Status) == string(filter) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedDate.Equal(out[j].SubmittedDate) {
			return out[i].SubmittedDate.After(out[j].SubmittedDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) GetByID(_ context.Context, id uint64) (*domain.Application, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) SetStatus(_ context.Context, id uint64, status domain.Status, comment string) error {
	if !status.Decided() {
		return domain.ErrInvalidStatus
	}
	a, ok := m.rows[id]
	if !ok {
		return nil // silent no-op, like the store
	}
	a.Status = status
	a.AdminComment = comment
	a.Notified = false
	m.rows[id] = a
	return nil
}

func (m *Memory) MarkNotified(_ context.Context, id uint64) error {
	a, ok := m.rows[id]
	if !ok {
		return nil
	}
	a.Notified = true
	m.rows[id] = a
	return nil
}

func (m *Memory) Delete(_ context.Context, id uint64) error {
	delete(m.rows, id)
	return nil
}
