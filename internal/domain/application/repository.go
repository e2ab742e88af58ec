package application

import "context"

type Repository interface {
	// Create persists a new application. Identity and intake defaults
	// (Pending status, empty comment, notified=false) are forced here.
	Create(ctx context.Context, a *Application) error

	// List returns applications matching the filter, most recent first.
	List(ctx context.Context, filter StatusFilter) ([]Application, error)

	// GetByID returns ErrNotFound when the id does not exist.
	GetByID(ctx context.Context, id uint64) (*Application, error)

	// SetStatus updates status and admin comment and resets the notified
	// flag. A missing id is a silent no-op.
	SetStatus(ctx context.Context, id uint64, status Status, comment string) error

	// MarkNotified flips the notified flag on. Missing id is a no-op.
	MarkNotified(ctx context.Context, id uint64) error

	// Delete removes the row permanently. Idempotent.
	Delete(ctx context.Context, id uint64) error
}
