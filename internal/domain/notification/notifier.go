package notification

import (
	"context"

	"egsa-loan-service/internal/domain/application"
)

// StatusNotice carries everything a channel needs to reach the
// guarantor after a decision on an application.
type StatusNotice struct {
	ApplicationID  uint64
	Reference      string
	ApplicantName  string
	GuarantorName  string
	GuarantorPhone string
	Status         application.Status
	Comment        string
}

// Notifier delivers a status-change notice over an external channel
// (email/SMS). Implementations must be safe to fail: the lifecycle
// never rolls back a decision because delivery did not go through.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, n StatusNotice) error
}
