package notifiermock

import (
	"context"

	"egsa-loan-service/internal/domain/notification"
)

// Notifier records every notice and returns Err (if set) from each call.
type Notifier struct {
	Err     error
	Notices []notification.StatusNotice
}

func (n *Notifier) NotifyStatusChange(_ context.Context, notice notification.StatusNotice) error {
	n.Notices = append(n.Notices, notice)
	return n.Err
}
