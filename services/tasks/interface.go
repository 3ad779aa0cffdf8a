package tasks

import (
	"context"

	"citaflow/models"
)

// ReminderScheduler enqueues a reminder to be delivered some time
// before an appointment starts.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error
	CancelReminder(ctx context.Context, appointmentID string) error
}
