package calendar

import (
	"context"
	"time"

	"citaflow/models"
)

// CalendarGateway is the booking side of the teachers' calendars:
// busy-interval queries plus event creation and best-effort deletion.
type CalendarGateway interface {
	BusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]models.BusyInterval, error)
	CreateEvent(ctx context.Context, contact, calendarID string, start, end time.Time, summary, description string) (string, error)
	// DeleteEvent reports whether the event was removed. A false return
	// is not fatal to callers; ledger updates proceed regardless.
	DeleteEvent(ctx context.Context, eventID, calendarID string) bool
}
