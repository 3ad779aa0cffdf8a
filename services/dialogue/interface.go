package dialogue

import (
	"context"
	"time"

	directoryRepo "citaflow/database/repository/directory"
	ledgerRepo "citaflow/database/repository/ledger"
	sessionRepo "citaflow/database/repository/session"
	"citaflow/services/calendar"
	"citaflow/services/tasks"
)

// DialogueService drives the per-contact appointment conversation.
// One invocation handles exactly one inbound message; the surrounding
// transport is expected to serialize turns per contact.
type DialogueService interface {
	// HandleTurn advances a contact's active flow with their message.
	// ok is false when the contact has no active flow, in which case
	// the caller decides how to open one (or answer some other way).
	HandleTurn(ctx context.Context, contact, text string) (reply string, ok bool, err error)

	// BeginBooking starts the scheduling flow for an idle contact.
	BeginBooking(ctx context.Context, contact string) (string, error)
	// BeginCancellation starts the cancellation flow.
	BeginCancellation(ctx context.Context, contact string) (string, error)
	// ListAppointments answers a "mis citas" query without touching
	// flow state.
	ListAppointments(ctx context.Context, contact string) (string, error)
	// Reschedule marks an appointment for rebooking by ledger id.
	Reschedule(ctx context.Context, contact, text string) (string, error)
}

// DefaultDialogueService implements DialogueService.
type DefaultDialogueService struct {
	Directory directoryRepo.DirectoryRepository
	Ledger    ledgerRepo.AppointmentRepository
	Sessions  sessionRepo.SessionRepository
	Calendar  calendar.CalendarGateway
	Reminders tasks.ReminderScheduler // optional

	MaxAttempts    int
	SessionTimeout time.Duration
	WeeksAhead     int
	Location       *time.Location

	// Clock is overridable in tests; nil means time.Now.
	Clock func() time.Time
}

func (s *DefaultDialogueService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().In(s.loc())
	}
	return time.Now().In(s.loc())
}

func (s *DefaultDialogueService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *DefaultDialogueService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return 3
}

func (s *DefaultDialogueService) sessionTimeout() time.Duration {
	if s.SessionTimeout > 0 {
		return s.SessionTimeout
	}
	return 30 * time.Minute
}

func (s *DefaultDialogueService) weeksAhead() int {
	if s.WeeksAhead > 0 {
		return s.WeeksAhead
	}
	return 4
}
