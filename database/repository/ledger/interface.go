package ledgerRepo

import (
	"context"

	"citaflow/models"
)

// AppointmentRepository is the durable booking ledger. Rows are
// appended once per completed booking and only their status changes
// afterwards; nothing is ever deleted.
type AppointmentRepository interface {
	// Append writes a new ledger row and returns the allocated id.
	// The form fields fix the order of the dynamic answer columns.
	Append(ctx context.Context, appt models.Appointment, fields []models.FormField) (string, error)
	// GetByContact returns the contact's confirmed and rescheduled
	// appointments, oldest first.
	GetByContact(ctx context.Context, contact string) ([]models.Appointment, error)
	// SetStatus updates exactly one row's status. Returns false when
	// the id is unknown.
	SetStatus(ctx context.Context, id string, status models.AppointmentStatus) (bool, error)
}

// OutboxRepository is the scheduled send queue consumed by the
// dispatcher.
type OutboxRepository interface {
	GetMessages(ctx context.Context) ([]models.OutboxMessage, error)
	// SetStatus updates the status cell of a single queue row.
	SetStatus(ctx context.Context, row int, status string) error
}
