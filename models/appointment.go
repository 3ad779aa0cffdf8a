package models

// AppointmentStatus values match the ledger sheet verbatim.
type AppointmentStatus string

const (
	StatusConfirmed   AppointmentStatus = "Confirmada"
	StatusCancelled   AppointmentStatus = "Cancelada"
	StatusRescheduled AppointmentStatus = "Reprogramada"
)

// Appointment is a persisted ledger row. Rows are appended once and
// only ever mutated to change Status.
type Appointment struct {
	ID           string            `json:"id"`
	CreatedAt    string            `json:"createdAt"`
	Contact      string            `json:"contact"`
	StudentName  string            `json:"studentName"`
	StudentID    string            `json:"studentId"`
	TeacherLabel string            `json:"teacherLabel"` // "Name (Subject)"
	Date         string            `json:"date"`         // YYYY-MM-DD
	Time         string            `json:"time"`         // HH:MM
	Status       AppointmentStatus `json:"status"`
	EventID      string            `json:"eventId,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
}
