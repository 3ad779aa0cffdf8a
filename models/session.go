package models

import "time"

// SessionState identifies the stage of a contact's scheduling conversation.
type SessionState string

const (
	StateIdle                SessionState = "idle"
	StateCollectingStudentID SessionState = "collecting_student_id"
	StateCollectingTeacher   SessionState = "collecting_teacher"
	StateCollectingModality  SessionState = "collecting_modality"
	StateCollectingDate      SessionState = "collecting_date"
	StateCollectingTime      SessionState = "collecting_time"
	StateCollectingFormField SessionState = "collecting_form_field"
	StateAwaitingCancelID    SessionState = "awaiting_cancel_id"
	StateSelectingCancel     SessionState = "selecting_appointment_to_cancel"
)

// Session holds the per-contact conversation state between turns.
// The dialogue engine is its only writer; the store just persists it.
type Session struct {
	State        SessionState     `json:"state"`
	Draft        AppointmentDraft `json:"draft"`
	Cancel       CancelSelection  `json:"cancel"`
	LastActivity time.Time        `json:"lastActivity"`
}

// IdleSession returns a clean session. Every reset path goes through it
// so no partial draft survives into an unrelated conversation.
func IdleSession() Session {
	return Session{State: StateIdle, LastActivity: time.Now()}
}

// AppointmentDraft accumulates the booking in progress. Fields are
// filled phase by phase; earlier phases never read later fields.
type AppointmentDraft struct {
	StudentID   string       `json:"studentId,omitempty"`
	StudentName string       `json:"studentName,omitempty"`
	Grade       string       `json:"grade,omitempty"`
	Course      string       `json:"course,omitempty"`
	Teachers    []TeacherRef `json:"teachers,omitempty"`

	TeacherName string   `json:"teacherName,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	CalendarID  string   `json:"calendarId,omitempty"`
	MeetLink    string   `json:"meetLink,omitempty"`
	Modalities  []string `json:"modalities,omitempty"`
	Modality    string   `json:"modality,omitempty"`

	AvailableDates []AvailableDate `json:"availableDates,omitempty"`
	SelectedDate   string          `json:"selectedDate,omitempty"`
	SelectedLabel  string          `json:"selectedLabel,omitempty"`
	Time           string          `json:"time,omitempty"`
	DurationMins   int             `json:"durationMinutes,omitempty"`

	FormFields []FormField       `json:"formFields,omitempty"`
	FieldIndex int               `json:"fieldIndex,omitempty"`
	Answers    map[string]string `json:"answers,omitempty"`

	Attempts int `json:"attempts,omitempty"`
}

// CancelSelection snapshots the appointments offered for cancellation
// while the contact picks one (or all).
type CancelSelection struct {
	StudentID    string        `json:"studentId,omitempty"`
	Appointments []Appointment `json:"appointments,omitempty"`
}
