package models

// ReminderPayload is the asynq task body for an appointment reminder.
type ReminderPayload struct {
	ReminderID    string `json:"reminderId"`
	AppointmentID string `json:"appointmentId"`
	Contact       string `json:"contact"`
	StudentName   string `json:"studentName"`
	TeacherLabel  string `json:"teacherLabel"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
