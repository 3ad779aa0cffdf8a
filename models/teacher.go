package models

// Teacher is a bookable provider: a directory record pairing identity
// with a calendar resource and configured availability.
type Teacher struct {
	Name         string   `json:"name"`
	CalendarID   string   `json:"calendarId"`
	Subject      string   `json:"subject"`
	Modalities   []string `json:"modalities"`
	Weekdays     []string `json:"weekdays"`
	Hours        []string `json:"hours"` // "HH:MM" entries or "HH:MM-HH:MM" ranges
	DurationMins int      `json:"durationMinutes"`
	MeetLink     string   `json:"meetLink"`
}
