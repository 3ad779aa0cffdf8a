package models

import "time"

// AvailableDate is a concrete candidate date offered to the contact.
type AvailableDate struct {
	Date    string `json:"date"`    // YYYY-MM-DD
	Display string `json:"display"` // "Lunes 9 Dic"
	Weekday string `json:"weekday"`
	Day     int    `json:"day"`
	Month   string `json:"month"`
}

// BusyInterval is an occupied range reported by the calendar.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
