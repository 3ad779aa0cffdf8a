package database

import (
	"context"
	"log"

	"citaflow/config"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	// SheetsService is the shared Google Sheets client.
	SheetsService *sheets.Service
	// CalendarService is the shared Google Calendar client.
	CalendarService *calendar.Service
)

// InitGoogle initializes the Sheets and Calendar clients from the
// configured service-account credentials file.
func InitGoogle() {
	ctx := context.Background()
	creds := option.WithCredentialsFile(config.AppConfig.GoogleCredentialsFile)

	sheetsSvc, err := sheets.NewService(ctx, creds,
		option.WithScopes(sheets.SpreadsheetsScope, calendar.CalendarScope))
	if err != nil {
		log.Fatalf("Failed to initialize Google Sheets client: %v", err)
	}
	SheetsService = sheetsSvc

	calendarSvc, err := calendar.NewService(ctx, creds,
		option.WithScopes(calendar.CalendarScope))
	if err != nil {
		log.Fatalf("Failed to initialize Google Calendar client: %v", err)
	}
	CalendarService = calendarSvc
}
