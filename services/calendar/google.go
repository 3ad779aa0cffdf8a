package calendar

import (
	"context"
	"fmt"
	"time"

	"citaflow/config"
	"citaflow/database"
	"citaflow/models"
	"citaflow/utils"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
)

type googleCalendarGateway struct {
	svc               *gcal.Service
	defaultCalendarID string
}

// NewGoogleCalendarGateway returns a CalendarGateway backed by the
// shared Google Calendar client.
func NewGoogleCalendarGateway() CalendarGateway {
	return &googleCalendarGateway{
		svc:               database.CalendarService,
		defaultCalendarID: config.AppConfig.CalendarID,
	}
}

func (g *googleCalendarGateway) calendarOrDefault(calendarID string) string {
	if calendarID == "" {
		return g.defaultCalendarID
	}
	return calendarID
}

func (g *googleCalendarGateway) BusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]models.BusyInterval, error) {
	calID := g.calendarOrDefault(calendarID)
	resp, err := g.svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: calID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}
	cal, ok := resp.Calendars[calID]
	if !ok {
		return nil, nil
	}
	var busy []models.BusyInterval
	for _, period := range cal.Busy {
		start, err1 := time.Parse(time.RFC3339, period.Start)
		end, err2 := time.Parse(time.RFC3339, period.End)
		if err1 != nil || err2 != nil {
			continue
		}
		busy = append(busy, models.BusyInterval{Start: start, End: end})
	}
	return busy, nil
}

func (g *googleCalendarGateway) CreateEvent(ctx context.Context, contact, calendarID string, start, end time.Time, summary, description string) (string, error) {
	event := &gcal.Event{
		Summary:     summary,
		Description: fmt.Sprintf("Cita con %s. %s", contact, description),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: config.AppConfig.Timezone},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: config.AppConfig.Timezone},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{"contact": contact},
		},
	}
	created, err := g.svc.Events.Insert(g.calendarOrDefault(calendarID), event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return created.Id, nil
}

func (g *googleCalendarGateway) DeleteEvent(ctx context.Context, eventID, calendarID string) bool {
	if err := g.svc.Events.Delete(g.calendarOrDefault(calendarID), eventID).Context(ctx).Do(); err != nil {
		utils.GetLogger().Warn("failed to delete calendar event",
			zap.String("eventId", eventID), zap.Error(err))
		return false
	}
	return true
}
