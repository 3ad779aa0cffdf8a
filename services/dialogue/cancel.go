package dialogue

import (
	"context"
	"strconv"
	"strings"

	"citaflow/models"
	"citaflow/utils"

	"go.uber.org/zap"
)

func (s *DefaultDialogueService) handleCancelID(ctx context.Context, contact string, session *models.Session, text string) (string, error) {
	folded := utils.FoldText(text)
	if strings.Contains(folded, "mis citas") || strings.Contains(folded, "ver citas") {
		session.State = models.StateIdle
		return s.ListAppointments(ctx, contact)
	}

	id := utils.DigitsOnly(text)
	if len(id) < 3 {
		return msgAskCancelID, nil
	}

	all, err := s.Ledger.GetByContact(ctx, contact)
	if err != nil {
		return "", NewCollaboratorError("appointment lookup failed", err)
	}
	var matched []models.Appointment
	for _, a := range all {
		if a.StudentID == id {
			matched = append(matched, a)
		}
	}
	if len(matched) == 0 {
		return msgCancelNotFound(id), nil
	}
	if len(matched) == 1 {
		reply, cerr := s.cancelAppointment(ctx, matched[0])
		session.State = models.StateIdle
		return reply, cerr
	}

	session.Cancel = models.CancelSelection{StudentID: id, Appointments: matched}
	session.State = models.StateSelectingCancel
	return msgCancelList(matched), nil
}

func (s *DefaultDialogueService) handleCancelSelection(ctx context.Context, session *models.Session, text string) (string, error) {
	appts := session.Cancel.Appointments
	folded := utils.FoldText(text)

	if folded == "todas" || folded == "todos" {
		cancelled := 0
		for _, a := range appts {
			if _, err := s.cancelAppointment(ctx, a); err == nil {
				cancelled++
			}
		}
		session.State = models.StateIdle
		return msgCancelledAll(cancelled), nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > len(appts) {
		return msgCancelInvalidSelection(len(appts)), nil
	}
	reply, cerr := s.cancelAppointment(ctx, appts[n-1])
	session.State = models.StateIdle
	return reply, cerr
}

// cancelAppointment removes the calendar event best-effort, then marks
// the ledger row. The calendar for the event is resolved through the
// teacher's directory entry via the label's leading name segment.
func (s *DefaultDialogueService) cancelAppointment(ctx context.Context, appt models.Appointment) (string, error) {
	logger := utils.GetLogger().With(zap.String("appointmentId", appt.ID))

	if appt.EventID != "" {
		calendarID := s.calendarForLabel(ctx, appt.TeacherLabel)
		if !s.Calendar.DeleteEvent(ctx, appt.EventID, calendarID) {
			logger.Warn("calendar event not removed, ledger update proceeds",
				zap.String("eventId", appt.EventID))
		}
	}

	updated, err := s.Ledger.SetStatus(ctx, appt.ID, models.StatusCancelled)
	if err != nil {
		return "", NewCollaboratorError("failed to update appointment status", err)
	}
	if !updated {
		logger.Warn("appointment id not found in ledger during cancellation")
	}
	if s.Reminders != nil {
		if rerr := s.Reminders.CancelReminder(ctx, appt.ID); rerr != nil {
			logger.Warn("failed to drop reminder", zap.Error(rerr))
		}
	}
	return msgCancelledOne(appt), nil
}

// calendarForLabel looks up the calendar for a "Name (Subject)" label.
// Empty means the gateway falls back to the institution calendar.
func (s *DefaultDialogueService) calendarForLabel(ctx context.Context, label string) string {
	name := label
	if i := strings.Index(label, "("); i >= 0 {
		name = label[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	teacher, err := s.Directory.GetTeacherByName(ctx, name)
	if err != nil || teacher == nil {
		return ""
	}
	return teacher.CalendarID
}

func (s *DefaultDialogueService) ListAppointments(ctx context.Context, contact string) (string, error) {
	appts, err := s.Ledger.GetByContact(ctx, contact)
	if err != nil {
		return "", NewCollaboratorError("appointment lookup failed", err)
	}
	if len(appts) == 0 {
		return msgNoAppointments(), nil
	}
	return msgAppointmentList(appts), nil
}

func (s *DefaultDialogueService) Reschedule(ctx context.Context, contact, text string) (string, error) {
	id := utils.DigitsOnly(text)
	appts, err := s.Ledger.GetByContact(ctx, contact)
	if err != nil {
		return "", NewCollaboratorError("appointment lookup failed", err)
	}
	for _, a := range appts {
		if id != "" && a.ID == id {
			if a.EventID != "" {
				s.Calendar.DeleteEvent(ctx, a.EventID, s.calendarForLabel(ctx, a.TeacherLabel))
			}
			if _, serr := s.Ledger.SetStatus(ctx, a.ID, models.StatusRescheduled); serr != nil {
				return "", NewCollaboratorError("failed to mark appointment for rescheduling", serr)
			}
			if s.Reminders != nil {
				if rerr := s.Reminders.CancelReminder(ctx, a.ID); rerr != nil {
					utils.GetLogger().Warn("failed to drop reminder", zap.String("appointmentId", a.ID), zap.Error(rerr))
				}
			}
			return msgRescheduled(a), nil
		}
	}
	return msgRescheduleNotFound(), nil
}
