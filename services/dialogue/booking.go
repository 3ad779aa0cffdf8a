package dialogue

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"citaflow/models"
	"citaflow/services/schedule"
	"citaflow/utils"

	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (s *DefaultDialogueService) handleStudentID(ctx context.Context, session *models.Session, text string) (string, error) {
	id := utils.DigitsOnly(text)
	student, err := s.Directory.GetStudentByID(ctx, id)
	if err != nil {
		return "", NewCollaboratorError("student lookup failed", err)
	}
	if student == nil {
		session.Draft.Attempts++
		if session.Draft.Attempts >= s.maxAttempts() {
			session.State = models.StateIdle
			return msgRetryExceeded(), nil
		}
		return msgStudentNotFound(session.Draft.Attempts, s.maxAttempts()), nil
	}
	if len(student.Teachers) == 0 {
		session.State = models.StateIdle
		return msgNoTeachers(student.Name), nil
	}

	session.Draft = models.AppointmentDraft{
		StudentID:   student.ID,
		StudentName: student.Name,
		Grade:       student.Grade,
		Course:      student.Course,
		Teachers:    student.Teachers,
	}
	session.State = models.StateCollectingTeacher
	return msgTeacherList(*student), nil
}

func (s *DefaultDialogueService) handleTeacher(ctx context.Context, session *models.Session, text string) (string, error) {
	names := make([]string, len(session.Draft.Teachers))
	for i, t := range session.Draft.Teachers {
		names[i] = t.Name
	}
	idx := ResolveChoice(names, text)
	if idx < 0 {
		session.Draft.Attempts++
		if session.Draft.Attempts >= s.maxAttempts() {
			session.State = models.StateIdle
			return msgRetryExceeded(), nil
		}
		return msgTeacherRetry(session.Draft.Attempts, s.maxAttempts(), session.Draft.Teachers), nil
	}

	ref := session.Draft.Teachers[idx]
	teacher, err := s.Directory.GetTeacherByName(ctx, ref.Name)
	if err != nil {
		return "", NewCollaboratorError("teacher lookup failed", err)
	}
	if teacher == nil || teacher.CalendarID == "" || len(teacher.Modalities) == 0 {
		session.State = models.StateIdle
		return msgTeacherMisconfigured(ref.Name), nil
	}

	session.Draft.TeacherName = teacher.Name
	session.Draft.Subject = ref.Subject
	session.Draft.CalendarID = teacher.CalendarID
	session.Draft.MeetLink = teacher.MeetLink
	session.Draft.Modalities = teacher.Modalities
	session.Draft.DurationMins = teacher.DurationMins
	session.Draft.Attempts = 0

	if len(teacher.Modalities) == 1 {
		session.Draft.Modality = teacher.Modalities[0]
		return s.offerDates(session, teacher.Weekdays)
	}
	session.State = models.StateCollectingModality
	return msgModalityPrompt(teacher.Name, teacher.Modalities), nil
}

func (s *DefaultDialogueService) handleModality(ctx context.Context, session *models.Session, text string) (string, error) {
	idx := ResolveChoice(session.Draft.Modalities, text)
	if idx < 0 {
		session.Draft.Attempts++
		if session.Draft.Attempts >= s.maxAttempts() {
			session.State = models.StateIdle
			return msgRetryExceeded(), nil
		}
		return msgModalityRetry(session.Draft.Attempts, s.maxAttempts(), session.Draft.Modalities), nil
	}
	session.Draft.Modality = session.Draft.Modalities[idx]
	session.Draft.Attempts = 0

	teacher, err := s.Directory.GetTeacherByName(ctx, session.Draft.TeacherName)
	if err != nil {
		return "", NewCollaboratorError("teacher lookup failed", err)
	}
	if teacher == nil {
		session.State = models.StateIdle
		return msgTeacherMisconfigured(session.Draft.TeacherName), nil
	}
	return s.offerDates(session, teacher.Weekdays)
}

// offerDates moves the flow to date selection, or aborts when the
// teacher's configured weekdays produce no candidates.
func (s *DefaultDialogueService) offerDates(session *models.Session, weekdays []string) (string, error) {
	dates := schedule.UpcomingDates(weekdays, s.weeksAhead(), s.now())
	if len(dates) == 0 {
		session.State = models.StateIdle
		return msgNoDates(session.Draft.TeacherName), nil
	}
	session.Draft.AvailableDates = dates
	session.State = models.StateCollectingDate
	return msgDates(session.Draft.TeacherName, session.Draft.Modality, dates), nil
}

func (s *DefaultDialogueService) handleDate(ctx context.Context, session *models.Session, text string) (string, error) {
	date := schedule.FindDateByText(session.Draft.AvailableDates, text)
	if date == nil {
		session.Draft.Attempts++
		if session.Draft.Attempts >= s.maxAttempts() {
			session.State = models.StateIdle
			return msgRetryExceeded(), nil
		}
		return msgDateRetry(session.Draft.Attempts, s.maxAttempts(), session.Draft.AvailableDates), nil
	}

	slots, err := s.availableSlots(ctx, session.Draft, date.Date)
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		// Stay on date selection without burning an attempt; the contact
		// just picks another date from the same list.
		return msgNoSlots(date.Display), nil
	}

	session.Draft.SelectedDate = date.Date
	session.Draft.SelectedLabel = date.Display
	session.Draft.Attempts = 0
	session.State = models.StateCollectingTime
	return msgSlots(date.Display, slots, session.Draft.DurationMins), nil
}

func (s *DefaultDialogueService) handleTime(ctx context.Context, contact string, session *models.Session, text string) (string, error) {
	slots, err := s.availableSlots(ctx, session.Draft, session.Draft.SelectedDate)
	if err != nil {
		return "", err
	}

	clock, parsed := ParseLooseTime(text, slots)
	if !parsed {
		return msgInvalidTimeFormat, nil
	}
	hour := strings.SplitN(clock, ":", 2)[0]
	if !anySlotHasHour(slots, hour) {
		session.Draft.Attempts++
		if session.Draft.Attempts >= s.maxAttempts() {
			session.State = models.StateIdle
			return msgRetryExceeded(), nil
		}
		return msgTimeRetry(clock, session.Draft.Attempts, s.maxAttempts(), slots), nil
	}

	session.Draft.Time = clock
	session.Draft.Attempts = 0

	fields, err := s.Directory.GetFormFields(ctx)
	if err != nil {
		return "", NewCollaboratorError("form fields lookup failed", err)
	}
	if len(fields) == 0 {
		return s.complete(ctx, contact, session)
	}
	session.Draft.FormFields = fields
	session.Draft.FieldIndex = 0
	session.Draft.Answers = make(map[string]string, len(fields))
	session.State = models.StateCollectingFormField
	return fields[0].Question, nil
}

func (s *DefaultDialogueService) handleFormField(ctx context.Context, contact string, session *models.Session, text string) (string, error) {
	if session.Draft.FieldIndex >= len(session.Draft.FormFields) {
		return s.complete(ctx, contact, session)
	}
	field := session.Draft.FormFields[session.Draft.FieldIndex]
	answer := strings.TrimSpace(text)

	if strings.EqualFold(field.ID, "email") && !emailPattern.MatchString(answer) {
		// Format failures re-ask without consuming an attempt.
		return msgInvalidEmail, nil
	}
	if session.Draft.Answers == nil {
		session.Draft.Answers = make(map[string]string)
	}
	session.Draft.Answers[field.ID] = answer

	session.Draft.FieldIndex++
	if session.Draft.FieldIndex < len(session.Draft.FormFields) {
		return session.Draft.FormFields[session.Draft.FieldIndex].Question, nil
	}
	return s.complete(ctx, contact, session)
}

// availableSlots expands the teacher's configured hours and filters
// them against calendar busy intervals. A failed or empty busy check
// degrades to the unfiltered set so an outage never blocks booking.
func (s *DefaultDialogueService) availableSlots(ctx context.Context, draft models.AppointmentDraft, date string) ([]string, error) {
	teacher, err := s.Directory.GetTeacherByName(ctx, draft.TeacherName)
	if err != nil {
		return nil, NewCollaboratorError("teacher lookup failed", err)
	}
	if teacher == nil {
		return nil, nil
	}
	slots := schedule.ExpandSlots(teacher.Hours, draft.DurationMins)
	if len(slots) == 0 {
		return nil, nil
	}

	day, err := time.ParseInLocation("2006-01-02", date, s.loc())
	if err != nil {
		return slots, nil
	}
	busy, err := s.Calendar.BusyIntervals(ctx, draft.CalendarID, day, day.AddDate(0, 0, 1))
	if err != nil {
		utils.GetLogger().Warn("busy interval query failed, offering unfiltered slots",
			zap.String("calendarId", draft.CalendarID), zap.Error(err))
		return slots, nil
	}
	free := schedule.FilterBusy(date, slots, draft.DurationMins, busy, s.loc())
	if len(free) == 0 {
		return slots, nil
	}
	return free, nil
}

// complete materializes the draft: calendar event and ledger row are
// written best-effort and independently, so one backend being down
// never loses the other record.
func (s *DefaultDialogueService) complete(ctx context.Context, contact string, session *models.Session) (string, error) {
	logger := utils.GetLogger().With(zap.String("contact", contact))
	draft := session.Draft
	now := s.now()

	dateStr := draft.SelectedDate
	if dateStr == "" {
		dateStr = schedule.ResolveDayDate(draft.SelectedLabel, now)
	}

	var eventID string
	start, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+draft.Time, s.loc())
	if err != nil {
		logger.Error("could not build event start, skipping calendar write",
			zap.String("date", dateStr), zap.String("time", draft.Time), zap.Error(err))
	} else {
		duration := time.Duration(draft.DurationMins) * time.Minute
		if duration <= 0 {
			duration = 30 * time.Minute
		}
		summary := fmt.Sprintf("Cita: %s - Estudiante: %s", attendeeName(draft), draft.StudentName)
		eventID, err = s.Calendar.CreateEvent(ctx, contact, draft.CalendarID, start, start.Add(duration), summary, eventDescription(draft))
		if err != nil {
			logger.Error("calendar event creation failed", zap.Error(err))
			eventID = ""
		}
	}

	appt := models.Appointment{
		CreatedAt:    now.Format("2006-01-02 15:04:05"),
		Contact:      contact,
		StudentName:  draft.StudentName,
		StudentID:    draft.StudentID,
		TeacherLabel: fmt.Sprintf("%s (%s)", draft.TeacherName, draft.Subject),
		Date:         dateStr,
		Time:         draft.Time,
		Status:       models.StatusConfirmed,
		EventID:      eventID,
		Fields:       draft.Answers,
	}
	id, err := s.Ledger.Append(ctx, appt, draft.FormFields)
	if err != nil {
		logger.Error("ledger append failed", zap.Error(err))
	}

	footer, err := s.Directory.GetConfirmationFooter(ctx)
	if err != nil {
		logger.Warn("confirmation footer lookup failed", zap.Error(err))
	}

	if s.Reminders != nil && id != "" {
		appt.ID = id
		if rerr := s.Reminders.ScheduleReminder(ctx, models.ReminderPayload{
			ReminderID:    "reminder:" + id,
			AppointmentID: id,
			Contact:       contact,
			StudentName:   draft.StudentName,
			TeacherLabel:  appt.TeacherLabel,
			Date:          dateStr,
			Time:          draft.Time,
		}); rerr != nil {
			logger.Warn("failed to schedule reminder", zap.Error(rerr))
		}
	}

	session.State = models.StateIdle
	return msgConfirmation(id, draft, footer), nil
}

func attendeeName(draft models.AppointmentDraft) string {
	for _, f := range draft.FormFields {
		if strings.EqualFold(f.ID, "nombre") {
			if v := draft.Answers[f.ID]; v != "" {
				return v
			}
		}
	}
	return "Padre de familia"
}

func eventDescription(draft models.AppointmentDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Docente: %s (%s)\n", draft.TeacherName, draft.Subject)
	fmt.Fprintf(&b, "Estudiante: %s", draft.StudentName)
	if draft.Grade != "" {
		fmt.Fprintf(&b, " - %s", draft.Grade)
		if draft.Course != "" {
			fmt.Fprintf(&b, " %s", draft.Course)
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Modalidad: %s\n", draft.Modality)
	for _, f := range draft.FormFields {
		if v := draft.Answers[f.ID]; v != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.Question, v)
		}
	}
	return b.String()
}
