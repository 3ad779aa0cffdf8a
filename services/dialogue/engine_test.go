package dialogue

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"citaflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday morning, fixed so date lists are deterministic.
var testNow = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

const testContact = "573001112233"

type fakeDirectory struct {
	students map[string]models.Student
	teachers map[string]models.Teacher
	fields   []models.FormField
	footer   string
}

func (d *fakeDirectory) GetStudentByID(_ context.Context, id string) (*models.Student, error) {
	if s, ok := d.students[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (d *fakeDirectory) GetTeachers(_ context.Context) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range d.teachers {
		out = append(out, t)
	}
	return out, nil
}

func (d *fakeDirectory) GetTeacherByName(_ context.Context, name string) (*models.Teacher, error) {
	if t, ok := d.teachers[name]; ok {
		return &t, nil
	}
	return nil, nil
}

func (d *fakeDirectory) GetFormFields(_ context.Context) ([]models.FormField, error) {
	return d.fields, nil
}

func (d *fakeDirectory) GetConfirmationFooter(_ context.Context) (string, error) {
	return d.footer, nil
}

func (d *fakeDirectory) IsBlacklisted(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (d *fakeDirectory) AddToBlacklist(_ context.Context, _ string) error { return nil }

func (d *fakeDirectory) RemoveFromBlacklist(_ context.Context, _ string) error { return nil }

type fakeLedger struct {
	appts  []models.Appointment
	nextID int
}

func (l *fakeLedger) Append(_ context.Context, appt models.Appointment, _ []models.FormField) (string, error) {
	l.nextID++
	appt.ID = fmt.Sprintf("%d", l.nextID)
	l.appts = append(l.appts, appt)
	return appt.ID, nil
}

func (l *fakeLedger) GetByContact(_ context.Context, contact string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range l.appts {
		if a.Contact == contact && (a.Status == models.StatusConfirmed || a.Status == models.StatusRescheduled) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (l *fakeLedger) SetStatus(_ context.Context, id string, status models.AppointmentStatus) (bool, error) {
	for i := range l.appts {
		if l.appts[i].ID == id {
			l.appts[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

type fakeSessions struct {
	store map[string]models.Session
}

func (s *fakeSessions) Get(_ context.Context, contact string) (models.Session, error) {
	if sess, ok := s.store[contact]; ok {
		return sess, nil
	}
	return models.IdleSession(), nil
}

func (s *fakeSessions) Set(_ context.Context, contact string, session models.Session) error {
	s.store[contact] = session
	return nil
}

func (s *fakeSessions) Clear(_ context.Context, contact string) error {
	delete(s.store, contact)
	return nil
}

type fakeCalendar struct {
	busy    []models.BusyInterval
	created int
	deleted []string
	fail    bool
}

func (c *fakeCalendar) BusyIntervals(_ context.Context, _ string, _, _ time.Time) ([]models.BusyInterval, error) {
	return c.busy, nil
}

func (c *fakeCalendar) CreateEvent(_ context.Context, _, _ string, _, _ time.Time, _, _ string) (string, error) {
	if c.fail {
		return "", fmt.Errorf("calendar unavailable")
	}
	c.created++
	return fmt.Sprintf("evt-%d", c.created), nil
}

func (c *fakeCalendar) DeleteEvent(_ context.Context, eventID, _ string) bool {
	c.deleted = append(c.deleted, eventID)
	return true
}

type fixture struct {
	svc      *DefaultDialogueService
	ledger   *fakeLedger
	calendar *fakeCalendar
	sessions *fakeSessions
}

func newFixture() *fixture {
	directory := &fakeDirectory{
		students: map[string]models.Student{
			"12345": {
				ID: "12345", Name: "Juan Gómez", Grade: "5", Course: "B", Shift: "Mañana",
				Teachers: []models.TeacherRef{
					{Name: "María Pérez", Subject: "Matemáticas"},
					{Name: "Carlos Ruiz", Subject: "Inglés"},
				},
			},
		},
		teachers: map[string]models.Teacher{
			"María Pérez": {
				Name: "María Pérez", CalendarID: "cal-maria", Subject: "Matemáticas",
				Modalities: []string{"Presencial", "Virtual"},
				Weekdays:   []string{"Lunes", "Viernes"},
				Hours:      []string{"08:00-10:00"},
				DurationMins: 30, MeetLink: "https://meet.example/maria",
			},
			"Carlos Ruiz": {
				Name: "Carlos Ruiz", CalendarID: "cal-carlos", Subject: "Inglés",
				Modalities: []string{"Presencial"},
				Weekdays:   []string{"Martes"},
				Hours:      []string{"14:00-16:00"},
				DurationMins: 30,
			},
		},
		fields: []models.FormField{
			{ID: "nombre", Question: "¿Cuál es tu nombre?", Required: true, Order: 1},
			{ID: "email", Question: "¿Cuál es tu correo?", Required: true, Order: 2},
		},
		footer: "Gracias por agendar.",
	}
	ledger := &fakeLedger{}
	cal := &fakeCalendar{}
	sessions := &fakeSessions{store: make(map[string]models.Session)}
	svc := &DefaultDialogueService{
		Directory:      directory,
		Ledger:         ledger,
		Sessions:       sessions,
		Calendar:       cal,
		MaxAttempts:    3,
		SessionTimeout: 30 * time.Minute,
		WeeksAhead:     4,
		Location:       time.UTC,
		Clock:          func() time.Time { return testNow },
	}
	return &fixture{svc: svc, ledger: ledger, calendar: cal, sessions: sessions}
}

func (f *fixture) turn(t *testing.T, text string) string {
	t.Helper()
	reply, active, err := f.svc.HandleTurn(context.Background(), testContact, text)
	require.NoError(t, err)
	require.True(t, active, "expected an active flow for %q", text)
	return reply
}

func (f *fixture) state() models.SessionState {
	sess, ok := f.sessions.store[testContact]
	if !ok {
		return models.StateIdle
	}
	return sess.State
}

func TestBookingHappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	reply, err := f.svc.BeginBooking(ctx, testContact)
	require.NoError(t, err)
	assert.Contains(t, reply, "documento")

	reply = f.turn(t, "12345")
	assert.Contains(t, reply, "Juan Gómez")
	assert.Contains(t, reply, "María Pérez")
	assert.Contains(t, reply, "Carlos Ruiz")

	reply = f.turn(t, "1")
	assert.Contains(t, reply, "modalidad")

	reply = f.turn(t, "virtual")
	assert.Contains(t, reply, "Fechas disponibles")
	assert.Equal(t, models.StateCollectingDate, f.state())

	reply = f.turn(t, "1")
	assert.Contains(t, reply, "Horarios disponibles")
	assert.Contains(t, reply, "08:00 AM")

	reply = f.turn(t, "8am")
	assert.Equal(t, "¿Cuál es tu nombre?", reply)

	reply = f.turn(t, "Ana Gómez")
	assert.Equal(t, "¿Cuál es tu correo?", reply)

	reply = f.turn(t, "ana@mail.com")
	assert.Contains(t, reply, "confirmada")
	assert.Contains(t, reply, "Cita Nº *1*")
	assert.Contains(t, reply, "https://meet.example/maria")
	assert.Contains(t, reply, "Gracias por agendar.")

	require.Len(t, f.ledger.appts, 1)
	appt := f.ledger.appts[0]
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	assert.Equal(t, "María Pérez (Matemáticas)", appt.TeacherLabel)
	assert.Equal(t, "08:00", appt.Time)
	assert.Equal(t, "evt-1", appt.EventID)
	assert.Equal(t, "ana@mail.com", appt.Fields["email"])

	assert.Equal(t, models.StateIdle, f.state())
}

func TestStudentLookupRetryCeiling(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)

	reply := f.turn(t, "99999")
	assert.Contains(t, reply, "Intento 1 de 3")
	reply = f.turn(t, "99999")
	assert.Contains(t, reply, "Intento 2 de 3")

	// The third failure ends the flow instead of prompting again.
	reply = f.turn(t, "99999")
	assert.Contains(t, reply, "intentos")
	assert.Equal(t, models.StateIdle, f.state())
}

func TestAbortWordsFromAnyState(t *testing.T) {
	for _, word := range []string{"cancelar", "SALIR", "Desistir"} {
		f := newFixture()
		_, err := f.svc.BeginBooking(context.Background(), testContact)
		require.NoError(t, err)
		f.turn(t, "12345")

		reply := f.turn(t, word)
		assert.Contains(t, reply, "cancelado")
		assert.Equal(t, models.StateIdle, f.state())
	}
}

func TestInactivityTimeout(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)

	f.svc.Clock = func() time.Time { return testNow.Add(31 * time.Minute) }
	reply := f.turn(t, "12345")
	assert.Contains(t, reply, "expiró")
	assert.Equal(t, models.StateIdle, f.state())
}

func TestSingleModalitySkipsThePrompt(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")

	reply := f.turn(t, "carlos")
	assert.Contains(t, reply, "Fechas disponibles")
	assert.Equal(t, models.StateCollectingDate, f.state())
}

func TestAfternoonHourInference(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "carlos") // 14:00-16:00, single modality
	f.turn(t, "1")

	// "2" has no 02:00 slot but 14:00 exists, so it reads as PM.
	reply := f.turn(t, "2")
	assert.Equal(t, "¿Cuál es tu nombre?", reply)
	sess := f.sessions.store[testContact]
	assert.Equal(t, "14:00", sess.Draft.Time)
}

func TestInvalidEmailDoesNotConsumeAttempts(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "presencial")
	f.turn(t, "1")
	f.turn(t, "08:30")
	f.turn(t, "Ana")

	for i := 0; i < 5; i++ {
		reply := f.turn(t, "not-an-email")
		assert.Contains(t, reply, "correo")
		assert.Equal(t, models.StateCollectingFormField, f.state())
	}
	reply := f.turn(t, "ana@mail.com")
	assert.Contains(t, reply, "confirmada")
}

func TestBusySlotsAreFilteredOut(t *testing.T) {
	f := newFixture()
	// Monday March 9th, 08:00-08:30 busy.
	busyStart := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	f.calendar.busy = []models.BusyInterval{{Start: busyStart, End: busyStart.Add(30 * time.Minute)}}

	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "presencial")

	reply := f.turn(t, "lunes")
	assert.NotContains(t, reply, "08:00 AM")
	assert.Contains(t, reply, "08:30 AM")
}

func TestFullyBookedDayFallsBackToAllSlots(t *testing.T) {
	f := newFixture()
	busyStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	f.calendar.busy = []models.BusyInterval{{Start: busyStart, End: busyStart.Add(24 * time.Hour)}}

	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "presencial")

	reply := f.turn(t, "lunes")
	assert.Contains(t, reply, "08:00 AM")
}

func TestCalendarOutageStillWritesLedger(t *testing.T) {
	f := newFixture()
	f.calendar.fail = true

	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "presencial")
	f.turn(t, "1")
	f.turn(t, "08:00")
	f.turn(t, "Ana")
	reply := f.turn(t, "ana@mail.com")

	assert.Contains(t, reply, "confirmada")
	require.Len(t, f.ledger.appts, 1)
	assert.Empty(t, f.ledger.appts[0].EventID)
}

func TestNoFormFieldsCompletesAfterTime(t *testing.T) {
	f := newFixture()
	f.svc.Directory.(*fakeDirectory).fields = nil

	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "presencial")
	f.turn(t, "1")

	// With no form fields configured the chosen hour closes the flow.
	reply := f.turn(t, "08:00")
	assert.Contains(t, reply, "confirmada")
	require.Len(t, f.ledger.appts, 1)
	assert.Empty(t, f.ledger.appts[0].Fields)
	assert.Equal(t, models.StateIdle, f.state())
}

func TestDateWithoutFittingSlotsKeepsDateSelection(t *testing.T) {
	f := newFixture()
	dir := f.svc.Directory.(*fakeDirectory)
	tight := dir.teachers["María Pérez"]
	// A 20 minute window fits no 30 minute visit.
	tight.Hours = []string{"08:00-08:20"}
	dir.teachers["María Pérez"] = tight

	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "presencial")

	reply := f.turn(t, "1")
	assert.Contains(t, reply, "elige otra fecha")
	assert.Equal(t, models.StateCollectingDate, f.state())
	assert.Zero(t, f.sessions.store[testContact].Draft.Attempts)
}

func TestVirtualWithoutLinkWarns(t *testing.T) {
	f := newFixture()
	dir := f.svc.Directory.(*fakeDirectory)
	noLink := dir.teachers["María Pérez"]
	noLink.MeetLink = ""
	dir.teachers["María Pérez"] = noLink

	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "virtual")
	f.turn(t, "1")
	f.turn(t, "08:00")
	f.turn(t, "Ana")

	reply := f.turn(t, "ana@mail.com")
	assert.Contains(t, reply, "no tiene enlace de reunión configurado")
	assert.NotContains(t, reply, "meet.example")
}

func seedAppointments(f *fixture, n int) {
	for i := 0; i < n; i++ {
		f.ledger.Append(context.Background(), models.Appointment{
			Contact:      testContact,
			StudentID:    "12345",
			StudentName:  "Juan Gómez",
			TeacherLabel: "María Pérez (Matemáticas)",
			Date:         "2026-03-09",
			Time:         fmt.Sprintf("0%d:00", 8+i),
			Status:       models.StatusConfirmed,
			EventID:      fmt.Sprintf("seed-evt-%d", i+1),
		}, nil)
	}
}

func TestCancelSingleAppointment(t *testing.T) {
	f := newFixture()
	seedAppointments(f, 1)

	reply, err := f.svc.BeginCancellation(context.Background(), testContact)
	require.NoError(t, err)
	assert.Contains(t, reply, "documento")

	reply = f.turn(t, "12345")
	assert.Contains(t, reply, "cancelada")
	assert.Equal(t, models.StatusCancelled, f.ledger.appts[0].Status)
	assert.Equal(t, []string{"seed-evt-1"}, f.calendar.deleted)
	assert.Equal(t, models.StateIdle, f.state())
}

func TestCancelSelectsAmongMultiple(t *testing.T) {
	f := newFixture()
	seedAppointments(f, 2)

	_, err := f.svc.BeginCancellation(context.Background(), testContact)
	require.NoError(t, err)

	reply := f.turn(t, "12345")
	assert.Contains(t, reply, "2")
	assert.Equal(t, models.StateSelectingCancel, f.state())

	reply = f.turn(t, "7")
	assert.Contains(t, reply, "entre")

	reply = f.turn(t, "2")
	assert.Contains(t, reply, "cancelada")
	assert.Equal(t, models.StatusConfirmed, f.ledger.appts[0].Status)
	assert.Equal(t, models.StatusCancelled, f.ledger.appts[1].Status)
}

func TestCancelAll(t *testing.T) {
	f := newFixture()
	seedAppointments(f, 3)

	_, err := f.svc.BeginCancellation(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")

	reply := f.turn(t, "todas")
	assert.Contains(t, reply, "3")
	for _, a := range f.ledger.appts {
		assert.Equal(t, models.StatusCancelled, a.Status)
	}
}

func TestCancelUnknownStudentReprompts(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginCancellation(context.Background(), testContact)
	require.NoError(t, err)

	reply := f.turn(t, "55555")
	assert.Contains(t, reply, "No encontré")
	assert.Equal(t, models.StateAwaitingCancelID, f.state())
}

func TestListAppointments(t *testing.T) {
	f := newFixture()
	seedAppointments(f, 2)

	reply, err := f.svc.ListAppointments(context.Background(), testContact)
	require.NoError(t, err)
	assert.Contains(t, reply, "Tus citas activas")
	assert.Contains(t, reply, "María Pérez (Matemáticas)")

	reply, err = f.svc.ListAppointments(context.Background(), "no-such-contact")
	require.NoError(t, err)
	assert.Contains(t, reply, "No tienes citas")
}

func TestReschedule(t *testing.T) {
	f := newFixture()
	seedAppointments(f, 1)

	reply, err := f.svc.Reschedule(context.Background(), testContact, "reprogramar la cita 1")
	require.NoError(t, err)
	assert.Contains(t, reply, "reprogramar")
	assert.Equal(t, models.StatusRescheduled, f.ledger.appts[0].Status)

	reply, err = f.svc.Reschedule(context.Background(), testContact, "reprogramar la 42")
	require.NoError(t, err)
	assert.Contains(t, reply, "No encontré")
}

func TestIdleContactIsNotHandled(t *testing.T) {
	f := newFixture()
	_, active, err := f.svc.HandleTurn(context.Background(), testContact, "hola")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestTeacherMisconfiguredAborts(t *testing.T) {
	f := newFixture()
	dir := f.svc.Directory.(*fakeDirectory)
	broken := dir.teachers["María Pérez"]
	broken.Modalities = nil
	dir.teachers["María Pérez"] = broken

	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")

	reply := f.turn(t, "maria")
	assert.Contains(t, reply, "no está configurado")
	assert.Equal(t, models.StateIdle, f.state())
}

func TestInvalidTimeFormatDoesNotConsumeAttempts(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "presencial")
	f.turn(t, "1")

	reply := f.turn(t, "cuando puedas")
	assert.Contains(t, reply, "hora válida")
	assert.Equal(t, models.StateCollectingTime, f.state())
	assert.Zero(t, f.sessions.store[testContact].Draft.Attempts)
}

func TestUnavailableHourIsBounded(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")
	f.turn(t, "maria")
	f.turn(t, "presencial")
	f.turn(t, "1")

	f.turn(t, "11:00")
	f.turn(t, "11:00")
	reply := f.turn(t, "11:00")
	assert.Contains(t, reply, "intentos")
	assert.Equal(t, models.StateIdle, f.state())
}

func TestMisCitasShortcutDuringCancellation(t *testing.T) {
	f := newFixture()
	seedAppointments(f, 1)

	_, err := f.svc.BeginCancellation(context.Background(), testContact)
	require.NoError(t, err)

	reply := f.turn(t, "mis citas")
	assert.Contains(t, reply, "Tus citas activas")
	assert.Equal(t, models.StateIdle, f.state())
}

func TestRepliesAreAccentInsensitive(t *testing.T) {
	f := newFixture()
	_, err := f.svc.BeginBooking(context.Background(), testContact)
	require.NoError(t, err)
	f.turn(t, "12345")

	// "perez" matches "María Pérez" despite the missing accent.
	reply := f.turn(t, "perez")
	assert.Contains(t, reply, "modalidad")
	assert.False(t, strings.Contains(reply, "No identifiqué"))
}
