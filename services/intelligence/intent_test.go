package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"quiero agendar una cita", IntentSchedule},
		{"programar reunión", IntentSchedule},
		{"cancelar mi cita", IntentCancel},
		{"quiero anular la cita", IntentCancel},
		{"mis citas", IntentList},
		{"ver citas por favor", IntentList},
		{"reprogramar la cita", IntentReschedule},
		{"quiero reagendar", IntentReschedule},
		{"hola buenos días", IntentChat},
		{"", IntentChat},
		// A bare mention of "cita" is ambiguous and stays unresolved
		// here; the chat service hands it to the model.
		{"Necesito una CITA con el profesor", IntentChat},
		{"ya no quiero la cita", IntentChat},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DetectIntent(c.text), "text %q", c.text)
	}
}

func TestMentionsAppointment(t *testing.T) {
	assert.True(t, MentionsAppointment("ya no quiero la cita"))
	assert.True(t, MentionsAppointment("una CITA urgente"))
	assert.False(t, MentionsAppointment("hola buenos días"))
}

func TestParseIntentReply(t *testing.T) {
	cases := []struct {
		raw  string
		want Intent
		ok   bool
	}{
		{`{"intent": "cancel"}`, IntentCancel, true},
		{"```json\n{\"intent\": \"reschedule\"}\n```", IntentReschedule, true},
		{`La intención es {"intent": "list"}.`, IntentList, true},
		{`{"intent": "SCHEDULE"}`, IntentSchedule, true},
		{`{"intent": "pedir pizza"}`, IntentChat, false},
		{"no lo sé", IntentChat, false},
		{"", IntentChat, false},
	}
	for _, c := range cases {
		got, ok := parseIntentReply(c.raw)
		assert.Equal(t, c.ok, ok, "raw %q", c.raw)
		assert.Equal(t, c.want, got, "raw %q", c.raw)
	}
}
