package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDialogue struct {
	opened []string
}

func (d *fakeDialogue) HandleTurn(_ context.Context, _, _ string) (string, bool, error) {
	return "", false, nil
}

func (d *fakeDialogue) BeginBooking(_ context.Context, _ string) (string, error) {
	d.opened = append(d.opened, "booking")
	return "inicio de agendamiento", nil
}

func (d *fakeDialogue) BeginCancellation(_ context.Context, _ string) (string, error) {
	d.opened = append(d.opened, "cancellation")
	return "inicio de cancelación", nil
}

func (d *fakeDialogue) ListAppointments(_ context.Context, _ string) (string, error) {
	d.opened = append(d.opened, "list")
	return "tus citas", nil
}

func (d *fakeDialogue) Reschedule(_ context.Context, _, _ string) (string, error) {
	d.opened = append(d.opened, "reschedule")
	return "reprogramación", nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (g *fakeGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	return g.reply, g.err
}

func TestAmbiguousMentionIsClassifiedByModel(t *testing.T) {
	dlg := &fakeDialogue{}
	svc := &DefaultChatService{
		Dialogue: dlg,
		Gemini:   &fakeGenerator{reply: `{"intent": "cancel"}`},
	}

	reply, err := svc.Respond(context.Background(), "573001112233", "ya no quiero la cita")
	require.NoError(t, err)
	assert.Equal(t, "inicio de cancelación", reply)
	assert.Equal(t, []string{"cancellation"}, dlg.opened)
}

func TestAmbiguousMentionWithoutModelOpensBooking(t *testing.T) {
	dlg := &fakeDialogue{}
	svc := &DefaultChatService{Dialogue: dlg}

	reply, err := svc.Respond(context.Background(), "573001112233", "ya no quiero la cita")
	require.NoError(t, err)
	assert.Equal(t, "inicio de agendamiento", reply)
	assert.Equal(t, []string{"booking"}, dlg.opened)
}

func TestAmbiguousMentionModelFailureOpensBooking(t *testing.T) {
	dlg := &fakeDialogue{}
	svc := &DefaultChatService{
		Dialogue: dlg,
		Gemini:   &fakeGenerator{err: errors.New("model down")},
	}

	_, err := svc.Respond(context.Background(), "573001112233", "necesito una cita")
	require.NoError(t, err)
	assert.Equal(t, []string{"booking"}, dlg.opened)
}

func TestExplicitKeywordsSkipTheModel(t *testing.T) {
	dlg := &fakeDialogue{}
	// A model reply that would misroute if it were consulted.
	svc := &DefaultChatService{
		Dialogue: dlg,
		Gemini:   &fakeGenerator{reply: `{"intent": "chat"}`},
	}

	_, err := svc.Respond(context.Background(), "573001112233", "cancelar mi cita")
	require.NoError(t, err)
	assert.Equal(t, []string{"cancellation"}, dlg.opened)
}
