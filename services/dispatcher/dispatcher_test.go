package dispatcher

import (
	"context"
	"fmt"
	"testing"
	"time"

	"citaflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tick = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

type fakeOutbox struct {
	messages []models.OutboxMessage
	statuses map[int]string
}

func (o *fakeOutbox) GetMessages(_ context.Context) ([]models.OutboxMessage, error) {
	return o.messages, nil
}

func (o *fakeOutbox) SetStatus(_ context.Context, row int, status string) error {
	if o.statuses == nil {
		o.statuses = make(map[int]string)
	}
	o.statuses[row] = status
	return nil
}

type fakeMessenger struct {
	sent    []string
	failFor map[string]bool
}

func (m *fakeMessenger) Send(_ context.Context, destination, _, _ string) error {
	if m.failFor[destination] {
		return fmt.Errorf("gateway rejected %s", destination)
	}
	m.sent = append(m.sent, destination)
	return nil
}

func newDispatcher(outbox *fakeOutbox, m *fakeMessenger) *DefaultDispatcherService {
	return &DefaultDispatcherService{
		Outbox:    outbox,
		Messenger: m,
		StartHour: 6,
		EndHour:   21,
		MaxDaily:  50,
		MinDelay:  5 * time.Second,
		MaxDelay:  15 * time.Second,
		Location:  time.UTC,
		Clock:     func() time.Time { return tick },
		Sleep:     func(time.Duration) {},
	}
}

func pendingRow(row int, dest, at string) models.OutboxMessage {
	return models.OutboxMessage{
		Row:         row,
		Destination: dest,
		Text:        "hola",
		ScheduledAt: at,
		Status:      models.OutboxPending,
	}
}

func TestRunSendsOnlyDueMessages(t *testing.T) {
	outbox := &fakeOutbox{messages: []models.OutboxMessage{
		pendingRow(2, "111", "04/03/2026 09:30:00"),
		pendingRow(3, "222", "04/03/2026 18:00:00"), // later today
		{Row: 4, Destination: "333", Text: "hola", ScheduledAt: "04/03/2026 08:00:00", Status: models.OutboxSent},
		pendingRow(5, "444", "not a date"),
	}}
	m := &fakeMessenger{}
	d := newDispatcher(outbox, m)

	d.Run(context.Background())

	assert.Equal(t, []string{"111"}, m.sent)
	assert.Equal(t, models.OutboxSent, outbox.statuses[2])
	_, touched := outbox.statuses[3]
	assert.False(t, touched)
	_, touched = outbox.statuses[5]
	assert.False(t, touched, "unparseable rows stay pending")
	assert.Equal(t, 1, d.SentToday())
}

func TestRunOutsideSendWindow(t *testing.T) {
	outbox := &fakeOutbox{messages: []models.OutboxMessage{
		pendingRow(2, "111", "04/03/2026 01:00:00"),
	}}
	m := &fakeMessenger{}
	d := newDispatcher(outbox, m)
	d.Clock = func() time.Time { return time.Date(2026, 3, 4, 5, 59, 0, 0, time.UTC) }

	d.Run(context.Background())
	assert.Empty(t, m.sent)

	d.Clock = func() time.Time { return time.Date(2026, 3, 4, 21, 0, 0, 0, time.UTC) }
	d.Run(context.Background())
	assert.Empty(t, m.sent)
}

func TestRunHonorsDailyCap(t *testing.T) {
	outbox := &fakeOutbox{messages: []models.OutboxMessage{
		pendingRow(2, "111", "04/03/2026 09:00:00"),
		pendingRow(3, "222", "04/03/2026 09:00:00"),
		pendingRow(4, "333", "04/03/2026 09:00:00"),
	}}
	m := &fakeMessenger{}
	d := newDispatcher(outbox, m)
	d.MaxDaily = 2

	d.Run(context.Background())

	assert.Len(t, m.sent, 2)
	_, touched := outbox.statuses[4]
	assert.False(t, touched, "row past the cap stays pending")
}

func TestRunCapResetsOnNewDay(t *testing.T) {
	outbox := &fakeOutbox{messages: []models.OutboxMessage{
		pendingRow(2, "111", "04/03/2026 09:00:00"),
	}}
	m := &fakeMessenger{}
	d := newDispatcher(outbox, m)
	d.MaxDaily = 1

	d.Run(context.Background())
	require.Equal(t, 1, d.SentToday())

	outbox.messages = []models.OutboxMessage{pendingRow(3, "222", "05/03/2026 09:00:00")}
	d.Clock = func() time.Time { return tick.AddDate(0, 0, 1) }
	d.Run(context.Background())

	assert.Equal(t, []string{"111", "222"}, m.sent)
	assert.Equal(t, 1, d.SentToday())
}

func TestRunRecordsSendFailures(t *testing.T) {
	outbox := &fakeOutbox{messages: []models.OutboxMessage{
		pendingRow(2, "111", "04/03/2026 09:00:00"),
		pendingRow(3, "222", "04/03/2026 09:00:00"),
	}}
	m := &fakeMessenger{failFor: map[string]bool{"111": true}}
	d := newDispatcher(outbox, m)

	d.Run(context.Background())

	assert.Equal(t, []string{"222"}, m.sent)
	assert.Equal(t, models.OutboxError, outbox.statuses[2])
	assert.Equal(t, models.OutboxSent, outbox.statuses[3])
	// Failed sends do not count against the daily cap.
	assert.Equal(t, 1, d.SentToday())
}

func TestRandomDelayStaysInRange(t *testing.T) {
	d := newDispatcher(&fakeOutbox{}, &fakeMessenger{})
	for i := 0; i < 100; i++ {
		delay := d.randomDelay()
		assert.GreaterOrEqual(t, delay, d.MinDelay)
		assert.Less(t, delay, d.MaxDelay)
	}
}
