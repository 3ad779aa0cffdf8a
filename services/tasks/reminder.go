package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"citaflow/config"
	"citaflow/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(payload.ReminderID),
	}
	return task, opts, nil
}

// AsynqReminderScheduler queues appointment reminders on Redis so they
// survive restarts and fire ahead of the appointment start.
type AsynqReminderScheduler struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
	Lead      time.Duration
	Location  *time.Location
}

func NewAsynqReminderScheduler(client *asynq.Client, inspector *asynq.Inspector) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		Client:    client,
		Inspector: inspector,
		Lead:      time.Duration(config.AppConfig.ReminderLeadMins) * time.Minute,
		Location:  config.Location(),
	}
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", payload.Date+" "+payload.Time, s.Location)
	if err != nil {
		return fmt.Errorf("invalid appointment start %q %q: %w", payload.Date, payload.Time, err)
	}
	fireAt := start.Add(-s.Lead)
	if !fireAt.After(time.Now()) {
		// Too close to the appointment for a reminder to be useful.
		return nil
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

// CancelReminder drops the queued task for a cancelled appointment.
// An already-fired or unknown task is not an error.
func (s *AsynqReminderScheduler) CancelReminder(ctx context.Context, appointmentID string) error {
	if s.Inspector == nil {
		return nil
	}
	err := s.Inspector.DeleteTask("default", "reminder:"+appointmentID)
	if err != nil && !isMissingTask(err) {
		return fmt.Errorf("failed to delete reminder task: %w", err)
	}
	return nil
}

// isMissingTask matches the inspector's not-found errors, which come
// back wrapped.
func isMissingTask(err error) bool {
	return errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound)
}
