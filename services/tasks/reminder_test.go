package tasks

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"citaflow/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingTaskErrorsAreTolerated(t *testing.T) {
	assert.True(t, isMissingTask(asynq.ErrTaskNotFound))
	// The inspector wraps its sentinel errors.
	assert.True(t, isMissingTask(fmt.Errorf("run DeleteTask: %w", asynq.ErrTaskNotFound)))
	assert.True(t, isMissingTask(fmt.Errorf("run DeleteTask: %w", asynq.ErrQueueNotFound)))
	assert.False(t, isMissingTask(errors.New("redis connection refused")))
	assert.False(t, isMissingTask(nil))
}

func TestNewReminderTaskCarriesStableID(t *testing.T) {
	payload := models.ReminderPayload{
		ReminderID:    "reminder:42",
		AppointmentID: "42",
		Contact:       "573001112233",
		Date:          "2026-03-09",
		Time:          "08:00",
	}
	task, opts, err := NewReminderTask(payload, time.Date(2026, 3, 9, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, TypeSendReminder, task.Type())
	assert.Len(t, opts, 2)
}
