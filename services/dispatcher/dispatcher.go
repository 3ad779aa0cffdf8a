package dispatcher

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"citaflow/config"
	ledgerRepo "citaflow/database/repository/ledger"
	"citaflow/models"
	"citaflow/services/messenger"
	"citaflow/utils"

	"go.uber.org/zap"
)

// scheduleLayout is how operators write send times in the queue sheet.
const scheduleLayout = "02/01/2006 15:04:05"

// DispatcherService drains the scheduled-message queue. Run is invoked
// on a timer; it is single-flight, so a slow drain simply makes the
// next tick a no-op.
type DispatcherService interface {
	Run(ctx context.Context)
	SentToday() int
}

type DefaultDispatcherService struct {
	Outbox    ledgerRepo.OutboxRepository
	Messenger messenger.Messenger

	StartHour int
	EndHour   int
	MaxDaily  int
	MinDelay  time.Duration
	MaxDelay  time.Duration
	Location  *time.Location

	// Clock and Sleep are overridable in tests.
	Clock func() time.Time
	Sleep func(time.Duration)

	mu        sync.Mutex
	running   bool
	sentToday int
	countDay  string
}

func NewDispatcherService(outbox ledgerRepo.OutboxRepository, m messenger.Messenger) *DefaultDispatcherService {
	cfg := config.AppConfig
	return &DefaultDispatcherService{
		Outbox:    outbox,
		Messenger: m,
		StartHour: cfg.DispatchStartHour,
		EndHour:   cfg.DispatchEndHour,
		MaxDaily:  cfg.DispatchMaxDaily,
		MinDelay:  time.Duration(cfg.DispatchMinDelayMs) * time.Millisecond,
		MaxDelay:  time.Duration(cfg.DispatchMaxDelayMs) * time.Millisecond,
		Location:  config.Location(),
	}
}

func (s *DefaultDispatcherService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().In(s.loc())
	}
	return time.Now().In(s.loc())
}

func (s *DefaultDispatcherService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *DefaultDispatcherService) sleep(d time.Duration) {
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Run performs one drain pass over the pending queue.
func (s *DefaultDispatcherService) Run(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	logger := utils.GetLogger()
	now := s.now()

	if now.Hour() < s.StartHour || now.Hour() >= s.EndHour {
		return
	}
	s.rollCounter(now)
	if s.sent() >= s.MaxDaily {
		return
	}

	messages, err := s.Outbox.GetMessages(ctx)
	if err != nil {
		logger.Error("failed to read outbox", zap.Error(err))
		return
	}
	due := s.dueMessages(messages, now)
	if len(due) == 0 {
		return
	}
	logger.Info("dispatching scheduled messages", zap.Int("due", len(due)), zap.Int("sentToday", s.sent()))

	for i, msg := range due {
		if ctx.Err() != nil {
			return
		}
		// The cap can be crossed mid-drain when the pass started near it.
		if s.sent() >= s.MaxDaily {
			logger.Info("daily send cap reached, stopping drain", zap.Int("cap", s.MaxDaily))
			return
		}
		s.deliver(ctx, msg)
		if i < len(due)-1 {
			s.sleep(s.randomDelay())
		}
	}
}

func (s *DefaultDispatcherService) deliver(ctx context.Context, msg models.OutboxMessage) {
	logger := utils.GetLogger().With(zap.Int("row", msg.Row), zap.String("destination", msg.Destination))

	status := models.OutboxSent
	if err := s.Messenger.Send(ctx, msg.Destination, msg.Text, msg.MediaURL); err != nil {
		logger.Error("scheduled send failed", zap.Error(err))
		status = models.OutboxError
	} else {
		s.mu.Lock()
		s.sentToday++
		s.mu.Unlock()
	}
	if err := s.Outbox.SetStatus(ctx, msg.Row, status); err != nil {
		logger.Error("failed to record outbox status", zap.String("status", status), zap.Error(err))
	}
}

// dueMessages keeps pending rows whose schedule time has passed. Rows
// with unparseable timestamps are skipped (and stay pending) so a typo
// in the sheet is recoverable.
func (s *DefaultDispatcherService) dueMessages(messages []models.OutboxMessage, now time.Time) []models.OutboxMessage {
	var due []models.OutboxMessage
	for _, m := range messages {
		if m.Status != models.OutboxPending {
			continue
		}
		if m.Destination == "" || m.Text == "" {
			continue
		}
		at, err := time.ParseInLocation(scheduleLayout, m.ScheduledAt, s.loc())
		if err != nil {
			utils.GetLogger().Warn("unparseable schedule time, leaving row pending",
				zap.Int("row", m.Row), zap.String("scheduledAt", m.ScheduledAt))
			continue
		}
		if !at.After(now) {
			due = append(due, m)
		}
	}
	return due
}

func (s *DefaultDispatcherService) rollCounter(now time.Time) {
	day := now.Format("2006-01-02")
	s.mu.Lock()
	if s.countDay != day {
		s.countDay = day
		s.sentToday = 0
	}
	s.mu.Unlock()
}

func (s *DefaultDispatcherService) sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sentToday
}

// SentToday reports the messages delivered since midnight, for the
// admin status endpoint.
func (s *DefaultDispatcherService) SentToday() int {
	return s.sent()
}

func (s *DefaultDispatcherService) randomDelay() time.Duration {
	min, max := s.MinDelay, s.MaxDelay
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
