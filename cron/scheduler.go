package cron

import (
	"context"
	"log"

	"citaflow/services/dispatcher"

	"github.com/robfig/cron/v3"
)

// InitDispatcherSchedule ticks the outbox dispatcher once a minute.
// The dispatcher itself is single-flight, so overlapping ticks are
// harmless. The returned cron is stopped during shutdown.
func InitDispatcherSchedule(d dispatcher.DispatcherService) *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() {
		d.Run(context.Background())
	}); err != nil {
		log.Fatalf("[Dispatcher] ❗ Failed to register schedule: %v", err)
	}
	c.Start()
	log.Println("[Dispatcher] 🚀 Outbox schedule started (every minute)")
	return c
}
