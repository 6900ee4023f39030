package jobs

import (
	"context"
	"log"
	"time"

	"vsdc.GO/config"
	"vsdc.GO/cron"
	syncService "vsdc.GO/service/sync"
)

// initialCheckDelay gives the HTTP server and DB a moment to settle before
// the first sync check after startup.
const initialCheckDelay = 5 * time.Second

// Register wires the sync jobs onto the cron registry. Schedules come from
// config with the same defaults the service has always used: a full check at
// midnight and a pending-retry probe every 15 minutes.
func Register(engine *syncService.Engine) {
	cron.Register("dailysync", config.CronSchedule("dailysync", "0 0 * * *"), func(...string) {
		if err := engine.CheckAndSync(context.Background()); err != nil {
			log.Printf("dailysync: %v", err)
		}
	})
	cron.Register("pendingretry", config.CronSchedule("pendingretry", "@every 15m"), func(...string) {
		if err := engine.RetryIfPending(context.Background()); err != nil {
			log.Printf("pendingretry: %v", err)
		}
	})
}

// StartInitialCheck runs one sync check shortly after startup, off the
// scheduler, so a long-stopped installation catches up without waiting for
// midnight.
func StartInitialCheck(engine *syncService.Engine) {
	time.AfterFunc(initialCheckDelay, func() {
		if err := engine.CheckAndSync(context.Background()); err != nil {
			log.Printf("initial sync check: %v", err)
		}
	})
}
