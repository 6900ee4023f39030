package cron

import (
	"log"

	"github.com/robfig/cron/v3"
)

// StartCron registers every job from the registry and starts the scheduler.
func StartCron() *cron.Cron {
	c := cron.New()
	for name, j := range Jobs() {
		run := j.Run
		sched := j.Schedule
		if _, err := c.AddFunc(sched, func() { run() }); err != nil {
			log.Fatalf("Failed to register job %s: %v", name, err)
		}
		log.Printf("cron: registered %s (%s)", name, sched)
	}
	c.Start()
	return c
}
