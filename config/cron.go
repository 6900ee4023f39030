package config

import "strings"

// CronSchedules maps job names to their schedule. Jobs themselves are
// registered from cron/jobs; schedules can be overridden per job with
// CRON_<NAME> env vars.
var CronSchedules = map[string]string{
	"dailysync":    "0 0 * * *",
	"pendingretry": "@every 15m",
}

// CronSchedule returns the schedule for a job, env override first.
func CronSchedule(name, def string) string {
	if s := GetEnv("CRON_"+strings.ToUpper(name), ""); s != "" {
		return s
	}
	if s, ok := CronSchedules[name]; ok {
		return s
	}
	return def
}
