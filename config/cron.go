package config

// CronJob pairs a cron schedule with the function to run.
type CronJob struct {
	Schedule string
	Job      func(args ...string)
}

// CronJobs holds statically configured jobs, keyed by lowercase name.
// Most jobs register through the cron package registry instead.
var CronJobs = map[string]CronJob{}
