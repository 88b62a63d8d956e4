package scheduler

import (
	"context"
	"time"
)

// Job is a named unit of scheduled work.
type Job interface {
	Name() string
	Schedule() string // cron spec with seconds field
	Run(ctx context.Context) error
}

// JobHistory tracks execution outcomes for one job.
type JobHistory struct {
	LastRun     time.Time
	LastSuccess time.Time
	LastError   string
	RunCount    int
	FailCount   int
}
