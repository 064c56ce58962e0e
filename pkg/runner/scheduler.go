package runner

import (
	"context"
	"time"

	"github.com/cloudcore-io/triggers/pkg/core"
	"github.com/cloudcore-io/triggers/pkg/schedule"
)

// SchedulerCaller is the identity recurring starts run under.
var SchedulerCaller = core.Caller{ID: "scheduler", Master: true}

// ScheduledJob holds configuration for a recurring job.
type ScheduledJob struct {
	Name     string
	Schedule schedule.Schedule
	Params   map[string]any
}

// ScheduleJob registers a recurring start for the named job. Scheduling
// the same name again replaces the prior schedule.
func (r *Runner) ScheduleJob(name string, sched schedule.Schedule, params map[string]any) {
	r.mu.Lock()
	r.scheduled[name] = &ScheduledJob{Name: name, Schedule: sched, Params: params}
	r.mu.Unlock()
}

// UnscheduleJob removes a recurring start.
func (r *Runner) UnscheduleJob(name string) {
	r.mu.Lock()
	delete(r.scheduled, name)
	r.mu.Unlock()
}

func (r *Runner) scheduledJobs() map[string]*ScheduledJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make(map[string]*ScheduledJob, len(r.scheduled))
	for name, sj := range r.scheduled {
		jobs[name] = sj
	}
	return jobs
}

// RunScheduler starts due runs for scheduled jobs. Blocks until the
// context is cancelled.
func (r *Runner) RunScheduler(ctx context.Context) error {
	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	lastRun := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := time.Now()
			for name, sj := range r.scheduledJobs() {
				nextRun := sj.Schedule.Next(lastRun[name])
				if now.After(nextRun) || now.Equal(nextRun) {
					_, err := r.Start(ctx, sj.Name, sj.Params, SchedulerCaller)
					if err != nil {
						r.logger.Error("failed to start scheduled job", "name", name, "error", err)
					} else {
						lastRun[name] = now
					}
				}
			}
		}
	}
}
