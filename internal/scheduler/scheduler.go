// Package scheduler runs registered jobs on wall-clock schedules. It is a
// small in-process replacement for cron: each job gets its own goroutine
// that sleeps until the next fire time, runs the job, and reschedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SarjuThakkar/TreehouseLibrary/pkg/logger"
)

var jobRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "library_job_runs_total",
		Help: "Scheduled job executions by job name and outcome.",
	},
	[]string{"job", "status"},
)

// RunFunc executes one job run and returns how many items it processed.
type RunFunc func(ctx context.Context) (int, error)

// Schedule computes the next fire time strictly after the given instant.
type Schedule func(after time.Time) time.Time

// Daily fires every day at the given local hour and minute.
func Daily(hour, minute int) Schedule {
	return func(after time.Time) time.Time {
		next := time.Date(after.Year(), after.Month(), after.Day(), hour, minute, 0, 0, after.Location())
		if !next.After(after) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}
}

// Monthly fires on the given day of every month at the given local hour and
// minute. Day must be 1-28 so every month has the date.
func Monthly(day, hour, minute int) Schedule {
	return func(after time.Time) time.Time {
		next := time.Date(after.Year(), after.Month(), day, hour, minute, 0, 0, after.Location())
		if !next.After(after) {
			next = next.AddDate(0, 1, 0)
		}
		return next
	}
}

type job struct {
	name     string
	schedule Schedule
	run      RunFunc
}

// Scheduler owns a set of jobs and their goroutines.
type Scheduler struct {
	logger *slog.Logger
	jobs   []*job
	wg     sync.WaitGroup
}

// New creates an empty scheduler.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(name string, schedule Schedule, run RunFunc) {
	s.jobs = append(s.jobs, &job{name: name, schedule: schedule, run: run})
}

// Start launches one goroutine per registered job. The goroutines exit when
// ctx is cancelled; Stop waits for them.
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go func(j *job) {
			defer s.wg.Done()
			s.loop(ctx, j)
		}(j)
	}
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
}

// Stop blocks until all job goroutines have exited.
func (s *Scheduler) Stop() {
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		next := j.schedule(time.Now())
		s.logger.Info("job scheduled",
			slog.String("job", j.name),
			slog.Time("next_run", next),
		)
		timer.Reset(time.Until(next))

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.execute(ctx, j)
	}
}

// execute runs one job invocation. Panics and errors are contained so a bad
// run never takes down the process or the schedule.
func (s *Scheduler) execute(ctx context.Context, j *job) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			jobRunsTotal.WithLabelValues(j.name, "panic").Inc()
			s.logger.Error("job panicked",
				slog.String("job", j.name),
				slog.String("panic", fmt.Sprintf("%v", r)),
			)
		}
	}()

	processed, err := j.run(logger.WithJob(ctx, j.name))
	duration := time.Since(start)

	if err != nil {
		jobRunsTotal.WithLabelValues(j.name, "error").Inc()
		s.logger.Error("job failed",
			slog.String("job", j.name),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return
	}

	jobRunsTotal.WithLabelValues(j.name, "ok").Inc()
	s.logger.Info("job finished",
		slog.String("job", j.name),
		slog.Duration("duration", duration),
		slog.Int("processed", processed),
	)
}
