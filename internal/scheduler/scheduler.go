package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobFunc is one scheduled unit of work. The context is the scheduler's
// run context; jobs should return promptly once it is cancelled.
type JobFunc func(ctx context.Context) error

// Scheduler drives the periodic check jobs. Each job runs on its own cron
// entry; an overlapping run of the same job is skipped, never queued.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New constructs a Scheduler whose entries fire in the given location.
func New(loc *time.Location, logger zerolog.Logger) *Scheduler {
	log := logger.With().Str("component", "scheduler").Logger()
	ctx, cancel := context.WithCancel(context.Background())

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.Recover(cronLogger{log}),
			cron.SkipIfStillRunning(cronLogger{log}),
		),
	)

	return &Scheduler{cron: c, logger: log, ctx: ctx, cancel: cancel}
}

// AddInterval registers a job that fires every `every` duration.
func (s *Scheduler) AddInterval(name string, every time.Duration, fn JobFunc) error {
	if every <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	return s.AddCron(name, fmt.Sprintf("@every %s", every), fn)
}

// AddCron registers a job against a standard 5-field cron spec (or an
// @every / @daily descriptor).
func (s *Scheduler) AddCron(name, spec string, fn JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		s.logger.Debug().Str("job", name).Msg("job started")

		if err := fn(s.ctx); err != nil {
			s.logger.Error().Err(err).Str("job", name).Dur("elapsed", time.Since(start)).Msg("job failed")
			return
		}
		s.logger.Info().Str("job", name).Dur("elapsed", time.Since(start)).Msg("job finished")
	})
	if err != nil {
		return fmt.Errorf("register job %s (%q): %w", name, spec, err)
	}

	s.logger.Info().Str("job", name).Str("spec", spec).Msg("job registered")
	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop cancels the job context and waits for in-flight jobs to drain.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// cronLogger adapts zerolog to the cron logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

var _ cron.Logger = cronLogger{}
