package jobs

import (
	"log/slog"
	"time"

	"car-rental-api/internal/pkg/config"
	"car-rental-api/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers the jobs on a seconds-precision UTC cron. A run
// still in progress makes the next tick of the same job a no-op.
func NewScheduler(runner *Runner, cfg config.Config) (*Scheduler, error) {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(cfg.Booking.SweepSchedule, runner.ExpireStalePending); err != nil {
		return nil, errs.Wrapf(err, "register booking sweep %q", cfg.Booking.SweepSchedule)
	}
	if _, err := c.AddFunc(cfg.Messaging.RelaySchedule, runner.RelayOutbox); err != nil {
		return nil, errs.Wrapf(err, "register outbox relay %q", cfg.Messaging.RelaySchedule)
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	slog.Info("Starting job scheduler", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Job scheduler stopped")
}
