package screener

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Scheduler drives the screener on a fixed interval for the lifetime of the
// process. A failed tick is logged and never stops future ticks.
type Scheduler struct {
	cron     *gocron.Scheduler
	screener *Screener
	interval time.Duration
	logger   zerolog.Logger
}

// NewScheduler creates a scheduler ticking every interval.
func NewScheduler(s *Screener, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     gocron.NewScheduler(time.UTC),
		screener: s,
		interval: interval,
		logger:   logger,
	}
}

// Start begins scheduling scans asynchronously. SingletonMode prevents a
// long-running scan from overlapping the next tick; the screener's own mutex
// additionally serializes manual triggers.
func (s *Scheduler) Start() error {
	_, err := s.cron.Every(s.interval).SingletonMode().Do(func() {
		if err := s.screener.Run(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("Scheduled scan failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.StartAsync()
	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Scheduler stopped")
}
