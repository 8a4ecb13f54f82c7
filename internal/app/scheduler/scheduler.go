// Package scheduler drives the time-based household chores: the daily
// task reset at the configured hour and the morning auto-verify of
// yesterday's unreviewed earns.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hearthpoints/hearth/internal/app/store"
)

// Scheduler ticks the store on an interval. It owns no state of its
// own; every decision is re-made inside the store so missed or doubled
// ticks are harmless.
type Scheduler struct {
	store    *store.Store
	interval time.Duration
	log      zerolog.Logger
}

// New creates a scheduler.
func New(st *store.Store, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{store: st, interval: interval, log: log}
}

// Run blocks until ctx is done, ticking at the configured interval.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	fired, err := s.store.RunAutoResetIfDue()
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled task reset failed")
		return
	}
	if !fired {
		return
	}
	s.log.Info().Msg("daily task reset fired")

	// A new day started: settle yesterday's unreviewed tasks in the
	// children's favor before the fresh slate begins.
	if err := s.store.AutoCompleteYesterday(); err != nil {
		s.log.Error().Err(err).Msg("auto-verify of yesterday failed")
	}
}
