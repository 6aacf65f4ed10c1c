package scheduler

import (
	"context"
	"time"

	"github.com/soccarena/slotwatch/internal/logger"
)

// RunFunc is one discovery pass. The scheduler ignores everything about it
// except whether it finished cleanly.
type RunFunc func(ctx context.Context) error

// Scheduler drives discovery passes: one immediately on start, then one per
// interval tick, forever. All passes execute on a single goroutine, so they
// are serialized by construction; ticks that fire while a pass is still in
// flight coalesce into at most one pending tick instead of piling up.
type Scheduler struct {
	run      RunFunc
	interval time.Duration
	log      *logger.Logger
}

// New creates a Scheduler invoking run every interval.
func New(run RunFunc, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		run:      run,
		interval: interval,
		log:      log,
	}
}

// Start blocks until ctx is cancelled. A failed pass is logged and the loop
// carries on; the process never exits because one check went wrong.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("scheduler started", logger.Fields{
		"interval": s.interval.String(),
	})

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped", nil)
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick executes one pass and absorbs its failure.
func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	started := time.Now()
	if err := s.run(ctx); err != nil {
		logger.IncrCounter("runs.failed")
		s.log.Error("check failed", logger.Fields{
			"elapsed": time.Since(started).String(),
		}, err)
		return
	}
	logger.IncrCounter("runs.completed")
}
