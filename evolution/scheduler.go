package evolution

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/aegntic/aegnt-unltd/logging"
)

// DefaultSchedule runs the evolution cycle nightly at 03:00.
const DefaultSchedule = "0 3 * * *"

// Scheduler runs the engine's cycle on a cron cadence.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	logger logging.Logger
}

// NewScheduler creates a scheduler for the engine. An empty spec uses
// DefaultSchedule.
func NewScheduler(engine *Engine, spec string, logger logging.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	s := &Scheduler{
		cron:   cron.New(),
		engine: engine,
		logger: logger,
	}
	_, err := s.cron.AddFunc(spec, func() {
		rec, applied, err := s.engine.Run(context.Background())
		switch {
		case err != nil:
			s.logger.Error("evolution cycle failed", "error", err.Error())
		case applied:
			s.logger.Info("evolution cycle applied change", "version", rec.Version)
		default:
			s.logger.Info("evolution cycle skipped")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid evolution schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running the schedule in its own goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule and waits for a running cycle to finish or the
// context to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
