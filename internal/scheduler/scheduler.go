package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/pos"
)

// Scheduler runs the background catalog refresh so an idle register does not
// drift too far from stock reality between operator actions.
type Scheduler struct {
	cron       *cron.Cron
	controller *pos.Controller
	schedule   string
	logger     *zap.Logger
}

// New creates a new scheduler instance. An empty schedule disables it.
func New(schedule string, controller *pos.Controller, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:       cron.New(),
		controller: controller,
		schedule:   schedule,
		logger:     logger,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() {
	if s.schedule == "" {
		s.logger.Info("background catalog refresh disabled")
		return
	}

	if _, err := s.cron.AddFunc(s.schedule, s.refreshCatalog); err != nil {
		s.logger.Error("failed to schedule catalog refresh", zap.Error(err), zap.String("schedule", s.schedule))
		return
	}

	s.logger.Info("background catalog refresh scheduled", zap.String("schedule", s.schedule))
	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) refreshCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.controller.RefreshProducts(ctx); err != nil {
		s.logger.Warn("background catalog refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("background catalog refresh completed")
}
