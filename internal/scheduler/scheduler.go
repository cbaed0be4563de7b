package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ktsuji/stockadmin/internal/config"
	"github.com/ktsuji/stockadmin/internal/service/export"
	"github.com/ktsuji/stockadmin/internal/service/stocklist"
)

// Scheduler runs the periodic CSV snapshot of the current stock page. The
// job is optional; an empty cron expression disables it.
type Scheduler struct {
	cron      *cron.Cron
	list      *stocklist.Store
	exportSvc *export.Service
	cfg       config.ExportConfig
	logger    *zap.Logger
}

// NewScheduler creates a scheduler honoring the configured timezone.
func NewScheduler(cfg config.ExportConfig, list *stocklist.Store, exportSvc *export.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		list:      list,
		exportSvc: exportSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	if s.cfg.CronSchedule == "" {
		s.logger.Info("export schedule not configured, scheduler idle")
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.snapshot); err != nil {
		s.logger.Error("failed to schedule export snapshot", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) snapshot() {
	s.logger.Info("running scheduled stock export")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.list.Refetch(ctx); err != nil {
		s.logger.Error("scheduled refetch failed", zap.Error(err))
		return
	}

	if err := s.exportSvc.Export(s.list.Records()); err != nil {
		s.logger.Error("scheduled export failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled stock export completed")
}
