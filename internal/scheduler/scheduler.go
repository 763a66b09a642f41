package scheduler

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/rakelog/internal/config"
	"github.com/mamadbah2/rakelog/internal/domain/models"
	"github.com/mamadbah2/rakelog/internal/observability/metrics"
	"github.com/mamadbah2/rakelog/internal/service/reporting"
	"github.com/mamadbah2/rakelog/internal/service/whatsapp"
)

// SummarySource computes the summary of one day's rakes.
type SummarySource interface {
	DailySummary(ctx context.Context, day time.Time) (models.DailySummary, error)
}

// SummaryStore persists computed summaries.
type SummaryStore interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	location *time.Location
	source   SummarySource
	store    SummaryStore
	notifier whatsapp.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance. store and notifier may be nil.
func NewScheduler(cfg config.ReportingConfig, source SummarySource, store SummaryStore, notifier whatsapp.Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	// 5 field cron spec evaluated in the plant's timezone
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:     c,
		schedule: cfg.CronSchedule,
		location: loc,
		source:   source,
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("daily_summary", s.schedule), zap.String("timezone", s.location.String()))

	if _, err := s.cron.AddFunc(s.schedule, s.sendDailySummary); err != nil {
		return fmt.Errorf("schedule daily summary %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := s.RunDailySummary(ctx)
	metrics.IncSummaryRun(metrics.Result(err))
	if err != nil {
		s.logger.Error("daily summary failed", zap.Error(err))
	}
}

// RunDailySummary summarizes the previous calendar day, stores it when a store
// is configured and, when a notifier is configured, posts it to the group. A failed notification is
// logged but does not fail the run.
func (s *Scheduler) RunDailySummary(ctx context.Context) error {
	day := s.now().In(s.location).AddDate(0, 0, -1)
	s.logger.Info("generating daily summary", zap.String("day", day.Format("2006-01-02")))

	summary, err := s.source.DailySummary(ctx, day)
	if err != nil {
		return fmt.Errorf("compute daily summary: %w", err)
	}

	if s.store != nil {
		if err := s.store.SaveDailySummary(ctx, summary); err != nil {
			return fmt.Errorf("save daily summary: %w", err)
		}
	}

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.NotifyGroup(ctx, reporting.FormatSummary(summary)); err != nil {
		s.logger.Warn("failed to send daily summary", zap.Error(err))
	} else {
		s.logger.Info("daily summary sent", zap.Int("rakes", summary.Rakes))
	}
	return nil
}
