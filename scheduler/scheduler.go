package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"venue_pos/model"
	"venue_pos/realtime"
)

const taskTimeout = time.Minute

type Reports interface {
	DailySummary(ctx context.Context, day time.Time) (*model.DailySummary, error)
	LowStock(ctx context.Context, threshold int) ([]model.LowStockItem, error)
}

type SummaryMailer interface {
	SendDailySummary(summary *model.DailySummary) error
}

// Scheduler runs the end-of-day summary and the low stock watch.
type Scheduler struct {
	reports   Reports
	mailer    SummaryMailer
	notifier  *realtime.Notifier
	log       *zap.Logger
	threshold int
	now       func() time.Time

	daily gocron.Scheduler
	watch *cron.Cron
}

// New builds a scheduler; mailer may be nil when SMTP is not configured.
func New(reports Reports, mailer SummaryMailer, notifier *realtime.Notifier, threshold int, log *zap.Logger) *Scheduler {
	return &Scheduler{
		reports:   reports,
		mailer:    mailer,
		notifier:  notifier,
		log:       log,
		threshold: threshold,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the daily summary at hour:minute UTC and the stock watch on
// the given cron spec.
func (s *Scheduler) Start(hour, minute uint, lowStockSpec string) error {
	daily, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return err
	}
	_, err = daily.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(hour, minute, 0),
			),
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
			defer cancel()
			_, _ = s.RunDailySummary(ctx)
		}),
		gocron.WithName("daily-summary"),
	)
	if err != nil {
		_ = daily.Shutdown()
		return fmt.Errorf("schedule daily summary: %w", err)
	}

	watch := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	_, err = watch.AddFunc(lowStockSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()
		_, _ = s.RunLowStockWatch(ctx)
	})
	if err != nil {
		_ = daily.Shutdown()
		return fmt.Errorf("schedule low stock watch %q: %w", lowStockSpec, err)
	}

	s.daily, s.watch = daily, watch
	daily.Start()
	watch.Start()
	s.log.Info("scheduler started",
		zap.String("daily_summary_at", fmt.Sprintf("%02d:%02d UTC", hour, minute)),
		zap.String("low_stock_cron", lowStockSpec))
	return nil
}

func (s *Scheduler) Shutdown() error {
	if s.watch != nil {
		<-s.watch.Stop().Done()
	}
	if s.daily != nil {
		return s.daily.Shutdown()
	}
	return nil
}

// RunDailySummary totals today's orders and payments, logs them and mails
// them when a mailer is set.
func (s *Scheduler) RunDailySummary(ctx context.Context) (*model.DailySummary, error) {
	summary, err := s.reports.DailySummary(ctx, s.now())
	if err != nil {
		s.log.Error("daily summary failed", zap.Error(err))
		return nil, err
	}
	s.log.Info("daily summary",
		zap.String("date", summary.Date),
		zap.Int64("orders", summary.OrdersPlaced),
		zap.Int("payments", summary.PaymentsCount),
		zap.String("payments_total", summary.PaymentsTotal.StringFixed(2)),
		zap.Int("refunds", summary.RefundsCount),
		zap.String("net", summary.Net().StringFixed(2)))

	if s.mailer != nil {
		if err := s.mailer.SendDailySummary(summary); err != nil {
			s.log.Error("daily summary mail failed", zap.Error(err))
		}
	}
	return summary, nil
}

// RunLowStockWatch reports tracked entries at or below the threshold.
func (s *Scheduler) RunLowStockWatch(ctx context.Context) ([]model.LowStockItem, error) {
	items, err := s.reports.LowStock(ctx, s.threshold)
	if err != nil {
		s.log.Error("low stock watch failed", zap.Error(err))
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}
	for _, item := range items {
		s.log.Warn("low stock", zap.Uint("item_id", item.ID), zap.String("name", item.Name), zap.Int("stock", item.Stock))
	}
	s.notifier.Notify(ctx, realtime.LowStock(items, s.now()))
	return items, nil
}
