// Package scheduler runs the daily report job on a cron schedule evaluated
// in the business timezone.
package scheduler

import (
	"context"
	"time"

	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/service"
	"go-pos-inventory/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ReportGenerator is the part of the report service the scheduler drives.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context, date *time.Time) (*service.RunResult, error)
}

type Scheduler struct {
	cron *cron.Cron
	gen  ReportGenerator
	loc  *time.Location
	log  *logger.Logger
	now  func() time.Time

	// ctx is handed to every job run and cancelled by Stop.
	ctx    context.Context
	cancel context.CancelFunc
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New registers the daily job under spec, a standard 5-field cron
// expression. Nothing runs until Start.
func New(spec string, loc *time.Location, gen ReportGenerator, log *logger.Logger) (*Scheduler, error) {
	log = log.WithComponent("scheduler")
	cl := cronLogger{log: log}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		gen:    gen,
		loc:    loc,
		log:    log,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.ctx) }); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infow("report scheduler started", "timezone", s.loc.String())
}

// Stop prevents new runs and waits for a running job until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.cancel()
		s.log.Warnw("report job still running at shutdown, cancelled")
	}
	s.cancel()
}

// RunOnce generates the report of the business day that just ended.
// Failures are logged; the next tick proceeds normally.
func (s *Scheduler) RunOnce(ctx context.Context) {
	yesterday := s.now().In(s.loc).AddDate(0, 0, -1)

	date := yesterday.Format(model.DateLayout)

	result, err := s.gen.GenerateDailyReport(ctx, &yesterday)
	switch {
	case apperror.HasCode(err, apperror.CodeDuplicateReport):
		s.log.Infow("daily report already exists", "date", date)
	case err != nil:
		s.log.Errorw("scheduled daily report failed", "date", date, "error", err)
	default:
		s.log.Infow("scheduled daily report done", "date", result.Date, "state", result.State)
	}
}
