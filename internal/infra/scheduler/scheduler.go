package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"homework_status_bot/internal/app" // For NotificationService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StatusScheduler runs the homework status cycle on a fixed period.
// Cycles never overlap: a tick that fires while a cycle is running is skipped.
type StatusScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService
	logger       *logrus.Entry
	interval     time.Duration
	cycleTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStatusScheduler(
	notifService app.NotificationService,
	logger *logrus.Entry,
	interval time.Duration, // e.g. 10 * time.Minute
	cycleTimeout time.Duration, // upper bound for one cycle; defaults to interval
) *StatusScheduler {
	if cycleTimeout <= 0 {
		cycleTimeout = interval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &StatusScheduler{
		cronEngine:   cron.New(cron.WithLogger(cronLogger{logger})),
		notifService: notifService,
		logger:       logger,
		interval:     interval,
		cycleTimeout: cycleTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start registers the periodic job, runs the first cycle immediately and starts the cron engine.
func (s *StatusScheduler) Start() error {
	s.logger.WithField("interval", s.interval.String()).Info("Starting homework status scheduler...")

	cl := cronLogger{s.logger}
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(s.runCycle))

	if _, err := s.cronEngine.AddJob(fmt.Sprintf("@every %s", s.interval), job); err != nil {
		return fmt.Errorf("could not add homework status job: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()

	s.cronEngine.Start()
	s.logger.Info("Homework status scheduler started.")
	return nil
}

func (s *StatusScheduler) runCycle() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cycleTimeout)
	defer cancel()

	start := time.Now()
	err := s.notifService.RunCycle(ctx)
	logCtx := s.logger.WithField("duration", time.Since(start).String())
	if err != nil {
		// The service has already logged the cause.
		logCtx.Debug("Cycle finished with error")
		return
	}
	logCtx.Debug("Cycle finished")
}

// Stop cancels the running cycle, if any, and waits for it to return.
func (s *StatusScheduler) Stop() {
	s.logger.Info("Stopping homework status scheduler...")
	s.cancel()
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("Homework status scheduler gracefully stopped.")
}

// cronLogger adapts logrus to cron.Logger. Cron's chatty info messages go to debug.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithError(err).WithFields(fields(keysAndValues)).Error("cron: " + msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
