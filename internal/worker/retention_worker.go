package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/logger"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultWindow   = 7 * 24 * time.Hour
	DefaultSchedule = "0 9 * * *" // every day at 09:00
)

type CompletedSweeper interface {
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) ([]*todo.Todo, error)
}

type CacheClearer interface {
	Clear(ctx context.Context) error
}

// RetentionWorker hard-deletes completed todos whose date is older than the
// retention window.
type RetentionWorker struct {
	repo     CompletedSweeper
	pages    CacheClearer
	window   time.Duration
	schedule cron.Schedule
	spec     string
	now      func() time.Time
}

func NewRetentionWorker(repo CompletedSweeper, pages CacheClearer, window *time.Duration, schedule *string) (*RetentionWorker, error) {
	windowToSet := DefaultWindow
	if window != nil {
		windowToSet = *window
	}
	if windowToSet <= 0 {
		return nil, fmt.Errorf("retention window must be positive, got %s", windowToSet)
	}

	specToSet := DefaultSchedule
	if schedule != nil {
		specToSet = *schedule
	}
	parsed, err := cron.ParseStandard(specToSet)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", specToSet, err)
	}

	return &RetentionWorker{
		repo:     repo,
		pages:    pages,
		window:   windowToSet,
		schedule: parsed,
		spec:     specToSet,
		now:      time.Now,
	}, nil
}

// Start blocks until ctx is cancelled, sweeping on every schedule tick.
func (w *RetentionWorker) Start(ctx context.Context) {
	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	c.Schedule(w.schedule, cron.FuncJob(func() { w.RunOnce(ctx) }))
	c.Start()
	logger.Info("Worker: retention sweeper scheduled",
		zap.String("schedule", w.spec),
		zap.Duration("window", w.window))

	<-ctx.Done()
	logger.Info("Worker: retention sweeper stopping")
	<-c.Stop().Done()
}

// RunOnce sweeps relative to the current time. Failures and panics are logged
// and swallowed so the schedule keeps running.
func (w *RetentionWorker) RunOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Worker: retention sweep panicked", fmt.Errorf("%v", r))
		}
	}()

	if _, err := w.Sweep(ctx, w.now()); err != nil {
		logger.Error("Worker: retention sweep failed", err)
	}
}

func (w *RetentionWorker) Sweep(ctx context.Context, now time.Time) ([]*todo.Todo, error) {
	start := time.Now()
	cutoff := now.Add(-w.window)

	deleted, err := w.repo.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("delete completed before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if len(deleted) > 0 && w.pages != nil {
		if err := w.pages.Clear(ctx); err != nil {
			logger.Warn("Worker: cache clear after sweep failed", zap.Error(err))
		}
	}

	logger.Info("Worker: retention sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int("deleted", len(deleted)),
		zap.Duration("ms", time.Since(start)))
	return deleted, nil
}

// cronLogger routes scheduler messages through the zap logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Logger.Sugar().Debugw("Worker: cron "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Logger.Sugar().Errorw("Worker: cron "+msg, append(keysAndValues, "error", err)...)
}
