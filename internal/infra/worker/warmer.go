package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Target is the cache to warm. news.Service satisfies it.
type Target interface {
	Warm(ctx context.Context) (articles int, ok bool)
}

// Warmer triggers Target.Warm on a cron schedule. Runs never overlap: a tick
// that fires while the previous run is still active is skipped.
type Warmer struct {
	target  Target
	config  WarmerConfig
	metrics *WarmerMetrics
	logger  *slog.Logger

	cron    *cron.Cron
	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewWarmer validates the configured timezone and builds the scheduler.
// metrics may be nil.
func NewWarmer(target Target, cfg WarmerConfig, metrics *WarmerMetrics, logger *slog.Logger) (*Warmer, error) {
	if target == nil {
		return nil, errors.New("warmer target is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultWarmerConfig().Timeout
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load warmer timezone %q: %w", tz, err)
	}

	cl := cronLogger{logger: logger}
	return &Warmer{
		target:  target,
		config:  cfg,
		metrics: metrics,
		logger:  logger,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
	}, nil
}

// Start schedules warm-up runs. Runs inherit ctx values and stop when ctx is
// cancelled. It is a no-op when no schedule is configured.
func (w *Warmer) Start(ctx context.Context) error {
	if !w.config.Enabled() {
		w.logger.Info("cache warm-up disabled")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	if _, err := w.cron.AddFunc(w.config.Schedule, func() { w.RunOnce(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule cache warm-up: %w", err)
	}

	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.cron.Start()
	w.logger.Info("cache warm-up scheduled",
		slog.String("schedule", w.config.Schedule),
		slog.String("timezone", w.cron.Location().String()),
		slog.Duration("timeout", w.config.Timeout))
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish or ctx to end,
// whichever comes first. The in-flight run is cancelled when ctx ends.
func (w *Warmer) Stop(ctx context.Context) error {
	done := w.cron.Stop().Done()

	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()

	select {
	case <-done:
		if cancel != nil {
			cancel()
		}
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		return ctx.Err()
	}
}

// RunOnce performs one warm-up bounded by the configured timeout. It reports
// false without running when another run is in progress.
func (w *Warmer) RunOnce(ctx context.Context) bool {
	if !w.running.CompareAndSwap(false, true) {
		w.metrics.recordSkip()
		w.logger.Warn("cache warm-up skipped: previous run still in progress")
		return false
	}
	defer w.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	start := time.Now()
	articles, ok := w.target.Warm(ctx)
	elapsed := time.Since(start)
	w.metrics.recordRun(elapsed.Seconds(), articles, ok)

	attrs := []any{
		slog.Int("articles", articles),
		slog.Duration("duration", elapsed),
	}
	if !ok {
		w.logger.Warn("cache warm-up failed: no provider answered", attrs...)
		return true
	}
	w.logger.Info("cache warm-up completed", attrs...)
	return true
}

// cronLogger routes scheduler messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
