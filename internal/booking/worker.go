package booking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CompletionSweeper periodically flags finished reservations as done.
type CompletionSweeper struct {
	service  Service
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewCompletionSweeper creates a sweeper. A non-positive interval disables it.
func NewCompletionSweeper(service Service, interval time.Duration, logger *zap.Logger) *CompletionSweeper {
	return &CompletionSweeper{
		service:  service,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in the background.
func (w *CompletionSweeper) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("Completion sweeper disabled")
		return
	}
	w.logger.Info("Starting completion sweeper", zap.Duration("interval", w.interval))
	w.started = true
	go w.run(ctx)
}

// Stop ends the sweep loop and waits for an in-flight sweep to finish.
// It is safe to call more than once, and after the context was cancelled.
func (w *CompletionSweeper) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	if w.started {
		<-w.done
	}
}

func (w *CompletionSweeper) run(ctx context.Context) {
	defer close(w.done)

	// First sweep right away at startup
	w.Sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-w.stopChan:
			w.logger.Info("Completion sweeper stopped")
			return
		case <-ctx.Done():
			w.logger.Info("Completion sweeper cancelled")
			return
		}
	}
}

// Sweep runs one pass and returns how many reservations were completed.
func (w *CompletionSweeper) Sweep(ctx context.Context) int64 {
	n, err := w.service.CompletePast(ctx)
	if err != nil {
		w.logger.Error("Failed to mark past reservations as done", zap.Error(err))
		return 0
	}
	if n > 0 {
		w.logger.Info("Marked past reservations as done", zap.Int64("count", n))
	}
	return n
}
