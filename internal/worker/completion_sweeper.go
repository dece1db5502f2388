package worker

import (
	"context"
	"time"

	"bookease-be/internal/pkg/logger"
)

// Completer moves ended bookings to COMPLETED.
type Completer interface {
	CompleteEnded(ctx context.Context) (int64, error)
}

// CompletionSweeper runs Completer on a fixed interval until its context ends.
type CompletionSweeper struct {
	completer Completer
	interval  time.Duration
	logger    logger.ILogger
}

func NewCompletionSweeper(completer Completer, interval time.Duration, logger logger.ILogger) *CompletionSweeper {
	return &CompletionSweeper{
		completer: completer,
		interval:  interval,
		logger:    logger,
	}
}

func (w *CompletionSweeper) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("SWEEPER", "Completion sweeper disabled", nil)
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CompletionSweeper) sweep(ctx context.Context) {
	if _, err := w.completer.CompleteEnded(ctx); err != nil {
		w.logger.Error("SWEEPER", "Completion sweep failed", map[string]interface{}{"error": err.Error()})
	}
}
