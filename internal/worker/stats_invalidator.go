package worker

import (
	"context"

	"bookease-be/internal/pkg/logger"
	"bookease-be/pkg/events"
)

// Flusher drops cached aggregates.
type Flusher interface {
	Flush()
}

// StatsInvalidator flushes this process's dashboard cache when any replica
// reports a booking change on the event stream.
type StatsInvalidator struct {
	cache  Flusher
	logger logger.ILogger
}

func NewStatsInvalidator(cache Flusher, logger logger.ILogger) *StatsInvalidator {
	return &StatsInvalidator{cache: cache, logger: logger}
}

func (w *StatsInvalidator) Handle(_ context.Context, event events.Event) error {
	w.cache.Flush()
	w.logger.Debug("STATS", "Dashboard cache flushed", map[string]interface{}{"event": event.EventType()})
	return nil
}
