package worker

import (
	"context"
	"testing"
	"time"

	"bookease-be/internal/pkg/logger"
	"bookease-be/internal/repository/memory"
	"bookease-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsInvalidator_FlushesOnAnyBookingEvent(t *testing.T) {
	cache := memory.NewStatsCache(time.Minute)
	cache.Set("dashboard:stats", 42)

	w := NewStatsInvalidator(cache, logger.NewNopLogger())
	require.NoError(t, w.Handle(context.Background(), events.BaseEvent{Type: events.BookingCancelled}))

	_, ok := cache.Get("dashboard:stats")
	assert.False(t, ok)
}
