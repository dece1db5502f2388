package service

import (
	"context"
	"testing"
	"time"

	"bookease-be/internal/entity"
	"bookease-be/internal/pkg/testdb"
	"bookease-be/internal/repository/memory"
	"bookease-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	assert.Zero(t, percentage(0, 0))
	assert.Equal(t, 33.33, percentage(1, 3))
	assert.Equal(t, 66.67, percentage(2, 3))
	assert.Equal(t, 100.0, percentage(4, 4))
}

func TestAnalytics_DashboardStats(t *testing.T) {
	db := testdb.New(t)
	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

	alice := testdb.CreateUser(t, db, entity.UserRoleCustomer)
	bob := testdb.CreateUser(t, db, entity.UserRoleCustomer)
	svc := testdb.CreateService(t, db, 4000, 24, 25)

	testdb.CreateBooking(t, db, alice, svc, now.Add(3*time.Hour), testdb.Paid("cs_1"))
	testdb.CreateBooking(t, db, bob, svc, now.Add(26*time.Hour), func(b *entity.Booking) {
		b.Status = entity.BookingStatusPending
	})
	testdb.CreateBooking(t, db, bob, svc, now.Add(5*time.Hour), func(b *entity.Booking) {
		cancelledAt := now.Add(-time.Hour)
		b.Status = entity.BookingStatusCancelled
		b.PaymentStatus = entity.PaymentStatusRefunded
		b.RefundAmount = 3000
		b.CancelledAt = &cancelledAt
	})

	cache := memory.NewStatsCache(time.Minute)
	analytics := NewAnalyticsService(unitofwork.NewRepositoryFactory(db), cache).(*analyticsService)
	analytics.now = func() time.Time { return now }

	stats, err := analytics.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TodayBookings)
	assert.Equal(t, int64(1), stats.ConfirmedBookings)
	assert.Equal(t, int64(1), stats.PendingBookings)
	assert.Equal(t, int64(1), stats.CancelledBookings)
	assert.Equal(t, 40.0, stats.TotalRevenue)
	assert.Equal(t, 30.0, stats.TotalRefunds)
	assert.Equal(t, int64(2), stats.ActiveClients)
	assert.Equal(t, 33.33, stats.CancellationRate)
	assert.Equal(t, int64(1), stats.RecentCancellations)

	cached, ok := cache.Get(statsCacheKey)
	require.True(t, ok)
	assert.Same(t, stats, cached)

	clients, err := analytics.Clients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	for _, c := range clients {
		if c.Id == alice.Id {
			assert.Equal(t, int64(1), c.BookingCount)
			assert.Equal(t, 40.0, c.TotalSpent)
		} else {
			assert.Zero(t, c.BookingCount)
		}
	}

	report, err := analytics.Analytics(context.Background())
	require.NoError(t, err)
	require.Len(t, report.RevenueByMonth, 12)
	assert.Equal(t, "Jun", report.RevenueByMonth[5].Month)
	assert.Equal(t, 40.0, report.RevenueByMonth[5].Revenue)
	require.Len(t, report.TopServices, 1)
	assert.Equal(t, int64(3), report.TopServices[0].Bookings)
}
