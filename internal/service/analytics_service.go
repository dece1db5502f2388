package service

import (
	"context"
	"math"
	"time"

	"bookease-be/internal/dto"
	"bookease-be/internal/entity"
	"bookease-be/internal/mapper"
	"bookease-be/internal/repository/contract"
	"bookease-be/internal/repository/memory"
	"bookease-be/internal/repository/specification"
	"bookease-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	statsCacheKey     = "dashboard:stats"
	analyticsCacheKey = "dashboard:analytics"
	topServicesLimit  = 5
)

type IAnalyticsService interface {
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	Analytics(ctx context.Context) (*dto.AnalyticsResponse, error)
	Clients(ctx context.Context) ([]dto.ClientResponse, error)
}

type analyticsService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.StatsCache
	now        func() time.Time
}

func NewAnalyticsService(uowFactory unitofwork.RepositoryFactory, cache *memory.StatsCache) IAnalyticsService {
	return &analyticsService{
		uowFactory: uowFactory,
		cache:      cache,
		now:        time.Now,
	}
}

func (s *analyticsService) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(*dto.DashboardStatsResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.BookingRepository()

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	todayBookings, err := repo.Count(ctx,
		specification.BookingStartsBetween{From: today, To: today.AddDate(0, 0, 1)},
		specification.BookingWithStatus{Statuses: []string{string(entity.BookingStatusConfirmed)}},
	)
	if err != nil {
		return nil, err
	}

	byStatus, err := repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	revenue, err := repo.SumServicePrice(ctx, specification.BookingWithPaymentStatus{Status: string(entity.PaymentStatusPaid)})
	if err != nil {
		return nil, err
	}

	refunds, err := repo.SumRefundAmount(ctx, specification.BookingWithPaymentStatus{Status: string(entity.PaymentStatusRefunded)})
	if err != nil {
		return nil, err
	}

	activeClients, err := repo.CountDistinctCustomers(ctx, specification.BookingWithStatus{
		Statuses: []string{string(entity.BookingStatusPending), string(entity.BookingStatusConfirmed)},
	})
	if err != nil {
		return nil, err
	}

	recentCancellations, err := repo.Count(ctx,
		specification.BookingWithStatus{Statuses: []string{string(entity.BookingStatusCancelled)}},
		specification.BookingCancelledSince{Time: now.AddDate(0, 0, -30)},
	)
	if err != nil {
		return nil, err
	}

	cancelled := byStatus[string(entity.BookingStatusCancelled)]
	total := lo.Sum(lo.Values(byStatus))

	res := &dto.DashboardStatsResponse{
		TodayBookings:       todayBookings,
		ConfirmedBookings:   byStatus[string(entity.BookingStatusConfirmed)],
		PendingBookings:     byStatus[string(entity.BookingStatusPending)],
		CancelledBookings:   cancelled,
		TotalRevenue:        mapper.ToMajorUnits(revenue),
		TotalRefunds:        mapper.ToMajorUnits(refunds),
		ActiveClients:       activeClients,
		CancellationRate:    percentage(cancelled, total),
		RecentCancellations: recentCancellations,
	}
	s.cache.Set(statsCacheKey, res)
	return res, nil
}

func (s *analyticsService) Analytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	if cached, ok := s.cache.Get(analyticsCacheKey); ok {
		return cached.(*dto.AnalyticsResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.BookingRepository()

	year := s.now().UTC().Year()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	paid, err := repo.FindAllWithDetails(ctx,
		specification.BookingWithPaymentStatus{Status: string(entity.PaymentStatusPaid)},
		specification.BookingStartsBetween{From: yearStart, To: yearStart.AddDate(1, 0, 0)},
	)
	if err != nil {
		return nil, err
	}

	byMonth := lo.GroupBy(paid, func(b *entity.Booking) time.Month {
		return b.StartTime.UTC().Month()
	})
	revenueByMonth := make([]dto.MonthlyRevenue, 0, 12)
	for m := time.January; m <= time.December; m++ {
		revenue := lo.SumBy(byMonth[m], func(b *entity.Booking) int64 {
			if b.Service == nil {
				return 0
			}
			return b.Service.Price
		})
		revenueByMonth = append(revenueByMonth, dto.MonthlyRevenue{
			Month:   m.String()[:3],
			Revenue: mapper.ToMajorUnits(revenue),
		})
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	statuses := []entity.BookingStatus{
		entity.BookingStatusPending,
		entity.BookingStatusConfirmed,
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
	}
	bookingsByStatus := lo.Map(statuses, func(st entity.BookingStatus, _ int) dto.StatusCount {
		return dto.StatusCount{Status: string(st), Count: counts[string(st)]}
	})

	totals, err := repo.TotalsByService(ctx, topServicesLimit)
	if err != nil {
		return nil, err
	}
	topServices := lo.Map(totals, func(t contract.ServiceTotal, _ int) dto.TopService {
		return dto.TopService{
			ServiceId: t.ServiceId,
			Name:      t.ServiceName,
			Bookings:  t.BookingCount,
			Revenue:   mapper.ToMajorUnits(t.Revenue),
		}
	})

	res := &dto.AnalyticsResponse{
		RevenueByMonth:   revenueByMonth,
		BookingsByStatus: bookingsByStatus,
		TopServices:      topServices,
	}
	s.cache.Set(analyticsCacheKey, res)
	return res, nil
}

// Clients lists every customer with their paid booking count and spend.
func (s *analyticsService) Clients(ctx context.Context) ([]dto.ClientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	customers, err := uow.UserRepository().FindAll(ctx,
		specification.ByRole{Role: string(entity.UserRoleCustomer)},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	totals, err := uow.BookingRepository().TotalsByCustomer(ctx)
	if err != nil {
		return nil, err
	}
	byCustomer := lo.KeyBy(totals, func(t contract.CustomerTotal) uuid.UUID { return t.CustomerId })

	return lo.Map(customers, func(u *entity.User, _ int) dto.ClientResponse {
		t := byCustomer[u.Id]
		return dto.ClientResponse{
			Id:           u.Id,
			Email:        u.Email,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Phone:        u.Phone,
			BookingCount: t.BookingCount,
			TotalSpent:   mapper.ToMajorUnits(t.TotalSpent),
		}
	}), nil
}

// percentage returns part/total*100 rounded to two decimals.
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
