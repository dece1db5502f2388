package dto

import "github.com/google/uuid"

// Money values in this file are major units.

type DashboardStatsResponse struct {
	TodayBookings       int64   `json:"todayBookings"`
	ConfirmedBookings   int64   `json:"confirmedBookings"`
	PendingBookings     int64   `json:"pendingBookings"`
	CancelledBookings   int64   `json:"cancelledBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalRefunds        float64 `json:"totalRefunds"`
	ActiveClients       int64   `json:"activeClients"`
	CancellationRate    float64 `json:"cancellationRate"`
	RecentCancellations int64   `json:"recentCancellations"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TopService struct {
	ServiceId uuid.UUID `json:"serviceId"`
	Name      string    `json:"name"`
	Bookings  int64     `json:"bookings"`
	Revenue   float64   `json:"revenue"`
}

type AnalyticsResponse struct {
	RevenueByMonth   []MonthlyRevenue `json:"revenueByMonth"`
	BookingsByStatus []StatusCount    `json:"bookingsByStatus"`
	TopServices      []TopService     `json:"topServices"`
}

type ClientResponse struct {
	Id           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        *string   `json:"phone,omitempty"`
	BookingCount int64     `json:"bookingCount"`
	TotalSpent   float64   `json:"totalSpent"`
}
