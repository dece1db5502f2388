package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingCancellations counts finished cancellation attempts by actor role and outcome
	BookingCancellations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookings",
			Name:      "cancellations_total",
			Help:      "The total number of booking cancellation attempts",
		},
		[]string{"actor", "outcome"},
	)

	// RefundsIssued counts refund calls to the payment provider by result
	RefundsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "refunds_total",
			Help:      "The total number of refund attempts against the payment provider",
		},
		[]string{"provider", "result"},
	)

	// NotificationsFailed counts notifications that could not be delivered
	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notifications",
			Name:      "failed_total",
			Help:      "The total number of notification delivery failures",
		},
		[]string{"kind"},
	)

	// WebhooksReceived counts inbound payment webhooks by provider and how they were handled
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "webhooks_total",
			Help:      "The total number of payment provider webhooks received",
		},
		[]string{"provider", "result"},
	)
)
