package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checknotifier_notifications_total",
		Help: "Total number of notifications handled per notifier",
	},
	[]string{"notifier", "outcome"},
)

var DeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checknotifier_deliveries_total",
		Help: "Total number of per-destination deliveries",
	},
	[]string{"notifier", "outcome"},
)

var DeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "checknotifier_delivery_duration_seconds",
		Help:    "Histogram of per-destination delivery latencies",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"notifier"},
)

const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)
