package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enqueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_notification_enqueued_total",
		Help: "Notification events accepted into the dispatch queue.",
	})
	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_notification_dropped_total",
		Help: "Notification events dropped because the queue was full or closed.",
	})
	deliveryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_notification_delivery_total",
		Help: "Notification delivery attempts by outcome.",
	}, []string{"status"})
)
