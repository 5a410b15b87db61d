package services

import "github.com/prometheus/client_golang/prometheus"

var (
	NotificationsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waitfaster",
			Subsystem: "notifications",
			Name:      "published_total",
			Help:      "Change notifications handed to the broker",
		},
		[]string{"event", "result"},
	)

	OrderItemTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "waitfaster",
			Subsystem: "orders",
			Name:      "item_transitions_total",
			Help:      "Order item status changes",
		},
		[]string{"from", "to"},
	)
)
