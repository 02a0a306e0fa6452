// Package metrics holds the domain counters exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warteg_orders_created_total",
			Help: "Orders placed at checkout, by payment method",
		},
		[]string{"payment_method"},
	)

	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warteg_order_status_transitions_total",
			Help: "Order status changes, by target status",
		},
		[]string{"status"},
	)

	PaymentsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "warteg_payments_confirmed_total",
			Help: "Manual payment confirmations that moved an order to PAID",
		},
	)

	InsightRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warteg_insight_requests_total",
			Help: "Upstream insight calls, by outcome",
		},
		[]string{"outcome"},
	)
)
