// Package services – order flow instrumentation.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// ordersPlaced counts confirmed order attempts by terminal status.
	ordersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Confirmed order attempts by terminal status (submitted/failed).",
		},
		[]string{"status"},
	)

	// ordersAmbiguous counts submissions the panel accepted at the transport
	// level without returning an order id. Every increment is a case for
	// manual reconciliation: the user was refunded, yet the panel may have
	// created the order server-side.
	ordersAmbiguous = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_ambiguous_total",
			Help: "Order submissions that were refunded because the panel returned no order id.",
		},
	)
)

func init() {
	prometheus.MustRegister(ordersPlaced, ordersAmbiguous)
}
