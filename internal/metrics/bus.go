package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event bus metrics
var (
	// EventsPublishedTotal counts domain events published to the bus by type
	EventsPublishedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of domain events published to the event bus",
		},
		[]string{"type"},
	)

	// BusSubscribers tracks the current number of active bus subscribers
	BusSubscribers = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_bus_subscribers",
			Help:      "Current number of active event bus subscribers",
		},
	)

	// BusSubscribersDroppedTotal counts subscribers dropped for lagging
	// past the bus backlog capacity
	BusSubscribersDroppedTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_bus_subscribers_dropped_total",
			Help:      "Total number of subscribers dropped after overflowing their backlog",
		},
	)
)
