package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "parkshare", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "parkshare",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	BookingEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "parkshare", Name: "booking_events_total", Help: "Booking state changes by event type"},
		[]string{"event"},
	)
	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "parkshare", Name: "websocket_clients", Help: "Connected websocket clients"})
)
