package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_events_published_total",
			Help: "Session events accepted for fan-out",
		},
		[]string{"type"},
	)
	ClientsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_clients_dropped_total",
			Help: "Observers dropped because they could not keep up",
		},
	)
	Observers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_observers",
			Help: "Currently subscribed observers across all sessions",
		},
	)
)

func init() {
	prometheus.MustRegister(EventsPublished)
	prometheus.MustRegister(ClientsDropped)
	prometheus.MustRegister(Observers)
}
