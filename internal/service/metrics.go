package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	NumbersCalled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bingo_numbers_called_total",
			Help: "Numbers drawn, by source (manual or auto)",
		},
		[]string{"source"},
	)
	Claims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bingo_claims_total",
			Help: "Bingo claims by outcome",
		},
		[]string{"result"},
	)
	RaceRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bingo_call_race_retries_total",
			Help: "Conditional draw appends that lost a race and were retried",
		},
	)
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bingo_session_transitions_total",
			Help: "Session state transitions by target status",
		},
		[]string{"status"},
	)
	AutoCallActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bingo_auto_call_active",
			Help: "Sessions with auto-call currently enabled",
		},
	)
)

func init() {
	prometheus.MustRegister(NumbersCalled)
	prometheus.MustRegister(Claims)
	prometheus.MustRegister(RaceRetries)
	prometheus.MustRegister(Transitions)
	prometheus.MustRegister(AutoCallActive)
}
