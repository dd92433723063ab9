package journey

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drawmyfeelings",
			Subsystem: "journey",
			Name:      "transitions_total",
			Help:      "State transitions by source and target state.",
		},
		[]string{"from", "to"},
	)

	staleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drawmyfeelings",
			Subsystem: "journey",
			Name:      "stale_responses_total",
			Help:      "Generation responses dropped because the call was no longer current.",
		},
		[]string{"request"},
	)

	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drawmyfeelings",
			Subsystem: "journey",
			Name:      "failures_total",
			Help:      "Surfaced generation failures by request and code.",
		},
		[]string{"request", "code"},
	)

	openJourneys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "drawmyfeelings",
			Subsystem: "journey",
			Name:      "open",
			Help:      "Journeys currently held by a registry.",
		},
	)
)
