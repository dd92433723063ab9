package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	clienterrors "github.com/drawmyfeelings/journey/client/internal/errors"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drawmyfeelings_client",
			Name:      "requests_total",
			Help:      "Generation service calls by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drawmyfeelings_client",
			Name:      "request_duration_seconds",
			Help:      "Generation service call latency.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
		},
		[]string{"endpoint"},
	)
)

// outcome maps err to a low-cardinality label.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if ce, ok := clienterrors.As(err); ok {
		return ce.Kind.String()
	}
	return "error"
}
