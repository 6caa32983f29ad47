package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GenerationsTotal counts generation requests by outcome: computed, empty,
// rejected or failed.
var GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "combinations_generations_total",
	Help: "Generation requests by outcome",
}, []string{"outcome"})

// CombinationsPerRequest observes how many combinations each computed
// request produced.
var CombinationsPerRequest = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "combinations_per_request",
	Help:    "Combinations produced per computed request",
	Buckets: prometheus.ExponentialBuckets(1, 4, 10),
})
