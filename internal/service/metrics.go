package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	riskBundlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workup_risk_bundles_total",
		Help: "Risk bundle computations by algorithm version and outcome.",
	}, []string{"algorithm_version", "outcome"})

	riskLevelsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workup_risk_levels_total",
		Help: "Computed risk bundles by risk level.",
	}, []string{"risk_level"})

	workupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workup_evaluations_total",
		Help: "Workup evaluations by funnel, status and cache hit.",
	}, []string{"funnel", "status", "cached"})

	evaluationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workup_evaluation_duration_seconds",
		Help:    "Time spent in the scoring and sufficiency core.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
	}, []string{"kind"})
)

const (
	outcomeComputed       = "computed"
	outcomeRejected       = "rejected"
	outcomeUnknownVersion = "unknown_version"
)
