// Package metrics exposes Prometheus collectors for the attendance pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "attendance_backend"

var (
	submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "attendance",
		Name:      "submissions_total",
		Help:      "Attendance submissions by kind and outcome (valid, outside_radius, rejected).",
	}, []string{"kind", "outcome"})

	locationSourceTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "attendance",
		Name:      "location_source_total",
		Help:      "Resolved attendance coordinates by source (photo or backup).",
	}, []string{"source"})

	distanceMeters = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "attendance",
		Name:      "distance_meters",
		Help:      "Distance between submissions and their company anchor.",
		Buckets:   []float64{10, 25, 50, 100, 200, 500, 1000, 5000, 20000},
	})

	validityOverridesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "attendance",
		Name:      "validity_overrides_total",
		Help:      "HR validity overrides by resulting value.",
	}, []string{"is_valid"})

	storeUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "up",
		Help:      "1 when the last health probe reached the store, 0 otherwise.",
	})

	storeProbeTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "last_probe_timestamp_seconds",
		Help:      "Unix timestamp of the most recent store health probe.",
	})

	eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Domain events handed to the broker, labeled by type and result.",
	}, []string{"type", "result"})
)

func init() {
	prometheus.MustRegister(
		submissionsTotal,
		locationSourceTotal,
		distanceMeters,
		validityOverridesTotal,
		storeUp,
		storeProbeTimestamp,
		eventsPublishedTotal,
	)
}

// RecordSubmission counts a recorded attendance event and observes its distance.
func RecordSubmission(kind string, source string, distance int, valid bool) {
	outcome := "valid"
	if !valid {
		outcome = "outside_radius"
	}
	submissionsTotal.WithLabelValues(kind, outcome).Inc()
	locationSourceTotal.WithLabelValues(source).Inc()
	distanceMeters.Observe(float64(distance))
}

// RecordRejectedSubmission counts submissions refused before anything was stored.
func RecordRejectedSubmission(kind string) {
	submissionsTotal.WithLabelValues(kind, "rejected").Inc()
}

func RecordValidityOverride(valid bool) {
	label := "false"
	if valid {
		label = "true"
	}
	validityOverridesTotal.WithLabelValues(label).Inc()
}

// RecordStoreProbe updates the store liveness gauges.
func RecordStoreProbe(up bool, at time.Time) {
	if up {
		storeUp.Set(1)
	} else {
		storeUp.Set(0)
	}
	storeProbeTimestamp.Set(float64(at.Unix()))
}

func RecordEventPublished(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	eventsPublishedTotal.WithLabelValues(eventType, result).Inc()
}
