package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hamed0406/httping/internal/domain"
)

var (
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httping_probes_total",
			Help: "Reachability probes served, by final method and outcome",
		},
		[]string{"method", "outcome"},
	)

	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httping_probe_duration_seconds",
			Help:    "Response time of reachable probes",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method"},
	)

	RedirectsFollowed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "httping_redirects_followed",
			Help:    "Redirects followed per probe",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
	)
)

// Observe records one probe result. Failures are labelled by error kind.
func Observe(r domain.ProbeResult) {
	outcome := "reachable"
	if !r.Reachable {
		outcome = string(r.ErrorKind)
		if outcome == "" {
			outcome = "unreachable"
		}
	}
	method := r.Method
	if method == "" {
		method = "none"
	}
	ProbesTotal.WithLabelValues(method, outcome).Inc()
	RedirectsFollowed.Observe(float64(r.Redirects))
	if r.Reachable && r.ResponseTime != nil {
		ProbeDuration.WithLabelValues(method).Observe(r.ResponseTime.Seconds())
	}
}
