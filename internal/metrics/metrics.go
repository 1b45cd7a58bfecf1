package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency per route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RegistrationsTotal counts registration attempts by outcome.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellhub_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"result"},
	)

	// CancellationsTotal counts successful registration cancellations.
	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellhub_cancellations_total",
			Help: "Successful registration cancellations",
		},
	)

	// AttendanceMarkedTotal counts attendance marks by recorded status.
	AttendanceMarkedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellhub_attendance_marked_total",
			Help: "Attendance marks by status",
		},
		[]string{"status"},
	)
)
