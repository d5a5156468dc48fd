// Package metrics exposes Prometheus instrumentation for the portal API.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	recordsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medical_records_uploaded_total",
			Help: "Total number of medical records uploaded",
		},
		[]string{"kind"},
	)

	reviewsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_reviews_finalized_total",
			Help: "Total number of record reviews finalized",
		},
		[]string{"kind"},
	)

	reviewConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "record_review_conflicts_total",
			Help: "Total number of finalize attempts rejected because another reviewer already claimed the record",
		},
	)

	appointmentsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_booked_total",
			Help: "Total number of appointment requests created",
		},
	)

	appointmentsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_scheduled_total",
			Help: "Total number of appointments confirmed by a doctor",
		},
	)

	inferenceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inference_requests_total",
			Help: "Total number of calls to the analysis service",
		},
		[]string{"endpoint", "status"},
	)

	inferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_request_duration_seconds",
			Help:    "Analysis service call duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// Middleware records request counts and latencies per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			// Route template, not the raw URL, to keep cardinality bounded.
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// --- Business metric helpers ---

// RecordUploaded records a medical record upload.
func RecordUploaded(kind string) {
	recordsUploaded.WithLabelValues(kind).Inc()
}

// ReviewFinalized records a completed review.
func ReviewFinalized(kind string) {
	reviewsFinalized.WithLabelValues(kind).Inc()
}

// ReviewConflict records a finalize rejected by the claim guard.
func ReviewConflict() {
	reviewConflicts.Inc()
}

// AppointmentBooked records an appointment request.
func AppointmentBooked() {
	appointmentsBooked.Inc()
}

// AppointmentScheduled records a doctor confirming an appointment.
func AppointmentScheduled() {
	appointmentsScheduled.Inc()
}

// InferenceRequest records a call to the analysis service.
func InferenceRequest(endpoint string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	inferenceRequests.WithLabelValues(endpoint, status).Inc()
	inferenceDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
