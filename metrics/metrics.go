// Package metrics exposes Prometheus collectors for the site server and the
// form backend.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission results recorded by ObserveSubmission.
const (
	ResultAccepted    = "accepted"
	ResultInvalid     = "invalid"
	ResultUnknownForm = "unknown_form"
	ResultError       = "error"
)

var (
	// TotalRequests counts HTTP requests by route pattern.
	TotalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration measures request latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// RequestsInFlight tracks requests currently being served.
	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Submissions counts form submissions received by the backend.
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_form_submissions_total",
			Help: "Form submissions received, by form name and result",
		},
		[]string{"form", "result"},
	)

	// ArchiveFailures counts submissions a sink failed to archive.
	ArchiveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_archive_failures_total",
			Help: "Submissions that could not be archived",
		},
	)

	// RateLimitHits counts requests rejected by a rate limiter.
	RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_rate_limit_hits_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	// PostsLoaded reports how many posts the last content load produced.
	PostsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_posts_loaded",
			Help: "Number of posts in the content cache",
		},
	)
)

func init() {
	prometheus.MustRegister(TotalRequests)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RequestsInFlight)
	prometheus.MustRegister(Submissions)
	prometheus.MustRegister(ArchiveFailures)
	prometheus.MustRegister(RateLimitHits)
	prometheus.MustRegister(PostsLoaded)
}

// Middleware records request count and latency per route pattern. Requests
// for the metrics endpoint itself are skipped.
func Middleware(path string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == path {
				return next(c)
			}
			start := time.Now()
			RequestsInFlight.Inc()
			defer RequestsInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			TotalRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ObserveSubmission records a form submission result.
func ObserveSubmission(form, result string) {
	Submissions.WithLabelValues(form, result).Inc()
}

// IncrementRateLimitHits records a rejected request for the named limiter.
func IncrementRateLimitHits(limiter string) {
	RateLimitHits.WithLabelValues(limiter).Inc()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
