package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
)

// Manager holds the custom Prometheus metrics for the application.
type Manager struct {
	Registry                *prometheus.Registry
	CampgroundsCreatedTotal prometheus.Counter
	CampgroundUpdatesTotal  prometheus.Counter
	CampgroundDeletesTotal  prometheus.Counter
	ReviewsCreatedTotal     prometheus.Counter
	ReviewDeletesTotal      prometheus.Counter
	UsersRegisteredTotal    prometheus.Counter
	HTTPErrorsTotal         *prometheus.CounterVec
	HTTPRequestLatency      *prometheus.HistogramVec
}

// NewManager initializes and registers the application metrics on a
// dedicated registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	campgroundsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "campgrounds_created_total",
		Help:      "Total number of campgrounds created.",
	})
	campgroundUpdates := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "campground_updates_total",
		Help:      "Total number of campgrounds updated.",
	})
	campgroundDeletes := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "campground_deletes_total",
		Help:      "Total number of campgrounds deleted (including cascaded reviews).",
	})
	reviewsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	})
	reviewDeletes := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "review_deletes_total",
		Help:      "Total number of reviews deleted.",
	})
	usersRegistered := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "users_registered_total",
		Help:      "Total number of registered users.",
	})
	httpErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses by route and class.",
	}, []string{"route", "error_type"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		campgroundsCreated,
		campgroundUpdates,
		campgroundDeletes,
		reviewsCreated,
		reviewDeletes,
		usersRegistered,
		httpErrors,
		httpLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:                registry,
		CampgroundsCreatedTotal: campgroundsCreated,
		CampgroundUpdatesTotal:  campgroundUpdates,
		CampgroundDeletesTotal:  campgroundDeletes,
		ReviewsCreatedTotal:     reviewsCreated,
		ReviewDeletesTotal:      reviewDeletes,
		UsersRegisteredTotal:    usersRegistered,
		HTTPErrorsTotal:         httpErrors,
		HTTPRequestLatency:      httpLatency,
	}
}

// StartMetricsServer exposes the registry on /metrics over its own port.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
