package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadflow",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leadflow",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "route"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "leadflow",
		Name:      "http_in_flight_requests",
		Help:      "Requests currently being served",
	})

	leadsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadflow",
		Name:      "leads_created_total",
		Help:      "Leads captured by source",
	}, []string{"source"})

	leadsAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leadflow",
		Name:      "leads_assigned_total",
		Help:      "Leads handed to clients",
	})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadflow",
		Name:      "notifications_total",
		Help:      "Notification attempts by kind and result",
	}, []string{"kind", "result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadflow",
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the rate limiter",
	}, []string{"path"})
)

// Metrics records request counts and latency labelled by the chi route
// pattern, so /api/admin/leads/{id} stays one series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inFlight.Inc()
		defer inFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}

		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func RecordLeadCreated(source string) {
	leadsCreated.WithLabelValues(source).Inc()
}

func RecordLeadAssigned() {
	leadsAssigned.Inc()
}

func RecordNotification(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	notificationsSent.WithLabelValues(kind, result).Inc()
}

func RecordRateLimited(path string) {
	rateLimited.WithLabelValues(path).Inc()
}
