package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRateLimitRejectsWith429(t *testing.T) {
	lim := &stubLimiter{allow: false}
	h := RateLimit(lim, zap.NewNop())(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.RemoteAddr = "203.0.113.7:51000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Too many requests. Please try again later."}`, w.Body.String())
	assert.Equal(t, []string{"203.0.113.7"}, lim.keys)
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := RateLimit(&stubLimiter{err: errors.New("redis down")}, zap.NewNop())(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/leads/landing", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdminToken(t *testing.T) {
	h := AdminToken("s3cret")(okHandler)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
		{"not bearer", "s3cret", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAdminTokenDisabledWhenEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	AdminToken("")(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(leadsCreated.WithLabelValues("landing_page"))
	RecordLeadCreated("landing_page")
	assert.Equal(t, before+1, testutil.ToFloat64(leadsCreated.WithLabelValues("landing_page")))

	failed := testutil.ToFloat64(notificationsSent.WithLabelValues("new_lead_email", "failed"))
	RecordNotification("new_lead_email", false)
	assert.Equal(t, failed+1, testutil.ToFloat64(notificationsSent.WithLabelValues("new_lead_email", "failed")))
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/admin/leads/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := requestsTotal.WithLabelValues(http.MethodGet, "/api/admin/leads/{id}", "418")
	before := testutil.ToFloat64(counter)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/leads/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/leads/def", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
