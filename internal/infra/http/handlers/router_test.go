package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/memory"
	"github.com/xavierca1/leadflow/internal/infra/queue"
	"github.com/xavierca1/leadflow/internal/infra/ratelimit"
	"github.com/xavierca1/leadflow/internal/usecase"
	"github.com/xavierca1/leadflow/internal/validation"
)

const (
	testAdminToken    = "admin-token"
	testWebhookSecret = "hook-secret"
)

type testServer struct {
	handler    http.Handler
	dispatcher *usecase.Dispatcher
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter) *testServer {
	t.Helper()
	log := zap.NewNop()

	leads := memory.NewLeadRepository()
	categories := memory.NewCategoryRepository()
	users := memory.NewUserRepository()
	contacts := memory.NewContactRepository()

	v := validation.New()
	events := queue.NopPublisher{}
	dispatcher := usecase.NewDispatcher(time.Second, log)
	notifier := usecase.NewNotifier(nil, nil, usecase.NotifierConfig{SiteName: "Leadflow"}, log)

	status := usecase.NewLeadStatusUseCase(leads, events, v, log)
	routes := Routes{
		Leads: NewLeadHandler(
			usecase.NewLandingIntake(leads, notifier, events, dispatcher, log),
			usecase.NewAdminIntake(leads, categories, v, notifier, events, dispatcher, log),
			usecase.NewManageLeadsUseCase(leads, categories, status, v),
			usecase.NewAssignLeadUseCase(leads, users, notifier, events, v, log),
			log,
		),
		Contacts:       NewContactHandler(usecase.NewSubmitContactUseCase(contacts, notifier, dispatcher, v, log), log),
		Categories:     NewCategoryHandler(usecase.NewManageCategoriesUseCase(categories, v), log),
		Users:          NewUserHandler(usecase.NewManageUsersUseCase(users, v), log),
		Webhook:        NewWebhookHandler(status, testWebhookSecret, log),
		Health:         NewHealthHandler("test", map[string]Check{"rabbitmq": nil}),
		Limiter:        limiter,
		AdminToken:     testAdminToken,
		AllowedOrigins: []string{"*"},
		Log:            log,
	}

	srv := &testServer{handler: NewRouter(routes), dispatcher: dispatcher}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.dispatcher.Wait(ctx)
	})
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) admin(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	return s.do(t, method, path, body, map[string]string{"Authorization": "Bearer " + testAdminToken})
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLandingLeadEndToEnd(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.do(t, http.MethodPost, "/api/leads/landing", map[string]any{
		"name":  "Dana",
		"phone": "050-1234567",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[CaptureLeadResponse](t, w)
	assert.True(t, created.Success)
	require.NotEmpty(t, created.ID)

	w = srv.admin(t, http.MethodGet, "/api/admin/leads/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	lead := decode[map[string]any](t, w)
	assert.Equal(t, "new", lead["status"])
	assert.Equal(t, "landing_page", lead["source"])
	assert.Contains(t, lead, "assigned_to")
	assert.Nil(t, lead["assigned_to"])
	assert.Nil(t, lead["category_id"])
}

func TestLandingLeadRejectsMissingPhone(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.do(t, http.MethodPost, "/api/leads/landing", map[string]any{"name": "Dana"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "Name and phone are required", body["error"])
}

func TestLandingLeadRejectsBadPhone(t *testing.T) {
	for _, phone := range []string{"050-123", "call me at 1 2 3 4 5 6 7 8 9 please!!"} {
		t.Run(phone, func(t *testing.T) {
			srv := newTestServer(t, ratelimit.Nop{})

			w := srv.do(t, http.MethodPost, "/api/leads/landing", map[string]any{"name": "Dana", "phone": phone}, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Invalid phone number"}`, w.Body.String())
		})
	}
}

func TestLandingRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	req := httptest.NewRequest(http.MethodPost, "/api/leads/landing", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactShortMessage(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.do(t, http.MethodPost, "/api/contact", map[string]any{
		"name":    "Yossi",
		"email":   "yossi@example.com",
		"phone":   "050-1234567",
		"message": "hello",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errorResponse](t, w)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.Details, validation.FieldError{
		Field:   "message",
		Message: "message must be at least 10 characters long",
	})
}

func TestContactAccepted(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.do(t, http.MethodPost, "/api/contact", map[string]any{
		"name":    "Yossi",
		"email":   "yossi@example.com",
		"phone":   "050-1234567",
		"message": "I would like to hear about your packages",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"Message sent successfully"}`, w.Body.String())

	w = srv.admin(t, http.MethodGet, "/api/admin/contacts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestPublicEndpointsAreRateLimited(t *testing.T) {
	srv := newTestServer(t, ratelimit.NewMemory(1, time.Minute))
	body := map[string]any{"name": "Dana", "phone": "050-1234567"}

	first := srv.do(t, http.MethodPost, "/api/leads/landing", body, nil)
	second := srv.do(t, http.MethodPost, "/api/leads/landing", body, nil)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.do(t, http.MethodGet, "/api/admin/leads", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLeadValidation(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.admin(t, http.MethodPost, "/api/admin/leads", map[string]any{
		"customer_name":  "Avi",
		"customer_phone": "abc",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errorResponse](t, w)
	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "customer_phone")
	assert.Contains(t, fields, "category_id")
}

func TestUnknownLeadIs404(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.admin(t, http.MethodGet, "/api/admin/leads/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, usecase.CodeNotFound, decode[errorResponse](t, w).Code)
}

// landAndAssign creates a landing lead and assigns it to a fresh client.
func landAndAssign(t *testing.T, srv *testServer) (leadID string) {
	t.Helper()

	w := srv.do(t, http.MethodPost, "/api/leads/landing", map[string]any{"name": "Dana", "phone": "050-1234567"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	leadID = decode[CaptureLeadResponse](t, w).ID

	w = srv.admin(t, http.MethodPost, "/api/admin/users", map[string]any{
		"name":         "Client Co",
		"email":        "client@example.com",
		"package_type": "enterprise",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	client := decode[entity.User](t, w)
	assert.Equal(t, entity.Unlimited, client.MonthlyLeadLimit)
	assert.True(t, client.IsVIP)

	w = srv.admin(t, http.MethodPost, "/api/admin/leads/"+leadID+"/assign", map[string]any{"client_id": client.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode[usecase.AssignOutput](t, w)
	assert.Equal(t, entity.LeadStatusSent, out.Lead.Status)
	require.NotNil(t, out.Lead.AssignedTo)
	assert.Equal(t, client.ID, *out.Lead.AssignedTo)
	assert.NotEmpty(t, out.Warnings, "no email transport configured")
	return leadID
}

func TestAssignTwiceConflicts(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})
	leadID := landAndAssign(t, srv)

	w := srv.admin(t, http.MethodGet, "/api/admin/users", nil)
	users := decode[[]entity.User](t, w)
	require.Len(t, users, 1)

	w = srv.admin(t, http.MethodPost, "/api/admin/leads/"+leadID+"/assign", map[string]any{"client_id": users[0].ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, usecase.CodeConflict, decode[errorResponse](t, w).Code)
}

func TestLeadStats(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})
	landAndAssign(t, srv)
	srv.do(t, http.MethodPost, "/api/leads/landing", map[string]any{"name": "Noa", "phone": "052-7654321"}, nil)

	w := srv.admin(t, http.MethodGet, "/api/admin/leads/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[usecase.LeadStats](t, w)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus[entity.LeadStatusNew])
	assert.Equal(t, int64(1), stats.ByStatus[entity.LeadStatusSent])
}

func TestListLeadsRejectsBadPaging(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.admin(t, http.MethodGet, "/api/admin/leads?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPackagesTable(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.admin(t, http.MethodGet, "/api/admin/packages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	table := decode[map[string]entity.PackageDefaults](t, w)
	assert.Equal(t, entity.PackageDefaults{MonthlyLeadLimit: -1, CategoriesAllowed: -1, IsVIP: true}, table["enterprise"])
}

func TestCategoryLifecycle(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.admin(t, http.MethodPost, "/api/admin/categories", map[string]any{
		"name_he": "שיפוצים",
		"name_en": "Renovation",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cat := decode[entity.Category](t, w)

	w = srv.admin(t, http.MethodDelete, "/api/admin/categories/"+cat.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = srv.admin(t, http.MethodGet, "/api/admin/categories?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]entity.Category](t, w))
}

func TestWebhookSignature(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})
	leadID := landAndAssign(t, srv)

	post := func(body []byte, sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/leads", bytes.NewReader(body))
		if sig != "" {
			req.Header.Set(SignatureHeader, sig)
		}
		w := httptest.NewRecorder()
		srv.handler.ServeHTTP(w, req)
		return w
	}

	t.Run("missing signature", func(t *testing.T) {
		body := []byte(`{"lead_id":"` + leadID + `","event":"converted"}`)
		assert.Equal(t, http.StatusUnauthorized, post(body, "").Code)
	})

	t.Run("tampered body", func(t *testing.T) {
		signed := []byte(`{"lead_id":"` + leadID + `","event":"returned"}`)
		sent := []byte(`{"lead_id":"` + leadID + `","event":"converted"}`)
		assert.Equal(t, http.StatusUnauthorized, post(sent, Sign(signed, testWebhookSecret)).Code)
	})

	t.Run("unknown lead", func(t *testing.T) {
		body := []byte(`{"lead_id":"nope","event":"converted"}`)
		assert.Equal(t, http.StatusNotFound, post(body, Sign(body, testWebhookSecret)).Code)
	})

	t.Run("converted", func(t *testing.T) {
		body := []byte(`{"lead_id":"` + leadID + `","event":"converted"}`)
		w := post(body, Sign(body, testWebhookSecret))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"success":true,"status":"converted"}`, w.Body.String())
	})

	t.Run("second transition conflicts", func(t *testing.T) {
		body := []byte(`{"lead_id":"` + leadID + `","event":"returned"}`)
		assert.Equal(t, http.StatusConflict, post(body, Sign(body, testWebhookSecret)).Code)
	})
}

func TestSignMatchesSHA256OfBodyAndSecret(t *testing.T) {
	// sha256("abc") with an empty secret
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Sign([]byte("abc"), ""))
	assert.Equal(t, Sign([]byte("abcxyz"), ""), Sign([]byte("abc"), "xyz"))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, ratelimit.Nop{})

	w := srv.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[HealthResponse](t, w)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "not configured", body.Dependencies["rabbitmq"])
}
