package emailapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadflow/internal/infra/mail"
)

func TestSendAddressesAllRecipientsInOneRequest(t *testing.T) {
	calls := 0
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", time.Second)
	err := c.Send(context.Background(), mail.Message{
		From:    "leads@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "New lead",
		HTML:    "<p>hi</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, got.To)
	assert.Equal(t, "<p>hi</p>", got.HTML)
}

func TestSendNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "bad", time.Second).Send(context.Background(), mail.Message{To: []string{"a@example.com"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendRespectsTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	err := NewClient(srv.URL, "key", 50*time.Millisecond).Send(context.Background(), mail.Message{To: []string{"a@example.com"}})
	assert.Error(t, err)
}
