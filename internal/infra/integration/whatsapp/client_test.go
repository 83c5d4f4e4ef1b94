package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendMessagePostsTemplate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PHONE/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "PHONE", srv.URL, time.Second, zap.NewNop())
	err := c.SendMessage(context.Background(), SendMessageInput{
		PhoneNumber:  "972501234567",
		TemplateName: "lead_assigned",
		Parameters:   []string{"Dana 050-1234567"},
	})

	require.NoError(t, err)
	assert.Equal(t, "972501234567", got["to"])
	tmpl := got["template"].(map[string]any)
	assert.Equal(t, "lead_assigned", tmpl["name"])
}

func TestSendMessageWithoutCredentialsMakesNoCall(t *testing.T) {
	c := NewClient("", "", "http://127.0.0.1:0", time.Second, zap.NewNop())
	err := c.SendMessage(context.Background(), SendMessageInput{PhoneNumber: "1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendMessageSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad template","code":132001}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "PHONE", srv.URL, time.Second, zap.NewNop())
	err := c.SendMessage(context.Background(), SendMessageInput{PhoneNumber: "1", TemplateName: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad template")
}
