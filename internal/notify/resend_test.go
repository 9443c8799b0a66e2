package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendClient_SendBuildsCorrectRequest(t *testing.T) {
	var received struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}
	var gotAuth, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer server.Close()

	client := NewResendClient(server.URL, "test-key", "SEEKHO <onboarding@resend.dev>")

	err := client.Send(context.Background(), "a@x.com", "123456", "Ann")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/emails", gotPath)
	assert.Equal(t, []string{"a@x.com"}, received.To)
	assert.Contains(t, received.Subject, "SEEKHO")
	assert.Contains(t, received.HTML, "123456")
	assert.Contains(t, received.HTML, "Ann")
}

func TestResendClient_EmptyNameGetsFallbackGreeting(t *testing.T) {
	var html string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		html, _ = payload["html"].(string)
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer server.Close()

	client := NewResendClient(server.URL, "test-key", "SEEKHO <onboarding@resend.dev>")

	require.NoError(t, client.Send(context.Background(), "a@x.com", "123456", "  "))
	assert.Contains(t, html, "Welcome to SEEKHO, there!")
}

func TestResendClient_APIErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	client := NewResendClient(server.URL, "test-key", "broken")

	err := client.Send(context.Background(), "a@x.com", "123456", "Ann")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestResendClient_NotConfigured(t *testing.T) {
	client := NewResendClient("", "", "SEEKHO <onboarding@resend.dev>")

	err := client.Send(context.Background(), "a@x.com", "123456", "Ann")
	assert.Error(t, err)
}
