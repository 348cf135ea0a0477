package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orders-backend/internal/supabase"
)

func TestRealtimeClient_PublishInvalidation(t *testing.T) {
	var got map[string]any
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realtime/v1/api/broadcast", r.URL.Path)
		apiKey = r.Header.Get("apikey")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := supabase.NewRealtimeClient(server.URL+"/", "anon-key")
	require.NoError(t, client.PublishInvalidation(context.Background(), "orders"))

	assert.Equal(t, "anon-key", apiKey)
	messages := got["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "cache:orders", msg["topic"])
	assert.Equal(t, "invalidate", msg["event"])
	assert.Equal(t, map[string]any{"tag": "orders"}, msg["payload"])
}

func TestRealtimeClient_RejectedBroadcast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := supabase.NewRealtimeClient(server.URL, "bad-key").WithBackoffs(time.Millisecond)
	err := client.PublishInvalidation(context.Background(), "products")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestRealtimeClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := supabase.NewRealtimeClient(server.URL, "anon-key").WithBackoffs(time.Millisecond, time.Millisecond)
	require.NoError(t, client.PublishInvalidation(context.Background(), "orders"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRealtimeClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := supabase.NewRealtimeClient(server.URL, "anon-key").WithBackoffs(time.Millisecond, time.Millisecond)
	assert.Error(t, client.PublishInvalidation(context.Background(), "orders"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRealtimeClient_GivesUpAfterBackoffs(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := supabase.NewRealtimeClient(server.URL, "anon-key").WithBackoffs(time.Millisecond, time.Millisecond)
	err := client.PublishInvalidation(context.Background(), "orders")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, int32(3), calls.Load())
}
