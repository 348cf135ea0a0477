package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const invalidateEvent = "invalidate"

// RealtimeClient publishes broadcast messages through the Supabase Realtime
// REST endpoint.
type RealtimeClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	backoffs   []time.Duration
}

func NewRealtimeClient(supabaseURL, apiKey string) *RealtimeClient {
	return &RealtimeClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(supabaseURL, "/"),
		apiKey:     apiKey,
		backoffs:   []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, time.Second},
	}
}

// WithBackoffs replaces the waits between retried broadcasts. An empty
// list disables retries.
func (r *RealtimeClient) WithBackoffs(backoffs ...time.Duration) *RealtimeClient {
	r.backoffs = backoffs
	return r
}

// statusError is a broadcast the server answered with a non-2xx status.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("broadcast rejected with status %d: %s", e.code, e.body)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// retryWithBackoff runs fn until it succeeds, fails with a non-retryable
// error, the backoffs are exhausted or ctx ends.
func (r *RealtimeClient) retryWithBackoff(ctx context.Context, fn func() error) error {
	err := fn()
	for i := 0; err != nil && i < len(r.backoffs) && retryable(err); i++ {
		t := time.NewTimer(r.backoffs[i])
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("broadcast abandoned: %w", err)
		case <-t.C:
		}
		err = fn()
	}
	return err
}

type broadcastMessage struct {
	Topic   string         `json:"topic"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
}

type broadcastRequest struct {
	Messages []broadcastMessage `json:"messages"`
}

// PublishEvent broadcasts one message, retrying transport failures and
// server errors.
func (r *RealtimeClient) PublishEvent(ctx context.Context, topic, event string, payload map[string]any) error {
	body, err := json.Marshal(broadcastRequest{
		Messages: []broadcastMessage{{Topic: topic, Event: event, Payload: payload}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode broadcast: %w", err)
	}

	return r.retryWithBackoff(ctx, func() error {
		return r.send(ctx, body)
	})
}

func (r *RealtimeClient) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/realtime/v1/api/broadcast", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create broadcast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send broadcast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
	}
	return nil
}

// CacheTopic is the realtime topic carrying invalidations for a cache tag.
func CacheTopic(tag string) string {
	return "cache:" + tag
}

// PublishInvalidation satisfies cache.Broadcaster.
func (r *RealtimeClient) PublishInvalidation(ctx context.Context, tag string) error {
	return r.PublishEvent(ctx, CacheTopic(tag), invalidateEvent, InvalidationPayload(tag))
}

func InvalidationPayload(tag string) map[string]any {
	return map[string]any{
		"tag": tag,
	}
}
