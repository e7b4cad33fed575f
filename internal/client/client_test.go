package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"garageclient/internal/domain"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClientAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Session: staticToken("tok-123")})
	if _, _, err := c.do(context.Background(), http.MethodGet, "/api/items", nil, nil); err != nil {
		t.Fatalf("do returned error: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("every request must carry an X-Request-ID")
	}
}

func TestClientNoBearerWithoutSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	if _, _, err := c.do(context.Background(), http.MethodGet, "/", nil, nil); err != nil {
		t.Fatalf("do returned error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestClientRetriesIdempotentCalls(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, MaxRetries: 2})
	status, _, err := c.do(context.Background(), http.MethodGet, "/", nil, nil)
	if err != nil {
		t.Fatalf("do returned error: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 after retry", status)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestClientNeverRetriesPost(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"boom"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, MaxRetries: 3})
	status, body, err := c.do(context.Background(), http.MethodPost, "/", nil, map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("a settled 5xx must surface its response, got err %v", err)
	}
	if status != http.StatusInternalServerError || len(body) == 0 {
		t.Fatalf("status = %d body %q", status, body)
	}
	if calls.Load() != 1 {
		t.Fatalf("POST must not be retried, calls = %d", calls.Load())
	}
}

func TestClientBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Timeout: time.Second})
	ctx := context.Background()

	// POST fails fast (no retry); six consecutive failures trip the
	// breaker, the next call is rejected without reaching the server.
	for i := 0; i < 6; i++ {
		c.do(ctx, http.MethodPost, "/", nil, nil)
	}

	_, _, err := c.do(ctx, http.MethodPost, "/", nil, nil)
	if !domain.IsTransport(err) {
		t.Fatalf("expected TransportError once breaker is open, got %v", err)
	}
}

func TestClientTransportFailure(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond, MaxRetries: 1})
	_, _, err := c.do(context.Background(), http.MethodPost, "/", nil, nil)
	if !domain.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}
