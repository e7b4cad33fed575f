package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"garageclient/internal/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 4 << 20

// TokenSource supplies the current bearer token. An empty string means
// "no credentials"; requests then go out unauthenticated.
type TokenSource interface {
	Token() string
}

// Config holds client construction options.
type Config struct {
	BaseURL string
	// Session supplies credentials; nil sends unauthenticated requests.
	Session TokenSource
	Timeout time.Duration
	// MaxRetries bounds retry attempts for idempotent methods (GET/DELETE).
	// POST/PUT are never retried.
	MaxRetries uint64
	// RateLimit caps outgoing requests per second; 0 picks a default.
	RateLimit rate.Limit
	Burst     int
	// HTTPClient overrides the default instrumented client (tests).
	HTTPClient *http.Client
}

// Client is the single configured transport every resource service runs
// through. It attaches credentials, retries idempotent calls, rate-limits
// and circuit-breaks, and traces each request.
type Client struct {
	baseURL    string
	http       *http.Client
	session    TokenSource
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	maxRetries uint64
}

// New builds a Client. The base URL should include the scheme and host,
// e.g. "http://localhost:8080".
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	limit := cfg.RateLimit
	if limit == 0 {
		limit = 50
	}
	burst := cfg.Burst
	if burst == 0 {
		burst = 100
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 2
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "garage-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       httpClient,
		session:    cfg.Session,
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    breaker,
		maxRetries: maxRetries,
	}
}

// httpResult carries a settled response through the breaker.
type httpResult struct {
	status int
	body   []byte
}

// httpError marks a 5xx response so the breaker and retry loop treat it as
// a failure while keeping the body for the caller.
type httpError struct {
	status int
	body   []byte
}

func (e *httpError) Error() string {
	return fmt.Sprintf("server returned status %d", e.status)
}

// do performs one logical request: rate limit, breaker, retry, credential
// attachment. It returns the final status and body; err is non-nil only
// for transport-level failures where no usable response exists.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, domain.TransportError{Msg: "rate limit wait aborted", Err: err}
	}

	retryable := method == http.MethodGet || method == http.MethodDelete

	res, err := c.breaker.Execute(func() (any, error) {
		var last *httpResult

		attempt := func() error {
			status, body, err := c.once(ctx, method, path, query, payload)
			if err != nil {
				if !retryable {
					return backoff.Permanent(err)
				}
				return err
			}
			if status >= 500 {
				he := &httpError{status: status, body: body}
				if !retryable {
					return backoff.Permanent(error(he))
				}
				return he
			}
			last = &httpResult{status: status, body: body}
			return nil
		}

		var err error
		if retryable {
			bo := backoff.WithContext(
				backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
			err = backoff.Retry(attempt, bo)
		} else {
			err = attempt()
		}
		if err != nil {
			return nil, err
		}
		return *last, nil
	})

	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			// Retries exhausted on 5xx; the response is still usable.
			return he.status, he.body, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, nil, domain.TransportError{Msg: "service temporarily unavailable", Err: err}
		}
		return 0, nil, domain.TransportError{Msg: "request failed", Err: err}
	}

	r := res.(httpResult)
	return r.status, r.body, nil
}

// once performs a single HTTP exchange.
func (c *Client) once(ctx context.Context, method, path string, query url.Values, payload any) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, raw, nil
}

// JSON performs a request and decodes the raw body into out. Resource
// services use the typed Outcome path instead; this exists for endpoints
// outside the resource contract (login, health).
func (c *Client) JSON(ctx context.Context, method, path string, query url.Values, payload, out any) (int, error) {
	status, body, err := c.do(ctx, method, path, query, payload)
	if err != nil {
		return 0, err
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return status, domain.TransportError{Msg: "unrecognized response shape", Err: err}
		}
	}
	return status, nil
}
