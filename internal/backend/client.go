// Package backend is the JSON-over-HTTPS client for the commerce backend.
// Every failure leaving this package is a *domainerrors.Error, so callers
// branch on codes and never on status codes or net errors.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/circuit"
	"storefront/pkg/requestcontext"
)

const maxResponseBytes = 1 << 20

type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: circuit.New("backend"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one backend call.
type Request struct {
	Method         string
	Path           string
	Query          url.Values
	Body           any
	Bearer         string
	IdempotencyKey string
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

// Do sends req and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if !c.breaker.Allow() {
		return dErrors.New(dErrors.CodeUnavailable, "backend temporarily unavailable")
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build backend request")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.recordFailure(ctx)
		c.logger.WarnContext(ctx, "backend call failed",
			"method", req.Method,
			"path", req.Path,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "backend unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.recordFailure(ctx)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read backend response")
	}

	c.logger.DebugContext(ctx, "backend call",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		c.recordFailure(ctx)
		return normalizeStatus(resp.StatusCode, body)
	}
	c.recordSuccess(ctx)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeStatus(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "malformed backend response")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Bearer)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}
	return httpReq, nil
}

func (c *Client) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "backend circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "backend circuit closed", "breaker", c.breaker.Name())
	}
}

// normalizeStatus maps a non-2xx response onto the error taxonomy.
func normalizeStatus(status int, body []byte) error {
	msg := http.StatusText(status)
	var er errorResponse
	if json.Unmarshal(body, &er) == nil {
		switch {
		case er.ErrorDescription != "":
			msg = er.ErrorDescription
		case er.Message != "":
			msg = er.Message
		case er.Error != "":
			msg = er.Error
		}
	}
	cause := &StatusError{Status: status}

	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity, status == http.StatusConflict:
		return dErrors.Wrap(cause, dErrors.CodeBadRequest, msg)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return dErrors.Wrap(cause, dErrors.CodeUnauthorized, msg)
	case status == http.StatusNotFound:
		return dErrors.Wrap(cause, dErrors.CodeNotFound, msg)
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return dErrors.Wrap(cause, dErrors.CodeUnavailable, msg)
	default:
		return dErrors.Wrap(cause, dErrors.CodeInternal, msg)
	}
}

// StatusError keeps the raw status for logs.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
