package backend

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

	"storefront/internal/platform/logger"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/circuit"
	"storefront/pkg/requestcontext"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client()), WithLogger(logger.Discard())}, opts...)
	return New(srv.URL, opts...)
}

func TestClient_StatusNormalization(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   dErrors.Code
		msg    string
	}{
		{"bad request with description", http.StatusBadRequest, `{"error":"invalid","error_description":"email is malformed"}`, dErrors.CodeBadRequest, "email is malformed"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"message":"quantity must be positive"}`, dErrors.CodeBadRequest, "quantity must be positive"},
		{"unauthorized", http.StatusUnauthorized, `{"error":"token expired"}`, dErrors.CodeUnauthorized, "token expired"},
		{"forbidden", http.StatusForbidden, ``, dErrors.CodeUnauthorized, "Forbidden"},
		{"not found", http.StatusNotFound, `not json`, dErrors.CodeNotFound, "Not Found"},
		{"rate limited", http.StatusTooManyRequests, ``, dErrors.CodeUnavailable, "Too Many Requests"},
		{"server error", http.StatusBadGateway, ``, dErrors.CodeUnavailable, "Bad Gateway"},
		{"teapot", http.StatusTeapot, ``, dErrors.CodeInternal, "I'm a teapot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)

			require.Error(t, err)
			assert.Equal(t, tt.code, dErrors.CodeOf(err))
			var de *dErrors.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.msg, de.Message)
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestClient_SendsHeadersAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "jane@example.com", r.URL.Query().Get("email"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "v", in["k"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	ctx := requestcontext.WithRequestID(context.Background(), "req-1")

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/customers",
		Query:  map[string][]string{"email": {"jane@example.com"}},
		Body:   map[string]string{"k": "v"},
		Bearer: "tok",
	}, &out)

	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestClient_MalformedBodyIsInternal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":`))
	})
	var out map[string]any
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, &out)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestClient_UnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithLogger(logger.Discard()))
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestClient_BreakerShortCircuits(t *testing.T) {
	var calls atomic.Int32
	breaker := circuit.New("backend", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithBreaker(breaker))

	for range 3 {
		err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	}

	assert.Equal(t, int32(2), calls.Load(), "third call is rejected without a request")
	assert.True(t, breaker.IsOpen())
}

func TestClient_ClientErrorsKeepBreakerClosed(t *testing.T) {
	breaker := circuit.New("backend", circuit.WithFailureThreshold(1))
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, WithBreaker(breaker))

	_ = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)
	assert.False(t, breaker.IsOpen())
}
