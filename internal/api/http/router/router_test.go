package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/levelkeeper/internal/testutil"
)

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name     string
		ping     error
		wantCode int
		wantBody string
	}{
		{
			name:     "store reachable",
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok"}`,
		},
		{
			name:     "store down",
			ping:     errors.New("connection refused"),
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"unavailable","error":"connection refused"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := PingFunc(func(ctx context.Context) error {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				return tt.ping
			})
			h := New(pinger, prometheus.NewRegistry(), testutil.MakeNoopLogger()).Register()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "levelkeeper_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	h := New(PingFunc(func(context.Context) error { return nil }), reg, testutil.MakeNoopLogger()).Register()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "levelkeeper_test_total 1")
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := New(PingFunc(func(context.Context) error { return nil }), prometheus.NewRegistry(), testutil.MakeNoopLogger()).Register()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
