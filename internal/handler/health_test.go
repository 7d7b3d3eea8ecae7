package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/clients-service/internal/handler"
)

// stubPinger implements handler.Pinger for health endpoints.
type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func newHealthEngine(p handler.Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// nil service: only health routes are exercised here
	handler.Register(r, p, nil, zerolog.New(io.Discard))
	return r
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		pinger handler.Pinger
		method string
		path   string
		want   int
	}{
		{"liveness root", stubPinger{}, http.MethodGet, "/live", http.StatusOK},
		{"liveness grouped", stubPinger{}, http.MethodGet, "/health/live", http.StatusOK},
		{"readiness root ok", stubPinger{}, http.MethodGet, "/ready", http.StatusOK},
		{"readiness grouped ok", stubPinger{}, http.MethodGet, "/health/ready", http.StatusOK},
		{"readiness root down", stubPinger{err: errors.New("db down")}, http.MethodGet, "/ready", http.StatusServiceUnavailable},
		{"readiness grouped down", stubPinger{err: errors.New("db down")}, http.MethodGet, "/health/ready", http.StatusServiceUnavailable},
		{"liveness ignores store", stubPinger{err: errors.New("db down")}, http.MethodGet, "/live", http.StatusOK},
		{"unknown path", stubPinger{}, http.MethodGet, "/no-such", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newHealthEngine(tc.pinger)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("expected status %d, got %d, body=%s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestReadiness_HidesDriverError(t *testing.T) {
	r := newHealthEngine(stubPinger{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if body := w.Body.String(); body == "" || strings.Contains(body, "10.0.0.5") {
		t.Fatalf("driver error leaked: %s", body)
	}
}

func TestReadiness_NilStore(t *testing.T) {
	r := newHealthEngine(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestReadiness_MethodNotAllowed(t *testing.T) {
	r := newHealthEngine(stubPinger{})
	w := httptest.NewRecorder()
	// Gin by default returns 404 for unknown method if route only registered for GET.
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health/ready", nil))
	if w.Code != http.StatusNotFound && w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 404 or 405, got %d", w.Code)
	}
}
