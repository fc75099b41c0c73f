// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemateca/internal/platform/middleware"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

type corsConfig struct {
	development bool
	suffix      string
}

func (cfg corsConfig) IsDevelopment() bool      { return cfg.development }
func (cfg corsConfig) CORSOriginSuffix() string { return cfg.suffix }

/*
TestRequestID reuses a sane client ID and replaces a missing or oversized one.
*/
func TestRequestID(t *testing.T) {
	handler := middleware.RequestID()(okHandler)

	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{"Client supplied", "req-123", true},
		{"Missing", "", false},
		{"Oversized", strings.Repeat("x", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("X-Request-ID", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			got := recorder.Header().Get("X-Request-ID")
			require.NotEmpty(t, got)
			assert.Equal(t, tt.reused, got == tt.header)
		})
	}
}

/*
TestRateLimit rejects a burst beyond the bucket with 429 and Retry-After.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx)(okHandler)

	var limited *httptest.ResponseRecorder
	for range 1000 {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
		request.RemoteAddr = "203.0.113.7:5000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		if recorder.Code == http.StatusTooManyRequests {
			limited = recorder
			break
		}
	}

	require.NotNil(t, limited)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "RATE_LIMITED")

	// Another client has its own bucket
	request := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
	request.RemoteAddr = "198.51.100.1:5000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestPanicRecovery answers 500 with the error envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("poster decoder exploded")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, recorder.Body.String(), "exploded")
}

/*
TestCORS allows every origin in development and only the suffix otherwise.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     corsConfig
		origin  string
		allowed bool
	}{
		{"Development", corsConfig{development: true}, "http://localhost:5173", true},
		{"Trusted suffix", corsConfig{suffix: ".cinemateca.app"}, "https://www.cinemateca.app", true},
		{"Foreign origin", corsConfig{suffix: ".cinemateca.app"}, "https://evil.example", false},
		{"No suffix configured", corsConfig{}, "https://www.cinemateca.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, "/api/v1/movies", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			middleware.CORS(tt.cfg)(okHandler).ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRealIP prefers proxy headers over the socket address.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", middleware.RealIP(request))
}
