// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack:

  - Trace: RequestID reuses or mints the X-Request-ID correlation value.
  - Log: StructuredLogger injects a per-request slog logger and logs the outcome.
  - Guard: RateLimit, CORS and MaxBodyBytes protect the catalogue endpoints.
  - Safe: PanicRecovery turns a handler panic into a 500 envelope.

Every rejection is written with the same JSON envelope the handlers use.
*/
package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/constants"
	"github.com/taibuivan/cinemateca/internal/platform/ctxutil"
	"github.com/taibuivan/cinemateca/internal/platform/respond"
	"github.com/taibuivan/cinemateca/pkg/uuid"
)

// maxRequestIDLength caps a client supplied X-Request-ID before it reaches the logs.
const maxRequestIDLength = 64

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := strings.TrimSpace(request.Header.Get(constants.HeaderXRequestID))
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// # Activity Logging

// statusRecorder remembers the status code and counts body bytes.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *statusRecorder) Write(body []byte) (int, error) {
	written, err := recorder.ResponseWriter.Write(body)
	recorder.bytes += written
	return written, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

/*
StructuredLogger injects a request-scoped logger and logs every finished request.

Description: Probe traffic (/health, /ready) is logged at debug level so
orchestrator polling does not drown the catalogue traffic. Image responses
are logged like any other request, with their byte count.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			requestLogger.Log(ctx, levelFor(request.URL.Path, recorder.status), "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

func levelFor(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case path == "/health" || path == "/ready":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// # Rate Limiting

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors holds one token bucket per client IP.
type visitors struct {
	mu      sync.Mutex
	byIP    map[string]*visitor
	perSec  rate.Limit
	burst   int
	idleTTL time.Duration
}

func (registry *visitors) get(ip string, now time.Time) *rate.Limiter {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	entry, ok := registry.byIP[ip]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(registry.perSec, registry.burst)}
		registry.byIP[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (registry *visitors) sweep(now time.Time) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for ip, entry := range registry.byIP {
		if now.Sub(entry.lastSeen) > registry.idleTTL {
			delete(registry.byIP, ip)
		}
	}
}

/*
RateLimit limits requests per client IP with a token bucket.

Description: Idle buckets are swept in the background until context is
cancelled. A rejected request gets 429 with a Retry-After header.

Parameters:
  - context: context.Context (server lifetime)

Returns:
  - func(http.Handler) http.Handler
*/
func RateLimit(context context.Context) func(http.Handler) http.Handler {
	registry := &visitors{
		byIP:    make(map[string]*visitor),
		perSec:  rate.Limit(constants.DefaultRateLimitRPS),
		burst:   constants.DefaultRateLimitBurst,
		idleTTL: constants.RateLimitClientTTL,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				registry.sweep(now)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			now := time.Now()
			reservation := registry.get(RealIP(request), now).ReserveN(now, 1)

			if delay := reservation.DelayFrom(now); !reservation.OK() || delay > 0 {
				reservation.CancelAt(now)

				seconds := int(math.Ceil(delay.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				writer.Header().Set("Retry-After", strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs the stack trace, and returns 500.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				requestLogger := ctxutil.GetLogger(request.Context())
				if requestLogger == slog.Default() {
					requestLogger = logger
				}
				requestLogger.ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(stack)),
				)

				respond.Error(writer, request, apperr.Internal(nil))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	CORSOriginSuffix() string
}

// originAllowed trusts every origin in development and the configured suffix otherwise.
func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	suffix := cfg.CORSOriginSuffix()
	return suffix != "" && strings.HasSuffix(origin, suffix)
}

// CORS handles Cross-Origin Resource Sharing for the catalogue front end.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Add("Vary", constants.HeaderOrigin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Max-Age", "300")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Upload Guard

// MaxBodyBytes caps the request body. Multipart parsing beyond the limit fails
// with [http.MaxBytesError], which handlers map to 413.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if limit > 0 && request.Body != nil {
				request.Body = http.MaxBytesReader(writer, request.Body, limit)
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Middleware Helpers

// RealIP extracts the client IP, respecting common proxy headers.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
