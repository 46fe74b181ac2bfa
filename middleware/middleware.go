// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollbot/models"
)

// HandleEvent runs fn as one platform event. Every event gets an event_id in
// its log lines; a panic in fn is logged and swallowed so the gateway keeps
// dispatching other events.
func HandleEvent(ctx context.Context, event string, fn func(ctx context.Context), attrs ...any) {
	log := slog.With(append([]any{"event", event, "event_id", uuid.NewString()}, attrs...)...)
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("event handler panicked",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			return
		}
		log.Debug("event completed", "duration_ms", time.Since(start).Milliseconds())
	}()

	log.Debug("event started")
	fn(ctx)
}

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		next(w, r)

		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// WithRecovery turns a handler panic into a 500 response
func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("request panicked",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				ErrorResponse(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
