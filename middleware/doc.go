// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides event isolation, HTTP middleware, and helper functions.

# Platform Events

Every gateway event runs through HandleEvent:

	middleware.HandleEvent(ctx, "vote", func(ctx context.Context) {
		controller.Vote(ctx, ix, ev)
	}, "poll_id", ev.PollID)

Each event gets a random event_id (google/uuid) that appears on its start and
completion log lines together with duration_ms. A panic inside the handler is
logged with its stack and does not reach the gateway, so one failing poll
never stops event handling for the others.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).
WithRecovery converts a handler panic into a 500 JSON error.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
*/
package middleware
