// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/pollbot/handlers"
	"github.com/danielhkuo/pollbot/middleware"
)

func NewRouter(store handlers.PollReader) http.Handler {
	mux := http.NewServeMux()

	pollHandler := handlers.NewPollHandler(store)

	// Health check
	mux.HandleFunc("GET /health", pollHandler.Health)

	// Poll results (read-only; polls are created and voted on in chat)
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("GET /polls/{id}/text", middleware.WithLogging(pollHandler.GetPollText))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollbot API v1"))
	})

	return middleware.WithRecovery(mux)
}
