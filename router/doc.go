// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the bot's HTTP routes.

# Route Registration

NewRouter returns the handler served on PORT:

	handler := router.NewRouter(st)

The mux is wrapped in middleware.WithRecovery.

# Endpoints

Health (pings the database):

	GET /health

Poll results (read-only):

	GET /polls/{id}      - Question, counts, and percentages as JSON
	GET /polls/{id}/text - The poll as rendered in chat

Root:

	GET / - Banner
*/
package router
