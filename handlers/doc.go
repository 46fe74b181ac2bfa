// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for read-only access to polls.

Polls are created, voted on, and deleted through chat interactions; HTTP only
exposes their current state. PollHandler takes anything that satisfies
PollReader, which *store.Store does:

	pollHandler := handlers.NewPollHandler(st)

# Endpoints

	GET /health           → Health (503 when the database ping fails)
	GET /polls/{id}       → GetPoll (models.PollResultsResponse)
	GET /polls/{id}/text  → GetPollText (render.Text output)

Percentages use render.Percent, so they always match what the chat message
shows.

# Errors

	400  poll id is not a positive integer
	404  poll does not exist
	500  store failure (logged with poll_id)
*/
package handlers
