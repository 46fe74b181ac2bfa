// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/pollbot/middleware"
	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/render"
)

// PollReader is the read side of the poll store.
type PollReader interface {
	GetPoll(ctx context.Context, pollID int64) (models.PollData, error)
	Ping(ctx context.Context) error
}

type PollHandler struct {
	store PollReader
}

func NewPollHandler(store PollReader) *PollHandler {
	return &PollHandler{store: store}
}

// GetPoll handles GET /polls/{id}
// Returns the question with per-option counts and percentages
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadPoll(w, r)
	if !ok {
		return
	}

	total := data.TotalVotes()
	resp := models.PollResultsResponse{
		PollID:     data.PollID,
		Question:   data.Question,
		TotalVotes: total,
		Options:    make([]models.OptionResult, 0, len(data.Options)),
	}
	for _, opt := range data.Options {
		resp.Options = append(resp.Options, models.OptionResult{
			OptionID: opt.ID,
			Label:    opt.Label,
			Votes:    opt.Votes,
			Percent:  render.Percent(opt.Votes, total),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetPollText handles GET /polls/{id}/text
// Returns the poll exactly as the bot renders it in chat
func (h *PollHandler) GetPollText(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadPoll(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(render.Text(data)))
}

// Health handles GET /health
func (h *PollHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *PollHandler) loadPoll(w http.ResponseWriter, r *http.Request) (models.PollData, bool) {
	pollID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || pollID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid poll id")
		return models.PollData{}, false
	}

	data, err := h.store.GetPoll(r.Context(), pollID)
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return models.PollData{}, false
	}
	if err != nil {
		slog.Error("failed to load poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.PollData{}, false
	}
	return data, true
}
