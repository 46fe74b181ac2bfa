// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/testutil"
)

func serve(h http.HandlerFunc, pattern, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestGetPoll(t *testing.T) {
	st, conn := testutil.SetupTestStore(t)
	handler := NewPollHandler(st)

	pollID := testutil.CreateTestPoll(t, st, "Lunch?", "Pizza", "Tacos", "Sushi")
	ids := testutil.OptionIDs(t, st, pollID)
	for _, user := range []string{"u1", "u2", "u3"} {
		if _, err := st.RecordVote(context.Background(), pollID, user, ids[0], true); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.RecordVote(context.Background(), pollID, "u1", ids[1], true); err != nil {
		t.Fatal(err)
	}
	testutil.AssertVoteCounts(t, conn, pollID)

	w := serve(handler.GetPoll, "GET /polls/{id}", "/polls/"+itoa(pollID))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.PollResultsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Question != "Lunch?" || resp.TotalVotes != 4 {
		t.Errorf("Unexpected poll: %+v", resp)
	}
	want := []struct {
		label   string
		votes   int
		percent int
	}{{"Pizza", 3, 75}, {"Tacos", 1, 25}, {"Sushi", 0, 0}}
	if len(resp.Options) != len(want) {
		t.Fatalf("Expected %d options, got %d", len(want), len(resp.Options))
	}
	for i, exp := range want {
		got := resp.Options[i]
		if got.Label != exp.label || got.Votes != exp.votes || got.Percent != exp.percent {
			t.Errorf("option %d = %+v, want %+v", i, got, exp)
		}
	}
}

func TestGetPoll_Errors(t *testing.T) {
	st, _ := testutil.SetupTestStore(t)
	handler := NewPollHandler(st)

	testCases := []struct {
		name       string
		path       string
		statusCode int
	}{
		{"not a number", "/polls/abc", http.StatusBadRequest},
		{"zero", "/polls/0", http.StatusBadRequest},
		{"missing poll", "/polls/9999", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(handler.GetPoll, "GET /polls/{id}", tc.path)
			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
		})
	}
}

func TestGetPollText(t *testing.T) {
	st, _ := testutil.SetupTestStore(t)
	handler := NewPollHandler(st)
	pollID := testutil.CreateTestPoll(t, st, "Lunch?", "Pizza", "Tacos")

	w := serve(handler.GetPollText, "GET /polls/{id}/text", "/polls/"+itoa(pollID)+"/text")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "**Lunch?**") || !strings.HasSuffix(body, "Poll ID: "+itoa(pollID)) {
		t.Errorf("Unexpected text:\n%s", body)
	}
}

type failingStore struct{}

func (failingStore) GetPoll(ctx context.Context, pollID int64) (models.PollData, error) {
	return models.PollData{}, errors.New("connection refused")
}

func (failingStore) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestHealth(t *testing.T) {
	st, _ := testutil.SetupTestStore(t)

	w := serve(NewPollHandler(st).Health, "GET /health", "/health")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("Expected 200 OK, got %d %q", w.Code, w.Body.String())
	}

	w = serve(NewPollHandler(failingStore{}).Health, "GET /health", "/health")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestGetPoll_StoreFailure(t *testing.T) {
	handler := NewPollHandler(failingStore{})

	w := serve(handler.GetPoll, "GET /polls/{id}", "/polls/1")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
