// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"strings"
	"testing"

	"github.com/danielhkuo/pollbot/models"
)

func testPoll(votes ...int) models.PollData {
	labels := []string{"Pizza", "Tacos", "Sushi"}
	data := models.PollData{PollID: 42, Question: "Lunch?"}
	for i, v := range votes {
		data.Options = append(data.Options, models.Option{ID: int64(i + 1), PollID: 42, Label: labels[i], Votes: v})
	}
	return data
}

func TestTextPercentages(t *testing.T) {
	got := Text(testPoll(3, 1))

	want := "**Lunch?**\n\nPoll Results:\nPizza: 3 votes - 75%\nTacos: 1 vote - 25%\n\nPoll ID: 42"
	if got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
}

func TestTextZeroVotes(t *testing.T) {
	got := Text(testPoll(0, 0, 0))

	if strings.Count(got, "0 votes - 0%") != 3 {
		t.Errorf("expected every option at 0%%, got:\n%s", got)
	}
}

func TestTextEndsWithMarker(t *testing.T) {
	got := Text(testPoll(1, 2))
	lines := strings.Split(got, "\n")
	if last := lines[len(lines)-1]; last != "Poll ID: 42" {
		t.Errorf("last line = %q, want %q", last, "Poll ID: 42")
	}
	if !strings.HasPrefix(got, "**Lunch?**") {
		t.Errorf("question should be bold, got %q", lines[0])
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		votes, total, want int
	}{
		{0, 0, 0},
		{3, 4, 75},
		{1, 4, 25},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{5, 5, 100},
	}

	for _, tt := range tests {
		if got := Percent(tt.votes, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.votes, tt.total, got, tt.want)
		}
	}
}

func TestControls(t *testing.T) {
	data := testPoll(1, 0)

	controls := Controls(data, map[int64]bool{1: true}, false)
	if len(controls) != 2 {
		t.Fatalf("expected 2 controls, got %d", len(controls))
	}
	if controls[0].Label != "Pizza ✔️" || controls[0].Style != StyleSuccess {
		t.Errorf("voted control = %+v", controls[0])
	}
	if controls[1].Label != "Tacos" || controls[1].Style != StylePrimary {
		t.Errorf("unvoted control = %+v", controls[1])
	}
	if controls[1].ID.Action != ActionVote || controls[1].ID.OptionID != 2 || controls[1].ID.PollID != 42 {
		t.Errorf("unexpected control id %+v", controls[1].ID)
	}

	withDelete := Controls(data, nil, true)
	if len(withDelete) != 3 {
		t.Fatalf("expected 3 controls with delete, got %d", len(withDelete))
	}
	last := withDelete[2]
	if last.ID.Action != ActionDelete || last.Style != StyleDanger || last.Label != "Delete Poll" {
		t.Errorf("delete control = %+v", last)
	}
}

func TestPollMessage(t *testing.T) {
	msg := Poll(testPoll(3, 1), nil, true)
	if msg.Content != Text(testPoll(3, 1)) {
		t.Error("Poll() content differs from Text()")
	}
	if len(msg.Controls) != 3 {
		t.Errorf("expected 3 controls, got %d", len(msg.Controls))
	}
}

func TestParsePollID(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int64
		wantOK  bool
	}{
		{"rendered", Text(testPoll(1, 1)), 42, true},
		{"legacy single line", "**Lunch?** Poll ID: 7", 7, true},
		{"trailing whitespace", "Poll ID: 42  ", 42, true},
		{"last marker wins", "Poll ID: 1\nPoll ID: 2", 2, true},
		{"no marker", "hello", 0, false},
		{"not a number", "Poll ID: abc", 0, false},
		{"zero", "Poll ID: 0", 0, false},
		{"empty", "Poll ID: ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePollID(tt.content)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParsePollID() = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
