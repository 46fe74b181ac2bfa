// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Vote policies
const (
	PolicyToggle VotePolicy = "toggle"
	PolicyWarn   VotePolicy = "warn"
)

// VotePolicy selects how a repeated press on the same option is treated.
type VotePolicy string

// Valid reports whether p is a known policy.
func (p VotePolicy) Valid() bool {
	return p == PolicyToggle || p == PolicyWarn
}

// VoteOutcome is the result of a single vote action against the store.
type VoteOutcome int

const (
	VoteRecorded VoteOutcome = iota + 1
	VoteRemoved
	VoteRejected
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteRecorded:
		return "recorded"
	case VoteRemoved:
		return "removed"
	case VoteRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Domain types

type Poll struct {
	ID       int64  `json:"poll_id"`
	Question string `json:"question"`
	ScopeID  string `json:"server_id,omitempty"`
}

type Option struct {
	ID     int64  `json:"option_id"`
	PollID int64  `json:"poll_id"`
	Label  string `json:"option"`
	Votes  int    `json:"votes"`
}

type Vote struct {
	PollID   int64  `json:"poll_id"`
	UserID   string `json:"user_id"`
	OptionID int64  `json:"option_id"`
}

// PollData is a poll with its options in display order.
type PollData struct {
	PollID   int64    `json:"poll_id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// TotalVotes sums the vote counts of all options.
func (p PollData) TotalVotes() int {
	total := 0
	for _, opt := range p.Options {
		total += opt.Votes
	}
	return total
}

// Option returns the option with the given ID.
func (p PollData) Option(optionID int64) (Option, bool) {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return Option{}, false
}

// Vote engine types

type VoteRequest struct {
	PollID   int64
	UserID   string
	OptionID int64
}

type VoteResult struct {
	Outcome VoteOutcome
	// Set when Outcome is VoteRejected.
	OptionLabel string
	Warning     string
}

// Platform events

// Actor is the user behind an interaction, as reported by the platform.
type Actor struct {
	UserID  string
	ScopeID string // server the interaction came from; empty in DMs
	IsAdmin bool
}

type CreatePollCommand struct {
	Actor     Actor
	ChannelID string
	Question  string
	Options   string // comma separated
}

type VoteEvent struct {
	Actor     Actor
	ChannelID string
	MessageID string
	PollID    int64
	OptionID  int64
}

// DeleteEvent is a press of the delete control on a live poll message.
type DeleteEvent struct {
	Actor     Actor
	ChannelID string
	MessageID string
	PollID    int64
}

// DeleteCommand is the deletepoll slash command; the message is located by scanning.
type DeleteCommand struct {
	Actor  Actor
	PollID int64
}

type ConfirmEvent struct {
	Actor     Actor
	PollID    int64
	ChannelID string
	MessageID string
	Value     string
}

// HistoryMessage is a previously sent message read back from a channel.
type HistoryMessage struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
}

// HTTP responses

// PollResultsResponse is the JSON view of a poll's current counts.
type PollResultsResponse struct {
	PollID     int64          `json:"poll_id"`
	Question   string         `json:"question"`
	TotalVotes int            `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

type OptionResult struct {
	OptionID int64  `json:"option_id"`
	Label    string `json:"option"`
	Votes    int    `json:"votes"`
	Percent  int    `json:"percent"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
