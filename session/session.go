// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"sync"

	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/render"
)

type State int

const (
	StateUninitialized State = iota
	StateActive
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Session binds one poll to the message that displays it. Refreshing and
// editing hold the session lock, so renders of one poll reach the platform
// in the order they were read from the store.
type Session struct {
	pollID     int64
	channelID  string
	showDelete bool

	mu        sync.Mutex
	messageID string
	state     State
	data      models.PollData
	votes     map[int64]bool
}

func newSession(pollID int64, channelID, messageID string, showDelete bool) *Session {
	return &Session{
		pollID:     pollID,
		channelID:  channelID,
		messageID:  messageID,
		showDelete: showDelete,
		votes:      map[int64]bool{},
	}
}

func (s *Session) PollID() int64     { return s.pollID }
func (s *Session) ChannelID() string { return s.channelID }

func (s *Session) MessageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageID
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Data returns the poll state from the last refresh.
func (s *Session) Data() models.PollData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Refresh re-reads the poll and the viewer's votes. An empty viewerID renders
// without checkmarks.
func (s *Session) Refresh(ctx context.Context, st Store, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, st, viewerID)
}

// Message renders the state from the last refresh.
func (s *Session) Message() render.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render()
}

// load requires s.mu.
func (s *Session) load(ctx context.Context, st Store, viewerID string) error {
	data, err := st.GetPoll(ctx, s.pollID)
	if err != nil {
		return err
	}

	votes := map[int64]bool{}
	if viewerID != "" {
		votes, err = st.GetUserVotes(ctx, s.pollID, viewerID)
		if err != nil {
			return err
		}
	}

	s.data = data
	s.votes = votes
	return nil
}

// render requires s.mu.
func (s *Session) render() render.Message {
	return render.Poll(s.data, s.votes, s.showDelete)
}

func (s *Session) activate(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageID = messageID
	s.state = StateActive
}

func (s *Session) markDeleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDeleted
}
